package animation

import "time"

// DefaultSpriteDelay is the per-frame delay used when a SpriteCycle leaves
// Delay unset.
const DefaultSpriteDelay = time.Second / 60

// SpriteCycle describes a delayed walk through a range of sprite-sheet frames.
type SpriteCycle struct {
	// StartAfter is how long after AnimateTo the first frame is shown.
	StartAfter time.Duration
	// Delay is the minimum time between frames.
	Delay time.Duration
	// From and To bound the frame range, inclusive.
	From int
	To   int
}

// spriteState is the sprite sub-animation of an OvershootAnimator. It runs
// independently of the position motion.
type spriteState struct {
	armed  bool
	index  int
	fireAt time.Time
	from   int
	to     int
	delay  time.Duration

	// drawn is false until the first frame is written, so the first
	// eligible tick always advances.
	drawn     bool
	lastFrame time.Time
}

func (s *spriteState) arm(now time.Time, c SpriteCycle) {
	delay := c.Delay
	if delay <= 0 {
		delay = DefaultSpriteDelay
	}
	*s = spriteState{
		armed:  true,
		index:  c.From,
		fireAt: now.Add(c.StartAfter),
		from:   c.From,
		to:     c.To,
		delay:  delay,
	}
}

func (s *spriteState) due(now time.Time) bool {
	return !now.Before(s.fireAt)
}

// tick writes the current frame once the per-frame delay has passed and
// advances. It reports false when the range is exhausted, leaving the state
// idle.
func (s *spriteState) tick(now time.Time, target FrameTarget) bool {
	if s.drawn && now.Before(s.lastFrame.Add(s.delay)) {
		return true
	}

	target.SetFrame(s.index)
	s.lastFrame = now
	s.drawn = true
	s.index++

	if s.index > s.to {
		*s = spriteState{}
		return false
	}
	return true
}
