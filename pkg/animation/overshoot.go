package animation

import "time"

// Target is an element with a mutable integer position.
type Target interface {
	Position() (x, y int)
	SetPosition(x, y int)
}

// FrameTarget is a Target that displays one frame of a sprite sheet.
type FrameTarget interface {
	Target
	SetFrame(index int)
}

const (
	// DefaultDuration is the motion length used by DefaultMove.
	DefaultDuration = time.Second
	// DefaultOvershoot is the overshoot distance used by DefaultMove.
	DefaultOvershoot = 20
)

// Move describes one call to AnimateTo.
type Move struct {
	// X and Y are the final position.
	X int
	Y int
	// Duration is the length of the position motion. Must be positive.
	Duration time.Duration
	// Overshoot is how far past the target to swing, in pixels.
	// Zero selects a plain ease-out.
	Overshoot int
	// Rate replaces the ease-out with linear progress/Rate when Overshoot is
	// zero. Zero leaves the ease-out in place; 1 is plain linear motion.
	Rate float64
	// Sprite optionally starts a frame cycle alongside the motion.
	Sprite *SpriteCycle
}

// DefaultMove returns a one second move to (x, y) with a 20 pixel overshoot.
func DefaultMove(x, y int) Move {
	return Move{
		X:         x,
		Y:         y,
		Duration:  DefaultDuration,
		Overshoot: DefaultOvershoot,
	}
}

// AnimatorOption configures an OvershootAnimator.
type AnimatorOption func(*OvershootAnimator)

// WithClock sets the time source for an animator.
func WithClock(c Clock) AnimatorOption {
	return func(a *OvershootAnimator) {
		if c != nil {
			a.clock = c
		}
	}
}

// OvershootAnimator moves one element to a target with an overshoot-and-settle
// curve, and optionally cycles its sprite frames at the same time.
//
// It never blocks: AnimateTo arms a motion and Tick, called once per frame,
// advances it. An animator is bound to one element for its whole life and
// may be re-armed any number of times. Only one caller may have it armed at
// once.
type OvershootAnimator struct {
	target Target
	frames FrameTarget
	clock  Clock

	posAnimating bool
	startTime    time.Time
	duration     time.Duration
	path         Path
	goalX, goalY int

	sprite spriteState
}

// NewOvershootAnimator creates an idle animator bound to target. Sprite
// cycles are honored only when target also implements FrameTarget.
func NewOvershootAnimator(target Target, opts ...AnimatorOption) *OvershootAnimator {
	a := &OvershootAnimator{
		target: target,
		clock:  DefaultClock(),
	}
	if ft, ok := target.(FrameTarget); ok {
		a.frames = ft
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Target returns the element this animator drives.
func (a *OvershootAnimator) Target() Target {
	return a.target
}

// AnimateTo starts a motion from the element's current position to (m.X, m.Y).
//
// When m.Sprite is set the sprite cycle is armed independently, even if the
// element is already at the target. If the element is already at the target
// no motion is armed and AnimateTo returns false; that is not an error.
func (a *OvershootAnimator) AnimateTo(m Move) bool {
	return a.AnimateToAt(a.clock.Now(), m)
}

// AnimateToAt is AnimateTo with an explicit current time.
func (a *OvershootAnimator) AnimateToAt(now time.Time, m Move) bool {
	if m.Sprite != nil && a.frames != nil {
		a.sprite.arm(now, *m.Sprite)
	}

	sx, sy := a.target.Position()
	path, ok := NewPath(Vec2Of(sx, sy), Vec2Of(m.X, m.Y), m.Overshoot, m.Rate)
	if !ok {
		return false
	}

	a.startTime = now
	a.duration = m.Duration
	a.path = path
	a.goalX, a.goalY = m.X, m.Y
	a.posAnimating = true
	return true
}

// Tick advances the sprite cycle and the position motion. It reports whether
// the animator is still active.
//
// A sprite cycle that finishes during this call makes Tick return false at
// once, even when the position motion is still in flight.
func (a *OvershootAnimator) Tick() bool {
	return a.TickAt(a.clock.Now())
}

// TickAt is Tick with an explicit current time. Times passed to successive
// calls must not go backward.
func (a *OvershootAnimator) TickAt(now time.Time) bool {
	if a.sprite.armed {
		if a.sprite.due(now) && !a.sprite.tick(now, a.frames) {
			return false
		}
		if !a.posAnimating {
			return true
		}
	} else if !a.posAnimating {
		return false
	}

	progress := a.progressAt(now)
	if progress >= 1.0 {
		if x, y := a.target.Position(); x != a.goalX || y != a.goalY {
			a.target.SetPosition(a.goalX, a.goalY)
		}
		a.posAnimating = false
		return a.sprite.armed
	}

	a.target.SetPosition(a.path.At(progress).Truncate())
	return true
}

func (a *OvershootAnimator) progressAt(now time.Time) float64 {
	if a.duration <= 0 {
		return 1
	}
	return float64(now.Sub(a.startTime)) / float64(a.duration)
}

// Progress returns the position motion's progress clamped to [0, 1], or 0
// when no motion is armed.
func (a *OvershootAnimator) Progress() float64 {
	if !a.posAnimating {
		return 0
	}
	return clampUnit(a.progressAt(a.clock.Now()))
}

// IsAnimating reports whether position motion is armed. The sprite cycle is
// not considered.
func (a *OvershootAnimator) IsAnimating() bool {
	return a.posAnimating
}

// Cancel stops the position motion where it is. A pending or running sprite
// cycle is left alone.
func (a *OvershootAnimator) Cancel() {
	a.posAnimating = false
}

// Stop disarms both the position motion and the sprite cycle, leaving the
// element where it is.
func (a *OvershootAnimator) Stop() {
	a.posAnimating = false
	a.sprite = spriteState{}
}

// SpriteIndex returns the next frame the sprite cycle will show, and whether
// a cycle is armed.
func (a *OvershootAnimator) SpriteIndex() (int, bool) {
	if !a.sprite.armed {
		return 0, false
	}
	return a.sprite.index, true
}

// Status reports which parts of the animator are armed.
func (a *OvershootAnimator) Status() AnimatorStatus {
	switch {
	case a.posAnimating && a.sprite.armed:
		return StatusMovingAndCycling
	case a.posAnimating:
		return StatusMoving
	case a.sprite.armed:
		return StatusCycling
	default:
		return StatusIdle
	}
}

// Path returns the geometry of the most recently armed motion.
func (a *OvershootAnimator) Path() Path {
	return a.path
}
