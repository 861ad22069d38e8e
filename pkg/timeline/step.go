package timeline

import (
	"fmt"
	"image"
	"time"

	"github.com/go-drift/marquee/pkg/animation"
	"github.com/go-drift/marquee/pkg/graphics"
)

// Step is one scheduled unit of a timeline. The only implementations are
// *MoveStep and *PaletteSwapStep.
type Step interface {
	// StartAt is the offset from the loop epoch at which the step fires.
	StartAt() time.Duration
	// Started reports whether the step has fired in the current loop.
	Started() bool
	// Name identifies the step in logs and events.
	Name() string
	// Kind names the step variant.
	Kind() string

	setStarted(bool)
}

// Shaded is an element whose palette can be swapped.
type Shaded interface {
	SetPalette(p *graphics.Palette)
}

// SpriteRange selects the frames a MoveStep cycles through.
type SpriteRange struct {
	// From and To bound the frames, inclusive.
	From int
	To   int
	// Delay is the minimum time between frames; zero means 1/60 s.
	Delay time.Duration
	// StartAfter is the time from the step firing to the first frame.
	StartAfter time.Duration
}

// MoveStep drives one animator from wherever its element is to Onscreen.
// Several MoveSteps may share an animator as long as their motions do not
// overlap in time.
type MoveStep struct {
	Tag      string
	Animator *animation.OvershootAnimator

	// Offscreen is where the element is parked between loops.
	Offscreen image.Point
	// Onscreen is the motion target.
	Onscreen image.Point

	Duration  time.Duration
	Overshoot int
	// Rate, when non-zero with no overshoot, makes the motion linear at
	// 1/Rate instead of easing out.
	Rate   float64
	Sprite *SpriteRange

	// At is the offset from the loop epoch at which the step fires.
	At time.Duration

	// Palettes, when set, registers the element's default palette and its
	// named variants for reset and palette swaps.
	Palettes *graphics.PaletteSet

	started bool
}

// StartAt returns At.
func (s *MoveStep) StartAt() time.Duration { return s.At }

// Started reports whether the step has fired in the current loop.
func (s *MoveStep) Started() bool { return s.started }

func (s *MoveStep) setStarted(v bool) { s.started = v }

// Name returns Tag, or a description when Tag is empty.
func (s *MoveStep) Name() string {
	if s.Tag != "" {
		return s.Tag
	}
	return fmt.Sprintf("move(%d,%d)@%v", s.Onscreen.X, s.Onscreen.Y, s.At)
}

// Kind returns "move".
func (s *MoveStep) Kind() string { return "move" }

// Element returns the element the step's animator drives.
func (s *MoveStep) Element() animation.Target {
	return s.Animator.Target()
}

// Move returns the animator parameters for this step.
func (s *MoveStep) Move() animation.Move {
	m := animation.Move{
		X:         s.Onscreen.X,
		Y:         s.Onscreen.Y,
		Duration:  s.Duration,
		Overshoot: s.Overshoot,
		Rate:      s.Rate,
	}
	if s.Sprite != nil {
		m.Sprite = &animation.SpriteCycle{
			StartAfter: s.Sprite.StartAfter,
			Delay:      s.Sprite.Delay,
			From:       s.Sprite.From,
			To:         s.Sprite.To,
		}
	}
	return m
}

// PaletteSwapStep switches every registered element that has a variant
// named Palette over to that variant.
type PaletteSwapStep struct {
	Tag     string
	Palette string
	At      time.Duration

	started bool
}

// StartAt returns At.
func (s *PaletteSwapStep) StartAt() time.Duration { return s.At }

// Started reports whether the step has fired in the current loop.
func (s *PaletteSwapStep) Started() bool { return s.started }

func (s *PaletteSwapStep) setStarted(v bool) { s.started = v }

// Name returns Tag, or a description when Tag is empty.
func (s *PaletteSwapStep) Name() string {
	if s.Tag != "" {
		return s.Tag
	}
	return fmt.Sprintf("palette:%s@%v", s.Palette, s.At)
}

// Kind returns "palette".
func (s *PaletteSwapStep) Kind() string { return "palette" }
