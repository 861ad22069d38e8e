package animation

import "fmt"

// AnimatorStatus summarizes which parts of an OvershootAnimator are armed.
//
//	          AnimateTo(move)
//	StatusIdle ──────────────► StatusMoving
//	    │                          │ AnimateTo(move with sprite)
//	    │ AnimateTo(sprite only)   ▼
//	    └────────────────► StatusCycling / StatusMovingAndCycling
//
// Position motion and the sprite cycle finish independently.
type AnimatorStatus int

const (
	// StatusIdle means neither position motion nor a sprite cycle is armed.
	StatusIdle AnimatorStatus = iota
	// StatusMoving means only position motion is armed.
	StatusMoving
	// StatusCycling means only a sprite cycle is armed.
	StatusCycling
	// StatusMovingAndCycling means both are armed.
	StatusMovingAndCycling
)

// String returns a human-readable representation of the animator status.
func (s AnimatorStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusMoving:
		return "moving"
	case StatusCycling:
		return "cycling"
	case StatusMovingAndCycling:
		return "moving+cycling"
	default:
		return fmt.Sprintf("AnimatorStatus(%d)", int(s))
	}
}

// Active reports whether anything is armed.
func (s AnimatorStatus) Active() bool {
	return s != StatusIdle
}
