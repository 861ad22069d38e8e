package timeline

import (
	"fmt"
	"time"
)

// EventKind identifies what happened during a tick.
type EventKind int

const (
	// EventStepFired means a MoveStep armed its animator.
	EventStepFired EventKind = iota
	// EventPaletteSwapped means a PaletteSwapStep was broadcast.
	EventPaletteSwapped
	// EventLoopCompleted means the terminal step finished and elements were
	// reset. The rest period starts.
	EventLoopCompleted
	// EventLoopRestarted means the rest period ended and the epoch moved.
	EventLoopRestarted
)

// String returns a human-readable representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStepFired:
		return "step-fired"
	case EventPaletteSwapped:
		return "palette-swapped"
	case EventLoopCompleted:
		return "loop-completed"
	case EventLoopRestarted:
		return "loop-restarted"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event describes one thing that happened during a tick.
type Event struct {
	Kind EventKind
	// Time is the tick time.
	Time time.Time
	// Iteration counts completed loops before this event.
	Iteration int

	// Step is the index of the step involved, or -1.
	Step int
	// Name is the step's Name, if a step is involved.
	Name string

	// Armed is set for EventStepFired when the animator accepted the move;
	// false means the element was already at the target.
	Armed bool
	// Palette and Affected are set for EventPaletteSwapped.
	Palette  string
	Affected int
}

func (e Event) String() string {
	switch e.Kind {
	case EventStepFired:
		return fmt.Sprintf("%s #%d %s armed=%t", e.Kind, e.Step, e.Name, e.Armed)
	case EventPaletteSwapped:
		return fmt.Sprintf("%s #%d %s palette=%s elements=%d", e.Kind, e.Step, e.Name, e.Palette, e.Affected)
	default:
		return fmt.Sprintf("%s iteration=%d", e.Kind, e.Iteration)
	}
}
