package timeline

import (
	"time"

	"github.com/go-drift/marquee/pkg/animation"
)

// DefaultRest is the pause between a completed loop and the next one.
const DefaultRest = time.Second

// Presenter makes the current frame visible. display.Surface satisfies it.
type Presenter interface {
	Refresh() error
}

// FrameSetter is an element with a selectable sprite frame.
type FrameSetter interface {
	SetFrame(index int)
}

type settings struct {
	clock         animation.Clock
	terminalIndex int
	terminalTag   string
	rest          time.Duration
	presenter     Presenter
	resetHooks    []func()
}

// Option configures a Coordinator.
type Option func(*settings)

// WithClock sets the coordinator's time source. Defaults to the animation
// package clock.
func WithClock(c animation.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTerminalIndex makes the step at index i decide when the loop is over.
// The default is the last step.
func WithTerminalIndex(i int) Option {
	return func(s *settings) {
		s.terminalIndex = i
		s.terminalTag = ""
	}
}

// WithTerminalTag makes the first step tagged tag decide when the loop is
// over.
func WithTerminalTag(tag string) Option {
	return func(s *settings) {
		s.terminalTag = tag
	}
}

// WithRest sets the pause between loops. Defaults to DefaultRest.
func WithRest(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.rest = d
		}
	}
}

// WithPresenter sets what the coordinator refreshes after every tick.
func WithPresenter(p Presenter) Option {
	return func(s *settings) {
		s.presenter = p
	}
}

// WithResetHook runs fn each time the loop completes, after elements are
// parked.
func WithResetHook(fn func()) Option {
	return func(s *settings) {
		if fn != nil {
			s.resetHooks = append(s.resetHooks, fn)
		}
	}
}

// WithResetFrame puts el back on frame each time the loop completes.
func WithResetFrame(el FrameSetter, frame int) Option {
	return WithResetHook(func() {
		el.SetFrame(frame)
	})
}
