// Package timeline schedules overshoot animators and palette swaps against a
// shared clock and loops the whole show forever.
//
// A timeline is a list of steps, each with a start offset from the loop
// epoch. Every tick fires the steps whose offset has passed, ticks their
// animators, and asks one designated terminal step whether the show is
// still running. When it is not, elements are parked off screen, the
// timeline rests, and the epoch moves to the end of the rest.
//
// Steps fire in list order, not start order; steps with equal offsets fire
// on the same tick in list order. Each step fires at most once per loop.
package timeline

import (
	"fmt"
	"time"

	"github.com/go-drift/marquee/pkg/animation"
	"github.com/go-drift/marquee/pkg/errors"
)

// Coordinator owns a timeline and the state of the current loop. It is not
// safe for concurrent use; drive it from one goroutine.
type Coordinator struct {
	steps      []Step
	terminal   int
	clock      animation.Clock
	rest       time.Duration
	presenter  Presenter
	resetHooks []func()

	listeners      map[int]func(Event)
	nextListenerID int

	epoch     time.Time
	running   bool
	resting   bool
	restUntil time.Time
	iteration int
}

// New validates steps and creates a coordinator. Every MoveStep element is
// parked at its Offscreen position and the epoch starts now.
func New(steps []Step, opts ...Option) (*Coordinator, error) {
	s := settings{
		clock:         animation.DefaultClock(),
		terminalIndex: -1,
		rest:          DefaultRest,
	}
	for _, opt := range opts {
		opt(&s)
	}

	terminal, err := validate(steps, s)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		steps:      steps,
		terminal:   terminal,
		clock:      s.clock,
		rest:       s.rest,
		presenter:  s.presenter,
		resetHooks: s.resetHooks,
		listeners:  make(map[int]func(Event)),
		running:    true,
	}
	c.park()
	c.epoch = c.clock.Now()
	return c, nil
}

func validate(steps []Step, s settings) (int, error) {
	const op = "timeline.New"
	if len(steps) == 0 {
		return 0, errors.New(op, errors.KindConfig, "timeline has no steps")
	}

	for i, step := range steps {
		if err := validateStep(step); err != nil {
			return 0, &errors.Error{
				Op:   op,
				Kind: errors.KindConfig,
				Step: stepLabel(i, step),
				Err:  err,
			}
		}
	}

	if s.terminalTag != "" {
		for i, step := range steps {
			if tagOf(step) == s.terminalTag {
				return i, nil
			}
		}
		return 0, errors.New(op, errors.KindConfig, "no step tagged %q for terminal", s.terminalTag)
	}
	if s.terminalIndex < 0 {
		return len(steps) - 1, nil
	}
	if s.terminalIndex >= len(steps) {
		return 0, errors.New(op, errors.KindConfig, "terminal index %d out of range [0,%d)", s.terminalIndex, len(steps))
	}
	return s.terminalIndex, nil
}

func validateStep(step Step) error {
	if step == nil {
		return fmt.Errorf("nil step")
	}
	if step.StartAt() < 0 {
		return fmt.Errorf("negative start offset %v", step.StartAt())
	}

	switch st := step.(type) {
	case *MoveStep:
		if st.Animator == nil {
			return fmt.Errorf("move step has no animator")
		}
		if st.Duration <= 0 {
			return fmt.Errorf("move duration must be positive, got %v", st.Duration)
		}
		if st.Sprite != nil {
			if st.Sprite.From > st.Sprite.To {
				return fmt.Errorf("sprite range %d..%d is reversed", st.Sprite.From, st.Sprite.To)
			}
			if _, ok := st.Element().(animation.FrameTarget); !ok {
				return fmt.Errorf("sprite range on an element without frames (%T)", st.Element())
			}
		}
		if st.Palettes != nil {
			if st.Palettes.Default == nil {
				return fmt.Errorf("palette set has no default palette")
			}
			if _, ok := st.Element().(Shaded); !ok {
				return fmt.Errorf("palettes on an element without a palette (%T)", st.Element())
			}
		}
	case *PaletteSwapStep:
		if st.Palette == "" {
			return fmt.Errorf("palette swap has no palette name")
		}
	default:
		return fmt.Errorf("unsupported step type %T", step)
	}
	return nil
}

func tagOf(step Step) string {
	switch st := step.(type) {
	case *MoveStep:
		return st.Tag
	case *PaletteSwapStep:
		return st.Tag
	}
	return ""
}

func stepLabel(i int, step Step) string {
	if step == nil {
		return fmt.Sprintf("#%d", i)
	}
	return fmt.Sprintf("#%d %s", i, step.Name())
}

// Steps returns the timeline in list order.
func (c *Coordinator) Steps() []Step { return c.steps }

// Terminal returns the index of the step that decides completion.
func (c *Coordinator) Terminal() int { return c.terminal }

// Epoch returns the time the current loop started.
func (c *Coordinator) Epoch() time.Time { return c.epoch }

// Running reports the result of the last tick: false once the terminal step
// has finished and until the next loop starts.
func (c *Coordinator) Running() bool { return c.running }

// Resting reports whether the coordinator is in the pause between loops.
func (c *Coordinator) Resting() bool { return c.resting }

// Iteration returns how many loops have completed.
func (c *Coordinator) Iteration() int { return c.iteration }

// Clock returns the coordinator's time source.
func (c *Coordinator) Clock() animation.Clock { return c.clock }

// AddListener adds a callback for timeline events. Returns an unsubscribe
// function.
func (c *Coordinator) AddListener(fn func(Event)) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

func (c *Coordinator) emit(e Event) {
	e.Iteration = c.iteration
	for _, listener := range c.listeners {
		listener(e)
	}
}

// Advance ticks at the coordinator clock's current time.
func (c *Coordinator) Advance() bool {
	return c.Tick(c.clock.Now())
}

// Tick runs one frame of the timeline at now and reports whether the show
// is still running. now must not go backward between calls.
//
// While resting Tick does nothing and reports false; the first tick at or
// after the end of the rest restarts the loop with its epoch at now.
func (c *Coordinator) Tick(now time.Time) bool {
	if c.resting {
		if now.Before(c.restUntil) {
			return false
		}
		c.restart(now)
	}

	elapsed := now.Sub(c.epoch)
	running := true
	for i, step := range c.steps {
		if elapsed < step.StartAt() {
			continue
		}
		if !step.Started() {
			step.setStarted(true)
			c.fire(now, i, step)
		}

		switch st := step.(type) {
		case *MoveStep:
			// Only the terminal step's result matters; the rest manage
			// their own elements.
			if !st.Animator.TickAt(now) && i == c.terminal {
				running = false
			}
		default:
			if i == c.terminal {
				running = false
			}
		}
	}

	c.present()
	c.running = running
	if !running {
		c.complete(now)
	}
	return running
}

func (c *Coordinator) fire(now time.Time, i int, step Step) {
	switch st := step.(type) {
	case *MoveStep:
		armed := st.Animator.AnimateToAt(now, st.Move())
		c.emit(Event{Kind: EventStepFired, Time: now, Step: i, Name: st.Name(), Armed: armed})
	case *PaletteSwapStep:
		n := c.broadcastPalette(st.Palette)
		c.emit(Event{Kind: EventPaletteSwapped, Time: now, Step: i, Name: st.Name(), Palette: st.Palette, Affected: n})
	}
}

// broadcastPalette applies the named variant to every registered element
// that has one and returns how many steps were affected. Unknown names
// affect nothing.
func (c *Coordinator) broadcastPalette(name string) int {
	n := 0
	for _, step := range c.steps {
		ms, ok := step.(*MoveStep)
		if !ok || ms.Palettes == nil {
			continue
		}
		variant, ok := ms.Palettes.Variant(name)
		if !ok {
			continue
		}
		ms.Element().(Shaded).SetPalette(variant)
		n++
	}
	return n
}

func (c *Coordinator) present() {
	if c.presenter == nil {
		return
	}
	if err := c.presenter.Refresh(); err != nil {
		errors.ReportErr("timeline.Tick", errors.KindDisplay, err)
	}
}

// park moves every element off screen, restores default palettes and
// clears the started flags.
func (c *Coordinator) park() {
	for _, step := range c.steps {
		if ms, ok := step.(*MoveStep); ok {
			ms.Element().SetPosition(ms.Offscreen.X, ms.Offscreen.Y)
			if ms.Palettes != nil {
				ms.Element().(Shaded).SetPalette(ms.Palettes.Default)
			}
		}
		step.setStarted(false)
	}
}

func (c *Coordinator) complete(now time.Time) {
	c.park()
	for _, hook := range c.resetHooks {
		hook()
	}
	c.emit(Event{Kind: EventLoopCompleted, Time: now, Step: c.terminal, Name: c.steps[c.terminal].Name()})
	c.iteration++
	c.present()

	c.resting = true
	c.restUntil = now.Add(c.rest)
}

func (c *Coordinator) restart(now time.Time) {
	c.resting = false
	c.running = true
	c.epoch = now
	c.emit(Event{Kind: EventLoopRestarted, Time: now, Step: -1})
}

// Reset abandons the current loop: every animator is stopped, elements are
// parked, and a new loop starts at now without resting.
func (c *Coordinator) Reset(now time.Time) {
	for _, step := range c.steps {
		if ms, ok := step.(*MoveStep); ok {
			ms.Animator.Stop()
		}
	}
	c.park()
	for _, hook := range c.resetHooks {
		hook()
	}
	c.present()
	c.restart(now)
}

// StepState is a read-only view of one step for reporting.
type StepState struct {
	Index    int
	Kind     string
	Name     string
	StartAt  time.Duration
	Started  bool
	Terminal bool
}

// State returns a view of every step in list order.
func (c *Coordinator) State() []StepState {
	out := make([]StepState, len(c.steps))
	for i, step := range c.steps {
		out[i] = StepState{
			Index:    i,
			Kind:     step.Kind(),
			Name:     step.Name(),
			StartAt:  step.StartAt(),
			Started:  step.Started(),
			Terminal: i == c.terminal,
		}
	}
	return out
}

// LoopLength returns the latest start offset in the timeline, a lower bound
// on the length of one loop.
func (c *Coordinator) LoopLength() time.Duration {
	var last time.Duration
	for _, step := range c.steps {
		if step.StartAt() > last {
			last = step.StartAt()
		}
	}
	return last
}
