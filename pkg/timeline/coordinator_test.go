package timeline_test

import (
	"image"
	"testing"
	"time"

	"github.com/go-drift/marquee/pkg/animation"
	"github.com/go-drift/marquee/pkg/errors"
	"github.com/go-drift/marquee/pkg/graphics"
	"github.com/go-drift/marquee/pkg/timeline"
)

func TestNew_ParksElements(t *testing.T) {
	clk, start := newClock()
	el := &tile{x: 7, y: 7}
	step := move(clk, el, image.Pt(83, 240), image.Pt(83, 50), 450*time.Millisecond, 450*time.Millisecond)

	c := mustNew(t, []timeline.Step{step}, timeline.WithClock(clk))

	if el.x != 83 || el.y != 240 {
		t.Errorf("element at (%d,%d), want parked at (83,240)", el.x, el.y)
	}
	if !c.Epoch().Equal(start) {
		t.Errorf("Epoch = %v, want %v", c.Epoch(), start)
	}
	if c.Terminal() != 0 {
		t.Errorf("Terminal = %d, want 0", c.Terminal())
	}
	if !c.Running() || c.Resting() {
		t.Error("new coordinator should be running and not resting")
	}
}

func TestTick_StepWaitsForStart(t *testing.T) {
	clk, _ := newClock()
	el := &tile{}
	step := move(clk, el, image.Pt(0, 100), image.Pt(0, 0), 450*time.Millisecond, time.Second)
	c := mustNew(t, []timeline.Step{step}, timeline.WithClock(clk))

	clk.Advance(449 * time.Millisecond)
	if !c.Advance() {
		t.Error("Tick before the terminal step starts should report running")
	}
	if step.Started() {
		t.Error("step should not fire before its offset")
	}

	clk.Advance(time.Millisecond)
	c.Advance()
	if !step.Started() {
		t.Error("step should fire once its offset is reached")
	}
}

func TestTick_FullLoopRestarts(t *testing.T) {
	clk, start := newClock()
	el := &tile{}
	step := move(clk, el, image.Pt(0, 100), image.Pt(0, 0), 0, time.Second)

	rec := &recorder{}
	c := mustNew(t, []timeline.Step{step}, timeline.WithClock(clk), timeline.WithRest(time.Second))
	c.AddListener(rec.listen)

	if !c.Advance() {
		t.Fatal("first tick should report running")
	}
	if el.y != 100 {
		t.Errorf("y at t=0 = %d, want 100", el.y)
	}

	clk.Advance(time.Second)
	if c.Advance() {
		t.Fatal("tick at motion end should report the loop finished")
	}
	if el.x != 0 || el.y != 100 {
		t.Errorf("element at (%d,%d) after loop, want parked at (0,100)", el.x, el.y)
	}
	if !c.Resting() || c.Iteration() != 1 {
		t.Errorf("Resting=%v Iteration=%d, want true 1", c.Resting(), c.Iteration())
	}
	if step.Started() {
		t.Error("started flags should clear when the loop completes")
	}

	clk.Advance(500 * time.Millisecond)
	if c.Advance() {
		t.Error("tick during rest should report not running")
	}
	if !c.Epoch().Equal(start) {
		t.Error("epoch should not move during rest")
	}

	clk.Advance(500 * time.Millisecond)
	if !c.Advance() {
		t.Fatal("tick at end of rest should start the next loop")
	}
	if !c.Epoch().Equal(start.Add(2 * time.Second)) {
		t.Errorf("Epoch = %v, want rest end", c.Epoch().Sub(start))
	}
	if !step.Started() {
		t.Error("step at offset 0 should fire on the restart tick")
	}

	want := []timeline.EventKind{
		timeline.EventStepFired,
		timeline.EventLoopCompleted,
		timeline.EventLoopRestarted,
		timeline.EventStepFired,
	}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
	if rec.events[1].Iteration != 0 || rec.events[2].Iteration != 1 {
		t.Errorf("iterations = %d,%d, want 0,1", rec.events[1].Iteration, rec.events[2].Iteration)
	}
}

func TestTick_ZeroRestRestartsOnNextTick(t *testing.T) {
	clk, _ := newClock()
	step := move(clk, &tile{}, image.Pt(0, 10), image.Pt(0, 0), 0, 10*time.Millisecond)
	c := mustNew(t, []timeline.Step{step}, timeline.WithClock(clk), timeline.WithRest(0))

	c.Advance()
	clk.Advance(10 * time.Millisecond)
	if c.Advance() {
		t.Fatal("loop should complete")
	}
	if !c.Advance() {
		t.Error("next tick should restart immediately with zero rest")
	}
}

func TestTick_EqualStartsFireInListOrder(t *testing.T) {
	clk, _ := newClock()
	var steps []timeline.Step
	for _, tag := range []string{"first", "second", "third"} {
		s := move(clk, &tile{}, image.Pt(0, 10), image.Pt(0, 0), 100*time.Millisecond, time.Second)
		s.Tag = tag
		steps = append(steps, s)
	}
	// A later entry with an earlier offset still fires after the others
	// when they become due on the same tick.
	early := move(clk, &tile{}, image.Pt(0, 10), image.Pt(0, 0), 50*time.Millisecond, time.Second)
	early.Tag = "early"
	steps = append(steps, early)

	rec := &recorder{}
	c := mustNew(t, steps, timeline.WithClock(clk))
	c.AddListener(rec.listen)

	clk.Advance(200 * time.Millisecond)
	c.Advance()

	got := rec.names(timeline.EventStepFired)
	want := []string{"first", "second", "third", "early"}
	if len(got) != len(want) {
		t.Fatalf("fired = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fired[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTick_StepsFireOncePerLoop(t *testing.T) {
	clk, _ := newClock()
	step := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, time.Second)
	rec := &recorder{}
	c := mustNew(t, []timeline.Step{step}, timeline.WithClock(clk))
	c.AddListener(rec.listen)

	for i := 0; i < 5; i++ {
		c.Advance()
		clk.Advance(100 * time.Millisecond)
	}
	if n := len(rec.names(timeline.EventStepFired)); n != 1 {
		t.Errorf("step fired %d times, want 1", n)
	}
}

func TestTick_TerminalByIndex(t *testing.T) {
	clk, _ := newClock()
	long := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, 2*time.Second)
	short := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, 100*time.Millisecond)

	c := mustNew(t, []timeline.Step{long, short}, timeline.WithClock(clk), timeline.WithTerminalIndex(0))
	c.Advance()
	clk.Advance(150 * time.Millisecond)
	if !c.Advance() {
		t.Error("non-terminal step finishing should not end the loop")
	}
	clk.Advance(2 * time.Second)
	if c.Advance() {
		t.Error("terminal step finishing should end the loop")
	}
}

func TestTick_TerminalDefaultsToLast(t *testing.T) {
	clk, _ := newClock()
	long := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, 2*time.Second)
	short := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, 100*time.Millisecond)

	c := mustNew(t, []timeline.Step{long, short}, timeline.WithClock(clk))
	if c.Terminal() != 1 {
		t.Fatalf("Terminal = %d, want 1", c.Terminal())
	}
	c.Advance()
	clk.Advance(150 * time.Millisecond)
	if c.Advance() {
		t.Error("last step finishing should end the loop")
	}
}

func TestTick_TerminalByTag(t *testing.T) {
	clk, _ := newClock()
	a := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, time.Second)
	a.Tag = "hold"
	b := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, 10*time.Millisecond)

	c := mustNew(t, []timeline.Step{a, b}, timeline.WithClock(clk), timeline.WithTerminalTag("hold"))
	if c.Terminal() != 0 {
		t.Errorf("Terminal = %d, want 0", c.Terminal())
	}
}

func TestTick_PaletteSwapAsTerminal(t *testing.T) {
	clk, _ := newClock()
	a := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, time.Second)
	swap := &timeline.PaletteSwapStep{Palette: "red_palette", At: 300 * time.Millisecond}

	c := mustNew(t, []timeline.Step{a, swap}, timeline.WithClock(clk))
	c.Advance()
	clk.Advance(299 * time.Millisecond)
	if !c.Advance() {
		t.Error("loop should run until the swap fires")
	}
	clk.Advance(time.Millisecond)
	if c.Advance() {
		t.Error("a terminal palette swap ends the loop on the tick it fires")
	}
}

func TestTick_PaletteBroadcast(t *testing.T) {
	clk, _ := newClock()
	base := graphics.NewPalette(graphics.ColorBlack, graphics.Hex(0xffffff), graphics.Hex(0x80c040))

	elA, elB, elC := &tile{}, &tile{}, &tile{}
	setA := graphics.NewStandardPaletteSet(base)
	setB := graphics.NewStandardPaletteSet(base.Clone())
	plain := graphics.NewPalette(graphics.Hex(0x123456))
	elC.palette = plain

	a := move(clk, elA, image.Pt(0, 10), image.Pt(0, 0), 0, 2*time.Second)
	a.Tag = "a"
	a.Palettes = setA
	b := move(clk, elB, image.Pt(0, 10), image.Pt(0, 0), 0, 2*time.Second)
	b.Palettes = setB
	cStep := move(clk, elC, image.Pt(0, 10), image.Pt(0, 0), 0, 2*time.Second)
	swap := &timeline.PaletteSwapStep{Palette: "red_palette", At: 100 * time.Millisecond}

	rec := &recorder{}
	c := mustNew(t, []timeline.Step{a, b, cStep, swap}, timeline.WithClock(clk), timeline.WithTerminalTag("a"))
	c.AddListener(rec.listen)

	if elA.palette != setA.Default || elB.palette != setB.Default {
		t.Fatal("registered elements should start on their default palettes")
	}

	c.Advance()
	clk.Advance(100 * time.Millisecond)
	c.Advance()

	redA, _ := setA.Variant("red_palette")
	redB, _ := setB.Variant("red_palette")
	if elA.palette != redA {
		t.Error("element A should show its red variant")
	}
	if elB.palette != redB {
		t.Error("element B should show its red variant")
	}
	if elC.palette != plain {
		t.Error("unregistered element should keep its palette")
	}
	if got, _ := elA.palette.At(2); got.RGB24() != 0x800000 {
		t.Errorf("red variant entry 2 = %06x, want 800000", got.RGB24())
	}

	var swapped *timeline.Event
	for i := range rec.events {
		if rec.events[i].Kind == timeline.EventPaletteSwapped {
			swapped = &rec.events[i]
		}
	}
	if swapped == nil {
		t.Fatal("no palette-swapped event")
	}
	if swapped.Affected != 2 || swapped.Palette != "red_palette" {
		t.Errorf("event = %+v, want 2 affected by red_palette", *swapped)
	}
}

func TestTick_UnknownPaletteIsNoOp(t *testing.T) {
	clk, _ := newClock()
	el := &tile{}
	set := graphics.NewStandardPaletteSet(graphics.NewPalette(graphics.ColorWhite))
	a := move(clk, el, image.Pt(0, 10), image.Pt(0, 0), 0, time.Second)
	a.Palettes = set
	swap := &timeline.PaletteSwapStep{Palette: "purple_palette"}

	rec := &recorder{}
	c := mustNew(t, []timeline.Step{a, swap}, timeline.WithClock(clk), timeline.WithTerminalIndex(0))
	c.AddListener(rec.listen)
	c.Advance()

	if el.palette != set.Default {
		t.Error("unknown palette name should leave elements alone")
	}
	if len(rec.events) != 2 || rec.events[1].Affected != 0 {
		t.Errorf("events = %v, want swap affecting 0", rec.events)
	}
}

func TestTick_LoopEndRestoresDefaultPalettes(t *testing.T) {
	clk, _ := newClock()
	el := &tile{}
	set := graphics.NewStandardPaletteSet(graphics.NewPalette(graphics.ColorBlack, graphics.ColorWhite))
	a := move(clk, el, image.Pt(0, 10), image.Pt(0, 0), 0, 100*time.Millisecond)
	a.Palettes = set
	swap := &timeline.PaletteSwapStep{Palette: "green_palette"}

	c := mustNew(t, []timeline.Step{swap, a}, timeline.WithClock(clk))
	c.Advance()
	if green, _ := set.Variant("green_palette"); el.palette != green {
		t.Fatal("swap should apply on the first tick")
	}

	clk.Advance(100 * time.Millisecond)
	if c.Advance() {
		t.Fatal("loop should complete")
	}
	if el.palette != set.Default {
		t.Error("loop end should restore the default palette")
	}
}

func TestTick_SharedAnimatorSpriteTerminal(t *testing.T) {
	clk, _ := newClock()
	apple := &tile{}
	anim := animation.NewOvershootAnimator(apple, animation.WithClock(clk))

	enter := &timeline.MoveStep{
		Animator:  anim,
		Offscreen: image.Pt(0, -107),
		Onscreen:  image.Pt(0, 21),
		Duration:  450 * time.Millisecond,
		Overshoot: 1,
	}
	blink := &timeline.MoveStep{
		Tag:       "blink",
		Animator:  anim,
		Offscreen: image.Pt(0, -107),
		Onscreen:  image.Pt(0, 21),
		Duration:  10 * time.Millisecond,
		Sprite:    &timeline.SpriteRange{From: 12, To: 14, Delay: 10 * time.Millisecond},
		At:        time.Second,
	}

	c := mustNew(t, []timeline.Step{enter, blink}, timeline.WithClock(clk), timeline.WithResetFrame(apple, 0))

	ticks := []time.Duration{0, 450 * time.Millisecond, time.Second, 1010 * time.Millisecond}
	start := clk.Now()
	for _, at := range ticks {
		clk.Set(start.Add(at))
		if !c.Advance() {
			t.Fatalf("loop ended early at %v", at)
		}
	}
	if apple.x != 0 || apple.y != 21 {
		t.Errorf("apple at (%d,%d), want (0,21)", apple.x, apple.y)
	}

	clk.Set(start.Add(1020 * time.Millisecond))
	if c.Advance() {
		t.Fatal("blink finishing should end the loop")
	}

	want := []int{12, 13, 14, 0}
	if len(apple.frames) != len(want) {
		t.Fatalf("frames = %v, want %v", apple.frames, want)
	}
	for i := range want {
		if apple.frames[i] != want[i] {
			t.Errorf("frames[%d] = %d, want %d", i, apple.frames[i], want[i])
		}
	}
	if apple.y != -107 {
		t.Errorf("apple y = %d, want parked at -107", apple.y)
	}
}

func TestReset(t *testing.T) {
	clk, _ := newClock()
	el := &tile{}
	step := move(clk, el, image.Pt(0, 100), image.Pt(0, 0), 0, time.Second)
	p := &presenter{}
	hooks := 0
	rec := &recorder{}
	c := mustNew(t, []timeline.Step{step},
		timeline.WithClock(clk),
		timeline.WithPresenter(p),
		timeline.WithResetHook(func() { hooks++ }))
	c.AddListener(rec.listen)

	c.Advance()
	clk.Advance(500 * time.Millisecond)
	c.Advance()
	if el.y == 100 {
		t.Fatal("element should be moving")
	}

	now := clk.Now()
	c.Reset(now)
	if el.y != 100 {
		t.Errorf("y after Reset = %d, want parked at 100", el.y)
	}
	if step.Animator.Status() != animation.StatusIdle {
		t.Errorf("animator status = %v, want idle", step.Animator.Status())
	}
	if step.Started() || c.Resting() || !c.Running() {
		t.Error("Reset should start a fresh loop")
	}
	if !c.Epoch().Equal(now) {
		t.Error("Reset should move the epoch to now")
	}
	if hooks != 1 {
		t.Errorf("reset hooks ran %d times, want 1", hooks)
	}
	if p.count() != 3 {
		t.Errorf("refreshes = %d, want 3", p.count())
	}
	if last := rec.events[len(rec.events)-1]; last.Kind != timeline.EventLoopRestarted {
		t.Errorf("last event = %v, want loop-restarted", last.Kind)
	}
}

func TestPresenter_RefreshedEveryTick(t *testing.T) {
	clk, _ := newClock()
	step := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, 100*time.Millisecond)
	p := &presenter{}
	c := mustNew(t, []timeline.Step{step}, timeline.WithClock(clk), timeline.WithPresenter(p))

	if p.count() != 0 {
		t.Errorf("New should not refresh, got %d", p.count())
	}
	c.Advance()
	c.Advance()
	if p.count() != 2 {
		t.Errorf("refreshes = %d, want 2", p.count())
	}

	clk.Advance(100 * time.Millisecond)
	c.Advance()
	// Once for the tick and once after parking.
	if p.count() != 4 {
		t.Errorf("refreshes after loop end = %d, want 4", p.count())
	}
}

func TestPresenter_ErrorIsReported(t *testing.T) {
	sink := captureErrors(t)
	clk, _ := newClock()
	step := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, time.Second)
	p := &presenter{err: errors.New("display.Refresh", errors.KindDisplay, "bus fault")}
	c := mustNew(t, []timeline.Step{step}, timeline.WithClock(clk), timeline.WithPresenter(p))

	if !c.Advance() {
		t.Error("refresh failure should not stop the show")
	}
	if len(sink.errs) != 1 {
		t.Fatalf("reported %d errors, want 1", len(sink.errs))
	}
	if sink.errs[0].Kind != errors.KindDisplay {
		t.Errorf("kind = %v, want display", sink.errs[0].Kind)
	}
}

func TestAddListener_Unsubscribe(t *testing.T) {
	clk, _ := newClock()
	step := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, time.Second)
	c := mustNew(t, []timeline.Step{step}, timeline.WithClock(clk))

	calls := 0
	unsubscribe := c.AddListener(func(timeline.Event) { calls++ })
	c.Advance()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	unsubscribe()
	c.Reset(clk.Now())
	c.Advance()
	if calls != 1 {
		t.Errorf("calls after unsubscribe = %d, want 1", calls)
	}
}

func TestState(t *testing.T) {
	clk, _ := newClock()
	a := move(clk, &tile{}, image.Pt(0, 100), image.Pt(0, 0), 0, time.Second)
	a.Tag = "F"
	swap := &timeline.PaletteSwapStep{Palette: "red_palette", At: 4750 * time.Millisecond}
	c := mustNew(t, []timeline.Step{a, swap}, timeline.WithClock(clk), timeline.WithTerminalIndex(0))
	c.Advance()

	state := c.State()
	if len(state) != 2 {
		t.Fatalf("State len = %d, want 2", len(state))
	}
	if state[0].Name != "F" || state[0].Kind != "move" || !state[0].Started || !state[0].Terminal {
		t.Errorf("state[0] = %+v", state[0])
	}
	if state[1].Name != "palette:red_palette@4.75s" || state[1].Started || state[1].Terminal {
		t.Errorf("state[1] = %+v", state[1])
	}
	if c.LoopLength() != 4750*time.Millisecond {
		t.Errorf("LoopLength = %v, want 4.75s", c.LoopLength())
	}
}

func TestNew_Validation(t *testing.T) {
	clk, _ := newClock()
	ok := func() *timeline.MoveStep {
		return move(clk, &tile{}, image.Pt(0, 10), image.Pt(0, 0), 0, time.Second)
	}
	onGroup := func() *timeline.MoveStep {
		return move(clk, &group{}, image.Pt(0, 10), image.Pt(0, 0), 0, time.Second)
	}

	tests := []struct {
		name  string
		steps func() []timeline.Step
		opts  []timeline.Option
	}{
		{"empty", func() []timeline.Step { return nil }, nil},
		{"nil step", func() []timeline.Step { return []timeline.Step{ok(), nil} }, nil},
		{"negative start", func() []timeline.Step {
			s := ok()
			s.At = -time.Millisecond
			return []timeline.Step{s}
		}, nil},
		{"no animator", func() []timeline.Step {
			return []timeline.Step{&timeline.MoveStep{Duration: time.Second}}
		}, nil},
		{"zero duration", func() []timeline.Step {
			s := ok()
			s.Duration = 0
			return []timeline.Step{s}
		}, nil},
		{"reversed sprite", func() []timeline.Step {
			s := ok()
			s.Sprite = &timeline.SpriteRange{From: 5, To: 2}
			return []timeline.Step{s}
		}, nil},
		{"sprite without frames", func() []timeline.Step {
			s := onGroup()
			s.Sprite = &timeline.SpriteRange{From: 0, To: 2}
			return []timeline.Step{s}
		}, nil},
		{"palettes without palette", func() []timeline.Step {
			s := onGroup()
			s.Palettes = graphics.NewPaletteSet(graphics.NewPalette(graphics.ColorWhite))
			return []timeline.Step{s}
		}, nil},
		{"palette set without default", func() []timeline.Step {
			s := ok()
			s.Palettes = graphics.NewPaletteSet(nil)
			return []timeline.Step{s}
		}, nil},
		{"unnamed palette swap", func() []timeline.Step {
			return []timeline.Step{ok(), &timeline.PaletteSwapStep{}}
		}, nil},
		{"unknown terminal tag", func() []timeline.Step { return []timeline.Step{ok()} },
			[]timeline.Option{timeline.WithTerminalTag("nope")}},
		{"terminal out of range", func() []timeline.Step { return []timeline.Step{ok()} },
			[]timeline.Option{timeline.WithTerminalIndex(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]timeline.Option{timeline.WithClock(clk)}, tt.opts...)
			c, err := timeline.New(tt.steps(), opts...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if c != nil {
				t.Error("coordinator should be nil on error")
			}
			if kind := errors.KindOf(err); kind != errors.KindConfig {
				t.Errorf("KindOf = %v, want config", kind)
			}
		})
	}
}

func TestNew_ValidationNamesStep(t *testing.T) {
	clk, _ := newClock()
	s := move(clk, &tile{}, image.Pt(0, 10), image.Pt(0, 0), 0, 0)
	s.Tag = "R"
	_, err := timeline.New([]timeline.Step{s}, timeline.WithClock(clk))

	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not *errors.Error", err)
	}
	if e.Step != "#0 R" {
		t.Errorf("Step = %q, want %q", e.Step, "#0 R")
	}
}
