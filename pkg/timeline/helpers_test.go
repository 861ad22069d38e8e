package timeline_test

import (
	"image"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/marquee/pkg/animation"
	"github.com/go-drift/marquee/pkg/errors"
	"github.com/go-drift/marquee/pkg/graphics"
	marqueetest "github.com/go-drift/marquee/pkg/testing"
	"github.com/go-drift/marquee/pkg/timeline"
)

// tile stands in for a tile grid: position, frame and palette.
type tile struct {
	x, y    int
	frame   int
	frames  []int
	palette *graphics.Palette
}

func (t *tile) Position() (int, int)           { return t.x, t.y }
func (t *tile) SetPosition(x, y int)           { t.x, t.y = x, y }
func (t *tile) SetFrame(index int)             { t.frame = index; t.frames = append(t.frames, index) }
func (t *tile) SetPalette(p *graphics.Palette) { t.palette = p }

// group has a position and nothing else.
type group struct{ x, y int }

func (g *group) Position() (int, int) { return g.x, g.y }
func (g *group) SetPosition(x, y int) { g.x, g.y = x, y }

type presenter struct {
	mu        sync.Mutex
	refreshes int
	err       error
	panicOn   int
}

func (p *presenter) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshes++
	if p.panicOn > 0 && p.refreshes >= p.panicOn {
		panic("display gone")
	}
	return p.err
}

func (p *presenter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshes
}

type recorder struct {
	events []timeline.Event
}

func (r *recorder) listen(e timeline.Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []timeline.EventKind {
	out := make([]timeline.EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) names(kind timeline.EventKind) []string {
	var out []string
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e.Name)
		}
	}
	return out
}

type errorSink struct {
	errs   []*errors.Error
	panics []*errors.PanicError
}

func (h *errorSink) HandleError(err *errors.Error)      { h.errs = append(h.errs, err) }
func (h *errorSink) HandlePanic(err *errors.PanicError) { h.panics = append(h.panics, err) }

func captureErrors(t *testing.T) *errorSink {
	t.Helper()
	sink := &errorSink{}
	prev := errors.DefaultHandler
	errors.SetHandler(sink)
	t.Cleanup(func() { errors.SetHandler(prev) })
	return sink
}

func newClock() (*marqueetest.FakeClock, time.Time) {
	clk := marqueetest.NewFakeClock()
	return clk, clk.Now()
}

func move(clk animation.Clock, el animation.Target, off, on image.Point, at, dur time.Duration) *timeline.MoveStep {
	return &timeline.MoveStep{
		Animator:  animation.NewOvershootAnimator(el, animation.WithClock(clk)),
		Offscreen: off,
		Onscreen:  on,
		Duration:  dur,
		At:        at,
	}
}

func mustNew(t *testing.T, steps []timeline.Step, opts ...timeline.Option) *timeline.Coordinator {
	t.Helper()
	c, err := timeline.New(steps, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}
