package cmd

import (
	"fmt"
	"time"

	"github.com/go-drift/marquee/pkg/display"
	merrors "github.com/go-drift/marquee/pkg/errors"
	marqueetest "github.com/go-drift/marquee/pkg/testing"
	"github.com/go-drift/marquee/pkg/timeline"
)

func init() {
	RegisterCommand(&Command{
		Name:  "export",
		Short: "Render loops of the show to PNG frames",
		Long: `Render the show to numbered PNG files on a simulated clock, one file
per tick, each stamped with its offset into the run.

Flags:
  --out DIR       Output directory (required)
  --loops N       Loops to render (default: 1)
  --scale N       Enlarge each frame N times (default: 1)
  --trace FILE    Also write a JSON trace of the scene at every event
  --config FILE   Choreography file (default: ./marquee.yaml, else built-in)
  --assets DIR    Directory holding sprite sheets
  --fps N         Override the tick rate`,
		Usage: "marquee export --out DIR [--loops N] [--scale N] [--trace FILE] [--config FILE]",
		Run:   runExport,
	})
}

// maxExportTicks bounds an export whose terminal step never finishes.
const maxExportTicks = 100_000

func runExport(args []string) error {
	_, opts, err := parseShowArgs(args)
	if err != nil {
		return err
	}
	if opts.out == "" {
		return fmt.Errorf("--out is required\n\nUsage: marquee export --out DIR")
	}
	merrors.SetHandler(&merrors.LogHandler{Verbose: opts.verbose})

	written, err := export(opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d frames to %s\n", written, opts.out)
	if opts.trace != "" {
		fmt.Fprintf(stdout, "wrote trace to %s\n", opts.trace)
	}
	return nil
}

func export(opts showFlags) (int, error) {
	clk := marqueetest.NewFakeClock()
	start := clk.Now()

	show, _, err := loadShow(opts, clk)
	if err != nil {
		return 0, err
	}

	surface, err := display.NewSnapshotSurface(opts.out, show.Width, show.Height, opts.scale)
	if err != nil {
		return 0, merrors.Wrap("cmd.export", merrors.KindDisplay, err)
	}
	surface.Background = show.Background
	surface.SetAutoRefresh(false)
	surface.SetRoot(show.Root)
	surface.Label = func(int) string {
		return fmt.Sprintf("%6.3fs", clk.Since(start).Seconds())
	}

	var failed error
	coordinator, err := show.Coordinator(timeline.WithPresenter(presenterFunc(func() error {
		err := surface.Refresh()
		if err != nil && failed == nil {
			failed = err
		}
		return err
	})))
	if err != nil {
		return 0, err
	}

	var trace *marqueetest.Snapshot
	if opts.trace != "" {
		trace = &marqueetest.Snapshot{}
		coordinator.AddListener(func(e timeline.Event) {
			trace.Record(e.Time.Sub(start), show.Root)
		})
	}

	interval := show.Interval()
	for ticks := 0; coordinator.Iteration() < opts.loops; ticks++ {
		if ticks >= maxExportTicks {
			return surface.Written(), merrors.New("cmd.export", merrors.KindConfig,
				"show did not finish %d loops within %v", opts.loops, time.Duration(ticks)*interval)
		}
		clk.Advance(interval)
		coordinator.Advance()
		if failed != nil {
			return surface.Written(), failed
		}
	}

	if trace != nil {
		if err := trace.UpdateFile(opts.trace); err != nil {
			return surface.Written(), err
		}
	}
	return surface.Written(), nil
}

// presenterFunc adapts a function to timeline.Presenter.
type presenterFunc func() error

func (f presenterFunc) Refresh() error { return f() }
