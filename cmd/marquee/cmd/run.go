package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/marquee/pkg/animation"
	"github.com/go-drift/marquee/pkg/audio"
	"github.com/go-drift/marquee/pkg/display"
	merrors "github.com/go-drift/marquee/pkg/errors"
	"github.com/go-drift/marquee/pkg/timeline"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Play the show in the terminal",
		Long: `Play the show in the terminal, two pixels per character cell.

The show loops until you press q, Esc or Ctrl-C.

Flags:
  --config FILE   Choreography file (default: ./marquee.yaml, else built-in)
  --assets DIR    Directory holding sprite sheets
  --fps N         Override the tick rate
  --scale N       Draw every Nth pixel, for small terminals
  --audio         Play a tone on every palette swap and loop end
  --verbose       Log timeline events and detailed errors`,
		Usage: "marquee run [--config FILE] [--assets DIR] [--fps N] [--scale N] [--audio] [--verbose]",
		Run:   runShow,
	})
}

func runShow(args []string) error {
	_, opts, err := parseShowArgs(args)
	if err != nil {
		return err
	}
	merrors.SetHandler(&merrors.LogHandler{Verbose: opts.verbose})

	show, _, err := loadShow(opts, animation.DefaultClock())
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	surface := display.NewTerminalSurface(screen, show.Width, show.Height)
	surface.Scale = opts.scale
	surface.Background = show.Background
	surface.SetAutoRefresh(false)
	surface.SetRoot(show.Root)

	coordinator, err := show.Coordinator(timeline.WithPresenter(surface))
	if err != nil {
		return err
	}

	if opts.audio {
		player := audio.NewPlayer(0.4)
		if err := player.Init(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			defer player.Close()
			coordinator.AddListener(player.Listen)
		}
	}
	if opts.verbose {
		coordinator.AddListener(func(e timeline.Event) {
			log.Println(e)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pollEvents(screen, cancel)

	return timeline.Run(ctx, coordinator, show.Interval())
}

// pollEvents cancels on a quit key and repaints after a resize. It returns
// when the screen is finalized.
func pollEvents(screen tcell.Screen, cancel context.CancelFunc) {
	defer merrors.Recover("cmd.pollEvents")
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if isQuitKey(ev) {
				cancel()
				return
			}
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
