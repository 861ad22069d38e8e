package cmd

import (
	"fmt"

	"github.com/go-drift/marquee/pkg/animation"
)

func init() {
	RegisterCommand(&Command{
		Name:  "validate",
		Short: "Check a choreography file",
		Long: `Load a choreography, resolve its sprite sheets, and build its timeline
without playing it. Exits non-zero on the first problem found.

Flags:
  --config FILE   Choreography file (default: ./marquee.yaml, else built-in)
  --assets DIR    Directory holding sprite sheets
  --verbose       Also list elements drawn from placeholders`,
		Usage: "marquee validate [--config FILE] [--assets DIR] [--verbose]",
		Run:   runValidate,
	})
}

func runValidate(args []string) error {
	_, opts, err := parseShowArgs(args)
	if err != nil {
		return err
	}
	show, c, err := loadShow(opts, animation.DefaultClock())
	if err != nil {
		return err
	}
	coordinator, err := show.Coordinator()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: ok (schema %s, %d elements, %d steps, terminal #%d)\n",
		c.Source, c.Schema, len(show.Elements), len(show.Steps), coordinator.Terminal())
	if n := len(show.Placeholders); n > 0 {
		fmt.Fprintf(stdout, "%d of %d elements have no sheet file\n", n, len(show.Elements))
	}
	return nil
}
