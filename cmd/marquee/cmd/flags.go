package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-drift/marquee/cmd/marquee/internal/config"
	"github.com/go-drift/marquee/pkg/animation"
)

// showFlags are the flags shared by every command that loads a show.
type showFlags struct {
	config  string
	assets  string
	fps     int
	scale   int
	audio   bool
	verbose bool
	out     string
	loops   int
	trace   string
}

// parseShowArgs parses flags in "--name value" or "--name=value" form and
// returns the remaining positional arguments.
func parseShowArgs(args []string) ([]string, showFlags, error) {
	opts := showFlags{scale: 1, loops: 1}
	var rest []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			rest = append(rest, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		switch name {
		case "audio":
			opts.audio = true
			continue
		case "verbose":
			opts.verbose = true
			continue
		}

		if !hasValue {
			if i+1 >= len(args) {
				return nil, opts, fmt.Errorf("--%s requires a value", name)
			}
			i++
			value = args[i]
		}

		var err error
		switch name {
		case "config":
			opts.config = value
		case "assets":
			opts.assets = value
		case "out":
			opts.out = value
		case "trace":
			opts.trace = value
		case "fps":
			opts.fps, err = positiveInt(name, value)
		case "scale":
			opts.scale, err = positiveInt(name, value)
		case "loops":
			opts.loops, err = positiveInt(name, value)
		default:
			return nil, opts, fmt.Errorf("unknown flag --%s", name)
		}
		if err != nil {
			return nil, opts, err
		}
	}
	return rest, opts, nil
}

func positiveInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("--%s wants a positive integer, got %q", name, value)
	}
	return n, nil
}

// loadChoreography reads --config, or marquee.yaml from the working
// directory, or the built-in show.
func loadChoreography(opts showFlags) (*config.Choreography, error) {
	if opts.config != "" {
		return config.Load(opts.config)
	}
	return config.LoadOptional(".")
}

// assetsDir returns --assets, or the directory holding the choreography
// file, or ./assets for the built-in show.
func assetsDir(opts showFlags, c *config.Choreography) string {
	switch {
	case opts.assets != "":
		return opts.assets
	case c.Source != "builtin":
		return filepath.Dir(c.Source)
	}
	return "assets"
}

// loadShow loads and resolves the show described by opts.
func loadShow(opts showFlags, clock animation.Clock) (*config.Show, *config.Choreography, error) {
	c, err := loadChoreography(opts)
	if err != nil {
		return nil, nil, err
	}
	show, err := config.Resolve(c, config.ResolveOptions{
		AssetsDir: assetsDir(opts, c),
		Clock:     clock,
	})
	if err != nil {
		return nil, nil, err
	}
	if opts.fps > 0 {
		show.FPS = opts.fps
	}
	if len(show.Placeholders) > 0 && opts.verbose {
		log.Printf("no sheet for %s, drawing placeholders", strings.Join(show.Placeholders, ", "))
	}
	return show, c, nil
}
