package config

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/go-drift/marquee/pkg/animation"
	"github.com/go-drift/marquee/pkg/assets"
	"github.com/go-drift/marquee/pkg/display"
	merrors "github.com/go-drift/marquee/pkg/errors"
	"github.com/go-drift/marquee/pkg/graphics"
	"github.com/go-drift/marquee/pkg/timeline"
)

// Display defaults, matching a 240x240 panel.
const (
	DefaultWidth  = 240
	DefaultHeight = 240
)

// Show is a resolved choreography: a display tree plus the timeline that
// animates it.
type Show struct {
	Name       string
	Width      int
	Height     int
	FPS        int
	Background graphics.Color

	Root     *display.Group
	Groups   map[string]*display.Group
	Elements map[string]*display.TileGrid
	Steps    []timeline.Step
	Options  []timeline.Option

	// Placeholders lists elements drawn from a synthesized sheet because
	// their sheet file was missing.
	Placeholders []string
}

// ResolveOptions controls how a choreography becomes a Show.
type ResolveOptions struct {
	// AssetsDir is where sheet files are looked up.
	AssetsDir string
	// Clock drives every animator and the coordinator.
	Clock animation.Clock
}

// Resolve loads sprite sheets and builds the display tree and timeline.
func Resolve(c *Choreography, opts ResolveOptions) (*Show, error) {
	if opts.Clock == nil {
		opts.Clock = animation.DefaultClock()
	}

	show := &Show{
		Name:     c.Name,
		Width:    orDefault(c.Display.Width, DefaultWidth),
		Height:   orDefault(c.Display.Height, DefaultHeight),
		FPS:      orDefault(c.Display.FPS, timeline.DefaultFPS),
		Root:     display.NewGroup(),
		Groups:   make(map[string]*display.Group),
		Elements: make(map[string]*display.TileGrid),
	}
	show.Background = graphics.ColorBlack
	if c.Display.Background != "" {
		bg, err := ParseColor(c.Display.Background)
		if err != nil {
			return nil, merrors.Wrap("config.Resolve", merrors.KindConfig, err)
		}
		show.Background = bg
	}

	for _, g := range c.Groups {
		group := display.NewGroup()
		group.SetPosition(g.Offscreen.X, g.Offscreen.Y)
		show.Groups[g.Name] = group
		show.Root.Append(group)
	}

	palettes := make(map[string]*graphics.PaletteSet)
	for _, e := range c.Elements {
		sheet, placeholder, err := loadSheet(e, opts.AssetsDir)
		if err != nil {
			return nil, err
		}
		if placeholder {
			show.Placeholders = append(show.Placeholders, e.Name)
		}

		tg := display.NewTileGrid(sheet.Bitmap, sheet.Palette, e.Tile.X, e.Tile.Y)
		tg.SetPosition(e.Offscreen.X, e.Offscreen.Y)
		show.Elements[e.Name] = tg
		if e.Palettes {
			palettes[e.Name] = graphics.NewStandardPaletteSet(sheet.Palette)
		}
		if e.ResetFrame != nil {
			show.Options = append(show.Options, timeline.WithResetFrame(tg, *e.ResetFrame))
		}

		parent := show.Root
		if e.Group != "" {
			parent = show.Groups[e.Group]
		}
		parent.Append(tg)
	}

	offscreen := make(map[string]image.Point)
	for _, g := range c.Groups {
		offscreen[g.Name] = image.Pt(g.Offscreen.X, g.Offscreen.Y)
	}
	for _, e := range c.Elements {
		offscreen[e.Name] = image.Pt(e.Offscreen.X, e.Offscreen.Y)
	}

	animators := make(map[string]*animation.OvershootAnimator)
	registered := make(map[string]bool)
	for _, s := range c.Steps {
		if s.Palette != "" {
			show.Steps = append(show.Steps, &timeline.PaletteSwapStep{
				Tag:     s.Name,
				Palette: s.Palette,
				At:      s.At,
			})
			continue
		}

		anim, ok := animators[s.Move]
		if !ok {
			anim = animation.NewOvershootAnimator(show.target(s.Move), animation.WithClock(opts.Clock))
			animators[s.Move] = anim
		}
		step := &timeline.MoveStep{
			Tag:       s.Name,
			Animator:  anim,
			Offscreen: offscreen[s.Move],
			Onscreen:  image.Pt(s.To.X, s.To.Y),
			Duration:  s.Duration,
			Overshoot: s.Overshoot,
			Rate:      s.Rate,
			At:        s.At,
		}
		if s.Sprite != nil {
			step.Sprite = &timeline.SpriteRange{
				From:       s.Sprite.From,
				To:         s.Sprite.To,
				Delay:      s.Sprite.FrameDelay(),
				StartAfter: s.Sprite.Start,
			}
		}
		// Palette variants ride on the first step for each element so a
		// swap counts every element once.
		if set, ok := palettes[s.Move]; ok && !registered[s.Move] {
			step.Palettes = set
			registered[s.Move] = true
		}
		show.Steps = append(show.Steps, step)
	}

	show.Options = append(show.Options, timeline.WithClock(opts.Clock))
	if c.Terminal != "" {
		show.Options = append(show.Options, timeline.WithTerminalTag(c.Terminal))
	}
	if c.Rest != nil {
		show.Options = append(show.Options, timeline.WithRest(*c.Rest))
	}
	return show, nil
}

func (s *Show) target(name string) animation.Target {
	if tg, ok := s.Elements[name]; ok {
		return tg
	}
	return s.Groups[name]
}

// Coordinator builds a coordinator for the show, adding extra options after
// the show's own.
func (s *Show) Coordinator(extra ...timeline.Option) (*timeline.Coordinator, error) {
	opts := append(append([]timeline.Option(nil), s.Options...), extra...)
	return timeline.New(s.Steps, opts...)
}

// Interval returns the tick interval for the show's frame rate.
func (s *Show) Interval() time.Duration {
	return timeline.Interval(s.FPS)
}

func loadSheet(e ElementConfig, dir string) (*assets.Sheet, bool, error) {
	if e.Sheet != "" {
		sheet, err := assets.LoadSheet(filepath.Join(dir, e.Sheet))
		if err == nil {
			return sheet, false, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, false, err
		}
	}

	body := graphics.ColorWhite
	if e.Color != "" {
		c, err := ParseColor(e.Color)
		if err != nil {
			return nil, false, merrors.Wrap("config.Resolve", merrors.KindConfig, err)
		}
		body = c
	}
	return assets.Placeholder(e.Tile.X, e.Tile.Y, orDefault(e.Frames, 1), body), true, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
