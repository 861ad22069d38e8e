// Package config loads choreography files and resolves them into a display
// tree and a timeline.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	merrors "github.com/go-drift/marquee/pkg/errors"
	"github.com/go-drift/marquee/pkg/graphics"
)

// FileName is the choreography file LoadOptional looks for.
const FileName = "marquee.yaml"

// SchemaVersion is the newest choreography schema this build understands.
// Files must share its major version.
const SchemaVersion = "v1.0.0"

//go:embed default.yaml
var defaultYAML []byte

// Choreography is the parsed form of a choreography file.
type Choreography struct {
	Schema   string          `yaml:"schema"`
	Name     string          `yaml:"name,omitempty"`
	Display  DisplayConfig   `yaml:"display"`
	Rest     *time.Duration  `yaml:"rest,omitempty"`
	Terminal string          `yaml:"terminal,omitempty"`
	Groups   []GroupConfig   `yaml:"groups,omitempty"`
	Elements []ElementConfig `yaml:"elements"`
	Steps    []StepConfig    `yaml:"steps"`

	// Source is where the choreography was read from, or "builtin".
	Source string `yaml:"-"`
}

// DisplayConfig describes the target display.
type DisplayConfig struct {
	Width      int    `yaml:"width,omitempty"`
	Height     int    `yaml:"height,omitempty"`
	FPS        int    `yaml:"fps,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// GroupConfig is a container inside the root group.
type GroupConfig struct {
	Name      string `yaml:"name"`
	Offscreen Point  `yaml:"offscreen"`
}

// ElementConfig is one sprite-sheet element.
type ElementConfig struct {
	Name      string `yaml:"name"`
	Sheet     string `yaml:"sheet,omitempty"`
	Tile      Point  `yaml:"tile"`
	Frames    int    `yaml:"frames,omitempty"`
	Color     string `yaml:"color,omitempty"`
	Group     string `yaml:"group,omitempty"`
	Offscreen Point  `yaml:"offscreen"`
	Palettes  bool   `yaml:"palettes,omitempty"`
	// ResetFrame, when set, is the frame the element returns to at the end
	// of every loop.
	ResetFrame *int `yaml:"reset_frame,omitempty"`
}

// StepConfig is one timeline entry. Exactly one of Move and Palette is set.
type StepConfig struct {
	Name      string        `yaml:"name,omitempty"`
	Move      string        `yaml:"move,omitempty"`
	Palette   string        `yaml:"palette,omitempty"`
	To        Point         `yaml:"to,omitempty"`
	At        time.Duration `yaml:"at"`
	Duration  time.Duration `yaml:"duration,omitempty"`
	Overshoot int           `yaml:"overshoot,omitempty"`
	Rate      float64       `yaml:"rate,omitempty"`
	Sprite    *SpriteConfig `yaml:"sprite,omitempty"`
}

// SpriteConfig is a frame cycle. Either FPS or Delay sets the pace.
type SpriteConfig struct {
	From  int           `yaml:"from"`
	To    int           `yaml:"to"`
	FPS   float64       `yaml:"fps,omitempty"`
	Delay time.Duration `yaml:"delay,omitempty"`
	Start time.Duration `yaml:"start,omitempty"`
}

// FrameDelay returns the per-frame delay, preferring Delay over FPS. Zero
// means the animator default.
func (s SpriteConfig) FrameDelay() time.Duration {
	if s.Delay > 0 {
		return s.Delay
	}
	if s.FPS > 0 {
		return time.Duration(float64(time.Second) / s.FPS)
	}
	return 0
}

// Point is an [x, y] pair.
type Point struct {
	X, Y int
}

// UnmarshalYAML decodes a two-element sequence.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xy []int
	if err := value.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: point needs 2 values, got %d", value.Line, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Default returns the built-in choreography.
func Default() *Choreography {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("config: builtin choreography is invalid: %v", err))
	}
	c.Source = "builtin"
	return c
}

// Parse decodes and checks a choreography document.
func Parse(data []byte) (*Choreography, error) {
	var c Choreography
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, merrors.Wrap("config.Parse", merrors.KindConfig, err)
	}
	if err := checkSchema(c.Schema); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a choreography file.
func Load(path string) (*Choreography, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, merrors.Wrap("config.Load", merrors.KindConfig, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, &merrors.Error{
			Op:   "config.Load",
			Kind: merrors.KindConfig,
			Err:  fmt.Errorf("%s: %w", path, err),
		}
	}
	c.Source = path
	return c, nil
}

// LoadOptional reads marquee.yaml from dir if present, and otherwise returns
// the built-in choreography.
func LoadOptional(dir string) (*Choreography, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, merrors.Wrap("config.LoadOptional", merrors.KindConfig, err)
	}
	return Load(path)
}

func checkSchema(v string) error {
	const op = "config.Parse"
	if v == "" {
		return merrors.New(op, merrors.KindConfig, "schema version is required (current is %s)", SchemaVersion)
	}
	if !semver.IsValid(v) {
		return merrors.New(op, merrors.KindConfig, "schema %q is not a semantic version", v)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return merrors.New(op, merrors.KindConfig, "schema %s is not supported (want %s.x)", v, semver.Major(SchemaVersion))
	}
	if semver.Compare(v, SchemaVersion) > 0 {
		return merrors.New(op, merrors.KindConfig, "schema %s is newer than supported %s", v, SchemaVersion)
	}
	return nil
}

// Validate checks references and ranges that YAML decoding cannot.
func (c *Choreography) Validate() error {
	const op = "config.Validate"
	fail := func(step, format string, args ...any) error {
		e := merrors.New(op, merrors.KindConfig, format, args...)
		e.Step = step
		return e
	}

	if c.Display.Width < 0 || c.Display.Height < 0 || c.Display.FPS < 0 {
		return fail("", "display size and fps must not be negative")
	}
	if c.Display.Background != "" {
		if _, err := ParseColor(c.Display.Background); err != nil {
			return fail("", "display background: %v", err)
		}
	}
	if c.Rest != nil && *c.Rest < 0 {
		return fail("", "rest must not be negative")
	}

	names := make(map[string]string)
	for _, g := range c.Groups {
		if g.Name == "" {
			return fail("", "group without a name")
		}
		if _, dup := names[g.Name]; dup {
			return fail(g.Name, "duplicate name")
		}
		names[g.Name] = "group"
	}
	for _, e := range c.Elements {
		if e.Name == "" {
			return fail("", "element without a name")
		}
		if _, dup := names[e.Name]; dup {
			return fail(e.Name, "duplicate name")
		}
		names[e.Name] = "element"
		if e.Tile.X <= 0 || e.Tile.Y <= 0 {
			return fail(e.Name, "tile size must be positive, got %dx%d", e.Tile.X, e.Tile.Y)
		}
		if e.Group != "" && names[e.Group] != "group" {
			return fail(e.Name, "unknown group %q", e.Group)
		}
		if e.Color != "" {
			if _, err := ParseColor(e.Color); err != nil {
				return fail(e.Name, "color: %v", err)
			}
		}
		if e.ResetFrame != nil && *e.ResetFrame < 0 {
			return fail(e.Name, "reset_frame must not be negative")
		}
	}

	if len(c.Steps) == 0 {
		return fail("", "choreography has no steps")
	}
	tags := make(map[string]bool)
	for i, s := range c.Steps {
		label := stepLabel(i, s)
		if s.Name != "" {
			if tags[s.Name] {
				return fail(label, "duplicate step name")
			}
			tags[s.Name] = true
		}
		switch {
		case s.Move != "" && s.Palette != "":
			return fail(label, "step sets both move and palette")
		case s.Move != "":
			kind, ok := names[s.Move]
			if !ok {
				return fail(label, "unknown move target %q", s.Move)
			}
			if s.Duration <= 0 {
				return fail(label, "duration must be positive")
			}
			if s.Sprite != nil {
				if kind != "element" {
					return fail(label, "sprite cycle on group %q", s.Move)
				}
				if s.Sprite.From < 0 || s.Sprite.From > s.Sprite.To {
					return fail(label, "sprite range %d..%d is invalid", s.Sprite.From, s.Sprite.To)
				}
			}
		case s.Palette != "":
		default:
			return fail(label, "step needs move or palette")
		}
		if s.At < 0 {
			return fail(label, "negative start offset")
		}
	}
	if c.Terminal != "" && !tags[c.Terminal] {
		return fail("", "terminal step %q not found", c.Terminal)
	}
	return nil
}

func stepLabel(i int, s StepConfig) string {
	switch {
	case s.Name != "":
		return fmt.Sprintf("#%d %s", i, s.Name)
	case s.Move != "":
		return fmt.Sprintf("#%d move:%s", i, s.Move)
	case s.Palette != "":
		return fmt.Sprintf("#%d palette:%s", i, s.Palette)
	}
	return fmt.Sprintf("#%d", i)
}

// ParseColor parses "#rrggbb" or "0xrrggbb".
func ParseColor(s string) (graphics.Color, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return graphics.Hex(uint32(v)), nil
}
