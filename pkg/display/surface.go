package display

import (
	"image"
	"image/draw"

	"github.com/go-drift/marquee/pkg/graphics"
)

// Surface presents a composed visual tree.
type Surface interface {
	// SetRoot installs the tree to present.
	SetRoot(root *Group)
	// SetAutoRefresh toggles presenting on every SetRoot. A timeline turns
	// it off so presentation stays synchronized with its ticks.
	SetAutoRefresh(enabled bool)
	// Refresh composes the tree and presents the result.
	Refresh() error
	// Size returns the display size in pixels.
	Size() (w, h int)
}

// Canvas is an in-memory Surface. Other surfaces embed it for composition
// and present its frame buffer their own way.
type Canvas struct {
	Background graphics.Color

	root        *Group
	frame       *image.RGBA
	autoRefresh bool
	frames      int
}

// NewCanvas creates a canvas of the given size with a black background.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		Background:  graphics.ColorBlack,
		frame:       image.NewRGBA(image.Rect(0, 0, w, h)),
		autoRefresh: true,
	}
}

// SetRoot installs the tree to present.
func (c *Canvas) SetRoot(root *Group) {
	c.root = root
	if c.autoRefresh {
		c.Compose()
	}
}

// Root returns the installed tree.
func (c *Canvas) Root() *Group { return c.root }

// SetAutoRefresh toggles composing on every SetRoot.
func (c *Canvas) SetAutoRefresh(enabled bool) { c.autoRefresh = enabled }

// AutoRefresh reports whether auto refresh is enabled.
func (c *Canvas) AutoRefresh() bool { return c.autoRefresh }

// Size returns the display size in pixels.
func (c *Canvas) Size() (w, h int) {
	b := c.frame.Bounds()
	return b.Dx(), b.Dy()
}

// Compose clears the frame buffer to the background and draws the tree.
func (c *Canvas) Compose() *image.RGBA {
	draw.Draw(c.frame, c.frame.Bounds(), image.NewUniform(c.Background.NRGBA()), image.Point{}, draw.Src)
	if c.root != nil {
		c.root.Draw(c.frame, 0, 0)
	}
	c.frames++
	return c.frame
}

// Refresh composes the tree.
func (c *Canvas) Refresh() error {
	c.Compose()
	return nil
}

// Frame returns the most recently composed frame buffer.
func (c *Canvas) Frame() *image.RGBA { return c.frame }

// Frames returns how many frames have been composed.
func (c *Canvas) Frames() int { return c.frames }
