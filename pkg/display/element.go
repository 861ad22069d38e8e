// Package display models the visual tree a marquee timeline animates and the
// surfaces that present it.
//
// The tree is built from [TileGrid] sprites held in [Group] containers.
// Positions are integer pixels relative to the parent group. A [Surface]
// composes the tree into a frame buffer and presents it when Refresh is
// called.
package display

import (
	"image"

	"github.com/go-drift/marquee/pkg/graphics"
)

// Node is anything that can sit in a Group.
type Node interface {
	Position() (x, y int)
	SetPosition(x, y int)
	// Draw paints the node into dst with its origin offset by (ox, oy).
	Draw(dst *image.RGBA, ox, oy int)
}

// Bitmap is an indexed sprite sheet. *image.Paletted satisfies it.
type Bitmap interface {
	Bounds() image.Rectangle
	ColorIndexAt(x, y int) uint8
}

// TileGrid shows one tile of a sprite sheet through a swappable palette.
type TileGrid struct {
	bitmap  Bitmap
	tileW   int
	tileH   int
	x, y    int
	frame   int
	palette *graphics.Palette
	Hidden  bool
}

// NewTileGrid creates a grid showing frame 0 of bitmap, which is cut into
// tiles of tileW×tileH pixels read left to right, top to bottom.
func NewTileGrid(bitmap Bitmap, palette *graphics.Palette, tileW, tileH int) *TileGrid {
	return &TileGrid{
		bitmap:  bitmap,
		tileW:   tileW,
		tileH:   tileH,
		palette: palette,
	}
}

// Position returns the grid's top-left corner relative to its parent.
func (t *TileGrid) Position() (x, y int) { return t.x, t.y }

// SetPosition moves the grid.
func (t *TileGrid) SetPosition(x, y int) { t.x, t.y = x, y }

// Frame returns the displayed tile index.
func (t *TileGrid) Frame() int { return t.frame }

// SetFrame selects the displayed tile.
func (t *TileGrid) SetFrame(index int) { t.frame = index }

// Palette returns the active palette.
func (t *TileGrid) Palette() *graphics.Palette { return t.palette }

// SetPalette swaps the active palette.
func (t *TileGrid) SetPalette(p *graphics.Palette) { t.palette = p }

// TileSize returns the size of one tile.
func (t *TileGrid) TileSize() (w, h int) { return t.tileW, t.tileH }

// FrameCount returns how many whole tiles the sheet holds.
func (t *TileGrid) FrameCount() int {
	if t.tileW <= 0 || t.tileH <= 0 {
		return 0
	}
	b := t.bitmap.Bounds()
	return (b.Dx() / t.tileW) * (b.Dy() / t.tileH)
}

func (t *TileGrid) tileOrigin(frame int) (image.Point, bool) {
	b := t.bitmap.Bounds()
	perRow := b.Dx() / t.tileW
	if perRow <= 0 || frame < 0 || frame >= t.FrameCount() {
		return image.Point{}, false
	}
	return image.Point{
		X: b.Min.X + (frame%perRow)*t.tileW,
		Y: b.Min.Y + (frame/perRow)*t.tileH,
	}, true
}

// Draw paints the current tile. Transparent palette entries are skipped and
// pixels outside dst are clipped.
func (t *TileGrid) Draw(dst *image.RGBA, ox, oy int) {
	if t.Hidden || t.palette == nil || t.bitmap == nil {
		return
	}
	src, ok := t.tileOrigin(t.frame)
	if !ok {
		return
	}

	bounds := dst.Bounds()
	left, top := ox+t.x, oy+t.y
	for py := 0; py < t.tileH; py++ {
		dy := top + py
		if dy < bounds.Min.Y || dy >= bounds.Max.Y {
			continue
		}
		for px := 0; px < t.tileW; px++ {
			dx := left + px
			if dx < bounds.Min.X || dx >= bounds.Max.X {
				continue
			}
			c, transparent := t.palette.At(int(t.bitmap.ColorIndexAt(src.X+px, src.Y+py)))
			if transparent {
				continue
			}
			r, g, b, _ := c.Components()
			off := dst.PixOffset(dx, dy)
			dst.Pix[off+0] = r
			dst.Pix[off+1] = g
			dst.Pix[off+2] = b
			dst.Pix[off+3] = 0xFF
		}
	}
}

// Group is a positioned container; children are drawn in insertion order
// relative to the group's position.
type Group struct {
	x, y     int
	children []Node
	Hidden   bool
}

// NewGroup creates an empty group at the origin.
func NewGroup() *Group {
	return &Group{}
}

// Append adds a child on top of the existing ones.
func (g *Group) Append(n Node) {
	g.children = append(g.children, n)
}

// Children returns the group's children in draw order.
func (g *Group) Children() []Node {
	return g.children
}

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

// Position returns the group's offset relative to its parent.
func (g *Group) Position() (x, y int) { return g.x, g.y }

// SetPosition moves the group and everything in it.
func (g *Group) SetPosition(x, y int) { g.x, g.y = x, y }

// Draw paints every child.
func (g *Group) Draw(dst *image.RGBA, ox, oy int) {
	if g.Hidden {
		return
	}
	for _, child := range g.children {
		child.Draw(dst, ox+g.x, oy+g.y)
	}
}
