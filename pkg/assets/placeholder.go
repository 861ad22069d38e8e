package assets

import (
	"image"
	"image/color"

	"github.com/go-drift/marquee/pkg/graphics"
)

// Placeholder palette indices.
const (
	placeholderClear  = 0
	placeholderBody   = 1
	placeholderAccent = 2
)

// Placeholder synthesizes a horizontal strip of frames tileW×tileH pixels
// each, for use when no sprite sheet is available. Every frame is a filled
// block in body with an accent bar whose height grows with the frame index,
// so frame changes are visible.
func Placeholder(tileW, tileH, frames int, body graphics.Color) *Sheet {
	if frames < 1 {
		frames = 1
	}
	pal := color.Palette{
		color.NRGBA{A: 0xFF},
		body.NRGBA(),
		color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	}
	bitmap := image.NewPaletted(image.Rect(0, 0, tileW*frames, tileH), pal)

	for f := 0; f < frames; f++ {
		left := f * tileW
		bar := tileH * (f + 1) / frames
		for y := 0; y < tileH; y++ {
			for x := 0; x < tileW; x++ {
				idx := uint8(placeholderBody)
				switch {
				case x == 0 || x == tileW-1:
					idx = placeholderClear
				case x < tileW/4 && y >= tileH-bar:
					idx = placeholderAccent
				}
				bitmap.SetColorIndex(left+x, y, idx)
			}
		}
	}

	p := graphics.PaletteFrom(pal)
	p.MakeTransparent(placeholderClear)
	return &Sheet{Bitmap: bitmap, Palette: p}
}
