// Package assets loads indexed sprite sheets and their palettes.
package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"

	"github.com/go-drift/marquee/pkg/errors"
	"github.com/go-drift/marquee/pkg/graphics"
)

// maxPaletteSize is the largest color table an indexed image can carry.
const maxPaletteSize = 256

// Sheet is an indexed sprite sheet and the palette it was saved with.
type Sheet struct {
	Bitmap  *image.Paletted
	Palette *graphics.Palette
}

// LoadSheet reads a BMP, PNG or GIF sprite sheet. Palette entry 0 is marked
// transparent.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap("assets.LoadSheet", errors.KindAsset, err)
	}
	sheet, err := DecodeSheet(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.Error{
			Op:   "assets.LoadSheet",
			Kind: errors.KindAsset,
			Err:  fmt.Errorf("%s: %w", path, err),
		}
	}
	return sheet, nil
}

// DecodeSheet decodes a sprite sheet from r. Images that are not already
// indexed are converted when they use at most 256 distinct colors.
func DecodeSheet(r io.Reader) (*Sheet, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	paletted, ok := img.(*image.Paletted)
	if !ok {
		paletted, err = toPaletted(img)
		if err != nil {
			return nil, err
		}
	}

	pal := graphics.PaletteFrom(paletted.Palette)
	pal.MakeTransparent(0)
	return &Sheet{Bitmap: paletted, Palette: pal}, nil
}

// toPaletted indexes img's colors in first-seen order, so the top-left pixel
// becomes entry 0.
func toPaletted(img image.Image) (*image.Paletted, error) {
	b := img.Bounds()
	out := image.NewPaletted(b, nil)
	index := make(map[graphics.Color]uint8)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := graphics.FromColor(img.At(x, y))
			i, seen := index[c]
			if !seen {
				if len(out.Palette) == maxPaletteSize {
					return nil, fmt.Errorf("image uses more than %d colors", maxPaletteSize)
				}
				i = uint8(len(out.Palette))
				index[c] = i
				out.Palette = append(out.Palette, c.NRGBA())
			}
			out.SetColorIndex(x, y, i)
		}
	}
	return out, nil
}
