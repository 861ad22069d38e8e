package display

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/go-drift/marquee/pkg/errors"
)

// SnapshotSurface writes every presented frame to a numbered PNG file.
type SnapshotSurface struct {
	*Canvas

	dir   string
	scale int
	face  font.Face
	next  int

	// Label, when set, is drawn in the top-left corner of every frame.
	Label func(frame int) string
}

// NewSnapshotSurface creates a surface of w×h pixels that writes frames into
// dir, enlarged by scale with nearest-neighbor sampling.
func NewSnapshotSurface(dir string, w, h, scale int) (*SnapshotSurface, error) {
	if scale < 1 {
		scale = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(6 * scale),
		DPI:     72,
		Hinting: font.HintingFull,
	})

	return &SnapshotSurface{
		Canvas: NewCanvas(w, h),
		dir:    dir,
		scale:  scale,
		face:   face,
	}, nil
}

// Refresh composes the tree and writes it as the next PNG frame.
func (s *SnapshotSurface) Refresh() error {
	frame := s.Compose()
	path := s.Path(s.next)
	if err := s.render(frame, s.next).SavePNG(path); err != nil {
		return errors.Wrap("display.Snapshot", errors.KindDisplay, fmt.Errorf("failed to write %s: %w", path, err))
	}
	s.next++
	return nil
}

// Path returns the file a given frame number is written to.
func (s *SnapshotSurface) Path(frame int) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame_%05d.png", frame))
}

// Written returns how many frames have been written.
func (s *SnapshotSurface) Written() int { return s.next }

func (s *SnapshotSurface) render(frame *image.RGBA, n int) *gg.Context {
	b := frame.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*s.scale, b.Dy()*s.scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), frame, b, draw.Src, nil)

	dc := gg.NewContextForRGBA(scaled)
	if s.Label != nil {
		if label := s.Label(n); label != "" {
			dc.SetFontFace(s.face)
			dc.SetColor(color.White)
			_, textH := dc.MeasureString(label)
			dc.DrawString(label, float64(2*s.scale), textH+float64(s.scale))
		}
	}
	return dc
}
