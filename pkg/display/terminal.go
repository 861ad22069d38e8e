package display

import (
	"image"

	"github.com/gdamore/tcell/v2"
)

// upperHalfBlock paints the top pixel of a cell as foreground and the bottom
// pixel as background, doubling vertical resolution.
const upperHalfBlock = '▀'

// TerminalSurface presents frames on a tcell screen, two pixels per cell.
type TerminalSurface struct {
	*Canvas
	screen tcell.Screen
	// Scale samples every Scale-th pixel in each direction. Values below 1
	// are treated as 1.
	Scale int
}

// NewTerminalSurface creates a surface of w×h pixels drawn onto screen. The
// screen must already be initialized.
func NewTerminalSurface(screen tcell.Screen, w, h int) *TerminalSurface {
	return &TerminalSurface{
		Canvas: NewCanvas(w, h),
		screen: screen,
		Scale:  1,
	}
}

// Screen returns the underlying tcell screen.
func (s *TerminalSurface) Screen() tcell.Screen { return s.screen }

// Refresh composes the tree and pushes it to the terminal.
func (s *TerminalSurface) Refresh() error {
	frame := s.Compose()
	s.paint(frame)
	s.screen.Show()
	return nil
}

func (s *TerminalSurface) paint(frame *image.RGBA) {
	scale := s.Scale
	if scale < 1 {
		scale = 1
	}
	cols, rows := s.screen.Size()
	b := frame.Bounds()

	for cy := 0; cy < rows; cy++ {
		top := cy * 2 * scale
		bottom := top + scale
		if top >= b.Dy() {
			break
		}
		for cx := 0; cx < cols; cx++ {
			px := cx * scale
			if px >= b.Dx() {
				break
			}
			fg := cellColor(frame, px, top)
			bg := tcell.ColorBlack
			if bottom < b.Dy() {
				bg = cellColor(frame, px, bottom)
			}
			style := tcell.StyleDefault.Foreground(fg).Background(bg)
			s.screen.SetContent(cx, cy, upperHalfBlock, nil, style)
		}
	}
}

func cellColor(frame *image.RGBA, x, y int) tcell.Color {
	off := frame.PixOffset(x, y)
	return tcell.NewRGBColor(int32(frame.Pix[off]), int32(frame.Pix[off+1]), int32(frame.Pix[off+2]))
}
