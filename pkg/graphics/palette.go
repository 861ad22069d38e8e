package graphics

import (
	"image/color"
	"sort"
)

// Palette is an indexed color table. Entries flagged transparent are skipped
// when drawing.
type Palette struct {
	colors      []Color
	transparent []bool
}

// NewPalette creates a palette from the given colors with no transparency.
func NewPalette(colors ...Color) *Palette {
	p := &Palette{
		colors:      make([]Color, len(colors)),
		transparent: make([]bool, len(colors)),
	}
	copy(p.colors, colors)
	return p
}

// PaletteFrom converts a standard library palette, as decoded from an
// indexed image.
func PaletteFrom(pal color.Palette) *Palette {
	colors := make([]Color, len(pal))
	for i, c := range pal {
		colors[i] = FromColor(c)
	}
	return NewPalette(colors...)
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.colors)
}

// At returns entry i and whether it is transparent. Indices outside the
// palette read as transparent.
func (p *Palette) At(i int) (Color, bool) {
	if i < 0 || i >= len(p.colors) {
		return ColorTransparent, true
	}
	return p.colors[i], p.transparent[i]
}

// Set replaces entry i. Out-of-range indices are ignored.
func (p *Palette) Set(i int, c Color) {
	if i < 0 || i >= len(p.colors) {
		return
	}
	p.colors[i] = c
}

// MakeTransparent marks entry i as transparent.
func (p *Palette) MakeTransparent(i int) {
	if i < 0 || i >= len(p.transparent) {
		return
	}
	p.transparent[i] = true
}

// MakeOpaque clears the transparent flag on entry i.
func (p *Palette) MakeOpaque(i int) {
	if i < 0 || i >= len(p.transparent) {
		return
	}
	p.transparent[i] = false
}

// IsTransparent reports whether entry i is transparent.
func (p *Palette) IsTransparent(i int) bool {
	_, t := p.At(i)
	return t
}

// Colors converts the palette to a standard library palette. Transparent
// entries keep their color; transparency is a drawing flag, not alpha.
func (p *Palette) Colors() color.Palette {
	out := make(color.Palette, len(p.colors))
	for i, c := range p.colors {
		out[i] = c.NRGBA()
	}
	return out
}

// Clone returns an independent copy.
func (p *Palette) Clone() *Palette {
	c := &Palette{
		colors:      make([]Color, len(p.colors)),
		transparent: make([]bool, len(p.transparent)),
	}
	copy(c.colors, p.colors)
	copy(c.transparent, p.transparent)
	return c
}

// Recolor builds a variant of p where every entry is ANDed with mask
// (0xRRGGBB). Entry 0 is always transparent in the result; other entries
// are opaque.
func Recolor(p *Palette, mask uint32) *Palette {
	out := &Palette{
		colors:      make([]Color, len(p.colors)),
		transparent: make([]bool, len(p.colors)),
	}
	for i, c := range p.colors {
		out.colors[i] = c.Mask(mask)
	}
	out.MakeTransparent(0)
	return out
}

// Hue names a recoloring mask.
type Hue struct {
	Name string
	Mask uint32
}

// StandardHues are the recolor masks applied by NewStandardPaletteSet, in
// the order the show cycles through them.
var StandardHues = []Hue{
	{Name: "red_palette", Mask: 0xff0000},
	{Name: "yellow_palette", Mask: 0xffff00},
	{Name: "teal_palette", Mask: 0x00ffff},
	{Name: "pink_palette", Mask: 0xff00ff},
	{Name: "blue_palette", Mask: 0x0000ff},
	{Name: "green_palette", Mask: 0x00ff00},
}

// PaletteSet is an element's default palette plus named recolored variants,
// built once at setup.
type PaletteSet struct {
	Default  *Palette
	variants map[string]*Palette
}

// NewPaletteSet creates a set with only the default palette.
func NewPaletteSet(def *Palette) *PaletteSet {
	return &PaletteSet{
		Default:  def,
		variants: make(map[string]*Palette),
	}
}

// NewStandardPaletteSet creates a set holding one variant per StandardHues
// entry.
func NewStandardPaletteSet(def *Palette) *PaletteSet {
	return NewPaletteSetFor(def, StandardHues)
}

// NewPaletteSetFor creates a set holding one variant per hue.
func NewPaletteSetFor(def *Palette, hues []Hue) *PaletteSet {
	s := NewPaletteSet(def)
	for _, h := range hues {
		s.Add(h.Name, Recolor(def, h.Mask))
	}
	return s
}

// Add registers a named variant, replacing any existing one.
func (s *PaletteSet) Add(name string, p *Palette) {
	s.variants[name] = p
}

// Variant looks up a named variant.
func (s *PaletteSet) Variant(name string) (*Palette, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.variants[name]
	return p, ok
}

// Names returns the registered variant names in sorted order.
func (s *PaletteSet) Names() []string {
	names := make([]string, 0, len(s.variants))
	for name := range s.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
