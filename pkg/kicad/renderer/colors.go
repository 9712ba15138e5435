package renderer

import (
	"image/color"

	"github.com/OpenTraceLab/lincoil/pkg/coil"
)

// ColorTheme selects a palette.
type ColorTheme int

const (
	ThemeClassic ColorTheme = iota
	ThemeNord
)

// ThemeNames maps theme enum to display name
var ThemeNames = map[ColorTheme]string{
	ThemeClassic: "Classic",
	ThemeNord:    "Nord",
}

// Copper colors, front to back. Inner layers beyond the table reuse it
// cyclically.
var classicCopper = []color.NRGBA{
	{R: 200, G: 52, B: 52, A: 255},   // F.Cu
	{R: 127, G: 200, B: 127, A: 255}, // In1.Cu
	{R: 206, G: 125, B: 44, A: 255},  // In2.Cu
	{R: 194, G: 194, B: 0, A: 255},   // In3.Cu
	{R: 194, G: 0, B: 194, A: 255},   // In4.Cu
	{R: 0, G: 194, B: 194, A: 255},   // In5.Cu
	{R: 132, G: 132, B: 255, A: 255}, // In6.Cu
}

var nordCopper = []color.NRGBA{
	{R: 191, G: 97, B: 106, A: 255},  // Nord11
	{R: 163, G: 190, B: 140, A: 255}, // Nord14
	{R: 235, G: 203, B: 139, A: 255}, // Nord13
	{R: 208, G: 135, B: 112, A: 255}, // Nord12
	{R: 180, G: 142, B: 173, A: 255}, // Nord15
	{R: 136, G: 192, B: 208, A: 255}, // Nord8
	{R: 143, G: 188, B: 187, A: 255}, // Nord7
}

// Palette resolves layer and item colors for one theme.
type Palette struct {
	copper     []color.NRGBA
	back       color.NRGBA
	Background color.NRGBA
	Edge       color.NRGBA
	Pad        color.NRGBA
	Via        color.NRGBA
	Drill      color.NRGBA
}

// NewPalette returns the palette for theme, falling back to Classic.
func NewPalette(theme ColorTheme) Palette {
	if theme == ThemeNord {
		return Palette{
			copper:     nordCopper,
			back:       color.NRGBA{R: 129, G: 161, B: 193, A: 255},
			Background: color.NRGBA{R: 46, G: 52, B: 64, A: 255},
			Edge:       color.NRGBA{R: 229, G: 233, B: 240, A: 255},
			Pad:        color.NRGBA{R: 235, G: 203, B: 139, A: 255},
			Via:        color.NRGBA{R: 216, G: 222, B: 233, A: 255},
			Drill:      color.NRGBA{R: 59, G: 66, B: 82, A: 255},
		}
	}
	return Palette{
		copper:     classicCopper,
		back:       color.NRGBA{R: 77, G: 127, B: 196, A: 255},
		Background: color.NRGBA{R: 0, G: 16, B: 35, A: 255},
		Edge:       color.NRGBA{R: 208, G: 210, B: 205, A: 255},
		Pad:        color.NRGBA{R: 227, G: 183, B: 46, A: 255},
		Via:        color.NRGBA{R: 236, G: 236, B: 236, A: 255},
		Drill:      color.NRGBA{R: 0, G: 16, B: 35, A: 255},
	}
}

// Layer returns the color of a copper layer; anything else is gray.
func (p Palette) Layer(layer string) color.NRGBA {
	id := coil.LayerID(layer)
	n, ok := id.Ordinal()
	switch {
	case !ok:
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	case id == coil.BackCopper:
		return p.back
	case n == 0:
		return p.copper[0]
	}
	return p.copper[1+(n-1)%(len(p.copper)-1)]
}

// Dim returns c at low opacity, used for layers other than the active one.
func Dim(c color.NRGBA) color.NRGBA {
	c.A = 70
	return c
}
