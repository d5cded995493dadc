package canvas

import (
	"fmt"
	"image/color"
)

// Color is an opaque RGB colour. Transparency is expressed through the
// opacity of shapes and groups, never through the colour itself.
type Color struct {
	R, G, B uint8
	Name    string // CSS keyword used in SVG output when set
}

// Common colours.
var (
	White = Color{R: 255, G: 255, B: 255, Name: "white"}
	Gray  = Color{R: 128, G: 128, B: 128, Name: "gray"}
	Black = Color{R: 0, G: 0, B: 0, Name: "black"}
)

// RGB returns an unnamed colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// IsZero reports whether c is unset.
func (c Color) IsZero() bool { return c == Color{} }

// String formats c for SVG and CSS: the keyword when named, else rgb(r, g, b).
func (c Color) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGBA converts c into an image colour with the given opacity in [0,1].
func (c Color) RGBA(opacity float64) color.NRGBA {
	opacity = max(0, min(1, opacity))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(opacity*255 + 0.5)}
}
