// Package theme maps color theme names to the fill and glow colors of the rain.
package theme

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme pairs the glyph fill color with the glow drawn around it.
type Theme struct {
	Name string
	Fill color.RGBA
	Glow color.RGBA
}

// Available themes
var (
	Green = Theme{
		Name: "green",
		Fill: color.RGBA{R: 0x00, G: 0xff, B: 0x41, A: 0xff},
		Glow: color.RGBA{R: 0x00, G: 0xff, B: 0x41, A: 0xff},
	}

	Cyan = Theme{
		Name: "cyan",
		Fill: color.RGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff},
		Glow: color.RGBA{R: 0x00, G: 0xcc, B: 0xff, A: 0xff},
	}

	Purple = Theme{
		Name: "purple",
		Fill: color.RGBA{R: 0xb9, G: 0x67, B: 0xff, A: 0xff},
		Glow: color.RGBA{R: 0xd9, G: 0xa7, B: 0xff, A: 0xff},
	}

	Blue = Theme{
		Name: "blue",
		Fill: color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
		Glow: color.RGBA{R: 0x60, G: 0xa5, B: 0xfa, A: 0xff},
	}

	White = Theme{
		Name: "white",
		Fill: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Glow: color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
	}

	// Default theme
	Default = Green

	// All available themes, in cycling order
	Themes = []Theme{Green, Cyan, Purple, Blue, White}
)

// Get returns a theme by name, falling back to Default for unknown names.
func Get(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return Default
}

// Lookup reports whether name is a known theme.
func Lookup(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Next returns the theme after name in cycling order.
func Next(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Default
}

// Names returns list of available theme names
func Names() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// FillColor and GlowColor adapt the theme for lipgloss styles.
func (t Theme) FillColor() lipgloss.Color { return lipgloss.Color(Hex(t.Fill)) }
func (t Theme) GlowColor() lipgloss.Color { return lipgloss.Color(Hex(t.Glow)) }

func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Scale darkens c toward black by the factor k in [0, 1].
func Scale(c color.RGBA, k float64) color.RGBA {
	if k < 0 {
		k = 0
	}
	if k > 1 {
		k = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: c.A,
	}
}
