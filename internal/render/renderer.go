// Package render paints the particle field onto a drawing surface.
package render

import (
	"image/color"

	"github.com/san-kum/glyphrain/internal/rain"
	"github.com/san-kum/glyphrain/internal/theme"
)

// DefaultTrailAlpha is the opacity of the black overdraw that leaves trails.
const DefaultTrailAlpha = 0.12

var opaqueBlack = color.RGBA{A: 0xff}

type Renderer struct {
	TrailAlpha float64
}

func New() *Renderer {
	return &Renderer{TrailAlpha: DefaultTrailAlpha}
}

// Render draws one frame. A nil surface is skipped.
func (r *Renderer) Render(s Surface, particles []rain.Particle, th theme.Theme, f Font, state rain.FaucetState) {
	if s == nil {
		return
	}
	if state == rain.IdleEmpty {
		s.Fill(opaqueBlack)
		return
	}

	s.Fill(color.RGBA{A: alphaByte(r.TrailAlpha)})
	if len(particles) == 0 {
		return
	}

	s.SetFont(f)
	s.SetColors(th.Fill, th.Glow)
	for i := range particles {
		p := &particles[i]
		s.DrawGlyph(p.Char, p.X, p.Y, p.Alpha)
	}
}

func alphaByte(a float64) uint8 {
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 0xff
	}
	return uint8(a*255 + 0.5)
}
