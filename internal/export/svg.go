package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/glyphrain/internal/rain"
	"github.com/san-kum/glyphrain/internal/render"
	"github.com/san-kum/glyphrain/internal/theme"
)

// ParticlesToSVG renders one frame of particles as SVG text elements.
func ParticlesToSVG(particles []rain.Particle, width, height int, th theme.Theme, f render.Font) string {
	var sb strings.Builder

	family := f.Family
	if family == "" {
		family = "monospace"
	}
	size := f.Size
	if size <= 0 {
		size = 14
	}

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<defs><filter id="glow"><feDropShadow dx="0" dy="0" stdDeviation="2" flood-color="%s"/></filter></defs>
<rect width="100%%" height="100%%" fill="#000000"/>
<g fill="%s" font-family="%s" font-size="%d" dominant-baseline="hanging" filter="url(#glow)">
`, width, height, width, height, theme.Hex(th.Glow), theme.Hex(th.Fill), html.EscapeString(family), size))

	for _, p := range particles {
		if p.Y+float64(size) < 0 || p.Y > float64(height) {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill-opacity="%.2f">%s</text>
`, p.X, p.Y, p.Alpha, html.EscapeString(string(p.Char))))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CountsToSVG draws a particle count series as a polyline chart.
func CountsToSVG(counts []float64, width, height int, strokeColor string) string {
	if len(counts) < 2 {
		return ""
	}

	maxY := counts[0]
	for _, c := range counts {
		if c > maxY {
			maxY = c
		}
	}
	if maxY == 0 {
		maxY = 1
	}
	maxY *= 1.1

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	step := float64(width) / float64(len(counts)-1)
	for i, c := range counts {
		x := float64(i) * step
		y := float64(height) - c/maxY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
