package render

import "image/color"

// Font selects the family and pixel size glyphs are drawn with.
type Font struct {
	Family string
	Size   int
}

// Surface is the drawing context the renderer paints into. Coordinates are
// logical pixels; implementations scale them by their pixel ratio.
type Surface interface {
	// Resize re-derives the backing buffer from the logical size and the
	// device pixel ratio, resetting any transform.
	Resize(width, height int, pixelRatio float64)
	// Size returns the logical canvas size.
	Size() (width, height int)
	// Fill composites c over the whole canvas.
	Fill(c color.RGBA)
	SetFont(f Font)
	SetColors(fill, glow color.RGBA)
	// DrawGlyph draws r with its top edge at y, scaled by alpha in [0, 1].
	DrawGlyph(r rune, x, y, alpha float64)
}
