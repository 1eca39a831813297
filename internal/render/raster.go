package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// glowAlpha scales the glow pass relative to the glyph itself.
const glowAlpha = 0.35

var glowOffsets = [4][2]float64{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Raster is a Surface backed by an RGBA pixel buffer. Without a TrueType
// font it falls back to basicfont, which only covers ASCII glyphs.
type Raster struct {
	img           *image.RGBA
	width, height int
	ratio         float64

	ttf     *truetype.Font
	font    Font
	face    font.Face
	facePx  float64
	fill    color.RGBA
	glow    color.RGBA
	fillSrc *image.Uniform
	glowSrc *image.Uniform
}

func NewRaster(width, height int, pixelRatio float64) *Raster {
	r := &Raster{fillSrc: image.NewUniform(color.RGBA{}), glowSrc: image.NewUniform(color.RGBA{})}
	r.Resize(width, height, pixelRatio)
	return r
}

// LoadFont parses a TrueType file used for every later glyph.
func (r *Raster) LoadFont(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFontUnavailable, path, err)
	}
	r.ttf = tt
	r.face = nil
	return nil
}

func (r *Raster) Resize(width, height int, pixelRatio float64) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.width, r.height, r.ratio = width, height, pixelRatio
	pw := int(math.Round(float64(width) * pixelRatio))
	ph := int(math.Round(float64(height) * pixelRatio))
	r.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(opaqueBlack), image.Point{}, draw.Src)
	r.face = nil
}

func (r *Raster) Size() (int, int) { return r.width, r.height }

// PixelSize returns the backing buffer dimensions.
func (r *Raster) PixelSize() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) PixelRatio() float64 { return r.ratio }

func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Fill(c color.RGBA) {
	op := draw.Over
	if c.A == 0xff {
		op = draw.Src
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, op)
}

func (r *Raster) SetFont(f Font) {
	if f != r.font {
		r.font = f
		r.face = nil
	}
}

func (r *Raster) SetColors(fill, glow color.RGBA) {
	r.fill, r.glow = fill, glow
}

func (r *Raster) DrawGlyph(ch rune, x, y, alpha float64) {
	face := r.currentFace()
	s := string(ch)
	px, py := x*r.ratio, y*r.ratio
	ascent := face.Metrics().Ascent

	r.glowSrc.C = premultiply(r.glow, alpha*glowAlpha)
	for _, off := range glowOffsets {
		r.drawString(face, r.glowSrc, s, px+off[0]*r.ratio, py+off[1]*r.ratio, ascent)
	}
	r.fillSrc.C = premultiply(r.fill, alpha)
	r.drawString(face, r.fillSrc, s, px, py, ascent)
}

func (r *Raster) drawString(face font.Face, src image.Image, s string, px, py float64, ascent fixed.Int26_6) {
	d := font.Drawer{
		Dst:  r.img,
		Src:  src,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(px * 64),
			Y: fixed.Int26_6(py*64) + ascent,
		},
	}
	d.DrawString(s)
}

func (r *Raster) currentFace() font.Face {
	px := float64(r.font.Size) * r.ratio
	if r.face != nil && px == r.facePx {
		return r.face
	}
	r.facePx = px
	if r.ttf == nil || px <= 0 {
		r.face = basicfont.Face7x13
		return r.face
	}
	r.face = truetype.NewFace(r.ttf, &truetype.Options{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return r.face
}

func premultiply(c color.RGBA, a float64) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	k := a * float64(c.A) / 255
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: uint8(float64(c.A) * a),
	}
}
