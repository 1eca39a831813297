package render

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestRasterResize(t *testing.T) {
	r := NewRaster(100, 50, 2)
	if w, h := r.Size(); w != 100 || h != 50 {
		t.Errorf("expected logical 100x50, got %dx%d", w, h)
	}
	if w, h := r.PixelSize(); w != 200 || h != 100 {
		t.Errorf("expected pixel 200x100, got %dx%d", w, h)
	}

	r.Resize(30, 20, 0)
	if w, h := r.PixelSize(); w != 30 || h != 20 {
		t.Errorf("non-positive ratio should default to 1, got %dx%d", w, h)
	}
	if r.PixelRatio() != 1 {
		t.Errorf("expected ratio 1, got %g", r.PixelRatio())
	}
}

func TestRasterFillFades(t *testing.T) {
	r := NewRaster(4, 4, 1)
	r.Fill(color.RGBA{R: 200, G: 200, B: 200, A: 0xff})
	r.Fill(color.RGBA{A: 128})

	c := r.Image().RGBAAt(1, 1)
	if c.R >= 200 || c.R == 0 {
		t.Errorf("expected partially faded pixel, got %+v", c)
	}

	r.Fill(opaqueBlack)
	if c := r.Image().RGBAAt(1, 1); c.R != 0 || c.A != 0xff {
		t.Errorf("expected opaque black, got %+v", c)
	}
}

func TestRasterDrawGlyphLogicalCoordinates(t *testing.T) {
	r := NewRaster(40, 40, 2)
	r.SetFont(Font{Family: "monospace", Size: 13})
	r.SetColors(color.RGBA{G: 0xff, A: 0xff}, color.RGBA{G: 0x80, A: 0xff})
	r.DrawGlyph('W', 10, 10, 1)

	lit := litBounds(r.Image())
	if lit.Empty() {
		t.Fatal("expected glyph pixels to be drawn")
	}
	if lit.Min.X < 18 || lit.Min.Y < 18 {
		t.Errorf("glyph drawn above or left of its scaled origin: %v", lit)
	}
	if lit.Min.X > 30 || lit.Min.Y > 34 {
		t.Errorf("glyph drawn too far from its scaled origin: %v", lit)
	}
}

func TestRasterLoadFontMissing(t *testing.T) {
	r := NewRaster(10, 10, 1)
	err := r.LoadFont(filepath.Join(t.TempDir(), "missing.ttf"))
	if !errors.Is(err, ErrFontUnavailable) {
		t.Errorf("expected ErrFontUnavailable, got %v", err)
	}
}

func TestRasterLoadFontInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0644); err != nil {
		t.Fatal(err)
	}
	r := NewRaster(10, 10, 1)
	if err := r.LoadFont(path); !errors.Is(err, ErrFontUnavailable) {
		t.Errorf("expected ErrFontUnavailable, got %v", err)
	}
}

func litBounds(img *image.RGBA) image.Rectangle {
	var out image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).G > 0 {
				out = out.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return out
}
