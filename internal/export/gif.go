package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/san-kum/glyphrain/internal/render"
	"github.com/san-kum/glyphrain/internal/sim"
	"github.com/san-kum/glyphrain/internal/theme"
)

var ErrNoFrames = errors.New("export: no frames captured")

// GIFRecorder captures the raster surface after rendered frames.
type GIFRecorder struct {
	raster  *render.Raster
	every   int
	delay   int
	palette color.Palette
	seen    int
	frames  []*image.Paletted
	delays  []int
}

// NewGIFRecorder captures every n-th rendered frame. delay is in 1/100 s.
func NewGIFRecorder(r *render.Raster, th theme.Theme, every, delay int) *GIFRecorder {
	if every <= 0 {
		every = 1
	}
	if delay <= 0 {
		delay = 3
	}
	return &GIFRecorder{raster: r, every: every, delay: delay, palette: Palette(th)}
}

func (g *GIFRecorder) OnFrame(f sim.Frame) {
	if !f.Rendered {
		return
	}
	g.seen++
	if (g.seen-1)%g.every != 0 {
		return
	}
	g.Capture()
}

// Capture snapshots the current raster image.
func (g *GIFRecorder) Capture() {
	src := g.raster.Image()
	dst := image.NewPaletted(src.Bounds(), g.palette)
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	g.frames = append(g.frames, dst)
	g.delays = append(g.delays, g.delay)
}

func (g *GIFRecorder) Len() int { return len(g.frames) }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{Image: g.frames, Delay: g.delays, LoopCount: 0}
	return gif.EncodeAll(w, &anim)
}

// Palette spans black to the theme's fill and glow colors.
func Palette(th theme.Theme) color.Palette {
	p := make(color.Palette, 0, 256)
	p = append(p, color.RGBA{A: 0xff})
	for i := 1; i <= 160; i++ {
		p = append(p, theme.Scale(th.Fill, float64(i)/160))
	}
	for i := 1; i <= 95; i++ {
		p = append(p, theme.Scale(th.Glow, float64(i)/95))
	}
	return p
}

// WritePNG encodes a single image.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
