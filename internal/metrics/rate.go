package metrics

import (
	"time"

	"github.com/san-kum/glyphrain/internal/sim"
)

// FrameRate reports processed frames per second of frame-clock time.
type FrameRate struct {
	name   string
	first  time.Time
	last   time.Time
	frames int
}

func NewFrameRate() *FrameRate { return &FrameRate{name: "fps"} }

func (r *FrameRate) Name() string { return r.name }

func (r *FrameRate) Observe(f sim.Frame) {
	if r.frames == 0 {
		r.first = f.Time
	}
	r.last = f.Time
	r.frames++
}

func (r *FrameRate) Value() float64 {
	span := r.last.Sub(r.first)
	if r.frames < 2 || span <= 0 {
		return 0
	}
	return float64(r.frames-1) / span.Seconds()
}

func (r *FrameRate) Reset() {
	r.frames = 0
	r.first, r.last = time.Time{}, time.Time{}
}
