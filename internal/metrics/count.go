package metrics

import (
	"github.com/san-kum/glyphrain/internal/sim"
)

// ParticleCount tracks the live particle count, keeping a bounded history
// for charts.
type ParticleCount struct {
	name     string
	capacity int
	history  []float64
	total    float64
	samples  int
}

func NewParticleCount(capacity int) *ParticleCount {
	if capacity <= 0 {
		capacity = 1
	}
	return &ParticleCount{
		name:     "particles",
		capacity: capacity,
		history:  make([]float64, 0, capacity),
	}
}

func (p *ParticleCount) Name() string { return p.name }

func (p *ParticleCount) Observe(f sim.Frame) {
	v := float64(f.Particles)
	p.total += v
	p.samples++
	p.history = append(p.history, v)
	if len(p.history) > p.capacity {
		p.history = p.history[1:]
	}
}

// Value is the mean count over every observed frame.
func (p *ParticleCount) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.total / float64(p.samples)
}

func (p *ParticleCount) Reset() {
	p.history = p.history[:0]
	p.total = 0
	p.samples = 0
}

// History returns the most recent counts, oldest first.
func (p *ParticleCount) History() []float64 { return p.history }

// Last returns the latest observed count.
func (p *ParticleCount) Last() float64 {
	if len(p.history) == 0 {
		return 0
	}
	return p.history[len(p.history)-1]
}
