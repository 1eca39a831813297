package metrics

import (
	"github.com/san-kum/glyphrain/internal/rain"
	"github.com/san-kum/glyphrain/internal/sim"
)

// DrainTicks measures how many ticks the last full drain took, from the
// first draining frame to the idle field.
type DrainTicks struct {
	name   string
	start  uint64
	active bool
	last   float64
	drains int
}

func NewDrainTicks() *DrainTicks { return &DrainTicks{name: "drain_ticks"} }

func (d *DrainTicks) Name() string { return d.name }

func (d *DrainTicks) Observe(f sim.Frame) {
	switch f.State {
	case rain.Draining:
		if !d.active {
			d.active = true
			d.start = f.Tick - 1
		}
	case rain.IdleEmpty:
		if d.active {
			d.last = float64(f.Tick - d.start)
			d.drains++
			d.active = false
		}
	default:
		d.active = false
	}
}

func (d *DrainTicks) Value() float64 { return d.last }

func (d *DrainTicks) Drains() int { return d.drains }

func (d *DrainTicks) Reset() {
	d.active = false
	d.last = 0
	d.drains = 0
}

// RefillTicks measures how long the field took to climb back to its target
// density after running short while flowing.
type RefillTicks struct {
	name   string
	start  uint64
	active bool
	last   float64
}

func NewRefillTicks() *RefillTicks { return &RefillTicks{name: "refill_ticks"} }

func (r *RefillTicks) Name() string { return r.name }

func (r *RefillTicks) Observe(f sim.Frame) {
	if f.State != rain.Flowing {
		r.active = false
		return
	}
	short := f.Particles < f.Density
	switch {
	case short && !r.active:
		r.active = true
		r.start = f.Tick - 1
	case !short && r.active:
		r.last = float64(f.Tick - r.start)
		r.active = false
	}
}

func (r *RefillTicks) Value() float64 { return r.last }

func (r *RefillTicks) Reset() {
	r.active = false
	r.last = 0
}
