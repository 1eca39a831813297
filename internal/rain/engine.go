package rain

import (
	"math/rand"

	"github.com/san-kum/glyphrain/internal/glyph"
)

// Motion and spawn constants, in logical pixels and ticks.
const (
	// MinSpeed and MaxSpeed bound the fall speed fixed at spawn.
	MinSpeed = 2.0
	MaxSpeed = 8.0

	// OffscreenMargin is how far below the bottom edge a particle falls
	// before it is recycled or drained.
	OffscreenMargin = 30.0
	// RespawnTop and RespawnBottom bound the y of particles placed above
	// the top edge.
	RespawnTop    = -140.0
	RespawnBottom = -20.0

	// ChangeTicksMax bounds a rolled glyph countdown.
	ChangeTicksMax = 100.0
	// FlickerChance is the per-tick probability of an extra glyph refresh.
	FlickerChance = 0.01
	MinAlpha      = 0.3

	// DefaultRefillEvery is the refill cadence in ticks.
	DefaultRefillEvery = 6
)

// Options seed a new Engine. Width and Height are logical canvas pixels.
type Options struct {
	Width, Height float64
	Density       int
	DataMode      bool
	FaucetOn      bool
	RefillEvery   int
	Seed          int64
}

// Engine owns the particle list, the density target and the faucet. It is
// not safe for concurrent use.
type Engine struct {
	particles []Particle
	rng       *rand.Rand

	width, height float64
	density       int
	dataMode      bool
	faucetOn      bool

	refillEvery   int
	refillCounter int
	tick          uint64

	// OnTransition, when set, observes faucet state changes.
	OnTransition func(from, to FaucetState)
}

// New builds an engine pre-filled to the requested density.
func New(opts Options) *Engine {
	e := &Engine{
		rng:         rand.New(rand.NewSource(opts.Seed)),
		width:       opts.Width,
		height:      opts.Height,
		dataMode:    opts.DataMode,
		faucetOn:    opts.FaucetOn,
		refillEvery: opts.RefillEvery,
	}
	if e.refillEvery <= 0 {
		e.refillEvery = DefaultRefillEvery
	}
	e.Reconcile(opts.Density)
	return e
}

// Reconcile makes the particle count equal target. Growth fills the whole
// field; shrinking drops the tail of the list.
func (e *Engine) Reconcile(target int) {
	if target < 0 {
		target = 0
	}
	e.density = target
	n := len(e.particles)
	switch {
	case n < target:
		for i := n; i < target; i++ {
			e.particles = append(e.particles, e.spawn(e.rng.Float64()*e.height))
		}
	case n > target:
		clear(e.particles[target:])
		e.particles = e.particles[:target]
	}
}

// SetDensity handles a density setting change; an unchanged target is a
// no-op so an in-progress refill keeps its cadence. A closed faucet never
// spawns, so while it is off only the shrink half of Reconcile applies and
// the refill catches up once the faucet reopens.
func (e *Engine) SetDensity(target int) {
	if target < 0 {
		target = 0
	}
	if target == e.density {
		return
	}
	if e.faucetOn || target <= len(e.particles) {
		from := e.State()
		e.Reconcile(target)
		e.notify(from)
		return
	}
	e.density = target
}

// Step advances every particle by one tick.
func (e *Engine) Step() {
	from := e.State()
	flowing := e.faucetOn

	for i := 0; i < len(e.particles); {
		p := &e.particles[i]
		p.Y += p.Speed

		if flowing {
			p.TicksUntilChange--
			if p.TicksUntilChange <= 0 {
				p.Char = glyph.Next(e.rng, e.dataMode)
				p.TicksUntilChange = e.rng.Float64() * ChangeTicksMax
			}
		}
		if e.rng.Float64() < FlickerChance {
			p.Char = glyph.Next(e.rng, e.dataMode)
		}

		if p.Y > e.height+OffscreenMargin {
			if !flowing {
				e.removeAt(i)
				continue
			}
			e.recycle(p)
		}
		i++
	}

	if flowing {
		e.refill()
	}
	e.tick++
	e.notify(from)
}

// removeAt drops particle i by moving the last particle into its slot.
func (e *Engine) removeAt(i int) {
	last := len(e.particles) - 1
	e.particles[i] = e.particles[last]
	e.particles[last] = Particle{}
	e.particles = e.particles[:last]
}

func (e *Engine) recycle(p *Particle) {
	p.Y = e.aboveTop()
	p.X = e.rng.Float64() * e.width
	p.Char = glyph.Next(e.rng, e.dataMode)
	p.TicksUntilChange = e.rng.Float64() * ChangeTicksMax
}

func (e *Engine) refill() {
	if len(e.particles) >= e.density {
		e.refillCounter = 0
		return
	}
	e.refillCounter++
	if e.refillCounter >= e.refillEvery {
		e.refillCounter = 0
		e.particles = append(e.particles, e.spawn(e.aboveTop()))
	}
}

func (e *Engine) aboveTop() float64 {
	return RespawnTop + e.rng.Float64()*(RespawnBottom-RespawnTop)
}

func (e *Engine) spawn(y float64) Particle {
	return Particle{
		X:                e.rng.Float64() * e.width,
		Y:                y,
		Speed:            MinSpeed + e.rng.Float64()*(MaxSpeed-MinSpeed),
		Char:             glyph.Next(e.rng, e.dataMode),
		TicksUntilChange: e.rng.Float64() * ChangeTicksMax,
		Alpha:            MinAlpha + e.rng.Float64()*(1-MinAlpha),
	}
}

// Particles exposes the live list for drawing. Callers must not modify it;
// it is only valid until the next Step, Reconcile or SetDensity.
func (e *Engine) Particles() []Particle { return e.particles }

func (e *Engine) Len() int       { return len(e.particles) }
func (e *Engine) Density() int   { return e.density }
func (e *Engine) Tick() uint64   { return e.tick }
func (e *Engine) DataMode() bool { return e.dataMode }

// SetDataMode only affects glyphs assigned from now on.
func (e *Engine) SetDataMode(on bool) { e.dataMode = on }

func (e *Engine) Size() (float64, float64) { return e.width, e.height }

// Resize updates the canvas used for spawns and the off-screen check.
// Existing particles keep their positions.
func (e *Engine) Resize(width, height float64) {
	e.width, e.height = width, height
}
