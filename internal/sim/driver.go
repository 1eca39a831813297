package sim

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/glyphrain/internal/config"
	"github.com/san-kum/glyphrain/internal/rain"
	"github.com/san-kum/glyphrain/internal/render"
	"github.com/san-kum/glyphrain/internal/theme"
)

// Driver throttles frame callbacks to a fixed interval and runs one
// simulation step plus one render per processed frame.
type Driver struct {
	engine   *rain.Engine
	renderer *render.Renderer
	surface  render.Surface
	interval time.Duration

	theme theme.Theme
	font  render.Font

	last    time.Time
	started bool
	stats   Stats

	observers []Observer
	metrics   []Metric
	logger    *log.Logger
	warned    bool
}

func New(engine *rain.Engine, renderer *render.Renderer, surface render.Surface, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = config.DefaultTick
	}
	return &Driver{
		engine:   engine,
		renderer: renderer,
		surface:  surface,
		interval: interval,
		theme:    theme.Default,
		font:     render.Font{Family: config.DefaultFont, Size: config.DefaultFontSize},
		logger:   log.New(io.Discard),
	}
}

func (d *Driver) SetLogger(l *log.Logger) {
	if l != nil {
		d.logger = l
	}
}

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }
func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }

func (d *Driver) Engine() *rain.Engine    { return d.engine }
func (d *Driver) Surface() render.Surface { return d.surface }
func (d *Driver) Theme() theme.Theme      { return d.theme }
func (d *Driver) Font() render.Font       { return d.font }
func (d *Driver) Interval() time.Duration { return d.interval }
func (d *Driver) Stats() Stats            { return d.stats }

// SetSurface swaps the drawing context. nil disables rendering.
func (d *Driver) SetSurface(s render.Surface) {
	d.surface = s
	d.warned = false
}

// Resize re-derives the surface buffer and the engine canvas from a new
// logical viewport size.
func (d *Driver) Resize(width, height int, pixelRatio float64) {
	if d.surface != nil {
		d.surface.Resize(width, height, pixelRatio)
	}
	d.engine.Resize(float64(width), float64(height))
}

// Apply consumes a settings change event.
func (d *Driver) Apply(s config.Settings) {
	th, ok := theme.Lookup(s.ColorTheme)
	if !ok {
		d.logger.Warn("unknown color theme, using default", "theme", s.ColorTheme, "default", theme.Default.Name)
		th = theme.Default
	}
	d.theme = th
	d.font = render.Font{Family: s.Font, Size: s.FontSize}

	d.engine.SetDataMode(s.DataMode)
	// A closed faucet only stores a raised target, so opening after the
	// density change leaves the catch-up to the throttled refill.
	if s.FaucetOn && !d.engine.FaucetOn() {
		d.engine.SetDensity(s.Density)
		d.engine.SetFaucet(true)
		return
	}
	d.engine.SetFaucet(s.FaucetOn)
	d.engine.SetDensity(s.Density)
}

// Settings reports the settings record the driver currently runs with.
func (d *Driver) Settings() config.Settings {
	return config.Settings{
		Font:       d.font.Family,
		FontSize:   d.font.Size,
		Density:    d.engine.Density(),
		ColorTheme: d.theme.Name,
		DataMode:   d.engine.DataMode(),
		FaucetOn:   d.engine.FaucetOn(),
	}
}

// Frame is the per-frame callback. It returns false when the call arrived
// before the interval elapsed and no work was done.
func (d *Driver) Frame(now time.Time) bool {
	d.stats.Calls++
	if d.started && now.Sub(d.last) < d.interval {
		d.stats.Throttled++
		return false
	}
	d.started = true
	d.last = now
	d.process(now)
	return true
}

// Advance processes n frames on a synthetic clock spaced one interval apart.
func (d *Driver) Advance(n int) {
	for i := 0; i < n; i++ {
		now := d.last.Add(d.interval)
		if !d.started {
			now = time.Unix(0, 0)
		}
		d.Frame(now)
	}
}

// Run requests frames from sched until ctx is canceled.
func (d *Driver) Run(ctx context.Context, sched Scheduler) error {
	for {
		now, err := sched.NextFrame(ctx)
		if err != nil {
			return err
		}
		d.Frame(now)
	}
}

func (d *Driver) process(now time.Time) {
	d.stats.Processed++
	d.engine.Step()

	rendered := d.surface != nil
	if rendered {
		d.renderer.Render(d.surface, d.engine.Particles(), d.theme, d.font, d.engine.State())
	} else {
		d.stats.Unrendered++
		if !d.warned {
			d.logger.Warn("no drawing surface, skipping render")
			d.warned = true
		}
	}

	f := Frame{
		Tick:      d.engine.Tick(),
		Time:      now,
		Particles: d.engine.Len(),
		Density:   d.engine.Density(),
		State:     d.engine.State(),
		Rendered:  rendered,
	}
	for _, m := range d.metrics {
		m.Observe(f)
	}
	for _, o := range d.observers {
		o.OnFrame(f)
	}
}

// MetricValues collects the current value of every registered metric.
func (d *Driver) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(d.metrics))
	for _, m := range d.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Summary snapshots the driver after a bounded run.
func (d *Driver) Summary(seed int64, elapsed time.Duration) Summary {
	return Summary{
		Seed:      seed,
		Ticks:     d.engine.Tick(),
		Particles: d.engine.Len(),
		State:     d.engine.State(),
		Metrics:   d.MetricValues(),
		Elapsed:   elapsed,
	}
}
