package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/glyphrain/internal/config"
	"github.com/san-kum/glyphrain/internal/rain"
	"github.com/san-kum/glyphrain/internal/render"
	"github.com/san-kum/glyphrain/internal/theme"
)

type countingObserver struct {
	frames []Frame
}

func (o *countingObserver) OnFrame(f Frame) { o.frames = append(o.frames, f) }

func newTestDriver(surface render.Surface) *Driver {
	e := rain.New(rain.Options{Width: 320, Height: 240, Density: 20, FaucetOn: true, Seed: 9})
	return New(e, render.New(), surface, 33*time.Millisecond)
}

func TestFrameThrottle(t *testing.T) {
	d := newTestDriver(render.NewRaster(320, 240, 1))
	base := time.Unix(100, 0)

	steps := []struct {
		offset time.Duration
		want   bool
	}{
		{0, true},
		{10 * time.Millisecond, false},
		{20 * time.Millisecond, false},
		{33 * time.Millisecond, true},
		{50 * time.Millisecond, false},
		{70 * time.Millisecond, true},
	}

	for _, s := range steps {
		if got := d.Frame(base.Add(s.offset)); got != s.want {
			t.Errorf("frame at +%s: processed=%v, want %v", s.offset, got, s.want)
		}
	}

	st := d.Stats()
	if st.Calls != 6 || st.Processed != 3 || st.Throttled != 3 {
		t.Errorf("unexpected stats %+v", st)
	}
	if d.Engine().Tick() != 3 {
		t.Errorf("expected 3 engine ticks, got %d", d.Engine().Tick())
	}
}

func TestFrameWithoutSurfaceStillSteps(t *testing.T) {
	d := newTestDriver(nil)
	obs := &countingObserver{}
	d.AddObserver(obs)
	d.Advance(5)

	if d.Engine().Tick() != 5 {
		t.Errorf("expected 5 ticks, got %d", d.Engine().Tick())
	}
	if d.Stats().Unrendered != 5 {
		t.Errorf("expected 5 unrendered frames, got %d", d.Stats().Unrendered)
	}
	for _, f := range obs.frames {
		if f.Rendered {
			t.Error("frame reported as rendered without a surface")
		}
	}
}

func TestApply(t *testing.T) {
	d := newTestDriver(nil)
	d.Apply(config.Settings{
		Font:       "Menlo",
		FontSize:   18,
		Density:    5,
		ColorTheme: "purple",
		DataMode:   true,
		FaucetOn:   true,
	})

	if d.Engine().Len() != 5 {
		t.Errorf("expected 5 particles, got %d", d.Engine().Len())
	}
	if d.Theme().Name != "purple" {
		t.Errorf("expected purple theme, got %s", d.Theme().Name)
	}
	if d.Font() != (render.Font{Family: "Menlo", Size: 18}) {
		t.Errorf("unexpected font %+v", d.Font())
	}
	if !d.Engine().DataMode() {
		t.Error("expected data mode")
	}

	s := d.Settings()
	if s.ColorTheme != "purple" || s.Density != 5 || !s.FaucetOn {
		t.Errorf("unexpected settings echo %+v", s)
	}
}

func TestApplyUnknownTheme(t *testing.T) {
	d := newTestDriver(nil)
	s := config.DefaultSettings()
	s.ColorTheme = "infrared"
	d.Apply(s)
	if d.Theme().Name != theme.Default.Name {
		t.Errorf("expected fallback to %s, got %s", theme.Default.Name, d.Theme().Name)
	}
}

func TestFaucetScenario(t *testing.T) {
	e := rain.New(rain.Options{Width: 640, Height: 480, Density: 80, FaucetOn: true, Seed: 5})
	d := New(e, render.New(), render.NewRaster(640, 480, 1), 33*time.Millisecond)
	s := config.DefaultSettings()
	s.Density = 80

	d.Apply(s)
	if e.Len() != 80 {
		t.Fatalf("expected 80 particles, got %d", e.Len())
	}

	s.FaucetOn = false
	d.Apply(s)
	d.Advance(int((480+rain.OffscreenMargin-rain.RespawnTop)/rain.MinSpeed) + 2)
	if e.Len() != 0 || !e.IdleIndicatorVisible() {
		t.Fatalf("expected drained idle field, got %d particles in %s", e.Len(), e.State())
	}

	s.FaucetOn = true
	d.Apply(s)
	if e.IdleIndicatorVisible() {
		t.Error("indicator should hide as soon as the faucet opens")
	}
	d.Advance(60)
	if e.Len() != 10 {
		t.Errorf("expected 10 refilled particles after 60 ticks, got %d", e.Len())
	}

	s.Density = 30
	d.Apply(s)
	d.Advance(1000)
	if e.Len() != 30 {
		t.Errorf("expected refill to settle at 30, got %d", e.Len())
	}
}

func TestApplyOpenWithRaisedDensityRefills(t *testing.T) {
	e := rain.New(rain.Options{Width: 640, Height: 480, Density: 0, FaucetOn: false, Seed: 3})
	d := New(e, render.New(), nil, 33*time.Millisecond)
	if !e.IdleIndicatorVisible() {
		t.Fatalf("expected idle start, got %s", e.State())
	}

	s := config.DefaultSettings()
	s.Density = 80
	s.FaucetOn = true
	d.Apply(s)

	if e.Len() != 0 {
		t.Fatalf("opening must not fill the field, got %d particles", e.Len())
	}
	if e.Density() != 80 || e.State() != rain.Flowing {
		t.Fatalf("expected flowing toward 80, got %s toward %d", e.State(), e.Density())
	}

	d.Advance(rain.DefaultRefillEvery)
	if e.Len() != 1 {
		t.Errorf("expected one refill particle after %d ticks, got %d", rain.DefaultRefillEvery, e.Len())
	}
}

func TestApplyCloseWithDensityChange(t *testing.T) {
	tests := []struct {
		name        string
		density     int
		wantLen     int
		wantDensity int
	}{
		{"lowered culls at once", 30, 30, 30},
		{"raised only stores target", 120, 80, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := rain.New(rain.Options{Width: 640, Height: 480, Density: 80, FaucetOn: true, Seed: 4})
			d := New(e, render.New(), nil, 33*time.Millisecond)

			s := config.DefaultSettings()
			s.Density = tt.density
			s.FaucetOn = false
			d.Apply(s)

			if e.Len() != tt.wantLen {
				t.Errorf("expected %d particles, got %d", tt.wantLen, e.Len())
			}
			if e.Density() != tt.wantDensity {
				t.Errorf("expected density %d, got %d", tt.wantDensity, e.Density())
			}
			if e.State() != rain.Draining {
				t.Errorf("expected draining, got %s", e.State())
			}
		})
	}
}

func TestSetSurfaceResumesRendering(t *testing.T) {
	d := newTestDriver(nil)
	obs := &countingObserver{}
	d.AddObserver(obs)

	d.Advance(2)
	d.SetSurface(render.NewRaster(320, 240, 1))
	d.Advance(1)

	st := d.Stats()
	if st.Processed != 3 || st.Unrendered != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
	if !obs.frames[len(obs.frames)-1].Rendered {
		t.Error("expected the frame after SetSurface to render")
	}
}

func TestRunWithManualScheduler(t *testing.T) {
	d := newTestDriver(nil)
	sched := NewManualScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, sched) }()

	base := time.Unix(0, 0)
	for i := 0; i < 10; i++ {
		sched.Fire(base.Add(time.Duration(i) * 20 * time.Millisecond))
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	st := d.Stats()
	if st.Calls != 10 {
		t.Errorf("expected 10 callbacks, got %d", st.Calls)
	}
	if st.Processed != 5 {
		t.Errorf("expected 5 processed frames at 20ms cadence, got %d", st.Processed)
	}
}

func TestRunStopsFromObserver(t *testing.T) {
	e := rain.New(rain.Options{Width: 320, Height: 240, Density: 20, FaucetOn: true, Seed: 9})
	d := New(e, render.New(), nil, time.Millisecond)
	sched := NewTickerScheduler(time.Millisecond)
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.AddObserver(ObserverFunc(func(f Frame) {
		if f.Tick >= 5 {
			cancel()
		}
	}))

	if err := d.Run(ctx, sched); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if d.Stats().Processed != 5 {
		t.Errorf("expected exactly 5 processed frames, got %d", d.Stats().Processed)
	}
}

func TestEnsemble(t *testing.T) {
	build := func(seed int64) *Driver {
		e := rain.New(rain.Options{Width: 200, Height: 100, Density: 15, FaucetOn: true, Seed: seed})
		return New(e, render.New(), nil, 33*time.Millisecond)
	}
	results, err := NewEnsemble(build, 4, 10).Run(context.Background(), 100)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != int64(10+i) {
			t.Errorf("result %d: expected seed %d, got %d", i, 10+i, r.Seed)
		}
		if r.Ticks != 100 || r.Particles != 15 {
			t.Errorf("result %d: unexpected summary %+v", i, r)
		}
	}
}

func TestEnsembleCanceled(t *testing.T) {
	build := func(seed int64) *Driver {
		return New(rain.New(rain.Options{Width: 10, Height: 10, FaucetOn: true, Seed: seed}), render.New(), nil, 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEnsemble(build, 2, 0).Run(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
