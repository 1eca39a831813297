package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/glyphrain/internal/automation"
	"github.com/san-kum/glyphrain/internal/config"
	"github.com/san-kum/glyphrain/internal/export"
	"github.com/san-kum/glyphrain/internal/gui"
	"github.com/san-kum/glyphrain/internal/metrics"
	"github.com/san-kum/glyphrain/internal/render"
	"github.com/san-kum/glyphrain/internal/sim"
	"github.com/san-kum/glyphrain/internal/storage"
	"github.com/san-kum/glyphrain/internal/tui"
	"github.com/san-kum/glyphrain/internal/viz"
)

var (
	renderFrames   int
	renderCloseAt  int
	renderGIF      string
	renderGIFEvery int
	renderPNG      string
	renderSVG      string
	renderNoSave   bool
	renderRealtime bool
	renderScenario string
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	canvas := viz.NewCanvas(80, 24)
	d := newDriver(cfg, canvas, logger)

	m := tui.NewModel(d, canvas, cfg.Settings)
	m.OnChange = func(s config.Settings) {
		logger.Debug("settings changed", "density", s.Density, "theme", s.ColorTheme, "faucet", s.FaucetOn, "data", s.DataMode)
	}

	logger.Info("starting terminal rain", "density", cfg.Settings.Density, "theme", cfg.Settings.ColorTheme, "seed", cfg.Tuning.Seed)
	final, err := tui.Run(m)
	if err != nil {
		return err
	}
	if saveConfig {
		return persist(cfg, final, logger)
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	t := cfg.Tuning
	raster := render.NewRaster(t.Width, t.Height, t.PixelRatio)
	if t.FontFile != "" {
		if err := raster.LoadFont(t.FontFile); err != nil {
			logger.Warn("falling back to built-in font", "err", err)
		}
	}

	d := newDriver(cfg, raster, logger)
	app := gui.NewApp(d, raster, cfg.Settings, logger)

	logger.Info("opening window", "width", t.Width, "height", t.Height, "seed", t.Seed)
	if err := gui.Run(app, t.Width, t.Height); err != nil {
		return err
	}
	if saveConfig {
		return persist(cfg, app.Settings(), logger)
	}
	return nil
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "run the rain headless and export frames",
		RunE:  runRender,
	}
	f := cmd.Flags()
	f.IntVar(&renderFrames, "frames", 300, "number of ticks to simulate")
	f.IntVar(&renderCloseAt, "close-at", 0, "close the faucet at this tick (0 keeps it as configured)")
	f.StringVar(&renderGIF, "gif", "", "write an animated GIF")
	f.IntVar(&renderGIFEvery, "gif-every", 2, "capture every n-th frame into the GIF")
	f.StringVar(&renderPNG, "png", "", "write the last frame as PNG")
	f.StringVar(&renderSVG, "svg", "", "write the last frame as SVG")
	f.BoolVar(&renderNoSave, "no-save", false, "do not record the run")
	f.BoolVar(&renderRealtime, "realtime", false, "pace ticks with a wall-clock scheduler")
	f.StringVar(&renderScenario, "scenario", "", "replay scripted settings changes from a yaml file")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	t := cfg.Tuning
	raster := render.NewRaster(t.Width, t.Height, t.PixelRatio)
	if t.FontFile != "" {
		if err := raster.LoadFont(t.FontFile); err != nil {
			if !errors.Is(err, render.ErrFontUnavailable) {
				return err
			}
			logger.Warn("falling back to built-in font", "err", err)
		}
	}

	d := newDriver(cfg, raster, logger)

	counts := metrics.NewParticleCount(renderFrames)
	d.AddMetric(counts)
	d.AddMetric(metrics.NewDrainTicks())
	d.AddMetric(metrics.NewRefillTicks())
	d.AddMetric(metrics.NewFrameRate())

	rec := &storage.Recorder{}
	d.AddObserver(rec)

	var gifRec *export.GIFRecorder
	if renderGIF != "" {
		gifRec = export.NewGIFRecorder(raster, d.Theme(), renderGIFEvery, int(t.TickInterval/(10*time.Millisecond)))
		d.AddObserver(gifRec)
	}

	settings := cfg.Settings
	logger.Info("rendering", "frames", renderFrames, "density", settings.Density, "seed", t.Seed)
	start := time.Now()

	sc := &automation.Scenario{}
	if renderScenario != "" {
		sc, err = automation.LoadScenario(renderScenario)
		if err != nil {
			return err
		}
		logger.Info("replaying scenario", "name", sc.Name, "steps", len(sc.Steps))
	}
	if renderCloseAt > 0 {
		closed := false
		sc.Insert(automation.ScenarioStep{At: renderCloseAt, FaucetOn: &closed})
	}
	player := automation.NewPlayer(sc, settings)

	step := func(tick int) {
		if s, ok := player.Due(tick); ok {
			d.Apply(s)
			logger.Info("scenario step", "tick", tick, "density", s.Density, "faucet", s.FaucetOn, "data", s.DataMode, "theme", s.ColorTheme)
		}
	}

	if renderRealtime {
		if err := runPaced(d, step); err != nil {
			return err
		}
	} else {
		for i := 1; i <= renderFrames; i++ {
			step(i)
			d.Advance(1)
		}
	}
	elapsed := time.Since(start)

	if gifRec != nil {
		if err := writeFile(renderGIF, gifRec.Encode); err != nil {
			return err
		}
		logger.Info("wrote gif", "path", renderGIF, "frames", gifRec.Len())
	}
	if renderPNG != "" {
		err := writeFile(renderPNG, func(w io.Writer) error { return export.WritePNG(w, raster.Image()) })
		if err != nil {
			return err
		}
		logger.Info("wrote png", "path", renderPNG)
	}
	if renderSVG != "" {
		svg := export.ParticlesToSVG(d.Engine().Particles(), t.Width, t.Height, d.Theme(), d.Font())
		if err := os.WriteFile(renderSVG, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote svg", "path", renderSVG)
	}

	fmt.Printf("completed %d ticks in %v\n", d.Engine().Tick(), elapsed)
	fmt.Printf("state: %s, particles: %d/%d\n", d.Engine().State(), d.Engine().Len(), d.Engine().Density())

	if renderNoSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Seed:         t.Seed,
		Settings:     cfg.Settings,
		TickInterval: t.TickInterval,
		RefillEvery:  t.RefillEvery,
		Metrics:      d.MetricValues(),
	}, rec.Frames)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

// runPaced drives the render loop from a display-rate ticker so the
// throttle sees real frame timestamps. It stops after renderFrames ticks.
func runPaced(d *sim.Driver, step func(int)) error {
	sched := sim.NewTickerScheduler(sim.DisplayRate)
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processed := 0
	d.AddObserver(sim.ObserverFunc(func(sim.Frame) {
		processed++
		if processed >= renderFrames {
			cancel()
			return
		}
		step(processed + 1)
	}))

	step(1)
	if err := d.Run(ctx, sched); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
