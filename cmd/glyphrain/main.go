package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/glyphrain/internal/config"
	"github.com/san-kum/glyphrain/internal/rain"
	"github.com/san-kum/glyphrain/internal/render"
	"github.com/san-kum/glyphrain/internal/sim"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string
	seed       int64

	density    int
	colorTheme string
	fontFamily string
	fontSize   int
	dataMode   bool
	faucetOn   bool

	tickInterval time.Duration
	refillEvery  int
	trailAlpha   float64
	width        int
	height       int
	pixelRatio   float64
	fontFile     string

	saveConfig bool
)

// main registers the commands and runs the terminal rain when no
// subcommand is given. It exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "glyphrain",
		Short:         "digital rain particle engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".glyphrain", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset settings")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")

	pf.IntVar(&density, "density", config.DefaultDensity, "target particle count")
	pf.StringVar(&colorTheme, "theme", config.DefaultTheme, "color theme")
	pf.StringVar(&fontFamily, "font", config.DefaultFont, "font family")
	pf.IntVar(&fontSize, "font-size", config.DefaultFontSize, "font size in logical pixels")
	pf.BoolVar(&dataMode, "binary", false, "draw only 0 and 1")
	pf.BoolVar(&faucetOn, "faucet", true, "start with the faucet open")

	pf.DurationVar(&tickInterval, "tick", config.DefaultTick, "minimum time between simulation ticks")
	pf.IntVar(&refillEvery, "refill-every", config.DefaultRefillEvery, "ticks between refill spawns")
	pf.Float64Var(&trailAlpha, "trail-alpha", config.DefaultTrailAlpha, "opacity of the per-frame fade")
	pf.IntVar(&width, "width", config.DefaultWidth, "canvas width in logical pixels")
	pf.IntVar(&height, "height", config.DefaultHeight, "canvas height in logical pixels")
	pf.Float64Var(&pixelRatio, "pixel-ratio", 1, "device pixels per logical pixel")
	pf.StringVar(&fontFile, "font-file", "", "TrueType font for raster output")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the rain in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().BoolVar(&saveConfig, "save", false, "write the final settings back to the config file")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the rain in a window",
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&saveConfig, "save", false, "write the final settings back to the config file")

	renderCmd := newRenderCmd()

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot particle counts of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotSVG, "svg", "", "also write the chart as SVG")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "find the spawn cadence of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark independent engines in parallel",
		RunE:  benchEngines,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "number of engines")
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 2000, "ticks per engine")

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list color themes",
		RunE:  listThemes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, renderCmd, listCmd, plotCmd, exportCmd, analyzeCmd, benchCmd, themesCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the preset, the config file and finally the
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Settings = *p
	}

	if configFile != "" {
		if err := config.Merge(configFile, cfg); err != nil {
			if !os.IsNotExist(err) || !saveConfig {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	flags := cmd.Flags()
	s := &cfg.Settings
	if flags.Changed("density") {
		s.Density = density
	}
	if flags.Changed("theme") {
		s.ColorTheme = colorTheme
	}
	if flags.Changed("font") {
		s.Font = fontFamily
	}
	if flags.Changed("font-size") {
		s.FontSize = fontSize
	}
	if flags.Changed("binary") {
		s.DataMode = dataMode
	}
	if flags.Changed("faucet") {
		s.FaucetOn = faucetOn
	}

	t := &cfg.Tuning
	if flags.Changed("tick") {
		t.TickInterval = tickInterval
	}
	if flags.Changed("refill-every") {
		t.RefillEvery = refillEvery
	}
	if flags.Changed("trail-alpha") {
		t.TrailAlpha = trailAlpha
	}
	if flags.Changed("width") {
		t.Width = width
	}
	if flags.Changed("height") {
		t.Height = height
	}
	if flags.Changed("pixel-ratio") {
		t.PixelRatio = pixelRatio
	}
	if flags.Changed("font-file") {
		t.FontFile = fontFile
	}
	if flags.Changed("seed") || t.Seed == 0 {
		t.Seed = seed
	}
	if t.Seed == 0 {
		t.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. Full-screen hosts pass quiet so
// that, without --log-file, log output does not tear the display.
func newLogger(quiet bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stderr
	closer := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closer = func() { f.Close() }
	case quiet:
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "glyphrain",
	})
	return logger, closer, nil
}

// newDriver assembles an engine, renderer and driver from the config. The
// surface may be nil for headless runs.
func newDriver(cfg *config.Config, surface render.Surface, logger *log.Logger) *sim.Driver {
	s := cfg.Settings
	t := cfg.Tuning

	w, h := t.Width, t.Height
	if surface != nil {
		w, h = surface.Size()
	}

	engine := rain.New(rain.Options{
		Width:       float64(w),
		Height:      float64(h),
		Density:     s.Density,
		DataMode:    s.DataMode,
		FaucetOn:    s.FaucetOn,
		RefillEvery: t.RefillEvery,
		Seed:        t.Seed,
	})
	engine.OnTransition = func(from, to rain.FaucetState) {
		logger.Debug("faucet transition", "from", from, "to", to, "tick", engine.Tick(), "particles", engine.Len())
	}

	renderer := render.New()
	renderer.TrailAlpha = t.TrailAlpha

	d := sim.New(engine, renderer, surface, t.TickInterval)
	d.SetLogger(logger)
	d.Apply(s)
	return d
}

// persist writes the final settings back to the config file.
func persist(cfg *config.Config, s config.Settings, logger *log.Logger) error {
	path := configFile
	if path == "" {
		path = "glyphrain.yaml"
	}
	cfg.Settings = s
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	logger.Info("settings saved", "path", path)
	return nil
}
