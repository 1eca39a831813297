package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/glyphrain/internal/analysis"
	"github.com/san-kum/glyphrain/internal/config"
	"github.com/san-kum/glyphrain/internal/export"
	"github.com/san-kum/glyphrain/internal/metrics"
	"github.com/san-kum/glyphrain/internal/rain"
	"github.com/san-kum/glyphrain/internal/sim"
	"github.com/san-kum/glyphrain/internal/storage"
	"github.com/san-kum/glyphrain/internal/theme"
)

var (
	plotSVG    string
	benchRuns  int
	benchTicks int
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTICKS\tDENSITY\tTHEME\tDATA\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%t\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Settings.Density,
			run.Settings.ColorTheme,
			run.Settings.DataMode,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	counts := storage.Counts(frames)
	th := theme.Get(meta.Settings.ColorTheme)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("ticks: %d\n", len(frames))
	states := storage.StateTicks(frames)
	fmt.Printf("flowing: %d  draining: %d  idle: %d\n\n",
		states[rain.Flowing.String()], states[rain.Draining.String()], states[rain.IdleEmpty.String()])

	graph := asciigraph.Plot(counts,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("particles per tick"),
	)
	fmt.Println(lipgloss.NewStyle().Foreground(th.FillColor()).Render(graph))

	if len(meta.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for name, val := range meta.Metrics {
			fmt.Printf("  %s: %.3f\n", name, val)
		}
	}

	if plotSVG != "" {
		svg := export.CountsToSVG(counts, 800, 300, theme.Hex(th.Fill))
		if err := os.WriteFile(plotSVG, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", plotSVG)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 4 {
		return fmt.Errorf("not enough frames to analyze: %d", len(frames))
	}

	deltas := analysis.Deltas(storage.Counts(frames))
	period, power := analysis.DominantPeriod(deltas)
	if period == 0 {
		fmt.Println("particle count is constant, no periodic spawning")
		return nil
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("dominant spawn period: %.2f ticks (power %.2f)\n\n", period, power)

	ps := analysis.PowerSpectrum(deltas)
	graph := asciigraph.Plot(ps,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("spectrum of per-tick count change"),
	)
	fmt.Println(graph)
	return nil
}

func benchEngines(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()
	quiet := log.New(io.Discard)

	build := func(seed int64) *sim.Driver {
		c := *cfg
		c.Tuning.Seed = seed
		d := newDriver(&c, nil, quiet)
		d.AddMetric(metrics.NewDrainTicks())
		d.AddMetric(metrics.NewRefillTicks())
		return d
	}

	fmt.Printf("benchmarking %d engines, %d ticks, density %d\n\n", benchRuns, benchTicks, cfg.Settings.Density)
	start := time.Now()
	results, err := sim.NewEnsemble(build, benchRuns, cfg.Tuning.Seed).Run(context.Background(), benchTicks)
	if err != nil {
		return err
	}
	total := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tPARTICLES\tSTATE\tTIME\tTICKS/SEC")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%v\t%.0f\n",
			r.Seed, r.Ticks, r.Particles, r.State, r.Elapsed, float64(r.Ticks)/r.Elapsed.Seconds())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	logger.Info("bench finished", "engines", benchRuns, "elapsed", total)
	return nil
}

func listThemes(cmd *cobra.Command, args []string) error {
	for _, th := range theme.Themes {
		swatch := lipgloss.NewStyle().Foreground(th.FillColor()).Render("ｱｲｳ01") +
			lipgloss.NewStyle().Foreground(th.GlowColor()).Bold(true).Render("ｴ")
		marker := " "
		if th.Name == config.DefaultTheme {
			marker = "*"
		}
		fmt.Printf("%s %-8s %s  %s\n", marker, th.Name, theme.Hex(th.Fill), swatch)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Printf("  %-8s density=%d theme=%s data=%t faucet=%t\n",
			name, p.Density, p.ColorTheme, p.DataMode, p.FaucetOn)
	}
	return nil
}
