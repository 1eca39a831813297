// Package gui hosts the rain in a desktop window using Ebitengine. The raster
// surface is sized to the window in device pixels and blitted every frame.
package gui

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/glyphrain/internal/config"
	"github.com/san-kum/glyphrain/internal/render"
	"github.com/san-kum/glyphrain/internal/sim"
	"github.com/san-kum/glyphrain/internal/theme"
)

const (
	densityStep = 10
	maxDensity  = 5000
)

type App struct {
	driver   *sim.Driver
	raster   *render.Raster
	settings config.Settings
	logger   *log.Logger

	start   time.Time
	outW    int
	outH    int
	scale   float64
	showHUD bool

	// OnChange is called with the new settings after every control change.
	OnChange func(config.Settings)
}

// NewApp builds the window host. The raster must be the driver's surface.
func NewApp(d *sim.Driver, r *render.Raster, s config.Settings, logger *log.Logger) *App {
	d.Apply(s)
	return &App{
		driver:   d,
		raster:   r,
		settings: s,
		logger:   logger,
		start:    time.Now(),
	}
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	a.handleInput()
	a.driver.Frame(time.Now())
	return nil
}

func (a *App) handleInput() {
	s := a.settings
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace), inpututil.IsKeyJustPressed(ebiten.KeyF):
		s.FaucetOn = !s.FaucetOn
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		s.DataMode = !s.DataMode
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		s.ColorTheme = theme.Next(s.ColorTheme).Name
	case inpututil.IsKeyJustPressed(ebiten.KeyUp), inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		s.Density = min(s.Density+densityStep, maxDensity)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown), inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		s.Density = max(s.Density-densityStep, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		s.FontSize++
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		s.FontSize = max(s.FontSize-1, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		a.showHUD = !a.showHUD
		return
	default:
		return
	}
	a.settings = s
	a.driver.Apply(s)
	a.logger.Debug("settings changed", "density", s.Density, "theme", s.ColorTheme, "faucet", s.FaucetOn, "data", s.DataMode)
	if a.OnChange != nil {
		a.OnChange(s)
	}
}

// Layout resizes the raster whenever the window or its scale factor
// changes, so glyph coordinates stay in logical pixels.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	if outsideWidth != a.outW || outsideHeight != a.outH || scale != a.scale {
		a.outW, a.outH, a.scale = outsideWidth, outsideHeight, scale
		a.driver.Resize(outsideWidth, outsideHeight, scale)
		a.logger.Debug("viewport resized", "width", outsideWidth, "height", outsideHeight, "scale", scale)
	}
	return a.raster.PixelSize()
}

func (a *App) Settings() config.Settings { return a.settings }

// Run opens the window and blocks until it is closed.
func Run(a *App, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("glyphrain")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(a)
}
