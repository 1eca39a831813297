package gui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/glyphrain/internal/viz"
)

func (a *App) Draw(screen *ebiten.Image) {
	img := a.raster.Image()
	if screen.Bounds().Size() == img.Bounds().Size() {
		screen.WritePixels(img.Pix)
	}

	e := a.driver.Engine()
	if e.IdleIndicatorVisible() {
		a.drawCursor(screen)
	}

	if a.showHUD {
		msg := fmt.Sprintf("%s  %d/%d  %s  TPS %.0f\nSPACE faucet  D data  T theme  UP/DOWN density  [ ] font  H hud",
			e.State(), e.Len(), e.Density(), a.driver.Theme().Name, ebiten.ActualTPS())
		ebitenutil.DebugPrint(screen, msg)
	}
}

// drawCursor blinks a block cursor in the top-left corner of the idle field.
func (a *App) drawCursor(screen *ebiten.Image) {
	if viz.IdleCursor(time.Since(a.start)) == " " {
		return
	}
	s := float32(a.raster.PixelRatio())
	size := float32(a.settings.FontSize)
	fill := a.driver.Theme().Fill
	vector.DrawFilledRect(screen, 12*s, 12*s, size*0.6*s, size*s, color.RGBA{R: fill.R, G: fill.G, B: fill.B, A: 0xff}, false)
}
