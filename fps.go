package grove

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// fpsInterval is how often the overlay text is refreshed, in seconds.
const fpsInterval = 0.5

// fpsOverlay displays the current FPS and TPS in the top-right corner.
type fpsOverlay struct {
	elapsed float64
	text    string
}

// update accumulates dt and refreshes the text every fpsInterval seconds.
func (f *fpsOverlay) update(dt float64) {
	f.elapsed += dt
	if f.elapsed < fpsInterval && f.text != "" {
		return
	}
	f.elapsed = 0
	f.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (f *fpsOverlay) draw(screen *ebiten.Image) {
	if f.text == "" {
		return
	}
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	x := float32(screen.Bounds().Dx() - 100)
	vector.DrawFilledRect(screen, x, 0, 100, 32, color.RGBA{0, 0, 0, 128}, false)
	ebitenutil.DebugPrintAt(screen, f.text, int(x)+4, 0)
}
