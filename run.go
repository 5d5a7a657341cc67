package grove

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens a window and runs app until the window is closed.
// Zero fields of cfg fall back to DefaultRunConfig.
func Run(app *App, cfg RunConfig) error {
	def := DefaultRunConfig()
	if cfg.Title == "" {
		cfg.Title = def.Title
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.Background == (Color{}) {
		cfg.Background = def.Background
	}

	app.SetRunConfig(cfg)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(app); err != nil {
		return fmt.Errorf("run %q: %w", cfg.Title, err)
	}
	return nil
}

// RunScript plays runner against app without a window, one Update per frame,
// until the script is done and every tween has settled. It stops with an
// error after maxFrames frames.
func RunScript(app *App, runner *TestRunner, maxFrames int) error {
	app.SetTestRunner(runner)
	for frame := 0; frame < maxFrames; frame++ {
		if runner.Done() && !app.scene.Animating() {
			return nil
		}
		if err := app.Update(); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}
	return fmt.Errorf("script not done after %d frames", maxFrames)
}
