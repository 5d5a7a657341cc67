package grove

import (
	"errors"
	"fmt"
)

// RunConfig holds window configuration for Run.
type RunConfig struct {
	// Title is the window title.
	Title string `mapstructure:"title"`
	// Width and Height set the window size in device-independent pixels.
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// Background is the canvas clear color.
	Background Color `mapstructure:"background"`
	// ShowFPS enables the FPS overlay in the top-right corner.
	ShowFPS bool `mapstructure:"show_fps"`
	// Debug enables debug logging on stderr.
	Debug bool `mapstructure:"debug"`
}

// DefaultRunConfig returns the window configuration used when none is given.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:      "grove",
		Width:      800,
		Height:     600,
		Background: Color{0.12, 0.12, 0.14, 1},
	}
}

// AppConfig configures the cube canvas.
type AppConfig struct {
	// Cubes is the number of cubes on the canvas at startup.
	Cubes int `mapstructure:"cubes"`
	// Groups lists the groups formed at startup, by cube index.
	Groups [][]int `mapstructure:"groups"`
	// Columns is how many cubes fit in a row before wrapping.
	Columns  int     `mapstructure:"columns"`
	CubeSize float64 `mapstructure:"cube_size"`
	Spacing  float64 `mapstructure:"spacing"`
	// AppearSeconds is the duration of the tween that brings a new cube in.
	// Zero places new cubes without animation.
	AppearSeconds float64 `mapstructure:"appear_seconds"`
	// Nested keeps grouped groups intact as sub-groups.
	Nested bool `mapstructure:"nested"`

	// Selection widget
	HitRate float64 `mapstructure:"hit_rate"`

	// Manipulation widget
	ThrottleDrag   float64 `mapstructure:"throttle_drag"`
	ThrottleRotate float64 `mapstructure:"throttle_rotate"`
	ThrottleScale  float64 `mapstructure:"throttle_scale"`
}

// DefaultAppConfig returns six cubes with cubes 0+1 and 3+4 grouped.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Cubes:          6,
		Groups:         [][]int{{0, 1}, {3, 4}},
		Columns:        6,
		CubeSize:       50,
		Spacing:        20,
		AppearSeconds:  0.3,
		Nested:         true,
		HitRate:        0,
		ThrottleDrag:   1,
		ThrottleRotate: 1,
		ThrottleScale:  0.01,
	}
}

// Validate checks the configuration for values the canvas cannot lay out.
func (c AppConfig) Validate() error {
	var errs []error
	if c.Cubes < 0 {
		errs = append(errs, fmt.Errorf("cubes must not be negative, got %d", c.Cubes))
	}
	if c.Columns <= 0 {
		errs = append(errs, fmt.Errorf("columns must be positive, got %d", c.Columns))
	}
	if c.CubeSize <= 0 {
		errs = append(errs, fmt.Errorf("cube_size must be positive, got %g", c.CubeSize))
	}
	if c.HitRate < 0 || c.HitRate > 100 {
		errs = append(errs, fmt.Errorf("hit_rate must be within 0..100, got %g", c.HitRate))
	}
	for i, g := range c.Groups {
		for _, idx := range g {
			if idx < 0 || idx >= c.Cubes {
				errs = append(errs, fmt.Errorf("groups[%d]: cube %d out of range", i, idx))
			}
		}
	}
	return errors.Join(errs...)
}
