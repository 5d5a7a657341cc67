package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/phanxgames/grove"
)

// Config is the file layout of grove.yaml.
type Config struct {
	Window grove.RunConfig `mapstructure:"window"`
	App    grove.AppConfig `mapstructure:"app"`
}

// defaultConfig returns the built-in window and canvas configuration.
func defaultConfig() Config {
	return Config{
		Window: grove.DefaultRunConfig(),
		App:    grove.DefaultAppConfig(),
	}
}

// setDefaults registers default values with v so that every key is known
// even without a config file, and env overrides resolve.
func setDefaults(v *viper.Viper) {
	d := defaultConfig()

	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.background.r", d.Window.Background.R)
	v.SetDefault("window.background.g", d.Window.Background.G)
	v.SetDefault("window.background.b", d.Window.Background.B)
	v.SetDefault("window.background.a", d.Window.Background.A)
	v.SetDefault("window.show_fps", d.Window.ShowFPS)
	v.SetDefault("window.debug", d.Window.Debug)

	v.SetDefault("app.cubes", d.App.Cubes)
	v.SetDefault("app.groups", d.App.Groups)
	v.SetDefault("app.columns", d.App.Columns)
	v.SetDefault("app.cube_size", d.App.CubeSize)
	v.SetDefault("app.spacing", d.App.Spacing)
	v.SetDefault("app.appear_seconds", d.App.AppearSeconds)
	v.SetDefault("app.nested", d.App.Nested)
	v.SetDefault("app.hit_rate", d.App.HitRate)
	v.SetDefault("app.throttle_drag", d.App.ThrottleDrag)
	v.SetDefault("app.throttle_rotate", d.App.ThrottleRotate)
	v.SetDefault("app.throttle_scale", d.App.ThrottleScale)
}

// newViper returns a viper instance with defaults and GROVE_* env overrides,
// e.g. GROVE_APP_CUBES=10 for app.cubes.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("GROVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads path, or grove.yaml from the working directory and
// $HOME/.config/grove when path is empty. A missing default file is not an
// error; a missing explicit file is.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("grove")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/grove")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.App.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
