package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig(newViper(), "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := defaultConfig()
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "grove.yaml", `
window:
  title: cubes
  show_fps: true
app:
  cubes: 4
  groups:
    - [1, 2]
  hit_rate: 50
`)
	cfg, err := loadConfig(newViper(), path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Window.Title != "cubes" || !cfg.Window.ShowFPS {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Window.Width != 800 {
		t.Errorf("window.width = %d, want default 800", cfg.Window.Width)
	}
	if cfg.App.Cubes != 4 || cfg.App.HitRate != 50 {
		t.Errorf("app = %+v", cfg.App)
	}
	if !reflect.DeepEqual(cfg.App.Groups, [][]int{{1, 2}}) {
		t.Errorf("app.groups = %v, want [[1 2]]", cfg.App.Groups)
	}
	if cfg.App.CubeSize != 50 {
		t.Errorf("app.cube_size = %g, want default 50", cfg.App.CubeSize)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GROVE_APP_CUBES", "9")
	t.Setenv("GROVE_WINDOW_TITLE", "from env")

	cfg, err := loadConfig(newViper(), "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.App.Cubes != 9 {
		t.Errorf("app.cubes = %d, want 9", cfg.App.Cubes)
	}
	if cfg.Window.Title != "from env" {
		t.Errorf("window.title = %q, want %q", cfg.Window.Title, "from env")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := loadConfig(newViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.HasPrefix(err.Error(), "load config:") {
		t.Errorf("error = %q, want load config prefix", err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeFile(t, "grove.yaml", `
app:
  cubes: 2
  groups:
    - [0, 5]
`)
	_, err := loadConfig(newViper(), path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error = %q, want out of range", err)
	}
}

func TestScriptCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GROVE_APP_APPEAR_SECONDS", "0")

	path := writeFile(t, "session.json", `{"steps": [
		{"action": "drag", "fromX": 20, "fromY": 70, "toX": 210, "toY": 140, "frames": 6},
		{"action": "group"},
		{"action": "addCube"}
	]}`)

	var out strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"script", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("script: %v", err)
	}

	// The new cube triggers a rebuild that keeps only two-level groups, so
	// the nested group around cube-0..2 does not survive.
	want := `root
  cube-0
  cube-1
  cube-2
  group
    cube-3
    cube-4
  cube-5
  cube-6
`
	if out.String() != want {
		t.Errorf("tree =\n%s\nwant\n%s", out.String(), want)
	}
}
