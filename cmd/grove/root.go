package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/grove"
)

// defaultMaxFrames bounds a scripted session: ten minutes at 60 TPS.
const defaultMaxFrames = 36_000

var (
	configPath string
	debug      bool
	maxFrames  int
)

var rootCmd = &cobra.Command{
	Use:   "grove",
	Short: "Cube canvas with selection, grouping and manipulation",
	Long: `grove is a canvas of cubes that can be rubber-band selected, grouped,
ungrouped, dragged, rotated and scaled as a unit.

Settings come from grove.yaml (or --config), with GROVE_* environment
overrides such as GROVE_APP_CUBES=10.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the canvas window",
	Args:  cobra.NoArgs,
	RunE:  runCanvas,
}

var scriptCmd = &cobra.Command{
	Use:   "script <file>",
	Short: "Replay a JSON session without a window and print the group tree",
	Long: `Replay a JSON session without a window and print the group tree.

The file holds a list of steps, for example:

  {"steps": [
    {"action": "drag", "fromX": 20, "fromY": 70, "toX": 210, "toY": 140, "frames": 10},
    {"action": "group"},
    {"action": "addCube"}
  ]}

Actions: click, drag, wheel, wait, addCube, group, ungroup.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default is ./grove.yaml or $HOME/.config/grove/grove.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log scene and group tree changes to stderr")
	scriptCmd.Flags().IntVar(&maxFrames, "max-frames", defaultMaxFrames, "fail if the session has not finished after this many frames")

	rootCmd.AddCommand(runCmd, scriptCmd)
}

// setup loads the configuration and builds the app.
func setup() (*grove.App, Config, error) {
	cfg, err := loadConfig(newViper(), configPath)
	if err != nil {
		return nil, Config{}, err
	}
	if debug {
		cfg.Window.Debug = true
	}
	app, err := grove.NewApp(cfg.App)
	if err != nil {
		return nil, Config{}, err
	}
	app.SetRunConfig(cfg.Window)
	return app, cfg, nil
}

func runCanvas(cmd *cobra.Command, args []string) error {
	app, cfg, err := setup()
	if err != nil {
		return err
	}
	return grove.Run(app, cfg.Window)
}

func runScript(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	runner, err := grove.LoadTestScript(data)
	if err != nil {
		return fmt.Errorf("load script %s: %w", args[0], err)
	}
	app, _, err := setup()
	if err != nil {
		return err
	}
	if err := grove.RunScript(app, runner, maxFrames); err != nil {
		return fmt.Errorf("script %s: %w", args[0], err)
	}
	fmt.Fprint(cmd.OutOrStdout(), app.Manager())
	return nil
}
