// Package main is the entry point for the glscene renderer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/app"
	"github.com/Faultbox/glscene/internal/config"
	"github.com/Faultbox/glscene/internal/logger"
)

var overrides config.Overrides

var rootCmd = &cobra.Command{
	Use:   "glscene",
	Short: "Real-time multi-pass scene renderer",
	Long: `glscene renders an island scene with a skybox, shadow mapping and
environment-mapped reflections.

Controls: left-drag pans, right-drag orbits, the wheel zooms (Ctrl+wheel
moves the light), c and s toggle the cube-map and shadow-map views, w
toggles wireframe, 1 and 2 move the mirrored ball, F12 saves a screenshot
and q or Escape quits.`,
	SilenceUsage: true,
	RunE:         runScene,
}

var configCmd = &cobra.Command{
	Use:   "config [file]",
	Short: "Print the effective configuration as YAML",
	Long:  "Print the configuration after defaults, config file and flags are merged, or write it to file.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&overrides.ConfigPath, "config", "", "Path to config file")
	flags.BoolVar(&overrides.Debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&overrides.Windowed, "windowed", false, "Run in windowed mode")
	flags.BoolVar(&overrides.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	flags.IntVar(&overrides.Width, "width", 0, "Window width")
	flags.IntVar(&overrides.Height, "height", 0, "Window height")

	rootCmd.AddCommand(configCmd)
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(overrides)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("=== glscene ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return err
	}

	runErr := a.Run()
	if err := a.Close(); err != nil {
		logger.Error("teardown", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("render loop", zap.Error(runErr))
		return runErr
	}

	logger.Info("closed normally")
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(overrides)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return cfg.SaveTo(args[0])
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
