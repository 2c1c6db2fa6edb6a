package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/config"
	"github.com/vovakirdan/burrow/internal/core"
	"github.com/vovakirdan/burrow/internal/platform/tui"
	"github.com/vovakirdan/burrow/internal/registry"
)

var (
	flagConfig  string
	flagPreset  string
	flagVariant string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Steer the rabbit",
	Long: `Start a play session sized to the terminal.

Controls:
  Arrows/WASD  - Move (hold; releases after a short pause)
  Space        - Stop
  R            - New field
  ?            - Toggle help
  Q/Esc        - Quit

Difficulty presets:
  easy    - Sparse field, slower rabbit, long trail
  normal  - Default density and speed
  hard    - Crowded field, fast rabbit, short trail

Examples:
  burrow play
  burrow play --variant trail
  burrow play --preset hard --seed 7
  burrow play --config ./my-burrow.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagVariant, "variant", "", "Rule variant (see 'burrow list')")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	variant, err := registry.Get(cfg.Variant)
	if err != nil {
		return fmt.Errorf("%w (run 'burrow list' to see variants)", err)
	}
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	logger, closer, err := openLogger(flagLogFile, flagLogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	// Terminal size before the first WindowSizeMsg arrives
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	runtime := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.TickRate,
		Seed:     flagSeed,
	}

	return tui.Run(cmd.Context(), tui.Options{
		Config:  cfg,
		Variant: variant,
		Catalog: cat,
		Runtime: runtime,
		Logger:  logger,
	})
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagVariant != "" {
		cfg.Variant = flagVariant
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
