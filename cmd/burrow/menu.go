package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/core"
	"github.com/vovakirdan/burrow/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a variant from a menu, then play",
	Long: `Start burrow in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a variant.
Quitting a session returns to the menu.

Examples:
  burrow menu
  burrow menu --preset hard --fps 30`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	menuCmd.Flags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard")
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
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

	current := cfg.Variant
	for {
		res, err := tui.RunMenu(runtime, current)
		if err != nil {
			return err
		}
		if res.Quit {
			return nil
		}
		runtime = res.Config
		current = res.Variant.ID

		err = tui.Run(cmd.Context(), tui.Options{
			Config:  cfg,
			Variant: res.Variant,
			Catalog: cat,
			Runtime: runtime,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
	}
}
