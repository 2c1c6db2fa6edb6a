// burrow is a terminal grid-movement toy: steer a rabbit across a field of
// food, trees and power-ups.
//
// Usage:
//
//	burrow play              - Play the default variant
//	burrow list              - List available variants
//	burrow tiles             - Show the tile catalog
//	burrow field             - Print a generated field
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: from config, 60)
//	--seed <value>      - Set RNG seed for reproducible fields
//	--log-file <path>   - Log destination (default: ~/.burrow/burrow.log, "-" disables)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/burrow/internal/telemetry"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagLogFile  string
	flagLogLevel string
)

func main() {
	// .env may carry OTEL_EXPORTER_OTLP_ENDPOINT; missing file is fine.
	_ = godotenv.Load()

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: telemetry disabled: %v\n", err)
		shutdown = func(context.Context) error { return nil }
	}

	err = rootCmd.ExecuteContext(ctx)
	if serr := shutdown(ctx); serr != nil {
		fmt.Fprintf(os.Stderr, "Warning: telemetry shutdown: %v\n", serr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "burrow - steer a rabbit through a field in your terminal",
	Long: `burrow is a terminal toy: a rabbit moves across a grid of randomly
scattered tiles, eats food, bumps into trees and picks up short-lived
effects, leaving a trail of footprints behind.

Available commands:
  play     - Start playing
  list     - Show all rule variants
  tiles    - Show the tile catalog
  field    - Print a generated field without playing

Examples:
  burrow play
  burrow play --variant classic --preset easy
  burrow field --width 60 --height 20 --seed 42`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", `Log file (default ~/.burrow/burrow.log, "-" disables logging)`)
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(tilesCmd)
	rootCmd.AddCommand(fieldCmd)
}
