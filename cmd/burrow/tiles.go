package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/registry"
)

var flagTilesVariant string

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Show the tile catalog",
	Long:  `Lists every tile type with its glyph, properties, effects and draw weight.`,
	Args:  cobra.NoArgs,
	RunE:  runTiles,
}

func init() {
	tilesCmd.Flags().StringVar(&flagTilesVariant, "variant", "", "Only show tiles drawn by this variant")
}

func runTiles(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	if flagTilesVariant != "" {
		v, err := registry.Get(flagTilesVariant)
		if err != nil {
			return err
		}
		if cat, err = v.Catalog(cat); err != nil {
			return err
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "", "Glyph", "Properties", "Effects", "Weight").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, tt := range cat.All() {
		t.Row(
			tt.ID,
			tt.Symbol,
			string(tt.Glyph),
			tt.Properties.String(),
			effectSummary(tt),
			strconv.Itoa(tt.Weight),
		)
	}

	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	fmt.Fprintf(cmd.OutOrStdout(), "%d tile types, total weight %d\n", cat.Len(), cat.TotalWeight())
	return nil
}

// effectSummary describes what equipping the tile grants.
func effectSummary(tt catalog.TileType) string {
	if len(tt.Effects) == 0 {
		return "-"
	}
	names := make([]string, len(tt.Effects))
	for i, k := range tt.Effects {
		names[i] = k.String()
	}
	s := fmt.Sprintf("%s %s", strings.Join(names, "+"), tt.Duration)
	if tt.Amplifier != 1 {
		s += fmt.Sprintf(" x%.2g", tt.Amplifier)
	}
	return s
}
