package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/burrow/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all rule variants",
	Long:  `Shows every registered rule variant.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	variants := registry.List()

	if len(variants) == 0 {
		fmt.Println("No variants available.")
		return
	}

	fmt.Println("Available variants:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, v := range variants {
		if len(v.ID) > maxIDLen {
			maxIDLen = len(v.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Rules")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, v := range variants {
		marker := ""
		if v.ID == registry.DefaultVariant {
			marker = " (default)"
		}
		fmt.Printf("  %-*s  %s%s\n", maxIDLen, v.ID, v.Description, marker)
	}

	fmt.Println()
	fmt.Println("Run 'burrow play --variant <id>' to play one.")
}
