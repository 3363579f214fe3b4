package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available wells",
	Long:  `Shows every registered well with its size and drop interval.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available wells:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Well")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "----")

	for _, g := range games {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, g.ID, maxTitleLen, g.Title, describeWell(g.ID))
	}

	fmt.Println()
	fmt.Println("Run 'blockfall play <id>' to play.")
}

// describeWell summarizes the settings a game would start with.
func describeWell(gameID string) string {
	game, err := registry.Create(gameID)
	if err != nil {
		return "?"
	}
	bf, ok := game.(*blockfall.Game)
	if !ok {
		return "-"
	}
	if bf.Validate() != nil {
		return "invalid config"
	}
	return formatWell(bf.Config())
}

func formatWell(cfg config.BlockfallConfig) string {
	return fmt.Sprintf("%dx%d, drop every %v", cfg.Stage.Width, cfg.Stage.Height, cfg.DropInterval())
}
