// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall list              - List available wells
//	blockfall play [game]       - Play a well (default: blockfall)
//	blockfall menu              - Start menu to pick wells interactively
//	blockfall serve             - Start SSH server for remote play
//	blockfall runs [game]       - List recorded runs
//	blockfall replay <id>       - Re-simulate and verify a recorded run
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set run journal path (default: ~/.blockfall/runs.db)
//	--config <path>  - Use a custom blockfall.yaml
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/storage"
)

const defaultDBPath = "~/.blockfall/runs.db"

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - a falling-block puzzle in your terminal",
	Long: `Blockfall drops tetrominoes into a well. Complete rows to clear them
and score; the game ends when a piece locks at the top.

Available commands:
  list     - Show all available wells
  play     - Play a well directly
  menu     - Interactive well picker menu
  serve    - Start SSH server for remote play
  runs     - List recorded runs
  replay   - Re-simulate, verify or watch a recorded run

Examples:
  blockfall play
  blockfall play blockfall_narrow --seed 42
  blockfall menu
  blockfall serve --ssh :2222
  blockfall runs
  blockfall replay 3f2a9c1e-... --watch`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		blockfall.SetConfigPath(flagConfig)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to run journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom blockfall.yaml")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
}

// openStore opens the run journal, or returns nil when it is unavailable.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		log.Warn("could not open run journal, runs will not be recorded", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}
