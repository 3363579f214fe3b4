package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagRunsLimit  int
	flagRunsDelete string
	flagRunsClear  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [game]",
	Short: "List recorded runs",
	Long: `Display the most recent runs in the journal, optionally for a single well.

Examples:
  blockfall runs
  blockfall runs blockfall_narrow --limit 5
  blockfall runs --delete 3f2a9c1e-...
  blockfall runs blockfall --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().StringVar(&flagRunsDelete, "delete", "", "Delete the run with this ID")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete every run (of the given well)")
}

func runRuns(cmd *cobra.Command, args []string) {
	gameID := ""
	if len(args) > 0 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'blockfall list' to see available games.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagRunsDelete != "":
		if err := store.DeleteRun(flagRunsDelete); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "Error: no run with ID %q\n", flagRunsDelete)
			} else {
				fmt.Fprintf(os.Stderr, "Error deleting run: %v\n", err)
			}
			store.Close()
			os.Exit(1)
		}
		fmt.Printf("Deleted run %s\n", flagRunsDelete)
		return

	case flagRunsClear:
		if err := store.ClearRuns(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		fmt.Println("Journal cleared.")
		return
	}

	runs, err := store.RecentRuns(gameID, flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	title := "all wells"
	if gameID != "" {
		title = gameID
	}
	fmt.Printf("Recent runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'blockfall play' to record the first one!")
		return
	}

	fmt.Printf("  %-36s  %-16s  %-8s  %-7s  %-7s  %s\n", "ID", "Well", "Score", "Result", "Time", "Date")
	fmt.Printf("  %-36s  %-16s  %-8s  %-7s  %-7s  %s\n", "--", "----", "-----", "------", "----", "----")

	for _, r := range runs {
		result := "quit"
		if r.GameOver {
			result = "topped"
		}
		fmt.Printf("  %-36s  %-16s  %-8d  %-7s  %-7s  %s\n",
			r.ID, r.GameID, r.Score, result,
			r.Duration().Round(time.Second), r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Run 'blockfall replay <id>' to verify a run, or add --watch to see it.")
}
