package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/engine"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagReplayFile   string
	flagReplayExport string
	flagReplayWatch  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [id]",
	Short: "Re-simulate, verify or watch a recorded run",
	Long: `Re-simulate a recorded run headlessly and check that it reproduces the
recorded score and outcome, then print the final well.

The run is read from the journal by ID, or from a YAML file with --file.

Examples:
  blockfall replay 3f2a9c1e-...
  blockfall replay 3f2a9c1e-... --export run.yaml
  blockfall replay --file run.yaml
  blockfall replay --file run.yaml --watch`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&flagReplayFile, "file", "", "Read the run from a YAML file instead of the journal")
	replayCmd.Flags().StringVar(&flagReplayExport, "export", "", "Write the run to a YAML file")
	replayCmd.Flags().BoolVar(&flagReplayWatch, "watch", false, "Play the run back in the terminal")
}

func runReplay(cmd *cobra.Command, args []string) {
	l, err := loadLog(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagReplayExport != "" {
		if err := replay.WriteFile(flagReplayExport, l); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported run %s to %s\n", l.ID, flagReplayExport)
	}

	if flagReplayWatch {
		width, height := terminalSize()
		if _, err := tui.RunWatch(l, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	game, err := registry.Create(l.GameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	state, err := replay.Verify(game, l)
	fmt.Printf("Run %s (%s, seed %d, %d ticks)\n", l.ID, l.GameID, l.Seed, l.Ticks)
	if bf, ok := game.(*blockfall.Game); ok {
		snap := bf.Snapshot()
		fmt.Printf("Score %d, lines %d, pieces %d, %s\n", snap.Score, snap.Lines, snap.Pieces, snap.State)
		fmt.Println(renderStage(snap.Stage()))
	} else {
		fmt.Printf("Score %d, game over: %v\n", state.Score, state.GameOver)
	}

	if err != nil {
		if errors.Is(err, replay.ErrMismatch) {
			log.Error("replay diverged from the recording", "error", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Println("Replay verified.")
}

// loadLog reads the run named on the command line or by --file.
func loadLog(args []string) (*replay.Log, error) {
	if flagReplayFile != "" {
		return replay.ReadFile(flagReplayFile)
	}
	if len(args) == 0 {
		return nil, errors.New("a run ID or --file is required")
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.LoadRun(args[0])
}

// renderStage draws a stage with each piece in its catalog color.
func renderStage(st *engine.Stage) string {
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	border := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	var sb strings.Builder
	for y := range st.H {
		sb.WriteString(border.Render("│"))
		for _, c := range st.Row(y) {
			if c.Label == engine.LabelEmpty {
				sb.WriteString(empty.Render(" ·"))
				continue
			}
			color := engine.ColorOf(c.Label).Hex()
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██"))
		}
		sb.WriteString(border.Render("│"))
		sb.WriteString("\n")
	}
	sb.WriteString(border.Render("└" + strings.Repeat("──", st.W) + "┘"))
	return sb.String()
}
