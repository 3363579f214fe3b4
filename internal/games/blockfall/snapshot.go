package blockfall

import (
	"strings"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/engine"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
	StateInvalid     GameStateType = "invalid_config"
)

// Snapshot captures the game state for determinism testing and replay.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick   uint64
	Mode   string
	Score  int
	Lines  int
	Pieces int
	Locks  uint64
	Piece  string // label of the active piece
	PieceX int
	PieceY int
	Board  string // one rune per cell, rows separated by newlines
	State  GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:  g.tick,
		Mode:  string(g.mode),
		State: StatePlaying,
	}
	switch {
	case g.cfgErr != nil:
		snap.State = StateInvalid
	case g.over():
		snap.State = StateGameOver
	case g.tooSmall:
		snap.State = StatePausedSmall
	case g.paused:
		snap.State = StatePaused
	}
	if g.session == nil {
		return snap
	}

	es := g.session.Snapshot()
	snap.Score = es.Score
	snap.Lines = es.Lines
	snap.Pieces = es.Pieces
	snap.Locks = es.Locks
	snap.Piece = es.Active.Piece.Label.String()
	snap.PieceX = es.Active.Pos.X
	snap.PieceY = es.Active.Pos.Y
	snap.Board = es.Stage.String()
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (s Snapshot) Hash() uint64 {
	h := s.Tick
	h = h*31 + uint64(s.Score)  //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Lines)  //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Pieces) //#nosec G115 -- hash computation
	h = h*31 + s.Locks
	h = h*31 + uint64(s.PieceX) //#nosec G115 -- hash computation
	h = h*31 + uint64(s.PieceY) //#nosec G115 -- hash computation
	for _, r := range s.Piece + s.Board {
		h = h*31 + uint64(r) //#nosec G115 -- hash computation
	}
	return h
}

// Stage parses the snapshot board into a stage whose occupied cells are merged.
func (s Snapshot) Stage() *engine.Stage {
	if s.Board == "" {
		return engine.NewStage(0, 0)
	}
	return engine.ParseStage(strings.Split(s.Board, "\n")...)
}
