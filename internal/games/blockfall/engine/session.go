package engine

import "math/rand"

// SessionStatus is the overall lifecycle state of a session.
type SessionStatus uint8

const (
	StatusNotStarted SessionStatus = iota
	StatusRunning
	StatusGameOver
)

// String returns the status name.
func (s SessionStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusGameOver:
		return "game_over"
	default:
		return "not_started"
	}
}

// Intent is a discrete player command.
type Intent uint8

const (
	IntentNone Intent = iota
	IntentMoveLeft
	IntentMoveRight
	IntentSoftDropAll
	IntentRotateCW
	IntentRotateCCW
)

// String returns the intent name.
func (i Intent) String() string {
	switch i {
	case IntentMoveLeft:
		return "move_left"
	case IntentMoveRight:
		return "move_right"
	case IntentSoftDropAll:
		return "soft_drop_all"
	case IntentRotateCW:
		return "rotate_cw"
	case IntentRotateCCW:
		return "rotate_ccw"
	default:
		return "none"
	}
}

// LockEvent describes the most recent piece settling.
type LockEvent struct {
	Label Label
	Rows  int // rows cleared by this lock
}

// Session owns one game: the stage, the active piece, and the score.
// It is not safe for concurrent use; the caller serializes Tick and HandleInput.
type Session struct {
	cfg    Config
	draw   func() Piece
	stage  *Stage
	player Player
	score  Scoring
	status SessionStatus

	pieces   int
	locks    uint64
	lastLock LockEvent
}

// New creates a session that draws pieces from rng. The session does nothing
// until Start is called.
func New(cfg Config, rng *rand.Rand) *Session {
	return &Session{
		cfg:  cfg,
		draw: func() Piece { return RandomPiece(rng) },
	}
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Start validates the configuration and begins a fresh session.
// It may be called again at any time to restart.
func (s *Session) Start() error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	s.stage = NewStage(s.cfg.Width, s.cfg.Height)
	s.score.Reset()
	s.pieces = 0
	s.locks = 0
	s.lastLock = LockEvent{}
	s.spawn()
	s.status = StatusRunning
	return nil
}

// spawn places a fresh piece at the top of the stage.
func (s *Session) spawn() {
	s.player = NewPlayer(s.draw(), s.stage.W)
	s.pieces++
}

// Status returns the session status.
func (s *Session) Status() SessionStatus {
	return s.status
}

// Score returns the accumulated score.
func (s *Session) Score() int {
	return s.score.Score()
}

// LastLock returns the most recent lock, if any piece has settled yet.
func (s *Session) LastLock() (LockEvent, bool) {
	return s.lastLock, s.locks > 0
}

// Locks returns how many pieces have settled since Start.
func (s *Session) Locks() uint64 {
	return s.locks
}

// HandleInput applies an intent to the active piece. No-op unless running.
func (s *Session) HandleInput(in Intent) {
	if s.status != StatusRunning {
		return
	}

	switch in {
	case IntentMoveLeft:
		s.Move(-1)
	case IntentMoveRight:
		s.Move(1)
	case IntentRotateCW:
		s.Rotate(1)
	case IntentRotateCCW:
		s.Rotate(-1)
	case IntentSoftDropAll:
		s.HardDrop()
	}
}

// Move shifts the active piece one column if the target is free.
func (s *Session) Move(dir int) bool {
	if s.status != StatusRunning {
		return false
	}
	p, ok := tryMove(s.player, s.stage, dir)
	s.player = p
	return ok
}

// Rotate turns the active piece a quarter turn, kicking it sideways if needed.
// When no kick fits, the piece is left untouched.
func (s *Session) Rotate(dir int) bool {
	if s.status != StatusRunning {
		return false
	}
	p, ok := tryRotate(s.player, s.stage, dir)
	s.player = p
	return ok
}

// Tick advances one automatic descent step: the piece falls one row or locks.
func (s *Session) Tick() {
	if s.status != StatusRunning {
		return
	}
	if !Collides(s.player, s.stage, 0, 1) {
		s.player.Pos.Y++
		return
	}
	s.lock()
}

// HardDrop drops the active piece to its lowest legal row and locks it at once.
// It shares the lock path with Tick, so a piece that can only rest above row 1
// ends the session rather than merging at the top of the stage.
func (s *Session) HardDrop() {
	if s.status != StatusRunning {
		return
	}
	s.player.Pos.Y += dropDistance(s.player, s.stage)
	s.player.Locked = true
	s.lock()
}

// lock settles the active piece. A piece that cannot leave the spawn row ends
// the session; otherwise it is merged, full rows are swept, and a new piece spawns.
func (s *Session) lock() {
	if s.player.Pos.Y < 1 {
		s.status = StatusGameOver
		return
	}

	s.player.Locked = true
	merged := s.stage.Merge(s.player)
	swept, rows := merged.SweepRows()
	s.stage = swept
	s.score.Apply(rows)

	s.locks++
	s.lastLock = LockEvent{Label: s.player.Piece.Label, Rows: rows}
	s.spawn()
}

// Snapshot is a read-only copy of the session for presentation.
type Snapshot struct {
	Stage  *Stage // settled cells plus the active piece as clear cells
	Score  int
	Lines  int
	Pieces int
	Status SessionStatus
	Active Player
	Locks  uint64
}

// Snapshot returns a deep copy of the current state. Nothing in it aliases the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Score:  s.score.Score(),
		Lines:  s.score.Lines(),
		Pieces: s.pieces,
		Status: s.status,
		Locks:  s.locks,
	}
	if s.stage == nil {
		snap.Stage = NewStage(max(s.cfg.Width, 0), max(s.cfg.Height, 0))
		return snap
	}
	snap.Active = s.player.Clone()
	snap.Stage = s.stage.DrawOverlay(s.player)
	return snap
}
