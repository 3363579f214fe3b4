package engine

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession returns a started session that spawns the given labels in order,
// repeating the last one once the list is exhausted.
func newTestSession(t *testing.T, cfg Config, labels ...Label) *Session {
	t.Helper()
	s := New(cfg, rand.New(rand.NewSource(1)))
	i := 0
	s.draw = func() Piece {
		l := labels[min(i, len(labels)-1)]
		i++
		return Tetromino(l)
	}
	require.NoError(t, s.Start())
	return s
}

func TestStartSpawnsCentered(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelO)

	snap := s.Snapshot()
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Equal(t, Point{X: 4, Y: 0}, snap.Active.Pos)
	assert.False(t, snap.Active.Locked)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 1, snap.Pieces)
}

func TestOPieceFallsAndLocks(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelO, LabelT)

	for i := range 18 {
		s.Tick()
		require.Equal(t, i+1, s.player.Pos.Y, "tick %d", i)
		require.Equal(t, uint64(0), s.locks)
	}

	s.Tick()

	require.Equal(t, uint64(1), s.locks)
	assert.Equal(t, 4, s.stage.MergedCount())
	for _, c := range []Point{{4, 18}, {5, 18}, {4, 19}, {5, 19}} {
		assert.Equal(t, Cell{Label: LabelO, Status: StatusMerged}, s.stage.At(c.X, c.Y), "cell %v", c)
	}
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, StatusRunning, s.Status())

	ev, ok := s.LastLock()
	require.True(t, ok)
	assert.Equal(t, LockEvent{Label: LabelO, Rows: 0}, ev)

	// Next piece spawned at the top.
	assert.Equal(t, LabelT, s.player.Piece.Label)
	assert.Equal(t, Point{X: 4, Y: 0}, s.player.Pos)
}

func TestLockClearsBottomRow(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelO, LabelI)

	row := make([]string, 20)
	for y := range row {
		row[y] = "............"
	}
	row[19] = "ZZZZ..ZZZZZZ"
	s.stage = ParseStage(row...)

	s.HandleInput(IntentSoftDropAll)

	assert.Equal(t, 100, s.Score())
	assert.Equal(t, 1, s.score.Lines())
	// The top half of the O slides into the cleared row; row 0 is fresh.
	assert.Equal(t, LabelO, s.stage.At(4, 19).Label)
	assert.Equal(t, LabelO, s.stage.At(5, 19).Label)
	assert.Equal(t, LabelEmpty, s.stage.At(0, 19).Label)
	assert.Equal(t, 2, s.stage.MergedCount())
	for x := range s.stage.W {
		assert.Equal(t, Cell{}, s.stage.At(x, 0))
	}
}

func TestLockClearsFourRows(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelI, LabelO)

	rows := make([]string, 20)
	for y := range rows {
		rows[y] = "............"
	}
	for y := 16; y < 20; y++ {
		rows[y] = "ZZZZZ.ZZZZZZ"
	}
	s.stage = ParseStage(rows...)

	// Vertical I occupies column Pos.X+1 = 5.
	s.HardDrop()

	assert.Equal(t, 800, s.Score())
	assert.Equal(t, 4, s.score.Lines())
	assert.Equal(t, 0, s.stage.MergedCount())
}

func TestHardDropStaysInBounds(t *testing.T) {
	for _, l := range Pieces() {
		for r := range 4 {
			s := newTestSession(t, DefaultConfig(), l, LabelO)
			for range r {
				s.Rotate(1)
			}
			s.HardDrop()

			require.Equal(t, uint64(1), s.locks, "%s rot=%d", l, r)
			assert.Equal(t, 4, s.stage.MergedCount(), "%s rot=%d", l, r)
			// The piece rests on the floor.
			bottom := 0
			for y := range s.stage.H {
				for x := range s.stage.W {
					if s.stage.At(x, y).Status == StatusMerged {
						bottom = max(bottom, y)
					}
				}
			}
			assert.Equal(t, s.stage.H-1, bottom, "%s rot=%d", l, r)
		}
	}
}

func TestHardDropOntoStack(t *testing.T) {
	s := newTestSession(t, Config{Width: 6, Height: 8, DropInterval: time.Second}, LabelO, LabelO)
	s.stage = ParseStage(
		"......",
		"......",
		"......",
		"......",
		"......",
		"..II..",
		"..II..",
		"..II..",
	)

	p := s.player
	assert.Equal(t, 3, GhostY(p, s.stage))

	s.HardDrop()
	assert.Equal(t, LabelO, s.stage.At(1, 3).Label)
	assert.Equal(t, LabelO, s.stage.At(2, 4).Label)
}

func TestMoveBlockedByWall(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelO)

	for range 20 {
		s.HandleInput(IntentMoveLeft)
	}
	assert.Equal(t, 0, s.player.Pos.X)
	assert.False(t, s.Move(-1))

	for range 20 {
		s.HandleInput(IntentMoveRight)
	}
	assert.Equal(t, 10, s.player.Pos.X)
	assert.False(t, s.Move(1))
}

func TestMoveBlockedByMerged(t *testing.T) {
	s := newTestSession(t, Config{Width: 8, Height: 4, DropInterval: time.Second}, LabelO)
	s.stage = ParseStage(
		"..Z.....",
		"..Z.....",
		"........",
		"........",
	)
	s.player.Pos = Point{X: 3, Y: 0}

	assert.False(t, s.Move(-1))
	assert.Equal(t, 3, s.player.Pos.X)
	assert.True(t, s.Move(1))
	assert.Equal(t, 4, s.player.Pos.X)
}

func TestRotateKicksOffWall(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelI)
	s.player.Pos = Point{X: -1, Y: 2}

	require.True(t, s.Rotate(1))

	assert.Equal(t, 0, s.player.Pos.X)
	assert.True(t, MustParseShape("....", "IIII", "....", "....").Equal(s.player.Piece.Shape))
	assert.False(t, Collides(s.player, s.stage, 0, 0))
}

func TestRotateKicksLeftOffRightWall(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelI)
	// Column 1 of the shape sits on the last stage column.
	s.player.Pos = Point{X: 10, Y: 2}

	require.True(t, s.Rotate(1))

	assert.Equal(t, 8, s.player.Pos.X)
	assert.False(t, Collides(s.player, s.stage, 0, 0))
}

func TestRotateAbandonedWhenNoKickFits(t *testing.T) {
	s := newTestSession(t, Config{Width: 3, Height: 6, DropInterval: time.Second}, LabelI)
	s.player.Pos = Point{X: 0, Y: 1}
	before := s.player.Clone()

	assert.False(t, s.Rotate(1))
	assert.Equal(t, before.Pos, s.player.Pos)
	assert.True(t, before.Piece.Shape.Equal(s.player.Piece.Shape))
}

func TestGameOverWhenSpawnBlocked(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelO)
	rows := make([]string, 20)
	for y := range rows {
		rows[y] = "............"
	}
	rows[2] = ".ZZZZZZZZZZZ"
	s.stage = ParseStage(rows...)
	s.score.Apply(2)

	s.Tick()

	assert.Equal(t, StatusGameOver, s.Status())
	assert.Equal(t, 300, s.Score())

	// Terminal until restarted.
	snap := s.Snapshot()
	s.Tick()
	s.HandleInput(IntentMoveLeft)
	s.HandleInput(IntentSoftDropAll)
	assert.Equal(t, snap, s.Snapshot())
}

func TestHardDropFromBlockedSpawnEndsGame(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelO)
	rows := make([]string, 20)
	for y := range rows {
		rows[y] = "............"
	}
	rows[2] = "ZZZZZZZZZZZ."
	s.stage = ParseStage(rows...)

	s.HardDrop()

	assert.Equal(t, StatusGameOver, s.Status())
	assert.Equal(t, uint64(0), s.locks)
}

func TestRestartAfterGameOver(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelO)
	rows := make([]string, 20)
	for y := range rows {
		rows[y] = "............"
	}
	rows[2] = ".ZZZZZZZZZZZ"
	s.stage = ParseStage(rows...)
	s.score.Apply(4)
	s.Tick()
	require.Equal(t, StatusGameOver, s.Status())

	require.NoError(t, s.Start())

	snap := s.Snapshot()
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 0, snap.Lines)
	assert.Equal(t, Point{X: 4, Y: 0}, snap.Active.Pos)
	assert.Equal(t, 0, s.stage.MergedCount())
}

func TestInputIgnoredBeforeStart(t *testing.T) {
	s := New(DefaultConfig(), rand.New(rand.NewSource(7)))

	s.HandleInput(IntentMoveLeft)
	s.HandleInput(IntentRotateCW)
	s.HandleInput(IntentSoftDropAll)
	s.Tick()
	s.HardDrop()

	snap := s.Snapshot()
	assert.Equal(t, StatusNotStarted, snap.Status)
	assert.Equal(t, 12, snap.Stage.W)
	assert.Equal(t, 20, snap.Stage.H)
	assert.Equal(t, 0, snap.Stage.MergedCount())
	_, ok := s.LastLock()
	assert.False(t, ok)
}

func TestStartRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"zero width", Config{Width: 0, Height: 20, DropInterval: time.Second}, "width"},
		{"negative height", Config{Width: 12, Height: -1, DropInterval: time.Second}, "height"},
		{"zero interval", Config{Width: 12, Height: 20}, "drop_interval"},
		{"negative interval", Config{Width: 12, Height: 20, DropInterval: -time.Millisecond}, "drop_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.cfg, rand.New(rand.NewSource(1)))

			err := s.Start()

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Equal(t, StatusNotStarted, s.Status())
		})
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), LabelT)

	snap := s.Snapshot()
	// The active piece is drawn as clear cells.
	assert.Equal(t, Cell{Label: LabelT, Status: StatusClear}, snap.Stage.At(5, 1))

	snap.Stage.Cells[0] = Cell{Label: LabelZ, Status: StatusMerged}
	snap.Active.Piece.Shape[1][0] = LabelEmpty
	snap.Active.Pos.X = 99

	assert.Equal(t, Cell{}, s.stage.At(0, 0))
	assert.Equal(t, LabelT, s.player.Piece.Shape[1][0])
	assert.Equal(t, 4, s.player.Pos.X)
}

func TestSessionDeterminism(t *testing.T) {
	run := func() Snapshot {
		s := New(DefaultConfig(), rand.New(rand.NewSource(42)))
		require.NoError(t, s.Start())
		intents := []Intent{IntentRotateCW, IntentMoveLeft, IntentMoveLeft, IntentSoftDropAll, IntentMoveRight}
		for i := range 400 {
			s.HandleInput(intents[i%len(intents)])
			s.Tick()
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Pieces, b.Pieces)
	assert.Equal(t, a.Status, b.Status)
	assert.True(t, a.Stage.Equal(b.Stage))
}

func TestScoreForRows(t *testing.T) {
	tests := []struct {
		rows int
		want int
	}{
		{0, 0},
		{1, 100},
		{2, 300},
		{3, 500},
		{4, 800},
		{5, 500},
		{6, 600},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreForRows(tt.rows), "rows=%d", tt.rows)
	}
}

func TestScoringNeverDecreases(t *testing.T) {
	var sc Scoring
	prev := 0
	for _, k := range []int{0, 1, 4, 0, -3, 2, 3} {
		sc.Apply(k)
		assert.GreaterOrEqual(t, sc.Score(), prev)
		prev = sc.Score()
	}
	assert.Equal(t, 1700, sc.Score())
	assert.Equal(t, 10, sc.Lines())
}
