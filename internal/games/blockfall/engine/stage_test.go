package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStageIsEmpty(t *testing.T) {
	st := NewStage(12, 20)
	require.Len(t, st.Cells, 240)
	for _, c := range st.Cells {
		assert.Equal(t, Cell{}, c)
	}
}

func TestClearOverlayKeepsMerged(t *testing.T) {
	st := ParseStage(
		"....",
		"..ZZ",
	)
	drawn := st.DrawOverlay(Player{Piece: Tetromino(LabelO), Pos: Point{X: 0, Y: 0}})
	assert.Equal(t, Cell{Label: LabelO, Status: StatusClear}, drawn.At(0, 0))

	cleared := drawn.ClearOverlay()
	assert.Equal(t, Cell{}, cleared.At(0, 0))
	assert.Equal(t, Cell{}, cleared.At(1, 1))
	assert.Equal(t, Cell{Label: LabelZ, Status: StatusMerged}, cleared.At(2, 1))
	assert.Equal(t, 2, cleared.MergedCount())

	// Source stage untouched.
	assert.Equal(t, LabelO, drawn.At(0, 0).Label)
}

func TestMergeWritesLabels(t *testing.T) {
	st := NewStage(6, 4)
	p := Player{Piece: Tetromino(LabelT), Pos: Point{X: 1, Y: 1}}

	out := st.Merge(p)

	assert.Equal(t, 0, st.MergedCount())
	assert.Equal(t, 4, out.MergedCount())
	for _, c := range []Point{{1, 2}, {2, 2}, {3, 2}, {2, 3}} {
		assert.Equal(t, Cell{Label: LabelT, Status: StatusMerged}, out.At(c.X, c.Y), "cell %v", c)
	}
}

func TestMergeOutsideStagePanics(t *testing.T) {
	st := NewStage(4, 4)
	p := Player{Piece: Tetromino(LabelO), Pos: Point{X: 3, Y: 1}}

	assert.Panics(t, func() { st.Merge(p) })
	assert.Equal(t, 0, st.MergedCount())
}

func TestDrawOverlaySkipsOutOfBounds(t *testing.T) {
	st := NewStage(4, 4)
	p := Player{Piece: Tetromino(LabelI), Pos: Point{X: -1, Y: 2}}

	out := st.DrawOverlay(p)

	assert.Equal(t, LabelI, out.At(0, 2).Label)
	assert.Equal(t, LabelI, out.At(0, 3).Label)
	assert.Equal(t, 0, out.MergedCount())
}

func TestSweepRows(t *testing.T) {
	full := strings.Repeat("I", 6)
	tests := []struct {
		name string
		rows int
	}{
		{"none", 0},
		{"single", 1},
		{"double", 2},
		{"triple", 3},
		{"tetris", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []string{"......", "......", "......", "......", ".T...."}
			for range tt.rows {
				rows = append(rows, full)
			}
			rows = append(rows, "ZZ.ZZZ")
			st := ParseStage(rows...)

			out, cleared := st.SweepRows()

			assert.Equal(t, tt.rows, cleared)
			assert.Equal(t, st.W, out.W)
			assert.Equal(t, st.H, out.H)
			for y := range tt.rows {
				for x := range out.W {
					assert.Equal(t, Cell{}, out.At(x, y), "row %d should be empty", y)
				}
			}
			// Rows above the cleared block shift down, the bottom row stays put.
			assert.Equal(t, LabelT, out.At(1, 4+tt.rows).Label)
			assert.Equal(t, LabelZ, out.At(0, out.H-1).Label)
			assert.Equal(t, LabelEmpty, out.At(2, out.H-1).Label)
		})
	}
}

func TestSweepRowsNonContiguous(t *testing.T) {
	st := ParseStage(
		"...",
		"III",
		"J..",
		"LLL",
		"..S",
	)

	out, cleared := st.SweepRows()

	require.Equal(t, 2, cleared)
	assert.Equal(t, strings.Join([]string{
		"...",
		"...",
		"...",
		"J..",
		"..S",
	}, "\n"), out.String())
}

func TestSweepRowsEveryRowComplete(t *testing.T) {
	st := ParseStage(
		"IIII",
		"OOOO",
		"ZZSS",
		"TJLT",
	)

	out, cleared := st.SweepRows()

	assert.Equal(t, st.H, cleared)
	assert.Equal(t, st.W, out.W)
	assert.Equal(t, st.H, out.H)
	assert.Equal(t, 0, out.MergedCount())
	for _, c := range out.Cells {
		assert.Equal(t, Cell{}, c)
	}
}

func TestSweepRowsBeyondFourScoresPerRow(t *testing.T) {
	full := strings.Repeat("L", 5)
	rows := []string{".....", "S...."}
	for range 6 {
		rows = append(rows, full)
	}
	rows = append(rows, "..J..")
	st := ParseStage(rows...)

	out, cleared := st.SweepRows()
	require.Equal(t, 6, cleared)
	assert.Equal(t, st.H, out.H)
	assert.Equal(t, LabelS, out.At(0, 7).Label)
	assert.Equal(t, LabelJ, out.At(2, 8).Label)
	assert.Equal(t, 2, out.MergedCount())

	var sc Scoring
	assert.Equal(t, 600, sc.Apply(cleared))
	assert.Equal(t, 600, sc.Score())
	assert.Equal(t, 6, sc.Lines())
}

func TestSweepRowsIgnoresStatus(t *testing.T) {
	// A row filled entirely with overlay cells still counts as complete.
	st := NewStage(2, 2)
	st.Cells[2] = Cell{Label: LabelO, Status: StatusClear}
	st.Cells[3] = Cell{Label: LabelO, Status: StatusClear}

	_, cleared := st.SweepRows()
	assert.Equal(t, 1, cleared)
}
