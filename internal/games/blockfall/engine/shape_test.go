package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShapeRejectsNonSquare(t *testing.T) {
	_, err := ParseShape("II", "I")
	require.Error(t, err)

	_, err = ParseShape("I?", "II")
	require.Error(t, err)
}

func TestRotateOrderFour(t *testing.T) {
	for _, l := range Pieces() {
		for _, dir := range []int{1, -1} {
			orig := Tetromino(l).Shape
			s := orig.Clone()
			for range 4 {
				s = Rotate(s, dir)
			}
			assert.True(t, orig.Equal(s), "%s dir=%d:\n%s", l, dir, s)
		}
	}
}

func TestRotateInverse(t *testing.T) {
	for _, l := range Pieces() {
		orig := Tetromino(l).Shape
		assert.True(t, orig.Equal(Rotate(Rotate(orig, 1), -1)), "%s cw then ccw", l)
		assert.True(t, orig.Equal(Rotate(Rotate(orig, -1), 1)), "%s ccw then cw", l)
	}
}

func TestRotateDoesNotAliasInput(t *testing.T) {
	orig := Tetromino(LabelT).Shape
	before := orig.Clone()

	rotated := Rotate(orig, 1)
	rotated[0][0] = LabelZ

	assert.True(t, before.Equal(orig))
}

func TestRotateClockwise(t *testing.T) {
	tests := []struct {
		name string
		in   Shape
		dir  int
		want Shape
	}{
		{
			name: "T clockwise",
			in:   MustParseShape("...", "TTT", ".T."),
			dir:  1,
			want: MustParseShape(".T.", "TT.", ".T."),
		},
		{
			name: "T counter-clockwise",
			in:   MustParseShape("...", "TTT", ".T."),
			dir:  -1,
			want: MustParseShape(".T.", ".TT", ".T."),
		},
		{
			name: "I clockwise",
			in:   MustParseShape(".I..", ".I..", ".I..", ".I.."),
			dir:  1,
			want: MustParseShape("....", "IIII", "....", "...."),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotate(tt.in, tt.dir)
			assert.True(t, tt.want.Equal(got), "got:\n%s\nwant:\n%s", got, tt.want)
		})
	}
}

func TestTetrominoReturnsFreshCopy(t *testing.T) {
	a := Tetromino(LabelO)
	a.Shape[0][0] = LabelEmpty

	b := Tetromino(LabelO)
	assert.Equal(t, LabelO, b.Shape[0][0])
	assert.Len(t, b.Shape.Cells(), 4)
}

func TestCatalogPiecesHaveFourCells(t *testing.T) {
	for _, l := range Pieces() {
		p := Tetromino(l)
		assert.Len(t, p.Shape.Cells(), 4, "piece %s", l)
		for _, c := range p.Shape.Cells() {
			assert.Equal(t, l, p.Shape[c.Y][c.X])
		}
		assert.NotEqual(t, RGB{}, p.Color)
	}
}

func TestLabelRoundTrip(t *testing.T) {
	for _, l := range append(Pieces(), LabelEmpty) {
		got, ok := ParseLabel(l.Rune())
		require.True(t, ok)
		assert.Equal(t, l, got)
	}
	_, ok := ParseLabel('x')
	assert.False(t, ok)
}

func TestRGBHex(t *testing.T) {
	assert.Equal(t, "#50e3e6", ColorOf(LabelI).Hex())
	assert.Equal(t, "#000000", ColorOf(LabelEmpty).Hex())
}
