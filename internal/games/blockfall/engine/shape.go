package engine

import (
	"fmt"
	"strings"
)

// Shape is a square matrix of labels: one rotation state of a piece.
// Row 0 is the top row; Shape[y][x].
type Shape [][]Label

// ParseShape builds a shape from rows of label runes ('.' for empty).
// All rows must have the same length as the number of rows.
func ParseShape(rows ...string) (Shape, error) {
	s := make(Shape, len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != len(rows) {
			return nil, fmt.Errorf("shape row %d has %d cells, want %d", y, len(runes), len(rows))
		}
		s[y] = make([]Label, len(runes))
		for x, r := range runes {
			l, ok := ParseLabel(r)
			if !ok {
				return nil, fmt.Errorf("shape row %d: unknown cell %q", y, r)
			}
			s[y][x] = l
		}
	}
	return s, nil
}

// MustParseShape is like ParseShape but panics on malformed input.
// Intended for static tables and tests.
func MustParseShape(rows ...string) Shape {
	s, err := ParseShape(rows...)
	if err != nil {
		panic(err)
	}
	return s
}

// Width returns the number of columns (equal to the number of rows).
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for y := range s {
		out[y] = make([]Label, len(s[y]))
		copy(out[y], s[y])
	}
	return out
}

// Equal returns true if both shapes have identical cells.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for y := range s {
		if len(s[y]) != len(other[y]) {
			return false
		}
		for x := range s[y] {
			if s[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// Cells returns the shape-local coordinates of all non-empty cells,
// ordered by row then column.
func (s Shape) Cells() []Point {
	var cells []Point
	for y, row := range s {
		for x, l := range row {
			if l != LabelEmpty {
				cells = append(cells, Point{X: x, Y: y})
			}
		}
	}
	return cells
}

// String renders the shape as newline-separated rows.
func (s Shape) String() string {
	var sb strings.Builder
	for y, row := range s {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, l := range row {
			sb.WriteRune(l.Rune())
		}
	}
	return sb.String()
}

// Rotate returns a new shape rotated a quarter turn.
// dir > 0 rotates clockwise, dir < 0 counter-clockwise; the input is not modified.
func Rotate(s Shape, dir int) Shape {
	if dir == 0 {
		return s.Clone()
	}

	n := len(s)
	t := make(Shape, n)
	for y := range n {
		t[y] = make([]Label, n)
		for x := range n {
			t[y][x] = s[x][y]
		}
	}

	if dir > 0 {
		for _, row := range t {
			for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
		return t
	}

	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		t[i], t[j] = t[j], t[i]
	}
	return t
}
