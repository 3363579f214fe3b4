package engine

import (
	"fmt"
	"strings"
)

// Default stage dimensions.
const (
	DefaultWidth  = 12
	DefaultHeight = 20
)

// Status tells whether a cell holds settled content.
type Status uint8

const (
	// StatusClear cells carry no settled content and are redrawn every tick.
	StatusClear Status = iota
	// StatusMerged cells belong to a locked piece and persist until swept.
	StatusMerged
)

// String returns the status name.
func (s Status) String() string {
	if s == StatusMerged {
		return "merged"
	}
	return "clear"
}

// Cell is a single stage cell. A merged cell never has the empty label.
type Cell struct {
	Label  Label
	Status Status
}

// Point is a grid coordinate. X grows to the right, Y grows downward.
type Point struct {
	X, Y int
}

// Add returns the point offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Stage is the fixed-size playing field, stored row-major with row 0 at the top.
// Operations return new stages; a Stage value is never mutated after it is shared.
type Stage struct {
	W     int
	H     int
	Cells []Cell
}

// NewStage creates a stage with every cell set to (empty, clear).
func NewStage(w, h int) *Stage {
	return &Stage{
		W:     w,
		H:     h,
		Cells: make([]Cell, w*h),
	}
}

// index converts a coordinate to a flat array index.
func (s *Stage) index(x, y int) int {
	return y*s.W + x
}

// InBounds returns true if (x, y) is on the stage.
func (s *Stage) InBounds(x, y int) bool {
	return x >= 0 && x < s.W && y >= 0 && y < s.H
}

// At returns the cell at (x, y). Out-of-bounds coordinates yield an empty cell.
func (s *Stage) At(x, y int) Cell {
	if !s.InBounds(x, y) {
		return Cell{}
	}
	return s.Cells[s.index(x, y)]
}

// Row returns a copy of row y.
func (s *Stage) Row(y int) []Cell {
	row := make([]Cell, s.W)
	if y >= 0 && y < s.H {
		copy(row, s.Cells[s.index(0, y):s.index(0, y+1)])
	}
	return row
}

// Clone returns a deep copy of the stage.
func (s *Stage) Clone() *Stage {
	cells := make([]Cell, len(s.Cells))
	copy(cells, s.Cells)
	return &Stage{W: s.W, H: s.H, Cells: cells}
}

// Equal returns true if both stages have the same dimensions and cells.
func (s *Stage) Equal(other *Stage) bool {
	if s.W != other.W || s.H != other.H {
		return false
	}
	for i, c := range s.Cells {
		if c != other.Cells[i] {
			return false
		}
	}
	return true
}

// MergedCount returns the number of settled cells.
func (s *Stage) MergedCount() int {
	n := 0
	for _, c := range s.Cells {
		if c.Status == StatusMerged {
			n++
		}
	}
	return n
}

// ClearOverlay returns a stage where every clear cell is reset to (empty, clear).
// Merged cells pass through unchanged.
func (s *Stage) ClearOverlay() *Stage {
	out := s.Clone()
	for i, c := range out.Cells {
		if c.Status == StatusClear {
			out.Cells[i] = Cell{}
		}
	}
	return out
}

// Merge returns a stage with the player's non-empty cells written as merged.
// The caller must have verified the placement with Collides; a cell outside
// the stage panics.
func (s *Stage) Merge(p Player) *Stage {
	out := s.Clone()
	for _, c := range p.Piece.Shape.Cells() {
		x, y := p.Pos.X+c.X, p.Pos.Y+c.Y
		if !out.InBounds(x, y) {
			panic(fmt.Sprintf("engine: merge cell (%d,%d) outside %dx%d stage", x, y, out.W, out.H))
		}
		out.Cells[out.index(x, y)] = Cell{Label: p.Piece.Shape[c.Y][c.X], Status: StatusMerged}
	}
	return out
}

// DrawOverlay returns a stage with the active piece drawn as clear cells.
// Cells outside the stage or already merged are left as they are.
func (s *Stage) DrawOverlay(p Player) *Stage {
	out := s.ClearOverlay()
	for _, c := range p.Piece.Shape.Cells() {
		x, y := p.Pos.X+c.X, p.Pos.Y+c.Y
		if !out.InBounds(x, y) || out.At(x, y).Status == StatusMerged {
			continue
		}
		out.Cells[out.index(x, y)] = Cell{Label: p.Piece.Shape[c.Y][c.X], Status: StatusClear}
	}
	return out
}

// rowComplete reports whether no cell in row y has the empty label.
func (s *Stage) rowComplete(y int) bool {
	for x := 0; x < s.W; x++ {
		if s.Cells[s.index(x, y)].Label == LabelEmpty {
			return false
		}
	}
	return true
}

// SweepRows removes complete rows and inserts one empty row at the top for each.
// Remaining rows keep their relative order. Returns the new stage and rows removed.
func (s *Stage) SweepRows() (*Stage, int) {
	kept := make([][]Cell, 0, s.H)
	cleared := 0
	for y := 0; y < s.H; y++ {
		if s.rowComplete(y) {
			cleared++
			continue
		}
		kept = append(kept, s.Row(y))
	}

	out := NewStage(s.W, s.H)
	for i, row := range kept {
		copy(out.Cells[out.index(0, cleared+i):], row)
	}
	return out, cleared
}

// String renders the stage as newline-separated rows of label runes.
func (s *Stage) String() string {
	var sb strings.Builder
	sb.Grow(s.W*s.H + s.H)
	for y := 0; y < s.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.W; x++ {
			sb.WriteRune(s.Cells[s.index(x, y)].Label.Rune())
		}
	}
	return sb.String()
}

// ParseStage builds a stage from rows of label runes; every non-empty cell is merged.
// Rows shorter than the widest row are padded with empty cells.
func ParseStage(rows ...string) *Stage {
	w := 0
	for _, row := range rows {
		w = max(w, len([]rune(row)))
	}
	st := NewStage(w, len(rows))
	for y, row := range rows {
		for x, r := range []rune(row) {
			l, ok := ParseLabel(r)
			if !ok || l == LabelEmpty {
				continue
			}
			st.Cells[st.index(x, y)] = Cell{Label: l, Status: StatusMerged}
		}
	}
	return st
}
