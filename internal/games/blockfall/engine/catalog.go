// Package engine provides the core game logic for Blockfall.
// This package is UI-agnostic and deterministic: it owns no timers and performs
// no I/O. An external driver calls Tick at a fixed interval and forwards input.
package engine

import (
	"fmt"
	"math/rand"
)

// Label identifies what occupies a cell: nothing, or one of the seven tetrominoes.
type Label uint8

const (
	LabelEmpty Label = iota
	LabelI
	LabelJ
	LabelL
	LabelO
	LabelS
	LabelT
	LabelZ
)

// String returns the single-letter name of the label ("" for empty).
func (l Label) String() string {
	switch l {
	case LabelI:
		return "I"
	case LabelJ:
		return "J"
	case LabelL:
		return "L"
	case LabelO:
		return "O"
	case LabelS:
		return "S"
	case LabelT:
		return "T"
	case LabelZ:
		return "Z"
	default:
		return ""
	}
}

// Rune returns a character representation for ASCII dumps. Empty is '.'.
func (l Label) Rune() rune {
	if l == LabelEmpty {
		return '.'
	}
	return rune(l.String()[0])
}

// ParseLabel converts a rune produced by Rune back into a Label.
func ParseLabel(r rune) (Label, bool) {
	switch r {
	case '.', ' ', '0':
		return LabelEmpty, true
	case 'I':
		return LabelI, true
	case 'J':
		return LabelJ, true
	case 'L':
		return LabelL, true
	case 'O':
		return LabelO, true
	case 'S':
		return LabelS, true
	case 'T':
		return LabelT, true
	case 'Z':
		return LabelZ, true
	default:
		return LabelEmpty, false
	}
}

// RGB is a display color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Piece is a tetromino drawn from the catalog.
type Piece struct {
	Label Label
	Shape Shape
	Color RGB
}

// Clone returns a deep copy of the piece.
func (p Piece) Clone() Piece {
	return Piece{Label: p.Label, Shape: p.Shape.Clone(), Color: p.Color}
}

type catalogEntry struct {
	rows  []string
	color RGB
}

var catalog = map[Label]catalogEntry{
	LabelEmpty: {rows: []string{"."}, color: RGB{0, 0, 0}},
	LabelI: {
		rows: []string{
			".I..",
			".I..",
			".I..",
			".I..",
		},
		color: RGB{80, 227, 230},
	},
	LabelJ: {
		rows: []string{
			".J.",
			".J.",
			"JJ.",
		},
		color: RGB{36, 95, 223},
	},
	LabelL: {
		rows: []string{
			".L.",
			".L.",
			".LL",
		},
		color: RGB{223, 173, 36},
	},
	LabelO: {
		rows: []string{
			"OO",
			"OO",
		},
		color: RGB{223, 217, 36},
	},
	LabelS: {
		rows: []string{
			".SS",
			"SS.",
			"...",
		},
		color: RGB{48, 211, 56},
	},
	LabelT: {
		rows: []string{
			"...",
			"TTT",
			".T.",
		},
		color: RGB{132, 61, 198},
	},
	LabelZ: {
		rows: []string{
			"ZZ.",
			".ZZ",
			"...",
		},
		color: RGB{227, 78, 78},
	},
}

// Pieces returns the seven spawnable labels in catalog order.
func Pieces() []Label {
	return []Label{LabelI, LabelJ, LabelL, LabelO, LabelS, LabelT, LabelZ}
}

// ColorOf returns the display color for a label.
func ColorOf(l Label) RGB {
	return catalog[l].color
}

// Tetromino returns a fresh copy of the canonical piece for a label.
// The returned shape is never shared with the catalog.
func Tetromino(l Label) Piece {
	entry, ok := catalog[l]
	if !ok {
		entry = catalog[LabelEmpty]
		l = LabelEmpty
	}
	return Piece{
		Label: l,
		Shape: MustParseShape(entry.rows...),
		Color: entry.color,
	}
}

// RandomPiece draws one of the seven tetrominoes uniformly at random.
func RandomPiece(rng *rand.Rand) Piece {
	labels := Pieces()
	return Tetromino(labels[rng.Intn(len(labels))])
}
