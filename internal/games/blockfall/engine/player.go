package engine

// Player is the active piece: its shape, grid offset of the shape's top-left
// corner, and whether it has just settled.
type Player struct {
	Piece  Piece
	Pos    Point
	Locked bool
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	return Player{Piece: p.Piece.Clone(), Pos: p.Pos, Locked: p.Locked}
}

// SpawnPoint returns the horizontally centered spawn position for a stage width.
func SpawnPoint(stageW int) Point {
	return Point{X: stageW/2 - 2, Y: 0}
}

// NewPlayer places a piece at the spawn point of a stage of width stageW.
func NewPlayer(piece Piece, stageW int) Player {
	return Player{Piece: piece, Pos: SpawnPoint(stageW)}
}

// tryMove returns the player shifted by dir columns, or false if that collides.
func tryMove(p Player, st *Stage, dir int) (Player, bool) {
	if Collides(p, st, dir, 0) {
		return p, false
	}
	p.Pos.X += dir
	return p, true
}

// tryRotate rotates a working copy of the player and resolves wall kicks.
// Offsets 1, -2, 3, -4, ... are applied cumulatively to X until the copy fits;
// once the next offset exceeds the rotated width the rotation is abandoned.
func tryRotate(p Player, st *Stage, dir int) (Player, bool) {
	candidate := p.Clone()
	candidate.Piece.Shape = Rotate(p.Piece.Shape, dir)

	width := candidate.Piece.Shape.Width()
	offset := 1
	for Collides(candidate, st, 0, 0) {
		candidate.Pos.X += offset
		if offset > 0 {
			offset = -(offset + 1)
		} else {
			offset = -(offset - 1)
		}
		if offset > width {
			return p, false
		}
	}
	return candidate, true
}

// dropDistance returns how many rows the player can fall before colliding.
// The search is bounded by the stage height.
func dropDistance(p Player, st *Stage) int {
	d := 0
	for d < st.H && !Collides(p, st, 0, d+1) {
		d++
	}
	return d
}

// GhostY returns the row the player would settle at if hard dropped.
func GhostY(p Player, st *Stage) int {
	return p.Pos.Y + dropDistance(p, st)
}
