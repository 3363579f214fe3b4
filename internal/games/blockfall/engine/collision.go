package engine

// Collides reports whether the player displaced by (dx, dy) would leave the
// stage or overlap a merged cell. Only non-empty shape cells are tested.
func Collides(p Player, st *Stage, dx, dy int) bool {
	for y, row := range p.Piece.Shape {
		for x, l := range row {
			if l == LabelEmpty {
				continue
			}
			tx := p.Pos.X + x + dx
			ty := p.Pos.Y + y + dy
			if !st.InBounds(tx, ty) {
				return true
			}
			if st.Cells[st.index(tx, ty)].Status == StatusMerged {
				return true
			}
		}
	}
	return false
}
