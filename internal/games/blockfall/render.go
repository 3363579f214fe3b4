package blockfall

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/engine"
)

const (
	hudHeight  = 2 // HUD line plus separator
	cellWidth  = 2 // screen columns per stage cell
	panelWidth = 18
	panelGap   = 2
)

// labelColors maps piece labels to terminal colors.
var labelColors = map[engine.Label]core.Color{
	engine.LabelI: core.ColorCyan,
	engine.LabelJ: core.ColorBlue,
	engine.LabelL: core.ColorOrange,
	engine.LabelO: core.ColorYellow,
	engine.LabelS: core.ColorGreen,
	engine.LabelT: core.ColorMagenta,
	engine.LabelZ: core.ColorRed,
}

var clearNames = map[int]string{
	1: "SINGLE",
	2: "DOUBLE",
	3: "TRIPLE",
	4: "QUAD",
}

var controlsHelp = []string{
	"←/→  move",
	"↑/x  rotate",
	"z    rotate ccw",
	"space drop",
	"p    pause",
	"r    restart",
	"q    quit",
}

// wellSize returns the bordered well size in screen cells.
func wellSize(stageW, stageH int) (int, int) {
	return stageW*cellWidth + 2, stageH + 2
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.cfgErr != nil {
		g.renderOverlay(dst, "Invalid config", g.cfgErr.Error())
		return
	}
	if g.session == nil {
		return
	}

	snap := g.session.Snapshot()
	g.renderHUD(dst, snap)

	if g.tooSmall {
		w, h := wellSize(g.cfg.Stage.Width, g.cfg.Stage.Height)
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", w, h+hudHeight))
		return
	}

	well := g.wellRect(dst)
	g.renderWell(dst, well, snap)
	if well.Right()+panelGap+panelWidth <= dst.Width() {
		g.renderPanel(dst, core.NewRect(well.Right()+panelGap, well.Y, panelWidth, well.H), snap)
	}

	switch {
	case snap.Status == engine.StatusGameOver:
		g.renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d  Press R to restart", snap.Score))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// wellRect centers the well below the HUD.
func (g *Game) wellRect(dst *core.Screen) core.Rect {
	w, h := wellSize(g.cfg.Stage.Width, g.cfg.Stage.Height)
	r := core.CenteredRect(dst.Width(), dst.Height()-hudHeight, w, h)
	r.Y += hudHeight
	return r
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen, snap engine.Snapshot) {
	hud := fmt.Sprintf(" %s | Score: %d  Lines: %d  Pieces: %d", g.Title(), snap.Score, snap.Lines, snap.Pieces)
	dst.DrawTextWithColor(0, 0, hud, core.ColorBrightWhite)

	if g.flashTicks > 0 {
		name, ok := clearNames[g.flashRows]
		if !ok {
			name = fmt.Sprintf("%d LINES", g.flashRows)
		}
		banner := fmt.Sprintf("%s +%d ", name, engine.ScoreForRows(g.flashRows))
		dst.DrawTextWithColor(dst.Width()-len([]rune(banner)), 0, banner, core.ColorBrightYellow)
	}

	for x := range dst.Width() {
		dst.SetWithColor(x, 1, '─', core.ColorGray)
	}
}

// renderWell draws the border, the settled cells, the ghost and the active piece.
func (g *Game) renderWell(dst *core.Screen, well core.Rect, snap engine.Snapshot) {
	dst.DrawBoxWithColor(well, core.ColorGray)
	inner := well.Inset(1)

	ghost := snap.Active
	ghost.Pos.Y = engine.GhostY(snap.Active, snap.Stage)
	showGhost := snap.Status == engine.StatusRunning && ghost.Pos.Y != snap.Active.Pos.Y
	ghostCells := make(map[engine.Point]bool)
	if showGhost {
		for _, c := range ghost.Piece.Shape.Cells() {
			ghostCells[ghost.Pos.Add(c.X, c.Y)] = true
		}
	}

	for y := range snap.Stage.H {
		for x := range snap.Stage.W {
			sx := inner.X + x*cellWidth
			sy := inner.Y + y
			cell := snap.Stage.At(x, y)
			switch {
			case cell.Label != engine.LabelEmpty:
				color := labelColors[cell.Label]
				dst.SetWithColor(sx, sy, '█', color)
				dst.SetWithColor(sx+1, sy, '█', color)
			case ghostCells[engine.Point{X: x, Y: y}]:
				dst.SetWithColor(sx, sy, '░', core.ColorGray)
				dst.SetWithColor(sx+1, sy, '░', core.ColorGray)
			default:
				dst.SetWithColor(sx, sy, ' ', core.ColorDefault)
				dst.SetWithColor(sx+1, sy, '·', core.ColorGray)
			}
		}
	}
}

// renderPanel draws the stats and controls beside the well.
func (g *Game) renderPanel(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	lines := []string{
		fmt.Sprintf("Score  %d", snap.Score),
		fmt.Sprintf("Lines  %d", snap.Lines),
		fmt.Sprintf("Pieces %d", snap.Pieces),
		fmt.Sprintf("Well   %dx%d", snap.Stage.W, snap.Stage.H),
		"",
	}
	for i, line := range lines {
		dst.DrawTextWithColor(r.X, r.Y+i, line, core.ColorWhite)
	}

	y := r.Y + len(lines)
	if snap.Active.Piece.Label != engine.LabelEmpty && snap.Status == engine.StatusRunning {
		dst.DrawTextWithColor(r.X, y, "Piece", core.ColorGray)
		color := labelColors[snap.Active.Piece.Label]
		for _, c := range engine.Tetromino(snap.Active.Piece.Label).Shape.Cells() {
			dst.SetWithColor(r.X+7+c.X*cellWidth, y+c.Y, '█', color)
			dst.SetWithColor(r.X+8+c.X*cellWidth, y+c.Y, '█', color)
		}
		y += 5
	}

	for i, line := range controlsHelp {
		if y+i >= r.Bottom() {
			break
		}
		dst.DrawTextWithColor(r.X, y+i, line, core.ColorGray)
	}
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *core.Screen, title, subtitle string) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxW = min(boxW, dst.Width())
	box := core.CenteredRect(dst.Width(), dst.Height(), boxW, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBoxWithColor(box, core.ColorBrightWhite)
	dst.DrawTextCenteredWithColor(box.Y+1, title, core.ColorBrightYellow)
	dst.DrawTextCenteredWithColor(box.Y+3, subtitle, core.ColorWhite)
}
