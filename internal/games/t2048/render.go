package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell including the left border
	cellHeight = 2 // Height of each cell including the top border
	hudHeight  = 3
)

// boardExtent returns the on-screen width and height of the grid.
func boardExtent(size int) (int, int) {
	return size*cellWidth + 1, size*cellHeight + 1
}

// MinScreenSize returns the smallest terminal that fits a board of size n.
func MinScreenSize(n int) (int, int) {
	w, h := boardExtent(n)
	return w, hudHeight + 1 + h + 2
}

func (g *Game) checkScreenSize() {
	if g.screenW == 0 && g.screenH == 0 {
		g.tooSmall = false
		return
	}
	minW, minH := MinScreenSize(g.board.Size())
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Resize updates the screen size the game renders into.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// TileColor returns the display color for a tile value.
func TileColor(value int) core.Color {
	switch value {
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorBrightWhite
	case 8:
		return core.ColorYellow
	case 16:
		return core.ColorOrange
	case 32:
		return core.ColorRed
	case 64:
		return core.ColorBrightRed
	case 128:
		return core.ColorBrightYellow
	case 256:
		return core.ColorGreen
	case 512:
		return core.ColorBrightGreen
	case 1024:
		return core.ColorCyan
	case 2048:
		return core.ColorBrightMagenta
	}
	if value > 2048 {
		return core.ColorBrightBlue
	}
	return core.ColorDefault
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	size := g.board.Size()
	boardW, boardH := boardExtent(size)

	screenW := g.screenW
	if screenW == 0 {
		screenW = dst.Width()
	}
	boardX := max((screenW-boardW)/2, 0)
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX, boardW)
	g.renderBoard(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)

	controls := g.Controls()
	dst.DrawTextColored(max((screenW-len(controls))/2, 0), boardY+boardH+1, controls, core.ColorGray)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small")

	minW, minH := MinScreenSize(g.board.Size())
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", minW, minH))
}

// renderHUD draws the score, best score and move count.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := g.title
	dst.DrawTextColored(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.score))

	best := fmt.Sprintf("Best: %d", g.bestScore)
	dst.DrawText(max(boardX+boardW-len(best), boardX), 1, best)

	info := fmt.Sprintf("Moves: %d  Max: %d", g.moves, g.board.MaxTile())
	if g.cfg.Undo.Enabled {
		info += fmt.Sprintf("  Undo: %d", g.history.Len())
		if limit := g.history.Limit(); limit > 0 {
			info += fmt.Sprintf("/%d", limit)
		}
	}
	dst.DrawText(boardX+(boardW-len(info))/2, 2, info)
}

// gridCorner picks the box drawing rune for grid intersection (x, y).
func gridCorner(x, y, n int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == n:
		return '┐'
	case y == n && x == 0:
		return '└'
	case y == n && x == n:
		return '┘'
	case y == 0:
		return '┬'
	case y == n:
		return '┴'
	case x == 0:
		return '├'
	case x == n:
		return '┤'
	}
	return '┼'
}

// renderBoard draws the grid lines and tiles.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	n := g.board.Size()

	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight
			dst.SetColored(px, py, gridCorner(x, y, n), core.ColorGray)

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.SetColored(px+i, py, '─', core.ColorGray)
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.SetColored(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}

	for y := range n {
		for x := range n {
			tile, ok := g.board.CellAt(x, y)
			if !ok {
				continue
			}
			text := strconv.Itoa(tile.Value)
			pad := max((cellWidth-1-len(text))/2, 0)
			cellX := boardX + x*cellWidth + 1
			cellY := boardY + y*cellHeight + 1
			dst.DrawTextColored(cellX+pad, cellY, text, TileColor(tile.Value))
		}
	}
}

func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	centerX, centerY := core.NewRect(boardX, boardY, boardW, boardH).Center()

	switch {
	case g.paused:
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.gameOver:
		lines := []string{"GAME OVER", fmt.Sprintf("Max tile: %d", g.board.MaxTile())}
		if g.history.Len() > 0 {
			lines = append(lines, "U: Undo  R: Restart")
		} else {
			lines = append(lines, "Press R to restart")
		}
		g.drawOverlay(dst, centerX, centerY, lines...)
	}
}

// drawOverlay draws a boxed, centered block of text.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.CenteredAt(centerX, centerY, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawTextColored(centerX-len(line)/2, box.Y+1+i, line, core.ColorBrightWhite)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	hint := "Arrows/WASD: Move | R: Restart | P: Pause | Q: Quit"
	if g.cfg.Undo.Enabled {
		hint = "Arrows/WASD: Move | U: Undo | R: Restart | P: Pause | Q: Quit"
	}
	return hint
}
