package tui

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3

	boardW = t2048.Size*cellWidth + 1  // +1 for right border
	boardH = t2048.Size*cellHeight + 1 // +1 for bottom border

	// MinWidth and MinHeight are the smallest terminal that fits the board.
	MinWidth  = boardW + 2
	MinHeight = hudHeight + boardH + 2

	borderColor = "240"
	hudColor    = "229"
)

// boardView is everything needed to draw one frame.
type boardView struct {
	grid        t2048.Grid
	stats       session.Stats
	over        bool
	autoRestart bool
	anim        *Animator
	colors      config.TUIConfig
	status      string
}

// renderBoard draws the frame onto c.
func renderBoard(c *Canvas, v boardView) {
	c.Clear()

	if c.Width() < MinWidth || c.Height() < MinHeight {
		renderTooSmall(c)
		return
	}

	boardX := (c.Width() - boardW) / 2
	boardY := hudHeight + 1

	renderHUD(c, v, boardX)
	renderGrid(c, boardX, boardY)

	switch {
	case v.anim != nil && v.anim.Phase() == PhaseSlide:
		for _, t := range v.anim.Static() {
			drawTile(c, v.colors, boardX, boardY, float64(t.Pos.Row), float64(t.Pos.Col), t.Value, false)
		}
		for _, t := range v.anim.Sliding() {
			drawTile(c, v.colors, boardX, boardY, t.Row, t.Col, t.Value, false)
		}

	case v.anim != nil && v.anim.Phase() == PhasePop:
		spawned, hasSpawn := v.anim.Spawned()
		for _, t := range v.grid.Tiles() {
			if hasSpawn && t.Pos == spawned.Pos {
				continue
			}
			drawTile(c, v.colors, boardX, boardY, float64(t.Pos.Row), float64(t.Pos.Col), t.Value, false)
		}
		if hasSpawn {
			if v.anim.Progress() < 0.5 {
				x, y := cellOrigin(boardX, boardY, float64(spawned.Pos.Row), float64(spawned.Pos.Col))
				c.Set(x+(cellWidth-1)/2, y, Cell{Rune: '·', Color: v.colors.TileColor(spawned.Value)})
			} else {
				drawTile(c, v.colors, boardX, boardY, float64(spawned.Pos.Row), float64(spawned.Pos.Col), spawned.Value, true)
			}
		}

	default:
		for _, t := range v.grid.Tiles() {
			drawTile(c, v.colors, boardX, boardY, float64(t.Pos.Row), float64(t.Pos.Col), t.Value, false)
		}
	}

	if v.over {
		hint := "Press R to restart"
		if v.autoRestart {
			hint = "Any move starts a new game"
		}
		drawOverlay(c, boardX+boardW/2, boardY+boardH/2,
			"GAME OVER", fmt.Sprintf("Max tile: %d", v.stats.MaxTile), hint)
	}
}

// renderTooSmall shows a "window too small" message.
func renderTooSmall(c *Canvas) {
	y := c.Height() / 2
	c.DrawTextCentered(y, "Window too small", "")
	c.DrawTextCentered(y+1, "Please resize terminal", "")
}

// renderHUD draws the title, stats and status line.
func renderHUD(c *Canvas, v boardView, boardX int) {
	title := "2048"
	c.DrawText(boardX+(boardW-len(title))/2, 0, title, hudColor)

	c.DrawText(boardX, 1, fmt.Sprintf("Moves: %d", v.stats.Moves), "")

	maxStr := fmt.Sprintf("Max: %d", v.stats.MaxTile)
	c.DrawText(boardX+boardW-len(maxStr), 1, maxStr, "")

	if v.status != "" {
		c.DrawText(boardX+(boardW-len(v.status))/2, 2, v.status, "245")
	}
}

// renderGrid draws the 4x4 grid borders.
func renderGrid(c *Canvas, boardX, boardY int) {
	const n = t2048.Size
	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == n:
				corner = '┐'
			case y == n && x == 0:
				corner = '└'
			case y == n && x == n:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == n:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == n:
				corner = '┤'
			default:
				corner = '┼'
			}
			c.Set(px, py, Cell{Rune: corner, Color: borderColor})

			if x < n {
				for i := 1; i < cellWidth; i++ {
					c.Set(px+i, py, Cell{Rune: '─', Color: borderColor})
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					c.Set(px, py+i, Cell{Rune: '│', Color: borderColor})
				}
			}
		}
	}
}

// cellOrigin returns the top-left interior character of a (possibly
// fractional) board position.
func cellOrigin(boardX, boardY int, row, col float64) (x, y int) {
	x = boardX + int(math.Round(col*cellWidth)) + 1
	y = boardY + int(math.Round(row*cellHeight)) + 1
	return x, y
}

// drawTile draws a value centered in its cell.
func drawTile(c *Canvas, colors config.TUIConfig, boardX, boardY int, row, col float64, value int, bold bool) {
	x, y := cellOrigin(boardX, boardY, row, col)
	valStr := strconv.Itoa(value)
	padLeft := max((cellWidth-1-len(valStr))/2, 0)

	color := colors.TileColor(value)
	for i, r := range valStr {
		c.Set(x+padLeft+i, y, Cell{Rune: r, Color: color, Bold: bold || value >= 128})
	}
}

// drawOverlay draws a centered text box.
func drawOverlay(c *Canvas, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	c.FillRect(boxX, boxY, boxW, boxH, ' ', "")
	c.DrawBox(boxX, boxY, boxW, boxH, hudColor)

	for i, line := range lines {
		c.DrawText(centerX-len(line)/2, boxY+1+i, line, hudColor)
	}
}
