package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one character of the canvas with its foreground color.
// Color is an ANSI 256 code as understood by lipgloss; empty means default.
type Cell struct {
	Rune  rune
	Color string
	Bold  bool
}

// Canvas is a 2D character buffer the board is drawn into before it is
// converted to a styled string.
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// NewCanvas creates a canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  max(width, 0),
		height: max(height, 0),
	}
	c.cells = make([][]Cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]Cell, c.width)
	}
	c.Clear()
	return c
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in characters.
func (c *Canvas) Height() int {
	return c.height
}

// Clear fills the canvas with uncolored spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Set places a cell at the given position.
// Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, cell Cell) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = cell
}

// Get returns the cell at the given position, or a space when out of bounds.
func (c *Canvas) Get(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Cell{Rune: ' '}
	}
	return c.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
func (c *Canvas) DrawText(x, y int, text, color string) {
	i := 0
	for _, r := range text {
		c.Set(x+i, y, Cell{Rune: r, Color: color})
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (c *Canvas) DrawTextCentered(y int, text, color string) {
	x := (c.width - len([]rune(text))) / 2
	c.DrawText(x, y, text, color)
}

// FillRect fills a rectangular area with the given rune.
func (c *Canvas) FillRect(x, y, w, h int, r rune, color string) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.Set(col, row, Cell{Rune: r, Color: color})
		}
	}
}

// DrawBox draws a box outline using box-drawing characters.
func (c *Canvas) DrawBox(x, y, w, h int, color string) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1

	c.Set(x, y, Cell{Rune: '┌', Color: color})
	c.Set(right, y, Cell{Rune: '┐', Color: color})
	c.Set(x, bottom, Cell{Rune: '└', Color: color})
	c.Set(right, bottom, Cell{Rune: '┘', Color: color})

	for col := x + 1; col < right; col++ {
		c.Set(col, y, Cell{Rune: '─', Color: color})
		c.Set(col, bottom, Cell{Rune: '─', Color: color})
	}
	for row := y + 1; row < bottom; row++ {
		c.Set(x, row, Cell{Rune: '│', Color: color})
		c.Set(right, row, Cell{Rune: '│', Color: color})
	}
}

// String returns the canvas as plain text, rows joined with newlines.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height + c.height)

	for y := range c.height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := range c.width {
			sb.WriteRune(c.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Render converts the canvas to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func (c *Canvas) Render() string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(c.width*c.height*2 + c.height)

	for y := range c.height {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.width {
			start := c.cells[y][x]

			var run strings.Builder
			for x < c.width {
				cell := c.cells[y][x]
				if cell.Color != start.Color || cell.Bold != start.Bold {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(cellStyle(start).Render(run.String()))
		}
	}
	return sb.String()
}

func cellStyle(c Cell) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c.Color != "" {
		style = style.Foreground(lipgloss.Color(c.Color))
	}
	if c.Bold {
		style = style.Bold(true)
	}
	return style
}
