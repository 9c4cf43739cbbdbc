// Package t2048 implements the rules of the 2048 sliding-tile puzzle:
// collapsing lines, applying moves to the board, spawning tiles and
// detecting when no move is left.
//
// Everything here is a pure function of its inputs except Spawn, which draws
// from an injected RandSource. Grids are values; callers commit a new Grid
// in a single assignment.
package t2048

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Size is the board dimension.
const Size = 4

// ErrInvalidValue is returned when a tile value is not a power of two >= 2.
var ErrInvalidValue = errors.New("t2048: invalid tile value")

// Position addresses a cell on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether p lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Tile is a numbered tile sitting at a position on the board.
type Tile struct {
	Value int      `json:"value"`
	Pos   Position `json:"position"`
}

// Cell is either empty or occupied by a tile.
type Cell struct {
	tile Tile
	ok   bool
}

// Empty returns an unoccupied cell.
func Empty() Cell {
	return Cell{}
}

// Occupied returns a cell holding t.
func Occupied(t Tile) Cell {
	return Cell{tile: t, ok: true}
}

// Tile returns the tile in the cell and whether the cell is occupied.
func (c Cell) Tile() (Tile, bool) {
	return c.tile, c.ok
}

// IsEmpty reports whether the cell holds no tile.
func (c Cell) IsEmpty() bool {
	return !c.ok
}

// Value returns the tile value, or 0 for an empty cell.
func (c Cell) Value() int {
	if !c.ok {
		return 0
	}
	return c.tile.Value
}

// Grid is the 4x4 board. The zero value is an empty board.
// Tile positions always match the cell they are stored in.
type Grid struct {
	cells [Size][Size]Cell
}

// NewGrid returns an empty grid.
func NewGrid() Grid {
	return Grid{}
}

// GridFromValues builds a grid from raw values, 0 meaning empty.
func GridFromValues(values [Size][Size]int) (Grid, error) {
	var g Grid
	for row := range Size {
		for col := range Size {
			v := values[row][col]
			if v == 0 {
				continue
			}
			if !ValidValue(v) {
				return Grid{}, fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidValue, v, row, col)
			}
			g.put(Position{Row: row, Col: col}, v)
		}
	}
	return g, nil
}

// ValidValue reports whether v is a legal tile value.
func ValidValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// At returns the cell at p. Out-of-bounds positions read as empty.
func (g Grid) At(p Position) Cell {
	if !p.InBounds() {
		return Empty()
	}
	return g.cells[p.Row][p.Col]
}

// Set places a tile of the given value at p, replacing whatever was there.
func (g *Grid) Set(p Position, value int) error {
	if !p.InBounds() {
		return fmt.Errorf("t2048: position (%d,%d) out of bounds", p.Row, p.Col)
	}
	if !ValidValue(value) {
		return fmt.Errorf("%w: %d", ErrInvalidValue, value)
	}
	g.put(p, value)
	return nil
}

// Clear empties the cell at p.
func (g *Grid) Clear(p Position) {
	if p.InBounds() {
		g.cells[p.Row][p.Col] = Empty()
	}
}

// put writes a tile without validation and assigns its position.
func (g *Grid) put(p Position, value int) {
	g.cells[p.Row][p.Col] = Occupied(Tile{Value: value, Pos: p})
}

// Values returns the board as raw values, 0 meaning empty.
func (g Grid) Values() [Size][Size]int {
	var out [Size][Size]int
	for row := range Size {
		for col := range Size {
			out[row][col] = g.cells[row][col].Value()
		}
	}
	return out
}

// Tiles returns all tiles in row-major order.
func (g Grid) Tiles() []Tile {
	tiles := make([]Tile, 0, Size*Size)
	for row := range Size {
		for col := range Size {
			if t, ok := g.cells[row][col].Tile(); ok {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}

// Equal reports whether both grids have the same occupancy and values.
func (g Grid) Equal(other Grid) bool {
	return g.Values() == other.Values()
}

// EmptyCells returns the positions of all empty cells in row-major order.
func EmptyCells(g Grid) []Position {
	var cells []Position
	for row := range Size {
		for col := range Size {
			if g.cells[row][col].IsEmpty() {
				cells = append(cells, Position{Row: row, Col: col})
			}
		}
	}
	return cells
}

// TileCount returns the number of occupied cells.
func TileCount(g Grid) int {
	return Size*Size - len(EmptyCells(g))
}

// MaxTile returns the highest tile value on the board, or 0 when empty.
func MaxTile(g Grid) int {
	maxVal := 0
	for row := range Size {
		for col := range Size {
			if v := g.cells[row][col].Value(); v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// Sum returns the total of all tile values.
func Sum(g Grid) int {
	total := 0
	for row := range Size {
		for col := range Size {
			total += g.cells[row][col].Value()
		}
	}
	return total
}

// String renders the board as an ASCII table.
func (g Grid) String() string {
	const sep = "+------+------+------+------+"
	var sb strings.Builder
	sb.WriteString(sep)
	sb.WriteByte('\n')
	for row := range Size {
		sb.WriteByte('|')
		for col := range Size {
			if v := g.cells[row][col].Value(); v != 0 {
				fmt.Fprintf(&sb, "%5d |", v)
			} else {
				sb.WriteString("      |")
			}
		}
		sb.WriteByte('\n')
		sb.WriteString(sep)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MarshalJSON encodes the grid as a 4x4 array of values.
func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Values())
}

// UnmarshalJSON decodes a 4x4 array of values.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var values [Size][Size]int
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	parsed, err := GridFromValues(values)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
