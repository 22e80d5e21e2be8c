// Package t2048 implements the 2048 sliding-tile puzzle: an N×N board,
// directional moves with single merges, random spawns and snapshot undo.
package t2048

import (
	"fmt"
	"strconv"
	"strings"
)

// Board dimension limits.
const (
	DefaultBoardSize = 4
	MinBoardSize     = 2
	MaxBoardSize     = 8
)

// Pos is a cell coordinate. X is the column, Y the row; (0, 0) is top-left.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is a read-only view of an occupied cell.
type Tile struct {
	Value int
	Pos   Pos

	engaged bool
}

// Engaged reports whether the tile already took part in a merge during the
// move in progress. Settled boards never hold engaged tiles.
func (t Tile) Engaged() bool {
	return t.engaged
}

// Grid is a raw value view of a board, indexed [y][x]. Zero means empty.
type Grid [][]int

// NewGrid returns an empty size×size grid.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for y := range g {
		g[y] = make([]int, size)
	}
	return g
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	for y := range g {
		c[y] = append([]int(nil), g[y]...)
	}
	return c
}

// Equal reports whether both grids hold the same values.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for y := range g {
		if len(g[y]) != len(other[y]) {
			return false
		}
		for x := range g[y] {
			if g[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

type cell struct {
	value   int
	engaged bool
}

// Board is a fixed N×N grid of tiles. A cell is either empty or holds
// exactly one tile.
type Board struct {
	size  int
	cells []cell // row-major, y*size+x
}

// NewBoard creates an empty board of the given dimension.
func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidSize, size, MinBoardSize, MaxBoardSize)
	}
	return &Board{
		size:  size,
		cells: make([]cell, size*size),
	}, nil
}

// NewBoardFromValues creates a board from a square grid of values.
func NewBoardFromValues(g Grid) (*Board, error) {
	b, err := NewBoard(len(g))
	if err != nil {
		return nil, err
	}
	if err := b.RestoreFromValues(g); err != nil {
		return nil, err
	}
	return b, nil
}

// Size returns the board dimension.
func (b *Board) Size() int {
	return b.size
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

func (b *Board) at(p Pos) *cell {
	return &b.cells[p.Y*b.size+p.X]
}

// CellAt returns the tile at (x, y) and whether the cell is occupied.
// Out-of-bounds coordinates read as empty.
func (b *Board) CellAt(x, y int) (Tile, bool) {
	if !b.inBounds(x, y) {
		return Tile{}, false
	}
	c := b.at(Pos{x, y})
	if c.value == 0 {
		return Tile{}, false
	}
	return Tile{Value: c.value, Pos: Pos{x, y}, engaged: c.engaged}, true
}

// PlaceTile inserts a new tile into an empty cell.
func (b *Board) PlaceTile(x, y, value int) error {
	if !b.inBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	if !validValue(value) {
		return fmt.Errorf("%w: %d", ErrInvalidValue, value)
	}
	c := b.at(Pos{x, y})
	if c.value != 0 {
		return fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, x, y)
	}
	*c = cell{value: value}
	return nil
}

// RemoveTile clears a cell. Removing an empty or out-of-bounds cell is a no-op.
func (b *Board) RemoveTile(x, y int) {
	if !b.inBounds(x, y) {
		return
	}
	*b.at(Pos{x, y}) = cell{}
}

// Clear removes every tile.
func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i] = cell{}
	}
}

// SnapshotValues returns the settled values of the board.
func (b *Board) SnapshotValues() Grid {
	g := NewGrid(b.size)
	for y := range b.size {
		for x := range b.size {
			g[y][x] = b.at(Pos{x, y}).value
		}
	}
	return g
}

// RestoreFromValues wipes all tiles and rebuilds the board from g.
// The board is left untouched if g is rejected.
func (b *Board) RestoreFromValues(g Grid) error {
	if len(g) != b.size {
		return fmt.Errorf("%w: %d rows, want %d", ErrInvalidGrid, len(g), b.size)
	}
	for y, row := range g {
		if len(row) != b.size {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, y, len(row), b.size)
		}
		for x, v := range row {
			if v != 0 && !validValue(v) {
				return fmt.Errorf("%w: %d at (%d, %d)", ErrInvalidValue, v, x, y)
			}
		}
	}

	for y, row := range g {
		for x, v := range row {
			*b.at(Pos{x, y}) = cell{value: v}
		}
	}
	return nil
}

// EmptyCells returns the positions of all empty cells in row-major order.
func (b *Board) EmptyCells() []Pos {
	var cells []Pos
	for y := range b.size {
		for x := range b.size {
			if b.at(Pos{x, y}).value == 0 {
				cells = append(cells, Pos{x, y})
			}
		}
	}
	return cells
}

// TileCount returns the number of occupied cells.
func (b *Board) TileCount() int {
	n := 0
	for _, c := range b.cells {
		if c.value != 0 {
			n++
		}
	}
	return n
}

// MaxTile returns the highest tile value on the board.
func (b *Board) MaxTile() int {
	maxVal := 0
	for _, c := range b.cells {
		if c.value > maxVal {
			maxVal = c.value
		}
	}
	return maxVal
}

// settle clears merge engagement once a move has resolved.
func (b *Board) settle() {
	for i := range b.cells {
		b.cells[i].engaged = false
	}
}

// String renders the board as rows of right-aligned values, "." for empty.
func (b *Board) String() string {
	width := len(strconv.Itoa(b.MaxTile()))
	var sb strings.Builder
	for y := range b.size {
		for x := range b.size {
			if x > 0 {
				sb.WriteByte(' ')
			}
			v := b.at(Pos{x, y}).value
			s := "."
			if v != 0 {
				s = strconv.Itoa(v)
			}
			sb.WriteString(strings.Repeat(" ", width-len(s)))
			sb.WriteString(s)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func validValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
