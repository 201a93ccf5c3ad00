package puzzle

import "fmt"

// Board is the static per-level grid of tile classifications.
// Cells are stored in row-major order: index = y*width + x.
// A Board is never modified after construction.
type Board struct {
	width  int
	height int
	tiles  []TileKind
}

// NewBoard creates a board from a row-major tile slice.
// Non-positive dimensions or a tile slice of the wrong length are programming
// errors and panic.
func NewBoard(width, height int, tiles []TileKind) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("puzzle: board dimensions must be positive, got %dx%d", width, height))
	}
	if len(tiles) != width*height {
		panic(fmt.Sprintf("puzzle: board %dx%d needs %d tiles, got %d", width, height, width*height, len(tiles)))
	}
	owned := make([]TileKind, len(tiles))
	copy(owned, tiles)
	return &Board{
		width:  width,
		height: height,
		tiles:  owned,
	}
}

// NewOpenBoard creates a board whose tiles are all open.
func NewOpenBoard(width, height int) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("puzzle: board dimensions must be positive, got %dx%d", width, height))
	}
	return NewBoard(width, height, make([]TileKind, width*height))
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

// index converts a cell to a flat array index.
func (b *Board) index(c Cell) int {
	return c.Y*b.width + c.X
}

// InBounds returns true if the cell is within the board.
func (b *Board) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.height
}

// Classify returns the tile kind at c.
// Cells outside the board classify as TileOutOfPlay.
func (b *Board) Classify(c Cell) TileKind {
	if !b.InBounds(c) {
		return TileOutOfPlay
	}
	return b.tiles[b.index(c)]
}

// IsBlocked returns true if c is out of bounds, an obstacle, or out of play.
func (b *Board) IsBlocked(c Cell) bool {
	return !b.Classify(c).Passable()
}

// AllFree returns true if none of the cells is blocked.
func (b *Board) AllFree(cells ...Cell) bool {
	for _, c := range cells {
		if b.IsBlocked(c) {
			return false
		}
	}
	return true
}

// Tiles returns a copy of the row-major tile slice.
func (b *Board) Tiles() []TileKind {
	out := make([]TileKind, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// Goals returns all goal cells, ordered by row then column.
func (b *Board) Goals() []Cell {
	goals := make([]Cell, 0)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := C(x, y)
			if b.Classify(c) == TileGoal {
				goals = append(goals, c)
			}
		}
	}
	return goals
}
