package puzzle

import "fmt"

// Cell is a board coordinate.
// X increases to the right, Y increases downward.
type Cell struct {
	X int
	Y int
}

// C is a convenience constructor for Cell.
func C(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the component-wise sum of two cells.
func (c Cell) Add(other Cell) Cell {
	return Cell{X: c.X + other.X, Y: c.Y + other.Y}
}

// Step returns the neighbouring cell in the given direction.
func (c Cell) Step(d Direction) Cell {
	return c.Add(d.Vector())
}
