// Package puzzle implements the beam-carrier puzzle rules: board, carrier, beam,
// the command engine with its undo log, and win detection.
// This package is UI-agnostic and deterministic; it has no dependencies outside
// the standard library.
package puzzle

import (
	"fmt"
	"strings"
)

// Direction is one of the four cardinal orientations, in clockwise order.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// numDirections is the size of the cycle.
const numDirections = 4

// Directions lists all directions in clockwise order starting at North.
var Directions = [numDirections]Direction{North, East, South, West}

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d < numDirections
}

// RotateCW returns the next direction clockwise.
func (d Direction) RotateCW() Direction {
	return (d + 1) % numDirections
}

// RotateCCW returns the next direction counter-clockwise.
func (d Direction) RotateCCW() Direction {
	return (d + numDirections - 1) % numDirections
}

// Rotate turns one step clockwise or counter-clockwise.
func (d Direction) Rotate(clockwise bool) Direction {
	if clockwise {
		return d.RotateCW()
	}
	return d.RotateCCW()
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + 2) % numDirections
}

// Vector returns the unit offset for one step in this direction.
// North decreases Y, South increases Y (screen coordinates).
func (d Direction) Vector() Cell {
	switch d {
	case North:
		return Cell{X: 0, Y: -1}
	case East:
		return Cell{X: 1, Y: 0}
	case South:
		return Cell{X: 0, Y: 1}
	case West:
		return Cell{X: -1, Y: 0}
	default:
		panic(fmt.Sprintf("puzzle: invalid direction %d", d))
	}
}

// ParseDirection accepts full names and single-letter or arrow-style aliases,
// case-insensitively ("north", "N", "up").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n", "up", "u":
		return North, nil
	case "east", "e", "right", "r":
		return East, nil
	case "south", "s", "down", "d":
		return South, nil
	case "west", "w", "left", "l":
		return West, nil
	default:
		return North, fmt.Errorf("unknown direction %q", s)
	}
}
