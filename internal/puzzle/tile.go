package puzzle

// TileKind classifies a board cell.
type TileKind uint8

const (
	TileOpen TileKind = iota
	TileGoal
	TileObstacle
	TileOutOfPlay
)

// String returns the string representation of a tile kind.
func (k TileKind) String() string {
	switch k {
	case TileOpen:
		return "Open"
	case TileGoal:
		return "Goal"
	case TileObstacle:
		return "Obstacle"
	case TileOutOfPlay:
		return "OutOfPlay"
	default:
		return "Unknown"
	}
}

// Passable reports whether the carrier or a beam end may occupy the tile.
func (k TileKind) Passable() bool {
	return k == TileOpen || k == TileGoal
}
