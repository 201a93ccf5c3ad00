package puzzle

import "strings"

// Tile glyphs used by Render. These match the level map format.
const (
	GlyphOpen      = '.'
	GlyphGoal      = 'G'
	GlyphObstacle  = '#'
	GlyphOutOfPlay = '_'
)

// CarrierGlyph returns the arrow drawn for a carrier facing d.
func CarrierGlyph(d Direction) rune {
	switch d {
	case North:
		return '^'
	case East:
		return '>'
	case South:
		return 'v'
	default:
		return '<'
	}
}

// BeamGlyph returns the glyph drawn for a beam cell with the given orientation.
func BeamGlyph(d Direction) rune {
	if d == North || d == South {
		return '|'
	}
	return '='
}

// TileGlyph returns the map glyph for a tile kind.
func TileGlyph(k TileKind) rune {
	switch k {
	case TileGoal:
		return GlyphGoal
	case TileObstacle:
		return GlyphObstacle
	case TileOutOfPlay:
		return GlyphOutOfPlay
	default:
		return GlyphOpen
	}
}

// Render draws the engine state as rows of glyphs. The carrier is drawn over
// the beam, the beam over tiles.
func Render(e *Engine) string {
	b := e.Board()
	rows := make([][]rune, b.Height())
	for y := range rows {
		rows[y] = make([]rune, b.Width())
		for x := range rows[y] {
			rows[y][x] = TileGlyph(b.Classify(C(x, y)))
		}
	}

	set := func(c Cell, r rune) {
		if b.InBounds(c) {
			rows[c.Y][c.X] = r
		}
	}
	for _, c := range e.BeamCells() {
		set(c, BeamGlyph(e.BeamOrientation()))
	}
	set(e.CarrierPosition(), CarrierGlyph(e.CarrierFacing()))

	var sb strings.Builder
	sb.Grow(b.Width()*b.Height() + b.Height())
	for y, row := range rows {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}
