package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/girder/internal/core"
	"github.com/vovakirdan/girder/internal/platform/anim"
	"github.com/vovakirdan/girder/internal/puzzle"
)

// Each board cell is drawn as a cellW x cellH block of characters.
const (
	cellW = 4
	cellH = 2
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightWhite:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDarkGray:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// BoardSize returns the screen size needed to draw a board inside its frame.
func BoardSize(b *puzzle.Board) (w, h int) {
	return b.Width()*cellW + 2, b.Height()*cellH + 2
}

// DrawBoard draws the frame, tiles, beam, and carrier onto s. The pose comes
// from the animator, so positions and angles may sit between cells. A
// non-empty caption is printed on the top edge of the frame.
func DrawBoard(s *core.Screen, b *puzzle.Board, pose anim.Pose, bump bool, caption string) {
	s.Clear()
	frame := s.Bounds()
	s.DrawBox(frame, core.ColorDarkGray)
	if caption != "" {
		s.DrawTextCentered(frame.Y, " "+caption+" ", core.ColorGray)
	}

	area := core.NewRect(0, 0, b.Width()*cellW, b.Height()*cellH).CenterIn(frame)
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			drawTile(s, area.X+x*cellW, area.Y+y*cellH, b.Classify(puzzle.C(x, y)))
		}
	}
	drawBeam(s, area, pose)
	drawCarrier(s, area, pose, bump)
}

func drawTile(s *core.Screen, x, y int, kind puzzle.TileKind) {
	block := core.NewRect(x, y, cellW, cellH)
	switch kind {
	case puzzle.TileObstacle:
		s.DrawRect(block, '█', core.ColorGray)
	case puzzle.TileGoal:
		s.DrawRect(block, '░', core.ColorGreen)
	case puzzle.TileOpen:
		s.SetCell(x+cellW/2-1, y, '·', core.ColorDarkGray)
	}
}

// cellCenter maps fractional board coordinates to the screen position of the
// cell's center inside area.
func cellCenter(area core.Rect, bx, by float64) (float64, float64) {
	return float64(area.X) + bx*cellW + float64(cellW-1)/2,
		float64(area.Y) + by*cellH + float64(cellH-1)/2
}

// angleVector returns the unit step for an angle in quarter turns from North.
func angleVector(quarters float32) (float64, float64) {
	theta := float64(quarters) * math.Pi / 2
	return math.Sin(theta), -math.Cos(theta)
}

func roundi(f float64) int {
	return int(math.Floor(f + 0.5))
}

// drawBeam draws the beam as a line from its root, clipped to the board area
// so that a swinging beam never overwrites the frame.
func drawBeam(s *core.Screen, area core.Rect, pose anim.Pose) {
	x0, y0 := cellCenter(area, float64(pose.BeamX), float64(pose.BeamY))
	vx, vy := angleVector(pose.BeamAngle)
	dx, dy := vx*cellW, vy*cellH

	glyph := beamGlyph(vx, vy)
	color := core.ColorOrange
	if pose.Carrying {
		color = core.ColorBrightYellow
	}

	set := func(x, y int) {
		if area.Contains(x, y) {
			s.SetCell(x, y, glyph, color)
		}
	}
	steps := 2 * int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px, py := roundi(x0+dx*t), roundi(y0+dy*t)
		set(px, py)
		if glyph == '═' {
			// Widen horizontal beams to cover both center columns.
			set(px+1, py)
		}
	}
}

// beamGlyph picks the line character closest to the beam's direction on screen.
func beamGlyph(vx, vy float64) rune {
	ax, ay := math.Abs(vx), math.Abs(vy)
	switch {
	case ax > 2*ay:
		return '═'
	case ay > 2*ax:
		return '║'
	case (vx > 0) == (vy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func drawCarrier(s *core.Screen, area core.Rect, pose anim.Pose, bump bool) {
	cx, cy := cellCenter(area, float64(pose.CarrierX), float64(pose.CarrierY))
	x, y := roundi(cx-0.5), roundi(cy-0.5)
	_, facing := pose.Carrier()

	color := core.ColorBrightWhite
	if bump {
		color = core.ColorRed
	}
	s.SetCell(x-1, y, '[', color)
	s.SetCell(x, y, puzzle.CarrierGlyph(facing), color)
	s.SetCell(x+1, y, ']', color)
}
