// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/girder/internal/puzzle"
	"gopkg.in/yaml.v3"
)

// Map glyphs that place objects. Tile glyphs are shared with puzzle.Render.
const (
	GlyphCarrier       = 'C' // carrier start on open ground
	GlyphCarrierOnGoal = 'c' // carrier start on a goal
	GlyphBeam          = 'B' // beam root on open ground
	GlyphBeamOnGoal    = 'b' // beam root on a goal
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Par      int               `yaml:"par,omitempty"`
	Facing   string            `yaml:"facing,omitempty"` // carrier facing, default east
	Beam     string            `yaml:"beam,omitempty"`   // beam orientation, default east
	Held     bool              `yaml:"held,omitempty"`   // beam starts in the carrier's hands
	Map      string            `yaml:"map"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// Level represents a parsed level ready for use.
type Level struct {
	ID       string
	Name     string
	Par      int // Suggested move count, 0 if unset
	Data     puzzle.LevelData
	Metadata map[string]string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, fmt.Errorf("level has no id")
	}

	facing, err := parseDirectionOr(yl.Facing, puzzle.East)
	if err != nil {
		return Level{}, fmt.Errorf("facing: %w", err)
	}
	orientation, err := parseDirectionOr(yl.Beam, puzzle.East)
	if err != nil {
		return Level{}, fmt.Errorf("beam: %w", err)
	}

	ld, err := ParseMap(yl.Map)
	if err != nil {
		return Level{}, err
	}
	ld.ID = yl.ID
	ld.Name = yl.Name
	ld.CarrierFacing = facing
	ld.BeamOrientation = orientation
	ld.BeamHeld = yl.Held

	if err := ld.Validate(); err != nil {
		return Level{}, fmt.Errorf("level %s: %w", yl.ID, err)
	}

	name := yl.Name
	if name == "" {
		name = yl.ID
	}
	return Level{
		ID:       yl.ID,
		Name:     name,
		Par:      yl.Par,
		Data:     ld,
		Metadata: yl.Metadata,
	}, nil
}

// ParseMap converts an ASCII map into ground and object layers.
// Blank lines are ignored; all remaining rows must have the same width.
func ParseMap(src string) (puzzle.LevelData, error) {
	var rows []string
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return puzzle.LevelData{}, fmt.Errorf("map is empty")
	}

	width := len(rows[0])
	ld := puzzle.LevelData{
		Width:   width,
		Height:  len(rows),
		Ground:  make([]puzzle.TileKind, 0, width*len(rows)),
		Objects: make([]puzzle.ObjectKind, 0, width*len(rows)),
	}
	for y, row := range rows {
		if len(row) != width {
			return puzzle.LevelData{}, fmt.Errorf("map row %d has width %d, want %d", y+1, len(row), width)
		}
		for x, r := range row {
			ground, obj, ok := parseGlyph(r)
			if !ok {
				return puzzle.LevelData{}, fmt.Errorf("map row %d col %d: unknown glyph %q", y+1, x+1, r)
			}
			ld.Ground = append(ld.Ground, ground)
			ld.Objects = append(ld.Objects, obj)
		}
	}
	return ld, nil
}

func parseGlyph(r rune) (puzzle.TileKind, puzzle.ObjectKind, bool) {
	switch r {
	case puzzle.GlyphOpen:
		return puzzle.TileOpen, puzzle.ObjectNone, true
	case puzzle.GlyphGoal:
		return puzzle.TileGoal, puzzle.ObjectNone, true
	case puzzle.GlyphOutOfPlay:
		return puzzle.TileOutOfPlay, puzzle.ObjectNone, true
	case puzzle.GlyphObstacle:
		return puzzle.TileOpen, puzzle.ObjectObstacle, true
	case GlyphCarrier:
		return puzzle.TileOpen, puzzle.ObjectCarrierStart, true
	case GlyphCarrierOnGoal:
		return puzzle.TileGoal, puzzle.ObjectCarrierStart, true
	case GlyphBeam:
		return puzzle.TileOpen, puzzle.ObjectBeamStart, true
	case GlyphBeamOnGoal:
		return puzzle.TileGoal, puzzle.ObjectBeamStart, true
	default:
		return 0, 0, false
	}
}

func parseDirectionOr(s string, def puzzle.Direction) (puzzle.Direction, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return puzzle.ParseDirection(s)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
