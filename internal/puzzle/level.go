package puzzle

import "fmt"

// ObjectKind is what a level places on top of the ground.
type ObjectKind uint8

const (
	ObjectNone ObjectKind = iota
	ObjectObstacle
	ObjectCarrierStart
	ObjectBeamStart
)

// LevelData is a parsed level: ground and object layers plus initial facings.
// Both layers are row-major with Width*Height entries.
type LevelData struct {
	ID              string
	Name            string
	Width           int
	Height          int
	Ground          []TileKind   // Open, Goal, or OutOfPlay
	Objects         []ObjectKind // ObjectNone where nothing is placed
	CarrierFacing   Direction
	BeamOrientation Direction
	BeamHeld        bool // Beam starts in the carrier's hands
}

// cellAt converts a flat index into a cell.
func (l *LevelData) cellAt(i int) Cell {
	return C(i%l.Width, i/l.Width)
}

// tiles merges the object layer's obstacles into the ground layer.
func (l *LevelData) tiles() []TileKind {
	tiles := make([]TileKind, len(l.Ground))
	copy(tiles, l.Ground)
	for i, obj := range l.Objects {
		if obj == ObjectObstacle {
			tiles[i] = TileObstacle
		}
	}
	return tiles
}

// starts finds the single carrier and beam start cells.
func (l *LevelData) starts() (carrier, beam Cell, err error) {
	carriers, beams := 0, 0
	for i, obj := range l.Objects {
		switch obj {
		case ObjectCarrierStart:
			carriers++
			carrier = l.cellAt(i)
		case ObjectBeamStart:
			beams++
			beam = l.cellAt(i)
		}
	}
	if carriers != 1 {
		return carrier, beam, &ValidationError{
			Code:    CodeCarrierCount,
			Message: fmt.Sprintf("level needs exactly one carrier start, found %d", carriers),
		}
	}
	if l.BeamHeld {
		if beams > 0 {
			return carrier, beam, &ValidationError{
				Code:    CodeBeamCount,
				Message: fmt.Sprintf("held beam level must not place a beam start, found %d", beams),
			}
		}
		return carrier, carrier, nil
	}
	if beams != 1 {
		return carrier, beam, &ValidationError{
			Code:    CodeBeamCount,
			Message: fmt.Sprintf("level needs exactly one beam start, found %d", beams),
		}
	}
	return carrier, beam, nil
}

// Validate checks the level against the board invariants.
func (l *LevelData) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return &ValidationError{
			Code:    CodeBadSize,
			Message: fmt.Sprintf("level size must be positive, got %dx%d", l.Width, l.Height),
		}
	}
	n := l.Width * l.Height
	if len(l.Ground) != n || len(l.Objects) != n {
		return &ValidationError{
			Code:    CodeTileCount,
			Message: fmt.Sprintf("level %dx%d needs %d cells per layer, got ground=%d objects=%d", l.Width, l.Height, n, len(l.Ground), len(l.Objects)),
		}
	}
	for i, g := range l.Ground {
		if g == TileObstacle || g > TileOutOfPlay {
			return &ValidationError{
				Code:    CodeBadGround,
				Message: fmt.Sprintf("ground at %v must be open, goal, or out of play, got %v", l.cellAt(i), g),
			}
		}
	}
	if !l.CarrierFacing.Valid() || !l.BeamOrientation.Valid() {
		return &ValidationError{Code: CodeBadDirection, Message: "level has an invalid facing or orientation"}
	}

	carrierAt, beamAt, err := l.starts()
	if err != nil {
		return err
	}
	orientation := l.BeamOrientation
	if l.BeamHeld {
		orientation = l.CarrierFacing
	}
	board := NewBoard(l.Width, l.Height, l.tiles())
	return ValidateSnapshot(board, Snapshot{
		CarrierPos:      carrierAt,
		CarrierFacing:   l.CarrierFacing,
		Carrying:        l.BeamHeld,
		BeamRoot:        beamAt,
		BeamOrientation: orientation,
	})
}

// Build validates the level and constructs a fresh board, carrier, and beam.
func (l *LevelData) Build() (*Board, *Carrier, *Beam, error) {
	if err := l.Validate(); err != nil {
		return nil, nil, nil, err
	}
	carrierAt, beamAt, err := l.starts()
	if err != nil {
		return nil, nil, nil, err
	}
	board := NewBoard(l.Width, l.Height, l.tiles())
	carrier := &Carrier{Position: carrierAt, Facing: l.CarrierFacing}
	beam := &Beam{Root: beamAt, Orientation: l.BeamOrientation}
	return board, carrier, beam, nil
}
