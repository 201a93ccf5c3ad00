package core

import "github.com/vovakirdan/girder/internal/puzzle"

// Action represents a semantic player intent, abstracted from physical key presses.
type Action int

const (
	ActionNone Action = iota
	ActionNorth
	ActionEast
	ActionSouth
	ActionWest
	ActionRotateCW
	ActionRotateCCW
	ActionBeamCW
	ActionBeamCCW
	ActionPickup
	ActionUndo
	ActionRestart
	ActionSkip    // Finish the running animation immediately
	ActionNext    // Advance to the next level after a win
	ActionSuspend // Save the session and leave the level
	ActionBack
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionNorth:     "North",
	ActionEast:      "East",
	ActionSouth:     "South",
	ActionWest:      "West",
	ActionRotateCW:  "RotateCW",
	ActionRotateCCW: "RotateCCW",
	ActionBeamCW:    "BeamCW",
	ActionBeamCCW:   "BeamCCW",
	ActionPickup:    "Pickup",
	ActionUndo:      "Undo",
	ActionRestart:   "Restart",
	ActionSkip:      "Skip",
	ActionNext:      "Next",
	ActionSuspend:   "Suspend",
	ActionBack:      "Back",
	ActionQuit:      "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// Command converts a gameplay action into an engine command.
// The second result is false for actions the host handles itself.
func (a Action) Command() (puzzle.Command, bool) {
	switch a {
	case ActionNorth:
		return puzzle.Move(puzzle.North), true
	case ActionEast:
		return puzzle.Move(puzzle.East), true
	case ActionSouth:
		return puzzle.Move(puzzle.South), true
	case ActionWest:
		return puzzle.Move(puzzle.West), true
	case ActionRotateCW:
		return puzzle.RotateCarrier(true), true
	case ActionRotateCCW:
		return puzzle.RotateCarrier(false), true
	case ActionBeamCW:
		return puzzle.RotateBeam(true), true
	case ActionBeamCCW:
		return puzzle.RotateBeam(false), true
	case ActionPickup:
		return puzzle.TogglePickup(), true
	case ActionUndo:
		return puzzle.Undo(), true
	default:
		return puzzle.Command{}, false
	}
}
