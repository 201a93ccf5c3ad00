package puzzle

import "fmt"

// Result is the synchronous outcome of a command.
type Result uint8

const (
	// Accepted means exactly one state change was committed.
	Accepted Result = iota
	// Rejected means the command was illegal or arrived while busy; nothing changed.
	Rejected
	// NoOp means the command was legal but had nothing to act on.
	NoOp
)

// String returns the string representation of a result.
func (r Result) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case NoOp:
		return "no-op"
	default:
		return "unknown"
	}
}

// CommandKind identifies an engine operation.
type CommandKind uint8

const (
	CmdMove CommandKind = iota
	CmdRotateCarrier
	CmdRotateBeam
	CmdTogglePickup
	CmdUndo
)

// String returns the string representation of a command kind.
func (k CommandKind) String() string {
	switch k {
	case CmdMove:
		return "move"
	case CmdRotateCarrier:
		return "rotate_carrier"
	case CmdRotateBeam:
		return "rotate_beam"
	case CmdTogglePickup:
		return "toggle_pickup"
	case CmdUndo:
		return "undo"
	default:
		return "unknown"
	}
}

// Command is a value form of an engine call, used by scripts and input layers.
type Command struct {
	Kind      CommandKind
	Direction Direction // CmdMove only
	Clockwise bool      // rotations only
}

// Move returns a move command.
func Move(d Direction) Command {
	return Command{Kind: CmdMove, Direction: d}
}

// RotateCarrier returns a carrier rotation command.
func RotateCarrier(clockwise bool) Command {
	return Command{Kind: CmdRotateCarrier, Clockwise: clockwise}
}

// RotateBeam returns a beam rotation command.
func RotateBeam(clockwise bool) Command {
	return Command{Kind: CmdRotateBeam, Clockwise: clockwise}
}

// TogglePickup returns a pickup/drop command.
func TogglePickup() Command {
	return Command{Kind: CmdTogglePickup}
}

// Undo returns an undo command.
func Undo() Command {
	return Command{Kind: CmdUndo}
}

// Animated reports whether an accepted command opens a busy window.
func (c Command) Animated() bool {
	switch c.Kind {
	case CmdMove, CmdRotateCarrier, CmdRotateBeam:
		return true
	default:
		return false
	}
}

// String returns the script token for the command.
func (c Command) String() string {
	switch c.Kind {
	case CmdMove:
		return c.Direction.String()[:1]
	case CmdRotateCarrier:
		if c.Clockwise {
			return "cw"
		}
		return "ccw"
	case CmdRotateBeam:
		if c.Clockwise {
			return "bcw"
		}
		return "bccw"
	case CmdTogglePickup:
		return "p"
	case CmdUndo:
		return "u"
	default:
		return fmt.Sprintf("cmd(%d)", c.Kind)
	}
}

// EventKind identifies an engine notification.
type EventKind uint8

const (
	// EventCommand is emitted for every command with its result.
	EventCommand EventKind = iota
	// EventCompleted is emitted when a busy window closes.
	EventCompleted
	// EventWin is emitted when the win predicate signals.
	EventWin
	// EventReset is emitted when a level is (re)loaded or a snapshot restored.
	EventReset
)

// String returns the string representation of an event kind.
func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventCompleted:
		return "completed"
	case EventWin:
		return "win"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after the state change it describes.
type Event struct {
	Kind    EventKind
	Command Command // EventCommand and EventCompleted
	Result  Result  // EventCommand
	State   Snapshot
}

// Listener receives engine events. Listeners run synchronously on the caller's
// goroutine and must not issue commands from inside OnEvent.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}
