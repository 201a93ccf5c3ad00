package puzzle

import "fmt"

// UndoKind tags the action an undo entry was captured before.
type UndoKind uint8

const (
	PreMove UndoKind = iota
	PreRotateCarrier
	PreRotateBeam
	PrePickup
	PreDrop
)

// String returns the string representation of an undo kind.
func (k UndoKind) String() string {
	switch k {
	case PreMove:
		return "PreMove"
	case PreRotateCarrier:
		return "PreRotateCarrier"
	case PreRotateBeam:
		return "PreRotateBeam"
	case PrePickup:
		return "PrePickup"
	case PreDrop:
		return "PreDrop"
	default:
		return "Unknown"
	}
}

// Snapshot is an immutable copy of the mutable carrier and beam fields.
type Snapshot struct {
	CarrierPos      Cell
	CarrierFacing   Direction
	Carrying        bool
	BeamRoot        Cell
	BeamOrientation Direction
}

// takeSnapshot captures the current carrier and beam fields.
func takeSnapshot(c *Carrier, b *Beam) Snapshot {
	return Snapshot{
		CarrierPos:      c.Position,
		CarrierFacing:   c.Facing,
		Carrying:        c.IsCarrying(),
		BeamRoot:        b.Root,
		BeamOrientation: b.Orientation,
	}
}

// UndoEntry is one pre-action snapshot tagged with the action kind.
type UndoEntry struct {
	Kind     UndoKind
	Snapshot Snapshot
}

// validate checks that the carrying flag agrees with the kind.
// A pickup can only follow a free beam, a drop or beam rotation only a held one.
func (e UndoEntry) validate() error {
	switch e.Kind {
	case PrePickup:
		if e.Snapshot.Carrying {
			return fmt.Errorf("puzzle: %s entry recorded while carrying", e.Kind)
		}
	case PreDrop, PreRotateBeam:
		if !e.Snapshot.Carrying {
			return fmt.Errorf("puzzle: %s entry recorded while not carrying", e.Kind)
		}
	case PreMove, PreRotateCarrier:
	default:
		return fmt.Errorf("puzzle: unknown undo kind %d", e.Kind)
	}
	return nil
}

// UndoLog is a last-in-first-out stack of undo entries. There is no redo:
// a popped entry is gone.
type UndoLog struct {
	entries []UndoEntry
	limit   int // 0 means unbounded
}

// NewUndoLog creates an undo log. When limit > 0 the oldest entries are
// discarded once the log holds limit entries.
func NewUndoLog(limit int) *UndoLog {
	if limit < 0 {
		limit = 0
	}
	return &UndoLog{
		entries: make([]UndoEntry, 0, 16),
		limit:   limit,
	}
}

// Push records an entry.
func (l *UndoLog) Push(e UndoEntry) {
	if l.limit > 0 && len(l.entries) >= l.limit {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, e)
}

// Pop removes and returns the most recent entry.
// Returns false if the log is empty.
func (l *UndoLog) Pop() (UndoEntry, bool) {
	if len(l.entries) == 0 {
		return UndoEntry{}, false
	}
	last := len(l.entries) - 1
	e := l.entries[last]
	l.entries = l.entries[:last]
	return e, true
}

// Peek returns the most recent entry without removing it.
func (l *UndoLog) Peek() (UndoEntry, bool) {
	if len(l.entries) == 0 {
		return UndoEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len returns the number of entries.
func (l *UndoLog) Len() int {
	return len(l.entries)
}

// Limit returns the capacity, or 0 if unbounded.
func (l *UndoLog) Limit() int {
	return l.limit
}

// Clear drops all entries.
func (l *UndoLog) Clear() {
	l.entries = l.entries[:0]
}
