package puzzle

// IsWin reports whether the carrier is holding the beam while standing on a goal.
// It never mutates its arguments.
func IsWin(board *Board, carrier *Carrier, beam *Beam) bool {
	if board == nil || carrier == nil || beam == nil {
		return false
	}
	return beam.Holder() == carrier && board.Classify(carrier.Position) == TileGoal
}

// WinSignal selects when the win event fires.
type WinSignal uint8

const (
	// WinSignalEdge fires once per transition from not-winning to winning.
	WinSignalEdge WinSignal = iota
	// WinSignalLevel fires on every evaluation that finds a winning state.
	WinSignalLevel
)

// String returns the config name of the signal mode.
func (w WinSignal) String() string {
	switch w {
	case WinSignalEdge:
		return "edge"
	case WinSignalLevel:
		return "level"
	default:
		return "unknown"
	}
}

// winTracker turns evaluations into win signals.
type winTracker struct {
	mode    WinSignal
	winning bool
}

// observe records an evaluation and reports whether the signal should fire.
func (w *winTracker) observe(win bool) bool {
	prev := w.winning
	w.winning = win
	if !win {
		return false
	}
	if w.mode == WinSignalLevel {
		return true
	}
	return !prev
}

func (w *winTracker) reset() {
	w.winning = false
}
