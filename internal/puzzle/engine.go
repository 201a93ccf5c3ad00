package puzzle

import "fmt"

// EngineState is the command lock state.
type EngineState uint8

const (
	// Idle accepts commands.
	Idle EngineState = iota
	// Busy has a move or rotation in flight; commands are rejected until Complete.
	Busy
)

// String returns the string representation of the state.
func (s EngineState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

// EngineOptions tunes behaviour left open by the rules.
type EngineOptions struct {
	UndoRequiresIdle bool      // Reject Undo while a busy window is open
	UndoLimit        int       // Max undo entries kept, 0 = unbounded
	WinSignal        WinSignal // When EventWin fires
}

// Stats counts committed commands since the last (re)load.
type Stats struct {
	Moves    int // Accepted commands other than undo
	Undos    int // Accepted undos
	Rejected int // Rejected commands
}

// Engine owns the carrier, beam, and undo log of one level and applies commands
// to them. It is not safe for concurrent use.
type Engine struct {
	board   *Board
	carrier *Carrier
	beam    *Beam
	undo    *UndoLog
	opts    EngineOptions

	state     EngineState
	inFlight  Command
	win       winTracker
	stats     Stats
	listeners []Listener
}

// NewEngine creates an engine over the given entities. The carrier and beam are
// taken over by the engine; callers must not keep mutating them.
// If held is true the beam starts attached to the carrier.
func NewEngine(board *Board, carrier *Carrier, beam *Beam, held bool, opts EngineOptions) *Engine {
	if board == nil || carrier == nil || beam == nil {
		panic("puzzle: engine requires a board, a carrier, and a beam")
	}
	e := &Engine{
		board:   board,
		carrier: carrier,
		beam:    beam,
		undo:    NewUndoLog(opts.UndoLimit),
		opts:    opts,
		win:     winTracker{mode: opts.WinSignal},
	}
	detach(carrier, beam)
	if held {
		attach(carrier, beam)
		beam.Root = carrier.Position
		beam.Orientation = carrier.Facing
	}
	return e
}

// Subscribe registers a listener for engine events.
func (e *Engine) Subscribe(l Listener) {
	if l != nil {
		e.listeners = append(e.listeners, l)
	}
}

func (e *Engine) emit(ev Event) {
	ev.State = e.Snapshot()
	for _, l := range e.listeners {
		l.OnEvent(ev)
	}
}

// Board returns the read-only board.
func (e *Engine) Board() *Board {
	return e.board
}

// State returns Idle or Busy.
func (e *Engine) State() EngineState {
	return e.state
}

// Busy reports whether a busy window is open.
func (e *Engine) Busy() bool {
	return e.state == Busy
}

// InFlight returns the command whose busy window is open.
// The second value is false when idle.
func (e *Engine) InFlight() (Command, bool) {
	return e.inFlight, e.state == Busy
}

// Snapshot returns the current carrier and beam fields.
func (e *Engine) Snapshot() Snapshot {
	return takeSnapshot(e.carrier, e.beam)
}

// CarrierPosition returns the carrier's cell.
func (e *Engine) CarrierPosition() Cell {
	return e.carrier.Position
}

// CarrierFacing returns the carrier's facing.
func (e *Engine) CarrierFacing() Direction {
	return e.carrier.Facing
}

// Carrying reports whether the carrier holds the beam.
func (e *Engine) Carrying() bool {
	return e.carrier.IsCarrying()
}

// BeamCells returns the two cells occupied by the beam, root first.
func (e *Engine) BeamCells() [2]Cell {
	return e.beam.Cells()
}

// BeamOrientation returns the beam's orientation.
func (e *Engine) BeamOrientation() Direction {
	return e.beam.Orientation
}

// UndoDepth returns the number of undoable actions.
func (e *Engine) UndoDepth() int {
	return e.undo.Len()
}

// Stats returns command counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Options returns the engine options.
func (e *Engine) Options() EngineOptions {
	return e.opts
}

// IsWin evaluates the win predicate on the current state.
func (e *Engine) IsWin() bool {
	return IsWin(e.board, e.carrier, e.beam)
}

// evaluateWin runs the win predicate and fires the win signal if due.
func (e *Engine) evaluateWin() {
	if e.win.observe(e.IsWin()) {
		e.emit(Event{Kind: EventWin})
	}
}

// Apply dispatches a command value to the matching operation.
func (e *Engine) Apply(cmd Command) Result {
	switch cmd.Kind {
	case CmdMove:
		return e.Move(cmd.Direction)
	case CmdRotateCarrier:
		return e.RotateCarrier(cmd.Clockwise)
	case CmdRotateBeam:
		return e.RotateBeam(cmd.Clockwise)
	case CmdTogglePickup:
		return e.TogglePickup()
	case CmdUndo:
		return e.Undo()
	default:
		return e.finish(cmd, Rejected)
	}
}

// finish updates counters and notifies listeners about a command outcome.
func (e *Engine) finish(cmd Command, r Result) Result {
	switch r {
	case Accepted:
		if cmd.Kind == CmdUndo {
			e.stats.Undos++
		} else {
			e.stats.Moves++
		}
	case Rejected:
		e.stats.Rejected++
	}
	e.emit(Event{Kind: EventCommand, Command: cmd, Result: r})
	return r
}

// commit records the pre-action snapshot. Must run before any mutation.
func (e *Engine) commit(kind UndoKind) {
	e.undo.Push(UndoEntry{Kind: kind, Snapshot: e.Snapshot()})
}

// beginBusy opens the busy window for an accepted animated command.
func (e *Engine) beginBusy(cmd Command) {
	e.state = Busy
	e.inFlight = cmd
}

// Move steps the carrier one cell. Facing is never changed by a move.
// A carried beam translates with the carrier and both of its new cells must be free.
func (e *Engine) Move(d Direction) Result {
	cmd := Move(d)
	if e.state != Idle || !d.Valid() {
		return e.finish(cmd, Rejected)
	}

	target := e.carrier.Position.Step(d)
	if e.board.IsBlocked(target) {
		return e.finish(cmd, Rejected)
	}
	if e.carrier.IsCarrying() {
		if !e.board.AllFree(e.beam.Root.Step(d), e.beam.End().Step(d)) {
			return e.finish(cmd, Rejected)
		}
	}

	e.commit(PreMove)
	e.carrier.Position = target
	if e.carrier.IsCarrying() {
		e.beam.Root = e.beam.Root.Step(d)
	}
	e.beginBusy(cmd)
	return e.finish(cmd, Accepted)
}

// RotateCarrier turns the carrier a quarter turn. A carried beam swings with it,
// so the cell the beam ends on after the turn must be free.
func (e *Engine) RotateCarrier(clockwise bool) Result {
	cmd := RotateCarrier(clockwise)
	if e.state != Idle {
		return e.finish(cmd, Rejected)
	}

	newFacing := e.carrier.Facing.Rotate(clockwise)
	if e.carrier.IsCarrying() && e.board.IsBlocked(e.carrier.Position.Step(newFacing)) {
		return e.finish(cmd, Rejected)
	}

	e.commit(PreRotateCarrier)
	e.carrier.Facing = newFacing
	if e.carrier.IsCarrying() {
		e.beam.Orientation = newFacing
	}
	e.beginBusy(cmd)
	return e.finish(cmd, Accepted)
}

// RotateBeam pivots a held beam about its root without turning the carrier.
// After this the beam may point away from the carrier's facing.
func (e *Engine) RotateBeam(clockwise bool) Result {
	cmd := RotateBeam(clockwise)
	if e.state != Idle || !e.carrier.IsCarrying() {
		return e.finish(cmd, Rejected)
	}

	newOrientation := e.beam.Orientation.Rotate(clockwise)
	if e.board.IsBlocked(e.beam.Root.Step(newOrientation)) {
		return e.finish(cmd, Rejected)
	}

	e.commit(PreRotateBeam)
	e.beam.Orientation = newOrientation
	e.beginBusy(cmd)
	return e.finish(cmd, Accepted)
}

// TogglePickup drops a held beam, or picks up a free one lying in front of the
// carrier or under it (front cell first). A picked-up beam snaps to the carrier's
// cell and facing. Neither action opens a busy window.
//
// The snap is not a legality-checked move, with one deliberate exception: when
// the beam lies under the carrier and the front cell is blocked, snapping would
// put the far end on that blocked cell, so the pickup is refused with NoOp.
func (e *Engine) TogglePickup() Result {
	cmd := TogglePickup()
	if e.state != Idle {
		return e.finish(cmd, Rejected)
	}

	if e.carrier.IsCarrying() {
		e.commit(PreDrop)
		detach(e.carrier, e.beam)
		r := e.finish(cmd, Accepted)
		e.evaluateWin()
		return r
	}

	if !e.pickupCandidate() {
		return e.finish(cmd, NoOp)
	}
	// The snapped far end is the front cell; it is free whenever the beam was
	// found there, but not necessarily when the beam lies under the carrier.
	if e.board.IsBlocked(e.carrier.Front()) {
		return e.finish(cmd, NoOp)
	}

	e.commit(PrePickup)
	attach(e.carrier, e.beam)
	e.beam.Root = e.carrier.Position
	e.beam.Orientation = e.carrier.Facing
	r := e.finish(cmd, Accepted)
	e.evaluateWin()
	return r
}

// pickupCandidate reports whether an unheld beam occupies the front cell or the
// carrier's own cell.
func (e *Engine) pickupCandidate() bool {
	if e.beam.IsHeld() {
		return false
	}
	for _, c := range [2]Cell{e.carrier.Front(), e.carrier.Position} {
		if e.beam.Occupies(c) {
			return true
		}
	}
	return false
}

// Undo reverts the most recent committed action. Undo itself is not recorded.
//
// While a busy window is open the most recent action is the one in flight.
// Undoing it cancels the command: the window closes without EventCompleted,
// and the win tracker counts the cancelled command's state as seen, so that
// undoing back onto a winning layout signals the win again.
func (e *Engine) Undo() Result {
	cmd := Undo()
	if e.opts.UndoRequiresIdle && e.state != Idle {
		return e.finish(cmd, Rejected)
	}

	entry, ok := e.undo.Pop()
	if !ok {
		return e.finish(cmd, NoOp)
	}
	if e.state == Busy {
		e.win.observe(e.IsWin())
		e.state = Idle
		e.inFlight = Command{}
	}
	e.restore(entry)
	r := e.finish(cmd, Accepted)
	e.evaluateWin()
	return r
}

// restore writes an undo entry back onto the carrier and beam.
func (e *Engine) restore(entry UndoEntry) {
	if err := entry.validate(); err != nil {
		panic(err)
	}

	s := entry.Snapshot
	switch entry.Kind {
	case PrePickup:
		detach(e.carrier, e.beam)
	case PreDrop:
		attach(e.carrier, e.beam)
	case PreMove, PreRotateCarrier, PreRotateBeam:
		if s.Carrying {
			attach(e.carrier, e.beam)
		} else {
			detach(e.carrier, e.beam)
		}
	}
	e.carrier.Position = s.CarrierPos
	e.carrier.Facing = s.CarrierFacing
	e.beam.Root = s.BeamRoot
	e.beam.Orientation = s.BeamOrientation
}

// Complete receives the presentation layer's "playback finished" notification.
// It closes the busy window and re-evaluates the win predicate. Returns false
// if no window was open.
func (e *Engine) Complete() bool {
	if e.state != Busy {
		return false
	}
	cmd := e.inFlight
	e.state = Idle
	e.inFlight = Command{}
	e.emit(Event{Kind: EventCompleted, Command: cmd})
	e.evaluateWin()
	return true
}

// Restore replaces the carrier and beam fields with a previously taken snapshot,
// for resuming a suspended session. The undo log, busy window, and counters are
// reset and listeners receive EventReset. The snapshot must describe a legal
// committed state.
func (e *Engine) Restore(s Snapshot) error {
	if err := ValidateSnapshot(e.board, s); err != nil {
		return err
	}
	e.undo.Clear()
	e.state = Idle
	e.inFlight = Command{}
	e.stats = Stats{}
	e.win.reset()
	e.restore(UndoEntry{Kind: PreMove, Snapshot: s})
	e.emit(Event{Kind: EventReset})
	e.evaluateWin()
	return nil
}

// ValidateSnapshot checks a snapshot against the board invariants.
func ValidateSnapshot(b *Board, s Snapshot) error {
	if !s.CarrierFacing.Valid() || !s.BeamOrientation.Valid() {
		return &ValidationError{Code: CodeBadDirection, Message: "snapshot has an invalid direction"}
	}
	if b.IsBlocked(s.CarrierPos) {
		return &ValidationError{
			Code:    CodeCarrierBlocked,
			Message: fmt.Sprintf("carrier at %v is on a blocked cell", s.CarrierPos),
		}
	}
	end := s.BeamRoot.Step(s.BeamOrientation)
	if !b.AllFree(s.BeamRoot, end) {
		return &ValidationError{
			Code:    CodeBeamBlocked,
			Message: fmt.Sprintf("beam at %v-%v overlaps a blocked cell", s.BeamRoot, end),
		}
	}
	if s.Carrying && s.BeamRoot != s.CarrierPos {
		return &ValidationError{
			Code:    CodeDetachedBeam,
			Message: fmt.Sprintf("held beam root %v is not the carrier cell %v", s.BeamRoot, s.CarrierPos),
		}
	}
	return nil
}
