package puzzle

import "testing"

// newTestEngine builds an engine from map rows with a free or held beam.
func newTestEngine(t *testing.T, rows []string, carrier Carrier, beam Beam, held bool) *Engine {
	t.Helper()
	c := carrier
	b := beam
	return NewEngine(boardFromRows(t, rows...), &c, &b, held, EngineOptions{})
}

// recorder collects engine events.
type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// apply runs a command and closes any busy window it opened.
func apply(e *Engine, cmd Command) Result {
	r := e.Apply(cmd)
	e.Complete()
	return r
}

// checkAttachment verifies the rigid attachment invariant. Orientation is only
// checked when alignedOrientation is true (it may diverge after RotateBeam).
func checkAttachment(t *testing.T, e *Engine, alignedOrientation bool) {
	t.Helper()
	s := e.Snapshot()
	if !s.Carrying {
		return
	}
	if e.beam.Holder() != e.carrier || e.carrier.Carrying() != e.beam {
		t.Fatalf("carrier and beam references disagree")
	}
	if s.BeamRoot != s.CarrierPos {
		t.Errorf("held beam root = %v, want carrier position %v", s.BeamRoot, s.CarrierPos)
	}
	if alignedOrientation && s.BeamOrientation != s.CarrierFacing {
		t.Errorf("held beam orientation = %v, want carrier facing %v", s.BeamOrientation, s.CarrierFacing)
	}
}

func TestScenarioThreeByOne(t *testing.T) {
	e := newTestEngine(t,
		[]string{"..G"},
		Carrier{Position: C(0, 0), Facing: East},
		Beam{Root: C(1, 0), Orientation: East},
		false,
	)

	if r := e.TogglePickup(); r != Accepted {
		t.Fatalf("TogglePickup() = %v, want accepted", r)
	}
	if e.Busy() {
		t.Error("pickup should not open a busy window")
	}
	s := e.Snapshot()
	if !s.Carrying || s.BeamRoot != C(0, 0) || s.BeamOrientation != East {
		t.Fatalf("after pickup got %+v, want beam held at (0,0) facing East", s)
	}
	checkAttachment(t, e, true)

	if r := e.Move(East); r != Accepted {
		t.Fatalf("Move(East) = %v, want accepted", r)
	}
	if !e.Busy() {
		t.Error("move should open a busy window")
	}
	e.Complete()
	s = e.Snapshot()
	if s.CarrierPos != C(1, 0) || s.BeamRoot != C(1, 0) {
		t.Fatalf("after move got carrier %v beam %v, want both at (1,0)", s.CarrierPos, s.BeamRoot)
	}
	if cells := e.BeamCells(); cells != [2]Cell{C(1, 0), C(2, 0)} {
		t.Errorf("BeamCells() = %v, want [(1,0) (2,0)]", cells)
	}

	before := e.Snapshot()
	depth := e.UndoDepth()
	if r := e.Move(East); r != Rejected {
		t.Errorf("Move(East) with beam leaving the board = %v, want rejected", r)
	}
	if r := e.RotateBeam(true); r != Rejected {
		t.Errorf("RotateBeam(cw) off the board = %v, want rejected", r)
	}
	if e.Snapshot() != before || e.UndoDepth() != depth {
		t.Error("rejected commands must not change state or undo depth")
	}
	if e.Busy() {
		t.Error("rejected commands must not open a busy window")
	}
}

func TestMoveKeepsFacing(t *testing.T) {
	e := newTestEngine(t,
		[]string{
			"...",
			"...",
			"...",
		},
		Carrier{Position: C(1, 1), Facing: North},
		Beam{Root: C(0, 0), Orientation: East},
		false,
	)

	for _, d := range Directions {
		start := e.CarrierPosition()
		if r := apply(e, Move(d)); r != Accepted {
			t.Fatalf("Move(%v) = %v, want accepted", d, r)
		}
		if got := e.CarrierPosition(); got != start.Add(d.Vector()) {
			t.Errorf("Move(%v) position = %v, want %v", d, got, start.Add(d.Vector()))
		}
		if e.CarrierFacing() != North {
			t.Errorf("Move(%v) changed facing to %v", d, e.CarrierFacing())
		}
	}
}

func TestMoveRejectedOnBlockedTarget(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		start Cell
		dir   Direction
	}{
		{"obstacle", []string{"..#"}, C(1, 0), East},
		{"out of play", []string{".._"}, C(1, 0), East},
		{"edge", []string{".."}, C(0, 0), West},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, tc.rows,
				Carrier{Position: tc.start, Facing: North},
				Beam{Root: C(0, 0), Orientation: East},
				false,
			)
			before := e.Snapshot()
			if r := e.Move(tc.dir); r != Rejected {
				t.Errorf("Move(%v) = %v, want rejected", tc.dir, r)
			}
			if e.Snapshot() != before || e.UndoDepth() != 0 || e.Busy() {
				t.Error("rejected move must not mutate anything")
			}
		})
	}
}

func TestMoveOntoFreeBeamIsAllowed(t *testing.T) {
	e := newTestEngine(t,
		[]string{"...."},
		Carrier{Position: C(0, 0), Facing: East},
		Beam{Root: C(1, 0), Orientation: East},
		false,
	)
	if r := apply(e, Move(East)); r != Accepted {
		t.Errorf("Move onto a resting beam = %v, want accepted", r)
	}
	if e.BeamCells() != [2]Cell{C(1, 0), C(2, 0)} {
		t.Error("walking over a free beam must not move it")
	}
}

func TestCarriedMoveChecksBothBeamCells(t *testing.T) {
	// Carrier at (1,1) facing North holds a beam ending at (1,0).
	// Moving West: carrier target (0,1) is open but the beam end would hit (0,0).
	e := newTestEngine(t,
		[]string{
			"#..",
			"...",
		},
		Carrier{Position: C(1, 1), Facing: North},
		Beam{},
		true,
	)
	checkAttachment(t, e, true)

	if r := e.Move(West); r != Rejected {
		t.Errorf("Move(West) sweeping beam into obstacle = %v, want rejected", r)
	}
	if r := apply(e, Move(East)); r != Accepted {
		t.Fatalf("Move(East) = %v, want accepted", r)
	}
	if e.BeamCells() != [2]Cell{C(2, 1), C(2, 0)} {
		t.Errorf("BeamCells() = %v, want [(2,1) (2,0)]", e.BeamCells())
	}
	checkAttachment(t, e, true)
}

func TestRotateCarrierCycle(t *testing.T) {
	e := newTestEngine(t,
		[]string{
			"...",
			"...",
			"...",
		},
		Carrier{Position: C(1, 1), Facing: North},
		Beam{},
		true,
	)

	for i := 0; i < 4; i++ {
		before := e.CarrierFacing()
		if r := apply(e, RotateCarrier(true)); r != Accepted {
			t.Fatalf("RotateCarrier(cw) #%d = %v, want accepted", i+1, r)
		}
		checkAttachment(t, e, true)

		// Each step is reversed by one counter-clockwise turn.
		if r := apply(e, RotateCarrier(false)); r != Accepted {
			t.Fatalf("RotateCarrier(ccw) = %v, want accepted", r)
		}
		if e.CarrierFacing() != before {
			t.Errorf("cw then ccw facing = %v, want %v", e.CarrierFacing(), before)
		}
		apply(e, RotateCarrier(true))
	}
	if e.CarrierFacing() != North {
		t.Errorf("four clockwise turns ended facing %v, want North", e.CarrierFacing())
	}
}

func TestRotateCarrierBlockedWhileCarrying(t *testing.T) {
	e := newTestEngine(t,
		[]string{
			".#.",
			"...",
		},
		Carrier{Position: C(1, 1), Facing: East},
		Beam{},
		true,
	)

	// Counter-clockwise from East is North: (1,0) is an obstacle.
	if r := e.RotateCarrier(false); r != Rejected {
		t.Errorf("RotateCarrier(ccw) into obstacle = %v, want rejected", r)
	}
	// Clockwise from East is South: (1,2) is off the board.
	if r := e.RotateCarrier(true); r != Rejected {
		t.Errorf("RotateCarrier(cw) off the board = %v, want rejected", r)
	}
	if e.UndoDepth() != 0 || e.CarrierFacing() != East {
		t.Error("rejected rotations must not mutate anything")
	}

	// Without a beam the same turns are free.
	apply(e, TogglePickup())
	if r := apply(e, RotateCarrier(false)); r != Accepted {
		t.Errorf("RotateCarrier(ccw) without beam = %v, want accepted", r)
	}
}

func TestRotateBeamDivergesFromFacing(t *testing.T) {
	e := newTestEngine(t,
		[]string{
			"...",
			"...",
			"...",
		},
		Carrier{Position: C(0, 0), Facing: East},
		Beam{},
		true,
	)

	if r := apply(e, RotateBeam(true)); r != Accepted {
		t.Fatalf("RotateBeam(cw) = %v, want accepted", r)
	}
	if e.BeamOrientation() != South || e.CarrierFacing() != East {
		t.Fatalf("after RotateBeam got beam %v carrier %v, want South/East", e.BeamOrientation(), e.CarrierFacing())
	}
	checkAttachment(t, e, false)

	// The diverged beam translates with the carrier and keeps its orientation.
	if r := apply(e, Move(East)); r != Accepted {
		t.Fatalf("Move(East) = %v, want accepted", r)
	}
	if e.BeamCells() != [2]Cell{C(1, 0), C(1, 1)} {
		t.Errorf("BeamCells() = %v, want [(1,0) (1,1)]", e.BeamCells())
	}
	checkAttachment(t, e, false)

	// Turning the carrier realigns the beam with the new facing.
	if r := apply(e, RotateCarrier(true)); r != Accepted {
		t.Fatalf("RotateCarrier(cw) = %v, want accepted", r)
	}
	if e.BeamOrientation() != South || e.CarrierFacing() != South {
		t.Errorf("after RotateCarrier got beam %v carrier %v, want South/South", e.BeamOrientation(), e.CarrierFacing())
	}
	checkAttachment(t, e, true)
}

func TestRotateBeamRequiresCarrying(t *testing.T) {
	e := newTestEngine(t,
		[]string{"..."},
		Carrier{Position: C(0, 0), Facing: East},
		Beam{Root: C(1, 0), Orientation: East},
		false,
	)
	if r := e.RotateBeam(true); r != Rejected {
		t.Errorf("RotateBeam without beam = %v, want rejected", r)
	}
}

func TestBusyRejectsCommands(t *testing.T) {
	e := newTestEngine(t,
		[]string{"...."},
		Carrier{Position: C(0, 0), Facing: East},
		Beam{Root: C(2, 0), Orientation: East},
		false,
	)

	if r := e.Move(East); r != Accepted {
		t.Fatalf("Move(East) = %v, want accepted", r)
	}
	if cmd, ok := e.InFlight(); !ok || cmd != Move(East) {
		t.Errorf("InFlight() = %v, %v, want move East in flight", cmd, ok)
	}

	before := e.Snapshot()
	depth := e.UndoDepth()
	for _, cmd := range []Command{Move(East), RotateCarrier(true), RotateBeam(true), TogglePickup()} {
		if r := e.Apply(cmd); r != Rejected {
			t.Errorf("%v while busy = %v, want rejected", cmd, r)
		}
	}
	if e.Snapshot() != before || e.UndoDepth() != depth {
		t.Error("commands while busy must not mutate anything")
	}
	if e.Stats().Rejected != 4 {
		t.Errorf("Stats().Rejected = %d, want 4", e.Stats().Rejected)
	}

	if !e.Complete() {
		t.Fatal("Complete() while busy should return true")
	}
	if e.Complete() {
		t.Error("Complete() while idle should return false")
	}
	if r := e.Move(East); r != Accepted {
		t.Errorf("Move after completion = %v, want accepted", r)
	}
}

func TestUndoWhileBusy(t *testing.T) {
	rows := []string{"...."}
	carrier := Carrier{Position: C(0, 0), Facing: East}
	beam := Beam{Root: C(2, 0), Orientation: East}

	e := newTestEngine(t, rows, carrier, beam, false)
	e.Move(East)
	if r := e.Undo(); r != Accepted {
		t.Errorf("Undo while busy (default) = %v, want accepted", r)
	}
	if e.CarrierPosition() != C(0, 0) {
		t.Errorf("undo restored position %v, want (0,0)", e.CarrierPosition())
	}

	if e.Busy() {
		t.Error("undoing the move in flight should close the busy window")
	}
	if _, ok := e.InFlight(); ok {
		t.Error("InFlight() should report nothing after the move was undone")
	}

	c, b := carrier, beam
	gated := NewEngine(boardFromRows(t, rows...), &c, &b, false, EngineOptions{UndoRequiresIdle: true})
	gated.Move(East)
	if r := gated.Undo(); r != Rejected {
		t.Errorf("Undo while busy (gated) = %v, want rejected", r)
	}
	gated.Complete()
	if r := gated.Undo(); r != Accepted {
		t.Errorf("Undo after completion (gated) = %v, want accepted", r)
	}
}

func TestUndoCancelsInFlightCommand(t *testing.T) {
	e := newTestEngine(t,
		[]string{"G..."},
		Carrier{Position: C(0, 0), Facing: East},
		Beam{},
		true,
	)
	rec := &recorder{}
	e.Subscribe(rec)
	e.evaluateWin()
	if rec.count(EventWin) != 1 {
		t.Fatalf("win fired %d times on the starting layout, want 1", rec.count(EventWin))
	}

	if r := e.Move(East); r != Accepted {
		t.Fatalf("Move(East) = %v, want accepted", r)
	}
	if r := e.Undo(); r != Accepted {
		t.Fatalf("Undo() = %v, want accepted", r)
	}
	if e.Busy() {
		t.Error("Busy() = true after the move in flight was undone")
	}
	if e.Complete() {
		t.Error("Complete() = true, want no window left to close")
	}
	if n := rec.count(EventCompleted); n != 0 {
		t.Errorf("EventCompleted fired %d times for an undone move, want 0", n)
	}
	if n := rec.count(EventWin); n != 2 {
		t.Errorf("win fired %d times, want 2 after undoing back onto the goal", n)
	}
	if e.CarrierPosition() != C(0, 0) || !e.Carrying() {
		t.Errorf("after undo carrier at %v carrying %v, want (0,0) carrying", e.CarrierPosition(), e.Carrying())
	}

	// The engine accepts new commands straight away.
	if r := e.Move(East); r != Accepted {
		t.Errorf("Move(East) after the undo = %v, want accepted", r)
	}
}

func TestPickupSearchOrder(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		carrier  Carrier
		beam     Beam
		want     Result
		wantRoot Cell
	}{
		{
			name:     "beam root in front",
			rows:     []string{"...."},
			carrier:  Carrier{Position: C(0, 0), Facing: East},
			beam:     Beam{Root: C(1, 0), Orientation: East},
			want:     Accepted,
			wantRoot: C(0, 0),
		},
		{
			name:     "beam end in front",
			rows:     []string{"...", "...", "..."},
			carrier:  Carrier{Position: C(1, 1), Facing: North},
			beam:     Beam{Root: C(0, 0), Orientation: East},
			want:     Accepted,
			wantRoot: C(1, 1),
		},
		{
			name:     "beam under carrier",
			rows:     []string{"...."},
			carrier:  Carrier{Position: C(1, 0), Facing: East},
			beam:     Beam{Root: C(0, 0), Orientation: East},
			want:     Accepted,
			wantRoot: C(1, 0),
		},
		{
			name:     "beam under carrier facing wall",
			rows:     []string{"..#"},
			carrier:  Carrier{Position: C(1, 0), Facing: East},
			beam:     Beam{Root: C(0, 0), Orientation: East},
			want:     NoOp,
			wantRoot: C(0, 0),
		},
		{
			name:     "beam out of reach",
			rows:     []string{"....."},
			carrier:  Carrier{Position: C(0, 0), Facing: East},
			beam:     Beam{Root: C(3, 0), Orientation: East},
			want:     NoOp,
			wantRoot: C(3, 0),
		},
		{
			name:     "beam behind carrier",
			rows:     []string{"...."},
			carrier:  Carrier{Position: C(2, 0), Facing: East},
			beam:     Beam{Root: C(0, 0), Orientation: East},
			want:     NoOp,
			wantRoot: C(0, 0),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, tc.rows, tc.carrier, tc.beam, false)
			if r := e.TogglePickup(); r != tc.want {
				t.Fatalf("TogglePickup() = %v, want %v", r, tc.want)
			}
			s := e.Snapshot()
			if s.BeamRoot != tc.wantRoot {
				t.Errorf("beam root = %v, want %v", s.BeamRoot, tc.wantRoot)
			}
			if tc.want == Accepted {
				if s.BeamOrientation != tc.carrier.Facing {
					t.Errorf("beam orientation = %v, want carrier facing %v", s.BeamOrientation, tc.carrier.Facing)
				}
				checkAttachment(t, e, true)
				if e.UndoDepth() != 1 {
					t.Errorf("UndoDepth() = %d, want 1", e.UndoDepth())
				}
			} else if e.UndoDepth() != 0 || s.Carrying {
				t.Error("a missed pickup must not mutate anything")
			}
		})
	}
}

func TestDropLeavesBeamInPlace(t *testing.T) {
	e := newTestEngine(t,
		[]string{"...."},
		Carrier{Position: C(1, 0), Facing: East},
		Beam{},
		true,
	)
	if r := e.TogglePickup(); r != Accepted {
		t.Fatalf("drop = %v, want accepted", r)
	}
	s := e.Snapshot()
	if s.Carrying || e.beam.IsHeld() {
		t.Error("beam should be free after drop")
	}
	if s.BeamRoot != C(1, 0) || s.BeamOrientation != East {
		t.Errorf("dropped beam at %v/%v, want (1,0)/East", s.BeamRoot, s.BeamOrientation)
	}
	if r := apply(e, Move(East)); r != Accepted {
		t.Errorf("move after drop = %v, want accepted", r)
	}
	if e.BeamCells() != [2]Cell{C(1, 0), C(2, 0)} {
		t.Error("dropped beam should stay put when the carrier moves")
	}
}

func TestEventsReportCommandsAndCompletion(t *testing.T) {
	e := newTestEngine(t,
		[]string{"...."},
		Carrier{Position: C(0, 0), Facing: East},
		Beam{Root: C(1, 0), Orientation: East},
		false,
	)
	rec := &recorder{}
	e.Subscribe(rec)

	e.Move(West)
	e.Move(East)
	e.Complete()

	if len(rec.events) != 3 {
		t.Fatalf("got %d events, want 3", len(rec.events))
	}
	if rec.events[0].Kind != EventCommand || rec.events[0].Result != Rejected {
		t.Errorf("event 0 = %+v, want rejected command", rec.events[0])
	}
	if rec.events[1].Result != Accepted || rec.events[1].State.CarrierPos != C(1, 0) {
		t.Errorf("event 1 = %+v, want accepted command with committed state", rec.events[1])
	}
	if rec.events[2].Kind != EventCompleted || rec.events[2].Command != Move(East) {
		t.Errorf("event 2 = %+v, want completion of move East", rec.events[2])
	}
}

func TestRestoreValidatesSnapshot(t *testing.T) {
	e := newTestEngine(t,
		[]string{"..#"},
		Carrier{Position: C(0, 0), Facing: East},
		Beam{Root: C(0, 0), Orientation: East},
		false,
	)
	apply(e, TogglePickup())

	bad := []Snapshot{
		{CarrierPos: C(2, 0), CarrierFacing: East, BeamRoot: C(0, 0), BeamOrientation: East},
		{CarrierPos: C(0, 0), CarrierFacing: East, BeamRoot: C(1, 0), BeamOrientation: East},
		{CarrierPos: C(0, 0), CarrierFacing: East, Carrying: true, BeamRoot: C(1, 0), BeamOrientation: West},
		{CarrierPos: C(0, 0), CarrierFacing: Direction(9), BeamRoot: C(0, 0), BeamOrientation: East},
	}
	for _, s := range bad {
		if err := e.Restore(s); err == nil {
			t.Errorf("Restore(%+v) should fail", s)
		}
	}

	good := Snapshot{CarrierPos: C(1, 0), CarrierFacing: West, Carrying: true, BeamRoot: C(1, 0), BeamOrientation: West}
	if err := e.Restore(good); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if e.Snapshot() != good || e.UndoDepth() != 0 {
		t.Errorf("Restore() state = %+v depth %d, want %+v depth 0", e.Snapshot(), e.UndoDepth(), good)
	}
	checkAttachment(t, e, true)
}
