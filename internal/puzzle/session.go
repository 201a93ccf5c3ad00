package puzzle

// Session owns the puzzle state of one level: board, carrier, beam, undo log,
// and the engine applying commands to them. It replaces the whole set when a
// level is restarted or another level is loaded.
type Session struct {
	level     LevelData
	opts      EngineOptions
	engine    *Engine
	listeners []Listener
}

// NewSession builds a session from parsed level data.
func NewSession(level LevelData, opts EngineOptions) (*Session, error) {
	s := &Session{opts: opts}
	if err := s.Load(level); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the current level. On error the previous level stays active.
func (s *Session) Load(level LevelData) error {
	board, carrier, beam, err := level.Build()
	if err != nil {
		return err
	}
	engine := NewEngine(board, carrier, beam, level.BeamHeld, s.opts)
	for _, l := range s.listeners {
		engine.Subscribe(l)
	}
	s.level = level
	s.engine = engine
	engine.emit(Event{Kind: EventReset})
	engine.evaluateWin()
	return nil
}

// Restart reloads the current level from its initial layout.
func (s *Session) Restart() {
	if err := s.Load(s.level); err != nil {
		// The level was built successfully once; it cannot become invalid.
		panic(err)
	}
}

// Subscribe registers a listener that survives restarts and level loads.
func (s *Session) Subscribe(l Listener) {
	if l == nil {
		return
	}
	s.listeners = append(s.listeners, l)
	s.engine.Subscribe(l)
}

// Level returns the level data the session was built from.
func (s *Session) Level() LevelData {
	return s.level
}

// Engine returns the current level's engine.
func (s *Session) Engine() *Engine {
	return s.engine
}

// Options returns the engine options used for every level.
func (s *Session) Options() EngineOptions {
	return s.opts
}

// Apply forwards a command to the engine.
func (s *Session) Apply(cmd Command) Result {
	return s.engine.Apply(cmd)
}

// Step applies a command and, if it opened a busy window, closes it at once.
// Used by collaborators with no playback to wait for.
func (s *Session) Step(cmd Command) Result {
	r := s.engine.Apply(cmd)
	if s.engine.Busy() {
		s.engine.Complete()
	}
	return r
}

// Complete forwards the playback-finished notification.
func (s *Session) Complete() bool {
	return s.engine.Complete()
}

// IsWin evaluates the win predicate.
func (s *Session) IsWin() bool {
	return s.engine.IsWin()
}

// Snapshot returns the current carrier and beam fields.
func (s *Session) Snapshot() Snapshot {
	return s.engine.Snapshot()
}

// Restore resumes from a saved snapshot of the current level.
func (s *Session) Restore(snap Snapshot) error {
	return s.engine.Restore(snap)
}

// String renders the board as ASCII.
func (s *Session) String() string {
	return Render(s.engine)
}
