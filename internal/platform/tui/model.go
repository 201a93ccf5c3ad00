package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/girder/internal/core"
	"github.com/vovakirdan/girder/internal/levels"
	"github.com/vovakirdan/girder/internal/platform/anim"
	"github.com/vovakirdan/girder/internal/puzzle"
	"github.com/vovakirdan/girder/internal/storage"
)

// bumpFrames is how many ticks the carrier flashes after a rejected command.
const bumpFrames = 8

// maxFrameStep caps the animation step after a stall (e.g. a slow SSH link).
const maxFrameStep = 250 * time.Millisecond

// PlayConfig bundles the settings a play screen runs with.
type PlayConfig struct {
	Options puzzle.EngineOptions
	Timing  anim.Timing
	Runtime core.RuntimeConfig
	Theme   Theme
}

// DefaultPlayConfig returns a PlayConfig with sensible defaults.
func DefaultPlayConfig() PlayConfig {
	return PlayConfig{
		Timing:  anim.DefaultTiming(),
		Runtime: core.DefaultConfig(),
		Theme:   DefaultTheme(),
	}
}

// winLatch records win events between Bubble Tea updates. It is shared by
// pointer so that copies of the model see the same latch.
type winLatch struct {
	fired bool
}

func (w *winLatch) OnEvent(e puzzle.Event) {
	if e.Kind == puzzle.EventWin {
		w.fired = true
	}
}

func (w *winLatch) take() bool {
	fired := w.fired
	w.fired = false
	return fired
}

// PlayModel is the Bubble Tea model for playing one level pack.
type PlayModel struct {
	packID  string
	levels  []levels.Level
	level   levels.Level
	session *puzzle.Session
	player  *anim.Player
	latch   *winLatch
	store   *storage.Store
	logger  *log.Logger
	cfg     PlayConfig
	screen  *core.Screen
	keys    PlayKeyMap
	help    help.Model

	started  time.Time
	lastTick time.Time
	base     puzzle.Stats // Counters carried over from a resumed save
	best     *storage.Completion
	bump     int
	won      bool
	status   string

	quitting   bool
	backToMenu bool
}

// NewPlayModel creates a play screen for lvl, one of the levels of packID.
// A suspended save of the level is resumed when the store has one.
func NewPlayModel(packID string, lvls []levels.Level, lvl levels.Level, store *storage.Store, logger *log.Logger, cfg PlayConfig) (PlayModel, error) {
	if cfg.Runtime.TickRate <= 0 {
		cfg.Runtime.TickRate = 60
	}
	session, err := lvl.NewSession(cfg.Options)
	if err != nil {
		return PlayModel{}, err
	}

	m := PlayModel{
		packID:  packID,
		levels:  lvls,
		level:   lvl,
		session: session,
		latch:   &winLatch{},
		store:   store,
		logger:  logger,
		cfg:     cfg,
		keys:    DefaultPlayKeyMap(),
		help:    help.New(),
		started: time.Now(),
	}
	m.player = anim.NewPlayer(session, cfg.Timing)
	session.Subscribe(m.latch)
	m.help.Width = cfg.Runtime.ScreenW

	w, h := BoardSize(session.Engine().Board())
	m.screen = core.NewScreen(w, h)

	m.resume()
	m.syncLatch()
	m.loadBest()
	m.checkWin()
	return m, nil
}

// Init starts the animation clock.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.cfg.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.cfg.Runtime.ScreenW = msg.Width
		m.cfg.Runtime.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey maps a key to an action and applies it.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m.apply(m.keys.Action(msg))
}

// apply runs one player action.
func (m PlayModel) apply(action core.Action) (tea.Model, tea.Cmd) {
	switch action {
	case core.ActionNone:
		return m, nil

	case core.ActionQuit:
		m.suspend()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.suspend()
		m.backToMenu = true
		return m, nil

	case core.ActionSuspend:
		if m.suspend() {
			m.status = "session saved"
		}
		m.backToMenu = true
		return m, nil

	case core.ActionRestart:
		m.session.Restart()
		m.resetLevelState()
		m.status = "restarted"
		if m.store != nil {
			m.store.DeleteSuspended(m.packID, m.level.ID) //nolint:errcheck // Best-effort
		}
		m.checkWin()
		return m, nil

	case core.ActionSkip:
		m.player.Skip()
		m.checkWin()
		return m, nil

	case core.ActionNext:
		if m.won {
			m.advance()
		}
		return m, nil
	}

	if m.won {
		return m, nil
	}
	cmd, ok := action.Command()
	if !ok {
		return m, nil
	}

	switch m.session.Apply(cmd) {
	case puzzle.Rejected:
		m.bump = bumpFrames
	case puzzle.Accepted:
		m.status = ""
	}
	m.checkWin()
	return m, nil
}

// handleTick advances the animation by the wall-clock time since the last tick.
func (m PlayModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := time.Second / time.Duration(m.cfg.Runtime.TickRate)
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
	}
	m.lastTick = now
	if dt > maxFrameStep {
		dt = maxFrameStep
	}
	if dt < 0 {
		dt = 0
	}

	m.player.Update(dt)
	if m.bump > 0 {
		m.bump--
	}
	m.checkWin()

	return m, tickCmd(m.cfg.Runtime.TickRate)
}

// checkWin consumes a latched win event and records the completion.
func (m *PlayModel) checkWin() {
	if !m.latch.take() {
		return
	}
	m.won = true
	m.status = ""

	if m.store == nil {
		return
	}
	stats := m.stats()
	_, err := m.store.RecordCompletion(storage.Completion{
		PackID:   m.packID,
		LevelID:  m.level.ID,
		Moves:    stats.Moves,
		Undos:    stats.Undos,
		Duration: time.Since(m.started),
	})
	if err != nil {
		m.warn("could not record completion", "level", m.level.ID, "error", err)
	}
	if err := m.store.DeleteSuspended(m.packID, m.level.ID); err != nil {
		m.warn("could not clear saved session", "level", m.level.ID, "error", err)
	}
	m.loadBest()
}

// advance loads the next level of the pack, or returns to the menu after the last.
func (m *PlayModel) advance() {
	next, ok := levels.Next(m.levels, m.level.ID)
	if !ok {
		m.backToMenu = true
		return
	}
	if err := m.session.Load(next.Data); err != nil {
		m.status = fmt.Sprintf("cannot load %s: %v", next.ID, err)
		return
	}
	m.level = next
	w, h := BoardSize(m.session.Engine().Board())
	m.screen.Resize(w, h)
	m.resetLevelState()
	m.resume()
	m.syncLatch()
	m.loadBest()
	m.checkWin()
}

// syncLatch makes the latch match the position after a load and resume. The
// starting layout may have fired a win that a resumed save then undid, or
// fired one before the latch subscribed.
func (m *PlayModel) syncLatch() {
	m.latch.fired = m.session.IsWin()
}

// resetLevelState clears per-attempt state after a load or restart.
func (m *PlayModel) resetLevelState() {
	m.won = false
	m.bump = 0
	m.base = puzzle.Stats{}
	m.started = time.Now()
}

// resume restores the suspended save of the current level, if any.
func (m *PlayModel) resume() {
	if m.store == nil {
		return
	}
	saved, err := m.store.LoadSuspended(m.packID, m.level.ID)
	if err != nil {
		m.warn("could not load saved session", "level", m.level.ID, "error", err)
		return
	}
	if saved == nil {
		return
	}
	if err := m.session.Restore(saved.State); err != nil {
		// The level file changed since the save; drop it.
		m.warn("discarding stale saved session", "level", m.level.ID, "error", err)
		m.store.DeleteSuspended(m.packID, m.level.ID) //nolint:errcheck
		return
	}
	m.base = puzzle.Stats{Moves: saved.Moves, Undos: saved.Undos}
	m.status = "resumed saved session"
}

// suspend saves the current position unless the level is untouched or solved.
// Returns true if a save was written.
func (m *PlayModel) suspend() bool {
	if m.store == nil || m.won {
		return false
	}
	// Let a running animation land so the saved state is committed.
	m.player.Skip()
	m.checkWin()
	if m.won {
		return false
	}
	stats := m.stats()
	if stats.Moves == 0 && stats.Undos == 0 {
		return false
	}
	_, err := m.store.SaveSuspended(storage.Suspended{
		PackID:  m.packID,
		LevelID: m.level.ID,
		State:   m.session.Snapshot(),
		Moves:   stats.Moves,
		Undos:   stats.Undos,
	})
	if err != nil {
		m.warn("could not save session", "level", m.level.ID, "error", err)
		return false
	}
	return true
}

func (m *PlayModel) loadBest() {
	m.best = nil
	if m.store == nil {
		return
	}
	best, err := m.store.BestCompletion(m.packID, m.level.ID)
	if err != nil {
		m.warn("could not load best result", "level", m.level.ID, "error", err)
		return
	}
	m.best = best
}

func (m PlayModel) stats() puzzle.Stats {
	s := m.session.Engine().Stats()
	s.Moves += m.base.Moves
	s.Undos += m.base.Undos
	return s
}

func (m PlayModel) warn(msg string, keyvals ...interface{}) {
	if m.logger != nil {
		m.logger.Warn(msg, keyvals...)
	}
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}
	th := m.cfg.Theme

	DrawBoard(m.screen, m.session.Engine().Board(), m.player.Pose(), m.bump > 0, m.level.ID)
	board := RenderScreen(m.screen)

	parts := []string{m.header(), board, m.hud()}
	if m.won {
		parts = append(parts, m.banner())
	} else if m.status != "" {
		parts = append(parts, th.HUDStatus.Render(m.status))
	}
	parts = append(parts, th.HUDControls.Render(m.help.View(m.keys)))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.cfg.Runtime.ScreenW <= 0 || m.cfg.Runtime.ScreenH <= 0 {
		return content
	}
	return lipgloss.Place(m.cfg.Runtime.ScreenW, m.cfg.Runtime.ScreenH, lipgloss.Center, lipgloss.Center, content)
}

func (m PlayModel) header() string {
	th := m.cfg.Theme
	title := m.level.Name
	if title == "" {
		title = m.level.ID
	}
	return th.HUDTitle.Render(strings.ToUpper(title)) +
		th.HUDSeparator.Render("  ·  ") +
		th.HUDLabel.Render(m.packID)
}

func (m PlayModel) hud() string {
	th := m.cfg.Theme
	stats := m.stats()
	sep := th.HUDSeparator.Render("  │  ")

	field := func(label, value string) string {
		return th.HUDLabel.Render(label+" ") + th.HUDValue.Render(value)
	}

	fields := []string{
		field("moves", fmt.Sprintf("%d", stats.Moves)),
		field("undos", fmt.Sprintf("%d", stats.Undos)),
	}
	if m.level.Par > 0 {
		fields = append(fields, field("par", fmt.Sprintf("%d", m.level.Par)))
	}
	if m.best != nil {
		fields = append(fields, field("best", fmt.Sprintf("%d", m.best.Moves)))
	}
	if m.session.Engine().Carrying() {
		fields = append(fields, th.HUDValue.Render("carrying"))
	}
	return strings.Join(fields, sep)
}

func (m PlayModel) banner() string {
	th := m.cfg.Theme
	stats := m.stats()

	lines := []string{th.BannerTitle.Render("BEAM PLACED")}
	summary := fmt.Sprintf("%d moves", stats.Moves)
	if m.level.Par > 0 {
		switch {
		case stats.Moves < m.level.Par:
			summary += fmt.Sprintf(", %d under par", m.level.Par-stats.Moves)
		case stats.Moves == m.level.Par:
			summary += ", on par"
		default:
			summary += fmt.Sprintf(", %d over par", stats.Moves-m.level.Par)
		}
	}
	lines = append(lines, th.BannerText.Render(summary))

	if _, ok := levels.Next(m.levels, m.level.ID); ok {
		lines = append(lines, th.BannerText.Render("n: next level  r: replay  esc: levels"))
	} else {
		lines = append(lines, th.BannerText.Render("pack complete  r: replay  esc: levels"))
	}
	return th.BannerBox.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// Session returns the puzzle session being played.
func (m PlayModel) Session() *puzzle.Session {
	return m.session
}

// Level returns the level being played.
func (m PlayModel) Level() levels.Level {
	return m.level
}

// Won reports whether the current level has been solved.
func (m PlayModel) Won() bool {
	return m.won
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the level list.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a pack starting at lvl in a standalone Bubble Tea program.
func Run(packID string, lvls []levels.Level, lvl levels.Level, store *storage.Store, logger *log.Logger, cfg PlayConfig) error {
	model, err := NewPlayModel(packID, lvls, lvl, store, logger, cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		standalone{model},
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}

// standalone ends the program where an embedding screen would show the menu.
type standalone struct {
	PlayModel
}

func (s standalone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.PlayModel.Update(msg)
	s.PlayModel = next.(PlayModel)
	if s.BackToMenu() {
		return s, tea.Quit
	}
	return s, cmd
}
