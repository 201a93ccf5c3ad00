package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/girder/internal/registry"
	"github.com/vovakirdan/girder/internal/storage"
)

type screen int

const (
	screenMenu screen = iota
	screenPlay
	screenProgress
)

// AppModel manages the full girder flow: menu -> level -> menu, plus the
// progress table. It is the top-level model for local and SSH sessions.
type AppModel struct {
	catalog  []registry.Entry
	store    *storage.Store
	logger   *log.Logger
	cfg      PlayConfig
	screen   screen
	menu     MenuModel
	play     *PlayModel
	progress *ProgressModel
	quitting bool
}

// NewAppModel creates the top-level model over a level catalog.
func NewAppModel(catalog []registry.Entry, store *storage.Store, logger *log.Logger, cfg PlayConfig) AppModel {
	return AppModel{
		catalog: catalog,
		store:   store,
		logger:  logger,
		cfg:     cfg,
		menu:    NewMenuModel(catalog, store, logger, cfg.Runtime, cfg.Theme),
	}
}

// Init initializes the session.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Runtime.ScreenW = wsm.Width
		m.cfg.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenProgress:
		return m.updateProgress(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		// Stale tick from a level that was just left.
		return m, nil
	}

	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsProgress() {
		progress := NewProgressModel(m.catalog, m.store, m.cfg.Runtime.ScreenW, m.cfg.Runtime.ScreenH, m.cfg.Theme)
		m.progress = &progress
		m.screen = screenProgress
		return m, progress.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		play, err := NewPlayModel(selected.PackID, m.menu.Levels(selected.PackID), selected.Level, m.store, m.logger, m.cfg)
		if err != nil {
			// Catalog levels are validated on load, so this means the file changed.
			if m.logger != nil {
				m.logger.Error("cannot start level", "level", selected.Level.ID, "error", err)
			}
			m.resetMenu()
			return m, nil
		}
		if m.logger != nil {
			m.logger.Debug("level started", "pack", selected.PackID, "level", selected.Level.ID)
		}
		m.play = &play
		m.screen = screenPlay
		return m, play.Init()
	}

	return m, cmd
}

// updatePlay handles updates when a level is open.
func (m AppModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.play.Update(msg)
	if play, ok := next.(PlayModel); ok {
		m.play = &play
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.play.BackToMenu() {
		m.play = nil
		m.resetMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateProgress handles updates when the progress table is shown.
func (m AppModel) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, nil
	}

	next, cmd := m.progress.Update(msg)
	if progress, ok := next.(ProgressModel); ok {
		m.progress = &progress
	}

	if m.progress.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.progress.IsGoingBack() {
		m.progress = nil
		m.resetMenu()
		return m, nil
	}

	return m, cmd
}

// resetMenu rebuilds the menu so that it shows fresh progress.
func (m *AppModel) resetMenu() {
	cursor := m.menu.cursor
	m.menu = NewMenuModel(m.catalog, m.store, m.logger, m.cfg.Runtime, m.cfg.Theme)
	if cursor < len(m.menu.items) {
		m.menu.cursor = cursor
	}
	m.screen = screenMenu
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenProgress:
		return m.progress.View()
	default:
		return m.menu.View()
	}
}

// RunApp runs the menu-driven flow in a standalone Bubble Tea program.
func RunApp(catalog []registry.Entry, store *storage.Store, logger *log.Logger, cfg PlayConfig) error {
	p := tea.NewProgram(
		NewAppModel(catalog, store, logger, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
