package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/girder/internal/registry"
	"github.com/vovakirdan/girder/internal/storage"
)

// ProgressKeyMap defines the key bindings for the progress table.
type ProgressKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPack key.Binding
	PrevPack key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ProgressKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPack, k.PrevPack, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ProgressKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPack, k.PrevPack},
		{k.Back, k.Quit},
	}
}

// DefaultProgressKeyMap returns default key bindings.
func DefaultProgressKeyMap() ProgressKeyMap {
	return ProgressKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextPack: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next pack"),
		),
		PrevPack: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev pack"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ProgressRow is one level's line in the progress table.
type ProgressRow struct {
	LevelID string
	Name    string
	Par     int
	Solved  bool
	storage.Progress
}

// ProgressModel is the Bubble Tea model for the progress screen.
type ProgressModel struct {
	catalog    []registry.Entry
	packCursor int
	store      *storage.Store
	progress   map[string]storage.Progress // keyed by "pack/level"
	rows       []ProgressRow
	table      table.Model
	help       help.Model
	keys       ProgressKeyMap
	theme      Theme
	width      int
	height     int
	quitting   bool
	goingBack  bool
	loadErr    error
}

// NewProgressModel creates a new progress model.
func NewProgressModel(catalog []registry.Entry, store *storage.Store, width, height int, theme Theme) ProgressModel {
	h := help.New()
	h.ShowAll = false

	m := ProgressModel{
		catalog:  catalog,
		store:    store,
		progress: map[string]storage.Progress{},
		keys:     DefaultProgressKeyMap(),
		help:     h,
		theme:    theme,
		width:    width,
		height:   height,
	}

	if store != nil {
		all, err := store.AllProgress()
		if err != nil {
			m.loadErr = err
		}
		for _, p := range all {
			m.progress[p.PackID+"/"+p.LevelID] = p
		}
	}

	m.table = m.createTable()
	m.loadPack()
	return m
}

// createTable creates a new table with columns sized to the window.
func (m *ProgressModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Level", Width: 22},
		{Title: "Par", Width: 5},
		{Title: "Best", Width: 6},
		{Title: "Solves", Width: 7},
		{Title: "Fastest", Width: 9},
		{Title: "Last", Width: 14},
	}

	// Give spare width to the level name
	if extra := m.width - 4 - 4 - 63; extra > 0 {
		columns[0].Width += min(extra, 18)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 5)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadPack builds the rows of the selected pack.
func (m *ProgressModel) loadPack() {
	m.rows = nil
	if len(m.catalog) > 0 {
		e := m.catalog[m.packCursor]
		for _, lvl := range e.Levels {
			row := ProgressRow{LevelID: lvl.ID, Name: lvl.Name, Par: lvl.Par}
			if p, ok := m.progress[e.Pack.ID+"/"+lvl.ID]; ok {
				row.Solved = true
				row.Progress = p
			}
			m.rows = append(m.rows, row)
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the current rows.
func (m *ProgressModel) updateTableRows() {
	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		name := r.Name
		if name == "" {
			name = r.LevelID
		}
		par := "-"
		if r.Par > 0 {
			par = fmt.Sprintf("%d", r.Par)
		}
		best, solves, fastest, last := "-", "0", "-", "-"
		if r.Solved {
			best = fmt.Sprintf("%d", r.BestMoves)
			if r.Par > 0 && r.BestMoves <= r.Par {
				best += "★"
			}
			solves = fmt.Sprintf("%d", r.Solves)
			fastest = formatDuration(r.BestTime)
			if !r.LastSolve.IsZero() {
				last = r.LastSolve.Format("Jan 02 15:04")
			}
		}
		rows[i] = table.Row{name, par, best, solves, fastest, last}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// formatDuration renders durations as m:ss.t.
func formatDuration(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}

// Init initializes the progress model.
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the progress screen.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextPack):
			if len(m.catalog) > 0 {
				m.packCursor = (m.packCursor + 1) % len(m.catalog)
				m.loadPack()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevPack):
			if len(m.catalog) > 0 {
				m.packCursor--
				if m.packCursor < 0 {
					m.packCursor = len(m.catalog) - 1
				}
				m.loadPack()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the progress screen.
func (m ProgressModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}
	th := m.theme

	var b strings.Builder

	title := "PROGRESS"
	if len(m.catalog) > 0 {
		title = fmt.Sprintf("PROGRESS - %s", m.catalog[m.packCursor].Pack.Title)
	}
	b.WriteString(centerText(th.MenuTitle.Render(title), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerBlock(tableStyle.Render(m.renderTableContent()), m.width))

	if m.loadErr != nil {
		b.WriteString("\n")
		b.WriteString(centerText(th.HUDStatus.Render("progress unavailable: "+m.loadErr.Error()), m.width))
	}

	b.WriteString("\n")
	b.WriteString(th.HUDControls.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTabs renders the pack names with the selected one highlighted.
func (m ProgressModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.catalog))
	for i, e := range m.catalog {
		if i == m.packCursor {
			tabs[i] = activeTabStyle.Render(e.Pack.Title)
		} else {
			tabs[i] = tabStyle.Render(" " + e.Pack.Title + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if m.width > 0 && lipgloss.Width(line) > m.width-4 && len(m.catalog) > 0 {
		line = fmt.Sprintf("< %s >", m.catalog[m.packCursor].Pack.Title)
	}
	return line
}

// renderTableContent renders the table or an empty message.
func (m ProgressModel) renderTableContent() string {
	if len(m.rows) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No levels in this pack.")
	}

	return m.table.View()
}

// Rows returns the rows of the selected pack.
func (m ProgressModel) Rows() []ProgressRow {
	return m.rows
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m ProgressModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ProgressModel) IsQuitting() bool {
	return m.quitting
}
