package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/girder/internal/core"
	"github.com/vovakirdan/girder/internal/levels"
	"github.com/vovakirdan/girder/internal/registry"
	"github.com/vovakirdan/girder/internal/storage"
)

// MenuItem represents a selectable level in the menu.
type MenuItem struct {
	PackID    string
	PackTitle string
	Level     levels.Level
	Best      *storage.Completion
	Suspended bool
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	catalog      []registry.Entry
	items        []MenuItem
	cursor       int
	width        int
	height       int
	store        *storage.Store
	theme        Theme
	keyMapper    *KeyMapper
	quitting     bool
	selected     *MenuItem // Set when user selects a level
	openProgress bool      // True if user pressed Tab for the progress table
}

// NewMenuModel creates a new menu model over a level catalog.
func NewMenuModel(catalog []registry.Entry, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig, theme Theme) MenuModel {
	m := MenuModel{
		catalog:   catalog,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		theme:     theme,
		keyMapper: NewKeyMapper(),
	}
	m.items = menuItems(catalog, store, logger)
	return m
}

// menuItems flattens the catalog and annotates each level with stored progress.
func menuItems(catalog []registry.Entry, store *storage.Store, logger *log.Logger) []MenuItem {
	suspended := map[string]bool{}
	if store != nil {
		saves, err := store.ListSuspended()
		if err != nil && logger != nil {
			logger.Warn("could not list saved sessions", "error", err)
		}
		for _, s := range saves {
			suspended[s.PackID+"/"+s.LevelID] = true
		}
	}

	var items []MenuItem
	for _, e := range catalog {
		for _, lvl := range e.Levels {
			item := MenuItem{
				PackID:    e.Pack.ID,
				PackTitle: e.Pack.Title,
				Level:     lvl,
				Suspended: suspended[e.Pack.ID+"/"+lvl.ID],
			}
			if store != nil {
				best, err := store.BestCompletion(e.Pack.ID, lvl.ID)
				if err != nil && logger != nil {
					logger.Warn("could not load best result", "level", lvl.ID, "error", err)
				}
				item.Best = best
			}
			items = append(items, item)
		}
	}
	return items
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionProgress:
		m.openProgress = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	th := m.theme

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(th.MenuTitle.Render("G I R D E R"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(th.MenuDescription.Render("Carry the beam onto the goal"), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(th.MenuDescription.Render("No levels found."), m.width))
		b.WriteString("\n")
	}

	var rows []string
	lastPack := ""
	for i, item := range m.visibleRange() {
		idx := m.offset() + i
		if item.PackID != lastPack {
			if lastPack != "" {
				rows = append(rows, "")
			}
			rows = append(rows, th.MenuPack.Render(item.PackTitle))
			lastPack = item.PackID
		}
		rows = append(rows, m.renderItem(item, idx == m.cursor))
	}
	b.WriteString(centerBlock(lipgloss.JoinVertical(lipgloss.Left, rows...), m.width))

	b.WriteString("\n\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Progress  |  Q: Quit"
	b.WriteString(centerText(th.HUDControls.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) renderItem(item MenuItem, active bool) string {
	th := m.theme
	cursor := "  "
	style := th.MenuItemNormal
	if active {
		cursor = "> "
		style = th.MenuItemActive
	}

	name := item.Level.Name
	if name == "" {
		name = item.Level.ID
	}
	line := style.Render(fmt.Sprintf("%s%-24s", cursor, name))

	var tags []string
	if item.Best != nil {
		best := fmt.Sprintf("✓ %d", item.Best.Moves)
		if item.Level.Par > 0 {
			best += fmt.Sprintf("/%d", item.Level.Par)
		}
		tags = append(tags, th.MenuItemSolved.Render(best))
	} else if item.Level.Par > 0 {
		tags = append(tags, th.MenuDescription.Render(fmt.Sprintf("par %d", item.Level.Par)))
	}
	if item.Suspended {
		tags = append(tags, th.HUDStatus.Render("saved"))
	}
	return line + " " + strings.Join(tags, " ")
}

// offset returns the index of the first visible item so that the cursor stays on screen.
func (m MenuModel) offset() int {
	rows := m.listRows()
	if rows <= 0 || len(m.items) <= rows {
		return 0
	}
	return core.Clamp(m.cursor-rows/2, 0, len(m.items)-rows)
}

func (m MenuModel) visibleRange() []MenuItem {
	rows := m.listRows()
	start := m.offset()
	end := len(m.items)
	if rows > 0 && start+rows < end {
		end = start + rows
	}
	return m.items[start:end]
}

// listRows is the number of level rows that fit below the title and above the controls.
func (m MenuModel) listRows() int {
	if m.height <= 0 {
		return 0
	}
	return core.Max(m.height-10, 3)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsProgress returns true if user requested the progress table.
func (m MenuModel) WantsProgress() bool {
	return m.openProgress
}

// Levels returns the levels of a pack from the catalog.
func (m MenuModel) Levels(packID string) []levels.Level {
	for _, e := range m.catalog {
		if e.Pack.ID == packID {
			return e.Levels
		}
	}
	return nil
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// centerBlock centers a multi-line block as a whole, keeping its lines left-aligned.
func centerBlock(block string, width int) string {
	w := lipgloss.Width(block)
	if w >= width {
		return block
	}
	pad := strings.Repeat(" ", (width-w)/2)
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
