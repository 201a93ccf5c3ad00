package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/girder/internal/core"
	"github.com/vovakirdan/girder/internal/puzzle"
	"github.com/vovakirdan/girder/internal/registry"
	"github.com/vovakirdan/girder/internal/storage"
)

func testCatalog(t *testing.T) []registry.Entry {
	t.Helper()
	return []registry.Entry{
		{Pack: registry.PackInfo{ID: "test", Title: "Test Pack"}, Levels: testPack(t)},
	}
}

func menuPress(t *testing.T, m MenuModel, msg tea.Msg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update() returned %T, want MenuModel", next)
	}
	return mm
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(testCatalog(t), nil, nil, core.DefaultConfig(), DefaultTheme())
	if len(m.items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.items))
	}

	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up at the top, want 0", m.cursor)
	}
	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("cursor = %d after down past the end, want 1", m.cursor)
	}

	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel := m.Selected()
	if sel == nil || sel.PackID != "test" || sel.Level.ID != "b-two" {
		t.Fatalf("Selected() = %+v, want test/b-two", sel)
	}
	if got := len(m.Levels("test")); got != 2 {
		t.Errorf("Levels(test) = %d, want 2", got)
	}
	if m.Levels("nope") != nil {
		t.Error("Levels() of an unknown pack should be nil")
	}
}

func TestMenuAnnotatesProgress(t *testing.T) {
	store := openStore(t)
	if _, err := store.RecordCompletion(storage.Completion{PackID: "test", LevelID: "a-one", Moves: 2, Duration: time.Second}); err != nil {
		t.Fatalf("RecordCompletion() error = %v", err)
	}
	if _, err := store.SaveSuspended(storage.Suspended{
		PackID:  "test",
		LevelID: "b-two",
		State: puzzle.Snapshot{
			CarrierPos:      puzzle.C(1, 0),
			CarrierFacing:   puzzle.South,
			Carrying:        true,
			BeamRoot:        puzzle.C(1, 0),
			BeamOrientation: puzzle.South,
		},
		Moves: 1,
	}); err != nil {
		t.Fatalf("SaveSuspended() error = %v", err)
	}

	m := NewMenuModel(testCatalog(t), store, nil, core.DefaultConfig(), DefaultTheme())
	if m.items[0].Best == nil || m.items[0].Best.Moves != 2 {
		t.Errorf("a-one Best = %+v, want 2 moves", m.items[0].Best)
	}
	if m.items[0].Suspended || !m.items[1].Suspended {
		t.Errorf("Suspended = %v, %v, want false, true", m.items[0].Suspended, m.items[1].Suspended)
	}

	view := m.View()
	for _, want := range []string{"Test Pack", "Level A", "✓ 2/2", "par 3", "saved"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestMenuKeys(t *testing.T) {
	m := NewMenuModel(testCatalog(t), nil, nil, core.DefaultConfig(), DefaultTheme())

	progress := menuPress(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !progress.WantsProgress() {
		t.Error("tab should open the progress table")
	}

	quit := menuPress(t, m, runeKey("q"))
	if !quit.IsQuitting() || quit.View() != "" {
		t.Error("q should quit with an empty view")
	}
}

func TestMenuScrollsWithCursor(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.ScreenH = 13 // three list rows
	lvls := testPack(t)
	catalog := []registry.Entry{
		{Pack: registry.PackInfo{ID: "p1", Title: "One"}, Levels: lvls},
		{Pack: registry.PackInfo{ID: "p2", Title: "Two"}, Levels: lvls},
		{Pack: registry.PackInfo{ID: "p3", Title: "Three"}, Levels: lvls},
	}
	m := NewMenuModel(catalog, nil, nil, cfg, DefaultTheme())

	if got := len(m.visibleRange()); got != 3 {
		t.Fatalf("visibleRange() = %d items, want 3", got)
	}
	for range 5 {
		m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.offset() != 3 {
		t.Errorf("offset() = %d at the last item, want 3", m.offset())
	}
	if !strings.Contains(m.View(), "Three") {
		t.Error("View() should show the pack of the cursor")
	}
}

func TestProgressRows(t *testing.T) {
	store := openStore(t)
	for _, moves := range []int{3, 2} {
		if _, err := store.RecordCompletion(storage.Completion{PackID: "test", LevelID: "a-one", Moves: moves, Duration: 1500 * time.Millisecond}); err != nil {
			t.Fatalf("RecordCompletion() error = %v", err)
		}
	}

	m := NewProgressModel(testCatalog(t), store, 100, 30, DefaultTheme())
	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() = %d, want 2", len(rows))
	}
	if !rows[0].Solved || rows[0].BestMoves != 2 || rows[0].Solves != 2 {
		t.Errorf("a-one row = %+v, want solved twice with best 2", rows[0])
	}
	if rows[1].Solved {
		t.Errorf("b-two row = %+v, want unsolved", rows[1])
	}
	if !strings.Contains(m.View(), "0:01.5") {
		t.Error("View() should show the fastest time")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if !next.(ProgressModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestProgressSwitchesPacks(t *testing.T) {
	lvls := testPack(t)
	catalog := []registry.Entry{
		{Pack: registry.PackInfo{ID: "p1", Title: "One"}, Levels: lvls[:1]},
		{Pack: registry.PackInfo{ID: "p2", Title: "Two"}, Levels: lvls},
	}
	m := NewProgressModel(catalog, nil, 100, 30, DefaultTheme())
	if len(m.Rows()) != 1 {
		t.Fatalf("Rows() = %d for the first pack, want 1", len(m.Rows()))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ProgressModel)
	if len(m.Rows()) != 2 {
		t.Errorf("Rows() = %d after tab, want 2", len(m.Rows()))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.(ProgressModel).Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := len(next.(ProgressModel).Rows()); got != 2 {
		t.Errorf("Rows() = %d after wrapping back, want 2", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00.0"},
		{1500 * time.Millisecond, "0:01.5"},
		{65*time.Second + 250*time.Millisecond, "1:05.3"},
		{59960 * time.Millisecond, "1:00.0"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func appPress(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update() returned %T, want AppModel", next)
	}
	return am, cmd
}

func TestAppFlow(t *testing.T) {
	store := openStore(t)
	m := NewAppModel(testCatalog(t), store, nil, DefaultPlayConfig())

	if _, cmd := appPress(t, m, TickMsg(time.Now())); cmd != nil {
		t.Error("a stale tick on the menu should be dropped")
	}

	m, cmd := appPress(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenPlay || m.play == nil || m.play.Level().ID != "a-one" {
		t.Fatalf("enter should open a-one, screen = %v", m.screen)
	}
	if cmd == nil {
		t.Error("opening a level should start the tick")
	}

	m, _ = appPress(t, m, keyRight)
	m, _ = appPress(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.screen != screenMenu || m.play != nil {
		t.Fatalf("esc should return to the menu, screen = %v", m.screen)
	}
	if !m.menu.items[0].Suspended {
		t.Error("the menu should show the level as saved")
	}

	m, _ = appPress(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenProgress {
		t.Fatalf("tab should open progress, screen = %v", m.screen)
	}
	m, _ = appPress(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.screen != screenMenu {
		t.Fatalf("esc should leave progress, screen = %v", m.screen)
	}

	m, cmd = appPress(t, m, runeKey("q"))
	if !m.quitting || cmd == nil || m.View() != "" {
		t.Error("q on the menu should quit")
	}
}

func TestAppResize(t *testing.T) {
	m := NewAppModel(testCatalog(t), nil, nil, DefaultPlayConfig())
	m, _ = appPress(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.cfg.Runtime.ScreenW != 120 || m.menu.width != 120 {
		t.Errorf("resize: cfg width %d, menu width %d, want 120", m.cfg.Runtime.ScreenW, m.menu.width)
	}

	m, _ = appPress(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.play.cfg.Runtime.ScreenH != 40 {
		t.Errorf("play height = %d, want 40", m.play.cfg.Runtime.ScreenH)
	}
}
