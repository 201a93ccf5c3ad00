package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/girder/internal/core"
)

// PlayKeyMap defines the key bindings of the play screen.
type PlayKeyMap struct {
	North     key.Binding
	East      key.Binding
	South     key.Binding
	West      key.Binding
	RotateCW  key.Binding
	RotateCCW key.Binding
	BeamCW    key.Binding
	BeamCCW   key.Binding
	Pickup    key.Binding
	Undo      key.Binding
	Restart   key.Binding
	Skip      key.Binding
	Next      key.Binding
	Suspend   key.Binding
	Back      key.Binding
	Quit      key.Binding
	Help      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.North, k.RotateCW, k.BeamCW, k.Pickup, k.Undo, k.Restart, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.North, k.East, k.South, k.West},
		{k.RotateCW, k.RotateCCW, k.BeamCW, k.BeamCCW},
		{k.Pickup, k.Undo, k.Restart, k.Skip},
		{k.Next, k.Suspend, k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		North: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "north"),
		),
		East: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "east"),
		),
		South: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "south"),
		),
		West: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "west"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x/z", "turn"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "turn ccw"),
		),
		BeamCW: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v/c", "swing beam"),
		),
		BeamCCW: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "swing beam ccw"),
		),
		Pickup: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "lift/drop"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "backspace"),
			key.WithHelp("u", "undo"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Skip: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "skip anim"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "enter"),
			key.WithHelp("n", "next level"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save & leave"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "levels"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// Action translates a key message into a player action.
func (k PlayKeyMap) Action(msg tea.KeyMsg) core.Action {
	bindings := []struct {
		binding key.Binding
		action  core.Action
	}{
		{k.Quit, core.ActionQuit},
		{k.North, core.ActionNorth},
		{k.East, core.ActionEast},
		{k.South, core.ActionSouth},
		{k.West, core.ActionWest},
		{k.RotateCW, core.ActionRotateCW},
		{k.RotateCCW, core.ActionRotateCCW},
		{k.BeamCW, core.ActionBeamCW},
		{k.BeamCCW, core.ActionBeamCCW},
		{k.Pickup, core.ActionPickup},
		{k.Undo, core.ActionUndo},
		{k.Restart, core.ActionRestart},
		{k.Skip, core.ActionSkip},
		{k.Next, core.ActionNext},
		{k.Suspend, core.ActionSuspend},
		{k.Back, core.ActionBack},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return core.ActionNone
}

// KeyMapper translates Bubble Tea key messages for list screens.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionProgress
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionProgress
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}
