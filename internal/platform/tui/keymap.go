package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-task/internal/core"
	"github.com/vovakirdan/snake-task/internal/event"
)

// KeyMap defines the participant's key bindings during a session.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Restart     key.Binding
	Calibrated  key.Binding
	Recalibrate key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Restart, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Restart, k.Calibrated, k.Recalibrate},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Restart: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "new game"),
		),
		Calibrated: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "calibration ok"),
		),
		Recalibrate: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "calibration failed"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Translate maps a key message to the event it produces.
// Returns nil for keys that produce no event. quit is true for quit keys.
func (k KeyMap) Translate(msg tea.KeyMsg) (ev event.Event, quit bool) {
	switch {
	case key.Matches(msg, k.Quit):
		return nil, true
	case key.Matches(msg, k.Up):
		return event.KeyEvent{Key: core.KeyUp}, false
	case key.Matches(msg, k.Down):
		return event.KeyEvent{Key: core.KeyDown}, false
	case key.Matches(msg, k.Left):
		return event.KeyEvent{Key: core.KeyLeft}, false
	case key.Matches(msg, k.Right):
		return event.KeyEvent{Key: core.KeyRight}, false
	case key.Matches(msg, k.Restart):
		return event.KeyEvent{Key: core.KeySpace}, false
	case key.Matches(msg, k.Calibrated):
		return event.CalibrationEvent{Succeeded: true}, false
	case key.Matches(msg, k.Recalibrate):
		return event.CalibrationEvent{Succeeded: false}, false
	}
	return nil, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
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
		return MenuActionHistory
	}
	return MenuActionNone
}
