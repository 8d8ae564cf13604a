package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-task/internal/registry"
)

// MenuModel is the Bubble Tea model for the player picker.
type MenuModel struct {
	players     []registry.Player
	cursor      int
	width       int
	height      int
	quitting    bool
	selected    *registry.Player
	openHistory bool
}

// NewMenuModel creates a picker over all registered players.
func NewMenuModel(width, height int) MenuModel {
	return MenuModel{
		players: registry.List(),
		width:   width,
		height:  height,
	}
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

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.players)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.players) > 0 {
			selected := m.players[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("  S N A K E   T A S K  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Who is playing?", m.width))
	b.WriteString("\n\n")

	for i, p := range m.players {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%-22s", cursor, p.Title), m.width))
		b.WriteString("\n")
	}

	if len(m.players) > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(m.players[m.cursor].Description, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Start  |  Tab: History  |  Q: Quit", m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen player, or nil.
func (m MenuModel) Selected() *registry.Player {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user asked for the history screen.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Player       registry.Player
	WantsHistory bool
	Quit         bool
}

// RunMenu runs the player picker.
func RunMenu(width, height int) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, fmt.Errorf("tui: menu: %w", err)
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.IsQuitting() {
		return MenuResult{Quit: true}, nil
	}
	if m.WantsHistory() {
		return MenuResult{WantsHistory: true}, nil
	}
	if m.Selected() == nil {
		return MenuResult{Quit: true}, nil
	}
	return MenuResult{Player: *m.Selected()}, nil
}
