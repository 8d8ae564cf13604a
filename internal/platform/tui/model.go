// Package tui is the terminal presenter for a task session. It renders
// controller notifications with Bubble Tea and turns key presses into
// events for the session's intake.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-task/internal/core"
	"github.com/vovakirdan/snake-task/internal/event"
	"github.com/vovakirdan/snake-task/internal/registry"
	"github.com/vovakirdan/snake-task/internal/session"
)

func init() {
	registry.Register(registry.Player{
		ID:          "human",
		Title:       "Human",
		Description: "Keyboard player at the terminal",
	})
}

// Scrim texts shown while the session waits on a collaborator.
const (
	textWaitConnection = "Waiting for connection from ACT-R"
	textWaitModelRun   = "Waiting for ACT-R model to run"
	textStarting       = "Starting session"
)

var (
	hudStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	scrimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Padding(1, 2)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Pusher accepts keyboard events. *session.Session implements it.
type Pusher interface {
	Push(src event.Source, e event.Event) bool
}

// notificationMsg carries one controller notification into Update.
type notificationMsg struct {
	n event.Notification
}

// sessionEndedMsg is sent once the notification sink is closed.
type sessionEndedMsg struct{}

// waitForNotification returns a command that waits for the next notification.
func waitForNotification(sink *event.ChannelSink) tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-sink.C():
			return notificationMsg{n: n}
		case <-sink.Done():
			return sessionEndedMsg{}
		}
	}
}

// TaskModel is the Bubble Tea model for one session.
type TaskModel struct {
	in      Pusher
	sink    *event.ChannelSink
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	screen  *core.Screen
	width   int
	height  int

	state     string
	scrim     string
	boardSize int
	game      int
	score     int
	cells     []core.Cell
	food      *core.Cell
	gaze      *core.Cell
	model     string
	tracker   bool
	over      *event.GameOver
	aborted   *event.GameAborted

	quitting bool
	ended    bool
}

// NewTaskModel creates a presenter reading from sink and pushing keys to in.
func NewTaskModel(in Pusher, sink *event.ChannelSink, boardSize, width, height int) TaskModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	h := help.New()
	h.ShowAll = false
	h.Width = width

	return TaskModel{
		in:        in,
		sink:      sink,
		keys:      DefaultKeyMap(),
		help:      h,
		spinner:   sp,
		screen:    core.NewScreen(width, height),
		width:     width,
		height:    height,
		scrim:     textStarting,
		boardSize: boardSize,
	}
}

// Init starts the spinner and the notification pump.
func (m TaskModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForNotification(m.sink))
}

// Update handles messages.
func (m TaskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case notificationMsg:
		m.apply(msg.n)
		return m, waitForNotification(m.sink)

	case sessionEndedMsg:
		m.ended = true
		return m, tea.Quit
	}
	return m, nil
}

func (m TaskModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	ev, quit := m.keys.Translate(msg)
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	if ev != nil && m.in != nil {
		m.in.Push(event.SourceKeyboard, ev)
	}
	return m, nil
}

// apply folds a notification into the view state.
func (m *TaskModel) apply(n event.Notification) {
	switch ev := n.(type) {
	case event.StateChanged:
		m.state = ev.To
	case event.WaitingForConnection:
		m.scrim = textWaitConnection
	case event.WaitingForModelRun:
		m.scrim = textWaitModelRun
	case event.ModelReady:
		m.model = ev.Model
		m.scrim = ""
	case event.CalibrationRequested:
		m.scrim = fmt.Sprintf("Calibrate the eye tracker (attempt %d)", ev.Attempt)
	case event.GameStarted:
		m.scrim = ""
		m.game = ev.Game
		m.boardSize = ev.BoardSize
		m.score = 0
		m.cells = nil
		m.food = nil
		m.over = nil
		m.aborted = nil
	case event.SegmentsChanged:
		m.cells = ev.Cells
	case event.FoodSpawned:
		f := ev.Cell
		m.food = &f
	case event.ScoreChanged:
		m.score = ev.Score
	case event.GameOver:
		over := ev
		m.over = &over
	case event.GameAborted:
		aborted := ev
		m.aborted = &aborted
		m.cells = nil
		m.food = nil
	case event.TrackerStatus:
		m.tracker = ev.Connected
		if !ev.Connected {
			m.gaze = nil
		}
	case event.GazeObserved:
		m.gaze = nil
		if ev.OnBoard {
			c := ev.Cell
			m.gaze = &c
		}
	}
}

// View renders the session.
func (m TaskModel) View() string {
	if m.quitting {
		return ""
	}
	if m.scrim != "" {
		return m.viewScrim()
	}

	layout, ok := fitBoard(m.width, m.height, m.boardSize)
	if !ok {
		w, h := minTerminal(m.boardSize)
		return warnStyle.Render(fmt.Sprintf(
			"Terminal too small: need at least %dx%d, have %dx%d", w, h, m.width, m.height))
	}

	m.screen.Clear()
	drawBoard(m.screen, layout, m.cells, m.food)
	if m.gaze != nil {
		drawGaze(m.screen, layout, *m.gaze)
	}
	if m.over != nil {
		mid := layout.frame.Y + layout.frame.H/2
		m.screen.DrawTextCentered(mid-1, fmt.Sprintf(" GAME OVER: %s ", m.over.Outcome), core.ColorYellow)
		m.screen.DrawTextCentered(mid, fmt.Sprintf(" score %d ", m.over.Score), core.ColorBrightWhite)
		m.screen.DrawTextCentered(mid+1, " press space for a new game ", core.ColorGray)
	}

	var b strings.Builder
	b.WriteString(hudStyle.Render(m.hud()))
	b.WriteString("\n")
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m TaskModel) hud() string {
	parts := []string{
		fmt.Sprintf("Game %d", m.game),
		fmt.Sprintf("Score %d", m.score),
	}
	if m.model != "" {
		parts = append(parts, "Model "+m.model)
	}
	if m.tracker {
		parts = append(parts, "Eye tracker on")
	}
	return strings.Join(parts, "  |  ")
}

func (m TaskModel) viewScrim() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(scrimStyle.Render(m.spinner.View() + " " + m.scrim))
	b.WriteString("\n")
	if m.aborted != nil {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  Game %d aborted (%s), score %d",
			m.aborted.Game, m.aborted.Reason, m.aborted.Score)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Ended reports whether the session closed before the user quit.
func (m TaskModel) Ended() bool {
	return m.ended
}

// Run plays sess in the local terminal until the user quits or the
// session ends. The session is closed before Run returns.
func Run(ctx context.Context, sess *session.Session, width, height int) error {
	model := NewTaskModel(sess, sess.Notifications(), sess.Config().BoardSize, width, height)

	runErr := make(chan error, 1)
	go func() {
		runErr <- sess.Run(ctx)
	}()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()

	sess.Close()
	if sErr := <-runErr; sErr != nil {
		return sErr
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
