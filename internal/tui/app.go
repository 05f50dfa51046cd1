// Package tui renders the floating mini-player and forwards key
// gestures to the playback session.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/corbett/minibar/internal/core"
	"github.com/corbett/minibar/internal/session"
	"github.com/corbett/minibar/internal/tui/components"
	"github.com/corbett/minibar/internal/tui/styles"
)

const (
	seekStepPercent = 5
	volumeStep      = 0.05
	defaultWidth    = 64
)

type tickMsg time.Time

// Model is the mini-player TUI model. All playback state lives in the
// session; the model only caches the latest snapshot for rendering.
type Model struct {
	session *session.Session
	player  *components.Player
	refresh time.Duration

	state    core.PlaybackState
	width    int
	quitting bool
}

// NewModel builds the TUI around an existing session.
func NewModel(s *session.Session, theme string, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = 250 * time.Millisecond
	}
	st := styles.New(theme)
	return Model{
		session: s,
		player:  components.NewPlayer(st),
		refresh: refresh,
		state:   s.Snapshot(),
		width:   defaultWidth,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.state = m.session.Snapshot()
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case " ":
		m.session.TogglePlay()

	case "n":
		m.session.Next()

	case "b", "p":
		m.session.Prev()

	case "left":
		m.session.SetProgress(m.state.ProgressPercent - seekStepPercent)

	case "right":
		m.session.SetProgress(m.state.ProgressPercent + seekStepPercent)

	case "+", "=":
		m.session.SetVolume(m.state.Volume + volumeStep)

	case "-":
		m.session.SetVolume(m.state.Volume - volumeStep)

	case "m":
		m.session.ToggleMute()

	case "s":
		m.session.ToggleShuffle()

	case "r":
		m.session.ToggleRepeat()

	case "h":
		m.session.Hide()
	}

	m.state = m.session.Snapshot()
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width - 2
	if width > defaultWidth {
		width = defaultWidth
	}
	if width < 30 {
		width = 30
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.player.Render(m.state, width),
		m.player.HelpLine(),
	)
}

// Run starts the TUI event loop and blocks until the user quits.
func Run(s *session.Session, theme string, refresh time.Duration) error {
	p := tea.NewProgram(NewModel(s, theme, refresh))
	_, err := p.Run()
	return err
}
