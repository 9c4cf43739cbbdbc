package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/session"
)

// helpHeight is the number of rows reserved below the board.
const helpHeight = 3

// Model is the Bubble Tea model for one 2048 game.
type Model struct {
	session     *session.Session
	cfg         config.TUIConfig
	autoRestart bool
	keys        KeyMap
	help        help.Model
	anim        *Animator
	canvas      *Canvas
	logger      *log.Logger
	width       int
	height      int
	status      string
	quitting    bool
}

// NewModel creates a model driving s, sized to the given terminal.
func NewModel(s *session.Session, cfg config.Config, logger *log.Logger, width, height int) Model {
	if logger == nil {
		logger = log.Default()
	}
	h := help.New()
	h.Width = width

	return Model{
		session:     s,
		cfg:         cfg.TUI,
		autoRestart: cfg.Game.AutoRestart,
		keys:        DefaultKeyMap(),
		help:        h,
		anim:        NewAnimator(cfg.TUI.SlideTicks, cfg.TUI.PopTicks),
		canvas:      NewCanvas(width, height-helpHeight),
		logger:      logger,
		width:       width,
		height:      height,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.cfg.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas = NewCanvas(msg.Width, msg.Height-helpHeight)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Close()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.anim.Reset()
		m.session.Restart()
		m.status = "New game"
		return m, nil
	}

	dir, ok := m.keys.Direction(msg)
	if !ok {
		return m, nil
	}

	// Input is dropped while the previous move is on screen.
	if m.anim.Active() {
		return m, nil
	}

	turn, err := m.session.Move(dir)
	switch {
	case errors.Is(err, session.ErrNotReady):
		return m, nil
	case errors.Is(err, session.ErrGameOver):
		m.status = "No moves left"
		return m, nil
	case err != nil:
		m.logger.Error("move failed", "session", m.session.ID(), "direction", dir, "error", err)
		m.status = "Error: " + err.Error()
		return m, nil
	}

	m.status = ""
	if turn.Restarted {
		m.status = "New game"
		return m, nil
	}

	if !m.anim.Start(turn) && turn.Result.Moved {
		m.session.Settle()
	}
	return m, nil
}

// handleTick advances the animation and releases input when it ends.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.anim.Active() && m.anim.Advance() {
		m.session.Settle()
	}
	return m, tickCmd(m.cfg.TickRate)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	renderBoard(m.canvas, boardView{
		grid:        m.session.Grid(),
		stats:       m.session.Stats(),
		over:        m.session.Over() && !m.anim.Active(),
		autoRestart: m.autoRestart,
		anim:        m.anim,
		colors:      m.cfg,
		status:      m.status,
	})

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return m.canvas.Render() + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Session returns the session driven by the model.
func (m Model) Session() *session.Session {
	return m.session
}

// Run starts the Bubble Tea program for s.
func Run(s *session.Session, cfg config.Config, logger *log.Logger, width, height int) error {
	model := NewModel(s, cfg, logger, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
