// Package tui is the terminal front end for a board session.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"bgrid/internal/boardview"
	"bgrid/internal/grid"
	"bgrid/internal/session"
	"bgrid/internal/submission"
)

type focus int

const (
	focusGrid focus = iota
	focusEmail
)

// submitDoneMsg carries the result of one submit back into the update loop.
type submitDoneMsg struct {
	result session.SubmitResult
	err    error
}

var (
	cellStyle = lipgloss.NewStyle().
			Width(5).
			Height(1).
			Align(lipgloss.Center).
			Border(lipgloss.NormalBorder())
	activeCellStyle = cellStyle.
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#2B6CB0"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D69E2E"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#718096"))
)

// Model is the Bubble Tea model for one session.
type Model struct {
	sess      *session.Session
	submitter submission.Submitter
	timeout   time.Duration
	logger    *zap.Logger
	input     textinput.Model
	focus     focus
	lastErr   error
}

// New returns a model driving sess. Submits time out after timeout.
func New(sess *session.Session, submitter submission.Submitter, timeout time.Duration, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	input := textinput.New()
	input.Placeholder = "type email"
	input.CharLimit = 254
	input.Width = 32
	return Model{
		sess:      sess,
		submitter: submitter,
		timeout:   timeout,
		logger:    logger,
		input:     input,
		focus:     focusGrid,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		m.lastErr = msg.err
		if msg.err != nil {
			m.logger.Warn("submit failed", zap.String("session", m.sess.ID), zap.Error(msg.err))
		} else {
			m.logger.Info("submit",
				zap.String("session", m.sess.ID),
				zap.Bool("accepted", msg.result.Outcome.Accepted),
				zap.Bool("applied", msg.result.Applied))
		}
		m.input.SetValue(m.sess.Snapshot().Email)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.focus == focusEmail {
			return m.updateEmail(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		m.sess.Move(grid.Up)
	case "down", "j":
		m.sess.Move(grid.Down)
	case "left", "h":
		m.sess.Move(grid.Left)
	case "right", "l":
		m.sess.Move(grid.Right)
	case "r":
		m.sess.Reset()
		m.input.SetValue("")
		m.lastErr = nil
	case "tab", "e":
		m.focus = focusEmail
		return m, m.input.Focus()
	case "enter":
		return m, m.submit()
	}
	return m, nil
}

func (m Model) updateEmail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyEsc:
		m.focus = focusGrid
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.sess.SetEmail(m.input.Value())
	return m, cmd
}

// submit runs the request off the update loop; the verdict comes back as a
// submitDoneMsg.
func (m Model) submit() tea.Cmd {
	sess, sub, timeout := m.sess, m.submitter, m.timeout
	sess.SetEmail(m.input.Value())
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := sess.Submit(ctx, sub)
		return submitDoneMsg{result: res, err: err}
	}
}

func (m Model) View() string {
	b := boardview.FromSnapshot(m.sess.Snapshot())
	var sb strings.Builder

	sb.WriteString(b.Coordinates + "\n")
	sb.WriteString(b.StepsText + "\n\n")

	for _, row := range b.Rows() {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			if c.Active {
				cells = append(cells, activeCellStyle.Render(c.Label))
			} else {
				cells = append(cells, cellStyle.Render(c.Label))
			}
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}

	sb.WriteString("\n" + messageStyle.Render(b.Message) + "\n")
	if b.Submitting {
		sb.WriteString("submitting...\n")
	} else if m.lastErr != nil {
		sb.WriteString(helpStyle.Render("could not reach the server, try again") + "\n")
	}
	sb.WriteString("\n" + m.input.View() + "\n\n")

	help := "arrows/hjkl move · r reset · tab email · enter submit · q quit"
	if m.focus == focusEmail {
		help = "type email · enter submit · tab/esc back to grid"
	}
	sb.WriteString(helpStyle.Render(help))
	return sb.String()
}
