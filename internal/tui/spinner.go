package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned by Spinner.Run when the user quits early.
var ErrCanceled = errors.New("canceled")

type spinnerModel struct {
	spinner  spinner.Model
	message  string
	done     bool
	err      error
	quitting bool
}

type spinnerDoneMsg struct {
	err error
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting || m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.message)
}

// Spinner shows an animated message on a terminal while work runs.
type Spinner struct {
	message string
	styles  *Styles
	out     io.Writer
}

// NewSpinner creates a spinner that renders to out.
func NewSpinner(message string, styles *Styles, out io.Writer) *Spinner {
	if styles == nil {
		styles = NewStyles()
	}
	return &Spinner{message: message, styles: styles, out: out}
}

// Run executes fn while the spinner animates. Quitting the spinner cancels
// the context passed to fn and returns ErrCanceled.
func (s *Spinner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.styles.Theme().Primary)

	m := spinnerModel{spinner: sp, message: s.message}
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(s.out))

	go func() {
		p.Send(spinnerDoneMsg{err: fn(ctx)})
	}()

	final, err := p.Run()
	switch {
	case errors.Is(err, tea.ErrInterrupted):
		return ErrCanceled
	case errors.Is(err, tea.ErrProgramKilled):
		return ctx.Err()
	case err != nil:
		return err
	}
	fm, ok := final.(spinnerModel)
	if !ok || fm.quitting {
		return ErrCanceled
	}
	if !fm.done {
		return ctx.Err()
	}
	return fm.err
}
