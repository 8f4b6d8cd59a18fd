// Package app is the interactive to-do screen: the fetched list and the
// creation form, both driven through the data controller.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pocketlist/pocketlist/internal/data"
	"github.com/pocketlist/pocketlist/internal/gateway"
	"github.com/pocketlist/pocketlist/internal/models"
	"github.com/pocketlist/pocketlist/internal/picker"
	"github.com/pocketlist/pocketlist/internal/richtext"
	"github.com/pocketlist/pocketlist/internal/state"
	"github.com/pocketlist/pocketlist/internal/tui"
	"github.com/pocketlist/pocketlist/internal/tui/empty"
)

const title = "Your Todos"

const (
	focusName = iota
	focusDescription
	focusCount
)

// Options wires the model to the rest of the app.
type Options struct {
	Controller *data.Controller
	Form       *state.Form
	List       *state.List
	Picker     *picker.Picker
	// Notifier enables live refresh; nil disables it.
	Notifier gateway.Notifier
	Styles   *tui.Styles
	Logger   *slog.Logger
	// StartDir is where the photo picker opens.
	StartDir string
}

type fetchedMsg struct{ err error }

type submittedMsg struct{ err error }

type changedMsg struct{}

type watchStoppedMsg struct{}

// Model is the bubbletea model for the to-do screen.
type Model struct {
	ctx      context.Context
	ctrl     *data.Controller
	form     *state.Form
	list     *state.List
	picker   *picker.Picker
	notifier gateway.Notifier
	styles   *tui.Styles
	logger   *slog.Logger

	listKeys listKeyMap
	formKeys formKeyMap
	help     help.Model

	name  textinput.Model
	desc  textarea.Model
	focus int

	files    filepicker.Model
	picking  bool
	startDir string

	spinner  spinner.Model
	fetching bool
	fetched  bool
	refetch  bool
	changes  <-chan struct{}

	cursor int
	status string
	// notice is a file browser hint, such as a disabled file being picked.
	notice string

	width, height int
	rendered      map[string]string
}

// New creates the model. Nothing is fetched until Init.
func New(ctx context.Context, opts Options) *Model {
	styles := opts.Styles
	if styles == nil {
		styles = tui.NewStyles()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	startDir := opts.StartDir
	if startDir == "" {
		startDir, _ = os.Getwd()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Theme().Primary)

	name := textinput.New()
	name.Placeholder = "What needs doing?"
	name.Prompt = ""

	desc := textarea.New()
	desc.Placeholder = "Details (Markdown)"
	desc.ShowLineNumbers = false
	desc.SetHeight(4)

	return &Model{
		ctx:      ctx,
		ctrl:     opts.Controller,
		form:     opts.Form,
		list:     opts.List,
		picker:   opts.Picker,
		notifier: opts.Notifier,
		styles:   styles,
		logger:   logger,
		listKeys: defaultListKeyMap(),
		formKeys: defaultFormKeyMap(),
		help:     help.New(),
		name:     name,
		desc:     desc,
		startDir: startDir,
		spinner:  s,
		rendered: make(map[string]string),
	}
}

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrInterrupted) || (errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.startFetch()}
	if m.notifier != nil {
		ch, err := m.notifier.Changes(m.ctx)
		if err != nil {
			m.logger.Warn("live refresh unavailable", "err", err)
		} else {
			m.changes = ch
			cmds = append(cmds, m.waitForChange())
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	// Controller failures are logged by the controller and leave the view
	// as it was: a failed fetch keeps the old list, a failed submit keeps
	// the form open with its draft.
	case fetchedMsg:
		m.fetching = false
		m.fetched = true
		if msg.err == nil {
			m.rendered = make(map[string]string)
			m.clampCursor()
		}
		if m.refetch {
			m.refetch = false
			return m, m.startFetch()
		}
		return m, nil

	case submittedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.status = "Todo saved"
		m.resetInputs()
		m.cursor = max(m.list.Len()-1, 0)
		return m, nil

	case changedMsg:
		next := m.waitForChange()
		if m.fetching {
			m.refetch = true
			return m, next
		}
		return m, tea.Batch(next, m.startFetch())

	case watchStoppedMsg:
		m.changes = nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if m.picking {
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return m, cmd
	}
	if m.form.UI().ShowForm {
		return m, m.updateInputs(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.picking {
		return m.handlePickerKey(msg)
	}
	if m.form.UI().ShowForm {
		return m.handleFormKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.listKeys.Quit):
		return tea.Quit
	case key.Matches(msg, m.listKeys.New):
		m.form.Open()
		m.resetInputs()
		m.status = ""
		m.notice = ""
		return m.focusField(focusName)
	case key.Matches(msg, m.listKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.listKeys.Down):
		if m.cursor < m.list.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.listKeys.Refresh):
		if !m.fetching {
			m.status = ""
			return m.startFetch()
		}
	}
	return nil
}

// handleFormKey routes keys while the form is open. Submitting again while a
// submit is in flight is allowed.
func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		m.form.Cancel()
		m.resetInputs()
		m.notice = ""
		return nil
	case key.Matches(msg, m.formKeys.Next):
		return m.focusField((m.focus + 1) % focusCount)
	case key.Matches(msg, m.formKeys.Photo):
		return m.openPicker()
	case key.Matches(msg, m.formKeys.Submit):
		m.syncDraft()
		m.notice = ""
		m.status = ""
		return m.submit()
	}
	return m.updateInputs(msg)
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		m.picking = false
		return nil
	}

	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)

	if ok, path := m.files.DidSelectFile(msg); ok {
		m.picking = false
		m.attach(path)
		return cmd
	}
	if ok, path := m.files.DidSelectDisabledFile(msg); ok {
		m.notice = filepath.Base(path) + " is not a supported photo type"
	}
	return cmd
}

func (m *Model) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = m.picker.Config().AllowedTypes
	fp.CurrentDirectory = m.startDir
	fp.ShowHidden = false
	fp.AutoHeight = false
	fp.Height = max(m.height-16, 5)
	m.files = fp
	m.picking = true
	m.notice = ""
	return m.files.Init()
}

// attach hands the browsed path to the picker. A rejected file is logged by
// the picker and leaves the form as it was.
func (m *Model) attach(path string) {
	if err := m.picker.ChoosePhotoFrom(m.ctx, picker.PathSource{Path: path}); err != nil {
		return
	}
	m.startDir = filepath.Dir(path)
}

func (m *Model) focusField(i int) tea.Cmd {
	m.focus = i
	if i == focusName {
		m.desc.Blur()
		return m.name.Focus()
	}
	m.name.Blur()
	return m.desc.Focus()
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusName {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	m.syncDraft()
	return cmd
}

// syncDraft pushes edited input values into the form holder.
func (m *Model) syncDraft() {
	draft := m.form.Draft()
	if v := m.name.Value(); v != draft.Name {
		m.form.UpdateField(state.FieldName, v)
	}
	if v := m.desc.Value(); v != draft.Description {
		m.form.UpdateField(state.FieldDescription, v)
	}
}

func (m *Model) resetInputs() {
	m.name.Reset()
	m.desc.Reset()
	m.focus = focusName
}

func (m *Model) startFetch() tea.Cmd {
	m.fetching = true
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return fetchedMsg{err: ctrl.FetchAll(ctx)}
	}
}

func (m *Model) submit() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return submittedMsg{err: ctrl.AddTodo(ctx)}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	ch := m.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watchStoppedMsg{}
		}
		return changedMsg{}
	}
}

func (m *Model) setSize(w, h int) {
	m.width, m.height = w, h
	inner := max(w-8, 20)
	m.name.Width = inner
	m.desc.SetWidth(inner)
	m.help.Width = w
	m.rendered = make(map[string]string)
}

func (m *Model) clampCursor() {
	n := m.list.Len()
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) textWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width-16, 10)
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.RenderTitle(title, m.subtitle()))
	b.WriteString("\n")

	if m.form.UI().ShowForm {
		b.WriteString(m.viewForm())
	} else {
		b.WriteString(m.viewList())
	}

	if s := m.viewStatus(); s != "" {
		b.WriteString("\n" + s)
	}

	bindings := m.listKeys.ShortHelp()
	if m.form.UI().ShowForm {
		bindings = m.formKeys.ShortHelp()
	}
	b.WriteString("\n" + m.styles.Help.Render(m.help.ShortHelpView(bindings)))
	return b.String()
}

func (m *Model) subtitle() string {
	if !m.list.Loaded() {
		return ""
	}
	n := m.list.Len()
	s := fmt.Sprintf("%d todos", n)
	if n == 1 {
		s = "1 todo"
	}
	if m.fetching {
		s += " · refreshing"
	}
	return s
}

func (m *Model) viewList() string {
	if !m.list.Loaded() && !m.fetched {
		return m.spinner.View() + " " + empty.Loading().Body + "\n"
	}

	items := m.list.Items()
	if len(items) == 0 {
		return m.viewMessage(empty.NoTodos())
	}

	var b strings.Builder
	for i, it := range items {
		b.WriteString(m.viewRow(i, it))
		b.WriteString("\n")
		if i == m.cursor && it.Description != "" {
			b.WriteString(m.renderDescription(it))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) viewRow(i int, it models.Item) string {
	name := it.Name
	if name == "" {
		name = "(untitled)"
	}
	name = runewidth.Truncate(name, m.textWidth(), "…")

	prefix := "  "
	style := m.styles.Body
	if !it.Saved() {
		style = m.styles.Pending
	}
	if i == m.cursor {
		prefix = m.styles.Cursor.Render("> ")
		style = m.styles.Selected
	}

	line := prefix + style.Render(name)
	if it.HasImage() {
		line += m.styles.Muted.Render(" [photo]")
	}
	return line
}

// renderDescription renders Markdown once per item and width.
func (m *Model) renderDescription(it models.Item) string {
	cacheKey := it.ID + "\x00" + it.Description
	if out, ok := m.rendered[cacheKey]; ok {
		return out
	}
	out, err := richtext.RenderMarkdown(it.Description, m.textWidth())
	if err != nil || out == "" {
		out = m.styles.Muted.Render(it.Description)
	}
	out = lipgloss.NewStyle().PaddingLeft(4).Render(out)
	m.rendered[cacheKey] = out
	return out
}

func (m *Model) viewMessage(msg empty.Message) string {
	var b strings.Builder
	if msg.Title != title {
		b.WriteString(m.styles.Bold.Render(msg.Title) + "\n")
	}
	b.WriteString(m.styles.Body.Render(msg.Body) + "\n")
	for _, h := range msg.Hints {
		b.WriteString(m.styles.Muted.Render("  "+h) + "\n")
	}
	return b.String()
}

func (m *Model) viewForm() string {
	var b strings.Builder
	b.WriteString(m.styles.Bold.Render("New todo") + "\n\n")
	b.WriteString(m.styles.Muted.Render("Name") + "\n")
	b.WriteString(m.name.View() + "\n\n")
	b.WriteString(m.styles.Muted.Render("Description") + "\n")
	b.WriteString(m.desc.View() + "\n\n")

	ui := m.form.UI()
	switch {
	case m.picking:
		b.WriteString(m.files.View())
	case ui.ImageURI != "":
		name := ui.ImageURI
		if p, err := picker.PathFromURI(ui.ImageURI); err == nil {
			name = filepath.Base(p)
		}
		b.WriteString(m.styles.Success.Render("Photo: " + name))
	default:
		b.WriteString(m.styles.Muted.Render("No photo (ctrl+p to attach)"))
	}

	if m.form.Phase() == state.PhaseSubmitting {
		b.WriteString("\n\n" + m.spinner.View() + " Saving…")
	}
	return m.styles.Form.Render(b.String())
}

func (m *Model) viewStatus() string {
	switch {
	case m.notice != "":
		return m.styles.RenderStatus(false, m.notice)
	case m.status != "":
		return m.styles.RenderStatus(true, m.status)
	}
	return ""
}
