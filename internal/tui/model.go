// Package tui is the terminal front end. It renders session events and turns
// keys into controller calls; it holds no session state of its own.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chemchat/internal/contextutil"
	"chemchat/internal/events"
	"chemchat/internal/params"
	"chemchat/internal/session"
	"chemchat/internal/transcript"
)

// Session is the controller surface the view drives.
type Session interface {
	Submit(ctx context.Context, text string) (*session.Pending, bool)
	ClearHistory(ctx context.Context) (bool, error)
	ExportHistory(ctx context.Context) (string, error)
	RefreshStatus(ctx context.Context) error
	CanSubmit() bool
}

// Options configure a Model.
type Options struct {
	Session Session
	Params  *params.Store
	// Context is passed to every controller call. Defaults to context.Background.
	Context context.Context
	// ModelID is shown in the header.
	ModelID string
	// MarkdownStyle is a glamour standard style name, or "auto".
	MarkdownStyle string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

type entry struct {
	role   string
	text   string
	sentAt time.Time
}

type tickMsg time.Time

// Model is the bubbletea model for the chat screen.
type Model struct {
	session Session
	params  *params.Store
	ctx     context.Context
	modelID string
	now     func() time.Time

	entries  []entry
	welcome  string
	vp       viewport.Model
	input    textinput.Model
	spin     spinner.Model
	toasts   toasts
	markdown *markdownRenderer

	busy          bool
	progressLabel string
	canSubmit     bool
	availability  string
	modelInfo     *events.ModelInfo
	selected      params.Param
	confirm       *confirmRequestMsg

	width  int
	height int
}

// New builds the chat screen.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.ModelID == "" {
		opts.ModelID = transcript.DefaultModelID
	}

	in := textinput.New()
	in.Placeholder = "Ask a chemistry question..."
	in.Prompt = "› "
	in.CharLimit = 4000
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		session:      opts.Session,
		params:       opts.Params,
		ctx:          opts.Context,
		modelID:      opts.ModelID,
		now:          opts.Clock,
		welcome:      transcript.WelcomeText,
		vp:           viewport.New(80, 20),
		input:        in,
		spin:         sp,
		markdown:     newMarkdownRenderer(opts.MarkdownStyle),
		canSubmit:    true,
		availability: "unknown",
		selected:     params.MaxLength,
		width:        80,
		height:       24,
	}
	m.refresh()
	return m
}

// Init starts the cursor blink and toast ticker and asks for the model status.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick(), m.refreshStatusCmd())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles keys, window sizes and session events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tickMsg:
		m.toasts.prune(m.now())
		return m, tick()

	case confirmRequestMsg:
		m.confirm = &msg
		return m, nil

	case eventMsg:
		return m.handleEvent(events.Event(msg))

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.handleConfirmKey(msg)
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	// Typed characters belong to the input, not the viewport's letter bindings.
	if k, ok := msg.(tea.KeyMsg); !ok || (k.Type != tea.KeyRunes && k.Type != tea.KeySpace) {
		m.vp, cmd = m.vp.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit, true
	case "enter":
		return m, m.submitCmd(m.input.Value()), true
	case "f2":
		m.selected = m.selected.Next()
		return m, nil, true
	case "f3":
		m.params.Step(m.selected, -1)
		return m, nil, true
	case "f4":
		m.params.Step(m.selected, 1)
		return m, nil, true
	case "f5":
		return m, m.refreshStatusCmd(), true
	case "f6":
		return m, m.exportCmd(), true
	case "f7":
		return m, m.clearCmd(), true
	}
	return m, nil, false
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer, answered bool
	switch msg.String() {
	case "y", "Y", "enter":
		answer, answered = true, true
	case "n", "N", "esc":
		answer, answered = false, true
	case "ctrl+c":
		m.confirm.reply <- false
		m.confirm = nil
		return m, tea.Quit
	}
	if answered {
		m.confirm.reply <- answer
		m.confirm = nil
	}
	return m, nil
}

func (m Model) handleEvent(e events.Event) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch e.Type {
	case events.TypeMessageAppended:
		m.entries = append(m.entries, entry{role: e.Role, text: e.Text, sentAt: e.SentAt})
		m.refresh()
	case events.TypeTranscriptCleared:
		m.entries = nil
		if e.Text != "" {
			m.welcome = e.Text
		}
		m.refresh()
	case events.TypeInputAccepted:
		m.input.Reset()
	case events.TypeStateChanged:
		m.busy = e.State == session.Awaiting.String()
		m.canSubmit = e.CanSubmit
	case events.TypeAvailabilityChanged:
		m.availability = e.Availability
		m.modelInfo = e.ModelInfo
		m.canSubmit = !m.busy && e.Availability != "unavailable"
	case events.TypeProgress:
		m.progressLabel = e.Label
		if e.Progress {
			m.busy = true
			cmd = m.spin.Tick
		}
	case events.TypeNotice:
		m.toasts.add(e.Notice, e.Level, m.now())
	}
	return m, cmd
}

func (m Model) submitCmd(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		if _, ok := s.Submit(ctx, text); !ok {
			contextutil.LoggerFromContext(ctx).DebugContext(ctx, "submission ignored")
		}
		return nil
	}
}

func (m Model) refreshStatusCmd() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		if err := s.RefreshStatus(ctx); err != nil {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "status refresh failed", "error", err)
		}
		return nil
	}
}

func (m Model) exportCmd() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		if _, err := s.ExportHistory(ctx); err != nil {
			contextutil.LoggerFromContext(ctx).InfoContext(ctx, "export not written", "error", err)
		}
		return nil
	}
}

func (m Model) clearCmd() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		if _, err := s.ClearHistory(ctx); err != nil {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "clear failed", "error", err)
		}
		return nil
	}
}

// layout sizes the viewport to whatever the header, footer and input leave.
func (m *Model) layout() {
	m.input.Width = max(m.width-4, 10)
	reserved := lipgloss.Height(m.headerView()) + lipgloss.Height(m.footerView()) + maxToasts
	m.vp.Width = m.width
	m.vp.Height = max(m.height-reserved, 3)
	m.refresh()
}

// refresh re-renders the transcript and scrolls to the latest message.
func (m *Model) refresh() {
	if len(m.entries) == 0 {
		m.vp.SetContent(mutedStyle.Render(m.welcome))
		m.vp.GotoTop()
		return
	}
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderEntry(e))
	}
	m.vp.SetContent(b.String())
	m.vp.GotoBottom()
}

func (m *Model) renderEntry(e entry) string {
	stamp := mutedStyle.Render(e.sentAt.Local().Format("15:04"))
	switch e.role {
	case string(transcript.RoleUser):
		return fmt.Sprintf("%s %s\n%s", userLabel.Render("You"), stamp, e.text)
	case string(transcript.RoleAssistant):
		return fmt.Sprintf("%s %s\n%s", assistantLabel.Render("ChemLLM"), stamp, m.markdown.render(e.text, m.vp.Width-2))
	default:
		return fmt.Sprintf("%s %s\n%s", errorLabel.Render("Error"), stamp, errorText.Render(e.text))
	}
}

func (m Model) headerView() string {
	dot := lipgloss.NewStyle().Foreground(availabilityColor(m.availability)).Render("●")
	line := fmt.Sprintf("%s  %s %s", titleStyle.Render("ChemLLM Chat"), dot, m.availability)
	if m.modelInfo != nil {
		details := []string{m.modelInfo.ModelName}
		if m.modelInfo.Device != "" {
			details = append(details, m.modelInfo.Device)
		}
		if m.modelInfo.Error != "" {
			details = append(details, m.modelInfo.Error)
		}
		line += mutedStyle.Render("  " + strings.Join(details, " · "))
	} else {
		line += mutedStyle.Render("  " + m.modelID)
	}
	return line + "\n" + m.paramsView()
}

func (m Model) paramsView() string {
	snap := m.params.Snapshot()
	render := func(p params.Param, value string) string {
		text := fmt.Sprintf("%s %s", p, value)
		if p == m.selected {
			return selectedParam.Render(text)
		}
		return text
	}
	return mutedStyle.Render(strings.Join([]string{
		render(params.MaxLength, fmt.Sprintf("%d", snap.MaxLength)),
		render(params.Temperature, fmt.Sprintf("%.2f", snap.Temperature)),
		render(params.TopP, fmt.Sprintf("%.2f", snap.TopP)),
	}, " · "))
}

func (m Model) footerView() string {
	var status string
	switch {
	case m.confirm != nil:
		status = confirmStyle.Render(m.confirm.prompt + " [y/n]")
	case m.busy:
		label := m.progressLabel
		if label == "" {
			label = session.ProgressLabel
		}
		status = m.spin.View() + " " + label
	case !m.canSubmit:
		status = errorText.Render("Model unavailable. Press F5 to check again.")
	default:
		status = m.input.View()
	}
	help := mutedStyle.Render("enter send · f2 param · f3/f4 -/+ · f5 status · f6 export · f7 clear · esc quit")
	return panelStyle.Width(max(m.width-2, 10)).Render(status) + "\n" + help
}

// View renders the screen.
func (m Model) View() string {
	parts := []string{m.headerView(), m.vp.View()}
	if m.toasts.len() > 0 {
		parts = append(parts, m.toasts.view(m.width))
	}
	parts = append(parts, m.footerView())
	return strings.Join(parts, "\n")
}
