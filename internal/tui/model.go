package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/mcpchat/internal/config"
	apierrors "github.com/diogo/mcpchat/internal/errors"
	"github.com/diogo/mcpchat/internal/models"
	"github.com/diogo/mcpchat/internal/render"
)

const (
	minInputLines = 1
	maxInputLines = 6
)

// Animation tick message
type animationTickMsg time.Time

type (
	submitErrMsg struct {
		err error
	}
	copiedMsg struct {
		err error
	}
)

// ChatController is the part of conversation.Controller the TUI drives
type ChatController interface {
	Submit(ctx context.Context, raw string) (*models.PendingRequest, error)
	LastReply() (models.Message, bool)
	Clear()
}

// ChatOptions describes the session shown in the header and the quick
// prompts offered on the welcome screen.
type ChatOptions struct {
	Provider string
	BaseURL  string
	Prompts  []config.QuickPrompt
	Markdown render.Options

	// Copy writes text to the clipboard. Defaults to atotto/clipboard.
	Copy func(string) error

	// Context is passed to every Submit. Defaults to context.Background.
	Context context.Context
}

// Model represents the TUI state
type Model struct {
	controller ChatController
	opts       ChatOptions
	ctx        context.Context

	// UI components
	viewport viewport.Model
	textarea textarea.Model

	// State
	messages       []chatMessage
	transcript     string
	pending        string
	inputEnabled   bool
	status         models.ConnectionState
	promptIndex    int
	ready          bool
	err            error
	notice         string
	animationFrame int

	// Dimensions
	width  int
	height int
}

// chatMessage represents a message in the chat
type chatMessage struct {
	role     models.Role
	content  string
	rendered string
}

// NewChatModel creates a new chat TUI model
func NewChatModel(controller ChatController, opts ChatOptions) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about dashboards, error rates, logs..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.MaxHeight = maxInputLines
	ta.SetHeight(minInputLines)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Markdown.Style == "" {
		opts.Markdown = render.DefaultOptions()
	}

	return Model{
		controller:   controller,
		opts:         opts,
		ctx:          ctx,
		textarea:     ta,
		inputEnabled: true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.updateViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			return m.submit()

		case "tab":
			m.nextPrompt()
			return m, nil

		case "ctrl+y":
			return m, m.copyLastReply()

		case "ctrl+l":
			m.controller.Clear()
			m.messages = nil
			m.err = nil
			m.notice = ""
			m.updateViewport()
			return m, nil

		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if m.inputEnabled {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			m.resizeInput()
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case appendMsg:
		m.messages = append(m.messages, chatMessage{
			role:     msg.msg.Role,
			content:  msg.msg.Content,
			rendered: msg.rendered,
		})
		m.updateViewport()
		m.viewport.GotoBottom()

	case clearInputMsg:
		m.textarea.Reset()
		m.resizeInput()

	case inputEnabledMsg:
		m.inputEnabled = msg.enabled
		if msg.enabled {
			cmds = append(cmds, m.textarea.Focus())
		} else {
			m.textarea.Blur()
		}

	case pendingMsg:
		m.pending = msg.token
		m.err = nil
		m.notice = ""
		m.animationFrame = 0
		m.refreshViewport()
		m.viewport.GotoBottom()
		cmds = append(cmds, animationTick())

	case pendingDoneMsg:
		if m.pending == msg.token {
			m.pending = ""
			m.refreshViewport()
		}

	case statusMsg:
		m.status = msg.state

	case submitErrMsg:
		if !apierrors.IsEmptyInput(msg.err) && !errors.Is(msg.err, apierrors.ErrInputDisabled) {
			m.err = msg.err
		}

	case copiedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.notice = "Copied last reply to clipboard"
		}

	case animationTickMsg:
		if m.pending != "" {
			m.animationFrame++
			m.refreshViewport()
			cmds = append(cmds, animationTick())
		}
	}

	return m, tea.Batch(cmds...)
}

// submit hands the input to the controller. The controller answers
// through the view, so the call runs as a command off the event loop.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()
	switch strings.TrimSpace(input) {
	case "":
		return m, nil
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	}
	if !m.inputEnabled {
		return m, nil
	}

	controller, ctx := m.controller, m.ctx
	return m, func() tea.Msg {
		if _, err := controller.Submit(ctx, input); err != nil {
			return submitErrMsg{err: err}
		}
		return nil
	}
}

// nextPrompt fills the input with the next quick prompt
func (m *Model) nextPrompt() {
	if !m.inputEnabled || len(m.opts.Prompts) == 0 {
		return
	}
	p := m.opts.Prompts[m.promptIndex%len(m.opts.Prompts)]
	m.promptIndex = (m.promptIndex + 1) % len(m.opts.Prompts)
	m.textarea.SetValue(p.Prompt)
	m.resizeInput()
}

func (m Model) copyLastReply() tea.Cmd {
	reply, ok := m.controller.LastReply()
	if !ok {
		return func() tea.Msg { return copiedMsg{err: fmt.Errorf("no reply to copy yet")} }
	}
	copyFn := m.opts.Copy
	return func() tea.Msg {
		return copiedMsg{err: copyFn(reply.Content)}
	}
}

// resizeInput grows the textarea with its content, between one and six lines
func (m *Model) resizeInput() {
	lines := m.textarea.LineCount()
	if lines < minInputLines {
		lines = minInputLines
	}
	if lines > maxInputLines {
		lines = maxInputLines
	}
	if lines != m.textarea.Height() {
		m.textarea.SetHeight(lines)
		m.layout()
	}
}

// layout sizes the viewport and textarea for the window
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	headerHeight := 4                      // Header panel with border and margin
	inputHeight := 4 + m.textarea.Height() // Label, border and margin
	statusHeight := 2                      // Status bar with margin
	panelChrome := 4                       // Messages border and padding

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - panelChrome
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth-2, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth - 2
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{
		titleStyle.Render("✦ MCP Assistant"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.opts.Provider),
		hintStyle.Render("  •  "),
		m.renderStatus(),
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages area
	var messagesContent string
	if len(m.messages) == 0 && m.pending == "" {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input area
	var inputContent string
	if m.inputEnabled {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			hintStyle.Render("Waiting for the assistant..."),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatus renders the connection indicator
func (m Model) renderStatus() string {
	checked := !m.status.LastCheckedAt.IsZero()
	return statusStyle(checked, m.status.Connected).Render("● " + m.status.StatusText())
}

// renderWelcome renders the welcome screen and the quick prompts
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✦")
	title := welcomeTitleStyle.Width(width).Render("Monitoring Assistant")
	subtitle := welcomeStyle.Width(width).Render(
		"Ask about dashboards, error rates, logs, datasources or latency.\nConnected to " + m.opts.BaseURL,
	)

	parts := []string{"", icon, title, subtitle}
	if len(m.opts.Prompts) > 0 {
		parts = append(parts, hintStyle.Render("Press Tab to use a quick prompt"))
		for i, p := range m.opts.Prompts {
			marker := "  "
			if i == m.promptIndex%len(m.opts.Prompts) {
				marker = promptKeyStyle.Render("❯ ")
			}
			label := p.Label
			if label == "" {
				label = p.Name
			}
			parts = append(parts, marker+promptLabelStyle.Render(label))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderTypingIndicator renders the animated placeholder shown while a
// reply is pending
func (m Model) renderTypingIndicator() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	frame := m.animationFrame
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[frame%len(chars)])

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Assistant is typing ")
	return fmt.Sprintf("%s%s%s", spin, text, dots.String())
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Tab", "Prompt"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport rebuilds the transcript from the message list
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")

			rendered, err := render.Markdown(msg.content, m.opts.Markdown.WithWidth(bubbleWidth-4))
			if err != nil {
				rendered = msg.rendered
			}
			rendered = strings.TrimRight(rendered, "\n")

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.transcript = content.String()
	m.refreshViewport()
}

// refreshViewport sets the viewport content, appending the typing
// indicator while a reply is pending
func (m *Model) refreshViewport() {
	content := m.transcript
	if m.pending != "" {
		content += "\n" + m.renderTypingIndicator() + "\n"
	}
	m.viewport.SetContent(content)
}

// RunChat runs the chat TUI until the user quits. onStart is called once
// the program exists and view is attached, before the event loop starts.
func RunChat(m Model, view *ProgramView, onStart func()) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	view.Attach(p)
	defer view.Detach()

	if onStart != nil {
		onStart()
	}

	_, err := p.Run()
	return err
}
