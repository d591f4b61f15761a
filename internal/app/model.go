package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/khedut-saathi/khedut/internal/update"
	"github.com/khedut-saathi/khedut/ui/components"
)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case update.CoreEventMsg:
		// Handle core events and continue listening
		cmd = tea.Batch(update.HandleCoreEvent(&m.appModel, msg), m.dispatcher.ListenForCoreEvents())
	case tea.WindowSizeMsg:
		update.HandleWindowSizeMsg(&m.appModel, msg)
		m.resizeMarkdown(msg.Width)
	default:
		eventBus := m.dispatcher.GetEventBus()
		chatReady := m.appModel.ChatServiceReady
		cmd = update.HandleUpdateWithEventBus(&m.appModel, msg, eventBus, chatReady)
	}

	m.refreshViewport()
	return m, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder
	width := m.appModel.Width

	b.WriteString(components.RenderHeader(m.appModel.Session, width))
	b.WriteString("\n")
	b.WriteString(m.appModel.Viewport.View())
	b.WriteString("\n")
	if notice := components.RenderNotice(m.appModel.Notice, width); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n")
	}
	b.WriteString(components.RenderInput(m.appModel.Input, m.appModel.Pending, width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, width))

	return b.String()
}

func (m *AppModel) resizeMarkdown(width int) {
	md, err := components.NewMarkdown(width)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", zap.Error(err))
		return
	}
	m.markdown = md
}

// refreshViewport re-renders the conversation and follows new output
// unless the user has scrolled up.
func (m *AppModel) refreshViewport() {
	vp := &m.appModel.Viewport
	followBottom := vp.AtBottom()

	content := components.RenderConversation(
		m.appModel.Program,
		m.appModel.Rows,
		m.appModel.Spinner.View(),
		m.markdown,
		vp.Width,
	)
	vp.SetContent(content)

	if followBottom {
		vp.GotoBottom()
	}
}
