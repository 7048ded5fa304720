package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/connectly-app/connectly-tui/internal/domain"
)

// MessageViewModel displays the active conversation using a viewport,
// rendering markdown-looking messages through glamour.
type MessageViewModel struct {
	viewport   viewport.Model
	renderer   *glamour.TermRenderer
	focused    bool
	width      int
	height     int
	title      string
	typingName string
	loading    bool
	errText    string
	messages   []domain.Message
	selfName   string
	peerName   string
}

func NewMessageViewModel(selfName string) MessageViewModel {
	vp := viewport.New()
	return MessageViewModel{viewport: vp, selfName: selfName}
}

func (m MessageViewModel) Update(msg tea.Msg) (MessageViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j":
			m.viewport.ScrollDown(1)
			return m, nil
		case "k":
			m.viewport.ScrollUp(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m MessageViewModel) View() string {
	contentH := m.height - 2
	if contentH < 0 {
		contentH = 0
	}

	content := truncateHeight(m.viewport.View(), contentH)

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(m.width).
		Height(m.height)
	style = applyBorderColor(style, m.focused)

	return style.Render(content)
}

func (m MessageViewModel) SetSize(w, h int) MessageViewModel {
	m.width = w
	m.height = h
	// Viewport inner: subtract border (2)
	vpW := w - 2
	vpH := h - 2
	if vpW < 1 {
		vpW = 1
	}
	if vpH < 1 {
		vpH = 1
	}
	m.viewport.SetWidth(vpW)
	m.viewport.SetHeight(vpH)
	m = m.recreateRenderer()
	m = m.renderContent()
	return m
}

func (m MessageViewModel) SetFocused(f bool) MessageViewModel {
	m.focused = f
	return m
}

func (m MessageViewModel) SetConversation(title, peerName string) MessageViewModel {
	m.title = title
	m.peerName = peerName
	m.errText = ""
	return m
}

func (m MessageViewModel) SetTyping(typing bool) MessageViewModel {
	if typing {
		m.typingName = m.peerName
	} else {
		m.typingName = ""
	}
	return m
}

func (m MessageViewModel) SetLoading(v bool) MessageViewModel {
	m.loading = v
	return m.renderContent()
}

func (m MessageViewModel) SetError(text string) MessageViewModel {
	m.errText = text
	return m.renderContent()
}

func (m MessageViewModel) SetMessages(msgs []domain.Message) MessageViewModel {
	m.messages = msgs
	m.loading = false
	m = m.renderContent()
	return m
}

func (m MessageViewModel) recreateRenderer() MessageViewModel {
	wordWrap := m.viewport.Width() - 2
	if wordWrap < 10 {
		wordWrap = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wordWrap),
	)
	if err == nil {
		m.renderer = r
	}
	return m
}

func (m MessageViewModel) renderContent() MessageViewModel {
	var b strings.Builder

	if m.loading {
		b.WriteString(typingStyle.Render("loading history…"))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(typingStyle.Render(m.errText))
		b.WriteString("\n")
	}

	var currentDate string
	for _, msg := range m.messages {
		msgDate := msg.Timestamp.Format("January 2, 2006")
		if msgDate != currentDate {
			if currentDate != "" {
				b.WriteString("\n")
			}
			sep := timeStyle.Render(fmt.Sprintf("───── %s ─────", msgDate))
			b.WriteString(sep + "\n")
			currentDate = msgDate
		}

		ts := timeStyle.Render(msg.Timestamp.Format("15:04"))

		var name string
		if msg.Out {
			name = outNameStyle.Render(m.selfName + ":")
		} else {
			name = inNameStyle.Render(m.peerName + ":")
		}

		text := msg.Content
		if looksLikeMarkdown(text) {
			fmt.Fprintf(&b, "%s %s\n%s\n\n", ts, name, m.renderMarkdown(text))
		} else if strings.Contains(text, "\n") {
			fmt.Fprintf(&b, "%s %s\n%s\n\n", ts, name, text)
		} else {
			fmt.Fprintf(&b, "%s %s %s%s\n", ts, name, text, m.ticks(msg))
		}
	}

	if m.typingName != "" {
		b.WriteString("\n")
		b.WriteString(typingStyle.Render(fmt.Sprintf("%s is typing…", m.typingName)))
	}

	// Wrap content to viewport width so long lines don't overflow
	wrapped := lipgloss.NewStyle().Width(m.viewport.Width()).Render(b.String())
	m.viewport.SetContent(wrapped)
	m.viewport.GotoBottom()
	return m
}

// ticks renders the delivery marker for outgoing messages.
func (m MessageViewModel) ticks(msg domain.Message) string {
	if !msg.Out {
		return ""
	}
	switch msg.Status {
	case domain.StatusRead:
		return " " + readStyle.Render("✓✓")
	case domain.StatusDelivered:
		return " " + tickStyle.Render("✓✓")
	default:
		return " " + tickStyle.Render("✓")
	}
}

func (m MessageViewModel) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	r, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	r = strings.TrimRight(r, "\n ")
	r = strings.TrimLeft(r, "\n")
	return r
}

// looksLikeMarkdown reports whether the message is worth running
// through glamour: fenced code, emphasis or inline code markers.
func looksLikeMarkdown(text string) bool {
	if strings.Contains(text, "```") {
		return true
	}
	for _, marker := range []string{"**", "__", "`", "# "} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
