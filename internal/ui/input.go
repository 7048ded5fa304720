package ui

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// InputModel is the message compose box at the bottom of the right pane.
type InputModel struct {
	textarea textarea.Model
	focused  bool
	width    int
	height   int
}

func NewInputModel() InputModel {
	ta := textarea.New()
	ta.Placeholder = "Type a message…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	return InputModel{textarea: ta}
}

func (m InputModel) Init() tea.Cmd {
	return nil
}

func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		text := strings.TrimSpace(m.textarea.Value())
		if text == "" {
			return m, nil
		}
		m.textarea.Reset()
		return m, func() tea.Msg {
			return sendMessageMsg{text: text}
		}
	}

	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)

	// Any edit of the compose box counts as typing activity.
	if m.textarea.Value() != before {
		return m, tea.Batch(cmd, func() tea.Msg { return composePingMsg{} })
	}
	return m, cmd
}

func (m InputModel) View() string {
	contentH := m.height - 2
	if contentH < 0 {
		contentH = 0
	}

	content := truncateHeight(m.textarea.View(), contentH)

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(m.width).
		Height(m.height)
	style = applyBorderColor(style, m.focused)

	return style.Render(content)
}

func (m InputModel) SetSize(w, h int) InputModel {
	m.width = w
	m.height = h
	innerW := w - 2
	innerH := h - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}
	m.textarea.SetWidth(innerW)
	m.textarea.SetHeight(innerH)
	return m
}

func (m InputModel) SetFocused(f bool) InputModel {
	m.focused = f
	if f {
		m.textarea.Focus()
	} else {
		m.textarea.Blur()
	}
	return m
}

// Value returns the current compose text.
func (m InputModel) Value() string {
	return m.textarea.Value()
}
