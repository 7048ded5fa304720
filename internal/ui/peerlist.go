package ui

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// peerItem implements list.Item for the conversation sidebar.
type peerItem struct {
	peerID int64
	name   string
	unread int
	online bool
	typing bool
}

func (i peerItem) FilterValue() string { return i.name }

// peerItemDelegate renders a peerItem in the list.
type peerItemDelegate struct{}

func (d peerItemDelegate) Height() int                             { return 2 }
func (d peerItemDelegate) Spacing() int                            { return 1 }
func (d peerItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d peerItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(peerItem)
	if !ok {
		return
	}

	title := pi.name
	if pi.unread > 0 {
		title = fmt.Sprintf("%s (%d)", pi.name, pi.unread)
	}

	var desc string
	switch {
	case pi.typing:
		desc = typingStyle.Render("typing…")
	case pi.online:
		desc = onlineStyle.Render("● online")
	default:
		desc = offlineStyle.Render("○ offline")
	}

	isSelected := index == m.Index()
	// Account for the cursor prefix ("  " or "> ") in available width.
	contentWidth := m.Width() - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	titleStyle := lipgloss.NewStyle().MaxWidth(contentWidth).MaxHeight(1)
	descStyle := lipgloss.NewStyle().MaxWidth(contentWidth).MaxHeight(1)

	cursor := "  "
	if isSelected {
		cursor = "> "
		titleStyle = titleStyle.Foreground(highlightColor).Bold(true)
	}
	if pi.unread > 0 {
		titleStyle = titleStyle.Bold(true)
	}

	fmt.Fprintf(w, "%s%s\n%s%s", cursor, titleStyle.Render(title), "  ", descStyle.Render(desc))
}

// PeerListModel wraps bubbles/list for the conversation sidebar.
type PeerListModel struct {
	list    list.Model
	focused bool
	width   int
	height  int
}

func NewPeerListModel() PeerListModel {
	delegate := peerItemDelegate{}
	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return PeerListModel{list: l}
}

func (m PeerListModel) Update(msg tea.Msg) (PeerListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Only handle enter for selection when not filtering.
		if msg.String() == "enter" && m.list.FilterState() != list.Filtering {
			if item, ok := m.list.SelectedItem().(peerItem); ok {
				return m, func() tea.Msg {
					return PeerSelectedMsg{PeerID: item.peerID}
				}
			}
			return m, nil
		}
	}

	// Delegate all other keys (including j/k and filter '/') to the list
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PeerListModel) View() string {
	contentH := m.height - 2
	if contentH < 0 {
		contentH = 0
	}

	content := truncateHeight(m.list.View(), contentH)

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(m.width).
		Height(m.height)
	style = applyBorderColor(style, m.focused)

	return style.Render(content)
}

func (m PeerListModel) WithItems(items []peerItem) PeerListModel {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	m.list.SetItems(listItems)
	return m
}

func (m PeerListModel) SetSize(w, h int) PeerListModel {
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
	m.list.SetSize(innerW, innerH)
	return m
}

func (m PeerListModel) SetFocused(f bool) PeerListModel {
	m.focused = f
	return m
}
