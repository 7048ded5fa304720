package ui

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/connectly-app/connectly-tui/internal/api"
	"github.com/connectly-app/connectly-tui/internal/chat"
	"github.com/connectly-app/connectly-tui/internal/domain"
	"github.com/connectly-app/connectly-tui/internal/session"
	"github.com/connectly-app/connectly-tui/internal/state"
)

type focusTarget int

const (
	focusPeerList focusTarget = iota
	focusMessages
	focusInput
)

const peerListWidth = 36

// inputRenderedHeight is the total height of the input box (4 inner + 2 border).
const inputRenderedHeight = 6

// Model is the root Bubble Tea model.
type Model struct {
	peerList    PeerListModel
	messageView MessageViewModel
	input       InputModel
	status      statusModel
	help        HelpModel

	store    *state.Store
	presence *state.PresenceTracker
	typing   *state.TypingTracker
	api      *api.Client
	manager  *chat.Manager
	pipeline *chat.SendPipeline
	sess     *session.Session

	peers []domain.Peer

	focus  focusTarget
	width  int
	height int
}

// NewModel creates the root model with all sub-components.
func NewModel(store *state.Store, presence *state.PresenceTracker, typing *state.TypingTracker,
	client *api.Client, manager *chat.Manager, pipeline *chat.SendPipeline, sess *session.Session) Model {
	m := Model{
		peerList:    NewPeerListModel(),
		messageView: NewMessageViewModel(sess.FullName),
		input:       NewInputModel(),
		status:      newStatusModel(),
		help:        NewHelpModel(),
		store:       store,
		presence:    presence,
		typing:      typing,
		api:         client,
		manager:     manager,
		pipeline:    pipeline,
		sess:        sess,
		focus:       focusPeerList,
	}
	m.status = m.status.SetUserName(sess.FullName)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.input.Init(),
		m.loadPeersCmd(),
		clockTickCmd(),
	)
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg { return clockTickMsg{} })
}

func (m Model) loadPeersCmd() tea.Cmd {
	client := m.api
	return func() tea.Msg {
		peers, err := client.FindPeople(context.Background())
		if err != nil {
			return PeersErrorMsg{Err: err}
		}
		return PeersLoadedMsg{Peers: peers}
	}
}

func (m Model) activateCmd(peerID int64) tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		if err := manager.Activate(context.Background(), peerID); err != nil {
			return ActivateErrorMsg{PeerID: peerID, Err: err}
		}
		return nil
	}
}

func (m Model) historyCmd(peerID int64) tea.Cmd {
	client := m.api
	return func() tea.Msg {
		history, err := client.History(context.Background(), peerID)
		if err != nil {
			return HistoryErrorMsg{PeerID: peerID, Err: err}
		}
		return HistoryLoadedMsg{PeerID: peerID, Messages: history}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.distributeSize()
		return m, nil

	case StoreUpdatedMsg:
		m = m.refreshFromStore()
		return m, nil

	case PeersLoadedMsg:
		m.peers = msg.Peers
		m = m.refreshFromStore()
		return m, nil

	case PeersErrorMsg:
		m.status = m.status.SetError(fmt.Sprintf("People: %v", msg.Err))
		return m, nil

	case PeerSelectedMsg:
		m.store.SetActivePeer(msg.PeerID)
		m.typing.Clear()
		m.pipeline.ResetTyping()

		name := m.peerName(msg.PeerID)
		m.messageView = m.messageView.SetConversation(name, name)
		m.messageView = m.messageView.SetMessages(nil)
		m.messageView = m.messageView.SetLoading(true)
		m.status = m.status.SetPeer(name, "")

		m.focus = focusInput
		m = m.updateFocus()

		cmds = append(cmds, m.activateCmd(msg.PeerID), m.historyCmd(msg.PeerID))
		return m, tea.Batch(cmds...)

	case ActivateErrorMsg:
		if m.store.ActivePeer() == msg.PeerID {
			m.status = m.status.SetError(fmt.Sprintf("Connect: %v", msg.Err))
		}
		return m, nil

	case ConnStateMsg:
		m.status = m.status.SetConnState(msg.State)
		return m, nil

	case HistoryLoadedMsg:
		// Stale fetch for a conversation we already left.
		if m.store.ActivePeer() != msg.PeerID {
			return m, nil
		}
		m.store.MergeHistory(msg.PeerID, msg.Messages)
		m = m.refreshFromStore()
		return m, nil

	case HistoryErrorMsg:
		if m.store.ActivePeer() == msg.PeerID {
			m.messageView = m.messageView.SetLoading(false)
			m.messageView = m.messageView.SetError(fmt.Sprintf("History unavailable: %v", msg.Err))
		}
		return m, nil

	case sendMessageMsg:
		pipeline := m.pipeline
		text := msg.text
		cmds = append(cmds, func() tea.Msg {
			if err := pipeline.Send(text); err != nil {
				return SendErrorMsg{Err: err}
			}
			return nil
		})
		return m, tea.Batch(cmds...)

	case composePingMsg:
		pipeline := m.pipeline
		cmds = append(cmds, func() tea.Msg {
			pipeline.NotifyTyping()
			return nil
		})
		return m, tea.Batch(cmds...)

	case SendErrorMsg:
		m.status = m.status.SetError(fmt.Sprintf("Send: %v", msg.Err))
		return m, nil

	case clockTickMsg:
		return m, clockTickCmd()

	case tea.KeyMsg:
		if m.help.IsVisible() {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "f1", "esc":
				m.help = m.help.Toggle()
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.focus != focusInput {
				return m, tea.Quit
			}
		case "f1":
			m.help = m.help.Toggle()
			return m, nil
		case "tab":
			m.focus = (m.focus + 1) % 3
			m = m.updateFocus()
			return m, nil
		case "shift+tab":
			m.focus = (m.focus + 2) % 3
			m = m.updateFocus()
			return m, nil
		case "esc":
			m.focus = focusPeerList
			m = m.updateFocus()
			return m, nil
		case "r":
			// Manual reconnect for the active conversation.
			if m.focus != focusInput {
				if peerID := m.store.ActivePeer(); peerID != 0 && m.manager.State() == domain.StateClosed {
					return m, tea.Batch(m.activateCmd(peerID), m.historyCmd(peerID))
				}
				return m, nil
			}
		}

		switch m.focus {
		case focusPeerList:
			var cmd tea.Cmd
			m.peerList, cmd = m.peerList.Update(msg)
			cmds = append(cmds, cmd)
		case focusMessages:
			var cmd tea.Cmd
			m.messageView, cmd = m.messageView.Update(msg)
			cmds = append(cmds, cmd)
		case focusInput:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	statusBar := m.status.View()

	peerListView := m.peerList.View()
	messagesView := m.messageView.View()
	inputView := m.input.View()
	rightPane := lipgloss.JoinVertical(lipgloss.Left, messagesView, inputView)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, peerListView, rightPane)
	full := lipgloss.JoinVertical(lipgloss.Left, statusBar, panes)

	mainContent := lipgloss.NewStyle().
		MaxWidth(m.width).
		MaxHeight(m.height).
		Render(full)

	if m.help.IsVisible() {
		x, y := m.help.BoxOffset()
		bg := lipgloss.NewLayer(mainContent)
		fg := lipgloss.NewLayer(m.help.View()).X(x).Y(y).Z(1)
		comp := lipgloss.NewCompositor(bg, fg)
		v.SetContent(comp.Render())
	} else {
		v.SetContent(mainContent)
	}
	return v
}

func (m Model) distributeSize() Model {
	// One row for the status bar, the rest for content.
	contentHeight := m.height - 1
	if contentHeight < 1 {
		contentHeight = 1
	}

	plWidth := peerListWidth
	if plWidth > m.width {
		plWidth = m.width
	}
	m.peerList = m.peerList.SetSize(plWidth, contentHeight)

	rightWidth := m.width - plWidth
	if rightWidth < 1 {
		rightWidth = 1
	}

	messagesHeight := contentHeight - inputRenderedHeight
	if messagesHeight < 1 {
		messagesHeight = 1
	}

	m.messageView = m.messageView.SetSize(rightWidth, messagesHeight)
	m.input = m.input.SetSize(rightWidth, inputRenderedHeight)

	m.status = m.status.SetWidth(m.width)
	m.help = m.help.SetSize(m.width, m.height)

	return m
}

func (m Model) updateFocus() Model {
	m.peerList = m.peerList.SetFocused(m.focus == focusPeerList)
	m.messageView = m.messageView.SetFocused(m.focus == focusMessages)
	m.input = m.input.SetFocused(m.focus == focusInput)
	return m
}

func (m Model) refreshFromStore() Model {
	unread := m.store.UnreadCounts()
	items := make([]peerItem, 0, len(m.peers))
	for _, p := range m.peers {
		items = append(items, peerItem{
			peerID: p.ID,
			name:   p.FullName,
			unread: unread[p.ID],
			online: m.presence.IsOnline(p.ID),
			typing: m.typing.IsTyping(p.ID),
		})
	}
	m.peerList = m.peerList.WithItems(items)

	active := m.store.ActivePeer()
	if active != 0 {
		m.messageView = m.messageView.SetMessages(m.store.Messages(active))
		m.messageView = m.messageView.SetTyping(m.typing.IsTyping(active))

		note := "offline"
		switch {
		case m.typing.IsTyping(active):
			note = "typing…"
		case m.presence.IsOnline(active):
			note = "online"
		}
		m.status = m.status.SetPeer(m.peerName(active), note)
	}

	return m
}

func (m Model) peerName(peerID int64) string {
	for _, p := range m.peers {
		if p.ID == peerID {
			return p.FullName
		}
	}
	return fmt.Sprintf("User %d", peerID)
}

// App wraps the Bubble Tea program for external use.
type App struct {
	program *tea.Program
}

// NewApp creates a new App ready to Run.
func NewApp(store *state.Store, presence *state.PresenceTracker, typing *state.TypingTracker,
	client *api.Client, manager *chat.Manager, pipeline *chat.SendPipeline, sess *session.Session) *App {
	model := NewModel(store, presence, typing, client, manager, pipeline, sess)
	p := tea.NewProgram(model)
	return &App{program: p}
}

// Run starts the Bubble Tea event loop (blocks until quit).
func (a *App) Run() error {
	_, err := a.program.Run()
	return err
}

// Send sends a message into the Bubble Tea event loop from external goroutines.
func (a *App) Send(msg tea.Msg) {
	go a.program.Send(msg)
}

// DrawFunc returns a notify callback for the store and trackers that
// triggers a re-render.
func (a *App) DrawFunc() func() {
	return func() {
		a.Send(StoreUpdatedMsg{})
	}
}
