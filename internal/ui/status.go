package ui

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/connectly-app/connectly-tui/internal/domain"
)

var (
	statusBarBg = lipgloss.Color("#353533")
	// Pill colors for the three transport states.
	statusPillOpen       = lipgloss.Color("#FF5FAF")
	statusPillConnecting = lipgloss.Color("#AF8700")
	statusPillClosed     = lipgloss.Color("#6C5098")
	statusTimeBg         = lipgloss.Color("#6124DF")
)

type statusModel struct {
	connState domain.ConnState
	peerName  string
	peerNote  string // "online", "typing…", etc.
	errText   string
	userName  string
	width     int
}

func newStatusModel() statusModel {
	return statusModel{connState: domain.StateClosed}
}

func (m statusModel) SetWidth(w int) statusModel {
	m.width = w
	return m
}

func (m statusModel) SetConnState(s domain.ConnState) statusModel {
	m.connState = s
	if s == domain.StateOpen {
		m.errText = ""
	}
	return m
}

func (m statusModel) SetPeer(name, note string) statusModel {
	m.peerName = name
	m.peerNote = note
	return m
}

func (m statusModel) SetError(text string) statusModel {
	m.errText = text
	return m
}

func (m statusModel) SetUserName(name string) statusModel {
	m.userName = name
	return m
}

// View renders a full-width status bar:
// [STATE pill] [peer + presence] ... [user name] [time pill]
func (m statusModel) View() string {
	pillBg := statusPillClosed
	switch m.connState {
	case domain.StateOpen:
		pillBg = statusPillOpen
	case domain.StateConnecting:
		pillBg = statusPillConnecting
	}
	pillStyle := lipgloss.NewStyle().
		Background(pillBg).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)
	pill := pillStyle.Render(strings.ToUpper(m.connState.String()))

	titleText := m.peerName
	if m.peerNote != "" && titleText != "" {
		titleText += " · " + m.peerNote
	}
	if m.errText != "" {
		titleText = m.errText
	}
	titleStyle := lipgloss.NewStyle().
		Background(statusBarBg).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)
	title := titleStyle.Render(titleText)

	timePillStyle := lipgloss.NewStyle().
		Background(statusTimeBg).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)
	timePill := timePillStyle.Render(time.Now().Format("15:04"))

	userStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("#7B5EA7")).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)
	userPill := userStyle.Render(m.userName)

	left := pill + title
	right := userPill + timePill

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Background(statusBarBg).
		Render(strings.Repeat(" ", gap))

	barStyle := lipgloss.NewStyle().
		Background(statusBarBg).
		Width(m.width)

	return barStyle.Render(left + filler + right)
}
