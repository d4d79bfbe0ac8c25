package gui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/qnkhuat/quoriterm/pkg/session"
)

const DefaultMessageTTL = 5 * time.Second

// MessageBar shows one message at a time. Errors stay until replaced, other
// messages are cleared after the TTL unless a newer message took their place.
type MessageBar struct {
	*tview.TextView
	theme Theme
	ttl   time.Duration
	exec  func(func())

	mu       sync.Mutex
	gen      uint64
	text     string
	severity session.Severity
}

func NewMessageBar(theme Theme, ttl time.Duration) *MessageBar {
	if ttl <= 0 {
		ttl = DefaultMessageTTL
	}
	tv := tview.NewTextView().
		SetScrollable(false).
		SetWrap(true).
		SetWordWrap(true)
	return &MessageBar{
		TextView: tv,
		theme:    theme,
		ttl:      ttl,
		exec:     func(f func()) { f() },
	}
}

// SetExecutor sets where the delayed clear runs. The application passes its
// QueueUpdateDraw so the clear happens on the UI goroutine.
func (m *MessageBar) SetExecutor(exec func(func())) {
	m.exec = exec
}

func (m *MessageBar) Show(text string, severity session.Severity) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.text = text
	m.severity = severity
	m.mu.Unlock()

	m.TextView.SetTextColor(m.color(severity))
	m.TextView.SetText(text)

	if severity == session.SeverityError {
		return
	}
	time.AfterFunc(m.ttl, func() {
		m.exec(func() { m.clear(gen) })
	})
}

// Current returns the message on display.
func (m *MessageBar) Current() (string, session.Severity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.severity
}

func (m *MessageBar) clear(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.text = ""
	m.severity = session.SeverityNeutral
	m.mu.Unlock()

	m.TextView.SetText("")
}

func (m *MessageBar) color(severity session.Severity) tcell.Color {
	switch severity {
	case session.SeverityError:
		return m.theme.MsgError
	case session.SeveritySuccess:
		return m.theme.MsgSuccess
	default:
		return m.theme.MsgNeutral
	}
}
