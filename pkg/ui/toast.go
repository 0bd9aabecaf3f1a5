package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastTTL is how long a toast stays on screen before auto-expiring.
const toastTTL = 4 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

// toast is a non-blocking transient notification. Toasts never gate
// input; every failure path drops one and returns to an interactive
// state.
type toast struct {
	id    int
	level toastLevel
	text  string
}

type toastExpiredMsg struct {
	id int
}

// pushToast appends a toast and schedules its expiry tick.
func (m *Model) pushToast(level toastLevel, text string) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toasts = append(m.toasts, toast{id: id, level: level, text: text})
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) expireToast(id int) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (t toast) render() string {
	switch t.level {
	case toastSuccess:
		return toastSuccessStyle.Render(t.text)
	case toastError:
		return toastErrorStyle.Render(t.text)
	default:
		return toastInfoStyle.Render(t.text)
	}
}
