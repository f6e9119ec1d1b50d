package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/xdialog/internal/dialog"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.String() == "ctrl+c" {
		return m.interrupt()
	}
	e := m.top()
	if e == nil {
		return nil
	}
	switch keyMsg.String() {
	case "esc", "q":
		m.resolve(e.id, dialog.Closed())
	case "enter", " ":
		m.press(e, e.focus)
	case "left", "h", "shift+tab":
		m.moveFocus(e, -1)
	case "right", "l", "tab":
		m.moveFocus(e, 1)
	case "home":
		e.focus = 0
	case "end":
		if n := len(e.opts.Buttons); n > 0 {
			e.focus = n - 1
		}
	default:
		if keyMsg.Type == tea.KeyRunes && len(keyMsg.Runes) == 1 {
			r := keyMsg.Runes[0]
			if r >= '1' && r <= '9' {
				m.press(e, int(r-'1'))
			}
		}
	}
	return nil
}

// press resolves a message dialog with button idx. Progress dialogs only
// close through esc or their owner.
func (m *Model) press(e *entry, idx int) {
	if e.progress {
		return
	}
	if len(e.opts.Buttons) == 0 {
		m.resolve(e.id, dialog.Closed())
		return
	}
	if idx < 0 || idx >= len(e.opts.Buttons) {
		return
	}
	m.resolve(e.id, dialog.Pressed(idx))
}

func (m *Model) moveFocus(e *entry, delta int) {
	n := len(e.opts.Buttons)
	if n == 0 {
		return
	}
	e.focus = (e.focus + delta + n) % n
}

// interrupt ends the dispatcher as if ExitEventLoop had arrived, so every
// open dialog resolves as closed and later sends fail.
func (m *Model) interrupt() tea.Cmd {
	if m.loop != nil {
		m.loop.Shutdown()
	} else {
		m.CloseAll()
	}
	m.quitting = true
	return tea.Quit
}
