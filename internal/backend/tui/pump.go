package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/xdialog/internal/dispatcher"
)

// waitForCommands wakes the program when the dispatcher has work.
func waitForCommands(loop *dispatcher.Loop) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-loop.Ready():
			return commandsReadyMsg{}
		case <-loop.Done():
			return loopDoneMsg{}
		}
	}
}

type commandsReadyMsg struct{}

type loopDoneMsg struct{}

func (m *Model) handleCommandsReadyMsg(tea.Msg) tea.Cmd {
	if m.loop == nil {
		return nil
	}
	if m.loop.Pump() {
		m.quitting = true
		return m.flush(tea.Quit)
	}
	return m.flush(waitForCommands(m.loop))
}

func (m *Model) handleLoopDoneMsg(tea.Msg) tea.Cmd {
	m.quitting = true
	return tea.Quit
}

// flush batches cmd with anything manager calls queued during the pump.
func (m *Model) flush(cmd tea.Cmd) tea.Cmd {
	if len(m.after) == 0 {
		return cmd
	}
	cmds := append(m.after, cmd)
	m.after = nil
	return tea.Batch(cmds...)
}
