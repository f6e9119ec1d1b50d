package tui

import (
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/logging/events"
)

// Show opens a dialog on top of the stack. Focus starts on the last button,
// which is the positive choice for the two-button helpers.
func (m *Model) Show(id dialog.ID, opts dialog.Options, hasProgress bool) error {
	if _, existing := m.find(id); existing != nil {
		return nil
	}
	e := &entry{
		id:       id,
		opts:     opts.Clone(),
		progress: hasProgress,
		text:     opts.Message,
		focus:    len(opts.Buttons) - 1,
	}
	if e.focus < 0 {
		e.focus = 0
	}
	m.dialogs = append(m.dialogs, e)
	events.Dialog.Show(uint64(id), opts.Title, len(opts.Buttons), hasProgress)
	return nil
}

func (m *Model) Close(id dialog.ID) {
	m.resolve(id, dialog.Closed())
}

func (m *Model) CloseAll() {
	for len(m.dialogs) > 0 {
		m.resolve(m.dialogs[0].id, dialog.Closed())
	}
}

func (m *Model) SetProgressValue(id dialog.ID, value float32) {
	e := m.progressEntry(id)
	if e == nil {
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	e.value = value
	e.indeterminate = false
	events.Dialog.Progress(uint64(id), value, false)
}

func (m *Model) SetProgressText(id dialog.ID, text string) {
	if e := m.progressEntry(id); e != nil {
		e.text = text
	}
}

func (m *Model) SetProgressIndeterminate(id dialog.ID) {
	e := m.progressEntry(id)
	if e == nil {
		return
	}
	e.indeterminate = true
	events.Dialog.Progress(uint64(id), e.value, true)
	m.startSpinner()
}

func (m *Model) progressEntry(id dialog.ID) *entry {
	_, e := m.find(id)
	if e == nil || !e.progress {
		return nil
	}
	return e
}

// resolve removes the dialog and records its outcome. Unknown ids are
// ignored, so a user click racing a programmatic close is harmless.
func (m *Model) resolve(id dialog.ID, result dialog.Result) {
	idx, e := m.find(id)
	if e == nil {
		return
	}
	m.dialogs = append(m.dialogs[:idx], m.dialogs[idx+1:]...)
	if result.Kind == dialog.ButtonPressed {
		events.Dialog.Button(uint64(id), result.Button, e.opts.Buttons[result.Button])
	}
	events.Dialog.Close(uint64(id))
	if m.results != nil {
		m.results.InsertResult(id, result)
	}
}
