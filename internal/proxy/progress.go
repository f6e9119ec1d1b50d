package proxy

import (
	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/logging/events"
)

// Progress controls an open progress dialog. Updates are fire-and-forget;
// the dialog ignores them once closed.
type Progress struct {
	b      *bus.Bus
	id     dialog.ID
	silent bool
}

// ShowProgress opens a progress dialog and returns once the UI goroutine has
// built it. In silent mode it returns an inert handle and sends nothing.
func ShowProgress(b *bus.Bus, title, instruction, message string, icon dialog.Icon) (*Progress, error) {
	if b.SilentMode() {
		events.Bus.Silent(uint64(dialog.NoID), "progress")
		return &Progress{b: b, silent: true}, nil
	}
	id, err := b.NextID()
	if err != nil {
		return nil, err
	}
	opts := dialog.Options{
		Title:           title,
		MainInstruction: instruction,
		Message:         message,
		Icon:            icon,
	}
	reply := bus.NewReply()
	if err := b.Send(bus.NewShowProgressWindow(id, opts, reply)); err != nil {
		return nil, err
	}
	if err := reply.Wait(); err != nil {
		return nil, err
	}
	return &Progress{b: b, id: id}, nil
}

// ID is dialog.NoID for a silent handle.
func (p *Progress) ID() dialog.ID { return p.id }

// SetValue moves the bar; value is a fraction between 0 and 1.
func (p *Progress) SetValue(value float32) error {
	return p.send(bus.NewSetProgressValue(p.id, value))
}

// SetText replaces the body text under the bar.
func (p *Progress) SetText(text string) error {
	return p.send(bus.NewSetProgressText(p.id, text))
}

func (p *Progress) SetIndeterminate() error {
	return p.send(bus.NewSetProgressIndeterminate(p.id))
}

func (p *Progress) Close() error {
	return p.send(bus.NewCloseWindow(p.id))
}

// Result reports how the dialog ended, if it has.
func (p *Progress) Result() (dialog.Result, bool) {
	if p.silent {
		return dialog.Silent(), true
	}
	return p.b.Result(p.id)
}

func (p *Progress) send(cmd bus.Command) error {
	if p.silent {
		return nil
	}
	return p.b.Send(cmd)
}
