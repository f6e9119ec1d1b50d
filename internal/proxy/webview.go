package proxy

import (
	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
)

// Webview controls a webview window. Every method except Close blocks until
// the UI goroutine has applied it. Calls on a window that has since closed
// succeed without effect.
type Webview struct {
	b  *bus.Bus
	id dialog.ID
}

// ShowWebview opens a webview window. Construction failures, such as a
// missing engine, come back as *bus.BackendError. Silent mode does not apply.
func ShowWebview(b *bus.Bus, opts dialog.WebviewOptions) (*Webview, error) {
	id, err := b.NextID()
	if err != nil {
		return nil, err
	}
	w := Attach(b, id)
	if err := w.call(func(r *bus.Reply) bus.Command { return bus.NewWebviewWindowShow(id, opts, r) }); err != nil {
		return nil, err
	}
	return w, nil
}

// Attach returns a handle for an existing window id.
func Attach(b *bus.Bus, id dialog.ID) *Webview {
	return &Webview{b: b, id: id}
}

// Invoker adapts fn to a dialog.InvokeFunc bound to b, so page messages
// arrive with a usable handle.
func Invoker(b *bus.Bus, fn func(w *Webview, arg string)) dialog.InvokeFunc {
	return func(id dialog.ID, arg string) {
		fn(Attach(b, id), arg)
	}
}

func (w *Webview) ID() dialog.ID { return w.id }

func (w *Webview) SetTitle(title string) error {
	return w.call(func(r *bus.Reply) bus.Command { return bus.NewWebviewSetTitle(w.id, title, r) })
}

func (w *Webview) SetHTML(html string) error {
	return w.call(func(r *bus.Reply) bus.Command { return bus.NewWebviewSetHTML(w.id, html, r) })
}

func (w *Webview) SetPosition(x, y int) error {
	return w.call(func(r *bus.Reply) bus.Command { return bus.NewWebviewSetPosition(w.id, x, y, r) })
}

func (w *Webview) SetSize(width, height int) error {
	return w.call(func(r *bus.Reply) bus.Command { return bus.NewWebviewSetSize(w.id, width, height, r) })
}

func (w *Webview) SetZoomLevel(zoom float64) error {
	return w.call(func(r *bus.Reply) bus.Command { return bus.NewWebviewSetZoomLevel(w.id, zoom, r) })
}

func (w *Webview) SetWindowState(state dialog.WindowState) error {
	return w.call(func(r *bus.Reply) bus.Command { return bus.NewWebviewSetWindowState(w.id, state, r) })
}

// Eval runs script in the page. Script errors surface as *bus.BackendError.
func (w *Webview) Eval(script string) error {
	return w.call(func(r *bus.Reply) bus.Command { return bus.NewWebviewEval(w.id, script, r) })
}

// Close is fire-and-forget.
func (w *Webview) Close() error {
	return w.b.Send(bus.NewCloseWindow(w.id))
}

func (w *Webview) call(build func(*bus.Reply) bus.Command) error {
	reply := bus.NewReply()
	if err := w.b.Send(build(reply)); err != nil {
		return err
	}
	return reply.Wait()
}
