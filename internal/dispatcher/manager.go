package dispatcher

import (
	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
)

// DialogManager owns message and progress dialogs. Every method runs on the
// UI goroutine. Unknown ids are ignored, so closing twice is harmless.
type DialogManager interface {
	Show(id dialog.ID, opts dialog.Options, hasProgress bool) error
	Close(id dialog.ID)
	CloseAll()
	SetProgressValue(id dialog.ID, value float32)
	SetProgressText(id dialog.ID, text string)
	SetProgressIndeterminate(id dialog.ID)
}

// WebviewManager owns webview windows. Every method runs on the UI goroutine;
// mutations on unknown ids succeed without effect.
type WebviewManager interface {
	Show(id dialog.ID, opts dialog.WebviewOptions, ui UIContext) error
	SetTitle(id dialog.ID, title string) error
	SetHTML(id dialog.ID, html string) error
	SetPosition(id dialog.ID, x, y int) error
	SetSize(id dialog.ID, width, height int) error
	SetZoomLevel(id dialog.ID, zoom float64) error
	SetWindowState(id dialog.ID, state dialog.WindowState) error
	Eval(id dialog.ID, script string) error
	Close(id dialog.ID)
	CloseAll()
}

// UIContext is handed to webview construction. Results lets a backend report
// dialog outcomes; Theme is the palette chosen at startup.
type UIContext struct {
	Theme   dialog.Theme
	Results bus.ResultSink
}

// NoDialogs rejects every show; used when a backend offers no dialogs.
type NoDialogs struct{}

func (NoDialogs) Show(dialog.ID, dialog.Options, bool) error {
	return bus.Backendf("no dialog manager configured")
}
func (NoDialogs) Close(dialog.ID)                     {}
func (NoDialogs) CloseAll()                           {}
func (NoDialogs) SetProgressValue(dialog.ID, float32) {}
func (NoDialogs) SetProgressText(dialog.ID, string)   {}
func (NoDialogs) SetProgressIndeterminate(dialog.ID)  {}

// NoWebviews rejects every show; used when no webview engine is available.
type NoWebviews struct{}

func (NoWebviews) Show(dialog.ID, dialog.WebviewOptions, UIContext) error {
	return bus.Backendf("no webview engine available")
}
func (NoWebviews) SetTitle(dialog.ID, string) error                   { return nil }
func (NoWebviews) SetHTML(dialog.ID, string) error                    { return nil }
func (NoWebviews) SetPosition(dialog.ID, int, int) error              { return nil }
func (NoWebviews) SetSize(dialog.ID, int, int) error                  { return nil }
func (NoWebviews) SetZoomLevel(dialog.ID, float64) error              { return nil }
func (NoWebviews) SetWindowState(dialog.ID, dialog.WindowState) error { return nil }
func (NoWebviews) Eval(dialog.ID, string) error                       { return nil }
func (NoWebviews) Close(dialog.ID)                                    {}
func (NoWebviews) CloseAll()                                          {}
