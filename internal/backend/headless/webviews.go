package headless

import (
	"sort"
	"sync"

	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/dispatcher"
	"github.com/atomicstack/xdialog/internal/logging/events"
)

// WindowSnapshot is the recorded state of one webview window.
type WindowSnapshot struct {
	ID       dialog.ID
	Title    string
	HTML     string
	Position dialog.Point
	Size     dialog.Size
	Zoom     float64
	State    dialog.WindowState
	Scripts  []string
	Theme    dialog.Theme
}

// Webviews is a WebviewManager that keeps windows as records.
type Webviews struct {
	opts Options
	out  *transcript

	mu      sync.Mutex
	windows map[dialog.ID]*window
}

type window struct {
	snap     WindowSnapshot
	onInvoke dialog.InvokeFunc
}

func NewWebviews(opts Options) *Webviews {
	return &Webviews{
		opts:    opts,
		out:     newTranscript(opts.Out),
		windows: make(map[dialog.ID]*window),
	}
}

func (w *Webviews) Show(id dialog.ID, opts dialog.WebviewOptions, ui dispatcher.UIContext) error {
	if w.opts.FailShow {
		return bus.Backendf("webview engine unavailable")
	}
	snap := WindowSnapshot{
		ID:    id,
		Title: opts.Title,
		HTML:  opts.HTML,
		Zoom:  1,
		State: opts.State,
		Theme: ui.Theme,
	}
	if opts.Size != nil {
		snap.Size = *opts.Size
	}
	if opts.Position != nil {
		snap.Position = *opts.Position
	}
	w.mu.Lock()
	w.windows[id] = &window{snap: snap, onInvoke: opts.OnInvoke}
	w.mu.Unlock()
	events.Webview.Show(uint64(id), opts.Title, "")
	w.out.printf("[%d] webview %q (%d bytes)\n", id, opts.Title, len(opts.HTML))
	return nil
}

func (w *Webviews) SetTitle(id dialog.ID, title string) error {
	w.update(id, "title", func(s *WindowSnapshot) { s.Title = title })
	return nil
}

func (w *Webviews) SetHTML(id dialog.ID, html string) error {
	w.update(id, "html", func(s *WindowSnapshot) { s.HTML = html })
	return nil
}

func (w *Webviews) SetPosition(id dialog.ID, x, y int) error {
	w.update(id, "position", func(s *WindowSnapshot) { s.Position = dialog.Point{X: x, Y: y} })
	return nil
}

func (w *Webviews) SetSize(id dialog.ID, width, height int) error {
	w.update(id, "size", func(s *WindowSnapshot) { s.Size = dialog.Size{Width: width, Height: height} })
	return nil
}

func (w *Webviews) SetZoomLevel(id dialog.ID, zoom float64) error {
	w.update(id, "zoom", func(s *WindowSnapshot) { s.Zoom = zoom })
	return nil
}

func (w *Webviews) SetWindowState(id dialog.ID, state dialog.WindowState) error {
	w.update(id, "state", func(s *WindowSnapshot) { s.State = state })
	return nil
}

// Eval records the script; nothing is executed.
func (w *Webviews) Eval(id dialog.ID, script string) error {
	w.update(id, "eval", func(s *WindowSnapshot) { s.Scripts = append(s.Scripts, script) })
	return nil
}

func (w *Webviews) Close(id dialog.ID) {
	w.mu.Lock()
	_, ok := w.windows[id]
	delete(w.windows, id)
	w.mu.Unlock()
	if ok {
		events.Webview.Close(uint64(id))
		w.out.printf("[%d] webview closed\n", id)
	}
}

func (w *Webviews) CloseAll() {
	for _, id := range w.Open() {
		w.Close(id)
	}
}

// Invoke simulates page script posting arg. The callback runs on its own
// goroutine; false means the window is gone or has no callback.
func (w *Webviews) Invoke(id dialog.ID, arg string) bool {
	w.mu.Lock()
	win, ok := w.windows[id]
	var fn dialog.InvokeFunc
	if ok {
		fn = win.onInvoke
	}
	w.mu.Unlock()
	if fn == nil {
		return false
	}
	events.Webview.Invoke(uint64(id), len(arg))
	go fn(id, arg)
	return true
}

// Window returns a copy of the window's recorded state.
func (w *Webviews) Window(id dialog.ID) (WindowSnapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	win, ok := w.windows[id]
	if !ok {
		return WindowSnapshot{}, false
	}
	snap := win.snap
	snap.Scripts = append([]string(nil), win.snap.Scripts...)
	return snap, true
}

func (w *Webviews) Open() []dialog.ID {
	w.mu.Lock()
	ids := make([]dialog.ID, 0, len(w.windows))
	for id := range w.windows {
		ids = append(ids, id)
	}
	w.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// update applies fn to a known window; unknown ids are a silent no-op.
func (w *Webviews) update(id dialog.ID, op string, fn func(*WindowSnapshot)) {
	w.mu.Lock()
	win, ok := w.windows[id]
	if ok {
		fn(&win.snap)
	}
	w.mu.Unlock()
	if ok {
		events.Webview.Push(uint64(id), op, 0)
	}
}
