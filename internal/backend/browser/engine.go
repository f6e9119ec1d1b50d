// Package browser implements webview windows as pages served from a loopback
// HTTP server. Each window gets an unguessable URL; the page holds a
// websocket through which the UI goroutine pushes state changes and the page
// posts invoke messages back.
package browser

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/dispatcher"
	"github.com/atomicstack/xdialog/internal/logging"
	"github.com/atomicstack/xdialog/internal/logging/events"
	"github.com/atomicstack/xdialog/internal/theme"
)

const (
	defaultAddr = "127.0.0.1:0"
	// maxPendingScripts bounds evals buffered for a window nobody has opened.
	maxPendingScripts = 64
)

// Options configure an Engine.
type Options struct {
	// Addr is the listen address; it should stay on loopback.
	Addr string
	// Out receives one "open <url>" line per window. Nil discards.
	Out io.Writer
	// Announce, when set, is called with each new window URL instead of
	// writing to Out.
	Announce func(id dialog.ID, url string)
}

// Engine is a dispatcher.WebviewManager. The server starts on the first Show
// and stops on CloseAll.
type Engine struct {
	opts Options

	mu      sync.Mutex
	srv     *http.Server
	base    string
	windows map[dialog.ID]*window
	byToken map[string]*window
}

type window struct {
	id       dialog.ID
	token    string
	palette  theme.Palette
	onInvoke dialog.InvokeFunc

	state   frame
	pending []string
	clients map[*client]struct{}
}

func NewEngine(opts Options) *Engine {
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}
	return &Engine{
		opts:    opts,
		windows: make(map[dialog.ID]*window),
		byToken: make(map[string]*window),
	}
}

func (e *Engine) Show(id dialog.ID, opts dialog.WebviewOptions, ui dispatcher.UIContext) error {
	if err := e.ensureServer(); err != nil {
		return err
	}
	w := &window{
		id:       id,
		token:    uuid.NewString(),
		palette:  theme.PaletteFor(ui.Theme),
		onInvoke: opts.OnInvoke,
		state:    syncFrame(opts),
		clients:  make(map[*client]struct{}),
	}

	e.mu.Lock()
	if old, ok := e.windows[id]; ok {
		e.dropLocked(old)
	}
	e.windows[id] = w
	e.byToken[w.token] = w
	url := e.base + "/w/" + w.token
	e.mu.Unlock()

	events.Webview.Show(uint64(id), opts.Title, url)
	e.announce(id, url)
	return nil
}

func (e *Engine) SetTitle(id dialog.ID, title string) error {
	return e.push(id, frame{Op: opTitle, Title: title}, func(s *frame) { s.Title = title })
}

func (e *Engine) SetHTML(id dialog.ID, html string) error {
	return e.push(id, frame{Op: opHTML, HTML: html}, func(s *frame) { s.HTML = html })
}

func (e *Engine) SetPosition(id dialog.ID, x, y int) error {
	return e.push(id, frame{Op: opPosition, X: x, Y: y}, func(s *frame) { s.X, s.Y = x, y })
}

func (e *Engine) SetSize(id dialog.ID, width, height int) error {
	return e.push(id, frame{Op: opSize, Width: width, Height: height}, func(s *frame) {
		s.Width, s.Height = width, height
	})
}

func (e *Engine) SetZoomLevel(id dialog.ID, zoom float64) error {
	if zoom <= 0 {
		return bus.Backendf("invalid zoom level %v", zoom)
	}
	return e.push(id, frame{Op: opZoom, Zoom: zoom}, func(s *frame) { s.Zoom = zoom })
}

func (e *Engine) SetWindowState(id dialog.ID, state dialog.WindowState) error {
	name := state.String()
	return e.push(id, frame{Op: opState, State: name}, func(s *frame) { s.State = name })
}

// Eval runs script in every connected page. With no page connected yet the
// script is held and replayed to the first one.
func (e *Engine) Eval(id dialog.ID, script string) error {
	e.mu.Lock()
	w, ok := e.windows[id]
	if !ok {
		e.mu.Unlock()
		return nil
	}
	if len(w.clients) == 0 {
		if len(w.pending) >= maxPendingScripts {
			e.mu.Unlock()
			return bus.Backendf("window %d has %d scripts waiting for a page", id, len(w.pending))
		}
		w.pending = append(w.pending, script)
		e.mu.Unlock()
		return nil
	}
	n := broadcastLocked(w, frame{Op: opEval, Script: script})
	e.mu.Unlock()
	events.Webview.Push(uint64(id), opEval, n)
	return nil
}

func (e *Engine) Close(id dialog.ID) {
	e.mu.Lock()
	w, ok := e.windows[id]
	if ok {
		e.dropLocked(w)
	}
	e.mu.Unlock()
	if ok {
		events.Webview.Close(uint64(id))
	}
}

// CloseAll closes every window and stops the server.
func (e *Engine) CloseAll() {
	for _, id := range e.Open() {
		e.Close(id)
	}
	e.mu.Lock()
	srv := e.srv
	e.srv = nil
	e.base = ""
	e.mu.Unlock()
	if srv != nil {
		if err := srv.Close(); err != nil {
			logging.Error(fmt.Errorf("browser: stop server: %w", err))
		}
	}
}

// URL returns the page address of window id.
func (e *Engine) URL(id dialog.ID) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.windows[id]
	if !ok {
		return "", false
	}
	return e.base + "/w/" + w.token, true
}

// Open lists open window ids in ascending order.
func (e *Engine) Open() []dialog.ID {
	e.mu.Lock()
	ids := make([]dialog.ID, 0, len(e.windows))
	for id := range e.windows {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (e *Engine) ensureServer() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.srv != nil {
		return nil
	}
	ln, err := net.Listen("tcp", e.opts.Addr)
	if err != nil {
		return bus.Backendf("webview engine unavailable: %v", err)
	}
	srv := &http.Server{
		Handler:           e.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	e.srv = srv
	e.base = "http://" + ln.Addr().String()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(fmt.Errorf("browser: serve: %w", err))
		}
	}()
	return nil
}

// push sends f to the window's pages and folds it into the state replayed
// to pages that connect later. Unknown ids succeed without effect.
func (e *Engine) push(id dialog.ID, f frame, apply func(*frame)) error {
	e.mu.Lock()
	w, ok := e.windows[id]
	if !ok {
		e.mu.Unlock()
		return nil
	}
	apply(&w.state)
	n := broadcastLocked(w, f)
	e.mu.Unlock()
	events.Webview.Push(uint64(id), f.Op, n)
	return nil
}

func (e *Engine) dropLocked(w *window) {
	broadcastLocked(w, frame{Op: opClose})
	for c := range w.clients {
		c.closeSend()
	}
	w.clients = nil
	delete(e.byToken, w.token)
	delete(e.windows, w.id)
}

func (e *Engine) announce(id dialog.ID, url string) {
	if e.opts.Announce != nil {
		e.opts.Announce(id, url)
		return
	}
	if e.opts.Out != nil {
		fmt.Fprintf(e.opts.Out, "[%d] open %s\n", id, url)
	}
}
