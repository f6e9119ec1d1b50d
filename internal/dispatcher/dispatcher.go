// Package dispatcher runs the UI side of the bus: it drains queued commands
// on the UI goroutine and turns each one into a call on a DialogManager or a
// WebviewManager.
package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/logging"
	"github.com/atomicstack/xdialog/internal/logging/events"
)

// State is the dispatcher lifecycle.
type State int32

const (
	StateIdle State = iota
	StateDraining
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateDraining:
		return "draining"
	case StateTerminating:
		return "terminating"
	default:
		return "idle"
	}
}

// Source is the consumer half of the command queue.
type Source interface {
	TryPop() (bus.Command, bool)
	Ready() <-chan struct{}
	Close() []bus.Command
}

// Config wires a Loop to its collaborators. Nil managers reject every show.
type Config struct {
	Source   Source
	Dialogs  DialogManager
	Webviews WebviewManager
	Results  bus.ResultSink
	Theme    dialog.Theme
}

// Loop is the dispatcher. Pump and Run must only be called from the UI
// goroutine; State and Done are safe from anywhere.
type Loop struct {
	source   Source
	dialogs  DialogManager
	webviews WebviewManager
	results  bus.ResultSink
	ui       UIContext

	state atomic.Int32
	done  chan struct{}
}

func New(cfg Config) *Loop {
	l := &Loop{
		source:   cfg.Source,
		dialogs:  cfg.Dialogs,
		webviews: cfg.Webviews,
		results:  cfg.Results,
		ui:       UIContext{Theme: cfg.Theme, Results: cfg.Results},
		done:     make(chan struct{}),
	}
	if l.dialogs == nil {
		l.dialogs = NoDialogs{}
	}
	if l.webviews == nil {
		l.webviews = NoWebviews{}
	}
	return l
}

// ForBus wires a Loop to b's queue and result store.
func ForBus(b *bus.Bus, dialogs DialogManager, webviews WebviewManager, theme dialog.Theme) (*Loop, error) {
	q := b.Commands()
	if q == nil {
		return nil, bus.ErrNotInitialized
	}
	return New(Config{Source: q, Dialogs: dialogs, Webviews: webviews, Results: b, Theme: theme}), nil
}

func (l *Loop) State() State {
	return State(l.state.Load())
}

// Done is closed once the loop has terminated.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Ready exposes the queue wake-up signal for event loops that host Pump.
func (l *Loop) Ready() <-chan struct{} {
	return l.source.Ready()
}

// Pump drains every queued command and reports whether the loop has
// terminated. Backends call it once per UI tick.
func (l *Loop) Pump() bool {
	if l.State() == StateTerminating {
		return true
	}
	l.state.Store(int32(StateDraining))
	count := 0
	for {
		cmd, ok := l.source.TryPop()
		if !ok {
			break
		}
		count++
		if _, exit := cmd.(bus.ExitEventLoop); exit {
			events.Dispatch.Command(uint64(cmd.Target()), bus.Name(cmd))
			l.terminate()
			return true
		}
		l.dispatch(cmd)
	}
	if count > 0 {
		events.Dispatch.Drained(count)
	}
	l.state.Store(int32(StateIdle))
	return false
}

// Run pumps on the calling goroutine, locked to its OS thread, until an
// ExitEventLoop command arrives or ctx ends. Cancelling ctx shuts down the
// same way ExitEventLoop does.
func (l *Loop) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if l.Pump() {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			l.terminate()
			return ctx.Err()
		case <-l.source.Ready():
			if l.Pump() {
				return nil
			}
		}
	}
}

// Shutdown terminates the loop as if ExitEventLoop had been received. It is
// for hosts whose own event loop ended first.
func (l *Loop) Shutdown() {
	if l.State() != StateTerminating {
		l.terminate()
	}
}

func (l *Loop) terminate() {
	l.state.Store(int32(StateTerminating))
	l.guard("CloseAll", dialog.NoID, nil, l.dialogs.CloseAll)
	l.guard("CloseAll", dialog.NoID, nil, l.webviews.CloseAll)

	// Anything queued behind the exit will never run; settle its replies and
	// results so no caller waits forever.
	rest := l.source.Close()
	for _, cmd := range rest {
		switch cmd.(type) {
		case bus.ShowMessageWindow, bus.ShowProgressWindow:
			l.markClosed(cmd.Target())
		}
		bus.ReplyOf(cmd).Drop()
	}
	events.Dispatch.Terminate(len(rest))
	close(l.done)
}

func (l *Loop) dispatch(cmd bus.Command) {
	id := cmd.Target()
	name := bus.Name(cmd)
	events.Dispatch.Command(uint64(id), name)

	switch c := cmd.(type) {
	case bus.None:
	case bus.CloseWindow:
		l.guard(name, id, nil, func() { l.dialogs.Close(id) })
		l.guard(name, id, nil, func() { l.webviews.Close(id) })
	case bus.ShowMessageWindow:
		l.guard(name, id, c.Reply, func() {
			l.showDialog(id, name, c.Options, false, c.Reply)
		})
	case bus.ShowProgressWindow:
		l.guard(name, id, c.Reply, func() {
			l.showDialog(id, name, c.Options, true, c.Reply)
		})
	case bus.SetProgressIndeterminate:
		l.guard(name, id, nil, func() { l.dialogs.SetProgressIndeterminate(id) })
	case bus.SetProgressValue:
		l.guard(name, id, nil, func() { l.dialogs.SetProgressValue(id, c.Value) })
	case bus.SetProgressText:
		l.guard(name, id, nil, func() { l.dialogs.SetProgressText(id, c.Text) })
	case bus.WebviewWindowShow:
		l.reply(name, id, c.Reply, func() error { return l.webviews.Show(id, c.Options, l.ui) })
	case bus.WebviewSetTitle:
		l.reply(name, id, c.Reply, func() error { return l.webviews.SetTitle(id, c.Title) })
	case bus.WebviewSetHTML:
		l.reply(name, id, c.Reply, func() error { return l.webviews.SetHTML(id, c.HTML) })
	case bus.WebviewSetPosition:
		l.reply(name, id, c.Reply, func() error { return l.webviews.SetPosition(id, c.X, c.Y) })
	case bus.WebviewSetSize:
		l.reply(name, id, c.Reply, func() error { return l.webviews.SetSize(id, c.Width, c.Height) })
	case bus.WebviewSetZoomLevel:
		l.reply(name, id, c.Reply, func() error { return l.webviews.SetZoomLevel(id, c.Zoom) })
	case bus.WebviewSetWindowState:
		l.reply(name, id, c.Reply, func() error { return l.webviews.SetWindowState(id, c.State) })
	case bus.WebviewEval:
		l.reply(name, id, c.Reply, func() error { return l.webviews.Eval(id, c.Script) })
	default:
		logging.Error(fmt.Errorf("dispatch: unhandled command %s for %d", name, id))
		bus.ReplyOf(cmd).Drop()
	}
}

// showDialog forwards construction to the dialog manager. A dialog that
// failed to open is recorded as closed so pollers resolve instead of hanging.
func (l *Loop) showDialog(id dialog.ID, name string, opts dialog.Options, progress bool, reply *bus.Reply) {
	defer func() {
		if r := recover(); r != nil {
			l.markClosed(id)
			panic(r)
		}
	}()
	err := bus.AsBackendError(l.dialogs.Show(id, opts, progress))
	if err != nil {
		events.Dispatch.BackendError(uint64(id), name, err)
		logging.Error(fmt.Errorf("%s %d: %w", name, id, err))
		l.markClosed(id)
	}
	reply.Send(err)
}

func (l *Loop) markClosed(id dialog.ID) {
	if l.results != nil {
		l.results.InsertResult(id, dialog.Closed())
	}
}

func (l *Loop) reply(name string, id dialog.ID, reply *bus.Reply, call func() error) {
	l.guard(name, id, reply, func() {
		err := bus.AsBackendError(call())
		if err != nil {
			events.Dispatch.BackendError(uint64(id), name, err)
		}
		reply.Send(err)
	})
}

// guard runs fn and contains any panic so one bad command cannot take down
// the loop. A pending reply is dropped, which the caller sees as ErrNoResult.
func (l *Loop) guard(name string, id dialog.ID, reply *bus.Reply, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			events.Dispatch.Panic(uint64(id), name, fmt.Sprint(r))
			logging.Error(fmt.Errorf("dispatch %s for %d panicked: %v", name, id, r))
			reply.Drop()
		}
	}()
	fn()
}
