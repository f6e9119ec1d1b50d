// Package headless provides managers that render nothing. Dialogs are
// answered by a scripted user and webviews are kept as plain records, which
// suits CI, scripted runs and tests.
package headless

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/logging/events"
)

// Options script the simulated user.
type Options struct {
	// Out receives a one-line transcript per event. Nil discards it.
	Out io.Writer
	// Answer names the button to press: a label, a zero-based index, or a
	// fuzzy fragment of a label. Empty or unmatched answers close the dialog.
	Answer string
	// Delay is how long the simulated user takes to answer.
	Delay time.Duration
	// ProgressInterval limits how often progress changes are written to Out.
	ProgressInterval time.Duration
	// FailShow makes webview construction fail as if no engine were present.
	FailShow bool
}

// DialogSnapshot is the observable state of one open dialog.
type DialogSnapshot struct {
	ID            dialog.ID
	Options       dialog.Options
	Progress      bool
	Value         float32
	Text          string
	Indeterminate bool
}

// Dialogs is a DialogManager that answers every message dialog on its own.
type Dialogs struct {
	results  bus.ResultSink
	opts     Options
	progress *throttle
	out      *transcript

	mu     sync.Mutex
	open   map[dialog.ID]*DialogSnapshot
	timers map[dialog.ID]*time.Timer
}

func NewDialogs(results bus.ResultSink, opts Options) *Dialogs {
	return &Dialogs{
		results:  results,
		opts:     opts,
		progress: newThrottle(opts.ProgressInterval),
		out:      newTranscript(opts.Out),
		open:     make(map[dialog.ID]*DialogSnapshot),
		timers:   make(map[dialog.ID]*time.Timer),
	}
}

func (d *Dialogs) Show(id dialog.ID, opts dialog.Options, hasProgress bool) error {
	snap := &DialogSnapshot{ID: id, Options: opts.Clone(), Progress: hasProgress, Text: opts.Message}
	d.mu.Lock()
	d.open[id] = snap
	d.mu.Unlock()
	events.Dialog.Show(uint64(id), opts.Title, len(opts.Buttons), hasProgress)
	d.out.printf("[%d] %s\n", id, describe(opts))

	if hasProgress {
		return nil
	}
	result := dialog.Closed()
	if idx := matchButton(opts.Buttons, d.opts.Answer); idx >= 0 {
		result = dialog.Pressed(idx)
	}
	if d.opts.Delay <= 0 {
		d.finish(id, result)
		return nil
	}
	d.mu.Lock()
	d.timers[id] = time.AfterFunc(d.opts.Delay, func() { d.finish(id, result) })
	d.mu.Unlock()
	return nil
}

func (d *Dialogs) Close(id dialog.ID) {
	d.finish(id, dialog.Closed())
}

func (d *Dialogs) CloseAll() {
	for _, id := range d.Open() {
		d.finish(id, dialog.Closed())
	}
}

func (d *Dialogs) SetProgressValue(id dialog.ID, value float32) {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	d.updateProgress(id, func(s *DialogSnapshot) {
		s.Value = value
		s.Indeterminate = false
	})
}

func (d *Dialogs) SetProgressText(id dialog.ID, text string) {
	d.updateProgress(id, func(s *DialogSnapshot) { s.Text = text })
}

func (d *Dialogs) SetProgressIndeterminate(id dialog.ID) {
	d.updateProgress(id, func(s *DialogSnapshot) { s.Indeterminate = true })
}

// Dialog returns a copy of the open dialog's state.
func (d *Dialogs) Dialog(id dialog.ID) (DialogSnapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap, ok := d.open[id]
	if !ok {
		return DialogSnapshot{}, false
	}
	return *snap, true
}

// Open lists open dialog ids in allocation order.
func (d *Dialogs) Open() []dialog.ID {
	d.mu.Lock()
	ids := make([]dialog.ID, 0, len(d.open))
	for id := range d.open {
		ids = append(ids, id)
	}
	d.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (d *Dialogs) updateProgress(id dialog.ID, apply func(*DialogSnapshot)) {
	d.mu.Lock()
	snap, ok := d.open[id]
	if !ok || !snap.Progress {
		d.mu.Unlock()
		return
	}
	apply(snap)
	current := *snap
	d.mu.Unlock()

	events.Dialog.Progress(uint64(id), current.Value, current.Indeterminate)
	if !d.progress.allow() {
		return
	}
	if current.Indeterminate {
		d.out.printf("[%d] working... %s\n", id, current.Text)
		return
	}
	d.out.printf("[%d] %3.0f%% %s\n", id, current.Value*100, current.Text)
}

// finish records the outcome once; dialogs already gone are ignored.
func (d *Dialogs) finish(id dialog.ID, result dialog.Result) {
	d.mu.Lock()
	snap, ok := d.open[id]
	if ok {
		delete(d.open, id)
	}
	if timer, pending := d.timers[id]; pending {
		timer.Stop()
		delete(d.timers, id)
	}
	d.mu.Unlock()
	if !ok {
		return
	}

	if result.Kind == dialog.ButtonPressed {
		label := snap.Options.Buttons[result.Button]
		events.Dialog.Button(uint64(id), result.Button, label)
		d.out.printf("[%d] pressed %q\n", id, label)
	} else {
		d.out.printf("[%d] closed\n", id)
	}
	events.Dialog.Close(uint64(id))
	if d.results != nil {
		d.results.InsertResult(id, result)
	}
	d.progress.reset()
}

func describe(opts dialog.Options) string {
	parts := make([]string, 0, 4)
	if opts.Icon != dialog.IconNone {
		parts = append(parts, "("+opts.Icon.String()+")")
	}
	for _, s := range []string{opts.Title, opts.MainInstruction, opts.Message} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	line := strings.Join(parts, " | ")
	if len(opts.Buttons) > 0 {
		line += " [" + strings.Join(opts.Buttons, "] [") + "]"
	}
	return line
}

type transcript struct {
	mu sync.Mutex
	w  io.Writer
}

func newTranscript(w io.Writer) *transcript {
	return &transcript{w: w}
}

func (t *transcript) printf(format string, args ...interface{}) {
	if t == nil || t.w == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format, args...)
}
