// Package bus carries commands from caller goroutines to the single UI
// goroutine and results back again.
//
// A Bus owns three pieces of shared state: the identifier allocator, the
// write-once result store, and the unbounded command queue. Callers reach
// the UI only through Send; the dispatcher drains the queue returned by
// Commands. Results flow back either through the store (poll-style dialogs)
// or through a Reply carried with the command (reply-style calls).
//
// A nil *Bus, or one not built with New, is unusable: every operation
// reports ErrNotInitialized rather than blocking.
package bus

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/atomicstack/xdialog/internal/buffer"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/logging/events"
)

const (
	// DefaultPollInterval is how often poll-style callers look for a result.
	DefaultPollInterval = 50 * time.Millisecond
	defaultQueueCap     = 16
)

// Options configure a Bus at construction.
type Options struct {
	PollInterval time.Duration
	Silent       bool
}

type Bus struct {
	ids     IDs
	results *Results
	queue   *buffer.Queue[Command]
	silent  atomic.Bool
	poll    time.Duration
}

// New builds a ready bus. Each call yields an independent instance.
func New(opts Options) *Bus {
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	b := &Bus{
		results: NewResults(),
		queue:   buffer.NewQueue[Command](defaultQueueCap),
		poll:    poll,
	}
	b.silent.Store(opts.Silent)
	return b
}

func (b *Bus) ready() bool {
	return b != nil && b.queue != nil && b.results != nil
}

// NextID allocates a fresh dialog identifier.
func (b *Bus) NextID() (dialog.ID, error) {
	if !b.ready() {
		return dialog.NoID, ErrNotInitialized
	}
	return b.ids.Next(), nil
}

// Send enqueues cmd for the UI goroutine. It never blocks.
func (b *Bus) Send(cmd Command) error {
	if !b.ready() {
		return ErrNotInitialized
	}
	if cmd == nil {
		cmd = NewNone()
	}
	name := Name(cmd)
	id := uint64(cmd.Target())
	if err := b.queue.Push(cmd); err != nil {
		events.Bus.SendFailed(id, name, err)
		return fmt.Errorf("%w: %s", ErrSendFailed, name)
	}
	events.Bus.Send(id, name)
	return nil
}

// InsertResult records the first result for id; later ones are dropped.
func (b *Bus) InsertResult(id dialog.ID, result dialog.Result) bool {
	if !b.ready() {
		return false
	}
	stored := b.results.Insert(id, result)
	events.Bus.Result(uint64(id), result.String(), stored)
	return stored
}

// Result returns the recorded result for id without blocking.
func (b *Bus) Result(id dialog.ID) (dialog.Result, bool) {
	if !b.ready() {
		return dialog.Result{}, false
	}
	return b.results.Get(id)
}

// SetSilentMode toggles dialog suppression for every subsequent call.
func (b *Bus) SetSilentMode(silent bool) {
	if b == nil {
		return
	}
	b.silent.Store(silent)
}

func (b *Bus) SilentMode() bool {
	return b != nil && b.silent.Load()
}

func (b *Bus) PollInterval() time.Duration {
	if b == nil || b.poll <= 0 {
		return DefaultPollInterval
	}
	return b.poll
}

// Pending is the number of commands not yet taken by the dispatcher.
func (b *Bus) Pending() int {
	if !b.ready() {
		return 0
	}
	return b.queue.Len()
}

// Commands is the consumer half drained by the dispatcher. Only the UI
// goroutine may pop from it.
func (b *Bus) Commands() *buffer.Queue[Command] {
	if !b.ready() {
		return nil
	}
	return b.queue
}

// Shutdown rejects further sends and returns the commands still queued.
func (b *Bus) Shutdown() []Command {
	if !b.ready() {
		return nil
	}
	return b.queue.Close()
}
