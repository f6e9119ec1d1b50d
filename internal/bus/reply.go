package bus

import "sync"

// Reply is a single-use answer slot travelling with a command. The UI side
// settles it exactly once with Send or Drop; the caller blocks in Wait.
type Reply struct {
	ch   chan error
	once sync.Once
}

func NewReply() *Reply {
	return &Reply{ch: make(chan error, 1)}
}

// Send delivers err (nil for success). Only the first Send or Drop counts.
func (r *Reply) Send(err error) {
	if r == nil {
		return
	}
	r.once.Do(func() {
		r.ch <- err
		close(r.ch)
	})
}

// Drop abandons the slot; Wait then returns ErrNoResult.
func (r *Reply) Drop() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		close(r.ch)
	})
}

// Wait blocks until the slot is settled.
func (r *Reply) Wait() error {
	err, ok := <-r.ch
	if !ok {
		return ErrNoResult
	}
	return err
}
