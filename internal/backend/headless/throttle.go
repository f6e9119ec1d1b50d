package headless

import (
	"sync"
	"time"
)

// throttle lets an operation through at most once per interval. Unlike a
// sleeping limiter it never blocks, since managers run on the UI goroutine.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{interval: interval}
}

func (t *throttle) allow() bool {
	if t == nil || t.interval <= 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if now.Before(t.next) {
		return false
	}
	t.next = now.Add(t.interval)
	return true
}

// reset lets the next operation through regardless of timing.
func (t *throttle) reset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.next = time.Time{}
	t.mu.Unlock()
}
