package bus

import (
	"sync"

	"github.com/atomicstack/xdialog/internal/dialog"
)

// ResultSink is how managers report the terminal outcome of a dialog.
type ResultSink interface {
	InsertResult(id dialog.ID, result dialog.Result) bool
}

// Results maps dialog identifiers to their terminal result. Each id is
// written at most once; later writes are dropped.
type Results struct {
	mu sync.RWMutex
	m  map[dialog.ID]dialog.Result
}

func NewResults() *Results {
	return &Results{m: make(map[dialog.ID]dialog.Result)}
}

// Insert stores result for id unless one is already present and reports
// whether it did.
func (r *Results) Insert(id dialog.ID, result dialog.Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; ok {
		return false
	}
	r.m[id] = result
	return true
}

func (r *Results) Get(id dialog.ID) (dialog.Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.m[id]
	return res, ok
}

func (r *Results) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}
