package bus

import (
	"sync/atomic"

	"github.com/atomicstack/xdialog/internal/dialog"
)

// IDs hands out process-unique dialog identifiers starting at 1.
type IDs struct {
	last atomic.Uint64
}

// Next returns an identifier strictly greater than every previous one.
func (i *IDs) Next() dialog.ID {
	return dialog.ID(i.last.Add(1))
}
