package blist

import (
	"fmt"

	"github.com/npillmayer/blist/internal/engine"
)

// ListError is a string-keyed error kind, the same taxonomy shape
// btree/errors.go and cords.go's CordError use: a small set of sentinel
// values that callers compare against with errors.Is, each wrapped with
// situational detail via fmt.Errorf("%w: ...").
type ListError string

func (e ListError) Error() string { return string(e) }

// Sentinel error kinds, per spec.md §7.
const (
	ErrIndexOutOfRange        ListError = "index out of range"
	ErrTypeMismatch           ListError = "type mismatch"
	ErrValueNotFound          ListError = "value not found"
	ErrComparatorFailure      ListError = "comparator failed"
	ErrConcurrentModification ListError = "list modified during operation"
	ErrAllocationFailure      ListError = "allocation failed"
)

func boundsErr(i, n int) error {
	return fmt.Errorf("%w: %s", ErrIndexOutOfRange, engine.BoundsError(i, n))
}
