package engine

import "errors"

// Sentinel errors for engine-level failures. Package blist does not wrap
// these: it reports its own ListError kinds (errors.go in the module root),
// wrapped via fmt.Errorf("%w: ..."), the same convention btree/errors.go
// uses for ErrInvalidConfig and friends.
var (
	ErrIndexOutOfRange        = errors.New("engine: index out of range")
	ErrComparatorFailure      = errors.New("engine: comparator failed")
	ErrConcurrentModification = errors.New("engine: list modified during operation")
)
