/*
Package blist implements List, a general-purpose, mutable, indexed
sequence backed by a B+-tree-like structure, in the spirit of Daniel
Stutzbach's blist for Python: O(log n) get/set/insert/delete/slice at any
position, O(log n) concatenation and repetition via structural sharing,
O(n) bulk construction, and a stable O(n log n) sort.

List is not safe for concurrent use without external synchronization; see
internal/engine for the copy-on-write machinery that makes Clone and
slicing cheap.
*/
package blist

import (
	"fmt"
	"strings"

	"github.com/npillmayer/blist/internal/engine"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'blist'.
func tracer() tracing.Trace {
	return tracing.Select("blist")
}

// List is an indexed sequence of values of type T. The zero value is an
// empty, ready-to-use list.
type List[T any] struct {
	root   engine.Handle[T]
	height int
}

// New returns an empty list.
func New[T any]() *List[T] {
	return &List[T]{}
}

// FromSlice builds a list from values in O(n) via the bottom-up forest
// builder, rather than n individual O(log n) inserts.
func FromSlice[T any](values []T) *List[T] {
	cp := append([]T(nil), values...)
	root, height := engine.Build(cp)
	return &List[T]{root: root, height: height}
}

// Clone returns an independent list sharing structure with l via
// copy-on-write; the clone is O(1): it only takes a reference to l's root,
// and the first write to either list clones that root node (O(LIMIT)).
func (l *List[T]) Clone() *List[T] {
	if !l.root.Valid() {
		return &List[T]{}
	}
	return &List[T]{root: l.root.Retain(), height: l.height}
}

// Len returns the number of values in l.
func (l *List[T]) Len() int {
	if !l.root.Valid() {
		return 0
	}
	return engine.EntryTotal(l.root)
}

// IsEmpty reports whether l has no values.
func (l *List[T]) IsEmpty() bool { return l.Len() == 0 }

// normalizeIndex adjusts a negative index to count from the end of a
// sequence of length n, per spec.md §6 ("negative indices count from the
// end"), mirroring original_source/prototype/blist.py's sanify_index
// (allow_negative1=True) used by __getitem__/__setitem__/insert/__delitem__.
// It does not clamp or bounds-check; callers still validate the result.
func normalizeIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return i
}

// checkIndex normalizes and bounds-checks i against l's current length,
// returning the normalized index for the caller to use.
func (l *List[T]) checkIndex(i int) (int, error) {
	n := l.Len()
	i = normalizeIndex(i, n)
	if i < 0 || i >= n {
		return i, boundsErr(i, n)
	}
	return i, nil
}

// At returns the value at position i. A negative i counts from the end.
func (l *List[T]) At(i int) (T, error) {
	var zero T
	i, err := l.checkIndex(i)
	if err != nil {
		return zero, err
	}
	return engine.At(l.root, i), nil
}

// MustAt is like At but panics on an out-of-range index, for call sites
// that have already validated i.
func (l *List[T]) MustAt(i int) T {
	v, err := l.At(i)
	if err != nil {
		panic(err)
	}
	return v
}

// Set replaces the value at position i. A negative i counts from the end.
func (l *List[T]) Set(i int, v T) error {
	i, err := l.checkIndex(i)
	if err != nil {
		return err
	}
	l.ensureOwnedRoot()
	engine.Set(l.root.NodePtr(), i, v)
	return nil
}

// Insert inserts v at position i, shifting values at i and beyond to the
// right. i == Len() is valid and equivalent to Append. A negative i counts
// from the end.
func (l *List[T]) Insert(i int, v T) error {
	n := l.Len()
	i = normalizeIndex(i, n)
	if i < 0 || i > n {
		return boundsErr(i, n)
	}
	root, height := engine.InsertOne(l.root, l.height, i, v)
	l.root, l.height = root, height
	return nil
}

// Append inserts v at the end of l.
func (l *List[T]) Append(v T) {
	root, height := engine.InsertOne(l.root, l.height, l.Len(), v)
	l.root, l.height = root, height
}

// Extend appends every value of other to l. other is left unmodified.
func (l *List[T]) Extend(other *List[T]) {
	if other == nil || other.IsEmpty() {
		return
	}
	root, height := engine.Concat(l.root, l.height, other.root.Retain(), other.height)
	l.root, l.height = root, height
}

// Concat returns a new list holding l's values followed by other's.
// Neither l nor other is modified.
func Concat[T any](l, other *List[T]) *List[T] {
	out := l.Clone()
	out.Extend(other)
	return out
}

// Repeat returns a new list holding count concatenated copies of l's
// values, via iterative doubling. A non-positive count yields an empty
// list.
func (l *List[T]) Repeat(count int) *List[T] {
	root, height := engine.Repeat(l.root.Retain(), l.height, count)
	return &List[T]{root: root, height: height}
}

// Delete removes the value at position i.
func (l *List[T]) Delete(i int) error {
	return l.DeleteRange(i, i+1)
}

// DeleteRange removes [i, j); both i and j are negative-aware (count from
// the end, per spec.md §6). Invalid (out-of-range or inverted) ranges are
// reported as ErrIndexOutOfRange; j is clamped to Len() as a convenience
// for callers computing j from an unbounded slice expression.
func (l *List[T]) DeleteRange(i, j int) error {
	n := l.Len()
	i, j = normalizeIndex(i, n), normalizeIndex(j, n)
	if j > n {
		j = n
	}
	if i < 0 || i > j || j > n {
		return boundsErr(i, n)
	}
	if i == j {
		return nil
	}
	root, height := engine.DeleteRange(l.root, l.height, i, j)
	l.root, l.height = root, height
	return nil
}

// Pop removes and returns the value at position i. i is negative-aware
// (counts from the end), so Pop(-1) removes the last value, Pop(-2) the
// second-to-last, and so on, per original_source/prototype/blist.py's
// pop(i=-1) (self[i]).
func (l *List[T]) Pop(i int) (T, error) {
	var zero T
	n := l.Len()
	i = normalizeIndex(i, n)
	if i < 0 || i >= n {
		return zero, boundsErr(i, n)
	}
	v := engine.At(l.root, i)
	if err := l.DeleteRange(i, i+1); err != nil {
		return zero, err
	}
	return v, nil
}

// Slice returns a new list holding a copy-on-write view of [i, j). Both i
// and j are negative-aware (count from the end).
func (l *List[T]) Slice(i, j int) (*List[T], error) {
	n := l.Len()
	i, j = normalizeIndex(i, n), normalizeIndex(j, n)
	if i < 0 || j > n || i > j {
		return nil, boundsErr(i, n)
	}
	root, height := engine.GetRange(l.root, l.height, i, j)
	return &List[T]{root: root, height: height}, nil
}

// SliceStep returns a new list holding every step'th value in [i, j), the
// extended-step slice read from spec.md §6. step must be non-zero; a
// negative step walks from j-1 down to i. This is the one place the
// engine's O(log n) machinery is not used per element: a step other than
// 1 has no contiguous-subtree shape to exploit, so it is built one At
// call at a time, exactly as original_source/prototype/blist.py's
// __getitem__ falls back to individual indexing for step != 1.
func (l *List[T]) SliceStep(i, j, step int) (*List[T], error) {
	if step == 0 {
		return nil, fmt.Errorf("%w: step must not be zero", ErrIndexOutOfRange)
	}
	n := l.Len()
	i, j = normalizeIndex(i, n), normalizeIndex(j, n)
	if i < 0 || j > n || i > j {
		return nil, boundsErr(i, n)
	}
	out := New[T]()
	if step > 0 {
		for k := i; k < j; k += step {
			out.Append(l.MustAt(k))
		}
	} else {
		for k := j - 1; k >= i; k += step {
			out.Append(l.MustAt(k))
		}
	}
	return out, nil
}

// SetSlice replaces [i, j) with other's values; other is left unmodified
// and len(other) need not equal j-i. Both i and j are negative-aware.
func (l *List[T]) SetSlice(i, j int, other *List[T]) error {
	n := l.Len()
	i, j = normalizeIndex(i, n), normalizeIndex(j, n)
	if j > n {
		j = n
	}
	if i < 0 || i > j || j > n {
		return boundsErr(i, n)
	}
	var otherRoot engine.Handle[T]
	var otherHeight int
	if other != nil {
		otherRoot, otherHeight = other.root.Retain(), other.height
	}
	root, height := engine.SetRange(l.root, l.height, i, j, otherRoot, otherHeight)
	l.root, l.height = root, height
	return nil
}

// SetSliceStep assigns values one at a time over every step'th position
// in [i, j); len(values) must equal the number of positions selected. Both
// i and j are negative-aware.
func (l *List[T]) SetSliceStep(i, j, step int, values []T) error {
	if step == 0 {
		return fmt.Errorf("%w: step must not be zero", ErrIndexOutOfRange)
	}
	n := l.Len()
	i, j = normalizeIndex(i, n), normalizeIndex(j, n)
	if i < 0 || j > n || i > j {
		return boundsErr(i, n)
	}
	var positions []int
	if step > 0 {
		for k := i; k < j; k += step {
			positions = append(positions, k)
		}
	} else {
		for k := j - 1; k >= i; k += step {
			positions = append(positions, k)
		}
	}
	if len(positions) != len(values) {
		return fmt.Errorf("%w: extended slice of length %d does not match %d values", ErrTypeMismatch, len(positions), len(values))
	}
	for idx, pos := range positions {
		if err := l.Set(pos, values[idx]); err != nil {
			return err
		}
	}
	return nil
}

// Reverse reverses l's values in place.
func (l *List[T]) Reverse() {
	l.root = engine.Reverse(l.root)
}

// Index returns the position of the first value in [0, Len()) equal to
// target under eq, or -1 if none matches.
func (l *List[T]) Index(target T, eq func(a, b T) bool) int {
	return engine.IndexOf(l.root, eq, target, 0, l.Len())
}

// IndexErr is like Index, but reports ErrValueNotFound instead of -1 when
// target is not present, per spec.md §7's index(v) error taxonomy.
func (l *List[T]) IndexErr(target T, eq func(a, b T) bool) (int, error) {
	i := l.Index(target, eq)
	if i < 0 {
		return -1, fmt.Errorf("%w", ErrValueNotFound)
	}
	return i, nil
}

// Count returns the number of values equal to target under eq.
func (l *List[T]) Count(target T, eq func(a, b T) bool) int {
	return engine.Count(l.root, eq, target, 0, l.Len())
}

// Contains reports whether any value equals target under eq.
func (l *List[T]) Contains(target T, eq func(a, b T) bool) bool {
	return engine.Contains(l.root, eq, target, 0, l.Len())
}

// All returns the values of l, in order, as a plain slice. Intended for
// tests and small lists: it allocates all Len() values at once. List
// exposes no incremental iterator; the engine's Cursor
// (internal/engine/iterate.go) is internal to this module.
func (l *List[T]) All() []T {
	return engine.Values(l.root)
}

// ensureOwnedRoot makes sure l.root is not shared with any other List
// (e.g. a Clone taken earlier), so the caller may mutate l.root's node in
// place. The root of a List is always conceptually "owned" by exactly
// that List from the caller's point of view; Clone is what introduces
// sharing, and this undoes it lazily, on first write, rather than eagerly
// at Clone time.
func (l *List[T]) ensureOwnedRoot() {
	if !l.root.Valid() {
		l.root = engine.EmptyLeaf[T]()
		return
	}
	l.root = engine.EnsureUnique(l.root)
}

// String renders l's values with fmt's default verb, in the shape
// "[v0 v1 v2]", for debugging; it is not meant to be parsed back.
func (l *List[T]) String() string {
	values := l.All()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
