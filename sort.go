package blist

import (
	"fmt"

	"github.com/npillmayer/blist/internal/engine"
)

// SortFunc sorts l in place using less as the ordering predicate. The
// sort is stable: equal elements (neither less(a,b) nor less(b,a)) keep
// their relative order.
//
// If less panics, l is left exactly as it was before the call and
// SortFunc returns an error wrapping ErrComparatorFailure, mirroring
// original_source/prototype/blist.py's sort, which restores the list's
// prior contents if the comparator raises. This is also why l is swapped
// out for an empty scratch list for the duration of the sort: a
// comparator that reenters l (e.g. by appending to it) makes l non-empty
// while it should be empty, which is detected below and reported as
// ErrConcurrentModification.
func (l *List[T]) SortFunc(less func(a, b T) bool) (err error) {
	if l.Len() <= 1 {
		return nil
	}
	saved, savedHeight := l.root, l.height
	l.root, l.height = engine.Handle[T]{}, 0

	defer func() {
		if r := recover(); r != nil {
			tracer().Debugf("comparator panicked, rolling back to pre-sort root: %v", r)
			l.root, l.height = saved, savedHeight
			err = fmt.Errorf("%w: %v", ErrComparatorFailure, r)
		}
	}()

	sorted, sortedHeight := engine.Sort(saved.Retain(), savedHeight, less)
	if l.root.Valid() {
		tracer().Debugf("list mutated reentrantly during sort: rejecting result")
		engine.Release(sorted)
		return fmt.Errorf("%w", ErrConcurrentModification)
	}
	l.root, l.height = sorted, sortedHeight
	return nil
}

// SortKeyFunc sorts l in place by comparing key(v) for each value, using
// less to order keys. If reverse is true, the resulting order is
// descending. Grounded on original_source/prototype/blist.py's sort,
// which composes a key extractor and a reverse flag into one predicate.
func (l *List[T]) SortKeyFunc(key func(T) any, less func(a, b any) bool, reverse bool) error {
	cmp := func(a, b T) bool { return less(key(a), key(b)) }
	if reverse {
		inner := cmp
		cmp = func(a, b T) bool { return inner(b, a) }
	}
	return l.SortFunc(cmp)
}

// EqualFunc reports whether a and b hold the same length and elementwise
// equal (under eq) sequences. Defined as a free function parameterized by
// the comparator, in the style of the standard library's slices package,
// rather than requiring T: comparable — spec.md's "arbitrary values"
// requirement rules out a constraint-based Equal method.
func EqualFunc[T any](a, b *List[T], eq func(x, y T) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	ac, bc := engine.NewCursor(a.root), engine.NewCursor(b.root)
	for {
		av, aok := ac.Next()
		bv, bok := bc.Next()
		if aok != bok {
			return false
		}
		if !aok {
			return true
		}
		if !eq(av, bv) {
			return false
		}
	}
}

// CompareFunc lexicographically compares a and b using cmp to compare
// corresponding elements (cmp returns <0, 0, or >0). It returns <0 if a
// sorts before b, 0 if they are equal-length and elementwise equal, and
// >0 if a sorts after b. A shorter sequence that is a prefix of a longer
// one sorts first, matching Python list comparison semantics (the system
// spec.md distills).
func CompareFunc[T any](a, b *List[T], cmp func(x, y T) int) int {
	ac, bc := engine.NewCursor(a.root), engine.NewCursor(b.root)
	for {
		av, aok := ac.Next()
		bv, bok := bc.Next()
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return -1
		case !bok:
			return 1
		}
		if c := cmp(av, bv); c != 0 {
			return c
		}
	}
}
