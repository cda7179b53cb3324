package engine

// Forest is the bottom-up bulk-construction helper described in spec.md
// §4.4: feed it leaves in left-to-right order and it incrementally wraps
// completed runs of limit same-height subtrees into the next tier up,
// amortizing to a single pass over the input. The teacher has no
// equivalent (its own Builder in _teacher_legacy/builder.go constructs a
// binary rope, a different balancing discipline entirely); this is
// grounded directly on spec.md §4.4 and on
// original_source/prototype/blist.py's bulk-load handling, shaped with
// the teacher's node-construction helpers.
type Forest[T any] struct {
	// stack holds completed subtrees, non-decreasing in height from the
	// end of the slice (the "top", next to receive a leaf) toward the
	// start (the "bottom", tallest so far), in runs of at most limit-1
	// subtrees of the same height.
	stack []forestEntry[T]
}

type forestEntry[T any] struct {
	h      Handle[T]
	height int
}

// AppendLeaf adds one leaf, built from values, to the right end of the
// forest so far.
func (f *Forest[T]) AppendLeaf(values []T) {
	f.stack = append(f.stack, forestEntry[T]{h: newLeaf(values), height: 1})
	f.collapseComplete()
}

// collapseComplete wraps the top run of the stack into the next tier up
// whenever that run has grown to exactly limit same-height subtrees,
// repeating as each wrap may itself complete a run one tier higher.
func (f *Forest[T]) collapseComplete() {
	for {
		n := len(f.stack)
		if n < limit {
			return
		}
		h := f.stack[n-1].height
		uniform := true
		for idx := n - limit; idx < n; idx++ {
			if f.stack[idx].height != h {
				uniform = false
				break
			}
		}
		if !uniform {
			return
		}
		children := make([]Handle[T], limit)
		for idx := 0; idx < limit; idx++ {
			children[idx] = f.stack[n-limit+idx].h
		}
		f.stack = f.stack[:n-limit]
		wrapped := newInternal(children)
		fixLastChildUnderflow(wrapped.nd)
		f.stack = append(f.stack, forestEntry[T]{h: wrapped, height: h + 1})
	}
}

// Finish consumes the forest and returns the single resulting root and
// its height. Every tier in the stack is guaranteed to hold between 1 and
// limit-1 subtrees (a full tier would already have been wrapped by
// collapseComplete), so each tier needs at most one wrap before being
// concatenated into the accumulated result.
func (f *Forest[T]) Finish() (Handle[T], int) {
	var acc Handle[T]
	accHeight := 0
	haveAcc := false

	for len(f.stack) > 0 {
		n := len(f.stack)
		h := f.stack[n-1].height
		start := n - 1
		for start > 0 && f.stack[start-1].height == h {
			start--
		}
		run := make([]Handle[T], n-start)
		for i, e := range f.stack[start:n] {
			run[i] = e.h
		}
		f.stack = f.stack[:start]

		var tier Handle[T]
		tierHeight := h
		if len(run) == 1 {
			tier = run[0]
		} else {
			tier = newInternal(run)
			fixLastChildUnderflow(tier.nd)
			tierHeight = h + 1
		}

		if !haveAcc {
			acc, accHeight, haveAcc = tier, tierHeight, true
			continue
		}
		// tier holds the older (more leftward) data; acc holds what has
		// accumulated so far from shorter, newer tiers. tier goes on the
		// left to preserve left-to-right order.
		acc, accHeight = concatSubtrees(tier, tierHeight, acc, accHeight)
	}

	if !haveAcc {
		return Handle[T]{}, 0
	}
	return acc, accHeight
}

// Build chunks a slice of values into leaves of up to `limit` values each,
// feeds them through a Forest, and returns the resulting tree.
func Build[T any](values []T) (Handle[T], int) {
	var f Forest[T]
	for i := 0; i < len(values); i += limit {
		end := i + limit
		if end > len(values) {
			end = len(values)
		}
		chunk := append([]T(nil), values[i:end]...)
		f.AppendLeaf(chunk)
	}
	return f.Finish()
}
