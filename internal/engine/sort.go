package engine

// Sort is a stable merge sort over the tree shape itself: split the
// subtree at its midpoint, recursively sort each half, then merge the two
// already-sorted halves leaf-by-leaf through a Forest, the output
// structure described in spec.md §4.5. Grounded on
// original_source/prototype/blist.py's sort/_merge (stable merge,
// key/cmp/reverse composed into one predicate by the caller). Does not
// use the stdlib sort package: the merge is driven by the tree's own
// left/right split, which sort.Stable cannot express without first
// flattening to a slice and defeating the O(n) auxiliary-memory budget.
//
// less must be a strict weak ordering; ties are always resolved in favor
// of the left input, which is what makes the sort stable. root is
// consumed.
func Sort[T any](root Handle[T], height int, less func(a, b T) bool) (Handle[T], int) {
	if !root.valid() || root.nd.n <= 1 {
		return root, height
	}
	n := root.nd.n
	mid := n / 2
	tracer().Debugf("sort: splitting %d entries at midpoint %d", n, mid)
	left, leftHeight := GetRange(root, height, 0, mid)
	right, rightHeight := GetRange(root, height, mid, n)
	root.release()

	left, leftHeight = Sort(left, leftHeight, less)
	right, rightHeight = Sort(right, rightHeight, less)

	return mergeSorted(left, leftHeight, right, rightHeight, less)
}

// mergeSorted merges two already-sorted subtrees into one, buffering
// merged values into half-sized leaves as it goes and handing them to a
// Forest, rather than materializing an intermediate flat slice of nodes.
func mergeSorted[T any](left Handle[T], leftHeight int, right Handle[T], rightHeight int, less func(a, b T) bool) (Handle[T], int) {
	leftEmpty := !left.valid() || left.nd.n == 0
	rightEmpty := !right.valid() || right.nd.n == 0
	if leftEmpty && rightEmpty {
		return Handle[T]{}, 0
	}
	if leftEmpty {
		return right, rightHeight
	}
	if rightEmpty {
		return left, leftHeight
	}

	lc := NewCursor(left)
	rc := NewCursor(right)
	lv, lok := lc.Next()
	rv, rok := rc.Next()

	var f Forest[T]
	buf := make([]T, 0, half)
	flush := func() {
		if len(buf) > 0 {
			f.AppendLeaf(buf)
			buf = make([]T, 0, half)
		}
	}
	for lok && rok {
		if !less(rv, lv) {
			buf = append(buf, lv)
			lv, lok = lc.Next()
		} else {
			buf = append(buf, rv)
			rv, rok = rc.Next()
		}
		if len(buf) == cap(buf) {
			flush()
		}
	}
	for lok {
		buf = append(buf, lv)
		if len(buf) == cap(buf) {
			flush()
		}
		lv, lok = lc.Next()
	}
	for rok {
		buf = append(buf, rv)
		if len(buf) == cap(buf) {
			flush()
		}
		rv, rok = rc.Next()
	}
	flush()
	left.release()
	right.release()

	return f.Finish()
}
