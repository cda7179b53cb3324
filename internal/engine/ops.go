package engine

import "fmt"

// This file implements the positional sequence operations over a tree:
// locate/at/set/insertOne/deleteRange/getRange/setRange/concat/repeat/
// reverse/indexOf/count/contains. Grounded on btree/access.go's At/atNode
// (linear-scan-by-summary "locate") and btree/tree.go's InsertAt/DeleteAt/
// DeleteRange/SplitAt/Concat method shapes; repeat's doubling strategy is
// grounded on original_source/prototype/blist.py's __imul__.

// locateChild returns the index of the child of inner containing position
// i, along with the number of items preceding that child.
func locateChild[T any](inner *node[T], i int) (idx int, before int) {
	acc := 0
	for k, c := range inner.children {
		n := c.nd.n
		if i < acc+n {
			return k, acc
		}
		acc += n
	}
	last := len(inner.children) - 1
	return last, acc - inner.children[last].nd.n
}

// At returns the value at position i (0 <= i < root.n).
func At[T any](root Handle[T], i int) T {
	nd := root.nd
	for {
		if nd.leaf {
			return nd.values[i]
		}
		idx, before := locateChild(nd, i)
		nd = nd.children[idx].nd
		i -= before
	}
}

// Set replaces the value at position i. root must be uniquely owned at
// every level it descends through unshared; callers pass the list's own
// root, which the root-ownership invariant guarantees is never shared at
// the top, and prepareWrite is used for every level below that.
func Set[T any](rootNode *node[T], i int, v T) {
	nd := rootNode
	for {
		if nd.leaf {
			nd.values[i] = v
			return
		}
		idx, before := locateChild(nd, i)
		nd = prepareWrite(nd, idx)
		i -= before
	}
}

// insertOne inserts v at position i within nd's subtree, returning an
// overflow sibling if nd split.
func insertOne[T any](nd *node[T], i int, v T) (Handle[T], bool) {
	if nd.leaf {
		return insertLeafEntry(nd, i, v)
	}
	idx, before := locateChild(nd, i)
	child := prepareWrite(nd, idx)
	sibling, overflow := insertOne(child, i-before, v)
	adjustN(nd)
	if !overflow {
		return Handle[T]{}, false
	}
	return insertInnerEntry(nd, idx+1, sibling)
}

// InsertOne inserts v at position i into the tree rooted at root (height
// levels tall). Returns the new root and height, having absorbed root
// overflow by wrapping a fresh internal node when necessary.
func InsertOne[T any](root Handle[T], height int, i int, v T) (Handle[T], int) {
	if !root.valid() {
		return newLeaf([]T{v}), 1
	}
	root = ensureUnique(root)
	sibling, overflow := insertOne(root.nd, i, v)
	if !overflow {
		return root, height
	}
	tracer().Debugf("root overflowed at height %d: growing a new root", height)
	return newInternal([]Handle[T]{root, sibling}), height + 1
}

// deleteRange removes [i, j) from nd's subtree (height levels tall, nd
// already mutable). Returns the number of levels nd's own height shrank
// by, which the caller must fold into its own bookkeeping.
func deleteRange[T any](nd *node[T], height int, i, j int) int {
	if i <= 0 && j >= nd.n {
		nd.values, nd.children, nd.n = nil, nil, 0
		return 0
	}
	if nd.leaf {
		nd.values = removeRange(nd.values, i, j)
		adjustN(nd)
		return 0
	}

	k1, before1 := locateChild(nd, i)
	k2, before2 := locateChild(nd, j-1)

	loss := 0
	if k1 == k2 {
		child := prepareWrite(nd, k1)
		childLoss := deleteRange(child, height-1, i-before1, j-before1)
		adjustN(nd)
		if childLoss > 0 {
			loss = reinsertSubtree(nd, k1, childLoss)
		} else {
			loss = underflowFix(nd, k1)
		}
	} else {
		loss = deleteRangeSplit(nd, height, k1, before1, k2, before2, i, j)
	}

	if loss == 0 && !nd.leaf && len(nd.children) == 1 {
		loss = collapse(nd)
	}
	return loss
}

// deleteRangeSplit handles the case where the deleted range spans two
// distinct children k1 != k2 of nd: it recurses into both ends, drops any
// children fully contained between them, and reconciles whatever short
// subtree(s) result via concat, reinsert, or a plain occupancy fix.
func deleteRangeSplit[T any](nd *node[T], height, k1, before1, k2, before2, i, j int) int {
	childL := prepareWrite(nd, k1)
	endL := childL.n
	dL := deleteRange(childL, height-1, i-before1, endL)

	childR := prepareWrite(nd, k2)
	dR := deleteRange(childR, height-1, 0, j-before2)

	if k2 > k1+1 {
		for idx := k1 + 1; idx < k2; idx++ {
			nd.children[idx].release()
		}
		nd.children = append(nd.children[:k1+1], nd.children[k2:]...)
		k2 = k1 + 1
	}
	adjustN(nd)

	childLEmpty := childL.n == 0
	childREmpty := childR.n == 0
	lh := height - 1 - dL
	rh := height - 1 - dR

	switch {
	case childLEmpty && childREmpty:
		nd.children[k1].release()
		nd.children[k2].release()
		nd.children = append(nd.children[:k1], nd.children[k2+1:]...)
		adjustN(nd)
		return 0

	case childLEmpty:
		nd.children[k1].release()
		nd.children = append(nd.children[:k1], nd.children[k1+1:]...)
		adjustN(nd)
		return resolveFocus(nd, k1, dR)

	case childREmpty:
		nd.children[k2].release()
		nd.children = append(nd.children[:k2], nd.children[k2+1:]...)
		adjustN(nd)
		return resolveFocus(nd, k1, dL)

	default:
		if dL > 0 && dR > 0 {
			leftH := nd.children[k1]
			rightH := nd.children[k2]
			nd.children = append(nd.children[:k1], nd.children[k2+1:]...)
			merged, mergedHeight := concatSubtrees(leftH, lh, rightH, rh)
			nd.children = insertHandleAt(nd.children, k1, merged)
			adjustN(nd)
			return resolveFocus(nd, k1, height-1-mergedHeight)
		}
		if dL > 0 {
			return resolveFocus(nd, k1, dL)
		}
		if dR > 0 {
			return resolveFocus(nd, k2, dR)
		}
		loss := underflowFix(nd, k1)
		if loss == 0 && k2 < len(nd.children) {
			loss = underflowFix(nd, k2)
		}
		return loss
	}
}

// resolveFocus handles the "one short subtree, or one surviving subtree"
// reconciliation step: if it is short and has no sibling to splice into,
// nd collapses into it and loses depth levels on top of the collapse; if
// it is not actually short, a plain underflow fix suffices; otherwise it
// is spliced into its neighbor at the right depth.
func resolveFocus[T any](nd *node[T], focusIdx int, depth int) int {
	if depth > 0 && len(nd.children) == 1 {
		return collapse(nd) + depth
	}
	if depth <= 0 {
		return underflowFix(nd, focusIdx)
	}
	return reinsertSubtree(nd, focusIdx, depth)
}

// DeleteRange removes [i, j) from the tree rooted at root, returning the
// new root and height.
func DeleteRange[T any](root Handle[T], height int, i, j int) (Handle[T], int) {
	if !root.valid() {
		return root, height
	}
	root = ensureUnique(root)
	loss := deleteRange(root.nd, height, i, j)
	height -= loss
	if root.nd.n == 0 && !root.nd.leaf {
		root.nd.leaf = true
		root.nd.children = nil
		height = 1
	}
	return root, height
}

// GetRange returns a new tree holding a copy-on-write slice [i, j) of
// root's subtree. This is the simpler of the two strategies spec.md §9
// permits: clone the top level (retaining every child, O(LIMIT)), then
// delete-range off both ends, reusing the same balance machinery that
// backs DeleteRange. Every level the deletes actually touch gets cloned
// on demand by prepareWrite; everything outside [i, j) is shared, not
// copied.
func GetRange[T any](root Handle[T], height int, i, j int) (Handle[T], int) {
	if !root.valid() || i >= j {
		return Handle[T]{}, 0
	}
	cloned := cloneShallow(root)
	h := height
	if j < cloned.nd.n {
		cloned, h = DeleteRange(cloned, h, j, cloned.nd.n)
	}
	if i > 0 {
		cloned, h = DeleteRange(cloned, h, 0, i)
	}
	return cloned, h
}

// SetRange replaces [i, j) of root's subtree with the contents of other,
// by slicing out the unaffected prefix and suffix and concatenating them
// around other. other is consumed (its handle is spliced into the
// result); pass other.retain() to keep an independent reference.
func SetRange[T any](root Handle[T], height int, i, j int, other Handle[T], otherHeight int) (Handle[T], int) {
	n := 0
	if root.valid() {
		n = root.nd.n
	}
	prefix, prefixHeight := GetRange(root, height, 0, i)
	suffix, suffixHeight := GetRange(root, height, j, n)
	root.release()

	result, resultHeight := other, otherHeight
	if prefix.valid() {
		result, resultHeight = Concat(prefix, prefixHeight, result, resultHeight)
	}
	if suffix.valid() {
		result, resultHeight = Concat(result, resultHeight, suffix, suffixHeight)
	}
	if !result.valid() {
		return Handle[T]{}, 0
	}
	return result, resultHeight
}

// Concat joins left and right, in order, consuming both handles.
func Concat[T any](left Handle[T], leftHeight int, right Handle[T], rightHeight int) (Handle[T], int) {
	if !left.valid() {
		return right, rightHeight
	}
	if !right.valid() {
		return left, leftHeight
	}
	return concatSubtrees(left, leftHeight, right, rightHeight)
}

// Repeat returns count copies of root's subtree concatenated together,
// via iterative doubling (O(log count) concatenations, one per doubling
// plus one per set bit of count-1, instead of count-1), the strategy original_source/prototype/blist.py's __imul__
// uses. root is consumed.
func Repeat[T any](root Handle[T], height int, count int) (Handle[T], int) {
	if count <= 0 || !root.valid() {
		root.release()
		return Handle[T]{}, 0
	}
	result, resultHeight := root, height
	remaining := count - 1
	factor, factorHeight := root.retain(), height
	for remaining > 0 {
		if remaining&1 == 1 {
			result, resultHeight = Concat(result, resultHeight, factor.retain(), factorHeight)
		}
		remaining >>= 1
		if remaining > 0 {
			factor, factorHeight = Concat(factor, factorHeight, factor.retain(), factorHeight)
		}
	}
	factor.release()
	return result, resultHeight
}

// reverse reorders nd's subtree back to front in place.
func reverse[T any](nd *node[T]) {
	if nd.leaf {
		for i, j := 0, len(nd.values)-1; i < j; i, j = i+1, j-1 {
			nd.values[i], nd.values[j] = nd.values[j], nd.values[i]
		}
		return
	}
	for i, j := 0, len(nd.children)-1; i < j; i, j = i+1, j-1 {
		nd.children[i], nd.children[j] = nd.children[j], nd.children[i]
	}
	for i := range nd.children {
		reverse(prepareWrite(nd, i))
	}
}

// Reverse reverses root's subtree in place (cloning the top node first if
// shared) and returns the resulting root.
func Reverse[T any](root Handle[T]) Handle[T] {
	if !root.valid() {
		return root
	}
	root = ensureUnique(root)
	reverse(root.nd)
	return root
}

// IndexOf returns the position of the first value in [lo, hi) for which
// eq(v, target) holds, or -1 if none does.
func IndexOf[T any](root Handle[T], eq func(T, T) bool, target T, lo, hi int) int {
	found := -1
	walkRange(root, lo, hi, func(v T, pos int) bool {
		if eq(v, target) {
			found = pos
			return false
		}
		return true
	})
	return found
}

// Count returns the number of values in [lo, hi) for which eq(v, target)
// holds.
func Count[T any](root Handle[T], eq func(T, T) bool, target T, lo, hi int) int {
	n := 0
	walkRange(root, lo, hi, func(v T, _ int) bool {
		if eq(v, target) {
			n++
		}
		return true
	})
	return n
}

// Contains reports whether any value in [lo, hi) satisfies eq(v, target).
func Contains[T any](root Handle[T], eq func(T, T) bool, target T, lo, hi int) bool {
	return IndexOf(root, eq, target, lo, hi) >= 0
}

// walkRange visits values at positions [lo, hi) in order, stopping early
// if visit returns false.
func walkRange[T any](root Handle[T], lo, hi int, visit func(T, int) bool) {
	if !root.valid() {
		return
	}
	c := NewCursor(root)
	pos := 0
	for pos < lo {
		if _, ok := c.Next(); !ok {
			return
		}
		pos++
	}
	for pos < hi {
		v, ok := c.Next()
		if !ok {
			return
		}
		if !visit(v, pos) {
			return
		}
		pos++
	}
}

// BoundsError formats a consistent out-of-range message; callers wrap it
// with ErrIndexOutOfRange via fmt.Errorf("%w", ...).
func BoundsError(i, n int) error {
	return fmt.Errorf("index %d out of range [0, %d)", i, n)
}
