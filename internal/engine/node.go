package engine

// node is either a leaf, holding user values directly, or an internal
// node, holding handles to child subtrees. n is the total number of user
// values in the subtree rooted at this node (itself, if a leaf).
type node[T any] struct {
	leaf     bool
	n        int
	values   []T         // leaf only
	children []Handle[T] // internal only
}

// handle is a reference-counted pointer to a node. Several trees (or
// several subtrees within one tree, after a clone) may hold handles to
// the same node; rc is shared among all of them and counts how many.
// A zero handle (rc == nil) denotes "no subtree" and is only ever used
// as a sentinel return value, never stored in a live tree.
type Handle[T any] struct {
	rc *int
	nd *node[T]
}

func (h Handle[T]) valid() bool { return h.nd != nil }

// Valid reports whether h points at a node (as opposed to being the
// zero-value "no subtree" sentinel).
func (h Handle[T]) Valid() bool { return h.valid() }

// Retain records a new owner of the node and returns h, for package
// blist's call sites that need to keep their own reference alive across
// a call that consumes its Handle argument.
func (h Handle[T]) Retain() Handle[T] { return h.retain() }

// NodePtr exposes the underlying node for in-place mutation by
// operations (Set, Reverse) that package blist calls directly against an
// already-uniquely-owned root. The returned pointer's type is
// unexported: callers can only ever pass it straight into another engine
// function, never declare a variable of its type.
func (h Handle[T]) NodePtr() *node[T] { return h.nd }

// EmptyLeaf returns a fresh, empty leaf handle — the representation of a
// non-nil but empty list root.
func EmptyLeaf[T any]() Handle[T] { return newLeaf[T](nil) }

// EnsureUnique exposes ensureUnique for package blist's lazy
// clone-on-first-write of a List's own root.
func EnsureUnique[T any](h Handle[T]) Handle[T] { return ensureUnique(h) }

// Release exposes release for package blist's cleanup of a subtree it
// decided not to keep (e.g. a sort result discarded after detecting
// concurrent modification of the list being sorted).
func Release[T any](h Handle[T]) { h.release() }

// EntryTotal returns the total number of values in h's subtree (0 for an
// invalid handle).
func EntryTotal[T any](h Handle[T]) int {
	if !h.valid() {
		return 0
	}
	return h.nd.n
}

func newHandle[T any](nd *node[T]) Handle[T] {
	rc := 1
	return Handle[T]{rc: &rc, nd: nd}
}

func newLeaf[T any](values []T) Handle[T] {
	return newHandle(&node[T]{leaf: true, values: values, n: len(values)})
}

func newInternal[T any](children []Handle[T]) Handle[T] {
	nd := &node[T]{children: children}
	adjustN(nd)
	return newHandle(nd)
}

// shared reports whether this node is referenced from more than one
// place, i.e. whether a mutation through this handle would be visible
// to another tree.
func (h Handle[T]) shared() bool { return h.rc != nil && *h.rc > 1 }

// retain records a new owner of the node and returns the same handle,
// for use in call chains like `children[i] = src.retain()`.
func (h Handle[T]) retain() Handle[T] {
	if h.rc != nil {
		*h.rc++
	}
	return h
}

// release drops one ownership edge. When the count reaches zero the node
// (and, transitively, any child whose own count reaches zero) is torn
// down. Destruction is iterative via an explicit worklist rather than
// recursive, so releasing a deep, uniquely-owned tree cannot overflow the
// goroutine stack.
func (h Handle[T]) release() {
	if h.rc == nil {
		return
	}
	*h.rc--
	if *h.rc > 0 {
		return
	}
	work := []Handle[T]{h}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if cur.nd == nil {
			continue
		}
		if !cur.nd.leaf {
			for _, c := range cur.nd.children {
				if c.rc == nil {
					continue
				}
				*c.rc--
				if *c.rc == 0 {
					work = append(work, c)
				}
			}
		}
		cur.nd.values = nil
		cur.nd.children = nil
	}
}

// cloneShallow makes a fresh, uniquely-owned copy of h's top node. A leaf
// clone copies its value slice; an internal clone copies its child slice
// and retains each child (the clone and the original now share them,
// which is the entire point: cloning is O(LIMIT), not O(subtree)).
func cloneShallow[T any](h Handle[T]) Handle[T] {
	if !h.valid() {
		return Handle[T]{}
	}
	if h.nd.leaf {
		values := append([]T(nil), h.nd.values...)
		return newLeaf(values)
	}
	children := make([]Handle[T], len(h.nd.children))
	for i, c := range h.nd.children {
		children[i] = c.retain()
	}
	return newInternal(children)
}

// ensureUnique returns a handle to a uniquely-owned node with the same
// content as h, cloning only if h is currently shared. Used at the entry
// point of any primitive that is about to mutate a subtree it did not
// itself just allocate (e.g. the taller side of a concat).
func ensureUnique[T any](h Handle[T]) Handle[T] {
	if !h.valid() || !h.shared() {
		return h
	}
	cloned := cloneShallow(h)
	h.release()
	return cloned
}

// prepareWrite returns a mutable *node[T] for parent.children[slot],
// cloning it first if it is shared. The clone replaces the slot in
// parent.children, so the caller always sees the returned node reflected
// in the tree from then on.
func prepareWrite[T any](parent *node[T], slot int) *node[T] {
	child := parent.children[slot]
	if !child.shared() {
		return child.nd
	}
	cloned := cloneShallow(child)
	child.release()
	parent.children[slot] = cloned
	return cloned.nd
}

// adjustN recomputes n from the node's own content: its value count if a
// leaf, or the sum of its children's n if internal. Called after any
// mutation to a node's values/children that does not go through a helper
// which already maintains n.
func adjustN[T any](nd *node[T]) {
	if nd.leaf {
		nd.n = len(nd.values)
		return
	}
	total := 0
	for _, c := range nd.children {
		total += c.nd.n
	}
	nd.n = total
}

// entryCount is the occupancy figure balance decisions are made on: the
// number of values in a leaf, or the number of children in an internal
// node. Distinct from n, which is the total item count of the subtree.
func entryCount[T any](h Handle[T]) int {
	if h.nd.leaf {
		return len(h.nd.values)
	}
	return len(h.nd.children)
}
