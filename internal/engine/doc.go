/*
Package engine implements the B+-tree-like backend behind blist.List.

It is staged as an internal package the way cords/btree is staged as an
in-progress backend behind the public cords.Cord API: node layout, the
balance primitives (borrow/merge/collapse/overflow-split), copy-on-write
subtree sharing through reference-counted handles, the bulk forest
builder, the merge sort, and the two iterator flavors all live here.
The root container in package blist is the only caller.

Every non-root node carries between half and limit entries (values for a
leaf, child handles for an internal node); the root may carry between 0
and limit. All leaves sit at the same depth. See invariants.go for the
checker used by tests.
*/
package engine

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'blist/engine'.
func tracer() tracing.Trace {
	return tracing.Select("blist/engine")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
