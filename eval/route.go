package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/press/source"
)

// Route is the chain of source files currently being evaluated, innermost
// last. Routes are immutable cons cells living on the call stack: pushing
// allocates one node, the old route stays valid for the caller. A nil
// *Route is the empty route.
type Route struct {
	parent *Route
	id     source.ID
}

// Push extends the route by one file.
func (r *Route) Push(id source.ID) *Route {
	return &Route{parent: r, id: id}
}

// Contains tests whether id is already being evaluated. This is the cycle
// check: membership means an import closed a loop.
func (r *Route) Contains(id source.ID) bool {
	for c := r; c != nil; c = c.parent {
		if c.id == id {
			return true
		}
	}
	return false
}

// Chain returns the route as a slice, outermost first.
func (r *Route) Chain() []source.ID {
	var n int
	for c := r; c != nil; c = c.parent {
		n++
	}
	chain := make([]source.ID, n)
	for c := r; c != nil; c = c.parent {
		n--
		chain[n] = c.id
	}
	return chain
}
