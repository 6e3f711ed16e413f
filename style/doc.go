/*
Package style implements scoped style resolution for the press compiler.

Styles live in a Chain: a persistent cons list of override frames. Entering
a scope that changes properties pushes a new head frame; the old chain stays
valid and shared, which makes chains safe to hand to parallel sibling
layouts. Resolution walks innermost to outermost and falls back to a global
default table. Accumulating properties (list nesting depth and friends) are
the exception: they fold over all frames instead of short-circuiting.

Chains are content-fingerprinted: two chains built independently from equal
frames produce equal fingerprints and therefore share memoization slots.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.style'.
func tracer() tracing.Trace {
	return tracing.Select("press.style")
}
