/*
Package content is the document representation produced by evaluation.

A content Node is one unit of document structure: a paragraph, a heading, a
text run, a styled group. Nodes are immutable once constructed; "modifying"
a node builds a new one sharing all unchanged substructure with the
original. Published nodes are therefore freely shareable: the same subtree
may appear in several places of one compilation without being copied.

Sibling order is preserved exactly as constructed — flow content depends on
it, and the model never reorders.

Every node carries a lazily computed content fingerprint. Value equality of
trees is fingerprint equality, which is what the memoization substrate keys
on.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package content

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.content'.
func tracer() tracing.Trace {
	return tracing.Select("press.content")
}
