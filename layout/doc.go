/*
Package layout typesets content into pages.

The typesetter is a single-pass, constraint-driven recursive descent over
the content tree: every node kind owns a layout rule that receives the
available space and the style chain in effect at that point, and places
items into the current page frame. Content that does not fit the remaining
height continues on a fresh page; splitting happens between paragraph
lines, between list items and between code lines, never inside a line. A
line that fits no page at all is placed anyway, overflowing, with a
warning — layout never drops content and never aborts.

Layout is deliberately fault-tolerant, the counterpart to the fail-fast
evaluator: missing images and unloadable fonts degrade to placeholders and
fallback metrics plus a warning.

Paragraph line breaking is a pure function of (content, style chain,
width) and is memoized; sibling paragraphs are pre-measured concurrently
to warm the cache, while placement runs strictly in document order.

All geometry is computed in dimen.DU fixed-point units. Fits-decisions
use an epsilon of one DU: a shortfall smaller than that counts as
fitting, so repeated additions near an exact page boundary cannot make
fragmentation decisions oscillate.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.layout'.
func tracer() tracing.Trace {
	return tracing.Select("press.layout")
}
