/*
Package doc holds the output model of the press compiler.

A Document is an ordered sequence of Frames, one per page. A Frame is a
fixed-size canvas with an ordered list of placed items: text runs, rules,
image references, placeholders, or nested frames for grouped content.
Frames are built by the typesetter and sealed before they are published;
a sealed frame is immutable and safe to share across compilations — the
memoization substrate retains frames verbatim.

Export encoders consume exactly this interface: frame size plus the
(offset, item) list, nothing else.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package doc

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.doc'.
func tracer() tracing.Trace {
	return tracing.Select("press.doc")
}
