/*
Package font provides font metadata and metric-based text measurement.

The press core does not shape or rasterize glyphs — that is the job of an
external backend. What layout needs from a font is advance widths: enough
to break paragraphs into lines deterministically. A Font therefore carries
a table of per-rune advances (in em units); families without loadable data
fall back to a fixed-advance metric so that layout degrades gracefully
instead of failing.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.font'.
func tracer() tracing.Trace {
	return tracing.Select("press.font")
}
