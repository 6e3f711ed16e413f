/*
Package press compiles markup sources into paginated documents.

A compilation is a pure function of a World: the set of sources, fonts and
files a host exposes, plus a library scope and the current date. Hosts hand
the same World to repeated compilations and get incremental behavior for
free, because every expensive stage (module evaluation, paragraph shaping)
is memoized on content fingerprints and revalidated against the
dependencies it actually read.

The pipeline is evaluate → typeset: the eval package turns markup plus
directives into an immutable content tree, the layout package breaks that
tree into lines and pages. Both stages degrade gracefully, collecting
warnings instead of failing wherever output can still be produced.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package press

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press'.
func tracer() tracing.Trace {
	return tracing.Select("press")
}
