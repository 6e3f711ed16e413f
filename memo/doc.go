/*
Package memo is the memoization substrate of the press compiler.

Overview

Both the evaluator and the typesetter are, at their core, pure functions of
their inputs. Package memo lets them skip re-computation across incremental
recompilations: results are cached under a fingerprint derived from the
*content* of the arguments, not from pointer identity. Two style chains built
independently but carrying equal frames produce equal fingerprints and thus
share one cache slot.

A cache entry stays valid for as long as none of the external inputs read
during its computation (source text, file bytes, font data) have changed.
Computations declare those reads through a Recorder; on lookup the table
re-probes every recorded dependency and treats the entry as a miss when any
fingerprint diverged.

Clients own the invalidation horizon: a long-running host will typically keep
font-keyed tables across many compilations and clear source-keyed tables
after each one (see Table.Clear).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package memo

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.memo'.
func tracer() tracing.Trace {
	return tracing.Select("press.memo")
}
