/*
Package diag collects diagnostics during one compilation pass.

A single Sink is shared by the evaluator and the typesetter. Warnings are
appended concurrently-safely and survive a later fatal failure: authors get
partial diagnostics even when evaluation aborts. At most one fatal error is
retained per compilation (the first one wins); layout never produces fatal
errors, only warnings — that asymmetry is deliberate.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package diag

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.diag'.
func tracer() tracing.Trace {
	return tracing.Select("press.diag")
}
