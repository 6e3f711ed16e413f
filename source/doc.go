/*
Package source carries immutable source text for the press compiler.

A Source pairs a file identifier with its text and a content fingerprint.
Sources are created once per file by the hosting World and shared by
pointer; the compiler never copies text. Editing is modeled functionally:
Replace produces a fresh Source with a fresh fingerprint, leaving the old
one intact for any reader still holding it.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package source

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.source'.
func tracer() tracing.Trace {
	return tracing.Select("press.source")
}
