/*
Package eval turns parsed source into content.

The front-end syntax is Markdown, parsed by goldmark (parsing proper is not
our business — the evaluator starts from the syntax tree). On top of the
markup, paragraphs whose lines start with '@' are directives:

	@import "chapter.md" as ch
	@let title = "On Persistent Trees"
	@set font-size = 12pt
	@emit title

Evaluating one source file yields a Module: a scope of exported bindings
plus the content written at the top level. Modules are memoized; an entry
stays valid while the source text and everything it transitively imported
are unchanged.

Imports are guarded by a Route, the chain of files currently being
evaluated. A file that appears in its own route fails immediately with a
cyclic-import error carrying the chain — recursion depth is bounded by the
number of distinct files, never by a depth limit.

Evaluation fails fast: the first fatal error aborts the module. This is
deliberately asymmetric to layout, which degrades gracefully instead.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package eval

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.eval'.
func tracer() tracing.Trace {
	return tracing.Select("press.eval")
}
