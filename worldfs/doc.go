/*
Package worldfs backs a compilation World by a directory tree.

Source and file identifiers map to slash paths below a root directory;
anything escaping the root is rejected. Loaded sources and files are
cached per World, so repeated compiler accesses stay cheap; hosts that
watch for edits call Invalidate to drop stale entries and let the
compiler's revalidation pick up the new content.

Fonts are synthetic: a fixed book of common families with deterministic
advance-width tables. That keeps measurement meaningful and reproducible
without shipping font files; rendering backends substitute real faces.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package worldfs

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'press.worldfs'.
func tracer() tracing.Trace {
	return tracing.Select("press.worldfs")
}
