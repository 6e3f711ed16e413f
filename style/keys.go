package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/tyse/core/dimen"
)

// Key identifies a style property.
type Key string

// The property keys known to the layout engine. Directive `@set` accepts
// exactly these names.
const (
	PageWidth    Key = "page-width"
	PageHeight   Key = "page-height"
	MarginTop    Key = "margin-top"
	MarginBottom Key = "margin-bottom"
	MarginLeft   Key = "margin-left"
	MarginRight  Key = "margin-right"
	FontFamily   Key = "font-family"
	FontVariant  Key = "font-variant"
	CodeFamily   Key = "code-family"
	FontSize     Key = "font-size"
	Leading      Key = "leading"
	ParSpacing   Key = "par-spacing"
	Align        Key = "align"
	ListIndent   Key = "list-indent"
	ListDepth    Key = "list-depth"  // accumulating
	QuoteDepth   Key = "quote-depth" // accumulating
)

// Known reports whether key names a registered property.
func Known(key Key) bool {
	_, ok := defaults[key]
	return ok
}

// IsAccumulating reports whether resolution folds all frames for key
// instead of stopping at the innermost match.
func IsAccumulating(key Key) bool {
	return accumulating[key]
}

// accumulating properties sum integer contributions from all frames,
// outermost first.
var accumulating = map[Key]bool{
	ListDepth:  true,
	QuoteDepth: true,
}

// defaults is the outermost frame of every chain: the value returned when
// no override matches. Page geometry defaults to A4 with one-inch margins.
var defaults = map[Key]Property{
	PageWidth:    LengthProp(595 * dimen.PT),
	PageHeight:   LengthProp(842 * dimen.PT),
	MarginTop:    LengthProp(72 * dimen.PT),
	MarginBottom: LengthProp(72 * dimen.PT),
	MarginLeft:   LengthProp(72 * dimen.PT),
	MarginRight:  LengthProp(72 * dimen.PT),
	FontFamily:   StringProp("serif"),
	FontVariant:  StringProp("regular"),
	CodeFamily:   StringProp("mono"),
	FontSize:     LengthProp(10 * dimen.PT),
	Leading:      LengthProp(12 * dimen.PT),
	ParSpacing:   LengthProp(6 * dimen.PT),
	Align:        StringProp("left"),
	ListIndent:   LengthProp(18 * dimen.PT),
	ListDepth:    IntProp(0),
	QuoteDepth:   IntProp(0),
}

// Default returns the global default for a key, NullStyle for unknown keys.
func Default(key Key) Property {
	return defaults[key]
}
