package font

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sort"
	"strings"

	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/tyse/core/dimen"
)

// Descriptor names one variant of a font family, addressable by its index
// within a Book.
type Descriptor struct {
	Family  string
	Variant string // "regular", "bold", "italic", …
	Index   int
}

// Book is the immutable metadata of all fonts a World knows about. It maps
// family names to book indices; actual font data is loaded lazily through
// the World, keyed by index.
type Book struct {
	descriptors []Descriptor
	fp          memo.Fingerprint
}

// NewBook creates a Book over the given descriptors. Index fields are
// assigned by position.
func NewBook(descriptors []Descriptor) *Book {
	book := &Book{descriptors: make([]Descriptor, len(descriptors))}
	h := memo.NewHasher()
	for i, d := range descriptors {
		d.Index = i
		book.descriptors[i] = d
		h.WriteString(d.Family).WriteString(d.Variant).WriteInt(int64(i))
	}
	book.fp = h.Sum()
	return book
}

// Len returns the number of known fonts.
func (book *Book) Len() int {
	return len(book.descriptors)
}

// Descriptor returns the descriptor at a book index.
func (book *Book) Descriptor(index int) (Descriptor, bool) {
	if index < 0 || index >= len(book.descriptors) {
		return Descriptor{}, false
	}
	return book.descriptors[index], true
}

// Select finds the book index for a family/variant pair. Matching is
// case-insensitive on the family; an empty variant selects "regular",
// falling back to the family's first entry.
func (book *Book) Select(family, variant string) (int, bool) {
	if variant == "" {
		variant = "regular"
	}
	first := -1
	for _, d := range book.descriptors {
		if !strings.EqualFold(d.Family, family) {
			continue
		}
		if first < 0 {
			first = d.Index
		}
		if strings.EqualFold(d.Variant, variant) {
			return d.Index, true
		}
	}
	if first >= 0 {
		return first, true
	}
	return 0, false
}

// Fingerprint identifies the book's content.
func (book *Book) Fingerprint() memo.Fingerprint {
	return book.fp
}

// Metrics holds advance widths in em units, scaled by a per-mille base:
// an advance of 500 means half an em at the nominal size.
type Metrics struct {
	Advances map[rune]int
	Default  int // advance for runes missing from the table
	Ascent   int // per-mille of em above the baseline
	Descent  int // per-mille of em below the baseline
}

// FallbackMetrics returns the deterministic stand-in metric used when no
// font data is loadable: every rune advances half an em.
func FallbackMetrics() Metrics {
	return Metrics{Default: 500, Ascent: 750, Descent: 250}
}

// Font is a loaded face: descriptor plus metrics. Fonts are immutable and
// shared; the World caches them across compilations.
type Font struct {
	desc    Descriptor
	metrics Metrics
	fp      memo.Fingerprint
}

// New creates a Font from a descriptor and metrics.
func New(desc Descriptor, metrics Metrics) *Font {
	h := memo.NewHasher()
	h.WriteString(desc.Family).WriteString(desc.Variant).WriteInt(int64(desc.Index))
	h.WriteInt(int64(metrics.Default)).WriteInt(int64(metrics.Ascent)).WriteInt(int64(metrics.Descent))
	runes := make([]rune, 0, len(metrics.Advances))
	for r := range metrics.Advances {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	for _, r := range runes {
		h.WriteInt(int64(r)).WriteInt(int64(metrics.Advances[r]))
	}
	return &Font{desc: desc, metrics: metrics, fp: h.Sum()}
}

// Descriptor returns the font's descriptor.
func (f *Font) Descriptor() Descriptor {
	return f.desc
}

// Fingerprint identifies the font's content.
func (f *Font) Fingerprint() memo.Fingerprint {
	return f.fp
}

// Advance returns the advance width of rune r at the given font size.
func (f *Font) Advance(r rune, size dimen.DU) dimen.DU {
	adv := f.metrics.Default
	if f.metrics.Advances != nil {
		if a, ok := f.metrics.Advances[r]; ok {
			adv = a
		}
	}
	return dimen.DU(int64(size) * int64(adv) / 1000)
}

// Measure returns the width of s at the given font size, as the sum of
// rune advances. Kerning and shaping are the backend's business.
func (f *Font) Measure(s string, size dimen.DU) dimen.DU {
	var w dimen.DU
	for _, r := range s {
		w += f.Advance(r, size)
	}
	return w
}

// Fallback returns a Font with fallback metrics for a descriptor. Layout
// uses it when the World cannot supply data for a selected index.
func Fallback(desc Descriptor) *Font {
	tracer().Debugf("falling back to fixed metrics for %s/%s", desc.Family, desc.Variant)
	return New(desc, FallbackMetrics())
}
