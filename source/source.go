package source

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"path"
	"strings"

	"github.com/npillmayer/press/memo"
)

// ID identifies one source file within a compilation. IDs are plain
// slash-separated paths, rooted at the World's discretion.
type ID string

func (id ID) String() string {
	return string(id)
}

// Resolve interprets an import path relative to the directory of id.
// Absolute-looking paths (leading '/') resolve against the World root.
func (id ID) Resolve(ref string) ID {
	if strings.HasPrefix(ref, "/") {
		return ID(path.Clean(strings.TrimPrefix(ref, "/")))
	}
	return ID(path.Join(path.Dir(string(id)), ref))
}

// Source is an immutable piece of source text. The fingerprint is computed
// once at construction and identifies the text's content, not the Source
// allocation, so re-reading an unchanged file yields an equal fingerprint.
type Source struct {
	id    ID
	text  string
	lines []int // byte offsets of line starts
	fp    memo.Fingerprint
}

// New creates a Source for the given identifier and text.
func New(id ID, text string) *Source {
	src := &Source{id: id, text: text}
	src.lines = lineOffsets(text)
	src.fp = memo.NewHasher().WriteString(string(id)).WriteString(text).Sum()
	tracer().Debugf("new source %s, fingerprint %v", id, src.fp)
	return src
}

// ID returns the source's identifier.
func (src *Source) ID() ID {
	return src.id
}

// Text returns the full source text.
func (src *Source) Text() string {
	return src.text
}

// Fingerprint returns the content fingerprint of the source.
func (src *Source) Fingerprint() memo.Fingerprint {
	return src.fp
}

// Replace produces a new Source carrying text, sharing the identifier.
// The receiver is left untouched; this is the edit primitive for
// incremental hosts (editors, language servers).
func (src *Source) Replace(text string) *Source {
	return New(src.id, text)
}

// Position translates a byte offset into a 1-based line/column pair.
// Offsets beyond the text clamp to the last position.
func (src *Source) Position(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src.text) {
		offset = len(src.text)
	}
	lo, hi := 0, len(src.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if src.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - src.lines[lo] + 1
}

func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// Bytes wraps raw file content (images, data files) with its fingerprint.
// Like Source, Bytes values are shared, never copied.
type Bytes struct {
	id   ID
	data []byte
	fp   memo.Fingerprint
}

// NewBytes wraps raw bytes for identifier id.
func NewBytes(id ID, data []byte) *Bytes {
	return &Bytes{id: id, data: data, fp: memo.Sum(data)}
}

// ID returns the identifier the bytes were loaded from.
func (b *Bytes) ID() ID {
	return b.id
}

// Data returns the raw bytes. Callers must not mutate the slice.
func (b *Bytes) Data() []byte {
	return b.data
}

// Fingerprint returns the content fingerprint of the bytes.
func (b *Bytes) Fingerprint() memo.Fingerprint {
	return b.fp
}
