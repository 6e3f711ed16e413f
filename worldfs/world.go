package worldfs

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/npillmayer/press/eval"
	"github.com/npillmayer/press/font"
	"github.com/npillmayer/press/source"
)

// World is a directory-backed compilation World. Create one with New and
// hand it to press.Compile; one World may serve many compilations.
type World struct {
	root string
	main source.ID
	lib  *eval.Scope
	book *font.Book

	mu      sync.Mutex
	fonts   map[int]*font.Font
	sources map[source.ID]*source.Source
	files   map[source.ID]*source.Bytes
}

// New creates a World rooted at the main file's directory. The main
// source identifier becomes the file's base name.
func New(mainFile string) (*World, error) {
	abs, err := filepath.Abs(mainFile)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}
	w := &World{
		root:    filepath.Dir(abs),
		main:    source.ID(filepath.Base(abs)),
		lib:     eval.NewScope(nil),
		book:    builtinBook(),
		fonts:   make(map[int]*font.Font),
		sources: make(map[source.ID]*source.Source),
		files:   make(map[source.ID]*source.Bytes),
	}
	tracer().Infof("world rooted at %s, main %s", w.root, w.main)
	return w, nil
}

// Library returns the predefined scope. Hosts may Define additional
// bindings before compiling.
func (w *World) Library() *eval.Scope { return w.lib }

// Book returns the synthetic font book.
func (w *World) Book() *font.Book { return w.book }

// Main returns the entry source identifier.
func (w *World) Main() source.ID { return w.main }

// filePath maps an identifier to a path below the root. Identifiers are
// cleaned against a virtual root first, so '..' segments can never climb
// above the world's directory.
func (w *World) filePath(id source.ID) string {
	clean := path.Clean("/" + string(id))
	return filepath.Join(w.root, filepath.FromSlash(clean))
}

// Source loads and caches the source text for an identifier.
func (w *World) Source(id source.ID) (*source.Source, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if src, ok := w.sources[id]; ok {
		return src, nil
	}
	data, err := os.ReadFile(w.filePath(id))
	if err != nil {
		return nil, err
	}
	src := source.New(id, string(data))
	w.sources[id] = src
	return src, nil
}

// File loads and caches raw bytes for an identifier.
func (w *World) File(id source.ID) (*source.Bytes, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.files[id]; ok {
		return b, nil
	}
	data, err := os.ReadFile(w.filePath(id))
	if err != nil {
		return nil, err
	}
	b := source.NewBytes(id, data)
	w.files[id] = b
	return b, nil
}

// Invalidate drops the cached source and file for an identifier, so the
// next access re-reads from disk. Call after observing an edit.
func (w *World) Invalidate(id source.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.sources, id)
	delete(w.files, id)
}

// Font loads the synthetic font at a book index.
func (w *World) Font(index int) (*font.Font, bool) {
	desc, ok := w.book.Descriptor(index)
	if !ok {
		return nil, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if f, ok := w.fonts[index]; ok {
		return f, true
	}
	f := font.New(desc, builtinMetrics(desc))
	w.fonts[index] = f
	return f, true
}

// Today returns the current date. With an offset the date is taken in the
// fixed UTC+offsetHours zone, otherwise in local time.
func (w *World) Today(offsetHours int, withOffset bool) (time.Time, bool) {
	now := time.Now()
	if withOffset {
		zone := time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
		now = now.In(zone)
	}
	return now, true
}

// builtinBook enumerates the synthetic families.
func builtinBook() *font.Book {
	var descriptors []font.Descriptor
	for _, family := range []string{"serif", "sans", "mono"} {
		for _, variant := range []string{"regular", "bold", "italic"} {
			descriptors = append(descriptors, font.Descriptor{Family: family, Variant: variant})
		}
	}
	return font.NewBook(descriptors)
}

// builtinMetrics derives a deterministic advance table for a descriptor.
// Mono is fixed-width; proportional families get narrow/wide classes and
// bold gets a slightly wider em fraction, enough to make line breaks
// react to styling the way real metrics would.
func builtinMetrics(desc font.Descriptor) font.Metrics {
	if desc.Family == "mono" {
		return font.Metrics{Default: 600, Ascent: 800, Descent: 200}
	}
	def := 500
	if desc.Variant == "bold" {
		def = 550
	}
	advances := make(map[rune]int)
	for _, r := range "iljtf.,;:'!|" {
		advances[r] = def * 2 / 5
	}
	for _, r := range "mwMW" {
		advances[r] = def * 8 / 5
	}
	advances[' '] = def / 2
	return font.Metrics{Advances: advances, Default: def, Ascent: 750, Descent: 250}
}
