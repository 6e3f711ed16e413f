package press_test

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"testing"
	"time"

	"github.com/npillmayer/press"
	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/eval"
	"github.com/npillmayer/press/font"
	"github.com/npillmayer/press/source"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memWorld is an in-memory World for integration tests. Fonts are
// synthetic fixed-width faces (half an em per rune).
type memWorld struct {
	lib     *eval.Scope
	book    *font.Book
	main    source.ID
	sources map[source.ID]*source.Source
	files   map[source.ID][]byte
	day     time.Time
}

func newMemWorld(mainText string) *memWorld {
	w := &memWorld{
		lib: eval.NewScope(nil),
		book: font.NewBook([]font.Descriptor{
			{Family: "serif", Variant: "regular"},
			{Family: "serif", Variant: "bold"},
			{Family: "mono", Variant: "regular"},
		}),
		main:    "main.md",
		sources: make(map[source.ID]*source.Source),
		files:   make(map[source.ID][]byte),
		day:     time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
	w.Set("main.md", mainText)
	return w
}

// Set stores or replaces a source, the edit primitive of the tests.
func (w *memWorld) Set(id source.ID, text string) {
	if old, ok := w.sources[id]; ok {
		w.sources[id] = old.Replace(text)
		return
	}
	w.sources[id] = source.New(id, text)
}

func (w *memWorld) Library() *eval.Scope { return w.lib }
func (w *memWorld) Book() *font.Book     { return w.book }
func (w *memWorld) Main() source.ID      { return w.main }

func (w *memWorld) Source(id source.ID) (*source.Source, error) {
	src, ok := w.sources[id]
	if !ok {
		return nil, fmt.Errorf("no source %q", id)
	}
	return src, nil
}

func (w *memWorld) File(id source.ID) (*source.Bytes, error) {
	data, ok := w.files[id]
	if !ok {
		return nil, fmt.Errorf("no file %q", id)
	}
	return source.NewBytes(id, data), nil
}

func (w *memWorld) Font(index int) (*font.Font, bool) {
	desc, ok := w.book.Descriptor(index)
	if !ok {
		return nil, false
	}
	return font.New(desc, font.Metrics{Default: 500, Ascent: 750, Descent: 250}), true
}

func (w *memWorld) Today(offsetHours int, withOffset bool) (time.Time, bool) {
	if withOffset {
		return w.day.Add(time.Duration(offsetHours) * time.Hour), true
	}
	return w.day, true
}

// smallPageDirectives squeeze the page so that two one-line paragraphs
// fill it: a 120x56pt page with 10pt margins holds three 12pt lines.
const smallPageDirectives = `@set page-width = 120pt
@set page-height = 56pt
@set margin-top = 10pt
@set margin-bottom = 10pt
@set margin-left = 10pt
@set margin-right = 10pt`

func TestCompileSimpleDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "press")
	defer teardown()
	//
	world := newMemWorld("# Title\n\nA paragraph with *some* text.\n")
	document, warnings, err := press.Compile(world)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, document.Pages, 1)
	assert.NotEmpty(t, document.Pages[0].Items())
}

func TestCompileDeterministic(t *testing.T) {
	text := "# Report\n\n@let n = 6 * 7\n@emit n\n\nSome body text follows here.\n"
	a, _, err := press.Compile(newMemWorld(text))
	require.NoError(t, err)
	b, _, err := press.Compile(newMemWorld(text))
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "expected repeated compilations to produce identical documents")
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestCompileCacheTransparency(t *testing.T) {
	world := newMemWorld("@import \"defs.md\" as d\n\nHello *world*, value d.\n")
	world.Set("defs.md", "@let v = 1\n")
	compiler := press.NewCompiler()
	cached, _, err := compiler.Compile(world)
	require.NoError(t, err)
	compiler.DisableCaches()
	plain, _, err := compiler.Compile(world)
	require.NoError(t, err)
	assert.True(t, cached.Equal(plain), "expected identical output with caches disabled")
}

func TestCompileIncrementalEditReusesPages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "press")
	defer teardown()
	//
	text := func(tail string) string {
		return smallPageDirectives + "\n\nfirst para\n\nsecond para\n\n" + tail + "\n"
	}
	world := newMemWorld(text("old tail"))
	compiler := press.NewCompiler()
	before, _, err := compiler.Compile(world)
	require.NoError(t, err)
	require.Len(t, before.Pages, 2)

	world.Set("main.md", text("new tail"))
	after, _, err := compiler.Compile(world)
	require.NoError(t, err)
	require.Len(t, after.Pages, 2)

	assert.Equal(t, before.Pages[0].Fingerprint(), after.Pages[0].Fingerprint(),
		"expected the untouched first page to be reproduced identically")
	assert.NotEqual(t, before.Pages[1].Fingerprint(), after.Pages[1].Fingerprint())

	_, frames := compiler.Stats()
	assert.Greater(t, frames.Hits, int64(0), "expected unchanged paragraphs to hit the shaping cache")
}

func TestCompileImportCycleFails(t *testing.T) {
	world := newMemWorld("@import \"a.md\"\n")
	world.Set("a.md", "@import \"main.md\"\n")
	_, _, err := press.Compile(world)
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.KindCycle, de.Kind)
	assert.NotEmpty(t, de.Trace)
}

func TestCompileMissingMain(t *testing.T) {
	world := newMemWorld("irrelevant")
	world.main = "ghost.md"
	_, _, err := press.Compile(world)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.KindNotFound, de.Kind)
}

func TestCompileGracefulMissingImage(t *testing.T) {
	world := newMemWorld("An image: ![alt](ghost.png)\n")
	document, warnings, err := press.Compile(world)
	require.NoError(t, err, "a missing image must not fail the compilation")
	require.Len(t, document.Pages, 1)
	assert.Len(t, warnings, 1)
}

func TestCompileEvictClearsCaches(t *testing.T) {
	world := newMemWorld("Some text.\n")
	compiler := press.NewCompiler()
	_, _, err := compiler.Compile(world)
	require.NoError(t, err)
	compiler.Evict(press.Durable)
	modules, frames := compiler.Stats()
	assert.Zero(t, modules.Entries)
	assert.Zero(t, frames.Entries)
}

func TestCompileWarningsReturnedOnFailure(t *testing.T) {
	// the HTML warning precedes the fatal unknown-name error
	world := newMemWorld("<div>raw</div>\n\n@emit nosuchname\n")
	_, warnings, err := press.Compile(world)
	require.Error(t, err)
	assert.NotEmpty(t, warnings, "expected warnings to be reported alongside the failure")
}
