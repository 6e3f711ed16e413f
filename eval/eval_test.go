package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/press/content"
	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/press/source"
	"github.com/npillmayer/press/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse/core/dimen"
)

// testEnv is an in-memory Environment.
type testEnv struct {
	lib     *Scope
	sources map[source.ID]string
	day     time.Time
	noDay   bool
}

func newTestEnv(sources map[source.ID]string) *testEnv {
	return &testEnv{
		lib:     NewScope(nil),
		sources: sources,
		day:     time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) Library() *Scope { return e.lib }

func (e *testEnv) Source(id source.ID) (*source.Source, error) {
	text, ok := e.sources[id]
	if !ok {
		return nil, fmt.Errorf("no source %q", id)
	}
	return source.New(id, text), nil
}

func (e *testEnv) Today(offsetHours int, withOffset bool) (time.Time, bool) {
	if e.noDay {
		return time.Time{}, false
	}
	if withOffset {
		return e.day.Add(time.Duration(offsetHours) * time.Hour), true
	}
	return e.day, true
}

func evalMain(t *testing.T, env *testEnv, sink Reporter) (*Module, error) {
	t.Helper()
	src, err := env.Source("main.md")
	if err != nil {
		t.Fatal(err)
	}
	mod, _, err := Eval(env, memo.NewTable[Cached](), nil, sink, src)
	return mod, err
}

// firstOfKind finds the first node of a kind in depth-first order.
func firstOfKind(n *content.Node, kind content.Kind) *content.Node {
	if n == nil {
		return nil
	}
	if n.Kind() == kind {
		return n
	}
	for _, ch := range n.Children() {
		if hit := firstOfKind(ch, kind); hit != nil {
			return hit
		}
	}
	return nil
}

func TestEvalBasicMarkup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "press.eval")
	defer teardown()
	//
	env := newTestEnv(map[source.ID]string{
		"main.md": "# Title\n\nSome *emphasis* and **strength**.\n\n- one\n- two\n",
	})
	mod, err := evalMain(t, env, diag.NewSink())
	if err != nil {
		t.Fatal(err)
	}
	root := mod.Content()
	t.Logf("content =\n%s", content.Dump(root))
	h := firstOfKind(root, content.KHeading)
	if h == nil || h.Level() != 1 {
		t.Error("expected a level-1 heading")
	}
	if firstOfKind(root, content.KEmph) == nil {
		t.Error("expected an emphasis node")
	}
	if firstOfKind(root, content.KStrong) == nil {
		t.Error("expected a strong node")
	}
	list := firstOfKind(root, content.KList)
	if list == nil || len(list.Children()) != 2 {
		t.Fatal("expected a 2-item list")
	}
	if list.Level() != 0 {
		t.Error("expected an unordered list")
	}
}

func TestEvalLetAndEmit(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@let x = 2 + 3 * 4\n@emit x\n",
	})
	mod, err := evalMain(t, env, diag.NewSink())
	if err != nil {
		t.Fatal(err)
	}
	p := firstOfKind(mod.Content(), content.KParagraph)
	if p == nil {
		t.Fatal("expected the emitted value as a paragraph")
	}
	if txt := firstOfKind(p, content.KText); txt == nil || txt.Text() != "14" {
		t.Errorf("expected emitted text 14, got %v", txt)
	}
}

func TestEvalUnitArithmetic(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@let w = 1in + 2cm * 0\n@emit w\n",
	})
	mod, err := evalMain(t, env, diag.NewSink())
	if err != nil {
		t.Fatal(err)
	}
	// a length emits as vertical space of that amount
	vs := firstOfKind(mod.Content(), content.KVSpace)
	if vs == nil {
		t.Fatal("expected emitted length to become vertical space")
	}
	if vs.Amount() != 72*dimen.PT {
		t.Errorf("expected 1in = 72pt, got %v", vs.Amount())
	}
}

func TestEvalSetStylesRemainder(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "before\n\n@set font-size = 14pt\n\nafter\n",
	})
	mod, err := evalMain(t, env, diag.NewSink())
	if err != nil {
		t.Fatal(err)
	}
	root := mod.Content()
	if root.Kind() != content.KSequence || len(root.Children()) != 2 {
		t.Fatalf("expected [paragraph, styled], got\n%s", content.Dump(root))
	}
	styled := root.Children()[1]
	if styled.Kind() != content.KStyled {
		t.Fatalf("expected the remainder to be wrapped in a styled node, got %v", styled.Kind())
	}
	kvs := styled.Styles()
	if len(kvs) != 1 || kvs[0].Key != style.FontSize {
		t.Fatalf("expected one font-size override, got %v", kvs)
	}
	if du, ok := kvs[0].Value.AsLength(); !ok || du != 14*dimen.PT {
		t.Errorf("expected 14pt, got %v", kvs[0].Value)
	}
}

func TestEvalSetUnknownKeyFails(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@set no-such-key = 1pt\n",
	})
	_, err := evalMain(t, env, diag.NewSink())
	var de *diag.Error
	if !errors.As(err, &de) || de.Kind != diag.KindEval {
		t.Errorf("expected an evaluation error for an unknown key, got %v", err)
	}
}

func TestEvalImportWithAlias(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@import \"defs.md\" as d\n@emit d.title\n",
		"defs.md": "@let title = \"Handbook\"\n",
	})
	mod, err := evalMain(t, env, diag.NewSink())
	if err != nil {
		t.Fatal(err)
	}
	txt := firstOfKind(mod.Content(), content.KText)
	if txt == nil || txt.Text() != "Handbook" {
		t.Errorf("expected imported title, got %v", txt)
	}
}

func TestEvalImportDefaultName(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@import \"lib/defs.md\"\n@emit defs.title\n",
		"lib/defs.md": "@let title = \"X\"\n",
	})
	if _, err := evalMain(t, env, diag.NewSink()); err != nil {
		t.Errorf("expected module name to default to file base name, got %v", err)
	}
}

func TestEvalImportMissing(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@import \"ghost.md\"\n",
	})
	_, err := evalMain(t, env, diag.NewSink())
	var de *diag.Error
	if !errors.As(err, &de) || de.Kind != diag.KindNotFound {
		t.Errorf("expected a not-found error, got %v", err)
	}
}

func TestEvalImportCycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "press.eval")
	defer teardown()
	//
	cycle := func(n int) map[source.ID]string {
		sources := make(map[source.ID]string, n)
		for i := 0; i < n; i++ {
			next := (i + 1) % n
			id := source.ID(fmt.Sprintf("m%d.md", i))
			sources[id] = fmt.Sprintf("@import \"m%d.md\"\n", next)
		}
		sources["main.md"] = "@import \"m0.md\"\n"
		return sources
	}
	for _, n := range []int{1, 2, 10} {
		env := newTestEnv(cycle(n))
		_, err := evalMain(t, env, diag.NewSink())
		var de *diag.Error
		if !errors.As(err, &de) || de.Kind != diag.KindCycle {
			t.Fatalf("cycle of length %d: expected a cycle error, got %v", n, err)
		}
		if len(de.Trace) == 0 || de.Trace[0] != "main.md" {
			t.Errorf("cycle of length %d: expected trace starting at main.md, got %v", n, de.Trace)
		}
		if de.Trace[len(de.Trace)-1] != de.Trace[1] {
			t.Errorf("cycle of length %d: expected trace to close the loop, got %v", n, de.Trace)
		}
	}
}

func TestEvalDiamondImportIsNoCycle(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@import \"a.md\"\n@import \"b.md\"\n",
		"a.md":    "@import \"shared.md\"\n",
		"b.md":    "@import \"shared.md\"\n",
		"shared.md": "@let v = 1\n",
	})
	if _, err := evalMain(t, env, diag.NewSink()); err != nil {
		t.Errorf("expected diamond imports to evaluate, got %v", err)
	}
}

func TestEvalWarningsReplayedOnCacheHit(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "text\n\n<div>html</div>\n",
	})
	table := memo.NewTable[Cached]()
	src, _ := env.Source("main.md")

	first := diag.NewSink()
	if _, _, err := Eval(env, table, nil, first, src); err != nil {
		t.Fatal(err)
	}
	if len(first.Warnings()) != 1 {
		t.Fatalf("expected 1 warning on first evaluation, got %v", first.Warnings())
	}
	second := diag.NewSink()
	if _, _, err := Eval(env, table, nil, second, src); err != nil {
		t.Fatal(err)
	}
	if len(second.Warnings()) != 1 {
		t.Errorf("expected the cached warning to replay, got %v", second.Warnings())
	}
	if stats := table.Stats(); stats.Hits != 1 {
		t.Errorf("expected the second evaluation to hit the cache, got %+v", stats)
	}
}

func TestEvalEditInvalidatesImporter(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@import \"defs.md\"\n@emit defs.title\n",
		"defs.md": "@let title = \"Old\"\n",
	})
	table := memo.NewTable[Cached]()
	src, _ := env.Source("main.md")
	mod, _, err := Eval(env, table, nil, diag.NewSink(), src)
	if err != nil {
		t.Fatal(err)
	}
	if txt := firstOfKind(mod.Content(), content.KText); txt.Text() != "Old" {
		t.Fatalf("expected Old, got %q", txt.Text())
	}
	// edit deep in the import graph; the importer's own text is unchanged
	env.sources["defs.md"] = "@let title = \"New\"\n"
	mod, _, err = Eval(env, table, nil, diag.NewSink(), src)
	if err != nil {
		t.Fatal(err)
	}
	if txt := firstOfKind(mod.Content(), content.KText); txt.Text() != "New" {
		t.Errorf("expected the importer to revalidate to New, got %q", txt.Text())
	}
}

func TestEvalToday(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@emit today()\n",
	})
	mod, err := evalMain(t, env, diag.NewSink())
	if err != nil {
		t.Fatal(err)
	}
	txt := firstOfKind(mod.Content(), content.KText)
	if txt == nil || txt.Text() != "2026-08-31" {
		t.Errorf("expected today's date, got %v", txt)
	}
}

func TestEvalTodayUnavailable(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@emit today()\n",
	})
	env.noDay = true
	sink := diag.NewSink()
	mod, err := evalMain(t, env, sink)
	if err != nil {
		t.Fatal(err)
	}
	if firstOfKind(mod.Content(), content.KText) != nil {
		t.Error("expected no emitted content without a date")
	}
	if len(sink.Warnings()) != 1 || !strings.Contains(sink.Warnings()[0].Message, "date") {
		t.Errorf("expected a date warning, got %v", sink.Warnings())
	}
}

func TestEvalDirectiveSyntaxError(t *testing.T) {
	env := newTestEnv(map[source.ID]string{
		"main.md": "@let = broken\n",
	})
	_, err := evalMain(t, env, diag.NewSink())
	var de *diag.Error
	if !errors.As(err, &de) || de.Kind != diag.KindEval {
		t.Errorf("expected a directive syntax error, got %v", err)
	}
}

func TestFloatValueFingerprintExact(t *testing.T) {
	if FloatVal(3.25).Fingerprint() != FloatVal(3.25).Fingerprint() {
		t.Error("expected equal floats to fingerprint equally")
	}
	// large magnitudes and sub-micro differences must stay distinct
	if FloatVal(9.2e12+1).Fingerprint() == FloatVal(9.2e12+2).Fingerprint() {
		t.Error("expected distinct fingerprints for distinct large floats")
	}
	if FloatVal(1.0000001).Fingerprint() == FloatVal(1.0000002).Fingerprint() {
		t.Error("expected distinct fingerprints for nearby floats")
	}
}
