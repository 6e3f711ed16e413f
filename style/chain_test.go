package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse/core/dimen"
)

func TestChainDefaults(t *testing.T) {
	chain := New()
	if w := chain.Length(PageWidth); w != 595*dimen.PT {
		t.Errorf("expected default page width of 595pt, got %v", w)
	}
	if fam := chain.Text(FontFamily); fam != "serif" {
		t.Errorf("expected default family serif, got %q", fam)
	}
}

func TestChainInnermostWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "press.style")
	defer teardown()
	//
	outer := New().Push(Set(FontSize, LengthProp(14*dimen.PT)))
	inner := outer.Push(Set(FontSize, LengthProp(9*dimen.PT)))
	if sz := inner.Length(FontSize); sz != 9*dimen.PT {
		t.Errorf("expected innermost font size 9pt, got %v", sz)
	}
	// pushing never mutates the parent chain
	if sz := outer.Length(FontSize); sz != 14*dimen.PT {
		t.Errorf("expected outer chain untouched at 14pt, got %v", sz)
	}
}

func TestChainAccumulatingKeys(t *testing.T) {
	chain := New().
		Push(Set(ListDepth, IntProp(1))).
		Push(Set(QuoteDepth, IntProp(1))).
		Push(Set(ListDepth, IntProp(1)))
	if d := chain.Count(ListDepth); d != 2 {
		t.Errorf("expected list depth to accumulate to 2, got %d", d)
	}
	if d := chain.Count(QuoteDepth); d != 1 {
		t.Errorf("expected quote depth 1, got %d", d)
	}
}

func TestChainFingerprintStructural(t *testing.T) {
	a := New().
		Push(Set(FontSize, LengthProp(12*dimen.PT))).
		Push(Set(FontFamily, StringProp("sans")))
	b := New().
		Push(Set(FontSize, LengthProp(12*dimen.PT))).
		Push(Set(FontFamily, StringProp("sans")))
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("expected independently built equal chains to fingerprint equally")
	}
	c := b.Push(Set(FontFamily, StringProp("serif")))
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("expected differing chains to fingerprint differently")
	}
}

func TestDimResolve(t *testing.T) {
	base := 600 * dimen.PT
	if got := Percentage(25).Resolve(base, 0); got != 150*dimen.PT {
		t.Errorf("expected 25%% of 600pt to be 150pt, got %v", got)
	}
	if got := JustDimen(30 * dimen.PT).Resolve(base, 0); got != 30*dimen.PT {
		t.Errorf("expected fixed 30pt, got %v", got)
	}
	if got := Auto().Resolve(base, 72*dimen.PT); got != 72*dimen.PT {
		t.Errorf("expected auto to resolve to the fallback, got %v", got)
	}
}

func TestPropertyKinds(t *testing.T) {
	p := LengthProp(10 * dimen.PT)
	if du, ok := p.AsLength(); !ok || du != 10*dimen.PT {
		t.Errorf("expected 10pt length, got %v (ok=%v)", du, ok)
	}
	if _, ok := p.AsString(); ok {
		t.Error("expected length property not to read as string")
	}
	if _, ok := StringProp("x").AsLength(); ok {
		t.Error("expected string property not to read as length")
	}
}
