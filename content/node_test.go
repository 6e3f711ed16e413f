package content

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"testing"

	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse/core/dimen"
)

func TestSequenceCollapsesSingleChild(t *testing.T) {
	p := Paragraph(Text("x"))
	seq := Sequence(p)
	if seq != p {
		t.Error("expected single-child sequence to collapse to its child")
	}
	seq = Sequence(p, nil, Rule())
	if seq.Kind() != KSequence || len(seq.Children()) != 2 {
		t.Errorf("expected 2-child sequence (nils dropped), got %v", seq)
	}
}

func TestNodeFingerprintStructural(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "press.content")
	defer teardown()
	//
	a := Paragraph(Text("hello"), Space(), Strong(Text("world")))
	b := Paragraph(Text("hello"), Space(), Strong(Text("world")))
	if !a.Equal(b) {
		t.Error("expected structurally equal trees to compare equal")
	}
	c := Paragraph(Text("hello"), Space(), Emph(Text("world")))
	if a.Equal(c) {
		t.Error("expected strong vs emph to compare unequal")
	}
	t.Logf("tree =\n%s", Dump(a))
}

func TestNodeFingerprintIgnoresSpans(t *testing.T) {
	a := Text("word")
	b := Text("word").WithSpan(diag.At("main.md", 10, 14))
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("expected spans to be excluded from fingerprints")
	}
}

func TestWithChildrenCopies(t *testing.T) {
	orig := List(false, ListItem(Text("a")), ListItem(Text("b")))
	grown := orig.WithChildren(append(orig.Children(), ListItem(Text("c")))...)
	if len(orig.Children()) != 2 {
		t.Error("expected the original node to stay at 2 children")
	}
	if len(grown.Children()) != 3 {
		t.Errorf("expected the derived node to have 3 children, has %d", len(grown.Children()))
	}
	if orig.Equal(grown) {
		t.Error("expected derived node to fingerprint differently")
	}
}

func TestStyledCarriesOverrides(t *testing.T) {
	inner := Paragraph(Text("styled"))
	styled := Styled(inner, style.Set(style.FontSize, style.LengthProp(14*dimen.PT)))
	if styled.Kind() != KStyled {
		t.Fatalf("expected a styled node, got %v", styled.Kind())
	}
	if len(styled.Styles()) != 1 || styled.Styles()[0].Key != style.FontSize {
		t.Errorf("expected one font-size override, got %v", styled.Styles())
	}
	if styled.Children()[0] != inner {
		t.Error("expected the styled node to wrap the original child")
	}
}

func TestConstructorPayloads(t *testing.T) {
	if n := Heading(2, Text("t")); n.Level() != 2 {
		t.Errorf("expected heading level 2, got %d", n.Level())
	}
	if n := List(true, ListItem()); n.Level() != 1 {
		t.Error("expected ordered list to be marked via level 1")
	}
	if n := CodeBlock("go", "x := 1"); n.Text() != "x := 1" || n.Target() != "go" {
		t.Errorf("expected code block payload, got %q / %q", n.Text(), n.Target())
	}
	if n := VSpace(6 * dimen.PT); n.Amount() != 6*dimen.PT {
		t.Errorf("expected 6pt vspace, got %v", n.Amount())
	}
	if n := Image("fig.png"); n.Target() != "fig.png" {
		t.Errorf("expected image target, got %q", n.Target())
	}
}
