package content

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sync"

	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/press/style"
	"github.com/npillmayer/tyse/core/dimen"
)

// Kind discriminates node types.
type Kind uint8

const (
	KInvalid Kind = iota
	KSequence
	KText
	KSpace
	KParbreak
	KStrong
	KEmph
	KRaw // inline code span
	KLink
	KHeading
	KParagraph
	KList
	KListItem
	KQuote
	KCodeBlock
	KRule // thematic break
	KImage
	KVSpace
	KStyled
)

var kindNames = map[Kind]string{
	KSequence:  "sequence",
	KText:      "text",
	KSpace:     "space",
	KParbreak:  "parbreak",
	KStrong:    "strong",
	KEmph:      "emph",
	KRaw:       "raw",
	KLink:      "link",
	KHeading:   "heading",
	KParagraph: "paragraph",
	KList:      "list",
	KListItem:  "item",
	KQuote:     "quote",
	KCodeBlock: "code",
	KRule:      "rule",
	KImage:     "image",
	KVSpace:    "vspace",
	KStyled:    "styled",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "<invalid>"
}

// Node is one element of the content tree. The zero value is invalid; use
// the constructors. All fields are private and set exactly once.
type Node struct {
	kind     Kind
	children []*Node
	text     string  // payload of KText, KRaw, KCodeBlock
	target   string  // path of KImage, destination of KLink, language of KCodeBlock
	level    int     // KHeading level; KList: 1 for ordered lists
	amount   dimen.DU // KVSpace
	styles   []style.KeyValue
	span     diag.Span

	fpOnce sync.Once
	fp     memo.Fingerprint
}

// Kind returns the node's discriminant.
func (n *Node) Kind() Kind { return n.kind }

// Children returns the node's ordered children. Callers must treat the
// slice as read-only; it is shared, not copied.
func (n *Node) Children() []*Node { return n.children }

// Text returns the text payload of leaf nodes.
func (n *Node) Text() string { return n.text }

// Target returns the path/destination payload.
func (n *Node) Target() string { return n.target }

// Level returns heading level, or 1 for ordered lists.
func (n *Node) Level() int { return n.level }

// Amount returns the vertical space payload of a KVSpace node.
func (n *Node) Amount() dimen.DU { return n.amount }

// Styles returns the node's local style overrides (KStyled nodes).
func (n *Node) Styles() []style.KeyValue { return n.styles }

// Span locates the node in its source, for diagnostics.
func (n *Node) Span() diag.Span { return n.span }

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.kind {
	case KText, KRaw:
		return fmt.Sprintf("(%s %q)", n.kind, clip(n.text))
	case KHeading:
		return fmt.Sprintf("(heading %d #ch=%d)", n.level, len(n.children))
	case KImage:
		return fmt.Sprintf("(image %q)", n.target)
	}
	return fmt.Sprintf("(%s #ch=%d)", n.kind, len(n.children))
}

func clip(s string) string {
	if len(s) > 16 {
		return s[:13] + "…"
	}
	return s
}

// --- Constructors ----------------------------------------------------------

// Sequence groups children in document order. A sequence of one collapses
// to its only child; of zero, to the empty sequence.
func Sequence(children ...*Node) *Node {
	kids := compact(children)
	if len(kids) == 1 {
		return kids[0]
	}
	return &Node{kind: KSequence, children: kids}
}

func compact(children []*Node) []*Node {
	kids := make([]*Node, 0, len(children))
	for _, ch := range children {
		if ch != nil {
			kids = append(kids, ch)
		}
	}
	return kids
}

// Text creates a text run.
func Text(s string) *Node {
	return &Node{kind: KText, text: s}
}

// Space is a breakable inter-word space.
func Space() *Node {
	return &Node{kind: KSpace}
}

// Parbreak separates paragraphs.
func Parbreak() *Node {
	return &Node{kind: KParbreak}
}

// Strong marks children as strongly emphasized.
func Strong(children ...*Node) *Node {
	return &Node{kind: KStrong, children: compact(children)}
}

// Emph marks children as emphasized.
func Emph(children ...*Node) *Node {
	return &Node{kind: KEmph, children: compact(children)}
}

// Raw creates an inline code span.
func Raw(code string) *Node {
	return &Node{kind: KRaw, text: code}
}

// Link wraps children as a link to target.
func Link(target string, children ...*Node) *Node {
	return &Node{kind: KLink, target: target, children: compact(children)}
}

// Heading creates a heading of the given level over inline children.
func Heading(level int, children ...*Node) *Node {
	return &Node{kind: KHeading, level: level, children: compact(children)}
}

// Paragraph wraps inline children into a paragraph.
func Paragraph(children ...*Node) *Node {
	return &Node{kind: KParagraph, children: compact(children)}
}

// List creates a list over item children. Ordered lists carry level 1.
func List(ordered bool, items ...*Node) *Node {
	lvl := 0
	if ordered {
		lvl = 1
	}
	return &Node{kind: KList, level: lvl, children: compact(items)}
}

// ListItem wraps block children as one list item.
func ListItem(children ...*Node) *Node {
	return &Node{kind: KListItem, children: compact(children)}
}

// Quote wraps block children as a block quote.
func Quote(children ...*Node) *Node {
	return &Node{kind: KQuote, children: compact(children)}
}

// CodeBlock creates a code block with an optional language tag.
func CodeBlock(lang, code string) *Node {
	return &Node{kind: KCodeBlock, target: lang, text: code}
}

// Rule creates a thematic break.
func Rule() *Node {
	return &Node{kind: KRule}
}

// Image references an image file by path.
func Image(path string) *Node {
	return &Node{kind: KImage, target: path}
}

// VSpace inserts vertical space into the flow.
func VSpace(amount dimen.DU) *Node {
	return &Node{kind: KVSpace, amount: amount}
}

// Styled applies style overrides to a subtree. The subtree is shared, not
// copied; only the new wrapper node is allocated.
func Styled(inner *Node, overrides ...style.KeyValue) *Node {
	if len(overrides) == 0 {
		return inner
	}
	styles := make([]style.KeyValue, len(overrides))
	copy(styles, overrides)
	return &Node{kind: KStyled, children: []*Node{inner}, styles: styles}
}

// --- Derivation ------------------------------------------------------------

// WithSpan returns a copy of n tagged with a source span. Children are
// shared with the receiver.
func (n *Node) WithSpan(sp diag.Span) *Node {
	if n == nil || n.span == sp {
		return n
	}
	m := &Node{
		kind:     n.kind,
		children: n.children,
		text:     n.text,
		target:   n.target,
		level:    n.level,
		amount:   n.amount,
		styles:   n.styles,
		span:     sp,
	}
	return m
}

// WithChildren returns a copy of n with its children replaced. This is the
// copy-on-write primitive: only the path from the root to the replaced
// child is reallocated, everything else is shared.
func (n *Node) WithChildren(children ...*Node) *Node {
	m := &Node{
		kind:   n.kind,
		text:   n.text,
		target: n.target,
		level:  n.level,
		amount: n.amount,
		styles: n.styles,
		span:   n.span,
	}
	m.children = compact(children)
	return m
}

// --- Fingerprinting --------------------------------------------------------

// Fingerprint returns the node's content fingerprint. It is computed on
// first use and cached; the hash covers kind, payload, style overrides and
// all children, but not source spans (an edit that only moves content does
// not invalidate layout).
func (n *Node) Fingerprint() memo.Fingerprint {
	if n == nil {
		return memo.Zero
	}
	n.fpOnce.Do(func() {
		h := memo.NewHasher()
		h.WriteUint(uint64(n.kind))
		h.WriteString(n.text)
		h.WriteString(n.target)
		h.WriteInt(int64(n.level))
		h.WriteInt(int64(n.amount))
		for _, kv := range n.styles {
			h.WriteString(string(kv.Key))
			h.WriteFingerprint(kv.Value.Fingerprint())
		}
		for _, ch := range n.children {
			h.WriteFingerprint(ch.Fingerprint())
		}
		n.fp = h.Sum()
		tracer().Debugf("content fingerprint %v for %v", n.fp, n)
	})
	return n.fp
}

// Equal is value equality via fingerprints.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.Fingerprint() == other.Fingerprint()
}
