package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"

	"github.com/npillmayer/press/content"
	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/style"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// evalMarkup parses the module's markup with goldmark and walks the syntax
// tree into a content tree.
func (ev *evaluator) evalMarkup() (*content.Node, error) {
	raw := []byte(ev.src.Text())
	md := goldmark.New()
	root := md.Parser().Parse(gtext.NewReader(raw))
	var blocks []gast.Node
	for b := root.FirstChild(); b != nil; b = b.NextSibling() {
		blocks = append(blocks, b)
	}
	nodes, err := ev.evalBlocks(blocks, raw)
	if err != nil {
		return nil, err
	}
	return content.Sequence(nodes...), nil
}

// evalBlocks evaluates a run of sibling blocks in document order. A `@set`
// directive styles the *remainder* of the run: the blocks after it are
// evaluated recursively and wrapped into a single styled node, so the new
// chain frame scopes exactly to the rest of the enclosing block.
func (ev *evaluator) evalBlocks(blocks []gast.Node, src []byte) ([]*content.Node, error) {
	var out []*content.Node
	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		if isDirectivePara(b, src) {
			kvs, emitted, err := ev.evalDirectives(b, src)
			if err != nil {
				return nil, err
			}
			out = append(out, emitted...)
			if len(kvs) > 0 {
				rest, err := ev.evalBlocks(blocks[i+1:], src)
				if err != nil {
					return nil, err
				}
				out = append(out, content.Styled(content.Sequence(rest...), kvs...))
				return out, nil
			}
			continue
		}
		node, err := ev.evalBlock(b, src)
		if err != nil {
			return nil, err
		}
		if node != nil {
			out = append(out, node)
		}
	}
	return out, nil
}

// evalDirectives processes the '@' lines of one directive paragraph.
func (ev *evaluator) evalDirectives(para gast.Node, src []byte) (kvs []style.KeyValue, emitted []*content.Node, err error) {
	lines := para.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimSpace(string(seg.Value(src)))
		if line == "" {
			continue
		}
		sp := diag.At(ev.src.ID(), seg.Start, seg.Stop)
		if !strings.HasPrefix(line, "@") {
			ev.warnf(sp, "line inside directive block is not a directive, ignored")
			continue
		}
		d, perr := parseDirective(line)
		if perr != nil {
			return nil, nil, ev.fail(sp, diag.KindEval, "invalid directive: %v", perr)
		}
		switch {
		case d.Import != nil:
			if err := ev.evalImport(d.Import, sp); err != nil {
				return nil, nil, err
			}
		case d.Let != nil:
			v, err := ev.evalExpr(d.Let.Expr, sp)
			if err != nil {
				return nil, nil, err
			}
			ev.scope.Define(d.Let.Name, v)
		case d.Set != nil:
			kv, err := ev.evalSet(d.Set, sp)
			if err != nil {
				return nil, nil, err
			}
			kvs = append(kvs, kv)
		case d.Emit != nil:
			v, err := ev.evalExpr(d.Emit.Expr, sp)
			if err != nil {
				return nil, nil, err
			}
			node, err := display(v, sp)
			if err != nil {
				return nil, nil, err
			}
			if node != nil {
				emitted = append(emitted, node)
			}
		}
	}
	return kvs, emitted, nil
}

// evalSet converts a `@set key = expr` directive into a style override.
func (ev *evaluator) evalSet(d *setDir, sp diag.Span) (style.KeyValue, error) {
	key := style.Key(d.Key())
	if !style.Known(key) {
		return style.KeyValue{}, ev.fail(sp, diag.KindEval, "unknown style property %q", key)
	}
	v, err := ev.evalExpr(d.Expr, sp)
	if err != nil {
		return style.KeyValue{}, err
	}
	switch v.Kind() {
	case VLength:
		du, _ := v.AsLength()
		return style.Set(key, style.LengthProp(du)), nil
	case VInt:
		n, _ := v.AsInt()
		return style.Set(key, style.IntProp(n)), nil
	case VStr:
		s, _ := v.AsStr()
		if s == "auto" {
			if _, isLen := style.Default(key).AsLength(); isLen {
				return style.Set(key, style.DimProp(style.Auto())), nil
			}
		}
		return style.Set(key, style.StringProp(s)), nil
	}
	return style.KeyValue{}, ev.fail(sp, diag.KindEval, "property %q cannot take a %s value", key, v.Kind())
}

// evalBlock evaluates one block-level markup node.
func (ev *evaluator) evalBlock(b gast.Node, src []byte) (*content.Node, error) {
	sp := ev.blockSpan(b, src)
	switch n := b.(type) {
	case *gast.Heading:
		inl, err := ev.evalInlines(n, src)
		if err != nil {
			return nil, err
		}
		return content.Heading(n.Level, inl...).WithSpan(sp), nil
	case *gast.Paragraph:
		inl, err := ev.evalInlines(n, src)
		if err != nil {
			return nil, err
		}
		return content.Paragraph(inl...).WithSpan(sp), nil
	case *gast.TextBlock:
		inl, err := ev.evalInlines(n, src)
		if err != nil {
			return nil, err
		}
		return content.Paragraph(inl...).WithSpan(sp), nil
	case *gast.List:
		var items []*content.Node
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			var itemBlocks []gast.Node
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				itemBlocks = append(itemBlocks, c)
			}
			kids, err := ev.evalBlocks(itemBlocks, src)
			if err != nil {
				return nil, err
			}
			items = append(items, content.ListItem(kids...))
		}
		return content.List(n.IsOrdered(), items...).WithSpan(sp), nil
	case *gast.Blockquote:
		var inner []gast.Node
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			inner = append(inner, c)
		}
		kids, err := ev.evalBlocks(inner, src)
		if err != nil {
			return nil, err
		}
		return content.Quote(kids...).WithSpan(sp), nil
	case *gast.FencedCodeBlock:
		return content.CodeBlock(string(n.Language(src)), blockText(n, src)).WithSpan(sp), nil
	case *gast.CodeBlock:
		return content.CodeBlock("", blockText(n, src)).WithSpan(sp), nil
	case *gast.ThematicBreak:
		return content.Rule().WithSpan(sp), nil
	case *gast.HTMLBlock:
		ev.warnf(sp, "raw HTML is not supported, block ignored")
		return nil, nil
	}
	ev.warnf(sp, "unsupported markup construct %s ignored", b.Kind())
	return nil, nil
}

// evalInlines evaluates the inline children of a block.
func (ev *evaluator) evalInlines(parent gast.Node, src []byte) ([]*content.Node, error) {
	var out []*content.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *gast.Text:
			out = append(out, content.Text(string(n.Segment.Value(src))))
			if n.SoftLineBreak() || n.HardLineBreak() {
				out = append(out, content.Space())
			}
		case *gast.String:
			out = append(out, content.Text(string(n.Value)))
		case *gast.Emphasis:
			inl, err := ev.evalInlines(n, src)
			if err != nil {
				return nil, err
			}
			if n.Level >= 2 {
				out = append(out, content.Strong(inl...))
			} else {
				out = append(out, content.Emph(inl...))
			}
		case *gast.CodeSpan:
			out = append(out, content.Raw(inlineText(n, src)))
		case *gast.Link:
			inl, err := ev.evalInlines(n, src)
			if err != nil {
				return nil, err
			}
			out = append(out, content.Link(string(n.Destination), inl...))
		case *gast.AutoLink:
			url := string(n.URL(src))
			out = append(out, content.Link(url, content.Text(url)))
		case *gast.Image:
			sp := ev.blockSpan(parent, src)
			out = append(out, content.Image(string(n.Destination)).WithSpan(sp))
		case *gast.RawHTML:
			ev.warnf(ev.blockSpan(parent, src), "raw HTML is not supported, ignored")
		default:
			if c.HasChildren() {
				inl, err := ev.evalInlines(c, src)
				if err != nil {
					return nil, err
				}
				out = append(out, inl...)
			}
		}
	}
	return out, nil
}

func (ev *evaluator) blockSpan(b gast.Node, src []byte) diag.Span {
	lines := b.Lines()
	if lines != nil && lines.Len() > 0 {
		return diag.At(ev.src.ID(), lines.At(0).Start, lines.At(lines.Len()-1).Stop)
	}
	return diag.At(ev.src.ID(), 0, 0)
}

func isDirectivePara(b gast.Node, src []byte) bool {
	p, ok := b.(*gast.Paragraph)
	if !ok {
		return false
	}
	lines := p.Lines()
	if lines.Len() == 0 {
		return false
	}
	seg := lines.At(0)
	return isDirectiveLine(string(seg.Value(src)))
}

// blockText joins the raw source lines of a literal block.
func blockText(b gast.Node, src []byte) string {
	var sb strings.Builder
	lines := b.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// inlineText concatenates the text segments below an inline node.
func inlineText(parent gast.Node, src []byte) string {
	var sb strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
	}
	return sb.String()
}
