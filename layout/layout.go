package layout

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/npillmayer/press/content"
	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/doc"
	"github.com/npillmayer/press/font"
	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/press/source"
	"github.com/npillmayer/press/style"
	"github.com/npillmayer/tyse/core/dimen"
)

// Environment is the slice of the World the typesetter needs.
type Environment interface {
	// Book is the metadata of all known fonts.
	Book() *font.Book
	// Font loads the font at a book index, ok=false if unavailable.
	Font(index int) (*font.Font, bool)
	// File loads raw bytes (images) by identifier.
	File(id source.ID) (*source.Bytes, error)
}

// fitEpsilon is the tolerance of all fits-in-remaining-space decisions:
// one DU, i.e. the smallest representable distance. A shortfall below it
// counts as fitting, so accumulated rounding near an exact page boundary
// cannot flip fragmentation decisions back and forth.
const fitEpsilon = dimen.DU(1)

// Typeset lays a content tree out into pages. Page geometry is taken from
// the styles in effect at the start of the document. workers bounds the
// pre-measurement pool; 0 means NumCPU. Typesetting never fails: problems
// degrade to warnings in the sink and visible placeholders in the output.
func Typeset(env Environment, sink *diag.Sink, table *memo.Table[Shaped], root *content.Node, chain style.Chain, workers int) *doc.Document {
	eng := &engine{env: env, sink: sink, table: table}
	eng.geometry(startChain(root, chain))
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	var jobs []measureJob
	eng.collect(root, chain, &jobs)
	premeasure(eng, jobs, workers)
	eng.flow(root, chain)
	eng.finish()
	tracer().Infof("typeset %d pages", len(eng.pages))
	return &doc.Document{Pages: eng.pages}
}

// startChain advances the chain through style wrappers enclosing the whole
// document, so that a leading `@set page-width = …` reaches geometry.
func startChain(root *content.Node, chain style.Chain) style.Chain {
	for root != nil && root.Kind() == content.KStyled {
		chain = chain.Push(root.Styles()...)
		root = root.Children()[0]
	}
	return chain
}

type engine struct {
	env   Environment
	sink  *diag.Sink
	table *memo.Table[Shaped]

	page    doc.Size // full page size
	area    doc.Size // content area inside margins
	originX dimen.DU // left margin
	originY dimen.DU // top margin

	pages  []*doc.Frame
	cur    *doc.Frame
	y      dimen.DU // cursor within content area
	atTop  bool
	marker string // pending list item marker
}

// geometry resolves page size and margins. Margins may be auto (default)
// or percentages of the corresponding page dimension.
func (eng *engine) geometry(chain style.Chain) {
	eng.page = doc.Size{
		W: chain.Length(style.PageWidth),
		H: chain.Length(style.PageHeight),
	}
	margin := func(key style.Key, base dimen.DU) dimen.DU {
		fallback, _ := style.Default(key).AsLength()
		if d, ok := chain.Resolve(key).AsDim(); ok {
			return d.Resolve(base, fallback)
		}
		return fallback
	}
	top := margin(style.MarginTop, eng.page.H)
	bottom := margin(style.MarginBottom, eng.page.H)
	left := margin(style.MarginLeft, eng.page.W)
	right := margin(style.MarginRight, eng.page.W)
	eng.originX, eng.originY = left, top
	eng.area = doc.Size{W: eng.page.W - left - right, H: eng.page.H - top - bottom}
	tracer().Debugf("page %s, content area %s", eng.page, eng.area)
}

func (eng *engine) ensurePage() {
	if eng.cur == nil {
		eng.cur = doc.NewFrame(eng.page)
		eng.y = 0
		eng.atTop = true
	}
}

func (eng *engine) newPage() {
	if eng.cur != nil {
		eng.pages = append(eng.pages, eng.cur.Seal())
		eng.cur = nil
	}
	eng.ensurePage()
}

func (eng *engine) finish() {
	eng.ensurePage() // an empty document still renders one page
	eng.pages = append(eng.pages, eng.cur.Seal())
	eng.cur = nil
}

// fits tests whether a box of height h fits the remaining page height.
func (eng *engine) fits(h dimen.DU) bool {
	return eng.y+h <= eng.area.H+fitEpsilon
}

// vspace advances the cursor. Space at the top of a page collapses.
func (eng *engine) vspace(h dimen.DU) {
	eng.ensurePage()
	if eng.atTop {
		return
	}
	eng.y += h
}

// --- Flow ------------------------------------------------------------------

// flow places one node and its subtree, strictly in document order.
func (eng *engine) flow(n *content.Node, chain style.Chain) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case content.KSequence:
		for _, ch := range n.Children() {
			eng.flow(ch, chain)
		}
	case content.KStyled:
		eng.flow(n.Children()[0], chain.Push(n.Styles()...))
	case content.KParagraph:
		eng.block(n, chain)
	case content.KHeading:
		eng.vspace(chain.Length(style.ParSpacing))
		eng.block(n, headingChain(chain, n.Level()))
	case content.KList:
		depth := chain.Push(style.Set(style.ListDepth, style.IntProp(1)))
		for i, item := range n.Children() {
			eng.marker = listMarker(n.Level() == 1, i)
			eng.flow(item, depth)
		}
	case content.KListItem:
		for _, ch := range n.Children() {
			eng.flow(ch, chain)
		}
	case content.KQuote:
		depth := chain.Push(style.Set(style.QuoteDepth, style.IntProp(1)))
		for _, ch := range n.Children() {
			eng.flow(ch, depth)
		}
	case content.KCodeBlock:
		eng.codeBlock(n, chain)
	case content.KRule:
		eng.rule(chain)
	case content.KVSpace:
		eng.vspace(n.Amount())
	case content.KParbreak:
		eng.vspace(chain.Length(style.ParSpacing))
	default:
		// loose inline content flows as an implicit paragraph
		eng.block(content.Paragraph(n), chain)
	}
}

// headingChain derives the style overrides of a heading level.
func headingChain(chain style.Chain, level int) style.Chain {
	num, den := headingScale(level)
	size := chain.Length(style.FontSize) * dimen.DU(num) / dimen.DU(den)
	lead := chain.Length(style.Leading) * dimen.DU(num) / dimen.DU(den)
	return chain.Push(
		style.Set(style.FontSize, style.LengthProp(size)),
		style.Set(style.Leading, style.LengthProp(lead)),
		style.Set(style.FontVariant, style.StringProp("bold")),
	)
}

func headingScale(level int) (int, int) {
	switch level {
	case 1:
		return 9, 5
	case 2:
		return 3, 2
	case 3:
		return 13, 10
	}
	return 11, 10
}

func listMarker(ordered bool, index int) string {
	if ordered {
		return fmt.Sprintf("%d.", index+1)
	}
	return "•"
}

// blockGeo computes the indents of a block from accumulated depths.
func blockGeo(chain style.Chain, area doc.Size) (indent, width dimen.DU) {
	unit := chain.Length(style.ListIndent)
	depth := chain.Count(style.ListDepth) + chain.Count(style.QuoteDepth)
	indent = unit * dimen.DU(depth)
	right := unit * dimen.DU(chain.Count(style.QuoteDepth))
	width = area.W - indent - right
	return indent, width
}

// block shapes and places one paragraph-like node.
func (eng *engine) block(n *content.Node, chain style.Chain) {
	indent, width := blockGeo(chain, eng.area)
	sh := eng.shape(n, chain, width)
	for i, ln := range sh.Lines {
		eng.placeLine(ln, chain, indent, i == 0)
	}
	if len(sh.Lines) > 0 {
		eng.vspace(chain.Length(style.ParSpacing))
	}
	eng.marker = ""
}

// shape breaks a paragraph into lines, memoized on (content, chain, width).
// Warnings captured during shaping are replayed into the sink; the sink
// collapses duplicates from pre-measurement.
func (eng *engine) shape(n *content.Node, chain style.Chain, width dimen.DU) Shaped {
	key := memo.NewHasher().
		WriteString("shape").
		WriteFingerprint(n.Fingerprint()).
		WriteFingerprint(chain.Fingerprint()).
		WriteInt(int64(width)).
		Sum()
	sh, _, _, _ := eng.table.Memoize(key, Prober(eng.env), func(rec *memo.Recorder) (Shaped, error) {
		return shapePara(eng.env, rec, n, chain, width), nil
	})
	eng.sink.Replay(sh.Warnings)
	return sh
}

// placeLine drops one line onto the page, breaking to a new page when the
// line does not fit. A line taller than the whole page is placed anyway,
// overflowing, with a warning — content is never dropped.
func (eng *engine) placeLine(ln Line, chain style.Chain, indent dimen.DU, first bool) {
	eng.ensurePage()
	if !eng.fits(ln.Height) {
		if !eng.atTop {
			eng.newPage()
		}
		if ln.Height > eng.area.H+fitEpsilon {
			eng.sink.Warn(diag.Span{}, "content of height %v overflows the page", ln.Height)
		}
	}
	if first && eng.marker != "" {
		eng.placeMarker(chain, indent)
	}
	x0 := eng.originX + indent
	y0 := eng.originY + eng.y
	for _, b := range ln.Boxes {
		at := doc.Point{X: x0 + b.X, Y: y0}
		switch b.Kind {
		case BoxWord:
			eng.cur.Push(at, doc.TextItem{
				Text:   b.Text,
				Family: b.Family,
				Size:   b.Size,
				Width:  b.Width,
			})
		case BoxImage:
			eng.cur.Push(at, doc.ImageItem{
				Target: b.Target,
				Data:   b.Data,
				W:      b.Width,
				H:      b.Height,
			})
		case BoxPlaceholder:
			eng.cur.Push(at, doc.Placeholder{
				Label: b.Text,
				W:     b.Width,
				H:     b.Height,
			})
		}
	}
	eng.y += ln.Height
	eng.atTop = false
}

// placeMarker puts the pending list marker left of the first line.
func (eng *engine) placeMarker(chain style.Chain, indent dimen.DU) {
	family := chain.Text(style.FontFamily)
	variant := chain.Text(style.FontVariant)
	size := chain.Length(style.FontSize)
	f, found := resolveFont(eng.env, family, variant)
	if !found {
		eng.sink.Warn(diag.Span{}, "no font data for %s/%s, using fallback metrics", family, variant)
	}
	w := f.Measure(eng.marker, size)
	x := eng.originX + indent - w - size/2
	if x < eng.originX {
		x = eng.originX
	}
	eng.cur.Push(doc.Point{X: x, Y: eng.originY + eng.y}, doc.TextItem{
		Text:   eng.marker,
		Family: family,
		Size:   size,
		Width:  w,
	})
	eng.marker = ""
}

// codeBlock lays out a literal block in the code family. A block fitting
// the remaining space becomes one nested frame (grouped content); taller
// blocks split between code lines.
func (eng *engine) codeBlock(n *content.Node, chain style.Chain) {
	indent, width := blockGeo(chain, eng.area)
	family := chain.Text(style.CodeFamily)
	size := chain.Length(style.FontSize)
	leading := chain.Length(style.Leading)
	f, found := resolveFont(eng.env, family, "regular")
	if !found {
		eng.sink.Warn(n.Span(), "no font data for %s/regular, using fallback metrics", family)
	}
	lines := strings.Split(n.Text(), "\n")
	total := leading * dimen.DU(len(lines))
	eng.ensurePage()
	if eng.fits(total) {
		sub := doc.NewFrame(doc.Size{W: width, H: total})
		for i, ln := range lines {
			sub.Push(doc.Point{X: 0, Y: leading * dimen.DU(i)}, doc.TextItem{
				Text:   ln,
				Family: family,
				Size:   size,
				Width:  f.Measure(ln, size),
			})
		}
		eng.cur.Push(doc.Point{X: eng.originX + indent, Y: eng.originY + eng.y}, doc.SubFrame{Frame: sub.Seal()})
		eng.y += total
		eng.atTop = false
	} else {
		for _, lntext := range lines {
			ln := Line{
				Boxes:  []Box{{Kind: BoxWord, Text: lntext, Family: family, Size: size, Width: f.Measure(lntext, size)}},
				Width:  f.Measure(lntext, size),
				Height: leading,
			}
			eng.placeLine(ln, chain, indent, false)
		}
	}
	eng.vspace(chain.Length(style.ParSpacing))
}

// rule places a thematic break: a thin full-width rule with padding.
func (eng *engine) rule(chain style.Chain) {
	indent, width := blockGeo(chain, eng.area)
	pad := 4 * dimen.PT
	h := dimen.PT / 2
	eng.ensurePage()
	if !eng.fits(2*pad + h) {
		eng.newPage()
	}
	eng.cur.Push(doc.Point{X: eng.originX + indent, Y: eng.originY + eng.y + pad}, doc.RuleItem{W: width, H: h})
	eng.y += 2*pad + h
	eng.atTop = false
}

// collect mirrors flow's descent to enumerate paragraph shaping jobs for
// the pre-measurement pool. It must derive exactly the (node, chain,
// width) triples that block will use, or the warmed cache misses.
func (eng *engine) collect(n *content.Node, chain style.Chain, jobs *[]measureJob) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case content.KSequence:
		for _, ch := range n.Children() {
			eng.collect(ch, chain, jobs)
		}
	case content.KStyled:
		eng.collect(n.Children()[0], chain.Push(n.Styles()...), jobs)
	case content.KParagraph:
		_, width := blockGeo(chain, eng.area)
		*jobs = append(*jobs, measureJob{node: n, chain: chain, width: width})
	case content.KHeading:
		hc := headingChain(chain, n.Level())
		_, width := blockGeo(hc, eng.area)
		*jobs = append(*jobs, measureJob{node: n, chain: hc, width: width})
	case content.KList:
		depth := chain.Push(style.Set(style.ListDepth, style.IntProp(1)))
		for _, item := range n.Children() {
			eng.collect(item, depth, jobs)
		}
	case content.KListItem:
		for _, ch := range n.Children() {
			eng.collect(ch, chain, jobs)
		}
	case content.KQuote:
		depth := chain.Push(style.Set(style.QuoteDepth, style.IntProp(1)))
		for _, ch := range n.Children() {
			eng.collect(ch, depth, jobs)
		}
	}
}
