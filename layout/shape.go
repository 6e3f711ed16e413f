package layout

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/press/content"
	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/font"
	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/press/source"
	"github.com/npillmayer/press/style"
	"github.com/npillmayer/tyse/core/dimen"
)

// BoxKind discriminates the boxes a line is built of.
type BoxKind uint8

const (
	BoxWord BoxKind = iota + 1
	BoxImage
	BoxPlaceholder
)

// Box is one atomic inline unit: a word in a single font/size, an image,
// or a placeholder. Boxes never split across lines.
type Box struct {
	Kind   BoxKind
	Glue   bool // a word separator precedes this box, unless at line start
	Text   string
	Family string
	Size   dimen.DU
	Width  dimen.DU
	Height dimen.DU
	X      dimen.DU // offset within the line, set by the line breaker
	Target string
	Data   memo.Fingerprint // content fingerprint of image bytes
}

// Line is one broken line of a paragraph: boxes plus the measured width
// and the line's height (at least the leading, more for tall boxes).
type Line struct {
	Boxes  []Box
	Width  dimen.DU
	Height dimen.DU
}

// Shaped is the memoized result of breaking one paragraph into lines for
// a given width. Warnings raised while shaping (missing fonts, missing
// images) are cached with it and replayed on hits.
type Shaped struct {
	Lines    []Line
	Warnings []diag.Warning
}

// Height is the summed height of all lines.
func (sh Shaped) Height() dimen.DU {
	var h dimen.DU
	for _, ln := range sh.Lines {
		h += ln.Height
	}
	return h
}

// Default intrinsic size of embedded images; rendering backends may scale
// later, layout just reserves space.
const (
	imageWidth  = 144 * dimen.PT
	imageHeight = 108 * dimen.PT
)

// Prober revalidates layout cache entries: font dependencies re-resolve
// through the book, file dependencies against current bytes.
func Prober(env Environment) memo.Probe {
	return func(d memo.Dep) (memo.Fingerprint, bool) {
		switch d.Kind {
		case memo.DepFont:
			family, variant, ok := strings.Cut(d.Name, "/")
			if !ok {
				return memo.Zero, false
			}
			f, _ := resolveFont(env, family, variant)
			return f.Fingerprint(), true
		case memo.DepFile:
			b, err := env.File(source.ID(d.Name))
			if err != nil {
				return memo.Zero, true // still missing: placeholder stays valid
			}
			return b.Fingerprint(), true
		}
		return memo.Zero, false
	}
}

// resolveFont maps a family/variant pair to a loaded font, falling back to
// fixed metrics when the book has no entry or the World has no data. The
// bool reports whether real font data was found.
func resolveFont(env Environment, family, variant string) (*font.Font, bool) {
	index, ok := env.Book().Select(family, variant)
	if ok {
		if f, loaded := env.Font(index); loaded {
			return f, true
		}
	}
	return font.Fallback(font.Descriptor{Family: family, Variant: variant, Index: -1}), false
}

// shaper collects boxes for one paragraph. It carries the style context
// (family, variant, size) which inline markup nodes may locally override.
type shaper struct {
	env        Environment
	rec        *memo.Recorder
	warns      []diag.Warning
	boxes      []Box
	glue       bool                  // whitespace seen since the last box
	fonts      map[string]*font.Font // resolved per family/variant
	codeFamily string
}

func (s *shaper) warnf(sp diag.Span, format string, args ...interface{}) {
	s.warns = append(s.warns, diag.Warning{Span: sp, Message: fmt.Sprintf(format, args...)})
}

func (s *shaper) font(sp diag.Span, family, variant string) *font.Font {
	fkey := family + "/" + variant
	if f, ok := s.fonts[fkey]; ok {
		return f
	}
	f, found := resolveFont(s.env, family, variant)
	if !found {
		s.warnf(sp, "no font data for %s/%s, using fallback metrics", family, variant)
	}
	s.rec.Record(memo.DepFont, fkey, f.Fingerprint())
	s.fonts[fkey] = f
	return f
}

type inlineStyle struct {
	family  string
	variant string
	size    dimen.DU
}

// shapeInlines walks an inline subtree and appends word/image boxes.
func (s *shaper) shapeInlines(n *content.Node, ctx inlineStyle, sp diag.Span) {
	if n.Span().ID != "" {
		sp = n.Span()
	}
	switch n.Kind() {
	case content.KText:
		s.words(n.Text(), ctx, sp)
	case content.KSpace:
		s.glue = true
	case content.KStrong:
		ctx.variant = "bold"
	case content.KEmph:
		ctx.variant = "italic"
	case content.KRaw:
		s.rawWords(n.Text(), ctx, sp)
		return
	case content.KLink:
		// links typeset as their label; targets are export metadata
	case content.KImage:
		s.image(n, ctx, sp)
		return
	}
	for _, ch := range n.Children() {
		s.shapeInlines(ch, ctx, sp)
	}
}

// words splits a text run on whitespace. Adjacent runs without whitespace
// between them (`foo**bar**`) join seamlessly: only the glue flag decides
// whether the line breaker inserts an inter-word space.
func (s *shaper) words(text string, ctx inlineStyle, sp diag.Span) {
	if text == "" {
		return
	}
	f := s.font(sp, ctx.family, ctx.variant)
	if leadingSpace(text) {
		s.glue = true
	}
	for _, w := range strings.Fields(text) {
		s.boxes = append(s.boxes, Box{
			Kind:   BoxWord,
			Glue:   s.glue,
			Text:   w,
			Family: ctx.family,
			Size:   ctx.size,
			Width:  f.Measure(w, ctx.size),
		})
		s.glue = true
	}
	s.glue = trailingSpace(text)
}

func leadingSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func trailingSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

// rawWords shapes an inline code span in the code family.
func (s *shaper) rawWords(code string, ctx inlineStyle, sp diag.Span) {
	ctx.family = s.codeFamily
	ctx.variant = "regular"
	s.words(code, ctx, sp)
}

func (s *shaper) image(n *content.Node, ctx inlineStyle, sp diag.Span) {
	id := sp.ID.Resolve(n.Target())
	b, err := s.env.File(id)
	if err != nil {
		s.rec.Record(memo.DepFile, string(id), memo.Zero)
		s.warnf(sp, "image %q not found, showing placeholder", n.Target())
		s.boxes = append(s.boxes, Box{
			Kind:   BoxPlaceholder,
			Glue:   s.glue,
			Text:   fmt.Sprintf("missing image: %s", n.Target()),
			Target: n.Target(),
			Width:  imageWidth,
			Height: 24 * dimen.PT,
		})
		s.glue = false
		return
	}
	s.rec.Record(memo.DepFile, string(id), b.Fingerprint())
	s.boxes = append(s.boxes, Box{
		Kind:   BoxImage,
		Glue:   s.glue,
		Target: n.Target(),
		Data:   b.Fingerprint(),
		Width:  imageWidth,
		Height: imageHeight,
	})
	s.glue = false
}

// shapePara breaks one paragraph-like node into lines of at most width,
// greedy first-fit. A single box wider than the line is placed on a line
// of its own, overflowing, with a warning: atomic units are never split.
func shapePara(env Environment, rec *memo.Recorder, n *content.Node, chain style.Chain, width dimen.DU) Shaped {
	ctx := inlineStyle{
		family:  chain.Text(style.FontFamily),
		variant: chain.Text(style.FontVariant),
		size:    chain.Length(style.FontSize),
	}
	s := &shaper{
		env:        env,
		rec:        rec,
		fonts:      make(map[string]*font.Font),
		codeFamily: chain.Text(style.CodeFamily),
	}
	sp := n.Span()
	s.shapeInlines(n, ctx, sp)
	leading := chain.Length(style.Leading)
	space := s.font(sp, ctx.family, ctx.variant).Measure(" ", ctx.size)
	lines := breakLines(s.boxes, width, space, leading, func(b Box) {
		s.warnf(sp, "box %q wider than line width, overflowing", boxLabel(b))
	})
	return Shaped{Lines: lines, Warnings: s.warns}
}

func boxLabel(b Box) string {
	if b.Kind == BoxWord {
		return b.Text
	}
	return b.Target
}

// breakLines is the greedy line breaker. It is a pure function of its
// inputs; onOverflow fires for boxes wider than the given width. The
// inter-word space separates only boxes carrying the glue flag, so runs
// with no whitespace between them in the source join seamlessly.
func breakLines(boxes []Box, width, space, leading dimen.DU, onOverflow func(Box)) []Line {
	var lines []Line
	var cur Line
	cur.Height = leading
	flush := func() {
		if len(cur.Boxes) > 0 {
			lines = append(lines, cur)
		}
		cur = Line{Height: leading}
	}
	for _, b := range boxes {
		glue := dimen.DU(0)
		if len(cur.Boxes) > 0 && b.Glue {
			glue = space
		}
		if len(cur.Boxes) > 0 && cur.Width+glue+b.Width > width+fitEpsilon {
			flush()
			glue = 0
		}
		if len(cur.Boxes) == 0 && b.Width > width+fitEpsilon {
			if onOverflow != nil {
				onOverflow(b)
			}
		}
		cur.Width += glue
		b.X = cur.Width
		cur.Boxes = append(cur.Boxes, b)
		cur.Width += b.Width
		if b.Height > cur.Height {
			cur.Height = b.Height
		}
	}
	flush()
	return lines
}

// --- Parallel pre-measurement ----------------------------------------------

// measureJob is one paragraph to pre-shape: enough context to reproduce
// exactly the shape call the placement pass will make.
type measureJob struct {
	node  *content.Node
	chain style.Chain
	width dimen.DU
}

// premeasure warms the shaping cache for all jobs using a bounded worker
// pool. Ranks keep the job list deterministic; placement order is
// untouched since placement happens in a later, sequential pass.
func premeasure(eng *engine, jobs []measureJob, workers int) {
	if len(jobs) < 2 || workers < 2 {
		return
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	tracer().Debugf("pre-measuring %d paragraphs on %d workers", len(jobs), workers)
	var wg sync.WaitGroup
	ch := make(chan measureJob, len(jobs))
	for _, job := range jobs {
		ch <- job
	}
	close(ch)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range ch {
				eng.shape(job.node, job.chain, job.width)
			}
		}()
	}
	wg.Wait()
}
