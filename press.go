package press

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"time"

	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/doc"
	"github.com/npillmayer/press/eval"
	"github.com/npillmayer/press/font"
	"github.com/npillmayer/press/layout"
	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/press/source"
	"github.com/npillmayer/press/style"
)

// World is everything a compilation may read: sources, raw files, fonts,
// the library scope and the current date. Implementations own their I/O
// and caching; the compiler calls these accessors freely and expects
// repeated calls to be cheap.
//
// A World must answer consistently for the duration of one Compile call.
// Between calls it may change (edited sources, new fonts); the compiler's
// caches revalidate against those changes.
type World interface {
	// Library is the scope of predefined bindings visible in every module.
	Library() *eval.Scope
	// Book is the metadata of all known fonts.
	Book() *font.Book
	// Main is the identifier of the entry source.
	Main() source.ID
	// Source resolves an identifier to source text.
	Source(id source.ID) (*source.Source, error)
	// File resolves an identifier to raw bytes (images).
	File(id source.ID) (*source.Bytes, error)
	// Font loads the font at a book index, ok=false if unavailable.
	Font(index int) (*font.Font, bool)
	// Today returns the current date, shifted by offsetHours when
	// withOffset is set. ok=false if the World provides no date.
	Today(offsetHours int, withOffset bool) (date time.Time, ok bool)
}

// Horizon names a cache retention bucket for Evict.
type Horizon uint8

const (
	// PerCompilation covers everything keyed on source content. Hosts that
	// cannot observe edits (no file watching) evict this bucket between
	// compilations; revalidation makes eviction optional otherwise.
	PerCompilation Horizon = iota
	// Durable covers everything, including shaping results that survive
	// source edits. Evicting it resets the compiler completely.
	Durable
)

// Compiler carries the memoization state across compilations. Reuse one
// Compiler for repeated compilations of the same World to get incremental
// recompiles. Compile calls must not overlap; the caches are internally
// safe for the compiler's own worker pool.
type Compiler struct {
	modules *memo.Table[eval.Cached]
	frames  *memo.Table[layout.Shaped]

	// Workers bounds the pre-measurement pool; 0 means NumCPU, 1 disables
	// parallel measurement.
	Workers int

	// BaseStyles replace global defaults as the outermost style frame.
	// Directives inside the document still override them.
	BaseStyles []style.KeyValue
}

// NewCompiler creates a Compiler with empty caches.
func NewCompiler() *Compiler {
	return &Compiler{
		modules: memo.NewTable[eval.Cached](),
		frames:  memo.NewTable[layout.Shaped](),
	}
}

// Compile evaluates the World's main source and typesets the result.
// Warnings are returned on success and on failure; the error, if any, is a
// *diag.Error carrying span and import trace.
func (c *Compiler) Compile(world World) (*doc.Document, []diag.Warning, error) {
	tracer().Infof("compiling %s", world.Main())
	sink := diag.NewSink()
	src, err := world.Source(world.Main())
	if err != nil {
		e := diag.Errorf(diag.Span{ID: world.Main()}, diag.KindNotFound,
			"main source %s: %v", world.Main(), err)
		return nil, sink.Warnings(), sink.Fail(e)
	}
	module, _, err := eval.Eval(world, c.modules, nil, sink, src)
	if err != nil {
		var de *diag.Error
		if errors.As(err, &de) {
			sink.Fail(de)
		}
		return nil, sink.Warnings(), err
	}
	chain := style.New()
	if len(c.BaseStyles) > 0 {
		chain = chain.Push(c.BaseStyles...)
	}
	document := layout.Typeset(world, sink, c.frames, module.Content(), chain, c.Workers)
	return document, sink.Warnings(), nil
}

// Evict clears cache buckets up to the given horizon.
func (c *Compiler) Evict(h Horizon) {
	c.modules.Clear()
	if h >= Durable {
		c.frames.Clear()
	}
}

// DisableCaches switches all tables to pass-through mode. Compilation
// results must not change; used to verify cache transparency.
func (c *Compiler) DisableCaches() {
	c.modules.Disable()
	c.frames.Disable()
}

// EnableCaches switches memoization back on.
func (c *Compiler) EnableCaches() {
	c.modules.Enable()
	c.frames.Enable()
}

// Stats reports cache effectiveness of the module and shaping tables.
func (c *Compiler) Stats() (modules, frames memo.Stats) {
	return c.modules.Stats(), c.frames.Stats()
}

// Compile is the one-shot convenience entry point: a fresh Compiler, one
// compilation, caches discarded.
func Compile(world World) (*doc.Document, []diag.Warning, error) {
	return NewCompiler().Compile(world)
}
