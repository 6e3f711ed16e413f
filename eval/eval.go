package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/npillmayer/press/content"
	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/press/source"
)

// Environment is the slice of the World the evaluator needs. All loading
// is synchronous and must be cheap on repeated calls; the environment owns
// I/O and its own caching.
type Environment interface {
	// Library is the standard scope visible in every module.
	Library() *Scope
	// Source resolves a source identifier to its text.
	Source(id source.ID) (*source.Source, error)
	// Today returns the current date, shifted by offsetHours when
	// withOffset is set. ok=false if no date is available.
	Today(offsetHours int, withOffset bool) (date time.Time, ok bool)
}

// Reporter receives warnings during evaluation. Both *diag.Sink and the
// evaluator's internal capture wrapper implement it.
type Reporter interface {
	Warn(sp diag.Span, format string, args ...interface{})
	Replay(warnings []diag.Warning)
}

// Cached is the memoized result of evaluating one module, together with
// the warnings raised during that evaluation. Warnings are replayed on
// cache hits so that diagnostics stay complete.
type Cached struct {
	Module   *Module
	Warnings []diag.Warning
}

// Prober revalidates evaluation cache entries: source dependencies against
// current text fingerprints, date dependencies against the current day.
func Prober(env Environment) memo.Probe {
	return func(d memo.Dep) (memo.Fingerprint, bool) {
		switch d.Kind {
		case memo.DepSource:
			src, err := env.Source(source.ID(d.Name))
			if err != nil {
				return memo.Zero, false
			}
			return src.Fingerprint(), true
		case memo.DepToday:
			var offset int
			var given bool
			if _, err := fmt.Sscanf(d.Name, "today:%d:%t", &offset, &given); err != nil {
				return memo.Zero, false
			}
			date, ok := env.Today(offset, given)
			if !ok {
				return memo.Zero, false
			}
			return memo.NewHasher().WriteString(date.Format("2006-01-02")).Sum(), true
		}
		return memo.Zero, false
	}
}

// Eval evaluates a source file into a Module. Results are memoized in the
// modules table, keyed by the content of the source and the library;
// entries revalidate against everything the evaluation transitively read.
// The returned dependency set allows an importing module to absorb this
// module's freshness constraints.
//
// A fatal error aborts this module only; modules already evaluated and
// cached stay cached.
func Eval(env Environment, modules *memo.Table[Cached], route *Route, sink Reporter, src *source.Source) (*Module, []memo.Dep, error) {
	tracer().Debugf("evaluating module %s", src.ID())
	key := memo.NewHasher().
		WriteString("module").
		WriteFingerprint(src.Fingerprint()).
		WriteFingerprint(env.Library().Fingerprint()).
		Sum()
	cached, deps, hit, err := modules.Memoize(key, Prober(env), func(rec *memo.Recorder) (Cached, error) {
		rec.Record(memo.DepSource, string(src.ID()), src.Fingerprint())
		capture := &captureSink{outer: sink}
		ev := &evaluator{
			env:     env,
			modules: modules,
			route:   route.Push(src.ID()),
			sink:    capture,
			rec:     rec,
			src:     src,
			scope:   NewScope(env.Library()),
		}
		root, err := ev.evalMarkup()
		if err != nil {
			return Cached{}, err
		}
		return Cached{
			Module:   newModule(src.ID(), ev.scope, root),
			Warnings: capture.captured(),
		}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if hit {
		sink.Replay(cached.Warnings)
	}
	return cached.Module, deps, nil
}

// evaluator is the per-module evaluation state.
type evaluator struct {
	env     Environment
	modules *memo.Table[Cached]
	route   *Route
	sink    *captureSink
	rec     *memo.Recorder
	src     *source.Source
	scope   *Scope
}

func (ev *evaluator) warnf(sp diag.Span, format string, args ...interface{}) {
	ev.sink.Warn(sp, format, args...)
}

func (ev *evaluator) fail(sp diag.Span, kind diag.Kind, format string, args ...interface{}) error {
	return diag.Errorf(sp, kind, format, args...)
}

// evalImport evaluates an imported file and binds its module in scope.
// The route is checked before recursing: a target already on the route
// closed a cycle and is rejected with the full chain.
func (ev *evaluator) evalImport(d *importDir, sp diag.Span) error {
	target := ev.src.ID().Resolve(d.Path)
	if ev.route.Contains(target) {
		return &diag.Error{
			Span:    sp,
			Kind:    diag.KindCycle,
			Message: fmt.Sprintf("cyclic import of %q", target),
			Trace:   append(ev.route.Chain(), target),
		}
	}
	imported, err := ev.env.Source(target)
	if err != nil {
		return ev.fail(sp, diag.KindNotFound, "cannot import %q: %v", d.Path, err)
	}
	mod, deps, err := Eval(ev.env, ev.modules, ev.route, ev.sink, imported)
	if err != nil {
		return err
	}
	ev.rec.Absorb(deps) // our freshness now includes the import's inputs
	name := d.Alias
	if name == "" {
		name = mod.Name()
	}
	ev.scope.Define(name, ModuleVal(mod))
	return nil
}

func moduleName(id source.ID) string {
	base := path.Base(string(id))
	return strings.TrimSuffix(base, path.Ext(base))
}

// display converts a value into content for @emit.
func display(v Value, sp diag.Span) (*content.Node, error) {
	switch v.Kind() {
	case VNone:
		return nil, nil
	case VContent:
		n, _ := v.AsContent()
		return n, nil
	case VModule:
		return nil, diag.Errorf(sp, diag.KindEval, "cannot emit a module")
	case VLength:
		du, _ := v.AsLength()
		return content.VSpace(du).WithSpan(sp), nil
	}
	return content.Paragraph(content.Text(v.Display())).WithSpan(sp), nil
}

// captureSink forwards warnings to the compilation sink and keeps a copy
// for the module's cache entry.
type captureSink struct {
	outer Reporter
	mu    sync.Mutex
	list  []diag.Warning
}

func (cs *captureSink) Warn(sp diag.Span, format string, args ...interface{}) {
	w := diag.Warning{Span: sp, Message: fmt.Sprintf(format, args...)}
	cs.outer.Replay([]diag.Warning{w})
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.list = append(cs.list, w)
}

func (cs *captureSink) Replay(warnings []diag.Warning) {
	cs.outer.Replay(warnings)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.list = append(cs.list, warnings...)
}

func (cs *captureSink) captured() []diag.Warning {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	list := make([]diag.Warning, len(cs.list))
	copy(list, cs.list)
	return list
}
