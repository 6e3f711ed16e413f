package memo

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sync"
	"sync/atomic"
)

// DepKind classifies an external input read during a memoized computation.
type DepKind uint8

const (
	DepSource DepKind = iota + 1 // source text of a file
	DepFile                      // raw bytes of a file
	DepFont                      // font data by book index
	DepToday                     // the current date
)

func (k DepKind) String() string {
	switch k {
	case DepSource:
		return "source"
	case DepFile:
		return "file"
	case DepFont:
		return "font"
	case DepToday:
		return "today"
	}
	return "<unknown dep>"
}

// Dep is one recorded dependency: an external input identified by kind and
// name, together with the fingerprint its content had when it was read.
type Dep struct {
	Kind DepKind
	Name string
	FP   Fingerprint
}

// Probe reports the current fingerprint of a dependency, or ok=false if the
// input is gone. Tables use probes to revalidate entries on lookup.
type Probe func(Dep) (Fingerprint, bool)

// Recorder collects the dependencies read during one memoized computation.
// It is safe for concurrent use, as sub-computations may fan out.
type Recorder struct {
	mu   sync.Mutex
	deps []Dep
	seen map[Dep]struct{}
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{seen: make(map[Dep]struct{})}
}

// Record notes that an input with the given kind/name was read and had
// fingerprint fp at that moment. Duplicate observations collapse.
func (rec *Recorder) Record(kind DepKind, name string, fp Fingerprint) {
	if rec == nil {
		return
	}
	d := Dep{Kind: kind, Name: name, FP: fp}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if _, ok := rec.seen[d]; ok {
		return
	}
	rec.seen[d] = struct{}{}
	rec.deps = append(rec.deps, d)
}

// Absorb merges dependencies of a nested computation (possibly replayed from
// a cache entry) into this recorder. Freshness must propagate transitively:
// a module depends on everything its imports depend on.
func (rec *Recorder) Absorb(deps []Dep) {
	if rec == nil {
		return
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, d := range deps {
		if _, ok := rec.seen[d]; ok {
			continue
		}
		rec.seen[d] = struct{}{}
		rec.deps = append(rec.deps, d)
	}
}

// Deps returns the recorded dependency set in first-read order.
func (rec *Recorder) Deps() []Dep {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	deps := make([]Dep, len(rec.deps))
	copy(deps, rec.deps)
	return deps
}

// Stats counts cache effectiveness for one table.
type Stats struct {
	Hits    int64
	Misses  int64
	Stale   int64 // entries dropped because a dependency changed
	Entries int
}

// Table memoizes one function shape: computations producing values of type V,
// keyed by an argument fingerprint. Concurrent lookups proceed independently;
// concurrent misses for the same key compute once (waiters block on the
// winner's latch). Recomputing twice would be safe, merely wasteful, so the
// latch is a fast path, not a correctness device.
type Table[V any] struct {
	mu      sync.Mutex
	entries map[Fingerprint]*entry[V]
	off     atomic.Bool
	hits    atomic.Int64
	misses  atomic.Int64
	stale   atomic.Int64
}

type entry[V any] struct {
	done chan struct{}
	val  V
	deps []Dep
	err  error
}

// NewTable creates an empty memoization table.
func NewTable[V any]() *Table[V] {
	return &Table[V]{entries: make(map[Fingerprint]*entry[V])}
}

// Disable switches the table into pass-through mode: every Memoize call
// computes. Used to verify cache transparency; results must not change.
func (t *Table[V]) Disable() {
	t.off.Store(true)
}

// Enable switches memoization back on.
func (t *Table[V]) Enable() {
	t.off.Store(false)
}

// Clear drops all entries. This is the invalidation horizon hook: hosts
// clear source-keyed tables between compilations and keep font-keyed ones.
func (t *Table[V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[Fingerprint]*entry[V])
}

// Stats returns a snapshot of the table's counters.
func (t *Table[V]) Stats() Stats {
	t.mu.Lock()
	n := len(t.entries)
	t.mu.Unlock()
	return Stats{
		Hits:    t.hits.Load(),
		Misses:  t.misses.Load(),
		Stale:   t.stale.Load(),
		Entries: n,
	}
}

// Memoize returns the cached value for key, recomputing it if the key is
// unknown or any recorded dependency fails revalidation against probe.
// The compute function receives a Recorder and must declare every external
// input it reads. The returned dep slice is the entry's dependency set, for
// absorption into an enclosing computation; hit tells the caller whether
// the value was replayed from cache (callers use this to re-emit captured
// diagnostics).
//
// Failed computations are not retained: no partial result is cached as
// successful. Waiters of a failed in-flight computation receive its error.
func (t *Table[V]) Memoize(key Fingerprint, probe Probe, compute func(*Recorder) (V, error)) (v V, deps []Dep, hit bool, err error) {
	if t == nil || t.off.Load() {
		rec := NewRecorder()
		v, err = compute(rec)
		return v, rec.Deps(), false, err
	}
	for {
		t.mu.Lock()
		e, ok := t.entries[key]
		if !ok {
			e = &entry[V]{done: make(chan struct{})}
			t.entries[key] = e
			t.mu.Unlock()
			v, deps, err = t.fill(key, e, compute)
			return v, deps, false, err
		}
		t.mu.Unlock()
		<-e.done
		if e.err != nil {
			var zero V
			return zero, nil, false, e.err
		}
		if fresh(e.deps, probe) {
			t.hits.Add(1)
			tracer().Debugf("memo hit for key %v", key)
			return e.val, e.deps, true, nil
		}
		// Entry went stale; drop it and race to recompute.
		t.stale.Add(1)
		tracer().Debugf("memo entry for key %v is stale", key)
		t.mu.Lock()
		if t.entries[key] == e {
			delete(t.entries, key)
		}
		t.mu.Unlock()
	}
}

func (t *Table[V]) fill(key Fingerprint, e *entry[V], compute func(*Recorder) (V, error)) (V, []Dep, error) {
	t.misses.Add(1)
	rec := NewRecorder()
	v, err := compute(rec)
	if err != nil {
		e.err = err
		close(e.done)
		t.mu.Lock()
		if t.entries[key] == e {
			delete(t.entries, key)
		}
		t.mu.Unlock()
		var zero V
		return zero, nil, err
	}
	e.val = v
	e.deps = rec.Deps()
	close(e.done)
	return v, e.deps, nil
}

func fresh(deps []Dep, probe Probe) bool {
	if probe == nil {
		return true
	}
	for _, d := range deps {
		fp, ok := probe(d)
		if !ok || fp != d.FP {
			return false
		}
	}
	return true
}
