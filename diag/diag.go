package diag

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

	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/press/source"
)

// Span locates a diagnostic in a source file as a half-open byte range.
type Span struct {
	ID   source.ID
	From int
	To   int
}

// At creates a span within the source identified by id.
func At(id source.ID, from, to int) Span {
	return Span{ID: id, From: from, To: to}
}

func (sp Span) String() string {
	if sp.ID == "" {
		return "<detached>"
	}
	return fmt.Sprintf("%s:%d–%d", sp.ID, sp.From, sp.To)
}

// Fingerprint makes spans hashable for memoization keys.
func (sp Span) Fingerprint() memo.Fingerprint {
	return memo.NewHasher().
		WriteString(string(sp.ID)).
		WriteInt(int64(sp.From)).
		WriteInt(int64(sp.To)).
		Sum()
}

// Kind classifies fatal errors by their cause.
type Kind uint8

const (
	KindEval     Kind = iota + 1 // type errors, invalid operations
	KindNotFound                 // missing source/file identifier
	KindCycle                    // cyclic import
)

func (k Kind) String() string {
	switch k {
	case KindEval:
		return "evaluation error"
	case KindNotFound:
		return "not found"
	case KindCycle:
		return "cyclic import"
	}
	return "error"
}

// Error is a fatal, span-tagged compilation error. For cyclic imports the
// Trace field carries the chain of files that closed the cycle.
type Error struct {
	Span    Span
	Kind    Kind
	Message string
	Trace   []source.ID
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Span, e.Message)
	if len(e.Trace) > 0 {
		b.WriteString(" (import chain: ")
		for i, id := range e.Trace {
			if i > 0 {
				b.WriteString(" → ")
			}
			b.WriteString(string(id))
		}
		b.WriteString(")")
	}
	return b.String()
}

// Errorf creates a fatal error at a span.
func Errorf(sp Span, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Span: sp, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal, span-tagged diagnostic.
type Warning struct {
	Span    Span
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Span, w.Message)
}

// Sink accumulates diagnostics for one compilation. Appends are safe from
// concurrent goroutines; reading happens once, after the compilation call
// returns.
type Sink struct {
	mu       sync.Mutex
	warnings []Warning
	fatal    *Error
}

// NewSink creates an empty diagnostics sink.
func NewSink() *Sink {
	return &Sink{}
}

// Warn appends a warning.
func (s *Sink) Warn(sp Span, format string, args ...interface{}) {
	w := Warning{Span: sp, Message: fmt.Sprintf(format, args...)}
	tracer().Infof("%s", w)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, w)
}

// Replay re-appends warnings captured during an earlier (memoized)
// computation, keeping diagnostics complete across cache hits.
func (s *Sink) Replay(warnings []Warning) {
	if len(warnings) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, warnings...)
}

// Fail records a fatal error. The first fatal error is retained, later
// ones are dropped (they are typically follow-ups of the first).
func (s *Sink) Fail(err *Error) *Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fatal == nil {
		s.fatal = err
	}
	return err
}

// Warnings returns the accumulated warnings in append order. Exact
// duplicates collapse to their first occurrence: replaying a memoized
// computation must not multiply its diagnostics.
func (s *Sink) Warnings() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	warnings := make([]Warning, 0, len(s.warnings))
	seen := make(map[Warning]struct{}, len(s.warnings))
	for _, w := range s.warnings {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		warnings = append(warnings, w)
	}
	return warnings
}

// Fatal returns the retained fatal error, or nil.
func (s *Sink) Fatal() *Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fatal
}
