package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/npillmayer/press/content"
	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/press/source"
	"github.com/npillmayer/tyse/core/dimen"
)

// ValueKind discriminates Value variants.
type ValueKind uint8

const (
	VNone ValueKind = iota
	VBool
	VInt
	VFloat
	VStr
	VLength
	VContent
	VModule
	VDatetime
)

func (k ValueKind) String() string {
	switch k {
	case VNone:
		return "none"
	case VBool:
		return "bool"
	case VInt:
		return "int"
	case VFloat:
		return "float"
	case VStr:
		return "str"
	case VLength:
		return "length"
	case VContent:
		return "content"
	case VModule:
		return "module"
	case VDatetime:
		return "datetime"
	}
	return "<invalid>"
}

// Value is one scripting value. Values are small immutable tagged unions;
// the zero Value is none.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	du   dimen.DU
	node *content.Node
	mod  *Module
	t    time.Time
}

// None is the absent value.
func None() Value { return Value{} }

// BoolVal wraps a boolean.
func BoolVal(b bool) Value { return Value{kind: VBool, b: b} }

// IntVal wraps an integer.
func IntVal(n int64) Value { return Value{kind: VInt, i: n} }

// FloatVal wraps a float.
func FloatVal(x float64) Value { return Value{kind: VFloat, f: x} }

// StrVal wraps a string.
func StrVal(s string) Value { return Value{kind: VStr, s: s} }

// LengthVal wraps a typographic length.
func LengthVal(du dimen.DU) Value { return Value{kind: VLength, du: du} }

// ContentVal wraps a content subtree.
func ContentVal(n *content.Node) Value { return Value{kind: VContent, node: n} }

// ModuleVal wraps an evaluated module.
func ModuleVal(m *Module) Value { return Value{kind: VModule, mod: m} }

// DateVal wraps a date.
func DateVal(t time.Time) Value { return Value{kind: VDatetime, t: t} }

// Kind returns the value's discriminant.
func (v Value) Kind() ValueKind { return v.kind }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == VInt }

// AsFloat returns the numeric payload of ints and floats.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case VInt:
		return float64(v.i), true
	case VFloat:
		return v.f, true
	}
	return 0, false
}

// AsStr returns the string payload.
func (v Value) AsStr() (string, bool) { return v.s, v.kind == VStr }

// AsLength returns the length payload.
func (v Value) AsLength() (dimen.DU, bool) { return v.du, v.kind == VLength }

// AsContent returns the content payload.
func (v Value) AsContent() (*content.Node, bool) { return v.node, v.kind == VContent }

// AsModule returns the module payload.
func (v Value) AsModule() (*Module, bool) { return v.mod, v.kind == VModule }

// AsDate returns the datetime payload.
func (v Value) AsDate() (time.Time, bool) { return v.t, v.kind == VDatetime }

// Display renders the value the way @emit would typeset it.
func (v Value) Display() string {
	switch v.kind {
	case VNone:
		return ""
	case VBool:
		return strconv.FormatBool(v.b)
	case VInt:
		return strconv.FormatInt(v.i, 10)
	case VFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case VStr:
		return v.s
	case VLength:
		return fmt.Sprintf("%.2fpt", float64(v.du)/float64(dimen.PT))
	case VDatetime:
		return v.t.Format("2006-01-02")
	case VContent:
		return v.node.String()
	case VModule:
		return fmt.Sprintf("<module %s>", v.mod.Name())
	}
	return "<invalid>"
}

// Fingerprint hashes the value's content.
func (v Value) Fingerprint() memo.Fingerprint {
	h := memo.NewHasher()
	h.WriteUint(uint64(v.kind))
	switch v.kind {
	case VBool:
		h.WriteBool(v.b)
	case VInt:
		h.WriteInt(v.i)
	case VFloat:
		h.WriteUint(math.Float64bits(v.f))
	case VStr:
		h.WriteString(v.s)
	case VLength:
		h.WriteInt(int64(v.du))
	case VDatetime:
		h.WriteInt(v.t.Unix())
	case VContent:
		h.WriteFingerprint(v.node.Fingerprint())
	case VModule:
		h.WriteFingerprint(v.mod.Fingerprint())
	}
	return h.Sum()
}

// Scope maps names to values. Lookups fall through to the parent scope;
// insertion order is irrelevant.
type Scope struct {
	parent   *Scope
	bindings map[string]Value
}

// NewScope creates an empty scope below parent (nil for a root scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, bindings: make(map[string]Value)}
}

// Define binds name to value in this scope, shadowing outer bindings.
func (sc *Scope) Define(name string, v Value) {
	sc.bindings[name] = v
}

// Lookup resolves name, walking outward through parent scopes.
func (sc *Scope) Lookup(name string) (Value, bool) {
	for s := sc; s != nil; s = s.parent {
		if v, ok := s.bindings[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Names returns the names bound in this scope (not parents), sorted.
func (sc *Scope) Names() []string {
	names := make([]string, 0, len(sc.bindings))
	for name := range sc.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fingerprint hashes this scope's own bindings in name order.
func (sc *Scope) Fingerprint() memo.Fingerprint {
	h := memo.NewHasher()
	for _, name := range sc.Names() {
		h.WriteString(name)
		h.WriteFingerprint(sc.bindings[name].Fingerprint())
	}
	return h.Sum()
}

// Module is the result of evaluating one source file: the exported scope
// and the content written at the file's top level. Modules are immutable
// and cached by the memoization substrate.
type Module struct {
	name    string
	id      source.ID
	scope   *Scope
	content *content.Node
	fp      memo.Fingerprint
}

func newModule(id source.ID, scope *Scope, root *content.Node) *Module {
	m := &Module{
		name:    moduleName(id),
		id:      id,
		scope:   scope,
		content: root,
	}
	m.fp = memo.NewHasher().
		WriteString(string(id)).
		WriteFingerprint(scope.Fingerprint()).
		WriteFingerprint(root.Fingerprint()).
		Sum()
	return m
}

// Name is the module's short name, derived from its file name.
func (m *Module) Name() string { return m.name }

// ID is the source identifier the module was evaluated from.
func (m *Module) ID() source.ID { return m.id }

// Scope is the module's exported scope.
func (m *Module) Scope() *Scope { return m.scope }

// Content is the root content node of the module.
func (m *Module) Content() *content.Node { return m.content }

// Fingerprint identifies the module's content.
func (m *Module) Fingerprint() memo.Fingerprint { return m.fp }
