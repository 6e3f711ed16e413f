package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/tyse/core/dimen"
)

type propKind uint8

const (
	propNull propKind = iota
	propString
	propInt
	propDim
)

// Property is one style property value. Properties are small immutable
// tagged values: a string, an integer or a dimension.
type Property struct {
	kind propKind
	str  string
	num  int64
	dim  Dim
}

// NullStyle is the empty property value.
var NullStyle = Property{}

// StringProp wraps a string value.
func StringProp(s string) Property {
	return Property{kind: propString, str: s}
}

// IntProp wraps an integer value.
func IntProp(n int64) Property {
	return Property{kind: propInt, num: n}
}

// LengthProp wraps a fixed length.
func LengthProp(du dimen.DU) Property {
	return Property{kind: propDim, dim: JustDimen(du)}
}

// DimProp wraps a Dim option value (auto, percentage, …).
func DimProp(d Dim) Property {
	return Property{kind: propDim, dim: d}
}

// IsNull checks whether the property is unset.
func (p Property) IsNull() bool {
	return p.kind == propNull
}

// AsString returns the string payload, if any.
func (p Property) AsString() (string, bool) {
	if p.kind != propString {
		return "", false
	}
	return p.str, true
}

// AsInt returns the integer payload, if any.
func (p Property) AsInt() (int64, bool) {
	if p.kind != propInt {
		return 0, false
	}
	return p.num, true
}

// AsLength returns the fixed length payload, if any. Auto, inherit and
// percentage dimensions do not match; use AsDim for those.
func (p Property) AsLength() (dimen.DU, bool) {
	if p.kind != propDim {
		return 0, false
	}
	var du dimen.DU
	if m := p.dim.Match(); m != nil && m.Just(&du) != nil {
		return du, true
	}
	return 0, false
}

// AsDim returns the dimension payload, if any.
func (p Property) AsDim() (Dim, bool) {
	if p.kind != propDim {
		return Dim{}, false
	}
	return p.dim, true
}

func (p Property) String() string {
	switch p.kind {
	case propString:
		return p.str
	case propInt:
		return fmt.Sprintf("%d", p.num)
	case propDim:
		return p.dim.String()
	}
	return "<null>"
}

func (p Property) hashInto(h *memo.Hasher) {
	h.WriteUint(uint64(p.kind))
	switch p.kind {
	case propString:
		h.WriteString(p.str)
	case propInt:
		h.WriteInt(p.num)
	case propDim:
		h.WriteUint(uint64(p.dim.flags)).WriteInt(int64(p.dim.d)).WriteInt(int64(p.dim.pcnt))
	}
}

// Fingerprint hashes the property's content.
func (p Property) Fingerprint() memo.Fingerprint {
	h := memo.NewHasher()
	p.hashInto(h)
	return h.Sum()
}

// KeyValue is a container for one style override.
type KeyValue struct {
	Key   Key
	Value Property
}

// Set is a convenience constructor for KeyValue.
func Set(key Key, value Property) KeyValue {
	return KeyValue{Key: key, Value: value}
}
