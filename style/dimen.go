package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/tyse/core/dimen"
)

const (
	dimNone uint32 = 0

	dimAbsolute uint32 = 0x0001
	dimAuto     uint32 = 0x0002
	dimInherit  uint32 = 0x0003
	kindMask    uint32 = 0x000f

	dimPercent uint32 = 0x0100
)

// Dim is an option type for style dimensions.
type Dim struct {
	d     dimen.DU
	pcnt  int
	flags uint32
}

/*
type Dim
	= Auto
	| Inherit
	| JustDimen dimen
	| Percentage int
*/

// Auto is a dimension left for layout to decide.
func Auto() Dim {
	return Dim{flags: dimAuto}
}

// Inherit defers to the enclosing scope's value.
func Inherit() Dim {
	return Dim{flags: dimInherit}
}

// JustDimen creates a dimension with a fixed value of x.
func JustDimen(x dimen.DU) Dim {
	return Dim{d: x, flags: dimAbsolute}
}

// Percentage creates a dimension relative to an enclosing length, in
// percent points.
func Percentage(n int) Dim {
	return Dim{pcnt: n, flags: dimPercent}
}

func (d Dim) String() string {
	switch {
	case d.flags&kindMask == dimAuto:
		return "auto"
	case d.flags&kindMask == dimInherit:
		return "inherit"
	case d.flags&dimPercent > 0:
		return fmt.Sprintf("%d%%", d.pcnt)
	case d.flags&kindMask == dimAbsolute:
		return fmt.Sprintf("%.2fpt", float64(d.d)/float64(dimen.PT))
	}
	return "<none>"
}

// ---------------------------------------------------------------------------

// Match starts destructuring a Dim.
func (d Dim) Match() *DimMatcher {
	return &DimMatcher{dim: d}
}

// DimMatcher destructures a Dim, case by case.
type DimMatcher struct {
	dim Dim
}

// IsKind matches if the receiver's kind equals d's kind.
func (m *DimMatcher) IsKind(d Dim) *DimMatcher {
	if (m.dim.flags & kindMask) == (d.flags & kindMask) {
		if (m.dim.flags&dimPercent > 0) != (d.flags&dimPercent > 0) {
			return nil
		}
		return m
	}
	return nil
}

// Just matches a fixed dimension, depositing its value in du.
func (m *DimMatcher) Just(du *dimen.DU) *DimMatcher {
	if m.dim.flags&kindMask == dimAbsolute && m.dim.flags&dimPercent == 0 {
		if du != nil {
			*du = m.dim.d
		}
		return m
	}
	return nil
}

// Percentage matches a relative dimension, depositing percent points in p.
func (m *DimMatcher) Percentage(p *int) *DimMatcher {
	if m.dim.flags&dimPercent > 0 {
		if p != nil {
			*p = m.dim.pcnt
		}
		return m
	}
	return nil
}

// Resolve computes a concrete length from a Dim: fixed values pass through,
// percentages resolve against base, auto and inherit yield fallback.
func (d Dim) Resolve(base, fallback dimen.DU) dimen.DU {
	switch {
	case d.flags&dimPercent > 0:
		return dimen.DU(int64(base) * int64(d.pcnt) / 100)
	case d.flags&kindMask == dimAbsolute:
		return d.d
	}
	return fallback
}
