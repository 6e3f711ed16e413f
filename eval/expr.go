package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/press/diag"
	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/tyse/core/dimen"
)

// Unit conversion to DU. One inch is 72 (big) points; metric units derive
// from the inch.
var unitFactors = map[string]float64{
	"pt": 1,
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
}

func (ev *evaluator) evalExpr(e *expr, sp diag.Span) (Value, error) {
	v, err := ev.evalTerm(e.Left, sp)
	if err != nil {
		return Value{}, err
	}
	for _, op := range e.Ops {
		rhs, err := ev.evalTerm(op.Term, sp)
		if err != nil {
			return Value{}, err
		}
		v, err = applyAdd(v, op.Op, rhs, sp)
		if err != nil {
			return Value{}, err
		}
	}
	return v, nil
}

func (ev *evaluator) evalTerm(t *term, sp diag.Span) (Value, error) {
	v, err := ev.evalFactor(t.Left, sp)
	if err != nil {
		return Value{}, err
	}
	for _, op := range t.Ops {
		rhs, err := ev.evalFactor(op.Factor, sp)
		if err != nil {
			return Value{}, err
		}
		v, err = applyMul(v, op.Op, rhs, sp)
		if err != nil {
			return Value{}, err
		}
	}
	return v, nil
}

func (ev *evaluator) evalFactor(f *factor, sp diag.Span) (Value, error) {
	switch {
	case f.Number != nil:
		if f.Number.Unit != "" {
			du := dimen.DU(f.Number.Value * unitFactors[f.Number.Unit] * float64(dimen.PT))
			return LengthVal(du), nil
		}
		if f.Number.Value == float64(int64(f.Number.Value)) {
			return IntVal(int64(f.Number.Value)), nil
		}
		return FloatVal(f.Number.Value), nil
	case f.Str != nil:
		return StrVal(*f.Str), nil
	case f.Bool != nil:
		return BoolVal(*f.Bool == "true"), nil
	case f.None:
		return None(), nil
	case f.Call != nil:
		return ev.evalCall(f.Call, sp)
	case f.Ref != nil:
		return ev.evalRef(f.Ref, sp)
	case f.Paren != nil:
		return ev.evalExpr(f.Paren, sp)
	}
	return Value{}, ev.fail(sp, diag.KindEval, "empty expression")
}

func (ev *evaluator) evalCall(c *callExpr, sp diag.Span) (Value, error) {
	// today(offset?) is the only built-in call for now
	offset, given := 0, false
	if c.Arg != nil {
		v, err := ev.evalExpr(c.Arg, sp)
		if err != nil {
			return Value{}, err
		}
		n, ok := v.AsInt()
		if !ok {
			return Value{}, ev.fail(sp, diag.KindEval, "today: offset must be an integer, got %s", v.Kind())
		}
		offset, given = int(n), true
	}
	date, ok := ev.env.Today(offset, given)
	if !ok {
		ev.warnf(sp, "current date is not available")
		return None(), nil
	}
	// The date is an external input: record it so the module is
	// revalidated once the day rolls over.
	name := fmt.Sprintf("today:%d:%t", offset, given)
	ev.rec.Record(memo.DepToday, name, memo.NewHasher().WriteString(date.Format("2006-01-02")).Sum())
	return DateVal(date), nil
}

func (ev *evaluator) evalRef(r *refExpr, sp diag.Span) (Value, error) {
	v, ok := ev.scope.Lookup(r.Name)
	if !ok {
		return Value{}, ev.fail(sp, diag.KindEval, "unknown name %q", r.Name)
	}
	if r.Field == "" {
		return v, nil
	}
	mod, ok := v.AsModule()
	if !ok {
		return Value{}, ev.fail(sp, diag.KindEval, "%q is not a module, cannot access %q", r.Name, r.Field)
	}
	fv, ok := mod.Scope().Lookup(r.Field)
	if !ok {
		return Value{}, ev.fail(sp, diag.KindEval, "module %q exports no %q", mod.Name(), r.Field)
	}
	return fv, nil
}

func applyAdd(lhs Value, op string, rhs Value, sp diag.Span) (Value, error) {
	neg := op == "-"
	switch {
	case lhs.Kind() == VStr && rhs.Kind() == VStr && !neg:
		l, _ := lhs.AsStr()
		r, _ := rhs.AsStr()
		return StrVal(l + r), nil
	case lhs.Kind() == VLength && rhs.Kind() == VLength:
		l, _ := lhs.AsLength()
		r, _ := rhs.AsLength()
		if neg {
			return LengthVal(l - r), nil
		}
		return LengthVal(l + r), nil
	case lhs.Kind() == VInt && rhs.Kind() == VInt:
		l, _ := lhs.AsInt()
		r, _ := rhs.AsInt()
		if neg {
			return IntVal(l - r), nil
		}
		return IntVal(l + r), nil
	}
	lf, lok := lhs.AsFloat()
	rf, rok := rhs.AsFloat()
	if lok && rok {
		if neg {
			return FloatVal(lf - rf), nil
		}
		return FloatVal(lf + rf), nil
	}
	return Value{}, diag.Errorf(sp, diag.KindEval, "cannot apply %q to %s and %s", op, lhs.Kind(), rhs.Kind())
}

func applyMul(lhs Value, op string, rhs Value, sp diag.Span) (Value, error) {
	div := op == "/"
	// length × number and number × length keep the length
	if lhs.Kind() == VLength || rhs.Kind() == VLength {
		if lhs.Kind() == VLength && rhs.Kind() == VLength {
			return Value{}, diag.Errorf(sp, diag.KindEval, "cannot apply %q to two lengths", op)
		}
		du, _ := lhs.AsLength()
		num, ok := rhs.AsFloat()
		if lhs.Kind() != VLength {
			du, _ = rhs.AsLength()
			num, ok = lhs.AsFloat()
			if div {
				return Value{}, diag.Errorf(sp, diag.KindEval, "cannot divide a number by a length")
			}
		}
		if !ok {
			return Value{}, diag.Errorf(sp, diag.KindEval, "cannot apply %q to %s and %s", op, lhs.Kind(), rhs.Kind())
		}
		if div {
			if num == 0 {
				return Value{}, diag.Errorf(sp, diag.KindEval, "division by zero")
			}
			return LengthVal(dimen.DU(float64(du) / num)), nil
		}
		return LengthVal(dimen.DU(float64(du) * num)), nil
	}
	if lhs.Kind() == VInt && rhs.Kind() == VInt && !div {
		l, _ := lhs.AsInt()
		r, _ := rhs.AsInt()
		return IntVal(l * r), nil
	}
	lf, lok := lhs.AsFloat()
	rf, rok := rhs.AsFloat()
	if lok && rok {
		if div {
			if rf == 0 {
				return Value{}, diag.Errorf(sp, diag.KindEval, "division by zero")
			}
			return FloatVal(lf / rf), nil
		}
		return FloatVal(lf * rf), nil
	}
	return Value{}, diag.Errorf(sp, diag.KindEval, "cannot apply %q to %s and %s", op, lhs.Kind(), rhs.Kind())
}
