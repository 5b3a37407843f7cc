package eval

import (
	"github.com/hdlfront/svcore/binder"
	"github.com/hdlfront/svcore/constval"
	"github.com/hdlfront/svcore/diag"
)

func (c *Context) evalIntLiteral(lit *binder.IntLiteral) constval.Value {
	if lit.Value == nil {
		return constval.Bad
	}
	return constval.Value{Kind: constval.KindInteger, Int: lit.Value}
}

// asInt extracts the four-state integer from v, reporting CodeTypeMismatch
// if v is not integral.
func (c *Context) asInt(v constval.Value, span diag.Span) (*constval.Int, bool) {
	if v.Kind != constval.KindInteger || v.Int == nil {
		c.Sink.Errorf(span, diag.CodeTypeMismatch, "expected an integral constant")
		return nil, false
	}
	return v.Int, true
}

func triToValue(t constval.TriState) constval.Value {
	switch t {
	case constval.True:
		return constval.Value{Kind: constval.KindInteger, Int: constval.NewInt(1, false, true, 1)}
	case constval.False:
		return constval.Value{Kind: constval.KindInteger, Int: constval.NewInt(1, false, true, 0)}
	default:
		return constval.Value{Kind: constval.KindInteger, Int: constval.AllX(1, false)}
	}
}

func (c *Context) evalBinary(x *binder.BinaryExpr) constval.Value {
	lv := c.Eval(x.Left)
	if lv.IsBad() {
		return constval.Bad
	}

	// Logical && and || are short-circuiting self-determined 1-bit results
	// over each operand's truthiness, not raw bitwise combination.
	if x.Op == binder.OpLogicalAnd || x.Op == binder.OpLogicalOr {
		li, ok := c.asInt(lv, x.Left.Span())
		if !ok {
			return constval.Bad
		}
		lt := li.ToBool()
		if x.Op == binder.OpLogicalAnd && lt == constval.False {
			return triToValue(constval.False)
		}
		if x.Op == binder.OpLogicalOr && lt == constval.True {
			return triToValue(constval.True)
		}
		rv := c.Eval(x.Right)
		if rv.IsBad() {
			return constval.Bad
		}
		ri, ok := c.asInt(rv, x.Right.Span())
		if !ok {
			return constval.Bad
		}
		rt := ri.ToBool()
		if x.Op == binder.OpLogicalAnd {
			return triToValue(andTri(lt, rt))
		}
		return triToValue(orTri(lt, rt))
	}

	rv := c.Eval(x.Right)
	if rv.IsBad() {
		return constval.Bad
	}

	li, ok := c.asInt(lv, x.Left.Span())
	if !ok {
		return constval.Bad
	}
	ri, ok := c.asInt(rv, x.Right.Span())
	if !ok {
		return constval.Bad
	}

	switch x.Op {
	case binder.OpAdd:
		return intVal(constval.Add(li, ri))
	case binder.OpSub:
		return intVal(constval.Sub(li, ri))
	case binder.OpMul:
		return intVal(constval.Mul(li, ri))
	case binder.OpDiv:
		d := constval.Div(li, ri)
		if d.DivByZero {
			c.Sink.Errorf(x.Span(), diag.CodeDivideByZero, "division by zero in constant expression")
		}
		return intVal(d.Value)
	case binder.OpMod:
		m := constval.Mod(li, ri)
		if m.DivByZero {
			c.Sink.Errorf(x.Span(), diag.CodeDivideByZero, "modulo by zero in constant expression")
		}
		return intVal(m.Value)
	case binder.OpBitAnd:
		return intVal(constval.And(li, ri))
	case binder.OpBitOr:
		return intVal(constval.Or(li, ri))
	case binder.OpBitXor:
		return intVal(constval.Xor(li, ri))
	case binder.OpShl:
		return intVal(constval.Shl(li, shiftAmount(ri)))
	case binder.OpShr:
		return intVal(shrLogicalOrArith(li, shiftAmount(ri)))
	case binder.OpAShr:
		return intVal(constval.Shr(li, shiftAmount(ri)))
	case binder.OpEq:
		return triToValue(constval.Eq(li, ri))
	case binder.OpNeq:
		return triToValue(constval.Neq(li, ri))
	case binder.OpCaseEq:
		return boolVal(constval.CaseEq(li, ri))
	case binder.OpCaseNeq:
		return boolVal(!constval.CaseEq(li, ri))
	case binder.OpLt:
		return triToValue(constval.Lt(li, ri))
	case binder.OpGt:
		return triToValue(constval.Gt(li, ri))
	case binder.OpLte:
		return triToValue(constval.Lte(li, ri))
	case binder.OpGte:
		return triToValue(constval.Gte(li, ri))
	default:
		c.Sink.Errorf(x.Span(), diag.CodeNotConstant, "operator is not constant-evaluable")
		return constval.Bad
	}
}

// shrLogicalOrArith keeps >> logical regardless of signedness: >> and >>>
// are distinguished by keyword, not by the left operand's own signedness
// the way Shr's Signed-driven dispatch does for >>>; Shr already branches
// on Signed internally, so a logical right shift
// is modeled here as shifting the unsigned view of li.
func shrLogicalOrArith(li *constval.Int, shift int64) *constval.Int {
	unsigned := *li
	unsigned.Signed = false
	return constval.Shr(&unsigned, shift)
}

func shiftAmount(ri *constval.Int) int64 {
	if ri.HasUnknown() {
		return -1
	}
	return ri.Value.Int64()
}

func intVal(i *constval.Int) constval.Value {
	return constval.Value{Kind: constval.KindInteger, Int: i}
}

func boolVal(b bool) constval.Value {
	if b {
		return constval.Value{Kind: constval.KindInteger, Int: constval.NewInt(1, false, true, 1)}
	}
	return constval.Value{Kind: constval.KindInteger, Int: constval.NewInt(1, false, true, 0)}
}

func andTri(a, b constval.TriState) constval.TriState {
	if a == constval.False || b == constval.False {
		return constval.False
	}
	if a == constval.Unknown || b == constval.Unknown {
		return constval.Unknown
	}
	return constval.True
}

func orTri(a, b constval.TriState) constval.TriState {
	if a == constval.True || b == constval.True {
		return constval.True
	}
	if a == constval.Unknown || b == constval.Unknown {
		return constval.Unknown
	}
	return constval.False
}

func (c *Context) evalUnary(x *binder.UnaryExpr) constval.Value {
	v := c.Eval(x.Operand)
	if v.IsBad() {
		return constval.Bad
	}
	i, ok := c.asInt(v, x.Operand.Span())
	if !ok {
		return constval.Bad
	}

	switch x.Op {
	case binder.OpNeg:
		return intVal(constval.Neg(i))
	case binder.OpBitNot:
		return intVal(constval.Not(i))
	case binder.OpLogicalNot:
		switch i.ToBool() {
		case constval.True:
			return triToValue(constval.False)
		case constval.False:
			return triToValue(constval.True)
		default:
			return triToValue(constval.Unknown)
		}
	case binder.OpReduceAnd:
		return triToValue(reduce(i, constval.And))
	case binder.OpReduceOr:
		return triToValue(reduce(i, constval.Or))
	case binder.OpReduceXor:
		return triToValue(reduce(i, constval.Xor))
	default:
		c.Sink.Errorf(x.Span(), diag.CodeNotConstant, "operator is not constant-evaluable")
		return constval.Bad
	}
}

// reduce folds every bit of i through op, yielding a 1-bit tri-state result,
// for the unary reduction operators &, |, ^.
func reduce(i *constval.Int, op func(a, b *constval.Int) *constval.Int) constval.TriState {
	acc := constval.NewInt(1, false, true, int64(i.Value.Bit(0)))
	if i.Unknown.Bit(0) != 0 {
		acc = constval.AllX(1, false)
	}
	for bit := 1; bit < i.Width; bit++ {
		var next *constval.Int
		if i.Unknown.Bit(bit) != 0 {
			next = constval.AllX(1, false)
		} else {
			next = constval.NewInt(1, false, true, int64(i.Value.Bit(bit)))
		}
		acc = op(acc, next)
	}
	return acc.ToBool()
}

func (c *Context) evalConditional(x *binder.ConditionalExpr) constval.Value {
	cv := c.Eval(x.Cond)
	if cv.IsBad() {
		return constval.Bad
	}
	ci, ok := c.asInt(cv, x.Cond.Span())
	if !ok {
		return constval.Bad
	}

	switch ci.ToBool() {
	case constval.True:
		return c.Eval(x.Then)
	case constval.False:
		return c.Eval(x.Else)
	default:
		// An X/Z condition merges both branches bitwise per the language's
		// "unknown condition" rule; this core reports it rather than
		// silently picking a side.
		c.Sink.Errorf(x.Span(), diag.CodeUnknownCondition,
			"conditional expression's condition is unknown in a constant context")
		return constval.Bad
	}
}

func (c *Context) evalElementSelect(x *binder.ElementSelectExpr) constval.Value {
	base := c.Eval(x.ArrayExpr)
	if base.IsBad() {
		return constval.Bad
	}
	idx := c.Eval(x.Index)
	if idx.IsBad() {
		return constval.Bad
	}

	switch base.Kind {
	case constval.KindInteger:
		ii, ok := c.asInt(idx, x.Index.Span())
		if !ok {
			return constval.Bad
		}
		bit := shiftAmount(ii)
		if bit < 0 || int(bit) >= base.Int.Width {
			return constval.Value{Kind: constval.KindInteger, Int: constval.AllX(1, false)}
		}
		v := base.Int.Value.Bit(int(bit))
		if base.Int.Unknown.Bit(int(bit)) != 0 {
			return constval.Value{Kind: constval.KindInteger, Int: constval.AllX(1, false)}
		}
		return boolVal(v != 0)

	case constval.KindAggregate, constval.KindQueue:
		ii, ok := c.asInt(idx, x.Index.Span())
		if !ok {
			return constval.Bad
		}
		i := shiftAmount(ii)
		if i < 0 || int(i) >= len(base.Elements) {
			c.Sink.Errorf(x.Span(), diag.CodeNotConstant, "array index out of bounds in constant expression")
			return constval.Bad
		}
		return base.Elements[i]

	default:
		c.Sink.Errorf(x.Span(), diag.CodeTypeMismatch, "value is not indexable")
		return constval.Bad
	}
}

func (c *Context) evalAssignment(x *binder.AssignmentExpr) constval.Value {
	rv := c.Eval(x.RHS)
	if rv.IsBad() {
		return constval.Bad
	}
	if ref, ok := x.LHS.(*binder.NameRef); ok {
		c.top().Locals[ref.Symbol.Name()] = rv
		return rv
	}
	c.Sink.Errorf(x.Span(), diag.CodeNotConstant, "unsupported constant l-value")
	return constval.Bad
}
