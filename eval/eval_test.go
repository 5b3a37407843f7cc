package eval

import (
	"testing"

	"github.com/hdlfront/svcore/binder"
	"github.com/hdlfront/svcore/constval"
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/types"
)

func intLit(width int, val int64) binder.Expr {
	return &binder.IntLiteral{
		Base:  binder.Base{TypeV: &types.IntegralType{Width: width, FourState: true}, ConstantV: true},
		Value: constval.NewInt(width, false, true, val),
	}
}

func binExpr(op binder.BinaryOperator, l, r binder.Expr) binder.Expr {
	return &binder.BinaryExpr{Base: binder.Base{ConstantV: true}, Op: op, Left: l, Right: r}
}

func newEvalContext() (*Context, *diag.Sink) {
	sink := diag.NewSink()
	return NewContext(sink, types.NewTable()), sink
}

func TestEvalBinaryAddKnownValues(t *testing.T) {
	c, sink := newEvalContext()
	v := c.Eval(binExpr(binder.OpAdd, intLit(8, 3), intLit(8, 4)))
	if v.IsBad() {
		t.Fatalf("unexpected bad result: %v", sink.Diagnostics())
	}
	if v.Int.Value.Int64() != 7 {
		t.Errorf("3 + 4 = %d, want 7", v.Int.Value.Int64())
	}
}

func TestEvalDivByZeroReportsDiagnostic(t *testing.T) {
	c, sink := newEvalContext()
	v := c.Eval(binExpr(binder.OpDiv, intLit(8, 10), intLit(8, 0)))
	if !v.IsBad() && v.Int != nil && !v.Int.HasUnknown() {
		t.Error("expected a divide-by-zero result to carry unknown bits or be bad")
	}
	found := false
	for _, d := range sink.Diagnostics() {
		if d.Code == diag.CodeDivideByZero {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeDivideByZero, got %v", sink.Diagnostics())
	}
}

func TestEvalConditionalSelectsTrueBranch(t *testing.T) {
	c, sink := newEvalContext()
	cond := intLit(1, 1)
	cexpr := &binder.ConditionalExpr{
		Base: binder.Base{ConstantV: true},
		Cond: cond,
		Then: intLit(8, 42),
		Else: intLit(8, 99),
	}
	v := c.Eval(cexpr)
	if v.IsBad() {
		t.Fatalf("unexpected bad: %v", sink.Diagnostics())
	}
	if v.Int.Value.Int64() != 42 {
		t.Errorf("got %d, want 42 (true branch)", v.Int.Value.Int64())
	}
}

func TestEvalConditionalUnknownConditionReportsError(t *testing.T) {
	c, sink := newEvalContext()
	unknownCond := &binder.IntLiteral{
		Base:  binder.Base{TypeV: &types.IntegralType{Width: 1, FourState: true}, ConstantV: true},
		Value: constval.AllX(1, false),
	}
	cexpr := &binder.ConditionalExpr{
		Base: binder.Base{ConstantV: true},
		Cond: unknownCond,
		Then: intLit(8, 1),
		Else: intLit(8, 2),
	}
	v := c.Eval(cexpr)
	if !v.IsBad() {
		t.Error("expected an unknown condition to produce a bad value")
	}
	found := false
	for _, d := range sink.Diagnostics() {
		if d.Code == diag.CodeUnknownCondition {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeUnknownCondition, got %v", sink.Diagnostics())
	}
}

// The right operand in the short-circuit tests below is a NameRef to a
// plain Variable (neither a Parameter nor an EnumValue), which evalNameRef
// always reports as CodeNotConstant — so any diagnostic proves the operand
// was actually evaluated, letting these tests detect a wrongly-evaluated
// right-hand side.
func TestEvalLogicalAndShortCircuitsOnFalse(t *testing.T) {
	c, sink := newEvalContext()
	falseVal := intLit(1, 0)
	rightVar := &symbols.Variable{Base: symbols.Base{NameV: "never"}, Type: &types.IntegralType{Width: 1}}
	right := &binder.NameRef{Base: binder.Base{TypeV: rightVar.Type}, Symbol: rightVar}

	v := c.Eval(binExpr(binder.OpLogicalAnd, falseVal, right))
	if v.IsBad() {
		t.Fatalf("unexpected bad result: %v", sink.Diagnostics())
	}
	if sink.AnyErrors() {
		t.Errorf("right operand of a short-circuited && should not be evaluated, got diagnostics: %v", sink.Diagnostics())
	}
}

func TestEvalLogicalOrShortCircuitsOnTrue(t *testing.T) {
	c, sink := newEvalContext()
	trueVal := intLit(1, 1)
	rightVar := &symbols.Variable{Base: symbols.Base{NameV: "never"}, Type: &types.IntegralType{Width: 1}}
	right := &binder.NameRef{Base: binder.Base{TypeV: rightVar.Type}, Symbol: rightVar}

	v := c.Eval(binExpr(binder.OpLogicalOr, trueVal, right))
	if v.IsBad() {
		t.Fatalf("unexpected bad result: %v", sink.Diagnostics())
	}
	if sink.AnyErrors() {
		t.Errorf("right operand of a short-circuited || should not be evaluated, got diagnostics: %v", sink.Diagnostics())
	}
}

func TestEvalUnaryReduceAndAllOnes(t *testing.T) {
	c, sink := newEvalContext()
	expr := &binder.UnaryExpr{Base: binder.Base{ConstantV: true}, Op: binder.OpReduceAnd, Operand: intLit(4, 0xF)}
	v := c.Eval(expr)
	if v.IsBad() {
		t.Fatalf("unexpected bad: %v", sink.Diagnostics())
	}
	if v.Int.Value.Int64() != 1 {
		t.Errorf("reduce-and of 0xF should be 1, got %d", v.Int.Value.Int64())
	}
}

func TestEvalUnaryReduceAndWithZeroBit(t *testing.T) {
	c, sink := newEvalContext()
	expr := &binder.UnaryExpr{Base: binder.Base{ConstantV: true}, Op: binder.OpReduceAnd, Operand: intLit(4, 0xE)}
	v := c.Eval(expr)
	if v.IsBad() {
		t.Fatalf("unexpected bad: %v", sink.Diagnostics())
	}
	if v.Int.Value.Int64() != 0 {
		t.Errorf("reduce-and of 0xE should be 0, got %d", v.Int.Value.Int64())
	}
}

func TestEvalElementSelectOutOfRangeYieldsUnknown(t *testing.T) {
	c, sink := newEvalContext()
	arr := intLit(4, 0x5)
	idx := intLit(8, 10) // out of the 4-bit range
	expr := &binder.ElementSelectExpr{Base: binder.Base{ConstantV: true}, ArrayExpr: arr, Index: idx}

	v := c.Eval(expr)
	if v.IsBad() {
		t.Fatalf("unexpected bad: %v", sink.Diagnostics())
	}
	if !v.Int.HasUnknown() {
		t.Error("expected an out-of-range bit-select to yield an unknown bit, not an error")
	}
}

func TestEvalAssignmentUpdatesFrameLocal(t *testing.T) {
	c, sink := newEvalContext()
	sym := &symbols.Variable{Base: symbols.Base{NameV: "x"}, Type: &types.IntegralType{Width: 8}}
	lhs := &binder.NameRef{Base: binder.Base{TypeV: sym.Type}, Symbol: sym}
	expr := &binder.AssignmentExpr{Base: binder.Base{}, LHS: lhs, RHS: intLit(8, 9)}

	v := c.Eval(expr)
	if v.IsBad() {
		t.Fatalf("unexpected bad: %v", sink.Diagnostics())
	}
	stored, ok := c.top().Locals["x"]
	if !ok {
		t.Fatal("expected assignment to register a frame-local for x")
	}
	if stored.Int.Value.Int64() != 9 {
		t.Errorf("stored local = %d, want 9", stored.Int.Value.Int64())
	}
}

func TestPushFrameEnforcesRecursionLimit(t *testing.T) {
	sink := diag.NewSink()
	c := NewContext(sink, types.NewTable())

	// One frame already exists from NewContext; push up to the limit.
	for i := 1; i < maxCallDepth; i++ {
		if !c.pushFrame(diag.Span{}) {
			t.Fatalf("unexpected recursion-limit failure at depth %d", i)
		}
	}
	if c.pushFrame(diag.Span{}) {
		t.Error("expected pushing beyond maxCallDepth to fail")
	}
	found := false
	for _, d := range sink.Diagnostics() {
		if d.Code == diag.CodeRecursionLimit {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeRecursionLimit, got %v", sink.Diagnostics())
	}
}

func TestVerifyConstantRejectsNonConstantExpr(t *testing.T) {
	sink := diag.NewSink()
	e := &binder.NameRef{Base: binder.Base{TypeV: types.Error, ConstantV: false}}
	if VerifyConstant(sink, e) {
		t.Error("expected VerifyConstant to reject a non-constant expression")
	}
	if !sink.AnyErrors() {
		t.Error("expected a diagnostic from VerifyConstant")
	}
}

func TestVerifyConstantAcceptsConstantExpr(t *testing.T) {
	sink := diag.NewSink()
	if !VerifyConstant(sink, intLit(8, 1)) {
		t.Error("expected VerifyConstant to accept a constant literal")
	}
	if sink.AnyErrors() {
		t.Error("unexpected diagnostics for a constant literal")
	}
}

func TestEvalNameRefBoundParameter(t *testing.T) {
	c, sink := newEvalContext()
	p := &symbols.Parameter{
		Base:  symbols.Base{NameV: "WIDTH"},
		State: symbols.ParameterBound,
		Value: constval.Value{Kind: constval.KindInteger, Int: constval.NewInt(32, true, false, 8)},
	}
	ref := &binder.NameRef{Base: binder.Base{TypeV: &types.IntegralType{Width: 32, Signed: true}}, Symbol: p}

	v := c.Eval(ref)
	if v.IsBad() {
		t.Fatalf("unexpected bad: %v", sink.Diagnostics())
	}
	if v.Int.Value.Int64() != 8 {
		t.Errorf("got %d, want 8", v.Int.Value.Int64())
	}
}

func TestEvalNameRefUnboundParameterIsBad(t *testing.T) {
	c, sink := newEvalContext()
	p := &symbols.Parameter{Base: symbols.Base{NameV: "UNSET"}, State: symbols.ParameterDeclared}
	ref := &binder.NameRef{Base: binder.Base{TypeV: &types.IntegralType{Width: 32}}, Symbol: p}

	v := c.Eval(ref)
	if !v.IsBad() {
		t.Error("expected a reference to an unbound parameter to be bad")
	}
	if !sink.AnyErrors() {
		t.Error("expected a diagnostic for the unbound parameter reference")
	}
}
