package binder

import (
	"github.com/hdlfront/svcore/constval"
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/syntax"
	"github.com/hdlfront/svcore/types"
)

// minimalWidth returns the narrowest bit width that can represent v's known
// pattern, used to seed EffectiveWidth for further context-width
// propagation up the expression tree.
func minimalWidth(v *constval.Int) int {
	if v == nil {
		return 0
	}
	bits := v.Value.BitLen()
	if u := v.Unknown.BitLen(); u > bits {
		bits = u
	}
	if bits == 0 {
		bits = 1
	}
	return bits
}

// coerceWidth re-widens/truncates a literal's value once a target width is
// known, without touching its unknown/Z bits beyond the new width.
func coerceWidth(v *constval.Int, width int, signed bool) *constval.Int {
	if v == nil {
		return constval.NewInt(width, signed, true, 0)
	}
	return constval.Coerce(v, width, signed)
}

// binaryOpTable maps an operator token to its BinaryOperator tag and
// whether it is self-determined (result width from operands, context
// propagates in) vs context-determined-only-at-the-top (relational/logical
// ops always produce 1 bit).
var binaryOpTable = map[syntax.TokenKind]struct {
	op         BinaryOperator
	relational bool
}{
	syntax.TokenPlus:    {OpAdd, false},
	syntax.TokenMinus:   {OpSub, false},
	syntax.TokenStar:    {OpMul, false},
	syntax.TokenSlash:   {OpDiv, false},
	syntax.TokenPercent: {OpMod, false},
	syntax.TokenAmp:     {OpBitAnd, false},
	syntax.TokenPipe:    {OpBitOr, false},
	syntax.TokenCaret:   {OpBitXor, false},
	syntax.TokenShl:     {OpShl, false},
	syntax.TokenShr:     {OpShr, false},
	syntax.TokenAShr:    {OpAShr, false},
	syntax.TokenEq:      {OpEq, true},
	syntax.TokenNeq:     {OpNeq, true},
	syntax.TokenCaseEq:  {OpCaseEq, true},
	syntax.TokenCaseNeq: {OpCaseNeq, true},
	syntax.TokenLt:      {OpLt, true},
	syntax.TokenGt:      {OpGt, true},
	syntax.TokenLte:     {OpLte, true},
	syntax.TokenGte:     {OpGte, true},
	syntax.TokenAndAnd:  {OpLogicalAnd, true},
	syntax.TokenOrOr:    {OpLogicalOr, true},
}

// bindBinary binds `lhs op rhs` per the positional convention
// [lhs, operatorToken, rhs].
func (b *Binder) bindBinary(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() != 3 {
		return Bad(node.Span())
	}

	opTok, ok := node.Child(1).AsToken()
	if !ok {
		return Bad(node.Span())
	}
	entry, ok := binaryOpTable[opTok.TokenKind()]
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "unrecognized binary operator")
		return Bad(node.Span())
	}

	// Bind both operands self-determined first to learn their natural
	// widths, then compute the shared operation width for the result type.
	// The operands are not re-bound at that width: an unsized integer
	// literal operand keeps the value and type it was first bound with.
	lhs := b.Bind(node.Child(0), ctx.WithTarget(nil))
	rhs := b.Bind(node.Child(2), ctx.WithTarget(nil))

	if IsBad(lhs) || IsBad(rhs) {
		return Bad(node.Span())
	}

	if entry.relational {
		resultType := b.Types.GetIntegral(1, false, true, false)
		return &BinaryExpr{
			Base:  Base{TypeV: resultType, SpanV: node.Span(), EffectiveWidthV: 1, ConstantV: lhs.IsConstant() && rhs.IsConstant()},
			Op:    entry.op,
			Left:  lhs,
			Right: rhs,
		}
	}

	lInt, lOK := lhs.Type().Canonical().(*types.IntegralType)
	rInt, rOK := rhs.Type().Canonical().(*types.IntegralType)
	if !lOK || !rOK {
		b.Sink.Errorf(node.Span(), diag.CodeTypeMismatch, "operator requires integral operands")
		return Bad(node.Span())
	}

	width := lhs.EffectiveWidth()
	if rhs.EffectiveWidth() > width {
		width = rhs.EffectiveWidth()
	}
	if ctx.TargetType != nil {
		if t, ok := ctx.TargetType.Canonical().(*types.IntegralType); ok && t.Width > width {
			width = t.Width
		}
	}

	signed := lInt.Signed && rInt.Signed
	fourState := lInt.FourState || rInt.FourState
	resultType := b.Types.GetIntegral(width, signed, fourState, false)

	return &BinaryExpr{
		Base:  Base{TypeV: resultType, SpanV: node.Span(), EffectiveWidthV: width, ConstantV: lhs.IsConstant() && rhs.IsConstant()},
		Op:    entry.op,
		Left:  lhs,
		Right: rhs,
	}
}

var unaryOpTable = map[syntax.TokenKind]struct {
	op     UnaryOperator
	reduce bool
}{
	syntax.TokenMinus:      {OpNeg, false},
	syntax.TokenTilde:      {OpBitNot, false},
	syntax.TokenBang:       {OpLogicalNot, true},
	syntax.TokenAmpReduce:  {OpReduceAnd, true},
	syntax.TokenPipeReduce: {OpReduceOr, true},
	syntax.TokenCaretReduce: {OpReduceXor, true},
}

// bindUnary binds `op operand` per the positional convention
// [operatorToken, operand].
func (b *Binder) bindUnary(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() != 2 {
		return Bad(node.Span())
	}

	opTok, ok := node.Child(0).AsToken()
	if !ok {
		return Bad(node.Span())
	}
	entry, ok := unaryOpTable[opTok.TokenKind()]
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "unrecognized unary operator")
		return Bad(node.Span())
	}

	operand := b.Bind(node.Child(1), ctx.WithTarget(nil))
	if IsBad(operand) {
		return Bad(node.Span())
	}

	var resultType types.Type
	width := operand.EffectiveWidth()
	if entry.reduce {
		width = 1
		resultType = b.Types.GetIntegral(1, false, true, false)
	} else if it, ok := operand.Type().Canonical().(*types.IntegralType); ok {
		resultType = b.Types.GetIntegral(width, it.Signed, it.FourState, false)
	} else {
		resultType = operand.Type()
	}

	return &UnaryExpr{
		Base:    Base{TypeV: resultType, SpanV: node.Span(), EffectiveWidthV: width, ConstantV: operand.IsConstant()},
		Op:      entry.op,
		Operand: operand,
	}
}

// bindConditional binds `cond ? thenE : elseE` per [cond, then, else]:
// the result type is the self-determined merge of the two branches.
func (b *Binder) bindConditional(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() != 3 {
		return Bad(node.Span())
	}

	cond := b.Bind(node.Child(0), ctx.WithTarget(nil))
	then := b.Bind(node.Child(1), ctx)
	els := b.Bind(node.Child(2), ctx)

	if IsBad(cond) || IsBad(then) || IsBad(els) {
		return Bad(node.Span())
	}

	resultType := mergeBranchTypes(b.Types, then.Type(), els.Type())
	width := then.EffectiveWidth()
	if els.EffectiveWidth() > width {
		width = els.EffectiveWidth()
	}

	return &ConditionalExpr{
		Base: Base{TypeV: resultType, SpanV: node.Span(), EffectiveWidthV: width,
			ConstantV: cond.IsConstant() && then.IsConstant() && els.IsConstant()},
		Cond: cond,
		Then: then,
		Else: els,
	}
}

// mergeBranchTypes picks the conditional operator's result type: matching
// types pass through unchanged; two integral types merge to the wider,
// four-state-if-either, signed-if-both shape.
func mergeBranchTypes(table *types.Table, a, b types.Type) types.Type {
	if types.Matching(a, b) {
		return a
	}
	aInt, aOK := a.Canonical().(*types.IntegralType)
	bInt, bOK := b.Canonical().(*types.IntegralType)
	if aOK && bOK {
		width := aInt.Width
		if bInt.Width > width {
			width = bInt.Width
		}
		return table.GetIntegral(width, aInt.Signed && bInt.Signed, aInt.FourState || bInt.FourState, false)
	}
	if types.AssignmentCompatible(a, b) {
		return a
	}
	return types.Error
}

// bindMinTypMax binds `(min:typ:max)` per [min, typ, max].
// The non-selected branches are bound with UnevaluatedBranch set so their
// runtime-only diagnostics (divide by zero, etc.) are suppressed.
func (b *Binder) bindMinTypMax(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() != 3 {
		return Bad(node.Span())
	}

	unevaluated := ctx.WithFlags(UnevaluatedBranch)
	selected := int(b.MinTypMax)

	branches := [3]Expr{}
	for i := 0; i < 3; i++ {
		if i == selected {
			branches[i] = b.Bind(node.Child(i), ctx)
		} else {
			branches[i] = b.Bind(node.Child(i), unevaluated)
		}
	}

	sel := branches[selected]
	return &MinTypMaxExpr{
		Base:          Base{TypeV: sel.Type(), SpanV: node.Span(), EffectiveWidthV: sel.EffectiveWidth(), ConstantV: sel.IsConstant()},
		Min:           branches[0],
		Typ:           branches[1],
		Max:           branches[2],
		SelectedIndex: selected,
	}
}

// bindAssignment binds `lhs = rhs` per [lhs, rhs].
func (b *Binder) bindAssignment(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() != 2 {
		return Bad(node.Span())
	}

	lhs := b.Bind(node.Child(0), ctx.WithFlags(AssignmentTarget))
	if IsBad(lhs) {
		return Bad(node.Span())
	}

	if !b.checkLValue(lhs, node.Child(0).Span()) {
		return Bad(node.Span())
	}

	rhs := b.Bind(node.Child(1), ctx.WithTarget(lhs.Type()))
	if IsBad(rhs) {
		return Bad(node.Span())
	}

	if !types.AssignmentCompatible(lhs.Type(), rhs.Type()) {
		b.Sink.Errorf(node.Span(), diag.CodeTypeMismatch,
			"cannot assign %s to %s", rhs.Type().Repr(), lhs.Type().Repr())
		return Bad(node.Span())
	}

	return &AssignmentExpr{
		Base: Base{TypeV: lhs.Type(), SpanV: node.Span(), EffectiveWidthV: lhs.EffectiveWidth()},
		LHS:  lhs,
		RHS:  rhs,
	}
}

// checkLValue rejects assignment targets that are not variables/nets,
// formal out/inout/ref arguments, or a select/member-access rooted in one
// of those.
func (b *Binder) checkLValue(e Expr, span diag.Span) bool {
	switch ref := e.(type) {
	case *NameRef:
		switch sym := ref.Symbol.(type) {
		case *symbols.Variable:
			if sym.Mutability == symbols.MutabilityConst || sym.Mutability == symbols.MutabilityParameter {
				b.Sink.Errorf(span, diag.CodeTypeMismatch, "cannot assign to const variable %q", sym.Name())
				return false
			}
			return true
		case *symbols.FormalArgument:
			if sym.Direction == symbols.DirectionIn {
				b.Sink.Errorf(span, diag.CodeTypeMismatch, "cannot assign to input argument %q", sym.Name())
				return false
			}
			return true
		default:
			b.Sink.Errorf(span, diag.CodeTypeMismatch, "%q is not an assignable l-value", sym.Name())
			return false
		}
	case *ElementSelectExpr:
		return b.checkLValue(ref.ArrayExpr, span)
	case *RangeSelectExpr:
		return b.checkLValue(ref.ArrayExpr, span)
	case *MemberAccessExpr:
		return b.checkLValue(ref.BaseExpr, span)
	default:
		b.Sink.Errorf(span, diag.CodeTypeMismatch, "expression is not an assignable l-value")
		return false
	}
}
