package binder

import (
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/syntax"
	"github.com/hdlfront/svcore/types"
)

// bindElementSelect binds `arrayExpr[index]` per [array, index]: element
// select on a packed/unpacked array or a bit-select on an integral value
// both produce the element type / a single bit.
func (b *Binder) bindElementSelect(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() != 2 {
		return Bad(node.Span())
	}

	arr := b.Bind(node.Child(0), ctx.WithTarget(nil))
	if IsBad(arr) {
		return Bad(node.Span())
	}

	var elemType types.Type
	switch t := arr.Type().Canonical().(type) {
	case *types.ArrayType:
		elemType = t.Element
	case *types.IntegralType:
		elemType = b.Types.GetIntegral(1, false, t.FourState, false)
	default:
		b.Sink.Errorf(node.Span(), diag.CodeTypeMismatch, "type %s is not indexable", arr.Type().Repr())
		return Bad(node.Span())
	}

	idx := b.Bind(node.Child(1), ctx.WithTarget(nil))
	if IsBad(idx) {
		return Bad(node.Span())
	}
	if !types.IsNumeric(idx.Type()) {
		b.Sink.Errorf(node.Child(1).Span(), diag.CodeTypeMismatch, "index must be numeric, got %s", idx.Type().Repr())
		return Bad(node.Span())
	}

	width, _ := types.BitstreamWidth(elemType)
	return &ElementSelectExpr{
		Base:      Base{TypeV: elemType, SpanV: node.Span(), EffectiveWidthV: width, ConstantV: arr.IsConstant() && idx.IsConstant()},
		ArrayExpr: arr,
		Index:     idx,
	}
}

// bindRangeSelect binds `arrayExpr[msb:lsb]` per [array, msb, lsb]
// (part-select). The result type does not depend on msb and lsb: an
// integral operand yields an unsigned integral of the operand's full width,
// and an array operand yields a dynamic array of its element type.
func (b *Binder) bindRangeSelect(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() != 3 {
		return Bad(node.Span())
	}

	arr := b.Bind(node.Child(0), ctx.WithTarget(nil))
	if IsBad(arr) {
		return Bad(node.Span())
	}

	msb := b.Bind(node.Child(1), ctx.WithTarget(nil))
	lsb := b.Bind(node.Child(2), ctx.WithTarget(nil))
	if IsBad(msb) || IsBad(lsb) {
		return Bad(node.Span())
	}

	var resultType types.Type
	switch t := arr.Type().Canonical().(type) {
	case *types.IntegralType:
		resultType = b.Types.GetIntegral(t.Width, false, t.FourState, false)
	case *types.ArrayType:
		resultType = b.Types.GetArray(t.Element, []types.DimDescriptor{{Kind: types.DimDynamic}})
	default:
		b.Sink.Errorf(node.Span(), diag.CodeTypeMismatch, "type %s does not support part-select", arr.Type().Repr())
		return Bad(node.Span())
	}

	return &RangeSelectExpr{
		Base:      Base{TypeV: resultType, SpanV: node.Span(), ConstantV: arr.IsConstant() && msb.IsConstant() && lsb.IsConstant()},
		ArrayExpr: arr,
		MSB:       msb,
		LSB:       lsb,
	}
}

// bindMemberAccess binds `base.member` per one child (the base expression)
// plus the node's own Name().
func (b *Binder) bindMemberAccess(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() != 1 {
		return Bad(node.Span())
	}
	nn, ok := node.(syntax.NamedNode)
	if !ok {
		return Bad(node.Span())
	}
	member := nn.Name()

	base := b.Bind(node.Child(0), ctx.WithTarget(nil))
	if IsBad(base) {
		return Bad(node.Span())
	}

	classType, ok := base.Type().Canonical().(*types.ClassType)
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeTypeMismatch, "%s has no member %q", base.Type().Repr(), member)
		return Bad(node.Span())
	}

	// classType.MemberScope is interface{} precisely to avoid a
	// types<->symbols import cycle; the binder is where the two meet, so it
	// is the right place to assert it back to a concrete *symbols.Scope.
	memberScope, ok := classType.MemberScope.(*symbols.Scope)
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeTypeMismatch, "%s is not yet elaborated", base.Type().Repr())
		return Bad(node.Span())
	}

	sym, found := memberScope.LookupDirect(b.Sink, member, symbols.NamespaceMembers, -1)
	if !found {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "%s has no member %q", base.Type().Repr(), member)
		return Bad(node.Span())
	}

	ref := b.bindSymbolRef(sym, node.Span(), false)
	return &MemberAccessExpr{
		Base:     Base{TypeV: ref.Type(), SpanV: node.Span(), EffectiveWidthV: ref.EffectiveWidth(), ConstantV: false},
		BaseExpr: base,
		Member:   member,
		Symbol:   sym,
	}
}
