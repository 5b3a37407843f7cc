// Package binder turns syntax nodes into bound expressions: it
// resolves names against the scope graph, computes operand and result
// types including context-determined width propagation, checks
// assignability, and binds calls. Member access resolves a class member by
// name only; local/protected visibility is not checked.
//
// Types are computed directly rather than through unification, since
// SystemVerilog operators do not need a constraint solver the way a
// polymorphic generic-function call would.
package binder

import (
	"strconv"

	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/syntax"
	"github.com/hdlfront/svcore/types"
)

// MinTypMax selects which branch of a `(min:typ:max)` expression
// bindMinTypMax evaluates, driven by compilation.Options.MinTypMax.
type MinTypMax int

const (
	SelectMin MinTypMax = iota
	SelectTyp
	SelectMax
)

// Binder holds what every bind call needs beyond the node and its
// BindContext: the diagnostic sink, the shared type table, and the
// configured min:typ:max branch selection.
type Binder struct {
	Sink  *diag.Sink
	Types *types.Table

	// MinTypMax chooses which of a `(min:typ:max)` expression's three
	// branches is the constant-folded one; defaults to SelectTyp.
	MinTypMax MinTypMax
}

// New creates a Binder sharing sink and table with the rest of a
// Compilation, defaulting its min:typ:max selection to "typ".
func New(sink *diag.Sink, table *types.Table) *Binder {
	return &Binder{Sink: sink, Types: table, MinTypMax: SelectTyp}
}

// Bind dispatches on node.Kind() and returns a fully-typed expression, or
// the shared Bad sentinel on any error.
func (b *Binder) Bind(node syntax.Node, ctx *BindContext) Expr {
	if node == nil {
		return Bad(diag.Span{})
	}

	switch node.Kind() {
	case syntax.KindLiteralExpression:
		return b.bindLiteral(node, ctx)
	case syntax.KindIdentifierName:
		return b.bindIdentifier(node, ctx)
	case syntax.KindScopedName:
		return b.bindScopedName(node, ctx)
	case syntax.KindBinaryExpression:
		return b.bindBinary(node, ctx)
	case syntax.KindUnaryExpression:
		return b.bindUnary(node, ctx)
	case syntax.KindConditionalExpression:
		return b.bindConditional(node, ctx)
	case syntax.KindMinTypMaxExpression:
		return b.bindMinTypMax(node, ctx)
	case syntax.KindAssignmentExpression:
		return b.bindAssignment(node, ctx)
	case syntax.KindElementSelectExpression:
		return b.bindElementSelect(node, ctx)
	case syntax.KindRangeSelectExpression:
		return b.bindRangeSelect(node, ctx)
	case syntax.KindMemberAccessExpression:
		return b.bindMemberAccess(node, ctx)
	case syntax.KindInvocationExpression:
		return b.bindInvocation(node, ctx)
	case syntax.KindArrayOrRandomizeMethodExpression, syntax.KindWithClauseExpression:
		return b.bindArrayMethod(node, ctx)
	default:
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "unrecognized expression syntax")
		return Bad(node.Span())
	}
}

func (b *Binder) bindLiteral(node syntax.Node, ctx *BindContext) Expr {
	tok, ok := node.AsToken()
	if !ok {
		return Bad(node.Span())
	}

	switch tok.TokenKind() {
	case syntax.TokenStringLiteral:
		str := tok.ValueText()
		width := len(str) * 8
		if width == 0 {
			width = 8
		}
		return &StringLiteral{
			Base:  Base{TypeV: b.Types.GetPredefined(types.KindString, false), SpanV: node.Span(), EffectiveWidthV: width, ConstantV: true},
			Value: str,
		}

	case syntax.TokenRealLiteral:
		f := parseReal(tok.ValueText())
		return &RealLiteral{
			Base:  Base{TypeV: b.Types.GetPredefined(types.KindReal, false), SpanV: node.Span(), ConstantV: true},
			Value: f,
		}

	default: // integer literal
		parsed := parseIntLiteral(tok.ValueText())
		width := parsed.width
		if !parsed.sized && ctx.TargetType != nil {
			// Context-determined width propagation for unsized literals
			// An unsized literal takes the width of the
			// context it appears in, when that context is itself integral.
			if it, ok := ctx.TargetType.Canonical().(*types.IntegralType); ok {
				width = it.Width
				parsed.val = coerceWidth(parsed.val, width, parsed.signed)
			}
		}
		t := b.Types.GetIntegral(width, parsed.signed, true, false)
		return &IntLiteral{
			Base:  Base{TypeV: t, SpanV: node.Span(), EffectiveWidthV: minimalWidth(parsed.val), ConstantV: true},
			Text:  tok.ValueText(),
			Value: parsed.val,
		}
	}
}

func (b *Binder) bindIdentifier(node syntax.Node, ctx *BindContext) Expr {
	name, ok := identifierText(node)
	if !ok {
		return Bad(node.Span())
	}

	if iv, ok := ctx.lookupIterator(name); ok {
		return &NameRef{
			Base:   Base{TypeV: iv.ElementType, SpanV: node.Span(), ConstantV: false},
			Symbol: iv,
		}
	}

	sym, ok := ctx.Scope.Lookup(b.Sink, name, symbols.NamespaceMembers, ctx.BeforeIndex)
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "undeclared identifier %q", name)
		return Bad(node.Span())
	}

	return b.bindSymbolRef(sym, node.Span(), false)
}

// bindScopedName resolves `pkg::name` or `class::name`-style qualified
// references.
func (b *Binder) bindScopedName(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() < 2 {
		return Bad(node.Span())
	}

	qualifier, ok := identifierText(node.Child(0))
	if !ok {
		return Bad(node.Span())
	}
	member, ok := identifierText(node.Child(1))
	if !ok {
		return Bad(node.Span())
	}

	pkgSym, ok := ctx.Scope.Lookup(b.Sink, qualifier, symbols.NamespacePackage, -1)
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "unknown package or class %q", qualifier)
		return Bad(node.Span())
	}

	pkgScope, ok := pkgSym.(*symbols.Scope)
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "%q does not name a scope", qualifier)
		return Bad(node.Span())
	}

	sym, ok := pkgScope.LookupDirect(b.Sink, member, symbols.NamespaceMembers, -1)
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "%q has no member %q", qualifier, member)
		return Bad(node.Span())
	}

	return b.bindSymbolRef(sym, node.Span(), false)
}

func (b *Binder) bindSymbolRef(sym symbols.Symbol, span diag.Span, hierarchical bool) Expr {
	switch s := sym.(type) {
	case *symbols.Variable:
		return &NameRef{Base: Base{TypeV: s.Type, SpanV: span, ConstantV: false}, Symbol: s, Hierarchical: hierarchical}
	case *symbols.FormalArgument:
		return &NameRef{Base: Base{TypeV: s.Type, SpanV: span, ConstantV: false}, Symbol: s, Hierarchical: hierarchical}
	case *symbols.Parameter:
		constant := s.State == symbols.ParameterBound && !s.Bad
		return &NameRef{Base: Base{TypeV: s.Type, SpanV: span, ConstantV: constant}, Symbol: s, Hierarchical: hierarchical}
	case *symbols.EnumValue:
		return &NameRef{Base: Base{TypeV: s.Type, SpanV: span, ConstantV: true}, Symbol: s, Hierarchical: hierarchical}
	case *symbols.TypeSymbol:
		return &NameRef{Base: Base{TypeV: s.Type, SpanV: span, ConstantV: false}, Symbol: s, Hierarchical: hierarchical}
	default:
		return &NameRef{Base: Base{TypeV: types.Error, SpanV: span}, Symbol: sym, Hierarchical: hierarchical}
	}
}

func identifierText(node syntax.Node) (string, bool) {
	if nn, ok := node.(syntax.NamedNode); ok {
		return nn.Name(), true
	}
	if tok, ok := node.AsToken(); ok {
		return tok.ValueText(), true
	}
	return "", false
}

func parseReal(text string) float64 {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return f
}
