// Package binder implements the expression binder: syntax to typed
// expression tree, with operand conversions and context-determined width
// propagation.
//
// Each expression kind is a concrete struct embedding a shared Base for its
// common header fields (type, span, effective width, constness), with Expr
// as the narrow interface every one of them satisfies — a typed node with a
// shared header plus a kind-specific struct, rather than one large tagged
// union. Width computation is direct rather than unification-based, since
// SystemVerilog's operators are not polymorphic.
package binder

import (
	"github.com/hdlfront/svcore/constval"
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/types"
)

// Expr is the parent interface for every bound expression node. Expressions are pure values; side effects live in
// statements, which the eval package executes from their syntax nodes.
type Expr interface {
	Type() types.Type
	Span() diag.Span
	// EffectiveWidth is the narrowest width the value needs, used for
	// context-width propagation.
	EffectiveWidth() int
	// IsConstant reports whether this subtree is eligible for constant
	// folding: hierarchical references disable it.
IsConstant() bool
}

// Base supplies the fields common to every bound expression.
type Base struct {
	TypeV           types.Type
	SpanV           diag.Span
	EffectiveWidthV int
	ConstantV       bool
}

func (b *Base) Type() types.Type      { return b.TypeV }
func (b *Base) Span() diag.Span       { return b.SpanV }
func (b *Base) EffectiveWidth() int   { return b.EffectiveWidthV }
func (b *Base) IsConstant() bool      { return b.ConstantV }

// Bad is the shared bad-expression sentinel: it carries
// types.Error and IsConstant()==false so cascaded checks uniformly bail
// out without re-diagnosing.
func Bad(span diag.Span) Expr {
	return &Base{TypeV: types.Error, SpanV: span, ConstantV: false}
}

func IsBad(e Expr) bool {
	return e.Type().Kind() == types.KindError
}

// IntLiteral is an integer literal expression. Value is computed once at
// bind time (after any context-width propagation has resized it) so the
// evaluator never has to re-parse literal text.
type IntLiteral struct {
	Base
	Text  string // raw source text, for diagnostics and suffix classification
	Value *constval.Int
}

// RealLiteral is a floating literal expression.
type RealLiteral struct {
	Base
	Value float64
}

// StringLiteral is a string literal expression.
type StringLiteral struct {
	Base
	Value string
}

// NameRef is a resolved identifier reference.
type NameRef struct {
	Base
	Symbol        symbols.Symbol
	Hierarchical  bool
}

// BinaryOperator is the closed set of binary operators the binder
// recognizes (arithmetic, relational, bitwise, logical).
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpAShr
	OpEq
	OpNeq
	OpCaseEq
	OpCaseNeq
	OpLt
	OpGt
	OpLte
	OpGte
	OpLogicalAnd
	OpLogicalOr
)

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Base
	Op          BinaryOperator
	Left, Right Expr
}

// UnaryOperator is the closed set of unary operators.
type UnaryOperator int

const (
	OpNeg UnaryOperator = iota
	OpBitNot
	OpLogicalNot
	OpReduceAnd
	OpReduceOr
	OpReduceXor
)

// UnaryExpr is a unary operator application.
type UnaryExpr struct {
	Base
	Op      UnaryOperator
	Operand Expr
}

// ConditionalExpr is a `cond ? a : b` expression.
type ConditionalExpr struct {
	Base
	Cond, Then, Else Expr
}

// MinTypMaxExpr is a `(min:typ:max)` expression: all three are
// bound; exactly one is "selected" per the compilation's minTypMax option,
// and the other two are marked unevaluated to suppress cascaded folding
// errors from branches that were never meant to run.
type MinTypMaxExpr struct {
	Base
	Min, Typ, Max Expr
	SelectedIndex int // 0=Min, 1=Typ, 2=Max
}

func (m *MinTypMaxExpr) Selected() Expr {
	switch m.SelectedIndex {
	case 0:
		return m.Min
	case 2:
		return m.Max
	default:
		return m.Typ
	}
}

// Argument is one bound call argument, re-bound against its formal's type,
// direction, and constness.
type Argument struct {
	Formal *symbols.FormalArgument
	Value  Expr
}

// CallExpr is a subroutine or system-subroutine invocation.
type CallExpr struct {
	Base
	Callee symbols.Symbol // nil for a system subroutine/method call
	System *SystemSubroutine
	Args   []Argument

	// Receiver is set for method-style calls (`arr.size()`); nil for plain
	// function/task calls.
	Receiver Expr

	// Iterator is the introduced iterator variable for a `with` clause
	// method; nil when no `with` clause is present.
	Iterator *IteratorVar
}

// IteratorVar is an array-method iterator variable threaded through the
// BindContext while binding a `with` clause. Embedding symbols.Base satisfies symbols.Symbol
// directly, so an iterator variable can stand in anywhere a declared
// variable's symbol is expected during binding of the clause body.
type IteratorVar struct {
	symbols.Base
	ElementType types.Type
}

var _ symbols.Symbol = (*IteratorVar)(nil)

// MemberAccessExpr is `base.member` where base has a class type and member
// is found in that class's member scope; struct fields and
// package-qualified names are not bound to it.
type MemberAccessExpr struct {
	Base
	BaseExpr Expr
	Member   string
	Symbol   symbols.Symbol
}

// ElementSelectExpr is `arr[index]`.
type ElementSelectExpr struct {
	Base
	ArrayExpr Expr
	Index     Expr
}

// RangeSelectExpr is `arr[msb:lsb]` (part-select).
type RangeSelectExpr struct {
	Base
	ArrayExpr  Expr
	MSB, LSB   Expr
}

// AssignmentExpr represents `lhs = rhs` as an expression-level node (the
// eval package's statement execution is what sequences it).
type AssignmentExpr struct {
	Base
	LHS, RHS Expr
}

var (
	_ Expr = (*IntLiteral)(nil)
	_ Expr = (*RealLiteral)(nil)
	_ Expr = (*StringLiteral)(nil)
	_ Expr = (*NameRef)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*ConditionalExpr)(nil)
	_ Expr = (*MinTypMaxExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*MemberAccessExpr)(nil)
	_ Expr = (*ElementSelectExpr)(nil)
	_ Expr = (*RangeSelectExpr)(nil)
	_ Expr = (*AssignmentExpr)(nil)
)
