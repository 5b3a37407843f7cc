package binder

import (
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/types"
)

// Flag is a bitmask of ambient binding rules that change how an expression
// subtree is bound without changing the syntax being bound.
type Flag uint32

const (
	// AllowDataType permits a name to resolve to a type (as opposed to a
	// value) — set while binding a cast target, a parameter's declared
	// type, or a $bits()-style type argument.
	AllowDataType Flag = 1 << iota

	// UnevaluatedBranch marks a subtree that is parsed and type-checked but
	// never run as a constant — the untaken side of a `generate if`, or the
	// non-selected branches of a min:typ:max expression once one has been
	// selected. Diagnostics about runtime-only concerns (divide by zero,
	// out-of-range select) are suppressed inside it.
	UnevaluatedBranch

	// StaticInitializer marks a parameter or localparam initializer:
	// hierarchical references and calls to non-constant subroutines are
	// rejected here.
	StaticInitializer

	// ProceduralStatement marks a subtree reached from inside a procedural
	// block, where net types and some system tasks become illegal.
	ProceduralStatement

	// Constant mirrors StaticInitializer for expressions reached from an
	// explicit constant-evaluation request (e.g. a generate-block bound or
	// an array dimension) rather than a parameter declaration itself.
	Constant

	// AssignmentTarget marks the left-hand operand of an assignment, so
	// name resolution produces an l-value-checked reference instead of a
	// plain read.
	AssignmentTarget
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// BindContext carries everything the binder needs beyond the syntax node
// itself: the enclosing scope, the forward-reference cutoff, an optional
// assignment-target type for context-determined width propagation, and the
// active flag set.
//
// Rather than threading a mutable scope stack through every walker method,
// this core threads an immutable BindContext by value, since every nested
// bind call needs its own combination of flags and target type without
// perturbing the caller's.
type BindContext struct {
	Scope *symbols.Scope

	// BeforeIndex restricts name lookup to symbols declared before this
	// declaration index in Scope, mirroring the Scope.Lookup parameter of
	// the same name. -1 means no restriction.
	BeforeIndex int

	// TargetType, when non-nil, is the type the expression being bound is
	// assigned or compared against, driving context-determined width
	// propagation for self-determined operators.
	TargetType types.Type

	Flags Flag

	// Iterators is the chain of in-scope array-method iterator variables,
	// innermost last, consulted by NameRef resolution before falling back
	// to Scope lookup.
	Iterators []*IteratorVar
}

// NewContext creates the root BindContext for binding within scope.
func NewContext(scope *symbols.Scope) *BindContext {
	return &BindContext{Scope: scope, BeforeIndex: -1}
}

// WithFlags returns a copy of ctx with additional flags set.
func (ctx BindContext) WithFlags(f Flag) *BindContext {
	ctx.Flags |= f
	return &ctx
}

// WithoutFlags returns a copy of ctx with the given flags cleared — used
// when entering a subtree where an ambient flag no longer applies (e.g.
// binding the condition of a min:typ:max inside an already-unevaluated
// branch still reports its own diagnostics normally... except it doesn't;
// callers that need this compose WithFlags instead). Provided for symmetry
// with WithFlags.
func (ctx BindContext) WithoutFlags(f Flag) *BindContext {
	ctx.Flags &^= f
	return &ctx
}

// WithTarget returns a copy of ctx with TargetType set to t.
func (ctx BindContext) WithTarget(t types.Type) *BindContext {
	ctx.TargetType = t
	return &ctx
}

// WithScope returns a copy of ctx rebased onto a nested scope (entering a
// subroutine body, generate block, or class scope), preserving flags.
func (ctx BindContext) WithScope(s *symbols.Scope) *BindContext {
	ctx.Scope = s
	ctx.BeforeIndex = -1
	return &ctx
}

// WithIterator returns a copy of ctx with an additional iterator variable
// pushed onto the chain, for binding the body of a `with` clause.
func (ctx BindContext) WithIterator(iv *IteratorVar) *BindContext {
	next := make([]*IteratorVar, len(ctx.Iterators)+1)
	copy(next, ctx.Iterators)
	next[len(ctx.Iterators)] = iv
	ctx.Iterators = next
	return &ctx
}

// lookupIterator searches the iterator chain innermost-first.
func (ctx *BindContext) lookupIterator(name string) (*IteratorVar, bool) {
	for i := len(ctx.Iterators) - 1; i >= 0; i-- {
		if ctx.Iterators[i].NameV == name {
			return ctx.Iterators[i], true
		}
	}
	return nil, false
}
