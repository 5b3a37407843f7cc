package binder

import (
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/syntax"
	"github.com/hdlfront/svcore/types"
)

// bindInvocation binds `callee(args...)` per [calleeNode, argNode...].
// calleeNode resolving to a *symbols.Subroutine dispatches to
// user-subroutine binding; anything else (a bare identifier naming a known
// system task/function, or a member access already bound to a
// *SystemSubroutine by bindArrayMethod) goes through bindSystemCall.
func (b *Binder) bindInvocation(node syntax.Node, ctx *BindContext) Expr {
	if node.ChildCount() < 1 {
		return Bad(node.Span())
	}

	calleeNode := node.Child(0)
	if sysName, ok := systemSubroutineName(calleeNode); ok {
		if sys, ok := systemSubroutines[sysName]; ok {
			return b.bindSystemCall(sys, nil, node, 1, ctx)
		}
	}

	name, ok := identifierText(calleeNode)
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "invalid call target")
		return Bad(node.Span())
	}

	sym, ok := ctx.Scope.Lookup(b.Sink, name, symbols.NamespaceMembers, ctx.BeforeIndex)
	if !ok {
		b.Sink.Errorf(calleeNode.Span(), diag.CodeNameNotFound, "undeclared subroutine %q", name)
		return Bad(node.Span())
	}

	sub, ok := sym.(*symbols.Subroutine)
	if !ok {
		b.Sink.Errorf(calleeNode.Span(), diag.CodeTypeMismatch, "%q is not callable", name)
		return Bad(node.Span())
	}

	if ctx.Flags.Has(StaticInitializer) || ctx.Flags.Has(Constant) {
		if !sub.IsConstant {
			b.Sink.Errorf(node.Span(), diag.CodeConstCallNotAllowed,
				"%q cannot be called in a constant context", name)
			return Bad(node.Span())
		}
		for _, f := range sub.Formals {
			if f.Direction != symbols.DirectionIn {
				b.Sink.Errorf(node.Span(), diag.CodeConstFormalDirection,
					"constant function %q has a non-input formal argument %q", name, f.Name())
				return Bad(node.Span())
			}
		}
	}

	args, ok := b.bindArguments(sub.Formals, node, 1, ctx)
	if !ok {
		return Bad(node.Span())
	}

	return &CallExpr{
		Base:   Base{TypeV: sub.ReturnType, SpanV: node.Span(), ConstantV: sub.IsConstant && allConstant(args)},
		Callee: sub,
		Args:   args,
	}
}

// bindArguments matches a call's argument-node list against formals by
// position until the first named argument, then by name, rejecting a
// reversion to positional after a named argument, filling any un-supplied formal
// from its default when one exists.
func (b *Binder) bindArguments(formals []*symbols.FormalArgument, node syntax.Node, firstArgIdx int, ctx *BindContext) ([]Argument, bool) {
	bound := make(map[string]Expr)
	order := make([]string, 0, len(formals))
	sawNamed := false

	posIdx := 0
	for i := firstArgIdx; i < node.ChildCount(); i++ {
		argNode := node.Child(i)
		switch argNode.Kind() {
		case syntax.KindEmptyArgument:
			if posIdx >= len(formals) {
				b.Sink.Errorf(argNode.Span(), diag.CodeTooManyArguments, "too many arguments")
				return nil, false
			}
			order = append(order, formals[posIdx].Name())
			posIdx++

		case syntax.KindNamedArgument:
			sawNamed = true
			nn, ok := argNode.(syntax.NamedNode)
			if !ok || argNode.ChildCount() != 1 {
				return nil, false
			}
			formal := findFormal(formals, nn.Name())
			if formal == nil {
				b.Sink.Errorf(argNode.Span(), diag.CodeUnknownNamedArgument,
					"no formal argument named %q", nn.Name())
				return nil, false
			}
			if _, dup := bound[formal.Name()]; dup {
				b.Sink.Errorf(argNode.Span(), diag.CodeDuplicateNamedArgument,
					"argument %q bound more than once", formal.Name())
				return nil, false
			}
			val := b.Bind(argNode.Child(0), ctx.WithTarget(formal.Type))
			bound[formal.Name()] = val
			order = append(order, formal.Name())

		default: // ordered argument
			if sawNamed {
				b.Sink.Errorf(argNode.Span(), diag.CodeMixedArguments,
					"ordered argument may not follow a named argument")
				return nil, false
			}
			if posIdx >= len(formals) {
				b.Sink.Errorf(argNode.Span(), diag.CodeTooManyArguments, "too many arguments")
				return nil, false
			}
			formal := formals[posIdx]
			val := b.Bind(argNode, ctx.WithTarget(formal.Type))
			bound[formal.Name()] = val
			order = append(order, formal.Name())
			posIdx++
		}
	}

	result := make([]Argument, 0, len(formals))
	for _, f := range formals {
		val, ok := bound[f.Name()]
		if !ok {
			if !f.HasDefault {
				b.Sink.Errorf(node.Span(), diag.CodeTooFewArguments,
					"missing required argument %q", f.Name())
				return nil, false
			}
			// The default expression is bound here, at the call that uses
			// it, in the formal's own scope when it has one; a DefaultExpr
			// that is not a syntax node is a missing-default error.
			defNode, isNode := f.DefaultExpr.(syntax.Node)
			if !isNode || defNode == nil {
				b.Sink.Errorf(node.Span(), diag.CodeMissingDefault,
					"argument %q has no usable default", f.Name())
				return nil, false
			}
			defCtx := ctx
			if p := f.Parent(); p != nil {
				defCtx = ctx.WithScope(p)
			}
			val = b.Bind(defNode, defCtx.WithTarget(f.Type))
		}
		if IsBad(val) {
			return nil, false
		}
		if !types.AssignmentCompatible(f.Type, val.Type()) {
			b.Sink.Errorf(node.Span(), diag.CodeTypeMismatch,
				"argument %q: cannot pass %s as %s", f.Name(), val.Type().Repr(), f.Type.Repr())
			return nil, false
		}
		result = append(result, Argument{Formal: f, Value: val})
	}

	return result, true
}

func findFormal(formals []*symbols.FormalArgument, name string) *symbols.FormalArgument {
	for _, f := range formals {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

func allConstant(args []Argument) bool {
	for _, a := range args {
		if !a.Value.IsConstant() {
			return false
		}
	}
	return true
}

// systemSubroutineName extracts a `$name`-style system task/function name
// from a callee node, by convention a KindIdentifierName token whose text
// begins with '$'.
func systemSubroutineName(node syntax.Node) (string, bool) {
	name, ok := identifierText(node)
	if !ok || len(name) == 0 || name[0] != '$' {
		return "", false
	}
	return name, true
}
