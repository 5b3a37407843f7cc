package binder

import (
	"github.com/hdlfront/svcore/constval"
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/syntax"
	"github.com/hdlfront/svcore/types"
)

// SystemSubroutine describes a built-in system task/function or array
// method the binder recognizes directly, without a symbols.Subroutine
// declaration.
type SystemSubroutine struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 for unbounded

	// ResultType computes the call's result type from the (already bound)
	// argument types and, for a method call, the receiver's type (nil for a
	// plain system function).
	ResultType func(table *types.Table, receiver types.Type, args []types.Type) types.Type

	// Method is true for array/queue methods invoked as `receiver.Name()`
	// rather than `$Name()`.
	Method bool

	// TakesIterator is true for methods that accept an optional `with`
	// clause introducing an iterator variable over the receiver's elements.
	TakesIterator bool

	// TypeArgument is true for a system function whose single argument may
	// name a data type rather than an expression ($bits(int), $bits(my_t)):
	// bindSystemCall tries resolveDataType on it first before falling back to
	// an ordinary value bind.
	TypeArgument bool
}

// systemSubroutines is the fixed table of recognized `$name(...)` system
// functions. $bits and $size are the two the constant
// evaluator and elaborator most directly depend on (array dimension bounds,
// bitstream casts).
var systemSubroutines = map[string]*SystemSubroutine{
	"$bits": {
		Name: "$bits", MinArgs: 1, MaxArgs: 1, TypeArgument: true,
		ResultType: func(table *types.Table, _ types.Type, args []types.Type) types.Type {
			return table.GetIntegral(32, false, false, false)
		},
	},
	"$size": {
		Name: "$size", MinArgs: 1, MaxArgs: 2,
		ResultType: func(table *types.Table, _ types.Type, args []types.Type) types.Type {
			return table.GetIntegral(32, true, false, false)
		},
	},
	"$clog2": {
		Name: "$clog2", MinArgs: 1, MaxArgs: 1,
		ResultType: func(table *types.Table, _ types.Type, args []types.Type) types.Type {
			return table.GetIntegral(32, true, false, false)
		},
	},
	"$unsigned": {
		Name: "$unsigned", MinArgs: 1, MaxArgs: 1,
		ResultType: func(table *types.Table, _ types.Type, args []types.Type) types.Type {
			if len(args) == 1 {
				if it, ok := args[0].Canonical().(*types.IntegralType); ok {
					return table.GetIntegral(it.Width, false, it.FourState, it.IsReg)
				}
			}
			return types.Error
		},
	},
	"$signed": {
		Name: "$signed", MinArgs: 1, MaxArgs: 1,
		ResultType: func(table *types.Table, _ types.Type, args []types.Type) types.Type {
			if len(args) == 1 {
				if it, ok := args[0].Canonical().(*types.IntegralType); ok {
					return table.GetIntegral(it.Width, true, it.FourState, it.IsReg)
				}
			}
			return types.Error
		},
	},
}

// arrayMethods is the fixed table of recognized `receiver.Name()` array and
// queue built-in methods.
var arrayMethods = map[string]*SystemSubroutine{
	"size": {Name: "size", Method: true, MaxArgs: 0, ResultType: intResult(32, true)},
	"num":  {Name: "num", Method: true, MaxArgs: 0, ResultType: intResult(32, true)},
	"sum":  {Name: "sum", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: elementResult},
	"product": {Name: "product", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: elementResult},
	"and": {Name: "and", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: elementResult},
	"or":  {Name: "or", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: elementResult},
	"xor": {Name: "xor", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: elementResult},
	"min": {Name: "min", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: elementResult},
	"max": {Name: "max", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: elementResult},
	"find": {Name: "find", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: queueOfElement},
	"find_first": {Name: "find_first", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: queueOfElement},
	"unique": {Name: "unique", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: queueOfElement},
	"reverse": {Name: "reverse", Method: true, MaxArgs: 0, ResultType: sameAsReceiver},
	"sort":    {Name: "sort", Method: true, MaxArgs: 0, TakesIterator: true, ResultType: voidResult},
	"delete":  {Name: "delete", Method: true, MaxArgs: 1, ResultType: voidResult},
}

func intResult(width int, signed bool) func(*types.Table, types.Type, []types.Type) types.Type {
	return func(table *types.Table, _ types.Type, _ []types.Type) types.Type {
		return table.GetIntegral(width, signed, false, false)
	}
}

func voidResult(table *types.Table, _ types.Type, _ []types.Type) types.Type {
	return table.GetPredefined(types.KindVoid, false)
}

func sameAsReceiver(_ *types.Table, receiver types.Type, _ []types.Type) types.Type {
	return receiver
}

func elementResult(_ *types.Table, receiver types.Type, _ []types.Type) types.Type {
	if at, ok := receiver.Canonical().(*types.ArrayType); ok {
		return at.Element
	}
	return types.Error
}

func queueOfElement(table *types.Table, receiver types.Type, _ []types.Type) types.Type {
	elem := elementResult(table, receiver, nil)
	return table.GetArray(elem, []types.DimDescriptor{{Kind: types.DimQueue}})
}

// bindTypeArgumentCall binds a TypeArgument system call (`$bits(int)`)
// whose argument resolved to a data type rather than a value: the result
// is a compile-time constant, since a type's bit width never depends on
// anything evaluated at run time.
func (b *Binder) bindTypeArgumentCall(sys *SystemSubroutine, argType types.Type, node syntax.Node) Expr {
	width, ok := types.BitstreamWidth(argType)
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeBadCast, "%s: type %s has no fixed bitstream width", sys.Name, argType.Repr())
		return Bad(node.Span())
	}

	resultType := sys.ResultType(b.Types, nil, []types.Type{argType})
	return &IntLiteral{
		Base:  Base{TypeV: resultType, SpanV: node.Span(), EffectiveWidthV: 32, ConstantV: true},
		Value: constval.NewInt(32, false, false, int64(width)),
	}
}

// bindSystemCall binds a `$name(args...)` or `receiver.name(args...)` call
// against a known SystemSubroutine descriptor, checking arity but not
// per-argument types.
func (b *Binder) bindSystemCall(sys *SystemSubroutine, receiver Expr, node syntax.Node, firstArgIdx int, ctx *BindContext) Expr {
	if sys.TypeArgument && node.ChildCount() == firstArgIdx+1 {
		if t, ok := b.resolveDataType(node.Child(firstArgIdx), ctx.WithFlags(AllowDataType)); ok {
			return b.bindTypeArgumentCall(sys, t, node)
		}
	}

	var args []Expr
	for i := firstArgIdx; i < node.ChildCount(); i++ {
		a := b.Bind(node.Child(i), ctx.WithTarget(nil))
		args = append(args, a)
	}

	if len(args) < sys.MinArgs || (sys.MaxArgs >= 0 && len(args) > sys.MaxArgs) {
		b.Sink.Errorf(node.Span(), diag.CodeTooManyArguments,
			"%s expects between %d and %d arguments, got %d", sys.Name, sys.MinArgs, sys.MaxArgs, len(args))
		return Bad(node.Span())
	}

	argTypes := make([]types.Type, len(args))
	constant := true
	for i, a := range args {
		argTypes[i] = a.Type()
		constant = constant && a.IsConstant()
	}

	var receiverType types.Type
	if receiver != nil {
		receiverType = receiver.Type()
		constant = constant && receiver.IsConstant()
	}

	resultType := sys.ResultType(b.Types, receiverType, argTypes)

	callArgs := make([]Argument, len(args))
	for i, a := range args {
		callArgs[i] = Argument{Value: a}
	}

	return &CallExpr{
		Base:     Base{TypeV: resultType, SpanV: node.Span(), ConstantV: constant},
		System:   sys,
		Args:     callArgs,
		Receiver: receiver,
	}
}

// withIteratorName is implemented by a `with`-clause syntax node that
// carries an explicit iterator variable name (`with (name) expr`), as
// opposed to the default anonymous `with (expr)` form. A node that does
// not implement it is treated as using the default name, "item".
type withIteratorName interface {
	IteratorName() string
}

const defaultIteratorName = "item"

// bindArrayMethod binds `receiver.method(...)` and `receiver.method(...)
// with (expr)` per [receiver, ...optionalWithBody]. The with clause's first
// child is its body: it is bound with the iterator in scope and recorded as
// the call's only Args entry.
func (b *Binder) bindArrayMethod(node syntax.Node, ctx *BindContext) Expr {
	nn, ok := node.(syntax.NamedNode)
	if !ok || node.ChildCount() < 1 {
		return Bad(node.Span())
	}

	receiver := b.Bind(node.Child(0), ctx.WithTarget(nil))
	if IsBad(receiver) {
		return Bad(node.Span())
	}

	sys, ok := arrayMethods[nn.Name()]
	if !ok {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "unknown array method %q", nn.Name())
		return Bad(node.Span())
	}

	elemType := elementResult(b.Types, receiver.Type(), nil)
	callCtx := ctx

	var call Expr
	if sys.TakesIterator && node.ChildCount() > 1 {
		name := defaultIteratorName
		withClause := node.Child(1)
		if named, ok := withClause.(withIteratorName); ok {
			if n := named.IteratorName(); n != "" {
				name = n
			}
		}
		iter := &IteratorVar{
			Base:        symbols.Base{NameV: name, KindV: symbols.KindVariable},
			ElementType: elemType,
		}
		bodyCtx := callCtx.WithIterator(iter)
		call = b.bindSystemCall(sys, receiver, node, node.ChildCount(), callCtx)
		if ce, ok := call.(*CallExpr); ok {
			ce.Iterator = iter
			if withClause.ChildCount() > 0 {
				body := b.Bind(withClause.Child(0), bodyCtx.WithTarget(nil))
				if IsBad(body) {
					return Bad(node.Span())
				}
				ce.Args = append(ce.Args, Argument{Value: body})
				ce.ConstantV = ce.ConstantV && body.IsConstant()
			}
		}
	} else {
		call = b.bindSystemCall(sys, receiver, node, node.ChildCount(), callCtx)
	}

	return call
}
