// Package eval implements the constant evaluator: it executes a
// bound expression tree over constval.Value locals to produce a compile-time
// result, enforcing the constant-context restrictions the binder already
// flagged (no hierarchical references, only constant-eligible calls).
//
// A constant function's `return`, `disable`, `break`, and `continue` all
// need to unwind through arbitrarily nested statement evaluation without
// aborting the whole Compilation, so ResultKind is an explicit sum type
// threaded and checked at every statement boundary rather than a panic.
package eval

import (
	"github.com/hdlfront/svcore/binder"
	"github.com/hdlfront/svcore/constval"
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/types"
)

// ResultKind is the closed set of ways evaluating one statement can end.
type ResultKind int

const (
	Success ResultKind = iota
	ReturnResult
	Fail
	Disable
	BreakResult
	ContinueResult
)

// Result is the outcome of evaluating one statement or expression: Value is
// meaningful for Success and ReturnResult; every other kind carries no
// value and simply tells the caller how to unwind.
type Result struct {
	Kind  ResultKind
	Value constval.Value
}

func Ok(v constval.Value) Result       { return Result{Kind: Success, Value: v} }
func Return(v constval.Value) Result   { return Result{Kind: ReturnResult, Value: v} }
func FailResult() Result               { return Result{Kind: Fail, Value: constval.Bad} }
func DisableResult() Result            { return Result{Kind: Disable} }
func BreakLoop() Result                { return Result{Kind: BreakResult} }
func ContinueLoop() Result             { return Result{Kind: ContinueResult} }

// IsUnwinding reports whether r should stop a statement sequence from
// running its next statement (everything except plain Success).
func (r Result) IsUnwinding() bool { return r.Kind != Success }

// maxCallDepth is the recursion limit a Context uses when nothing else
// (i.e. compilation.Options.MaxRecursionDepth) configures one.
const maxCallDepth = 256

// Frame is one constant-function call-stack entry: its locals (formal
// arguments plus declared variables) keyed by name, since constant functions do not shadow across nested blocks in a way
// that needs anything richer for this core.
type Frame struct {
	Locals map[string]constval.Value
}

// Context carries the evaluator's call stack and diagnostic sink across a
// single top-level constant evaluation.
type Context struct {
	Sink   *diag.Sink
	Types  *types.Table
	Frames []*Frame

	// MaxCallDepth bounds constant-function recursion; NewContext sets it
	// to maxCallDepth, but a Compilation overrides it from
	// Options.MaxRecursionDepth.
	MaxCallDepth int

	// AllowHierarchical, when true, suppresses the
	// CodeHierarchicalInConstant diagnostic a hierarchical NameRef would
	// otherwise report (compilation.Options.AllowHierarchicalConst).
	AllowHierarchical bool

	// ScriptEval relaxes "must be constant" checks for interactive
	// evaluation: a reference to a plain (non-parameter, non-enum) symbol
	// degrades quietly to Bad instead of reporting CodeNotConstant.
	ScriptEval bool
}

// NewContext creates an evaluation context with one empty top-level frame
// and the default recursion limit.
func NewContext(sink *diag.Sink, table *types.Table) *Context {
	return &Context{
		Sink:         sink,
		Types:        table,
		Frames:       []*Frame{{Locals: map[string]constval.Value{}}},
		MaxCallDepth: maxCallDepth,
	}
}

func (c *Context) top() *Frame { return c.Frames[len(c.Frames)-1] }

func (c *Context) pushFrame(span diag.Span) bool {
	limit := c.MaxCallDepth
	if limit <= 0 {
		limit = maxCallDepth
	}
	if len(c.Frames) >= limit {
		c.Sink.Errorf(span, diag.CodeRecursionLimit, "constant function call exceeds recursion limit (%d)", limit)
		return false
	}
	c.Frames = append(c.Frames, &Frame{Locals: map[string]constval.Value{}})
	return true
}

func (c *Context) popFrame() { c.Frames = c.Frames[:len(c.Frames)-1] }

// Eval evaluates a bound expression to a constant value.
// It never panics: any failure is reported to Sink and returns
// constval.Bad, letting the caller (typically a Parameter's evaluator)
// degrade to Bound(bad).
func (c *Context) Eval(e binder.Expr) constval.Value {
	if e == nil {
		return constval.Bad
	}
	if t := e.Type(); t != nil && t.Kind() == types.KindError {
		return constval.Bad
	}

	switch x := e.(type) {
	case *binder.IntLiteral:
		return c.evalIntLiteral(x)
	case *binder.RealLiteral:
		return constval.Value{Kind: constval.KindReal, Real: x.Value}
	case *binder.StringLiteral:
		return constval.Value{Kind: constval.KindString, Str: x.Value}
	case *binder.NameRef:
		return c.evalNameRef(x)
	case *binder.BinaryExpr:
		return c.evalBinary(x)
	case *binder.UnaryExpr:
		return c.evalUnary(x)
	case *binder.ConditionalExpr:
		return c.evalConditional(x)
	case *binder.MinTypMaxExpr:
		return c.Eval(x.Selected())
	case *binder.CallExpr:
		return c.evalCall(x)
	case *binder.ElementSelectExpr:
		return c.evalElementSelect(x)
	case *binder.AssignmentExpr:
		return c.evalAssignment(x)
	default:
		c.Sink.Errorf(e.Span(), diag.CodeNotConstant, "expression is not constant-evaluable")
		return constval.Bad
	}
}

func (c *Context) evalNameRef(ref *binder.NameRef) constval.Value {
	if ref.Hierarchical && !c.AllowHierarchical {
		c.Sink.Errorf(ref.Span(), diag.CodeHierarchicalInConstant,
			"hierarchical reference is not allowed in a constant expression")
		return constval.Bad
	}

	if v, ok := c.top().Locals[ref.Symbol.Name()]; ok {
		return v
	}

	switch sym := ref.Symbol.(type) {
	case *symbols.Parameter:
		if sym.State != symbols.ParameterBound || sym.Bad {
			c.Sink.Errorf(ref.Span(), diag.CodeNotConstant, "%q has no bound constant value", sym.Name())
			return constval.Bad
		}
		if v, ok := sym.Value.(constval.Value); ok {
			return v
		}
		return constval.Bad

	case *symbols.EnumValue:
		it, _ := sym.Type.Canonical().(*types.IntegralType)
		width := 32
		signed := false
		if it != nil {
			width, signed = it.Width, it.Signed
		}
		return constval.Value{Kind: constval.KindInteger, Int: constval.NewInt(width, signed, false, sym.Value)}

	default:
		if !c.ScriptEval {
			c.Sink.Errorf(ref.Span(), diag.CodeNotConstant, "%q is not a compile-time constant here", ref.Symbol.Name())
		}
		return constval.Bad
	}
}

// VerifyConstant checks that e is eligible to appear in a constant context
// without evaluating it: used by Elaborator.EvaluateParameter on a
// parameter's bound initializer before it is evaluated, so a
// non-constant subtree is reported exactly once at the point it matters
// rather than being silently tolerated until Eval trips over it.
func VerifyConstant(sink *diag.Sink, e binder.Expr) bool {
	if !e.IsConstant() {
		sink.Errorf(e.Span(), diag.CodeNotConstant, "expression is not a compile-time constant")
		return false
	}
	return true
}
