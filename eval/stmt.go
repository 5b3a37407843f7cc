package eval

import (
	"github.com/hdlfront/svcore/binder"
	"github.com/hdlfront/svcore/constval"
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/syntax"
)

// maxLoopIterations bounds a constant `for` loop the same way maxCallDepth
// bounds recursion, so a malformed bound (e.g. an always-true condition)
// fails with a diagnostic instead of hanging the compiler.
const maxLoopIterations = 1_000_000

// ExecStmt executes one statement node against frame-local state, returning
// the unwinding result it produced.
func (c *Context) ExecStmt(bnd *binder.Binder, node syntax.Node, ctx *binder.BindContext) Result {
	switch node.Kind() {
	case syntax.KindSequentialBlockStatement:
		for i := 0; i < node.ChildCount(); i++ {
			r := c.ExecStmt(bnd, node.Child(i), ctx)
			if r.IsUnwinding() {
				return r
			}
		}
		return Ok(constval.Value{})

	case syntax.KindExpressionStatement:
		if node.ChildCount() != 1 {
			return FailResult()
		}
		e := bnd.Bind(node.Child(0), ctx)
		if binder.IsBad(e) {
			return FailResult()
		}
		v := c.Eval(e)
		if v.IsBad() {
			return FailResult()
		}
		return Ok(v)

	case syntax.KindReturnStatement:
		if node.ChildCount() == 0 {
			return Return(constval.Value{})
		}
		e := bnd.Bind(node.Child(0), ctx)
		if binder.IsBad(e) {
			return FailResult()
		}
		return Return(c.Eval(e))

	case syntax.KindDisableStatement:
		return DisableResult()

	case syntax.KindBreakStatement:
		return BreakLoop()

	case syntax.KindContinueStatement:
		return ContinueLoop()

	case syntax.KindConditionalStatement:
		return c.execConditional(bnd, node, ctx)

	case syntax.KindForLoopStatement:
		return c.execForLoop(bnd, node, ctx)

	default:
		c.Sink.Errorf(node.Span(), diag.CodeNotConstant, "statement form is not constant-evaluable")
		return FailResult()
	}
}

// execConditional runs `if (cond) thenStmt [else elseStmt]` per
// [cond, thenStmt] or [cond, thenStmt, elseStmt].
func (c *Context) execConditional(bnd *binder.Binder, node syntax.Node, ctx *binder.BindContext) Result {
	if node.ChildCount() < 2 {
		return FailResult()
	}
	cond := bnd.Bind(node.Child(0), ctx)
	if binder.IsBad(cond) {
		return FailResult()
	}
	cv := c.Eval(cond)
	ci, ok := c.asInt(cv, node.Child(0).Span())
	if !ok {
		return FailResult()
	}

	switch ci.ToBool() {
	case constval.True:
		return c.ExecStmt(bnd, node.Child(1), ctx)
	case constval.False:
		if node.ChildCount() > 2 {
			return c.ExecStmt(bnd, node.Child(2), ctx)
		}
		return Ok(constval.Value{})
	default:
		c.Sink.Errorf(node.Span(), diag.CodeUnknownCondition,
			"if-statement condition is unknown in a constant context")
		return FailResult()
	}
}

// execForLoop runs `for (init; cond; step) body` per
// [init, cond, step, body]. init and step are ExpressionStatement-shaped
// assignment nodes; cond is a plain expression.
func (c *Context) execForLoop(bnd *binder.Binder, node syntax.Node, ctx *binder.BindContext) Result {
	if node.ChildCount() != 4 {
		return FailResult()
	}
	initNode, condNode, stepNode, bodyNode := node.Child(0), node.Child(1), node.Child(2), node.Child(3)

	if r := c.ExecStmt(bnd, initNode, ctx); r.IsUnwinding() {
		return r
	}

	for iter := 0; ; iter++ {
		if iter >= maxLoopIterations {
			c.Sink.Errorf(node.Span(), diag.CodeRecursionLimit,
				"constant for-loop exceeds the maximum iteration count (%d)", maxLoopIterations)
			return FailResult()
		}

		cond := bnd.Bind(condNode, ctx)
		if binder.IsBad(cond) {
			return FailResult()
		}
		cv := c.Eval(cond)
		ci, ok := c.asInt(cv, condNode.Span())
		if !ok {
			return FailResult()
		}
		switch ci.ToBool() {
		case constval.False:
			return Ok(constval.Value{})
		case constval.Unknown:
			c.Sink.Errorf(condNode.Span(), diag.CodeUnknownCondition,
				"for-loop condition is unknown in a constant context")
			return FailResult()
		}

		r := c.ExecStmt(bnd, bodyNode, ctx)
		switch r.Kind {
		case BreakResult:
			return Ok(constval.Value{})
		case ContinueResult:
			// fall through to step
		case Success:
			// fall through to step
		default:
			return r
		}

		if r := c.ExecStmt(bnd, stepNode, ctx); r.IsUnwinding() {
			return r
		}
	}
}

// evalCall executes a user subroutine call: binds each formal to its
// argument's already-evaluated value in a fresh frame, runs the body
// statements, and unwraps a ReturnResult into the call's value.
func (c *Context) evalCall(x *binder.CallExpr) constval.Value {
	if x.Callee == nil {
		c.Sink.Errorf(x.Span(), diag.CodeNotConstant, "system call is not constant-evaluable here")
		return constval.Bad
	}
	sub, ok := x.Callee.(*symbols.Subroutine)
	if !ok || !sub.IsConstant {
		c.Sink.Errorf(x.Span(), diag.CodeConstCallNotAllowed, "call target is not a constant function")
		return constval.Bad
	}

	args := make([]constval.Value, len(x.Args))
	for i, a := range x.Args {
		args[i] = c.Eval(a.Value)
		if args[i].IsBad() {
			return constval.Bad
		}
	}

	if !c.pushFrame(x.Span()) {
		return constval.Bad
	}
	defer c.popFrame()

	for i, a := range x.Args {
		if a.Formal != nil {
			c.top().Locals[a.Formal.Name()] = args[i]
		}
	}

	bnd := binder.New(c.Sink, c.Types)
	ctx := binder.NewContext(sub.Body).WithFlags(binder.Constant)

	var result Result = Ok(constval.Value{})
	for _, stmt := range sub.BodyStmts {
		result = c.ExecStmt(bnd, stmt, ctx)
		if result.IsUnwinding() {
			break
		}
	}

	switch result.Kind {
	case ReturnResult:
		return result.Value
	case Success, Disable:
		return constval.Value{Kind: constval.KindNull}
	default:
		return constval.Bad
	}
}
