package elaborate

import (
	"testing"

	"github.com/hdlfront/svcore/arena"
	"github.com/hdlfront/svcore/binder"
	"github.com/hdlfront/svcore/constval"
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/syntax"
	"github.com/hdlfront/svcore/types"
)

// testToken/testNode mirror binder_test.go's syntax doubles, kept package-
// local here since elaborate's tests need to hand Parameterize real syntax
// nodes for parameter default/override expressions.
type testToken struct {
	text string
	kind syntax.TokenKind
}

func (t *testToken) ValueText() string          { return t.text }
func (t *testToken) Span() diag.Span            { return diag.Span{} }
func (t *testToken) TokenKind() syntax.TokenKind { return t.kind }

type testNode struct {
	kind     syntax.Kind
	children []syntax.Node
	token    *testToken
}

func (n *testNode) Kind() syntax.Kind       { return n.kind }
func (n *testNode) Span() diag.Span         { return diag.Span{} }
func (n *testNode) ChildCount() int         { return len(n.children) }
func (n *testNode) Child(i int) syntax.Node { return n.children[i] }
func (n *testNode) AsToken() (syntax.Token, bool) {
	if n.token == nil {
		return nil, false
	}
	return n.token, true
}

func intLiteralNode(text string) *testNode {
	return &testNode{kind: syntax.KindLiteralExpression, token: &testToken{text: text, kind: syntax.TokenIntegerLiteral}}
}

func opToken(tk syntax.TokenKind) *testNode {
	return &testNode{token: &testToken{kind: tk}}
}

func binaryNode(lhs syntax.Node, op syntax.TokenKind, rhs syntax.Node) *testNode {
	return &testNode{kind: syntax.KindBinaryExpression, children: []syntax.Node{lhs, opToken(op), rhs}}
}

func newElaborator() (*Elaborator, *diag.Sink) {
	sink := diag.NewSink()
	return New(sink, types.NewTable(), arena.NewInterner()), sink
}

func literalExpr(width int, val int64) binder.Expr {
	return &binder.IntLiteral{
		Base: binder.Base{
			TypeV:     &types.IntegralType{Width: width, Signed: true},
			ConstantV: true,
		},
		Value: constval.NewInt(width, true, false, val),
	}
}

func TestEvaluateParameterBindsLiteral(t *testing.T) {
	e, sink := newElaborator()
	p := &symbols.Parameter{Base: symbols.Base{NameV: "WIDTH"}}

	e.EvaluateParameter(p, literalExpr(32, 8))

	if p.State != symbols.ParameterBound {
		t.Fatalf("state = %v, want ParameterBound", p.State)
	}
	if p.Bad {
		t.Fatalf("unexpected Bad parameter: %v", sink.Diagnostics())
	}
	v, ok := p.Value.(constval.Value)
	if !ok || v.Kind != constval.KindInteger {
		t.Fatalf("expected a bound integer value, got %#v", p.Value)
	}
	if v.Int.String() != "8" {
		t.Errorf("got %s, want 8", v.Int.String())
	}
}

func TestEvaluateParameterIsIdempotent(t *testing.T) {
	e, _ := newElaborator()
	p := &symbols.Parameter{Base: symbols.Base{NameV: "N"}}

	e.EvaluateParameter(p, literalExpr(8, 3))
	first := p.Value

	// A second call against a different expression must be a no-op once bound.
	e.EvaluateParameter(p, literalExpr(8, 99))

	firstV, _ := first.(constval.Value)
	gotV, _ := p.Value.(constval.Value)
	if gotV.Int != firstV.Int {
		t.Error("EvaluateParameter re-evaluated an already-bound parameter")
	}
}

func TestEvaluateParameterBadDeclExprMarksBad(t *testing.T) {
	e, _ := newElaborator()
	p := &symbols.Parameter{Base: symbols.Base{NameV: "BAD"}}

	e.EvaluateParameter(p, binder.Bad(diag.Span{}))

	if p.State != symbols.ParameterBound || !p.Bad {
		t.Errorf("expected Bound(bad), got state=%v bad=%v", p.State, p.Bad)
	}
}

func TestEvaluateParameterNonConstantMarksBad(t *testing.T) {
	e, sink := newElaborator()
	p := &symbols.Parameter{Base: symbols.Base{NameV: "NOTCONST"}}

	nonConstant := &binder.IntLiteral{
		Base: binder.Base{
			TypeV:     &types.IntegralType{Width: 8, Signed: true},
			ConstantV: false,
		},
		Value: constval.NewInt(8, true, false, 1),
	}

	e.EvaluateParameter(p, nonConstant)

	if !p.Bad {
		t.Error("expected a non-constant initializer to mark the parameter bad")
	}
	if !sink.AnyErrors() {
		t.Error("expected a diagnostic for the non-constant initializer")
	}
}

func TestEvaluateParameterNilDeclExprMarksBad(t *testing.T) {
	e, _ := newElaborator()
	p := &symbols.Parameter{Base: symbols.Base{NameV: "NIL"}}

	e.EvaluateParameter(p, nil)

	if p.State != symbols.ParameterBound || !p.Bad {
		t.Errorf("expected Bound(bad) for a nil declaration expression, got state=%v bad=%v", p.State, p.Bad)
	}
}

func TestEvaluateParameterSelfCycleReportsDependencyCycle(t *testing.T) {
	e, sink := newElaborator()
	p := &symbols.Parameter{Base: symbols.Base{NameV: "SELF"}}

	// Simulate re-entrant evaluation: something reached this parameter again
	// while it was still mid-evaluation.
	p.State = symbols.ParameterEvaluating

	e.EvaluateParameter(p, literalExpr(8, 1))

	if p.State != symbols.ParameterBound || !p.Bad {
		t.Errorf("expected Bound(bad) after cycle, got state=%v bad=%v", p.State, p.Bad)
	}

	found := false
	for _, d := range sink.Diagnostics() {
		if d.Code == diag.CodeDependencyCycle {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeDependencyCycle, got %v", sink.Diagnostics())
	}
}

func TestNewRootUsesSuppliedInitializer(t *testing.T) {
	e, _ := newElaborator()
	ran := false
	root := e.NewRoot(func(s *symbols.Scope) {
		ran = true
		s.Define(symbols.NamespaceMembers, &symbols.Variable{Base: symbols.Base{NameV: "top"}})
	})

	sink := diag.NewSink()
	root.Members(sink)

	if !ran {
		t.Error("expected NewRoot's initializer to run lazily on first access")
	}
	if root.Kind() != symbols.KindRoot {
		t.Errorf("root kind = %v, want KindRoot", root.Kind())
	}
}

func TestInstanceCacheGetPutRoundTrip(t *testing.T) {
	c := NewInstanceCache()
	names := arena.NewInterner()
	k := Key{ModuleName: names.Intern("adder"), ParamRepr: "8"}

	if _, ok := c.Get(k); ok {
		t.Fatal("expected a miss on an empty cache")
	}

	sym := &ParameterizedModuleSymbol{Base: symbols.Base{NameV: "adder"}}
	c.Put(k, sym)

	got, ok := c.Get(k)
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if got != sym {
		t.Error("Get returned a different pointer than was Put")
	}
}

func TestInstanceCacheDistinguishesParamRepr(t *testing.T) {
	c := NewInstanceCache()
	names := arena.NewInterner()
	adder := names.Intern("adder")
	narrow := Key{ModuleName: adder, ParamRepr: "8"}
	wide := Key{ModuleName: adder, ParamRepr: "16"}

	c.Put(narrow, &ParameterizedModuleSymbol{Base: symbols.Base{NameV: "adder#8"}})

	if _, ok := c.Get(wide); ok {
		t.Error("expected distinct parameterizations of the same module to miss each other")
	}
}

func TestParameterizeEvaluatesDefaultInModuleScope(t *testing.T) {
	sink := diag.NewSink()
	table := types.NewTable()
	e := New(sink, table, arena.NewInterner())
	b := binder.New(sink, table)
	instanceScope := symbols.NewScope(symbols.Base{NameV: "$unit"}, func(*symbols.Scope) {})

	// module m; parameter P = 3+4; endmodule
	mod := e.DeclareModule(nil, "m", diag.Span{}, []symbols.ParameterInfo{
		{Name: "P", DeclExpr: binaryNode(intLiteralNode("3"), syntax.TokenPlus, intLiteralNode("4"))},
	})

	cache := NewInstanceCache()
	inst := e.Parameterize(b, mod, nil, instanceScope, cache, diag.Span{})

	if inst.Scope == nil {
		t.Fatal("expected a non-nil scope for a successful instantiation")
	}
	sym, ok := inst.Scope.LookupDirect(sink, "P", symbols.NamespaceMembers, -1)
	if !ok {
		t.Fatal("expected P to be defined in the instantiated scope")
	}
	p := sym.(*symbols.Parameter)
	if p.Bad {
		t.Fatalf("unexpected bad parameter: %v", sink.Diagnostics())
	}
	v, ok := p.Value.(constval.Value)
	if !ok || v.Int == nil || v.Int.String() != "7" {
		t.Errorf("P = %#v, want 7", p.Value)
	}
}

func TestParameterizeOverrideEvaluatesInInstanceScope(t *testing.T) {
	sink := diag.NewSink()
	table := types.NewTable()
	e := New(sink, table, arena.NewInterner())
	b := binder.New(sink, table)
	instanceScope := symbols.NewScope(symbols.Base{NameV: "$unit"}, func(*symbols.Scope) {})

	mod := e.DeclareModule(nil, "m", diag.Span{}, []symbols.ParameterInfo{
		{Name: "P", DeclExpr: intLiteralNode("1")},
	})

	cache := NewInstanceCache()
	inst := e.Parameterize(b, mod, []Override{{Name: "P", Expr: intLiteralNode("9")}}, instanceScope, cache, diag.Span{})

	sym, _ := inst.Scope.LookupDirect(sink, "P", symbols.NamespaceMembers, -1)
	p := sym.(*symbols.Parameter)
	v, _ := p.Value.(constval.Value)
	if v.Int == nil || v.Int.String() != "9" {
		t.Errorf("P = %#v, want 9 (override, not default)", p.Value)
	}
}

func TestParameterizeMemoizesEqualOverrides(t *testing.T) {
	sink := diag.NewSink()
	table := types.NewTable()
	e := New(sink, table, arena.NewInterner())
	b := binder.New(sink, table)
	instanceScope := symbols.NewScope(symbols.Base{NameV: "$unit"}, func(*symbols.Scope) {})
	mod := e.DeclareModule(nil, "m", diag.Span{}, []symbols.ParameterInfo{
		{Name: "P", DeclExpr: intLiteralNode("1")},
	})
	cache := NewInstanceCache()

	a := e.Parameterize(b, mod, []Override{{Expr: intLiteralNode("5")}}, instanceScope, cache, diag.Span{})
	c := e.Parameterize(b, mod, []Override{{Expr: intLiteralNode("5")}}, instanceScope, cache, diag.Span{})
	d := e.Parameterize(b, mod, []Override{{Expr: intLiteralNode("6")}}, instanceScope, cache, diag.Span{})

	if a != c {
		t.Error("expected two instantiations with equal overrides to share one ParameterizedModuleSymbol")
	}
	if a == d {
		t.Error("expected instantiations with different overrides to produce distinct results")
	}
}

func TestParameterizeRejectsLocalparamOverride(t *testing.T) {
	sink := diag.NewSink()
	table := types.NewTable()
	e := New(sink, table, arena.NewInterner())
	b := binder.New(sink, table)
	instanceScope := symbols.NewScope(symbols.Base{NameV: "$unit"}, func(*symbols.Scope) {})
	mod := e.DeclareModule(nil, "m", diag.Span{}, []symbols.ParameterInfo{
		{Name: "W", DeclExpr: intLiteralNode("8"), Local: true},
	})
	cache := NewInstanceCache()

	e.Parameterize(b, mod, []Override{{Name: "W", Expr: intLiteralNode("16")}}, instanceScope, cache, diag.Span{})

	found := false
	for _, d := range sink.Diagnostics() {
		if d.Code == diag.CodeLocalParameterOverride {
			found = true
		}
	}
	if !found {
		t.Error("expected CodeLocalParameterOverride for an override targeting a localparam")
	}
}

func TestParameterizeRejectsMixedPositionalAfterNamed(t *testing.T) {
	sink := diag.NewSink()
	table := types.NewTable()
	e := New(sink, table, arena.NewInterner())
	b := binder.New(sink, table)
	instanceScope := symbols.NewScope(symbols.Base{NameV: "$unit"}, func(*symbols.Scope) {})
	mod := e.DeclareModule(nil, "m", diag.Span{}, []symbols.ParameterInfo{
		{Name: "A", DeclExpr: intLiteralNode("1")},
		{Name: "B", DeclExpr: intLiteralNode("2")},
	})
	cache := NewInstanceCache()

	overrides := []Override{{Name: "A", Expr: intLiteralNode("9")}, {Expr: intLiteralNode("8")}}
	e.Parameterize(b, mod, overrides, instanceScope, cache, diag.Span{})

	found := false
	for _, d := range sink.Diagnostics() {
		if d.Code == diag.CodeMixedArguments {
			found = true
		}
	}
	if !found {
		t.Error("expected CodeMixedArguments for a positional override following a named one")
	}
}

func TestDeclareModuleDedupsDuplicateParameterNames(t *testing.T) {
	sink := diag.NewSink()
	e := New(sink, types.NewTable(), arena.NewInterner())

	mod := e.DeclareModule(nil, "m", diag.Span{}, []symbols.ParameterInfo{
		{Name: "P", DeclExpr: intLiteralNode("1")},
		{Name: "P", DeclExpr: intLiteralNode("2")},
	})

	if len(mod.Params) != 1 {
		t.Errorf("got %d params, want 1 after de-duplication", len(mod.Params))
	}
	if !sink.AnyErrors() {
		t.Error("expected a diagnostic for the duplicate parameter name")
	}
}
