// Package elaborate implements demand-driven elaboration: it
// builds the Root scope, instantiates modules, binds and evaluates
// parameter defaults and overrides (a parameter's declared type is not used
// as the binding target), and wires each symbols.Scope's Initializer
// so children are constructed lazily on first access rather than eagerly
// walking the whole design up front.
//
// Rather than building the whole symbol graph in one eager pass keyed on
// file arrival order, elaboration order here is "whatever lookup needs
// first" via Scope's lazy Initializer callback, not "declaration order".
package elaborate

import (
	"strings"

	"github.com/hdlfront/svcore/arena"
	"github.com/hdlfront/svcore/binder"
	"github.com/hdlfront/svcore/constval"
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/eval"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/syntax"
	"github.com/hdlfront/svcore/types"
)

// ModuleDecl wraps a module declaration's syntax node. No function in this
// package consumes it: DeclareModule takes the node, the module name and
// its parameter list as separate arguments.
type ModuleDecl struct {
	Node syntax.Node
}

// Elaborator owns the shared services every lazily-run Initializer needs:
// the diagnostic sink, the type table, the module-name interner the
// instance cache keys off of, and the arena every instantiated module is
// allocated through, so a *ParameterizedModuleSymbol handed to a caller
// stays valid for the Compilation's whole lifetime even as more modules are
// instantiated afterward.
type Elaborator struct {
	Sink    *diag.Sink
	Types   *types.Table
	Strings *arena.Interner
	Modules *arena.Arena[ParameterizedModuleSymbol]
}

// New creates an Elaborator sharing sink, type table, and string interner
// with the rest of a Compilation.
func New(sink *diag.Sink, table *types.Table, interner *arena.Interner) *Elaborator {
	return &Elaborator{
		Sink:    sink,
		Types:   table,
		Strings: interner,
		Modules: arena.New[ParameterizedModuleSymbol](0),
	}
}

// NewRoot creates the top-level Root scope. Its Initializer is supplied by
// the caller once the set of top-level module/package/program declarations
// to elaborate is known.
func (e *Elaborator) NewRoot(init symbols.Initializer) *symbols.Scope {
	base := symbols.Base{KindV: symbols.KindRoot, NameV: "$root"}
	return symbols.NewScope(base, init)
}

// DeclareModule builds a ModuleSymbol from a module declaration's syntax and
// its parameter port list, de-duplicating formal names in declaration order
// (step 1 of parameterize) once here rather than on every instantiation.
func (e *Elaborator) DeclareModule(node syntax.Node, name string, span diag.Span, params []symbols.ParameterInfo) *symbols.ModuleSymbol {
	seen := make(map[string]bool, len(params))
	deduped := make([]symbols.ParameterInfo, 0, len(params))
	for _, p := range params {
		if seen[p.Name] {
			e.Sink.Errorf(span, diag.CodeDuplicateDeclaration, "duplicate parameter %q in module %q", p.Name, name)
			continue
		}
		seen[p.Name] = true
		deduped = append(deduped, p)
	}
	return &symbols.ModuleSymbol{
		Base:   symbols.Base{KindV: symbols.KindModule, NameV: name, SpanV: span},
		Node:   node,
		Params: deduped,
	}
}

// EvaluateParameter evaluates a single Parameter's declared initializer
// exactly once,
// implementing the Declared -> Evaluating -> Bound(value|bad) state
// machine. declExpr is the already-bound initializer
// expression (binding happens before the parameter is reachable by lookup,
// since the declared type itself may reference earlier parameters in the
// same port list).
func (e *Elaborator) EvaluateParameter(p *symbols.Parameter, declExpr binder.Expr) {
	if p.State == symbols.ParameterBound {
		return
	}
	if p.State == symbols.ParameterEvaluating {
		e.Sink.Errorf(p.Span(), diag.CodeDependencyCycle,
			"parameter %q depends on itself", p.Name())
		p.State = symbols.ParameterBound
		p.Bad = true
		return
	}

	p.State = symbols.ParameterEvaluating

	if declExpr == nil || binder.IsBad(declExpr) {
		p.State = symbols.ParameterBound
		p.Bad = true
		return
	}

	if !eval.VerifyConstant(e.Sink, declExpr) {
		p.State = symbols.ParameterBound
		p.Bad = true
		return
	}

	ctx := eval.NewContext(e.Sink, e.Types)
	v := ctx.Eval(declExpr)

	p.State = symbols.ParameterBound
	if v.IsBad() {
		p.Bad = true
		return
	}
	p.Value = v
}

// Override describes one `#(.NAME(expr))` or positional parameter override
// supplied at an instantiation site.
type Override struct {
	Name string
	Expr syntax.Node
}

// ParameterizedModuleSymbol is the elaborated result of instantiating a
// module with a specific set of parameter overrides: a fresh Scope whose
// Parameters have been re-evaluated against the override expressions.
type ParameterizedModuleSymbol struct {
	symbols.Base
	Scope *symbols.Scope
}

// Key identifies a parameterization for the elaborator's instance cache: the
// module's declared name (interned to a small id, since the same module is
// instantiated far more often than it is declared) plus the folded constant
// value of every override, in declaration order. Two keys compare equal (by
// the caller, via a map) exactly when both the module and every resolved
// parameter value match.
type Key struct {
	ModuleName arena.StringID
	ParamRepr  string // concatenated Repr() of each resolved parameter value, in order
}

// InstanceCache memoizes ParameterizedModuleSymbol construction so
// instantiating the same module with the same overrides twice reuses one
// elaborated scope rather than re-running Initializers.
type InstanceCache struct {
	entries map[Key]*ParameterizedModuleSymbol
}

func NewInstanceCache() *InstanceCache {
	return &InstanceCache{entries: make(map[Key]*ParameterizedModuleSymbol)}
}

func (c *InstanceCache) Get(k Key) (*ParameterizedModuleSymbol, bool) {
	s, ok := c.entries[k]
	return s, ok
}

func (c *InstanceCache) Put(k Key, s *ParameterizedModuleSymbol) {
	c.entries[k] = s
}

// Parameterize instantiates mod against overrides: it matches the
// overrides to mod's cached formal list (positional-then-named, mixing
// forbidden, localparam overrides rejected), builds a fresh scope, and
// evaluates each formal's expression: an override against instanceScope
// (the instantiation site), a default against the new module scope. The
// result is memoized in cache by the module name plus the folded sequence
// of resolved parameter values, so two instantiations with equal overrides
// share one elaborated scope instead of re-running Initializers.
func (e *Elaborator) Parameterize(b *binder.Binder, mod *symbols.ModuleSymbol, overrides []Override, instanceScope *symbols.Scope, cache *InstanceCache, site diag.Span) *ParameterizedModuleSymbol {
	bound, ok := matchOverrides(e.Sink, mod.Params, overrides, site)
	if !ok {
		h := e.Modules.Alloc(ParameterizedModuleSymbol{Base: symbols.Base{KindV: symbols.KindInstance, NameV: mod.Name(), SpanV: site}})
		return e.Modules.Get(h)
	}

	var params []*symbols.Parameter
	scopeBase := symbols.Base{KindV: symbols.KindModule, NameV: mod.Name(), SpanV: site}
	scope := symbols.NewScope(scopeBase, func(s *symbols.Scope) {
		params = make([]*symbols.Parameter, len(mod.Params))
		for i, info := range mod.Params {
			p := &symbols.Parameter{
				Base:  symbols.Base{KindV: symbols.KindParameter, NameV: info.Name, SpanV: site, Index: i},
				Local: info.Local,
			}
			s.Define(symbols.NamespaceMembers, p)
			params[i] = p
		}
		for i, info := range mod.Params {
			p := params[i]
			if overrideExpr, ok := bound[info.Name]; ok {
				declExpr := b.Bind(overrideExpr, binder.NewContext(instanceScope).WithFlags(binder.StaticInitializer))
				e.EvaluateParameter(p, declExpr)
				continue
			}
			declExpr := b.Bind(info.DeclExpr, binder.NewContext(s).WithFlags(binder.StaticInitializer))
			e.EvaluateParameter(p, declExpr)
		}
	})

	// This core does not yet elaborate a module body beyond its parameter
	// port list (no generate/instance-array walking is implemented), so
	// forcing Members now to compute the cache key costs nothing the cache
	// would otherwise have saved.
	scope.Members(e.Sink)

	key := Key{ModuleName: e.Strings.Intern(mod.Name()), ParamRepr: paramRepr(params)}
	if existing, ok := cache.Get(key); ok {
		return existing
	}

	h := e.Modules.Alloc(ParameterizedModuleSymbol{
		Base:  symbols.Base{KindV: symbols.KindInstance, NameV: mod.Name(), SpanV: site},
		Scope: scope,
	})
	result := e.Modules.Get(h)
	cache.Put(key, result)
	return result
}

// matchOverrides implements parameterize's override-matching step:
// positional overrides consume formals left-to-right, named overrides may
// target any formal, and once a named override appears no further
// positional override is allowed. localparam formals may never be
// overridden. It returns the override expression bound to each targeted
// formal's name.
func matchOverrides(sink *diag.Sink, formals []symbols.ParameterInfo, overrides []Override, site diag.Span) (map[string]syntax.Node, bool) {
	bound := make(map[string]syntax.Node, len(overrides))
	sawNamed := false
	posIdx := 0

	for _, ov := range overrides {
		if ov.Name == "" {
			if sawNamed {
				sink.Errorf(site, diag.CodeMixedArguments, "ordered parameter override may not follow a named override")
				return nil, false
			}
			if posIdx >= len(formals) {
				sink.Errorf(site, diag.CodeTooManyArguments, "too many parameter overrides")
				return nil, false
			}
			f := formals[posIdx]
			posIdx++
			if f.Local {
				sink.Errorf(site, diag.CodeLocalParameterOverride, "cannot override localparam %q", f.Name)
				return nil, false
			}
			bound[f.Name] = ov.Expr
			continue
		}

		sawNamed = true
		f := findParamInfo(formals, ov.Name)
		if f == nil {
			sink.Errorf(site, diag.CodeUnknownNamedArgument, "no parameter named %q", ov.Name)
			return nil, false
		}
		if f.Local {
			sink.Errorf(site, diag.CodeLocalParameterOverride, "cannot override localparam %q", ov.Name)
			return nil, false
		}
		if _, dup := bound[ov.Name]; dup {
			sink.Errorf(site, diag.CodeDuplicateNamedArgument, "parameter %q overridden more than once", ov.Name)
			return nil, false
		}
		bound[ov.Name] = ov.Expr
	}

	return bound, true
}

func findParamInfo(formals []symbols.ParameterInfo, name string) *symbols.ParameterInfo {
	for i := range formals {
		if formals[i].Name == name {
			return &formals[i]
		}
	}
	return nil
}

// paramRepr folds a parameterization's resolved values into the instance
// cache key's ParamRepr: each parameter's constant Repr() in declaration
// order, or "<bad>" for one that failed to evaluate.
func paramRepr(params []*symbols.Parameter) string {
	var sb strings.Builder
	for _, p := range params {
		sb.WriteByte('|')
		if p.Bad {
			sb.WriteString("<bad>")
			continue
		}
		if v, ok := p.Value.(constval.Value); ok {
			sb.WriteString(v.Repr())
		}
	}
	return sb.String()
}
