// Package compilation assembles one compile unit: the diagnostic sink, the
// type table, the root scope, and the options that govern them, wiring its
// per-run services together the way a single invocation of a build
// pipeline assembles a fresh Compiler.
package compilation

import (
	"github.com/hdlfront/svcore/arena"
	"github.com/hdlfront/svcore/binder"
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/elaborate"
	"github.com/hdlfront/svcore/eval"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/types"
)

// Options controls compile-time choices that are not themselves part of the
// symbol graph. Field names mirror the TOML keys LoadOptions reads (see
// config.go).
type Options struct {
	// MinTypMax selects which branch of a `(min:typ:max)` expression binds:
	// one of "min", "typ", or "max". Defaults to "typ".
	MinTypMax string

	// AllowHierarchicalConst permits a hierarchical name reference inside a
	// constant expression instead of reporting CodeHierarchicalInConstant.
	AllowHierarchicalConst bool

	// MaxRecursionDepth bounds constant-function call recursion. Zero means
	// "use the evaluator's built-in default".
	MaxRecursionDepth int

	// ScriptEval relaxes constant-evaluation diagnostics for interactive use
	// (e.g. a REPL or linter driving the evaluator directly against
	// non-constant symbols), degrading an unevaluable reference to Bad
	// instead of reporting CodeNotConstant.
	ScriptEval bool

	// TopModules restricts Tops() to the named modules. Empty means
	// auto-discover every module definition registered on Root.
	TopModules []string
}

// DefaultOptions returns the options a Compilation uses when none are
// loaded from a config file.
func DefaultOptions() Options {
	return Options{MinTypMax: "typ", MaxRecursionDepth: 256}
}

// minTypMaxSelection maps Options.MinTypMax's TOML string value onto the
// binder's MinTypMax enum, defaulting to SelectTyp for an empty or
// unrecognized value rather than rejecting it outright — LoadOptions
// already validates the string against the same three spellings.
func minTypMaxSelection(s string) binder.MinTypMax {
	switch s {
	case "min":
		return binder.SelectMin
	case "max":
		return binder.SelectMax
	default:
		return binder.SelectTyp
	}
}

// Compilation owns every piece of mutable state a single compile needs, all
// scoped to this value rather than held in package-level globals, because
// two Compilations (e.g. one per file set in a long-running service) must
// never share diagnostics or interned types.
type Compilation struct {
	Options Options
	Sink    *diag.Sink
	Types   *types.Table
	Root    *symbols.Scope

	// Strings interns identifier and module-name text to stable small ids;
	// the elaborator's instance cache keys off of it instead of raw
	// strings. It lives for exactly as long as the Compilation does.
	Strings *arena.Interner

	Binder     *binder.Binder
	Elaborator *elaborate.Elaborator
	Instances  *elaborate.InstanceCache
}

// New creates a Compilation with freshly constructed, unshared state. init
// builds the root scope's top-level members (modules, packages, programs)
// the first time anything looks something up in it.
func New(opts Options, init symbols.Initializer) *Compilation {
	sink := diag.NewSink()
	table := types.NewTable()
	strings := arena.NewInterner()
	elab := elaborate.New(sink, table, strings)
	root := elab.NewRoot(init)

	b := binder.New(sink, table)
	b.MinTypMax = minTypMaxSelection(opts.MinTypMax)

	return &Compilation{
		Options:    opts,
		Sink:       sink,
		Types:      table,
		Root:       root,
		Strings:    strings,
		Binder:     b,
		Elaborator: elab,
		Instances:  elaborate.NewInstanceCache(),
	}
}

// NewEvalContext returns a fresh constant-evaluation context sharing this
// Compilation's sink and type table, configured from Options.
func (c *Compilation) NewEvalContext() *eval.Context {
	ec := eval.NewContext(c.Sink, c.Types)
	if c.Options.MaxRecursionDepth > 0 {
		ec.MaxCallDepth = c.Options.MaxRecursionDepth
	}
	ec.AllowHierarchical = c.Options.AllowHierarchicalConst
	ec.ScriptEval = c.Options.ScriptEval
	return ec
}

// HasErrors reports whether any error-severity diagnostic has been
// collected so far.
func (c *Compilation) HasErrors() bool {
	return c.Sink.AnyErrors()
}

// Close releases the Compilation's arena-backed state en bloc: every
// *elaborate.ParameterizedModuleSymbol handed out by Tops() or Elaborator.Parameterize
// stays valid until this call, and is unusable after it. A Compilation the
// caller is done with (results copied out, or discarded outright) should
// call this once; a Compilation is not reusable afterward.
func (c *Compilation) Close() {
	c.Elaborator.Modules.Close()
}

// Tops returns the fully elaborated top-level module instances: the
// modules named by Options.TopModules if non-empty, otherwise every module
// definition Root registers, each instantiated with no parameter overrides
// (its declared defaults).
func (c *Compilation) Tops() []*elaborate.ParameterizedModuleSymbol {
	var mods []*symbols.ModuleSymbol

	if len(c.Options.TopModules) > 0 {
		for _, name := range c.Options.TopModules {
			sym, ok := c.Root.LookupDirect(c.Sink, name, symbols.NamespaceDefinitions, -1)
			if !ok {
				c.Sink.Errorf(diag.Span{}, diag.CodeNameNotFound, "top module %q not found", name)
				continue
			}
			mod, ok := sym.(*symbols.ModuleSymbol)
			if !ok {
				c.Sink.Errorf(diag.Span{}, diag.CodeNameNotFound, "%q does not name a module", name)
				continue
			}
			mods = append(mods, mod)
		}
	} else {
		for _, sym := range c.Root.Definitions(c.Sink) {
			if mod, ok := sym.(*symbols.ModuleSymbol); ok {
				mods = append(mods, mod)
			}
		}
	}

	tops := make([]*elaborate.ParameterizedModuleSymbol, 0, len(mods))
	for _, mod := range mods {
		tops = append(tops, c.Elaborator.Parameterize(c.Binder, mod, nil, c.Root, c.Instances, mod.Span()))
	}
	return tops
}

// Units returns the compilation units registered on Root.
func (c *Compilation) Units() []*symbols.Scope {
	var units []*symbols.Scope
	for _, sym := range c.Root.Members(c.Sink) {
		if sym.Kind() != symbols.KindCompilationUnit {
			continue
		}
		if u, ok := sym.(*symbols.Scope); ok {
			units = append(units, u)
		}
	}
	return units
}
