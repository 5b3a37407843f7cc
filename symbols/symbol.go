// Package symbols implements the semantic symbol graph and the scope/lookup
// engine: declarations, packages, modules, subroutines, classes, imports,
// and named lookup across the namespaces they populate.
//
// Declared-by-usage resolution is generalized into a lazy Scope state
// machine (Uninitialized -> InProgress -> Initialized) so a scope's members
// are only built the first time something looks into it, and a scope's
// members are partitioned by Namespace rather than kept in one flat map.
package symbols

import (
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/syntax"
	"github.com/hdlfront/svcore/types"
)

// Kind is the closed set of symbol kinds.
type Kind int

const (
	KindRoot Kind = iota
	KindCompilationUnit
	KindPackage
	KindModule
	KindInterface
	KindProgram
	KindInstance
	KindGenerateBlock
	KindProceduralBlock
	KindSequentialBlock
	KindSubroutine
	KindFormalArgument
	KindVariable
	KindNet
	KindParameter
	KindEnumValue
	KindTypeAlias
	KindClass
	KindType // a symbol whose Kind denotes a type category (wraps a types.Type)
)

// Namespace is the closed set of member namespaces a Scope may hold:
// ordinary members, type/module definitions, and package-level names.
type Namespace int

const (
	NamespaceMembers Namespace = iota
	NamespaceDefinitions
	NamespacePackage
)

// Symbol is the common interface every node in the semantic graph
// implements.
type Symbol interface {
	Kind() Kind
	Name() string
	Span() diag.Span
	Parent() *Scope
	// DeclIndex is the declaration-order index used by lookup-location
	// checks.
	DeclIndex() int
}

// Base is embedded by every concrete symbol kind to supply the common
// header fields, rather than each kind redeclaring name/span/parent/index.
type Base struct {
	KindV   Kind
	NameV   string
	SpanV   diag.Span
	ParentV *Scope
	Index   int
}

func (b *Base) Kind() Kind        { return b.KindV }
func (b *Base) Name() string      { return b.NameV }
func (b *Base) Span() diag.Span   { return b.SpanV }
func (b *Base) Parent() *Scope    { return b.ParentV }
func (b *Base) DeclIndex() int    { return b.Index }

// Mutability distinguishes ordinary variables from const-declared and
// parameter-declared names, which the binder's l-value checks reject as
// assignment targets.
type Mutability int

const (
	MutabilityVariable Mutability = iota
	MutabilityConst
	MutabilityParameter
)

// Variable represents a `logic`/`bit`/... declared variable or net.
type Variable struct {
	Base
	Type       types.Type
	Mutability Mutability
	IsNet      bool // true for KindNet
}

// FormalArgument represents a subroutine's formal parameter.
type FormalArgument struct {
	Base
	Type      types.Type
	Direction Direction
	HasDefault bool
	// DefaultExpr is an opaque syntax handle; the binder re-binds it lazily
	// on first use of the default.
	DefaultExpr interface{}
}

// Direction is the closed set of formal-argument/port directions.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
	DirectionInOut
	DirectionRef
)

// ParameterState is the lazy-init state machine for a Parameter:
// Declared -> Evaluating -> Bound(value) or Bound(bad).
type ParameterState int

const (
	ParameterDeclared ParameterState = iota
	ParameterEvaluating
	ParameterBound
)

// Parameter represents a `parameter`/`localparam` declaration.
type Parameter struct {
	Base
	Type  types.Type
	Local bool // localparam
	State ParameterState

	// Value and Bad are valid only once State == ParameterBound; Bad is set
	// when evaluation failed.
	Value interface{} // constval.Value, kept as interface{} to avoid an import cycle
	Bad   bool

	// DeclExpr is an opaque handle to the (syntax) initializer expression.
	DeclExpr interface{}
}

// SubroutineKind distinguishes a function (returns a value, no blocking
// statements) from a task.
type SubroutineKind int

const (
	SubroutineFunction SubroutineKind = iota
	SubroutineTask
)

// Subroutine represents a function or task declaration. Body is its scope
// (formal arguments plus locals); Body's Initializer elaborates both lazily.
type Subroutine struct {
	Base
	SubKind    SubroutineKind
	ReturnType types.Type // VoidType for a task
	Formals    []*FormalArgument
	Body       *Scope
	IsConstant bool // eligible to be called from a constant-evaluation context

	// BodyStmts is the subroutine's statement list as syntax nodes, walked
	// directly by the constant evaluator's statement executor rather than
	// pre-compiled into a separate bound-statement tree (this core binds
	// expressions ahead of time but defers full statement binding to
	// evaluation, since only constant functions ever execute a body here).
	BodyStmts []syntax.Node
}

// EnumValue represents one member of an enumerated type.
type EnumValue struct {
	Base
	Type  types.Type
	Value int64
}

// TypeAlias represents a `typedef`.
type TypeAlias struct {
	Base
	Target types.Type
}

// TypeSymbol wraps a types.Type as a graph node so built-in and anonymous
// types can be addressed uniformly alongside declared symbols.
type TypeSymbol struct {
	Base
	Type types.Type
}

// ParameterInfo describes one formal parameter in a module's parameter port
// list: its name, its default initializer syntax, whether it is a
// `localparam` (and therefore not overridable at an instantiation site),
// and whether it was declared in the module body rather than the port
// list. ModuleSymbol caches one of these per formal so parameterize() does
// not need to re-walk declaration syntax on every instantiation.
type ParameterInfo struct {
	Name      string
	DeclExpr  syntax.Node
	Local     bool
	BodyParam bool
}

// ModuleSymbol represents a module declaration: its syntax and its cached,
// declaration-order, de-duplicated parameter port list. Instantiating it
// with a specific set of overrides is elaborate.Parameterize's job; this
// type only holds what every instantiation of the same module shares.
type ModuleSymbol struct {
	Base
	Node   syntax.Node
	Params []ParameterInfo
}

var (
	_ Symbol = (*Variable)(nil)
	_ Symbol = (*FormalArgument)(nil)
	_ Symbol = (*Parameter)(nil)
	_ Symbol = (*EnumValue)(nil)
	_ Symbol = (*TypeAlias)(nil)
	_ Symbol = (*TypeSymbol)(nil)
	_ Symbol = (*Subroutine)(nil)
	_ Symbol = (*ModuleSymbol)(nil)
)
