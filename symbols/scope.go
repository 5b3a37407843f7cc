package symbols

import "github.com/hdlfront/svcore/diag"

// InitState is the lazy scope-initialization state machine:
// Uninitialized -> InProgress -> Initialized. Entering InProgress while
// already InProgress is a cycle error; the offending scope is marked
// Initialized, and no marker child is added to it.
type InitState int

const (
	Uninitialized InitState = iota
	InProgress
	Initialized
)

// Initializer lazily constructs a scope's children on first access. It is
// supplied by the Elaborator and invoked at most once per scope,
// guarded by the scope's InitState.
type Initializer func(s *Scope)

// Scope is "a symbol that contains child symbols". Every scope
// that corresponds to a declaration (module, package, class, subroutine
// body, generate block, ...) embeds Scope in its concrete symbol type.
//
// Rather than resolving forward references by recording unresolved usages
// and patching them in once a full pass completes, a Scope defers its own
// construction via Initializer and builds its members on first access —
// demand-driven elaboration instead of patch-later.
type Scope struct {
	Base

	state InitState
	init  Initializer

	members     []Symbol
	definitions []Symbol

	// byNamespace holds one name->symbol map per namespace that has ever
	// received a member.
	byNamespace map[Namespace]map[string]Symbol

	explicitImports []*ExplicitImport
	wildcardImports []*WildcardImport
}

// NewScope creates a scope whose children are produced by init on first
// access to Members/Lookup. A nil init is valid for scopes whose members
// are all added eagerly via Define (e.g. the universe/predefined scope).
func NewScope(base Base, init Initializer) *Scope {
	return &Scope{
		Base:        base,
		init:        init,
		byNamespace: make(map[Namespace]map[string]Symbol),
	}
}

// ensureInitialized runs the lazy Initializer exactly once, converting
// reentrant initialization into a dependency-cycle diagnostic.
func (s *Scope) ensureInitialized(sink *diag.Sink) {
	switch s.state {
	case Initialized:
		return
	case InProgress:
		sink.Errorf(s.SpanV, diag.CodeDependencyCycle,
			"dependency cycle detected while elaborating scope %q", s.NameV)
		s.state = Initialized
		return
	default: // Uninitialized
		s.state = InProgress
		if s.init != nil {
			s.init(s)
		}
		s.state = Initialized
	}
}

// Members forces lazy elaboration and returns the insertion-ordered member
// sequence.
func (s *Scope) Members(sink *diag.Sink) []Symbol {
	s.ensureInitialized(sink)
	return s.members
}

// Definitions forces lazy elaboration and returns the insertion-ordered
// NamespaceDefinitions sequence: the module/interface/program declarations
// a compilation unit or Root registers, in the order Define saw them.
func (s *Scope) Definitions(sink *diag.Sink) []Symbol {
	s.ensureInitialized(sink)
	return s.definitions
}

// Define adds sym to this scope's member namespace and member sequence. It
// is called by the Elaborator while running this scope's Initializer; it
// panics if called outside initialization, since a scope's member maps are
// written once during elaboration of that scope and read-only afterward.
func (s *Scope) Define(ns Namespace, sym Symbol) {
	if s.state != InProgress {
		panic("symbols: Define called outside scope initialization")
	}

	if s.byNamespace[ns] == nil {
		s.byNamespace[ns] = make(map[string]Symbol)
	}

	if sym.Name() != "" {
		s.byNamespace[ns][sym.Name()] = sym
	}

	if ns == NamespaceMembers {
		s.members = append(s.members, sym)
	}
	if ns == NamespaceDefinitions {
		s.definitions = append(s.definitions, sym)
	}
}

// DefineImport registers a lazily-resolved explicit import for this scope.
func (s *Scope) DefineImport(imp *ExplicitImport) {
	s.explicitImports = append(s.explicitImports, imp)
}

// DefineWildcardImport registers a wildcard import for this scope.
func (s *Scope) DefineWildcardImport(imp *WildcardImport) {
	s.wildcardImports = append(s.wildcardImports, imp)
}

// LookupDirect looks up name in this scope's own namespace only, with no
// parent walk. beforeIndex, when >= 0, excludes
// members whose DeclIndex is >= beforeIndex.
func (s *Scope) LookupDirect(sink *diag.Sink, name string, ns Namespace, beforeIndex int) (Symbol, bool) {
	s.ensureInitialized(sink)

	m, ok := s.byNamespace[ns]
	if !ok {
		return nil, false
	}

	sym, ok := m[name]
	if !ok {
		return nil, false
	}

	if beforeIndex >= 0 && sym.DeclIndex() >= beforeIndex {
		return nil, false
	}

	return sym, true
}

// Lookup resolves name in the given namespace following this search order:
// current scope's member map -> walk parent scopes for the same namespace
// -> explicit imports -> wildcard imports (erroring on ambiguity).
func (s *Scope) Lookup(sink *diag.Sink, name string, ns Namespace, beforeIndex int) (Symbol, bool) {
	for scope := s; scope != nil; scope = scope.ParentV {
		applyBefore := beforeIndex
		if scope != s {
			// The forward-reference restriction only applies within the
			// scope the lookup originates from; outer scopes are fully
			// elaborated members, not sibling declarations.
			applyBefore = -1
		}

		if sym, ok := scope.LookupDirect(sink, name, ns, applyBefore); ok {
			return sym, true
		}

		if ns == NamespaceMembers {
			if sym, ok := scope.lookupImports(sink, name); ok {
				return sym, true
			}
		}
	}

	return nil, false
}

// lookupImports resolves name against this scope's explicit imports first,
// then its wildcard imports.
func (s *Scope) lookupImports(sink *diag.Sink, name string) (Symbol, bool) {
	for _, imp := range s.explicitImports {
		if imp.ImportName == name {
			return imp.resolve(sink)
		}
	}

	var found Symbol
	ambiguous := false
	for _, imp := range s.wildcardImports {
		if sym, ok := imp.resolveMember(sink, name); ok {
			if found != nil && found != sym {
				ambiguous = true
			} else {
				found = sym
			}
		}
	}

	if found == nil {
		return nil, false
	}

	if ambiguous {
		sink.Errorf(s.SpanV, diag.CodeAmbiguousImport,
			"import of %q is ambiguous between multiple wildcard imports", name)
	}

	return found, true
}
