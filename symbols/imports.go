package symbols

import "github.com/hdlfront/svcore/diag"

// ExplicitImport represents `import pkg::name;`. Resolution is
// deferred until first lookup; a failed resolution produces a diagnostic
// once and thereafter behaves like an absent symbol, without re-reporting.
type ExplicitImport struct {
	Root        *Scope // compilation root, holds the Package namespace
	PackageName string
	ImportName  string
	Span        diag.Span

	resolved bool
	symbol   Symbol // nil if resolution failed
}

// resolve looks the import up exactly once, caching the outcome.
func (ei *ExplicitImport) resolve(sink *diag.Sink) (Symbol, bool) {
	if ei.resolved {
		return ei.symbol, ei.symbol != nil
	}
	ei.resolved = true

	pkgSym, ok := ei.Root.LookupDirect(sink, ei.PackageName, NamespacePackage, -1)
	if !ok {
		sink.Errorf(ei.Span, diag.CodeNameNotFound, "unknown package %q", ei.PackageName)
		return nil, false
	}

	pkgScope, ok := pkgSym.(*Scope)
	if !ok {
		sink.Errorf(ei.Span, diag.CodeNameNotFound, "%q is not a package", ei.PackageName)
		return nil, false
	}

	sym, ok := pkgScope.LookupDirect(sink, ei.ImportName, NamespaceMembers, -1)
	if !ok {
		sink.Errorf(ei.Span, diag.CodeNameNotFound,
			"no symbol %q visible in package %q", ei.ImportName, ei.PackageName)
		return nil, false
	}

	ei.symbol = sym
	return sym, true
}

// WildcardImport represents `import pkg::*;`. It participates
// in lookup only when direct lookup in the importing scope fails, and may
// contribute at most one non-ambiguous candidate per name.
type WildcardImport struct {
	Root        *Scope
	PackageName string
	Span        diag.Span
}

// resolveMember looks up name in the wildcard-imported package's member
// namespace.
func (wi *WildcardImport) resolveMember(sink *diag.Sink, name string) (Symbol, bool) {
	pkgSym, ok := wi.Root.LookupDirect(sink, wi.PackageName, NamespacePackage, -1)
	if !ok {
		return nil, false
	}

	pkgScope, ok := pkgSym.(*Scope)
	if !ok {
		return nil, false
	}

	return pkgScope.LookupDirect(sink, name, NamespaceMembers, -1)
}
