package symbols

import (
	"testing"

	"github.com/hdlfront/svcore/diag"
)

func TestScopeDefineAndLookupDirect(t *testing.T) {
	sink := diag.NewSink()
	root := NewScope(Base{NameV: "$root", KindV: KindRoot}, func(s *Scope) {
		s.Define(NamespaceMembers, &Variable{Base: Base{NameV: "x", KindV: KindVariable}})
	})

	sym, ok := root.LookupDirect(sink, "x", NamespaceMembers, -1)
	if !ok {
		t.Fatal("expected to find x")
	}
	if sym.Name() != "x" {
		t.Errorf("got %q, want x", sym.Name())
	}
	if sink.AnyErrors() {
		t.Errorf("unexpected diagnostics: %v", sink.Diagnostics())
	}
}

func TestScopeLazyInitRunsOnce(t *testing.T) {
	sink := diag.NewSink()
	calls := 0
	s := NewScope(Base{NameV: "m"}, func(sc *Scope) {
		calls++
		sc.Define(NamespaceMembers, &Variable{Base: Base{NameV: "v"}})
	})

	s.Members(sink)
	s.Members(sink)
	s.LookupDirect(sink, "v", NamespaceMembers, -1)

	if calls != 1 {
		t.Errorf("initializer ran %d times, want 1", calls)
	}
}

func TestScopeSelfReferentialCycleReportsDependencyCycle(t *testing.T) {
	sink := diag.NewSink()
	var s *Scope
	s = NewScope(Base{NameV: "cyclic"}, func(sc *Scope) {
		// Re-entering this same scope's initialization mid-flight.
		sc.Members(sink)
	})

	s.Members(sink)

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

func TestScopeLookupWalksParents(t *testing.T) {
	sink := diag.NewSink()
	parent := NewScope(Base{NameV: "outer"}, func(s *Scope) {
		s.Define(NamespaceMembers, &Variable{Base: Base{NameV: "shared"}})
	})
	child := NewScope(Base{NameV: "inner", ParentV: parent}, func(s *Scope) {
		s.Define(NamespaceMembers, &Variable{Base: Base{NameV: "local"}})
	})

	if _, ok := child.Lookup(sink, "local", NamespaceMembers, -1); !ok {
		t.Error("expected to find local member")
	}
	if _, ok := child.Lookup(sink, "shared", NamespaceMembers, -1); !ok {
		t.Error("expected lookup to walk into the parent scope")
	}
	if _, ok := child.Lookup(sink, "nonexistent", NamespaceMembers, -1); ok {
		t.Error("expected lookup of an undeclared name to fail")
	}
}

func TestScopeLookupBeforeIndexExcludesLaterDeclarations(t *testing.T) {
	sink := diag.NewSink()
	s := NewScope(Base{NameV: "m"}, func(sc *Scope) {
		sc.Define(NamespaceMembers, &Variable{Base: Base{NameV: "early", Index: 0}})
		sc.Define(NamespaceMembers, &Variable{Base: Base{NameV: "late", Index: 5}})
	})

	if _, ok := s.Lookup(sink, "late", NamespaceMembers, 2); ok {
		t.Error("expected a forward reference to late to fail lookup")
	}
	if _, ok := s.Lookup(sink, "early", NamespaceMembers, 2); !ok {
		t.Error("expected early, declared before the cutoff, to resolve")
	}
}

func TestExplicitImportResolution(t *testing.T) {
	sink := diag.NewSink()
	root := NewScope(Base{NameV: "$root"}, nil)
	root.state = InProgress
	pkg := NewScope(Base{NameV: "pkg"}, func(s *Scope) {
		s.Define(NamespaceMembers, &Variable{Base: Base{NameV: "thing"}})
	})
	root.Define(NamespacePackage, pkg)
	root.state = Initialized

	importing := NewScope(Base{NameV: "user"}, nil)
	importing.DefineImport(&ExplicitImport{Root: root, PackageName: "pkg", ImportName: "thing"})

	sym, ok := importing.Lookup(sink, "thing", NamespaceMembers, -1)
	if !ok {
		t.Fatal("expected explicit import to resolve")
	}
	if sym.Name() != "thing" {
		t.Errorf("got %q, want thing", sym.Name())
	}
}

func TestWildcardImportAmbiguity(t *testing.T) {
	sink := diag.NewSink()
	root := NewScope(Base{NameV: "$root"}, nil)
	root.state = InProgress

	pkgA := NewScope(Base{NameV: "a"}, func(s *Scope) {
		s.Define(NamespaceMembers, &Variable{Base: Base{NameV: "dup"}})
	})
	pkgB := NewScope(Base{NameV: "b"}, func(s *Scope) {
		s.Define(NamespaceMembers, &Variable{Base: Base{NameV: "dup"}})
	})
	root.Define(NamespacePackage, pkgA)
	root.Define(NamespacePackage, pkgB)
	root.state = Initialized

	importing := NewScope(Base{NameV: "user"}, nil)
	importing.DefineWildcardImport(&WildcardImport{Root: root, PackageName: "a"})
	importing.DefineWildcardImport(&WildcardImport{Root: root, PackageName: "b"})

	_, ok := importing.Lookup(sink, "dup", NamespaceMembers, -1)
	if !ok {
		t.Fatal("expected a wildcard-imported symbol to resolve despite ambiguity")
	}

	found := false
	for _, d := range sink.Diagnostics() {
		if d.Code == diag.CodeAmbiguousImport {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeAmbiguousImport, got %v", sink.Diagnostics())
	}
}
