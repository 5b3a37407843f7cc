package binder

import (
	"github.com/hdlfront/svcore/diag"
	"github.com/hdlfront/svcore/symbols"
	"github.com/hdlfront/svcore/syntax"
	"github.com/hdlfront/svcore/types"
)

// explicitSign is implemented by a data-type syntax node that carries an
// explicit `signed`/`unsigned` modifier, overriding the base keyword's
// default signedness (e.g. `bit signed`, `int unsigned`). A node that does
// not implement it uses the keyword's own default.
type explicitSign interface {
	ExplicitSigned() (signed bool, ok bool)
}

// resolveDataType resolves a data-type syntax node into a types.Type
// without reporting a diagnostic on failure, so a caller that is only
// speculatively trying the type interpretation of an ambiguous argument
// (see bindSystemCall's TypeArgument handling) can fall back to binding it
// as a value instead.
//
// A bare identifier is tried first against the type table's scope-free
// builtin keyword set (bit, logic, int, ...); on a miss it falls back to
// ordinary scope lookup for a named declaration (typedef, enum, class). A
// scoped name resolves the same way inside the named package's scope.
// types cannot do this resolution itself: it would need to import symbols
// for the scope lookup, but symbols already imports types, so the
// scope-free half lives on types.Table.ResolveBuiltinName and the
// scope-aware half lives here.
func (b *Binder) resolveDataType(node syntax.Node, ctx *BindContext) (types.Type, bool) {
	switch node.Kind() {
	case syntax.KindIdentifierName:
		name, ok := identifierText(node)
		if !ok {
			return nil, false
		}

		var forceSigned *bool
		if es, ok := node.(explicitSign); ok {
			if signed, ok := es.ExplicitSigned(); ok {
				forceSigned = &signed
			}
		}

		if t, ok := b.Types.ResolveBuiltinName(name, forceSigned); ok {
			return t, true
		}

		sym, ok := ctx.Scope.Lookup(b.Sink, name, symbols.NamespaceMembers, ctx.BeforeIndex)
		if !ok {
			return nil, false
		}
		return typeFromSymbol(sym)

	case syntax.KindScopedName:
		if node.ChildCount() < 2 {
			return nil, false
		}
		qualifier, ok := identifierText(node.Child(0))
		if !ok {
			return nil, false
		}
		member, ok := identifierText(node.Child(1))
		if !ok {
			return nil, false
		}

		pkgSym, ok := ctx.Scope.Lookup(b.Sink, qualifier, symbols.NamespacePackage, -1)
		if !ok {
			return nil, false
		}
		pkgScope, ok := pkgSym.(*symbols.Scope)
		if !ok {
			return nil, false
		}
		sym, ok := pkgScope.LookupDirect(b.Sink, member, symbols.NamespaceMembers, -1)
		if !ok {
			return nil, false
		}
		return typeFromSymbol(sym)

	default:
		return nil, false
	}
}

func typeFromSymbol(sym symbols.Symbol) (types.Type, bool) {
	switch s := sym.(type) {
	case *symbols.TypeSymbol:
		return s.Type, true
	case *symbols.TypeAlias:
		return s.Target, true
	default:
		return nil, false
	}
}

// BindDataType resolves a data-type syntax node into a types.Type,
// reporting a diagnostic on failure. Callers set AllowDataType on ctx
// before calling; BindDataType refuses to resolve anything without it, so
// a type name can never leak into a context expecting a value.
func (b *Binder) BindDataType(node syntax.Node, ctx *BindContext) (types.Type, bool) {
	if !ctx.Flags.Has(AllowDataType) {
		b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "a type name is not allowed here")
		return types.Error, false
	}

	if t, ok := b.resolveDataType(node, ctx); ok {
		return t, true
	}

	b.Sink.Errorf(node.Span(), diag.CodeNameNotFound, "does not name a data type")
	return types.Error, false
}
