package types

import "fmt"

// DimKind is the closed set of array dimension shapes the type table can
// build.
type DimKind int

const (
	DimFixed       DimKind = iota // packed/unpacked [msb:lsb]
	DimDynamic                    // []
	DimAssociative                // [index_type] or [*]
	DimQueue                      // [$] or [$:bound]
)

// ArrayType represents every array form: packed, unpacked, dynamic,
// associative, and queue.
type ArrayType struct {
	Element Type
	DimKind DimKind

	// Bound is the fixed element count for DimFixed (msb-lsb+1, already
	// normalized) or the optional bound for DimQueue (0 means unbounded).
	Bound int

	// IndexType is set only for DimAssociative; nil means a wildcard index
	// (`[*]`), which accepts any integral or string key.
	IndexType Type

	// Packed marks a DimFixed array as a packed dimension of a larger
	// packed type rather than an unpacked array dimension. Repr does not
	// show it and Matching does not compare it, but the type table keys on
	// it, so packed and unpacked forms are distinct cached types (packed-ness is folded into
	// IntegralType for purely integral packed arrays by the type table,
	// this flag handles packed arrays of non-integral element types).
	Packed bool
}

func (at *ArrayType) Kind() Kind      { return KindArray }
func (at *ArrayType) Canonical() Type { return at }

func (at *ArrayType) Repr() string {
	switch at.DimKind {
	case DimDynamic:
		return at.Element.Repr() + "[]"
	case DimAssociative:
		if at.IndexType == nil {
			return at.Element.Repr() + "[*]"
		}
		return fmt.Sprintf("%s[%s]", at.Element.Repr(), at.IndexType.Repr())
	case DimQueue:
		if at.Bound > 0 {
			return fmt.Sprintf("%s[$:%d]", at.Element.Repr(), at.Bound)
		}
		return at.Element.Repr() + "[$]"
	default: // DimFixed
		return fmt.Sprintf("%s[%d:0]", at.Element.Repr(), at.Bound-1)
	}
}

// EnumValue is one member of an EnumType.
type EnumValue struct {
	Name  string
	Value int64
}

// EnumType represents an enumerated type and its integral base.
type EnumType struct {
	NamedTypeBase
	Base   *IntegralType
	Values []EnumValue
}

func (et *EnumType) Kind() Kind      { return KindEnum }
func (et *EnumType) Canonical() Type { return et }

// NamedTypeBase factors out the name/parent-id identity shared by every
// declared (as opposed to built-in) type, since two types in different
// packages may share a bare name.
type NamedTypeBase struct {
	PkgName  string
	TypeName string
	ParentID uint64
}

func (nt *NamedTypeBase) Name() string { return nt.TypeName }
func (nt *NamedTypeBase) Repr() string { return nt.PkgName + "::" + nt.TypeName }

// AliasType represents a `typedef` forwarding to a target type. Its
// Canonical() is the target's canonical form, which is what makes type
// aliases transparent to every compatibility relation.
type AliasType struct {
	NamedTypeBase
	Target Type
}

func (at *AliasType) Kind() Kind      { return KindAlias }
func (at *AliasType) Canonical() Type { return at.Target.Canonical() }
func (at *AliasType) Repr() string    { return at.NamedTypeBase.Repr() }

// ClassType represents a `class` declaration: a member scope (opaque to the
// type system proper, owned by the symbol graph), an optional base class,
// and the interfaces it implements.
type ClassType struct {
	NamedTypeBase
	Base       *ClassType
	Interfaces []*ClassType

	// MemberScope is an opaque handle into the symbol graph (symbols.Scope)
	// holding the class's properties and methods. It is declared as
	// interface{} here to avoid a types<->symbols import cycle; callers
	// type-assert it to *symbols.Scope.
	MemberScope interface{}
}

func (ct *ClassType) Kind() Kind      { return KindClass }
func (ct *ClassType) Canonical() Type { return ct }

// IsDerivedFrom reports whether ct is base or inherits from base, directly or
// transitively.
func (ct *ClassType) IsDerivedFrom(base *ClassType) bool {
	for c := ct; c != nil; c = c.Base {
		if c == base {
			return true
		}
	}
	return false
}

// CommonBase returns the deepest class type present in both class
// hierarchies, or nil, by walking a's ancestor chain into a found-set and
// then walking b's chain looking for the first hit.
func CommonBase(a, b *ClassType) *ClassType {
	ancestors := make(map[*ClassType]struct{})
	for c := a; c != nil; c = c.Base {
		ancestors[c] = struct{}{}
	}

	for c := b; c != nil; c = c.Base {
		if _, ok := ancestors[c]; ok {
			return c
		}
	}

	return nil
}
