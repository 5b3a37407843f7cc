package types

import "testing"

func TestMatchingIdenticalIntegral(t *testing.T) {
	a := &IntegralType{Width: 8, Signed: false, FourState: true}
	b := &IntegralType{Width: 8, Signed: false, FourState: true}
	if !Matching(a, b) {
		t.Error("two integral types with identical shape should Match")
	}
}

func TestMatchingDiffersOnReg(t *testing.T) {
	a := &IntegralType{Width: 8, FourState: true, IsReg: true}
	b := &IntegralType{Width: 8, FourState: true, IsReg: false}
	if Matching(a, b) {
		t.Error("reg vs non-reg integral types should not Match")
	}
}

func TestEquivalentIgnoresRegDistinction(t *testing.T) {
	a := &IntegralType{Width: 8, FourState: true, IsReg: true}
	b := &IntegralType{Width: 8, FourState: true, IsReg: false}
	if !Equivalent(a, b) {
		t.Error("reg vs non-reg integral types of identical shape should be Equivalent")
	}
}

func TestAliasCanonicalUnwraps(t *testing.T) {
	target := &IntegralType{Width: 4, FourState: true}
	alias := &AliasType{NamedTypeBase: NamedTypeBase{TypeName: "nibble"}, Target: target}

	if alias.Canonical() != target {
		t.Error("alias Canonical() should forward to its target")
	}
	if !Matching(alias, target) {
		t.Error("an alias should Match its underlying target")
	}
}

func TestAssignmentCompatibleNumericCoercion(t *testing.T) {
	i := &IntegralType{Width: 32, Signed: true}
	r := &RealType{DoublePrecision: true}
	if !AssignmentCompatible(i, r) {
		t.Error("expected integral <- real to be assignment-compatible")
	}
}

func TestAssignmentCompatibleClassInheritance(t *testing.T) {
	base := &ClassType{NamedTypeBase: NamedTypeBase{TypeName: "Base"}}
	derived := &ClassType{NamedTypeBase: NamedTypeBase{TypeName: "Derived"}, Base: base}

	if !AssignmentCompatible(base, derived) {
		t.Error("a derived-class value should be assignable to a base-class variable")
	}
	if AssignmentCompatible(derived, base) {
		t.Error("a base-class value should not be assignable to a derived-class variable")
	}
}

func TestCommonBaseFindsDeepestShared(t *testing.T) {
	root := &ClassType{NamedTypeBase: NamedTypeBase{TypeName: "Root"}}
	mid := &ClassType{NamedTypeBase: NamedTypeBase{TypeName: "Mid"}, Base: root}
	leafA := &ClassType{NamedTypeBase: NamedTypeBase{TypeName: "A"}, Base: mid}
	leafB := &ClassType{NamedTypeBase: NamedTypeBase{TypeName: "B"}, Base: mid}

	common := CommonBase(leafA, leafB)
	if common != mid {
		t.Errorf("expected common base Mid, got %v", common)
	}
}

func TestErrorTypeNeverMatchesItself(t *testing.T) {
	if Matching(Error, Error) {
		t.Error("the error sentinel type must never Match, even itself, to suppress cascades")
	}
}

func TestTableGetIntegralCaching(t *testing.T) {
	table := NewTable()
	a := table.GetIntegral(8, false, true, false)
	b := table.GetIntegral(8, false, true, false)
	if a != b {
		t.Error("identical integral requests should return the same cached pointer")
	}
	c := table.GetIntegral(16, false, true, false)
	if a == c {
		t.Error("different widths should produce distinct types")
	}
}

func TestTableGetArrayDimensionOrder(t *testing.T) {
	table := NewTable()
	elem := table.GetIntegral(8, false, true, false)
	// logic [7:0] mem [0:3][0:7] -- dims[0] is outermost.
	arr := table.GetArray(elem, []DimDescriptor{
		{Kind: DimFixed, MSB: 3, LSB: 0},
		{Kind: DimFixed, MSB: 7, LSB: 0},
	})

	outer, ok := arr.(*ArrayType)
	if !ok {
		t.Fatalf("expected *ArrayType, got %T", arr)
	}
	if outer.Bound != 4 {
		t.Errorf("outer bound = %d, want 4", outer.Bound)
	}
	inner, ok := outer.Element.(*ArrayType)
	if !ok {
		t.Fatalf("expected inner *ArrayType, got %T", outer.Element)
	}
	if inner.Bound != 8 {
		t.Errorf("inner bound = %d, want 8", inner.Bound)
	}
	if inner.Element != elem {
		t.Error("innermost element should be the scalar element type")
	}
}
