package constval

import "testing"

func TestNewIntRoundTrip(t *testing.T) {
	i := NewInt(8, false, false, 42)
	if got := i.String(); got != "42" {
		t.Errorf("String() = %q, want %q", got, "42")
	}
	if i.HasUnknown() {
		t.Error("fresh NewInt should have no unknown bits")
	}
}

func TestAddFourStatePropagatesUnknown(t *testing.T) {
	// 4'b10x1 + 4'b0001 -> all-X since one operand has an unknown bit.
	a := AllX(4, false)
	a.Value.SetInt64(0b1001)
	a.Unknown.SetInt64(0b0010) // bit 1 unknown
	b := NewInt(4, false, true, 1)

	sum := Add(a, b)
	if !sum.HasUnknown() {
		t.Fatal("expected result to be fully unknown")
	}
	for bit := 0; bit < 4; bit++ {
		if sum.Unknown.Bit(bit) != 1 {
			t.Errorf("bit %d: expected unknown, pattern=%s", bit, sum.String())
		}
	}
}

func TestAddKnownValues(t *testing.T) {
	a := NewInt(8, false, true, 5)
	b := NewInt(8, false, true, 3)
	sum := Add(a, b)
	if sum.String() != "8" {
		t.Errorf("5 + 3 = %s, want 8", sum.String())
	}
}

func TestDivByZeroReportsFlag(t *testing.T) {
	a := NewInt(8, false, true, 10)
	b := NewInt(8, false, true, 0)
	res := Div(a, b)
	if !res.DivByZero {
		t.Error("expected DivByZero to be set")
	}
	if !res.Value.HasUnknown() {
		t.Error("expected all-X result on divide by zero")
	}
}

func TestAndDominantZero(t *testing.T) {
	// 0 & x == 0 regardless of the unknown bit (dominant-zero rule).
	zero := NewInt(1, false, true, 0)
	x := AllX(1, false)
	res := And(zero, x)
	if res.HasUnknown() {
		t.Errorf("expected known 0 result, got %s", res.String())
	}
	if res.Value.Sign() != 0 {
		t.Errorf("expected 0, got %s", res.String())
	}
}

func TestOrDominantOne(t *testing.T) {
	one := NewInt(1, false, true, 1)
	x := AllX(1, false)
	res := Or(one, x)
	if res.HasUnknown() {
		t.Errorf("expected known 1 result, got %s", res.String())
	}
	if res.Value.Sign() == 0 {
		t.Errorf("expected 1, got %s", res.String())
	}
}

func TestShrLogicalVsArithmetic(t *testing.T) {
	neg1 := NewInt(8, true, false, -1) // all bits set, signed
	arith := Shr(neg1, 4)
	if arith.String() != "-1" {
		t.Errorf("arithmetic shift of -1 should saturate to -1, got %s", arith.String())
	}

	unsignedNeg1 := NewInt(8, false, false, -1) // 0xFF unsigned
	logical := Shr(unsignedNeg1, 4)
	if logical.String() != "15" {
		t.Errorf("logical shift of 0xFF by 4 should be 15, got %s", logical.String())
	}
}

func TestCompareUnknownYieldsUnknown(t *testing.T) {
	a := AllX(4, false)
	b := NewInt(4, false, true, 0)
	if got := Eq(a, b); got != Unknown {
		t.Errorf("Eq with an unknown operand = %v, want Unknown", got)
	}
}

func TestCaseEqMatchesUnknownBitsLiterally(t *testing.T) {
	a := AllX(4, false)
	b := AllX(4, false)
	if !CaseEq(a, b) {
		t.Error("two identically-all-X values should be === equal")
	}
	known := NewInt(4, false, true, 0)
	if CaseEq(a, known) {
		t.Error("an all-X value should not be === equal to a known 0")
	}
}

func TestCoerceRoundTrip(t *testing.T) {
	i := NewInt(4, false, true, 0b1010)
	widened := Coerce(i, 8, false)
	if widened.Width != 8 {
		t.Fatalf("expected width 8, got %d", widened.Width)
	}
	narrowed := Coerce(widened, 4, false)
	if narrowed.String() != i.String() {
		t.Errorf("round-trip coerce changed value: %s != %s", narrowed.String(), i.String())
	}
}

func TestToBoolUnknownBit(t *testing.T) {
	x := AllX(4, false)
	if got := x.ToBool(); got != Unknown {
		t.Errorf("ToBool on all-X = %v, want Unknown", got)
	}
	zero := NewInt(4, false, true, 0)
	if got := zero.ToBool(); got != False {
		t.Errorf("ToBool on 0 = %v, want False", got)
	}
	one := NewInt(4, false, true, 1)
	if got := one.ToBool(); got != True {
		t.Errorf("ToBool on 1 = %v, want True", got)
	}
}
