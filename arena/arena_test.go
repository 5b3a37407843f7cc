package arena

import "testing"

func TestAllocReturnsStableHandle(t *testing.T) {
	a := New[string](0)
	h1 := a.Alloc("first")
	h2 := a.Alloc("second")

	if *a.Get(h1) != "first" || *a.Get(h2) != "second" {
		t.Fatalf("handles did not round-trip: h1=%q h2=%q", *a.Get(h1), *a.Get(h2))
	}
}

func TestAllocHandleSurvivesGrowth(t *testing.T) {
	a := New[int](1)
	h := a.Alloc(42)
	for i := 0; i < 100; i++ {
		a.Alloc(i)
	}
	if *a.Get(h) != 42 {
		t.Errorf("handle invalidated by slab growth: got %d, want 42", *a.Get(h))
	}
}

func TestGetOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an out-of-range handle")
		}
	}()
	a := New[int](0)
	a.Get(Handle(0))
}

func TestCloseReleasesAndFurtherUsePanics(t *testing.T) {
	a := New[int](0)
	h := a.Alloc(1)
	a.Close()

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for Get after Close")
		}
	}()
	a.Get(h)
}

func TestLenReflectsAllocCount(t *testing.T) {
	a := New[int](0)
	if a.Len() != 0 {
		t.Fatalf("fresh arena Len() = %d, want 0", a.Len())
	}
	a.Alloc(1)
	a.Alloc(2)
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}
