// Package arena provides scoped, append-only storage for a Compilation's
// symbols, types, expressions, and constant values plus string interning to
// stable small ids, generalizing the map-based caching idiom types.Table
// already uses for integral and array types into a standalone component the
// rest of the core can hold onto directly. Everything an Arena hands out
// lives for the lifetime of the owning Compilation; there is no per-object
// release, only en bloc teardown via Close.
package arena

import "fmt"

// Handle is a stable reference into an Arena's slab: an index that remains
// valid until the Arena is closed, independent of any Go pointer to the
// backing slice (which may move as the slice grows).
type Handle uint32

// Arena is a growable slab of T, indexed by Handle. It never shrinks or
// reorders; Alloc always appends. A closed Arena panics on further use
// rather than silently handing back garbage, since a use-after-close is
// always a bug in the caller's lifetime management, not a recoverable
// condition.
type Arena[T any] struct {
	slab   []T
	closed bool
}

// New creates an empty Arena, optionally pre-sizing its backing slab.
func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{slab: make([]T, 0, capacity)}
}

// Alloc appends v to the slab and returns a stable Handle for it.
func (a *Arena[T]) Alloc(v T) Handle {
	if a.closed {
		panic("arena: Alloc after Close")
	}
	a.slab = append(a.slab, v)
	return Handle(len(a.slab) - 1)
}

// Get dereferences h. Panics on an out-of-range handle: a Handle only ever
// comes from this Arena's own Alloc, so an invalid one means the caller
// mixed up handles from two different arenas.
func (a *Arena[T]) Get(h Handle) *T {
	if a.closed {
		panic("arena: Get after Close")
	}
	if int(h) >= len(a.slab) {
		panic(fmt.Sprintf("arena: handle %d out of range (len %d)", h, len(a.slab)))
	}
	return &a.slab[h]
}

// Len reports how many values have been allocated.
func (a *Arena[T]) Len() int {
	return len(a.slab)
}

// Close releases the slab en bloc: the backing array is dropped so the
// garbage collector can reclaim it, and any further Alloc/Get panics. A
// Compilation calls this once when the caller discards it.
func (a *Arena[T]) Close() {
	a.slab = nil
	a.closed = true
}
