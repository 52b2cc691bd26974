package relptr

import "unsafe"

// Unit is the empty descriptor of fixed-size pointees.
type Unit = struct{}

// Meta splits a pointee reference R into its raw data address plus a
// descriptor D, and recombines the two back into R. For fixed-size
// pointees the descriptor is empty; dynamically-sized pointees carry a
// length or a type word in it.
//
// Implementations must be stateless zero-size structs: RelPtr
// instantiates them on demand, so any state would be lost. Compose must
// tolerate a nil address and produce the zero R for it.
type Meta[R any, D any] interface {
	Decompose(R) (unsafe.Pointer, D)
	Compose(unsafe.Pointer, D) R
}

// Sized is the Meta implementation for ordinary fixed-size pointees,
// referenced as *T. The descriptor is empty: the address alone fully
// describes the pointee.
type Sized[T any] struct{}

func (Sized[T]) Decompose(p *T) (unsafe.Pointer, Unit) {
	return unsafe.Pointer(p), Unit{}
}

func (Sized[T]) Compose(addr unsafe.Pointer, _ Unit) *T {
	return (*T)(addr)
}

// Slices is the Meta implementation for slice pointees. The descriptor
// carries the element count; capacity is not preserved, a recomposed
// slice has cap == len.
type Slices[E any] struct{}

func (Slices[E]) Decompose(s []E) (unsafe.Pointer, int) {
	return unsafe.Pointer(unsafe.SliceData(s)), len(s)
}

func (Slices[E]) Compose(addr unsafe.Pointer, n int) []E {
	if addr == nil {
		return nil
	}
	return unsafe.Slice((*E)(addr), n)
}
