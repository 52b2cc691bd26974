// Package relptr implements relative pointers: pointers stored as a
// signed byte offset from their own address instead of an absolute
// address. A relative pointer and its pointee can be relocated together
// by a plain byte copy without invalidating the pointer, which makes
// moveable self-referential values possible.
//
// The zero value of every pointer type here is null. Exactly one
// successful Set binds it; after that the pointer stays valid for as
// long as the pointer's storage and the pointee's storage keep their
// relative positions. That precondition is the caller's to uphold, the
// encoding cannot detect violations of it. Never relocate one of the
// two independently of the other (for example by swapping only one
// field of the enclosing struct).
package relptr

import "unsafe"

// RelPtr is a relative pointer to a pointee referenced as R, with
// descriptor D produced by the Meta implementation M, storing its
// offset in I. Most code wants the Ptr or SlicePtr aliases instead of
// spelling out all four parameters.
//
// A RelPtr is a plain value holding only the descriptor and the offset;
// there is no hidden validity flag. Null is encoded as offset zero,
// meaning "points to itself". Copying one is only meaningful when the
// pointee is copied along with it at the same relative distance.
type RelPtr[R any, D any, M Meta[R, D], I Offset] struct {
	data D
	off  I
}

// Ptr is a relative pointer to a single value of type T.
type Ptr[T any, I Offset] = RelPtr[*T, Unit, Sized[T], I]

// SlicePtr is a relative pointer to a slice of E; the element count
// travels with the pointer as its descriptor.
type SlicePtr[E any, I Offset] = RelPtr[[]E, int, Slices[E], I]

// IsNull reports whether the pointer was never successfully set. A
// pointer legitimately set to its own address also reads as null; use
// SetNonZero to surface that case as an error instead.
func (p *RelPtr[R, D, M, I]) IsNull() bool {
	return p.off == 0
}

// Set binds the pointer to v, computing the offset from p's current
// address. On error nothing is stored and p keeps its previous state.
func (p *RelPtr[R, D, M, I]) Set(v R) error {
	var m M
	addr, data := m.Decompose(v)
	off, err := Sub[I](uintptr(addr), uintptr(unsafe.Pointer(p)))
	if err != nil {
		return err
	}
	p.off, p.data = off, data
	return nil
}

// SetNonZero is Set with a coincident pointer and pointee rejected as
// ErrZeroOffset rather than silently stored as null.
func (p *RelPtr[R, D, M, I]) SetNonZero(v R) error {
	var m M
	addr, data := m.Decompose(v)
	off, err := SubNonZero[I](uintptr(addr), uintptr(unsafe.Pointer(p)))
	if err != nil {
		return err
	}
	p.off, p.data = off, data
	return nil
}

// SetUnchecked binds the pointer to v without range checking. If the
// distance does not fit I the stored offset is wrapped garbage; only
// use this when the layout guarantees the distance.
func (p *RelPtr[R, D, M, I]) SetUnchecked(v R) {
	var m M
	addr, data := m.Decompose(v)
	p.off = SubUnchecked[I](uintptr(addr), uintptr(unsafe.Pointer(p)))
	p.data = data
}

// Resolve reconstructs the pointee reference from p's current address.
// A null pointer resolves to the zero R (nil pointer, nil slice).
//
// The result is only valid if the relative position of p and its
// pointee has not changed since Set.
func (p *RelPtr[R, D, M, I]) Resolve() R {
	if p.IsNull() {
		var m M
		var d D
		return m.Compose(nil, d)
	}
	return p.ResolveUnchecked()
}

// ResolveUnchecked reconstructs the pointee reference without the null
// check. Resolving a pointer that was never successfully set
// dereferences junk; the checked Resolve is the safe path.
func (p *RelPtr[R, D, M, I]) ResolveUnchecked() R {
	var m M
	addr := Add(p.off, unsafe.Pointer(p))
	return m.Compose(addr, p.data)
}

// Offset returns the raw stored offset in bytes. Useful when tuning the
// offset width of a pointer declaration.
func (p *RelPtr[R, D, M, I]) Offset() I {
	return p.off
}

// Equal reports whether p and q are the same pointer cell. Two distinct
// relative pointers with identical offsets generally target different
// absolute addresses, so identity is the only meaningful equality.
func (p *RelPtr[R, D, M, I]) Equal(q *RelPtr[R, D, M, I]) bool {
	return p == q
}
