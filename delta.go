package relptr

import (
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/rawbytedev/relptr/internal/arch"
)

// Offset is the set of signed integer types that can store a relative
// pointer's offset. Narrower widths shrink the pointer but also shrink
// the range it can reach: an int8 offset reaches at most 127 bytes
// forward and 128 bytes back. int is the native-word width and reaches
// half of the address space, so it always works.
type Offset interface {
	constraints.Signed
}

// Sub computes the signed byte distance a-b and narrows it to I.
//
// The subtraction is performed at native word width first; if even that
// wraps, ErrSubOverflow is returned. If I is narrower than the native
// word and the distance falls outside [min(I), max(I)], ErrConvOverflow
// is returned carrying the out-of-range distance. The exact boundary
// values are valid offsets.
func Sub[I Offset](a, b uintptr) (I, error) {
	ai, bi := int(a), int(b)
	d := ai - bi
	if arch.SubOverflows(ai, bi, d) {
		return 0, subOverflowErr(a, b)
	}
	if !fits[I](d) {
		return 0, convOverflowErr(d)
	}
	return I(d), nil
}

// SubNonZero is Sub with the degenerate zero distance rejected: a
// relative pointer whose offset is zero is indistinguishable from the
// null sentinel, so callers that must detect accidental self-pointing
// use this path and get ErrZeroOffset instead of a silent null.
func SubNonZero[I Offset](a, b uintptr) (I, error) {
	ai, bi := int(a), int(b)
	d := ai - bi
	if arch.SubOverflows(ai, bi, d) {
		return 0, subOverflowErr(a, b)
	}
	if d == 0 {
		return 0, zeroOffsetErr(a)
	}
	if !fits[I](d) {
		return 0, convOverflowErr(d)
	}
	return I(d), nil
}

// SubUnchecked computes a-b with no overflow or range checks. The
// caller must have established that the distance fits I; otherwise the
// stored offset is silently wrapped garbage.
func SubUnchecked[I Offset](a, b uintptr) I {
	return I(int(a) - int(b))
}

// Add applies off to base as a signed byte displacement. No bounds
// checking against any allocation is performed; the target may lie
// outside anything the offset type knows about.
func Add[I Offset](off I, base unsafe.Pointer) unsafe.Pointer {
	return arch.Add(base, int(off))
}

// fits reports whether the native-word distance d is representable by
// I. Widths at or above the native word always fit: the subtraction
// itself was already checked at word width.
func fits[I Offset](d int) bool {
	if unsafe.Sizeof(I(0)) >= arch.WordBytes {
		return true
	}
	bits := uint(unsafe.Sizeof(I(0))) * 8
	max := 1<<(bits-1) - 1
	return d >= -max-1 && d <= max
}
