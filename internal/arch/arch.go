package arch

import "unsafe"

// WordBytes is the size of the native machine word. Go guarantees that
// int, uintptr and unsafe.Pointer all share this width.
const WordBytes = unsafe.Sizeof(uintptr(0))

// WordBits is the native word width in bits.
const WordBits = WordBytes * 8

// SubOverflows reports whether the native-word signed subtraction
// d = a - b wrapped. The check is the usual sign trick: overflow can
// only happen when the operands have opposite signs and the result has
// the opposite sign of the minuend.
func SubOverflows(a, b, d int) bool {
	return (a^b) < 0 && (a^d) < 0
}

// Add applies a signed byte displacement to base.
func Add(base unsafe.Pointer, off int) unsafe.Pointer {
	return unsafe.Add(base, off)
}

// IfaceHeader mirrors the runtime's two-word interface representation:
// a type (or itab) word followed by a data word. Only the iface package
// may reinterpret values through it; the layout is implementation
// defined and not covered by the Go 1 compatibility promise.
type IfaceHeader struct {
	Tab  unsafe.Pointer
	Data unsafe.Pointer
}
