// Package iface lets interface values be used as relative-pointer
// pointees. It is the one package that reinterprets Go's two-word
// interface representation (a type or itab word plus a data word);
// that layout is implementation defined, which is why this support is
// isolated here as an explicit opt-in instead of living in relptr.
//
// The descriptor stored next to the offset is the type word, so the
// dynamic type travels with the pointer while the data word is encoded
// relatively. The usual lifetime rule applies to the value the data
// word addresses: it must move together with the pointer or not at all.
package iface

import (
	"reflect"
	"unsafe"

	"github.com/rawbytedev/relptr"
	"github.com/rawbytedev/relptr/internal/arch"
)

// Meta implements relptr.Meta for an interface type T. Instantiating it
// with a non-interface type is a programming error; Decompose panics on
// it rather than corrupt memory.
type Meta[T any] struct{}

func (Meta[T]) Decompose(v T) (unsafe.Pointer, unsafe.Pointer) {
	assertInterface[T]()
	h := (*arch.IfaceHeader)(unsafe.Pointer(&v))
	return h.Data, h.Tab
}

func (Meta[T]) Compose(addr unsafe.Pointer, tab unsafe.Pointer) T {
	var v T
	if addr == nil {
		return v
	}
	h := (*arch.IfaceHeader)(unsafe.Pointer(&v))
	h.Tab, h.Data = tab, addr
	return v
}

// Ptr is a relative pointer whose pointee is an interface value of
// type T.
type Ptr[T any, I relptr.Offset] = relptr.RelPtr[T, unsafe.Pointer, Meta[T], I]

func assertInterface[T any]() {
	if reflect.TypeFor[T]().Kind() != reflect.Interface {
		panic("iface: type parameter " + reflect.TypeFor[T]().String() + " is not an interface type")
	}
}
