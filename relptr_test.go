package relptr

import (
	"testing"
	"testing/quick"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selfRef is the canonical moveable self-referential aggregate: the
// pointer targets a sibling field.
type selfRef struct {
	value string
	count uint32
	ptr   Ptr[string, int8]
}

// span places a 256-byte region right after a 1-byte pointer cell, so
// &data[i] sits exactly i+1 bytes after the pointer.
type span struct {
	ptr  Ptr[byte, int8]
	data [256]byte
}

// backSpan places the region before the pointer for negative offsets.
type backSpan struct {
	data [256]byte
	ptr  Ptr[byte, int8]
}

func TestZeroValueIsNull(t *testing.T) {
	var p Ptr[string, int8]
	require.True(t, p.IsNull())
	require.Nil(t, p.Resolve())

	var sp SlicePtr[byte, int16]
	require.True(t, sp.IsNull())
	require.Nil(t, sp.Resolve())
}

func TestSetResolveRoundTrip(t *testing.T) {
	s := selfRef{value: "Hello World", count: 10}
	require.NoError(t, s.ptr.Set(&s.value))
	require.False(t, s.ptr.IsNull())
	require.Same(t, &s.value, s.ptr.Resolve())
	assert.Equal(t, "Hello World", *s.ptr.Resolve())
	assert.Equal(t, uint32(10), s.count)
}

func TestRelocationValueCopy(t *testing.T) {
	s := selfRef{value: "Hello World", count: 10}
	require.NoError(t, s.ptr.Set(&s.value))

	moved := s
	require.Same(t, &moved.value, moved.ptr.Resolve())
	assert.Equal(t, "Hello World", *moved.ptr.Resolve())
	// each copy resolves into its own field
	assert.NotSame(t, s.ptr.Resolve(), moved.ptr.Resolve())
}

func TestRelocationHeapMove(t *testing.T) {
	s := selfRef{value: "Hello World", count: 10}
	require.NoError(t, s.ptr.Set(&s.value))

	boxed := new(selfRef)
	*boxed = s
	require.Same(t, &boxed.value, boxed.ptr.Resolve())
	assert.Equal(t, "Hello World", *boxed.ptr.Resolve())
}

func TestRelocationBulkByteCopy(t *testing.T) {
	src := new(span)
	src.data[99] = 0xaa
	require.NoError(t, src.ptr.Set(&src.data[99]))

	dst := new(span)
	sz := unsafe.Sizeof(span{})
	copy(unsafe.Slice((*byte)(unsafe.Pointer(dst)), sz),
		unsafe.Slice((*byte)(unsafe.Pointer(src)), sz))

	require.Same(t, &dst.data[99], dst.ptr.Resolve())
	assert.Equal(t, byte(0xaa), *dst.ptr.Resolve())
}

func TestInt8Scenario(t *testing.T) {
	s := new(span)
	// pointee 100 bytes after the pointer cell
	require.NoError(t, s.ptr.Set(&s.data[99]))
	assert.Equal(t, int8(100), s.ptr.Offset())
	assert.Same(t, &s.data[99], s.ptr.Resolve())

	// 200 bytes away does not fit an int8; the pointer stays null
	q := new(span)
	err := q.ptr.Set(&q.data[199])
	require.Error(t, err)
	assert.True(t, IsConvOverflow(err))
	assert.True(t, q.ptr.IsNull())
	assert.Nil(t, q.ptr.Resolve())
}

func TestOffsetBoundaryMax(t *testing.T) {
	s := new(span)
	require.NoError(t, s.ptr.Set(&s.data[126])) // +127
	assert.Equal(t, int8(127), s.ptr.Offset())
	assert.Same(t, &s.data[126], s.ptr.Resolve())

	err := s.ptr.Set(&s.data[127]) // +128, one past max
	require.Error(t, err)
	assert.True(t, IsConvOverflow(err))
	// a failed Set leaves the previous binding intact
	assert.Equal(t, int8(127), s.ptr.Offset())
	assert.Same(t, &s.data[126], s.ptr.Resolve())
}

func TestOffsetBoundaryMin(t *testing.T) {
	s := new(backSpan)
	require.NoError(t, s.ptr.Set(&s.data[128])) // -128
	assert.Equal(t, int8(-128), s.ptr.Offset())
	assert.Same(t, &s.data[128], s.ptr.Resolve())

	err := s.ptr.Set(&s.data[127]) // -129, one past min
	require.Error(t, err)
	assert.True(t, IsConvOverflow(err))
	assert.Same(t, &s.data[128], s.ptr.Resolve())
}

func TestSelfPointingAliasesNull(t *testing.T) {
	var p Ptr[byte, int16]
	self := (*byte)(unsafe.Pointer(&p))

	// offset zero is stored fine but is indistinguishable from the
	// sentinel afterwards
	require.NoError(t, p.Set(self))
	assert.True(t, p.IsNull())

	err := p.SetNonZero(self)
	require.Error(t, err)
	assert.True(t, IsZeroOffset(err))
}

func TestSetNonZero(t *testing.T) {
	s := new(span)
	require.NoError(t, s.ptr.SetNonZero(&s.data[9]))
	assert.Equal(t, int8(10), s.ptr.Offset())
	assert.Same(t, &s.data[9], s.ptr.Resolve())
}

func TestSetUnchecked(t *testing.T) {
	s := new(span)
	s.ptr.SetUnchecked(&s.data[99])
	assert.Equal(t, int8(100), s.ptr.Offset())
	assert.Same(t, &s.data[99], s.ptr.ResolveUnchecked())
}

func TestSliceRoundTrip(t *testing.T) {
	type sliceHost struct {
		buf [64]byte
		ptr SlicePtr[byte, int16]
	}
	h := new(sliceHost)
	require.NoError(t, h.ptr.Set(h.buf[8:24]))

	got := h.ptr.Resolve()
	require.Len(t, got, 16)
	got[0] = 0x7f
	assert.Equal(t, byte(0x7f), h.buf[8])

	moved := *h
	require.Len(t, moved.ptr.Resolve(), 16)
	assert.Same(t, &moved.buf[8], &moved.ptr.Resolve()[0])
	assert.Equal(t, byte(0x7f), moved.ptr.Resolve()[0])
}

func TestEqualIsIdentity(t *testing.T) {
	a, b := new(span), new(span)
	require.NoError(t, a.ptr.Set(&a.data[9]))
	require.NoError(t, b.ptr.Set(&b.data[9]))

	assert.True(t, a.ptr.Equal(&a.ptr))
	// identical offsets, different cells, different targets
	assert.Equal(t, a.ptr.Offset(), b.ptr.Offset())
	assert.False(t, a.ptr.Equal(&b.ptr))
}

func TestSizeContract(t *testing.T) {
	assert.Equal(t, uintptr(1), unsafe.Sizeof(Ptr[string, int8]{}))
	assert.Equal(t, uintptr(2), unsafe.Sizeof(Ptr[string, int16]{}))
	assert.Equal(t, uintptr(4), unsafe.Sizeof(Ptr[string, int32]{}))
	assert.Equal(t, uintptr(8), unsafe.Sizeof(Ptr[string, int64]{}))
	// count word plus offset, padded to word alignment
	assert.Equal(t, 2*unsafe.Sizeof(int(0)), unsafe.Sizeof(SlicePtr[byte, int16]{}))
}

func TestQuickRoundTrip(t *testing.T) {
	type wideSpan struct {
		ptr  Ptr[byte, int16]
		data [256]byte
	}
	s := new(wideSpan)
	condition := func(i uint8) bool {
		if err := s.ptr.Set(&s.data[i]); err != nil {
			return false
		}
		return s.ptr.Resolve() == &s.data[i]
	}
	require.NoError(t, quick.Check(condition, nil))
}
