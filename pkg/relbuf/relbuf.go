// Package relbuf builds position-independent records on top of relptr.
//
// A Record is a fixed-capacity aggregate: a small header of relative
// pointers followed by a byte tail they point into. Because every
// internal reference is relative, the whole record can be moved with a
// plain value copy, or written out as a raw image and restored at a
// completely different address, with no fixup pass.
package relbuf

import (
	"strconv"
	"unsafe"

	"github.com/brickingsoft/errors"
	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/relptr"
)

// TailSize is the byte capacity of a Record's tail region.
const TailSize = 256

var (
	ErrRecordFull = errors.Define("relbuf: record tail is full")
	ErrBadImage   = errors.Define("relbuf: snapshot image has wrong size")
)

// IsRecordFull reports whether err means the tail could not hold the
// requested bytes.
func IsRecordFull(err error) bool {
	return errors.Is(err, ErrRecordFull)
}

// Record is a self-contained relocatable record. The zero value is an
// empty record ready for use.
type Record struct {
	name    relptr.SlicePtr[byte, int16]
	payload relptr.SlicePtr[byte, int16]
	used    int16
	tail    [TailSize]byte
}

const recordSize = unsafe.Sizeof(Record{})

// SetName copies name into the tail and binds the record's name
// pointer to the copy.
func (r *Record) SetName(name []byte) error {
	buf, err := r.alloc(len(name))
	if err != nil {
		return err
	}
	copy(buf, name)
	return r.name.Set(buf)
}

// SetPayload copies payload into the tail and binds the record's
// payload pointer to the copy.
func (r *Record) SetPayload(payload []byte) error {
	buf, err := r.alloc(len(payload))
	if err != nil {
		return err
	}
	copy(buf, payload)
	return r.payload.Set(buf)
}

// Name returns the record's name region, or nil if none was set. The
// returned slice aliases the record's tail.
func (r *Record) Name() []byte {
	return r.name.Resolve()
}

// Payload returns the record's payload region, or nil if none was set.
// The returned slice aliases the record's tail.
func (r *Record) Payload() []byte {
	return r.payload.Resolve()
}

// Remaining returns how many tail bytes are still free.
func (r *Record) Remaining() int {
	return TailSize - int(r.used)
}

// Reset returns the record to its empty state.
func (r *Record) Reset() {
	*r = Record{}
}

func (r *Record) alloc(n int) ([]byte, error) {
	if int(r.used)+n > TailSize {
		return nil, errors.From(ErrRecordFull,
			errors.WithMeta("need", strconv.Itoa(n)),
			errors.WithMeta("free", strconv.Itoa(r.Remaining())),
		)
	}
	buf := r.tail[int(r.used) : int(r.used)+n]
	r.used += int16(n)
	return buf, nil
}

var (
	zenc *zstd.Encoder
	zdec *zstd.Decoder
)

func init() {
	zenc, _ = zstd.NewWriter(nil)
	zdec, _ = zstd.NewReader(nil)
}

// Snapshot serializes the record as a zstd-compressed copy of its raw
// bytes. The image is position independent for the same reason the
// record is: it holds offsets, never addresses.
func (r *Record) Snapshot() []byte {
	raw := unsafe.Slice((*byte)(unsafe.Pointer(r)), recordSize)
	return zenc.EncodeAll(raw, nil)
}

// RestoreRecord rebuilds a record from a Snapshot image. The restored
// record lives at a fresh address; its relative pointers need no
// adjustment.
func RestoreRecord(image []byte) (*Record, error) {
	raw, err := zdec.DecodeAll(image, nil)
	if err != nil {
		return nil, err
	}
	if uintptr(len(raw)) != recordSize {
		return nil, errors.From(ErrBadImage,
			errors.WithMeta("size", strconv.Itoa(len(raw))),
		)
	}
	r := new(Record)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(r)), recordSize), raw)
	return r, nil
}
