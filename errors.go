package relptr

import (
	"strconv"

	"github.com/brickingsoft/errors"
)

var (
	ErrSubOverflow  = errors.Define("relptr: address subtraction overflows native word")
	ErrConvOverflow = errors.Define("relptr: distance does not fit offset width")
	ErrZeroOffset   = errors.Define("relptr: pointer and pointee coincide")
)

// IsSubOverflow reports whether err came from two addresses farther
// apart than the native signed word can express.
func IsSubOverflow(err error) bool {
	return errors.Is(err, ErrSubOverflow)
}

// IsConvOverflow reports whether err came from a distance that is
// representable natively but not in the chosen offset width. The fix is
// to declare the pointer with a wider Offset type.
func IsConvOverflow(err error) bool {
	return errors.Is(err, ErrConvOverflow)
}

// IsZeroOffset reports whether err came from the non-zero subtraction
// path observing a coincident pointer and pointee.
func IsZeroOffset(err error) bool {
	return errors.Is(err, ErrZeroOffset)
}

const (
	errMetaPkgKey = "pkg"
	errMetaPkgVal = "relptr"
)

const (
	errMetaMinuendKey    = "minuend"
	errMetaSubtrahendKey = "subtrahend"
	errMetaDistanceKey   = "distance"
)

func subOverflowErr(a, b uintptr) error {
	return errors.From(ErrSubOverflow,
		errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
		errors.WithMeta(errMetaMinuendKey, "0x"+strconv.FormatUint(uint64(a), 16)),
		errors.WithMeta(errMetaSubtrahendKey, "0x"+strconv.FormatUint(uint64(b), 16)),
	)
}

func convOverflowErr(d int) error {
	return errors.From(ErrConvOverflow,
		errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
		errors.WithMeta(errMetaDistanceKey, strconv.Itoa(d)),
	)
}

func zeroOffsetErr(a uintptr) error {
	return errors.From(ErrZeroOffset,
		errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
		errors.WithMeta(errMetaMinuendKey, "0x"+strconv.FormatUint(uint64(a), 16)),
	)
}
