package integer

import (
	"encoding/binary"
	"math"
	"math/big"
	"slices"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/limbs"
)

type storage uint8

const (
	storageStatic storage = iota
	storageDynamic
)

// Int is a signed arbitrary-precision integer whose small values live
// inline. The zero value is a static zero and is ready to use.
type Int[W Width] struct {
	tag storage
	st  static[W]
	dy  dynamic
}

// New returns x as an Int, static when it fits two W-bit limbs.
func New[W Width](x int64) Int[W] {
	if s, ok := staticFromInt64[W](x); ok {
		return Int[W]{st: s}
	}
	return Int[W]{tag: storageDynamic, dy: dynamicFromInt64(x)}
}

// NewUint64 returns x as an Int.
func NewUint64[W Width](x uint64) Int[W] {
	if s, ok := staticFromUint64[W](x); ok {
		return Int[W]{st: s}
	}
	return Int[W]{tag: storageDynamic, dy: dynamic{newMpz().SetUint64(x)}}
}

// FromFloat64 truncates f toward zero. Non-finite values are a domain
// error.
func FromFloat64[W Width](f float64) (Int[W], error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Int[W]{}, apperrors.Domainf("cannot convert non-finite value %v to an integer", f)
	}
	t := math.Trunc(f)
	if t >= -(1<<63) && t < 1<<63 {
		return New[W](int64(t)), nil
	}
	b, _ := new(big.Float).SetFloat64(t).Int(nil)
	return FromBig[W](b), nil
}

// Parse reads a base-10 integer with an optional sign.
func Parse[W Width](s string) (Int[W], error) {
	z, ok := newMpz().SetString(s, 10)
	if !ok {
		return Int[W]{}, apperrors.Domainf("invalid integer literal %q", s)
	}
	return fromDynamic[W](dynamic{z}), nil
}

// FromBig converts a math/big integer.
func FromBig[W Width](b *big.Int) Int[W] {
	return fromDynamic[W](dynamic{mpzFromBig(b)})
}

// FromDigits builds an Int from a sign and a big-endian magnitude, the
// representation shared with the rational and real packages.
func FromDigits[W Width](neg bool, mag []byte) Int[W] {
	return fromDynamic[W](dynamicFromDigits(neg, mag))
}

// fromDynamic picks the static storage when d fits. It is only used while
// constructing new values.
func fromDynamic[W Width](d dynamic) Int[W] {
	if s, ok := toStatic[W](d); ok {
		return Int[W]{st: s}
	}
	return Int[W]{tag: storageDynamic, dy: d}
}

// IsStatic reports whether x is held in the inline storage.
func (x Int[W]) IsStatic() bool { return x.tag == storageStatic }

// Promote moves x to the dynamic storage. It is a no-op on a dynamic value.
func (x *Int[W]) Promote() {
	if x.tag == storageDynamic {
		return
	}
	x.dy = dynamicFromStatic(x.st)
	x.st = static[W]{}
	x.tag = storageDynamic
}

// promoted returns the dynamic form of x without changing x.
func (x Int[W]) promoted() dynamic {
	if x.tag == storageDynamic {
		return x.dy
	}
	return dynamicFromStatic(x.st)
}

func dynamicInt[W Width](d dynamic) Int[W] {
	return Int[W]{tag: storageDynamic, dy: d}
}

// Digits returns the sign and the big-endian magnitude of x.
func (x Int[W]) Digits() (neg bool, mag []byte) {
	if x.tag == storageDynamic {
		return x.dy.digits()
	}
	mag = x.st.bytes()
	slices.Reverse(mag)
	return x.st.size < 0, mag
}

// Big returns x as a new math/big integer.
func (x Int[W]) Big() *big.Int {
	neg, mag := x.Digits()
	b := new(big.Int).SetBytes(mag)
	if neg {
		b.Neg(b)
	}
	return b
}

// Int64 converts x, failing with an overflow error when it does not fit.
func (x Int[W]) Int64() (int64, error) {
	if x.tag == storageStatic {
		if v, ok := x.st.int64(); ok {
			return v, nil
		}
		return 0, apperrors.Overflowf("%s does not fit in an int64", x)
	}
	b := x.dy.toBig()
	if !b.IsInt64() {
		return 0, apperrors.Overflowf("%s does not fit in an int64", x)
	}
	return b.Int64(), nil
}

// Uint64 converts x, failing with an overflow error for negative or too
// large values.
func (x Int[W]) Uint64() (uint64, error) {
	if x.tag == storageStatic {
		if v, ok := x.st.uint64(); ok {
			return v, nil
		}
		return 0, apperrors.Overflowf("%s does not fit in a uint64", x)
	}
	b := x.dy.toBig()
	if !b.IsUint64() {
		return 0, apperrors.Overflowf("%s does not fit in a uint64", x)
	}
	return b.Uint64(), nil
}

// Float64 returns the float64 nearest to x. Values beyond the float64
// range are an overflow error.
func (x Int[W]) Float64() (float64, error) {
	if m := x.st.mag(); x.tag == storageStatic && m.hi == 0 {
		f := float64(m.lo)
		if x.st.size < 0 {
			f = -f
		}
		return f, nil
	}
	f := x.promoted().float64()
	if math.IsInf(f, 0) {
		return 0, apperrors.Overflowf("integer of %d bits does not fit in a float64", x.BitLen())
	}
	return f, nil
}

// String formats x in base 10.
func (x Int[W]) String() string {
	if x.tag == storageStatic {
		if s, ok := x.st.string(); ok {
			return s
		}
	}
	return x.promoted().string()
}

// MarshalText implements encoding.TextMarshaler.
func (x Int[W]) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Int[W]) UnmarshalText(text []byte) error {
	v, err := Parse[W](string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// Hash returns a hash of the value of x. Equal values hash equally
// whatever their storage, because both storages are hashed through the
// same 64-bit word repacking of the magnitude.
func (x Int[W]) Hash() uint64 {
	var words []uint64
	if x.tag == storageStatic {
		words = x.st.words()
	} else {
		_, mag := x.dy.digits()
		slices.Reverse(mag)
		words = limbs.Repack[uint64](mag, 0, 0)
	}
	buf := make([]byte, 0, 8*len(words)+1)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	if x.Sign() < 0 {
		buf = append(buf, '-')
	}
	return xxhash.Sum64(buf)
}
