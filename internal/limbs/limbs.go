// Package limbs provides bit-level primitives over unsigned machine words
// ("limbs"). Integers in this module are stored least significant limb first,
// and these helpers repack such sequences between limb widths.
package limbs

import (
	"fmt"
	"math/bits"
)

// Unsigned is the set of types usable as limbs.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Bits returns the width of T in bits.
func Bits[T Unsigned]() uint {
	var zero T
	return uint(bits.Len64(uint64(^zero)))
}

// ClearTopBits returns v with its n most significant bits cleared.
// It panics when n exceeds the width of T.
func ClearTopBits[T Unsigned](v T, n uint) T {
	w := Bits[T]()
	if n > w {
		panic(fmt.Sprintf("limbs: cannot clear %d top bits of a %d-bit value", n, w))
	}
	if n == w {
		return 0
	}
	return v & (^T(0) >> n)
}

// ReadUint reconstructs the idx-th value of type Out from the bit stream
// formed by in. Each input limb contributes its low Bits[In]()-inIgnore bits
// and each output value holds Bits[Out]()-outIgnore bits, so that
//
//	ReadUint[uint64, uint8](b, 0, 0, i)
//
// reads the i-th 64-bit word out of a little-endian byte slice. Bits past the
// end of in read as zero. It panics when an ignore count leaves no usable
// bits.
func ReadUint[Out, In Unsigned](in []In, inIgnore, outIgnore uint, idx int) Out {
	inBits, outBits := usable[In](inIgnore), usable[Out](outIgnore)
	if idx < 0 {
		panic(fmt.Sprintf("limbs: negative index %d", idx))
	}
	var (
		res uint64
		got uint
		pos = uint(idx) * outBits
	)
	for got < outBits {
		limb, off := pos/inBits, pos%inBits
		if limb >= uint(len(in)) {
			break
		}
		take := min(inBits-off, outBits-got)
		chunk := (uint64(in[limb]) >> off) & lowMask(take)
		res |= chunk << got
		got += take
		pos += take
	}
	return Out(res)
}

// Repack converts a whole limb sequence into Out values, using the same
// ignore-bit conventions as ReadUint. The result has no trailing zero limbs.
func Repack[Out, In Unsigned](in []In, inIgnore, outIgnore uint) []Out {
	inBits, outBits := usable[In](inIgnore), usable[Out](outIgnore)
	total := uint(len(in)) * inBits
	n := int((total + outBits - 1) / outBits)
	out := make([]Out, n)
	for i := range out {
		out[i] = ReadUint[Out](in, inIgnore, outIgnore, i)
	}
	for len(out) > 0 && out[len(out)-1] == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func usable[T Unsigned](ignore uint) uint {
	w := Bits[T]()
	if ignore >= w {
		panic(fmt.Sprintf("limbs: ignoring %d bits of a %d-bit limb leaves nothing to read", ignore, w))
	}
	return w - ignore
}

func lowMask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<n - 1
}
