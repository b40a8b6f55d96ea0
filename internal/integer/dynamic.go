package integer

import (
	"math/big"
	"slices"

	"github.com/agbru/symcalc/internal/limbs"
)

// dynamic owns one arbitrary-precision integer. The handle is never
// written after construction; every operation allocates its result, which
// makes sharing a dynamic value between copies of an Int safe.
type dynamic struct {
	z *mpz
}

func dynamicFromInt64(v int64) dynamic { return dynamic{newMpz().SetInt64(v)} }

// dynamicFromStatic transfers a static value exactly, repacking its W-bit
// limbs into the byte representation the library imports.
func dynamicFromStatic[W Width](s static[W]) dynamic {
	le := s.bytes()
	slices.Reverse(le)
	z := newMpz().SetBytes(le)
	if s.size < 0 {
		z.Neg(z)
	}
	return dynamic{z}
}

// dynamicFromDigits builds a value from a sign and a big-endian magnitude.
func dynamicFromDigits(neg bool, mag []byte) dynamic {
	z := newMpz().SetBytes(mag)
	if neg {
		z.Neg(z)
	}
	return dynamic{z}
}

// digits exports the sign and the big-endian magnitude.
func (d dynamic) digits() (neg bool, mag []byte) {
	return d.z.Sign() < 0, d.z.Bytes()
}

// toStatic reports the static form of d when its magnitude fits two
// W-bit limbs. It is used when constructing values, never to demote.
func toStatic[W Width](d dynamic) (static[W], bool) {
	neg, mag := d.digits()
	slices.Reverse(mag)
	var s static[W]
	packed := limbs.Repack[uint64](mag, 0, 64-s.limbBits())
	if len(packed) > 2 {
		return s, false
	}
	copy(s.limbs[:], packed)
	s.size = int8(len(packed))
	if neg {
		s.size = -s.size
	}
	return s, true
}

func (d dynamic) sign() int { return d.z.Sign() }

func (d dynamic) cmp(e dynamic) int { return d.z.Cmp(e.z) }

func (d dynamic) neg() dynamic { return dynamic{newMpz().Neg(d.z)} }

func (d dynamic) abs() dynamic { return dynamic{newMpz().Abs(d.z)} }

func (d dynamic) add(e dynamic) dynamic { return dynamic{newMpz().Add(d.z, e.z)} }

func (d dynamic) sub(e dynamic) dynamic { return dynamic{newMpz().Sub(d.z, e.z)} }

func (d dynamic) mul(e dynamic) dynamic { return dynamic{newMpz().Mul(d.z, e.z)} }

// multiplyAccumulate returns d + a*b in a fresh value.
func (d dynamic) multiplyAccumulate(a, b dynamic) dynamic {
	p := newMpz().Mul(a.z, b.z)
	return dynamic{p.Add(p, d.z)}
}

// quoRem truncates toward zero; e must be non-zero.
func (d dynamic) quoRem(e dynamic) (q, r dynamic) {
	return dynamic{newMpz().Quo(d.z, e.z)}, dynamic{newMpz().Rem(d.z, e.z)}
}

func (d dynamic) gcd(e dynamic) dynamic {
	return dynamic{newMpz().GCD(nil, nil, newMpz().Abs(d.z), newMpz().Abs(e.z))}
}

func (d dynamic) powUint64(n uint64) dynamic {
	return dynamic{newMpz().Exp(d.z, newMpz().SetUint64(n), nil)}
}

func (d dynamic) bitLen() int { return d.z.BitLen() }

// bit and setBit address the magnitude, as the static storage does; the
// library's own SetBit would use two's complement on negative values.
func (d dynamic) bit(i uint) uint {
	return newMpz().Abs(d.z).Bit(int(i))
}

func (d dynamic) setBit(i uint) dynamic {
	z := newMpz().Abs(d.z)
	z.SetBit(z, int(i), 1)
	if d.z.Sign() < 0 {
		z.Neg(z)
	}
	return dynamic{z}
}

func (d dynamic) string() string { return d.z.String() }

func (d dynamic) toBig() *big.Int { return mpzToBig(d.z) }

func (d dynamic) float64() float64 {
	f, _ := new(big.Float).SetInt(d.toBig()).Float64()
	return f
}
