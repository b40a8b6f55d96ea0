package integer

import (
	"strconv"

	"github.com/agbru/symcalc/internal/limbs"
)

// static is the inline storage: two limbs of W bits, least significant
// first, and a size whose absolute value counts the used limbs and whose
// sign is the sign of the value. Limbs at or above |size| are zero.
//
// Arithmetic reports overflow through its boolean result and never
// promotes; promotion is the hybrid layer's job.
type static[W Width] struct {
	limbs [2]uint64
	size  int8
}

func (s static[W]) limbBits() uint {
	var w W
	return w.limbBits()
}

func (s static[W]) mag() u128 {
	w := s.limbBits()
	if w == 64 {
		return u128{hi: s.limbs[1], lo: s.limbs[0]}
	}
	return u128{lo: s.limbs[0] | s.limbs[1]<<w}
}

// packStatic stores m with the given sign. It fails when m needs more than
// two limbs.
func packStatic[W Width](neg bool, m u128) (static[W], bool) {
	var s static[W]
	w := s.limbBits()
	if uint(m.bitLen()) > 2*w {
		return s, false
	}
	if w == 64 {
		s.limbs = [2]uint64{m.lo, m.hi}
	} else {
		s.limbs = [2]uint64{limbs.ClearTopBits(m.lo, 64-w), m.lo >> w}
	}
	switch {
	case s.limbs[1] != 0:
		s.size = 2
	case s.limbs[0] != 0:
		s.size = 1
	}
	if neg {
		s.size = -s.size
	}
	return s, true
}

func staticFromInt64[W Width](v int64) (static[W], bool) {
	if v < 0 {
		return packStatic[W](true, u128{lo: uint64(-(v + 1)) + 1})
	}
	return packStatic[W](false, u128{lo: uint64(v)})
}

func staticFromUint64[W Width](v uint64) (static[W], bool) {
	return packStatic[W](false, u128{lo: v})
}

func (s static[W]) sign() int {
	switch {
	case s.size > 0:
		return 1
	case s.size < 0:
		return -1
	}
	return 0
}

func (s static[W]) neg() static[W] {
	s.size = -s.size
	return s
}

func (s static[W]) abs() static[W] {
	if s.size < 0 {
		s.size = -s.size
	}
	return s
}

func (s static[W]) add(t static[W]) (static[W], bool) {
	sm, tm := s.mag(), t.mag()
	sn, tn := s.size < 0, t.size < 0
	if sn == tn {
		m, ok := sm.add(tm)
		if !ok {
			return static[W]{}, false
		}
		return packStatic[W](sn, m)
	}
	switch sm.cmp(tm) {
	case 0:
		return static[W]{}, true
	case 1:
		return packStatic[W](sn, sm.sub(tm))
	}
	return packStatic[W](tn, tm.sub(sm))
}

func (s static[W]) sub(t static[W]) (static[W], bool) {
	return s.add(t.neg())
}

func (s static[W]) mul(t static[W]) (static[W], bool) {
	m, ok := s.mag().mul(t.mag())
	if !ok {
		return static[W]{}, false
	}
	return packStatic[W]((s.size < 0) != (t.size < 0), m)
}

// multiplyAccumulate returns s + a*b. On overflow s is returned unchanged
// together with false.
func (s static[W]) multiplyAccumulate(a, b static[W]) (static[W], bool) {
	p, ok := a.mul(b)
	if !ok {
		return s, false
	}
	r, ok := s.add(p)
	if !ok {
		return s, false
	}
	return r, true
}

// quoRem divides by a non-zero t, truncating toward zero. It cannot
// overflow since |q| <= |s| and |r| < |t|.
func (s static[W]) quoRem(t static[W]) (q, r static[W]) {
	qm, rm := s.mag().quoRem(t.mag())
	q, _ = packStatic[W]((s.size < 0) != (t.size < 0), qm)
	r, _ = packStatic[W](s.size < 0, rm)
	return q, r
}

func (s static[W]) cmp(t static[W]) int {
	ss, ts := s.sign(), t.sign()
	if ss != ts {
		if ss < ts {
			return -1
		}
		return 1
	}
	c := s.mag().cmp(t.mag())
	if ss < 0 {
		return -c
	}
	return c
}

func (s static[W]) gcd(t static[W]) static[W] {
	a, b := s.mag(), t.mag()
	for !b.isZero() {
		_, r := a.quoRem(b)
		a, b = b, r
	}
	g, _ := packStatic[W](false, a)
	return g
}

// powUint64 computes s**n by repeated squaring.
func (s static[W]) powUint64(n uint64) (static[W], bool) {
	result, _ := staticFromInt64[W](1)
	base := s
	for {
		if n&1 == 1 {
			var ok bool
			if result, ok = result.mul(base); !ok {
				return static[W]{}, false
			}
		}
		n >>= 1
		if n == 0 {
			return result, true
		}
		var ok bool
		if base, ok = base.mul(base); !ok {
			return static[W]{}, false
		}
	}
}

func (s static[W]) bitLen() int { return s.mag().bitLen() }

func (s static[W]) bit(i uint) uint { return s.mag().bit(i) }

// setBit sets bit i of the magnitude, keeping the sign.
func (s static[W]) setBit(i uint) (static[W], bool) {
	if i >= 2*s.limbBits() {
		return s, false
	}
	return packStatic[W](s.size < 0, s.mag().setBit(i))
}

func (s static[W]) int64() (int64, bool) {
	m := s.mag()
	if m.hi != 0 {
		return 0, false
	}
	if s.size < 0 {
		if m.lo > 1<<63 {
			return 0, false
		}
		return -int64(m.lo), true
	}
	if m.lo > 1<<63-1 {
		return 0, false
	}
	return int64(m.lo), true
}

func (s static[W]) uint64() (uint64, bool) {
	m := s.mag()
	if m.hi != 0 || s.size < 0 {
		return 0, false
	}
	return m.lo, true
}

// string formats values whose magnitude fits a word; wider values are
// formatted by the caller through the dynamic storage.
func (s static[W]) string() (string, bool) {
	m := s.mag()
	if m.hi != 0 {
		return "", false
	}
	if s.size < 0 {
		return "-" + strconv.FormatUint(m.lo, 10), true
	}
	return strconv.FormatUint(m.lo, 10), true
}

// bytes returns the magnitude as little-endian bytes without trailing
// zeros, read straight out of the W-bit limbs.
func (s static[W]) bytes() []byte {
	return limbs.Repack[uint8](s.limbs[:], 64-s.limbBits(), 0)
}

// words returns the magnitude as little-endian 64-bit words without
// trailing zeros.
func (s static[W]) words() []uint64 {
	return limbs.Repack[uint64](s.limbs[:], 64-s.limbBits(), 0)
}
