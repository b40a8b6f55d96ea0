package integer

import "math/bits"

// u128 is the unsigned 128-bit intermediate used by the static storage.
// Every static magnitude fits in one, whatever the limb width.
type u128 struct {
	hi, lo uint64
}

func (a u128) isZero() bool { return a.hi == 0 && a.lo == 0 }

func (a u128) cmp(b u128) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	}
	return 0
}

func (a u128) bitLen() int {
	if a.hi != 0 {
		return 64 + bits.Len64(a.hi)
	}
	return bits.Len64(a.lo)
}

// add returns a+b and false on carry out of 128 bits.
func (a u128) add(b u128) (u128, bool) {
	lo, c := bits.Add64(a.lo, b.lo, 0)
	hi, c := bits.Add64(a.hi, b.hi, c)
	return u128{hi, lo}, c == 0
}

// sub returns a-b; the caller guarantees a >= b.
func (a u128) sub(b u128) u128 {
	lo, borrow := bits.Sub64(a.lo, b.lo, 0)
	hi, _ := bits.Sub64(a.hi, b.hi, borrow)
	return u128{hi, lo}
}

// mul returns a*b and false when the product does not fit in 128 bits.
func (a u128) mul(b u128) (u128, bool) {
	if a.hi != 0 && b.hi != 0 {
		return u128{}, false
	}
	hi, lo := bits.Mul64(a.lo, b.lo)
	crossHi, cross := bits.Mul64(a.hi, b.lo)
	if crossHi != 0 {
		return u128{}, false
	}
	crossHi, c2 := bits.Mul64(a.lo, b.hi)
	if crossHi != 0 {
		return u128{}, false
	}
	hi, carry := bits.Add64(hi, cross, 0)
	if carry != 0 {
		return u128{}, false
	}
	hi, carry = bits.Add64(hi, c2, 0)
	if carry != 0 {
		return u128{}, false
	}
	return u128{hi, lo}, true
}

func (a u128) lsh(n uint) u128 {
	switch {
	case n >= 128:
		return u128{}
	case n >= 64:
		return u128{hi: a.lo << (n - 64)}
	case n == 0:
		return a
	}
	return u128{hi: a.hi<<n | a.lo>>(64-n), lo: a.lo << n}
}

func (a u128) rsh(n uint) u128 {
	switch {
	case n >= 128:
		return u128{}
	case n >= 64:
		return u128{lo: a.hi >> (n - 64)}
	case n == 0:
		return a
	}
	return u128{hi: a.hi >> n, lo: a.lo>>n | a.hi<<(64-n)}
}

// quoRem divides a by a non-zero b.
func (a u128) quoRem(b u128) (q, r u128) {
	if b.hi == 0 {
		if a.hi < b.lo {
			q.lo, r.lo = bits.Div64(a.hi, a.lo, b.lo)
			return q, r
		}
		q.hi = a.hi / b.lo
		rhi := a.hi % b.lo
		q.lo, r.lo = bits.Div64(rhi, a.lo, b.lo)
		return q, r
	}
	// Normalize so the divisor's top bit is set, estimate the quotient
	// from the top word and correct it by at most one.
	n := uint(bits.LeadingZeros64(b.hi))
	v := b.lsh(n)
	u := a.rsh(1)
	tq, _ := bits.Div64(u.hi, u.lo, v.hi)
	tq >>= 63 - n
	if tq != 0 {
		tq--
	}
	q = u128{lo: tq}
	prod, _ := q.mul(b)
	r = a.sub(prod)
	if r.cmp(b) >= 0 {
		q, _ = q.add(u128{lo: 1})
		r = r.sub(b)
	}
	return q, r
}

func (a u128) bit(i uint) uint {
	if i >= 128 {
		return 0
	}
	return uint(a.rsh(i).lo & 1)
}

func (a u128) setBit(i uint) u128 {
	m := u128{lo: 1}.lsh(i)
	return u128{hi: a.hi | m.hi, lo: a.lo | m.lo}
}
