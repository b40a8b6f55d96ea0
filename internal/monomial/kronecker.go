package monomial

import (
	"math"
	"math/bits"
	"strconv"
	"strings"

	apperrors "github.com/agbru/symcalc/internal/errors"
)

// Kronecker is an exponent vector packed into a single integer:
// code = e[0] + e[1]*r + e[2]*r^2 + ..., with the balanced radix r = 2L+1
// and every |e[i]| <= L. L depends only on the vector length and is chosen
// so that every code fits an int64. The unit monomial encodes as 0 for any
// length.
type Kronecker int64

// limit describes the packing of vectors of one length.
type limit struct {
	bound   int64 // largest admissible |exponent|
	radix   int64
	maxCode int64
}

// MaxKroneckerSize is the longest vector that can be packed; beyond it
// even exponents in {-1, 0, 1} overflow.
var MaxKroneckerSize = len(limits) - 1

var limits = computeLimits()

// computeLimits finds, for every length m >= 2, the largest odd radix r
// with r^m <= 2^64 - 1, so that |code| <= (r^m - 1) / 2 fits an int64.
// Length 1 stores the exponent itself.
func computeLimits() []limit {
	out := []limit{{}, {bound: math.MaxInt64, radix: 0, maxCode: math.MaxInt64}}
	for m := 2; ; m++ {
		lo, hi := uint64(1), uint64(1)<<32
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if _, ok := powFits(2*mid+1, m); ok {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		if _, ok := powFits(2*lo+1, m); !ok {
			return out
		}
		p, _ := powFits(2*lo+1, m)
		out = append(out, limit{bound: int64(lo), radix: int64(2*lo + 1), maxCode: int64((p - 1) / 2)})
	}
}

// powFits returns r^m and whether it fits a uint64.
func powFits(r uint64, m int) (uint64, bool) {
	p := uint64(1)
	for range m {
		hi, lo := bits.Mul64(p, r)
		if hi != 0 {
			return 0, false
		}
		p = lo
	}
	return p, true
}

// Bound returns the largest exponent magnitude a vector of length n may
// hold, or 0 when n cannot be packed.
func Bound(n int) int64 {
	if n <= 0 || n >= len(limits) {
		return 0
	}
	return limits[n].bound
}

// Encode packs exps. An exponent outside the bound for len(exps), or a
// vector longer than MaxKroneckerSize, is an overflow error.
func Encode(exps []int64) (Kronecker, error) {
	n := len(exps)
	if n == 0 {
		return 0, nil
	}
	if n >= len(limits) {
		return 0, apperrors.Overflowf("%d exponents exceed the packable maximum of %d", n, MaxKroneckerSize)
	}
	l := limits[n]
	if n == 1 {
		if exps[0] == math.MinInt64 {
			return 0, apperrors.Overflowf("exponent %d out of range", exps[0])
		}
		return Kronecker(exps[0]), nil
	}
	var code int64
	for i := n - 1; i >= 0; i-- {
		e := exps[i]
		if e > l.bound || e < -l.bound {
			return 0, apperrors.Overflowf("exponent %d out of range [%d, %d] for %d symbols", e, -l.bound, l.bound, n)
		}
		code = code*l.radix + e
	}
	return Kronecker(code), nil
}

// IsCompatible reports whether k is a legal code for n symbols.
func (k Kronecker) IsCompatible(n int) bool {
	switch {
	case n == 0:
		return k == 0
	case n >= len(limits):
		return false
	case n == 1:
		return int64(k) != math.MinInt64
	}
	return int64(k) >= -limits[n].maxCode && int64(k) <= limits[n].maxCode
}

// Unpack decodes k into n exponents.
func (k Kronecker) Unpack(n int) ([]int64, error) {
	if !k.IsCompatible(n) {
		return nil, apperrors.Overflowf("code %d is not valid for %d symbols", int64(k), n)
	}
	out := make([]int64, n)
	if n == 1 {
		out[0] = int64(k)
		return out, nil
	}
	l := limits[n]
	code := int64(k)
	for i := range out {
		d := code % l.radix
		switch {
		case d > l.bound:
			d -= l.radix
		case d < -l.bound:
			d += l.radix
		}
		out[i] = d
		code = (code - d) / l.radix
	}
	return out, nil
}

// Multiply adds the exponents of k and o, both over n symbols. A component
// leaving the packing bound is an overflow error.
func (k Kronecker) Multiply(o Kronecker, n int) (Kronecker, error) {
	a, err := k.Unpack(n)
	if err != nil {
		return 0, err
	}
	b, err := o.Unpack(n)
	if err != nil {
		return 0, err
	}
	for i := range a {
		s, ok := addInt64(a[i], b[i])
		if !ok {
			return 0, apperrors.Overflowf("exponent sum %d + %d overflows", a[i], b[i])
		}
		a[i] = s
	}
	return Encode(a)
}

// Pow multiplies every exponent by e.
func (k Kronecker) Pow(e int64, n int) (Kronecker, error) {
	v, err := k.Unpack(n)
	if err != nil {
		return 0, err
	}
	for i := range v {
		p, ok := mulInt64(v[i], e)
		if !ok {
			return 0, apperrors.Overflowf("exponent %d * %d overflows", v[i], e)
		}
		v[i] = p
	}
	return Encode(v)
}

// Degree returns the sum of the exponents.
func (k Kronecker) Degree(n int) (int64, error) {
	v, err := k.Unpack(n)
	if err != nil {
		return 0, err
	}
	var d int64
	for _, e := range v {
		var ok bool
		if d, ok = addInt64(d, e); !ok {
			return 0, apperrors.Overflowf("degree overflows")
		}
	}
	return d, nil
}

// IsUnitary reports whether every exponent is zero.
func (k Kronecker) IsUnitary() bool { return k == 0 }

// Hash returns the code itself.
func (k Kronecker) Hash() uint64 { return uint64(k) }

// Format writes k over symbols, such as "x**2*y". The unit monomial
// formats as the empty string.
func (k Kronecker) Format(symbols Symbols) string {
	v, err := k.Unpack(symbols.Len())
	if err != nil {
		return "?"
	}
	return formatExponents(symbols, func(i int) int64 { return v[i] })
}

func formatExponents(symbols Symbols, exp func(i int) int64) string {
	var b strings.Builder
	for i, name := range symbols {
		e := exp(i)
		if e == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('*')
		}
		b.WriteString(name)
		if e != 1 {
			b.WriteString("**")
			b.WriteString(strconv.FormatInt(e, 10))
		}
	}
	return b.String()
}

func addInt64(a, b int64) (int64, bool) {
	s := a + b
	return s, (s > a) == (b > 0)
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return p, true
}
