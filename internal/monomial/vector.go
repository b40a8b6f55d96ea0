package monomial

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/integer"
)

// Vector is an unpacked exponent vector. Unlike Kronecker it accepts any
// length and the full int32 range per exponent.
type Vector []int32

// Multiply returns the component-wise sum of v and o, which must have the
// same length.
func (v Vector) Multiply(o Vector) (Vector, error) {
	if len(v) != len(o) {
		return nil, apperrors.Domainf("multiplying monomials of %d and %d symbols", len(v), len(o))
	}
	out := make(Vector, len(v))
	for i := range v {
		s := int64(v[i]) + int64(o[i])
		if s > math.MaxInt32 || s < math.MinInt32 {
			return nil, apperrors.Overflowf("exponent sum %d + %d overflows", v[i], o[i])
		}
		out[i] = int32(s)
	}
	return out, nil
}

// Degree returns the sum of the exponents. It cannot overflow.
func (v Vector) Degree() integer.Integer {
	var d integer.Integer
	for _, e := range v {
		d = d.Add(integer.New[integer.Native](int64(e)))
	}
	return d
}

// IsUnitary reports whether every exponent is zero.
func (v Vector) IsUnitary() bool {
	for _, e := range v {
		if e != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether v and o hold the same exponents.
func (v Vector) Equal(o Vector) bool { return slices.Equal(v, o) }

// Hash hashes the little-endian bytes of the exponents with xxhash.
func (v Vector) Hash() uint64 {
	buf := make([]byte, 0, 4*len(v))
	for _, e := range v {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e))
	}
	return xxhash.Sum64(buf)
}

// Kronecker packs v.
func (v Vector) Kronecker() (Kronecker, error) {
	exps := make([]int64, len(v))
	for i, e := range v {
		exps[i] = int64(e)
	}
	return Encode(exps)
}

// Format writes v over symbols.
func (v Vector) Format(symbols Symbols) string {
	return formatExponents(symbols, func(i int) int64 { return int64(v[i]) })
}
