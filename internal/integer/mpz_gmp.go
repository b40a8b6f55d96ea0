//go:build gmp

package integer

import (
	"math/big"

	"github.com/ncw/gmp"
)

// mpz is the arbitrary-precision integer backing the dynamic storage.
type mpz = gmp.Int

// DynamicBackend names the library behind the dynamic storage.
const DynamicBackend = "gmp"

func newMpz() *mpz { return new(gmp.Int) }

func mpzFromBig(b *big.Int) *mpz {
	z := new(gmp.Int).SetBytes(b.Bytes())
	if b.Sign() < 0 {
		z.Neg(z)
	}
	return z
}

func mpzToBig(z *mpz) *big.Int {
	b := new(big.Int).SetBytes(z.Bytes())
	if z.Sign() < 0 {
		b.Neg(b)
	}
	return b
}
