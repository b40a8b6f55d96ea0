//go:build !gmp

package integer

import "math/big"

// mpz is the arbitrary-precision integer backing the dynamic storage.
type mpz = big.Int

// DynamicBackend names the library behind the dynamic storage.
const DynamicBackend = "math/big"

func newMpz() *mpz { return new(big.Int) }

func mpzFromBig(b *big.Int) *mpz { return new(big.Int).Set(b) }

func mpzToBig(z *mpz) *big.Int { return new(big.Int).Set(z) }
