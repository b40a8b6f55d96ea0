// Package monomial provides the keys of sparse series: an ordered symbol
// set and two monomial representations over it.
//
// Kronecker packs a whole exponent vector into one int64 with a balanced
// radix, so that multiplying monomials is adding codes after a range
// check and hashing is free. Vector keeps the exponents as a slice and
// hashes them with xxhash; it has no size limit.
package monomial
