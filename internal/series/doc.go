// Package series implements sparse multivariate polynomials with hybrid
// integer coefficients. Terms live in a hashset.Set keyed by Kronecker
// monomials, and multiplication fills the result table from several
// goroutines through the set's unchecked interface.
package series
