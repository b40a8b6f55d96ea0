package series

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/symcalc/internal/hashset"
	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/monomial"
	"github.com/agbru/symcalc/internal/tuning"
)

// ─────────────────────────────────────────────────────────────────────────────
// Multiplication
// ─────────────────────────────────────────────────────────────────────────────

const (
	// maxSizeHint caps the bucket count reserved before multiplying, so a
	// product of two large sparse operands does not allocate for the dense
	// worst case.
	maxSizeHint = 1 << 22

	// parallelMinProducts is the number of term products under which
	// multiplication stays on the calling goroutine.
	parallelMinProducts = 1 << 12
)

// Mul returns p*q.
//
// The result table is sized up front. Each worker then owns a contiguous
// range of buckets: it walks all term pairs, block by block, and only
// multiplies the coefficients of products whose key lands in its range,
// inserting them with the unchecked interface. Counts are reconciled once
// at the end and cancelled terms are swept afterwards.
func Mul(ctx context.Context, p, q *Polynomial, cfg tuning.Config) (*Polynomial, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a, b, err := align(p, q)
	if err != nil {
		return nil, err
	}
	out := New(a.symbols)
	if a.IsZero() || b.IsZero() {
		return out, nil
	}

	n := a.symbols.Len()
	left, right := flatten(a), flatten(b)
	multiply, err := keyMultiplier(left, right, n)
	if err != nil {
		return nil, err
	}

	hint := min(len(left)*len(right), maxSizeHint)
	if err := out.terms.Rehash(hint); err != nil {
		return nil, err
	}
	buckets := out.terms.BucketCount()

	workers := cfg.EffectiveWorkers()
	if len(left)*len(right) < parallelMinProducts {
		workers = 1
	}
	workers = min(workers, buckets)

	start := time.Now()
	counts := make([]int, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo, hi := w*buckets/workers, (w+1)*buckets/workers
		g.Go(func() error {
			c, err := mulRange(gctx, out.terms, left, right, multiply, lo, hi, int(cfg.MultiplicationBlockSize))
			counts[w] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	out.terms.SetLenUnchecked(total)

	removed, err := sweepZeros(ctx, out.terms, cfg, workers)
	if err != nil {
		return nil, err
	}
	out.terms.SetLenUnchecked(total - removed)
	if out.terms.Len() > out.terms.BucketCount() {
		if err := out.terms.Rehash(out.terms.Len()); err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Int("left", len(left)).
		Int("right", len(right)).
		Int("terms", out.terms.Len()).
		Int("buckets", out.terms.BucketCount()).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("series multiplication")
	return out, nil
}

// flatten copies the terms out of the table so workers can share them
// read-only.
func flatten(p *Polynomial) []term {
	out := make([]term, 0, p.terms.Len())
	for t := range p.terms.All() {
		out = append(out, t)
	}
	return out
}

// keyMultiplier returns the function combining two keys. When the largest
// exponents of both operands add up within the packing bound, codes simply
// add; otherwise every product goes through the checked path.
func keyMultiplier(left, right []term, n int) (func(x, y monomial.Kronecker) (monomial.Kronecker, error), error) {
	la, err := maxAbsExponents(left, n)
	if err != nil {
		return nil, err
	}
	ra, err := maxAbsExponents(right, n)
	if err != nil {
		return nil, err
	}
	checked := func(x, y monomial.Kronecker) (monomial.Kronecker, error) { return x.Multiply(y, n) }
	bound := monomial.Bound(n)
	for i := range la {
		if la[i] > bound-ra[i] {
			return checked, nil
		}
	}
	return func(x, y monomial.Kronecker) (monomial.Kronecker, error) { return x + y, nil }, nil
}

func maxAbsExponents(ts []term, n int) ([]int64, error) {
	out := make([]int64, n)
	for _, t := range ts {
		exps, err := t.key.Unpack(n)
		if err != nil {
			return nil, err
		}
		for i, e := range exps {
			if e < 0 {
				e = -e
			}
			out[i] = max(out[i], e)
		}
	}
	return out, nil
}

// mulRange accumulates every product whose key falls in buckets [lo, hi)
// and returns the number of new terms it created.
func mulRange(ctx context.Context, table *hashset.Set[term], left, right []term,
	multiply func(x, y monomial.Kronecker) (monomial.Kronecker, error), lo, hi, block int) (int, error) {
	created := 0
	for i0 := 0; i0 < len(left); i0 += block {
		i1 := min(i0+block, len(left))
		for j0 := 0; j0 < len(right); j0 += block {
			if err := ctx.Err(); err != nil {
				return created, err
			}
			j1 := min(j0+block, len(right))
			for i := i0; i < i1; i++ {
				x := left[i]
				for j := j0; j < j1; j++ {
					y := right[j]
					k, err := multiply(x.key, y.key)
					if err != nil {
						return created, err
					}
					cand := term{key: k}
					idx := table.BucketUnchecked(cand)
					if idx < lo || idx >= hi {
						continue
					}
					if it := table.FindUnchecked(cand, idx); !it.Done() {
						it.Ptr().coeff.MultiplyAccumulate(x.coeff, y.coeff)
						continue
					}
					cand.coeff = x.coeff.Mul(y.coeff)
					table.UniqueInsertUnchecked(cand, idx)
					created++
				}
			}
		}
	}
	return created, nil
}

// sweepZeros drops the terms whose coefficients cancelled, splitting the
// buckets among workers when parallel memory operations are enabled.
func sweepZeros(ctx context.Context, table *hashset.Set[term], cfg tuning.Config, workers int) (int, error) {
	isZero := func(t *term) bool { return t.coeff.IsZero() }
	buckets := table.BucketCount()
	if !cfg.ParallelMemorySet || workers <= 1 {
		removed := 0
		for i := range buckets {
			removed += table.FilterBucketUnchecked(i, isZero)
		}
		return removed, nil
	}
	removed := make([]int, workers)
	g, _ := errgroup.WithContext(ctx)
	for w := range workers {
		lo, hi := w*buckets/workers, (w+1)*buckets/workers
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				removed[w] += table.FilterBucketUnchecked(i, isZero)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	total := 0
	for _, r := range removed {
		total += r
	}
	return total, nil
}

// Pow returns p**e by repeated squaring. p**0 is 1 even for the zero
// polynomial.
func Pow(ctx context.Context, p *Polynomial, e uint64, cfg tuning.Config) (*Polynomial, error) {
	result := NewConstant(integer.New[integer.Native](1))
	base := p
	for {
		if e&1 == 1 {
			var err error
			if result, err = Mul(ctx, result, base, cfg); err != nil {
				return nil, err
			}
		}
		e >>= 1
		if e == 0 {
			return result, nil
		}
		var err error
		if base, err = Mul(ctx, base, base, cfg); err != nil {
			return nil, err
		}
	}
}
