package series

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/rational"
	"github.com/agbru/symcalc/internal/tuning"
)

func sequential() tuning.Config {
	c := tuning.Default()
	c.Workers = 1
	c.ParallelMemorySet = false
	return c
}

func parallel(workers int) tuning.Config {
	c := tuning.Default()
	c.Workers = workers
	c.MultiplicationBlockSize = 16
	return c
}

func num(v int64) integer.Integer { return integer.New[integer.Native](v) }

// sumOf returns c + x1 + ... + xk for the given symbols.
func sumOf(t *testing.T, c int64, names ...string) *Polynomial {
	t.Helper()
	p := NewConstant(num(c))
	for _, n := range names {
		var err error
		p, err = p.Add(NewSymbol(n))
		require.NoError(t, err)
	}
	return p
}

func mustMul(t *testing.T, p, q *Polynomial, cfg tuning.Config) *Polynomial {
	t.Helper()
	r, err := Mul(context.Background(), p, q, cfg)
	require.NoError(t, err)
	return r
}

func TestString(t *testing.T) {
	t.Parallel()
	x1 := sumOf(t, 1, "x")
	sq := mustMul(t, x1, x1, sequential())
	assert.Equal(t, "x**2 + 2*x + 1", sq.String())

	xy := mustMul(t, sumOf(t, 0, "x"), sumOf(t, 0, "y"), sequential())
	d, err := sq.Sub(xy)
	require.NoError(t, err)
	assert.Equal(t, "x**2 - x*y + 2*x + 1", d.String())
	assert.Equal(t, "0", New(nil).String())
	assert.Equal(t, "-3", NewConstant(num(-3)).String())
}

func TestAddCancels(t *testing.T) {
	t.Parallel()
	x := NewSymbol("x")
	z, err := x.Sub(x)
	require.NoError(t, err)
	assert.True(t, z.IsZero())
	assert.Equal(t, 0, z.Len())
	assert.True(t, x.Equal(NewSymbol("x")))
}

func TestAddTerm(t *testing.T) {
	t.Parallel()
	p := New(nil)
	p, err := p.Add(sumOf(t, 0, "x", "y"))
	require.NoError(t, err)
	require.NoError(t, p.AddTerm(num(5), []int64{2, -1}))
	require.NoError(t, p.AddTerm(num(-5), []int64{2, -1}))
	assert.Equal(t, 2, p.Len())
	assert.ErrorIs(t, p.AddTerm(num(1), []int64{1}), apperrors.ErrDomain)
	assert.ErrorIs(t, p.AddTerm(num(1), []int64{1 << 40, 0}), apperrors.ErrOverflow)
}

func TestExpansionTermCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		k, n  int
		terms int
	}{
		{1, 5, 6},
		{2, 2, 6},
		{3, 4, 35},
		{4, 6, 210},
	}
	for _, tt := range tests {
		names := []string{"a", "b", "c", "d"}[:tt.k]
		p, err := Pow(context.Background(), sumOf(t, 1, names...), uint64(tt.n), sequential())
		require.NoError(t, err)
		assert.Equal(t, tt.terms, p.Len(), "(1+...)^%d over %d symbols", tt.n, tt.k)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	plus, err := Pow(ctx, sumOf(t, 1, "x", "y", "z"), 6, sequential())
	require.NoError(t, err)
	minusX, err := plus.Subs("x", num(-1))
	require.NoError(t, err)
	_ = minusX

	// B is A with x negated, so A*B has many cancelling terms.
	negX := NewSymbol("x").Neg()
	b, err := Pow(ctx, mustAdd(t, mustAdd(t, NewConstant(num(1)), negX), sumOf(t, 0, "y", "z")), 6, sequential())
	require.NoError(t, err)

	want := mustMul(t, plus, b, sequential())
	for _, workers := range []int{2, 3, 8} {
		got := mustMul(t, plus, b, parallel(workers))
		assert.True(t, want.Equal(got), "workers=%d", workers)
		assert.Equal(t, want.Len(), got.Len())
		assert.LessOrEqual(t, got.Stats().LoadFactor, 1.0)
	}
	noSweep := parallel(4)
	noSweep.ParallelMemorySet = false
	assert.True(t, want.Equal(mustMul(t, plus, b, noSweep)))

	// A*B = ((1+y+z)^2 - x^2)^6 only has even powers of x.
	for _, term := range want.Terms() {
		assert.Zero(t, term.Exponents[0]%2, "odd power of x survived: %v", term.Exponents)
	}
}

func mustAdd(t *testing.T, p, q *Polynomial) *Polynomial {
	t.Helper()
	r, err := p.Add(q)
	require.NoError(t, err)
	return r
}

func TestEvaluate(t *testing.T) {
	t.Parallel()
	p, err := Pow(context.Background(), sumOf(t, 1, "x", "y", "z"), 6, parallel(4))
	require.NoError(t, err)
	v, err := p.Evaluate(map[string]rational.Rat{
		"x": rational.FromInt64(2, 1),
		"y": rational.FromInt64(3, 1),
		"z": rational.FromInt64(-1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "15625", v.String())

	_, err = p.Evaluate(map[string]rational.Rat{"x": rational.Zero()})
	assert.ErrorIs(t, err, apperrors.ErrDomain)

	inv := New(NewSymbol("x").Symbols())
	require.NoError(t, inv.AddTerm(num(3), []int64{-2}))
	v, err = inv.Evaluate(map[string]rational.Rat{"x": rational.FromInt64(2, 1)})
	require.NoError(t, err)
	assert.Equal(t, "3/4", v.String())
	_, err = inv.Evaluate(map[string]rational.Rat{"x": rational.Zero()})
	assert.ErrorIs(t, err, apperrors.ErrZeroDivision)
}

func TestSubs(t *testing.T) {
	t.Parallel()
	p := mustMul(t, sumOf(t, 0, "x", "y"), sumOf(t, 0, "x", "y"), sequential())
	s, err := p.Subs("y", num(2))
	require.NoError(t, err)
	assert.Equal(t, "x**2 + 4*x + 4", s.String())
	assert.Equal(t, 1, s.Symbols().Len())

	same, err := p.Subs("w", num(7))
	require.NoError(t, err)
	assert.True(t, same.Equal(p))

	inv := New(NewSymbol("x").Symbols())
	require.NoError(t, inv.AddTerm(num(3), []int64{-2}))
	_, err = inv.Subs("x", num(2))
	assert.ErrorIs(t, err, apperrors.ErrDomain)
	one, err := inv.Subs("x", num(-1))
	require.NoError(t, err)
	assert.Equal(t, "3", one.String())
}

func TestDerivative(t *testing.T) {
	t.Parallel()
	p := New(nil)
	p, _ = p.Add(sumOf(t, 0, "x", "y"))
	p = New(p.Symbols())
	require.NoError(t, p.AddTerm(num(1), []int64{3, 1}))
	require.NoError(t, p.AddTerm(num(2), []int64{1, 0}))
	d, err := p.Derivative("x")
	require.NoError(t, err)
	assert.Equal(t, "3*x**2*y + 2", d.String())
	dy, err := p.Derivative("y")
	require.NoError(t, err)
	assert.Equal(t, "x**3", dy.String())
	dz, err := p.Derivative("z")
	require.NoError(t, err)
	assert.True(t, dz.IsZero())
}

func TestDegree(t *testing.T) {
	t.Parallel()
	p, err := Pow(context.Background(), sumOf(t, 1, "x", "y"), 7, sequential())
	require.NoError(t, err)
	d, err := p.Degree()
	require.NoError(t, err)
	assert.Equal(t, int64(7), d)
	d, err = New(nil).Degree()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestMulExponentOverflow(t *testing.T) {
	t.Parallel()
	xy := mustMul(t, NewSymbol("x"), NewSymbol("y"), sequential())
	_, err := Pow(context.Background(), xy, 1<<31, sequential())
	assert.ErrorIs(t, err, apperrors.ErrOverflow)
}

func TestMulHonoursCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := sumOf(t, 1, "x", "y")
	_, err := Mul(ctx, p, p, parallel(2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMulRejectsBadTuning(t *testing.T) {
	t.Parallel()
	cfg := tuning.Default()
	cfg.MultiplicationBlockSize = 1
	_, err := Mul(context.Background(), NewSymbol("x"), NewSymbol("x"), cfg)
	assert.ErrorIs(t, err, apperrors.ErrDomain)
}

func TestMulByZero(t *testing.T) {
	t.Parallel()
	r := mustMul(t, NewSymbol("x"), New(nil), sequential())
	assert.True(t, r.IsZero())
	p, err := Pow(context.Background(), New(nil), 0, sequential())
	require.NoError(t, err)
	assert.Equal(t, "1", p.String())
}

func BenchmarkMul(b *testing.B) {
	ctx := context.Background()
	base := NewConstant(num(1))
	for _, n := range []string{"a", "b", "c", "d"} {
		base, _ = base.Add(NewSymbol(n))
	}
	p, _ := Pow(ctx, base, 8, sequential())
	cfg := tuning.Default()
	for b.Loop() {
		_, _ = Mul(ctx, p, p, cfg)
	}
}
