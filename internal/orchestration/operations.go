package orchestration

import (
	"context"
	"math/big"
	"slices"
	"strings"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/integer"
)

// MaxPowResultBits bounds the estimated size of a pow result. Anything larger
// is rejected up front since the multiplication cannot be interrupted.
const MaxPowResultBits = integer.MaxPowBits

// Operation describes one integer command.
type Operation struct {
	Name  string
	Arity int
	Usage string
	Help  string
}

var operations = []Operation{
	{"abs", 1, "abs <a>", "absolute value"},
	{"add", 2, "add <a> <b>", "a + b"},
	{"addmul", 3, "addmul <acc> <a> <b>", "acc + a*b, accumulated in place"},
	{"div", 2, "div <a> <b>", "quotient truncated toward zero"},
	{"gcd", 2, "gcd <a> <b>", "non-negative greatest common divisor"},
	{"mod", 2, "mod <a> <b>", "remainder with the sign of a"},
	{"mul", 2, "mul <a> <b>", "a * b"},
	{"neg", 1, "neg <a>", "-a"},
	{"pow", 2, "pow <a> <e>", "a raised to e"},
	{"sub", 2, "sub <a> <b>", "a - b"},
}

// Operations returns the supported operations sorted by name.
func Operations() []Operation { return slices.Clone(operations) }

// LookupOperation finds an operation by name.
func LookupOperation(name string) (Operation, bool) {
	i := slices.IndexFunc(operations, func(o Operation) bool { return o.Name == name })
	if i < 0 {
		return Operation{}, false
	}
	return operations[i], true
}

// Request is one operation with its decimal operands.
type Request struct {
	Op   string
	Args []string
}

// String renders the request the way it is typed at the prompt.
func (r Request) String() string {
	return strings.Join(append([]string{r.Op}, r.Args...), " ")
}

// Validate checks the operation name, arity and operand syntax, and rejects
// pow requests whose result would be unreasonably large.
func (r Request) Validate() error {
	op, ok := LookupOperation(r.Op)
	if !ok {
		return apperrors.Domainf("unknown operation %q", r.Op)
	}
	if len(r.Args) != op.Arity {
		return apperrors.Domainf("%s takes %d operands, got %d (usage: %s)", op.Name, op.Arity, len(r.Args), op.Usage)
	}
	vals := make([]*big.Int, len(r.Args))
	for i, s := range r.Args {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return apperrors.Domainf("invalid integer %q", s)
		}
		vals[i] = v
	}
	if op.Name == "pow" {
		base, exp := vals[0], vals[1]
		if exp.Sign() > 0 && base.CmpAbs(big.NewInt(1)) > 0 {
			if !exp.IsUint64() || exp.Uint64() > MaxPowResultBits ||
				uint64(base.BitLen()-1)*exp.Uint64() > MaxPowResultBits {
				return apperrors.Overflowf("%s ** %s exceeds %d bits", base, exp, MaxPowResultBits)
			}
		}
	}
	return nil
}

// Apply evaluates op over args in width W. Arity is checked; operand syntax
// is the caller's concern.
func Apply[W integer.Width](op string, args []integer.Int[W]) (integer.Int[W], error) {
	var zero integer.Int[W]
	o, ok := LookupOperation(op)
	if !ok {
		return zero, apperrors.Domainf("unknown operation %q", op)
	}
	if len(args) != o.Arity {
		return zero, apperrors.Domainf("%s takes %d operands, got %d", op, o.Arity, len(args))
	}
	switch op {
	case "abs":
		return args[0].Abs(), nil
	case "neg":
		return args[0].Neg(), nil
	case "add":
		return args[0].Add(args[1]), nil
	case "sub":
		return args[0].Sub(args[1]), nil
	case "mul":
		return args[0].Mul(args[1]), nil
	case "div":
		return args[0].Quo(args[1])
	case "mod":
		return args[0].Rem(args[1])
	case "gcd":
		return args[0].GCD(args[1]), nil
	case "pow":
		return args[0].Pow(args[1])
	case "addmul":
		acc := args[0]
		acc.MultiplyAccumulate(args[1], args[2])
		return acc, nil
	}
	return zero, apperrors.Domainf("unknown operation %q", op)
}

// Outcome is the result of one evaluation.
type Outcome struct {
	Value  string
	Static bool
	BitLen int
}

// Evaluator runs requests in one integer representation.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, req Request) (Outcome, error)
}

type widthEvaluator[W integer.Width] struct{ name string }

func (e widthEvaluator[W]) Name() string { return e.name }

func (e widthEvaluator[W]) Evaluate(ctx context.Context, req Request) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	args := make([]integer.Int[W], len(req.Args))
	for i, s := range req.Args {
		v, err := integer.Parse[W](s)
		if err != nil {
			return Outcome{}, err
		}
		args[i] = v
	}
	v, err := Apply(req.Op, args)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Value: v.String(), Static: v.IsStatic(), BitLen: v.BitLen()}, nil
}

// bigEvaluator is the math/big reference the hybrid widths are checked
// against.
type bigEvaluator struct{}

func (bigEvaluator) Name() string { return "big" }

func (bigEvaluator) Evaluate(ctx context.Context, req Request) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	a := make([]*big.Int, len(req.Args))
	for i, s := range req.Args {
		a[i], _ = new(big.Int).SetString(s, 10)
	}
	z := new(big.Int)
	switch req.Op {
	case "abs":
		z.Abs(a[0])
	case "neg":
		z.Neg(a[0])
	case "add":
		z.Add(a[0], a[1])
	case "sub":
		z.Sub(a[0], a[1])
	case "mul":
		z.Mul(a[0], a[1])
	case "div", "mod":
		if a[1].Sign() == 0 {
			return Outcome{}, apperrors.ZeroDivisionf("%s divided by zero", a[0])
		}
		if req.Op == "div" {
			z.Quo(a[0], a[1])
		} else {
			z.Rem(a[0], a[1])
		}
	case "gcd":
		z.GCD(nil, nil, a[0], a[1])
	case "pow":
		var err error
		if z, err = bigPow(a[0], a[1]); err != nil {
			return Outcome{}, err
		}
	case "addmul":
		z.Mul(a[1], a[2]).Add(z, a[0])
	}
	return Outcome{Value: z.String(), BitLen: z.BitLen()}, nil
}

// bigPow mirrors integer.Int.Pow, including truncated reciprocals for
// negative exponents.
func bigPow(x, e *big.Int) (*big.Int, error) {
	one := big.NewInt(1)
	unit := x.CmpAbs(one) == 0
	odd := e.Bit(0) == 1
	switch {
	case e.Sign() < 0 && x.Sign() == 0:
		return nil, apperrors.ZeroDivisionf("zero raised to the negative power %s", e)
	case e.Sign() < 0 && unit && x.Sign() < 0 && odd:
		return big.NewInt(-1), nil
	case e.Sign() < 0 && unit:
		return one, nil
	case e.Sign() < 0:
		return new(big.Int), nil
	}
	return new(big.Int).Exp(x, e, nil), nil
}

// Evaluators returns one evaluator per static width followed by the math/big
// reference.
func Evaluators() []Evaluator {
	return []Evaluator{
		widthEvaluator[integer.Native]{"native"},
		widthEvaluator[integer.W8]{"w8"},
		widthEvaluator[integer.W16]{"w16"},
		widthEvaluator[integer.W32]{"w32"},
		widthEvaluator[integer.W64]{"w64"},
		bigEvaluator{},
	}
}

// Widths lists the names accepted by EvaluatorFor.
func Widths() []string {
	return []string{"native", "w8", "w16", "w32", "w64", "big"}
}

// EvaluatorFor returns the evaluator with the given name.
func EvaluatorFor(name string) (Evaluator, error) {
	for _, e := range Evaluators() {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, apperrors.NewConfigError("unknown width %q (valid: %s)", name, strings.Join(Widths(), ", "))
}
