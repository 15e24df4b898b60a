package mc

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultSeed is the seed used when the caller does not supply one.
// A fixed constant keeps out-of-the-box runs reproducible.
const DefaultSeed int64 = 1291

// Integrand is a real-valued function of one real variable.
//
// Implementations return an error when the function is undefined at x
// (for example log of a negative number). The integrator treats any
// evaluation error as an input error and aborts without partial results.
type Integrand func(x float64) (float64, error)

// Request describes a single integration.
type Request struct {
	// A and B are the interval bounds. A must be strictly below B.
	A float64
	B float64

	// F is the integrand to evaluate.
	F Integrand

	// Expr is the textual form of the integrand, if the request came from
	// one. It is echoed into the Result for downstream consumers (renderer,
	// run store) and never evaluated here.
	Expr string

	// Samples is the number of uniform draws. Must be at least 1.
	Samples int

	// Seed initializes the random generator for this call.
	Seed int64
}

// Result is the outcome of a single estimation.
//
// Result is a plain data object: constructed once per call, immutable
// after construction, owned by the caller. It carries copies of the
// inputs so downstream consumers need no reference back to the Request.
type Result struct {
	// Estimate is the Monte Carlo point estimate of the integral.
	Estimate float64

	// Variance is the plug-in variance estimate of Estimate, floored at
	// zero. The raw formula can go fractionally negative from rounding
	// when the integrand is near-constant; the floored value is the only
	// one exposed, so Variance >= 0 always holds.
	Variance float64

	// Echoed inputs.
	Expr    string
	A       float64
	B       float64
	Samples int
	Seed    int64
}

// Estimate computes a Monte Carlo estimate of the integral of req.F over
// [req.A, req.B] using req.Samples uniform draws.
//
// The generator is constructed from req.Seed at the start of the call, so
// two calls with identical requests produce bit-identical Estimate and
// Variance. Validation happens before any sampling; on failure an
// *InputError is returned and no entropy is consumed.
func Estimate(req Request) (*Result, error) {
	if req.A >= req.B {
		return nil, NewRangeError(req.A, req.B)
	}
	if req.Samples < 1 {
		return nil, NewSampleCountError(req.Samples)
	}
	if err := probe(req); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(req.Seed))
	width := req.B - req.A

	var sum, sumSq float64
	for i := 0; i < req.Samples; i++ {
		x := req.A + rng.Float64()*width
		y, err := req.F(x)
		if err != nil {
			return nil, NewFunctionError(
				fmt.Sprintf("integrand failed at x=%g", x), err)
		}
		sum += y
		sumSq += y * y
	}

	n := float64(req.Samples)
	estimate := width * (sum / n)
	secondMoment := width * (sumSq / n)
	variance := (width*secondMoment - estimate*estimate) / n
	if variance < 0 {
		variance = 0
	}

	return &Result{
		Estimate: estimate,
		Variance: variance,
		Expr:     req.Expr,
		A:        req.A,
		B:        req.B,
		Samples:  req.Samples,
		Seed:     req.Seed,
	}, nil
}

// probe checks that the integrand is evaluable at the interval midpoint.
// Runs after range validation so the midpoint is well defined.
func probe(req Request) error {
	if req.F == nil {
		return NewFunctionError("integrand is nil", nil)
	}
	mid := req.A + (req.B-req.A)/2
	y, err := req.F(mid)
	if err != nil {
		return NewFunctionError(
			fmt.Sprintf("integrand failed at midpoint x=%g", mid), err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return NewFunctionError(
			fmt.Sprintf("integrand is not finite at midpoint x=%g", mid), nil)
	}
	return nil
}
