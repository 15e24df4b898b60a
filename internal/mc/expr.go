package mc

import (
	"github.com/quadra-dev/quadra/internal/expr"
)

// EstimateExpr compiles a textual expression in the free variable x and
// estimates its integral over [a, b].
//
// The expression is compiled once for the whole call, never re-parsed per
// sample. Compilation failures surface as invalid-function input errors,
// matching the taxonomy for integrands supplied as callables.
func EstimateExpr(a, b float64, src string, samples int, seed int64) (*Result, error) {
	// Range and sample-count preconditions come first, matching the
	// validation order of Estimate, so a bad interval is reported as such
	// even when the expression is also broken.
	if a >= b {
		return nil, NewRangeError(a, b)
	}
	if samples < 1 {
		return nil, NewSampleCountError(samples)
	}
	e, err := expr.Compile(src)
	if err != nil {
		return nil, NewFunctionError("expression does not compile", err)
	}
	return Estimate(Request{
		A:       a,
		B:       b,
		F:       e.Eval,
		Expr:    e.Source(),
		Samples: samples,
		Seed:    seed,
	})
}
