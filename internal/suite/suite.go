package suite

import (
	"github.com/quadra-dev/quadra/internal/mc"
)

// Job is one named integration request with an optional expectation.
type Job struct {
	// Name uniquely identifies the job within its suite.
	Name string

	// Fn is the integrand expression in the free variable x.
	Fn string

	// From and To are the interval bounds.
	From float64
	To   float64

	// Samples is the number of uniform draws.
	Samples int

	// Seed initializes the generator. Defaults to mc.DefaultSeed when the
	// CUE file omits it.
	Seed int64

	// Expect, when non-nil, is checked against the estimate.
	Expect *Expectation
}

// Expectation pins a job's estimate to a known value within a tolerance.
type Expectation struct {
	Value float64
	Tol   float64
}

// Suite is a set of jobs loaded from one directory.
type Suite struct {
	// Dir is the directory the suite was loaded from.
	Dir string

	// Jobs in name order.
	Jobs []Job

	// FileCount is the number of CUE files found.
	FileCount int
}

// DefaultSeed is applied to jobs whose CUE definition omits a seed.
const DefaultSeed = mc.DefaultSeed
