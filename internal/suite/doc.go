// Package suite loads and runs CUE-defined collections of integration
// jobs.
//
// A suite is a directory of CUE files declaring named jobs:
//
//	jobs: parabola: {
//		fn:      "x^2"
//		from:    0
//		to:      1
//		samples: 100000
//		seed:    1291
//		expect: {value: 0.33333, tol: 0.01}
//	}
//
// seed defaults to the integrator default when omitted. expect is
// optional; jobs without one report their estimate but pass/fail only on
// execution errors. Jobs run in name order so reports are deterministic.
package suite
