// Package mc implements uniform-sampling Monte Carlo estimation of
// one-dimensional definite integrals.
//
// The core contract is Estimate: given an interval [a, b], an integrand,
// a sample count, and a seed, it returns a point estimate and a variance
// estimate. Every call constructs its own random generator from the seed,
// so identical requests produce bit-identical results across calls and
// processes. There is no shared state between calls.
//
// Validation is fail-fast: malformed intervals, non-positive sample
// counts, and non-evaluable integrands are rejected before any sampling
// happens. Evaluation failures are input errors, never retried.
package mc
