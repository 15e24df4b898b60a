package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/quadra-dev/quadra/internal/mc"
)

// Run is one recorded estimation: the full request plus its outcome.
// Inputs are sufficient to re-execute the run; Fingerprint pins the
// expected outcome bit-for-bit.
type Run struct {
	// ID is a UUIDv7, so IDs sort by creation time.
	ID string

	// Request fields.
	Expr    string
	A       float64
	B       float64
	Samples int
	Seed    int64

	// Outcome fields.
	Estimate float64
	Variance float64

	// Fingerprint is the canonical digest of inputs and outcome.
	Fingerprint string

	// CreatedAt is the wall-clock recording time (UTC). Informational
	// only; nothing orders or branches on it.
	CreatedAt time.Time
}

// NewRun builds a Run from an estimation result, assigning a fresh
// UUIDv7 ID and the canonical fingerprint.
func NewRun(res *mc.Result) Run {
	return Run{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Expr:        res.Expr,
		A:           res.A,
		B:           res.B,
		Samples:     res.Samples,
		Seed:        res.Seed,
		Estimate:    res.Estimate,
		Variance:    res.Variance,
		Fingerprint: Fingerprint(res),
		CreatedAt:   time.Now().UTC(),
	}
}

// Result reconstructs the mc.Result this run was recorded from.
func (r Run) Result() *mc.Result {
	return &mc.Result{
		Estimate: r.Estimate,
		Variance: r.Variance,
		Expr:     r.Expr,
		A:        r.A,
		B:        r.B,
		Samples:  r.Samples,
		Seed:     r.Seed,
	}
}
