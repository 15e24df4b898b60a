package suite

import (
	"fmt"
	"math"

	"github.com/quadra-dev/quadra/internal/mc"
)

// Status classifies a job outcome.
type Status string

const (
	// StatusPass means the estimate landed within the expectation.
	StatusPass Status = "pass"

	// StatusFail means the estimate missed the expectation.
	StatusFail Status = "fail"

	// StatusOK means the job ran but declared no expectation.
	StatusOK Status = "ok"

	// StatusError means the job did not produce an estimate.
	StatusError Status = "error"
)

// JobResult is the outcome of one job.
type JobResult struct {
	Job    Job
	Status Status

	// Result is the estimation outcome; nil when Status is StatusError.
	Result *mc.Result

	// Message explains failures and errors.
	Message string
}

// Report is the outcome of running a whole suite. Results appear in job
// name order.
type Report struct {
	Suite   *Suite
	Results []JobResult
}

// Run executes every job in the suite. Jobs run independently; one job's
// failure never stops the rest (the report carries per-job outcomes, the
// way a test run reports every test).
func Run(s *Suite) *Report {
	report := &Report{Suite: s}
	for _, job := range s.Jobs {
		report.Results = append(report.Results, runJob(job))
	}
	return report
}

func runJob(job Job) JobResult {
	res, err := mc.EstimateExpr(job.From, job.To, job.Fn, job.Samples, job.Seed)
	if err != nil {
		return JobResult{
			Job:     job,
			Status:  StatusError,
			Message: err.Error(),
		}
	}

	if job.Expect == nil {
		return JobResult{Job: job, Status: StatusOK, Result: res}
	}

	delta := math.Abs(res.Estimate - job.Expect.Value)
	if delta <= job.Expect.Tol {
		return JobResult{Job: job, Status: StatusPass, Result: res}
	}
	return JobResult{
		Job:    job,
		Status: StatusFail,
		Result: res,
		Message: fmt.Sprintf("estimate %g is off expected %g by %g (tol %g)",
			res.Estimate, job.Expect.Value, delta, job.Expect.Tol),
	}
}

// Failed reports whether any job failed or errored.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFail || res.Status == StatusError {
			return true
		}
	}
	return false
}

// Counts returns the number of results per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}
