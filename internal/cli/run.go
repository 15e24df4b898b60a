package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quadra-dev/quadra/internal/store"
	"github.com/quadra-dev/quadra/internal/suite"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
}

// JobReport is the structured payload for one job outcome.
type JobReport struct {
	Name     string  `json:"name" yaml:"name"`
	Status   string  `json:"status" yaml:"status"`
	Estimate float64 `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	Variance float64 `json:"variance,omitempty" yaml:"variance,omitempty"`
	Message  string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// RunResponse is the structured payload for run output.
type RunResponse struct {
	Suite  string      `json:"suite" yaml:"suite"`
	Jobs   []JobReport `json:"jobs" yaml:"jobs"`
	Passed int         `json:"passed" yaml:"passed"`
	Failed int         `json:"failed" yaml:"failed"`
	Errors int         `json:"errors" yaml:"errors"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <suite-dir>",
		Short: "Run a CUE suite of integration jobs",
		Long: `Run every job in a CUE suite and report per-job outcomes.

Jobs with an expect clause pass when the estimate lands within the given
tolerance; jobs without one report their estimate. With --db, every
successful estimate is recorded as a run.

Exit codes:
  0 - All jobs passed
  1 - At least one job failed or errored
  2 - Command error (suite not loadable, database not writable)

Examples:
  quadra run ./suites/smoke
  quadra run ./suites/regression --db runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record successful estimates in this SQLite database")

	return cmd
}

func runSuite(opts *RunOptions, dir string, cmd *cobra.Command) error {
	slog.Debug("loading suite", "dir", dir)
	s, err := suite.Load(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load suite", err)
	}
	slog.Debug("suite loaded", "jobs", len(s.Jobs), "files", s.FileCount)

	report := suite.Run(s)

	if opts.Database != "" {
		if err := recordReport(opts.Database, report); err != nil {
			return err
		}
	}

	resp := RunResponse{Suite: dir}
	for _, jr := range report.Results {
		item := JobReport{
			Name:    jr.Job.Name,
			Status:  string(jr.Status),
			Message: jr.Message,
		}
		if jr.Result != nil {
			item.Estimate = jr.Result.Estimate
			item.Variance = jr.Result.Variance
		}
		resp.Jobs = append(resp.Jobs, item)
	}
	counts := report.Counts()
	resp.Passed = counts[suite.StatusPass] + counts[suite.StatusOK]
	resp.Failed = counts[suite.StatusFail]
	resp.Errors = counts[suite.StatusError]

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "text" {
		for _, job := range resp.Jobs {
			switch suite.Status(job.Status) {
			case suite.StatusError:
				f.Textf("%-6s %s: %s\n", job.Status, job.Name, job.Message)
			case suite.StatusFail:
				f.Textf("%-6s %s: estimate %.10g (%s)\n", job.Status, job.Name, job.Estimate, job.Message)
			default:
				f.Textf("%-6s %s: estimate %.10g  variance %.10g\n", job.Status, job.Name, job.Estimate, job.Variance)
			}
		}
		f.Textf("%d passed, %d failed, %d errored\n", resp.Passed, resp.Failed, resp.Errors)
	} else if err := f.Success(resp); err != nil {
		return err
	}

	if report.Failed() {
		return NewExitError(ExitFailure, "suite failed")
	}
	return nil
}

// recordReport persists every successful estimate in the report.
func recordReport(dbPath string, report *suite.Report) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := context.Background()
	for _, jr := range report.Results {
		if jr.Result == nil {
			continue
		}
		run := store.NewRun(jr.Result)
		if err := st.WriteRun(ctx, run); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		slog.Debug("run recorded", "job", jr.Job.Name, "id", run.ID)
	}
	return nil
}
