package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quadra-dev/quadra/internal/mc"
	"github.com/quadra-dev/quadra/internal/store"
)

// EstimateOptions holds flags for the estimate command.
type EstimateOptions struct {
	*RootOptions
	From     float64
	To       float64
	Samples  int
	Seed     int64
	Database string
}

// EstimateResponse is the structured payload for estimate output.
type EstimateResponse struct {
	Expr     string  `json:"expr" yaml:"expr"`
	From     float64 `json:"from" yaml:"from"`
	To       float64 `json:"to" yaml:"to"`
	Samples  int     `json:"samples" yaml:"samples"`
	Seed     int64   `json:"seed" yaml:"seed"`
	Estimate float64 `json:"estimate" yaml:"estimate"`
	Variance float64 `json:"variance" yaml:"variance"`
	RunID    string  `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EstimateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "estimate <expression>",
		Short: "Estimate a definite integral",
		Long: `Estimate the integral of an expression in x over [from, to] by
uniform-sampling Monte Carlo simulation.

The seed fixes the random draw, so identical invocations print identical
estimates. With --db, the run is recorded for later history and replay.

Examples:
  quadra estimate "x^2" --from 0 --to 1 --samples 100000
  quadra estimate "sin(x)" --from 0 --to 3.14159 --samples 50000 --seed 42
  quadra estimate "exp(-x^2)" --from -2 --to 2 --samples 100000 --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(opts, args[0], cmd)
		},
	}

	addRequestFlags(cmd, &opts.From, &opts.To, &opts.Samples, &opts.Seed)
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

// addRequestFlags registers the flags shared by estimate and render.
func addRequestFlags(cmd *cobra.Command, from, to *float64, samples *int, seed *int64) {
	cmd.Flags().Float64Var(from, "from", 0, "lower interval bound (required)")
	cmd.Flags().Float64Var(to, "to", 0, "upper interval bound (required)")
	cmd.Flags().IntVar(samples, "samples", 0, "number of uniform draws (required)")
	cmd.Flags().Int64Var(seed, "seed", mc.DefaultSeed, "random seed")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("samples")
}

func runEstimate(opts *EstimateOptions, expression string, cmd *cobra.Command) error {
	res, err := mc.EstimateExpr(opts.From, opts.To, expression, opts.Samples, opts.Seed)
	if err != nil {
		return WrapExitError(ExitCommandError, "estimation failed", err)
	}

	resp := EstimateResponse{
		Expr:     res.Expr,
		From:     res.A,
		To:       res.B,
		Samples:  res.Samples,
		Seed:     res.Seed,
		Estimate: res.Estimate,
		Variance: res.Variance,
	}

	if opts.Database != "" {
		run, err := recordRun(opts.Database, res)
		if err != nil {
			return err
		}
		resp.RunID = run.ID
		slog.Debug("run recorded", "id", run.ID, "db", opts.Database)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "text" {
		f.Textf("∫ %s dx over [%g, %g]\n", resp.Expr, resp.From, resp.To)
		f.Textf("estimate %.10g\n", resp.Estimate)
		f.Textf("variance %.10g\n", resp.Variance)
		f.Textf("samples %d  seed %d\n", resp.Samples, resp.Seed)
		if resp.RunID != "" {
			f.Textf("recorded as %s\n", resp.RunID)
		}
		return nil
	}
	return f.Success(resp)
}

// recordRun persists a result in the run store.
func recordRun(dbPath string, res *mc.Result) (*store.Run, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	run := store.NewRun(res)
	if err := st.WriteRun(context.Background(), run); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to record run %s", run.ID), err)
	}
	return &run, nil
}
