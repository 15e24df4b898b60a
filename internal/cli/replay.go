package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quadra-dev/quadra/internal/mc"
	"github.com/quadra-dev/quadra/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayResponse is the structured payload for replay output.
type ReplayResponse struct {
	RunID         string  `json:"run_id" yaml:"run_id"`
	Expr          string  `json:"expr" yaml:"expr"`
	Stored        float64 `json:"stored_estimate" yaml:"stored_estimate"`
	Replayed      float64 `json:"replayed_estimate" yaml:"replayed_estimate"`
	Deterministic bool    `json:"deterministic" yaml:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Re-execute a recorded run and verify determinism",
		Long: `Re-execute a recorded run from its stored inputs and verify that the
result reproduces the stored fingerprint bit-for-bit.

A mismatch means the estimate is no longer reproducible on this build
(for example, the expression grammar or sampling order changed).

Exit codes:
  0 - Replay reproduced the stored result exactly
  1 - Replay diverged from the stored result
  2 - Command error (database or run not found)

Examples:
  quadra replay 0193e5a2-... --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, runID string, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	run, err := st.GetRun(context.Background(), runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}

	slog.Debug("replaying run", "id", run.ID, "expr", run.Expr, "samples", run.Samples, "seed", run.Seed)
	res, err := mc.EstimateExpr(run.A, run.B, run.Expr, run.Samples, run.Seed)
	if err != nil {
		return WrapExitError(ExitFailure, "stored request no longer executes", err)
	}

	resp := ReplayResponse{
		RunID:         run.ID,
		Expr:          run.Expr,
		Stored:        run.Estimate,
		Replayed:      res.Estimate,
		Deterministic: store.Fingerprint(res) == run.Fingerprint,
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "text" {
		if resp.Deterministic {
			f.Textf("run %s replayed deterministically: estimate %.10g\n", resp.RunID, resp.Replayed)
		} else {
			f.Textf("run %s DIVERGED: stored %.10g, replayed %.10g\n", resp.RunID, resp.Stored, resp.Replayed)
		}
	} else if err := f.Success(resp); err != nil {
		return err
	}

	if !resp.Deterministic {
		return NewExitError(ExitFailure, "replay diverged from stored result")
	}
	return nil
}
