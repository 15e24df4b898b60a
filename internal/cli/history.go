package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/quadra-dev/quadra/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// HistoryEntry is the structured payload for one recorded run.
type HistoryEntry struct {
	ID        string  `json:"id" yaml:"id"`
	Expr      string  `json:"expr" yaml:"expr"`
	From      float64 `json:"from" yaml:"from"`
	To        float64 `json:"to" yaml:"to"`
	Samples   int     `json:"samples" yaml:"samples"`
	Seed      int64   `json:"seed" yaml:"seed"`
	Estimate  float64 `json:"estimate" yaml:"estimate"`
	Variance  float64 `json:"variance" yaml:"variance"`
	CreatedAt string  `json:"created_at" yaml:"created_at"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List recorded estimation runs, newest first.

Examples:
  quadra history --db runs.db
  quadra history --db runs.db --limit 10 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	runs, err := st.ListRuns(context.Background(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	entries := make([]HistoryEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, HistoryEntry{
			ID:        run.ID,
			Expr:      run.Expr,
			From:      run.A,
			To:        run.B,
			Samples:   run.Samples,
			Seed:      run.Seed,
			Estimate:  run.Estimate,
			Variance:  run.Variance,
			CreatedAt: run.CreatedAt.Format(time.RFC3339),
		})
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "text" {
		if len(entries) == 0 {
			f.Textf("no runs recorded\n")
			return nil
		}
		for _, e := range entries {
			f.Textf("%s  %s  ∫ %s dx over [%g, %g]  estimate %.10g  (samples %d, seed %d)\n",
				e.ID, e.CreatedAt, e.Expr, e.From, e.To, e.Estimate, e.Samples, e.Seed)
		}
		return nil
	}
	return f.Success(entries)
}
