package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quadra-dev/quadra/internal/expr"
	"github.com/quadra-dev/quadra/internal/suite"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateResponse is the structured payload for validate output.
type ValidateResponse struct {
	Target string   `json:"target" yaml:"target"`
	Kind   string   `json:"kind" yaml:"kind"` // "expression" or "suite"
	Valid  bool     `json:"valid" yaml:"valid"`
	Jobs   []string `json:"jobs,omitempty" yaml:"jobs,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <expression | suite-dir>",
		Short: "Check an expression or suite without sampling",
		Long: `Compile-check an expression, or load a CUE suite directory and
validate every job in it, without running any estimation.

A directory argument is treated as a suite; anything else as an
expression in x.

Examples:
  quadra validate "sin(x)^2 / x"
  quadra validate ./suites/regression`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, target string, cmd *cobra.Command) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		s, err := suite.Load(target)
		if err != nil {
			return WrapExitError(ExitFailure, "suite is invalid", err)
		}
		resp := ValidateResponse{Target: target, Kind: "suite", Valid: true}
		for _, job := range s.Jobs {
			resp.Jobs = append(resp.Jobs, job.Name)
		}
		if opts.Format == "text" {
			f.Textf("suite %s is valid (%d jobs)\n", target, len(resp.Jobs))
			return nil
		}
		return f.Success(resp)
	}

	compiled, err := expr.Compile(target)
	if err != nil {
		return WrapExitError(ExitFailure, "expression is invalid", err)
	}
	if opts.Format == "text" {
		f.Textf("expression %s is valid\n", fmt.Sprintf("%q", compiled.Source()))
		return nil
	}
	return f.Success(ValidateResponse{Target: compiled.Source(), Kind: "expression", Valid: true})
}
