package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quadra-dev/quadra/internal/expr"
	"github.com/quadra-dev/quadra/internal/mc"
	"github.com/quadra-dev/quadra/internal/render"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	From    float64
	To      float64
	Samples int
	Seed    int64
	Width   int
	Height  int
	NoColor bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <expression>",
		Short: "Estimate an integral and draw the function",
		Long: `Estimate the integral of an expression in x over [from, to], then draw
the function across a padded domain with the estimate in the title.

Rendering is a consumer of the estimate, not part of it: the same seed
produces the same estimate whether or not a chart is drawn.

Examples:
  quadra render "x^2" --from 0 --to 1 --samples 100000
  quadra render "sin(x)/x" --from 0.5 --to 10 --samples 50000 --width 100 --no-color`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	addRequestFlags(cmd, &opts.From, &opts.To, &opts.Samples, &opts.Seed)
	cmd.Flags().IntVar(&opts.Width, "width", render.DefaultWidth, "chart width in characters")
	cmd.Flags().IntVar(&opts.Height, "height", render.DefaultHeight, "chart height in characters")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "disable styled output")

	return cmd
}

func runRender(opts *RenderOptions, expression string, cmd *cobra.Command) error {
	compiled, err := expr.Compile(expression)
	if err != nil {
		return WrapExitError(ExitCommandError, "expression does not compile", err)
	}

	res, err := mc.Estimate(mc.Request{
		A:       opts.From,
		B:       opts.To,
		F:       compiled.Eval,
		Expr:    compiled.Source(),
		Samples: opts.Samples,
		Seed:    opts.Seed,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "estimation failed", err)
	}

	chart := render.Chart{
		Width:   opts.Width,
		Height:  opts.Height,
		NoColor: opts.NoColor,
	}
	out, err := chart.Render(res, compiled.Eval)
	if err != nil {
		return WrapExitError(ExitCommandError, "rendering failed", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
