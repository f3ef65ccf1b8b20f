package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/pipeline"
)

// layoutCommand creates the layout command for computing layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [input.json|input.yaml]",
		Short: "Compute the layout of a process graph",
		Long: `Compute the layout of a process graph.

The input document lists nodes, edges and paths; the first path is the main
process. The output is a layout.json file (same format as 'render -f json')
holding node positions, routed edge lines and the process lane.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the input, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, flags layoutFlags) error {
	in, err := pipeline.ParseFile(ctx, input)
	if err != nil {
		return fmt.Errorf("load input %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := c.spinner(ctx, "Computing layout...")
	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, in, c.options(flags))
	spinner.Stop()
	if err != nil {
		c.out().failure("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	p := c.out()
	p.success("Layout complete")
	p.file(outputPath)
	p.stats(len(in.Nodes), len(in.Edges), syntheticCount(l), cacheHit)
	p.nextStep("Explore", appName+" view "+input)

	return nil
}

func syntheticCount(l graph.Layout) int {
	if l.Stats == nil {
		return 0
	}
	return l.Stats.Synthetic
}
