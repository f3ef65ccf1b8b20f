package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/procmap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file (one format) or base path (several)
	formats  string  // comma-separated output formats
	detailed bool    // edge metrics in DOT, waypoints in SVG
	padding  float64 // SVG margin
	layout   layoutFlags
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [input.json|input.yaml]",
		Short: "Render a process graph",
		Long: `Render a process graph.

Formats:
  svg       native SVG with hover styling (default)
  json      the layout document
  dot       Graphviz DOT source
  graphviz  SVG rendered by Graphviz from the DOT source
  png, pdf  the native SVG converted with rsvg-convert

With one format, --output names the file. With several, it is the base path
and each file gets the extension of its format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, dot, graphviz, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show edge metrics in DOT and waypoints in SVG")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "SVG margin in pixels (default 20)")
	opts.layout.register(cmd)

	return cmd
}

// runRender lays out the input and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	in, err := pipeline.ParseFile(ctx, input)
	if err != nil {
		return fmt.Errorf("load input %s: %w", input, err)
	}
	logger.Debugf("Loaded input: %d nodes, %d edges, %d paths", len(in.Nodes), len(in.Edges), len(in.Paths))

	runner, err := c.newRunner(ctx, ro.layout.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(ro.layout)
	opts.Formats = parseFormats(ro.formats)
	opts.Detailed = ro.detailed
	opts.Padding = ro.padding
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := c.spinner(ctx, "Rendering...")
	result, err := runner.Execute(ctx, in, opts)
	spinner.Stop()
	if err != nil {
		c.out().failure("Render failed")
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, ro.output, input)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(paths)))

	p := c.out()
	p.success("Render complete")
	for _, path := range paths {
		p.file(path)
	}
	p.stats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.SyntheticCount,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes each artifact in format order and returns the
// written paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	single := len(formats) == 1 && output != ""
	base := basePath(output, input)

	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + pipeline.Extension(format)
		if single {
			path = output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 && len(formats) > 0 {
		return nil, fmt.Errorf("no output produced for %v", formats)
	}
	return paths, nil
}
