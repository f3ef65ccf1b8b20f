package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/layout"
	"github.com/matzehuels/procmap/pkg/observability"
)

// NewEngine creates a layout engine for in configured by opts. Stage
// timings are reported to the pipeline hooks.
func NewEngine(ctx context.Context, in graph.Input, opts Options) *layout.Engine {
	hooks := observability.Pipeline()
	engineOpts := append(opts.LayoutOptions(), layout.WithStageFunc(func(stage string, d time.Duration) {
		hooks.OnStage(ctx, stage, d)
	}))
	return layout.New(in, engineOpts...)
}

// GenerateLayout lays out in, draws every edge and returns the exported
// document. The engine itself cannot fail; errors come from a context that
// ends before or between stages.
func GenerateLayout(ctx context.Context, in graph.Input, opts Options) (graph.Layout, error) {
	if err := ctx.Err(); err != nil {
		return graph.Layout{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(in.Nodes))
	start := time.Now()

	e := NewEngine(ctx, in, opts)
	if _, err := e.InitContext(ctx); err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return graph.Layout{}, err
	}
	e.DrawEdges()
	out := e.Export()

	synthetic := 0
	if out.Stats != nil {
		synthetic = out.Stats.Synthetic
	}
	hooks.OnLayoutComplete(ctx, synthetic, time.Since(start), nil)
	return out, nil
}
