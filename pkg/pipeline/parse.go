package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/observability"
)

// ParseFile reads and validates the input document at path.
func ParseFile(ctx context.Context, path string) (graph.Input, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, path)
	start := time.Now()

	in, err := graph.ReadInputFile(path)
	hooks.OnParseComplete(ctx, path, len(in.Nodes), time.Since(start), err)
	return in, err
}

// Parse decodes and validates an input document read from r. source names
// the document in hook events.
func Parse(ctx context.Context, source string, r io.Reader, format string) (graph.Input, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, source)
	start := time.Now()

	in, err := graph.ReadInput(r, format)
	hooks.OnParseComplete(ctx, source, len(in.Nodes), time.Since(start), err)
	return in, err
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(ctx context.Context, source string, data []byte, format string) (graph.Input, error) {
	return Parse(ctx, source, bytes.NewReader(data), format)
}
