// Package pipeline runs parse → layout → render for procmap.
//
// The CLI and the HTTP API both go through this package so that they lay
// out and render the same way and share cache entries.
//
// # Stages
//
//  1. Parse: decode and validate a JSON or YAML input document
//  2. Layout: run the layout engine, draw every edge and export the result
//  3. Render: produce artifacts (JSON, SVG, DOT, Graphviz SVG, PNG, PDF)
//
// Layouts and artifacts are cached by content hash, so repeated requests
// for the same document and options skip the engine entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, in, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procmap/pkg/cache"
	perrors "github.com/matzehuels/procmap/pkg/errors"
	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/layout"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatSVG      = "svg"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSVG

// DefaultPNGScale is the resolution multiplier of PNG output.
const DefaultPNGScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Layout options. Zero values keep the engine defaults.
	Rect    layout.Rect    `json:"rect,omitempty"`
	Colors  layout.Palette `json:"colors,omitempty"`
	Markers layout.Palette `json:"markers,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // metrics in DOT labels, waypoints in SVG
	Padding  float64  `json:"padding,omitempty"`  // SVG margin
	Refresh  bool     `json:"refresh,omitempty"`  // bypass cached results

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults normalizes the formats and fills defaults.
// Calling it twice has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	seen := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		if err := perrors.ValidateFormat(f); err != nil {
			return err
		}
		f = strings.ToLower(f)
		if !slices.Contains(seen, f) {
			seen = append(seen, f)
		}
	}
	o.Formats = seen
	if o.Padding < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "padding cannot be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutOptions returns the engine options.
func (o *Options) LayoutOptions() []layout.Option {
	opts := []layout.Option{
		layout.WithRect(o.Rect),
		layout.WithColors(o.Colors),
		layout.WithMarkers(o.Markers),
	}
	if o.Logger != nil {
		opts = append(opts, layout.WithLogger(o.Logger))
	}
	return opts
}

// LayoutKeyOpts returns the cache key options of the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:     o.Rect.Width,
		Height:    o.Rect.Height,
		Gap:       o.Rect.Gap,
		FakeWidth: o.Rect.FakeWidth,
		Colors:    paletteKey(o.Colors),
		Markers:   paletteKey(o.Markers),
	}
}

// ArtifactKeyOpts returns the cache key options of one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed && format != FormatJSON,
		Padding:  o.Padding,
	}
}

func paletteKey(p layout.Palette) string {
	if p == (layout.Palette{}) {
		return ""
	}
	return p.Primary + "|" + p.Hover + "|" + p.Disabled
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// InputHash is the content hash of the input document.
	InputHash string

	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	EdgeCount      int
	SyntheticCount int
	Ranks          int
	Crossings      int
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}
