package pipeline

import (
	"context"
	"fmt"
	"time"

	perrors "github.com/matzehuels/procmap/pkg/errors"
	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/observability"
	"github.com/matzehuels/procmap/pkg/render"
	"github.com/matzehuels/procmap/pkg/render/nodelink"
	"github.com/matzehuels/procmap/pkg/render/svg"
)

// Render produces one artifact per requested format. Formats must already
// be validated.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderAll(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	// Converted formats get a static drawing without the hover stylesheet.
	drawings := map[bool][]byte{}
	nativeSVG := func(interactive bool) []byte {
		if data, ok := drawings[interactive]; ok {
			return data
		}
		var svgOpts []svg.Option
		if opts.Padding > 0 {
			svgOpts = append(svgOpts, svg.WithPadding(opts.Padding))
		}
		if opts.Detailed {
			svgOpts = append(svgOpts, svg.WithSynthetic())
		}
		if !interactive {
			svgOpts = append(svgOpts, svg.WithoutInteraction())
		}
		drawings[interactive] = svg.Render(l, svgOpts...)
		return drawings[interactive]
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatSVG:
			data = nativeSVG(true)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed}))
		case FormatGraphviz:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed}))
		case FormatPNG:
			data, err = render.ToPNG(ctx, nativeSVG(false), DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, nativeSVG(false))
		default:
			return nil, perrors.New(perrors.ErrCodeInvalidFormat, "unsupported format %q", format)
		}

		if err != nil {
			if perrors.GetCode(err) != "" {
				return nil, err
			}
			return nil, perrors.Wrap(perrors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG, FormatGraphviz:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension used for a rendered format.
func Extension(format string) string {
	switch format {
	case FormatGraphviz:
		return ".graphviz.svg"
	case FormatDOT:
		return ".dot"
	default:
		return fmt.Sprintf(".%s", format)
	}
}
