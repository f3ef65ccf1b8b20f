package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	perrors "github.com/matzehuels/procmap/pkg/errors"
)

// converter is the rsvg-convert executable. Tests point it elsewhere.
var converter = "rsvg-convert"

const installHint = "install librsvg (brew install librsvg, apt install librsvg2-bin)"

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG, scaled by zoom. A zoom of zero or
// less renders at 1x.
func ToPNG(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		zoom = 1
	}
	return convert(ctx, svg, "png", "--zoom", strconv.FormatFloat(zoom, 'f', 2, 64))
}

// Available reports whether the converter is on PATH. PNG and PDF output
// fail with UNSUPPORTED without it.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(converter)
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeUnsupported, "%s output needs %s: %s", format, converter, installHint)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "%s: %s", converter, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
