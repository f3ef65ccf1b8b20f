package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procmap/pkg/config"
	"github.com/matzehuels/procmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion scripts.
const appName = "procmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool

	stdout io.Writer
	stderr io.Writer
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		stdout: os.Stdout,
		stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// out returns a printer for command output.
func (c *CLI) out() printer { return printer{w: c.stdout} }

// spinner starts a spinner on stderr.
func (c *CLI) spinner(ctx context.Context, message string) *Spinner {
	s := newSpinner(ctx, c.stderr, message)
	s.Start()
	return s
}

// loadConfig reads the file named by --config, or the default location.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "config", cfg.String())
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cacheCfg := c.Config.Cache
	if noCache {
		cacheCfg.Backend = config.CacheNone
	}
	cache, err := cacheCfg.Open(ctx)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cache, cacheCfg.Keyer(), c.Logger)
	runner.TTL = cacheCfg.TTL.Duration
	return runner, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the geometry flags shared by layout, render and view.
type layoutFlags struct {
	width   float64
	height  float64
	gap     float64
	noCache bool
	refresh bool
}

// options builds pipeline options from the configuration, overridden by
// any flag set to a positive value.
func (c *CLI) options(f layoutFlags) pipeline.Options {
	opts := pipeline.Options{
		Rect:    c.Config.Layout,
		Colors:  c.Config.Colors,
		Markers: c.Config.Markers,
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
	if f.width > 0 {
		opts.Rect.Width = f.width
	}
	if f.height > 0 {
		opts.Rect.Height = f.height
	}
	if f.gap > 0 {
		opts.Rect.Gap = f.gap
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path: the output flag without a known
// format extension, or the input path without its extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, f := range []string{pipeline.FormatGraphviz, pipeline.FormatSVG, pipeline.FormatDOT,
		pipeline.FormatJSON, pipeline.FormatPNG, pipeline.FormatPDF} {
		if ext := pipeline.Extension(f); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
