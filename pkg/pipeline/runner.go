package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procmap/pkg/cache"
	perrors "github.com/matzehuels/procmap/pkg/errors"
	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLLayout and cache.TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout → render for a parsed input document.
func (r *Runner) Execute(ctx context.Context, in graph.Input, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	inputHash, err := cache.HashJSON(in)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "hash input")
	}
	result := &Result{InputHash: inputHash}

	layoutStart := time.Now()
	l, layoutHit, err := r.layout(ctx, in, inputHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(in.Nodes)
	result.Stats.EdgeCount = len(in.Edges)
	if l.Stats != nil {
		result.Stats.SyntheticCount = l.Stats.Synthetic
		result.Stats.Ranks = l.Stats.Ranks
		result.Stats.Crossings = l.Stats.Crossings
	}
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"synthetic", result.Stats.SyntheticCount,
		"crossings", result.Stats.Crossings,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout returns the layout of in, from cache when possible.
func (r *Runner) Layout(ctx context.Context, in graph.Input, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, in, opts)
	return l, err
}

// LayoutWithCacheInfo is Layout that also reports whether the cache was hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, in graph.Input, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, false, err
	}
	inputHash, err := cache.HashJSON(in)
	if err != nil {
		return graph.Layout{}, false, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "hash input")
	}
	return r.layout(ctx, in, inputHash, opts)
}

func (r *Runner) layout(ctx context.Context, in graph.Input, inputHash string, opts Options) (graph.Layout, bool, error) {
	hooks := observability.Cache()
	key := r.Keyer.LayoutKey(inputHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		var cached graph.Layout
		err := cache.GetJSON(ctx, r.Cache, key, &cached)
		if err == nil {
			hooks.OnCacheHit(ctx, keyTypeLayout)
			return cached, true, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.Logger.Warn("layout cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	l, err := GenerateLayout(ctx, in, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLLayout)); err != nil {
			r.Logger.Warn("layout cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}
	return l, false, nil
}

// RenderWithCacheInfo renders every requested format of l. Cached artifacts
// are reused only when all formats are cached; otherwise everything is
// rendered and cached again.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, perrors.Wrap(perrors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
	}

	rendered, err := Render(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache information.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
