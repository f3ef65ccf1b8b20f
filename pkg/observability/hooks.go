// Package observability lets binaries observe the procmap pipeline, its
// caches and the HTTP API without those packages importing a metrics or
// logging backend.
//
// The packages report events to whatever hooks are registered at the
// time; until a binary registers its own, every event is dropped. The
// serve command, for example, logs everything:
//
//	hooks := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetServerHooks(hooks)
//	defer observability.Reset()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes parsing, layout and rendering.
type PipelineHooks interface {
	// source is a file name or "request <id>".
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, nodeCount int)
	// OnStage fires once per engine stage, in stage order.
	OnStage(ctx context.Context, stage string, duration time.Duration)
	OnLayoutComplete(ctx context.Context, synthetic int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes the runner's cache lookups. keyType is "layout" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks observes HTTP requests. route is the chi route pattern, such
// as "/v1/layouts/{id}".
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks drops every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnStage(context.Context, string, time.Duration)                     {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)        {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks drops every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks drops every server event. Embed it to implement only
// some of the methods.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry is replaced as a whole on every Set call; readers never lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	server   ServerHooks
}

var noop = &registry{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	server:   NoopServerHooks{},
}

var current atomic.Pointer[registry]

func load() *registry {
	if r := current.Load(); r != nil {
		return r
	}
	return noop
}

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *load()
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers h for pipeline events. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers h for cache events. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetServerHooks registers h for server events. nil is ignored.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		update(func(r *registry) { r.server = h })
	}
}

func Pipeline() PipelineHooks { return load().pipeline }
func Cache() CacheHooks       { return load().cache }
func Server() ServerHooks     { return load().server }

// Reset unregisters all hooks.
func Reset() { current.Store(nil) }
