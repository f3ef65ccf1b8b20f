package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, and failures at
// error level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnParseStart(_ context.Context, source string) {
	h.Logger.Debug("parse started", "source", source)
}

func (h *LogHooks) OnParseComplete(_ context.Context, source string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("parse failed", "source", source, "err", err)
		return
	}
	h.Logger.Debug("parse complete", "source", source, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, nodeCount int) {
	h.Logger.Debug("layout started", "nodes", nodeCount)
}

func (h *LogHooks) OnStage(_ context.Context, stage string, d time.Duration) {
	h.Logger.Debug("layout stage", "stage", stage, "duration", d)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, synthetic int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("layout failed", "err", err)
		return
	}
	h.Logger.Debug("layout complete", "synthetic", synthetic, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.Logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	lvl := log.InfoLevel
	if status >= 500 {
		lvl = log.ErrorLevel
	}
	h.Logger.Log(lvl, "response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
