// Package observability lets a deployment instrument diagram generation
// without coupling the pipeline to any metrics or tracing backend.
//
// The pipeline and cache emit events through two small hook interfaces with
// no-op defaults. An entrypoint that wants instrumentation registers its own
// implementations once at startup:
//
//	observability.SetPipelineHooks(&promPipelineHooks{})
//	observability.SetCacheHooks(&promCacheHooks{})
//
// Emitting sites read the registry on every call:
//
//	observability.Pipeline().OnStageStart(ctx, "build", serverCount)
//	observability.Pipeline().OnExportComplete(ctx, "svg", elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the diagram generation pipeline.
type PipelineHooks interface {
	// Stage events cover classify, synthesize, layout, and connect.
	OnStageStart(ctx context.Context, stage string, componentCount int)
	OnStageComplete(ctx context.Context, stage string, componentCount int, duration time.Duration)

	// Export events, one pair per format.
	OnExportStart(ctx context.Context, format string)
	OnExportComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from diagram and artifact cache lookups. The
// key argument carries the prefixed cache key, whose prefix identifies the
// cached product.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string, int)                      {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, int, time.Duration)    {}
func (NoopPipelineHooks) OnExportStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Call once at startup,
// before the first pipeline run.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call once at startup, before
// the first cache operation.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}
