// Package observability lets a process watch generations, cache traffic and
// browser requests.
//
// Instrumentation stays optional: the pipeline, the workspace and the
// browser server emit events through hook interfaces, and the process
// decides at startup what receives them. The defaults do nothing.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, engine, nodeCount)
//	// ... lay out ...
//	observability.Pipeline().OnLayoutComplete(ctx, engine, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from tree generation and export.
type PipelineHooks interface {
	// OnParseComplete follows parsing and tree building; nodeCount is zero
	// when err is set.
	OnParseComplete(ctx context.Context, inputBytes, nodeCount int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, engine string, nodeCount int)
	OnLayoutComplete(ctx context.Context, engine string, duration time.Duration, err error)

	// OnExportStart and OnExportComplete bracket one rendering; size is the
	// output length in bytes.
	OnExportStart(ctx context.Context, format string)
	OnExportComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
// keyType is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the browser server.
type ServerHooks interface {
	// OnRequest follows each response; route is the chi pattern, such as
	// "/api/export.{format}", not the raw URL.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseComplete(context.Context, int, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                        {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)    {}
func (NoopPipelineHooks) OnExportStart(context.Context, string)                             {}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds the hooks of one kind. Reads are lock-free because every
// generation and every request consults them.
type slot[T any] struct {
	p   atomic.Pointer[T]
	def T
}

func (s *slot[T]) get() T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return s.def
}

func (s *slot[T]) set(h T) { s.p.Store(&h) }

func (s *slot[T]) reset() { s.p.Store(nil) }

var (
	pipelineHooks = &slot[PipelineHooks]{def: NoopPipelineHooks{}}
	cacheHooks    = &slot[CacheHooks]{def: NoopCacheHooks{}}
	serverHooks   = &slot[ServerHooks]{def: NoopServerHooks{}}
)

// SetPipelineHooks installs h for generation and export events. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.set(h)
	}
}

// SetCacheHooks installs h for layout and artifact cache events. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.set(h)
	}
}

// SetServerHooks installs h for browser server requests. nil is ignored.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		serverHooks.set(h)
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHooks.get() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// Server returns the installed server hooks.
func Server() ServerHooks { return serverHooks.get() }

// Reset restores the no-op hooks. Tests that install hooks defer it.
func Reset() {
	pipelineHooks.reset()
	cacheHooks.reset()
	serverHooks.reset()
}
