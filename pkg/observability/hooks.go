// Package observability provides hooks for metrics, tracing, and logging.
//
// The chart engine, the snapshot pipeline, the cache backends and the HTTP
// server emit events through the interfaces defined here. Nothing is recorded
// unless a consumer registers an implementation at startup; the defaults are
// no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetChartHooks(&myChartHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	axes, err := axis.BuildAll(...)
//	observability.Chart().OnStage(observability.StagePrimaryAxes, time.Since(start), true, err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Stage names reported by the chart engine.
const (
	StageMaterialize   = "materialize"
	StageResolveTypes  = "resolve_types"
	StageLayout        = "layout"
	StagePrimaryAxes   = "primary_axes"
	StageSecondaryAxes = "secondary_axes"
	StageStack         = "stack"
	StageFocus         = "focus"
)

// =============================================================================
// Chart Hooks
// =============================================================================

// ChartHooks receives events from a chart's recompute cascade.
//
// Chart instances are single-threaded and never block, so stage events carry
// no context.
type ChartHooks interface {
	// OnStage records one memoized stage evaluation. recomputed is false when
	// the stage served its previous output.
	OnStage(stage string, duration time.Duration, recomputed bool, err error)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the snapshot pipeline.
type PipelineHooks interface {
	OnComputeStart(ctx context.Context, seriesType string)
	OnComputeComplete(ctx context.Context, seriesType string, seriesCount int, duration time.Duration, err error)
	OnFocus(ctx context.Context, active bool, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives snapshot cache lookups and writes. keyType names the
// artifact ("snapshot").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives server requests keyed by their chi route pattern.
// OnError fires before OnResponse for requests that fail.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// The Noop types are the defaults. Embed them to implement only some
// methods of an interface.

type NoopChartHooks struct{}

func (NoopChartHooks) OnStage(string, time.Duration, bool, error) {}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnComputeStart(context.Context, string) {}
func (NoopPipelineHooks) OnComputeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnFocus(context.Context, bool, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// registry is an immutable set of hooks. Setters swap in a modified copy so
// the hot-path getters are a single atomic load.
type registry struct {
	chart    ChartHooks
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var (
	current atomic.Pointer[registry]
	writeMu sync.Mutex
)

func init() { Reset() }

func update(fn func(r *registry)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetChartHooks registers chart hooks. A nil h is ignored.
func SetChartHooks(h ChartHooks) {
	if h != nil {
		update(func(r *registry) { r.chart = h })
	}
}

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Register installs h for every hook interface it implements and reports
// how many it matched.
func Register(h any) int {
	n := 0
	update(func(r *registry) {
		if v, ok := h.(ChartHooks); ok {
			r.chart, n = v, n+1
		}
		if v, ok := h.(PipelineHooks); ok {
			r.pipeline, n = v, n+1
		}
		if v, ok := h.(CacheHooks); ok {
			r.cache, n = v, n+1
		}
		if v, ok := h.(HTTPHooks); ok {
			r.http, n = v, n+1
		}
	})
	return n
}

func Chart() ChartHooks       { return current.Load().chart }
func Pipeline() PipelineHooks { return current.Load().pipeline }
func Cache() CacheHooks       { return current.Load().cache }
func HTTP() HTTPHooks         { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{
		chart:    NoopChartHooks{},
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
