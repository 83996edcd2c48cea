package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, and failures at
// warn level. It implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or to the default logger
// when logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnStage(stage string, d time.Duration, recomputed bool, err error) {
	if err != nil {
		h.logger.Warn("stage failed", "stage", stage, "error", err)
		return
	}
	if recomputed {
		h.logger.Debug("stage", "stage", stage, "duration", d)
	}
}

func (h *LogHooks) OnComputeStart(_ context.Context, seriesType string) {
	h.logger.Debug("compute", "type", seriesType)
}

func (h *LogHooks) OnComputeComplete(_ context.Context, seriesType string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("compute failed", "type", seriesType, "error", err)
		return
	}
	h.logger.Debug("computed", "type", seriesType, "series", n, "duration", d)
}

func (h *LogHooks) OnFocus(_ context.Context, active bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("focus failed", "error", err)
		return
	}
	h.logger.Debug("focus", "active", active, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, route string, err error) {
	h.logger.Warn("request failed", "method", method, "route", route, "error", err)
}

var (
	_ ChartHooks    = (*LogHooks)(nil)
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
