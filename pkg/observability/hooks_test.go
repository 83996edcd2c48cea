package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type testChartHooks struct {
	stages     []string
	recomputed int
}

func (h *testChartHooks) OnStage(stage string, _ time.Duration, recomputed bool, _ error) {
	h.stages = append(h.stages, stage)
	if recomputed {
		h.recomputed++
	}
}

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *testCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Chart().(NoopChartHooks); !ok {
		t.Errorf("Chart() = %T", Chart())
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T", HTTP())
	}
}

func TestSetters(t *testing.T) {
	t.Cleanup(Reset)

	chart := &testChartHooks{}
	SetChartHooks(chart)
	SetChartHooks(nil)
	if Chart() != chart {
		t.Error("nil chart hooks should be ignored")
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	Cache().OnCacheHit(context.Background(), "snapshot")
	if cache.hits != 1 {
		t.Errorf("hits = %d", cache.hits)
	}
	if Chart() != chart {
		t.Error("setting cache hooks should leave chart hooks alone")
	}

	Reset()
	if _, ok := Chart().(NoopChartHooks); !ok {
		t.Error("Reset should restore the no-op chart hooks")
	}
}

func TestRegister(t *testing.T) {
	t.Cleanup(Reset)

	tests := []struct {
		name  string
		hooks any
		want  int
	}{
		{"chart only", &testChartHooks{}, 1},
		{"cache only", &testCacheHooks{}, 1},
		{"log hooks", NewLogHooks(nil), 4},
		{"unrelated", "nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			if got := Register(tt.hooks); got != tt.want {
				t.Errorf("Register() matched %d interfaces, want %d", got, tt.want)
			}
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetChartHooks(&testChartHooks{})
		}()
		go func() {
			defer wg.Done()
			if Chart() == nil || HTTP() == nil {
				t.Error("getters must never return nil")
			}
		}()
	}
	wg.Wait()
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnStage(StageStack, time.Millisecond, true, nil)
	h.OnStage(StageFocus, 0, false, nil)
	h.OnCacheSet(ctx, "snapshot", 512)
	h.OnError(ctx, "POST", "/v1/snapshots", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"stage=stack", "bytes=512", "error=boom", "hooks"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "stage=focus") {
		t.Error("memoized stages should not be logged")
	}
}
