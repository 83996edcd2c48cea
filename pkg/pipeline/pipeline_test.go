package pipeline

import (
	"bytes"
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/config"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/observability"
)

func testSpec(t *testing.T) *config.Spec {
	t.Helper()
	s, err := config.Parse([]byte(`{
		"type": "area",
		"width": 400,
		"height": 300,
		"axes": [
			{"primary": true, "position": "bottom"},
			{"position": "left", "stacked": true}
		]
	}`), config.FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func testData() any {
	return []any{
		map[string]any{"label": "a", "data": []any{[]any{0, 1}, []any{1, 2}, []any{2, 3}}},
		map[string]any{"label": "b", "data": []any{[]any{0, 4}, []any{1, 5}, []any{2, 6}}},
	}
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing spec", Options{}, errors.ErrCodeInvalidInput},
		{"bad spec", Options{Spec: &config.Spec{Type: "pie"}}, errors.ErrCodeUnknownSeriesType},
		{"nan pointer", Options{Spec: &config.Spec{}, Pointer: &plot.Pointer{X: math.NaN()}}, errors.ErrCodeInvalidInput},
		{"ok", Options{Spec: &config.Spec{}, Pointer: &plot.Pointer{X: -5, Y: 10}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.opts.Logger == nil || tt.opts.Spec.Width != config.DefaultWidth {
					t.Errorf("defaults not applied: %+v", tt.opts)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSnapshotKeyOpts(t *testing.T) {
	src := 12.0
	opts := Options{Spec: testSpec(t)}
	if k := opts.SnapshotKeyOpts(); k.Active || k.HoverRadius != 0 || k.Width != 400 {
		t.Errorf("no pointer: %+v", k)
	}

	opts.Pointer = &plot.Pointer{X: 3, Y: 4, Active: true, Released: true, SourceX: &src}
	if k := opts.SnapshotKeyOpts(); k.HoverRadius != 0 {
		t.Errorf("hover radius without hover = %v", k.HoverRadius)
	}
	opts.Hover = true
	k := opts.SnapshotKeyOpts()
	if k.PointerX != 3 || k.PointerY != 4 || !k.Active || !k.Released || !k.HasSource || k.SourceX != 12 {
		t.Errorf("pointer key = %+v", k)
	}
	if k.HoverRadius != config.DefaultHoverRadius {
		t.Errorf("hover radius = %v", k.HoverRadius)
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	spec := testSpec(t)

	first, err := r.Execute(ctx, Options{Spec: spec, Data: testData()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}
	if first.Stats.SeriesCount != 2 || first.Stats.DatumCount != 6 || first.Stats.LayoutPasses < 1 {
		t.Errorf("stats = %+v", first.Stats)
	}
	if first.SpecHash == "" || first.DataHash == "" {
		t.Error("hashes should be set")
	}

	second, err := r.Execute(ctx, Options{Spec: spec, Data: testData()})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if !bytes.Equal(first.Encoded, second.Encoded) {
		t.Error("cached bytes differ from computed bytes")
	}
	if second.Stats.DatumCount != 6 {
		t.Errorf("cached stats = %+v", second.Stats)
	}

	refreshed, err := r.Execute(ctx, Options{Spec: spec, Data: testData(), Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	other, err := r.Execute(ctx, Options{Spec: spec, Data: testData(), Pointer: &plot.Pointer{X: 1, Y: 1, Active: true}})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheHit {
		t.Error("a different pointer should not hit")
	}
}

func TestExecutePointer(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	spec := testSpec(t)

	base, err := r.Compute(ctx, Options{Spec: spec, Data: testData()})
	if err != nil {
		t.Fatal(err)
	}
	target := base.Series[0].Datums[2]

	res, err := r.Execute(ctx, Options{
		Spec:    spec,
		Data:    testData(),
		Pointer: &plot.Pointer{X: target.Focus.X, Y: target.Focus.Y, Active: true},
		Hover:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	doc := res.Document
	if !doc.Hovered.Active || len(doc.Hovered.Datums) != 2 {
		t.Fatalf("hovered = %+v", doc.Hovered)
	}
	if doc.Tooltip == nil || !doc.Tooltip.Show || doc.Tooltip.Datum == nil {
		t.Fatalf("tooltip = %+v", doc.Tooltip)
	}
	if d := *doc.Tooltip.Datum; d.Series != 0 || d.Datum != 2 {
		t.Errorf("tooltip datum = %+v", d)
	}
	if pc := doc.Cursors.Primary; pc == nil || !pc.Show {
		t.Errorf("primary cursor = %+v", pc)
	}
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(ctx, Options{Spec: testSpec(t), Data: []any{make(chan int)}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unencodable data: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.Execute(cancelled, Options{Spec: testSpec(t), Data: testData()}); err == nil {
		t.Error("expected context error")
	}
}

func TestExecuteBatch(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	spec := testSpec(t)

	batch := []Options{
		{Spec: spec, Data: testData()},
		{Spec: spec, Data: []any{map[string]any{"data": []any{[]any{0, 1}}}}},
		{Spec: spec},
	}
	results, err := r.ExecuteBatch(ctx, batch, 2)
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	want := []int{6, 1, 0}
	for i, res := range results {
		if res.Stats.DatumCount != want[i] {
			t.Errorf("result %d: %d datums, want %d", i, res.Stats.DatumCount, want[i])
		}
	}
	if !results[2].Document.Empty {
		t.Error("run without data should be empty")
	}

	batch = append(batch, Options{Spec: &config.Spec{Type: "pie"}})
	if _, err := r.ExecuteBatch(ctx, batch, 0); !errors.Is(err, errors.ErrCodeUnknownSeriesType) {
		t.Errorf("batch error = %v", err)
	}
}

type recorder struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnComputeStart(context.Context, string) { r.add("start") }
func (r *recorder) OnComputeComplete(_ context.Context, _ string, n int, _ time.Duration, err error) {
	if err == nil && n == 2 {
		r.add("complete")
	}
}
func (r *recorder) OnFocus(_ context.Context, active bool, _ time.Duration, _ error) {
	if active {
		r.add("focus")
	}
}
func (r *recorder) OnCacheHit(context.Context, string)      { r.add("hit") }
func (r *recorder) OnCacheMiss(context.Context, string)     { r.add("miss") }
func (r *recorder) OnCacheSet(context.Context, string, int) { r.add("set") }

func TestPipelineHooks(t *testing.T) {
	rec := &recorder{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	r := newFileRunner(t)
	spec := testSpec(t)
	ptr := &plot.Pointer{X: 10, Y: 10, Active: true}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(ctx, Options{Spec: spec, Data: testData(), Pointer: ptr, Hover: true}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"miss", "start", "focus", "complete", "set", "hit"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, rec.events[i], want[i])
		}
	}
}
