package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

const keyTypeSnapshot = "snapshot"

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store results, and every run builds its own chart. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute computes and exports a snapshot, serving it from the cache when an
// identical run was stored before.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	specHash, err := cache.HashJSON(opts.Spec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "hash spec")
	}
	dataHash, err := cache.HashJSON(opts.Data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "data is not JSON-encodable")
	}
	key := r.Keyer.SnapshotKey(specHash, dataHash, opts.SnapshotKeyOpts())

	if !opts.Refresh {
		if doc, data, ok := r.lookup(ctx, key); ok {
			r.Logger.Debug("snapshot cache hit", "key", key)
			return &Result{
				Document: doc,
				Encoded:  data,
				SpecHash: specHash,
				DataHash: dataHash,
				Stats:    statsOf(doc),
				CacheHit: true,
			}, nil
		}
	}

	start := time.Now()
	snap, err := r.Compute(ctx, opts)
	if err != nil {
		return nil, err
	}
	doc := snapshot.Export(snap)
	data, err := snapshot.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLSnapshot); err != nil {
		r.Logger.Warn("snapshot cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeSnapshot, len(data))
	}

	stats := statsOf(doc)
	stats.ComputeTime = time.Since(start)
	r.Logger.Info("computed snapshot",
		"type", opts.Spec.Type,
		"series", stats.SeriesCount,
		"datums", stats.DatumCount,
		"passes", stats.LayoutPasses,
		"duration", stats.ComputeTime)

	return &Result{
		Document: doc,
		Encoded:  data,
		SpecHash: specHash,
		DataHash: dataHash,
		Stats:    stats,
	}, nil
}

// lookup reads and decodes a cached document. Undecodable entries count as
// misses and are recomputed.
func (r *Runner) lookup(ctx context.Context, key string) (snapshot.Document, []byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		if err != nil {
			r.Logger.Warn("snapshot cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeSnapshot)
		return snapshot.Document{}, nil, false
	}
	doc, err := snapshot.Unmarshal(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeSnapshot)
		return snapshot.Document{}, nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeSnapshot)
	return doc, data, true
}

// Compute builds a chart for the options and takes one snapshot after
// applying the pointer. It bypasses the cache.
func (r *Runner) Compute(ctx context.Context, opts Options) (*chart.Snapshot, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnComputeStart(ctx, opts.Spec.Type)
	start := time.Now()

	c, err := r.NewChart(opts)
	var snap *chart.Snapshot
	if err == nil {
		switch {
		case opts.Pointer != nil && opts.Hover:
			snap, err = r.Focus(ctx, c, *opts.Pointer, opts.Spec.HoverRadius)
		case opts.Pointer != nil:
			c.SetPointer(*opts.Pointer)
			snap, err = c.Snapshot()
		default:
			snap, err = c.Snapshot()
		}
	}

	count := 0
	if snap != nil {
		count = len(snap.Series)
	}
	hooks.OnComputeComplete(ctx, opts.Spec.Type, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// NewChart builds a chart from validated options. Interactive callers keep
// the chart and drive it with Focus.
func (r *Runner) NewChart(opts Options) (*chart.Chart, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return chart.New(opts.Spec.ChartOptions(opts.Data, opts.Logger))
}

// Focus hovers c at p and returns the resulting snapshot.
func (r *Runner) Focus(ctx context.Context, c *chart.Chart, p plot.Pointer, radius float64) (*chart.Snapshot, error) {
	start := time.Now()
	snap, err := c.HoverAt(p, radius)
	observability.Pipeline().OnFocus(ctx, p.Active, time.Since(start), err)
	return snap, err
}

// ExecuteBatch runs several pipelines with at most concurrency runs in
// flight. Results are returned in input order. The first error cancels the
// remaining runs.
func (r *Runner) ExecuteBatch(ctx context.Context, batch []Options, concurrency int) ([]*Result, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	// Specs may be shared between items, so defaults are applied before
	// any run starts.
	for i := range batch {
		r.applyLogger(&batch[i])
		if err := batch[i].ValidateAndSetDefaults(); err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
	}

	results := make([]*Result, len(batch))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Execute(ctx, batch[i])
			if err != nil {
				return fmt.Errorf("batch item %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
