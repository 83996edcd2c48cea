// Package pipeline turns a chart spec and a data document into a snapshot
// document.
//
// The CLI, the HTTP server and the explorer all compute snapshots the same
// way; this package holds that path so every entry point applies the same
// defaults and shares the same cache.
//
// # Architecture
//
// One run consists of two stages:
//
//  1. Compute: build a chart from the spec, optionally hover it at a
//     pointer, and take a snapshot
//  2. Export: flatten the snapshot into a [snapshot.Document]
//
// The encoded document is cached under a key derived from the spec hash,
// the data hash and the pointer state.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Spec: spec,
//	    Data: data,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Encoded)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/config"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

// DefaultConcurrency bounds ExecuteBatch when no limit is given.
const DefaultConcurrency = 4

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	Spec *config.Spec `json:"spec"`
	Data any          `json:"data"`

	// Pointer sets the pointer state before the snapshot is taken.
	Pointer *plot.Pointer `json:"pointer,omitempty"`

	// Hover resolves the hover set from Pointer: the nearest datum within
	// the spec's hover radius, or its group. Without it only the pointer
	// moves, which is enough for brushing and explicit cursor values.
	Hover bool `json:"hover,omitempty"`

	// Refresh skips the cache lookup. The result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and validates the spec. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Spec == nil {
		return errors.New(errors.ErrCodeInvalidInput, "spec is required")
	}
	if err := o.Spec.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if p := o.Pointer; p != nil && !(finite(p.X) && finite(p.Y)) {
		return errors.New(errors.ErrCodeInvalidInput, "pointer position must be finite")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SnapshotKeyOpts returns the cache key options for the pointer state.
func (o *Options) SnapshotKeyOpts() cache.SnapshotKeyOpts {
	k := cache.SnapshotKeyOpts{
		Width:  o.Spec.Width,
		Height: o.Spec.Height,
	}
	if p := o.Pointer; p != nil {
		k.PointerX, k.PointerY = p.X, p.Y
		k.Active, k.Released = p.Active, p.Released
		if o.Hover {
			k.HoverRadius = o.Spec.HoverRadius
		}
		if p.SourceX != nil {
			k.SourceX, k.HasSource = *p.SourceX, true
		}
	}
	return k
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// =============================================================================
// Result
// =============================================================================

// Result is the output of one run.
type Result struct {
	// Document is the exported snapshot.
	Document snapshot.Document

	// Encoded is Document as indented JSON, exactly as cached.
	Encoded []byte

	// SpecHash and DataHash are the content hashes used for the cache key.
	SpecHash string
	DataHash string

	Stats Stats

	// CacheHit is set when the document came from the cache.
	CacheHit bool
}

// Stats contains run statistics.
type Stats struct {
	SeriesCount  int
	DatumCount   int
	LayoutPasses int
	ComputeTime  time.Duration
}

func statsOf(doc snapshot.Document) Stats {
	s := Stats{SeriesCount: len(doc.Series), LayoutPasses: doc.LayoutPasses}
	for _, ser := range doc.Series {
		s.DatumCount += len(ser.Datums)
	}
	return s
}
