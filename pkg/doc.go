// Package pkg provides the core libraries of chartcore, a headless charting
// engine.
//
// # Overview
//
// Chartcore turns raw user data and a declarative chart description into a
// render-ready snapshot: materialized series, scaled axes with ticks, the
// grid rectangle left after axis footprints, stacked offsets and datum
// groups, and the focus state (hover, tooltip, cursors, brush) for the
// current pointer. It draws nothing; any renderer can consume a snapshot.
//
// # Architecture
//
// Data flows through the chart in stages, each memoized on its inputs:
//
//	raw data + accessors
//	         ↓
//	    [core/materialize] series and datums
//	         ↓
//	    [core/seriestype] per-series strategy (line, area, bar, bubble)
//	         ↓
//	    [core/axis] ⇄ [core/layout] domains, scales, footprints, grid
//	         ↓
//	    [core/stack] stacking, totals, datum groups
//	         ↓
//	    [core/focus] closest point, tooltip anchor, cursors, brush
//	         ↓
//	    [chart.Snapshot] → [snapshot.Document] (JSON)
//
// # Quick Start
//
//	spec, _ := config.Load("chart.toml")
//	data, _ := config.LoadData("data.json")
//
//	c, _ := chart.New(spec.ChartOptions(data, nil))
//	snap, _ := c.HoverAt(plot.Pointer{X: 120, Y: 80, Active: true}, spec.HoverRadius)
//
//	doc := snapshot.Export(snap)
//	_ = snapshot.WriteFile(doc, "chart.snapshot.json")
//
// # Main Packages
//
// ## Core
//
// [core/accessor] - Constant, field-path and callable accessors with the
// "undefined means use the default" resolution rule.
//
// [core/plot] - Shared series, datum, axis and pointer types.
//
// [core/axis] - Axis construction: domains, linear, log, time and ordinal
// scales, tick generation and footprint measurement.
//
// [core/layout] - Padding and the fixed point between axis footprints and
// the grid rectangle.
//
// [core/stack] - Stacked offsets, totals and primary, secondary, single or
// series grouping.
//
// [core/focus] - Focus resolution: closest point, tooltip anchors with
// multi-focus, cursor values and brush selections.
//
// [core/memo] - Keyed memoization used by the chart's stages.
//
// ## Engine
//
// [chart] - A chart instance. Setters invalidate only the stages that depend
// on them; Snapshot recomputes what is stale.
//
// [config] - Chart specs in TOML, YAML or JSON, turned into chart options.
//
// [snapshot] - Versioned, cycle-free JSON documents of a chart snapshot.
//
// ## Infrastructure
//
// [pipeline] - Spec + data (+ pointer) → snapshot document, cached by content
// hash, with bounded batch execution. Used by the CLI and the HTTP server.
//
// [cache] - Snapshot caches: file (CLI), Redis (server) and null.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors with user-facing messages.
//
// # Testing
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/core/focus/...   # Specific package
//	go test -run Example ./pkg/... # Examples only
package pkg
