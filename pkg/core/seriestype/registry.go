// Package seriestype holds the registry of series-type strategies and the
// built-in line, area, bar and bubble types.
//
// A strategy implements [plot.SeriesType]: PlotDatum turns a stacked datum
// into pixel geometry, BuildStyles precomputes the series and datum styles
// for every interaction status. Strategies are looked up by tag; an unknown
// tag is a configuration error.
package seriestype

import (
	"sort"
	"sync"

	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// Built-in type tags.
const (
	Line   = "line"
	Area   = "area"
	Bar    = "bar"
	Bubble = "bubble"
)

// Validator is implemented by strategies that can report missing hooks.
type Validator interface {
	Validate() error
}

// Registry maps type tags to strategies. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]plot.SeriesType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]plot.SeriesType)}
}

// Default returns a fresh registry holding the built-in types.
func Default() *Registry {
	r := NewRegistry()
	r.types[Line] = LineType{}
	r.types[Area] = AreaType{}
	r.types[Bar] = BarType{}
	r.types[Bubble] = BubbleType{}
	return r
}

// Register adds or replaces a strategy.
func (r *Registry) Register(name string, t plot.SeriesType) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "series type name is required")
	}
	if err := Check(name, t); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = t
	return nil
}

// Lookup returns the strategy registered under name.
func (r *Registry) Lookup(name string) (plot.SeriesType, error) {
	r.mu.RLock()
	t, ok := r.types[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownSeriesType,
			"could not find a registered series type for %q", name)
	}
	return t, nil
}

// Names lists the registered tags in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Check reports a missing-hook error for a nil strategy or a strategy whose
// Validate fails.
func Check(name string, t plot.SeriesType) error {
	if t == nil {
		return errors.New(errors.ErrCodeMissingStrategyHook, "series type %q is nil", name)
	}
	if v, ok := t.(Validator); ok {
		if err := v.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeMissingStrategyHook, err, "series type %q is incomplete", name)
		}
	}
	return nil
}

// =============================================================================
// Func Adapter
// =============================================================================

// Funcs adapts a pair of functions to plot.SeriesType. Both hooks are
// required; Validate reports the missing one.
type Funcs struct {
	Plot   func(d *plot.Datum, ctx plot.AxisContext) *plot.Datum
	Styles func(s *plot.Series, ctx plot.StyleContext) *plot.Series
	Band   bool
}

// PlotDatum calls Plot.
func (f Funcs) PlotDatum(d *plot.Datum, ctx plot.AxisContext) *plot.Datum {
	if f.Plot == nil {
		return nil
	}
	return f.Plot(d, ctx)
}

// BuildStyles calls Styles.
func (f Funcs) BuildStyles(s *plot.Series, ctx plot.StyleContext) *plot.Series {
	if f.Styles == nil {
		return nil
	}
	return f.Styles(s, ctx)
}

// Banded implements plot.Banded.
func (f Funcs) Banded() bool { return f.Band }

// Validate implements Validator.
func (f Funcs) Validate() error {
	switch {
	case f.Plot == nil:
		return errors.New(errors.ErrCodeMissingStrategyHook, "missing PlotDatum hook")
	case f.Styles == nil:
		return errors.New(errors.ErrCodeMissingStrategyHook, "missing BuildStyles hook")
	}
	return nil
}

// =============================================================================
// Selector
// =============================================================================

// Selector picks the type tag of a series: either a fixed tag or a function
// of the series and its index.
type Selector struct {
	Name string
	Func func(s *plot.Series, index int) string
}

// Static selects the same tag for every series.
func Static(name string) Selector {
	return Selector{Name: name}
}

// Dynamic selects a tag per series.
func Dynamic(fn func(s *plot.Series, index int) string) Selector {
	return Selector{Func: fn}
}

// Resolve returns the tag for s. An empty selector resolves to line.
func (sel Selector) Resolve(s *plot.Series, index int) string {
	if sel.Func != nil {
		return sel.Func(s, index)
	}
	if sel.Name == "" {
		return Line
	}
	return sel.Name
}

var (
	_ plot.SeriesType = Funcs{}
	_ Validator       = Funcs{}
)
