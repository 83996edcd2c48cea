// Package axis builds chart axes from axis configuration and series data.
//
// For each configured axis the builder collects the values of every series
// that references it (primary values for primary axes, secondary values for
// secondary axes), infers the axis type when none is configured, resolves a
// domain, and builds a [plot.Scale] onto the grid's pixel range together
// with ticks and an estimated footprint. Stacked secondary axes take their
// domain from the running positive and negative totals per primary key, so
// stacked datums always fit.
//
// Continuous scales use github.com/aclements/go-moremath/scale for domain
// rounding and tick placement.
package axis

import (
	"math"
	"sort"
	"time"

	"github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// Band padding defaults for ordinal axes, as fractions of a step.
const (
	DefaultInnerPadding = 0.2
	DefaultOuterPadding = 0.1
)

// Config describes one axis. Configurations are compared by value: any
// change in any field rebuilds the axis.
type Config struct {
	ID       string        `json:"id,omitempty" toml:"id" yaml:"id,omitempty"`
	Primary  bool          `json:"primary,omitempty" toml:"primary" yaml:"primary,omitempty"`
	Type     plot.AxisType `json:"type,omitempty" toml:"type" yaml:"type,omitempty"`
	Position plot.Position `json:"position" toml:"position" yaml:"position"`
	Stacked  bool          `json:"stacked,omitempty" toml:"stacked" yaml:"stacked,omitempty"`

	// Min and Max fix the domain bounds. SoftMin and SoftMax only widen it.
	Min     *float64 `json:"min,omitempty" toml:"min" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" toml:"max" yaml:"max,omitempty"`
	SoftMin *float64 `json:"softMin,omitempty" toml:"soft_min" yaml:"softMin,omitempty"`
	SoftMax *float64 `json:"softMax,omitempty" toml:"soft_max" yaml:"softMax,omitempty"`

	// TickCount caps the number of ticks. Zero derives it from the axis
	// length.
	TickCount int `json:"tickCount,omitempty" toml:"tick_count" yaml:"tickCount,omitempty"`
	// Format is a Go time layout for time axes or a fmt verb for numbers.
	Format string `json:"format,omitempty" toml:"format" yaml:"format,omitempty"`
	// Footprint replaces the estimated footprint.
	Footprint *plot.Footprint `json:"footprint,omitempty" toml:"footprint" yaml:"footprint,omitempty"`

	InnerPadding *float64 `json:"innerPadding,omitempty" toml:"inner_padding" yaml:"innerPadding,omitempty"`
	OuterPadding *float64 `json:"outerPadding,omitempty" toml:"outer_padding" yaml:"outerPadding,omitempty"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := errors.ValidatePosition(string(c.Position)); err != nil {
		return err
	}
	if err := errors.ValidateAxisType(string(c.Type)); err != nil {
		return err
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return errors.New(errors.ErrCodeInvalidAxis, "axis %q: min %v exceeds max %v", c.ID, *c.Min, *c.Max)
	}
	if c.Type == plot.AxisLog && c.Min != nil && *c.Min <= 0 {
		return errors.New(errors.ErrCodeInvalidAxis, "axis %q: log axis min must be positive", c.ID)
	}
	for _, p := range []*float64{c.InnerPadding, c.OuterPadding} {
		if p != nil && (*p < 0 || *p >= 1) {
			return errors.New(errors.ErrCodeInvalidAxis, "axis %q: band padding must be in [0, 1)", c.ID)
		}
	}
	return nil
}

// Split separates primary from secondary configurations, keeping order.
func Split(cfgs []Config) (primary, secondary []Config) {
	for _, c := range cfgs {
		if c.Primary {
			primary = append(primary, c)
		} else {
			secondary = append(secondary, c)
		}
	}
	return primary, secondary
}

// BuildAll builds every axis in cfgs over a grid of the given size. All
// configurations must share one role; the role is taken from each config's
// Primary flag. Secondary builds receive the already built primary axes and
// reject a secondary axis that runs parallel to the primary axis of a series
// plotted against it. Primary builds pass nil.
func BuildAll(cfgs []Config, series []*plot.Series, primary []*plot.Axis, gridWidth, gridHeight float64) ([]*plot.Axis, error) {
	axes := make([]*plot.Axis, len(cfgs))
	for i, c := range cfgs {
		refs := referencing(cfgs, i, series)
		a, err := Build(c, refs, gridWidth, gridHeight)
		if err != nil {
			return nil, err
		}
		if !c.Primary {
			if err := checkOrientation(a, refs, primary); err != nil {
				return nil, err
			}
		}
		axes[i] = a
	}
	return axes, nil
}

func checkOrientation(a *plot.Axis, refs []*plot.Series, primary []*plot.Axis) error {
	for _, s := range refs {
		p := plot.Find(primary, s.PrimaryAxisID)
		if p != nil && p.Vertical == a.Vertical {
			return errors.New(errors.ErrCodeInvalidAxis,
				"secondary axis %q runs parallel to primary axis %q", a.ID, p.ID)
		}
	}
	return nil
}

// Build builds one axis from the series that reference it.
func Build(c Config, series []*plot.Series, gridWidth, gridHeight float64) (*plot.Axis, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a := &plot.Axis{
		ID:       c.ID,
		Primary:  c.Primary,
		Position: c.Position,
		Vertical: c.Position.Vertical(),
		Stacked:  c.Stacked,
	}
	if a.Vertical {
		a.Range = [2]float64{math.Max(gridHeight, 0), 0}
	} else {
		a.Range = [2]float64{0, math.Max(gridWidth, 0)}
	}

	values := collect(series, c.Primary)
	a.Type = c.Type
	if a.Type == "" {
		a.Type = infer(values)
	}

	count := c.TickCount
	if count <= 0 {
		count = defaultTickCount(a)
	}

	switch a.Type {
	case plot.AxisOrdinal:
		buildOrdinal(a, c, values)
	case plot.AxisTime:
		buildTime(a, c, values, count)
	case plot.AxisLog:
		if err := buildLog(a, c, values, count); err != nil {
			return nil, err
		}
	default:
		if c.Stacked && !c.Primary {
			values = stackedExtent(series)
		}
		buildLinear(a, c, values, count)
	}

	if a.Primary {
		band(a, c, series)
	}

	if c.Footprint != nil {
		a.Footprint = *c.Footprint
	} else {
		a.Footprint = Measure(a)
	}
	return a, nil
}

// =============================================================================
// Values
// =============================================================================

// referencing returns the series whose axis id resolves to cfgs[i]. Series
// with an unknown or empty id resolve to the first axis.
func referencing(cfgs []Config, i int, series []*plot.Series) []*plot.Series {
	var out []*plot.Series
	for _, s := range series {
		id := s.SecondaryAxisID
		if cfgs[i].Primary {
			id = s.PrimaryAxisID
		}
		if configIndex(cfgs, id) == i {
			out = append(out, s)
		}
	}
	return out
}

func configIndex(cfgs []Config, id string) int {
	if id == "" {
		return 0
	}
	for i, c := range cfgs {
		if c.ID == id {
			return i
		}
	}
	return 0
}

func collect(series []*plot.Series, primary bool) []any {
	var out []any
	for _, s := range series {
		for _, d := range s.Datums {
			v := d.Secondary
			if primary {
				v = d.Primary
			}
			if plot.IsValidPoint(v) {
				out = append(out, v)
			}
		}
	}
	return out
}

// infer picks a type from the first valid value: instants and timestamp
// strings are temporal, numbers are linear, anything else is categorical.
func infer(values []any) plot.AxisType {
	if len(values) == 0 {
		return plot.AxisLinear
	}
	switch v := values[0].(type) {
	case time.Time, *time.Time:
		return plot.AxisTime
	case string:
		if _, ok := plot.ParseTime(v); ok {
			return plot.AxisTime
		}
		return plot.AxisOrdinal
	}
	if _, ok := plot.Number(values[0]); ok {
		return plot.AxisLinear
	}
	return plot.AxisOrdinal
}

// stackedExtent returns the extreme running totals of the series, split by
// sign and keyed by primary value, plus zero.
func stackedExtent(series []*plot.Series) []any {
	pos := map[string]float64{}
	neg := map[string]float64{}
	out := []any{0.0}
	for _, s := range series {
		for _, d := range s.Datums {
			v, ok := plot.Number(d.Secondary)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			k := plot.Key(d.Primary)
			if v >= 0 {
				pos[k] += v
				out = append(out, pos[k])
			} else {
				neg[k] += v
				out = append(out, neg[k])
			}
		}
	}
	return out
}

func numbers(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := plot.Number(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			out = append(out, f)
		}
	}
	return out
}

func extent(xs []float64) (lo, hi float64, ok bool) {
	if len(xs) == 0 {
		return 0, 0, false
	}
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi, true
}

// bounds applies soft and hard limits to a data extent and reports whether
// either end was fixed.
func bounds(c Config, lo, hi float64, ok bool) (float64, float64, bool) {
	if !ok {
		lo, hi = 0, 1
	}
	if c.SoftMin != nil {
		lo = math.Min(lo, *c.SoftMin)
	}
	if c.SoftMax != nil {
		hi = math.Max(hi, *c.SoftMax)
	}
	fixed := false
	if c.Min != nil {
		lo, fixed = *c.Min, true
	}
	if c.Max != nil {
		hi, fixed = *c.Max, true
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, fixed
}

// =============================================================================
// Builders
// =============================================================================

func buildLinear(a *plot.Axis, c Config, values []any, count int) {
	lo, hi, ok := extent(numbers(values))
	lo, hi, fixed := bounds(c, lo, hi, ok)

	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	l := scale.Linear{Min: lo, Max: hi}
	if !fixed {
		l.Nice(tickOptions(count))
		if !finite(l.Min, l.Max) {
			l.Min, l.Max = lo, hi
		}
	}

	s := linearScale{l: l, r0: a.Range[0], r1: a.Range[1]}
	a.Scale = s
	a.Domain = plot.Domain{Min: l.Min, Max: l.Max}
	major, ok := l.Ticks(tickOptions(count))
	if !ok {
		major = []float64{l.Min, l.Max}
	}
	a.Ticks = numberTicks(s, major, c.Format)
}

// minNiceTicks is the smallest tick budget handed to go-moremath. A domain
// crossing zero needs three ticks, and with fewer Nice finds no level and
// leaves NaN bounds.
const minNiceTicks = 3

func tickOptions(count int) scale.TickOptions {
	return scale.TickOptions{Max: max(count, minNiceTicks)}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func buildLog(a *plot.Axis, c Config, values []any, count int) error {
	var positive []float64
	for _, f := range numbers(values) {
		if f > 0 {
			positive = append(positive, f)
		}
	}
	lo, hi, ok := extent(positive)
	if !ok {
		lo, hi = 1, 10
	}
	lo, hi, fixed := bounds(c, lo, hi, true)
	if lo <= 0 {
		return errors.New(errors.ErrCodeInvalidAxis, "axis %q: log domain must be positive", c.ID)
	}
	if lo == hi {
		lo, hi = lo/10, hi*10
	}

	l, err := scale.NewLog(lo, hi, 10)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidAxis, err, "axis %q", c.ID)
	}
	if !fixed {
		l.Nice(tickOptions(count))
		if !finite(l.Min, l.Max) || l.Min <= 0 {
			l.Min, l.Max = lo, hi
		}
	}

	s := logScale{l: l, r0: a.Range[0], r1: a.Range[1]}
	a.Scale = s
	a.Domain = plot.Domain{Min: l.Min, Max: l.Max}
	major, ok := l.Ticks(tickOptions(count))
	if !ok {
		major = []float64{l.Min, l.Max}
	}
	a.Ticks = numberTicks(s, major, c.Format)
	return nil
}

func buildTime(a *plot.Axis, c Config, values []any, count int) {
	ms := make([]float64, 0, len(values))
	for _, v := range values {
		if t, ok := plot.AsTime(v); ok {
			ms = append(ms, float64(t.UnixMilli()))
		}
	}
	lo, hi, ok := extent(ms)
	if !ok {
		lo, hi = 0, float64(24*time.Hour/time.Millisecond)
	}
	lo, hi, _ = bounds(c, lo, hi, true)
	if lo == hi {
		hi = lo + float64(time.Hour/time.Millisecond)
	}

	s := timeScale{linearScale{l: scale.Linear{Min: lo, Max: hi}, r0: a.Range[0], r1: a.Range[1]}}
	a.Scale = s
	a.Domain = plot.Domain{Min: s.at(lo), Max: s.at(hi)}
	a.Ticks = timeTicks(s, s.at(lo), s.at(hi), count, c.Format)
}

func buildOrdinal(a *plot.Axis, c Config, values []any) {
	seen := make(map[string]bool)
	var cats []any
	for _, v := range values {
		k := plot.Key(v)
		if !seen[k] {
			seen[k] = true
			cats = append(cats, v)
		}
	}

	inner, outer := DefaultInnerPadding, DefaultOuterPadding
	if c.InnerPadding != nil {
		inner = *c.InnerPadding
	}
	if c.OuterPadding != nil {
		outer = *c.OuterPadding
	}

	s := newBandScale(cats, a.Range[0], a.Range[1], inner, outer)
	a.Scale = s
	a.Domain = plot.Domain{Values: cats}
	a.Ticks = make([]plot.Tick, len(cats))
	for i, v := range cats {
		px, _ := s.Map(v)
		a.Ticks[i] = plot.Tick{Value: v, Position: px, Label: label(v, c.Format)}
	}
}

// band sizes banded datums on a primary axis. Ordinal axes use the scale's
// bandwidth; continuous axes use the smallest gap between distinct banded
// positions.
func band(a *plot.Axis, c Config, series []*plot.Series) {
	var banded []*plot.Series
	for _, s := range series {
		if plot.IsBanded(s.Type) {
			banded = append(banded, s)
		}
	}
	a.BandedSeries = len(banded)
	if len(banded) == 0 {
		return
	}
	a.BandSlots = make(map[int]int, len(banded))
	for i, s := range banded {
		a.BandSlots[s.Index] = i
	}

	if bw := a.Scale.Bandwidth(); bw > 0 {
		a.BandSize = bw
	} else {
		inner := DefaultInnerPadding
		if c.InnerPadding != nil {
			inner = *c.InnerPadding
		}
		a.BandSize = minGap(a, banded) * (1 - inner)
	}
	a.SeriesBandSize = a.BandSize / float64(len(banded))
}

func minGap(a *plot.Axis, series []*plot.Series) float64 {
	seen := map[float64]bool{}
	var pos []float64
	for _, s := range series {
		for _, d := range s.Datums {
			if px, ok := a.Scale.Map(d.Primary); ok && !seen[px] {
				seen[px] = true
				pos = append(pos, px)
			}
		}
	}
	gap := a.Length()
	sort.Float64s(pos)
	for i := 1; i < len(pos); i++ {
		gap = math.Min(gap, pos[i]-pos[i-1])
	}
	if len(pos) == 1 {
		gap = a.Length() / 2
	}
	return gap
}

// defaultTickCount allows roughly one tick per 80px horizontally and per
// 40px vertically.
func defaultTickCount(a *plot.Axis) int {
	per := 80.0
	if a.Vertical {
		per = 40
	}
	n := int(a.Length() / per)
	return max(2, min(n, 10))
}
