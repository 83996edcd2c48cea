// Package materialize turns raw input data into series and datum records.
//
// [Materialize] runs the configured accessors over the data: one accessor
// yields the list of series, one yields each series' datums, and the rest
// read labels, ids, axis ids and the primary/secondary/radius values. The
// output is a pure function of the data and the accessors; absent data or a
// series accessor that yields nothing produce a nil result, which the chart
// treats as the "no data" state.
//
// [ResolveTypes] then attaches a series-type strategy to every series and
// numbers series densely within each resolved strategy.
package materialize

import (
	"fmt"
	"reflect"

	"github.com/matzehuels/chartcore/pkg/core/accessor"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/core/seriestype"
)

// Accessors configures how data is read. Zero fields fall back to
// [DefaultAccessors].
type Accessors struct {
	Series          accessor.Accessor
	Datums          accessor.Accessor
	Label           accessor.Accessor
	SeriesID        accessor.Accessor
	Primary         accessor.Accessor
	Secondary       accessor.Accessor
	R               accessor.Accessor
	PrimaryAxisID   accessor.Accessor
	SecondaryAxisID accessor.Accessor
}

// Key identifies an accessor set by the identities of its members.
type Key [9]accessor.ID

// Key returns the identity key of a.
func (a Accessors) Key() Key {
	return Key{
		a.Series.ID(), a.Datums.ID(), a.Label.ID(), a.SeriesID.ID(),
		a.Primary.ID(), a.Secondary.ID(), a.R.ID(),
		a.PrimaryAxisID.ID(), a.SecondaryAxisID.ID(),
	}
}

// WithDefaults returns a with every zero accessor replaced by the default.
func (a Accessors) WithDefaults() Accessors {
	d := defaults
	fill := func(dst *accessor.Accessor, def accessor.Accessor) {
		if dst.IsZero() {
			*dst = def
		}
	}
	fill(&a.Series, d.Series)
	fill(&a.Datums, d.Datums)
	fill(&a.Label, d.Label)
	fill(&a.SeriesID, d.SeriesID)
	fill(&a.Primary, d.Primary)
	fill(&a.Secondary, d.Secondary)
	fill(&a.R, d.R)
	fill(&a.PrimaryAxisID, d.PrimaryAxisID)
	fill(&a.SecondaryAxisID, d.SecondaryAxisID)
	return a
}

// Materialize builds series from data. It returns nil when data is nil or
// the series accessor does not yield a non-empty list.
func Materialize(data any, acc Accessors) []*plot.Series {
	if data == nil {
		return nil
	}
	acc = acc.WithDefaults()

	raw, ok := plot.List(acc.Series.Resolve(accessor.Context{Record: data, Data: data}))
	if !ok || len(raw) == 0 {
		return nil
	}

	out := make([]*plot.Series, len(raw))
	for si, rs := range raw {
		sctx := accessor.Context{Record: rs, Index: si, Series: rs, SeriesIndex: si, Data: data}
		s := &plot.Series{
			Original:        rs,
			Index:           si,
			ID:              acc.SeriesID.Resolve(sctx),
			Label:           text(acc.Label.Resolve(sctx)),
			PrimaryAxisID:   text(acc.PrimaryAxisID.Resolve(sctx)),
			SecondaryAxisID: text(acc.SecondaryAxisID.Resolve(sctx)),
		}

		records, _ := plot.List(acc.Datums.Resolve(sctx))
		s.Datums = make([]*plot.Datum, len(records))
		for di, rd := range records {
			dctx := accessor.Context{Record: rd, Index: di, Series: rs, SeriesIndex: si, Data: data}
			s.Datums[di] = &plot.Datum{
				Series:      s,
				SeriesIndex: si,
				SeriesID:    s.ID,
				SeriesLabel: s.Label,
				Index:       di,
				Original:    rd,
				Primary:     acc.Primary.Resolve(dctx),
				Secondary:   acc.Secondary.Resolve(dctx),
				R:           acc.R.Resolve(dctx),
			}
		}
		out[si] = s
	}
	return out
}

// ResolveTypes returns copies of series with their strategy, type name and
// per-type index assigned. The n-th series of a given type gets
// SeriesTypeIndex n-1, and its datums carry the same index.
func ResolveTypes(series []*plot.Series, sel seriestype.Selector, reg *seriestype.Registry) ([]*plot.Series, error) {
	if series == nil {
		return nil, nil
	}
	if reg == nil {
		reg = seriestype.Default()
	}

	out := plot.CloneAll(series)
	counts := make(map[any]int)
	for i, s := range out {
		name := sel.Resolve(s, i)
		t, err := reg.Lookup(name)
		if err != nil {
			return nil, err
		}
		s.TypeName = name
		s.Type = t
		key := strategyKey(name, t)
		s.SeriesTypeIndex = counts[key]
		counts[key]++
		for _, d := range s.Datums {
			d.SeriesTypeIndex = s.SeriesTypeIndex
		}
	}
	return out, nil
}

// strategyKey groups series by resolved strategy, so two tags registered to
// the same strategy share one dense index. Strategies that cannot be map keys
// (func adapters) fall back to their tag.
func strategyKey(name string, t plot.SeriesType) any {
	if reflect.ValueOf(t).Comparable() {
		return t
	}
	return name
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	return fmt.Sprint(v)
}
