// Package stack derives plot-ready series from typed series and built axes.
//
// [Run] performs, in order:
//
//  1. orientation: when any primary axis is vertical, x reads the secondary
//     value and y the primary value; otherwise the reverse
//  2. stacking: for series on a stacked secondary axis, values accumulate per
//     primary key in separate positive and negative running totals; each
//     datum's base is the running total before it
//  3. plotting: every datum passes through its series type's PlotDatum
//  4. grouping: defined datums are bucketed by stringified primary or
//     secondary value and every datum receives its bucket
//  5. styling: every series passes through its type's BuildStyles
//
// Run never mutates its input series.
package stack

import (
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/core/seriestype"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// GroupMode selects how datums are grouped for hover.
type GroupMode string

const (
	GroupPrimary   GroupMode = "primary"
	GroupSecondary GroupMode = "secondary"
	GroupNone      GroupMode = "none"
)

// Grouped reports whether the mode groups datums.
func (m GroupMode) Grouped() bool {
	return m == GroupPrimary || m == GroupSecondary
}

// Bucket holds the running totals for one primary key.
type Bucket struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
}

// Totals maps a stringified primary value to its running totals. There is
// one Totals per secondary axis.
type Totals map[string]*Bucket

// Input is everything the engine reads.
type Input struct {
	Series        []*plot.Series
	PrimaryAxes   []*plot.Axis
	SecondaryAxes []*plot.Axis
	GroupMode     GroupMode
	Styles        *plot.StyleCell
	DefaultColors []string
}

// Result is the engine output.
type Result struct {
	Series []*plot.Series
	// Totals holds the final running totals, indexed like SecondaryAxes.
	Totals []Totals
}

// Run executes the pipeline.
func Run(in Input) (*Result, error) {
	if len(in.PrimaryAxes) == 0 || len(in.SecondaryAxes) == 0 {
		return nil, errors.New(errors.ErrCodeMissingAxis, "a primary and a secondary axis are required")
	}
	for _, s := range in.Series {
		if err := seriestype.Check(s.TypeName, s.Type); err != nil {
			return nil, err
		}
	}

	primaryVertical := false
	for _, a := range in.PrimaryAxes {
		if a.Vertical {
			primaryVertical = true
			break
		}
	}
	xAxes, yAxes := in.PrimaryAxes, in.SecondaryAxes
	if primaryVertical {
		xAxes, yAxes = in.SecondaryAxes, in.PrimaryAxes
	}

	series := plot.CloneAll(in.Series)
	totals := accumulate(series, in.PrimaryAxes, in.SecondaryAxes, primaryVertical)

	for _, s := range series {
		ctx := plot.AxisContext{
			PrimaryAxis:   plot.Find(in.PrimaryAxes, s.PrimaryAxisID),
			SecondaryAxis: plot.Find(in.SecondaryAxes, s.SecondaryAxisID),
		}
		if primaryVertical {
			ctx.XAxis = plot.Find(xAxes, s.SecondaryAxisID)
			ctx.YAxis = plot.Find(yAxes, s.PrimaryAxisID)
		} else {
			ctx.XAxis = plot.Find(xAxes, s.PrimaryAxisID)
			ctx.YAxis = plot.Find(yAxes, s.SecondaryAxisID)
		}
		for i, d := range s.Datums {
			if r := s.Type.PlotDatum(d, ctx); r != nil {
				s.Datums[i] = r
			}
		}
	}

	if in.GroupMode.Grouped() {
		group(series, in.GroupMode)
	}

	cell := in.Styles
	if cell == nil {
		cell = plot.NewStyleCell(nil, nil)
	}
	styleCtx := cell.Context(in.DefaultColors)
	for i, s := range series {
		if r := s.Type.BuildStyles(s, styleCtx); r != nil {
			series[i] = r
		}
	}

	return &Result{Series: series, Totals: totals}, nil
}

// accumulate assigns oriented values and, on stacked secondary axes, bases
// and totals. Invalid values count as zero, land in the positive bucket and
// become nil.
func accumulate(series []*plot.Series, primaryAxes, secondaryAxes []*plot.Axis, primaryVertical bool) []Totals {
	totals := make([]Totals, len(secondaryAxes))
	for i := range totals {
		totals[i] = Totals{}
	}

	for _, s := range series {
		primary := plot.Find(primaryAxes, s.PrimaryAxisID)
		si := plot.IndexByID(secondaryAxes, s.SecondaryAxisID)
		secondary := secondaryAxes[si]

		for _, d := range s.Datums {
			if primaryVertical {
				d.XValue, d.YValue = d.Secondary, d.Primary
			} else {
				d.XValue, d.YValue = d.Primary, d.Secondary
			}
			d.BaseValue = 0
			d.TotalValue = 0
			if !secondary.Stacked {
				continue
			}

			key := plot.Key(d.Primary)
			b := totals[si][key]
			if b == nil {
				b = &Bucket{}
				totals[si][key] = b
			}

			raw := d.YValue
			if primary.Vertical {
				raw = d.XValue
			}
			v, valid := stackValue(raw)
			running := &b.Positive
			if valid && v < 0 {
				running = &b.Negative
			}
			d.BaseValue = *running
			if valid {
				d.TotalValue = d.BaseValue + v
			} else {
				d.TotalValue = d.BaseValue
			}
			*running = d.TotalValue

			var out any
			if valid {
				out = d.TotalValue
			}
			if primary.Vertical {
				d.XValue = out
			} else {
				d.YValue = out
			}
		}
	}
	return totals
}

func stackValue(v any) (float64, bool) {
	if !plot.IsValidPoint(v) {
		return 0, false
	}
	return plot.Number(v)
}

// group attaches to every datum the defined datums sharing its key.
func group(series []*plot.Series, mode GroupMode) {
	key := func(d *plot.Datum) string {
		if mode == GroupPrimary {
			return plot.Key(d.Primary)
		}
		return plot.Key(d.Secondary)
	}

	buckets := map[string][]*plot.Datum{}
	for _, s := range series {
		for _, d := range s.Datums {
			if d.Defined {
				k := key(d)
				buckets[k] = append(buckets[k], d)
			}
		}
	}
	for _, s := range series {
		for _, d := range s.Datums {
			d.Group = buckets[key(d)]
		}
	}
}
