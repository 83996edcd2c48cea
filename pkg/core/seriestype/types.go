package seriestype

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/core/plot"
)

// defaultBubbleRadius is used when a bubble datum has no usable radius.
const defaultBubbleRadius = 1

// =============================================================================
// Line
// =============================================================================

// LineType draws points joined by a line.
type LineType struct{}

// PlotDatum implements plot.SeriesType.
func (LineType) PlotDatum(d *plot.Datum, ctx plot.AxisContext) *plot.Datum {
	place(d, ctx)
	d.Focus = plot.FocusPoint{X: d.X, Y: d.Y}
	d.CursorPoints = []plot.Point{{X: d.X, Y: d.Y}}
	return d
}

// BuildStyles implements plot.SeriesType.
func (LineType) BuildStyles(s *plot.Series, ctx plot.StyleContext) *plot.Series {
	return buildStyles(s, ctx, styleDefaults{
		base: plot.Style{Opacity: 1, StrokeWidth: 2, Radius: 2},
	})
}

// =============================================================================
// Area
// =============================================================================

// AreaType draws the region between a line and its base.
type AreaType struct{}

// PlotDatum implements plot.SeriesType.
func (AreaType) PlotDatum(d *plot.Datum, ctx plot.AxisContext) *plot.Datum {
	place(d, ctx)
	d.Focus = plot.FocusPoint{X: d.X, Y: d.Y}
	d.CursorPoints = []plot.Point{{X: d.X, Y: d.Y}, basePoint(d, ctx)}
	return d
}

// BuildStyles implements plot.SeriesType.
func (AreaType) BuildStyles(s *plot.Series, ctx plot.StyleContext) *plot.Series {
	return buildStyles(s, ctx, styleDefaults{
		base: plot.Style{Opacity: 0.5, StrokeWidth: 1},
		fill: true,
	})
}

// =============================================================================
// Bar
// =============================================================================

// BarType draws a rectangle from the base to the value, centered on the
// primary value. Unstacked bars sharing a primary axis split its band.
type BarType struct{}

// Banded implements plot.Banded.
func (BarType) Banded() bool { return true }

// PlotDatum implements plot.SeriesType.
func (BarType) PlotDatum(d *plot.Datum, ctx plot.AxisContext) *plot.Datum {
	place(d, ctx)

	primary := ctx.PrimaryAxis
	size, offset := 0.0, 0.0
	if primary != nil {
		size = primary.BandSize
		split := primary.BandedSeries > 1 && (ctx.SecondaryAxis == nil || !ctx.SecondaryAxis.Stacked)
		if split {
			size = primary.SeriesBandSize
			slot := 0
			if d.Series != nil {
				slot, _ = primary.BandSlot(d.Series.Index)
			}
			offset = -primary.BandSize/2 + size*(float64(slot)+0.5)
		}
	}
	d.Size = size

	vertical := primary != nil && primary.Vertical
	if vertical {
		d.Y += offset
		d.Focus = plot.FocusPoint{X: d.X, Y: d.Y, VerticalPadding: size / 2}
		d.CursorPoints = []plot.Point{{X: d.X, Y: d.Y}, {X: d.Base, Y: d.Y}}
	} else {
		d.X += offset
		d.Focus = plot.FocusPoint{X: d.X, Y: d.Y, HorizontalPadding: size / 2}
		d.CursorPoints = []plot.Point{{X: d.X, Y: d.Y}, {X: d.X, Y: d.Base}}
	}
	return d
}

// BuildStyles implements plot.SeriesType.
func (BarType) BuildStyles(s *plot.Series, ctx plot.StyleContext) *plot.Series {
	return buildStyles(s, ctx, styleDefaults{
		base: plot.Style{Opacity: 1},
		fill: true,
	})
}

// =============================================================================
// Bubble
// =============================================================================

// BubbleType draws a circle per datum sized by its radius value.
type BubbleType struct{}

// PlotDatum implements plot.SeriesType.
func (BubbleType) PlotDatum(d *plot.Datum, ctx plot.AxisContext) *plot.Datum {
	place(d, ctx)
	r, ok := plot.Number(d.R)
	if !ok || r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		r = defaultBubbleRadius
	}
	d.Size = r
	d.Focus = plot.FocusPoint{X: d.X, Y: d.Y, HorizontalPadding: r, VerticalPadding: r}
	d.CursorPoints = []plot.Point{{X: d.X, Y: d.Y}}
	return d
}

// BuildStyles implements plot.SeriesType.
func (BubbleType) BuildStyles(s *plot.Series, ctx plot.StyleContext) *plot.Series {
	return buildStyles(s, ctx, styleDefaults{
		base: plot.Style{Opacity: 0.7},
		fill: true,
		datum: func(d *plot.Datum, st plot.Style) plot.Style {
			if st.Radius == 0 {
				st.Radius = d.Size
			}
			return st
		},
	})
}

// =============================================================================
// Helpers
// =============================================================================

// place maps the datum's oriented values to pixels and computes its base.
func place(d *plot.Datum, ctx plot.AxisContext) {
	x, okX := mapValue(ctx.XAxis, d.XValue)
	y, okY := mapValue(ctx.YAxis, d.YValue)
	d.X, d.Y = x, y
	d.Defined = okX && okY
	d.Base = baseline(d, ctx)
}

func mapValue(a *plot.Axis, v any) (float64, bool) {
	if a == nil || a.Scale == nil || !plot.IsValidPoint(v) {
		return 0, false
	}
	px, ok := a.Scale.Map(v)
	if !ok || math.IsNaN(px) || math.IsInf(px, 0) {
		return 0, false
	}
	return px, true
}

// baseline is the pixel of the datum's base value on the secondary axis.
// Values the scale cannot map (zero on a log axis) fall back to the start
// of the axis range.
func baseline(d *plot.Datum, ctx plot.AxisContext) float64 {
	sec := ctx.SecondaryAxis
	if sec == nil || sec.Scale == nil {
		return 0
	}
	if px, ok := sec.Scale.Map(d.BaseValue); ok && !math.IsNaN(px) {
		return px
	}
	return sec.Range[0]
}

// basePoint is the datum's position projected onto its base.
func basePoint(d *plot.Datum, ctx plot.AxisContext) plot.Point {
	if ctx.PrimaryAxis != nil && ctx.PrimaryAxis.Vertical {
		return plot.Point{X: d.Base, Y: d.Y}
	}
	return plot.Point{X: d.X, Y: d.Base}
}

var (
	_ plot.SeriesType = LineType{}
	_ plot.SeriesType = AreaType{}
	_ plot.SeriesType = BarType{}
	_ plot.SeriesType = BubbleType{}
	_ plot.Banded     = BarType{}
)
