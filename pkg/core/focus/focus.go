// Package focus turns pointer state into chart semantics: the datum under
// the pointer, the tooltip anchor, per-role cursor values and brush
// selections.
//
// All coordinates are grid-local pixels. The resolvers are pure functions of
// an [Input]; they never mutate the datums or axes they are handed.
package focus

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/core/layout"
	"github.com/matzehuels/chartcore/pkg/core/plot"
)

// Frame locates the grid inside the chart canvas.
type Frame struct {
	Grid   layout.Grid
	Width  float64
	Height float64
}

// Input is the state every resolver reads.
type Input struct {
	Pointer       plot.Pointer
	Hovered       plot.Hovered
	PrimaryAxes   []*plot.Axis
	SecondaryAxes []*plot.Axis
	Frame         Frame
}

// ClosestPoint returns the datum whose focus anchor is nearest to p, or nil
// for an empty list. Ties keep the earliest datum.
func ClosestPoint(p plot.Point, datums []*plot.Datum) *plot.Datum {
	var (
		best     *plot.Datum
		bestDist = math.Inf(1)
	)
	for _, d := range datums {
		if d == nil {
			continue
		}
		if dist := distance(p, d); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

func distance(p plot.Point, d *plot.Datum) float64 {
	return math.Hypot(d.Focus.X-p.X, d.Focus.Y-p.Y)
}

func pointerPoint(p plot.Pointer) plot.Point {
	return plot.Point{X: p.X, Y: p.Y}
}
