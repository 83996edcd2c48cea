package chart

import (
	"github.com/matzehuels/chartcore/pkg/core/focus"
	"github.com/matzehuels/chartcore/pkg/core/layout"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/core/stack"
)

// Snapshot is the render-ready state of a chart after one recompute.
// Snapshots share memoized values with the chart and must be treated as
// read-only.
type Snapshot struct {
	ID string

	Width     float64
	Height    float64
	Padding   layout.Padding
	Grid      layout.Grid
	GroupMode stack.GroupMode

	// Empty is set when there is no data. Only the canvas fields and the
	// pointer state are filled in.
	Empty bool

	Series        []*plot.Series
	PrimaryAxes   []*plot.Axis
	SecondaryAxes []*plot.Axis
	Totals        []stack.Totals

	Pointer         plot.Pointer
	Hovered         plot.Hovered
	Tooltip         *focus.Tooltip
	PrimaryCursor   *focus.Cursor
	SecondaryCursor *focus.Cursor
	Selection       *focus.Selection

	// Recomputed lists the stages that ran for this snapshot, in order.
	Recomputed []string
	// LayoutPasses is the number of layout ⇄ axes passes of the last
	// layout recompute.
	LayoutPasses int
}

// DatumCount returns the number of datums across all series.
func (s *Snapshot) DatumCount() int {
	n := 0
	for _, ser := range s.Series {
		n += len(ser.Datums)
	}
	return n
}
