package plot

import "math"

// AxisType selects the scale family of an axis.
type AxisType string

const (
	AxisLinear  AxisType = "linear"
	AxisTime    AxisType = "time"
	AxisOrdinal AxisType = "ordinal"
	AxisLog     AxisType = "log"
)

// Position is the side of the grid an axis is drawn on.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
)

// Vertical reports whether an axis on this side runs vertically.
func (p Position) Vertical() bool {
	return p == PositionLeft || p == PositionRight
}

// Scale maps domain values to pixels and back.
type Scale interface {
	// Map returns the pixel for v. ok is false when v is not in the scale's
	// value space (wrong kind, unknown category, non-positive on log).
	Map(v any) (px float64, ok bool)
	// Invert returns the domain value at px.
	Invert(px float64) any
	// Bandwidth is the width of one category band, zero for continuous
	// scales.
	Bandwidth() float64
}

// Domain is the resolved value extent of an axis. Continuous axes set Min
// and Max (float64, or time.Time for time axes); ordinal axes set Values.
type Domain struct {
	Min    any   `json:"min,omitempty"`
	Max    any   `json:"max,omitempty"`
	Values []any `json:"values,omitempty"`
}

// Tick is one labelled tick.
type Tick struct {
	Value    any     `json:"value"`
	Position float64 `json:"position"`
	Label    string  `json:"label"`
}

// Footprint is the space an axis occupies around the grid. Width and Height
// are its thickness; Top/Bottom/Left/Right are label overhangs past the
// grid's ends.
type Footprint struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Axis is a built axis.
type Axis struct {
	ID       string
	Primary  bool
	Position Position
	Vertical bool
	Type     AxisType
	Stacked  bool

	Domain Domain
	Scale  Scale
	// Range is the pixel range [start, end]. Vertical axes run bottom-up.
	Range [2]float64
	Ticks []Tick

	Footprint Footprint

	// BandSize is the thickness of a banded datum on this axis and
	// SeriesBandSize the share of one banded series when the band is split.
	// BandedSeries counts the banded series that reference the axis and
	// BandSlots ranks them, keyed by series index, in series order.
	BandSize       float64
	SeriesBandSize float64
	BandedSeries   int
	BandSlots      map[int]int
}

// BandSlot returns the rank of the banded series with the given index
// among the banded series on a.
func (a *Axis) BandSlot(series int) (int, bool) {
	slot, ok := a.BandSlots[series]
	return slot, ok
}

// Length is the pixel extent of the axis.
func (a *Axis) Length() float64 {
	return math.Abs(a.Range[1] - a.Range[0])
}

// Find returns the axis with id, or the first axis when no id matches.
func Find(axes []*Axis, id string) *Axis {
	if len(axes) == 0 {
		return nil
	}
	return axes[IndexByID(axes, id)]
}

// IndexByID returns the index of the axis with id, or 0 when none matches.
func IndexByID(axes []*Axis, id string) int {
	if id == "" {
		return 0
	}
	for i, a := range axes {
		if a.ID == id {
			return i
		}
	}
	return 0
}
