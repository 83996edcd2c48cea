// Package plot defines the chart model shared by every stage of the engine.
//
// A [Series] owns an ordered list of [Datum] records. Datums carry the raw
// primary/secondary values produced by the accessors, the axis-oriented
// values assigned by the stack engine, and the pixel geometry assigned by a
// series type's PlotDatum hook. An [Axis] carries a resolved domain, a
// [Scale] mapping that domain to pixels, ticks and the footprint the axis
// occupies outside the grid.
//
// Values are kept as `any` because input data is arbitrarily shaped: numbers,
// times and category strings flow through the same fields. The helpers in
// values.go normalise them.
package plot

// =============================================================================
// Datum
// =============================================================================

// FocusPoint is the pixel anchor a tooltip attaches to.
type FocusPoint struct {
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	HorizontalPadding float64 `json:"horizontalPadding"`
	VerticalPadding   float64 `json:"verticalPadding"`
}

// Point is a pixel position in grid-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Datum is one data point of a series.
type Datum struct {
	// Series is the owning series. Every datum belongs to exactly one.
	Series          *Series
	SeriesIndex     int
	SeriesID        any
	SeriesLabel     string
	SeriesTypeIndex int

	// Index is the position of the datum within its series.
	Index int
	// Original is the untouched input record.
	Original any

	Primary   any
	Secondary any
	R         any

	// Axis-oriented values set by the stack engine.
	XValue     any
	YValue     any
	BaseValue  float64
	TotalValue float64

	// Defined is false when the datum cannot be drawn (invalid or unmappable
	// values). Undefined datums keep their slot.
	Defined bool

	// Pixel geometry set by PlotDatum.
	X            float64
	Y            float64
	Base         float64
	Size         float64
	Focus        FocusPoint
	CursorPoints []Point

	Style        Style
	StatusStyles StatusStyles

	// Group lists every datum sharing this datum's group key when grouping
	// is active, including the datum itself.
	Group []*Datum
}

// Clone returns a shallow copy of d with its own cursor point slice. Group
// and Series are left for the caller to relink.
func (d *Datum) Clone() *Datum {
	c := *d
	if d.CursorPoints != nil {
		c.CursorPoints = append([]Point(nil), d.CursorPoints...)
	}
	if d.StatusStyles != nil {
		c.StatusStyles = d.StatusStyles.clone()
	}
	c.Group = nil
	return &c
}

// =============================================================================
// Series
// =============================================================================

// Series is an ordered collection of datums drawn by one series type.
type Series struct {
	Original any
	Index    int
	ID       any
	Label    string

	PrimaryAxisID   string
	SecondaryAxisID string

	// TypeName and Type are assigned by series-type resolution.
	TypeName        string
	Type            SeriesType
	SeriesTypeIndex int

	Datums []*Datum

	Style        Style
	StatusStyles StatusStyles
}

// Clone deep-copies the series and its datums. Cloned datums point at the
// clone; group links are dropped.
func (s *Series) Clone() *Series {
	c := *s
	if s.StatusStyles != nil {
		c.StatusStyles = s.StatusStyles.clone()
	}
	c.Datums = make([]*Datum, len(s.Datums))
	for i, d := range s.Datums {
		nd := d.Clone()
		nd.Series = &c
		c.Datums[i] = nd
	}
	return &c
}

// CloneAll clones every series in list.
func CloneAll(list []*Series) []*Series {
	if list == nil {
		return nil
	}
	out := make([]*Series, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

// AllDatums flattens the datums of every series in order.
func AllDatums(list []*Series) []*Datum {
	n := 0
	for _, s := range list {
		n += len(s.Datums)
	}
	out := make([]*Datum, 0, n)
	for _, s := range list {
		out = append(out, s.Datums...)
	}
	return out
}

// =============================================================================
// Series Type Contract
// =============================================================================

// AxisContext is handed to PlotDatum. XAxis/YAxis are the primary and
// secondary axes mapped onto screen orientation.
type AxisContext struct {
	PrimaryAxis   *Axis
	SecondaryAxis *Axis
	XAxis         *Axis
	YAxis         *Axis
}

// StyleContext is handed to BuildStyles.
type StyleContext struct {
	// GetStyles and GetDatumStyles read the current user callbacks on every
	// call, so they observe updates made after the context was built.
	GetStyles      func(StyleInput) Style
	GetDatumStyles func(StyleInput) Style
	DefaultColors  []string
}

// SeriesType is the strategy attached to a series. A nil return from either
// hook leaves the input unchanged.
type SeriesType interface {
	PlotDatum(d *Datum, ctx AxisContext) *Datum
	BuildStyles(s *Series, ctx StyleContext) *Series
}

// Banded is implemented by series types whose datums occupy a band of the
// primary axis (bars). The axis builder splits the band between them.
type Banded interface {
	Banded() bool
}

// IsBanded reports whether t draws banded datums.
func IsBanded(t SeriesType) bool {
	b, ok := t.(Banded)
	return ok && b.Banded()
}

// =============================================================================
// Pointer and Hover
// =============================================================================

// Pointer is the pointer state in grid-local pixels.
type Pointer struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Active bool    `json:"active"`
	// Released is set on the update that ends a drag.
	Released bool `json:"released,omitempty"`
	// SourceX is the x where the drag started, when known.
	SourceX *float64 `json:"sourceX,omitempty"`
}

// Hovered is the hover set reported by the capture layer.
type Hovered struct {
	Active bool
	Series *Series
	Datums []*Datum
}
