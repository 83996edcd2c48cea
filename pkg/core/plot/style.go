package plot

import "sync/atomic"

// Status is the interaction state a style applies to.
type Status string

const (
	StatusNone      Status = "none"
	StatusFocused   Status = "focused"
	StatusUnfocused Status = "unfocused"
)

// Statuses lists every status in a fixed order.
var Statuses = []Status{StatusNone, StatusFocused, StatusUnfocused}

// Style holds the visual attributes a renderer needs. Zero fields mean
// "inherit".
type Style struct {
	Color       string  `json:"color,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
	Dash        string  `json:"dash,omitempty"`
}

// Merge returns s with every non-zero field of o applied on top.
func (s Style) Merge(o Style) Style {
	if o.Color != "" {
		s.Color = o.Color
	}
	if o.Fill != "" {
		s.Fill = o.Fill
	}
	if o.Opacity != 0 {
		s.Opacity = o.Opacity
	}
	if o.StrokeWidth != 0 {
		s.StrokeWidth = o.StrokeWidth
	}
	if o.Radius != 0 {
		s.Radius = o.Radius
	}
	if o.Dash != "" {
		s.Dash = o.Dash
	}
	return s
}

// StatusStyles holds one resolved style per status.
type StatusStyles map[Status]Style

func (m StatusStyles) clone() StatusStyles {
	c := make(StatusStyles, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// StyleInput is passed to user style callbacks. Datum is nil for
// series-level styles.
type StyleInput struct {
	Series *Series
	Datum  *Datum
	Status Status
}

// StyleFunc returns user overrides for one element.
type StyleFunc func(StyleInput) Style

// StyleCell holds the current style callbacks. Swapping the callbacks does
// not invalidate any stage; style contexts built earlier read through the
// cell and observe the latest callbacks on their next call.
type StyleCell struct {
	series atomic.Pointer[StyleFunc]
	datum  atomic.Pointer[StyleFunc]
}

// NewStyleCell returns a cell holding the given callbacks. Either may be nil.
func NewStyleCell(series, datum StyleFunc) *StyleCell {
	c := &StyleCell{}
	c.Set(series, datum)
	return c
}

// Set replaces both callbacks.
func (c *StyleCell) Set(series, datum StyleFunc) {
	c.series.Store(&series)
	c.datum.Store(&datum)
}

// SeriesStyle calls the current series callback.
func (c *StyleCell) SeriesStyle(in StyleInput) Style {
	return call(c.series.Load(), in)
}

// DatumStyle calls the current datum callback.
func (c *StyleCell) DatumStyle(in StyleInput) Style {
	return call(c.datum.Load(), in)
}

// Context returns a style context that reads through the cell.
func (c *StyleCell) Context(colors []string) StyleContext {
	return StyleContext{
		GetStyles:      c.SeriesStyle,
		GetDatumStyles: c.DatumStyle,
		DefaultColors:  colors,
	}
}

func call(fn *StyleFunc, in StyleInput) Style {
	if fn == nil || *fn == nil {
		return Style{}
	}
	return (*fn)(in)
}
