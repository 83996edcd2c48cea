// Package snapshot serializes chart snapshots.
//
// A [chart.Snapshot] is a graph: datums point at their series and at the
// other datums of their hover group, and cursors and tooltips point at
// datums and axes. [Export] flattens it into a [Document] in which those
// pointers become index references, so a document encodes to JSON without
// cycles and can be read back without the chart engine.
//
// Values that JSON cannot carry (NaN and infinities) are exported as null.
package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/core/focus"
	"github.com/matzehuels/chartcore/pkg/core/layout"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/core/stack"
)

// Version is the document format version.
const Version = 1

// =============================================================================
// Document
// =============================================================================

// Document is the serialized form of a snapshot.
type Document struct {
	Version int    `json:"version"`
	ID      string `json:"id,omitempty"`

	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Padding   layout.Padding `json:"padding"`
	Grid      layout.Grid    `json:"grid"`
	GroupMode string         `json:"groupMode,omitempty"`
	Empty     bool           `json:"empty,omitempty"`

	Series        []Series       `json:"series,omitempty"`
	PrimaryAxes   []Axis         `json:"primaryAxes,omitempty"`
	SecondaryAxes []Axis         `json:"secondaryAxes,omitempty"`
	Totals        []stack.Totals `json:"totals,omitempty"`

	Pointer   plot.Pointer     `json:"pointer"`
	Hovered   Hovered          `json:"hovered"`
	Tooltip   *Tooltip         `json:"tooltip,omitempty"`
	Cursors   Cursors          `json:"cursors"`
	Selection *focus.Selection `json:"selection,omitempty"`

	Recomputed   []string `json:"recomputed,omitempty"`
	LayoutPasses int      `json:"layoutPasses,omitempty"`
}

// Ref addresses a datum by series index and datum index.
type Ref struct {
	Series int `json:"series"`
	Datum  int `json:"datum"`
}

// Series is an exported series.
type Series struct {
	Index           int               `json:"index"`
	ID              any               `json:"id,omitempty"`
	Label           string            `json:"label"`
	Type            string            `json:"type"`
	PrimaryAxisID   string            `json:"primaryAxisId,omitempty"`
	SecondaryAxisID string            `json:"secondaryAxisId,omitempty"`
	Style           plot.Style        `json:"style"`
	StatusStyles    plot.StatusStyles `json:"statusStyles,omitempty"`
	Datums          []Datum           `json:"datums"`
}

// Datum is an exported datum. Group lists the datums hovered together with
// this one.
type Datum struct {
	Index     int `json:"index"`
	Primary   any `json:"primary"`
	Secondary any `json:"secondary"`
	R         any `json:"r,omitempty"`

	XValue     any     `json:"xValue"`
	YValue     any     `json:"yValue"`
	BaseValue  float64 `json:"baseValue"`
	TotalValue float64 `json:"totalValue"`
	Defined    bool    `json:"defined"`

	X            float64           `json:"x"`
	Y            float64           `json:"y"`
	Base         float64           `json:"base"`
	Size         float64           `json:"size,omitempty"`
	Focus        plot.FocusPoint   `json:"focus"`
	CursorPoints []plot.Point      `json:"cursorPoints,omitempty"`
	Style        plot.Style        `json:"style"`
	StatusStyles plot.StatusStyles `json:"statusStyles,omitempty"`

	Group []Ref `json:"group,omitempty"`
}

// Axis is an exported axis.
type Axis struct {
	ID             string         `json:"id"`
	Primary        bool           `json:"primary,omitempty"`
	Position       plot.Position  `json:"position"`
	Vertical       bool           `json:"vertical,omitempty"`
	Type           plot.AxisType  `json:"type"`
	Stacked        bool           `json:"stacked,omitempty"`
	Domain         plot.Domain    `json:"domain"`
	Range          [2]float64     `json:"range"`
	Ticks          []plot.Tick    `json:"ticks,omitempty"`
	Footprint      plot.Footprint `json:"footprint"`
	BandSize       float64        `json:"bandSize,omitempty"`
	SeriesBandSize float64        `json:"seriesBandSize,omitempty"`
}

// Hovered is the exported hover state.
type Hovered struct {
	Active bool  `json:"active"`
	Series *int  `json:"series,omitempty"`
	Datums []Ref `json:"datums,omitempty"`
}

// Tooltip is the exported tooltip.
type Tooltip struct {
	Show    bool             `json:"show"`
	Focused *plot.FocusPoint `json:"focused,omitempty"`
	Datum   *Ref             `json:"datum,omitempty"`
}

// Cursor is an exported cursor.
type Cursor struct {
	Axis          string  `json:"axis"`
	SiblingAxis   string  `json:"siblingAxis,omitempty"`
	Show          bool    `json:"show"`
	ShowLine      bool    `json:"showLine"`
	ShowLabel     bool    `json:"showLabel"`
	Value         any     `json:"value"`
	ComputedValue any     `json:"computedValue"`
	Position      float64 `json:"position"`
	Datum         *Ref    `json:"datum,omitempty"`
}

// Cursors holds the primary and secondary cursors.
type Cursors struct {
	Primary   *Cursor `json:"primary,omitempty"`
	Secondary *Cursor `json:"secondary,omitempty"`
}

// =============================================================================
// Export
// =============================================================================

// Export flattens s into a document.
func Export(s *chart.Snapshot) Document {
	doc := Document{
		Version:      Version,
		ID:           s.ID,
		Width:        s.Width,
		Height:       s.Height,
		Padding:      s.Padding,
		Grid:         s.Grid,
		GroupMode:    string(s.GroupMode),
		Empty:        s.Empty,
		Totals:       s.Totals,
		Pointer:      s.Pointer,
		Selection:    exportSelection(s.Selection),
		Recomputed:   s.Recomputed,
		LayoutPasses: s.LayoutPasses,
	}

	refs := indexDatums(s.Series)
	for _, ser := range s.Series {
		doc.Series = append(doc.Series, exportSeries(ser, refs))
	}
	for _, a := range s.PrimaryAxes {
		doc.PrimaryAxes = append(doc.PrimaryAxes, exportAxis(a))
	}
	for _, a := range s.SecondaryAxes {
		doc.SecondaryAxes = append(doc.SecondaryAxes, exportAxis(a))
	}

	doc.Hovered = Hovered{Active: s.Hovered.Active, Datums: refList(s.Hovered.Datums, refs)}
	if ser := s.Hovered.Series; ser != nil {
		i := ser.Index
		doc.Hovered.Series = &i
	}
	if t := s.Tooltip; t != nil {
		doc.Tooltip = &Tooltip{Show: t.Show, Focused: t.Focused, Datum: ref(t.FocusedDatum, refs)}
	}
	doc.Cursors.Primary = exportCursor(s.PrimaryCursor, refs)
	doc.Cursors.Secondary = exportCursor(s.SecondaryCursor, refs)
	return doc
}

// indexDatums maps every datum of the snapshot to its reference. Hover
// groups reference datums by pointer, and the stack stage clones datums, so
// references resolve by identity within one snapshot.
func indexDatums(series []*plot.Series) map[*plot.Datum]Ref {
	refs := make(map[*plot.Datum]Ref)
	for si, ser := range series {
		for di, d := range ser.Datums {
			refs[d] = Ref{Series: si, Datum: di}
		}
	}
	return refs
}

func ref(d *plot.Datum, refs map[*plot.Datum]Ref) *Ref {
	if d == nil {
		return nil
	}
	r, ok := refs[d]
	if !ok {
		return nil
	}
	return &r
}

func refList(list []*plot.Datum, refs map[*plot.Datum]Ref) []Ref {
	var out []Ref
	for _, d := range list {
		if r := ref(d, refs); r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func exportSeries(s *plot.Series, refs map[*plot.Datum]Ref) Series {
	out := Series{
		Index:           s.Index,
		ID:              value(s.ID),
		Label:           s.Label,
		Type:            s.TypeName,
		PrimaryAxisID:   s.PrimaryAxisID,
		SecondaryAxisID: s.SecondaryAxisID,
		Style:           s.Style,
		StatusStyles:    s.StatusStyles,
		Datums:          make([]Datum, 0, len(s.Datums)),
	}
	for _, d := range s.Datums {
		out.Datums = append(out.Datums, Datum{
			Index:        d.Index,
			Primary:      value(d.Primary),
			Secondary:    value(d.Secondary),
			R:            value(d.R),
			XValue:       value(d.XValue),
			YValue:       value(d.YValue),
			BaseValue:    finite(d.BaseValue),
			TotalValue:   finite(d.TotalValue),
			Defined:      d.Defined,
			X:            finite(d.X),
			Y:            finite(d.Y),
			Base:         finite(d.Base),
			Size:         finite(d.Size),
			Focus:        d.Focus,
			CursorPoints: d.CursorPoints,
			Style:        d.Style,
			StatusStyles: d.StatusStyles,
			Group:        refList(d.Group, refs),
		})
	}
	return out
}

func exportAxis(a *plot.Axis) Axis {
	dom := plot.Domain{Min: value(a.Domain.Min), Max: value(a.Domain.Max)}
	for _, v := range a.Domain.Values {
		dom.Values = append(dom.Values, value(v))
	}
	ticks := make([]plot.Tick, len(a.Ticks))
	for i, t := range a.Ticks {
		ticks[i] = plot.Tick{Value: value(t.Value), Position: finite(t.Position), Label: t.Label}
	}
	return Axis{
		ID:             a.ID,
		Primary:        a.Primary,
		Position:       a.Position,
		Vertical:       a.Vertical,
		Type:           a.Type,
		Stacked:        a.Stacked,
		Domain:         dom,
		Range:          a.Range,
		Ticks:          ticks,
		Footprint:      a.Footprint,
		BandSize:       a.BandSize,
		SeriesBandSize: a.SeriesBandSize,
	}
}

func exportCursor(c *focus.Cursor, refs map[*plot.Datum]Ref) *Cursor {
	if c == nil {
		return nil
	}
	out := &Cursor{
		Show:          c.Show,
		ShowLine:      c.Options.ShowLine != nil && *c.Options.ShowLine,
		ShowLabel:     c.Options.ShowLabel != nil && *c.Options.ShowLabel,
		Value:         value(c.Value),
		ComputedValue: value(c.ComputedValue),
		Position:      finite(c.Position),
		Datum:         ref(c.Datum, refs),
	}
	if c.Axis != nil {
		out.Axis = c.Axis.ID
	}
	if c.SiblingAxis != nil {
		out.SiblingAxis = c.SiblingAxis.ID
	}
	return out
}

func exportSelection(s *focus.Selection) *focus.Selection {
	if s == nil {
		return nil
	}
	return &focus.Selection{Start: value(s.Start), End: value(s.End)}
}

// value replaces values JSON cannot encode. Times are written in RFC 3339
// with nanoseconds.
func value(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil
		}
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	return v
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a document to indented JSON.
func Marshal(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal decodes a document. Numbers decode as float64.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = Version
	}
	if doc.Version > Version {
		return Document{}, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}
	return doc, nil
}

// WriteFile writes a document to a JSON file.
func WriteFile(doc Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a document from a JSON file.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
