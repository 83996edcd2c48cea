package snapshot

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/core/axis"
	"github.com/matzehuels/chartcore/pkg/core/focus"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/core/seriestype"
)

func hoveredSnapshot(t *testing.T) *chart.Snapshot {
	t.Helper()
	c, err := chart.New(chart.Options{
		Data: []any{
			map[string]any{"label": "a", "data": []any{[]any{0, 1}, []any{1, 2}}},
			map[string]any{"label": "b", "data": []any{[]any{0, 3}, []any{1, 4}}},
		},
		Type: seriestype.Static(seriestype.Bar),
		Axes: []axis.Config{
			{Primary: true, Position: plot.PositionBottom, Type: plot.AxisOrdinal},
			{Position: plot.PositionLeft, Stacked: true},
		},
		Width: 400, Height: 300,
		PrimaryCursor: &focus.CursorOptions{},
	})
	if err != nil {
		t.Fatal(err)
	}
	first, err := c.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	d := first.Series[1].Datums[1]
	snap, err := c.HoverAt(plot.Pointer{X: d.Focus.X, Y: d.Focus.Y, Active: true}, 0)
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestExport(t *testing.T) {
	snap := hoveredSnapshot(t)
	doc := Export(snap)

	if doc.Version != Version || doc.ID != snap.ID || doc.Empty {
		t.Errorf("header = %d %q empty=%v", doc.Version, doc.ID, doc.Empty)
	}
	if len(doc.Series) != 2 || len(doc.Series[1].Datums) != 2 {
		t.Fatalf("series = %+v", doc.Series)
	}
	if doc.Series[1].Type != seriestype.Bar || doc.Series[0].Label != "a" {
		t.Errorf("series header = %+v", doc.Series[1])
	}
	if len(doc.PrimaryAxes) != 1 || doc.PrimaryAxes[0].Type != plot.AxisOrdinal {
		t.Errorf("primary axes = %+v", doc.PrimaryAxes)
	}

	want := []Ref{{Series: 0, Datum: 1}, {Series: 1, Datum: 1}}
	if got := doc.Series[1].Datums[1].Group; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("group = %+v, want %+v", got, want)
	}
	if !doc.Hovered.Active || len(doc.Hovered.Datums) != 2 {
		t.Errorf("hovered = %+v", doc.Hovered)
	}
	if doc.Tooltip == nil || doc.Tooltip.Datum == nil || *doc.Tooltip.Datum != (Ref{Series: 1, Datum: 1}) {
		t.Errorf("tooltip = %+v", doc.Tooltip)
	}
	pc := doc.Cursors.Primary
	if pc == nil || !pc.Show || pc.Axis != snap.PrimaryAxes[0].ID || !pc.ShowLine {
		t.Errorf("primary cursor = %+v", pc)
	}
	if doc.Cursors.Secondary != nil {
		t.Errorf("secondary cursor should be absent: %+v", doc.Cursors.Secondary)
	}
}

func TestExportEncodesWithoutCycles(t *testing.T) {
	doc := Export(hoveredSnapshot(t))
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back.Series) != len(doc.Series) || back.Grid != doc.Grid {
		t.Errorf("round trip changed the document")
	}
	if back.Tooltip == nil || *back.Tooltip.Datum != *doc.Tooltip.Datum {
		t.Errorf("tooltip ref lost: %+v", back.Tooltip)
	}
}

func TestValueSanitizes(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nan", math.NaN(), nil},
		{"inf", math.Inf(-1), nil},
		{"float32 nan", float32(math.NaN()), nil},
		{"number", 2.5, 2.5},
		{"string", "jan", "jan"},
		{"time", ts, "2024-03-01T12:00:00Z"},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := value(tt.in); got != tt.want {
				t.Errorf("value(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if _, err := json.Marshal(Datum{Primary: value(math.NaN()), X: finite(math.Inf(1))}); err != nil {
		t.Errorf("sanitized datum should encode: %v", err)
	}
}

func TestEmptySnapshot(t *testing.T) {
	c, err := chart.New(chart.Options{Width: 100, Height: 50})
	if err != nil {
		t.Fatal(err)
	}
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	doc := Export(snap)
	if !doc.Empty || doc.Series != nil || doc.Width != 100 {
		t.Errorf("empty document = %+v", doc)
	}
	if _, err := Marshal(doc); err != nil {
		t.Fatal(err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	doc := Export(hoveredSnapshot(t))
	if err := WriteFile(doc, path); err != nil {
		t.Fatal(err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.ID != doc.ID || len(back.PrimaryAxes[0].Ticks) != len(doc.PrimaryAxes[0].Ticks) {
		t.Errorf("file round trip lost fields")
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestUnmarshalRejectsFutureVersion(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"version": 99}`)); err == nil {
		t.Error("expected version error")
	}
	if _, err := Unmarshal([]byte(`{`)); err == nil {
		t.Error("expected syntax error")
	}
}
