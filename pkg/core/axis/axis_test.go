package axis

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/core/seriestype"
	"github.com/matzehuels/chartcore/pkg/errors"
)

func ptr(f float64) *float64 { return &f }

// series builds one series per argument from (primary, secondary) pairs.
func series(pairs ...[][2]any) []*plot.Series {
	out := make([]*plot.Series, len(pairs))
	for i, ps := range pairs {
		s := &plot.Series{Index: i}
		for j, p := range ps {
			s.Datums = append(s.Datums, &plot.Datum{Series: s, Index: j, Primary: p[0], Secondary: p[1]})
		}
		out[i] = s
	}
	return out
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBuildLinear(t *testing.T) {
	s := series([][2]any{{0, 3}, {1, 17}, {2, 9}})
	a, err := Build(Config{Position: plot.PositionLeft}, s, 400, 200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if a.Type != plot.AxisLinear {
		t.Errorf("type = %q, want linear", a.Type)
	}
	if !a.Vertical || a.Range != [2]float64{200, 0} {
		t.Errorf("vertical=%v range=%v, want vertical [200 0]", a.Vertical, a.Range)
	}
	lo, hi := a.Domain.Min.(float64), a.Domain.Max.(float64)
	if lo > 3 || hi < 17 {
		t.Errorf("domain [%v, %v] should contain [3, 17]", lo, hi)
	}
	if px, _ := a.Scale.Map(lo); !near(px, 200) {
		t.Errorf("Map(min) = %v, want 200", px)
	}
	if px, _ := a.Scale.Map(hi); !near(px, 0) {
		t.Errorf("Map(max) = %v, want 0", px)
	}
	px, _ := a.Scale.Map(9)
	if v := a.Scale.Invert(px).(float64); !near(v, 9) {
		t.Errorf("Invert(Map(9)) = %v", v)
	}
	if len(a.Ticks) < 2 {
		t.Errorf("expected ticks, got %v", a.Ticks)
	}
	if a.Footprint.Width <= TickSize {
		t.Errorf("vertical footprint width = %v", a.Footprint.Width)
	}
}

func TestBuildBounds(t *testing.T) {
	s := series([][2]any{{0, 3}, {1, 7}})
	tests := []struct {
		name   string
		cfg    Config
		lo, hi float64
	}{
		{"hard", Config{Min: ptr(0), Max: ptr(10)}, 0, 10},
		{"hard min only", Config{Min: ptr(-5), Max: ptr(7)}, -5, 7},
		{"equal hard bounds", Config{Min: ptr(4), Max: ptr(4)}, 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Position = plot.PositionLeft
			a, err := Build(tt.cfg, s, 100, 100)
			if err != nil {
				t.Fatal(err)
			}
			if a.Domain.Min != tt.lo || a.Domain.Max != tt.hi {
				t.Errorf("domain = [%v, %v], want [%v, %v]", a.Domain.Min, a.Domain.Max, tt.lo, tt.hi)
			}
		})
	}

	soft, err := Build(Config{Position: plot.PositionLeft, SoftMin: ptr(-50)}, s, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if soft.Domain.Min.(float64) > -50 {
		t.Errorf("soft min should widen the domain, got %v", soft.Domain.Min)
	}
}

func TestBuildShortAxisCrossingZero(t *testing.T) {
	tests := []struct {
		name   string
		data   [][2]any
		cfg    Config
		height float64
	}{
		{"symmetric", [][2]any{{0, -3}, {1, 3}}, Config{}, 100},
		{"mostly negative", [][2]any{{0, -50}, {1, 7}}, Config{}, 100},
		{"soft min", [][2]any{{0, 3}, {1, 7}}, Config{SoftMin: ptr(-50)}, 100},
		{"two ticks", [][2]any{{0, -3}, {1, 3}}, Config{TickCount: 2}, 400},
		{"tiny", [][2]any{{0, -0.001}, {1, 0.002}}, Config{}, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Position = plot.PositionLeft
			a, err := Build(tt.cfg, series(tt.data), 300, tt.height)
			if err != nil {
				t.Fatal(err)
			}
			lo, hi := a.Domain.Min.(float64), a.Domain.Max.(float64)
			if math.IsNaN(lo) || math.IsNaN(hi) || lo >= hi {
				t.Fatalf("domain = [%v, %v]", lo, hi)
			}
			if len(a.Ticks) < 2 {
				t.Errorf("ticks = %v", a.Ticks)
			}
			for _, v := range tt.data {
				f, _ := plot.Number(v[1])
				if f < lo || f > hi {
					t.Errorf("domain [%v, %v] misses %v", lo, hi, v[1])
				}
			}
		})
	}
}

func TestBuildOrdinal(t *testing.T) {
	s := series([][2]any{{"b", 1}, {"a", 2}}, [][2]any{{"c", 1}, {"a", 3}})
	a, err := Build(Config{Primary: true, Position: plot.PositionBottom}, s, 300, 100)
	if err != nil {
		t.Fatal(err)
	}
	if a.Type != plot.AxisOrdinal {
		t.Fatalf("type = %q, want ordinal", a.Type)
	}

	want := []any{"b", "a", "c"}
	if len(a.Domain.Values) != 3 {
		t.Fatalf("categories = %v", a.Domain.Values)
	}
	for i := range want {
		if a.Domain.Values[i] != want[i] {
			t.Errorf("category %d = %v, want %v", i, a.Domain.Values[i], want[i])
		}
	}

	bw := a.Scale.Bandwidth()
	if bw <= 0 {
		t.Fatalf("bandwidth = %v", bw)
	}
	prev := -1.0
	for _, c := range want {
		px, ok := a.Scale.Map(c)
		if !ok || px <= prev || px < 0 || px > 300 {
			t.Errorf("Map(%v) = %v, %v", c, px, ok)
		}
		if got := a.Scale.Invert(px); got != c {
			t.Errorf("Invert(Map(%v)) = %v", c, got)
		}
		prev = px
	}
	if _, ok := a.Scale.Map("z"); ok {
		t.Error("unknown category should not map")
	}
}

func TestBuildTime(t *testing.T) {
	s := series([][2]any{{"2024-01-01T00:00:00Z", 1}, {"2024-01-03T00:00:00Z", 2}})
	a, err := Build(Config{Primary: true, Position: plot.PositionBottom}, s, 500, 100)
	if err != nil {
		t.Fatal(err)
	}
	if a.Type != plot.AxisTime {
		t.Fatalf("type = %q, want time", a.Type)
	}
	lo := a.Domain.Min.(time.Time)
	if !lo.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("domain min = %v", lo)
	}
	px, ok := a.Scale.Map("2024-01-02T00:00:00Z")
	if !ok || !near(px, 250) {
		t.Errorf("Map(midpoint) = %v, %v; want 250", px, ok)
	}
	if got := a.Scale.Invert(250).(time.Time); got.Day() != 2 {
		t.Errorf("Invert(250) = %v", got)
	}
	if len(a.Ticks) == 0 {
		t.Error("expected time ticks")
	}
	for _, tk := range a.Ticks {
		if tk.Position < 0 || tk.Position > 500 {
			t.Errorf("tick %q outside range at %v", tk.Label, tk.Position)
		}
	}
}

func TestBuildLog(t *testing.T) {
	s := series([][2]any{{0, 1}, {1, 1000}})
	a, err := Build(Config{Type: plot.AxisLog, Position: plot.PositionLeft}, s, 100, 300)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Scale.Map(0); ok {
		t.Error("zero should not map on a log axis")
	}
	p1, _ := a.Scale.Map(1)
	p10, _ := a.Scale.Map(10)
	p100, _ := a.Scale.Map(100)
	if !near(p1-p10, p10-p100) {
		t.Errorf("decades should be evenly spaced: %v %v %v", p1, p10, p100)
	}
}

func TestBuildStackedDomain(t *testing.T) {
	s := series(
		[][2]any{{0, 4}, {1, -2}},
		[][2]any{{0, 5}, {1, -3}},
	)
	a, err := Build(Config{Position: plot.PositionLeft, Stacked: true}, s, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := a.Domain.Min.(float64), a.Domain.Max.(float64)
	if hi < 9 || lo > -5 {
		t.Errorf("stacked domain [%v, %v] should contain [-5, 9]", lo, hi)
	}
}

func TestBuildAllReferencing(t *testing.T) {
	s := series([][2]any{{0, 1}}, [][2]any{{0, 1000}})
	s[1].SecondaryAxisID = "right"
	cfgs := []Config{
		{ID: "left", Position: plot.PositionLeft, Max: ptr(10), Min: ptr(0)},
		{ID: "right", Position: plot.PositionRight},
	}
	axes, err := BuildAll(cfgs, s, nil, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if hi := axes[1].Domain.Max.(float64); hi < 1000 {
		t.Errorf("right axis max = %v, should include 1000", hi)
	}
	if axes[0].ID != "left" || axes[1].ID != "right" {
		t.Errorf("ids = %q, %q", axes[0].ID, axes[1].ID)
	}
}

func TestBuildAllSecondaryAgainstPrimary(t *testing.T) {
	s := series([][2]any{{0, 1}}, [][2]any{{0, 2}})
	s[1].PrimaryAxisID = "side"
	primary, err := BuildAll([]Config{
		{ID: "x", Primary: true, Position: plot.PositionBottom},
		{ID: "side", Primary: true, Position: plot.PositionRight},
	}, s, nil, 100, 100)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		pos     plot.Position
		refs    []*plot.Series
		wantErr bool
	}{
		{"perpendicular", plot.PositionLeft, s[:1], false},
		{"parallel", plot.PositionTop, s[:1], true},
		{"parallel to second primary", plot.PositionLeft, s, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildAll([]Config{{ID: "y", Position: tt.pos}}, tt.refs, primary, 100, 100)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidAxis) {
				t.Errorf("error = %v, want INVALID_AXIS", err)
			}
		})
	}
}

func TestBuildBandedPrimary(t *testing.T) {
	s := series([][2]any{{"a", 1}, {"b", 2}}, [][2]any{{"a", 3}, {"b", 4}})
	for _, x := range s {
		x.Type = seriestype.BarType{}
	}
	a, err := Build(Config{Primary: true, Position: plot.PositionBottom}, s, 200, 100)
	if err != nil {
		t.Fatal(err)
	}
	if a.BandedSeries != 2 {
		t.Errorf("banded series = %d, want 2", a.BandedSeries)
	}
	if !near(a.BandSize, a.Scale.Bandwidth()) || !near(a.SeriesBandSize, a.BandSize/2) {
		t.Errorf("band = %v, per series = %v", a.BandSize, a.SeriesBandSize)
	}
}

func TestBuildAllBandSlotsPerAxis(t *testing.T) {
	// Bars alternate between two primary axes.
	s := series(
		[][2]any{{"a", 1}}, [][2]any{{"a", 2}},
		[][2]any{{"a", 3}}, [][2]any{{"a", 4}},
	)
	for i, x := range s {
		x.Type = seriestype.BarType{}
		x.PrimaryAxisID = []string{"p1", "p2"}[i%2]
	}
	cfgs := []Config{
		{ID: "p1", Primary: true, Position: plot.PositionBottom},
		{ID: "p2", Primary: true, Position: plot.PositionTop},
	}
	axes, err := BuildAll(cfgs, s, nil, 200, 100)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		axis, series, slot int
	}{
		{0, 0, 0}, {0, 2, 1}, {1, 1, 0}, {1, 3, 1},
	}
	for _, tt := range tests {
		slot, ok := axes[tt.axis].BandSlot(tt.series)
		if !ok || slot != tt.slot {
			t.Errorf("axis %d series %d: slot = %d (%v), want %d", tt.axis, tt.series, slot, ok, tt.slot)
		}
	}
	if _, ok := axes[0].BandSlot(1); ok {
		t.Error("series 1 is not on axis p1")
	}
}

func TestBuildInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing position", Config{}},
		{"bad type", Config{Position: plot.PositionLeft, Type: "polar"}},
		{"min above max", Config{Position: plot.PositionLeft, Min: ptr(2), Max: ptr(1)}},
		{"log min", Config{Position: plot.PositionLeft, Type: plot.AxisLog, Min: ptr(0)}},
		{"padding", Config{Position: plot.PositionLeft, InnerPadding: ptr(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.cfg, nil, 100, 100)
			if !errors.Is(err, errors.ErrCodeInvalidAxis) {
				t.Errorf("error = %v, want INVALID_AXIS", err)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	p, s := Split([]Config{{ID: "a", Primary: true}, {ID: "b"}, {ID: "c", Primary: true}})
	if len(p) != 2 || len(s) != 1 || p[1].ID != "c" || s[0].ID != "b" {
		t.Errorf("Split = %v, %v", p, s)
	}
}

func TestMeasureHorizontal(t *testing.T) {
	a := &plot.Axis{
		Range: [2]float64{0, 100},
		Ticks: []plot.Tick{{Position: 0, Label: "0"}, {Position: 100, Label: "1000"}},
	}
	fp := Measure(a)
	if fp.Height != TickSize+TickPadding+FontSize {
		t.Errorf("height = %v", fp.Height)
	}
	if fp.Left != CharWidth/2 || fp.Right != 2*CharWidth {
		t.Errorf("overhang left=%v right=%v", fp.Left, fp.Right)
	}
}
