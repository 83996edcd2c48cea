package accessor

import "testing"

func TestResolve(t *testing.T) {
	rec := map[string]any{"x": 1, "y": 2}
	tests := []struct {
		name string
		a    Accessor
		want any
	}{
		{"value", Value(5), 5},
		{"nil value", Value(nil), nil},
		{"func", Of(func(c Context) any { return c.Index * 10 }), 30},
		{"nil func", Of(nil), nil},
		{"field", Field("y"), 2},
		{"missing field", Field("z"), nil},
		{"zero accessor", Accessor{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Resolve(Context{Record: rec, Index: 3})
			if got != tt.want {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	a, b := Value(1), Value(1)
	if a.ID() == b.ID() {
		t.Error("separately built accessors should have distinct ids")
	}
	c := a
	if c.ID() != a.ID() {
		t.Error("copies should keep their id")
	}
	if !(Accessor{}).IsZero() || a.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestLookup(t *testing.T) {
	doc := map[string]any{
		"series": []any{
			map[string]any{"label": "a", "points": []any{[]any{1, 2}}},
		},
	}
	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"series.0.label", "a", true},
		{"series.0.points.0.1", 2, true},
		{"series.1.label", nil, false},
		{"series.x", nil, false},
		{"nope", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Lookup(doc, tt.path)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLookupStruct(t *testing.T) {
	type point struct {
		X     float64 `json:"x"`
		Value float64
		Tags  map[string]int
		note  string
	}
	type series struct {
		Name   string `json:"label,omitempty"`
		Points []point
	}
	doc := &series{
		Name:   "a",
		Points: []point{{X: 1, Value: 2, Tags: map[string]int{"k": 3}, note: "n"}},
	}
	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"label", "a", true},
		{"Name", "a", true},
		{"points.0.x", 1.0, true},
		{"points.0.value", 2.0, true},
		{"points.0.Tags.k", 3, true},
		{"points.0.Tags.z", nil, false},
		{"points.0.note", nil, false},
		{"points.1.x", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Lookup(doc, tt.path)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.ok)
			}
		})
	}
}
