package axis

import (
	"math"
	"time"

	"github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/chartcore/pkg/core/plot"
)

// =============================================================================
// Continuous Scales
// =============================================================================

// linearScale maps a moremath unit interval onto [r0, r1].
type linearScale struct {
	l      scale.Linear
	r0, r1 float64
}

func (s linearScale) Map(v any) (float64, bool) {
	f, ok := plot.Number(v)
	if !ok {
		return 0, false
	}
	return s.project(s.l.Map(f)), true
}

func (s linearScale) Invert(px float64) any {
	return s.unproject(px, s.l.Unmap)
}

func (s linearScale) Bandwidth() float64 { return 0 }

func (s linearScale) project(unit float64) float64 {
	return s.r0 + unit*(s.r1-s.r0)
}

func (s linearScale) unproject(px float64, unmap func(float64) float64) float64 {
	if s.r1 == s.r0 {
		return unmap(0)
	}
	return unmap((px - s.r0) / (s.r1 - s.r0))
}

// logScale maps a base-10 moremath log scale onto [r0, r1]. Values outside
// the scale's sign are not mappable.
type logScale struct {
	l      scale.Log
	r0, r1 float64
}

func (s logScale) Map(v any) (float64, bool) {
	f, ok := plot.Number(v)
	if !ok || (s.l.Min > 0 && f <= 0) || (s.l.Max < 0 && f >= 0) {
		return 0, false
	}
	return s.r0 + s.l.Map(f)*(s.r1-s.r0), true
}

func (s logScale) Invert(px float64) any {
	if s.r1 == s.r0 {
		return s.l.Min
	}
	return s.l.Unmap((px - s.r0) / (s.r1 - s.r0))
}

func (s logScale) Bandwidth() float64 { return 0 }

// timeScale is a linear scale over Unix milliseconds.
type timeScale struct {
	linearScale
}

func (s timeScale) Map(v any) (float64, bool) {
	t, ok := plot.AsTime(v)
	if !ok {
		return 0, false
	}
	return s.project(s.l.Map(float64(t.UnixMilli()))), true
}

func (s timeScale) Invert(px float64) any {
	return s.at(s.unproject(px, s.l.Unmap))
}

func (s timeScale) at(ms float64) time.Time {
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}

// =============================================================================
// Band Scale
// =============================================================================

// bandScale places categories in equal steps along the range. Map returns
// the center of a category's band.
type bandScale struct {
	values    []any
	index     map[string]int
	r0        float64
	dir       float64
	step      float64
	bandwidth float64
	start     float64
}

func newBandScale(values []any, r0, r1, inner, outer float64) *bandScale {
	s := &bandScale{values: values, index: make(map[string]int, len(values)), r0: r0, dir: 1}
	for i, v := range values {
		s.index[plot.Key(v)] = i
	}
	if r1 < r0 {
		s.dir = -1
	}

	n := float64(len(values))
	length := math.Abs(r1 - r0)
	s.step = length / math.Max(1, n-inner+2*outer)
	s.bandwidth = s.step * (1 - inner)
	s.start = (length - s.step*(n-inner)) / 2
	return s
}

func (s *bandScale) Map(v any) (float64, bool) {
	i, ok := s.index[plot.Key(v)]
	if !ok {
		return 0, false
	}
	return s.r0 + s.dir*(s.start+float64(i)*s.step+s.bandwidth/2), true
}

func (s *bandScale) Invert(px float64) any {
	if len(s.values) == 0 || s.step == 0 {
		return nil
	}
	i := int(math.Floor(((px-s.r0)*s.dir - s.start) / s.step))
	i = max(0, min(i, len(s.values)-1))
	return s.values[i]
}

func (s *bandScale) Bandwidth() float64 { return s.bandwidth }

var (
	_ plot.Scale = linearScale{}
	_ plot.Scale = logScale{}
	_ plot.Scale = timeScale{}
	_ plot.Scale = (*bandScale)(nil)
)
