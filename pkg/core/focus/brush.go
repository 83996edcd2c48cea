package focus

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/errors"
)

// DefaultBrushMinDistance is the smallest drag, in pixels, that selects.
const DefaultBrushMinDistance = 20

// BrushOptions enables range selection by dragging along the primary axis.
type BrushOptions struct {
	MinDistance float64 `json:"minDistance,omitempty" toml:"min_distance" yaml:"minDistance"`
}

// ValidateAndSetDefaults fills the minimum distance and rejects one that is
// not a finite number.
func (o *BrushOptions) ValidateAndSetDefaults() error {
	if math.IsNaN(o.MinDistance) || math.IsInf(o.MinDistance, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "brush min distance %v is not finite", o.MinDistance)
	}
	if o.MinDistance <= 0 {
		o.MinDistance = DefaultBrushMinDistance
	}
	return nil
}

// Selection is a brushed range of the first primary axis, in drag order.
type Selection struct {
	Start any `json:"start"`
	End   any `json:"end"`
}

// ResolveBrush returns the selection made by a finished drag, or nil when
// the pointer was not released, the drag origin is unknown, or the drag is
// shorter than the minimum distance.
func ResolveBrush(opts BrushOptions, in Input) *Selection {
	p := in.Pointer
	if !p.Released || p.SourceX == nil || len(in.PrimaryAxes) == 0 {
		return nil
	}
	minDist := opts.MinDistance
	if minDist <= 0 {
		minDist = DefaultBrushMinDistance
	}
	if math.Abs(*p.SourceX-p.X) < minDist {
		return nil
	}
	s := in.PrimaryAxes[0].Scale
	if s == nil {
		return nil
	}
	return &Selection{Start: s.Invert(*p.SourceX), End: s.Invert(p.X)}
}
