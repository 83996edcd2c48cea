// Package layout computes the grid rectangle inside a chart canvas.
//
// Axes sit outside the grid. Each side of the grid is pushed inward by the
// padding on that side plus the largest of the three footprints that can
// reach it: the thickness of the axes drawn on that side and the label
// overhang of the axes on the two adjacent sides. For the left edge that is
// max(left axes width, top axes left overhang, bottom axes left overhang).
package layout

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/core/plot"
)

// Padding is extra space around the grid, in pixels.
type Padding struct {
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" toml:"left" yaml:"left"`
}

// Side sums the footprints of the axes drawn on one side.
type Side struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Sides holds the summed footprints for all four sides.
type Sides struct {
	Top    Side `json:"top"`
	Right  Side `json:"right"`
	Bottom Side `json:"bottom"`
	Left   Side `json:"left"`
}

// Grid is the resolved plotting rectangle in canvas pixels, along with the
// offset applied on each edge.
type Grid struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Offsets Padding `json:"offsets"`
}

// Measure sums axis footprints per side.
func Measure(axes ...[]*plot.Axis) Sides {
	var s Sides
	for _, list := range axes {
		for _, a := range list {
			side := s.side(a.Position)
			if side == nil {
				continue
			}
			fp := a.Footprint
			side.Width += fp.Width
			side.Height += fp.Height
			side.Top += fp.Top
			side.Bottom += fp.Bottom
			side.Left += fp.Left
			side.Right += fp.Right
		}
	}
	return s
}

func (s *Sides) side(p plot.Position) *Side {
	switch p {
	case plot.PositionTop:
		return &s.Top
	case plot.PositionRight:
		return &s.Right
	case plot.PositionBottom:
		return &s.Bottom
	case plot.PositionLeft:
		return &s.Left
	}
	return nil
}

// Compute places the grid inside a width x height canvas. Width and height
// may come out negative when the canvas is smaller than the offsets; callers
// that draw clamp them.
func Compute(width, height float64, sides Sides, pad Padding) Grid {
	left := math.Max(sides.Left.Width, math.Max(sides.Top.Left, sides.Bottom.Left))
	right := math.Max(sides.Right.Width, math.Max(sides.Top.Right, sides.Bottom.Right))
	top := math.Max(sides.Top.Height, math.Max(sides.Left.Top, sides.Right.Top))
	bottom := math.Max(sides.Bottom.Height, math.Max(sides.Left.Bottom, sides.Right.Bottom))

	off := Padding{
		Top:    pad.Top + top,
		Right:  pad.Right + right,
		Bottom: pad.Bottom + bottom,
		Left:   pad.Left + left,
	}
	return Grid{
		X:       off.Left,
		Y:       off.Top,
		Width:   width - off.Left - off.Right,
		Height:  height - off.Top - off.Bottom,
		Offsets: off,
	}
}
