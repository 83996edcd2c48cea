package focus

import (
	"math"
	"strings"

	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// scope is the box an anchor is measured against.
type scope int

const (
	scopeData  scope = iota // bounding box of the hovered focus points
	scopeGrid               // the grid rectangle
	scopeChart              // the whole canvas
)

// edge is the position along one dimension.
type edge int

const (
	edgeUnset edge = iota
	edgeMin
	edgeCenter
	edgeMax
)

// anchor is a parsed relative position. Each anchor constrains x, y or
// both.
type anchor struct {
	scope scope
	x, y  edge
}

var anchorEdges = map[string]anchor{
	"center":      {x: edgeCenter, y: edgeCenter},
	"top":         {y: edgeMin},
	"bottom":      {y: edgeMax},
	"left":        {x: edgeMin},
	"right":       {x: edgeMax},
	"topLeft":     {x: edgeMin, y: edgeMin},
	"topRight":    {x: edgeMax, y: edgeMin},
	"bottomLeft":  {x: edgeMin, y: edgeMax},
	"bottomRight": {x: edgeMax, y: edgeMax},
}

func parseAnchor(pos string) (anchor, error) {
	if err := errors.ValidateFocusPosition(pos); err != nil {
		return anchor{}, err
	}
	sc, name := scopeData, pos
	if rest, ok := strings.CutPrefix(pos, "grid"); ok && rest != "" {
		sc, name = scopeGrid, rest
	} else if rest, ok := strings.CutPrefix(pos, "chart"); ok && rest != "" {
		sc, name = scopeChart, rest
	}
	if sc != scopeData {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	a := anchorEdges[name]
	a.scope = sc
	return a, nil
}

// parseAnchors parses up to two anchors and rejects combinations that
// constrain the same dimension twice.
func parseAnchors(positions []string) ([]anchor, error) {
	if len(positions) > maxAnchors {
		return nil, errors.New(errors.ErrCodeInvalidFocus, "at most %d focus positions may be combined, got %d", maxAnchors, len(positions))
	}
	out := make([]anchor, 0, len(positions))
	var xSet, ySet bool
	for _, pos := range positions {
		a, err := parseAnchor(pos)
		if err != nil {
			return nil, err
		}
		if (a.x != edgeUnset && xSet) || (a.y != edgeUnset && ySet) {
			return nil, errors.New(errors.ErrCodeInvalidFocus, "focus positions %v constrain the same dimension twice", positions)
		}
		xSet = xSet || a.x != edgeUnset
		ySet = ySet || a.y != edgeUnset
		out = append(out, a)
	}
	return out, nil
}

// MultiFocus places an anchor relative to the hovered points, the grid or
// the canvas. A dimension no position constrains is centered on the
// points.
func MultiFocus(positions []string, points []*plot.Datum, f Frame) (plot.FocusPoint, error) {
	anchors, err := parseAnchors(positions)
	if err != nil {
		return plot.FocusPoint{}, err
	}

	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, d := range points {
		xMin, xMax = math.Min(xMin, d.Focus.X), math.Max(xMax, d.Focus.X)
		yMin, yMax = math.Min(yMin, d.Focus.Y), math.Max(yMax, d.Focus.Y)
	}
	if len(points) == 0 {
		xMin, xMax, yMin, yMax = 0, 0, 0, 0
	}

	out := plot.FocusPoint{X: (xMin + xMax) / 2, Y: (yMin + yMax) / 2}
	for _, a := range anchors {
		if a.x != edgeUnset {
			lo, hi := xMin, xMax
			switch a.scope {
			case scopeGrid:
				lo, hi = 0, f.Grid.Width
			case scopeChart:
				lo, hi = -f.Grid.X, f.Width-f.Grid.X
			}
			out.X = pick(a.x, lo, hi)
		}
		if a.y != edgeUnset {
			lo, hi := yMin, yMax
			switch a.scope {
			case scopeGrid:
				lo, hi = 0, f.Grid.Height
			case scopeChart:
				lo, hi = -f.Grid.Y, f.Height-f.Grid.Y
			}
			out.Y = pick(a.y, lo, hi)
		}
	}
	return out, nil
}

func pick(e edge, lo, hi float64) float64 {
	switch e {
	case edgeMin:
		return lo
	case edgeMax:
		return hi
	}
	return (lo + hi) / 2
}
