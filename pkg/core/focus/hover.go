package focus

import "github.com/matzehuels/chartcore/pkg/core/plot"

// HoverAt resolves the hover set for a pointer: the defined datum whose
// focus anchor is nearest, if it lies within radius (radius <= 0 means any
// distance), expanded to its group when grouped is set.
func HoverAt(series []*plot.Series, p plot.Pointer, radius float64, grouped bool) plot.Hovered {
	if !p.Active {
		return plot.Hovered{}
	}
	defined := make([]*plot.Datum, 0)
	for _, d := range plot.AllDatums(series) {
		if d.Defined {
			defined = append(defined, d)
		}
	}
	pt := pointerPoint(p)
	d := ClosestPoint(pt, defined)
	if d == nil || (radius > 0 && distance(pt, d) > radius) {
		return plot.Hovered{Active: true}
	}
	datums := []*plot.Datum{d}
	if grouped && len(d.Group) > 0 {
		datums = d.Group
	}
	return plot.Hovered{Active: true, Series: d.Series, Datums: datums}
}
