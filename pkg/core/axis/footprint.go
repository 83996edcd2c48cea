package axis

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/chartcore/pkg/core/plot"
)

// Text metrics used to estimate how much room an axis needs. A renderer
// with real font metrics overrides the estimate through Config.Footprint.
const (
	TickSize    = 6
	TickPadding = 3
	FontSize    = 10
	CharWidth   = 6
)

// LabelWidth estimates the rendered width of a tick label.
func LabelWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * CharWidth
}

// Measure estimates an axis footprint from its ticks. Vertical axes are as
// wide as their widest label; horizontal axes are one text line tall. Labels
// centered on ticks near the ends of the axis overhang the grid.
func Measure(a *plot.Axis) plot.Footprint {
	lo := math.Min(a.Range[0], a.Range[1])
	hi := math.Max(a.Range[0], a.Range[1])

	var fp plot.Footprint
	if a.Vertical {
		widest := 0.0
		for _, t := range a.Ticks {
			widest = math.Max(widest, LabelWidth(t.Label))
			fp.Top = math.Max(fp.Top, FontSize/2-(t.Position-lo))
			fp.Bottom = math.Max(fp.Bottom, t.Position+FontSize/2-hi)
		}
		fp.Width = TickSize + TickPadding + widest
		return fp
	}

	for _, t := range a.Ticks {
		half := LabelWidth(t.Label) / 2
		fp.Left = math.Max(fp.Left, half-(t.Position-lo))
		fp.Right = math.Max(fp.Right, t.Position+half-hi)
	}
	fp.Height = TickSize + TickPadding + FontSize
	return fp
}
