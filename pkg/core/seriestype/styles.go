package seriestype

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/chartcore/pkg/core/plot"
)

// DefaultColors is the palette assigned by series index.
var DefaultColors = []string{
	"#4ab5eb",
	"#fc6868",
	"#DECF3F",
	"#60BD68",
	"#FAA43A",
	"#c63b89",
	"#1aaabe",
	"#734fe9",
	"#1828bd",
	"#cd82ad",
}

// unfocusedFade is how far unfocused colors are blended toward white.
const unfocusedFade = 0.6

var white = colorful.Color{R: 1, G: 1, B: 1}

// Fade blends a hex color toward white in Lab space. Colors that do not
// parse are returned unchanged.
func Fade(hex string, amount float64) string {
	if hex == "" {
		return hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return c.BlendLab(white, amount).Clamped().Hex()
}

// styleDefaults describes a type's base look.
type styleDefaults struct {
	base plot.Style
	// fill copies the series color into Fill.
	fill bool
	// datum adjusts the base style per datum before user overrides.
	datum func(d *plot.Datum, s plot.Style) plot.Style
}

// buildStyles resolves series and datum styles for every status. User
// overrides from the context are merged on top of the type defaults.
func buildStyles(s *plot.Series, ctx plot.StyleContext, def styleDefaults) *plot.Series {
	colors := ctx.DefaultColors
	if len(colors) == 0 {
		colors = DefaultColors
	}

	base := def.base
	base.Color = colors[s.Index%len(colors)]
	if def.fill {
		base.Fill = base.Color
	}

	s.StatusStyles = make(plot.StatusStyles, len(plot.Statuses))
	for _, st := range plot.Statuses {
		style := statusStyle(base, st)
		if ctx.GetStyles != nil {
			style = style.Merge(ctx.GetStyles(plot.StyleInput{Series: s, Status: st}))
		}
		s.StatusStyles[st] = style
	}
	s.Style = s.StatusStyles[plot.StatusNone]

	for _, d := range s.Datums {
		d.StatusStyles = make(plot.StatusStyles, len(plot.Statuses))
		for _, st := range plot.Statuses {
			style := s.StatusStyles[st]
			if def.datum != nil {
				style = def.datum(d, style)
			}
			if ctx.GetDatumStyles != nil {
				style = style.Merge(ctx.GetDatumStyles(plot.StyleInput{Series: s, Datum: d, Status: st}))
			}
			d.StatusStyles[st] = style
		}
		d.Style = d.StatusStyles[plot.StatusNone]
	}
	return s
}

func statusStyle(base plot.Style, st plot.Status) plot.Style {
	switch st {
	case plot.StatusFocused:
		base.Opacity = 1
		if base.StrokeWidth > 0 {
			base.StrokeWidth++
		}
	case plot.StatusUnfocused:
		base.Color = Fade(base.Color, unfocusedFade)
		base.Fill = Fade(base.Fill, unfocusedFade)
		if base.Opacity > 0 {
			base.Opacity /= 2
		}
	}
	return base
}
