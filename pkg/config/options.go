package config

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/core/accessor"
	"github.com/matzehuels/chartcore/pkg/core/materialize"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/core/seriestype"
	"github.com/matzehuels/chartcore/pkg/core/stack"
)

// ChartOptions builds chart options for data. The spec must have been
// validated.
func (s *Spec) ChartOptions(data any, logger *log.Logger) chart.Options {
	opts := chart.Options{
		Data:          data,
		Accessors:     s.accessors(),
		Type:          s.selector(),
		Axes:          append(s.Axes[:0:0], s.Axes...),
		GroupMode:     stack.GroupMode(s.GroupMode),
		Width:         s.Width,
		Height:        s.Height,
		Padding:       s.Padding,
		Tooltip:       s.Tooltip,
		DefaultColors: s.Colors,
		Logger:        logger,
	}
	if c := s.Cursors.Primary; c != nil {
		cp := *c
		opts.PrimaryCursor = &cp
	}
	if c := s.Cursors.Secondary; c != nil {
		cp := *c
		opts.SecondaryCursor = &cp
	}
	if s.Brush != nil {
		b := *s.Brush
		opts.Brush = &b
	}
	return opts
}

func (s *Spec) accessors() materialize.Accessors {
	a := s.Accessors
	return materialize.Accessors{
		Series:          field(a.Series),
		Datums:          field(a.Datums),
		Label:           field(a.Label),
		SeriesID:        field(a.SeriesID),
		Primary:         field(a.Primary),
		Secondary:       field(a.Secondary),
		R:               field(a.R),
		PrimaryAxisID:   field(a.PrimaryAxisID),
		SecondaryAxisID: field(a.SecondaryAxisID),
	}
}

// field returns a path accessor, or the zero accessor for an empty path so
// the default applies.
func field(path string) accessor.Accessor {
	if path == "" {
		return accessor.Accessor{}
	}
	return accessor.Field(path)
}

// selector reads the per-series type field when configured, falling back
// to the spec type for series without one.
func (s *Spec) selector() seriestype.Selector {
	if s.Accessors.Type == "" {
		return seriestype.Static(s.Type)
	}
	path, fallback := s.Accessors.Type, s.Type
	return seriestype.Dynamic(func(ser *plot.Series, _ int) string {
		v, ok := accessor.Lookup(ser.Original, path)
		if !ok || v == nil {
			return fallback
		}
		if name, ok := v.(string); ok && name != "" {
			return name
		}
		return fmt.Sprint(v)
	})
}
