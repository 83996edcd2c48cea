package focus

import (
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// boundsSlack is how far outside the grid, in pixels, the pointer may be
// while a cursor stays visible.
const boundsSlack = 1

// CursorOptions configures one cursor.
type CursorOptions struct {
	// AxisID pins the cursor to an axis. Empty follows the hovered datum's
	// axis, then the first axis of the role.
	AxisID string `json:"axisId,omitempty" toml:"axis_id" yaml:"axisId"`
	// Snap moves the cursor to the hovered datum's value instead of the
	// inverted pointer position. Defaults to true; ordinal axes always snap.
	Snap      *bool `json:"snap,omitempty" toml:"snap" yaml:"snap"`
	ShowLine  *bool `json:"showLine,omitempty" toml:"show_line" yaml:"showLine"`
	ShowLabel *bool `json:"showLabel,omitempty" toml:"show_label" yaml:"showLabel"`
	// Value and Show override the computed state.
	Value any   `json:"value,omitempty" toml:"value" yaml:"value"`
	Show  *bool `json:"show,omitempty" toml:"show" yaml:"show"`
}

// ValidateAndSetDefaults fills the boolean defaults. It is idempotent.
func (o *CursorOptions) ValidateAndSetDefaults() error {
	if o.Snap == nil {
		o.Snap = boolPtr(true)
	}
	if o.ShowLine == nil {
		o.ShowLine = boolPtr(true)
	}
	if o.ShowLabel == nil {
		o.ShowLabel = boolPtr(true)
	}
	if o.AxisID != "" {
		if err := errors.ValidateFieldPath(o.AxisID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidAxis, err, "cursor axis id %q", o.AxisID)
		}
	}
	return nil
}

func (o CursorOptions) snap() bool {
	return o.Snap == nil || *o.Snap
}

func boolPtr(b bool) *bool { return &b }

// Cursor is the resolved state of one cursor.
type Cursor struct {
	Primary     bool
	Axis        *plot.Axis
	SiblingAxis *plot.Axis
	Show        bool
	// Value is the displayed value; ComputedValue is the value before any
	// explicit override.
	Value         any
	ComputedValue any
	// Position is Value mapped through Axis, valid when Show is set and the
	// value maps.
	Position float64
	Datum    *plot.Datum
	Options  CursorOptions
}

// ResolveCursor computes the cursor for the primary or secondary role.
func ResolveCursor(primary bool, opts CursorOptions, in Input) (*Cursor, error) {
	axes, siblings := in.PrimaryAxes, in.SecondaryAxes
	if !primary {
		axes, siblings = siblings, axes
	}
	if len(axes) == 0 || len(siblings) == 0 {
		return nil, errors.New(errors.ErrCodeMissingAxis, "cursor needs a primary and a secondary axis")
	}

	datum := ClosestPoint(pointerPoint(in.Pointer), in.Hovered.Datums)
	axis, err := cursorAxis(primary, opts.AxisID, datum, axes)
	if err != nil {
		return nil, err
	}

	c := &Cursor{
		Primary:     primary,
		Axis:        axis,
		SiblingAxis: siblings[0],
		Datum:       datum,
		Options:     opts,
	}

	p := in.Pointer
	if p.Active {
		g := in.Frame.Grid
		c.Show = p.X >= -boundsSlack && p.X <= g.Width+boundsSlack &&
			p.Y >= -boundsSlack && p.Y <= g.Height+boundsSlack

		switch {
		case axis.Type == plot.AxisOrdinal || opts.snap():
			if datum == nil {
				c.Show = false
			} else if axis.Vertical {
				c.Value = datum.YValue
			} else {
				c.Value = datum.XValue
			}
		case axis.Scale != nil && axis.Vertical:
			c.Value = axis.Scale.Invert(p.Y)
		case axis.Scale != nil:
			c.Value = axis.Scale.Invert(p.X)
		}
	}
	c.ComputedValue = c.Value

	if opts.Value != nil {
		c.Show = true
		c.Value = opts.Value
	}
	if opts.Show != nil {
		c.Show = *opts.Show
	}

	if c.Show && c.Value != nil && axis.Scale != nil {
		if px, ok := axis.Scale.Map(c.Value); ok {
			c.Position = px
		}
	}
	return c, nil
}

// cursorAxis picks the explicit axis, then the datum's axis for the role,
// then the first axis.
func cursorAxis(primary bool, id string, datum *plot.Datum, axes []*plot.Axis) (*plot.Axis, error) {
	if id != "" {
		for _, a := range axes {
			if a.ID == id {
				return a, nil
			}
		}
		return nil, errors.New(errors.ErrCodeMissingAxis, "cursor axis %q not found", id)
	}
	if datum != nil && datum.Series != nil {
		if primary {
			return plot.Find(axes, datum.Series.PrimaryAxisID), nil
		}
		return plot.Find(axes, datum.Series.SecondaryAxisID), nil
	}
	return axes[0], nil
}
