package chart

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/core/axis"
	"github.com/matzehuels/chartcore/pkg/core/focus"
	"github.com/matzehuels/chartcore/pkg/core/layout"
	"github.com/matzehuels/chartcore/pkg/core/materialize"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/core/seriestype"
	"github.com/matzehuels/chartcore/pkg/core/stack"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// Default canvas size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Options configures a chart instance.
type Options struct {
	// Data is the raw input. Nil is the "no data" state.
	Data any
	// Accessors read series and datums out of Data. Zero accessors fall back
	// to the defaults.
	Accessors materialize.Accessors
	// Type selects the series type per series. The zero value is "line".
	Type seriestype.Selector
	// Registry resolves type names. Nil uses the built-in registry.
	Registry *seriestype.Registry

	Axes      []axis.Config
	GroupMode stack.GroupMode

	Width   float64
	Height  float64
	Padding layout.Padding

	Tooltip focus.TooltipOptions
	// PrimaryCursor and SecondaryCursor enable the cursors when set.
	PrimaryCursor   *focus.CursorOptions
	SecondaryCursor *focus.CursorOptions
	// Brush enables drag selection along the first primary axis.
	Brush *focus.BrushOptions

	GetStyles      plot.StyleFunc
	GetDatumStyles plot.StyleFunc
	DefaultColors  []string

	// Change notifications fire from Snapshot after a pointer update.
	OnTooltipChange func(*focus.Tooltip)
	OnCursorChange  func(*focus.Cursor)
	OnBrush         func(*focus.Selection)

	// Logger receives debug output for every recomputed stage. Nil discards.
	Logger *log.Logger
}

// ValidateAndSetDefaults validates options and fills defaults. It is
// idempotent and must be called before use; New calls it.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidateGroupMode(string(o.GroupMode)); err != nil {
		return err
	}
	if o.GroupMode == "" {
		o.GroupMode = stack.GroupPrimary
	}
	if o.Registry == nil {
		o.Registry = seriestype.Default()
	}
	for _, c := range o.Axes {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if err := o.Tooltip.ValidateAndSetDefaults(); err != nil {
		return err
	}
	for _, c := range []*focus.CursorOptions{o.PrimaryCursor, o.SecondaryCursor} {
		if c == nil {
			continue
		}
		if err := c.ValidateAndSetDefaults(); err != nil {
			return err
		}
	}
	if o.Brush != nil {
		if err := o.Brush.ValidateAndSetDefaults(); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}
