package focus

import (
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// Tooltip focus modes.
const (
	FocusClosest = "closest"
	FocusPointer = "pointer"
)

// maxAnchors is the number of relative positions a multi-point focus may
// combine.
const maxAnchors = 2

// FocusInput is handed to a FocusFunc.
type FocusInput struct {
	Hovered      []*plot.Datum
	Pointer      plot.Pointer
	FocusedDatum *plot.Datum
}

// FocusFunc computes a custom tooltip anchor. A nil result hides the anchor.
type FocusFunc func(FocusInput) *plot.FocusPoint

// TooltipOptions configures tooltip focus. Align, AlignPriority, Padding and
// ArrowPadding are not interpreted here; they pass through to the renderer.
type TooltipOptions struct {
	// Focus is "closest" (default) or "pointer".
	Focus string `json:"focus,omitempty" toml:"focus" yaml:"focus"`
	// Anchors selects multi-point focus over the hovered datums, e.g.
	// ["top"] or ["gridTop", "left"]. Ignored when Focus is "pointer".
	Anchors []string `json:"anchors,omitempty" toml:"anchors" yaml:"anchors"`
	// FocusFunc overrides every other focus mode while the pointer is
	// active.
	FocusFunc FocusFunc `json:"-" toml:"-" yaml:"-"`

	Align         string   `json:"align,omitempty" toml:"align" yaml:"align"`
	AlignPriority []string `json:"alignPriority,omitempty" toml:"align_priority" yaml:"alignPriority"`
	Padding       float64  `json:"padding,omitempty" toml:"padding" yaml:"padding"`
	ArrowPadding  float64  `json:"arrowPadding,omitempty" toml:"arrow_padding" yaml:"arrowPadding"`

	// Show forces the tooltip visibility.
	Show *bool `json:"show,omitempty" toml:"show" yaml:"show"`
}

// ValidateAndSetDefaults validates the options and fills defaults. It is
// idempotent.
func (o *TooltipOptions) ValidateAndSetDefaults() error {
	if o.Focus == "" {
		o.Focus = FocusClosest
	}
	if o.Focus != FocusClosest && o.Focus != FocusPointer {
		return errors.New(errors.ErrCodeInvalidFocus, "tooltip focus must be %q or %q, got %q", FocusClosest, FocusPointer, o.Focus)
	}
	if _, err := parseAnchors(o.Anchors); err != nil {
		return err
	}
	return nil
}

// Tooltip is the resolved tooltip state.
type Tooltip struct {
	Focused      *plot.FocusPoint
	FocusedDatum *plot.Datum
	Show         bool
	Options      TooltipOptions
}

// ResolveTooltip computes the tooltip anchor. The focused datum is always
// the hovered datum closest to the pointer; the anchor defaults to its focus
// point and is replaced according to the configured mode.
func ResolveTooltip(opts TooltipOptions, in Input) (*Tooltip, error) {
	hovered := in.Hovered.Datums
	closest := ClosestPoint(pointerPoint(in.Pointer), hovered)

	var focused *plot.FocusPoint
	if closest != nil {
		f := closest.Focus
		focused = &f
	}

	switch {
	case opts.FocusFunc != nil:
		// The override only sees live pointers; otherwise the closest
		// datum's anchor stands.
		if in.Pointer.Active {
			focused = opts.FocusFunc(FocusInput{Hovered: hovered, Pointer: in.Pointer, FocusedDatum: closest})
		}
	case opts.Focus == FocusPointer:
		focused = &plot.FocusPoint{X: in.Pointer.X, Y: in.Pointer.Y}
	case len(opts.Anchors) > 0 && len(hovered) > 0:
		p, err := MultiFocus(opts.Anchors, hovered, in.Frame)
		if err != nil {
			return nil, err
		}
		focused = &p
	}

	t := &Tooltip{
		Focused:      focused,
		FocusedDatum: closest,
		Show:         in.Hovered.Active,
		Options:      opts,
	}
	if opts.Show != nil {
		t.Show = *opts.Show
	}
	return t, nil
}
