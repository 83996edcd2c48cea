// Package config reads declarative chart specs.
//
// A spec names the series type, the canvas, the axes and the interaction
// options, plus dotted field paths describing where series and datum values
// live in the input data. Specs are written in TOML, YAML or JSON; all three
// formats share the same keys except that TOML keys are snake_case:
//
//	type = "bar"
//	width = 640
//	height = 400
//	group_mode = "primary"
//
//	[accessors]
//	datums = "points"
//	primary = "month"
//	secondary = "revenue"
//
//	[[axes]]
//	primary = true
//	position = "bottom"
//
//	[[axes]]
//	position = "left"
//	stacked = true
//
// [Spec.ChartOptions] turns a validated spec into chart options.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartcore/pkg/core/axis"
	"github.com/matzehuels/chartcore/pkg/core/focus"
	"github.com/matzehuels/chartcore/pkg/core/layout"
	"github.com/matzehuels/chartcore/pkg/core/seriestype"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultWidth       = 800
	DefaultHeight      = 600
	DefaultGroupMode   = "primary"
	DefaultType        = "line"
	DefaultHoverRadius = 24
)

// Format is a spec encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported spec file %q (want .toml, .yaml, .yml or .json)", path)
}

// Spec is a declarative chart description.
type Spec struct {
	// Type is the series type for every series unless Accessors.Type names
	// a per-series field.
	Type string `json:"type,omitempty" toml:"type" yaml:"type,omitempty"`

	Width     float64        `json:"width,omitempty" toml:"width" yaml:"width,omitempty"`
	Height    float64        `json:"height,omitempty" toml:"height" yaml:"height,omitempty"`
	Padding   layout.Padding `json:"padding" toml:"padding" yaml:"padding"`
	GroupMode string         `json:"groupMode,omitempty" toml:"group_mode" yaml:"groupMode,omitempty"`

	Accessors Accessors     `json:"accessors" toml:"accessors" yaml:"accessors"`
	Axes      []axis.Config `json:"axes" toml:"axes" yaml:"axes"`

	Tooltip focus.TooltipOptions `json:"tooltip" toml:"tooltip" yaml:"tooltip"`
	Cursors Cursors              `json:"cursors" toml:"cursors" yaml:"cursors"`
	Brush   *focus.BrushOptions  `json:"brush,omitempty" toml:"brush" yaml:"brush,omitempty"`

	// Colors replaces the default palette.
	Colors []string `json:"colors,omitempty" toml:"colors" yaml:"colors,omitempty"`
	// HoverRadius is the pixel radius within which a pointer hovers a datum
	// when no capture layer reports the hover set.
	HoverRadius float64 `json:"hoverRadius,omitempty" toml:"hover_radius" yaml:"hoverRadius,omitempty"`
}

// Accessors holds dotted field paths. Empty paths keep the default
// accessor.
type Accessors struct {
	Series          string `json:"series,omitempty" toml:"series" yaml:"series,omitempty"`
	Datums          string `json:"datums,omitempty" toml:"datums" yaml:"datums,omitempty"`
	Label           string `json:"label,omitempty" toml:"label" yaml:"label,omitempty"`
	SeriesID        string `json:"seriesId,omitempty" toml:"series_id" yaml:"seriesId,omitempty"`
	Primary         string `json:"primary,omitempty" toml:"primary" yaml:"primary,omitempty"`
	Secondary       string `json:"secondary,omitempty" toml:"secondary" yaml:"secondary,omitempty"`
	R               string `json:"r,omitempty" toml:"r" yaml:"r,omitempty"`
	PrimaryAxisID   string `json:"primaryAxisId,omitempty" toml:"primary_axis_id" yaml:"primaryAxisId,omitempty"`
	SecondaryAxisID string `json:"secondaryAxisId,omitempty" toml:"secondary_axis_id" yaml:"secondaryAxisId,omitempty"`
	// Type reads the series type from a field of each series record.
	Type string `json:"type,omitempty" toml:"type" yaml:"type,omitempty"`
}

func (a Accessors) paths() map[string]string {
	return map[string]string{
		"series": a.Series, "datums": a.Datums, "label": a.Label,
		"seriesId": a.SeriesID, "primary": a.Primary, "secondary": a.Secondary,
		"r": a.R, "primaryAxisId": a.PrimaryAxisID, "secondaryAxisId": a.SecondaryAxisID,
		"type": a.Type,
	}
}

// Cursors enables the primary and secondary cursors.
type Cursors struct {
	Primary   *focus.CursorOptions `json:"primary,omitempty" toml:"primary" yaml:"primary,omitempty"`
	Secondary *focus.CursorOptions `json:"secondary,omitempty" toml:"secondary" yaml:"secondary,omitempty"`
}

// =============================================================================
// Loading
// =============================================================================

// Load reads and validates a spec file.
func Load(path string) (*Spec, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read spec %s", path)
	}
	return Parse(data, format)
}

// Parse decodes and validates a spec. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Spec, error) {
	var s Spec
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml spec")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown spec key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml spec")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json spec")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported spec format %q", format)
	}
	if err := s.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the spec in the given format.
func (s *Spec) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode toml spec")
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported spec format %q", format)
}

// =============================================================================
// Validation
// =============================================================================

// ValidateAndSetDefaults validates the spec and fills defaults. It is
// idempotent.
func (s *Spec) ValidateAndSetDefaults() error {
	if s.Type == "" {
		s.Type = DefaultType
	}
	if _, err := seriestype.Default().Lookup(s.Type); err != nil {
		return err
	}
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if err := errors.ValidateDimensions(s.Width, s.Height); err != nil {
		return err
	}
	if s.GroupMode == "" {
		s.GroupMode = DefaultGroupMode
	}
	if err := errors.ValidateGroupMode(s.GroupMode); err != nil {
		return err
	}
	if s.HoverRadius == 0 {
		s.HoverRadius = DefaultHoverRadius
	}
	if s.HoverRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "hover radius must not be negative")
	}

	for name, path := range s.Accessors.paths() {
		if err := errors.ValidateFieldPath(path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "accessor %s", name)
		}
	}

	if len(s.Axes) == 0 {
		s.Axes = DefaultAxes()
	}
	var primary, secondary int
	for _, c := range s.Axes {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.Primary {
			primary++
		} else {
			secondary++
		}
	}
	if primary == 0 || secondary == 0 {
		return errors.New(errors.ErrCodeMissingAxis, "spec needs at least one primary and one secondary axis")
	}

	if err := s.Tooltip.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if s.Cursors.Primary == nil {
		s.Cursors.Primary = &focus.CursorOptions{}
	}
	if s.Cursors.Secondary == nil {
		s.Cursors.Secondary = &focus.CursorOptions{}
	}
	for _, c := range []*focus.CursorOptions{s.Cursors.Primary, s.Cursors.Secondary} {
		if err := c.ValidateAndSetDefaults(); err != nil {
			return err
		}
	}
	if s.Brush != nil {
		if err := s.Brush.ValidateAndSetDefaults(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultAxes is a bottom primary axis and a left secondary axis.
func DefaultAxes() []axis.Config {
	return []axis.Config{
		{Primary: true, Position: "bottom"},
		{Position: "left"},
	}
}
