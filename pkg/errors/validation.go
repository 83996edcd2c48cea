package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateGroupMode validates a datum grouping mode.
// The empty string disables grouping.
func ValidateGroupMode(mode string) error {
	switch mode {
	case "", "primary", "secondary", "none":
		return nil
	}
	return New(ErrCodeInvalidConfig, "invalid group mode: %q (must be one of: primary, secondary, none)", mode)
}

// ValidateAxisType validates an axis scale type.
// The empty string asks the axis builder to infer the type from data.
func ValidateAxisType(typ string) error {
	switch typ {
	case "", "linear", "time", "ordinal", "log":
		return nil
	}
	return New(ErrCodeInvalidAxis, "invalid axis type: %q (must be one of: linear, time, ordinal, log)", typ)
}

// ValidatePosition validates an axis placement side.
func ValidatePosition(pos string) error {
	switch pos {
	case "top", "bottom", "left", "right":
		return nil
	}
	return New(ErrCodeInvalidAxis, "invalid axis position: %q (must be one of: top, bottom, left, right)", pos)
}

// ValidateDimensions validates the chart canvas size.
// Both dimensions must be finite and non-negative.
func ValidateDimensions(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return New(ErrCodeInvalidInput, "invalid dimensions %gx%g", width, height)
		}
	}
	return nil
}

// fieldPathRegex matches dotted field paths such as "data", "x" or "meta.0.value".
var fieldPathRegex = regexp.MustCompile(`^[A-Za-z0-9_$-]+(\.[A-Za-z0-9_$-]+)*$`)

// ValidateFieldPath validates a dotted field path used by declarative accessors.
//
// The validation rules are intentionally conservative:
//   - No control characters
//   - Segments separated by single dots
//   - Maximum length of 256 characters
//
// The empty path is valid and selects the record itself.
func ValidateFieldPath(path string) error {
	if path == "" {
		return nil
	}
	if len(path) > 256 {
		return New(ErrCodeInvalidConfig, "field path too long (max 256 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "field path contains invalid control characters")
		}
	}
	if !fieldPathRegex.MatchString(path) {
		return New(ErrCodeInvalidConfig, "invalid field path: %q", path)
	}
	return nil
}

// focusAnchors lists the anchor names accepted by multi-point tooltip focus.
var focusAnchors = map[string]bool{
	"center": true, "top": true, "bottom": true, "left": true, "right": true,
	"topLeft": true, "topRight": true, "bottomLeft": true, "bottomRight": true,
}

// ValidateFocusPosition validates a single relative tooltip focus position.
// Positions are an anchor optionally prefixed with "grid" or "chart",
// for example "top", "gridCenter" or "chartBottomRight".
func ValidateFocusPosition(pos string) error {
	anchor := pos
	for _, prefix := range []string{"grid", "chart"} {
		if rest, ok := strings.CutPrefix(pos, prefix); ok && rest != "" {
			anchor = strings.ToLower(rest[:1]) + rest[1:]
			break
		}
	}
	if !focusAnchors[anchor] {
		return New(ErrCodeInvalidFocus, "%q is not a valid tooltip focus position", pos)
	}
	return nil
}
