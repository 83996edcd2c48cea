package errors

import (
	"math"
	"testing"
)

func TestValidateGroupMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"primary", "primary", false},
		{"secondary", "secondary", false},
		{"none", "none", false},
		{"unknown", "series", true},
		{"wrong case", "Primary", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroupMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGroupMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAxisType(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"linear", false},
		{"time", false},
		{"ordinal", false},
		{"log", false},
		{"band", true},
		{"utc", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateAxisType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAxisType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidAxis) {
				t.Errorf("ValidateAxisType(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidAxis)
			}
		})
	}
}

func TestValidatePosition(t *testing.T) {
	for _, pos := range []string{"top", "bottom", "left", "right"} {
		if err := ValidatePosition(pos); err != nil {
			t.Errorf("ValidatePosition(%q) unexpected error: %v", pos, err)
		}
	}
	for _, pos := range []string{"", "middle", "Left"} {
		if err := ValidatePosition(pos); err == nil {
			t.Errorf("ValidatePosition(%q) expected error", pos)
		}
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{"typical", 800, 600, false},
		{"zero", 0, 0, false},
		{"negative width", -1, 100, true},
		{"nan height", 100, math.NaN(), true},
		{"infinite", math.Inf(1), 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%v, %v) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty selects record", "", false},
		{"simple", "x", false},
		{"nested", "meta.value", false},
		{"index", "values.0", false},
		{"camel case", "primaryAxisID", false},

		{"leading dot", ".x", true},
		{"double dot", "a..b", true},
		{"space", "a b", true},
		{"control char", "a\x01b", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFieldPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFocusPosition(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"top", false},
		{"center", false},
		{"bottomRight", false},
		{"gridTop", false},
		{"gridCenter", false},
		{"chartBottomLeft", false},

		{"", true},
		{"grid", true},
		{"middle", true},
		{"gridMiddle", true},
		{"closest", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateFocusPosition(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFocusPosition(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFocus) {
				t.Errorf("ValidateFocusPosition(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}
