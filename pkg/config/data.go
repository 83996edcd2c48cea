package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartcore/pkg/errors"
)

// LoadData reads a chart data file. The format follows the extension.
func LoadData(path string) (any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read data %s", path)
	}
	return ParseData(raw, format)
}

// ParseData decodes chart data into plain values: maps, slices, strings,
// numbers, booleans and nil. TOML documents are always tables.
func ParseData(raw []byte, format Format) (any, error) {
	var v any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json data")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml data")
		}
	case FormatTOML:
		m := map[string]any{}
		if err := toml.Unmarshal(raw, &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml data")
		}
		v = m
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported data format %q", format)
	}
	return v, nil
}
