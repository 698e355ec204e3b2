// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatCUE renders configuration as a CUE file.
	FormatCUE Format = "cue"
	// FormatTOML renders configuration as TOML.
	FormatTOML Format = "toml"
	// FormatJSON renders configuration as indented JSON.
	FormatJSON Format = "json"
)

// ErrInvalidFormat is returned for an unsupported output format.
var ErrInvalidFormat = errors.New("invalid format")

// Format names an output encoding for Render.
type Format string

// Render encodes cfg in the requested format.
func Render(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatCUE:
		return []byte(GenerateCUE(cfg)), nil
	case FormatTOML:
		out, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return out, nil
	case FormatJSON:
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("%w %q (valid: cue, toml, json)", ErrInvalidFormat, format)
	}
}
