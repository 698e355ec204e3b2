// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"vshell-cli/pkg/cueutil"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultServeAddress is where "vshell serve" listens unless configured.
	DefaultServeAddress ListenAddress = "127.0.0.1:2222"

	// DefaultVFSMaxSize bounds VFS documents unless configured.
	DefaultVFSMaxSize = 8 * cueutil.DefaultMaxFileSize
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidListenAddress is the sentinel error wrapped by InvalidListenAddressError.
	ErrInvalidListenAddress = errors.New("invalid listen address")
	// ErrInvalidMaxSize is the sentinel error wrapped by InvalidMaxSizeError.
	ErrInvalidMaxSize = errors.New("invalid max size")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ListenAddress is a host:port pair with a numeric port.
	ListenAddress string

	// InvalidListenAddressError is returned when a ListenAddress cannot be split
	// into host and port.
	InvalidListenAddressError struct {
		Value ListenAddress
		Cause error
	}

	// InvalidMaxSizeError is returned for a negative size limit.
	InvalidMaxSizeError struct {
		Value int64
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// VFS configures the virtual filesystem document
		VFS VFSConfig `json:"vfs" toml:"vfs" mapstructure:"vfs"`
		// Script is replayed before the interactive phase when set
		Script string `json:"script" toml:"script" mapstructure:"script"`
		// UI configures the user interface
		UI UIConfig `json:"ui" toml:"ui" mapstructure:"ui"`
		// Serve configures "vshell serve"
		Serve ServeConfig `json:"serve" toml:"serve" mapstructure:"serve"`
	}

	// VFSConfig locates and bounds the virtual filesystem document.
	VFSConfig struct {
		Path    string `json:"path" toml:"path" mapstructure:"path"`
		MaxSize int64  `json:"max_size" toml:"max_size" mapstructure:"max_size"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" toml:"verbose" mapstructure:"verbose"`
	}

	// ServeConfig configures the SSH surface.
	ServeConfig struct {
		Address ListenAddress `json:"address" toml:"address" mapstructure:"address"`
		// HostKeyPath defaults to a key inside the config directory when empty.
		HostKeyPath string `json:"host_key_path" toml:"host_key_path" mapstructure:"host_key_path"`
	}
)

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined color schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ListenAddress.
func (a ListenAddress) String() string { return string(a) }

// IsValid returns whether the address splits into a host and a port in 0-65535.
func (a ListenAddress) IsValid() (bool, []error) {
	_, port, err := net.SplitHostPort(string(a))
	if err == nil {
		_, err = strconv.ParseUint(port, 10, 16)
	}
	if err != nil {
		return false, []error{&InvalidListenAddressError{Value: a, Cause: err}}
	}
	return true, nil
}

// Error implements the error interface for InvalidListenAddressError.
func (e *InvalidListenAddressError) Error() string {
	return fmt.Sprintf("invalid listen address %q: %v", e.Value, e.Cause)
}

// Unwrap returns ErrInvalidListenAddress for errors.Is() compatibility.
func (e *InvalidListenAddressError) Unwrap() error { return ErrInvalidListenAddress }

// Error implements the error interface for InvalidMaxSizeError.
func (e *InvalidMaxSizeError) Error() string {
	return fmt.Sprintf("invalid vfs max size %d: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidMaxSize for errors.Is() compatibility.
func (e *InvalidMaxSizeError) Unwrap() error { return ErrInvalidMaxSize }

// IsValid returns whether the Config has valid fields.
// It delegates to UI.ColorScheme.IsValid() and Serve.Address.IsValid() and
// rejects a negative VFS size limit.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.VFS.MaxSize < 0 {
		errs = append(errs, &InvalidMaxSizeError{Value: c.VFS.MaxSize})
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Serve.Address.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		VFS: VFSConfig{
			MaxSize: DefaultVFSMaxSize,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Serve: ServeConfig{
			Address: DefaultServeAddress,
		},
	}
}
