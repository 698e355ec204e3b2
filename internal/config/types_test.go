// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme  ColorScheme
		want    bool
		wantErr bool
	}{
		{ColorSchemeAuto, true, false},
		{ColorSchemeDark, true, false},
		{ColorSchemeLight, true, false},
		{"", false, true},
		{"garbage", false, true},
		{"AUTO", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.scheme.IsValid()
			if isValid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("ColorScheme(%q).IsValid() returned no errors, want error", tt.scheme)
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("ColorScheme(%q).IsValid() returned unexpected errors: %v", tt.scheme, errs)
			}
		})
	}
}

func TestListenAddress_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr ListenAddress
		want bool
	}{
		{"127.0.0.1:2222", true},
		{":2222", true},
		{"[::1]:22", true},
		{"localhost:0", true},
		{"", false},
		{"127.0.0.1", false},
		{"127.0.0.1:ssh", false},
		{"127.0.0.1:70000", false},
	}

	for _, tt := range tests {
		valid, errs := tt.addr.IsValid()
		if valid != tt.want {
			t.Errorf("ListenAddress(%q).IsValid() = %v, want %v", tt.addr, valid, tt.want)
		}
		if !tt.want && (len(errs) == 0 || !errors.Is(errs[0], ErrInvalidListenAddress)) {
			t.Errorf("ListenAddress(%q) errors = %v, want ErrInvalidListenAddress", tt.addr, errs)
		}
	}
}

func TestConfig_IsValid_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.VFS.MaxSize = -5
	cfg.UI.ColorScheme = "neon"
	cfg.Serve.Address = "nowhere"

	valid, errs := cfg.IsValid()
	if valid || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", valid, errs)
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want 3", cfgErr.FieldErrors)
	}
	for _, sentinel := range []error{ErrInvalidConfig, ErrInvalidMaxSize, ErrInvalidColorScheme, ErrInvalidListenAddress} {
		if !errors.Is(errs[0], sentinel) {
			t.Errorf("error should match %v", sentinel)
		}
	}
}
