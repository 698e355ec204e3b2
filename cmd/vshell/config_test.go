// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vshell-cli/internal/config"
	"vshell-cli/internal/issue"
)

func TestConfigShow_Formats(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.VFS.Path = "/data/fs.json"

	tests := []struct {
		format string
		want   string
	}{
		{"cue", `path:     "/data/fs.json"`},
		{"toml", `path = '/data/fs.json'`},
		{"json", `"path": "/data/fs.json"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			c := newTestCLI(t, cfg, "")
			if err := c.run(t, "config", "show", "--format", tt.format); err != nil {
				t.Fatalf("config show error: %v", err)
			}
			if !strings.Contains(c.stdout.String(), tt.want) {
				t.Errorf("config show --format %s missing %q:\n%s", tt.format, tt.want, c.stdout.String())
			}
		})
	}
}

func TestConfigShow_JSONIsValid(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t, nil, "")
	if err := c.run(t, "config", "show", "-f", "json"); err != nil {
		t.Fatalf("config show error: %v", err)
	}

	var decoded config.Config
	if err := json.Unmarshal(c.stdout.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, c.stdout.String())
	}
	if decoded.Serve.Address != config.DefaultServeAddress {
		t.Errorf("serve.address = %q, want %q", decoded.Serve.Address, config.DefaultServeAddress)
	}
}

func TestConfigShow_InvalidFormat(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t, nil, "")
	err := c.run(t, "config", "show", "--format", "yaml")
	if !errors.Is(err, config.ErrInvalidFormat) {
		t.Errorf("config show --format yaml error = %v, want ErrInvalidFormat", err)
	}
}

func TestConfigShow_LoadError(t *testing.T) {
	t.Parallel()

	loadErr := issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(errors.New("boom")).
		BuildError()

	c := newTestCLI(t, nil, "")
	c.app.Config = &staticConfigProvider{err: loadErr}

	if err := c.run(t, "config", "show"); !errors.Is(err, loadErr) {
		t.Errorf("config show error = %v, want the load error", err)
	}
}

func TestConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "custom.cue")
	if err := os.WriteFile(existing, []byte("ui: verbose: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	missing := filepath.Join(dir, "missing.cue")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"existing file", existing, existing + "\n"},
		{"missing file", missing, missing + " (not created yet, using defaults)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestCLI(t, nil, "")
			if err := c.run(t, "config", "path", "--config", tt.path); err != nil {
				t.Fatalf("config path error: %v", err)
			}
			if got := c.stdout.String(); got != tt.want {
				t.Errorf("config path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigInit(t *testing.T) {
	// Not parallel: overrides the package-level config directory.
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	c := newTestCLI(t, nil, "")
	if err := c.run(t, "config", "init"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	want := filepath.Join(dir, "config.cue")
	if !strings.Contains(c.stdout.String(), "Created config file: "+want) {
		t.Errorf("config init output = %q, want creation notice for %s", c.stdout.String(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	c.stdout.Reset()
	if err := c.run(t, "config", "init"); err != nil {
		t.Fatalf("second config init error: %v", err)
	}
	if !strings.Contains(c.stdout.String(), "Config file already exists: "+want) {
		t.Errorf("second config init output = %q, want existing-file notice", c.stdout.String())
	}
}
