// SPDX-License-Identifier: MPL-2.0

// Package hostfs is the read-only view of the host filesystem used by the shell
// commands for paths outside the VFS.
//
// It is built on afero so that commands run against afero.NewReadOnlyFs over the
// OS filesystem in production and against an in-memory filesystem in tests.
// Relative paths are resolved against a working directory fixed at construction.
package hostfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// ErrNotExist is returned when a host path does not exist.
var ErrNotExist = fs.ErrNotExist

// FS resolves and reads host paths.
type FS struct {
	fs      afero.Fs
	workDir string
	homeDir func() (string, error)
}

// Option configures an FS.
type Option func(*FS)

// WithWorkDir sets the directory relative paths are resolved against.
func WithWorkDir(dir string) Option {
	return func(f *FS) { f.workDir = dir }
}

// WithHomeDir overrides the home directory used for "~" expansion.
func WithHomeDir(dir string) Option {
	return func(f *FS) { f.homeDir = func() (string, error) { return dir, nil } }
}

// New wraps fsys. The working directory defaults to the process working directory.
func New(fsys afero.Fs, opts ...Option) *FS {
	f := &FS{fs: fsys, homeDir: os.UserHomeDir}
	for _, opt := range opts {
		opt(f)
	}
	if f.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			f.workDir = wd
		} else {
			f.workDir = string(filepath.Separator)
		}
	}
	return f
}

// NewOS returns a read-only view of the OS filesystem.
func NewOS(opts ...Option) *FS {
	return New(afero.NewReadOnlyFs(afero.NewOsFs()), opts...)
}

// WorkDir returns the directory relative paths are resolved against.
func (f *FS) WorkDir() string {
	return f.workDir
}

// ExpandHome replaces a leading "~" (alone or followed by a separator) with the
// home directory. Other paths, and "~user" forms, are returned unchanged.
func (f *FS) ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := f.homeDir()
	if err != nil || home == "" {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// abs resolves p against the working directory.
func (f *FS) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(f.workDir, p)
}

// Exists reports whether p exists.
func (f *FS) Exists(p string) (bool, error) {
	return afero.Exists(f.fs, f.abs(p))
}

// ReadDir returns the entry names of the directory p sorted by name.
func (f *FS) ReadDir(p string) ([]string, error) {
	infos, err := afero.ReadDir(f.fs, f.abs(p))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

// ReadFile returns the content of the file p.
func (f *FS) ReadFile(p string) ([]byte, error) {
	return afero.ReadFile(f.fs, f.abs(p))
}

// Glob returns the paths matching a doublestar pattern ("**" crosses directories).
// Relative patterns match paths relative to the working directory and the
// results are relative too. Results are in lexical walk order.
func (f *FS) Glob(pattern string) ([]string, error) {
	pattern = filepath.ToSlash(f.ExpandHome(pattern))
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, pattern)
	}

	base, _ := doublestar.SplitPattern(pattern)
	relative := !filepath.IsAbs(filepath.FromSlash(pattern))

	var matches []string
	err := afero.Walk(f.fs, f.abs(filepath.FromSlash(base)), func(p string, _ os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		candidate := p
		if relative {
			rel, relErr := filepath.Rel(f.workDir, p)
			if relErr != nil {
				return nil
			}
			candidate = rel
		}
		candidate = filepath.ToSlash(candidate)
		if candidate == "." {
			return nil
		}

		if ok, _ := doublestar.Match(pattern, candidate); ok {
			matches = append(matches, candidate)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return matches, nil
}
