// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"vshell-cli/internal/hostfs"
	"vshell-cli/internal/shell"
	"vshell-cli/internal/vfs"
)

const (
	// StateCreated indicates the server has been created but not started.
	StateCreated ServerState = iota
	// StateStarting indicates the server is binding its listener.
	StateStarting
	// StateRunning indicates the server is accepting connections.
	StateRunning
	// StateStopping indicates the server is shutting down.
	StateStopping
	// StateStopped indicates the server has stopped (terminal state).
	StateStopped
	// StateFailed indicates the server failed to start or serve (terminal state).
	StateFailed

	// DefaultAddress is the listen address used when Config.Address is empty.
	DefaultAddress = "127.0.0.1:2222"
)

var (
	// ErrInvalidSSHConfig is the sentinel error wrapped by InvalidSSHConfigError.
	ErrInvalidSSHConfig = errors.New("invalid SSH server config")
	// ErrInvalidAddress is the sentinel error wrapped by InvalidAddressError.
	ErrInvalidAddress = errors.New("invalid listen address")
	// ErrNegativeTimeout is the sentinel error wrapped by NegativeTimeoutError.
	ErrNegativeTimeout = errors.New("negative timeout")
)

type (
	// ServerState represents the lifecycle state of the server.
	ServerState int32

	// Config holds the immutable configuration of a Server.
	Config struct {
		// Address is host:port to bind. Port 0 selects a free port.
		Address string
		// HostKeyPath is the ed25519 host key, generated on first use.
		HostKeyPath string
		// AuthorizedKeysPath restricts logins to the listed public keys.
		// When empty, clients are accepted without authentication.
		AuthorizedKeysPath string
		// HostName is shown in the prompt. Defaults to the machine hostname.
		HostName string
		// IdleTimeout closes connections without traffic. Zero disables it.
		IdleTimeout time.Duration
		// StartupTimeout bounds Start (default: 5s).
		StartupTimeout time.Duration
		// ShutdownTimeout bounds graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration

		VFS      *vfs.Engine
		Commands *shell.Registry
		// Host answers non-VFS paths. Defaults to an empty in-memory view.
		Host   *hostfs.FS
		Logger *log.Logger
	}

	// InvalidAddressError is returned when Config.Address is not host:port.
	InvalidAddressError struct {
		Value string
		Cause error
	}

	// NegativeTimeoutError is returned when a timeout field is negative.
	NegativeTimeoutError struct {
		Field string
		Value time.Duration
	}

	// InvalidSSHConfigError collects the field errors of a Config.
	InvalidSSHConfigError struct {
		FieldErrors []error
	}
)

// String returns a human-readable representation of the server state.
func (s ServerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultConfig returns a loopback configuration with default timeouts.
func DefaultConfig() Config {
	return Config{
		Address:         DefaultAddress,
		StartupTimeout:  5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// IsValid reports whether the configuration can be used to start a server.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.Address != "" {
		if err := validateAddress(c.Address); err != nil {
			errs = append(errs, err)
		}
	}
	for _, f := range []struct {
		name  string
		value time.Duration
	}{
		{"idle timeout", c.IdleTimeout},
		{"startup timeout", c.StartupTimeout},
		{"shutdown timeout", c.ShutdownTimeout},
	} {
		if f.value < 0 {
			errs = append(errs, &NegativeTimeoutError{Field: f.name, Value: f.value})
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidSSHConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func validateAddress(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return &InvalidAddressError{Value: addr, Cause: err}
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return &InvalidAddressError{Value: addr, Cause: fmt.Errorf("port %q: %w", port, err)}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid listen address %q: %v", e.Value, e.Cause)
}

// Unwrap returns ErrInvalidAddress for errors.Is() compatibility.
func (e *InvalidAddressError) Unwrap() error { return ErrInvalidAddress }

// Error implements the error interface.
func (e *NegativeTimeoutError) Error() string {
	return fmt.Sprintf("%s must not be negative (got %s)", e.Field, e.Value)
}

// Unwrap returns ErrNegativeTimeout for errors.Is() compatibility.
func (e *NegativeTimeoutError) Unwrap() error { return ErrNegativeTimeout }

// Error implements the error interface.
func (e *InvalidSSHConfigError) Error() string {
	return fmt.Sprintf("invalid SSH server config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidSSHConfig and the field errors.
func (e *InvalidSSHConfigError) Unwrap() []error {
	return append([]error{ErrInvalidSSHConfig}, e.FieldErrors...)
}
