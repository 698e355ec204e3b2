// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/spf13/afero"

	"vshell-cli/internal/hostfs"
	"vshell-cli/internal/shell"
	"vshell-cli/internal/vfs"
)

// Server serves shell sessions over SSH.
// A Server instance is single-use: once stopped or failed, create a new instance.
type Server struct {
	cfg Config

	state atomic.Int32

	stateMu  sync.Mutex
	srv      *ssh.Server
	listener net.Listener
	addr     string
	lastErr  error

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedCh chan struct{}
	errCh     chan error

	tree     atomic.Pointer[vfs.Engine]
	sessions atomic.Int64
	logger   *log.Logger
}

// New creates a server. It does not bind until Start is called.
func New(cfg Config) *Server {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = DefaultConfig().StartupTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}
	if cfg.HostName == "" {
		cfg.HostName = "localhost"
		if h, err := os.Hostname(); err == nil && h != "" {
			cfg.HostName = h
		}
	}
	if cfg.VFS == nil {
		cfg.VFS = vfs.NewEngine(nil)
	}
	if cfg.Commands == nil {
		cfg.Commands = shell.DefaultRegistry
	}
	if cfg.Host == nil {
		cfg.Host = hostfs.New(afero.NewMemMapFs(), hostfs.WithWorkDir("/"), hostfs.WithHomeDir("/"))
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	s := &Server{
		cfg:       cfg,
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1),
		logger:    cfg.Logger.WithPrefix("ssh"),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.state.Store(int32(StateCreated))
	s.tree.Store(cfg.VFS)
	return s
}

// Start binds the listener and blocks until the server accepts connections,
// the startup timeout elapses or ctx is cancelled.
// After Start returns nil, use Err to monitor runtime failures.
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		s.transitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return s.LastError()
	default:
	}

	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", s.State())
	}

	if ok, errs := s.cfg.IsValid(); !ok {
		s.transitionToFailed(errs[0])
		return s.LastError()
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", s.cfg.Address)
	if err != nil {
		s.transitionToFailed(fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err))
		return s.LastError()
	}

	srv, err := wish.NewServer(s.serverOptions()...)
	if err != nil {
		_ = listener.Close()
		s.transitionToFailed(fmt.Errorf("failed to create SSH server: %w", err))
		return s.LastError()
	}

	s.stateMu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srv = srv
	s.stateMu.Unlock()

	s.wg.Add(1)
	go s.serve()

	select {
	case <-s.startedCh:
		s.logger.Info("SSH server started", "address", s.addr, "auth", s.authMode())
		return nil
	case err := <-s.errCh:
		s.transitionToFailed(err)
		return err
	case <-startupCtx.Done():
		_ = listener.Close()
		s.transitionToFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.LastError()
	}
}

// Stop gracefully stops the server, waiting for open sessions until the
// shutdown timeout. Safe to call multiple times.
func (s *Server) Stop() error {
	for {
		current := s.State()
		switch current {
		case StateStopped, StateFailed:
			return nil
		case StateCreated:
			if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				s.cancel()
				return nil
			}
		case StateStopping:
			s.wg.Wait()
			return nil
		case StateStarting, StateRunning:
			if s.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				return s.doStop()
			}
		default:
			return fmt.Errorf("unknown server state: %d", current)
		}
	}
}

// Err returns a channel receiving fatal runtime errors. It is closed when the
// server stops.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// State returns the current lifecycle state.
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

// IsRunning reports whether the server accepts connections.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// LastError returns the error that moved the server to StateFailed.
func (s *Server) LastError() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.lastErr
}

// Address returns the bound host:port. It blocks until the server has
// started, and returns "" if it never does.
func (s *Server) Address() string {
	select {
	case <-s.startedCh:
		s.stateMu.Lock()
		defer s.stateMu.Unlock()
		return s.addr
	case <-s.ctx.Done():
		return ""
	}
}

// SetVFS replaces the tree served to new sessions. Open sessions keep the
// tree they started with.
func (s *Server) SetVFS(e *vfs.Engine) {
	if e == nil {
		e = vfs.NewEngine(nil)
	}
	s.tree.Store(e)
	s.logger.Info("VFS replaced", "open_sessions", s.sessions.Load())
}

// ActiveSessions returns the number of open shell sessions.
func (s *Server) ActiveSessions() int64 {
	return s.sessions.Load()
}

// Wait blocks until the server stops and returns the failure, if any.
func (s *Server) Wait() error {
	s.wg.Wait()
	if s.State() == StateFailed {
		return s.LastError()
	}
	return nil
}

func (s *Server) serverOptions() []ssh.Option {
	opts := []ssh.Option{
		wish.WithAddress(s.cfg.Address),
		wish.WithMiddleware(s.shellMiddleware()),
	}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(s.cfg.HostKeyPath))
	}
	if s.cfg.AuthorizedKeysPath != "" {
		opts = append(opts, wish.WithAuthorizedKeys(s.cfg.AuthorizedKeysPath))
	}
	if s.cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(s.cfg.IdleTimeout))
	}
	return opts
}

func (s *Server) authMode() string {
	if s.cfg.AuthorizedKeysPath != "" {
		return "authorized-keys"
	}
	return "none"
}

func (s *Server) serve() {
	defer s.wg.Done()

	if s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(s.startedCh)
	}

	s.stateMu.Lock()
	srv, listener := s.srv, s.listener
	s.stateMu.Unlock()

	err := srv.Serve(listener)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}
	select {
	case s.errCh <- fmt.Errorf("serve error: %w", err):
	default:
		s.logger.Error("SSH server error (channel full)", "error", err)
	}
}

func (s *Server) doStop() error {
	s.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.stateMu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !isClosedConnError(shutdownErr) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.stateMu.Unlock()

	s.wg.Wait()

	s.state.Store(int32(StateStopped))
	close(s.errCh)
	s.logger.Info("SSH server stopped")
	return shutdownErr
}

func (s *Server) transitionToFailed(err error) {
	s.stateMu.Lock()
	s.lastErr = err
	s.stateMu.Unlock()

	s.state.Store(int32(StateFailed))
	s.cancel()

	select {
	case s.errCh <- err:
	default:
	}
}

// isClosedConnError reports whether err is a "use of closed network connection" error.
func isClosedConnError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Err != nil && opErr.Err.Error() == "use of closed network connection"
	}
	return false
}
