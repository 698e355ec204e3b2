// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/term"
)

const ctrlC = 0x03

type (
	// LineReader supplies operator input to the interactive phase.
	LineReader interface {
		// ReadLine shows prompt and returns the next line without its line
		// terminator. It returns ErrInterrupted when the operator interrupts
		// the read and io.EOF at end of input.
		ReadLine(ctx context.Context, prompt string) (string, error)
	}

	// ConsoleReader reads lines from a stream such as standard input while
	// watching for interrupt signals. A background goroutine owns the stream
	// and hands each line over an unbuffered channel, so a pending read can
	// be abandoned when a signal arrives.
	ConsoleReader struct {
		in      io.Reader
		out     io.Writer
		signals chan os.Signal
		notify  func(chan<- os.Signal)
		stop    func(chan<- os.Signal)

		startOnce sync.Once
		lines     chan lineResult
	}

	// TerminalReader reads lines from an interactive terminal connection with
	// line editing and history. Ctrl-C is reported as ErrInterrupted and
	// Ctrl-D on an empty line as io.EOF.
	TerminalReader struct {
		term        *term.Terminal
		interrupted *atomic.Bool
	}

	lineResult struct {
		line string
		err  error
	}

	// interruptWatcher flags reads that carry a Ctrl-C byte.
	interruptWatcher struct {
		r    io.Reader
		seen *atomic.Bool
	}
)

// NewConsoleReader returns a reader for in that prints prompts to out and
// treats os.Interrupt as an interrupt of the pending read.
func NewConsoleReader(in io.Reader, out io.Writer) *ConsoleReader {
	return newConsoleReader(in, out, make(chan os.Signal, 1),
		func(c chan<- os.Signal) { signal.Notify(c, os.Interrupt) },
		signal.Stop)
}

func newConsoleReader(in io.Reader, out io.Writer, signals chan os.Signal, notify, stop func(chan<- os.Signal)) *ConsoleReader {
	return &ConsoleReader{
		in:      in,
		out:     out,
		signals: signals,
		notify:  notify,
		stop:    stop,
		lines:   make(chan lineResult),
	}
}

// ReadLine implements LineReader.
func (r *ConsoleReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	r.startOnce.Do(func() {
		if r.notify != nil {
			r.notify(r.signals)
		}
		go r.scan()
	})

	if _, err := io.WriteString(r.out, prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	select {
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	case <-r.signals:
		return "", ErrInterrupted
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops signal delivery. The scanning goroutine exits at end of input.
func (r *ConsoleReader) Close() error {
	if r.stop != nil {
		r.stop(r.signals)
	}
	return nil
}

func (r *ConsoleReader) scan() {
	defer close(r.lines)

	br := bufio.NewReader(r.in)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			r.lines <- lineResult{line: trimEOL(line)}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.lines <- lineResult{err: fmt.Errorf("read input: %w", err)}
			}
			return
		}
	}
}

// NewTerminalReader returns a reader running a VT100 line editor over rw.
func NewTerminalReader(rw io.ReadWriter) *TerminalReader {
	seen := &atomic.Bool{}
	conn := struct {
		io.Reader
		io.Writer
	}{&interruptWatcher{r: rw, seen: seen}, rw}
	return &TerminalReader{
		term:        term.NewTerminal(conn, ""),
		interrupted: seen,
	}
}

// ReadLine implements LineReader.
func (r *TerminalReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.term.SetPrompt(prompt)
	line, err := r.term.ReadLine()
	if errors.Is(err, io.EOF) && r.interrupted.Swap(false) {
		return "", ErrInterrupted
	}
	if errors.Is(err, term.ErrPasteIndicator) {
		err = nil
	}
	return line, err
}

// Resize updates the terminal dimensions used for line wrapping.
func (r *TerminalReader) Resize(width, height int) error {
	return r.term.SetSize(width, height)
}

// Write writes to the terminal, keeping the prompt line intact.
func (r *TerminalReader) Write(p []byte) (int, error) {
	return r.term.Write(p)
}

func (w *interruptWatcher) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	if n > 0 && bytes.IndexByte(p[:n], ctrlC) >= 0 {
		w.seen.Store(true)
	}
	return n, err
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
