// Package toolrun runs external tools synchronously and reports their exit status.
//
// The compile driver and command hooks depend only on the Runner interface, so
// tests substitute a stub and never spawn processes.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"

	"git.home.luguber.info/inful/nile/internal/logfields"
)

var (
	// ErrNotStarted means the process never ran (binary missing, not executable, ...).
	ErrNotStarted = errors.New("tool could not be started")

	// ErrInterrupted means the context ended while the process was running.
	ErrInterrupted = errors.New("tool run interrupted")
)

// Command specifies one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current process environment.
	Env []string
	// CaptureOutput collects combined stdout/stderr into Result.Output instead of inheriting them.
	CaptureOutput bool
}

// String renders the command shell-quoted, for logs.
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Result is the outcome of a process that ran to completion.
type Result struct {
	ExitCode int
	Output   []byte
	Duration time.Duration
}

// Success reports a zero exit status.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner executes a Command and blocks until it exits.
//
// A non-zero exit status is data, not an error: implementations return a nil
// error with Result.ExitCode set. Errors are reserved for processes that could
// not be started or were interrupted.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (Result, error)

func (f RunnerFunc) Run(ctx context.Context, cmd Command) (Result, error) { return f(ctx, cmd) }

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner returns a runner whose processes inherit stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{stdout: os.Stdout, stderr: os.Stderr}
}

// WithOutput redirects inherited output (used by tests and quiet modes).
func (r *ExecRunner) WithOutput(stdout, stderr io.Writer) *ExecRunner {
	r.stdout = stdout
	r.stderr = stderr
	return r
}

func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var captured bytes.Buffer
	if c.CaptureOutput {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	} else {
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	}

	slog.Debug("Running external tool", logfields.Command(c.String()))
	start := time.Now()
	err := cmd.Run()
	res := Result{Duration: time.Since(start)}
	if c.CaptureOutput {
		res.Output = captured.Bytes()
	}

	if ctx.Err() != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("%w: %s: %w", ErrInterrupted, c.Name, ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		slog.Debug("External tool exited with failure", logfields.Command(c.Name), logfields.ExitCode(res.ExitCode))
		return res, nil
	default:
		res.ExitCode = -1
		return res, fmt.Errorf("%w: %s: %w", ErrNotStarted, c.Name, err)
	}
}
