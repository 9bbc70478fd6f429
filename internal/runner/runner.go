// Package runner centralizes subprocess execution behind one injectable
// interface with a mandatory timeout, so adapters never spawn processes
// directly and tests never spawn real tools.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a subprocess call when the caller does not set one.
const DefaultTimeout = 120 * time.Second

// probeTimeout bounds availability probes, which should answer fast.
const probeTimeout = 10 * time.Second

// Result captures one completed (or timed-out) subprocess invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	TimedOut bool
}

// Runner executes external tool binaries. Implementations must enforce the
// given timeout and return a Result even on failure.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error)
}

// ExecRunner runs commands with exec.CommandContext.
type ExecRunner struct {
	// CommandContext is overridable for testing.
	CommandContext func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewExecRunner returns a Runner backed by the real process table.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{CommandContext: exec.CommandContext}
}

func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := r.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		if ctx.Err() == context.DeadlineExceeded {
			res.TimedOut = true
			return res, fmt.Errorf("%s timed out after %s", name, timeout)
		}
		return res, fmt.Errorf("%s failed: %w", name, err)
	}

	return res, nil
}

// Probe reports whether binary answers versionArg with exit code 0.
// All failures, including a missing binary, map to false.
func Probe(ctx context.Context, r Runner, binary, versionArg string) bool {
	res, err := r.Run(ctx, probeTimeout, binary, versionArg)
	return err == nil && res.ExitCode == 0
}
