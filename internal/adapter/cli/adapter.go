package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ptreezh/stigmergy/internal/adapter"
	"github.com/ptreezh/stigmergy/internal/runner"
)

// DelegateFunc re-routes a nested cross-tool intent found inside a task.
// It returns the formatted report and whether the text was handled.
type DelegateFunc func(ctx context.Context, text, sourceTool string, depth int) (string, bool)

// Options configures a CLIAdapter.
type Options struct {
	Runner  runner.Runner
	Logger  *slog.Logger
	Timeout time.Duration

	// MaxDepth bounds nested re-delegation; 0 disables it.
	MaxDepth int
	Delegate DelegateFunc

	// HomeDir overrides the user home for descriptor paths (tests).
	HomeDir string

	// History is shared with the registry so dispatch-side records and
	// execution-side counters land in one place.
	History *adapter.History
}

// CLIAdapter wraps one installed AI CLI tool behind the adapter contract.
// All subprocess work goes through the injected Runner.
type CLIAdapter struct {
	spec     Spec
	runner   runner.Runner
	logger   *slog.Logger
	timeout  time.Duration
	maxDepth int
	delegate DelegateFunc
	homeDir  string
	history  *adapter.History
}

// New builds an adapter for spec.
func New(spec Spec, opts Options) *CLIAdapter {
	if opts.Runner == nil {
		opts.Runner = runner.NewExecRunner()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = runner.DefaultTimeout
	}
	if opts.History == nil {
		opts.History = adapter.NewHistory()
	}
	return &CLIAdapter{
		spec:     spec,
		runner:   opts.Runner,
		logger:   opts.Logger,
		timeout:  opts.Timeout,
		maxDepth: opts.MaxDepth,
		delegate: opts.Delegate,
		homeDir:  opts.HomeDir,
		history:  opts.History,
	}
}

func (a *CLIAdapter) Name() string { return a.spec.Name }

// IsAvailable probes each candidate binary form with the version flag and
// reports whether any answers with exit code 0. Side-effect free.
func (a *CLIAdapter) IsAvailable(ctx context.Context) bool {
	return a.resolveBinary(ctx) != ""
}

func (a *CLIAdapter) resolveBinary(ctx context.Context) string {
	for _, bin := range a.spec.Candidates() {
		if runner.Probe(ctx, a.runner, bin, a.spec.VersionArg) {
			return bin
		}
	}
	return ""
}

// ExecuteTask hands task to the tool binary and returns its output. A nested
// cross-tool intent inside task is re-delegated through the DelegateFunc
// while the depth budget lasts, so "请用gemini帮我用codex写测试" chains
// correctly instead of confusing the target tool.
func (a *CLIAdapter) ExecuteTask(ctx context.Context, task string, ec adapter.ExecContext) (string, error) {
	if a.delegate != nil && ec.Depth < a.maxDepth {
		if report, handled := a.delegate(ctx, task, a.spec.Name, ec.Depth+1); handled {
			a.history.RecordExecution(true)
			return report, nil
		}
	}

	bin := a.resolveBinary(ctx)
	if bin == "" {
		a.history.RecordExecution(false)
		if a.spec.InstallHint != "" {
			return "", fmt.Errorf("%s binary not found (try: %s)", a.spec.Name, a.spec.InstallHint)
		}
		return "", fmt.Errorf("%s binary not found", a.spec.Name)
	}

	args := a.spec.PromptArgs(task)
	a.logger.Info("executing delegated task",
		"tool", a.spec.Name,
		"source", ec.SourceTool,
		"call_id", ec.CallID,
		"depth", ec.Depth,
	)

	res, err := a.runner.Run(ctx, a.timeout, bin, args...)
	if err != nil {
		a.history.RecordExecution(false)
		if res.TimedOut {
			return "", fmt.Errorf("%s did not answer within %s", a.spec.Name, a.timeout)
		}
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("%s failed: %s", a.spec.Name, detail)
	}

	a.history.RecordExecution(true)

	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		out = strings.TrimSpace(res.Stderr)
	}
	return out, nil
}

// HealthCheck reports liveness plus the cumulative counters.
func (a *CLIAdapter) HealthCheck(ctx context.Context) adapter.Health {
	s := a.history.Snapshot(a.spec.Name)
	return adapter.Health{
		Tool:         a.spec.Name,
		Available:    a.IsAvailable(ctx),
		Total:        s.Total,
		Errors:       s.Errors,
		CrossCalls:   s.CrossCalls,
		SuccessRate:  s.SuccessRate,
		LastActivity: s.LastActivity,
	}
}

func (a *CLIAdapter) Statistics() adapter.Stats {
	return a.history.Snapshot(a.spec.Name)
}

// Cleanup clears the in-memory history. Idempotent.
func (a *CLIAdapter) Cleanup() bool {
	a.history.Clear()
	return true
}

// Initialize writes the tool's integration descriptor into its own config
// directory so the tool forwards user prompts through the router.
func (a *CLIAdapter) Initialize(ctx context.Context) error {
	path, err := a.descriptorPath()
	if err != nil {
		return err
	}
	if err := writeDescriptor(path, a.spec); err != nil {
		return fmt.Errorf("installing %s integration: %w", a.spec.Name, err)
	}
	a.logger.Info("integration descriptor installed",
		"tool", a.spec.Name,
		"kind", a.spec.Integration,
		"path", path,
	)
	return nil
}
