// Package router is the dispatch core: it turns a raw prompt into a
// classified intent, resolves the target adapter, executes the task, records
// the outcome against the source tool, and renders the result as a markdown
// report. Every failure mode yields a complete report; no error escapes the
// Route boundary.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ptreezh/stigmergy/internal/adapter"
	"github.com/ptreezh/stigmergy/internal/intent"
	"github.com/ptreezh/stigmergy/internal/runner"
)

// Sink receives every completed or failed cross-CLI call for persistence.
// The call log implements it; a nil sink disables persistence.
type Sink interface {
	Append(rec adapter.ExecutionRecord) error
}

// Config bounds dispatch behavior.
type Config struct {
	// Timeout applies to each target tool subprocess.
	Timeout time.Duration

	// MaxDepth bounds nested re-delegation chains.
	MaxDepth int

	// Rules restricts which targets each source may delegate to. A source
	// with no entry may delegate to any known tool.
	Rules map[string][]string
}

// Options configures a Router.
type Options struct {
	Registry *adapter.Registry
	Config   Config
	Logger   *slog.Logger
	Sink     Sink

	// InstallHint maps a tool name to an install suggestion for failure
	// reports. Optional.
	InstallHint func(name string) string

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

// Router routes delegation intents between CLI tools.
type Router struct {
	reg  *adapter.Registry
	cfg  Config
	log  *slog.Logger
	sink Sink
	hint func(string) string
	now  func() time.Time
}

// New builds a Router. The registry is required.
func New(opts Options) *Router {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Config.Timeout <= 0 {
		opts.Config.Timeout = runner.DefaultTimeout
	}
	if opts.Config.MaxDepth <= 0 {
		opts.Config.MaxDepth = 3
	}
	if opts.InstallHint == nil {
		opts.InstallHint = func(string) string { return "" }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Router{
		reg:  opts.Registry,
		cfg:  opts.Config,
		log:  opts.Logger,
		sink: opts.Sink,
		hint: opts.InstallHint,
		now:  opts.Now,
	}
}

// Route classifies text from sourceTool and, when it names another tool,
// executes the delegation and returns the formatted report with handled=true.
// handled=false means the prompt carried no cross-CLI intent and should fall
// through to the source tool's normal processing.
func (r *Router) Route(ctx context.Context, text, sourceTool string, metadata map[string]string) (string, bool) {
	return r.route(ctx, text, sourceTool, metadata, 0)
}

// Delegate is the nested re-delegation entry point handed to adapters. It
// matches their callback signature and carries the accumulated depth.
func (r *Router) Delegate(ctx context.Context, text, sourceTool string, depth int) (string, bool) {
	if depth >= r.cfg.MaxDepth {
		return "", false
	}
	return r.route(ctx, text, sourceTool, nil, depth)
}

func (r *Router) route(ctx context.Context, text, sourceTool string, metadata map[string]string, depth int) (string, bool) {
	res := intent.Classify(text, sourceTool)
	if !res.IsCrossCLI {
		return "", false
	}

	call := delegation{
		id:       uuid.NewString(),
		source:   sourceTool,
		target:   res.TargetTool,
		task:     res.Task,
		started:  r.now(),
		depth:    depth,
		metadata: metadata,
	}

	r.log.Info("cross-CLI intent detected",
		"call_id", call.id,
		"source", call.source,
		"target", call.target,
		"confidence", res.Confidence,
		"depth", depth,
	)

	if !r.allowed(call.source, call.target) {
		return r.fail(call, fmt.Sprintf("delegation from %s to %s is blocked by routing rules", call.source, call.target)), true
	}

	target := r.reg.Get(call.target)
	if target == nil {
		return r.fail(call, fmt.Sprintf("no adapter could be resolved for %s", call.target)), true
	}

	if !target.IsAvailable(ctx) {
		msg := fmt.Sprintf("%s is not installed or not responding", call.target)
		if hint := r.hint(call.target); hint != "" {
			msg += fmt.Sprintf(" (try: %s)", hint)
		}
		return r.fail(call, msg), true
	}

	// The timeout is enforced here as well as in the adapter's own runner,
	// so a misbehaving adapter implementation cannot hang the dispatch.
	execCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	out, err := target.ExecuteTask(execCtx, call.task, adapter.ExecContext{
		CallID:       call.id,
		SourceTool:   call.source,
		TargetTool:   call.target,
		OriginalTask: call.task,
		Timestamp:    call.started,
		Depth:        depth,
		Metadata:     metadata,
	})
	if err != nil {
		return r.fail(call, err.Error()), true
	}

	r.record(call, true, "", len(out))
	return formatSuccess(call, out), true
}

// allowed checks the per-source routing rules. An absent rule set for the
// source permits every target.
func (r *Router) allowed(source, target string) bool {
	targets, ok := r.cfg.Rules[source]
	if !ok {
		return true
	}
	for _, t := range targets {
		if t == target {
			return true
		}
	}
	return false
}

func (r *Router) fail(call delegation, reason string) string {
	r.log.Warn("delegation failed",
		"call_id", call.id,
		"source", call.source,
		"target", call.target,
		"reason", reason,
	)
	r.record(call, false, reason, 0)
	return formatFailure(call, reason)
}

// record lands the outcome on the source adapter's history and in the call
// log. A sink write failure is logged, never surfaced to the user.
func (r *Router) record(call delegation, success bool, errMsg string, resultLen int) {
	rec := adapter.ExecutionRecord{
		CallID:       call.id,
		SourceTool:   call.source,
		TargetTool:   call.target,
		Task:         call.task,
		Success:      success,
		Error:        errMsg,
		ResultLength: resultLen,
		Timestamp:    r.now(),
	}
	r.reg.History(call.source).Append(rec)
	if r.sink != nil {
		if err := r.sink.Append(rec); err != nil {
			r.log.Warn("call log write failed", "call_id", call.id, "error", err)
		}
	}
}

// delegation is the per-call working state threaded through dispatch.
type delegation struct {
	id       string
	source   string
	target   string
	task     string
	started  time.Time
	depth    int
	metadata map[string]string
}
