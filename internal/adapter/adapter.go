// Package adapter defines the uniform capability contract around one target
// CLI tool, the process-wide registry that resolves tool names to adapter
// instances, and the per-adapter execution history.
package adapter

import (
	"context"
	"time"
)

// ExecContext carries per-call metadata into ExecuteTask. It is transient and
// never persisted.
type ExecContext struct {
	CallID       string
	SourceTool   string
	TargetTool   string
	OriginalTask string
	Timestamp    time.Time

	// Depth counts nested delegations; adapters stop re-delegating once it
	// reaches the configured limit.
	Depth int

	Metadata map[string]string
}

// Health is a point-in-time liveness view of one adapter, including its
// cumulative counters.
type Health struct {
	Tool         string
	Available    bool
	Total        int
	Errors       int
	CrossCalls   int
	SuccessRate  float64
	LastActivity time.Time
}

// Stats is a derived, read-only counter snapshot. It is recomputed on every
// call and never cached.
type Stats struct {
	Tool         string
	Total        int
	Errors       int
	CrossCalls   int
	SuccessRate  float64
	LastActivity time.Time
}

// Adapter is the uniform wrapper around one target tool's execution
// capability, regardless of how that tool integrates (hook, extension,
// subprocess, MCP server, notification hook).
type Adapter interface {
	// Name returns the canonical lowercase tool name.
	Name() string

	// IsAvailable is a local liveness check. It never panics; all failures
	// map to false.
	IsAvailable(ctx context.Context) bool

	// ExecuteTask is the single execution entry point. The returned error is
	// converted into a formatted report at the dispatch boundary and never
	// propagates past it.
	ExecuteTask(ctx context.Context, task string, ec ExecContext) (string, error)

	// HealthCheck reports liveness plus cumulative counters.
	HealthCheck(ctx context.Context) Health

	// Statistics returns the current counter snapshot.
	Statistics() Stats

	// Cleanup clears the in-memory execution history. Idempotent.
	Cleanup() bool

	// Initialize installs the tool-specific integration shim (hook or
	// extension descriptor) into the tool's own config directory.
	Initialize(ctx context.Context) error
}
