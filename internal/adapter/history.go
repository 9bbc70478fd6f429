package adapter

import (
	"sync"
	"time"
)

// ExecutionRecord is one completed or failed cross-CLI call, recorded against
// the source adapter. Append-only; the basis for success rate and last
// activity.
type ExecutionRecord struct {
	CallID       string    `json:"call_id"`
	SourceTool   string    `json:"source_tool"`
	TargetTool   string    `json:"target_tool"`
	Task         string    `json:"task"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	ResultLength int       `json:"result_length"`
	Timestamp    time.Time `json:"timestamp"`
}

// History tracks one adapter's execution records and counters. Safe for
// concurrent use; counter updates never lose increments.
type History struct {
	mu         sync.Mutex
	records    []ExecutionRecord
	total      int
	errors     int
	crossCalls int
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// RecordExecution counts one ExecuteTask invocation handled by this adapter.
func (h *History) RecordExecution(success bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total++
	if !success {
		h.errors++
	}
}

// Append records one cross-CLI call initiated with this adapter as source.
func (h *History) Append(rec ExecutionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	h.crossCalls++
	h.total++
	if !rec.Success {
		h.errors++
	}
}

// Records returns a copy of the execution record list.
func (h *History) Records() []ExecutionRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ExecutionRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Snapshot derives the current Stats for the named tool. The success rate is
// recomputed on every call and is 1.0 when nothing has been recorded.
func (h *History) Snapshot(tool string) Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	rate := 1.0
	if h.total > 0 {
		rate = float64(h.total-h.errors) / float64(h.total)
	}

	return Stats{
		Tool:         tool,
		Total:        h.total,
		Errors:       h.errors,
		CrossCalls:   h.crossCalls,
		SuccessRate:  rate,
		LastActivity: h.lastActivityLocked(),
	}
}

// LastActivity is the newest record timestamp, or the zero time when the
// record list is empty.
func (h *History) LastActivity() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastActivityLocked()
}

func (h *History) lastActivityLocked() time.Time {
	var last time.Time
	for _, rec := range h.records {
		if rec.Timestamp.After(last) {
			last = rec.Timestamp
		}
	}
	return last
}

// Clear drops all records and counters. Idempotent.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	h.total = 0
	h.errors = 0
	h.crossCalls = 0
}
