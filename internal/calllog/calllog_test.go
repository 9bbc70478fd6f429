package calllog

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptreezh/stigmergy/internal/adapter"
)

func rec(id, source, target string, ok bool) adapter.ExecutionRecord {
	return adapter.ExecutionRecord{
		CallID:     id,
		SourceTool: source,
		TargetTool: target,
		Task:       "review this",
		Success:    ok,
		Timestamp:  time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestAppendAndRecords(t *testing.T) {
	l := Open(t.TempDir())
	defer func() { _ = l.Close() }()

	require.NoError(t, l.Append(rec("c1", "claude", "gemini", true)))
	require.NoError(t, l.Append(rec("c2", "gemini", "codex", false)))

	got, err := l.Records()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].CallID)
	assert.Equal(t, "codex", got[1].TargetTool)
	assert.False(t, got[1].Success)
}

func TestRecords_MissingFile(t *testing.T) {
	l := Open(filepath.Join(t.TempDir(), "nowhere"))

	got, err := l.Records()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecords_SkipsTornLine(t *testing.T) {
	dir := t.TempDir()
	l := Open(dir)
	require.NoError(t, l.Append(rec("c1", "claude", "gemini", true)))
	require.NoError(t, l.Close())

	f, err := os.OpenFile(l.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{\"call_id\": \"c2\", trunc\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, l.Append(rec("c3", "claude", "qwen", true)))

	got, err := l.Records()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].CallID)
	assert.Equal(t, "c3", got[1].CallID)
}

func TestAppend_ConcurrentWritesKeepLinesIntact(t *testing.T) {
	l := Open(t.TempDir())
	defer func() { _ = l.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Append(rec("c", "claude", "gemini", true)))
		}()
	}
	wg.Wait()

	got, err := l.Records()
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

func TestTail_StreamsExistingAndNewLines(t *testing.T) {
	l := Open(t.TempDir())
	defer func() { _ = l.Close() }()
	require.NoError(t, l.Append(rec("c1", "claude", "gemini", true)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := l.Tail(ctx, pw)
		_ = pw.Close()
		done <- err
	}()

	lines := bufio.NewScanner(pr)

	require.True(t, lines.Scan())
	assert.Contains(t, lines.Text(), "\"call_id\":\"c1\"")

	// Let the initial drain settle before triggering a write event.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, l.Append(rec("c2", "gemini", "codex", true)))

	require.True(t, lines.Scan())
	assert.Contains(t, lines.Text(), "\"call_id\":\"c2\"")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tail did not stop on cancel")
	}
}

func TestTail_HoldsBackUnterminatedLine(t *testing.T) {
	l := Open(t.TempDir())
	require.NoError(t, l.Append(rec("c1", "claude", "gemini", true)))
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := l.Tail(ctx, pw)
		_ = pw.Close()
		done <- err
	}()

	lines := bufio.NewScanner(pr)
	require.True(t, lines.Scan())
	assert.Contains(t, lines.Text(), "\"call_id\":\"c1\"")

	time.Sleep(100 * time.Millisecond)

	// Write one record in two chunks, split mid-line. The fragment must not
	// surface until its newline lands.
	f, err := os.OpenFile(l.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"call_id":"c2","source_tool":`)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	_, err = f.WriteString("\"gemini\",\"target_tool\":\"codex\"}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.True(t, lines.Scan())
	var got adapter.ExecutionRecord
	require.NoError(t, json.Unmarshal(lines.Bytes(), &got),
		"tail must emit whole lines only: %q", lines.Text())
	assert.Equal(t, "c2", got.CallID)
	assert.Equal(t, "codex", got.TargetTool)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tail did not stop on cancel")
	}
}

func TestTail_CreatesFileWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	l := Open(dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sb strings.Builder
	require.NoError(t, l.Tail(ctx, &sb))
	assert.Empty(t, sb.String())

	_, err := os.Stat(filepath.Join(dir, "calls.jsonl"))
	assert.NoError(t, err)
}
