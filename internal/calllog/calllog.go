// Package calllog persists every cross-CLI call as one JSON line in an
// append-only file under the data directory. The write side is the router's
// sink; the read side powers the logs and status commands.
package calllog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ptreezh/stigmergy/internal/adapter"
)

const fileName = "calls.jsonl"

// Log is a JSONL call log. Appends are serialized; the file is opened lazily
// so constructing a Log never touches the disk.
type Log struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// Open returns a Log rooted at dataDir. The directory and file are created
// on first append.
func Open(dataDir string) *Log {
	return &Log{path: filepath.Join(dataDir, fileName)}
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// Append writes rec as one JSON line.
func (l *Log) Append(rec adapter.ExecutionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening call log: %w", err)
		}
		l.f = f
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding call record: %w", err)
	}
	if _, err := l.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending call record: %w", err)
	}
	return nil
}

// Close releases the underlying file. Appending after Close reopens it.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// Records reads every record in the log, oldest first. A missing file yields
// an empty slice. Unparseable lines are skipped so one torn write never
// poisons the whole history.
func (l *Log) Records() ([]adapter.ExecutionRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening call log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var out []adapter.ExecutionRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 256*1024), 256*1024)
	for scanner.Scan() {
		var rec adapter.ExecutionRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("reading call log: %w", err)
	}
	return out, nil
}

// Tail writes existing log lines to w, then follows the file and streams new
// lines until ctx is cancelled. The watcher is registered before the initial
// drain so no write between drain and watch is missed.
func (l *Log) Tail(ctx context.Context, w io.Writer) error {
	if err := l.ensureExists(); err != nil {
		return err
	}

	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("opening call log: %w", err)
	}
	defer func() { _ = f.Close() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(l.path); err != nil {
		return fmt.Errorf("watching call log: %w", err)
	}

	offset, err := drainLines(f, w, 0)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == 0 {
				continue
			}
			offset, err = drainLines(f, w, offset)
			if err != nil {
				return err
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if werr != nil {
				return fmt.Errorf("watcher: %w", werr)
			}
		}
	}
}

// ensureExists creates an empty log file so Tail can watch it before the
// first call ever lands.
func (l *Log) ensureExists() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := os.Stat(l.path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("creating call log: %w", err)
	}
	return f.Close()
}

// drainLines streams newline-terminated lines from offset to w and returns
// the offset past the last terminated line. A torn final line without its
// newline is held back until a later write completes it, so follow output
// never emits fragments.
func drainLines(f *os.File, w io.Writer, offset int64) (int64, error) {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seeking call log: %w", err)
	}

	r := bufio.NewReaderSize(f, 256*1024)
	for {
		line, err := r.ReadString('\n')
		if err == nil {
			if _, werr := io.WriteString(w, line); werr != nil {
				return offset, werr
			}
			offset += int64(len(line))
			continue
		}
		if errors.Is(err, io.EOF) {
			return offset, nil
		}
		return offset, fmt.Errorf("reading call log: %w", err)
	}
}
