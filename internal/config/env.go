package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadEnvFiles loads stigmergy env files into the process environment.
// Load order (later wins): global (~/.config/stigmergy/env), then project
// (.stigmergy.env). Actual environment variables always win; keys already
// set before loading are never overwritten.
func LoadEnvFiles() {
	origKeys := make(map[string]bool)
	for _, entry := range os.Environ() {
		if k, _, ok := strings.Cut(entry, "="); ok {
			origKeys[k] = true
		}
	}

	merged := make(map[string]string)
	mergeEnvFile(merged, GlobalEnvPath())
	mergeEnvFile(merged, ".stigmergy.env")

	for k, v := range merged {
		if !origKeys[k] {
			_ = os.Setenv(k, v)
		}
	}
}

// mergeEnvFile reads a KEY=VALUE file and merges into dst. Silently skips
// missing or unreadable files.
func mergeEnvFile(dst map[string]string, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	envs, err := ParseEnvFile(data)
	if err != nil {
		return
	}
	for k, v := range envs {
		dst[k] = v
	}
}

// ParseEnvFile parses KEY=VALUE lines from data.
// Blank lines and lines starting with # are skipped.
func ParseEnvFile(data []byte) (map[string]string, error) {
	result := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: missing '=' in %q", lineNum, line)
		}
		result[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return result, scanner.Err()
}

// GlobalEnvPath returns the path to the global stigmergy env file. API keys
// for the wrapped tools (ANTHROPIC_API_KEY and friends) usually live here.
func GlobalEnvPath() string {
	return filepath.Join(baseDir(), "env")
}
