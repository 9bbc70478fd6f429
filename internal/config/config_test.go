package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
tools:
  - claude
  - gemini
  - codex
timeout: 90s
max_depth: 2
data_dir: /var/lib/stigmergy
routing_rules:
  claude:
    - gemini
    - codex
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"claude", "gemini", "codex"}, cfg.Tools)
	assert.Equal(t, 90*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, "/var/lib/stigmergy", cfg.DataDir)
	assert.Equal(t, []string{"gemini", "codex"}, cfg.RoutingRules["claude"])
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Tools)
	assert.Equal(t, 120*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Empty(t, cfg.RoutingRules)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("STIG_TEST_DIR", "/tmp/stig-data")

	cfg, err := Load(writeConfig(t, "data_dir: ${STIG_TEST_DIR}\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stig-data", cfg.DataDir)
}

func TestLoad_EnvOverlayWinsOverYAML(t *testing.T) {
	t.Setenv("STIGMERGY_TIMEOUT", "45s")
	t.Setenv("STIGMERGY_MAX_DEPTH", "5")
	t.Setenv("STIGMERGY_TOOLS", "qwen,iflow")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, []string{"qwen", "iflow"}, cfg.Tools)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "timeout: [broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "timeout: fast\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoad_ValidationErrorsJoined(t *testing.T) {
	_, err := Load(writeConfig(t, `
timeout: -10s
max_depth: -1
routing_rules:
  claude: []
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must be positive")
	assert.Contains(t, err.Error(), "max_depth must be at least 1")
	assert.Contains(t, err.Error(), "routing_rules.claude must list at least one target")
}

func TestDefaultPath(t *testing.T) {
	assert.Contains(t, DefaultPath(), "stigmergy")
	assert.True(t, filepath.IsAbs(DefaultPath()) || os.Getenv("HOME") == "")
}
