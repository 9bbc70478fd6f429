package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Success(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), 5*time.Second, "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.TimedOut)
}

func TestRun_NonZeroExit(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), 5*time.Second, "sh", "-c", "echo oops >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "oops")
	assert.False(t, res.TimedOut)
}

func TestRun_Timeout(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), 50*time.Millisecond, "sleep", "60")
	require.Error(t, err)
	assert.True(t, res.TimedOut)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRun_MissingBinary(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), 5*time.Second, "definitely-not-a-binary-1b2c3d")
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestRun_ZeroTimeoutUsesDefault(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), 0, "sh", "-c", "true")
	require.NoError(t, err)
	assert.False(t, res.TimedOut)
}

func TestProbe(t *testing.T) {
	r := NewExecRunner()

	assert.True(t, Probe(context.Background(), r, "true", "--version"))
	assert.False(t, Probe(context.Background(), r, "definitely-not-a-binary-1b2c3d", "--version"))
}

func TestRun_ContextCancelled(t *testing.T) {
	r := NewExecRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, 5*time.Second, "sleep", "60")
	require.Error(t, err)
}
