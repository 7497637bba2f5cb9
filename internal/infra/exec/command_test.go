package exec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunToolOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), nil, 0644))

	out, err := RunTool(context.Background(), dir, time.Second, "sh", "-c", "ls; echo done")
	require.NoError(t, err)
	assert.Contains(t, string(out), "marker")
	assert.Contains(t, string(out), "done")
}

func TestRunToolFailure(t *testing.T) {
	out, err := RunTool(context.Background(), "", time.Second, "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, "broken", strings.TrimSpace(string(out)))
}

func TestRunToolTimeout(t *testing.T) {
	_, err := RunTool(context.Background(), "", 50*time.Millisecond, "sleep", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRunToolMissing(t *testing.T) {
	_, err := RunTool(context.Background(), "", time.Second, "polo-charts-no-such-tool")
	assert.True(t, errors.Is(err, ErrToolNotFound))

	_, err = RunTool(context.Background(), filepath.Join(t.TempDir(), "nope"), time.Second, "sh", "-c", "true")
	assert.Error(t, err)
}
