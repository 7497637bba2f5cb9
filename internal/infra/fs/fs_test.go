package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "chart.svg")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteFileAtomicUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	err := WriteFileAtomic(filepath.Join(dir, "chart.pdf"), []byte("x"), 0644)
	assert.Error(t, err)
}

func TestNonEmptyFileSize(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	_, err := NonEmptyFileSize(empty)
	assert.Error(t, err)

	_, err = NonEmptyFileSize(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	full := filepath.Join(dir, "full")
	require.NoError(t, os.WriteFile(full, []byte("abc"), 0644))
	size, err := NonEmptyFileSize(full)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestWaitForFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late.csv")

	go func() {
		time.Sleep(30 * time.Millisecond)
		os.WriteFile(path, []byte("k,t,f\n"), 0644)
	}()

	require.NoError(t, WaitForFile(context.Background(), path, 2*time.Second))
}

func TestWaitForFileTimeout(t *testing.T) {
	err := WaitForFile(context.Background(), filepath.Join(t.TempDir(), "never"), 50*time.Millisecond)
	assert.Error(t, err)
}

func TestWaitForFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitForFile(ctx, filepath.Join(t.TempDir(), "never"), time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
