package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitWritesFileLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(Options{Dir: dir}))
	t.Cleanup(func() {
		Logger = zap.NewNop()
		consoleLogger = zap.NewNop()
	})

	LogInfo("figure rendered", zap.String("figure", "logger"), zap.Int("panels", 2))
	LogDebug("hidden at info level")
	LogDelivery("abc", "chat:1", errors.New("boom"), 12)
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "INFO figure rendered")
	assert.Contains(t, text, `"figure":"logger"`)
	assert.Contains(t, text, `"panels":2`)
	assert.NotContains(t, text, "hidden at info level")
	assert.Contains(t, text, "ERROR Delivery failed")
	assert.Contains(t, text, `"error":"boom"`)
}

func TestInitDebugLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Options{Dir: dir, Debug: true}))
	t.Cleanup(func() { Logger = zap.NewNop() })

	LogDebug("layout computed", zap.Float64("width", 691.2))
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG layout computed")
}

func TestExtractDuration(t *testing.T) {
	assert.Equal(t, int64(42), extractDuration([]zap.Field{zap.String("a", "b"), zap.Int64("duration_ms", 42)}))
	assert.Equal(t, int64(0), extractDuration([]zap.Field{zap.String("duration_ms", "42")}))
}
