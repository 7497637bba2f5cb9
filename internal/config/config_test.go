package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("output-dir", ".", "")
	fs.StringSlice("format", []string{"svg", "pdf"}, "")
	fs.Float64("dpi", 100, "")
	fs.Bool("debug", false, "")
	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	testChdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "charts.yaml", cfg.Manifest)
	assert.Equal(t, ".", cfg.Chart.OutputDir)
	assert.Equal(t, []string{"svg", "pdf"}, cfg.Chart.Formats)
	assert.Equal(t, 4.8, cfg.Chart.HeightIn)
	assert.Equal(t, 4, cfg.Chart.Workers)
	assert.Equal(t, "POLO", cfg.Project.Name)
	assert.Equal(t, "sphinx_rtd_theme", cfg.Docs.HTMLTheme)
	assert.Equal(t, []string{"sphinx.ext.mathjax"}, cfg.Docs.Extensions)
	assert.True(t, cfg.Docs.Numfig)
	assert.Equal(t, 300, cfg.Watch.DebounceMs)
	assert.Equal(t, "logs", cfg.Log.Dir)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)

	yaml := `chart:
  output_dir: figures
  dpi: 150
  formats: [svg]
project:
  version: "1.0"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TELEGRAM_CHAT_ID=-1001\n"), 0644))
	t.Setenv("POLO_CHART_HEIGHT_IN", "3")
	t.Setenv("POLO_FORMATS", "svg, png")
	t.Cleanup(func() { os.Unsetenv("TELEGRAM_CHAT_ID") })

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--dpi", "300"}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.Equal(t, "figures", cfg.Chart.OutputDir, "config file beats defaults")
	assert.Equal(t, 3.0, cfg.Chart.HeightIn, "env beats defaults")
	assert.Equal(t, []string{"svg", "png"}, cfg.Chart.Formats, "env beats config file")
	assert.Equal(t, 300.0, cfg.Chart.DPI, "flags beat config file")
	assert.Equal(t, "1.0", cfg.Project.Version)
	assert.Equal(t, int64(-1001), cfg.Telegram.ChatID, ".env feeds the environment")
}

func TestLoadConfigExplicitFile(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)

	path := filepath.Join(dir, "polo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watch:\n  debounce_ms: 50\n"), 0644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Watch.DebounceMs)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("POLO_CHART_DPI", "0")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart.dpi")
}

func TestValidateTelegram(t *testing.T) {
	cfg := Config{Telegram: TelegramConfig{RatePerSecond: 1, Burst: 1}}
	assert.Error(t, cfg.ValidateTelegram())

	cfg.Telegram.BotToken = "123:abc"
	assert.Error(t, cfg.ValidateTelegram())

	cfg.Telegram.ChatID = 42
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestNormalizeList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, normalizeList(" a , ,b"))
	assert.Equal(t, []string{"a"}, normalizeList([]interface{}{"a", 1, " "}))
	assert.Equal(t, []string{"x"}, normalizeList([]string{"x", ""}))
	assert.Empty(t, normalizeList(nil))
}
