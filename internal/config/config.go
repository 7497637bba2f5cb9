// Package config loads settings from defaults, config.yaml, .env, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Manifest string         `mapstructure:"manifest"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Project  ProjectConfig  `mapstructure:"project"`
	Docs     DocsConfig     `mapstructure:"docs"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Log      LogConfig      `mapstructure:"log"`
}

// ChartConfig controls rendering.
type ChartConfig struct {
	OutputDir string   `mapstructure:"output_dir"`
	Formats   []string `mapstructure:"formats"`
	HeightIn  float64  `mapstructure:"height_in"` // figure height in inches
	DPI       float64  `mapstructure:"dpi"`       // PNG resolution
	FontPath  string   `mapstructure:"font_path"` // empty uses the embedded font
	FontSize  float64  `mapstructure:"font_size"`
	LineWidth float64  `mapstructure:"line_width"`
	Workers   int      `mapstructure:"workers"` // figures rendered in parallel by build
}

// ProjectConfig is the project metadata shared by the documentation and chart metadata.
type ProjectConfig struct {
	Name      string `mapstructure:"name"`
	Author    string `mapstructure:"author"`
	Copyright string `mapstructure:"copyright"`
	Version   string `mapstructure:"version"`
	Release   string `mapstructure:"release"`
}

// DocsConfig describes the documentation build: where sources live, how the
// external builder is invoked, and the settings written into conf.py.
type DocsConfig struct {
	SourceDir   string `mapstructure:"source_dir"`
	BuildDir    string `mapstructure:"build_dir"`
	Builder     string `mapstructure:"builder"`
	SphinxBuild string `mapstructure:"sphinx_build"`
	Timeout     int    `mapstructure:"timeout"` // seconds

	Extensions      []string `mapstructure:"extensions"`
	TemplatesPath   []string `mapstructure:"templates_path"`
	SourceSuffix    string   `mapstructure:"source_suffix"`
	MasterDoc       string   `mapstructure:"master_doc"`
	Language        string   `mapstructure:"language"`
	ExcludePatterns []string `mapstructure:"exclude_patterns"`
	PygmentsStyle   string   `mapstructure:"pygments_style"`
	Numfig          bool     `mapstructure:"numfig"`

	HTMLTheme        string   `mapstructure:"html_theme"`
	HTMLStaticPath   []string `mapstructure:"html_static_path"`
	HTMLCSSFiles     []string `mapstructure:"html_css_files"`
	HTMLHelpBasename string   `mapstructure:"htmlhelp_basename"`

	Title            string   `mapstructure:"title"`
	Authors          []string `mapstructure:"authors"` // one entry per author for LaTeX and Texinfo
	Description      string   `mapstructure:"description"`
	Category         string   `mapstructure:"category"`
	LatexClass       string   `mapstructure:"latex_class"`
	ManSection       int      `mapstructure:"man_section"`
	EpubExcludeFiles []string `mapstructure:"epub_exclude_files"`
}

// TelegramConfig is used by publish.
type TelegramConfig struct {
	BotToken       string  `mapstructure:"bot_token"`
	ChatID         int64   `mapstructure:"chat_id"`
	RatePerSecond  float64 `mapstructure:"rate_per_second"`
	Burst          int     `mapstructure:"burst"`
	MaxRetries     int     `mapstructure:"max_retries"`
	RequestTimeout int     `mapstructure:"request_timeout"` // seconds
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
	SettleMs   int `mapstructure:"settle_ms"` // max wait for a changed file to become non-empty
}

// LogConfig controls the log file.
type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Debug bool   `mapstructure:"debug"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"manifest":   "manifest",
	"output-dir": "chart.output_dir",
	"format":     "chart.formats",
	"height":     "chart.height_in",
	"dpi":        "chart.dpi",
	"font":       "chart.font_path",
	"font-size":  "chart.font_size",
	"workers":    "chart.workers",
	"log-dir":    "log.dir",
	"debug":      "log.debug",
}

// LoadConfig reads configuration:
// 1. defaults
// 2. config.yaml in the working directory, or configFile when set
// 3. .env file
// 4. environment (POLO_* and the aliases in setupEnvAliases)
// 5. flags that were set on the command line
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// a missing .env is fine
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config.yaml: %w", err)
			}
		}
	}

	v.SetEnvPrefix("POLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// lists coming from .env or flags arrive as one comma-separated string
	config.Chart.Formats = normalizeList(v.Get("chart.formats"))
	config.Docs.Extensions = normalizeList(v.Get("docs.extensions"))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("telegram.bot_token", "POLO_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "POLO_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	v.BindEnv("chart.output_dir", "POLO_CHART_OUTPUT_DIR", "POLO_OUTPUT_DIR")
	v.BindEnv("chart.formats", "POLO_CHART_FORMATS", "POLO_FORMATS")
	v.BindEnv("chart.font_path", "POLO_CHART_FONT_PATH", "POLO_FONT")
	v.BindEnv("docs.sphinx_build", "POLO_DOCS_SPHINX_BUILD", "SPHINXBUILD")
}

// setDefaults holds the POLO project metadata, its Sphinx settings and
// matplotlib-like figure sizes.
func setDefaults(v *viper.Viper) {
	v.SetDefault("manifest", "charts.yaml")

	v.SetDefault("chart.output_dir", ".")
	v.SetDefault("chart.formats", []string{"svg", "pdf"})
	v.SetDefault("chart.height_in", 4.8)
	v.SetDefault("chart.dpi", 100.0)
	v.SetDefault("chart.font_path", "")
	v.SetDefault("chart.font_size", 10.0)
	v.SetDefault("chart.line_width", 1.5)
	v.SetDefault("chart.workers", 4)

	v.SetDefault("project.name", "POLO")
	v.SetDefault("project.author", "Arda Aytekin, Martin Biel, Mikael Johansson")
	v.SetDefault("project.copyright", "2018, Arda Aytekin, Martin Biel, Mikael Johansson")
	v.SetDefault("project.version", "")
	v.SetDefault("project.release", "")

	v.SetDefault("docs.source_dir", "docs")
	v.SetDefault("docs.build_dir", "docs/_build")
	v.SetDefault("docs.builder", "html")
	v.SetDefault("docs.sphinx_build", "sphinx-build")
	v.SetDefault("docs.timeout", 300)
	v.SetDefault("docs.extensions", []string{"sphinx.ext.mathjax"})
	v.SetDefault("docs.templates_path", []string{"_templates"})
	v.SetDefault("docs.source_suffix", ".rst")
	v.SetDefault("docs.master_doc", "index")
	v.SetDefault("docs.language", "")
	v.SetDefault("docs.exclude_patterns", []string{"_build", "Thumbs.db", ".DS_Store"})
	v.SetDefault("docs.pygments_style", "")
	v.SetDefault("docs.numfig", true)
	v.SetDefault("docs.html_theme", "sphinx_rtd_theme")
	v.SetDefault("docs.html_static_path", []string{"_static"})
	v.SetDefault("docs.html_css_files", []string{"css/custom.css"})
	v.SetDefault("docs.htmlhelp_basename", "POLOdoc")
	v.SetDefault("docs.title", "POLO Documentation")
	v.SetDefault("docs.authors", []string{"Arda Aytekin", "Martin Biel", "Mikael Johansson"})
	v.SetDefault("docs.description", "POLO: a POLicy-based Optimization library")
	v.SetDefault("docs.category", "Miscellaneous")
	v.SetDefault("docs.latex_class", "manual")
	v.SetDefault("docs.man_section", 1)
	v.SetDefault("docs.epub_exclude_files", []string{"search.html"})

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.rate_per_second", 1.0)
	v.SetDefault("telegram.burst", 1)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.request_timeout", 30)

	v.SetDefault("watch.debounce_ms", 300)
	v.SetDefault("watch.settle_ms", 2000)

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.debug", false)
}

// normalizeList accepts a YAML list, a []string or a comma-separated string.
func normalizeList(raw interface{}) []string {
	var items []string
	switch v := raw.(type) {
	case string:
		items = strings.Split(v, ",")
	case []string:
		items = v
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				items = append(items, str)
			}
		}
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

// Validate checks values that would make rendering fail later.
func (c *Config) Validate() error {
	if len(c.Chart.Formats) == 0 {
		return fmt.Errorf("chart.formats must list at least one format")
	}
	if c.Chart.HeightIn <= 0 {
		return fmt.Errorf("chart.height_in must be positive, got %v", c.Chart.HeightIn)
	}
	if c.Chart.DPI <= 0 {
		return fmt.Errorf("chart.dpi must be positive, got %v", c.Chart.DPI)
	}
	if c.Chart.FontSize <= 0 {
		return fmt.Errorf("chart.font_size must be positive, got %v", c.Chart.FontSize)
	}
	if c.Chart.Workers < 1 {
		return fmt.Errorf("chart.workers must be at least 1, got %d", c.Chart.Workers)
	}
	if c.Watch.DebounceMs < 0 || c.Watch.SettleMs < 0 {
		return fmt.Errorf("watch.debounce_ms and watch.settle_ms must not be negative")
	}
	return nil
}

// ValidateTelegram checks the settings publish needs.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required (env: TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required (env: TELEGRAM_CHAT_ID)")
	}
	if c.Telegram.RatePerSecond <= 0 || c.Telegram.Burst < 1 {
		return fmt.Errorf("telegram.rate_per_second and telegram.burst must be positive")
	}
	return nil
}
