// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultVersion is the screenshot subdirectory used when the VERSION
// environment variable is not set.
const DefaultVersion = "default"

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Browser   BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	Wait      WaitConfig      `mapstructure:"wait" yaml:"wait"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts" yaml:"artifacts"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// File logging (rotated via lumberjack). Empty disables the file core.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls the Chrome session.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors   bool          `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	WindowWidth       int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight      int           `mapstructure:"window_height" yaml:"window_height"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// WaitConfig carries the synchronization budgets used by the step catalog.
type WaitConfig struct {
	// DisplayTimeout bounds the wait for an element to become visible
	// before any action is attempted against it.
	DisplayTimeout time.Duration `mapstructure:"display_timeout" yaml:"display_timeout"`
	// ClickableTimeout bounds the additional wait for an element to
	// become enabled before a click.
	ClickableTimeout time.Duration `mapstructure:"clickable_timeout" yaml:"clickable_timeout"`
	// AssertionTimeout is the polling budget for verification steps
	// (URL, text and attribute checks).
	AssertionTimeout time.Duration `mapstructure:"assertion_timeout" yaml:"assertion_timeout"`
	// PollInterval is the tick between predicate evaluations.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	// ReadTimeout bounds a single driver read inside a poll tick, so a
	// not-yet-present element does not consume the whole budget.
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
}

// ArtifactsConfig controls where screenshots are written.
type ArtifactsConfig struct {
	ScreenshotDir string `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
	// Version selects the screenshot output subdirectory. Populated from
	// the VERSION environment variable when present.
	Version string `mapstructure:"version" yaml:"version"`
}

// setDefaults registers the baseline configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "webdog")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.window_width", 1366)
	v.SetDefault("browser.window_height", 900)
	v.SetDefault("browser.navigation_timeout", 90*time.Second)

	v.SetDefault("wait.display_timeout", 5*time.Second)
	v.SetDefault("wait.clickable_timeout", 5*time.Second)
	v.SetDefault("wait.assertion_timeout", 10*time.Second)
	v.SetDefault("wait.poll_interval", 100*time.Millisecond)
	v.SetDefault("wait.read_timeout", 1*time.Second)

	v.SetDefault("artifacts.screenshot_dir", "./screenshots")
	v.SetDefault("artifacts.version", DefaultVersion)
}

// Load reads the configuration from an optional YAML file, applying
// WEBDOG_* environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WEBDOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// The bare VERSION variable predates the WEBDOG_ prefix scheme and is
	// what CI pipelines set, so it wins over the file value.
	if version := os.Getenv("VERSION"); version != "" {
		cfg.Artifacts.Version = version
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would make every step fail in
// confusing ways at runtime.
func (c *Config) Validate() error {
	if c.Wait.DisplayTimeout <= 0 {
		return fmt.Errorf("wait.display_timeout must be positive, got %s", c.Wait.DisplayTimeout)
	}
	if c.Wait.ClickableTimeout <= 0 {
		return fmt.Errorf("wait.clickable_timeout must be positive, got %s", c.Wait.ClickableTimeout)
	}
	if c.Wait.AssertionTimeout <= 0 {
		return fmt.Errorf("wait.assertion_timeout must be positive, got %s", c.Wait.AssertionTimeout)
	}
	if c.Wait.PollInterval <= 0 || c.Wait.PollInterval >= c.Wait.AssertionTimeout {
		return fmt.Errorf("wait.poll_interval must be positive and smaller than the assertion timeout, got %s", c.Wait.PollInterval)
	}
	if c.Artifacts.ScreenshotDir == "" {
		return fmt.Errorf("artifacts.screenshot_dir must not be empty")
	}
	if c.Artifacts.Version == "" {
		c.Artifacts.Version = DefaultVersion
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be \"console\" or \"json\", got %q", c.Logger.Format)
	}
	return nil
}

// Default returns the configuration produced by Load with no file and no
// environment overrides applied. Used by tests and as a CLI fallback.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshal of pure defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}
