// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Vendor  VendorConfig  `mapstructure:"vendor" yaml:"vendor"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Files   FilesConfig   `mapstructure:"files" yaml:"files"`
	Notify  NotifyConfig  `mapstructure:"notify" yaml:"notify"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	// Locators is the injected selector table for the target page version.
	// Anything left empty falls back to the built-in defaults.
	Locators Locators `mapstructure:"locators" yaml:"locators"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig controls the Chrome instance the session runs in.
type BrowserConfig struct {
	Headless     bool     `mapstructure:"headless" yaml:"headless"`
	DisableCache bool     `mapstructure:"disable_cache" yaml:"disable_cache"`
	Args         []string `mapstructure:"args" yaml:"args"`
	Debug        bool     `mapstructure:"debug" yaml:"debug"`
}

// VendorConfig identifies the target storefront admin UI and the account the
// session authenticates as. The password is never stored in the config file;
// it is resolved from the environment variable named by PasswordEnv.
type VendorConfig struct {
	BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
	Username    string `mapstructure:"username" yaml:"username"`
	PasswordEnv string `mapstructure:"password_env" yaml:"password_env"`
}

// Password resolves the session password from the environment.
func (v VendorConfig) Password() (string, error) {
	pw := os.Getenv(v.PasswordEnv)
	if pw == "" {
		return "", fmt.Errorf("vendor password not set (env %s)", v.PasswordEnv)
	}
	return pw, nil
}

// NetworkConfig bounds every wait the engine performs. A timeout here is a
// normal failure signal, not a crash.
type NetworkConfig struct {
	// ElementWait bounds waits for element visibility.
	ElementWait time.Duration `mapstructure:"element_wait" yaml:"element_wait"`
	// NavigationTimeout bounds page loads and the search-to-detail tab wait.
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// IdleQuiet is the quiet period that counts as "network idle" after
	// uploads and saves.
	IdleQuiet time.Duration `mapstructure:"idle_quiet" yaml:"idle_quiet"`
	// IdleTimeout bounds the whole network-idle wait.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	// SettleDelay is the debounce pause after clicks that trigger
	// asynchronous UI updates.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	// NavigationRetries is how often a failed detail-page open is retried
	// before the error propagates.
	NavigationRetries int `mapstructure:"navigation_retries" yaml:"navigation_retries"`
}

// FilesConfig locates the icon and PDF assets referenced by records.
type FilesConfig struct {
	AssetDir string `mapstructure:"asset_dir" yaml:"asset_dir"`
}

// NotifyConfig configures the batch report sink.
type NotifyConfig struct {
	SMTP SMTPConfig `mapstructure:"smtp" yaml:"smtp"`
}

// SMTPConfig holds mail delivery settings for the failure/success report.
type SMTPConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`
	Host    string   `mapstructure:"host" yaml:"host"`
	Port    int      `mapstructure:"port" yaml:"port"`
	From    string   `mapstructure:"from" yaml:"from"`
	To      []string `mapstructure:"to" yaml:"to"`
	// PasswordEnv names the environment variable carrying the SMTP password.
	PasswordEnv string `mapstructure:"password_env" yaml:"password_env"`
}

// HistoryConfig enables the Postgres batch-run history when a DSN is set.
type HistoryConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// SetDefaults registers every default on the given viper instance. Explicit
// config values and STOREFRONT_* environment variables override them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "storefront-sync")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	v.SetDefault("browser.headless", true)

	v.SetDefault("vendor.password_env", "STOREFRONT_VENDOR_PASSWORD")

	v.SetDefault("network.element_wait", 10*time.Second)
	v.SetDefault("network.navigation_timeout", 60*time.Second)
	v.SetDefault("network.idle_quiet", 1500*time.Millisecond)
	v.SetDefault("network.idle_timeout", 60*time.Second)
	v.SetDefault("network.settle_delay", 750*time.Millisecond)
	v.SetDefault("network.navigation_retries", 3)

	v.SetDefault("files.asset_dir", "./assets")

	v.SetDefault("notify.smtp.port", 587)
	v.SetDefault("notify.smtp.password_env", "STOREFRONT_SMTP_PASSWORD")
}

// Load unmarshals the full configuration from the given viper instance and
// fills in the locator defaults for any selector the file left out.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Locators.applyDefaults()
	return &cfg, nil
}

// Validate checks the settings the engine cannot run without.
func (c *Config) Validate() error {
	if c.Vendor.BaseURL == "" {
		return fmt.Errorf("vendor.base_url is required")
	}
	if c.Vendor.Username == "" {
		return fmt.Errorf("vendor.username is required")
	}
	if c.Network.NavigationRetries < 1 {
		return fmt.Errorf("network.navigation_retries must be at least 1")
	}
	return nil
}
