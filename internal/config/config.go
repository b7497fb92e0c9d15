// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
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

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless   bool     `mapstructure:"headless" yaml:"headless"`
	DisableGPU bool     `mapstructure:"disable_gpu" yaml:"disable_gpu"`
	Args       []string `mapstructure:"args" yaml:"args"`
}

// NetworkConfig tunes navigation and page settling behavior.
type NetworkConfig struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// PostLoadWait is the quiet period granted to page scripts after every
	// navigation before the page is considered usable.
	PostLoadWait time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// EngineConfig carries the fill engine tunables: the bounded condition wait
// plus the cosmetic pacing delays. All pacing values may be zero.
type EngineConfig struct {
	WaitTimeout   time.Duration `mapstructure:"wait_timeout" yaml:"wait_timeout"`
	KeyInterval   time.Duration `mapstructure:"key_interval" yaml:"key_interval"`
	SettleWait    time.Duration `mapstructure:"settle_wait" yaml:"settle_wait"`
	HighlightHold time.Duration `mapstructure:"highlight_hold" yaml:"highlight_hold"`
}

// AuthConfig holds the credentials substituted into auth-flagged forms.
// Values come from the environment (FORMPILOT_AUTH_USERNAME /
// FORMPILOT_AUTH_PASSWORD), typically via a .env file; they are never written
// back to the config file.
type AuthConfig struct {
	Username string `mapstructure:"username" yaml:"-"`
	Password string `mapstructure:"password" yaml:"-"`
}

// Set reports whether both credential halves are configured.
func (a AuthConfig) Set() bool { return a.Username != "" && a.Password != "" }

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "formpilot-cli")
	v.SetDefault("logger.log_file", "formpilot.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.disable_gpu", true)

	// -- Network --
	v.SetDefault("network.navigation_timeout", "90s")
	v.SetDefault("network.post_load_wait", "2s")

	// -- Engine --
	v.SetDefault("engine.wait_timeout", "10s")
	v.SetDefault("engine.key_interval", "40ms")
	v.SetDefault("engine.settle_wait", "1500ms")
	v.SetDefault("engine.highlight_hold", "300ms")
}

// NewDefaultConfig creates a new configuration struct populated with default
// values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a new configuration instance from a viper
// object. Credentials are picked up from the process environment, with a
// best-effort .env load first so local runs need no exported variables.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Missing .env is the normal case; only a malformed one matters.
	_ = godotenv.Load()

	v.SetEnvPrefix("FORMPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind environment variables for sensitive data.
	v.BindEnv("auth.username", "FORMPILOT_AUTH_USERNAME")
	v.BindEnv("auth.password", "FORMPILOT_AUTH_PASSWORD")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Unmarshal does not consult bound env vars for unset keys.
	if cfg.Auth.Username == "" {
		cfg.Auth.Username = os.Getenv("FORMPILOT_AUTH_USERNAME")
	}
	if cfg.Auth.Password == "" {
		cfg.Auth.Password = os.Getenv("FORMPILOT_AUTH_PASSWORD")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Network.NavigationTimeout <= 0 {
		return fmt.Errorf("network.navigation_timeout must be a positive duration")
	}
	if c.Engine.WaitTimeout <= 0 {
		return fmt.Errorf("engine.wait_timeout must be a positive duration")
	}
	if c.Engine.KeyInterval < 0 || c.Engine.SettleWait < 0 || c.Engine.HighlightHold < 0 {
		return fmt.Errorf("engine pacing durations must not be negative")
	}
	if (c.Auth.Username == "") != (c.Auth.Password == "") {
		return fmt.Errorf("auth credentials must be set together (FORMPILOT_AUTH_USERNAME and FORMPILOT_AUTH_PASSWORD)")
	}
	return nil
}

// RequireCredentials returns an error when a run targeting auth forms has no
// usable credentials. This is a configuration failure and aborts the run.
func (c *Config) RequireCredentials() error {
	if !c.Auth.Set() {
		return fmt.Errorf("auth-targeted run requires FORMPILOT_AUTH_USERNAME and FORMPILOT_AUTH_PASSWORD")
	}
	return nil
}
