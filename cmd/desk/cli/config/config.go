// Package config provides configuration loading for the desk CLI.
//
// Configuration is read from ~/.config/desk/config.yaml with DESK_*
// environment variable overrides (DESK_API_URL, DESK_LOG_LEVEL, ...).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the API client and watch mode.
const (
	DefaultAPIBaseURL    = "https://api.getdesk.dev"
	DefaultAPITimeout    = 30 * time.Second
	DefaultAuthProvider  = "github"
	DefaultWatchInterval = 300 * time.Second
)

// Config is the resolved desk configuration.
type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Auth  AuthConfig  `mapstructure:"auth"`
	Watch WatchConfig `mapstructure:"watch"`

	// LogLevel sets logging verbosity (debug, info, warn, error).
	// Can be overridden by the DESK_LOG_LEVEL environment variable.
	LogLevel string `mapstructure:"log_level"`

	// Telemetry controls anonymous usage analytics. Disabled unless
	// explicitly turned on.
	Telemetry bool `mapstructure:"telemetry"`
}

// APIConfig holds backend API client settings.
type APIConfig struct {
	// BaseURL is the backend API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// Provider is the OAuth provider used for login ("github").
	Provider string `mapstructure:"provider"`
	// ClientID optionally overrides the OAuth client ID (enterprise setups).
	ClientID string `mapstructure:"client_id"`
	// Host is the OAuth host, for GitHub Enterprise installs.
	Host string `mapstructure:"host"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	// Interval between automatic state captures.
	Interval time.Duration `mapstructure:"interval"`
}

// Defaults returns the built-in configuration without touching the
// filesystem or environment.
func Defaults() *Config {
	return &Config{
		API:      APIConfig{BaseURL: DefaultAPIBaseURL, Timeout: DefaultAPITimeout},
		Auth:     AuthConfig{Provider: DefaultAuthProvider, Host: "github.com"},
		Watch:    WatchConfig{Interval: DefaultWatchInterval},
		LogLevel: "info",
	}
}

// Load reads the configuration file and applies env overrides.
// A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()

	configDir, err := Dir()
	if err == nil {
		v.AddConfigPath(configDir)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.timeout", DefaultAPITimeout)
	v.SetDefault("auth.provider", DefaultAuthProvider)
	v.SetDefault("auth.host", "github.com")
	v.SetDefault("watch.interval", DefaultWatchInterval)
	v.SetDefault("log_level", "info")
	v.SetDefault("telemetry", false)

	// Missing file is fine; a malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errorsAs(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// DESK_API_URL is the documented override name; map it onto the
	// nested key for compatibility with the original tool.
	if url := v.GetString("api_url"); url != "" {
		cfg.API.BaseURL = url
	}

	return &cfg, nil
}

// errorsAs is a tiny wrapper so the viper error check reads cleanly.
func errorsAs(err error, target *viper.ConfigFileNotFoundError) bool {
	if e, ok := err.(viper.ConfigFileNotFoundError); ok { //nolint:errorlint // viper returns this by value
		*target = e
		return true
	}
	return false
}
