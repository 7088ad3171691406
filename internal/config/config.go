// Package config provides configuration loading for the chorequest server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked for when no path is given.
const DefaultFile = "chorequest.yaml"

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Vault    VaultConfig    `yaml:"vault"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Prayer   PrayerConfig   `yaml:"prayer"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig configures local persistence.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// VaultConfig configures the shared remote vault.
type VaultConfig struct {
	// Endpoint is the NATS URL of the vault deployment. Empty disables
	// remote sync; the app then runs fully offline.
	Endpoint   string `yaml:"endpoint"`
	Credential string `yaml:"credential"`
	// Debounce is how long after the last change a push fires.
	Debounce time.Duration `yaml:"debounce"`
}

// SuggestConfig configures LLM chore suggestions.
type SuggestConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// PrayerConfig configures prayer time lookups.
type PrayerConfig struct {
	Address string `yaml:"address"`
	Method  int    `yaml:"method"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: "chorequest.db"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Vault:    VaultConfig{Debounce: time.Second},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Vault.Debounce < 0 {
		return fmt.Errorf("vault.debounce must not be negative")
	}
	return nil
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in increasing precedence. A missing file at the
// default path is fine; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only.
	default:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(c *Config) {
	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setIfPresent(&c.Server.Addr, "CHOREQUEST_ADDR")
	setIfPresent(&c.Database.Path, "CHOREQUEST_DB_PATH")
	setIfPresent(&c.Log.Level, "CHOREQUEST_LOG_LEVEL")
	setIfPresent(&c.Log.Format, "CHOREQUEST_LOG_FORMAT")
	setIfPresent(&c.Vault.Endpoint, "CHOREQUEST_VAULT_URL")
	setIfPresent(&c.Vault.Credential, "CHOREQUEST_VAULT_TOKEN")
	setIfPresent(&c.Suggest.APIKey, "OPENAI_API_KEY")
	setIfPresent(&c.Suggest.BaseURL, "CHOREQUEST_SUGGEST_URL")
	setIfPresent(&c.Suggest.Model, "CHOREQUEST_SUGGEST_MODEL")
	setIfPresent(&c.Prayer.Address, "CHOREQUEST_PRAYER_ADDRESS")
}
