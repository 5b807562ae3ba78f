// Package config loads application configuration from config.yaml with
// environment variable overrides. Secrets (passwords, API keys) must only
// come from environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the assistant.
// Environment variables always override YAML values.
type Config struct {
	// Application settings
	LogLevel            string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	SessionsDir         string `yaml:"sessions_dir" env:"SESSIONS_DIR" env-default:"sessions"`
	MaxQueryResults     int    `yaml:"max_query_results" env:"MAX_QUERY_RESULTS" env-default:"100"`
	QueryTimeoutSeconds int    `yaml:"query_timeout_seconds" env:"QUERY_TIMEOUT_SECONDS" env-default:"30"`

	Warehouse WarehouseConfig `yaml:"warehouse"`
	AI        AIConfig        `yaml:"ai"`
}

// WarehouseConfig holds warehouse connection parameters.
//
// Authentication precedence (mutually exclusive, first match wins):
//  1. TLS client certificate/key pair (TLSCertPath + TLSKeyPath)
//  2. Password from the secure environment variable (WAREHOUSE_PASSWORD_SECURE)
//  3. Configured password (WAREHOUSE_PASSWORD)
//  4. Interactive prompt at connect time
type WarehouseConfig struct {
	Host           string `yaml:"host" env:"WAREHOUSE_HOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"WAREHOUSE_PORT" env-default:"5432"`
	User           string `yaml:"user" env:"WAREHOUSE_USER"`
	Password       string `yaml:"-" env:"WAREHOUSE_PASSWORD"`        // Secret - not in YAML
	PasswordSecure string `yaml:"-" env:"WAREHOUSE_PASSWORD_SECURE"` // Secret - not in YAML
	Database       string `yaml:"database" env:"WAREHOUSE_DATABASE"`
	Schema         string `yaml:"schema" env:"WAREHOUSE_SCHEMA" env-default:"public"`
	Role           string `yaml:"role" env:"WAREHOUSE_ROLE" env-default:""`
	SSLMode        string `yaml:"ssl_mode" env:"WAREHOUSE_SSLMODE" env-default:"prefer"`
	TLSCertPath    string `yaml:"tls_cert_path" env:"WAREHOUSE_TLS_CERT_PATH" env-default:""`
	TLSKeyPath     string `yaml:"tls_key_path" env:"WAREHOUSE_TLS_KEY_PATH" env-default:""`
}

// AIConfig holds completion service settings. Model, temperature and token
// budget are static per deployment, not query-dependent.
type AIConfig struct {
	Endpoint    string  `yaml:"endpoint" env:"AI_ENDPOINT" env-default:"https://api.openai.com/v1"`
	APIKey      string  `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
	Model       string  `yaml:"model" env:"AI_MODEL" env-default:"gpt-4o-mini"`
	Temperature float64 `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.1"`
	MaxTokens   int     `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"2000"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides. If the file does not exist, configuration is read
// from the environment alone. Validation is eager: a bad configuration
// fails here, not at first use.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	cfg := &Config{}
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read config from environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// QueryTimeout returns the configured per-query timeout.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

func (c *Config) validate() error {
	if c.Warehouse.User == "" {
		return fmt.Errorf("warehouse user is required (WAREHOUSE_USER)")
	}
	if c.Warehouse.Database == "" {
		return fmt.Errorf("warehouse database is required (WAREHOUSE_DATABASE)")
	}
	if c.Warehouse.Port <= 0 || c.Warehouse.Port > 65535 {
		return fmt.Errorf("warehouse port %d out of range", c.Warehouse.Port)
	}
	if err := c.Warehouse.validateTLS(); err != nil {
		return err
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 1 {
		return fmt.Errorf("ai temperature %.2f must be between 0 and 1", c.AI.Temperature)
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai max_tokens must be positive")
	}
	if c.MaxQueryResults <= 0 {
		return fmt.Errorf("max_query_results must be positive")
	}
	return nil
}

// validateTLS ensures the client certificate pair is complete and readable.
func (w *WarehouseConfig) validateTLS() error {
	certSet := w.TLSCertPath != ""
	keySet := w.TLSKeyPath != ""

	if certSet != keySet {
		return fmt.Errorf("tls_cert_path and tls_key_path must be provided together")
	}
	if certSet {
		if _, err := os.Stat(w.TLSCertPath); err != nil {
			return fmt.Errorf("TLS cert file: %w", err)
		}
		if _, err := os.Stat(w.TLSKeyPath); err != nil {
			return fmt.Errorf("TLS key file: %w", err)
		}
	}
	return nil
}
