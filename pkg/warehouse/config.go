package warehouse

import (
	"fmt"
	"net/url"
)

// Config holds everything needed to open a warehouse connection.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	// PasswordSecure, when set, takes precedence over Password. It exists so
	// deployments can route the credential through a separately-scoped
	// environment variable.
	PasswordSecure string
	Database       string
	Schema         string
	Role           string
	SSLMode        string

	// TLSCertPath and TLSKeyPath enable client-certificate authentication.
	// When both are set, password credentials are not used at all.
	TLSCertPath string
	TLSKeyPath  string

	// MaxRows caps the number of rows returned by Execute. Zero means the
	// package default.
	MaxRows int

	// PasswordPrompt is invoked when no credential is configured. Nil means
	// fail instead of prompting.
	PasswordPrompt func() (string, error)
}

// DefaultMaxRows bounds result sets when the caller does not set a cap.
const DefaultMaxRows = 100

// resolvePassword applies the credential precedence: client certificates
// (no password), PasswordSecure, Password, then the interactive prompt.
func (c *Config) resolvePassword() (string, error) {
	if c.usesClientCert() {
		return "", nil
	}
	if c.PasswordSecure != "" {
		return c.PasswordSecure, nil
	}
	if c.Password != "" {
		return c.Password, nil
	}
	if c.PasswordPrompt != nil {
		password, err := c.PasswordPrompt()
		if err != nil {
			return "", fmt.Errorf("password prompt: %w", err)
		}
		return password, nil
	}
	return "", fmt.Errorf("no warehouse credential configured for user %q", c.User)
}

func (c *Config) usesClientCert() bool {
	return c.TLSCertPath != "" && c.TLSKeyPath != ""
}

func (c *Config) maxRows() int {
	if c.MaxRows > 0 {
		return c.MaxRows
	}
	return DefaultMaxRows
}

// buildConnectionString builds a PostgreSQL URL with proper escaping.
// All user-provided fields must be URL-escaped to handle special characters
// in passwords (e.g., @, /, #, ?) that would otherwise break URL parsing.
func buildConnectionString(cfg *Config, password string) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	userInfo := url.QueryEscape(cfg.User)
	if password != "" {
		userInfo += ":" + url.QueryEscape(password)
	}

	query := url.Values{}
	query.Set("sslmode", sslMode)
	if cfg.usesClientCert() {
		query.Set("sslcert", cfg.TLSCertPath)
		query.Set("sslkey", cfg.TLSKeyPath)
	}

	return fmt.Sprintf(
		"postgresql://%s@%s:%d/%s?%s",
		userInfo,
		cfg.Host,
		cfg.Port,
		url.QueryEscape(cfg.Database),
		query.Encode(),
	)
}
