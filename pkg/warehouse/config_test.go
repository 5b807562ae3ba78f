package warehouse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConnectionString_EscapesSpecialCharacters(t *testing.T) {
	cfg := &Config{
		Host:     "db.example.com",
		Port:     5432,
		User:     "analyst@corp",
		Database: "sales",
		SSLMode:  "require",
	}

	connStr := buildConnectionString(cfg, "p@ss/word#1?")

	assert.Contains(t, connStr, "analyst%40corp")
	assert.Contains(t, connStr, "p%40ss%2Fword%231%3F")
	assert.Contains(t, connStr, "@db.example.com:5432/sales")
	assert.Contains(t, connStr, "sslmode=require")
	assert.NotContains(t, connStr, "p@ss/word#1?")
}

func TestBuildConnectionString_DefaultSSLMode(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 5432, User: "u", Database: "d"}
	assert.Contains(t, buildConnectionString(cfg, "pw"), "sslmode=prefer")
}

func TestBuildConnectionString_ClientCertificates(t *testing.T) {
	cfg := &Config{
		Host:        "localhost",
		Port:        5432,
		User:        "u",
		Database:    "d",
		TLSCertPath: "/etc/certs/client.crt",
		TLSKeyPath:  "/etc/certs/client.key",
	}

	connStr := buildConnectionString(cfg, "")

	assert.Contains(t, connStr, "sslcert=%2Fetc%2Fcerts%2Fclient.crt")
	assert.Contains(t, connStr, "sslkey=%2Fetc%2Fcerts%2Fclient.key")
	assert.NotContains(t, connStr, ":@", "empty password must not leave a dangling colon")
}

func TestResolvePassword_Precedence(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "client cert wins over everything",
			cfg: Config{
				TLSCertPath:    "/c.crt",
				TLSKeyPath:     "/c.key",
				PasswordSecure: "secure",
				Password:       "plain",
			},
			want: "",
		},
		{
			name: "secure env wins over plain",
			cfg:  Config{PasswordSecure: "secure", Password: "plain"},
			want: "secure",
		},
		{
			name: "plain password",
			cfg:  Config{Password: "plain"},
			want: "plain",
		},
		{
			name: "prompt as last resort",
			cfg: Config{PasswordPrompt: func() (string, error) {
				return "prompted", nil
			}},
			want: "prompted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.resolvePassword()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePassword_NoCredential(t *testing.T) {
	cfg := Config{User: "analyst"}
	_, err := cfg.resolvePassword()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no warehouse credential")
}

func TestResolvePassword_PromptError(t *testing.T) {
	cfg := Config{PasswordPrompt: func() (string, error) {
		return "", errors.New("stdin closed")
	}}
	_, err := cfg.resolvePassword()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password prompt")
}

func TestMaxRowsDefault(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, DefaultMaxRows, cfg.maxRows())

	cfg.MaxRows = 7
	assert.Equal(t, 7, cfg.maxRows())
}
