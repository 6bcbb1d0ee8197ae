package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_FromProcessEnvironment(t *testing.T) {
	t.Setenv(EnvFile, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv(EnvHTTPAddr, "127.0.0.1:9000")
	t.Setenv(EnvDatabaseDSN, "postgres://x")
	t.Setenv(EnvDatabaseMaxOpenConns, "20")
	t.Setenv(EnvDatabaseMaxIdleConns, "2")
	t.Setenv(EnvSecretKey, "env-secret")
	t.Setenv(EnvSessionValidity, "2h")
	t.Setenv(EnvShutdownTimeout, "3s")
	t.Setenv(EnvTimeZone, "UTC")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvSecureCookies, "true")

	c := &Config{}
	parseEnv(c)

	assert.Equal(t, Config{
		EndpointAddrHTTP:        "127.0.0.1:9000",
		DatabaseDSN:             "postgres://x",
		DatabaseMaxOpenConns:    20,
		DatabaseMaxIdleConns:    2,
		SecretKey:               "env-secret",
		SessionValidityDuration: 2 * time.Hour,
		ShutdownTimeout:         3 * time.Second,
		TimeZone:                "UTC",
		LogLevel:                "warn",
		SecureCookies:           true,
	}, *c)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GOTODO_SECRET_KEY=dotenv-secret\nGOTODO_TIMEZONE=Europe/Riga\n"), 0o600))

	t.Setenv(EnvFile, path)
	// already-set variables win over the file
	t.Setenv(EnvTimeZone, "UTC")
	// godotenv sets the remaining variables on the process; restore afterwards
	t.Setenv(EnvSecretKey, "")
	require.NoError(t, os.Unsetenv(EnvSecretKey))

	c := &Config{SecretKey: "default"}
	parseEnv(c)

	assert.Equal(t, "dotenv-secret", c.SecretKey)
	assert.Equal(t, "UTC", c.TimeZone)
}

func TestParseEnv_InvalidValuesPanic(t *testing.T) {
	t.Setenv(EnvFile, filepath.Join(t.TempDir(), "missing.env"))

	for name, value := range map[string]string{
		EnvDatabaseMaxOpenConns: "many",
		EnvSessionValidity:      "forever",
		EnvSecureCookies:        "maybe",
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			require.Panics(t, func() { parseEnv(&Config{}) })
		})
	}
}
