package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names. A .env file in the working directory (or the
// one named by GOTODO_ENV_FILE) is loaded first; variables already present
// in the process environment win over the file.
const (
	EnvFile                 = "GOTODO_ENV_FILE"
	EnvHTTPAddr             = "GOTODO_HTTP_ADDR"
	EnvDatabaseDSN          = "GOTODO_DATABASE_DSN"
	EnvDatabaseMaxOpenConns = "GOTODO_DATABASE_MAX_OPEN_CONNS"
	EnvDatabaseMaxIdleConns = "GOTODO_DATABASE_MAX_IDLE_CONNS"
	EnvSecretKey            = "GOTODO_SECRET_KEY"
	EnvSessionValidity      = "GOTODO_SESSION_VALIDITY"
	EnvShutdownTimeout      = "GOTODO_SHUTDOWN_TIMEOUT"
	EnvTimeZone             = "GOTODO_TIMEZONE"
	EnvLogLevel             = "GOTODO_LOG_LEVEL"
	EnvSecureCookies        = "GOTODO_SECURE_COOKIES"
)

// parseEnv loads the optional .env file and overlays GOTODO_* variables.
// Malformed numeric, boolean or duration values panic, like malformed flags.
func parseEnv(config *Config) {
	path := os.Getenv(EnvFile)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv(EnvHTTPAddr); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseMaxOpenConns); ok {
		config.DatabaseMaxOpenConns = mustAtoi(EnvDatabaseMaxOpenConns, v)
	}
	if v, ok := os.LookupEnv(EnvDatabaseMaxIdleConns); ok {
		config.DatabaseMaxIdleConns = mustAtoi(EnvDatabaseMaxIdleConns, v)
	}
	if v, ok := os.LookupEnv(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(EnvSessionValidity); ok {
		config.SessionValidityDuration = mustDuration(EnvSessionValidity, v)
	}
	if v, ok := os.LookupEnv(EnvShutdownTimeout); ok {
		config.ShutdownTimeout = mustDuration(EnvShutdownTimeout, v)
	}
	if v, ok := os.LookupEnv(EnvTimeZone); ok {
		config.TimeZone = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvSecureCookies); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(EnvSecureCookies + ": " + err.Error())
		}
		config.SecureCookies = b
	}
}

func mustAtoi(name, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(name + ": " + err.Error())
	}
	return n
}

func mustDuration(name, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(name + ": " + err.Error())
	}
	return d
}
