package config

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/dmitrijs2005/gotodo/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "30s" strings and integer nanoseconds are accepted. Fields left out
// of the file keep their current value.
type JsonConfig struct {
	EndpointAddrHTTP        *string         `json:"endpoint_addr_http"`
	DatabaseDSN             *string         `json:"database_dsn"`
	DatabaseMaxOpenConns    *int            `json:"database_max_open_conns"`
	DatabaseMaxIdleConns    *int            `json:"database_max_idle_conns"`
	SecretKey               *string         `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	ShutdownTimeout         *timex.Duration `json:"shutdown_timeout"`
	TimeZone                *string         `json:"time_zone"`
	LogLevel                *string         `json:"log_level"`
	SecureCookies           *bool           `json:"secure_cookies"`
}

// jsonConfigFile extracts the config file path given via -c or -config,
// ignoring every other argument. Returns "" when neither is present.
func jsonConfigFile() string {
	var path string

	args := filterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return path
}

// parseJson overlays values from the JSON file named by -c/-config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	path := jsonConfigFile()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.DatabaseMaxOpenConns, c.DatabaseMaxOpenConns)
	setIf(&config.DatabaseMaxIdleConns, c.DatabaseMaxIdleConns)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.TimeZone, c.TimeZone)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.SecureCookies, c.SecureCookies)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
