// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds all configuration values for the registry.
// Values are populated by Load from environment variables.
type Config struct {
	// User, Password, Port, and DBName are the database connection
	// parameters. Each is required; Load fails listing every one that is
	// missing, before any store operation is attempted.
	User     string
	Password string
	Port     string
	DBName   string

	// Host is the database host. Defaults to "localhost", matching the
	// driver default the original deployment relied on.
	Host string

	// HTTPPort is the TCP port the HTTP server listens on. Defaults to "8080".
	HTTPPort string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
//
// The connection parameter names (tut_user, tut_password, tut_port,
// tut_dbname) are kept verbatim from the deployment environment this
// registry was extracted from, so existing .env files keep working.
func Load() (Config, error) {
	cfg := Config{
		Host:        getEnv("tut_host", "localhost"),
		HTTPPort:    getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing []string

	for _, v := range []struct {
		name string
		dst  *string
	}{
		{"tut_user", &cfg.User},
		{"tut_password", &cfg.Password},
		{"tut_port", &cfg.Port},
		{"tut_dbname", &cfg.DBName},
	} {
		*v.dst = os.Getenv(v.name)
		if *v.dst == "" {
			missing = append(missing, v.name)
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// DatabaseURL assembles the Postgres connection string from the validated
// connection parameters. Credentials are URL-escaped so passwords may
// contain reserved characters.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.DBName,
	}
	return u.String()
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
