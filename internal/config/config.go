// Package config loads driveload configuration from a TOML file.
// Flags given on the command line override file values; file values
// override the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default credential file names, relative to the working directory.
// These mirror the conventional names used by Google API quickstarts.
const (
	DefaultCredentialsFile       = "credentials.json"
	DefaultTokenFile             = "token.json"
	DefaultServiceAccountKeyFile = "service_account_key.json"
)

// RateLimit configures the token bucket applied to Drive API calls.
type RateLimit struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	// Burst is the maximum burst size.
	Burst int `toml:"burst"`
}

// Config holds all driveload settings.
type Config struct {
	// CredentialsPath points at the OAuth client application config JSON.
	CredentialsPath string `toml:"credentials_path"`
	// TokenPath points at the saved authorized-user token JSON. It is also
	// where refreshed or newly obtained tokens are persisted.
	TokenPath string `toml:"token_path"`
	// ServiceAccountKeyPath points at a service account key JSON.
	ServiceAccountKeyPath string `toml:"service_account_key_path"`
	// Cloud marks the process as running in an ephemeral environment.
	// Tokens are never written to disk when set.
	Cloud bool `toml:"cloud"`
	// RateLimit bounds Drive API request rates.
	RateLimit RateLimit `toml:"rate_limit"`
}

// Default returns the built-in configuration.
// The rate limit defaults stay below Google's 10 requests/sec/user quota.
func Default() Config {
	return Config{
		CredentialsPath:       DefaultCredentialsFile,
		TokenPath:             DefaultTokenFile,
		ServiceAccountKeyPath: DefaultServiceAccountKeyFile,
		RateLimit: RateLimit{
			RequestsPerSecond: 8.0,
			Burst:             10,
		},
	}
}

// DefaultPath returns the conventional config file location,
// ~/.driveload/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".driveload", "config.toml"), nil
}

// Load reads a TOML config file over the defaults. A missing file is not
// an error: the defaults are returned unchanged so driveload works with
// zero configuration.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.RateLimit.RequestsPerSecond <= 0 {
		cfg.RateLimit.RequestsPerSecond = Default().RateLimit.RequestsPerSecond
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = Default().RateLimit.Burst
	}

	return cfg, nil
}
