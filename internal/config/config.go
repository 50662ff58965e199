package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cord-sdk/cord-cli/internal/dispatch"
	"github.com/cord-sdk/cord-cli/internal/server"
	"github.com/cord-sdk/cord-cli/internal/token"
	"github.com/cord-sdk/cord-cli/internal/version"
)

// Config is the root process configuration for the cord CLI.
// Credentials are not part of it; they live in the credential file.
type Config struct {
	// CredentialsPath overrides the credential file location (default ~/.cord)
	CredentialsPath string `koanf:"credentials_path" usage:"credential file path (default: ~/.cord)"`

	// APIURL is the API base used when the credential file has no API_URL
	APIURL string `koanf:"api_url" usage:"default cord API base URL"`

	// VersionURL serves the latest published CLI version
	VersionURL string `koanf:"version_url" usage:"CLI version feed URL"`

	// NoVersionCheck disables the daily update check
	NoVersionCheck bool `koanf:"no_version_check" usage:"skip the daily check for a newer CLI"`

	// FixturesFile serves all outbound HTTP from canned responses (file or directory)
	FixturesFile string `koanf:"fixtures_file" usage:"answer API calls from a fixtures file or directory instead of the network"`

	Server ServerConfig `koanf:"server"`
	Token  TokenConfig  `koanf:"token"`
	Log    LogConfig    `koanf:"log"`
	TLS    TLSConfig    `koanf:"tls"`
}

// ServerConfig configures the client token endpoint
type ServerConfig struct {
	Addr string `koanf:"addr" usage:"token server listen address"`
}

// TokenConfig configures minted tokens
type TokenConfig struct {
	// TTL is a duration string like "1m"
	TTL string `koanf:"ttl" usage:"lifetime of minted tokens"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `koanf:"level" usage:"log level: debug, info, warn, error"`

	// Format is one of text, json
	Format string `koanf:"format" usage:"log format: text, json"`
}

// TLSConfig configures outbound TLS
type TLSConfig struct {
	// InsecureSkipVerify disables certificate verification.
	// Only for local development against a self-signed endpoint.
	InsecureSkipVerify bool `koanf:"insecure_skip_verify" usage:"disable TLS certificate verification (local development only)"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		APIURL:     dispatch.DefaultBaseURL,
		VersionURL: version.DefaultURL,
		Server:     ServerConfig{Addr: server.DefaultAddr},
		Token:      TokenConfig{TTL: token.DefaultTTL.String()},
		Log:        LogConfig{Level: "warn", Format: "text"},
	}
}

// TokenTTL parses Token.TTL
func (c *Config) TokenTTL() (time.Duration, error) {
	if c.Token.TTL == "" {
		return token.DefaultTTL, nil
	}
	ttl, err := time.ParseDuration(c.Token.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid token.ttl %q: %w", c.Token.TTL, err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("token.ttl must be positive, got %s", c.Token.TTL)
	}
	return ttl, nil
}

// Validate checks values that cannot be caught by decoding
func (c *Config) Validate() error {
	if _, err := c.TokenTTL(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}
