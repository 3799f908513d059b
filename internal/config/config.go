// Package config handles the configuration directory, data file and backend selection.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	// AppName is the application directory name.
	AppName = "duke"

	// EnvFile holds optional KEY=value settings inside the config dir.
	EnvFile = "duke.env"

	// DataFile is the default task data filename.
	DataFile = "duke.txt"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// EnvBackend selects the backend.
	EnvBackend = "DUKE_BACKEND"

	// EnvDataFile overrides the data file path.
	EnvDataFile = "DUKE_DATA_FILE"
)

// Backends.
const (
	BackendFile   = "file"
	BackendGoogle = "google"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// DataPath is the task data file used by the file backend.
	DataPath string

	// Backend is BackendFile or BackendGoogle.
	Backend string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger is never nil after New; it is a no-op unless replaced.
	Logger *zap.Logger
}

// New creates a Config for the given config directory (or the default one
// when empty), applying duke.env and then the process environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:      dir,
		DataPath: filepath.Join(dir, DataFile),
		Backend:  BackendFile,
		Logger:   zap.NewNop(),
	}

	values, err := godotenv.Read(cfg.EnvPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	for _, key := range []string{EnvBackend, EnvDataFile} {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}

	if v := strings.TrimSpace(values[EnvDataFile]); v != "" {
		cfg.DataPath = v
	}
	if v := strings.TrimSpace(values[EnvBackend]); v != "" {
		cfg.Backend = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend name.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendGoogle:
		return nil
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// EnvPath returns the path to duke.env.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// Log returns the configured logger, or a no-op logger for a zero Config.
func (c *Config) Log() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
