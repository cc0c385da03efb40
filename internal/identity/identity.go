// Package identity manages the client-side user identity and connection
// settings. The user ID is an opaque token generated on first run and
// persisted in the config file; it is the only credential the API expects.
package identity

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"funmoney/internal/uuid"
)

// Config holds the CLI client configuration.
type Config struct {
	APIURL string `toml:"api_url"`
	UserID string `toml:"user_id"`
}

// DefaultAPIURL is used when the config file does not set api_url.
const DefaultAPIURL = "http://localhost:8080"

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "funmoney")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "funmoney")
}

// DefaultPath returns the full path to the config file.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at path, generating and persisting a fresh user ID
// on first run. The same ID is returned on every subsequent load, so the
// user keeps seeing their own budgets.
func Load(path string) (Config, error) {
	cfg := Config{APIURL: DefaultAPIURL}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	if !uuid.IsValid(cfg.UserID) {
		cfg.UserID = uuid.New()
		if err := Save(path, cfg); err != nil {
			return cfg, fmt.Errorf("persisting generated user id: %w", err)
		}
	}

	return cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}
