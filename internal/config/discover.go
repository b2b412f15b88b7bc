package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig overrides the search order when set.
const EnvConfig = "SEASONARR_CONFIG"

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "seasonarr", "config.toml")
}

// SearchPaths lists the files Discover tries, in order, after the
// SEASONARR_CONFIG override.
func SearchPaths() []string {
	return []string{"./config.toml", DefaultPath(), "/etc/seasonarr/config.toml"}
}

// Discover returns the first config file that exists. An explicit
// SEASONARR_CONFIG must exist; it is never skipped in favour of the search
// paths.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	candidates := SearchPaths()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (looked in %s)", ErrNotFound, strings.Join(candidates, ", "))
}
