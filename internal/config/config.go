// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure of the daemon.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Database DatabaseConfig `toml:"database"`
	YtDlp    YtDlpConfig    `toml:"ytdlp"`
	Cache    CacheConfig    `toml:"cache"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"` // empty logs to stdout only
}

// CatalogConfig locates the JSON document being edited.
type CatalogConfig struct {
	Path string `toml:"path"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// YtDlpConfig controls the external extractor. An empty binary is looked up on PATH.
type YtDlpConfig struct {
	Binary          string   `toml:"binary"`
	PlaylistTimeout Duration `toml:"playlist_timeout"`
	StreamTimeout   Duration `toml:"stream_timeout"`
	VideoTimeout    Duration `toml:"video_timeout"`
	ChannelTimeout  Duration `toml:"channel_timeout"`
}

// CacheConfig controls caching of playlist listings and source lookups.
// A zero ttl disables the cache.
type CacheConfig struct {
	TTL Duration `toml:"ttl"`
}

// EventsConfig controls the audit trail.
type EventsConfig struct {
	Retention     Duration `toml:"retention"`
	PruneInterval Duration `toml:"prune_interval"`
}

// Duration is a time.Duration written as a Go duration string ("90s", "1h").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

const (
	DefaultPort            = 8585
	defaultPlaylistTimeout = 60 * time.Second
	defaultStreamTimeout   = 5 * time.Minute
	defaultVideoTimeout    = 60 * time.Second
	defaultChannelTimeout  = 30 * time.Second
	defaultCacheTTL        = time.Hour
	defaultRetention       = 90 * 24 * time.Hour
	defaultPruneInterval   = time.Hour
)

// Load reads, substitutes, applies defaults and validates the config file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation is Load without the Validate step. Unresolved
// environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults(md)
	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults(toml.MetaData{})
	return &cfg
}

func (c *Config) applyDefaults(md toml.MetaData) {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "./series.json"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/seasonarr.db"
	}
	setDefault(&c.YtDlp.PlaylistTimeout, defaultPlaylistTimeout)
	setDefault(&c.YtDlp.StreamTimeout, defaultStreamTimeout)
	setDefault(&c.YtDlp.VideoTimeout, defaultVideoTimeout)
	setDefault(&c.YtDlp.ChannelTimeout, defaultChannelTimeout)
	if !md.IsDefined("cache", "ttl") {
		c.Cache.TTL.Duration = defaultCacheTTL
	}
	setDefault(&c.Events.Retention, defaultRetention)
	setDefault(&c.Events.PruneInterval, defaultPruneInterval)
}

func setDefault(d *Duration, v time.Duration) {
	if d.Duration == 0 {
		d.Duration = v
	}
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands variables in content. Unset variables without a
// default are left in place and reported in missing; an empty value counts as
// unset for the :- and :? forms.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+strings.TrimSpace(arg))
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
