package config

import (
	"fmt"
	"os"
	"path/filepath"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Catalog.Path == "" {
		errs = append(errs, "catalog.path: required")
	} else if dir := filepath.Dir(c.Catalog.Path); dir != "." {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			errs = append(errs, fmt.Sprintf("catalog.path: %q is not a directory", dir))
		}
	}

	for name, d := range map[string]Duration{
		"ytdlp.playlist_timeout": c.YtDlp.PlaylistTimeout,
		"ytdlp.stream_timeout":   c.YtDlp.StreamTimeout,
		"ytdlp.video_timeout":    c.YtDlp.VideoTimeout,
		"ytdlp.channel_timeout":  c.YtDlp.ChannelTimeout,
		"cache.ttl":              c.Cache.TTL,
		"events.retention":       c.Events.Retention,
		"events.prune_interval":  c.Events.PruneInterval,
	} {
		if d.Duration < 0 {
			errs = append(errs, fmt.Sprintf("%s: must not be negative, got %s", name, d))
		}
	}
	return errs
}
