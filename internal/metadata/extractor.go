package metadata

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/metrics"
	"github.com/vmunix/seasonarr/internal/ytdlp"
)

// DefaultTTL applies when NewCachedExtractor is given a zero TTL.
const DefaultTTL = time.Hour

const (
	keyPrefixPlaylist = "ytdlp:playlist:"
	keyPrefixChannel  = "ytdlp:channel:"
)

// CachedExtractor serves playlist listings and source lookups from the cache.
// Full extractions and single items always reach the wrapped extractor.
type CachedExtractor struct {
	next  ytdlp.Extractor
	cache *Cache
	ttl   time.Duration
	group singleflight.Group
	log   *slog.Logger

	lookups *prometheus.CounterVec // nil until WithMetrics
}

var _ ytdlp.Extractor = (*CachedExtractor)(nil)

// NewCachedExtractor wraps next.
func NewCachedExtractor(next ytdlp.Extractor, cache *Cache, ttl time.Duration, log *slog.Logger) *CachedExtractor {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedExtractor{next: next, cache: cache, ttl: ttl, log: log.With("component", "extraction-cache")}
}

// WithMetrics counts hits and misses on m.CacheLookups.
func (c *CachedExtractor) WithMetrics(m *metrics.Metrics) *CachedExtractor {
	c.lookups = m.CacheLookups
	return c
}

func (c *CachedExtractor) observe(result string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(result).Inc()
	}
}

// Playlist returns the flat listing for url, cached.
func (c *CachedExtractor) Playlist(ctx context.Context, url string) ([]catalog.ImportedVideo, error) {
	var videos []catalog.ImportedVideo
	err := cached(ctx, c, keyPrefixPlaylist+url, &videos, func() (any, error) {
		return c.next.Playlist(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []catalog.ImportedVideo{}
	}
	return videos, nil
}

// Channel returns the source info for url, cached.
func (c *CachedExtractor) Channel(ctx context.Context, url string) (ytdlp.Source, error) {
	var src ytdlp.Source
	err := cached(ctx, c, keyPrefixChannel+url, &src, func() (any, error) {
		return c.next.Channel(ctx, url)
	})
	return src, err
}

// StreamPlaylist is never cached.
func (c *CachedExtractor) StreamPlaylist(ctx context.Context, url string, fn func(catalog.ImportedVideo) error) error {
	return c.next.StreamPlaylist(ctx, url, fn)
}

// Video is never cached.
func (c *CachedExtractor) Video(ctx context.Context, url string) (catalog.ImportedVideo, error) {
	return c.next.Video(ctx, url)
}

// cached decodes the entry for key into out, or runs fetch (once across
// concurrent callers), stores its result and decodes that into out.
func cached(ctx context.Context, c *CachedExtractor, key string, out any, fetch func() (any, error)) error {
	if data, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(data, out); err == nil {
			c.log.Debug("cache hit", "key", key)
			c.observe("hit")
			return nil
		}
		c.log.Warn("discarding unreadable cache entry", "key", key)
	}

	c.log.Debug("cache miss", "key", key)
	c.observe("miss")
	v, err, _ := c.group.Do(key, func() (any, error) {
		result, err := fetch()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.log.Warn("failed to cache extraction", "key", key, "error", err)
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), out)
}
