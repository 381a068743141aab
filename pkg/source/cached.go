package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Cached serves records from Cache when present and otherwise fetches them
// from Source and stores them for TTL. Cache failures are logged and never
// fail the fetch.
type Cached struct {
	Source Source
	Cache  cache.Cache
	TTL    time.Duration
	Key    string // defaults to cache.RecordsKey of the source description
	Logger *log.Logger
}

// Describe implements [Describer].
func (c *Cached) Describe() string { return Describe(c.Source) }

// Fetch implements [Source].
func (c *Cached) Fetch(ctx context.Context) ([]org.UnitRecord, error) {
	key := c.key()
	logger := c.logger()

	if data, ok, err := c.Cache.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "err", err)
	} else if ok {
		var records []org.UnitRecord
		if err := json.Unmarshal(data, &records); err == nil {
			observability.Cache().OnCacheHit(ctx, key)
			logger.Debug("record cache hit", "units", len(records))
			return records, nil
		}
		logger.Warn("discarding unreadable cache entry")
		_ = c.Cache.Delete(ctx, key)
	}

	observability.Cache().OnCacheMiss(ctx, key)

	records, err := c.Source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	data, err := json.Marshal(records)
	if err == nil {
		err = c.Cache.Set(ctx, key, data, c.ttl())
	}
	if err != nil {
		logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return records, nil
}

func (c *Cached) key() string {
	if c.Key != "" {
		return c.Key
	}
	return cache.RecordsKey(Describe(c.Source))
}

func (c *Cached) ttl() time.Duration {
	if c.TTL <= 0 {
		return cache.DefaultTTL
	}
	return c.TTL
}

func (c *Cached) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

var _ Source = (*Cached)(nil)
