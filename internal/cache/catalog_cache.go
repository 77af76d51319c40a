package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mystickies/store-api/internal/models"
)

const (
	settingsKey   = "store:settings"
	settingsTTL   = 10 * time.Minute
	catalogPrefix = "store:catalog:"
	catalogTTL    = 1 * time.Minute
)

// CatalogCache caches the settings singleton and the hot public catalog
// listings. It is read-through with best-effort semantics: cache failures
// are logged and treated as misses.
type CatalogCache struct {
	redis *RedisClient
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(redis *RedisClient) *CatalogCache {
	return &CatalogCache{redis: redis}
}

// GetSettings returns the cached settings, or nil on a miss.
func (c *CatalogCache) GetSettings(ctx context.Context) *models.Settings {
	raw, err := c.redis.Get(ctx, settingsKey)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("settings cache read failed")
		}
		return nil
	}
	var s models.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		log.Warn().Err(err).Msg("settings cache entry corrupt")
		return nil
	}
	return &s
}

// SetSettings stores the settings singleton.
func (c *CatalogCache) SetSettings(ctx context.Context, s *models.Settings) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, settingsKey, string(raw), settingsTTL); err != nil {
		log.Warn().Err(err).Msg("settings cache write failed")
	}
}

// InvalidateSettings drops the cached settings after a write.
func (c *CatalogCache) InvalidateSettings(ctx context.Context) {
	if err := c.redis.Delete(ctx, settingsKey); err != nil {
		log.Warn().Err(err).Msg("settings cache invalidation failed")
	}
}

// GetListing returns a cached public listing payload, or false on a miss.
func (c *CatalogCache) GetListing(ctx context.Context, key string, out interface{}) bool {
	raw, err := c.redis.Get(ctx, catalogPrefix+key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache entry corrupt")
		return false
	}
	return true
}

// SetListing stores a public listing payload under key.
func (c *CatalogCache) SetListing(ctx context.Context, key string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, catalogPrefix+key, string(raw), catalogTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}

// InvalidateCatalog drops all cached listings. Called on any admin catalog
// write; the key space is small enough that scanning is fine.
func (c *CatalogCache) InvalidateCatalog(ctx context.Context) {
	keys, err := c.redis.Keys(ctx, catalogPrefix+"*")
	if err != nil {
		log.Warn().Err(err).Msg("catalog cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
