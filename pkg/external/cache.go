package external

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/symptom-intake-server/internal/domain"
)

// AnalysisCache caches enrichment responses keyed by a hash of the
// analyzed text. An in-process LRU tier answers repeats cheaply; Redis
// is the shared tier and is optional. When Redis is not configured or
// unreachable the cache degrades to memory only.
type AnalysisCache struct {
	memory     *lru.Cache
	redis      *redis.Client
	defaultTTL time.Duration
	log        *logrus.Logger
}

// cachedAnalysis is the Redis storage envelope.
type cachedAnalysis struct {
	Data      map[string]interface{} `json:"data"`
	CachedAt  time.Time              `json:"cached_at"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// NewAnalysisCache creates a cache from configuration.
func NewAnalysisCache(config domain.CacheConfig, logger *logrus.Logger) (*AnalysisCache, error) {
	items := config.MemoryItems
	if items <= 0 {
		items = 1000
	}
	memory, err := lru.New(items)
	if err != nil {
		return nil, fmt.Errorf("creating memory cache: %w", err)
	}

	cache := &AnalysisCache{
		memory:     memory,
		defaultTTL: config.DefaultTTL,
		log:        logger,
	}

	if config.RedisURL == "" {
		return cache, nil
	}

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing Redis URL: %w", err)
	}
	opts.PoolSize = config.PoolSize
	opts.PoolTimeout = config.PoolTimeout
	opts.MaxRetries = config.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, enrichment cache running memory-only")
		client.Close()
		return cache, nil
	}

	cache.redis = client
	return cache, nil
}

// Key returns the cache key for a piece of analyzed text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "enrichment:" + hex.EncodeToString(sum[:])
}

// Get returns a cached analysis result, checking memory first.
func (c *AnalysisCache) Get(ctx context.Context, text string) (map[string]interface{}, bool) {
	key := Key(text)

	if val, ok := c.memory.Get(key); ok {
		if data, ok := val.(map[string]interface{}); ok {
			return data, true
		}
	}

	if c.redis == nil {
		return nil, false
	}

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.WithError(err).Warn("Enrichment cache read failed")
		return nil, false
	}

	var cached cachedAnalysis
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		// Remove corrupted cache entry
		c.redis.Del(ctx, key)
		return nil, false
	}

	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		return nil, false
	}

	// Promote to the memory tier
	c.memory.Add(key, cached.Data)
	return cached.Data, true
}

// Set stores an analysis result in both tiers.
func (c *AnalysisCache) Set(ctx context.Context, text string, data map[string]interface{}) error {
	key := Key(text)
	c.memory.Add(key, data)

	if c.redis == nil {
		return nil
	}

	ttl := c.defaultTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	cached := cachedAnalysis{
		Data:      data,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	jsonData, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	return c.redis.Set(ctx, key, jsonData, ttl).Err()
}

// Close releases the Redis connection if one exists.
func (c *AnalysisCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
