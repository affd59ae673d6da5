package services

import (
	"context"
	"sync"
	"time"

	"github.com/Taraweeh/initializers"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cachePrefix  = "taraweeh:"
	cacheTTL     = 300 * time.Second
	redisTimeout = 2 * time.Second
)

type localEntry struct {
	value     []byte
	expiresAt time.Time
}

var (
	redisClient *redis.Client

	localCache   = map[string]localEntry{}
	localCacheMu sync.RWMutex
)

// InitCache connects to REDIS_URL. Without it, or when Redis cannot be
// reached, responses are cached in process memory only.
func InitCache() {
	url := initializers.Getenv("REDIS_URL", "")
	if url == "" {
		log.Info().Msg("REDIS_URL not set, using in-memory cache")
		return
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Error().Err(err).Msg("invalid REDIS_URL, using in-memory cache")
		return
	}
	opts.PoolSize = 10
	opts.DialTimeout = redisTimeout
	opts.ReadTimeout = redisTimeout
	opts.WriteTimeout = redisTimeout

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("redis unreachable, using in-memory cache")
		_ = client.Close()
		return
	}

	redisClient = client
	log.Info().Msg("redis cache connected")
}

// CacheGet loads key into dest. Redis is consulted first, then the local copy.
func CacheGet(key string, dest interface{}) bool {
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		raw, err := redisClient.Get(ctx, cachePrefix+key).Bytes()
		cancel()
		if err == nil && json.Unmarshal(raw, dest) == nil {
			return true
		}
	}

	localCacheMu.RLock()
	entry, ok := localCache[key]
	localCacheMu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return false
	}
	return json.Unmarshal(entry.value, dest) == nil
}

// CacheSet stores value under key in Redis when available and always locally.
func CacheSet(key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode cache value")
		return
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		if err := redisClient.Set(ctx, cachePrefix+key, raw, cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("redis set failed")
		}
		cancel()
	}

	localCacheMu.Lock()
	localCache[key] = localEntry{value: raw, expiresAt: time.Now().Add(cacheTTL)}
	localCacheMu.Unlock()
}

// InvalidateCaches clears every cached response and the imam search index.
// Called after any write that changes mosques, imams or users.
func InvalidateCaches() {
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		iter := redisClient.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			log.Warn().Err(err).Msg("redis scan failed")
		}
		if len(keys) > 0 {
			if err := redisClient.Del(ctx, keys...).Err(); err != nil {
				log.Warn().Err(err).Msg("redis delete failed")
			}
		}
		cancel()
	}

	localCacheMu.Lock()
	localCache = map[string]localEntry{}
	localCacheMu.Unlock()

	InvalidateImamIndex()
}
