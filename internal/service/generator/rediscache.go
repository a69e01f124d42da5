package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/seolim/thoughtcast/internal/domain"
	"go.uber.org/zap"
)

const redisKeyPrefix = "thoughtcast:content:"

// RedisCache is the shared-cache implementation of ContentCache for
// multi-process deployments. Expiry uses redis-native TTLs; the size bound
// is left to the redis instance's own memory policy. Errors degrade to
// cache misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.EnhancedContentResult, bool) {
	value, err := c.client.Get(ctx, redisKey(key)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Error("Content cache get failed", zap.Error(err))
		return nil, false
	}

	var result domain.EnhancedContentResult
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		c.logger.Error("Content cache unmarshal failed", zap.Error(err))
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, result *domain.EnhancedContentResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("Content cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, redisKey(key), data, c.ttl).Err(); err != nil {
		c.logger.Error("Content cache set failed", zap.Error(err))
	}
}

// Cache keys embed a serialized profile; hash them so redis keys stay short.
func redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}
