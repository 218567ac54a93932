package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisCache stores fetched box-score payloads so re-runs of stat ingestion
// do not refetch immutable final-game data. The pipeline works without it.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Config holds Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Msg("Redis cache connected")
	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func boxscoreKey(externalID int64) string {
	return fmt.Sprintf("boxscore:%d", externalID)
}

// GetBoxscore returns a cached payload, or nil on miss or cache error
func (c *RedisCache) GetBoxscore(ctx context.Context, externalID int64) []byte {
	val, err := c.client.Get(ctx, boxscoreKey(externalID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Int64("game_id", externalID).Msg("Cache read failed")
		}
		return nil
	}
	return val
}

// SetBoxscore stores a payload with the configured TTL; errors are logged only
func (c *RedisCache) SetBoxscore(ctx context.Context, externalID int64, payload []byte) {
	if err := c.client.Set(ctx, boxscoreKey(externalID), payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Int64("game_id", externalID).Msg("Cache write failed")
	}
}
