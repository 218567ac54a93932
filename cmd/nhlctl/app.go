package main

import (
	"context"
	"strconv"

	"nhl_v1/pipeline/internal/cache"
	"nhl_v1/pipeline/internal/client"
	"nhl_v1/pipeline/internal/config"
	"nhl_v1/pipeline/internal/repository"

	"github.com/rs/zerolog/log"
)

// app bundles the wired dependencies shared by every subcommand
type app struct {
	cfg    *config.Config
	db     *repository.Database
	source client.Source

	redis *cache.RedisCache
}

// newApp loads configuration and connects to the database; commands that talk
// to the upstream API also get a fetch source, wrapped in the Redis payload
// cache when one is reachable.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: db}

	nhlClient := client.NewClient(
		cfg.NHLAPIBaseURL,
		cfg.NHLAPITimeout,
		client.RetryPolicy{MaxAttempts: cfg.MaxRetries, Delay: cfg.RetryDelay},
	)
	a.source = nhlClient

	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(ctx, cache.Config{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTLBoxscore,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis, continuing without cache")
		} else {
			a.redis = redisCache
			a.source = cache.NewCachedSource(nhlClient, redisCache)
		}
	}

	return a, nil
}

// Close releases all connections
func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Close()
}
