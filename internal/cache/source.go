package cache

import (
	"context"
	"encoding/json"

	"nhl_v1/pipeline/internal/client"
	"nhl_v1/pipeline/internal/metrics"

	"github.com/rs/zerolog/log"
)

// CachedSource wraps a fetch source with the Redis payload cache. Box scores
// for final games are immutable upstream, so a hit is always safe to reuse.
// Schedules are never cached. A nil cache degrades to a pass-through.
type CachedSource struct {
	src   client.Source
	cache *RedisCache
}

// NewCachedSource wraps src with the given cache (which may be nil)
func NewCachedSource(src client.Source, cache *RedisCache) *CachedSource {
	return &CachedSource{src: src, cache: cache}
}

// FetchSchedule delegates to the underlying source
func (s *CachedSource) FetchSchedule(ctx context.Context, date string) (*client.SchedulePage, error) {
	return s.src.FetchSchedule(ctx, date)
}

// FetchBoxscore consults the cache before hitting the API
func (s *CachedSource) FetchBoxscore(ctx context.Context, externalID int64) (*client.RawBoxscore, error) {
	if s.cache != nil {
		if payload := s.cache.GetBoxscore(ctx, externalID); payload != nil {
			var box client.RawBoxscore
			if err := json.Unmarshal(payload, &box); err == nil {
				metrics.RecordCacheHit()
				return &box, nil
			}
			log.Warn().Int64("game_id", externalID).Msg("Discarding undecodable cached boxscore")
		}
		metrics.RecordCacheMiss()
	}

	box, err := s.src.FetchBoxscore(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(box); err == nil {
			s.cache.SetBoxscore(ctx, externalID, payload)
		}
	}

	return box, nil
}
