package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nhl_v1/pipeline/internal/client"
	"nhl_v1/pipeline/internal/metrics"
	"nhl_v1/pipeline/internal/models"
	"nhl_v1/pipeline/internal/repository"

	"github.com/rs/zerolog/log"
)

// Store is the persistence surface the reconciler writes through
type Store interface {
	UpsertTeam(ctx context.Context, team *models.Team) error
	UpsertPlayer(ctx context.Context, player *models.Player) error
	GetGameByExternalID(ctx context.Context, externalID int64) (*models.Game, error)
	InsertGame(ctx context.Context, game *models.Game) error
	UpdateGameProgress(ctx context.Context, game *models.Game) error
	ListFinalGameMeta(ctx context.Context) ([]models.GameMeta, error)
	UpsertPlayerStat(ctx context.Context, stat *models.PlayerGameStat) error
	UpsertDefenseStat(ctx context.Context, stat *models.TeamGameDefenseStat) error
}

// Reconciler maps raw upstream records onto entity upserts. It decides
// insert vs. update vs. skip from the persisted game status; a game in final
// status is terminal and never touched again.
type Reconciler struct {
	store  Store
	source client.Source

	// when set, schedule entries from other seasons are skipped
	seasonFilter string
}

// New creates a reconciler over the given store and source
func New(store Store, source client.Source) *Reconciler {
	return &Reconciler{
		store:  store,
		source: source,
	}
}

// IdentityCache is a read-through abbreviation -> team id cache. One is
// created per run, so a stale mapping can never leak between runs.
type IdentityCache struct {
	teams map[string]int
}

// NewIdentityCache returns an empty cache for one run
func NewIdentityCache() *IdentityCache {
	return &IdentityCache{teams: make(map[string]int)}
}

// ResolveTeam upserts a team on first sight and returns its id from the
// cache on every later lookup
func (c *IdentityCache) ResolveTeam(ctx context.Context, store Store, raw client.RawTeam) (int, error) {
	if id, ok := c.teams[raw.Abbrev]; ok {
		return id, nil
	}

	team := &models.Team{Abbreviation: raw.Abbrev, Name: raw.Name}
	if err := store.UpsertTeam(ctx, team); err != nil {
		return 0, fmt.Errorf("failed to resolve team %q: %w", raw.Abbrev, err)
	}

	c.teams[raw.Abbrev] = team.ID
	metrics.RecordOutcome("team", "upserted")
	return team.ID, nil
}

// WithSeasonFilter restricts schedule sync to one season code (e.g. 20242025)
func (r *Reconciler) WithSeasonFilter(season string) *Reconciler {
	r.seasonFilter = season
	return r
}

// SyncSummary counts per-unit outcomes of a schedule sync
type SyncSummary struct {
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
}

// SyncSchedule walks the schedule from start to end (both YYYY-MM-DD),
// following the upstream's next-page pointer. A 404 means the range is
// exhausted; a transient failure skips a week forward rather than aborting
// the whole run.
func (r *Reconciler) SyncSchedule(ctx context.Context, start, end string) (*SyncSummary, error) {
	started := time.Now()
	summary := &SyncSummary{}
	idents := NewIdentityCache()

	log.Info().Str("start", start).Str("end", end).Msg("Starting schedule sync")

	current := start
	for current <= end {
		page, err := r.source.FetchSchedule(ctx, current)
		if err != nil {
			if client.IsNotFound(err) {
				log.Info().Str("date", current).Msg("No schedule data, range exhausted")
				break
			}
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}

			log.Warn().Err(err).Str("date", current).Msg("Schedule fetch failed, skipping ahead")
			metrics.RecordError("reconciler", "schedule_fetch")
			summary.Failed++

			next, aerr := addDays(current, 7)
			if aerr != nil {
				return summary, fmt.Errorf("invalid sync date %q: %w", current, aerr)
			}
			current = next
			continue
		}

		for i := range page.Games {
			if err := r.processGame(ctx, idents, &page.Games[i], summary); err != nil {
				if ctx.Err() != nil {
					return summary, ctx.Err()
				}
				log.Error().Err(err).
					Int64("external_id", page.Games[i].ExternalID).
					Msg("Failed to reconcile game")
				metrics.RecordError("reconciler", "game")
				summary.Failed++
			}
		}

		// Upstream signals the next page; a missing or non-advancing pointer
		// ends the walk.
		if page.NextStartDate == "" || page.NextStartDate <= current || page.NextStartDate > end {
			break
		}
		current = page.NextStartDate
	}

	status := "success"
	if summary.Failed > 0 {
		status = "partial"
	}
	metrics.RecordSync("schedule", status, time.Since(started).Seconds())

	log.Info().
		Int("inserted", summary.Inserted).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Dur("duration", time.Since(started)).
		Msg("Schedule sync complete")

	return summary, nil
}

// processGame applies the reconciliation decision for one raw schedule entry
func (r *Reconciler) processGame(ctx context.Context, idents *IdentityCache, raw *client.RawGame, summary *SyncSummary) error {
	if r.seasonFilter != "" && raw.Season != r.seasonFilter {
		summary.Skipped++
		metrics.RecordOutcome("game", "filtered")
		return nil
	}

	homeID, err := idents.ResolveTeam(ctx, r.store, raw.Home)
	if err != nil {
		return err
	}
	awayID, err := idents.ResolveTeam(ctx, r.store, raw.Away)
	if err != nil {
		return err
	}

	status := EffectiveStatus(raw.State, raw.HomeScore, raw.AwayScore)

	existing, err := r.store.GetGameByExternalID(ctx, raw.ExternalID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		game := &models.Game{
			ExternalID: raw.ExternalID,
			Season:     raw.Season,
			GameDate:   raw.StartTimeUTC,
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			Status:     status,
			Venue:      models.NullString(raw.Venue),
			GameType:   models.NullInt32(&raw.GameType),
		}
		if status == models.StatusFinal {
			game.HomeScore = models.NullInt32(raw.HomeScore)
			game.AwayScore = models.NullInt32(raw.AwayScore)
		}
		if err := r.store.InsertGame(ctx, game); err != nil {
			return err
		}
		summary.Inserted++
		metrics.RecordOutcome("game", "inserted")
		return nil

	case err != nil:
		return err

	case existing.IsFinal():
		// Terminal. Upstream occasionally resends closed games with revised
		// payloads; those never reopen a final row.
		log.Debug().
			Int64("external_id", raw.ExternalID).
			Msg("Game already final, skipping")
		summary.Skipped++
		metrics.RecordOutcome("game", "skipped")
		return nil

	default:
		update := &models.Game{
			ExternalID: raw.ExternalID,
			Season:     raw.Season,
			Status:     status,
			Venue:      models.NullString(raw.Venue),
			GameType:   models.NullInt32(&raw.GameType),
			// Scores stay as persisted unless this record closes the game.
			HomeScore: existing.HomeScore,
			AwayScore: existing.AwayScore,
		}
		if status == models.StatusFinal {
			update.HomeScore = models.NullInt32(raw.HomeScore)
			update.AwayScore = models.NullInt32(raw.AwayScore)
		}
		if err := r.store.UpdateGameProgress(ctx, update); err != nil {
			return err
		}
		summary.Updated++
		metrics.RecordOutcome("game", "updated")
		return nil
	}
}

func addDays(date string, days int) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format("2006-01-02"), nil
}
