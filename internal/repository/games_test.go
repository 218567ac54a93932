//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"nhl_v1/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTeams(t *testing.T, db *Database) (home, away *models.Team) {
	ctx := context.Background()
	home = &models.Team{Abbreviation: "MTL", Name: "Canadiens"}
	away = &models.Team{Abbreviation: "TOR", Name: "Maple Leafs"}
	require.NoError(t, db.Teams.Upsert(ctx, home))
	require.NoError(t, db.Teams.Upsert(ctx, away))
	return home, away
}

func TestGameRepository_InsertAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, db)

	game := &models.Game{
		ExternalID: 2024020001,
		Season:     "20242025",
		GameDate:   time.Date(2024, 10, 8, 23, 0, 0, 0, time.UTC),
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		Status:     models.StatusScheduled,
		Venue:      models.NullString("Bell Centre"),
	}
	require.NoError(t, db.Games.Insert(ctx, game))
	assert.NotZero(t, game.ID)

	got, err := db.Games.GetByExternalID(ctx, 2024020001)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, got.Status)
	assert.False(t, got.HomeScore.Valid)
	assert.Equal(t, "Bell Centre", got.Venue.String)
}

func TestGameRepository_GetMissingReturnsErrNotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Games.GetByExternalID(ctx, 999999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGameRepository_UpdateProgressGuardsFinal(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, db)

	game := &models.Game{
		ExternalID: 2024020002,
		Season:     "20242025",
		GameDate:   time.Date(2024, 10, 9, 23, 0, 0, 0, time.UTC),
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		Status:     models.StatusScheduled,
	}
	require.NoError(t, db.Games.Insert(ctx, game))

	// advance to final with scores
	game.Status = models.StatusFinal
	game.HomeScore = sql.NullInt32{Int32: 4, Valid: true}
	game.AwayScore = sql.NullInt32{Int32: 2, Valid: true}
	require.NoError(t, db.Games.UpdateProgress(ctx, game))

	// a second update must not touch the final row
	game.Status = models.StatusLive
	game.HomeScore = sql.NullInt32{Int32: 3, Valid: true}
	err := db.Games.UpdateProgress(ctx, game)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	got, err := db.Games.GetByExternalID(ctx, 2024020002)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinal, got.Status)
	assert.Equal(t, int32(4), got.HomeScore.Int32)
}

func TestGameRepository_ListFinalMetaOrdered(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, db)

	for i, externalID := range []int64{300, 100, 200} {
		game := &models.Game{
			ExternalID: externalID,
			Season:     "20242025",
			GameDate:   time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i),
			HomeTeamID: home.ID,
			AwayTeamID: away.ID,
			HomeScore:  sql.NullInt32{Int32: 1, Valid: true},
			AwayScore:  sql.NullInt32{Int32: 0, Valid: true},
			Status:     models.StatusFinal,
		}
		require.NoError(t, db.Games.Insert(ctx, game))
	}

	metas, err := db.Games.ListFinalMeta(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, int64(200), metas[0].ExternalID, "oldest date first")
	assert.Equal(t, int64(100), metas[1].ExternalID)
	assert.Equal(t, int64(300), metas[2].ExternalID)
}
