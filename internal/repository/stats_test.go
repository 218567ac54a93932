//go:build integration

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"nhl_v1/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedFinalGameWithStats inserts one final game where the home side has a
// skater line and a goalie line
func seedFinalGameWithStats(t *testing.T, db *Database) (gameID, teamID int) {
	ctx := context.Background()
	home, away := seedTeams(t, db)

	game := &models.Game{
		ExternalID: 5000,
		Season:     "20242025",
		GameDate:   time.Date(2024, 10, 8, 23, 0, 0, 0, time.UTC),
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		HomeScore:  sql.NullInt32{Int32: 3, Valid: true},
		AwayScore:  sql.NullInt32{Int32: 2, Valid: true},
		Status:     models.StatusFinal,
	}
	require.NoError(t, db.Games.Insert(ctx, game))

	skater := &models.Player{Name: "Nick Suzuki", TeamID: home.ID, Position: models.NullString("C")}
	goalie := &models.Player{Name: "Sam Montembeault", TeamID: home.ID, Position: models.NullString("G")}
	require.NoError(t, db.Players.Upsert(ctx, skater))
	require.NoError(t, db.Players.Upsert(ctx, goalie))

	require.NoError(t, db.Stats.UpsertPlayerStat(ctx, &models.PlayerGameStat{
		PlayerID: skater.ID, GameID: game.ID, TeamID: home.ID,
		Goals: 2, Assists: 1, Points: 3, Shots: 6, Hits: 2, TimeOnIceSecs: 1200,
	}))
	require.NoError(t, db.Stats.UpsertPlayerStat(ctx, &models.PlayerGameStat{
		PlayerID: goalie.ID, GameID: game.ID, TeamID: home.ID,
		Goals: 2, Shots: 28, TimeOnIceSecs: 3600,
	}))

	return game.ID, home.ID
}

func TestStatsRepository_UpsertOverwrites(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, db)

	game := &models.Game{
		ExternalID: 5001,
		Season:     "20242025",
		GameDate:   time.Date(2024, 10, 8, 23, 0, 0, 0, time.UTC),
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		HomeScore:  sql.NullInt32{Int32: 1, Valid: true},
		AwayScore:  sql.NullInt32{Int32: 0, Valid: true},
		Status:     models.StatusFinal,
	}
	require.NoError(t, db.Games.Insert(ctx, game))

	player := &models.Player{Name: "Cole Caufield", TeamID: home.ID, Position: models.NullString("RW")}
	require.NoError(t, db.Players.Upsert(ctx, player))

	stat := &models.PlayerGameStat{PlayerID: player.ID, GameID: game.ID, TeamID: home.ID, Goals: 1, Shots: 4}
	require.NoError(t, db.Stats.UpsertPlayerStat(ctx, stat))

	// corrected line fully replaces the old one
	stat.Goals = 2
	stat.Shots = 5
	require.NoError(t, db.Stats.UpsertPlayerStat(ctx, stat))

	var goals, shots int
	err := db.Pool.QueryRow(ctx,
		`SELECT goals, shots FROM player_game_stats WHERE player_id = $1 AND game_id = $2`,
		player.ID, game.ID).Scan(&goals, &shots)
	require.NoError(t, err)
	assert.Equal(t, 2, goals)
	assert.Equal(t, 5, shots)

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM player_game_stats`).Scan(&count))
	assert.Equal(t, 1, count, "upsert never accumulates duplicates")
}

func TestStatsRepository_TeamGameTotalsSplitSkatersAndGoalies(t *testing.T) {
	db, _ := setupTestDB(t)
	defer teardownTestDB(t, db)
	gameID, teamID := seedFinalGameWithStats(t, db)

	totals, err := db.Stats.LoadTeamGameTotals(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 1)

	tot := totals[0]
	assert.Equal(t, gameID, tot.GameID)
	assert.Equal(t, teamID, tot.TeamID)
	assert.Equal(t, 2.0, tot.Goals, "skater goals only")
	assert.Equal(t, 6.0, tot.Shots)
	assert.Equal(t, 2.0, tot.GoalsAgainst, "goalie line feeds the against columns")
	assert.Equal(t, 28.0, tot.ShotsAgainst)
	assert.InDelta(t, 20.0, tot.TOIMinutes, 1e-9)
	assert.InDelta(t, 60.0, tot.GoalieTOI, 1e-9)
}

func TestStatsRepository_DefenseUpsertAndTotals(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	gameID, teamID := seedFinalGameWithStats(t, db)

	dman := &models.Player{Name: "Mike Matheson", TeamID: teamID, Position: models.NullString("D")}
	require.NoError(t, db.Players.Upsert(ctx, dman))

	def := &models.TeamGameDefenseStat{
		GameID: gameID, PlayerID: dman.ID, TeamID: teamID, Season: "20242025",
		Name: "Mike Matheson", Position: "D",
		BlockedShots: 3, Hits: 4, Takeaways: 1, Giveaways: 2, PlusMinus: -1,
	}
	require.NoError(t, db.Stats.UpsertDefenseStat(ctx, def))

	// overwrite with corrected counters
	def.BlockedShots = 5
	require.NoError(t, db.Stats.UpsertDefenseStat(ctx, def))

	totals, err := db.Stats.LoadDefenseTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 5.0, totals[0].BlockedShots)
	assert.Equal(t, -1.0, totals[0].PlusMinus)
}

func TestFeatureRepository_UpsertAndLoadRoundTrip(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	gameID, teamID := seedFinalGameWithStats(t, db)

	away, err := db.Teams.GetByAbbreviation(ctx, "TOR")
	require.NoError(t, err)

	row := &models.TeamVsOpponentFeature{
		GameID: gameID, TeamID: teamID, OppTeamID: away.ID,
		HomeAway: "home", Season: "20242025",
		GameDate:   time.Date(2024, 10, 8, 23, 0, 0, 0, time.UTC),
		Goals:      2, Shots: 6, GoalsAgainst: 2,
		GoalsLast5: 2.4, ShotsLast5: 28.2, DefBlockedShotsLast5: 11,
	}
	require.NoError(t, db.Features.Upsert(ctx, row))

	// second upsert replaces in place
	row.GoalsLast5 = 2.6
	require.NoError(t, db.Features.Upsert(ctx, row))

	rows, err := db.Features.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.6, rows[0].GoalsLast5)
	assert.Equal(t, 11.0, rows[0].DefBlockedShotsLast5)

	require.NoError(t, db.Features.Truncate(ctx))
	count, err := db.Features.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
