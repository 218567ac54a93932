package repository

import (
	"context"

	"nhl_v1/pipeline/internal/models"
)

// Flat accessors over the sub-repositories. The reconciler and feature
// builder consume these through narrow interfaces so they can be exercised
// against in-memory fakes.

func (db *Database) UpsertTeam(ctx context.Context, team *models.Team) error {
	return db.Teams.Upsert(ctx, team)
}

func (db *Database) UpsertPlayer(ctx context.Context, player *models.Player) error {
	return db.Players.Upsert(ctx, player)
}

func (db *Database) GetGameByExternalID(ctx context.Context, externalID int64) (*models.Game, error) {
	return db.Games.GetByExternalID(ctx, externalID)
}

func (db *Database) InsertGame(ctx context.Context, game *models.Game) error {
	return db.Games.Insert(ctx, game)
}

func (db *Database) UpdateGameProgress(ctx context.Context, game *models.Game) error {
	return db.Games.UpdateProgress(ctx, game)
}

func (db *Database) ListFinalGameMeta(ctx context.Context) ([]models.GameMeta, error) {
	return db.Games.ListFinalMeta(ctx)
}

func (db *Database) UpsertPlayerStat(ctx context.Context, stat *models.PlayerGameStat) error {
	return db.Stats.UpsertPlayerStat(ctx, stat)
}

func (db *Database) UpsertDefenseStat(ctx context.Context, stat *models.TeamGameDefenseStat) error {
	return db.Stats.UpsertDefenseStat(ctx, stat)
}

func (db *Database) LoadTeamGameTotals(ctx context.Context) ([]models.TeamGameTotals, error) {
	return db.Stats.LoadTeamGameTotals(ctx)
}

func (db *Database) LoadDefenseTotals(ctx context.Context) ([]models.DefenseTotals, error) {
	return db.Stats.LoadDefenseTotals(ctx)
}

func (db *Database) TruncateFeatures(ctx context.Context) error {
	return db.Features.Truncate(ctx)
}

func (db *Database) UpsertFeature(ctx context.Context, f *models.TeamVsOpponentFeature) error {
	return db.Features.Upsert(ctx, f)
}

func (db *Database) LoadFeatures(ctx context.Context) ([]models.TeamVsOpponentFeature, error) {
	return db.Features.LoadAll(ctx)
}
