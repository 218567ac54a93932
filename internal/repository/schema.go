package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schema is the full DDL for the pipeline's tables. Every statement is
// idempotent so InitSchema is safe to re-run.
const schema = `
CREATE TABLE IF NOT EXISTS teams (
	id SERIAL PRIMARY KEY,
	abbreviation TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS players (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	team_id INT NOT NULL REFERENCES teams(id),
	position TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (name, team_id)
);

CREATE TABLE IF NOT EXISTS games (
	id SERIAL PRIMARY KEY,
	external_id BIGINT NOT NULL UNIQUE,
	season TEXT NOT NULL DEFAULT '',
	game_date TIMESTAMPTZ NOT NULL,
	home_team_id INT NOT NULL REFERENCES teams(id),
	away_team_id INT NOT NULL REFERENCES teams(id),
	home_score INT,
	away_score INT,
	status TEXT NOT NULL DEFAULT 'scheduled',
	venue TEXT,
	game_type INT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_games_status ON games(status);
CREATE INDEX IF NOT EXISTS idx_games_season ON games(season);

CREATE TABLE IF NOT EXISTS player_game_stats (
	player_id INT NOT NULL REFERENCES players(id),
	game_id INT NOT NULL REFERENCES games(id),
	team_id INT NOT NULL REFERENCES teams(id),
	goals INT NOT NULL DEFAULT 0,
	assists INT NOT NULL DEFAULT 0,
	points INT NOT NULL DEFAULT 0,
	shots INT NOT NULL DEFAULT 0,
	hits INT NOT NULL DEFAULT 0,
	time_on_ice_secs INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (player_id, game_id)
);

CREATE INDEX IF NOT EXISTS idx_player_game_stats_game ON player_game_stats(game_id);

CREATE TABLE IF NOT EXISTS team_game_defense (
	game_id INT NOT NULL REFERENCES games(id),
	player_id INT NOT NULL REFERENCES players(id),
	team_id INT NOT NULL REFERENCES teams(id),
	season TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL DEFAULT '',
	goals INT NOT NULL DEFAULT 0,
	assists INT NOT NULL DEFAULT 0,
	points INT NOT NULL DEFAULT 0,
	plus_minus INT NOT NULL DEFAULT 0,
	pim INT NOT NULL DEFAULT 0,
	hits INT NOT NULL DEFAULT 0,
	blocked_shots INT NOT NULL DEFAULT 0,
	shifts INT NOT NULL DEFAULT 0,
	giveaways INT NOT NULL DEFAULT 0,
	takeaways INT NOT NULL DEFAULT 0,
	time_on_ice_secs INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (game_id, player_id)
);

CREATE TABLE IF NOT EXISTS team_vs_opponent (
	game_id INT NOT NULL REFERENCES games(id),
	team_id INT NOT NULL REFERENCES teams(id),
	opp_team_id INT NOT NULL REFERENCES teams(id),
	home_away TEXT NOT NULL,
	season TEXT NOT NULL DEFAULT '',
	game_date TIMESTAMPTZ NOT NULL,
	goals DOUBLE PRECISION NOT NULL DEFAULT 0,
	assists DOUBLE PRECISION NOT NULL DEFAULT 0,
	points DOUBLE PRECISION NOT NULL DEFAULT 0,
	shots DOUBLE PRECISION NOT NULL DEFAULT 0,
	hits DOUBLE PRECISION NOT NULL DEFAULT 0,
	toi_minutes DOUBLE PRECISION NOT NULL DEFAULT 0,
	goals_against DOUBLE PRECISION NOT NULL DEFAULT 0,
	shots_against DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_goals DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_shots DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_hits DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_points DOUBLE PRECISION NOT NULL DEFAULT 0,
	goals_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	goals_against_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	shots_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	hits_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	points_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_shots_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_hits_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_points_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	def_blocked_shots_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	def_hits_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	def_takeaways_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	def_giveaways_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	def_plus_minus_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_def_blocked_shots_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_def_hits_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_def_takeaways_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_def_giveaways_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	opp_def_plus_minus_last5 DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (game_id, team_id)
);
`

// InitSchema creates all tables and indexes if they do not exist
func (db *Database) InitSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	log.Info().Msg("Database schema initialized")
	return nil
}
