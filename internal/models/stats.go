package models

import "time"

// PlayerGameStat is one player's line for one final game, keyed
// (player_id, game_id). Re-ingestion fully overwrites the row.
type PlayerGameStat struct {
	PlayerID int `db:"player_id"`
	GameID   int `db:"game_id"`
	TeamID   int `db:"team_id"`

	Goals         int `db:"goals"`
	Assists       int `db:"assists"`
	Points        int `db:"points"`
	Shots         int `db:"shots"`
	Hits          int `db:"hits"`
	TimeOnIceSecs int `db:"time_on_ice_secs"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TeamGameDefenseStat is one defenseman's line for one game, keyed
// (game_id, player_id). The table is derived and safe to truncate and rebuild.
type TeamGameDefenseStat struct {
	GameID   int    `db:"game_id"`
	PlayerID int    `db:"player_id"`
	TeamID   int    `db:"team_id"`
	Season   string `db:"season"`
	Name     string `db:"name"`
	Position string `db:"position"`

	Goals         int `db:"goals"`
	Assists       int `db:"assists"`
	Points        int `db:"points"`
	PlusMinus     int `db:"plus_minus"`
	PIM           int `db:"pim"`
	Hits          int `db:"hits"`
	BlockedShots  int `db:"blocked_shots"`
	Shifts        int `db:"shifts"`
	Giveaways     int `db:"giveaways"`
	Takeaways     int `db:"takeaways"`
	TimeOnIceSecs int `db:"time_on_ice_secs"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
