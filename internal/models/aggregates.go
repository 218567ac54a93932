package models

import "time"

// Read models consumed by the feature builder. They are projections of
// persisted history, not tables of their own.

// GameMeta is the slice of a final game the feature builder needs
type GameMeta struct {
	GameID     int
	ExternalID int64
	Season     string
	GameDate   time.Time
	HomeTeamID int
	AwayTeamID int
}

// TeamGameTotals aggregates player lines per (game, team). Skater lines sum
// into the "for" columns; goalie lines sum into the "against" columns.
type TeamGameTotals struct {
	GameID       int
	TeamID       int
	Goals        float64
	Assists      float64
	Points       float64
	Shots        float64
	Hits         float64
	TOIMinutes   float64
	GoalsAgainst float64
	ShotsAgainst float64
	GoalieTOI    float64
}

// DefenseTotals aggregates defense lines per (game, team)
type DefenseTotals struct {
	GameID       int
	TeamID       int
	BlockedShots float64
	Hits         float64
	Takeaways    float64
	Giveaways    float64
	PlusMinus    float64
}
