package models

import (
	"database/sql"
	"time"
)

// Game lifecycle statuses. Final is terminal: once a game reaches it, scores
// are authoritative and further updates are ignored.
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinal     = "final"
)

// Game represents an NHL game
type Game struct {
	ID         int            `db:"id"`
	ExternalID int64          `db:"external_id"`
	Season     string         `db:"season"`
	GameDate   time.Time      `db:"game_date"`
	HomeTeamID int            `db:"home_team_id"`
	AwayTeamID int            `db:"away_team_id"`
	HomeScore  sql.NullInt32  `db:"home_score"`
	AwayScore  sql.NullInt32  `db:"away_score"`
	Status     string         `db:"status"`
	Venue      sql.NullString `db:"venue"`
	GameType   sql.NullInt32  `db:"game_type"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsScheduled returns true if the game has not started
func (g *Game) IsScheduled() bool {
	return g.Status == StatusScheduled
}

// IsLive returns true if the game is in progress
func (g *Game) IsLive() bool {
	return g.Status == StatusLive
}

// IsFinal returns true if the game is completed
func (g *Game) IsFinal() bool {
	return g.Status == StatusFinal
}

// NullInt32 wraps an optional int as sql.NullInt32
func NullInt32(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

// NullString wraps a possibly empty string as sql.NullString
func NullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
