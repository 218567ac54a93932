package models

import "time"

// TeamVsOpponentFeature is one team's perspective of one final game together
// with the opponent's totals and trailing rolling averages. The row is a pure
// function of strictly earlier history: every *Last5 column is computed from
// the team's prior games only, never from the game the row describes. The
// table is a derived cache and may be truncated and rebuilt at any time.
type TeamVsOpponentFeature struct {
	GameID    int       `db:"game_id"`
	TeamID    int       `db:"team_id"`
	OppTeamID int       `db:"opp_team_id"`
	HomeAway  string    `db:"home_away"` // "home" or "away"
	Season    string    `db:"season"`
	GameDate  time.Time `db:"game_date"`

	// Own same-game totals
	Goals        float64 `db:"goals"`
	Assists      float64 `db:"assists"`
	Points       float64 `db:"points"`
	Shots        float64 `db:"shots"`
	Hits         float64 `db:"hits"`
	TOIMinutes   float64 `db:"toi_minutes"`
	GoalsAgainst float64 `db:"goals_against"`
	ShotsAgainst float64 `db:"shots_against"`

	// Opponent same-game totals
	OppGoals  float64 `db:"opp_goals"`
	OppShots  float64 `db:"opp_shots"`
	OppHits   float64 `db:"opp_hits"`
	OppPoints float64 `db:"opp_points"`

	// Trailing last-5 means over strictly prior games
	GoalsLast5        float64 `db:"goals_last5"`
	GoalsAgainstLast5 float64 `db:"goals_against_last5"`
	ShotsLast5        float64 `db:"shots_last5"`
	HitsLast5         float64 `db:"hits_last5"`
	PointsLast5       float64 `db:"points_last5"`

	OppShotsLast5  float64 `db:"opp_shots_last5"`
	OppHitsLast5   float64 `db:"opp_hits_last5"`
	OppPointsLast5 float64 `db:"opp_points_last5"`

	// Defense trailing features, own and opponent
	DefBlockedShotsLast5 float64 `db:"def_blocked_shots_last5"`
	DefHitsLast5         float64 `db:"def_hits_last5"`
	DefTakeawaysLast5    float64 `db:"def_takeaways_last5"`
	DefGiveawaysLast5    float64 `db:"def_giveaways_last5"`
	DefPlusMinusLast5    float64 `db:"def_plus_minus_last5"`

	OppDefBlockedShotsLast5 float64 `db:"opp_def_blocked_shots_last5"`
	OppDefHitsLast5         float64 `db:"opp_def_hits_last5"`
	OppDefTakeawaysLast5    float64 `db:"opp_def_takeaways_last5"`
	OppDefGiveawaysLast5    float64 `db:"opp_def_giveaways_last5"`
	OppDefPlusMinusLast5    float64 `db:"opp_def_plus_minus_last5"`
}
