package client

import (
	"context"
	"time"
)

// Normalized raw records handed to the reconciler. These are a translation of
// the upstream JSON only; no persistence concerns leak in.

// RawTeam identifies one participant team
type RawTeam struct {
	Abbrev string
	Name   string
}

// RawGame is one schedule entry
type RawGame struct {
	ExternalID   int64
	Season       string
	GameType     int
	State        string // upstream state token, e.g. OFF, LIVE, FUT, FINAL
	StartTimeUTC time.Time
	Venue        string
	Home         RawTeam
	Away         RawTeam
	HomeScore    *int
	AwayScore    *int
}

// SchedulePage is one week of schedule plus the next page's start date
type SchedulePage struct {
	Games         []RawGame
	NextStartDate string
}

// RawPlayerLine is one player's box-score line. For goalies (Position "G")
// Goals and Shots carry goals against and shots against.
type RawPlayerLine struct {
	Name          string
	Position      string
	Goals         int
	Assists       int
	Points        int
	Shots         int
	Hits          int
	BlockedShots  int
	PIM           int
	PlusMinus     int
	Shifts        int
	Giveaways     int
	Takeaways     int
	TimeOnIceSecs int
}

// RawBoxscoreTeam is one side of a box score with all player lines flattened
type RawBoxscoreTeam struct {
	Abbrev  string
	Name    string
	Players []RawPlayerLine
}

// RawBoxscore is one game's normalized box score
type RawBoxscore struct {
	ExternalID int64
	Season     string
	Home       RawBoxscoreTeam
	Away       RawBoxscoreTeam
}

// Source is the fetch surface the ingestion pipeline depends on
type Source interface {
	FetchSchedule(ctx context.Context, date string) (*SchedulePage, error)
	FetchBoxscore(ctx context.Context, externalID int64) (*RawBoxscore, error)
}
