package features

import (
	"sort"

	"nhl_v1/pipeline/internal/models"
)

// Input is the history slice the builder derives features from
type Input struct {
	Games   []models.GameMeta
	Totals  []models.TeamGameTotals
	Defense []models.DefenseTotals
}

// HomeAway flag values
const (
	Home = "home"
	Away = "away"
)

type gameKey struct {
	gameID int
	teamID int
}

// trailing is a team's rolling-window state as of one game, computed from
// strictly earlier games only
type trailing struct {
	goals        float64
	goalsAgainst float64
	shots        float64
	hits         float64
	points       float64

	defBlocked   float64
	defHits      float64
	defTakeaways float64
	defGiveaways float64
	defPlusMinus float64
}

// Build derives one feature row per (final game, participating team). Games
// missing totals for either side are excluded entirely: a half-reported game
// would poison both teams' rolling series.
//
// Rolling columns follow the shift-then-window rule: the value attached to a
// game is computed from up to `window` games strictly before it in the team's
// chronology. Offensive columns are trailing means, defense columns trailing
// sums. A team's first game gets zeroes.
func Build(in Input, window int) []models.TeamVsOpponentFeature {
	if window < 1 {
		window = 1
	}

	totals := make(map[gameKey]models.TeamGameTotals, len(in.Totals))
	for _, t := range in.Totals {
		totals[gameKey{t.GameID, t.TeamID}] = t
	}
	defense := make(map[gameKey]models.DefenseTotals, len(in.Defense))
	for _, d := range in.Defense {
		defense[gameKey{d.GameID, d.TeamID}] = d
	}

	games := make([]models.GameMeta, 0, len(in.Games))
	for _, g := range in.Games {
		if g.HomeTeamID == g.AwayTeamID {
			continue
		}
		_, homeOK := totals[gameKey{g.GameID, g.HomeTeamID}]
		_, awayOK := totals[gameKey{g.GameID, g.AwayTeamID}]
		if !homeOK || !awayOK {
			continue
		}
		games = append(games, g)
	}

	// chronological key: date, then external game id as tie-break
	sort.Slice(games, func(i, j int) bool {
		if !games[i].GameDate.Equal(games[j].GameDate) {
			return games[i].GameDate.Before(games[j].GameDate)
		}
		return games[i].ExternalID < games[j].ExternalID
	})

	// Walk each team's games in order, snapshotting the rolling state before
	// appending the game itself.
	snapshots := make(map[gameKey]trailing)
	history := make(map[int][]gameKey)
	for _, g := range games {
		for _, teamID := range []int{g.HomeTeamID, g.AwayTeamID} {
			prior := history[teamID]
			if len(prior) > window {
				prior = prior[len(prior)-window:]
			}
			snapshots[gameKey{g.GameID, teamID}] = windowOver(prior, totals, defense)
			history[teamID] = append(history[teamID], gameKey{g.GameID, teamID})
		}
	}

	rows := make([]models.TeamVsOpponentFeature, 0, 2*len(games))
	for _, g := range games {
		rows = append(rows, buildRow(g, g.HomeTeamID, g.AwayTeamID, Home, totals, snapshots))
		rows = append(rows, buildRow(g, g.AwayTeamID, g.HomeTeamID, Away, totals, snapshots))
	}
	return rows
}

// windowOver aggregates a team's prior games: means for offensive columns,
// sums for defense columns. Empty history yields the zero value.
func windowOver(prior []gameKey, totals map[gameKey]models.TeamGameTotals, defense map[gameKey]models.DefenseTotals) trailing {
	var tr trailing
	if len(prior) == 0 {
		return tr
	}

	for _, k := range prior {
		t := totals[k]
		tr.goals += t.Goals
		tr.goalsAgainst += t.GoalsAgainst
		tr.shots += t.Shots
		tr.hits += t.Hits
		tr.points += t.Points

		// defense totals may be absent for a game with no defensemen reported
		d := defense[k]
		tr.defBlocked += d.BlockedShots
		tr.defHits += d.Hits
		tr.defTakeaways += d.Takeaways
		tr.defGiveaways += d.Giveaways
		tr.defPlusMinus += d.PlusMinus
	}

	n := float64(len(prior))
	tr.goals /= n
	tr.goalsAgainst /= n
	tr.shots /= n
	tr.hits /= n
	tr.points /= n
	return tr
}

func buildRow(g models.GameMeta, teamID, oppTeamID int, homeAway string,
	totals map[gameKey]models.TeamGameTotals, snapshots map[gameKey]trailing) models.TeamVsOpponentFeature {

	own := totals[gameKey{g.GameID, teamID}]
	opp := totals[gameKey{g.GameID, oppTeamID}]
	ownTr := snapshots[gameKey{g.GameID, teamID}]
	oppTr := snapshots[gameKey{g.GameID, oppTeamID}]

	return models.TeamVsOpponentFeature{
		GameID:    g.GameID,
		TeamID:    teamID,
		OppTeamID: oppTeamID,
		HomeAway:  homeAway,
		Season:    g.Season,
		GameDate:  g.GameDate,

		Goals:        own.Goals,
		Assists:      own.Assists,
		Points:       own.Points,
		Shots:        own.Shots,
		Hits:         own.Hits,
		TOIMinutes:   own.TOIMinutes,
		GoalsAgainst: own.GoalsAgainst,
		ShotsAgainst: own.ShotsAgainst,

		OppGoals:  opp.Goals,
		OppShots:  opp.Shots,
		OppHits:   opp.Hits,
		OppPoints: opp.Points,

		GoalsLast5:        ownTr.goals,
		GoalsAgainstLast5: ownTr.goalsAgainst,
		ShotsLast5:        ownTr.shots,
		HitsLast5:         ownTr.hits,
		PointsLast5:       ownTr.points,

		OppShotsLast5:  oppTr.shots,
		OppHitsLast5:   oppTr.hits,
		OppPointsLast5: oppTr.points,

		DefBlockedShotsLast5: ownTr.defBlocked,
		DefHitsLast5:         ownTr.defHits,
		DefTakeawaysLast5:    ownTr.defTakeaways,
		DefGiveawaysLast5:    ownTr.defGiveaways,
		DefPlusMinusLast5:    ownTr.defPlusMinus,

		OppDefBlockedShotsLast5: oppTr.defBlocked,
		OppDefHitsLast5:         oppTr.defHits,
		OppDefTakeawaysLast5:    oppTr.defTakeaways,
		OppDefGiveawaysLast5:    oppTr.defGiveaways,
		OppDefPlusMinusLast5:    oppTr.defPlusMinus,
	}
}
