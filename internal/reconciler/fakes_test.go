package reconciler

import (
	"context"
	"fmt"
	"sort"

	"nhl_v1/pipeline/internal/client"
	"nhl_v1/pipeline/internal/models"
	"nhl_v1/pipeline/internal/repository"
)

// fakeStore mimics the repository's semantics in memory: identity assignment,
// the fill-once player position rule, and the final-game update guard.
type fakeStore struct {
	nextID      int
	teamUpserts int

	teams       map[string]*models.Team
	players     map[string]*models.Player
	games       map[int64]*models.Game
	playerStats map[[2]int]*models.PlayerGameStat
	defense     map[[2]int]*models.TeamGameDefenseStat
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		teams:       make(map[string]*models.Team),
		players:     make(map[string]*models.Player),
		games:       make(map[int64]*models.Game),
		playerStats: make(map[[2]int]*models.PlayerGameStat),
		defense:     make(map[[2]int]*models.TeamGameDefenseStat),
	}
}

func (s *fakeStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) UpsertTeam(_ context.Context, team *models.Team) error {
	s.teamUpserts++
	if existing, ok := s.teams[team.Abbreviation]; ok {
		existing.Name = team.Name
		team.ID = existing.ID
		return nil
	}
	team.ID = s.id()
	cp := *team
	s.teams[team.Abbreviation] = &cp
	return nil
}

func playerKey(name string, teamID int) string {
	return fmt.Sprintf("%s|%d", name, teamID)
}

func (s *fakeStore) UpsertPlayer(_ context.Context, player *models.Player) error {
	key := playerKey(player.Name, player.TeamID)
	if existing, ok := s.players[key]; ok {
		if !existing.Position.Valid && player.Position.Valid {
			existing.Position = player.Position
		}
		player.ID = existing.ID
		player.Position = existing.Position
		return nil
	}
	player.ID = s.id()
	cp := *player
	s.players[key] = &cp
	return nil
}

func (s *fakeStore) GetGameByExternalID(_ context.Context, externalID int64) (*models.Game, error) {
	game, ok := s.games[externalID]
	if !ok {
		return nil, fmt.Errorf("game external_id=%d: %w", externalID, repository.ErrNotFound)
	}
	cp := *game
	return &cp, nil
}

func (s *fakeStore) InsertGame(_ context.Context, game *models.Game) error {
	if _, ok := s.games[game.ExternalID]; ok {
		return fmt.Errorf("duplicate external_id %d", game.ExternalID)
	}
	game.ID = s.id()
	cp := *game
	s.games[game.ExternalID] = &cp
	return nil
}

func (s *fakeStore) UpdateGameProgress(_ context.Context, game *models.Game) error {
	existing, ok := s.games[game.ExternalID]
	if !ok || existing.Status == models.StatusFinal {
		return fmt.Errorf("game external_id=%d: %w", game.ExternalID, repository.ErrNotFound)
	}
	existing.Season = game.Season
	existing.Status = game.Status
	existing.HomeScore = game.HomeScore
	existing.AwayScore = game.AwayScore
	existing.Venue = game.Venue
	existing.GameType = game.GameType
	return nil
}

func (s *fakeStore) ListFinalGameMeta(_ context.Context) ([]models.GameMeta, error) {
	var metas []models.GameMeta
	for _, g := range s.games {
		if g.Status != models.StatusFinal {
			continue
		}
		metas = append(metas, models.GameMeta{
			GameID:     g.ID,
			ExternalID: g.ExternalID,
			Season:     g.Season,
			GameDate:   g.GameDate,
			HomeTeamID: g.HomeTeamID,
			AwayTeamID: g.AwayTeamID,
		})
	}
	sort.Slice(metas, func(i, j int) bool {
		if !metas[i].GameDate.Equal(metas[j].GameDate) {
			return metas[i].GameDate.Before(metas[j].GameDate)
		}
		return metas[i].ExternalID < metas[j].ExternalID
	})
	return metas, nil
}

func (s *fakeStore) UpsertPlayerStat(_ context.Context, stat *models.PlayerGameStat) error {
	cp := *stat
	s.playerStats[[2]int{stat.PlayerID, stat.GameID}] = &cp
	return nil
}

func (s *fakeStore) UpsertDefenseStat(_ context.Context, stat *models.TeamGameDefenseStat) error {
	cp := *stat
	s.defense[[2]int{stat.GameID, stat.PlayerID}] = &cp
	return nil
}

// fakeSource serves scripted schedule pages and box scores
type fakeSource struct {
	pages     map[string]*client.SchedulePage
	boxscores map[int64]*client.RawBoxscore

	// dates that fail with a transient error before succeeding is modeled by
	// mutating the maps between runs; permanent failures live here
	failDates map[string]error
	failBoxes map[int64]error

	scheduleCalls []string
	boxscoreCalls []int64
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages:     make(map[string]*client.SchedulePage),
		boxscores: make(map[int64]*client.RawBoxscore),
		failDates: make(map[string]error),
		failBoxes: make(map[int64]error),
	}
}

func (s *fakeSource) FetchSchedule(_ context.Context, date string) (*client.SchedulePage, error) {
	s.scheduleCalls = append(s.scheduleCalls, date)
	if err, ok := s.failDates[date]; ok {
		return nil, err
	}
	page, ok := s.pages[date]
	if !ok {
		return nil, &client.FetchError{StatusCode: 404, NotFound: true, Err: fmt.Errorf("not found: %s", date)}
	}
	return page, nil
}

func (s *fakeSource) FetchBoxscore(_ context.Context, externalID int64) (*client.RawBoxscore, error) {
	s.boxscoreCalls = append(s.boxscoreCalls, externalID)
	if err, ok := s.failBoxes[externalID]; ok {
		return nil, err
	}
	box, ok := s.boxscores[externalID]
	if !ok {
		return nil, &client.FetchError{StatusCode: 404, NotFound: true, Err: fmt.Errorf("not found: %d", externalID)}
	}
	return box, nil
}

func intPtr(v int) *int { return &v }
