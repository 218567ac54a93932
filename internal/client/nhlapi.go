package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nhl_v1/pipeline/internal/metrics"

	"github.com/rs/zerolog/log"
)

// FetchError classifies an upstream failure. Retryable errors (timeouts, 5xx,
// 429) are retried by the client up to the policy's attempt bound; NotFound is
// terminal for the requested unit and never retried.
type FetchError struct {
	StatusCode int
	Retryable  bool
	NotFound   bool
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a terminal not-found fetch failure
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.NotFound
}

// IsRetryable reports whether err is a transient fetch failure
func IsRetryable(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Retryable
}

// RetryPolicy bounds how often a transient failure is retried. Delay doubles
// on each attempt.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the upstream provider's published guidance
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 1 * time.Second}
}

// Client is the NHL schedule/box-score API client. It is the only place that
// sees the upstream JSON shape; callers receive normalized raw records.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
}

// NewClient creates a new NHL API client
func NewClient(baseURL string, timeout time.Duration, retry RetryPolicy) *Client {
	if retry.MaxAttempts < 1 {
		retry = DefaultRetryPolicy()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		retry:   retry,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with bounded retries on transient failures and
// records the call against the given endpoint label
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	started := time.Now()
	body, err := c.doGet(ctx, path)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAPICall(endpoint, status, time.Since(started).Seconds())

	return body, err
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := c.retry.Delay * time.Duration(1<<uint(attempt-2))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "nhl-pipeline/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = &FetchError{Retryable: true, Err: fmt.Errorf("API request failed: %w", err)}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &FetchError{Retryable: true, Err: fmt.Errorf("failed to read response body: %w", err)}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			log.Debug().
				Str("url", url).
				Int("size", len(body)).
				Msg("API request successful")
			return body, nil

		case resp.StatusCode == http.StatusNotFound:
			return nil, &FetchError{StatusCode: resp.StatusCode, NotFound: true,
				Err: fmt.Errorf("not found: %s", url)}

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = &FetchError{StatusCode: resp.StatusCode, Retryable: true,
				Err: fmt.Errorf("API returned retryable status %d", resp.StatusCode)}
			log.Warn().
				Str("url", url).
				Int("status", resp.StatusCode).
				Int("attempt", attempt).
				Msg("Received retryable error")
			continue

		default:
			return nil, &FetchError{StatusCode: resp.StatusCode,
				Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))}
		}
	}

	return nil, lastErr
}

// upstream wire shapes; these never leave this package

type wireName struct {
	Default string `json:"default"`
}

type wireScheduleTeam struct {
	Abbrev     string   `json:"abbrev"`
	CommonName wireName `json:"commonName"`
	Name       wireName `json:"name"`
	Score      *int     `json:"score"`
}

func (t wireScheduleTeam) displayName() string {
	if t.CommonName.Default != "" {
		return t.CommonName.Default
	}
	return t.Name.Default
}

type wireScheduleGame struct {
	ID           int64            `json:"id"`
	Season       int64            `json:"season"`
	GameType     int              `json:"gameType"`
	GameState    string           `json:"gameState"`
	StartTimeUTC string           `json:"startTimeUTC"`
	Venue        wireName         `json:"venue"`
	HomeTeam     wireScheduleTeam `json:"homeTeam"`
	AwayTeam     wireScheduleTeam `json:"awayTeam"`
}

type wireScheduleDay struct {
	Date  string             `json:"date"`
	Games []wireScheduleGame `json:"games"`
}

type wireSchedule struct {
	GameWeek      []wireScheduleDay `json:"gameWeek"`
	NextStartDate string            `json:"nextStartDate"`
}

type wirePlayerLine struct {
	Name         wireName `json:"name"`
	Position     string   `json:"position"`
	Goals        int      `json:"goals"`
	Assists      int      `json:"assists"`
	Points       int      `json:"points"`
	SOG          int      `json:"sog"`
	Hits         int      `json:"hits"`
	BlockedShots int      `json:"blockedShots"`
	PIM          int      `json:"pim"`
	PlusMinus    int      `json:"plusMinus"`
	Shifts       int      `json:"shifts"`
	Giveaways    int      `json:"giveaways"`
	Takeaways    int      `json:"takeaways"`
	GoalsAgainst int      `json:"goalsAgainst"`
	ShotsAgainst int      `json:"shotsAgainst"`
	TOI          string   `json:"toi"`
}

type wireBoxscoreSide struct {
	Forwards []wirePlayerLine `json:"forwards"`
	Defense  []wirePlayerLine `json:"defense"`
	Goalies  []wirePlayerLine `json:"goalies"`
}

type wireBoxscore struct {
	ID                int64            `json:"id"`
	Season            int64            `json:"season"`
	HomeTeam          wireScheduleTeam `json:"homeTeam"`
	AwayTeam          wireScheduleTeam `json:"awayTeam"`
	PlayerByGameStats struct {
		HomeTeam wireBoxscoreSide `json:"homeTeam"`
		AwayTeam wireBoxscoreSide `json:"awayTeam"`
	} `json:"playerByGameStats"`
}

// FetchSchedule fetches the schedule week starting at date (YYYY-MM-DD) and
// returns normalized raw game records plus the next page's start date.
func (c *Client) FetchSchedule(ctx context.Context, date string) (*SchedulePage, error) {
	body, err := c.get(ctx, "schedule", fmt.Sprintf("schedule/%s", date))
	if err != nil {
		return nil, err
	}

	var sched wireSchedule
	if err := json.Unmarshal(body, &sched); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	page := &SchedulePage{NextStartDate: sched.NextStartDate}
	for _, day := range sched.GameWeek {
		for _, g := range day.Games {
			start, err := time.Parse(time.RFC3339, g.StartTimeUTC)
			if err != nil {
				log.Warn().
					Int64("game_id", g.ID).
					Str("start_time", g.StartTimeUTC).
					Msg("Skipping game with malformed start time")
				continue
			}
			page.Games = append(page.Games, RawGame{
				ExternalID:   g.ID,
				Season:       seasonLabel(g.Season),
				GameType:     g.GameType,
				State:        g.GameState,
				StartTimeUTC: start,
				Venue:        g.Venue.Default,
				Home:         RawTeam{Abbrev: g.HomeTeam.Abbrev, Name: g.HomeTeam.displayName()},
				Away:         RawTeam{Abbrev: g.AwayTeam.Abbrev, Name: g.AwayTeam.displayName()},
				HomeScore:    g.HomeTeam.Score,
				AwayScore:    g.AwayTeam.Score,
			})
		}
	}

	return page, nil
}

// FetchBoxscore fetches and normalizes the box score for one game
func (c *Client) FetchBoxscore(ctx context.Context, externalID int64) (*RawBoxscore, error) {
	body, err := c.get(ctx, "boxscore", fmt.Sprintf("gamecenter/%d/boxscore", externalID))
	if err != nil {
		return nil, err
	}
	return ParseBoxscore(body)
}

// ParseBoxscore normalizes a raw box-score payload. Split out from
// FetchBoxscore so cached payloads go through the same path.
func ParseBoxscore(body []byte) (*RawBoxscore, error) {
	var box wireBoxscore
	if err := json.Unmarshal(body, &box); err != nil {
		return nil, fmt.Errorf("failed to unmarshal boxscore: %w", err)
	}

	return &RawBoxscore{
		ExternalID: box.ID,
		Season:     seasonLabel(box.Season),
		Home: RawBoxscoreTeam{
			Abbrev:  box.HomeTeam.Abbrev,
			Name:    box.HomeTeam.displayName(),
			Players: normalizeSide(box.PlayerByGameStats.HomeTeam),
		},
		Away: RawBoxscoreTeam{
			Abbrev:  box.AwayTeam.Abbrev,
			Name:    box.AwayTeam.displayName(),
			Players: normalizeSide(box.PlayerByGameStats.AwayTeam),
		},
	}, nil
}

func normalizeSide(side wireBoxscoreSide) []RawPlayerLine {
	lines := make([]RawPlayerLine, 0, len(side.Forwards)+len(side.Defense)+len(side.Goalies))
	for _, p := range side.Forwards {
		lines = append(lines, normalizeSkater(p))
	}
	for _, p := range side.Defense {
		lines = append(lines, normalizeSkater(p))
	}
	for _, p := range side.Goalies {
		// Goalie lines carry goals/shots against in the Goals/Shots slots so
		// the feature stage can aggregate them as "against" totals.
		lines = append(lines, RawPlayerLine{
			Name:          p.Name.Default,
			Position:      "G",
			Goals:         p.GoalsAgainst,
			Shots:         p.ShotsAgainst,
			TimeOnIceSecs: parseTOI(p.TOI),
		})
	}
	return lines
}

func normalizeSkater(p wirePlayerLine) RawPlayerLine {
	return RawPlayerLine{
		Name:          p.Name.Default,
		Position:      p.Position,
		Goals:         p.Goals,
		Assists:       p.Assists,
		Points:        p.Points,
		Shots:         p.SOG,
		Hits:          p.Hits,
		BlockedShots:  p.BlockedShots,
		PIM:           p.PIM,
		PlusMinus:     p.PlusMinus,
		Shifts:        p.Shifts,
		Giveaways:     p.Giveaways,
		Takeaways:     p.Takeaways,
		TimeOnIceSecs: parseTOI(p.TOI),
	}
}

// parseTOI converts "MM:SS" into seconds; malformed values become 0
func parseTOI(toi string) int {
	parts := strings.SplitN(toi, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	m, err1 := strconv.Atoi(parts[0])
	s, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return m*60 + s
}

// seasonLabel formats the upstream numeric season code (e.g. 20242025)
func seasonLabel(code int64) string {
	if code == 0 {
		return ""
	}
	return strconv.FormatInt(code, 10)
}
