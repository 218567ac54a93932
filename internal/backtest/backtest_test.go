package backtest

import (
	"errors"
	"testing"
	"time"

	"nhl_v1/pipeline/internal/features"
	"nhl_v1/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonForDate(t *testing.T) {
	october := time.Month(10)

	assert.Equal(t, "20242025", SeasonForDate(time.Date(2024, 10, 8, 0, 0, 0, 0, time.UTC), october))
	assert.Equal(t, "20242025", SeasonForDate(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), october))
	assert.Equal(t, "20232024", SeasonForDate(time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), october))
	assert.Equal(t, "20252026", SeasonForDate(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), october))

	// cutoff is configurable
	assert.Equal(t, "20242025", SeasonForDate(time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC), time.September))
}

// seasonRows makes n feature rows for one season with the given goals value
func seasonRows(season string, year int, n int, goals float64) []models.TeamVsOpponentFeature {
	rows := make([]models.TeamVsOpponentFeature, n)
	for i := range rows {
		rows[i] = models.TeamVsOpponentFeature{
			GameID:      i + 1,
			TeamID:      1,
			OppTeamID:   2,
			HomeAway:    features.Home,
			Season:      season,
			GameDate:    time.Date(year, 11, 1+i, 0, 0, 0, 0, time.UTC),
			Goals:       goals,
			OppGoals:    1,
			ShotsLast5:  goals * 10,
			PointsLast5: goals * 2,
		}
	}
	return rows
}

func TestRun_WalkForwardEvaluatesEverySeasonButTheFirst(t *testing.T) {
	var rows []models.TeamVsOpponentFeature
	rows = append(rows, seasonRows("20222023", 2022, 20, 3)...)
	rows = append(rows, seasonRows("20232024", 2023, 20, 3)...)
	rows = append(rows, seasonRows("20242025", 2024, 20, 3)...)

	report, err := Run(rows, NewRidgeScorer(0.001), Config{Target: TargetGoals, CutoffMonth: time.October})
	require.NoError(t, err)

	require.Len(t, report.Seasons, 2, "season 0 is never evaluated")
	assert.Equal(t, "20232024", report.Seasons[0].Season)
	assert.Equal(t, "20242025", report.Seasons[1].Season)

	// second held-out season trains on both earlier ones
	assert.Equal(t, 20, report.Seasons[0].TrainRows)
	assert.Equal(t, 40, report.Seasons[1].TrainRows)
	assert.Equal(t, 40, report.Rows)

	// constant target is learned almost exactly
	assert.InDelta(t, 0.0, report.MAE, 0.05)
}

func TestRun_SingleSeasonIsFatal(t *testing.T) {
	rows := seasonRows("20242025", 2024, 10, 3)
	_, err := Run(rows, NewRidgeScorer(0.001), Config{Target: TargetGoals, CutoffMonth: time.October})
	require.Error(t, err)
}

func TestRun_EmptyInputIsFatal(t *testing.T) {
	_, err := Run(nil, NewRidgeScorer(0.001), Config{Target: TargetGoals, CutoffMonth: time.October})
	require.Error(t, err)
}

func TestRun_UnknownTargetRejected(t *testing.T) {
	rows := seasonRows("20242025", 2024, 10, 3)
	_, err := Run(rows, NewRidgeScorer(0.001), Config{Target: "wins", CutoffMonth: time.October})
	require.Error(t, err)
}

func TestRun_DerivesSeasonLabelWhenMissing(t *testing.T) {
	var rows []models.TeamVsOpponentFeature
	rows = append(rows, seasonRows("", 2022, 10, 3)...)
	rows = append(rows, seasonRows("", 2023, 10, 3)...)

	report, err := Run(rows, NewRidgeScorer(0.001), Config{Target: TargetGoals, CutoffMonth: time.October})
	require.NoError(t, err)
	require.Len(t, report.Seasons, 1)
	assert.Equal(t, "20232024", report.Seasons[0].Season)
}

// stubScorer returns fixed predictions regardless of input
type stubScorer struct {
	preds []float64
}

func (s *stubScorer) Fit(_ [][]float64, _ []float64) error { return nil }

func (s *stubScorer) Predict(x [][]float64) ([]float64, error) {
	if len(x) != len(s.preds) {
		return nil, errors.New("unexpected test partition size")
	}
	return append([]float64(nil), s.preds...), nil
}

func TestRun_NegativeGoalPredictionsAreClipped(t *testing.T) {
	var rows []models.TeamVsOpponentFeature
	rows = append(rows, seasonRows("20222023", 2022, 2, 3)...)
	rows = append(rows, seasonRows("20232024", 2023, 2, 1)...)

	scorer := &stubScorer{preds: []float64{-2, -2}}
	report, err := Run(rows, scorer, Config{Target: TargetGoals, CutoffMonth: time.October})
	require.NoError(t, err)

	// clipped to 0, actual 1: MAE is 1, not 3
	assert.InDelta(t, 1.0, report.Seasons[0].MAE, 1e-9)
}

func TestRun_GoalDiffPredictionsAreNotClipped(t *testing.T) {
	var rows []models.TeamVsOpponentFeature
	rows = append(rows, seasonRows("20222023", 2022, 2, 3)...)
	// test season: goals 1, opp goals 1 -> diff 0
	rows = append(rows, seasonRows("20232024", 2023, 2, 1)...)

	scorer := &stubScorer{preds: []float64{-2, -2}}
	report, err := Run(rows, scorer, Config{Target: TargetGoalDiff, CutoffMonth: time.October})
	require.NoError(t, err)

	// actual diff is 0, prediction -2 stands
	assert.InDelta(t, 2.0, report.Seasons[0].MAE, 1e-9)
}

func TestRidgeScorer_RecoversLinearRelation(t *testing.T) {
	// y = 1 + 2a + 3b
	var x [][]float64
	var y []float64
	for a := 0.0; a < 5; a++ {
		for b := 0.0; b < 5; b++ {
			x = append(x, []float64{a, b})
			y = append(y, 1+2*a+3*b)
		}
	}

	scorer := NewRidgeScorer(1e-6)
	require.NoError(t, scorer.Fit(x, y))

	preds, err := scorer.Predict([][]float64{{1, 1}, {4, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, preds[0], 1e-3)
	assert.InDelta(t, 9.0, preds[1], 1e-3)
}

func TestRidgeScorer_Guards(t *testing.T) {
	scorer := NewRidgeScorer(0.001)

	_, err := scorer.Predict([][]float64{{1}})
	assert.Error(t, err, "predict before fit must fail")

	assert.Error(t, scorer.Fit(nil, nil), "empty training set must fail")
	assert.Error(t, scorer.Fit([][]float64{{1, 2}}, []float64{1, 2}), "length mismatch must fail")

	require.NoError(t, scorer.Fit([][]float64{{1}, {2}, {3}}, []float64{1, 2, 3}))
	_, err = scorer.Predict([][]float64{{1, 2}})
	assert.Error(t, err, "ragged prediction row must fail")
}

func TestFeatureVector_HomeAwayEncoding(t *testing.T) {
	home := models.TeamVsOpponentFeature{HomeAway: features.Home}
	away := models.TeamVsOpponentFeature{HomeAway: features.Away}

	assert.Equal(t, 1.0, FeatureVector(&home)[6])
	assert.Equal(t, 0.0, FeatureVector(&away)[6])
	assert.Len(t, FeatureVector(&home), 17)
}
