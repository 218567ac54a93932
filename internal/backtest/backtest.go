package backtest

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"nhl_v1/pipeline/internal/features"
	"nhl_v1/pipeline/internal/metrics"
	"nhl_v1/pipeline/internal/models"

	"github.com/rs/zerolog/log"
)

// Prediction targets
const (
	TargetGoals    = "goals"
	TargetGoalDiff = "goal_diff"
)

// Config controls a backtest run
type Config struct {
	Target      string
	CutoffMonth time.Month
}

// SeasonResult is the held-out evaluation of one season
type SeasonResult struct {
	Season    string
	TrainRows int
	TestRows  int
	MAE       float64
}

// Report aggregates all held-out seasons of one backtest run
type Report struct {
	Target  string
	Seasons []SeasonResult

	// MAE over the concatenation of every held-out prediction
	MAE  float64
	Rows int
}

// Run evaluates the scorer season by season: for each season after the first,
// fit on every strictly earlier season and score the held-out one. The first
// season has no training history and is never evaluated.
func Run(rows []models.TeamVsOpponentFeature, scorer Scorer, cfg Config) (*Report, error) {
	if len(rows) == 0 {
		return nil, errors.New("no feature rows to backtest")
	}
	if cfg.Target != TargetGoals && cfg.Target != TargetGoalDiff {
		return nil, fmt.Errorf("unknown backtest target %q", cfg.Target)
	}

	bySeason := make(map[string][]int)
	for i := range rows {
		label := rows[i].Season
		if label == "" {
			label = SeasonForDate(rows[i].GameDate, cfg.CutoffMonth)
		}
		bySeason[label] = append(bySeason[label], i)
	}

	seasons := make([]string, 0, len(bySeason))
	for s := range bySeason {
		seasons = append(seasons, s)
	}
	sort.Strings(seasons)

	log.Info().
		Strs("seasons", seasons).
		Int("rows", len(rows)).
		Str("target", cfg.Target).
		Msg("Starting walk-forward backtest")

	report := &Report{Target: cfg.Target}
	var absErrSum float64

	for i := 1; i < len(seasons); i++ {
		var trainIdx []int
		for _, s := range seasons[:i] {
			trainIdx = append(trainIdx, bySeason[s]...)
		}
		testIdx := bySeason[seasons[i]]

		if len(trainIdx) == 0 || len(testIdx) == 0 {
			log.Warn().
				Str("season", seasons[i]).
				Int("train_rows", len(trainIdx)).
				Int("test_rows", len(testIdx)).
				Msg("Skipping season with empty partition")
			continue
		}

		xTrain, yTrain := designMatrix(rows, trainIdx, cfg.Target)
		xTest, yTest := designMatrix(rows, testIdx, cfg.Target)

		if err := scorer.Fit(xTrain, yTrain); err != nil {
			return nil, fmt.Errorf("season %s: fit failed: %w", seasons[i], err)
		}
		preds, err := scorer.Predict(xTest)
		if err != nil {
			return nil, fmt.Errorf("season %s: predict failed: %w", seasons[i], err)
		}

		// goals is a count; a linear scorer can go negative on weak lineups
		if cfg.Target == TargetGoals {
			for j, p := range preds {
				if p < 0 {
					preds[j] = 0
				}
			}
		}

		var seasonAbsErr float64
		for j := range preds {
			seasonAbsErr += math.Abs(preds[j] - yTest[j])
		}
		mae := seasonAbsErr / float64(len(preds))

		absErrSum += seasonAbsErr
		report.Rows += len(preds)
		report.Seasons = append(report.Seasons, SeasonResult{
			Season:    seasons[i],
			TrainRows: len(trainIdx),
			TestRows:  len(testIdx),
			MAE:       mae,
		})
		metrics.BacktestSeasonMAE.WithLabelValues(seasons[i]).Set(mae)

		log.Info().
			Str("season", seasons[i]).
			Int("train_rows", len(trainIdx)).
			Int("test_rows", len(testIdx)).
			Float64("mae", mae).
			Msg("Season evaluated")
	}

	if report.Rows == 0 {
		return nil, errors.New("no backtest results generated: need at least two seasons with data")
	}
	report.MAE = absErrSum / float64(report.Rows)

	return report, nil
}

// designMatrix extracts the feature vectors and target values for a row subset
func designMatrix(rows []models.TeamVsOpponentFeature, idx []int, target string) ([][]float64, []float64) {
	x := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	for i, ri := range idx {
		x[i] = FeatureVector(&rows[ri])
		y[i] = targetValue(&rows[ri], target)
	}
	return x, y
}

// FeatureVector flattens one feature row into the scorer's input order
func FeatureVector(f *models.TeamVsOpponentFeature) []float64 {
	homeAway := 0.0
	if f.HomeAway == features.Home {
		homeAway = 1.0
	}
	return []float64{
		f.ShotsLast5,
		f.HitsLast5,
		f.PointsLast5,
		f.OppShotsLast5,
		f.OppHitsLast5,
		f.OppPointsLast5,
		homeAway,
		f.DefBlockedShotsLast5,
		f.DefHitsLast5,
		f.DefTakeawaysLast5,
		f.DefGiveawaysLast5,
		f.DefPlusMinusLast5,
		f.OppDefBlockedShotsLast5,
		f.OppDefHitsLast5,
		f.OppDefTakeawaysLast5,
		f.OppDefGiveawaysLast5,
		f.OppDefPlusMinusLast5,
	}
}

func targetValue(f *models.TeamVsOpponentFeature, target string) float64 {
	if target == TargetGoalDiff {
		return f.Goals - f.OppGoals
	}
	return f.Goals
}
