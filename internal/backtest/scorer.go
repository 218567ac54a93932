package backtest

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Scorer is a regression model fitted on a training partition and evaluated
// on a held-out one
type Scorer interface {
	Fit(x [][]float64, y []float64) error
	Predict(x [][]float64) ([]float64, error)
}

// RidgeScorer is a least-squares linear model with L2 regularization and an
// intercept. The small default alpha exists to keep the normal equations
// solvable when feature columns are collinear.
type RidgeScorer struct {
	Alpha float64

	beta *mat.VecDense
}

// NewRidgeScorer creates a ridge scorer with the given regularization strength
func NewRidgeScorer(alpha float64) *RidgeScorer {
	return &RidgeScorer{Alpha: alpha}
}

// Fit solves the regularized normal equations over the training partition
func (s *RidgeScorer) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 {
		return errors.New("empty training set")
	}
	if n != len(y) {
		return fmt.Errorf("feature/target length mismatch: %d vs %d", n, len(y))
	}

	// design matrix with a leading intercept column
	p := len(x[0]) + 1
	a := mat.NewDense(n, p, nil)
	for i, row := range x {
		if len(row)+1 != p {
			return fmt.Errorf("ragged feature row %d: got %d columns, want %d", i, len(row), p-1)
		}
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)
	for j := 0; j < p; j++ {
		ata.Set(j, j, ata.At(j, j)+s.Alpha)
	}

	var aty mat.VecDense
	aty.MulVec(a.T(), mat.NewVecDense(n, y))

	beta := mat.NewVecDense(p, nil)
	if err := beta.SolveVec(&ata, &aty); err != nil {
		return fmt.Errorf("failed to solve normal equations: %w", err)
	}

	s.beta = beta
	return nil
}

// Predict scores a feature matrix with the fitted coefficients
func (s *RidgeScorer) Predict(x [][]float64) ([]float64, error) {
	if s.beta == nil {
		return nil, errors.New("scorer not fitted")
	}

	p := s.beta.Len()
	preds := make([]float64, len(x))
	for i, row := range x {
		if len(row)+1 != p {
			return nil, fmt.Errorf("ragged feature row %d: got %d columns, want %d", i, len(row), p-1)
		}
		v := s.beta.AtVec(0)
		for j, f := range row {
			v += s.beta.AtVec(j+1) * f
		}
		preds[i] = v
	}
	return preds, nil
}
