// Package regress fits the profit-on-sales baseline: a deterministic
// 80/20 split, ordinary least squares in closed form on the training
// partition, and MSE/R² on the held-out partition.
package regress

import (
	"fmt"
	"math"
	"math/rand"

	"superstore/pkg/contracts/domain"
)

// DefaultSeed drives the split shuffle. It is part of the contract:
// changing it changes every reported metric.
const DefaultSeed int64 = 42

// testFraction is the held-out share of rows, rounded up.
const testFraction = 0.2

// InsufficientDataError reports a table too small or too degenerate to
// fit: fewer than 2 training rows, or zero sales variance.
type InsufficientDataError struct {
	Rows   int
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for regression (%d rows): %s", e.Rows, e.Reason)
}

// Fit runs the baseline with the default seed
func Fit(records []domain.Record) (domain.RegressionReport, error) {
	return FitSeed(records, DefaultSeed)
}

// FitSeed partitions records with the given seed, fits profit on sales
// over the training partition, and evaluates on the test partition.
//
// The split is defined exactly as: shuffle indices with
// rand.New(rand.NewSource(seed)).Perm(n); testCount = ceil(n/5); the
// first n-testCount shuffled indices train, the rest test.
func FitSeed(records []domain.Record, seed int64) (domain.RegressionReport, error) {
	n := len(records)
	trainIdx, testIdx := split(n, seed)
	if len(trainIdx) < 2 {
		return domain.RegressionReport{}, &InsufficientDataError{Rows: n, Reason: "need at least 2 training rows"}
	}

	slope, intercept, err := fitOLS(records, trainIdx)
	if err != nil {
		return domain.RegressionReport{}, err
	}

	mse, r2 := evaluate(records, testIdx, slope, intercept)

	return domain.RegressionReport{
		Slope:     slope,
		Intercept: intercept,
		MSE:       mse,
		R2:        r2,
		TrainRows: len(trainIdx),
		TestRows:  len(testIdx),
		Seed:      seed,
	}, nil
}

func split(n int, seed int64) (train, test []int) {
	if n == 0 {
		return nil, nil
	}
	testCount := int(math.Ceil(float64(n) * testFraction))
	trainCount := n - testCount

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[:trainCount], perm[trainCount:]
}

// fitOLS computes the closed-form least-squares line of profit on
// sales over the given rows: slope = Sxy/Sxx, intercept = ȳ - slope·x̄.
func fitOLS(records []domain.Record, idx []int) (slope, intercept float64, err error) {
	m := float64(len(idx))

	var sumX, sumY float64
	for _, i := range idx {
		sumX += records[i].Sales
		sumY += records[i].Profit
	}
	meanX := sumX / m
	meanY := sumY / m

	var sxx, sxy float64
	for _, i := range idx {
		dx := records[i].Sales - meanX
		sxx += dx * dx
		sxy += dx * (records[i].Profit - meanY)
	}

	if sxx == 0 {
		return 0, 0, &InsufficientDataError{Rows: len(idx), Reason: "zero sales variance in training partition"}
	}

	slope = sxy / sxx
	intercept = meanY - slope*meanX
	return slope, intercept, nil
}

// evaluate computes MSE and R² over the test partition. R² uses the
// test-partition mean; zero test variance degenerates to 1 for a
// perfect fit and 0 otherwise.
func evaluate(records []domain.Record, idx []int, slope, intercept float64) (mse, r2 float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	m := float64(len(idx))

	var sumY float64
	for _, i := range idx {
		sumY += records[i].Profit
	}
	meanY := sumY / m

	var ssRes, ssTot float64
	for _, i := range idx {
		predicted := intercept + slope*records[i].Sales
		residual := records[i].Profit - predicted
		ssRes += residual * residual

		dy := records[i].Profit - meanY
		ssTot += dy * dy
	}

	mse = ssRes / m
	if ssTot == 0 {
		if ssRes == 0 {
			return mse, 1
		}
		return mse, 0
	}
	return mse, 1 - ssRes/ssTot
}
