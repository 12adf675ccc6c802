package inference

import (
	"math"

	"autostat/domain/core"

	"gonum.org/v1/gonum/stat"
)

// RegressionResult holds an ordinary least squares fit of y on x with an intercept
type RegressionResult struct {
	Intercept   float64
	Slope       float64
	SlopeStdErr float64
	SlopePValue float64
	RSquared    float64
	Residuals   []float64
	N           int
}

// LinearRegression fits y = a + b*x and tests b against zero with n-2
// degrees of freedom
func LinearRegression(x, y []float64) (RegressionResult, error) {
	n := len(x)
	if n != len(y) {
		return RegressionResult{}, core.NewDegenerateError("predictor and response lengths differ (%d vs %d)", n, len(y))
	}
	if n < 3 {
		return RegressionResult{}, core.ErrInsufficientData
	}
	if allEqual(x) {
		return RegressionResult{}, core.NewDegenerateError("predictor is constant")
	}
	if allEqual(y) {
		return RegressionResult{}, core.NewDegenerateError("response is constant")
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)

	mx := stat.Mean(x, nil)
	var sxx, sse float64
	residuals := make([]float64, n)
	for i := range x {
		residuals[i] = y[i] - (alpha + beta*x[i])
		sse += residuals[i] * residuals[i]
		d := x[i] - mx
		sxx += d * d
	}

	df := float64(n - 2)
	se := math.Sqrt(sse / df / sxx)
	var p float64
	if se == 0 {
		p = 0
	} else {
		p = TTestPValue(beta/se, df)
	}

	return RegressionResult{
		Intercept:   alpha,
		Slope:       beta,
		SlopeStdErr: se,
		SlopePValue: p,
		RSquared:    r2,
		Residuals:   residuals,
		N:           n,
	}, nil
}
