package inference

import (
	"math"

	"autostat/domain/core"

	"gonum.org/v1/gonum/stat"
)

// BreuschPaganResult holds the studentized (Koenker) Breusch-Pagan test
type BreuschPaganResult struct {
	LM     float64
	PValue float64
	DF     int
}

// BreuschPagan tests regression residuals for heteroscedasticity against a
// single regressor: LM = n * R^2 of the squared residuals on [1, x], compared
// with chi-square on one degree of freedom. Constant squared residuals carry
// no evidence of heteroscedasticity and give p = 1.
func BreuschPagan(residuals, x []float64) (BreuschPaganResult, error) {
	n := len(residuals)
	if n != len(x) {
		return BreuschPaganResult{}, core.NewDegenerateError("residual and regressor lengths differ (%d vs %d)", n, len(x))
	}
	if n < 3 {
		return BreuschPaganResult{}, core.ErrInsufficientData
	}

	sq := make([]float64, n)
	for i, e := range residuals {
		sq[i] = e * e
	}
	if allEqual(sq) || allEqual(x) {
		return BreuschPaganResult{LM: 0, PValue: 1, DF: 1}, nil
	}

	alpha, beta := stat.LinearRegression(x, sq, nil, false)
	r2 := stat.RSquared(x, sq, nil, alpha, beta)
	if math.IsNaN(r2) {
		return BreuschPaganResult{LM: 0, PValue: 1, DF: 1}, nil
	}
	lm := float64(n) * r2
	return BreuschPaganResult{LM: lm, PValue: ChiSquarePValue(lm, 1), DF: 1}, nil
}
