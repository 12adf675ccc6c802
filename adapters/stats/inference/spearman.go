package inference

import (
	"math"

	"autostat/domain/core"

	"gonum.org/v1/gonum/stat"
)

// SpearmanResult holds a rank correlation and its significance
type SpearmanResult struct {
	Rho    float64
	PValue float64
	N      int
}

// Spearman computes the Pearson correlation of average ranks and tests it
// with a t statistic on n-2 degrees of freedom
func Spearman(x, y []float64) (SpearmanResult, error) {
	n := len(x)
	if n != len(y) {
		return SpearmanResult{}, core.NewDegenerateError("sample lengths differ (%d vs %d)", n, len(y))
	}
	if n < 3 {
		return SpearmanResult{}, core.ErrInsufficientData
	}
	if allEqual(x) || allEqual(y) {
		return SpearmanResult{}, core.NewDegenerateError("rank correlation is undefined for a constant input")
	}

	rx, _ := Rank(x)
	ry, _ := Rank(y)
	rho := stat.Correlation(rx, ry, nil)
	// guard tiny overshoots from floating point
	rho = math.Max(-1, math.Min(1, rho))

	return SpearmanResult{
		Rho:    rho,
		PValue: CorrelationPValue(rho, n),
		N:      n,
	}, nil
}
