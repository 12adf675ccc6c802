// Package assumptions checks the validity conditions of the parametric tests.
// Every check is pure and reports a verdict together with the evidence it
// was based on.
package assumptions

import (
	"fmt"
	"math"

	"autostat/adapters/stats/inference"
)

// Alpha is the level every check is held to: an assumption holds when its
// test's p-value exceeds it
const Alpha = 0.05

// MinExpectedCount is the smallest expected cell count a chi-square test tolerates
const MinExpectedCount = 5.0

// Verdict is the outcome of one assumption check
type Verdict struct {
	Holds     bool
	PValue    float64
	Statistic float64
}

func fromPValue(p, statistic float64) Verdict {
	// NaN compares false, so an undefined test never passes
	return Verdict{Holds: p > Alpha, PValue: p, Statistic: statistic}
}

// Normality runs Shapiro-Wilk on every group. The verdict carries the smallest
// p-value and the W of that group, and holds only if that p-value exceeds Alpha.
func Normality(groups ...[]float64) (Verdict, error) {
	if len(groups) == 0 {
		return Verdict{}, fmt.Errorf("normality check needs at least one group")
	}
	worst := Verdict{PValue: math.Inf(1)}
	for i, g := range groups {
		sw, err := inference.ShapiroWilk(g)
		if err != nil {
			return Verdict{}, fmt.Errorf("normality of group %d: %w", i+1, err)
		}
		if sw.PValue < worst.PValue || math.IsNaN(sw.PValue) {
			worst = Verdict{PValue: sw.PValue, Statistic: sw.W}
		}
	}
	return fromPValue(worst.PValue, worst.Statistic), nil
}

// VarianceHomogeneity runs the median-centred Levene test across groups
func VarianceHomogeneity(groups ...[]float64) (Verdict, error) {
	lev, err := inference.Levene(groups...)
	if err != nil {
		return Verdict{}, fmt.Errorf("variance homogeneity: %w", err)
	}
	return fromPValue(lev.PValue, lev.W), nil
}

// ResidualDiagnostics checks a fitted regression: residual normality with
// Shapiro-Wilk and constant residual variance with Breusch-Pagan
func ResidualDiagnostics(fit inference.RegressionResult, predictor []float64) (normal, homoscedastic Verdict, err error) {
	sw, err := inference.ShapiroWilk(fit.Residuals)
	if err != nil {
		return Verdict{}, Verdict{}, fmt.Errorf("residual normality: %w", err)
	}
	bp, err := inference.BreuschPagan(fit.Residuals, predictor)
	if err != nil {
		return Verdict{}, Verdict{}, fmt.Errorf("residual heteroscedasticity: %w", err)
	}
	return fromPValue(sw.PValue, sw.W), fromPValue(bp.PValue, bp.LM), nil
}

// ExpectedCounts holds when no expected cell count of the chi-square table is
// below MinExpectedCount. The statistic is the smallest expected count.
func ExpectedCounts(chi inference.ChiSquareResult) Verdict {
	return Verdict{
		Holds:     chi.MinExpected >= MinExpectedCount,
		PValue:    math.NaN(),
		Statistic: chi.MinExpected,
	}
}
