package inference

import (
	"math"

	"autostat/domain/core"

	mstats "github.com/montanaflynn/stats"
)

// LeveneResult holds a test of equal variances across groups
type LeveneResult struct {
	W      float64
	PValue float64
	DF1    float64
	DF2    float64
}

// Levene runs the median-centred (Brown-Forsythe) variant of Levene's test.
// When every group is constant the statistic is undefined and both W and the
// p-value are NaN.
func Levene(groups ...[]float64) (LeveneResult, error) {
	k := len(groups)
	if k < 2 {
		return LeveneResult{}, core.NewDegenerateError("levene test needs at least two groups")
	}

	deviations := make([][]float64, k)
	groupMeans := make([]float64, k)
	var total float64
	var n int
	for i, g := range groups {
		if len(g) == 0 {
			return LeveneResult{}, core.ErrInsufficientData
		}
		median, err := mstats.Median(g)
		if err != nil {
			return LeveneResult{}, core.NewDegenerateError("median: %v", err)
		}
		deviations[i] = make([]float64, len(g))
		var sum float64
		for j, v := range g {
			deviations[i][j] = math.Abs(v - median)
			sum += deviations[i][j]
		}
		groupMeans[i] = sum / float64(len(g))
		total += sum
		n += len(g)
	}
	if n <= k {
		return LeveneResult{}, core.ErrInsufficientData
	}
	grand := total / float64(n)

	var between, within float64
	for i, dev := range deviations {
		d := groupMeans[i] - grand
		between += float64(len(dev)) * d * d
		for _, z := range dev {
			e := z - groupMeans[i]
			within += e * e
		}
	}

	df1, df2 := float64(k-1), float64(n-k)
	res := LeveneResult{DF1: df1, DF2: df2}
	if within == 0 {
		res.W, res.PValue = math.NaN(), math.NaN()
		return res, nil
	}
	res.W = (df2 / df1) * between / within
	res.PValue = FTestPValue(res.W, df1, df2)
	return res, nil
}
