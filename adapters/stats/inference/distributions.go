// Package inference wraps the statistical routines the report engine relies on.
// Every routine takes plain float slices and returns a named result, so the
// dispatcher never unpacks positional tuples.
package inference

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestPValue returns the two-tailed p-value of t under Student's t with df
// degrees of freedom. df may be fractional (Welch).
func TTestPValue(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) {
		return math.NaN()
	}
	if math.IsInf(t, 0) {
		return 0
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clampProbability(2 * dist.Survival(math.Abs(t)))
}

// CorrelationPValue tests a correlation coefficient against zero with n-2
// degrees of freedom
func CorrelationPValue(r float64, n int) float64 {
	if n < 3 {
		return math.NaN()
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	return TTestPValue(r*math.Sqrt(df/(1-r*r)), df)
}

// ChiSquarePValue returns the upper tail of the chi-square distribution
func ChiSquarePValue(x float64, df float64) float64 {
	if df <= 0 || math.IsNaN(x) {
		return math.NaN()
	}
	if x <= 0 {
		return 1
	}
	return clampProbability(distuv.ChiSquared{K: df}.Survival(x))
}

// FTestPValue returns the upper tail of the F distribution
func FTestPValue(f, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(f) {
		return math.NaN()
	}
	if f <= 0 {
		return 1
	}
	return clampProbability(distuv.F{D1: df1, D2: df2}.Survival(f))
}

// NormalSurvival returns P(Z > z) for a standard normal Z
func NormalSurvival(z float64) float64 {
	return distuv.UnitNormal.Survival(z)
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return p
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Rank assigns average ranks (1-based) with ties sharing the mean rank. It
// also returns the size of every tie group, which the rank tests need for
// their variance corrections.
func Rank(data []float64) (ranks []float64, ties []int) {
	n := len(data)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && data[idx[j]] == data[idx[i]] {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		if j-i > 1 {
			ties = append(ties, j-i)
		}
		i = j
	}
	return ranks, ties
}

func sorted(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	sort.Float64s(out)
	return out
}

func allEqual(data []float64) bool {
	for _, v := range data[1:] {
		if v != data[0] {
			return false
		}
	}
	return true
}
