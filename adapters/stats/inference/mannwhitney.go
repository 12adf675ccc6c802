package inference

import (
	"math"

	"autostat/domain/core"
)

// exactLimit is the sample size above which, when both groups exceed it, the
// normal approximation is used
const exactLimit = 8

// MannWhitneyResult holds a two-sided Mann-Whitney U test outcome
type MannWhitneyResult struct {
	U            float64 // statistic of the first sample
	PValue       float64
	RankBiserial float64 // 1 - 2U/(n1*n2); positive when the first sample ranks lower
	Exact        bool
}

// MannWhitneyU runs the two-sided rank-sum test. The exact null distribution
// is used when at least one sample is small and there are no ties; otherwise
// a normal approximation with continuity and tie corrections.
func MannWhitneyU(x, y []float64) (MannWhitneyResult, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return MannWhitneyResult{}, core.ErrInsufficientData
	}

	pooled := make([]float64, 0, n1+n2)
	pooled = append(pooled, x...)
	pooled = append(pooled, y...)
	ranks, ties := Rank(pooled)

	var r1 float64
	for _, r := range ranks[:n1] {
		r1 += r
	}
	fn1, fn2 := float64(n1), float64(n2)
	u1 := r1 - fn1*(fn1+1)/2
	u2 := fn1*fn2 - u1
	big := math.Max(u1, u2)

	res := MannWhitneyResult{
		U:            u1,
		RankBiserial: 1 - 2*u1/(fn1*fn2),
	}

	if (n1 > exactLimit && n2 > exactLimit) || len(ties) > 0 {
		res.PValue = mwuAsymptotic(big, n1, n2, ties)
	} else {
		res.Exact = true
		res.PValue = math.Min(1, 2*mwuExactSurvival(int(math.Round(big)), n1, n2))
	}
	return res, nil
}

func mwuAsymptotic(u float64, n1, n2 int, ties []int) float64 {
	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	mu := fn1 * fn2 / 2

	var tieTerm float64
	for _, t := range ties {
		ft := float64(t)
		tieTerm += ft*ft*ft - ft
	}
	s := math.Sqrt(fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1))))
	if s == 0 || math.IsNaN(s) {
		return 1
	}
	z := (u - mu - 0.5) / s
	return clampProbability(2 * NormalSurvival(z))
}

// mwuExactSurvival returns P(U >= u) under the null. The counts of U are the
// coefficients of the Gaussian binomial [n1+n2 choose m], m = min(n1, n2),
// built one factor (1-q^(n+i))/(1-q^i) at a time.
func mwuExactSurvival(u, n1, n2 int) float64 {
	m, n := n1, n2
	if m > n {
		m, n = n, m
	}
	size := m*n + 1
	counts := make([]float64, size)
	counts[0] = 1
	for i := 1; i <= m; i++ {
		shift := n + i
		for k := size - 1; k >= shift; k-- {
			counts[k] -= counts[k-shift]
		}
		for k := i; k < size; k++ {
			counts[k] += counts[k-i]
		}
	}

	var total, tail float64
	for k, c := range counts {
		total += c
		if k >= u {
			tail += c
		}
	}
	if total == 0 {
		return 1
	}
	return tail / total
}
