package inference

import (
	"math"

	"autostat/domain/core"

	"gonum.org/v1/gonum/stat/combin"
)

// FisherResult holds a two-sided Fisher exact test on a 2x2 table
type FisherResult struct {
	OddsRatio float64
	PValue    float64
}

// relErr is the tolerance used when comparing table probabilities with the
// observed one
const relErr = 1 + 1e-7

// FisherExact tests the table [[a, b], [c, d]]. The two-sided p-value sums
// the probabilities of every table with the same margins that is no more
// likely than the observed one.
func FisherExact(table [][]float64) (FisherResult, error) {
	if len(table) != 2 || len(table[0]) != 2 || len(table[1]) != 2 {
		return FisherResult{}, core.NewDegenerateError("fisher exact test needs a 2x2 table")
	}
	a, b := table[0][0], table[0][1]
	c, d := table[1][0], table[1][1]
	for _, v := range []float64{a, b, c, d} {
		if v < 0 || v != math.Trunc(v) {
			return FisherResult{}, core.NewDegenerateError("fisher exact test needs non-negative integer counts")
		}
	}

	odds := math.NaN()
	switch {
	case b*c != 0:
		odds = a * d / (b * c)
	case a*d != 0:
		odds = math.Inf(1)
	}

	row1, col1 := a+b, a+c
	n := a + b + c + d
	// a row or column of zeros leaves one possible table
	if row1 == 0 || col1 == 0 || row1 == n || col1 == n {
		return FisherResult{OddsRatio: odds, PValue: 1}, nil
	}

	lo := math.Max(0, col1-(n-row1))
	hi := math.Min(row1, col1)
	pmf := func(k float64) float64 {
		return math.Exp(combin.LogGeneralizedBinomial(col1, k) +
			combin.LogGeneralizedBinomial(n-col1, row1-k) -
			combin.LogGeneralizedBinomial(n, row1))
	}

	observed := pmf(a)
	var p float64
	for k := lo; k <= hi; k++ {
		if q := pmf(k); q <= observed*relErr {
			p += q
		}
	}
	return FisherResult{OddsRatio: odds, PValue: math.Min(1, p)}, nil
}
