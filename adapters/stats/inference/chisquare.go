package inference

import (
	"math"

	"autostat/domain/core"
)

// ChiSquareResult holds a Pearson chi-square test of independence
type ChiSquareResult struct {
	Statistic   float64
	DOF         int
	PValue      float64
	CramerV     float64
	Expected    [][]float64
	MinExpected float64
	Corrected   bool // Yates continuity correction applied
	N           float64
}

// ChiSquareIndependence tests a contingency table of observed counts. For a
// table with one degree of freedom every cell is moved at most 0.5 toward its
// expected count (Yates). Cramér's V is derived from the statistic actually
// reported.
func ChiSquareIndependence(observed [][]float64) (ChiSquareResult, error) {
	rows := len(observed)
	if rows < 2 || len(observed[0]) < 2 {
		return ChiSquareResult{}, core.NewDegenerateError("contingency table must be at least 2x2")
	}
	cols := len(observed[0])

	rowSums := make([]float64, rows)
	colSums := make([]float64, cols)
	var total float64
	for i, row := range observed {
		if len(row) != cols {
			return ChiSquareResult{}, core.NewDegenerateError("ragged contingency table")
		}
		for j, v := range row {
			if v < 0 {
				return ChiSquareResult{}, core.NewDegenerateError("negative count in contingency table")
			}
			rowSums[i] += v
			colSums[j] += v
			total += v
		}
	}
	for _, s := range append(append([]float64{}, rowSums...), colSums...) {
		if s == 0 {
			return ChiSquareResult{}, core.NewDegenerateError("contingency table has an empty row or column")
		}
	}

	dof := (rows - 1) * (cols - 1)
	corrected := dof == 1

	expected := make([][]float64, rows)
	minExpected := math.Inf(1)
	var chi2 float64
	for i := range observed {
		expected[i] = make([]float64, cols)
		for j, o := range observed[i] {
			e := rowSums[i] * colSums[j] / total
			expected[i][j] = e
			minExpected = math.Min(minExpected, e)

			diff := o - e
			if corrected {
				shrink := math.Min(0.5, math.Abs(diff))
				if diff > 0 {
					diff -= shrink
				} else {
					diff += shrink
				}
			}
			chi2 += diff * diff / e
		}
	}

	k := math.Min(float64(rows), float64(cols)) - 1
	return ChiSquareResult{
		Statistic:   chi2,
		DOF:         dof,
		PValue:      ChiSquarePValue(chi2, float64(dof)),
		CramerV:     math.Sqrt(chi2 / (total * k)),
		Expected:    expected,
		MinExpected: minExpected,
		Corrected:   corrected,
		N:           total,
	}, nil
}
