package inference

import (
	"errors"
	"math"
	"testing"

	"autostat/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

var (
	lowGroup  = []float64{2.1, 2.5, 2.9, 3.1, 3.4, 3.8, 4.0}
	highGroup = []float64{5.0, 7.2, 9.1, 4.8, 11.5, 6.3}
)

func TestTTest_StudentAndWelch(t *testing.T) {
	student, err := TTest(lowGroup, highGroup, true)
	require.NoError(t, err)
	assert.InDelta(t, -4.162833735539877, student.T, tol)
	assert.InDelta(t, 11, student.DF, tol)
	assert.InDelta(t, 0.0015817546359633476, student.PValue, 1e-7)
	assert.InDelta(t, 2.3159868884134958, student.CohenD, tol)

	welch, err := TTest(lowGroup, highGroup, false)
	require.NoError(t, err)
	assert.InDelta(t, -3.8675035911686506, welch.T, tol)
	assert.InDelta(t, 5.597045051227119, welch.DF, tol)
	assert.InDelta(t, 0.009483987071813006, welch.PValue, 1e-7)
	assert.Equal(t, student.CohenD, welch.CohenD, "effect size uses the pooled SD in both variants")
}

func TestTTest_SeparatedSequence(t *testing.T) {
	res, err := TTest([]float64{1, 2, 3, 4, 5}, []float64{6, 7, 8, 9, 10}, true)
	require.NoError(t, err)
	assert.InDelta(t, -5.0, res.T, tol)
	assert.InDelta(t, 0.0010528257933665394, res.PValue, 1e-8)
	assert.InDelta(t, math.Sqrt(10), res.CohenD, tol)
}

func TestTTest_Degenerate(t *testing.T) {
	_, err := TTest([]float64{1}, []float64{2, 3}, true)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = TTest([]float64{1, 1, 1}, []float64{2, 2, 2}, false)
	assert.True(t, errors.Is(err, core.ErrDegenerateInput))
}

func TestMannWhitneyU_Exact(t *testing.T) {
	res, err := MannWhitneyU([]float64{1.1, 2.3, 3.5, 4.2, 5.9}, []float64{6.1, 7.4, 8.0, 2.9})
	require.NoError(t, err)
	assert.True(t, res.Exact)
	assert.Equal(t, 3.0, res.U)
	assert.InDelta(t, 1.0/9.0, res.PValue, tol)
	assert.InDelta(t, 0.7, res.RankBiserial, tol)
}

func TestMannWhitneyU_TiesUseNormalApproximation(t *testing.T) {
	x := []float64{1, 2, 2, 3, 4, 5, 5, 6, 7, 8}
	y := []float64{3, 4, 6, 7, 8, 9, 9, 10, 11, 12}
	res, err := MannWhitneyU(x, y)
	require.NoError(t, err)
	assert.False(t, res.Exact)
	assert.Equal(t, 16.5, res.U)
	assert.InDelta(t, 0.012345835331639243, res.PValue, 1e-7)
	assert.InDelta(t, 0.67, res.RankBiserial, tol)
}

func TestMannWhitneyU_ExactDistributionSumsToOne(t *testing.T) {
	assert.InDelta(t, 1.0, mwuExactSurvival(0, 4, 6), 1e-12)
	// U can reach n1*n2 only through the single most extreme arrangement
	assert.InDelta(t, 1.0/210.0, mwuExactSurvival(24, 4, 6), 1e-12)
}

func TestSpearman(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	y := []float64{2, 1, 4, 3, 7, 8, 6, 10, 9, 5}
	res, err := Spearman(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.7454545454545455, res.Rho, tol)
	assert.InDelta(t, 0.013330146315440043, res.PValue, 1e-7)

	_, err = Spearman(x, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1})
	assert.True(t, errors.Is(err, core.ErrDegenerateInput))

	perfect, err := Spearman([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
	require.NoError(t, err)
	assert.Equal(t, 1.0, perfect.Rho)
	assert.Equal(t, 0.0, perfect.PValue)
}

func TestLinearRegressionAndBreuschPagan(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	y := []float64{2.3, 4.1, 6.2, 7.9, 10.4, 11.8, 14.5, 15.7, 18.2, 20.1, 21.9, 24.6}

	reg, err := LinearRegression(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.1212121212121211, reg.Intercept, tol)
	assert.InDelta(t, 2.0031468531468533, reg.Slope, tol)
	assert.InDelta(t, 0.9984899997544954, reg.RSquared, tol)
	assert.Less(t, reg.SlopePValue, 1e-10)
	require.Len(t, reg.Residuals, len(x))

	bp, err := BreuschPagan(reg.Residuals, x)
	require.NoError(t, err)
	assert.InDelta(t, 2.3009483564027158, bp.LM, 1e-5)
	assert.InDelta(t, 0.12929503443366852, bp.PValue, 1e-5)
}

func TestLinearRegression_Degenerate(t *testing.T) {
	_, err := LinearRegression([]float64{1, 1, 1, 1}, []float64{1, 2, 3, 4})
	assert.True(t, errors.Is(err, core.ErrDegenerateInput))
	_, err = LinearRegression([]float64{1, 2}, []float64{1, 2})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestBreuschPagan_ConstantSquaredResiduals(t *testing.T) {
	res, err := BreuschPagan([]float64{1, -1, 1, -1}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.PValue)
}

func TestChiSquareIndependence(t *testing.T) {
	tests := []struct {
		name      string
		table     [][]float64
		stat      float64
		dof       int
		p         float64
		minExp    float64
		cramer    float64
		corrected bool
	}{
		{"2x2 with Yates", [][]float64{{20, 15}, {10, 25}}, 4.725, 1, 0.029727183306054613, 15, 0.25980762113533157, true},
		{"2x3 uncorrected", [][]float64{{10, 20, 30}, {15, 15, 10}}, 8.035714285714285, 2, 0.01799147682665849, 10, 0.2834733547569204, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ChiSquareIndependence(tt.table)
			require.NoError(t, err)
			assert.InDelta(t, tt.stat, res.Statistic, tol)
			assert.Equal(t, tt.dof, res.DOF)
			assert.InDelta(t, tt.p, res.PValue, 1e-7)
			assert.InDelta(t, tt.minExp, res.MinExpected, tol)
			assert.InDelta(t, tt.cramer, res.CramerV, tol)
			assert.Equal(t, tt.corrected, res.Corrected)
		})
	}
}

func TestChiSquareIndependence_EmptyMargin(t *testing.T) {
	_, err := ChiSquareIndependence([][]float64{{0, 0}, {3, 4}})
	assert.True(t, errors.Is(err, core.ErrDegenerateInput))
}

func TestFisherExact(t *testing.T) {
	res, err := FisherExact([][]float64{{8, 2}, {1, 5}})
	require.NoError(t, err)
	assert.InDelta(t, 0.03496503496503497, res.PValue, 1e-10)
	assert.InDelta(t, 20.0, res.OddsRatio, tol)

	res, err = FisherExact([][]float64{{3, 1}, {1, 3}})
	require.NoError(t, err)
	assert.InDelta(t, 0.4857142857142857, res.PValue, 1e-10)

	_, err = FisherExact([][]float64{{1, 2, 3}, {4, 5, 6}})
	assert.Error(t, err)
}

func TestShapiroWilk(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		w    float64
		p    float64
	}{
		{"uniform sequence", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9701646112306656, 0.8923673075239197},
		{"right skewed", []float64{1, 1, 1, 2, 2, 3, 4, 6, 9, 15, 30}, 0.7019861475010609, 0.0004960940719715978},
		{"three points", []float64{1, 2, 4}, 0.9642857142857144, 0.6368868450289701},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ShapiroWilk(tt.data)
			require.NoError(t, err)
			assert.InDelta(t, tt.w, res.W, 1e-6)
			assert.InDelta(t, tt.p, res.PValue, 1e-5)
		})
	}

	constant, err := ShapiroWilk([]float64{4, 4, 4, 4})
	require.NoError(t, err)
	assert.Equal(t, 1.0, constant.PValue)

	_, err = ShapiroWilk([]float64{1, 2})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestLevene(t *testing.T) {
	res, err := Levene(lowGroup, highGroup)
	require.NoError(t, err)
	assert.InDelta(t, 5.3688109049677095, res.W, 1e-6)
	assert.InDelta(t, 0.04078780621450228, res.PValue, 1e-6)

	flat, err := Levene([]float64{1, 1, 1}, []float64{2, 2, 2})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(flat.PValue))
}

func TestRankAveragesTies(t *testing.T) {
	ranks, ties := Rank([]float64{10, 20, 20, 5, 20})
	assert.Equal(t, []float64{2, 4, 4, 1, 4}, ranks)
	assert.Equal(t, []int{3}, ties)
}
