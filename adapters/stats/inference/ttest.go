package inference

import (
	"math"

	"autostat/domain/core"

	"gonum.org/v1/gonum/stat"
)

// TTestResult holds a two-sample t-test outcome
type TTestResult struct {
	T        float64
	DF       float64
	PValue   float64
	CohenD   float64 // absolute standardized mean difference, pooled SD
	EqualVar bool
}

// TTest compares the means of two independent samples. With equalVar it is
// Student's test on the pooled variance, otherwise Welch's test with
// Welch-Satterthwaite degrees of freedom.
func TTest(x, y []float64, equalVar bool) (TTestResult, error) {
	nx, ny := float64(len(x)), float64(len(y))
	if len(x) < 2 || len(y) < 2 {
		return TTestResult{}, core.ErrInsufficientData
	}

	mx, vx := stat.MeanVariance(x, nil)
	my, vy := stat.MeanVariance(y, nil)

	pooledDF := nx + ny - 2
	pooledVar := ((nx-1)*vx + (ny-1)*vy) / pooledDF

	var se, df float64
	if equalVar {
		se = math.Sqrt(pooledVar * (1/nx + 1/ny))
		df = pooledDF
	} else {
		ax, ay := vx/nx, vy/ny
		se = math.Sqrt(ax + ay)
		df = (ax + ay) * (ax + ay) / (ax*ax/(nx-1) + ay*ay/(ny-1))
	}
	if se == 0 || math.IsNaN(se) {
		return TTestResult{}, core.NewDegenerateError("both groups have zero variance")
	}

	t := (mx - my) / se
	return TTestResult{
		T:        t,
		DF:       df,
		PValue:   TTestPValue(t, df),
		CohenD:   math.Abs(mx-my) / math.Sqrt(pooledVar),
		EqualVar: equalVar,
	}, nil
}
