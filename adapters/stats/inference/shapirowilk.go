package inference

import (
	"math"

	"autostat/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// ShapiroWilkResult holds the W statistic and its p-value
type ShapiroWilkResult struct {
	W      float64
	PValue float64
	N      int
}

// shapiroMaxN is the largest sample the Royston approximation is calibrated for
const shapiroMaxN = 5000

// Royston (1995) polynomial coefficients
var (
	swG  = []float64{-2.273, 0.459}
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
)

// ShapiroWilk tests the null hypothesis that data came from a normal
// distribution, using Royston's approximation for the coefficients and the
// p-value. Samples above 5000 are tested but the p-value is less reliable.
// A constant sample yields W = 1 and p = 1.
func ShapiroWilk(data []float64) (ShapiroWilkResult, error) {
	n := len(data)
	if n < 3 {
		return ShapiroWilkResult{}, core.ErrInsufficientData
	}
	x := sorted(data)
	if x[n-1]-x[0] < 1e-19 {
		return ShapiroWilkResult{W: 1, PValue: 1, N: n}, nil
	}

	half := swilkCoefficients(n)
	coeff := make([]float64, n)
	for i, a := range half {
		coeff[i] = -a
		coeff[n-1-i] = a
	}

	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	var num, ssa, ssx float64
	for i, v := range x {
		d := v - mean
		num += coeff[i] * d
		ssa += coeff[i] * coeff[i]
		ssx += d * d
	}
	w := num * num / (ssa * ssx)
	w = math.Min(1, w)

	return ShapiroWilkResult{W: w, PValue: swilkPValue(w, n), N: n}, nil
}

// swilkCoefficients returns the upper half of the antisymmetric coefficient vector
func swilkCoefficients(n int) []float64 {
	nn2 := n / 2
	a := make([]float64, nn2)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	m := make([]float64, nn2)
	var summ2 float64
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (an + 0.25))
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)

	a1 := poly(swC1, rsn) - m[0]/ssumm2
	var start int
	var fac float64
	if n > 5 {
		start = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		start = 1
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := start; i < nn2; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func swilkPValue(w float64, n int) float64 {
	if w >= 1 {
		return 1
	}
	if n == 3 {
		const pi6, stqr = 6 / math.Pi, math.Pi / 3
		return clampProbability(pi6 * (math.Asin(math.Sqrt(w)) - stqr))
	}

	an := float64(n)
	y := math.Log(1 - w)
	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, an)
		sigma = math.Exp(poly(swC4, an))
	} else {
		lx := math.Log(an)
		mu = poly(swC5, lx)
		sigma = math.Exp(poly(swC6, lx))
	}
	return clampProbability(distuv.Normal{Mu: mu, Sigma: sigma}.Survival(y))
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	var out float64
	for i := len(c) - 1; i >= 0; i-- {
		out = out*x + c[i]
	}
	return out
}
