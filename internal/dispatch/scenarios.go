package dispatch

import (
	"fmt"
	"strings"

	"autostat/adapters/stats/inference"
	"autostat/domain/dataset"
	"autostat/domain/stats"
	"autostat/internal/assumptions"
)

// MinSampleSize is the smallest number of complete rows the mean-comparison
// and regression scenarios accept
const MinSampleSize = 10

func continuousBinary(cont, bin string) pairFunc {
	pair := stats.PairLabel(cont, bin)
	return func(ds *dataset.Dataset) ([]stats.TestResult, error) {
		xs, labels, err := numberLabelPairs(ds, cont, bin)
		if err != nil {
			return nil, err
		}

		levels := distinct(labels)
		if len(levels) != 2 {
			return []stats.TestResult{{
				Pair:     pair,
				Category: stats.ContinuousBinary,
				Test:     stats.TestNone,
				PValue:   stats.NotApplicable(),
				Effect:   stats.NoEffect(),
				Remarks:  fmt.Sprintf("Column '%s' is not binary.", bin),
			}}, nil
		}
		if len(xs) < MinSampleSize {
			return nil, nil
		}

		var g1, g2 []float64
		for i, x := range xs {
			if labels[i] == levels[0] {
				g1 = append(g1, x)
			} else {
				g2 = append(g2, x)
			}
		}

		normal, err := assumptions.Normality(g1, g2)
		if err != nil {
			return nil, err
		}
		homogeneous, err := assumptions.VarianceHomogeneity(g1, g2)
		if err != nil {
			return nil, err
		}

		tt, err := inference.TTest(g1, g2, homogeneous.Holds)
		if err != nil {
			return nil, err
		}
		name := stats.TestStudentT
		if !homogeneous.Holds {
			name = stats.TestWelchT
		}

		var remarks []string
		if !normal.Holds {
			remarks = append(remarks, "normality assumption not met")
		}
		if !homogeneous.Holds {
			remarks = append(remarks, "equal variance assumption not met")
		}
		if len(remarks) == 0 {
			remarks = append(remarks, "Assumptions met.")
		}

		results := []stats.TestResult{{
			Pair:           pair,
			Category:       stats.ContinuousBinary,
			Test:           name,
			PValue:         stats.Numeric(tt.PValue),
			Effect:         stats.Effect(stats.EffectCohenD, tt.CohenD),
			AssumptionsMet: normal.Holds && homogeneous.Holds,
			Remarks:        strings.Join(remarks, "; "),
		}}

		if !normal.Holds {
			mw, err := inference.MannWhitneyU(g1, g2)
			if err != nil {
				return results, err
			}
			results = append(results, stats.TestResult{
				Pair:           pair,
				Category:       stats.ContinuousBinary,
				Test:           stats.TestMannWhitney,
				PValue:         stats.Numeric(mw.PValue),
				Effect:         stats.Effect(stats.EffectRankBiserial, mw.RankBiserial),
				AssumptionsMet: true,
				Robust:         true,
				Remarks:        "Used because the normality assumption was not met.",
			})
		}
		return results, nil
	}
}

func continuousContinuous(a, b string) pairFunc {
	pair := stats.PairLabel(a, b)
	return func(ds *dataset.Dataset) ([]stats.TestResult, error) {
		xs, ys, err := numericPairs(ds, a, b)
		if err != nil {
			return nil, err
		}
		if len(xs) < MinSampleSize {
			return nil, nil
		}

		fit, err := inference.LinearRegression(xs, ys)
		if err != nil {
			return nil, err
		}
		normal, homoscedastic, err := assumptions.ResidualDiagnostics(fit, xs)
		if err != nil {
			return nil, err
		}

		var remarks []string
		if !normal.Holds {
			remarks = append(remarks, fmt.Sprintf("residual normality assumption not met (p=%.3f)", normal.PValue))
		}
		if !homoscedastic.Holds {
			remarks = append(remarks, fmt.Sprintf("homoscedasticity assumption not met (p=%.3f)", homoscedastic.PValue))
		}
		if len(remarks) == 0 {
			remarks = append(remarks, "Assumptions (residual normality, homoscedasticity) met.")
		}

		results := []stats.TestResult{{
			Pair:           pair,
			Category:       stats.ContinuousContinuous,
			Test:           stats.TestLinearRegression,
			PValue:         stats.Numeric(fit.SlopePValue),
			Effect:         stats.Effect(stats.EffectRSquared, fit.RSquared),
			AssumptionsMet: normal.Holds && homoscedastic.Holds,
			Remarks:        strings.Join(remarks, "; "),
		}}

		sp, err := inference.Spearman(xs, ys)
		if err != nil {
			return results, err
		}
		return append(results, stats.TestResult{
			Pair:           pair,
			Category:       stats.ContinuousContinuous,
			Test:           stats.TestSpearmanRobust,
			PValue:         stats.Numeric(sp.PValue),
			Effect:         stats.Effect(stats.EffectRho, sp.Rho),
			AssumptionsMet: true,
			Robust:         true,
			Remarks:        "Nonparametric test, robust to non-normality and to non-linear monotonic relationships.",
		}), nil
	}
}

func categoricalCategorical(a, b string) pairFunc {
	pair := stats.PairLabel(a, b)
	return func(ds *dataset.Dataset) ([]stats.TestResult, error) {
		la, lb, err := labelPairs(ds, a, b)
		if err != nil {
			return nil, err
		}
		if len(la) == 0 || len(distinct(la)) < 2 || len(distinct(lb)) < 2 {
			return nil, nil
		}

		table := crosstab(la, lb)
		chi, err := inference.ChiSquareIndependence(table)
		if err != nil {
			return nil, err
		}
		expected := assumptions.ExpectedCounts(chi)

		remarks := "Expected frequency assumption (>=5) met."
		if !expected.Holds {
			remarks = "Expected frequency assumption (>=5) not met."
		}
		results := []stats.TestResult{{
			Pair:           pair,
			Category:       stats.CategoricalCategorical,
			Test:           stats.TestChiSquare,
			PValue:         stats.Numeric(chi.PValue),
			Effect:         stats.Effect(stats.EffectCramerV, chi.CramerV),
			AssumptionsMet: expected.Holds,
			Remarks:        remarks,
		}}

		if !expected.Holds && len(table) == 2 && len(table[0]) == 2 {
			fe, err := inference.FisherExact(table)
			if err != nil {
				return results, err
			}
			results = append(results, stats.TestResult{
				Pair:           pair,
				Category:       stats.CategoricalCategorical,
				Test:           stats.TestFisherExact,
				PValue:         stats.Numeric(fe.PValue),
				Effect:         stats.NoEffect(),
				AssumptionsMet: true,
				Robust:         true,
				Remarks:        "Used because of small expected counts in the 2x2 table.",
			})
		}
		return results, nil
	}
}

func continuousOrdinal(cont, ord string) pairFunc {
	pair := stats.PairLabel(cont, ord)
	return func(ds *dataset.Dataset) ([]stats.TestResult, error) {
		// ordinal codes that do not parse drop out with their rows
		xs, ys, err := numericPairs(ds, cont, ord)
		if err != nil {
			return nil, err
		}
		if len(xs) == 0 {
			return nil, nil
		}

		sp, err := inference.Spearman(xs, ys)
		if err != nil {
			return nil, err
		}
		return []stats.TestResult{{
			Pair:           pair,
			Category:       stats.ContinuousOrdinal,
			Test:           stats.TestSpearmanRank,
			PValue:         stats.Numeric(sp.PValue),
			Effect:         stats.Effect(stats.EffectRho, sp.Rho),
			AssumptionsMet: true,
			Remarks:        "Nonparametric test suited to ordinal variables.",
		}}, nil
	}
}
