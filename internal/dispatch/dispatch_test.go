package dispatch

import (
	"bytes"
	"context"
	"testing"

	"autostat/domain/dataset"
	"autostat/domain/stats"
	"autostat/internal"
	"autostat/internal/classify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nums(fs ...float64) dataset.Column {
	vals := make([]dataset.Value, len(fs))
	for i, f := range fs {
		vals[i] = dataset.Number(f)
	}
	return dataset.Column{Values: vals}
}

func labels(ss ...string) dataset.Column {
	vals := make([]dataset.Value, len(ss))
	for i, s := range ss {
		if s == "" {
			vals[i] = dataset.Missing()
		} else {
			vals[i] = dataset.Text(s)
		}
	}
	return dataset.Column{Values: vals}
}

func named(name string, c dataset.Column) dataset.Column {
	c.Name = name
	return c
}

// expand turns a 2-D table of counts into two label columns
func expand(rowLabels, colLabels []string, counts [][]int) (a, b []string) {
	for i, row := range counts {
		for j, n := range row {
			for k := 0; k < n; k++ {
				a = append(a, rowLabels[i])
				b = append(b, colLabels[j])
			}
		}
	}
	return a, b
}

func run(t *testing.T, ds *dataset.Dataset, ann dataset.Annotations, opts Options) []stats.TestResult {
	t.Helper()
	results, err := New(opts, nil).Run(context.Background(), ds, classify.Classify(ann, ds))
	require.NoError(t, err)
	return results
}

func TestContinuousBinary_SeparatedGroupsUseStudent(t *testing.T) {
	ds := dataset.MustNew(
		named("score", nums(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)),
		named("group", nums(0, 0, 0, 0, 0, 1, 1, 1, 1, 1)),
	)
	results := run(t, ds, dataset.Annotations{{Column: "score", Type: "continuous"}, {Column: "group", Type: "binary"}}, DefaultOptions())

	// group is also categorical but has no categorical partner
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "score vs. group", r.Pair)
	assert.Equal(t, stats.ContinuousBinary, r.Category)
	assert.Equal(t, stats.TestStudentT, r.Test)
	assert.True(t, r.AssumptionsMet)
	assert.False(t, r.Robust)
	assert.True(t, r.PValue.Below(0.05))
	assert.InDelta(t, 0.0010528, r.PValue.Value, 1e-6)
	assert.Equal(t, "Assumptions met.", r.Remarks)
}

func TestContinuousBinary_NotBinaryIsRecorded(t *testing.T) {
	ds := dataset.MustNew(
		named("score", nums(1, 2, 3)),
		named("tier", labels("a", "b", "c")),
	)
	results := run(t, ds, dataset.Annotations{{Column: "score", Type: "continuous"}, {Column: "tier", Type: "binary"}}, DefaultOptions())

	require.Len(t, results, 1)
	assert.Equal(t, stats.PNotApplicable, results[0].PValue.Kind)
	assert.Equal(t, "Column 'tier' is not binary.", results[0].Remarks)
	assert.False(t, results[0].AssumptionsMet)
}

func TestContinuousBinary_SmallSampleIsSkipped(t *testing.T) {
	ds := dataset.MustNew(
		named("score", nums(1, 2, 3, 4, 5, 6)),
		named("group", labels("a", "b", "a", "b", "a", "b")),
	)
	results := run(t, ds, dataset.Annotations{{Column: "score", Type: "continuous"}, {Column: "group", Type: "binary"}}, DefaultOptions())
	assert.Empty(t, results)
}

func TestContinuousBinary_NonNormalAddsMannWhitney(t *testing.T) {
	ds := dataset.MustNew(
		named("latency", nums(1, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7, 1.8, 30, 5, 5.1, 5.2, 5.3, 5.4, 5.5, 5.6, 5.7, 5.8, 5.9)),
		named("cached", labels("yes", "yes", "yes", "yes", "yes", "yes", "yes", "yes", "yes", "yes", "no", "no", "no", "no", "no", "no", "no", "no", "no", "no")),
	)
	results := run(t, ds, dataset.Annotations{{Column: "latency", Type: "continuous"}, {Column: "cached", Type: "binary"}}, DefaultOptions())

	require.Len(t, results, 2)
	assert.False(t, results[0].Robust)
	assert.False(t, results[0].AssumptionsMet)
	assert.Contains(t, results[0].Remarks, "normality assumption not met")

	mw := results[1]
	assert.Equal(t, stats.TestMannWhitney, mw.Test)
	assert.True(t, mw.Robust)
	assert.True(t, mw.AssumptionsMet)
	assert.Equal(t, stats.EffectRankBiserial, mw.Effect.Label)
	assert.True(t, mw.PValue.IsNumeric())
}

func TestContinuousContinuous(t *testing.T) {
	ds := dataset.MustNew(
		named("x", nums(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)),
		named("y", nums(2.3, 4.1, 6.2, 7.9, 10.4, 11.8, 14.5, 15.7, 18.2, 20.1, 21.9, 24.6)),
	)
	results := run(t, ds, dataset.Annotations{{Column: "x", Type: "continuous"}, {Column: "y", Type: "continuous"}}, DefaultOptions())

	require.Len(t, results, 2)
	assert.Equal(t, stats.TestLinearRegression, results[0].Test)
	assert.Equal(t, stats.EffectRSquared, results[0].Effect.Label)
	assert.InDelta(t, 0.99849, results[0].Effect.Value, 1e-4)
	assert.Equal(t, stats.TestSpearmanRobust, results[1].Test)
	assert.True(t, results[1].Robust)
	assert.True(t, results[1].AssumptionsMet)
	assert.InDelta(t, 1.0, results[1].Effect.Value, 1e-12)
}

func TestContinuousContinuous_FewRowsIsSkipped(t *testing.T) {
	ds := dataset.MustNew(
		named("x", nums(1, 2, 3, 4, 5)),
		named("y", nums(2, 4, 5, 4, 5)),
	)
	results := run(t, ds, dataset.Annotations{{Column: "x", Type: "continuous"}, {Column: "y", Type: "continuous"}}, DefaultOptions())
	assert.Empty(t, results)
}

func TestContinuousContinuous_FailureBecomesErrorRecord(t *testing.T) {
	ds := dataset.MustNew(
		named("flat", nums(3, 3, 3, 3, 3, 3, 3, 3, 3, 3)),
		named("x", nums(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)),
		named("y", nums(2, 1, 4, 3, 7, 8, 6, 10, 9, 5)),
	)
	results := run(t, ds, dataset.Annotations{
		{Column: "flat", Type: "continuous"},
		{Column: "x", Type: "continuous"},
		{Column: "y", Type: "continuous"},
	}, DefaultOptions())

	// flat vs. x and flat vs. y fail; x vs. y still produces two records
	require.Len(t, results, 4)
	for _, r := range results[:2] {
		assert.Equal(t, stats.PError, r.PValue.Kind)
		assert.Equal(t, stats.TestNone, r.Test)
		assert.Contains(t, r.Remarks, "Error: ")
		assert.False(t, r.AssumptionsMet)
	}
	assert.Equal(t, "x vs. y", results[2].Pair)
	assert.Equal(t, "x vs. y", results[3].Pair)
}

func TestCategorical_SparseTwoByTwoAddsFisher(t *testing.T) {
	a, b := expand([]string{"m", "f"}, []string{"yes", "no"}, [][]int{{8, 2}, {1, 5}})
	ds := dataset.MustNew(named("sex", labels(a...)), named("answer", labels(b...)))
	results := run(t, ds, dataset.Annotations{{Column: "sex", Type: "nominal"}, {Column: "answer", Type: "nominal"}}, DefaultOptions())

	require.Len(t, results, 2)
	assert.Equal(t, stats.TestChiSquare, results[0].Test)
	assert.False(t, results[0].AssumptionsMet)
	assert.Equal(t, stats.TestFisherExact, results[1].Test)
	assert.True(t, results[1].Robust)
	assert.True(t, results[1].AssumptionsMet)
	assert.False(t, results[1].Effect.Present)
	assert.InDelta(t, 0.034965, results[1].PValue.Value, 1e-6)
}

func TestCategorical_SparseLargerTableHasNoFisher(t *testing.T) {
	a, b := expand([]string{"r1", "r2", "r3"}, []string{"c1", "c2"}, [][]int{{3, 1}, {1, 3}, {2, 2}})
	ds := dataset.MustNew(named("p", labels(a...)), named("q", labels(b...)))
	results := run(t, ds, dataset.Annotations{{Column: "p", Type: "nominal"}, {Column: "q", Type: "ordinal"}}, DefaultOptions())

	require.Len(t, results, 1)
	assert.Equal(t, stats.TestChiSquare, results[0].Test)
	assert.False(t, results[0].AssumptionsMet)
}

func TestCategorical_SingleLevelIsSkipped(t *testing.T) {
	ds := dataset.MustNew(
		named("p", labels("a", "a", "a", "a", "")),
		named("q", labels("x", "y", "x", "y", "y")),
	)
	results := run(t, ds, dataset.Annotations{{Column: "p", Type: "nominal"}, {Column: "q", Type: "nominal"}}, DefaultOptions())
	assert.Empty(t, results)
}

func TestContinuousOrdinal(t *testing.T) {
	ds := dataset.MustNew(
		named("income", nums(10, 20, 30, 40, 50, 60)),
		named("level", labels("1", "1", "2", "3", "", "3")),
	)
	ann := dataset.Annotations{{Column: "income", Type: "continuous"}, {Column: "level", Type: "ordinal"}}

	results := run(t, ds, ann, DefaultOptions())
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, stats.ContinuousOrdinal, r.Category)
	assert.Equal(t, stats.TestSpearmanRank, r.Test)
	assert.True(t, r.AssumptionsMet)
	assert.False(t, r.Robust)
	assert.Greater(t, r.Effect.Value, 0.8)

	disabled := run(t, ds, ann, Options{IncludeOrdinal: false, Workers: 1})
	assert.Empty(t, disabled)
}

func TestContinuousOrdinal_UnparsableCodesDropOut(t *testing.T) {
	ann := dataset.Annotations{{Column: "x", Type: "continuous"}, {Column: "o", Type: "ordinal"}}

	mixed := dataset.MustNew(
		named("x", nums(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)),
		named("o", labels("1", "1", "1", "2", "2", "?", "3", "3", "4", "4", "5", "5")),
	)
	results := run(t, mixed, ann, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, stats.TestSpearmanRank, results[0].Test)
	assert.Equal(t, stats.PNumeric, results[0].PValue.Kind)
	assert.Greater(t, results[0].Effect.Value, 0.9)

	textOnly := dataset.MustNew(
		named("x", nums(10, 20, 30, 40)),
		named("o", labels("low", "low", "mid", "high")),
	)
	assert.Empty(t, run(t, textOnly, ann, DefaultOptions()))
}

func TestUntestablePairLogsBelowWarn(t *testing.T) {
	ds := dataset.MustNew(
		named("x", nums(1, 2, 3, 4)),
		named("o", nums(2, 2, 2, 2)),
	)
	ann := dataset.Annotations{{Column: "x", Type: "continuous"}, {Column: "o", Type: "ordinal"}}

	var warnings, debug bytes.Buffer
	results, err := New(DefaultOptions(), internal.NewLoggerTo(&warnings, internal.LogLevelWarn)).
		Run(context.Background(), ds, classify.Classify(ann, ds))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, stats.PError, results[0].PValue.Kind)
	assert.Empty(t, warnings.String())

	_, err = New(DefaultOptions(), internal.NewLoggerTo(&debug, internal.LogLevelDebug)).
		Run(context.Background(), ds, classify.Classify(ann, ds))
	require.NoError(t, err)
	assert.Contains(t, debug.String(), "not testable")
}

func TestParallelRunMatchesSequential(t *testing.T) {
	a, b := expand([]string{"m", "f"}, []string{"yes", "no"}, [][]int{{8, 4}, {3, 9}})
	n := len(a)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64((i*7)%n) + 0.5*float64(i)
	}
	ds := dataset.MustNew(
		named("x", nums(x...)), named("y", nums(y...)),
		named("sex", labels(a...)), named("answer", labels(b...)),
	)
	ann := dataset.Annotations{
		{Column: "x", Type: "continuous"}, {Column: "y", Type: "continuous"},
		{Column: "sex", Type: "binary"}, {Column: "answer", Type: "binary"},
	}

	sequential := run(t, ds, ann, DefaultOptions())
	parallel := run(t, ds, ann, Options{IncludeOrdinal: true, Workers: 4})
	require.NotEmpty(t, sequential)
	assert.Equal(t, sequential, parallel)
}

func TestExecuteRecoversPanics(t *testing.T) {
	d := New(DefaultOptions(), nil)
	out := d.execute(dataset.MustNew(), job{
		pair:     "a vs. b",
		category: stats.ContinuousContinuous,
		run: func(*dataset.Dataset) ([]stats.TestResult, error) {
			panic("index out of range")
		},
	})
	require.Error(t, out.Err)
	records := out.Records()
	require.Len(t, records, 1)
	assert.Equal(t, stats.PError, records[0].PValue.Kind)
	assert.Contains(t, records[0].Remarks, "index out of range")
}

func TestRunHonoursCancellation(t *testing.T) {
	ds := dataset.MustNew(named("x", nums(1)), named("y", nums(2)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ann := dataset.Annotations{{Column: "x", Type: "continuous"}, {Column: "y", Type: "continuous"}}
	_, err := New(DefaultOptions(), nil).Run(ctx, ds, classify.Classify(ann, ds))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCrosstabSortsLabels(t *testing.T) {
	table := crosstab([]string{"10", "2", "b", "a", "2"}, []string{"x", "x", "y", "y", "y"})
	// rows: 2, 10, a, b
	assert.Equal(t, [][]float64{{1, 1}, {1, 0}, {0, 1}, {0, 1}}, table)
}
