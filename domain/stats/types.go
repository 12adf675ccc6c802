package stats

import (
	"fmt"
	"math"
)

// ============================================================================
// ENUMERATIONS
// ============================================================================

// AnalysisCategory names the scenario class a result belongs to
type AnalysisCategory string

const (
	ContinuousBinary       AnalysisCategory = "Continuous vs. Binary"
	ContinuousContinuous   AnalysisCategory = "Continuous vs. Continuous"
	CategoricalCategorical AnalysisCategory = "Categorical vs. Categorical"
	ContinuousOrdinal      AnalysisCategory = "Continuous vs. Ordinal"
)

// TestName identifies the statistical procedure behind a result
type TestName string

const (
	TestNone             TestName = "N/A"
	TestStudentT         TestName = "Student's t-test"
	TestWelchT           TestName = "Welch's t-test"
	TestMannWhitney      TestName = "Mann-Whitney U test (robust)"
	TestLinearRegression TestName = "Linear regression"
	TestSpearmanRobust   TestName = "Spearman correlation (robust)"
	TestChiSquare        TestName = "Chi-square test of independence"
	TestFisherExact      TestName = "Fisher's exact test (robust)"
	TestSpearmanRank     TestName = "Spearman rank correlation"
)

// ============================================================================
// P-VALUES
// ============================================================================

// PValueKind discriminates a computed p-value from the two sentinels
type PValueKind uint8

const (
	PNumeric PValueKind = iota
	PNotApplicable
	PError
)

// Sentinel renderings
const (
	NotApplicableMarker = "N/A"
	ErrorMarker         = "∞"
)

// PValue is a probability or one of the sentinels for tests that did not run
type PValue struct {
	Kind  PValueKind `json:"kind"`
	Value float64    `json:"value"`
}

// Numeric wraps a computed p-value
func Numeric(p float64) PValue { return PValue{Kind: PNumeric, Value: p} }

// NotApplicable marks a pair the test could not be applied to
func NotApplicable() PValue { return PValue{Kind: PNotApplicable, Value: math.Inf(1)} }

// Failed marks a pair whose test raised an error
func Failed() PValue { return PValue{Kind: PError, Value: math.Inf(1)} }

// IsNumeric reports whether the p-value was computed
func (p PValue) IsNumeric() bool { return p.Kind == PNumeric && !math.IsNaN(p.Value) }

// Below reports whether a computed p-value is strictly below threshold.
// Sentinels are never below anything.
func (p PValue) Below(threshold float64) bool {
	return p.IsNumeric() && p.Value < threshold
}

// SortKey orders sentinels after every computed value
func (p PValue) SortKey() float64 {
	if !p.IsNumeric() {
		return math.Inf(1)
	}
	return p.Value
}

func (p PValue) String() string {
	switch {
	case p.Kind == PNotApplicable:
		return NotApplicableMarker
	case p.Kind == PError, math.IsNaN(p.Value), math.IsInf(p.Value, 0):
		return ErrorMarker
	default:
		return fmt.Sprintf("%.4f", p.Value)
	}
}

// ============================================================================
// EFFECT SIZES
// ============================================================================

// EffectSize is a labelled magnitude; tests without one leave Present false
type EffectSize struct {
	Label   string  `json:"label,omitempty"`
	Value   float64 `json:"value,omitempty"`
	Present bool    `json:"present"`
}

// Effect builds a present effect size
func Effect(label string, value float64) EffectSize {
	return EffectSize{Label: label, Value: value, Present: true}
}

// NoEffect is the absent effect size
func NoEffect() EffectSize { return EffectSize{} }

func (e EffectSize) String() string {
	if !e.Present {
		return NotApplicableMarker
	}
	return fmt.Sprintf("%s = %.3f", e.Label, e.Value)
}

// Effect size labels
const (
	EffectCohenD       = "Cohen's d"
	EffectRankBiserial = "RBC"
	EffectRSquared     = "R-squared"
	EffectRho          = "rho"
	EffectCramerV      = "Cramér's V"
)

// ============================================================================
// RESULT RECORD
// ============================================================================

// TestResult is one row of the inferential table. It is never modified after
// the dispatcher appends it.
type TestResult struct {
	Pair           string           `json:"pair"`
	Category       AnalysisCategory `json:"category"`
	Test           TestName         `json:"test"`
	PValue         PValue           `json:"p_value"`
	Effect         EffectSize       `json:"effect"`
	AssumptionsMet bool             `json:"assumptions_met"`
	Robust         bool             `json:"robust"`
	Remarks        string           `json:"remarks"`
}

// PairLabel joins two column names the way result rows display them
func PairLabel(a, b string) string {
	return a + " vs. " + b
}

// Row flattens a result into its displayed cells
func (r *TestResult) Row() []string {
	return []string{r.Pair, string(r.Category), string(r.Test), r.PValue.String(), r.Effect.String(), r.Remarks}
}
