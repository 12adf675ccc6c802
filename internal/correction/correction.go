// Package correction applies the Bonferroni family-wise threshold to a
// result collection and orders it for display.
package correction

import (
	"sort"

	"autostat/domain/stats"
)

// FamilyAlpha is the family-wise error rate the threshold is derived from
const FamilyAlpha = 0.05

// Ranking is a corrected and ordered result collection
type Ranking struct {
	Threshold float64
	// Results is grouped by pair with each primary test before its robust fallback
	Results []stats.TestResult
	// Confirmed points into Results, ascending by p-value
	Confirmed []*stats.TestResult
}

// Threshold returns FamilyAlpha / n, or FamilyAlpha for an empty collection
func Threshold(n int) float64 {
	if n < 1 {
		return FamilyAlpha
	}
	return FamilyAlpha / float64(n)
}

// IsConfirmed reports whether a result is trustworthy and significant at threshold
func IsConfirmed(r *stats.TestResult, threshold float64) bool {
	return r.AssumptionsMet && r.PValue.Below(threshold)
}

// Rank sorts a copy of results stably by (pair, robust) and derives the
// confirmed subset. The input slice is left untouched.
func Rank(results []stats.TestResult) Ranking {
	ordered := make([]stats.TestResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Pair != ordered[j].Pair {
			return ordered[i].Pair < ordered[j].Pair
		}
		return !ordered[i].Robust && ordered[j].Robust
	})

	threshold := Threshold(len(ordered))
	var confirmed []*stats.TestResult
	for i := range ordered {
		if IsConfirmed(&ordered[i], threshold) {
			confirmed = append(confirmed, &ordered[i])
		}
	}
	sort.SliceStable(confirmed, func(i, j int) bool {
		return confirmed[i].PValue.SortKey() < confirmed[j].PValue.SortKey()
	})

	return Ranking{Threshold: threshold, Results: ordered, Confirmed: confirmed}
}

// ConfirmedAt reports, per row of Results, whether it is in the confirmed subset
func (r Ranking) ConfirmedAt(i int) bool {
	return IsConfirmed(&r.Results[i], r.Threshold)
}
