// Package missing applies the caller's missing-data strategy to a dataset
// before any test runs.
package missing

import (
	"fmt"
	"sort"
	"strings"

	"autostat/domain/core"
	"autostat/domain/dataset"

	mstats "github.com/montanaflynn/stats"
)

// Resolve applies strategy to a copy of ds and returns the cleaned copy with
// a human-readable audit line. The caller's dataset is never modified.
func Resolve(ds *dataset.Dataset, strategy dataset.MissingStrategy) (*dataset.Dataset, string, error) {
	work := ds.Clone()

	switch strategy {
	case dataset.StrategyReject:
		if n := work.MissingCount(); n > 0 {
			return nil, "", fmt.Errorf("%w: %d missing cells found; choose a strategy that removes or fills them", core.ErrMissingData, n)
		}
		return work, "Checked: the file contains no missing values.", nil

	case dataset.StrategyDropColumns:
		return dropColumns(work)

	case dataset.StrategyDropRows:
		return dropRows(work)

	case dataset.StrategyImpute:
		return impute(work)

	default:
		return nil, "", fmt.Errorf("%w: %q", core.ErrUnknownStrategy, string(strategy))
	}
}

func dropColumns(ds *dataset.Dataset) (*dataset.Dataset, string, error) {
	var removed []string
	for _, col := range ds.Columns() {
		if col.MissingCount() > 0 {
			removed = append(removed, col.Name)
		}
	}
	if len(removed) == 0 {
		return ds, "No columns with missing values were found to remove.", nil
	}
	return ds.Without(removed...), fmt.Sprintf("Removed columns with missing values: %s.", strings.Join(removed, ", ")), nil
}

func dropRows(ds *dataset.Dataset) (*dataset.Dataset, string, error) {
	cleaned := ds.FilterRows(func(row int) bool {
		for _, v := range ds.Row(row) {
			if v.IsMissing() {
				return false
			}
		}
		return true
	})
	removed := ds.NumRows() - cleaned.NumRows()
	if removed == 0 {
		return cleaned, "No rows with missing values were found to remove.", nil
	}
	return cleaned, fmt.Sprintf("Removed %d rows containing missing values.", removed), nil
}

func impute(ds *dataset.Dataset) (*dataset.Dataset, string, error) {
	var filled, emptied []string
	for _, col := range ds.Columns() {
		if col.MissingCount() == 0 {
			continue
		}
		present := col.Present()
		if len(present) == 0 {
			emptied = append(emptied, col.Name)
			continue
		}

		var fill dataset.Value
		if col.IsNumeric() {
			median, err := columnMedian(present)
			if err != nil {
				return nil, "", fmt.Errorf("imputing column %q: %w", col.Name, err)
			}
			fill = dataset.Number(median)
			filled = append(filled, fmt.Sprintf("%s (median: %.2f)", col.Name, median))
		} else {
			fill = columnMode(present)
			filled = append(filled, fmt.Sprintf("%s (mode: %s)", col.Name, fill.Key()))
		}

		values := make([]dataset.Value, col.Len())
		for i, v := range col.Values {
			if v.IsMissing() {
				values[i] = fill
			} else {
				values[i] = v
			}
		}
		if err := ds.SetColumn(col.Name, values); err != nil {
			return nil, "", err
		}
	}

	if len(emptied) > 0 {
		ds = ds.Without(emptied...)
	}

	var audit []string
	if len(filled) > 0 {
		audit = append(audit, fmt.Sprintf("Filled missing values in columns: %s.", strings.Join(filled, ", ")))
	}
	if len(emptied) > 0 {
		audit = append(audit, fmt.Sprintf("Removed columns with no values to impute from: %s.", strings.Join(emptied, ", ")))
	}
	if len(audit) == 0 {
		return ds, "No missing values were found to fill.", nil
	}
	return ds, strings.Join(audit, " "), nil
}

func columnMedian(present []dataset.Value) (float64, error) {
	nums := make(mstats.Float64Data, 0, len(present))
	for _, v := range present {
		f, _ := v.Float()
		nums = append(nums, f)
	}
	return mstats.Median(nums)
}

// columnMode returns the most frequent value; ties go to the smallest label
func columnMode(present []dataset.Value) dataset.Value {
	counts := make(map[string]int)
	first := make(map[string]dataset.Value)
	for _, v := range present {
		k := v.Key()
		if _, ok := first[k]; !ok {
			first[k] = v
		}
		counts[k]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return first[keys[0]]
}
