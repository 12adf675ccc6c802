package dispatch

import (
	"sort"
	"strconv"

	"autostat/domain/dataset"
)

// numericPairs returns the rows where both columns have a numeric reading.
// Text that cannot be parsed counts as missing.
func numericPairs(ds *dataset.Dataset, a, b string) (xs, ys []float64, err error) {
	ca, err := ds.Column(a)
	if err != nil {
		return nil, nil, err
	}
	cb, err := ds.Column(b)
	if err != nil {
		return nil, nil, err
	}
	na, oka := ca.Numbers()
	nb, okb := cb.Numbers()
	for i := range na {
		if oka[i] && okb[i] {
			xs = append(xs, na[i])
			ys = append(ys, nb[i])
		}
	}
	return xs, ys, nil
}

// numberLabelPairs returns the rows where the first column is numeric and the
// second has any value, as (number, label)
func numberLabelPairs(ds *dataset.Dataset, num, label string) (xs []float64, labels []string, err error) {
	cn, err := ds.Column(num)
	if err != nil {
		return nil, nil, err
	}
	cl, err := ds.Column(label)
	if err != nil {
		return nil, nil, err
	}
	nums, ok := cn.Numbers()
	for i, v := range cl.Values {
		if ok[i] && !v.IsMissing() {
			xs = append(xs, nums[i])
			labels = append(labels, v.Key())
		}
	}
	return xs, labels, nil
}

// labelPairs returns the rows where both columns have a value, as labels
func labelPairs(ds *dataset.Dataset, a, b string) (la, lb []string, err error) {
	ca, err := ds.Column(a)
	if err != nil {
		return nil, nil, err
	}
	cb, err := ds.Column(b)
	if err != nil {
		return nil, nil, err
	}
	for i := range ca.Values {
		va, vb := ca.Values[i], cb.Values[i]
		if !va.IsMissing() && !vb.IsMissing() {
			la = append(la, va.Key())
			lb = append(lb, vb.Key())
		}
	}
	return la, lb, nil
}

// distinct returns labels in order of first appearance
func distinct(labels []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// sortLabels orders numeric labels numerically before text labels, text
// lexicographically
func sortLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		fi, erri := strconv.ParseFloat(labels[i], 64)
		fj, errj := strconv.ParseFloat(labels[j], 64)
		switch {
		case erri == nil && errj == nil:
			return fi < fj
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return labels[i] < labels[j]
		}
	})
}

// crosstab counts co-occurrences with rows and columns in sorted label order
func crosstab(a, b []string) [][]float64 {
	rows, cols := distinct(a), distinct(b)
	sortLabels(rows)
	sortLabels(cols)
	ri := make(map[string]int, len(rows))
	for i, r := range rows {
		ri[r] = i
	}
	ci := make(map[string]int, len(cols))
	for i, c := range cols {
		ci[c] = i
	}

	table := make([][]float64, len(rows))
	for i := range table {
		table[i] = make([]float64, len(cols))
	}
	for k := range a {
		table[ri[a[k]]][ci[b[k]]]++
	}
	return table
}
