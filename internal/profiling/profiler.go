// Package profiling produces the descriptive part of the report: dataset
// overview and per-column summaries.
package profiling

import (
	"sort"
	"strings"

	"autostat/domain/dataset"
)

// TopValues is how many frequent labels are kept for a text column
const TopValues = 5

// ColumnKind is the profiled kind of a column
type ColumnKind string

const (
	KindNumeric ColumnKind = "numeric"
	KindText    ColumnKind = "text"
	KindEmpty   ColumnKind = "empty"
)

// Frequency is one label and how often it occurs
type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnProfile summarises a single column
type ColumnProfile struct {
	Name    string          `json:"name"`
	Kind    ColumnKind      `json:"kind"`
	Present int             `json:"present"`
	Missing int             `json:"missing"`
	Unique  int             `json:"unique"`
	Numeric *NumericSummary `json:"numeric,omitempty"`
	Top     []Frequency     `json:"top,omitempty"`
}

// MissingShare is the fraction of missing cells
func (c ColumnProfile) MissingShare() float64 {
	total := c.Present + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) / float64(total)
}

// Profile is the descriptive overview of a dataset
type Profile struct {
	Rows          int             `json:"rows"`
	Columns       int             `json:"columns"`
	MissingCells  int             `json:"missing_cells"`
	DuplicateRows int             `json:"duplicate_rows"`
	Variables     []ColumnProfile `json:"variables"`
}

// DataProfiler computes and renders descriptive profiles
type DataProfiler struct {
	distribution *DistributionAnalyzer
	renderer     *renderer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() (*DataProfiler, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &DataProfiler{
		distribution: NewDistributionAnalyzer(),
		renderer:     r,
	}, nil
}

// ProfileDataset analyzes all columns in dataset order
func (dp *DataProfiler) ProfileDataset(ds *dataset.Dataset) Profile {
	p := Profile{
		Rows:          ds.NumRows(),
		Columns:       ds.NumCols(),
		MissingCells:  ds.MissingCount(),
		DuplicateRows: duplicateRows(ds),
	}
	for _, col := range ds.Columns() {
		p.Variables = append(p.Variables, dp.ProfileColumn(col))
	}
	return p
}

// ProfileColumn summarises one column. Numeric columns get distribution
// statistics, text columns their most frequent labels.
func (dp *DataProfiler) ProfileColumn(col dataset.Column) ColumnProfile {
	present := col.Present()
	cp := ColumnProfile{
		Name:    col.Name,
		Present: len(present),
		Missing: col.MissingCount(),
	}

	counts := make(map[string]int)
	for _, v := range present {
		counts[v.Key()]++
	}
	cp.Unique = len(counts)

	switch {
	case len(present) == 0:
		cp.Kind = KindEmpty
	case col.IsNumeric():
		cp.Kind = KindNumeric
		data := make([]float64, len(present))
		for i, v := range present {
			data[i] = v.Num
		}
		if summary, err := dp.distribution.AnalyzeDistribution(data); err == nil {
			cp.Numeric = &summary
		}
	default:
		cp.Kind = KindText
		cp.Top = topFrequencies(counts, TopValues)
	}
	return cp
}

// Render produces the HTML fragment of a profile
func (dp *DataProfiler) Render(p Profile) (string, error) {
	return dp.renderer.render(p)
}

// Describe profiles and renders in one step
func (dp *DataProfiler) Describe(ds *dataset.Dataset) (string, error) {
	return dp.Render(dp.ProfileDataset(ds))
}

// topFrequencies orders by count descending, ties by label
func topFrequencies(counts map[string]int, n int) []Frequency {
	out := make([]Frequency, 0, len(counts))
	for v, c := range counts {
		out = append(out, Frequency{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func duplicateRows(ds *dataset.Dataset) int {
	seen := make(map[string]bool, ds.NumRows())
	dups := 0
	var b strings.Builder
	for i := 0; i < ds.NumRows(); i++ {
		b.Reset()
		for _, v := range ds.Row(i) {
			// kind prefix keeps a missing cell apart from empty text
			b.WriteByte(byte('0' + v.Kind))
			b.WriteString(v.Key())
			b.WriteByte(0)
		}
		key := b.String()
		if seen[key] {
			dups++
			continue
		}
		seen[key] = true
	}
	return dups
}
