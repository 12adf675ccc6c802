package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"autostat/domain/core"
)

// ============================================================================
// CELLS
// ============================================================================

// ValueKind discriminates the three cell states of a decoded dataset
type ValueKind uint8

const (
	KindMissing ValueKind = iota
	KindNumber
	KindText
)

// Value is one nullable scalar cell
type Value struct {
	Kind ValueKind `json:"kind"`
	Num  float64   `json:"num,omitempty"`
	Text string    `json:"text,omitempty"`
}

// Missing returns the missing-cell marker
func Missing() Value { return Value{Kind: KindMissing} }

// Number returns a numeric cell; NaN and infinities are treated as missing
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing()
	}
	return Value{Kind: KindNumber, Num: f}
}

// Text returns a label cell
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// IsMissing reports whether the cell holds no value
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// Float returns the numeric reading of the cell. Text cells are parsed, so a
// label column can be coerced; unparsable text reports false.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Key is the canonical label of the cell, used for grouping and cross-tabulation
func (v Value) Key() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

// String renders the cell for previews and audit text
func (v Value) String() string {
	if v.IsMissing() {
		return "NA"
	}
	return v.Key()
}

// ============================================================================
// COLUMNS
// ============================================================================

// Column is a named sequence of cells
type Column struct {
	Name   string  `json:"name"`
	Values []Value `json:"values"`
}

// Len returns the number of cells
func (c Column) Len() int { return len(c.Values) }

// MissingCount returns the number of missing cells
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// IsNumeric reports whether every present cell is a number. A column with no
// present cells is not numeric.
func (c Column) IsNumeric() bool {
	seen := false
	for _, v := range c.Values {
		switch v.Kind {
		case KindText:
			return false
		case KindNumber:
			seen = true
		}
	}
	return seen
}

// Present returns the non-missing cells in order
func (c Column) Present() []Value {
	out := make([]Value, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.IsMissing() {
			out = append(out, v)
		}
	}
	return out
}

// Numbers returns the numeric reading of every cell, with ok=false where the
// cell is missing or cannot be parsed
func (c Column) Numbers() (nums []float64, ok []bool) {
	nums = make([]float64, len(c.Values))
	ok = make([]bool, len(c.Values))
	for i, v := range c.Values {
		nums[i], ok[i] = v.Float()
	}
	return nums, ok
}

func (c Column) clone() Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return Column{Name: c.Name, Values: values}
}

// ============================================================================
// DATASET
// ============================================================================

// Dataset is an ordered set of equally long columns. It is request-scoped and
// never persisted.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a dataset, rejecting duplicate names and ragged columns
func New(columns ...Column) (*Dataset, error) {
	ds := &Dataset{index: make(map[string]int, len(columns))}
	for i, col := range columns {
		if _, dup := ds.index[col.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", core.ErrMalformedDataset, col.Name)
		}
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				core.ErrMalformedDataset, col.Name, col.Len(), ds.rows)
		}
		ds.index[col.Name] = i
		ds.columns = append(ds.columns, col)
	}
	return ds, nil
}

// MustNew is New for literals in tests and fixtures
func MustNew(columns ...Column) *Dataset {
	ds, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return ds
}

// NumRows returns the shared column length
func (d *Dataset) NumRows() int { return d.rows }

// NumCols returns the number of columns
func (d *Dataset) NumCols() int { return len(d.columns) }

// Columns returns the columns in order. Callers must not mutate the cells.
func (d *Dataset) Columns() []Column { return d.columns }

// Names returns the column names in order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column exists
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %q", core.ErrColumnNotFound, name)
	}
	return d.columns[i], nil
}

// Row returns the cells of row i across all columns
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

// MissingCount returns the number of missing cells in the whole dataset
func (d *Dataset) MissingCount() int {
	n := 0
	for _, c := range d.columns {
		n += c.MissingCount()
	}
	return n
}

// HasMissing reports whether any cell is missing
func (d *Dataset) HasMissing() bool {
	for _, c := range d.columns {
		for _, v := range c.Values {
			if v.IsMissing() {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy that can be modified freely
func (d *Dataset) Clone() *Dataset {
	cols := make([]Column, len(d.columns))
	for i, c := range d.columns {
		cols[i] = c.clone()
	}
	index := make(map[string]int, len(d.index))
	for k, v := range d.index {
		index[k] = v
	}
	return &Dataset{columns: cols, index: index, rows: d.rows}
}

// Without returns a dataset lacking the named columns
func (d *Dataset) Without(names ...string) *Dataset {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := make([]Column, 0, len(d.columns))
	for _, c := range d.columns {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	out, _ := New(kept...)
	if len(kept) > 0 {
		out.rows = d.rows
	}
	return out
}

// FilterRows returns a dataset holding only the rows for which keep is true
func (d *Dataset) FilterRows(keep func(row int) bool) *Dataset {
	var rows []int
	for i := 0; i < d.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	cols := make([]Column, len(d.columns))
	for j, c := range d.columns {
		values := make([]Value, len(rows))
		for k, r := range rows {
			values[k] = c.Values[r]
		}
		cols[j] = Column{Name: c.Name, Values: values}
	}
	out, _ := New(cols...)
	out.rows = len(rows)
	return out
}

// Head returns at most n leading rows
func (d *Dataset) Head(n int) *Dataset {
	return d.FilterRows(func(row int) bool { return row < n })
}

// SetColumn replaces the cells of an existing column in place
func (d *Dataset) SetColumn(name string, values []Value) error {
	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrColumnNotFound, name)
	}
	if len(values) != d.rows {
		return fmt.Errorf("%w: column %q replacement has %d rows, expected %d",
			core.ErrMalformedDataset, name, len(values), d.rows)
	}
	d.columns[i] = Column{Name: name, Values: values}
	return nil
}
