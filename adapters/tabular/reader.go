// Package tabular decodes uploaded CSV and XLSX files into datasets.
package tabular

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/internal"
)

// missingMarkers are the cell spellings read as a missing value
var missingMarkers = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissingMarker reports whether a raw cell denotes a missing value
func IsMissingMarker(cell string) bool {
	return missingMarkers[strings.TrimSpace(cell)]
}

// Format is a supported upload format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from the file extension; anything that is not a
// workbook is read as CSV
func FormatOf(fileName string) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// DataReader handles reading Excel and CSV uploads
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a reader; a nil logger discards output
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	return &DataReader{logger: logger}
}

// Decode reads file content into a dataset
func (r *DataReader) Decode(fileName string, content []byte) (*dataset.Dataset, error) {
	var (
		rows [][]string
		err  error
	)
	format := FormatOf(fileName)
	switch format {
	case FormatXLSX:
		rows, err = readWorkbook(content)
	default:
		rows, err = readCSV(content)
	}
	if err != nil {
		return nil, err
	}

	ds, err := buildDataset(rows)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s file %q decoded (%d columns, %d rows)", format, fileName, ds.NumCols(), ds.NumRows())
	return ds, nil
}

// buildDataset converts raw string rows, header first, into typed columns
func buildDataset(rows [][]string) (*dataset.Dataset, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: no columns to parse from file", core.ErrMalformedDataset)
	}

	headers := headerNames(rows[0])
	body := rows[1:]
	for i, row := range body {
		if len(row) > len(headers) {
			// line numbers count the header
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d",
				core.ErrMalformedDataset, len(headers), i+2, len(row))
		}
	}

	columns := make([]dataset.Column, len(headers))
	for j, name := range headers {
		raw := make([]string, len(body))
		for i, row := range body {
			if j < len(row) {
				raw[i] = row[j]
			}
		}
		columns[j] = dataset.Column{Name: name, Values: inferColumn(raw)}
	}
	return dataset.New(columns...)
}

// headerNames trims names, fills blanks as "Unnamed: i" and suffixes repeats
// with ".1", ".2"
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for seen[name] > 0 {
			name = base + "." + strconv.Itoa(seen[base])
			seen[base]++
		}
		seen[name]++
		names[i] = name
	}
	return names
}

// inferColumn makes the column numeric when every present cell parses as a
// number; otherwise all present cells stay text
func inferColumn(raw []string) []dataset.Value {
	values := make([]dataset.Value, len(raw))
	numeric := true
	for i, cell := range raw {
		cell = strings.TrimSpace(cell)
		if missingMarkers[cell] {
			values[i] = dataset.Missing()
			continue
		}
		values[i] = dataset.Text(cell)
		if numeric {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
			}
		}
	}
	if !numeric {
		return values
	}
	for i, v := range values {
		if v.Kind == dataset.KindText {
			f, _ := strconv.ParseFloat(v.Text, 64)
			values[i] = dataset.Number(f)
		}
	}
	return values
}
