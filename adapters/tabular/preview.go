package tabular

import (
	"fmt"

	"autostat/domain/dataset"
)

// MaxMissingLocations caps how many missing cells a preview points at
const MaxMissingLocations = 5

// DetectionMethod explains to the user what counts as missing
const DetectionMethod = "Missing values are detected by inspecting every cell of the uploaded file. " +
	"Empty cells and standard markers such as 'NA', 'N/A', 'NaN' or 'null' count as missing. " +
	"The whole file is scanned for these values to keep the analysis consistent."

// MissingDataInfo summarises where an upload has gaps
type MissingDataInfo struct {
	HasMissingData         bool     `json:"has_missing_data"`
	ColumnsWithMissingData []string `json:"columns_with_missing_data"`
	MissingValueLocations  []string `json:"missing_value_locations"`
	DetectionMethod        *string  `json:"detection_method"`
}

// Preview is the first rows of an upload plus its missing-data summary
type Preview struct {
	Columns     []string        `json:"columns"`
	PreviewData [][]interface{} `json:"preview_data"`
	MissingData MissingDataInfo `json:"missing_data_info"`
}

// BuildPreview takes the first n rows; missing cells become null
func BuildPreview(ds *dataset.Dataset, n int) Preview {
	p := Preview{
		Columns:     ds.Names(),
		PreviewData: make([][]interface{}, 0, n),
		MissingData: MissingDataInfo{
			ColumnsWithMissingData: []string{},
			MissingValueLocations:  []string{},
		},
	}

	head := ds.Head(n)
	for i := 0; i < head.NumRows(); i++ {
		cells := head.Row(i)
		row := make([]interface{}, len(cells))
		for j, v := range cells {
			switch v.Kind {
			case dataset.KindNumber:
				row[j] = v.Num
			case dataset.KindText:
				row[j] = v.Text
			default:
				row[j] = nil
			}
		}
		p.PreviewData = append(p.PreviewData, row)
	}

	for _, col := range ds.Columns() {
		if col.MissingCount() > 0 {
			p.MissingData.ColumnsWithMissingData = append(p.MissingData.ColumnsWithMissingData, col.Name)
		}
	}
	if len(p.MissingData.ColumnsWithMissingData) == 0 {
		return p
	}

	p.MissingData.HasMissingData = true
	method := DetectionMethod
	p.MissingData.DetectionMethod = &method

	names := ds.Names()
scan:
	for i := 0; i < ds.NumRows(); i++ {
		for j, v := range ds.Row(i) {
			if !v.IsMissing() {
				continue
			}
			// +1 for zero-based rows, +1 for the header line
			p.MissingData.MissingValueLocations = append(p.MissingData.MissingValueLocations,
				fmt.Sprintf("Row %d, column '%s'", i+2, names[j]))
			if len(p.MissingData.MissingValueLocations) == MaxMissingLocations {
				break scan
			}
		}
	}
	return p
}
