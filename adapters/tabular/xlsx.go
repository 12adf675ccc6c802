package tabular

import (
	"bytes"
	"fmt"

	"autostat/domain/core"

	"github.com/xuri/excelize/v2"
)

// readWorkbook reads every row of the first sheet
func readWorkbook(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", core.ErrMalformedDataset, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrMalformedDataset)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", core.ErrMalformedDataset, sheets[0], err)
	}
	return rows, nil
}
