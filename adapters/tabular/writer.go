package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"autostat/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// Encode writes ds in the given format; missing cells become empty cells so
// the result decodes back to the same dataset
func Encode(w io.Writer, ds *dataset.Dataset, format Format) error {
	switch format {
	case FormatXLSX:
		return writeWorkbook(w, ds)
	case FormatCSV:
		return writeCSV(w, ds)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func rowStrings(ds *dataset.Dataset, i int) []string {
	cells := ds.Row(i)
	out := make([]string, len(cells))
	for j, v := range cells {
		if !v.IsMissing() {
			out[j] = v.Key()
		}
	}
	return out
}

func writeCSV(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Names()); err != nil {
		return err
	}
	for i := 0; i < ds.NumRows(); i++ {
		if err := cw.Write(rowStrings(ds, i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeWorkbook(w io.Writer, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, ds.NumCols())
	for j, name := range ds.Names() {
		header[j] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := 0; i < ds.NumRows(); i++ {
		cells := ds.Row(i)
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
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
