package tabular

import (
	"errors"
	"testing"

	"autostat/domain/core"
	"autostat/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecodeCSV_InfersColumnKinds(t *testing.T) {
	content := []byte("age,city,score\n30,Rome,1.5\nNA,Oslo,\n41,,2\n")
	ds, err := NewDataReader(nil).Decode("data.csv", content)
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "city", "score"}, ds.Names())
	assert.Equal(t, 3, ds.NumRows())

	age, _ := ds.Column("age")
	assert.True(t, age.IsNumeric())
	assert.Equal(t, dataset.Number(30), age.Values[0])
	assert.True(t, age.Values[1].IsMissing())

	city, _ := ds.Column("city")
	assert.False(t, city.IsNumeric())
	assert.Equal(t, dataset.Text("Oslo"), city.Values[1])
	assert.True(t, city.Values[2].IsMissing())

	score, _ := ds.Column("score")
	assert.Equal(t, dataset.Number(2), score.Values[2])
	assert.Equal(t, 3, ds.MissingCount())
}

func TestDecodeCSV_MixedColumnStaysText(t *testing.T) {
	ds, err := NewDataReader(nil).Decode("x.csv", []byte("level\n1\n2\nhigh\n"))
	require.NoError(t, err)
	col, _ := ds.Column("level")
	assert.Equal(t, dataset.Text("1"), col.Values[0])
	assert.Equal(t, dataset.Text("high"), col.Values[2])
}

func TestDecodeCSV_Latin1Fallback(t *testing.T) {
	// "miasto\nKraków" with ó encoded as the single Latin-1 byte 0xF3
	content := []byte{'m', 'i', 'a', 's', 't', 'o', '\n', 'K', 'r', 'a', 'k', 0xF3, 'w', '\n'}
	ds, err := NewDataReader(nil).Decode("pl.csv", content)
	require.NoError(t, err)
	col, _ := ds.Column("miasto")
	assert.Equal(t, "Kraków", col.Values[0].Text)
}

func TestDecodeCSV_StripsBOM(t *testing.T) {
	ds, err := NewDataReader(nil).Decode("bom.csv", append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\n1\n")...))
	require.NoError(t, err)
	assert.True(t, ds.Has("a"))
}

func TestDecodeCSV_HeaderFixups(t *testing.T) {
	ds, err := NewDataReader(nil).Decode("h.csv", []byte("a,a,,a\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.2"}, ds.Names())
}

func TestDecodeCSV_ShortRowsPadWithMissing(t *testing.T) {
	ds, err := NewDataReader(nil).Decode("s.csv", []byte("a,b\n1\n2,3\n"))
	require.NoError(t, err)
	b, _ := ds.Column("b")
	assert.True(t, b.Values[0].IsMissing())
}

func TestDecodeCSV_Malformed(t *testing.T) {
	_, err := NewDataReader(nil).Decode("bad.csv", []byte("a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMalformedDataset))
	assert.Contains(t, err.Error(), "line 2")

	_, err = NewDataReader(nil).Decode("empty.csv", nil)
	assert.True(t, errors.Is(err, core.ErrMalformedDataset))
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"age", "group"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{31, "a"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{45, "b"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := NewDataReader(nil).Decode("book.XLSX", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "group"}, ds.Names())
	age, _ := ds.Column("age")
	assert.Equal(t, dataset.Number(45), age.Values[1])
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatXLSX, FormatOf("a.xlsx"))
	assert.Equal(t, FormatCSV, FormatOf("a.csv"))
	assert.Equal(t, FormatCSV, FormatOf("noext"))
}

func TestIsMissingMarker(t *testing.T) {
	for _, m := range []string{"", " ", "NA", "N/A", "NaN", "null", "None", "#N/A"} {
		assert.True(t, IsMissingMarker(m), m)
	}
	for _, v := range []string{"0", "na?", "missing"} {
		assert.False(t, IsMissingMarker(v), v)
	}
}
