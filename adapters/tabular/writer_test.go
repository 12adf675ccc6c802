package tabular

import (
	"bytes"
	"testing"

	"autostat/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWithGaps() *dataset.Dataset {
	return dataset.MustNew(
		dataset.Column{Name: "score", Values: []dataset.Value{dataset.Number(1.5), dataset.Missing(), dataset.Number(3)}},
		dataset.Column{Name: "city", Values: []dataset.Value{dataset.Text("Gdańsk"), dataset.Text("Poznań"), dataset.Missing()}},
	)
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleWithGaps(), FormatCSV))
	assert.Equal(t, "score,city\n1.5,Gdańsk\n,Poznań\n3,\n", buf.String())
}

func TestEncodeDecodesBack(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatXLSX} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, sampleWithGaps(), format))

			ds, err := NewDataReader(nil).Decode("out."+string(format), buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, []string{"score", "city"}, ds.Names())
			assert.Equal(t, 2, ds.MissingCount())
			assert.Equal(t, sampleWithGaps().Row(0), ds.Row(0))
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	assert.Error(t, Encode(&bytes.Buffer{}, sampleWithGaps(), Format("ods")))
}
