package ports

import (
	"autostat/domain/dataset"
)

// DatasetDecoder turns uploaded file bytes into a dataset. The file name
// selects the format.
type DatasetDecoder interface {
	Decode(fileName string, content []byte) (*dataset.Dataset, error)
}
