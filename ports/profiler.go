package ports

import (
	"autostat/domain/dataset"
)

// ProfilerPort renders the descriptive part of a report
type ProfilerPort interface {
	Describe(ds *dataset.Dataset) (string, error)
}
