// Package classify turns declared column types into the role sets the
// dispatcher pairs up.
package classify

import (
	"autostat/domain/dataset"
)

// Roles lists column names per role, each in annotation order. Categorical is
// the union used for cross-tabulation: nominal, binary, ordinal and columns
// declared with the generic categorical label.
type Roles struct {
	Continuous  []string
	Binary      []string
	Nominal     []string
	Ordinal     []string
	Categorical []string
}

// Classify partitions annotations into roles. Columns absent from ds and
// annotations with an unknown type are left out.
func Classify(annotations dataset.Annotations, ds *dataset.Dataset) Roles {
	var roles Roles
	seen := make(map[string]bool, len(annotations))
	for _, ann := range annotations {
		if seen[ann.Column] || !ds.Has(ann.Column) {
			continue
		}
		scale, ok := ann.Scale()
		if !ok {
			continue
		}
		seen[ann.Column] = true

		switch scale {
		case dataset.Continuous:
			roles.Continuous = append(roles.Continuous, ann.Column)
		case dataset.Binary:
			roles.Binary = append(roles.Binary, ann.Column)
		case dataset.Nominal:
			roles.Nominal = append(roles.Nominal, ann.Column)
		case dataset.Ordinal:
			roles.Ordinal = append(roles.Ordinal, ann.Column)
		}
		switch scale {
		case dataset.Binary, dataset.Nominal, dataset.Ordinal, dataset.Categorical:
			roles.Categorical = append(roles.Categorical, ann.Column)
		}
	}
	return roles
}

// Empty reports whether no column takes part in any scenario
func (r Roles) Empty() bool {
	return len(r.Continuous) == 0 && len(r.Categorical) == 0
}
