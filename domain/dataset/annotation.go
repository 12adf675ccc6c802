package dataset

import (
	"fmt"
	"strings"

	"autostat/domain/core"
)

// VariableType is the measurement scale a caller declares for a column
type VariableType string

const (
	Continuous  VariableType = "continuous"
	Binary      VariableType = "binary"
	Nominal     VariableType = "nominal"
	Ordinal     VariableType = "ordinal"
	Categorical VariableType = "categorical"
)

// typeAliases maps lower-cased labels, including the Polish ones the web
// frontend sends, onto a scale
var typeAliases = map[string]VariableType{
	"continuous":   Continuous,
	"numeric":      Continuous,
	"ciągła":       Continuous,
	"binary":       Binary,
	"binarna":      Binary,
	"nominal":      Nominal,
	"nominalna":    Nominal,
	"ordinal":      Ordinal,
	"porządkowa":   Ordinal,
	"categorical":  Categorical,
	"kategoryczna": Categorical,
}

// ParseVariableType normalises a declared type; unknown labels report false
func ParseVariableType(s string) (VariableType, bool) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// Annotation pairs a column with the type string the caller declared for it
type Annotation struct {
	Column string `json:"column"`
	Type   string `json:"type"`
}

// Scale returns the normalised type of the annotation
func (a Annotation) Scale() (VariableType, bool) {
	return ParseVariableType(a.Type)
}

// Annotations keeps the caller's declaration order, which decides scenario
// pairing order
type Annotations []Annotation

// Validate rejects blank column names and repeated columns
func (a Annotations) Validate() error {
	seen := make(map[string]bool, len(a))
	for _, ann := range a {
		if strings.TrimSpace(ann.Column) == "" {
			return fmt.Errorf("%w: blank column name", core.ErrInvalidAnnotation)
		}
		if seen[ann.Column] {
			return fmt.Errorf("%w: column %q declared twice", core.ErrInvalidAnnotation, ann.Column)
		}
		seen[ann.Column] = true
	}
	return nil
}
