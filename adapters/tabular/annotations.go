package tabular

import (
	"fmt"

	"autostat/domain/core"
	"autostat/domain/dataset"

	"github.com/tidwall/gjson"
)

// ParseVariableTypes reads a JSON object of column -> type, keeping the
// order the keys appear in the document
func ParseVariableTypes(raw string) (dataset.Annotations, error) {
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: variable types are not valid JSON", core.ErrInvalidAnnotation)
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: variable types must be a JSON object", core.ErrInvalidAnnotation)
	}

	var (
		out  dataset.Annotations
		bad  error
		seen = make(map[string]bool)
	)
	doc.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			bad = fmt.Errorf("%w: type of column %q must be a string", core.ErrInvalidAnnotation, key.String())
			return false
		}
		// a repeated key keeps its last value at its first position
		if seen[key.String()] {
			for i := range out {
				if out[i].Column == key.String() {
					out[i].Type = value.String()
				}
			}
			return true
		}
		seen[key.String()] = true
		out = append(out, dataset.Annotation{Column: key.String(), Type: value.String()})
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return out, nil
}
