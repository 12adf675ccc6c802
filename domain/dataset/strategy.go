package dataset

import (
	"fmt"
	"strings"

	"autostat/domain/core"
)

// MissingStrategy selects how incomplete data is handled before testing
type MissingStrategy string

const (
	StrategyReject      MissingStrategy = "reject"
	StrategyDropColumns MissingStrategy = "drop-columns"
	StrategyDropRows    MissingStrategy = "drop-rows"
	StrategyImpute      MissingStrategy = "impute"
)

var strategyAliases = map[string]MissingStrategy{
	"reject":       StrategyReject,
	"none":         StrategyReject,
	"drop-columns": StrategyDropColumns,
	"drop_columns": StrategyDropColumns,
	"delete_cols":  StrategyDropColumns,
	"drop-rows":    StrategyDropRows,
	"drop_rows":    StrategyDropRows,
	"delete_rows":  StrategyDropRows,
	"impute":       StrategyImpute,
}

// ParseMissingStrategy accepts the canonical identifiers and the legacy ones
// used by the web frontend
func ParseMissingStrategy(s string) (MissingStrategy, error) {
	if st, ok := strategyAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownStrategy, s)
}
