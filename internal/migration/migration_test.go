package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatementsAreIdempotent(t *testing.T) {
	r := NewRunner()
	assert.Equal(t, "1.0.0", r.Version())

	stmts := r.statements()
	assert.NotEmpty(t, stmts)
	for _, s := range stmts {
		assert.Contains(t, s.sql, "IF NOT EXISTS", s.name)
	}
	assert.True(t, strings.Contains(stmts[0].sql, "report_submissions"))
}
