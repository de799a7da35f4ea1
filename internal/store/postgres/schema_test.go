package postgres

import (
	"strings"
	"testing"
)

func TestSchemaSQL(t *testing.T) {
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS users",
		"email  TEXT PRIMARY KEY",
		"CREATE TABLE IF NOT EXISTS financial_data",
		"ON financial_data (ticker, timestamp DESC)",
	} {
		if !strings.Contains(schemaSQL, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}
