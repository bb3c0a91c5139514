// Package sql embeds the database schema.
package sql

import (
	_ "embed"
)

//go:embed schema.sql
var schema string

// Schema returns the SQL statements that create every table.
func Schema() string {
	return schema
}
