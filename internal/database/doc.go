// Package database provides PostgreSQL connection pool management.
//
// The server keeps two tables in a single database:
//   - users: one subscription per email (relational data)
//   - financial_data: ticker samples written by the external collector (time-series data)
package database
