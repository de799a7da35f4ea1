// Package model defines shared data types used across tickerwatch.
//
// Conventions:
//   - Emails are the unique subscription key and are stored as given (no case folding).
//   - Tickers are exchange symbols as typed by the user (e.g., "AAPL").
//   - Sample timestamps are UTC time.Time values; ordering is by timestamp descending.
package model
