package model

import "time"

// Subscription is a user's tracked ticker, keyed by email.
type Subscription struct {
	Email  string // Primary key
	Ticker string // Subscribed ticker symbol
}

// ValueSample is one observed value of a ticker. Samples are written by an
// external collector and are read-only here.
type ValueSample struct {
	Ticker    string
	Value     float64
	Timestamp time.Time
}

// TimestampLayout is the wire format for sample timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders a sample timestamp in UTC using TimestampLayout.
func (s ValueSample) FormatTimestamp() string {
	return s.Timestamp.UTC().Format(TimestampLayout)
}
