// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// MinDate and MaxDate are the bounds substituted for absent discount window
// edges when normalizing windows for overlap comparison.
var (
	MinDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxDate = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// DateOnly truncates a time to midnight UTC of the same day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
