package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Reservation and rescheduling constants
const (
	// DefaultCurrency is the platform's default billing currency
	DefaultCurrency = "BOB"

	// DefaultReservationDays is the span applied when a reservation is
	// created without an explicit end date
	DefaultReservationDays = 3

	// UrgentRescheduleWindow marks a linked reservation as urgent for
	// support-priority purposes when it starts within this window
	UrgentRescheduleWindow = 24 * time.Hour
)

// Support defaults, used when no SupportConfig row exists yet
const (
	DefaultMaxTicketsPerAgent = 10
	DefaultAutoCloseDays      = 7
)
