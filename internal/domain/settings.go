package domain

import "time"

// Settings holds the single row of user-wide preferences and bookkeeping.
type Settings struct {
	ID                     string
	DefaultCurrency        Currency
	RoundingInterval       int
	RoundingDirection      RoundingDirection
	RoundInTimeFragments   bool
	TimeFragmentInterval   int
	LastRecurringProcessed *time.Time
}
