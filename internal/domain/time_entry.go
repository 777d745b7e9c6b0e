package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDegenerateInterval is returned when an interval does not move forward in time.
var ErrDegenerateInterval = errors.New("interval start must be before its end")

// TimeEntry is a contiguous span of tracked work on a project.
type TimeEntry struct {
	ID        string
	ProjectID string

	StartTime     time.Time
	EndTime       time.Time
	// RealStartTime and TrueEndTime keep the bounds as recorded, before any
	// fragment rounding moved StartTime/EndTime.
	RealStartTime time.Time
	TrueEndTime   time.Time

	ActiveSeconds int
	PausedSeconds int

	Currency      Currency
	Salary        decimal.Decimal
	HourlyPayment bool
	Paid          bool

	PayoutID              *string
	SingleCashFlowID      *string
	Memo                  *string
	TimeFragmentsInterval *int

	CreatedAt time.Time
}

// Validate reports ErrDegenerateInterval for empty or backwards spans.
func (e *TimeEntry) Validate() error {
	if !e.StartTime.Before(e.EndTime) {
		return fmt.Errorf("time entry %s [%s, %s): %w", e.ID,
			e.StartTime.Format(time.RFC3339), e.EndTime.Format(time.RFC3339), ErrDegenerateInterval)
	}
	if e.ActiveSeconds < 0 || e.PausedSeconds < 0 {
		return fmt.Errorf("time entry %s: active and paused seconds must not be negative", e.ID)
	}
	return nil
}

// Duration is the wall-clock length of the entry.
func (e *TimeEntry) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Overlaps reports whether the open intervals [start, end) of both entries
// intersect. Back-to-back entries do not overlap.
func (e *TimeEntry) Overlaps(other *TimeEntry) bool {
	return e.StartTime.Before(other.EndTime) && other.StartTime.Before(e.EndTime)
}

// Earnings returns the money earned by this entry. Hourly entries earn
// salary per active hour, otherwise the salary is a flat amount.
func (e *TimeEntry) Earnings() decimal.Decimal {
	if !e.HourlyPayment {
		return e.Salary
	}
	hours := decimal.NewFromInt(int64(e.ActiveSeconds)).Div(decimal.NewFromInt(3600))
	return e.Salary.Mul(hours).Round(2)
}
