package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payout records money received, optionally for a work project.
type Payout struct {
	ID        string
	Title     string
	Value     decimal.Decimal
	Currency  Currency
	ProjectID *string
	CreatedAt time.Time
}

func (p *Payout) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("payout title is required")
	}
	if p.Value.IsNegative() {
		return fmt.Errorf("payout value must not be negative")
	}
	if _, err := ParseCurrency(string(p.Currency)); err != nil {
		return err
	}
	return nil
}

// RecurringCashFlow is a rule that materializes into dated SingleCashFlows.
type RecurringCashFlow struct {
	ID          string
	Title       string
	Description string
	Amount      decimal.Decimal
	Currency    Currency
	Interval    FinanceInterval
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

func (r *RecurringCashFlow) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("cash flow title is required")
	}
	if _, err := ParseFinanceInterval(string(r.Interval)); err != nil {
		return err
	}
	if _, err := ParseCurrency(string(r.Currency)); err != nil {
		return err
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("cash flow start date is required")
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("cash flow end date %s is before start date %s",
			r.EndDate.Format(DateLayout), r.StartDate.Format(DateLayout))
	}
	return nil
}

// SingleCashFlow is one dated income (positive) or expense (negative).
type SingleCashFlow struct {
	ID                  string
	Title               string
	Amount              decimal.Decimal
	Currency            Currency
	Date                time.Time
	RecurringCashFlowID *string
	PayoutID            *string
	IsActive            bool
	CreatedAt           time.Time
}

// DateLayout is the calendar-date layout used for cash flow dates.
const DateLayout = "2006-01-02"

// CalendarDate truncates t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
