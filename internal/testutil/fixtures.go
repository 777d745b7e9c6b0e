package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.WorkProject)

func WithShortID(id string) ProjectOption {
	return func(p *domain.WorkProject) {
		p.ShortID = id
	}
}

func WithSalary(amount string, hourly bool) ProjectOption {
	return func(p *domain.WorkProject) {
		p.Salary = decimal.RequireFromString(amount)
		p.HourlyPayment = hourly
	}
}

func WithProjectCurrency(c domain.Currency) ProjectOption {
	return func(p *domain.WorkProject) {
		p.Currency = c
	}
}

func WithTimeFragments(minutes int) ProjectOption {
	return func(p *domain.WorkProject) {
		p.RoundInTimeFragments = true
		p.TimeFragmentInterval = minutes
	}
}

func WithRounding(minutes int, dir domain.RoundingDirection) ProjectOption {
	return func(p *domain.WorkProject) {
		p.RoundingInterval = minutes
		p.RoundingDirection = dir
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestWorkProject(title string, opts ...ProjectOption) *domain.WorkProject {
	now := time.Now().UTC()
	p := &domain.WorkProject{
		ID:                uuid.New().String(),
		ShortID:           defaultShortID(title),
		Title:             title,
		Currency:          domain.CurrencyUSD,
		Salary:            decimal.NewFromInt(60),
		HourlyPayment:     true,
		RoundingDirection: domain.RoundUp,
		TotalPayout:       decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TimeEntry options
type TimeEntryOption func(*domain.TimeEntry)

func WithMemo(m string) TimeEntryOption {
	return func(e *domain.TimeEntry) {
		e.Memo = &m
	}
}

func WithPaid(payoutID string) TimeEntryOption {
	return func(e *domain.TimeEntry) {
		e.Paid = true
		e.PayoutID = &payoutID
	}
}

func WithEntrySalary(amount string, hourly bool) TimeEntryOption {
	return func(e *domain.TimeEntry) {
		e.Salary = decimal.RequireFromString(amount)
		e.HourlyPayment = hourly
	}
}

// NewTestTimeEntry builds an entry over [start, end) with ActiveSeconds set
// to the full span.
func NewTestTimeEntry(projectID string, start, end time.Time, opts ...TimeEntryOption) *domain.TimeEntry {
	e := &domain.TimeEntry{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		StartTime:     start,
		EndTime:       end,
		RealStartTime: start,
		TrueEndTime:   end,
		ActiveSeconds: int(end.Sub(start) / time.Second),
		Currency:      domain.CurrencyUSD,
		Salary:        decimal.NewFromInt(60),
		HourlyPayment: true,
		CreatedAt:     time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func NewTestPayout(title, value string, projectID *string) *domain.Payout {
	return &domain.Payout{
		ID:        uuid.New().String(),
		Title:     title,
		Value:     decimal.RequireFromString(value),
		Currency:  domain.CurrencyUSD,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}
}

// RecurringCashFlow options
type RecurringOption func(*domain.RecurringCashFlow)

func WithEndDate(d time.Time) RecurringOption {
	return func(r *domain.RecurringCashFlow) {
		r.EndDate = &d
	}
}

func WithAmount(amount string) RecurringOption {
	return func(r *domain.RecurringCashFlow) {
		r.Amount = decimal.RequireFromString(amount)
	}
}

func NewTestRecurringCashFlow(title string, interval domain.FinanceInterval, start time.Time, opts ...RecurringOption) *domain.RecurringCashFlow {
	r := &domain.RecurringCashFlow{
		ID:        uuid.New().String(),
		Title:     title,
		Amount:    decimal.NewFromInt(-100),
		Currency:  domain.CurrencyUSD,
		Interval:  interval,
		StartDate: domain.CalendarDate(start),
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Date is a shorthand for a UTC calendar date in tests.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
