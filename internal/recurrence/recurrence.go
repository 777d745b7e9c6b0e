// Package recurrence turns recurring cash flow rules into dated single cash
// flows without duplicating or skipping occurrences.
package recurrence

import (
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/google/uuid"
)

// newID generates identities for materialized cash flows. Swapped in tests.
var newID = uuid.NewString

// OccurrenceAt returns the k-th occurrence (k >= 0) of rule, ignoring its end date.
// Month-based cadences always step from the original start date and clamp to
// the last day of shorter months, so a rule starting Jan 31 yields Feb 28/29
// and then Mar 31.
func OccurrenceAt(rule domain.RecurringCashFlow, k int) time.Time {
	start := domain.CalendarDate(rule.StartDate)
	switch rule.Interval {
	case domain.IntervalDay:
		return start.AddDate(0, 0, k)
	case domain.IntervalWeek:
		return start.AddDate(0, 0, 7*k)
	case domain.IntervalQuarter:
		return addMonthsClamped(start, 3*k)
	case domain.IntervalHalfYear:
		return addMonthsClamped(start, 6*k)
	case domain.IntervalYear:
		return addMonthsClamped(start, 12*k)
	default:
		return addMonthsClamped(start, k)
	}
}

// NextOccurrence returns the first occurrence strictly after the calendar day
// of after. It returns false once the rule's end date has passed.
func NextOccurrence(rule domain.RecurringCashFlow, after time.Time) (time.Time, bool) {
	after = domain.CalendarDate(after)
	for k := 0; ; k++ {
		occ := OccurrenceAt(rule, k)
		if rule.EndDate != nil && occ.After(domain.CalendarDate(*rule.EndDate)) {
			return time.Time{}, false
		}
		if occ.After(after) {
			return occ, true
		}
	}
}

// DueDates lists the occurrences of rule that fall inside the materialization
// window: after the latest existing date (or from the start date when there
// is none) up to and including min(asOf, end date).
func DueDates(rule domain.RecurringCashFlow, existing []time.Time, asOf time.Time) []time.Time {
	limit := domain.CalendarDate(asOf)
	if rule.EndDate != nil {
		if end := domain.CalendarDate(*rule.EndDate); end.Before(limit) {
			limit = end
		}
	}

	seen := make(map[time.Time]bool, len(existing))
	var latest time.Time
	for _, d := range existing {
		d = domain.CalendarDate(d)
		seen[d] = true
		if d.After(latest) {
			latest = d
		}
	}

	var due []time.Time
	for k := 0; ; k++ {
		occ := OccurrenceAt(rule, k)
		if occ.After(limit) {
			break
		}
		if len(existing) > 0 && !occ.After(latest) {
			continue
		}
		if !seen[occ] {
			due = append(due, occ)
		}
	}
	return due
}

// Materialize builds one active single cash flow per missing due date of
// rule. Feeding the returned dates back in as existing yields nothing more.
func Materialize(rule domain.RecurringCashFlow, existing []time.Time, asOf time.Time) []domain.SingleCashFlow {
	dates := DueDates(rule, existing, asOf)
	if len(dates) == 0 {
		return nil
	}

	out := make([]domain.SingleCashFlow, 0, len(dates))
	for _, d := range dates {
		ruleID := rule.ID
		out = append(out, domain.SingleCashFlow{
			ID:                  newID(),
			Title:               rule.Title,
			Amount:              rule.Amount,
			Currency:            rule.Currency,
			Date:                d,
			RecurringCashFlowID: &ruleID,
			IsActive:            true,
		})
	}
	return out
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
