package service

import (
	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/shopspring/decimal"
)

// summarizeEntries totals tracked time and earnings for a project's entries.
// Unpaid counts only entries not yet covered by a payout.
func summarizeEntries(entries []*domain.TimeEntry, currency domain.Currency) EntrySummary {
	sum := EntrySummary{
		Earnings: decimal.Zero,
		Unpaid:   decimal.Zero,
		Currency: currency,
	}
	for _, e := range entries {
		sum.Entries++
		sum.TrackedSeconds += e.ActiveSeconds
		earned := e.Earnings()
		sum.Earnings = sum.Earnings.Add(earned)
		if !e.Paid {
			sum.Unpaid = sum.Unpaid.Add(earned)
		}
	}
	return sum
}

// sameEntrySet reports whether both slices hold the same entry IDs,
// ignoring order.
func sameEntrySet(a, b []domain.TimeEntry) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, e := range a {
		seen[e.ID]++
	}
	for _, e := range b {
		if seen[e.ID] == 0 {
			return false
		}
		seen[e.ID]--
	}
	return true
}
