package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + strings.TrimRight(content, "\n")
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(strings.TrimRight(content, "\n"))
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	return HumanDateFrom(t, time.Now())
}

// HumanDateFrom is HumanDate relative to now.
func HumanDateFrom(t, now time.Time) string {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatSeconds renders a duration in seconds as "2h 05m", "45m" or "30s".
func FormatSeconds(sec int) string {
	if sec <= 0 {
		return "0m"
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", sec)
	}
}

// FormatMoney renders an amount with two decimals and the currency symbol.
func FormatMoney(amount decimal.Decimal, c domain.Currency) string {
	return c.Symbol() + amount.StringFixed(2)
}

// FormatSignedMoney colors incomes green and expenses red.
func FormatSignedMoney(amount decimal.Decimal, c domain.Currency) string {
	s := FormatMoney(amount.Abs(), c)
	if amount.IsNegative() {
		return StyleRed.Render("-" + s)
	}
	return StyleGreen.Render("+" + s)
}

// FormatSpan renders [start, end) compactly in local time, omitting the
// date on the end when both fall on the same day.
func FormatSpan(start, end time.Time) string {
	start, end = start.Local(), end.Local()
	if start.Format(domain.DateLayout) == end.Format(domain.DateLayout) {
		return fmt.Sprintf("%s %s–%s", start.Format(domain.DateLayout), start.Format("15:04"), end.Format("15:04"))
	}
	return fmt.Sprintf("%s → %s", start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
}
