package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestHumanDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now.Add(-3 * time.Hour), "Today"},
		{"yesterday", now.AddDate(0, 0, -1), "Yesterday"},
		{"older", time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), "Sep 30, 2022"},
		{"future", now.AddDate(0, 0, 2), "Feb 9, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanDateFrom(tt.input, now))
		})
	}
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "550e8400", stripANSI(TruncID("550e8400-e29b-41d4-a716-446655440000")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{-5, "0m"},
		{30, "30s"},
		{45 * 60, "45m"},
		{2*3600 + 5*60, "2h 05m"},
		{10 * 3600, "10h 00m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.in), "seconds=%d", tt.in)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$60.00", FormatMoney(decimal.NewFromInt(60), domain.CurrencyUSD))
	assert.Equal(t, "€12.50", FormatMoney(decimal.RequireFromString("12.5"), domain.CurrencyEUR))
	assert.Equal(t, "XYZ1.00", FormatMoney(decimal.NewFromInt(1), domain.Currency("XYZ")))
}

func TestFormatSignedMoney(t *testing.T) {
	assert.Equal(t, "-$100.00", stripANSI(FormatSignedMoney(decimal.NewFromInt(-100), domain.CurrencyUSD)))
	assert.Equal(t, "+$2500.00", stripANSI(FormatSignedMoney(decimal.NewFromInt(2500), domain.CurrencyUSD)))
}

func TestFormatSpan(t *testing.T) {
	start := time.Date(2024, 4, 15, 9, 0, 0, 0, time.Local)

	assert.Equal(t, "2024-04-15 09:00–10:30", FormatSpan(start, start.Add(90*time.Minute)))
	assert.Equal(t, "2024-04-15 22:00 → 2024-04-16 01:00",
		FormatSpan(start.Add(13*time.Hour), start.Add(16*time.Hour)))
}

func TestRenderBox(t *testing.T) {
	out := stripANSI(RenderBox("Projects", "hello"))
	assert.Contains(t, out, "PROJECTS")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "╭")
}
