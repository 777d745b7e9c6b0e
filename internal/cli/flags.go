package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// timeValue is a pflag.Value for instants. A bare "15:04" means that time
// on the current local day.
type timeValue struct {
	t   *time.Time
	now func() time.Time
}

var _ pflag.Value = (*timeValue)(nil)

func newTimeValue(t *time.Time, now func() time.Time) *timeValue {
	return &timeValue{t: t, now: now}
}

func (v *timeValue) Set(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*v.t = t
			return nil
		}
	}
	clock, err := time.ParseInLocation("15:04", s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid time %q (use 15:04, 2006-01-02 15:04 or RFC 3339)", s)
	}
	now := v.now().In(time.Local)
	*v.t = time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
	return nil
}

func (v *timeValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format("2006-01-02 15:04")
}

func (v *timeValue) Type() string { return "time" }

// dateValue is a pflag.Value for calendar dates.
type dateValue struct {
	t *time.Time
}

func (v *dateValue) Set(s string) error {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	*v.t = t
	return nil
}

func (v *dateValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format(domain.DateLayout)
}

func (v *dateValue) Type() string { return "date" }

// decimalValue is a pflag.Value for money amounts.
type decimalValue struct {
	d *decimal.Decimal
}

func (v *decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*v.d = d
	return nil
}

func (v *decimalValue) String() string {
	if v.d == nil {
		return "0"
	}
	return v.d.String()
}

func (v *decimalValue) Type() string { return "amount" }
