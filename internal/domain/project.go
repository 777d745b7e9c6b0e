package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// WorkProject is a billable project that time entries are tracked against.
type WorkProject struct {
	ID          string
	ShortID     string
	Title       string
	Description string

	// Billing defaults copied onto new time entries.
	Currency      Currency
	Salary        decimal.Decimal
	HourlyPayment bool

	// Rounding
	RoundingInterval     int
	RoundingDirection    RoundingDirection
	RoundInTimeFragments bool
	TimeFragmentInterval int

	TotalPayout decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. ACME01, WEB0234).
func (p *WorkProject) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. ACME01)", p.ShortID)
	}
	return nil
}

// Validate checks the fields a project needs before it can be persisted.
func (p *WorkProject) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("project title is required")
	}
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if _, err := ParseCurrency(string(p.Currency)); err != nil {
		return err
	}
	if p.Salary.IsNegative() {
		return fmt.Errorf("salary must not be negative")
	}
	if p.RoundingInterval < 0 || p.TimeFragmentInterval < 0 {
		return fmt.Errorf("rounding intervals must not be negative")
	}
	if p.RoundInTimeFragments && p.TimeFragmentInterval == 0 {
		return fmt.Errorf("time fragment interval is required when rounding in time fragments")
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *WorkProject) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
