package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectTotals is the tracked-time summary shown on the project card.
type ProjectTotals struct {
	Entries        int
	TrackedSeconds int
	Earnings       decimal.Decimal
	Unpaid         decimal.Decimal
}

// FormatRate renders the project's pay, e.g. "$60.00/h" or "$500.00 flat".
func FormatRate(salary decimal.Decimal, hourly bool, c domain.Currency) string {
	if hourly {
		return FormatMoney(salary, c) + "/h"
	}
	return FormatMoney(salary, c) + " flat"
}

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.WorkProject) string {
	headers := []string{"ID", "TITLE", "RATE", "ROUNDING", "PAID OUT"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		rows = append(rows, []string{
			p.DisplayID(),
			Bold(p.Title),
			FormatRate(p.Salary, p.HourlyPayment, p.Currency),
			roundingLabel(p),
			FormatMoney(p.TotalPayout, p.Currency),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows, 2, 4))
}

// FormatProjectDetail renders the metadata card for one project.
func FormatProjectDetail(p *domain.WorkProject, totals ProjectTotals) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-10s", label)), value)
	}

	line("ID", p.DisplayID()+" "+TruncID(p.ID))
	if p.Description != "" {
		line("About", p.Description)
	}
	line("Rate", FormatRate(p.Salary, p.HourlyPayment, p.Currency))
	line("Rounding", roundingLabel(p))
	line("Entries", fmt.Sprintf("%d", totals.Entries))
	line("Tracked", FormatSeconds(totals.TrackedSeconds))
	line("Earned", FormatMoney(totals.Earnings, p.Currency))
	unpaid := FormatMoney(totals.Unpaid, p.Currency)
	if totals.Unpaid.IsPositive() {
		unpaid = StyleYellow.Render(unpaid)
	}
	line("Unpaid", unpaid)
	line("Paid out", FormatMoney(p.TotalPayout, p.Currency))

	return RenderBox(p.Title, b.String())
}

func roundingLabel(p *domain.WorkProject) string {
	var parts []string
	if p.RoundingInterval > 0 {
		parts = append(parts, fmt.Sprintf("%dm %s", p.RoundingInterval, p.RoundingDirection))
	}
	if p.RoundInTimeFragments {
		parts = append(parts, fmt.Sprintf("%dm fragments", p.TimeFragmentInterval))
	}
	if len(parts) == 0 {
		return Dim("--")
	}
	return strings.Join(parts, ", ")
}
