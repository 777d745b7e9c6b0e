package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/workflow"
	"github.com/shopspring/decimal"
)

// FormatPayoutList renders payouts newest first. projectLabels maps project
// IDs to display IDs.
func FormatPayoutList(payouts []*domain.Payout, projectLabels map[string]string) string {
	headers := []string{"ID", "TITLE", "VALUE", "PROJECT", "DATE"}
	rows := make([][]string, 0, len(payouts))
	for _, p := range payouts {
		project := Dim("--")
		if p.ProjectID != nil {
			project = projectLabels[*p.ProjectID]
			if project == "" {
				project = TruncID(*p.ProjectID)
			}
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Title),
			FormatMoney(p.Value, p.Currency),
			project,
			HumanDate(p.CreatedAt.Local()),
		})
	}
	return RenderTable(headers, rows, 2)
}

// FormatStepReport lists each side-effect step with its outcome.
func FormatStepReport(report workflow.Report) string {
	if len(report.Results) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(&b, "  %s\n", Failure(fmt.Sprintf("%s: %v", r.Step, r.Err)))
			continue
		}
		fmt.Fprintf(&b, "  %s\n", Success(r.Step))
	}
	return b.String()
}

// FormatRecurringList renders recurring cash flow rules.
func FormatRecurringList(rules []*domain.RecurringCashFlow) string {
	headers := []string{"ID", "TITLE", "AMOUNT", "EVERY", "FROM", "UNTIL"}
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		until := Dim("--")
		if r.EndDate != nil {
			until = r.EndDate.Format(domain.DateLayout)
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			Bold(r.Title),
			FormatSignedMoney(r.Amount, r.Currency),
			strings.ReplaceAll(string(r.Interval), "_", " "),
			r.StartDate.Format(domain.DateLayout),
			until,
		})
	}
	return RenderTable(headers, rows, 2)
}

// FormatCashFlowList renders dated cash flows followed by per-currency totals.
func FormatCashFlowList(flows []*domain.SingleCashFlow) string {
	headers := []string{"DATE", "TITLE", "AMOUNT", "SOURCE", ""}
	rows := make([][]string, 0, len(flows))
	totals := map[domain.Currency]decimal.Decimal{}
	var order []domain.Currency

	for _, f := range flows {
		source := Dim("manual")
		switch {
		case f.RecurringCashFlowID != nil:
			source = StyleBlue.Render("recurring")
		case f.PayoutID != nil:
			source = StylePurple.Render("payout")
		}
		rows = append(rows, []string{
			f.Date.Format(domain.DateLayout),
			f.Title,
			FormatSignedMoney(f.Amount, f.Currency),
			source,
			ActivePill(f.IsActive),
		})
		if !f.IsActive {
			continue
		}
		if _, ok := totals[f.Currency]; !ok {
			order = append(order, f.Currency)
		}
		totals[f.Currency] = totals[f.Currency].Add(f.Amount)
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows, 2))
	for _, c := range order {
		fmt.Fprintf(&b, "%s %s\n", Dim("Balance "+string(c)+":"), FormatSignedMoney(totals[c], c))
	}
	return b.String()
}
