package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/worktally/internal/domain"
)

// FormatEntryList renders a project's time entries.
func FormatEntryList(entries []*domain.TimeEntry) string {
	headers := []string{"ID", "SPAN", "ACTIVE", "EARNED", "STATUS", "MEMO"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		memo := ""
		if e.Memo != nil {
			memo = *e.Memo
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			FormatSpan(e.StartTime, e.EndTime),
			FormatSeconds(e.ActiveSeconds),
			FormatMoney(e.Earnings(), e.Currency),
			PaidPill(e.Paid),
			memo,
		})
	}
	return RenderTable(headers, rows, 2, 3)
}

// FormatCollisions lists the existing entries a new entry ran into, and
// the pieces it was cut into.
func FormatCollisions(colliding, produced []domain.TimeEntry) string {
	var b strings.Builder
	b.WriteString(Warning(fmt.Sprintf("Overlaps %d existing %s:", len(colliding), plural(len(colliding), "entry", "entries"))))
	b.WriteString("\n")
	for _, e := range colliding {
		fmt.Fprintf(&b, "  %s %s\n", Dim("·"), FormatSpan(e.StartTime, e.EndTime))
	}
	if len(produced) > 0 {
		fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("Will be saved as %d %s:", len(produced), plural(len(produced), "entry", "entries"))))
		for _, e := range produced {
			fmt.Fprintf(&b, "  %s %s  %s\n", StyleGreen.Render("+"), FormatSpan(e.StartTime, e.EndTime), FormatSeconds(e.ActiveSeconds))
		}
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
