package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/worktally/internal/cli/formatter"
	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPayoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payout",
		Short: "Record money received",
	}

	cmd.AddCommand(
		newPayoutAddCmd(app),
		newPayoutListCmd(app),
		newPayoutRemoveCmd(app),
	)

	return cmd
}

// printPayoutResult shows the step report and passes err through, so a
// partially applied payout is reported before the command fails.
func printPayoutResult(w io.Writer, verb string, res *service.PayoutResult, err error) error {
	if res == nil {
		return err
	}
	p := res.Payout
	line := fmt.Sprintf("%s payout %s (%s)", verb, p.Title, formatter.FormatMoney(p.Value, p.Currency))
	if err != nil {
		fmt.Fprintln(w, formatter.Warning(line+" with errors"))
	} else {
		fmt.Fprintln(w, formatter.Success(line))
	}
	fmt.Fprint(w, formatter.FormatStepReport(res.Report))
	return err
}

func newPayoutAddCmd(app *App) *cobra.Command {
	var (
		title, currency, projectRef string
		entryRefs                   []string
		noCashFlow                  bool
		date                        time.Time
	)
	value := decimal.Zero

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a payout, book it as a cash flow and mark entries paid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := domain.ParseCurrency(currency)
			if err != nil {
				return err
			}
			in := service.PayoutInput{
				Title:        title,
				Value:        value,
				Currency:     cur,
				SkipCashFlow: noCashFlow,
				Date:         date,
			}

			if projectRef != "" {
				p, err := resolveProject(cmd, app, projectRef)
				if err != nil {
					return err
				}
				in.ProjectID = &p.ID
				if !cmd.Flags().Changed("currency") {
					in.Currency = p.Currency
				}

				if len(entryRefs) > 0 {
					entries, err := app.Entries.ListByProject(cmd.Context(), p.ID)
					if err != nil {
						return err
					}
					for _, ref := range entryRefs {
						e, err := matchByPrefix("time entry", ref, entries, func(e *domain.TimeEntry) string { return e.ID })
						if err != nil {
							return err
						}
						in.EntryIDs = append(in.EntryIDs, e.ID)
					}
				}
			} else if len(entryRefs) > 0 {
				return fmt.Errorf("--entries requires --project")
			}

			res, err := app.Payouts.Create(cmd.Context(), in)
			return printPayoutResult(cmd.OutOrStdout(), "Recorded", res, err)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Payout title")
	cmd.Flags().Var(&decimalValue{d: &value}, "value", "Amount received")
	cmd.Flags().StringVar(&currency, "currency", app.Config.DefaultCurrency, "Currency code (defaults to the project's)")
	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project the payout is for")
	cmd.Flags().StringSliceVar(&entryRefs, "entries", nil, "Time entry IDs covered by this payout")
	cmd.Flags().BoolVar(&noCashFlow, "no-cashflow", false, "Do not book the payout as a cash flow")
	cmd.Flags().Var(&dateValue{t: &date}, "date", "Cash flow date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newPayoutListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List payouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			payouts, err := app.Payouts.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(payouts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No payouts yet."))
				return nil
			}
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			labels := make(map[string]string, len(projects))
			for _, p := range projects {
				labels[p.ID] = p.DisplayID()
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPayoutList(payouts, labels))
			return nil
		},
	}
}

func newPayoutRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <payout-id>",
		Short: "Delete a payout and release its time entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payouts, err := app.Payouts.List(cmd.Context())
			if err != nil {
				return err
			}
			p, err := matchByPrefix("payout", args[0], payouts, func(p *domain.Payout) string { return p.ID })
			if err != nil {
				return err
			}
			res, err := app.Payouts.Delete(cmd.Context(), p.ID)
			return printPayoutResult(cmd.OutOrStdout(), "Deleted", res, err)
		},
	}
}
