package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/worktally/internal/cli/formatter"
	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newCashFlowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cashflow",
		Aliases: []string{"cf"},
		Short:   "Track incomes and expenses",
	}

	cmd.AddCommand(
		newRecurringCmd(app),
		newCashFlowListCmd(app),
		newCashFlowProcessCmd(app),
	)

	return cmd
}

func newRecurringCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring cash flow rules",
	}

	cmd.AddCommand(
		newRecurringAddCmd(app),
		newRecurringListCmd(app),
		newRecurringRemoveCmd(app),
	)

	return cmd
}

func newRecurringAddCmd(app *App) *cobra.Command {
	var (
		title, description, currency, interval string
		start, end                             time.Time
	)
	amount := decimal.Zero

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a recurring income (positive) or expense (negative)",
		Example: `  worktally cashflow recurring add --title Rent --amount -1200 --every month --start 2024-01-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := domain.ParseFinanceInterval(interval)
			if err != nil {
				return err
			}
			cur, err := domain.ParseCurrency(currency)
			if err != nil {
				return err
			}
			r := &domain.RecurringCashFlow{
				Title:       title,
				Description: description,
				Amount:      amount,
				Currency:    cur,
				Interval:    iv,
				StartDate:   start,
			}
			if !end.IsZero() {
				r.EndDate = &end
			}
			if err := app.CashFlows.CreateRecurring(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Created %s every %s (%s)",
				r.Title, r.Interval, formatter.FormatSignedMoney(r.Amount, r.Currency))))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().Var(&decimalValue{d: &amount}, "amount", "Amount per occurrence; negative for expenses")
	cmd.Flags().StringVar(&currency, "currency", app.Config.DefaultCurrency, "Currency code")
	cmd.Flags().StringVar(&interval, "every", "month", "Cadence: day, week, month, quarter, half_year, year")
	cmd.Flags().Var(&dateValue{t: &start}, "start", "First occurrence (YYYY-MM-DD)")
	cmd.Flags().Var(&dateValue{t: &end}, "end", "Last possible occurrence (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newRecurringListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring cash flow rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := app.CashFlows.ListRecurring(cmd.Context())
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No recurring cash flows."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecurringList(rules))
			return nil
		},
	}
}

func newRecurringRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <rule-id>",
		Short: "Delete a recurring rule; cash flows it already produced are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := app.CashFlows.ListRecurring(cmd.Context())
			if err != nil {
				return err
			}
			r, err := matchByPrefix("recurring cash flow", args[0], rules, func(r *domain.RecurringCashFlow) string { return r.ID })
			if err != nil {
				return err
			}
			if err := app.CashFlows.DeleteRecurring(cmd.Context(), r.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Deleted "+r.Title))
			return nil
		},
	}
}

func newCashFlowListCmd(app *App) *cobra.Command {
	var from, to time.Time

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dated cash flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			var fromPtr, toPtr *time.Time
			if !from.IsZero() {
				fromPtr = &from
			}
			if !to.IsZero() {
				toPtr = &to
			}
			flows, err := app.CashFlows.ListSingle(cmd.Context(), fromPtr, toPtr)
			if err != nil {
				return err
			}
			if len(flows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No cash flows in range."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCashFlowList(flows))
			return nil
		},
	}

	cmd.Flags().Var(&dateValue{t: &from}, "from", "First date (YYYY-MM-DD)")
	cmd.Flags().Var(&dateValue{t: &to}, "to", "Last date (YYYY-MM-DD)")
	return cmd
}

func newCashFlowProcessCmd(app *App) *cobra.Command {
	var (
		asOf  time.Time
		force bool
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Materialize due occurrences of recurring cash flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := asOf
			if day.IsZero() {
				day = app.now()
			}
			res, err := app.CashFlows.ProcessRecurring(cmd.Context(), day, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Skipped {
				fmt.Fprintln(out, formatter.Dim("Already processed today. Use --force to run again."))
				return nil
			}
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Created %d cash flows from %d rules", len(res.Created), res.Rules)))
			if len(res.Created) > 0 {
				created := make([]*domain.SingleCashFlow, len(res.Created))
				for i := range res.Created {
					created[i] = &res.Created[i]
				}
				fmt.Fprint(out, formatter.FormatCashFlowList(created))
			}
			return nil
		},
	}

	cmd.Flags().Var(&dateValue{t: &asOf}, "as-of", "Process up to this date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&force, "force", false, "Run even if already processed today")
	return cmd
}
