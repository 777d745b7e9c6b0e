package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/worktally/internal/cli/formatter"
	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func resolveProject(cmd *cobra.Command, app *App, ref string) (*domain.WorkProject, error) {
	if ref == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	p, err := app.Projects.Resolve(cmd.Context(), ref)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("project not found: %q", ref)
	}
	return p, err
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage work projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var (
		shortID, title, description, currency, direction string
		fixed, fragments                                 bool
		interval, fragmentMin                            int
	)
	salary := decimal.Zero

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := domain.ParseRoundingDirection(direction)
			if err != nil {
				return err
			}
			cur, err := domain.ParseCurrency(currency)
			if err != nil {
				return err
			}

			p := &domain.WorkProject{
				ShortID:              shortID,
				Title:                title,
				Description:          description,
				Currency:             cur,
				Salary:               salary,
				HourlyPayment:        !fixed,
				RoundingInterval:     interval,
				RoundingDirection:    dir,
				RoundInTimeFragments: fragments,
				TimeFragmentInterval: fragmentMin,
				TotalPayout:          decimal.Zero,
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Created project %s [%s]", p.Title, p.ShortID)))
			return nil
		},
	}

	defaults := app.Config.Rounding
	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. ACME01)")
	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&currency, "currency", app.Config.DefaultCurrency, "Currency code")
	cmd.Flags().Var(&decimalValue{d: &salary}, "salary", "Hourly rate, or the flat fee with --fixed")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "Pay a flat salary per entry instead of hourly")
	cmd.Flags().IntVar(&interval, "rounding-interval", defaults.IntervalMin, "Round tracked time to this many minutes (0 disables)")
	cmd.Flags().StringVar(&direction, "rounding-direction", defaults.Direction, "Rounding direction: up, down or nearest")
	cmd.Flags().BoolVar(&fragments, "fragments", defaults.TimeFragments, "Snap entry bounds to whole time fragments")
	cmd.Flags().IntVar(&fragmentMin, "fragment-min", defaults.FragmentMin, "Time fragment length in minutes")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No projects yet. Create one with: worktally project add"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project>",
		Short: "Show a project with its tracked totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd, app, args[0])
			if err != nil {
				return err
			}
			sum, err := app.Entries.Summary(cmd.Context(), p.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(p, formatter.ProjectTotals{
				Entries:        sum.Entries,
				TrackedSeconds: sum.TrackedSeconds,
				Earnings:       sum.Earnings,
				Unpaid:         sum.Unpaid,
			}))
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <project>",
		Short: "Delete a project and all of its time entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd, app, args[0])
			if err != nil {
				return err
			}
			if !yes && app.interactive() {
				ok, err := app.confirm(fmt.Sprintf("Delete %s and all of its time entries?", p.Title))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}
			if err := app.Projects.Delete(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Deleted project %s", p.DisplayID())))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
