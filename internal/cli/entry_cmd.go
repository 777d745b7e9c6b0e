package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worktally/internal/cli/formatter"
	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/service"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entry",
		Aliases: []string{"log"},
		Short:   "Track time entries",
	}

	cmd.AddCommand(
		newEntryAddCmd(app),
		newEntryListCmd(app),
		newEntryRemoveCmd(app),
	)

	return cmd
}

func newEntryAddCmd(app *App) *cobra.Command {
	var (
		projectRef, memo string
		start, end       time.Time
		paused           time.Duration
		yes              bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a time entry, trimming it around entries that already exist",
		Example: `  worktally entry add --project ACME01 --from 09:00 --to 12:30
  worktally entry add --project ACME01 --from "2024-04-15 13:00" --to "2024-04-15 17:00" --paused 30m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd, app, projectRef)
			if err != nil {
				return err
			}

			draft := service.EntryDraft{
				ProjectID:     p.ID,
				Start:         start,
				End:           end,
				PausedSeconds: int(paused / time.Second),
			}
			if memo != "" {
				draft.Memo = &memo
			}

			plan, err := app.Entries.Plan(cmd.Context(), draft)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch plan.Outcome() {
			case service.OutcomeFullyOverlapped:
				fmt.Fprint(out, formatter.FormatCollisions(plan.Result.Colliding, nil))
				return service.ErrFullyOverlapped
			case service.OutcomeAdjusted:
				fmt.Fprint(out, formatter.FormatCollisions(plan.Result.Colliding, plan.Result.Produced))
				if !yes && app.interactive() {
					ok, err := app.confirm("Save the trimmed entries?")
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, formatter.Dim("Nothing saved."))
						return nil
					}
				}
			}

			res, err := app.Entries.Commit(cmd.Context(), plan)
			if errors.Is(err, service.ErrFullyOverlapped) {
				fmt.Fprint(out, formatter.FormatCollisions(res.Colliding, nil))
				return err
			}
			if err != nil {
				return err
			}

			tracked := 0
			for _, e := range res.Created {
				tracked += e.ActiveSeconds
			}
			msg := fmt.Sprintf("Logged %s on %s", formatter.FormatSeconds(tracked), p.DisplayID())
			if res.Outcome == service.OutcomeAdjusted {
				msg += fmt.Sprintf(" as %d entries", len(res.Created))
			}
			fmt.Fprintln(out, formatter.Success(msg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project short ID or UUID")
	cmd.Flags().Var(newTimeValue(&start, app.now), "from", "Start time (15:04, 2006-01-02 15:04 or RFC 3339)")
	cmd.Flags().Var(newTimeValue(&end, app.now), "to", "End time (15:04, 2006-01-02 15:04 or RFC 3339)")
	cmd.Flags().DurationVar(&paused, "paused", 0, "Break time within the span, e.g. 15m")
	cmd.Flags().StringVarP(&memo, "memo", "m", "", "What was worked on")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Save trimmed entries without asking")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newEntryListCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's time entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd, app, projectRef)
			if err != nil {
				return err
			}
			entries, err := app.Entries.ListByProject(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No time entries for "+p.DisplayID()+"."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntryList(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project short ID or UUID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newEntryRemoveCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Delete a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd, app, projectRef)
			if err != nil {
				return err
			}
			entries, err := app.Entries.ListByProject(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			e, err := matchByPrefix("time entry", args[0], entries, func(e *domain.TimeEntry) string { return e.ID })
			if err != nil {
				return err
			}
			if err := app.Entries.Delete(cmd.Context(), e.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Deleted entry "+formatter.FormatSpan(e.StartTime, e.EndTime)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project short ID or UUID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
