package cli

import (
	"time"

	"github.com/alexanderramin/worktally/internal/config"
	"github.com/alexanderramin/worktally/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Entries   service.TimeEntryService
	Payouts   service.PayoutService
	CashFlows service.CashFlowService

	Config     config.Config
	ConfigPath string

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)
	// Now is the clock used for relative time flags. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return confirmForm(title)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "worktally" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "worktally",
		Short:         "Work time and personal finance tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newEntryCmd(app),
		newPayoutCmd(app),
		newCashFlowCmd(app),
		newConfigCmd(app),
	)

	return root
}
