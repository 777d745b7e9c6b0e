package cli

import (
	"fmt"

	"github.com/alexanderramin/worktally/internal/cli/formatter"
	"github.com/alexanderramin/worktally/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				if app.ConfigPath != "" {
					fmt.Fprintln(out, formatter.Dim("# "+app.ConfigPath))
				}
				return config.Encode(out, app.Config)
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a sample configuration file",
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.ConfigPath == "" {
					return fmt.Errorf("no config path resolved")
				}
				if err := config.WriteSample(app.ConfigPath); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Wrote "+app.ConfigPath))
				return nil
			},
		},
	)

	return cmd
}
