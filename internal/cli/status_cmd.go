package cli

import (
	"fmt"

	"github.com/alexanderramin/fortune/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's steps and the constellation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, app)
		},
	}
}

func runStatus(cmd *cobra.Command, app *App) error {
	ov, err := app.Ritual.Overview(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverview(ov, app.Debug.Offset()))
	return nil
}

func newLedgerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ledger",
		Aliases: []string{"stars"},
		Short:   "Show the collected stars",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov, err := app.Ritual.Overview(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLedger(ov.Ledger, ov.Day))
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List every recorded day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := app.Ritual.History(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(recs, app.Debug.Today()))
			return nil
		},
	}
}
