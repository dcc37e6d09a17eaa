package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/fortune/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDebugCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Shift the day or wipe stored state",
	}

	cmd.AddCommand(
		newDebugOffsetCmd(app),
		newDebugAdvanceCmd(app),
		newDebugClearOffsetCmd(app),
		newDebugResetCmd(app),
	)
	return cmd
}

// parseDays reads a signed day count. Flag parsing is disabled on the
// commands that use it so "-2" is not taken for a shorthand flag.
func parseDays(args []string, def int) (int, error) {
	switch len(args) {
	case 0:
		return def, nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("day count must be a whole number, got %q", args[0])
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected one day count, got %d arguments", len(args))
	}
}

func printToday(cmd *cobra.Command, app *App) {
	fmt.Fprintf(cmd.OutOrStdout(), "Today is %s (offset %+d)\n", app.Debug.Today(), app.Debug.Offset())
}

func newDebugOffsetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:                "offset [days]",
		Short:              "Show or set the day offset",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				printToday(cmd, app)
				return nil
			}
			days, err := parseDays(args, 0)
			if err != nil {
				return err
			}
			if err := app.Debug.SetOffset(cmd.Context(), days); err != nil {
				return err
			}
			printToday(cmd, app)
			return nil
		},
	}
}

func newDebugAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:                "advance [days]",
		Short:              "Move the day forward (default 1, negative goes back)",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := parseDays(args, 1)
			if err != nil {
				return err
			}
			if _, err := app.Debug.Advance(cmd.Context(), days); err != nil {
				return err
			}
			printToday(cmd, app)
			return nil
		},
	}
}

func newDebugClearOffsetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-offset",
		Short: "Return to the real date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Debug.ClearOffset(cmd.Context()); err != nil {
				return err
			}
			printToday(cmd, app)
			return nil
		},
	}
}

func newDebugResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored day, the ledger and the offset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.canPrompt() {
					return errors.New("reset deletes all data; pass --yes to confirm")
				}
				ok, err := app.Prompter.Confirm("Delete all fortune data?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Nothing deleted."))
					return nil
				}
			}
			if err := app.Debug.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Check(true)+" All data deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation")
	return cmd
}
