package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fortune/internal/cli/formatter"
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Show or save the details readings are written for",
	}

	cmd.AddCommand(
		newUserShowCmd(app),
		newUserSetCmd(app),
	)
	return cmd
}

func newUserShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show today's saved details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov, err := app.Ritual.Overview(cmd.Context())
			if err != nil {
				return err
			}
			if !ov.HasUser {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No details saved today. Run 'fortune user set'."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s · born %s\n", formatter.Bold(ov.User.Name), ov.User.BirthDate)
			return nil
		},
	}
}

func newUserSetCmd(app *App) *cobra.Command {
	var name, birth string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save your name and birth date for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && birth == "" {
				if !app.canPrompt() {
					return errNoInput
				}
				return promptUser(cmd, app, domain.UserInfo{})
			}

			return saveUser(cmd, app, domain.UserInfo{Name: strings.TrimSpace(name), BirthDate: birth})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your name (2 to 20 characters)")
	cmd.Flags().StringVar(&birth, "birth", "", "Birth date: YYYY-MM-DD, YYYYMMDD or YYMMDD")
	return cmd
}

func promptUser(cmd *cobra.Command, app *App, current domain.UserInfo) error {
	info, err := app.Prompter.UserInfo(current)
	if err != nil {
		return err
	}
	return saveUser(cmd, app, info)
}

func saveUser(cmd *cobra.Command, app *App, info domain.UserInfo) error {
	info.BirthDate = domain.NormalizeBirthDate(strings.TrimSpace(info.BirthDate))
	if err := app.Ritual.SaveUser(cmd.Context(), info); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s · born %s\n", formatter.Check(true), info.Name, info.BirthDate)
	return nil
}
