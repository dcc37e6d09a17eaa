package cli

import (
	"fmt"

	"github.com/alexanderramin/fortune/internal/cli/formatter"
	"github.com/alexanderramin/fortune/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services CLI commands run against.
type App struct {
	Ritual *service.RitualService
	Debug  *service.DebugService

	// Prompter asks for input a command was not given. Nil disables prompts.
	Prompter Prompter
	// IsInteractive reports whether stdin and stdout are a terminal. Nil
	// means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) canPrompt() bool {
	return a.Prompter != nil && a.interactive()
}

// spin shows a spinner on stderr while a generation call runs. It returns the
// function that stops it.
func (a *App) spin(cmd *cobra.Command, msg string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), msg)
}

// NewRootCmd creates the top-level "fortune" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "fortune",
		Short:         "Daily fortune ritual: insight, chat, mission and a star for the constellation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, app)
		},
	}

	root.AddCommand(
		newStatusCmd(app),
		newInsightCmd(app),
		newChatCmd(app),
		newMissionCmd(app),
		newEmotionCmd(app),
		newCollectCmd(app),
		newLedgerCmd(app),
		newHistoryCmd(app),
		newUserCmd(app),
		newBoardCmd(app),
		newDebugCmd(app),
	)

	return root
}

// reportState prints the hint for a state-machine error and swallows it.
// Any other error is returned unchanged.
func reportState(cmd *cobra.Command, err error) error {
	if msg := formatter.StateMessage(err); msg != "" {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}
	return err
}
