package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fortune/internal/cli/formatter"
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// categoryFlag accepts an insight category name. Unknown names are rejected
// at parse time rather than silently mapped to daily.
type categoryFlag struct {
	value domain.InsightCategory
}

var _ pflag.Value = (*categoryFlag)(nil)

func (f *categoryFlag) String() string { return string(f.value) }

func (f *categoryFlag) Set(s string) error {
	c := domain.InsightCategory(strings.ToLower(strings.TrimSpace(s)))
	if !domain.ValidInsightCategories[c] {
		return fmt.Errorf("unknown category %q (daily, love, study, career, health)", s)
	}
	f.value = c
	return nil
}

func (f *categoryFlag) Type() string { return "category" }

func newInsightCmd(app *App) *cobra.Command {
	category := &categoryFlag{value: domain.CategoryDaily}

	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Reveal today's reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("category") && app.canPrompt() {
				ov, err := app.Ritual.Overview(ctx)
				if err != nil {
					return err
				}
				if !ov.Record.InsightGenerated {
					if !ov.HasUser {
						if err := promptUser(cmd, app, domain.UserInfo{}); err != nil {
							return err
						}
					}
					c, err := app.Prompter.Category()
					if err != nil {
						return err
					}
					category.value = c
				}
			}

			stop := app.spin(cmd, "Reading the stars...")
			out, err := app.Ritual.GenerateInsight(ctx, domain.UserInfo{}, category.value)
			stop()
			if err != nil {
				return reportState(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInsight(out))
			return nil
		},
	}

	cmd.Flags().Var(category, "category", "Reading focus: daily, love, study, career or health")
	return cmd
}

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one of today's three chat messages",
		Long: "Send a chat message. Each day allows three exchanges. Without a\n" +
			"message on a terminal, chat prompts until today's exchanges are used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			msg := strings.TrimSpace(strings.Join(args, " "))
			if msg != "" {
				return sendChat(cmd, app, msg)
			}
			if !app.canPrompt() {
				return errNoInput
			}

			for {
				ov, err := app.Ritual.Overview(ctx)
				if err != nil {
					return err
				}
				if ov.Record.ChatCompleted {
					return reportState(cmd, domain.ErrLimitExceeded)
				}
				line, err := app.Prompter.ChatMessage(ov.Record.ChatExchangeCount + 1)
				if err != nil {
					return err
				}
				if err := sendChat(cmd, app, line); err != nil {
					return err
				}
				if ov.Record.ChatExchangeCount+1 >= domain.MaxChatExchanges {
					return nil
				}
			}
		},
	}
}

func sendChat(cmd *cobra.Command, app *App, msg string) error {
	stop := app.spin(cmd, "Ghostini is thinking...")
	out, err := app.Ritual.Chat(cmd.Context(), msg)
	stop()
	if err != nil {
		return reportState(cmd, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChat(out))
	return nil
}

func newMissionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Get and progress today's lucky mission",
	}

	cmd.AddCommand(
		newMissionRecommendCmd(app),
		newMissionAdvanceCmd(app),
	)
	return cmd
}

func newMissionRecommendCmd(app *App) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend today's mission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if location == "" && app.canPrompt() {
				ov, err := app.Ritual.Overview(ctx)
				if err != nil {
					return err
				}
				if ov.Record.MissionStage == domain.MissionNone {
					if location, err = app.Prompter.Location(); err != nil {
						return err
					}
				}
			}

			stop := app.spin(cmd, "Choosing a mission...")
			out, err := app.Ritual.RecommendMission(ctx, location)
			stop()
			if err != nil {
				return reportState(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMission(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Where you are today")
	return cmd
}

func newMissionAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Move today's mission to its next stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := app.Ritual.AdvanceMission(cmd.Context())
			if err != nil {
				return reportState(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStage(stage))
			return nil
		},
	}
}

func newEmotionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "emotion",
		Short: "Name today's feeling from the chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := app.spin(cmd, "Listening back...")
			out, err := app.Ritual.AnalyzeEmotion(cmd.Context())
			stop()
			if err != nil {
				return reportState(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEmotion(out))
			return nil
		},
	}
}

func newCollectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Collect today's star into the constellation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.Ritual.CollectStar(cmd.Context())
			if err != nil {
				return reportState(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStar(out))
			return nil
		},
	}
}
