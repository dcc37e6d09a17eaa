package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/service"
	"github.com/charmbracelet/lipgloss"
)

const textWidth = 64

var wrapStyle = lipgloss.NewStyle().Width(textWidth).Foreground(ColorFg)

// sourceNote marks offline content. Fallback text reads like a real reply,
// so the note stays dim.
func sourceNote(fallback bool, reason string) string {
	if !fallback {
		return ""
	}
	return "\n" + Dim(fmt.Sprintf("(offline reading: %s)", reason))
}

// FormatInsight renders today's reading.
func FormatInsight(out service.InsightOutcome) string {
	title := out.Category.DisplayName()
	var b strings.Builder
	b.WriteString(wrapStyle.Render(out.Content))
	if out.Reused {
		b.WriteString("\n\n" + Dim("Already revealed today. A new reading arrives tomorrow."))
	}
	b.WriteString(sourceNote(out.Fallback, out.Reason))
	return RenderBox(title+" · "+string(out.Day), b.String()) + "\n"
}

// FormatChat renders one reply and the remaining exchanges.
func FormatChat(out service.ChatOutcome) string {
	var b strings.Builder
	b.WriteString(StylePurple.Render("Ghostini") + Dim(" › ") + wrapStyle.Render(out.Reply))
	b.WriteString(sourceNote(out.Fallback, out.Reason))
	b.WriteString("\n\n")
	b.WriteString(chatCounter(out.Count))
	if out.Completed {
		b.WriteString("  " + StyleGreen.Render("chat complete"))
	} else {
		b.WriteString("  " + Dim(fmt.Sprintf("%d left today", out.Remaining)))
	}
	b.WriteString("\n")
	return b.String()
}

func chatCounter(count int) string {
	var b strings.Builder
	for i := range domain.MaxChatExchanges {
		if i < count {
			b.WriteString(StyleGreen.Render("●"))
		} else {
			b.WriteString(StyleDim.Render("○"))
		}
	}
	return b.String()
}

// FormatMission renders today's mission card.
func FormatMission(out service.MissionOutcome) string {
	var b strings.Builder
	b.WriteString(Bold(out.Title) + "\n")
	b.WriteString(wrapStyle.Render(out.Description) + "\n\n")
	b.WriteString(StageIndicator(out.Stage))
	if out.Location != "" {
		b.WriteString(Dim("  near " + out.Location))
	}
	if out.Reused {
		b.WriteString("\n" + Dim("Today's mission was already chosen."))
	}
	b.WriteString(sourceNote(out.Fallback, out.Reason))
	return RenderBox("Lucky mission", b.String()) + "\n"
}

// FormatStage renders the mission stage after an advance.
func FormatStage(stage domain.MissionStage) string {
	msg := "Mission " + StageIndicator(stage)
	if stage == domain.MissionCompleted {
		msg += Dim("  collect today's star to receive the reward")
	}
	return msg + "\n"
}

// FormatEmotion renders the recorded emotion.
func FormatEmotion(out service.EmotionOutcome) string {
	msg := fmt.Sprintf("Today's feeling: %s %s", Star(out.Emotion), EmotionColor(out.Emotion).Render(out.DisplayName))
	if out.Reason == service.ReasonNoChat {
		msg += "\n" + Dim("No chat today, so the default feeling was chosen.")
	} else {
		msg += sourceNote(out.Fallback, out.Reason)
	}
	return msg + "\n"
}

// FormatStar renders a collected star and the constellation after it.
func FormatStar(out service.StarOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s collected for %s\n\n", Star(out.Emotion), out.Day)
	b.WriteString(Constellation(out.Ledger))
	b.WriteString("\n")
	if out.MissionStage == domain.MissionRewardReceived {
		b.WriteString(StylePurple.Render("✦ Mission reward received") + "\n")
	}
	if out.AllDone {
		b.WriteString(StyleGreen.Render("Every step is done for today. See you tomorrow!") + "\n")
	}
	return b.String()
}
