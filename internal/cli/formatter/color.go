package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Night-sky palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// EmotionColor returns the style a star of the given emotion is drawn in.
func EmotionColor(e domain.Emotion) lipgloss.Style {
	switch e {
	case domain.EmotionHappy:
		return StyleYellow
	case domain.EmotionAngry:
		return StyleRed
	case domain.EmotionSad:
		return StyleBlue
	case domain.EmotionTimid:
		return StylePurple
	case domain.EmotionGrumpy:
		return StyleGreen
	default:
		return StyleDim
	}
}

// Star renders a filled star for e, or an empty slot when e is blank.
func Star(e domain.Emotion) string {
	if e == "" {
		return StyleDim.Render("☆")
	}
	return EmotionColor(e).Render("★")
}

// StageIndicator returns a colored marker for a mission stage.
func StageIndicator(stage domain.MissionStage) string {
	switch stage {
	case domain.MissionRecommended:
		return StyleBlue.Render("○ Recommended")
	case domain.MissionAccepted:
		return StyleYellow.Render("◐ Accepted")
	case domain.MissionCompleted:
		return StyleGreen.Render("● Completed")
	case domain.MissionRewardReceived:
		return StylePurple.Render("✦ Reward received")
	default:
		return StyleDim.Render("· None")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
