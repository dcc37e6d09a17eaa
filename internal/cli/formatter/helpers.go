package formatter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDay describes day relative to today ("Today", "Yesterday", "3d ago").
// Invalid keys are returned as-is.
func RelativeDay(day, today domain.DayKey) string {
	d, err1 := time.Parse(domain.DayKeyLayout, string(day))
	t, err2 := time.Parse(domain.DayKeyLayout, string(today))
	if err1 != nil || err2 != nil {
		return string(day)
	}
	days := int(d.Sub(t).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0:
		return fmt.Sprintf("In %dd", days)
	default:
		return fmt.Sprintf("%dd ago", -days)
	}
}

// Check renders a done/pending marker.
func Check(done bool) string {
	if done {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("○")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if id == "" {
		return StyleDim.Render("--")
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// StateMessage turns a state-machine error into a short hint for the user.
// Other errors yield "".
func StateMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrLimitExceeded):
		return StyleYellow.Render("Today's chat is complete. Come back tomorrow for more.")
	case errors.Is(err, domain.ErrLedgerFull):
		return StyleYellow.Render("The constellation is complete: all 7 stars are collected.")
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return StyleYellow.Render("Already done for today.")
	case errors.Is(err, domain.ErrInvalidTransition):
		return StyleYellow.Render("That step is not available yet: " + err.Error())
	default:
		return ""
	}
}
