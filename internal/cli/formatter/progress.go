package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fortune/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// dailySteps is the number of checkpoints counted by DailyProgress.
const dailySteps = 5

// DailyProgress returns how many of the day's steps are done and the total:
// insight, chat, mission completed, emotion, star.
func DailyProgress(rec domain.ProgressRecord) (done, total int) {
	for _, ok := range []bool{
		rec.InsightGenerated,
		rec.ChatCompleted,
		rec.MissionStage.Rank() >= domain.MissionCompleted.Rank(),
		rec.EmotionLabel != "",
		rec.StarCollected,
	} {
		if ok {
			done++
		}
	}
	return done, dailySteps
}

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
