package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/service"
)

// Steps renders the daily checklist for rec.
func Steps(rec domain.ProgressRecord) string {
	var b strings.Builder
	step := func(done bool, label, detail string) {
		fmt.Fprintf(&b, "  %s %s", Check(done), label)
		if detail != "" {
			b.WriteString("  " + Dim(detail))
		}
		b.WriteString("\n")
	}

	insight := ""
	if rec.InsightGenerated {
		insight = rec.InsightCategory.DisplayName()
	}
	step(rec.InsightGenerated, "Insight", insight)
	step(rec.ChatCompleted, "Chat", fmt.Sprintf("%d/%d", rec.ChatExchangeCount, domain.MaxChatExchanges))

	mission := ""
	if rec.MissionStage != domain.MissionNone {
		mission = rec.MissionTitle + " · " + string(rec.MissionStage)
	}
	step(rec.MissionStage.Rank() >= domain.MissionCompleted.Rank(), "Mission", mission)
	step(rec.EmotionLabel != "", "Feeling", rec.EmotionDisplayName)
	step(rec.StarCollected, "Star", "")
	return b.String()
}

// FormatOverview renders the status screen. offset is the debug day offset;
// zero hides the notice.
func FormatOverview(ov service.Overview, offset int) string {
	var b strings.Builder
	b.WriteString(Header("Today · "+string(ov.Day)) + "\n")
	if offset != 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("debug offset %+d day(s)", offset)) + "\n")
	}
	if ov.HasUser {
		b.WriteString(Dim(fmt.Sprintf("%s · born %s", ov.User.Name, ov.User.BirthDate)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(Steps(ov.Record))
	done, total := DailyProgress(ov.Record)
	b.WriteString("\n  " + RenderProgress(float64(done)/float64(total), 20) + "\n\n")

	b.WriteString("  " + Constellation(ov.Ledger) + "\n")
	return b.String()
}

// FormatHistory renders one row per stored day.
func FormatHistory(recs []domain.ProgressRecord, today domain.DayKey) string {
	if len(recs) == 0 {
		return Dim("No days recorded yet.") + "\n"
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		done, total := DailyProgress(rec)
		star := Star("")
		if rec.StarCollected {
			star = Star(rec.EmotionLabel)
		}
		rows = append(rows, []string{
			string(rec.Day),
			Dim(RelativeDay(rec.Day, today)),
			fmt.Sprintf("%d/%d", done, total),
			fmt.Sprintf("%d/%d", rec.ChatExchangeCount, domain.MaxChatExchanges),
			string(rec.MissionStage),
			star,
		})
	}
	return RenderTable([]string{"DAY", "WHEN", "STEPS", "CHAT", "MISSION", "STAR"}, rows)
}
