package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fortune/internal/domain"
)

// Constellation draws the seven ledger slots in day order followed by the
// filled count.
func Constellation(entries []domain.LedgerEntry) string {
	slots := make([]string, domain.LedgerCapacity)
	for i := range slots {
		var e domain.Emotion
		if i < len(entries) {
			e = entries[i].Emotion
		}
		slots[i] = Star(e)
	}
	return strings.Join(slots, " ") + "  " + Dim(fmt.Sprintf("%d/%d", len(entries), domain.LedgerCapacity))
}

// FormatLedger renders the constellation and one row per collected star.
func FormatLedger(entries []domain.LedgerEntry, today domain.DayKey) string {
	var b strings.Builder
	b.WriteString(Header("Constellation") + "\n\n")
	b.WriteString(Constellation(entries) + "\n\n")

	if len(entries) == 0 {
		b.WriteString(Dim("No stars yet. Finish a day to collect the first one.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			string(e.Day),
			Dim(RelativeDay(e.Day, today)),
			Star(e.Emotion) + " " + EmotionColor(e.Emotion).Render(e.Emotion.DisplayName()),
		})
	}
	b.WriteString(RenderTable([]string{"#", "DAY", "WHEN", "FEELING"}, rows))
	if len(entries) >= domain.LedgerCapacity {
		b.WriteString("\n" + StyleGreen.Render("The constellation is complete.") + "\n")
	}
	return b.String()
}
