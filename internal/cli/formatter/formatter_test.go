package formatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/service"
	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences so assertions are terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDay(t *testing.T) {
	today := domain.DayKey("2026-02-07")

	tests := []struct {
		day  domain.DayKey
		want string
	}{
		{"2026-02-07", "Today"},
		{"2026-02-08", "Tomorrow"},
		{"2026-02-06", "Yesterday"},
		{"2026-02-10", "In 3d"},
		{"2026-01-31", "7d ago"},
		{"2025-02-07", "365d ago"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		t.Run(string(tt.day), func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDay(tt.day, today))
		})
	}
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		width int
		want  string
	}{
		{"empty", 0, 4, "[░░░░]   0%"},
		{"half", 0.5, 4, "[██░░]  50%"},
		{"full", 1, 4, "[████] 100%"},
		{"over 100% clamps", 1.7, 4, "[████] 100%"},
		{"negative clamps", -1, 4, "[░░░░]   0%"},
		{"tiny width clamps to 2", 0.5, 1, "[█░]  50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderProgress(tt.pct, tt.width)))
		})
	}
}

func TestDailyProgress(t *testing.T) {
	rec := *domain.NewProgressRecord("2026-02-07")
	done, total := DailyProgress(rec)
	assert.Equal(t, 0, done)
	assert.Equal(t, 5, total)

	rec.InsightGenerated = true
	rec.ChatCompleted = true
	rec.MissionStage = domain.MissionAccepted
	done, _ = DailyProgress(rec)
	assert.Equal(t, 2, done, "an accepted mission is not done yet")

	rec.MissionStage = domain.MissionRewardReceived
	rec.EmotionLabel = domain.EmotionTimid
	rec.StarCollected = true
	done, _ = DailyProgress(rec)
	assert.Equal(t, 5, done)
}

func TestConstellation(t *testing.T) {
	entries := []domain.LedgerEntry{
		{Day: "2026-02-01", Emotion: domain.EmotionHappy},
		{Day: "2026-02-02", Emotion: domain.EmotionSad},
	}
	got := stripANSI(Constellation(entries))
	assert.Equal(t, 2, strings.Count(got, "★"))
	assert.Equal(t, 5, strings.Count(got, "☆"))
	assert.Contains(t, got, "2/7")
}

func TestFormatLedger(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := stripANSI(FormatLedger(nil, "2026-02-07"))
		assert.Contains(t, out, "CONSTELLATION")
		assert.Contains(t, out, "No stars yet")
	})

	t.Run("full", func(t *testing.T) {
		var entries []domain.LedgerEntry
		for i := range domain.LedgerCapacity {
			entries = append(entries, domain.LedgerEntry{
				Day:     domain.DayKey(fmt.Sprintf("2026-02-0%d", i+1)),
				Emotion: domain.Emotions[i%len(domain.Emotions)],
			})
		}
		out := stripANSI(FormatLedger(entries, "2026-02-07"))
		assert.Contains(t, out, "2026-02-01")
		assert.Contains(t, out, "6d ago")
		assert.Contains(t, out, "Today")
		assert.Contains(t, out, domain.EmotionGrumpy.DisplayName())
		assert.Contains(t, out, "7/7")
		assert.Contains(t, out, "complete")
	})
}

func TestFormatOverview(t *testing.T) {
	rec := *domain.NewProgressRecord("2026-02-07")
	rec.InsightGenerated = true
	rec.InsightCategory = domain.CategoryLove
	rec.ChatExchangeCount = 2
	rec.MissionStage = domain.MissionAccepted
	rec.MissionTitle = "Riverside Run"

	ov := service.Overview{
		Day:     "2026-02-07",
		Record:  rec,
		Ledger:  []domain.LedgerEntry{{Day: "2026-02-06", Emotion: domain.EmotionAngry}},
		User:    domain.UserInfo{Name: "Mina", BirthDate: "1990-05-05"},
		HasUser: true,
	}

	out := stripANSI(FormatOverview(ov, 0))
	assert.Contains(t, out, "TODAY · 2026-02-07")
	assert.Contains(t, out, "Mina · born 1990-05-05")
	assert.Contains(t, out, "Love")
	assert.Contains(t, out, "2/3")
	assert.Contains(t, out, "Riverside Run · accepted")
	assert.Contains(t, out, "1/7")
	assert.NotContains(t, out, "debug offset")

	out = stripANSI(FormatOverview(ov, -2))
	assert.Contains(t, out, "debug offset -2 day(s)")
}

func TestFormatHistory(t *testing.T) {
	assert.Contains(t, stripANSI(FormatHistory(nil, "2026-02-07")), "No days recorded")

	rec := *domain.NewProgressRecord("2026-02-05")
	rec.ChatExchangeCount = 3
	rec.ChatCompleted = true
	rec.EmotionLabel = domain.EmotionSad
	out := stripANSI(FormatHistory([]domain.ProgressRecord{rec}, "2026-02-07"))
	assert.Contains(t, out, "2026-02-05")
	assert.Contains(t, out, "2d ago")
	assert.Contains(t, out, "3/3")
	assert.NotContains(t, out, "★", "no star until it is collected")
}

func TestFormatChat(t *testing.T) {
	out := stripANSI(FormatChat(service.ChatOutcome{Reply: "Sounds fun!", Count: 1, Remaining: 2}))
	assert.Contains(t, out, "Sounds fun!")
	assert.Contains(t, out, "2 left today")
	assert.NotContains(t, out, "offline")

	out = stripANSI(FormatChat(service.ChatOutcome{Reply: "Bye!", Count: 3, Completed: true, Fallback: true, Reason: "timeout"}))
	assert.Contains(t, out, "chat complete")
	assert.Contains(t, out, "offline reading: timeout")
}

func TestFormatMissionAndStar(t *testing.T) {
	out := stripANSI(FormatMission(service.MissionOutcome{
		Title: "Park walk", Description: "Walk the park loop.", Location: "Seoul",
		Stage: domain.MissionRecommended, Reused: true,
	}))
	assert.Contains(t, out, "Park walk")
	assert.Contains(t, out, "near Seoul")
	assert.Contains(t, out, "already chosen")

	star := stripANSI(FormatStar(service.StarOutcome{
		Day: "2026-02-07", Emotion: domain.EmotionHappy,
		MissionStage: domain.MissionRewardReceived,
		Ledger:       []domain.LedgerEntry{{Day: "2026-02-07", Emotion: domain.EmotionHappy}},
		AllDone:      true,
	}))
	assert.Contains(t, star, "collected for 2026-02-07")
	assert.Contains(t, star, "reward received")
	assert.Contains(t, star, "Every step is done")
}

func TestStateMessage(t *testing.T) {
	assert.Contains(t, stripANSI(StateMessage(fmt.Errorf("x: %w", domain.ErrLimitExceeded))), "chat is complete")
	assert.Contains(t, stripANSI(StateMessage(domain.ErrLedgerFull)), "7 stars")
	assert.Contains(t, stripANSI(StateMessage(domain.ErrInvalidTransition)), "not available yet")
	assert.Empty(t, StateMessage(errors.New("disk on fire")))
}
