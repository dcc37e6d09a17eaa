package service

import (
	"context"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/generation"
)

// Generator produces content for one kind. *generation.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) generation.Result
}

// ReasonNoChat marks an emotion resolved without any chat lines to classify.
const ReasonNoChat = "no_chat"

// InsightOutcome is the reading shown for today.
type InsightOutcome struct {
	Day      domain.DayKey
	ID       string
	Category domain.InsightCategory
	Content  string
	Fallback bool
	Reason   string
	// Reused is true when today's insight already existed and no call was made.
	Reused bool
}

// ChatOutcome is the reply to one chat message and the counter after it.
type ChatOutcome struct {
	Reply     string
	Count     int
	Remaining int
	Completed bool
	Fallback  bool
	Reason    string
}

// MissionOutcome describes today's mission.
type MissionOutcome struct {
	ID          string
	Title       string
	Description string
	Location    string
	Stage       domain.MissionStage
	Fallback    bool
	Reason      string
	Reused      bool
}

// EmotionOutcome is the label recorded for today.
type EmotionOutcome struct {
	Emotion     domain.Emotion
	DisplayName string
	Fallback    bool
	Reason      string
}

// StarOutcome reports a collected star and the ledger after it.
type StarOutcome struct {
	Day          domain.DayKey
	Emotion      domain.Emotion
	MissionStage domain.MissionStage
	Ledger       []domain.LedgerEntry
	AllDone      bool
}

// Overview is today's record alongside the ledger.
type Overview struct {
	Day    domain.DayKey
	Record domain.ProgressRecord
	Ledger []domain.LedgerEntry
	User   domain.UserInfo
	// HasUser is false until user details are saved for today.
	HasUser bool
}
