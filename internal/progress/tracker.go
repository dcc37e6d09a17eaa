// Package progress gates the daily ritual. Every decision reads the record
// stored under today's DayKey, so a restarted process resumes at the stage
// it left without repeating side effects.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/fortune/internal/clock"
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/repository"
	"go.uber.org/zap"
)

const (
	progressPrefix = "progress/"
	userPrefix     = "user/"
)

func progressKey(day domain.DayKey) string { return progressPrefix + string(day) }
func userKey(day domain.DayKey) string     { return userPrefix + string(day) }

// Tracker is the per-day state machine. All mutations are single-key
// read-modify-writes on the store, so concurrent callers never lose updates.
type Tracker struct {
	store repository.KVStore
	clock clock.DateProvider
	log   *zap.Logger
}

// NewTracker creates a Tracker. A nil logger discards output.
func NewTracker(store repository.KVStore, clk clock.DateProvider, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{store: store, clock: clk, log: log.Named("progress")}
}

// Today returns the day all operations are scoped to right now.
func (t *Tracker) Today() domain.DayKey {
	return t.clock.Today()
}

// Snapshot returns a copy of today's record; an untouched day yields the
// empty record.
func (t *Tracker) Snapshot(ctx context.Context) (domain.ProgressRecord, error) {
	rec, _, err := t.Record(ctx, t.clock.Today())
	return rec, err
}

// Record reads the stored record for any day. ok is false when nothing was
// written that day.
func (t *Tracker) Record(ctx context.Context, day domain.DayKey) (domain.ProgressRecord, bool, error) {
	raw, ok, err := t.store.Get(ctx, progressKey(day))
	if err != nil {
		return domain.ProgressRecord{}, false, fmt.Errorf("reading progress for %s: %w", day, err)
	}
	rec, err := decode(day, raw, ok)
	if err != nil {
		return domain.ProgressRecord{}, false, err
	}
	return rec.Clone(), ok, nil
}

// Days lists every day with a stored record, ascending.
func (t *Tracker) Days(ctx context.Context) ([]domain.DayKey, error) {
	keys, err := t.store.Keys(ctx, progressPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing progress days: %w", err)
	}
	days := make([]domain.DayKey, 0, len(keys))
	for _, k := range keys {
		days = append(days, domain.DayKey(strings.TrimPrefix(k, progressPrefix)))
	}
	return days, nil
}

func (t *Tracker) CanGenerateInsight(ctx context.Context) (bool, error) {
	rec, err := t.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return rec.CanGenerateInsight(), nil
}

// RecordInsightGenerated sets today's insight flag. Repeating it with the
// same id is a no-op; a different id fails with ErrAlreadyCompleted.
func (t *Tracker) RecordInsightGenerated(ctx context.Context, insightID string) error {
	_, err := t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		return rec.RecordInsight(insightID, now)
	})
	return err
}

// SaveInsightContent stores the text shown for today's insight.
func (t *Tracker) SaveInsightContent(ctx context.Context, category domain.InsightCategory, content string) error {
	_, err := t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		if rec.InsightCategory == category && rec.InsightContent == content {
			return nil
		}
		rec.InsightCategory = category
		rec.InsightContent = content
		rec.UpdatedAt = now
		return nil
	})
	return err
}

// CompleteInsight records the insight id together with its content in one
// write and returns the stored record. A different id already recorded today
// fails with ErrAlreadyCompleted.
func (t *Tracker) CompleteInsight(ctx context.Context, insightID string, category domain.InsightCategory, content string) (domain.ProgressRecord, error) {
	return t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		if err := rec.RecordInsight(insightID, now); err != nil {
			return err
		}
		if rec.InsightCategory != category || rec.InsightContent != content {
			rec.InsightCategory = category
			rec.InsightContent = content
			rec.UpdatedAt = now
		}
		return nil
	})
}

// RecordChatExchange counts one exchange and returns the new count. At the
// cap it fails with ErrLimitExceeded.
func (t *Tracker) RecordChatExchange(ctx context.Context) (int, error) {
	var n int
	_, err := t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		var err error
		n, err = rec.RecordChatExchange(now)
		return err
	})
	return n, err
}

// RecordChatMessage stores a user line for emotion analysis without
// counting an exchange.
func (t *Tracker) RecordChatMessage(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("%w: empty chat message", domain.ErrInvalidArgument)
	}
	_, err := t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		if rec.ChatCompleted {
			return fmt.Errorf("%w: chat already completed", domain.ErrLimitExceeded)
		}
		rec.ChatMessages = append(rec.ChatMessages, message)
		rec.UpdatedAt = now
		return nil
	})
	return err
}

// RecordChatTurn stores the user line and counts the exchange in one write.
func (t *Tracker) RecordChatTurn(ctx context.Context, message string) (int, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return 0, fmt.Errorf("%w: empty chat message", domain.ErrInvalidArgument)
	}
	var n int
	_, err := t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		var err error
		if n, err = rec.RecordChatExchange(now); err != nil {
			return err
		}
		rec.ChatMessages = append(rec.ChatMessages, message)
		return nil
	})
	return n, err
}

// RecordMissionRecommended stores today's mission. Only legal while no
// mission exists; otherwise ErrAlreadyCompleted.
func (t *Tracker) RecordMissionRecommended(ctx context.Context, m domain.Mission) error {
	_, err := t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		return rec.RecommendMission(m, now)
	})
	return err
}

// AdvanceMissionStage moves Recommended→Accepted→Completed→RewardReceived.
// At RewardReceived it is a no-op; with no mission it fails with
// ErrInvalidTransition.
func (t *Tracker) AdvanceMissionStage(ctx context.Context) (domain.MissionStage, error) {
	var stage domain.MissionStage
	_, err := t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		var err error
		stage, err = rec.AdvanceMission(now)
		return err
	})
	return stage, err
}

// RecordEmotion overwrites today's emotion.
func (t *Tracker) RecordEmotion(ctx context.Context, label domain.Emotion, displayName string) error {
	var replaced domain.Emotion
	_, err := t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		var err error
		replaced, err = rec.RecordEmotion(label, displayName, now)
		return err
	})
	if err == nil && replaced != "" {
		t.log.Info("emotion overwritten",
			zap.String("day", string(t.clock.Today())),
			zap.String("previous", string(replaced)),
			zap.String("next", string(label)),
		)
	}
	return err
}

// MarkStarCollected records that today's star reached the ledger.
func (t *Tracker) MarkStarCollected(ctx context.Context) error {
	_, err := t.mutate(ctx, func(rec *domain.ProgressRecord, now time.Time) error {
		if rec.StarCollected {
			return nil
		}
		return rec.MarkStarCollected(now)
	})
	return err
}

// CollectStarOn marks day's star collected and moves a completed mission on
// to its reward, in one update of that day's record. The caller passes the
// day it read, so a clock change in between cannot split the writes.
func (t *Tracker) CollectStarOn(ctx context.Context, day domain.DayKey) (domain.ProgressRecord, error) {
	return t.mutateDay(ctx, day, func(rec *domain.ProgressRecord, now time.Time) error {
		if !rec.StarCollected {
			if err := rec.MarkStarCollected(now); err != nil {
				return err
			}
		}
		if rec.MissionStage == domain.MissionCompleted {
			if _, err := rec.AdvanceMission(now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t *Tracker) AllStepsCompleted(ctx context.Context) (bool, error) {
	rec, err := t.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return rec.AllStepsCompleted(), nil
}

// SaveUserInfo stores the user's details for today.
func (t *Tracker) SaveUserInfo(ctx context.Context, info domain.UserInfo) error {
	info.Name = strings.TrimSpace(info.Name)
	info.BirthDate = domain.NormalizeBirthDate(info.BirthDate)
	if err := info.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding user info: %w", err)
	}
	if err := t.store.Set(ctx, userKey(t.clock.Today()), string(data)); err != nil {
		return fmt.Errorf("saving user info: %w", err)
	}
	return nil
}

// UserInfo returns the details saved today, if any.
func (t *Tracker) UserInfo(ctx context.Context) (domain.UserInfo, bool, error) {
	raw, ok, err := t.store.Get(ctx, userKey(t.clock.Today()))
	if err != nil || !ok {
		return domain.UserInfo{}, false, err
	}
	var info domain.UserInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return domain.UserInfo{}, false, fmt.Errorf("decoding user info: %w", err)
	}
	return info, true, nil
}

// ResetAll clears the entire store, every day and the ledger included.
func (t *Tracker) ResetAll(ctx context.Context) error {
	if err := t.store.Clear(ctx); err != nil {
		return fmt.Errorf("resetting progress: %w", err)
	}
	t.log.Warn("store cleared")
	return nil
}

// mutate applies fn to today's record inside one atomic update. An
// unchanged record is not rewritten.
func (t *Tracker) mutate(ctx context.Context, fn func(rec *domain.ProgressRecord, now time.Time) error) (domain.ProgressRecord, error) {
	return t.mutateDay(ctx, t.clock.Today(), fn)
}

func (t *Tracker) mutateDay(ctx context.Context, day domain.DayKey, fn func(rec *domain.ProgressRecord, now time.Time) error) (domain.ProgressRecord, error) {
	now := t.clock.Now().UTC()

	var out domain.ProgressRecord
	err := t.store.Update(ctx, progressKey(day), func(cur string, ok bool) (string, error) {
		rec, err := decode(day, cur, ok)
		if err != nil {
			return "", err
		}
		if err := fn(rec, now); err != nil {
			return "", err
		}
		out = rec.Clone()
		data, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("encoding progress for %s: %w", day, err)
		}
		if ok && string(data) == cur {
			return "", repository.ErrNoChange
		}
		return string(data), nil
	})
	return out, err
}

func decode(day domain.DayKey, raw string, ok bool) (*domain.ProgressRecord, error) {
	rec := domain.NewProgressRecord(day)
	if !ok {
		return rec, nil
	}
	if err := json.Unmarshal([]byte(raw), rec); err != nil {
		return nil, fmt.Errorf("decoding progress for %s: %w", day, err)
	}
	rec.Day = day
	if rec.MissionStage == "" {
		rec.MissionStage = domain.MissionNone
	}
	return rec, nil
}
