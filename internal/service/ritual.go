package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/fortune/internal/constellation"
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/generation"
	"github.com/alexanderramin/fortune/internal/progress"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// RitualService runs the daily flow: insight, chat, mission, emotion and
// star collection. Gating decisions come from the tracker alone.
type RitualService struct {
	gen      Generator
	prompts  generation.PromptRenderer
	tracker  *progress.Tracker
	ledger   *constellation.Ledger
	observer UseCaseObserver
	newID    func() string
}

func NewRitualService(
	gen Generator,
	prompts generation.PromptRenderer,
	tracker *progress.Tracker,
	ledger *constellation.Ledger,
	observers ...UseCaseObserver,
) *RitualService {
	if prompts == nil {
		prompts = generation.DefaultPrompts{}
	}
	return &RitualService{
		gen:      gen,
		prompts:  prompts,
		tracker:  tracker,
		ledger:   ledger,
		observer: useCaseObserverOrNoop(observers),
		newID:    uuid.NewString,
	}
}

// GenerateInsight returns today's reading, generating it on the first call of
// the day. A zero user falls back to the details saved today.
func (s *RitualService) GenerateInsight(ctx context.Context, user domain.UserInfo, category domain.InsightCategory) (out InsightOutcome, err error) {
	startedAt := time.Now()
	fields := map[string]any{"category": string(category)}
	defer func() {
		fields["reused"] = out.Reused
		fields["fallback"] = out.Fallback
		s.observe(ctx, "generate-insight", startedAt, fields, err)
	}()

	if !domain.ValidInsightCategories[category] {
		category = domain.CategoryDaily
	}

	rec, err := s.tracker.Snapshot(ctx)
	if err != nil {
		return InsightOutcome{}, err
	}
	if !rec.CanGenerateInsight() {
		return storedInsight(rec), nil
	}

	if user == (domain.UserInfo{}) {
		if user, _, err = s.tracker.UserInfo(ctx); err != nil {
			return InsightOutcome{}, err
		}
	}

	system, prompt := s.prompts.Render(generation.KindInsight, generation.PromptParams{User: user, Category: category})
	res := s.gen.Generate(ctx, generation.Request{
		Kind:         generation.KindInsight,
		Prompt:       prompt,
		SystemPrompt: system,
		Category:     category,
	})

	id := s.newID()
	stored, err := s.tracker.CompleteInsight(ctx, id, category, res.Content)
	if errors.Is(err, domain.ErrAlreadyCompleted) {
		// Another caller finished first; show what it stored.
		if rec, err = s.tracker.Snapshot(ctx); err != nil {
			return InsightOutcome{}, err
		}
		return storedInsight(rec), nil
	}
	if err != nil {
		return InsightOutcome{}, err
	}

	return InsightOutcome{
		Day:      stored.Day,
		ID:       id,
		Category: category,
		Content:  res.Content,
		Fallback: res.Fallback,
		Reason:   res.Reason,
	}, nil
}

func storedInsight(rec domain.ProgressRecord) InsightOutcome {
	content := rec.InsightContent
	if content == "" {
		content = generation.InsightFallback(rec.InsightCategory)
	}
	return InsightOutcome{
		Day:      rec.Day,
		ID:       rec.InsightID,
		Category: rec.InsightCategory,
		Content:  content,
		Reused:   true,
	}
}

// Chat answers one message and charges one exchange. Once the day's
// exchanges are used up it fails with ErrLimitExceeded without calling the
// generator.
func (s *RitualService) Chat(ctx context.Context, message string) (out ChatOutcome, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() {
		fields["count"] = out.Count
		fields["fallback"] = out.Fallback
		s.observe(ctx, "chat", startedAt, fields, err)
	}()

	message = strings.TrimSpace(message)
	if message == "" {
		return ChatOutcome{}, fmt.Errorf("%w: empty chat message", domain.ErrInvalidArgument)
	}

	rec, err := s.tracker.Snapshot(ctx)
	if err != nil {
		return ChatOutcome{}, err
	}
	if rec.ChatCompleted {
		return chatState(rec), fmt.Errorf("%w: %d/%d chat exchanges used", domain.ErrLimitExceeded, rec.ChatExchangeCount, domain.MaxChatExchanges)
	}

	system, prompt := s.prompts.Render(generation.KindChatReply, generation.PromptParams{
		Message:       message,
		ExchangeCount: rec.ChatExchangeCount,
		Messages:      rec.ChatMessages,
	})
	res := s.gen.Generate(ctx, generation.Request{
		Kind:          generation.KindChatReply,
		Prompt:        prompt,
		SystemPrompt:  system,
		ExchangeCount: rec.ChatExchangeCount,
	})

	n, err := s.tracker.RecordChatTurn(ctx, message)
	if err != nil {
		if domain.IsStateConflict(err) {
			if rec, rerr := s.tracker.Snapshot(ctx); rerr == nil {
				return chatState(rec), err
			}
		}
		return ChatOutcome{}, err
	}

	return ChatOutcome{
		Reply:     res.Content,
		Count:     n,
		Remaining: max(0, domain.MaxChatExchanges-n),
		Completed: n >= domain.MaxChatExchanges,
		Fallback:  res.Fallback,
		Reason:    res.Reason,
	}, nil
}

func chatState(rec domain.ProgressRecord) ChatOutcome {
	return ChatOutcome{
		Count:     rec.ChatExchangeCount,
		Remaining: rec.RemainingChats(),
		Completed: rec.ChatCompleted,
	}
}

// RecommendMission suggests today's mission near location. When a mission
// already exists for today it is returned unchanged.
func (s *RitualService) RecommendMission(ctx context.Context, location string) (out MissionOutcome, err error) {
	startedAt := time.Now()
	fields := map[string]any{"location": location}
	defer func() {
		fields["reused"] = out.Reused
		fields["fallback"] = out.Fallback
		s.observe(ctx, "recommend-mission", startedAt, fields, err)
	}()

	rec, err := s.tracker.Snapshot(ctx)
	if err != nil {
		return MissionOutcome{}, err
	}
	if rec.MissionStage != domain.MissionNone {
		return storedMission(rec), nil
	}

	location = strings.TrimSpace(location)
	system, prompt := s.prompts.Render(generation.KindMission, generation.PromptParams{Location: location})
	res := s.gen.Generate(ctx, generation.Request{
		Kind:         generation.KindMission,
		Prompt:       prompt,
		SystemPrompt: system,
		Location:     location,
	})

	m := domain.Mission{
		ID:          s.newID(),
		Title:       res.Title,
		Description: res.Description,
		Location:    location,
	}
	err = s.tracker.RecordMissionRecommended(ctx, m)
	if errors.Is(err, domain.ErrAlreadyCompleted) {
		if rec, err = s.tracker.Snapshot(ctx); err != nil {
			return MissionOutcome{}, err
		}
		return storedMission(rec), nil
	}
	if err != nil {
		return MissionOutcome{}, err
	}

	return MissionOutcome{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		Stage:       domain.MissionRecommended,
		Fallback:    res.Fallback,
		Reason:      res.Reason,
	}, nil
}

func storedMission(rec domain.ProgressRecord) MissionOutcome {
	return MissionOutcome{
		ID:          rec.MissionID,
		Title:       rec.MissionTitle,
		Description: rec.MissionDescription,
		Location:    rec.MissionLocation,
		Stage:       rec.MissionStage,
		Reused:      true,
	}
}

// AdvanceMission moves today's mission one stage forward.
func (s *RitualService) AdvanceMission(ctx context.Context) (stage domain.MissionStage, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() {
		fields["stage"] = string(stage)
		s.observe(ctx, "advance-mission", startedAt, fields, err)
	}()

	return s.tracker.AdvanceMissionStage(ctx)
}

// AnalyzeEmotion classifies today's chat lines and records the label. With
// no lines to classify the default label is recorded.
func (s *RitualService) AnalyzeEmotion(ctx context.Context) (out EmotionOutcome, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() {
		fields["emotion"] = string(out.Emotion)
		fields["fallback"] = out.Fallback
		s.observe(ctx, "analyze-emotion", startedAt, fields, err)
	}()

	rec, err := s.tracker.Snapshot(ctx)
	if err != nil {
		return EmotionOutcome{}, err
	}

	var res generation.Result
	if len(rec.ChatMessages) == 0 {
		e := generation.EmotionFallback()
		res = generation.Result{Kind: generation.KindEmotionLabel, Emotion: e, Content: string(e), Fallback: true, Reason: ReasonNoChat}
	} else {
		system, prompt := s.prompts.Render(generation.KindEmotionLabel, generation.PromptParams{Messages: rec.ChatMessages})
		res = s.gen.Generate(ctx, generation.Request{
			Kind:         generation.KindEmotionLabel,
			Prompt:       prompt,
			SystemPrompt: system,
		})
	}

	display := res.Emotion.DisplayName()
	if err := s.tracker.RecordEmotion(ctx, res.Emotion, display); err != nil {
		return EmotionOutcome{}, err
	}
	return EmotionOutcome{
		Emotion:     res.Emotion,
		DisplayName: display,
		Fallback:    res.Fallback,
		Reason:      res.Reason,
	}, nil
}

// CollectStar places today's emotion into the ledger and marks the star
// collected. A completed mission is advanced to its reward. Calling it again
// on the same day rewrites the same slot.
func (s *RitualService) CollectStar(ctx context.Context) (out StarOutcome, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() {
		fields["emotion"] = string(out.Emotion)
		fields["ledger_size"] = len(out.Ledger)
		s.observe(ctx, "collect-star", startedAt, fields, err)
	}()

	rec, err := s.tracker.Snapshot(ctx)
	if err != nil {
		return StarOutcome{}, err
	}
	if rec.EmotionLabel == "" {
		return StarOutcome{}, fmt.Errorf("%w: no emotion recorded for %s", domain.ErrInvalidTransition, rec.Day)
	}

	if err := s.ledger.Append(ctx, rec.Day, rec.EmotionLabel); err != nil {
		return StarOutcome{}, err
	}
	after, err := s.tracker.CollectStarOn(ctx, rec.Day)
	if err != nil {
		return StarOutcome{}, err
	}

	entries, err := s.ledger.All(ctx)
	if err != nil {
		return StarOutcome{}, err
	}

	return StarOutcome{
		Day:          rec.Day,
		Emotion:      rec.EmotionLabel,
		MissionStage: after.MissionStage,
		Ledger:       entries,
		AllDone:      after.AllStepsCompleted(),
	}, nil
}

// Overview reads today's record, the user details and the ledger together.
func (s *RitualService) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rec, err := s.tracker.Snapshot(gctx)
		if err != nil {
			return err
		}
		out.Record = rec
		out.Day = rec.Day
		return nil
	})
	g.Go(func() error {
		user, ok, err := s.tracker.UserInfo(gctx)
		if err != nil {
			return err
		}
		out.User, out.HasUser = user, ok
		return nil
	})
	g.Go(func() error {
		entries, err := s.ledger.All(gctx)
		if err != nil {
			return err
		}
		out.Ledger = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// History returns every stored day's record, oldest first.
func (s *RitualService) History(ctx context.Context) ([]domain.ProgressRecord, error) {
	days, err := s.tracker.Days(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProgressRecord, 0, len(days))
	for _, day := range days {
		rec, ok, err := s.tracker.Record(ctx, day)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// SaveUser stores today's user details.
func (s *RitualService) SaveUser(ctx context.Context, info domain.UserInfo) (err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "save-user", startedAt, nil, err)
	}()
	return s.tracker.SaveUserInfo(ctx, info)
}

func (s *RitualService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Day:       string(s.tracker.Today()),
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
