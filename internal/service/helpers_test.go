package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/alexanderramin/fortune/internal/clock"
	"github.com/alexanderramin/fortune/internal/constellation"
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/generation"
	"github.com/alexanderramin/fortune/internal/progress"
	"github.com/alexanderramin/fortune/internal/repository"
	"github.com/alexanderramin/fortune/internal/testutil"
)

// stubGenerator answers every kind with valid content and records requests.
type stubGenerator struct {
	mu    sync.Mutex
	calls []generation.Request
	// override, when set, replaces the default answer.
	override func(req generation.Request) generation.Result
}

func (g *stubGenerator) Generate(_ context.Context, req generation.Request) generation.Result {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()

	if g.override != nil {
		return g.override(req)
	}
	switch req.Kind {
	case generation.KindInsight:
		return generation.Result{Kind: req.Kind, Content: strings.Repeat("bright day ahead ", 8)}
	case generation.KindChatReply:
		return generation.Result{Kind: req.Kind, Content: "That sounds lovely, tell me more!"}
	case generation.KindMission:
		return generation.Result{Kind: req.Kind, Title: "Park walk", Description: "Walk once around the nearest park.", Content: "Park walk|Walk once around the nearest park."}
	case generation.KindEmotionLabel:
		return generation.Result{Kind: req.Kind, Emotion: domain.EmotionSad, Content: string(domain.EmotionSad)}
	}
	return generation.Result{Kind: req.Kind, Fallback: true, Reason: generation.ReasonUnknownKind}
}

func (g *stubGenerator) count(kind generation.Kind) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func (g *stubGenerator) last() generation.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}

// recordingObserver keeps every use-case event.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) byName(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	svc     *RitualService
	debug   *DebugService
	gen     *stubGenerator
	obs     *recordingObserver
	tracker *progress.Tracker
	ledger  *constellation.Ledger
	store   repository.KVStore
	clock   *clock.OffsetClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewSQLiteKVStore(testutil.NewTestDB(t))
	return newFixtureWithStore(t, store)
}

func newFixtureWithStore(t *testing.T, store repository.KVStore) *fixture {
	t.Helper()
	clk := testutil.NewOffsetClock(2025, 3, 10)
	tracker := progress.NewTracker(store, clk, nil)
	ledger := constellation.NewLedger(store, nil)
	gen := &stubGenerator{}
	obs := &recordingObserver{}
	return &fixture{
		svc:     NewRitualService(gen, generation.DefaultPrompts{}, tracker, ledger, obs),
		debug:   NewDebugService(store, clk, tracker, nil),
		gen:     gen,
		obs:     obs,
		tracker: tracker,
		ledger:  ledger,
		store:   store,
		clock:   clk,
	}
}
