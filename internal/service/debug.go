package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/fortune/internal/clock"
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/progress"
	"github.com/alexanderramin/fortune/internal/repository"
	"go.uber.org/zap"
)

// DayOffsetKey stores the debug day offset so separate invocations agree on
// what "today" is.
const DayOffsetKey = "debug/day_offset"

// DebugService shifts the clock by whole days and wipes state. The tracker
// sees the shifted day through its DateProvider like any other day.
type DebugService struct {
	store   repository.KVStore
	clock   *clock.OffsetClock
	tracker *progress.Tracker
	log     *zap.Logger
}

func NewDebugService(store repository.KVStore, clk *clock.OffsetClock, tracker *progress.Tracker, log *zap.Logger) *DebugService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DebugService{store: store, clock: clk, tracker: tracker, log: log.Named("debug")}
}

// Restore loads the persisted offset into the clock and returns it.
func (d *DebugService) Restore(ctx context.Context) (int, error) {
	days, err := repository.GetIntOr(ctx, d.store, DayOffsetKey, 0)
	if err != nil {
		return 0, fmt.Errorf("reading day offset: %w", err)
	}
	d.clock.SetOffset(days)
	return days, nil
}

// Today is the day the tracker currently resolves to.
func (d *DebugService) Today() domain.DayKey {
	return d.clock.Today()
}

// Offset returns the offset currently applied.
func (d *DebugService) Offset() int {
	return d.clock.Offset()
}

// SetOffset persists days and applies it.
func (d *DebugService) SetOffset(ctx context.Context, days int) error {
	if err := d.store.SetInt(ctx, DayOffsetKey, days); err != nil {
		return fmt.Errorf("saving day offset: %w", err)
	}
	d.clock.SetOffset(days)
	d.log.Info("day offset set", zap.Int("days", days), zap.String("today", string(d.clock.Today())))
	return nil
}

// Override applies days to the clock for this process only. The saved
// offset is left as it is.
func (d *DebugService) Override(days int) {
	d.clock.SetOffset(days)
	d.log.Info("day offset overridden", zap.Int("days", days), zap.String("today", string(d.clock.Today())))
}

// Advance moves the saved offset by days, applies it and returns it. A
// run-only Override is not carried into the saved value.
func (d *DebugService) Advance(ctx context.Context, days int) (int, error) {
	saved, err := repository.GetIntOr(ctx, d.store, DayOffsetKey, 0)
	if err != nil {
		return 0, fmt.Errorf("reading day offset: %w", err)
	}
	next := saved + days
	if err := d.SetOffset(ctx, next); err != nil {
		return 0, err
	}
	return next, nil
}

// ClearOffset removes the persisted offset and returns to real time.
func (d *DebugService) ClearOffset(ctx context.Context) error {
	if err := d.store.Delete(ctx, DayOffsetKey); err != nil {
		return fmt.Errorf("clearing day offset: %w", err)
	}
	d.clock.Clear()
	return nil
}

// Reset wipes every stored key, the offset included.
func (d *DebugService) Reset(ctx context.Context) error {
	if err := d.tracker.ResetAll(ctx); err != nil {
		return err
	}
	d.clock.Clear()
	return nil
}
