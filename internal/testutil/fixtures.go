package testutil

import (
	"time"

	"github.com/alexanderramin/fortune/internal/clock"
)

// Day returns midday UTC on the given date. Midday keeps day arithmetic clear
// of zone edges.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// NewOffsetClock returns an OffsetClock anchored at the given date with no offset.
func NewOffsetClock(year int, month time.Month, day int) *clock.OffsetClock {
	return clock.NewOffsetClock(clock.Fixed(Day(year, month, day)), 0)
}
