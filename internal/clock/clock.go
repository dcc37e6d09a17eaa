// Package clock supplies "today" to the gating logic. The debug day offset
// is an ordinary DateProvider, so gates read it exactly like real time.
package clock

import (
	"sync"
	"time"

	"github.com/alexanderramin/fortune/internal/domain"
)

// DateProvider supplies the current instant and calendar day.
type DateProvider interface {
	Now() time.Time
	Today() domain.DayKey
}

// SystemClock reads the wall clock in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

func (c SystemClock) Today() domain.DayKey {
	return domain.DayKeyOf(c.Now())
}

// OffsetClock shifts a base provider by a whole number of days.
type OffsetClock struct {
	base DateProvider

	mu   sync.RWMutex
	days int
}

// NewOffsetClock wraps base with an initial offset of days.
func NewOffsetClock(base DateProvider, days int) *OffsetClock {
	if base == nil {
		base = SystemClock{}
	}
	return &OffsetClock{base: base, days: days}
}

func (c *OffsetClock) Now() time.Time {
	return c.base.Now().AddDate(0, 0, c.Offset())
}

func (c *OffsetClock) Today() domain.DayKey {
	return domain.DayKeyOf(c.Now())
}

// SetOffset replaces the day offset (negative values move into the past).
func (c *OffsetClock) SetOffset(days int) {
	c.mu.Lock()
	c.days = days
	c.mu.Unlock()
}

// Advance adds days to the current offset.
func (c *OffsetClock) Advance(days int) {
	c.mu.Lock()
	c.days += days
	c.mu.Unlock()
}

func (c *OffsetClock) Offset() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.days
}

// Clear resets the offset to zero.
func (c *OffsetClock) Clear() { c.SetOffset(0) }

// Fixed is a DateProvider frozen at one instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

func (f Fixed) Today() domain.DayKey { return domain.DayKeyOf(time.Time(f)) }
