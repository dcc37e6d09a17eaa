package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/stretchr/testify/assert"
)

var base = Fixed(time.Date(2025, 12, 31, 23, 30, 0, 0, time.UTC))

func TestOffsetClock_CrossesYearBoundary(t *testing.T) {
	c := NewOffsetClock(base, 0)
	assert.Equal(t, domain.DayKey("2025-12-31"), c.Today())

	c.Advance(1)
	assert.Equal(t, domain.DayKey("2026-01-01"), c.Today())
	assert.Equal(t, 1, c.Offset())

	c.SetOffset(-31)
	assert.Equal(t, domain.DayKey("2025-11-30"), c.Today())

	c.Clear()
	assert.Equal(t, base.Today(), c.Today())
}

func TestOffsetClock_ConcurrentUse(t *testing.T) {
	c := NewOffsetClock(base, 0)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Advance(1)
		}()
		go func() {
			defer wg.Done()
			_ = c.Today()
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, c.Offset())
}

func TestSystemClock_UsesLocation(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	c := SystemClock{Location: loc}
	assert.Equal(t, loc, c.Now().Location())
	assert.True(t, c.Today().Valid())
}
