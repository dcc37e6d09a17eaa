package domain

import (
	"fmt"
	"time"
)

// DayKeyLayout is the calendar-date layout used for every DayKey.
const DayKeyLayout = "2006-01-02"

// DayKey identifies one calendar day ("YYYY-MM-DD"). All daily gating is
// scoped to a DayKey; records under different keys never interact.
type DayKey string

// DayKeyOf returns the DayKey of t in t's own location.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Format(DayKeyLayout))
}

// ParseDayKey validates s and returns it as a DayKey.
func ParseDayKey(s string) (DayKey, error) {
	if _, err := time.Parse(DayKeyLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDayKey, s)
	}
	return DayKey(s), nil
}

// Valid reports whether k is a well-formed calendar date.
func (k DayKey) Valid() bool {
	_, err := time.Parse(DayKeyLayout, string(k))
	return err == nil
}

// AddDays returns the key n days after k (n may be negative).
// An invalid key is returned unchanged.
func (k DayKey) AddDays(n int) DayKey {
	t, err := time.Parse(DayKeyLayout, string(k))
	if err != nil {
		return k
	}
	return DayKeyOf(t.AddDate(0, 0, n))
}

func (k DayKey) String() string { return string(k) }
