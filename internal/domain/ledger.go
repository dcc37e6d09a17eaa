package domain

// LedgerCapacity is the number of stars in one constellation.
const LedgerCapacity = 7

// LedgerEntry is one collected star.
type LedgerEntry struct {
	Day     DayKey  `json:"day"`
	Emotion Emotion `json:"emotion"`
}
