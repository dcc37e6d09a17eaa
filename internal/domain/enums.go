package domain

import "strings"

type MissionStage string

const (
	MissionNone           MissionStage = "none"
	MissionRecommended    MissionStage = "recommended"
	MissionAccepted       MissionStage = "accepted"
	MissionCompleted      MissionStage = "completed"
	MissionRewardReceived MissionStage = "reward_received"
)

// Rank orders stages; a record's stage rank never decreases within a day.
func (s MissionStage) Rank() int {
	switch s {
	case MissionRecommended:
		return 1
	case MissionAccepted:
		return 2
	case MissionCompleted:
		return 3
	case MissionRewardReceived:
		return 4
	default:
		return 0
	}
}

// Next returns the stage after s. RewardReceived is terminal and maps to
// itself; None has no successor reachable by advancing.
func (s MissionStage) Next() (MissionStage, bool) {
	switch s {
	case MissionRecommended:
		return MissionAccepted, true
	case MissionAccepted:
		return MissionCompleted, true
	case MissionCompleted, MissionRewardReceived:
		return MissionRewardReceived, true
	default:
		return s, false
	}
}

type Emotion string

const (
	EmotionHappy  Emotion = "HAPPY"
	EmotionAngry  Emotion = "ANGRY"
	EmotionSad    Emotion = "SAD"
	EmotionTimid  Emotion = "TIMID"
	EmotionGrumpy Emotion = "GRUMPY"
)

// DefaultEmotion is used whenever a label cannot be classified.
const DefaultEmotion = EmotionHappy

// Emotions lists the closed label set in display order.
var Emotions = []Emotion{EmotionHappy, EmotionAngry, EmotionSad, EmotionTimid, EmotionGrumpy}

var emotionDisplayNames = map[Emotion]string{
	EmotionHappy:  "Happy",
	EmotionAngry:  "Angry",
	EmotionSad:    "Sad",
	EmotionTimid:  "Timid",
	EmotionGrumpy: "Grumpy",
}

func (e Emotion) Valid() bool {
	_, ok := emotionDisplayNames[e]
	return ok
}

func (e Emotion) DisplayName() string {
	if name, ok := emotionDisplayNames[e]; ok {
		return name
	}
	return string(e)
}

const emotionCutset = " \t\r\n\"'`“”‘’*.!?,;:"

// ParseEmotion normalizes a free-form label: surrounding whitespace, quoting
// and trailing punctuation are dropped and the rest is uppercased.
func ParseEmotion(raw string) (Emotion, bool) {
	s := strings.Trim(raw, emotionCutset)
	e := Emotion(strings.ToUpper(s))
	if !e.Valid() {
		return "", false
	}
	return e, true
}

type InsightCategory string

const (
	CategoryDaily  InsightCategory = "daily"
	CategoryLove   InsightCategory = "love"
	CategoryStudy  InsightCategory = "study"
	CategoryCareer InsightCategory = "career"
	CategoryHealth InsightCategory = "health"
)

// ValidInsightCategories is the canonical set of accepted category strings.
var ValidInsightCategories = map[InsightCategory]bool{
	CategoryDaily: true, CategoryLove: true, CategoryStudy: true,
	CategoryCareer: true, CategoryHealth: true,
}

// ParseInsightCategory maps a user-supplied string to a category,
// falling back to CategoryDaily for unknown input.
func ParseInsightCategory(s string) InsightCategory {
	c := InsightCategory(strings.ToLower(strings.TrimSpace(s)))
	if ValidInsightCategories[c] {
		return c
	}
	return CategoryDaily
}

func (c InsightCategory) DisplayName() string {
	switch c {
	case CategoryLove:
		return "Love"
	case CategoryStudy:
		return "Study"
	case CategoryCareer:
		return "Career"
	case CategoryHealth:
		return "Health"
	default:
		return "Daily Fortune"
	}
}
