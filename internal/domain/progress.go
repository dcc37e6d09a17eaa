package domain

import (
	"fmt"
	"time"
)

// MaxChatExchanges is the number of chat exchanges allowed per day.
const MaxChatExchanges = 3

// ProgressRecord is the per-day state of the ritual. It is created lazily on
// the first write for a day and is never migrated to another day.
type ProgressRecord struct {
	Day DayKey `json:"day"`

	InsightGenerated bool            `json:"insight_generated"`
	InsightID        string          `json:"insight_id,omitempty"`
	InsightCategory  InsightCategory `json:"insight_category,omitempty"`
	InsightContent   string          `json:"insight_content,omitempty"`

	ChatExchangeCount int      `json:"chat_exchange_count"`
	ChatCompleted     bool     `json:"chat_completed"`
	ChatMessages      []string `json:"chat_messages,omitempty"`

	MissionID          string       `json:"mission_id,omitempty"`
	MissionTitle       string       `json:"mission_title,omitempty"`
	MissionDescription string       `json:"mission_description,omitempty"`
	MissionLocation    string       `json:"mission_location,omitempty"`
	MissionStage       MissionStage `json:"mission_stage"`

	EmotionLabel       Emotion `json:"emotion_label,omitempty"`
	EmotionDisplayName string  `json:"emotion_display_name,omitempty"`

	StarCollected bool `json:"star_collected"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewProgressRecord returns the empty record for day.
func NewProgressRecord(day DayKey) *ProgressRecord {
	return &ProgressRecord{Day: day, MissionStage: MissionNone}
}

// Mission carries the fields of a recommended mission.
type Mission struct {
	ID          string
	Title       string
	Description string
	Location    string
}

// CanGenerateInsight reports whether today's insight is still open.
func (p *ProgressRecord) CanGenerateInsight() bool {
	return !p.InsightGenerated
}

// RecordInsight marks the insight as generated. Repeating the call with the
// same id is a no-op; a different id is rejected.
func (p *ProgressRecord) RecordInsight(id string, now time.Time) error {
	if id == "" {
		return fmt.Errorf("%w: insight id is empty", ErrInvalidArgument)
	}
	if p.InsightGenerated {
		if p.InsightID == id {
			return nil
		}
		return fmt.Errorf("%w: insight %s already recorded for %s", ErrAlreadyCompleted, p.InsightID, p.Day)
	}
	p.InsightGenerated = true
	p.InsightID = id
	p.UpdatedAt = now
	return nil
}

// RecordChatExchange counts one exchange and returns the new count.
func (p *ProgressRecord) RecordChatExchange(now time.Time) (int, error) {
	if p.ChatExchangeCount >= MaxChatExchanges {
		return p.ChatExchangeCount, fmt.Errorf("%w: %d/%d chat exchanges used", ErrLimitExceeded, p.ChatExchangeCount, MaxChatExchanges)
	}
	p.ChatExchangeCount++
	p.ChatCompleted = p.ChatExchangeCount >= MaxChatExchanges
	p.UpdatedAt = now
	return p.ChatExchangeCount, nil
}

// RemainingChats returns how many exchanges are left today.
func (p *ProgressRecord) RemainingChats() int {
	return max(0, MaxChatExchanges-p.ChatExchangeCount)
}

// RecommendMission stores today's mission. Only legal before any mission.
func (p *ProgressRecord) RecommendMission(m Mission, now time.Time) error {
	if p.MissionStage.Rank() > MissionNone.Rank() {
		return fmt.Errorf("%w: mission already %s", ErrAlreadyCompleted, p.MissionStage)
	}
	p.MissionID = m.ID
	p.MissionTitle = m.Title
	p.MissionDescription = m.Description
	p.MissionLocation = m.Location
	p.MissionStage = MissionRecommended
	p.UpdatedAt = now
	return nil
}

// AdvanceMission moves the mission one stage forward and returns the new
// stage. RewardReceived is terminal; advancing it changes nothing.
func (p *ProgressRecord) AdvanceMission(now time.Time) (MissionStage, error) {
	next, ok := p.stage().Next()
	if !ok {
		return p.stage(), fmt.Errorf("%w: no mission recommended", ErrInvalidTransition)
	}
	if next != p.MissionStage {
		p.MissionStage = next
		p.UpdatedAt = now
	}
	return p.MissionStage, nil
}

// RecordEmotion overwrites today's emotion. It returns the previously stored
// label when a different one was replaced.
func (p *ProgressRecord) RecordEmotion(label Emotion, displayName string, now time.Time) (Emotion, error) {
	if !label.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmotion, label)
	}
	if displayName == "" {
		displayName = label.DisplayName()
	}
	var replaced Emotion
	if p.EmotionLabel != "" && p.EmotionLabel != label {
		replaced = p.EmotionLabel
	}
	p.EmotionLabel = label
	p.EmotionDisplayName = displayName
	p.UpdatedAt = now
	return replaced, nil
}

// MarkStarCollected records that today's star went into the ledger.
func (p *ProgressRecord) MarkStarCollected(now time.Time) error {
	if p.EmotionLabel == "" {
		return fmt.Errorf("%w: no emotion recorded", ErrInvalidTransition)
	}
	p.StarCollected = true
	p.UpdatedAt = now
	return nil
}

// AllStepsCompleted reports whether every daily stage is done.
func (p *ProgressRecord) AllStepsCompleted() bool {
	return p.InsightGenerated &&
		p.ChatCompleted &&
		p.MissionStage.Rank() >= MissionCompleted.Rank() &&
		p.StarCollected
}

func (p *ProgressRecord) stage() MissionStage {
	if p.MissionStage == "" {
		return MissionNone
	}
	return p.MissionStage
}

// Clone returns a deep copy safe to hand to callers.
func (p *ProgressRecord) Clone() ProgressRecord {
	c := *p
	if p.ChatMessages != nil {
		c.ChatMessages = append([]string(nil), p.ChatMessages...)
	}
	c.MissionStage = p.stage()
	return c
}
