package generation

import (
	"testing"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultPrompts_Insight(t *testing.T) {
	system, user := DefaultPrompts{}.Render(KindInsight, PromptParams{
		User:     domain.UserInfo{Name: "Mina", BirthDate: "1999-04-12"},
		Category: domain.CategoryLove,
	})

	assert.NotEmpty(t, system)
	assert.Contains(t, user, "Mina")
	assert.Contains(t, user, "1999-04-12")
	assert.Contains(t, user, "Love")
}

func TestDefaultPrompts_ChatLastTurn(t *testing.T) {
	_, first := DefaultPrompts{}.Render(KindChatReply, PromptParams{Message: "hello", ExchangeCount: 0})
	_, last := DefaultPrompts{}.Render(KindChatReply, PromptParams{Message: "bye", ExchangeCount: 2})

	assert.Contains(t, first, "1/3")
	assert.NotContains(t, first, "last turn")
	assert.Contains(t, last, "3/3")
	assert.Contains(t, last, "last turn")
}

func TestDefaultPrompts_MissionAndEmotion(t *testing.T) {
	_, mission := DefaultPrompts{}.Render(KindMission, PromptParams{Location: "Busan"})
	assert.Contains(t, mission, "Busan")
	assert.Contains(t, mission, MissionDelimiter)

	_, emotion := DefaultPrompts{}.Render(KindEmotionLabel, PromptParams{Messages: []string{"long day", "but ok"}})
	assert.Contains(t, emotion, "- long day")
	assert.Contains(t, emotion, "HAPPY, ANGRY, SAD, TIMID, GRUMPY")
}
