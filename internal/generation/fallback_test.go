package generation

import (
	"testing"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fallback content must pass the same rules as live content.
func TestFallbackPools_PassValidation(t *testing.T) {
	for category := range domain.ValidInsightCategories {
		_, err := ValidateInsight(InsightFallback(category))
		assert.NoError(t, err, "insight fallback for %s", category)
	}

	for i, line := range chatFallbacks {
		_, err := ValidateChat(line)
		assert.NoError(t, err, "chat fallback %d", i)
	}

	for i, m := range missionFallbacks {
		title, desc, err := ParseMission(m.Title + MissionDelimiter + m.Description)
		require.NoError(t, err, "mission fallback %d", i)
		assert.Equal(t, m.Title, title)
		assert.Equal(t, m.Description, desc)
	}
	for _, lm := range locationMissions {
		_, _, err := ParseMission(lm.Title + MissionDelimiter + lm.Description)
		assert.NoError(t, err, "location mission %s", lm.Title)
	}

	assert.True(t, EmotionFallback().Valid())
}

func TestInsightFallback_KeyedByCategory(t *testing.T) {
	assert.NotEqual(t, InsightFallback(domain.CategoryLove), InsightFallback(domain.CategoryCareer))
	assert.Equal(t, InsightFallback(domain.CategoryDaily), InsightFallback("unknown"))
}

func TestMissionFallback_LocationFirst(t *testing.T) {
	never := func(int) int {
		t.Fatal("random pool must not be used for a known location")
		return 0
	}

	title, _ := MissionFallback("Yuseong-gu, Daejeon", never)
	assert.Equal(t, "Yuseong Hot Spring Walk", title)

	title, _ = MissionFallback("서울특별시 강남구", never)
	assert.Equal(t, "Find a City Hideaway", title)

	title, _ = MissionFallback("JEJU CITY", never)
	assert.Equal(t, "Jeju Nature Break", title)
}

func TestMissionFallback_RandomPool(t *testing.T) {
	last := func(n int) int { return n - 1 }

	title, desc := MissionFallback("Reykjavik", last)
	assert.Equal(t, missionFallbacks[len(missionFallbacks)-1].Title, title)
	assert.Equal(t, missionFallbacks[len(missionFallbacks)-1].Description, desc)

	title, _ = MissionFallback("", func(int) int { return 0 })
	assert.Equal(t, missionFallbacks[0].Title, title)
}

func TestChatFallback_UsesSource(t *testing.T) {
	assert.Equal(t, chatFallbacks[2], ChatFallback(func(int) int { return 2 }))
}
