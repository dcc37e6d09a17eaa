package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEmotion(t *testing.T) {
	cases := []struct {
		raw  string
		want Emotion
		ok   bool
	}{
		{"HAPPY", EmotionHappy, true},
		{"  sad\n", EmotionSad, true},
		{`"Angry"`, EmotionAngry, true},
		{"'timid'.", EmotionTimid, true},
		{"**GRUMPY**", EmotionGrumpy, true},
		{"“happy”", EmotionHappy, true},
		{"joyful", "", false},
		{"", "", false},
		{"HAPPY and SAD", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseEmotion(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}
}

func TestEmotionDisplayName(t *testing.T) {
	for _, e := range Emotions {
		assert.True(t, e.Valid())
		assert.NotEqual(t, string(e), e.DisplayName())
	}
	assert.Equal(t, "Grumpy", EmotionGrumpy.DisplayName())
}

func TestMissionStageNext(t *testing.T) {
	_, ok := MissionNone.Next()
	assert.False(t, ok)

	next, ok := MissionCompleted.Next()
	assert.True(t, ok)
	assert.Equal(t, MissionRewardReceived, next)

	next, ok = MissionRewardReceived.Next()
	assert.True(t, ok)
	assert.Equal(t, MissionRewardReceived, next)
}

func TestParseInsightCategory(t *testing.T) {
	assert.Equal(t, CategoryLove, ParseInsightCategory(" LOVE "))
	assert.Equal(t, CategoryDaily, ParseInsightCategory("astrology"))
}

func TestDayKey(t *testing.T) {
	k, err := ParseDayKey("2024-02-28")
	assert.NoError(t, err)
	assert.Equal(t, DayKey("2024-02-29"), k.AddDays(1))
	assert.Equal(t, DayKey("2024-03-01"), k.AddDays(2))
	assert.Equal(t, DayKey("2024-02-27"), k.AddDays(-1))

	_, err = ParseDayKey("2024-13-01")
	assert.ErrorIs(t, err, ErrInvalidDayKey)
	assert.False(t, DayKey("yesterday").Valid())
}

func TestNormalizeBirthDate(t *testing.T) {
	assert.Equal(t, "2001-08-17", NormalizeBirthDate("010817"))
	assert.Equal(t, "1995-03-04", NormalizeBirthDate("950304"))
	assert.Equal(t, "2001-08-17", NormalizeBirthDate("20010817"))
	assert.Equal(t, "2001-08-17", NormalizeBirthDate("2001.08.17"))
	assert.Equal(t, "011317", NormalizeBirthDate("011317"))
	assert.Equal(t, "abc", NormalizeBirthDate("abc"))
}

func TestUserInfoValidate(t *testing.T) {
	assert.NoError(t, UserInfo{Name: "Minji", BirthDate: "2001-08-17"}.Validate())
	assert.ErrorIs(t, UserInfo{Name: "M", BirthDate: "2001-08-17"}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, UserInfo{Name: "Minji", BirthDate: "20010817"}.Validate(), ErrInvalidArgument)
}
