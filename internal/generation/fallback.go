package generation

import (
	"strings"

	"github.com/alexanderramin/fortune/internal/domain"
)

var insightFallbacks = map[domain.InsightCategory]string{
	domain.CategoryDaily: "Today is a day for fresh starts. Begin it with an open, hopeful mind. " +
		"A small change can bring a surprising piece of luck. Reach out to the people around you " +
		"and keep gratitude close; this day may come to mean more than you expect.",
	domain.CategoryLove: "A good connection is waiting for you. Carry yourself with confidence and let your heart open. " +
		"Real affection tends to arrive naturally. Tend to the beauty inside as much as the outside, " +
		"and a sincere effort to understand the other person will deepen whatever you share.",
	domain.CategoryStudy: "Your focus is on the rise. Make a plan and keep a steady pace; " +
		"the results will match the effort you put in. Trying a new way of learning could help, " +
		"and refusing to give up will be the key that opens the next door.",
	domain.CategoryCareer: "A new opportunity is drawing near. Step forward and take the challenge. " +
		"This is the moment to show what you can do. Working closely with colleagues will matter, " +
		"and a creative idea of yours may surprise everyone around you.",
	domain.CategoryHealth: "Balance between body and mind is what matters most right now. Rest well and keep a regular rhythm. " +
		"Moderate exercise and honest, simple meals will bring back your energy. " +
		"Watch your stress and hold on to a kind, positive outlook.",
}

var chatFallbacks = []string{
	"I didn't quite catch that. Could you tell me again?",
	"I'm a little busy floating around right now, give me a second!",
	"Hmm, let me think about that... could you say it once more?",
	"Oops, something went sideways on my end. Try me again!",
	"The connection feels slow today. One more time, please?",
	"I drifted off into my own thoughts for a moment. What were you saying?",
	"I'm still putting my answer together, hang on just a little!",
	"That sounds like a tricky one. Could you put it more simply?",
}

// MissionTemplate is a static mission.
type MissionTemplate struct {
	Title       string
	Description string
}

var missionFallbacks = []MissionTemplate{
	{"Today's Walking Mission", "Take a slow walk around your neighborhood and soak in the good energy. Put your phone away for a while and enjoy the scenery."},
	{"Healing Cafe Time", "Find a cafe nearby and enjoy a warm cup of tea. Put on music you love and let your mind settle."},
	{"Time With Nature", "Go to a park or any green space close by and breathe deeply. Let the trees and flowers lend you their energy."},
	{"Thank-You Greeting", "Give a warm greeting to the people you meet today. One small smile can brighten a whole day."},
	{"A Small Kindness", "Do one small favor for someone: hold a door or press the elevator button. That is more than enough."},
	{"Snack Discovery", "Look for a snack nearby you have never tried. A new flavor can bring a small burst of happiness."},
	{"Photo Mission", "Capture a beautiful moment from today. Look for the sky, a flower, or any scene that feels special."},
	{"Reading Time", "Stop by a bookstore or library and find a book that catches your eye. Even a few pages can spark new inspiration."},
	{"Music Walk", "Listen to your favorite songs while looking around you. Time spent with music can comfort the heart."},
	{"Stretch Break", "Take a moment to stretch your whole body. A few simple stretches will make body and mind feel lighter."},
}

// locationMission matches a place descriptor by keyword. Keywords are
// compared case-insensitively and include native spellings.
type locationMission struct {
	Keywords []string
	MissionTemplate
}

var locationMissions = []locationMission{
	{
		Keywords:        []string{"daejeon", "yuseong", "대전", "유성"},
		MissionTemplate: MissionTemplate{"Yuseong Hot Spring Walk", "Stroll around the Yuseong hot spring area and feel the warmth of the springs."},
	},
	{
		Keywords:        []string{"seoul", "서울"},
		MissionTemplate: MissionTemplate{"Find a City Hideaway", "Find a small quiet corner in busy Seoul and take a moment of calm for yourself."},
	},
	{
		Keywords:        []string{"busan", "부산"},
		MissionTemplate: MissionTemplate{"Catch the Sea Breeze", "Head toward the sea and let the cool breeze clear your mind."},
	},
	{
		Keywords:        []string{"jeju", "제주"},
		MissionTemplate: MissionTemplate{"Jeju Nature Break", "Take in Jeju's beautiful nature and give yourself some time to heal."},
	},
}

// InsightFallback returns the static insight for a category. Unknown
// categories use the daily text.
func InsightFallback(category domain.InsightCategory) string {
	if s, ok := insightFallbacks[category]; ok {
		return s
	}
	return insightFallbacks[domain.CategoryDaily]
}

// ChatFallback picks a chat line using intn.
func ChatFallback(intn func(int) int) string {
	return chatFallbacks[intn(len(chatFallbacks))]
}

// MissionFallback prefers a mission keyed by the location descriptor and
// otherwise picks one from the general pool.
func MissionFallback(location string, intn func(int) int) (title, description string) {
	if m, ok := LocationMission(location); ok {
		return m.Title, m.Description
	}
	m := missionFallbacks[intn(len(missionFallbacks))]
	return m.Title, m.Description
}

// LocationMission looks up the location table.
func LocationMission(location string) (MissionTemplate, bool) {
	loc := strings.ToLower(location)
	if strings.TrimSpace(loc) == "" {
		return MissionTemplate{}, false
	}
	for _, lm := range locationMissions {
		for _, kw := range lm.Keywords {
			if strings.Contains(loc, kw) {
				return lm.MissionTemplate, true
			}
		}
	}
	return MissionTemplate{}, false
}

// EmotionFallback is the label used when classification fails.
func EmotionFallback() domain.Emotion {
	return domain.DefaultEmotion
}
