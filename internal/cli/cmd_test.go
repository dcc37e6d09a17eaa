package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/fortune/internal/clock"
	"github.com/alexanderramin/fortune/internal/constellation"
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/generation"
	"github.com/alexanderramin/fortune/internal/progress"
	"github.com/alexanderramin/fortune/internal/repository"
	"github.com/alexanderramin/fortune/internal/service"
	"github.com/alexanderramin/fortune/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testApp wires a full App backed by an in-memory DB. Generation is
// disabled, so every generated step takes its offline fallback.
func testApp(t *testing.T) (*App, *clock.OffsetClock) {
	t.Helper()
	store := repository.NewSQLiteKVStore(testutil.NewTestDB(t))
	clk := testutil.NewOffsetClock(2025, 3, 10)
	tracker := progress.NewTracker(store, clk, nil)
	ledger := constellation.NewLedger(store, nil)

	return &App{
		Ritual: service.NewRitualService(generation.New(nil), nil, tracker, ledger),
		Debug:  service.NewDebugService(store, clk, tracker, nil),
	}, clk
}

// fakePrompter answers prompts from canned values and counts calls.
type fakePrompter struct {
	category domain.InsightCategory
	messages []string
	location string
	user     domain.UserInfo
	confirm  bool

	chatTurns []int
	userCalls int
}

func (p *fakePrompter) Category() (domain.InsightCategory, error) { return p.category, nil }

func (p *fakePrompter) ChatMessage(turn int) (string, error) {
	p.chatTurns = append(p.chatTurns, turn)
	msg := p.messages[0]
	p.messages = p.messages[1:]
	return msg, nil
}

func (p *fakePrompter) Location() (string, error) { return p.location, nil }

func (p *fakePrompter) UserInfo(domain.UserInfo) (domain.UserInfo, error) {
	p.userCalls++
	return p.user, nil
}

func (p *fakePrompter) Confirm(string) (bool, error) { return p.confirm, nil }

func interactiveApp(t *testing.T, p *fakePrompter) *App {
	t.Helper()
	app, _ := testApp(t)
	app.Prompter = p
	app.IsInteractive = func() bool { return true }
	return app
}

// executeCmd runs the root command with args and returns combined output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

// --- Status ---

func TestStatus_EmptyDay(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "TODAY · 2025-03-10")
	assert.Contains(t, out, "0/3")
	assert.Contains(t, out, "0/7")
	assert.NotContains(t, out, "debug offset")
}

func TestRootCmd_DefaultsToStatus(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "TODAY · 2025-03-10")
}

// --- Insight ---

func TestInsight_OncePerDay(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "insight", "--category", "love")
	require.NoError(t, err)
	assert.Contains(t, out, "LOVE · 2025-03-10")
	assert.Contains(t, out, "offline reading: "+generation.ReasonDisabled)
	assert.NotContains(t, out, "Already revealed")

	out, err = executeCmd(t, app, "insight", "--category", "career")
	require.NoError(t, err)
	assert.Contains(t, out, "LOVE · 2025-03-10", "the first category sticks for the day")
	assert.NotContains(t, out, "CAREER")
	assert.Contains(t, out, "Already revealed today")
}

func TestInsight_UnknownCategoryFlag(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "insight", "--category", "wealth")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestInsight_PromptsForUserAndCategory(t *testing.T) {
	p := &fakePrompter{
		category: domain.CategoryStudy,
		user:     domain.UserInfo{Name: "Mina", BirthDate: "900505"},
	}
	app := interactiveApp(t, p)

	out, err := executeCmd(t, app, "insight")
	require.NoError(t, err)
	assert.Equal(t, 1, p.userCalls)
	assert.Contains(t, out, "Saved Mina · born 1990-05-05")
	assert.Contains(t, out, "STUDY · 2025-03-10")

	_, err = executeCmd(t, app, "insight")
	require.NoError(t, err)
	assert.Equal(t, 1, p.userCalls, "no prompt once today's insight exists")
}

// --- Chat ---

func TestChat_ThreeThenComplete(t *testing.T) {
	app, _ := testApp(t)

	for i := 1; i <= domain.MaxChatExchanges; i++ {
		out, err := executeCmd(t, app, "chat", "hello", "there")
		require.NoError(t, err)
		assert.Contains(t, out, "Ghostini")
		if i < domain.MaxChatExchanges {
			assert.Contains(t, out, "left today")
		} else {
			assert.Contains(t, out, "chat complete")
		}
	}

	out, err := executeCmd(t, app, "chat", "one more?")
	require.NoError(t, err, "the limit is reported, not failed")
	assert.Contains(t, out, "chat is complete")
}

func TestChat_NoMessageWithoutTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "chat")
	assert.ErrorIs(t, err, errNoInput)
}

func TestChat_InteractiveLoopsUntilComplete(t *testing.T) {
	p := &fakePrompter{messages: []string{"hi", "work was long", "bye"}}
	app := interactiveApp(t, p)

	out, err := executeCmd(t, app, "chat")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, p.chatTurns)
	assert.Contains(t, out, "chat complete")

	out, err = executeCmd(t, app, "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "chat is complete")
	assert.Len(t, p.chatTurns, 3)
}

// --- Mission, emotion, collect ---

func TestFullDayFlow(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "user", "set", "--name", "Mina", "--birth", "1990-05-05")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "insight")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "chat", "today was calm")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "mission", "recommend", "--location", "Seoul")
	require.NoError(t, err)
	assert.Contains(t, out, "near Seoul")

	out, err = executeCmd(t, app, "mission", "recommend")
	require.NoError(t, err)
	assert.Contains(t, out, "already chosen")

	out, err = executeCmd(t, app, "mission", "advance")
	require.NoError(t, err)
	assert.Contains(t, out, "Accepted")

	out, err = executeCmd(t, app, "mission", "advance")
	require.NoError(t, err)
	assert.Contains(t, out, "collect today's star")

	out, err = executeCmd(t, app, "emotion")
	require.NoError(t, err)
	assert.Contains(t, out, domain.DefaultEmotion.DisplayName())

	out, err = executeCmd(t, app, "collect")
	require.NoError(t, err)
	assert.Contains(t, out, "collected for 2025-03-10")
	assert.Contains(t, out, "reward received")

	out, err = executeCmd(t, app, "ledger")
	require.NoError(t, err)
	assert.Contains(t, out, "1/7")
	assert.Contains(t, out, "2025-03-10")

	out, err = executeCmd(t, app, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-10")
	assert.Contains(t, out, "Today")
}

func TestCollect_WithoutEmotionIsReported(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "collect")
	require.NoError(t, err)
	assert.Contains(t, out, "not available yet")
}

func TestEmotion_WithoutChatUsesDefault(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "emotion")
	require.NoError(t, err)
	assert.Contains(t, out, "No chat today")
}

func TestMissionAdvance_BeforeRecommend(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "mission", "advance")
	require.NoError(t, err)
	assert.Contains(t, out, "not available yet")
}

func TestMissionRecommend_PromptsForLocation(t *testing.T) {
	app := interactiveApp(t, &fakePrompter{location: "Busan"})

	out, err := executeCmd(t, app, "mission", "recommend")
	require.NoError(t, err)
	assert.Contains(t, out, "near Busan")
}

// --- User ---

func TestUserSet_Invalid(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "user", "set", "--name", "M", "--birth", "1990-05-05")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	out, err := executeCmd(t, app, "user", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No details saved today")
}

func TestUserSet_ShortBirthDate(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "user", "set", "--name", "Mina", "--birth", "900505")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "user", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Mina · born 1990-05-05")
}

func TestUserSet_NoFlagsWithoutTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "user", "set")
	assert.ErrorIs(t, err, errNoInput)
}

// --- Debug ---

func TestDebug_OffsetAndAdvance(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "debug", "offset", "-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Today is 2025-03-08 (offset -2)")

	out, err = executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "TODAY · 2025-03-08")
	assert.Contains(t, out, "debug offset -2 day(s)")

	out, err = executeCmd(t, app, "debug", "advance")
	require.NoError(t, err)
	assert.Contains(t, out, "Today is 2025-03-09 (offset -1)")

	out, err = executeCmd(t, app, "debug", "advance", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Today is 2025-03-12 (offset +2)")

	out, err = executeCmd(t, app, "debug", "clear-offset")
	require.NoError(t, err)
	assert.Contains(t, out, "Today is 2025-03-10 (offset +0)")
}

func TestDebug_OffsetRejectsGarbage(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "debug", "offset", "soon")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "debug", "advance", "1", "2")
	assert.Error(t, err)
}

func TestDebug_NewDayStartsFresh(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "chat", "hi")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "debug", "advance", "1")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "TODAY · 2025-03-11")
	assert.Contains(t, out, "0/3")

	out, err = executeCmd(t, app, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-10")
	assert.Contains(t, out, "Yesterday")
}

func TestDebug_ResetNeedsConfirmation(t *testing.T) {
	app, clk := testApp(t)

	_, err := executeCmd(t, app, "chat", "hi")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "debug", "offset", "4")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "debug", "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, err := executeCmd(t, app, "debug", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All data deleted")
	assert.Equal(t, 0, clk.Offset())

	out, err = executeCmd(t, app, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No days recorded")
}

func TestDebug_ResetDeclined(t *testing.T) {
	app := interactiveApp(t, &fakePrompter{confirm: false})

	_, err := executeCmd(t, app, "chat", "hi")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "debug", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing deleted")

	ov, err := app.Ritual.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ov.Record.ChatExchangeCount)
}

// --- Board ---

func TestBoard_NeedsTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "board")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "terminal"))
}
