package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogObserver_WritesEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewLogObserver(zap.New(core))

	obs.OnCallComplete(CallEvent{Task: TaskInsight, Model: "gpt-4o", LatencyMs: 12, Attempts: 1, Success: true})
	obs.OnCallComplete(CallEvent{Task: TaskMission, Model: "gpt-4o", Attempts: 3, ErrorCode: "RATE_LIMITED"})

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "llm_call", entries[0].Message)
	assert.Equal(t, "insight", entries[0].ContextMap()["task"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "RATE_LIMITED", entries[1].ContextMap()["error_code"])
	assert.Equal(t, int64(3), entries[1].ContextMap()["attempts"])
}
