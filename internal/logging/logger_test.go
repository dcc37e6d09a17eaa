package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Modes(t *testing.T) {
	prod, err := New("production")
	require.NoError(t, err)
	assert.True(t, prod.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))

	dev, err := New("development")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	silent, err := New("silent")
	require.NoError(t, err)
	assert.False(t, silent.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_UnknownModeIsDevelopment(t *testing.T) {
	log, err := New("whatever")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNop(t *testing.T) {
	assert.False(t, Nop().Core().Enabled(zapcore.ErrorLevel))
}
