// Package logging builds the zap logger shared by every component.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Modes accepted by New.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
	ModeSilent      = "silent"
)

// New builds a logger for mode. "production" (or "prod") writes JSON at info
// level, "silent" (or "off") discards everything, and any other value gives a
// development console logger at debug level. Output goes to stderr so that
// command output on stdout stays clean.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeSilent, "off", "none":
		return zap.NewNop(), nil
	case ModeProduction, "prod":
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building %s logger: %w", mode, err)
	}
	return log, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
