package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = zap.NewNop()

// L returns the global logger. It is a nop logger until Init or
// ReplaceGlobal is called, so packages may log unconditionally.
func L() *zap.Logger {
	return global
}

// ReplaceGlobal swaps the global logger; tests use this to silence output.
func ReplaceGlobal(l *zap.Logger) {
	global = l
	zap.ReplaceGlobals(l)
}

// Init builds a production JSON logger at the given level and installs it
// globally. An unparseable level falls back to info instead of failing.
func Init(level string) error {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	ReplaceGlobal(l)
	return nil
}
