package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javiermolinar/akima/internal/gesture"
	"github.com/javiermolinar/akima/internal/slot"
)

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "akima-debug.log"

// Global debug logger instance, a no-op unless InitDebugLogger enabled it.
var debugLog = zap.NewNop()

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = zap.NewNop()
		return nil
	}

	logger, err := newDebugLogger(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}
	debugLog = logger.With(zap.String("run_id", uuid.NewString()))
	debugLog.Info("debug_start", zap.String("log_file", DebugLogPath))
	return nil
}

func newDebugLogger(path string) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "event",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}

// CloseDebugLogger flushes the debug log.
func CloseDebugLogger() {
	debugLog.Info("debug_end")
	_ = debugLog.Sync()
	debugLog = zap.NewNop()
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg, mode Mode) {
	debugLog.Debug("key_press",
		zap.String("key", msg.String()),
		zap.Stringer("mode", mode),
	)
}

// LogMouse logs a mouse event and what it hit.
func LogMouse(msg tea.MouseMsg, hit string) {
	debugLog.Debug("mouse",
		zap.String("mouse", msg.String()),
		zap.Int("x", msg.X),
		zap.Int("y", msg.Y),
		zap.String("hit", hit),
	)
}

// LogTransition logs a gesture state change.
func LogTransition(t gesture.Transition) {
	debugLog.Debug("gesture",
		zap.Stringer("from", t.From),
		zap.Stringer("to", t.To),
		zap.String("reason", t.Reason),
		zap.String("date", t.Cell.Date.String()),
		zap.Int("hour", t.Cell.Hour),
	)
}

// LogStore logs the selection after a mutation.
func LogStore(action string, store *slot.Store) {
	if !debugLog.Core().Enabled(zap.DebugLevel) {
		return
	}
	snap := store.Snapshot()
	debugLog.Debug("store",
		zap.String("action", action),
		zap.Uint64("version", store.Version()),
		zap.Stringer("window", snap.Window),
		zap.Int("slots", snap.Slots.Count()),
	)
}

// LogPersist logs a storage result.
func LogPersist(what string, version uint64) {
	debugLog.Debug("persist", zap.String("what", what), zap.Uint64("version", version))
}

// LogError logs an error.
func LogError(context string, err error) {
	debugLog.Error("error", zap.String("context", context), zap.Error(err))
}
