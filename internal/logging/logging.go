// Package logging builds the zap loggers used by the CLI and the server.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "DAYLOG_DEBUG"

var (
	cliEncoder = zapcore.EncoderConfig{
		TimeKey:          zapcore.OmitKey,
		LevelKey:         "L",
		NameKey:          "N",
		CallerKey:        zapcore.OmitKey,
		FunctionKey:      zapcore.OmitKey,
		MessageKey:       "M",
		StacktraceKey:    "S",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}

	serverEncoder = zapcore.EncoderConfig{
		TimeKey:        "time",
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		LevelKey:       "severity",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		MessageKey:     "message",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// DebugEnabled returns true if debug mode is enabled via DAYLOG_DEBUG
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// Level picks the minimum level: debug when DAYLOG_DEBUG is set, info when
// verbose, warnings otherwise.
func Level(verbose bool) zapcore.Level {
	switch {
	case DebugEnabled():
		return zapcore.DebugLevel
	case verbose:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a console logger writing to stderr, for CLI commands.
func New(verbose bool) *zap.Logger {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cliEncoder), zapcore.Lock(os.Stderr), Level(verbose))
	return zap.New(core).Named("daylog")
}

// NewJSON returns a structured JSON logger writing to stderr, for the server.
func NewJSON(verbose bool) *zap.Logger {
	level := Level(verbose)
	if level > zapcore.InfoLevel {
		level = zapcore.InfoLevel
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(serverEncoder), zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller()).Named("daylog")
}

// SetGlobal installs l as the package logger used by Debugf and L.
func SetGlobal(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	global = l
	mu.Unlock()
}

// L returns the package logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Debugf logs a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		L().Debug(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
	}
}
