// Package logging configures the zap logger shared by the generator. Output is
// a compact console format on stderr; debug output is enabled with --verbose.
package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	log  = zap.NewNop()
	atom = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	Set(New(os.Stderr))
}

// New builds a console logger writing to w at the package's shared level.
func New(w io.Writer) *zap.Logger {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "lvl",
		NameKey:          "logger",
		TimeKey:          zapcore.OmitKey,
		CallerKey:        zapcore.OmitKey,
		FunctionKey:      zapcore.OmitKey,
		StacktraceKey:    zapcore.OmitKey,
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		atom,
	)
	return zap.New(core)
}

// Set replaces the shared logger.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// L returns the shared logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Named returns a child of the shared logger.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// SetDebug lowers the shared level to debug.
func SetDebug() {
	atom.SetLevel(zapcore.DebugLevel)
}

// SetQuiet raises the shared level so that only warnings and errors print.
func SetQuiet() {
	atom.SetLevel(zapcore.WarnLevel)
}
