package logx

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// detecta color mode
func useColor() bool {
	return os.Getenv("ENV") == "local" || os.Getenv("ENV") == "dev"
}

// Init builds the process logger. Output goes to stderr so it never mixes
// with the chat transcript on stdout.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	if useColor() {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	SetLogger(l)
	return nil
}

// SetLogger swaps the underlying zap logger (tests pass zap.NewNop()).
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

// --- Public API ---

func Debug(comp, msg string, args ...any) {
	sugar(comp).Debugf(msg, args...)
}

func Info(comp, msg string, args ...any) {
	sugar(comp).Infof(msg, args...)
}

func Warn(comp, msg string, args ...any) {
	sugar(comp).Warnf(msg, args...)
}

func Error(comp, msg string, args ...any) {
	sugar(comp).Errorf(msg, args...)
}

// L logs at info level scoped to a session id.
func L(id, comp, msg string, args ...any) {
	sugar(comp).With("session", id).Infof(msg, args...)
}

func sugar(comp string) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.Named(comp).Sugar()
}
