package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kingrea/tastematch/internal/config"
)

// FileName is the log file created under .tastematch/logs.
const FileName = "tastematch.log"

// Logger appends JSON lines to .tastematch/logs/tastematch.log. The TUI owns
// the terminal, so nothing is written to stdout or stderr.
type Logger struct {
	zap  *zap.Logger
	file *os.File
}

// New creates (or reuses) the log file in the project's logs directory.
func New(cfg *config.Config, debug bool) (*Logger, error) {
	logDir := cfg.LogsDir()
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level)
	return &Logger{zap: zap.New(core), file: f}, nil
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// Wrap adopts an existing zap logger, e.g. zaptest's observer in tests.
func Wrap(z *zap.Logger) *Logger {
	if z == nil {
		return Nop()
	}
	return &Logger{zap: z}
}

// Zap exposes the structured logger.
func (l *Logger) Zap() *zap.Logger {
	if l == nil || l.zap == nil {
		return zap.NewNop()
	}
	return l.zap
}

// Named returns a child logger scoped to a component.
func (l *Logger) Named(name string) *zap.Logger {
	return l.Zap().Named(name)
}

// Printf writes a single info line. It satisfies scorebridge.Logger.
func (l *Logger) Printf(format string, args ...any) {
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.Zap().Info(line)
}

// Close flushes and releases the file handle.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	if l.zap != nil {
		_ = l.zap.Sync()
	}
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
