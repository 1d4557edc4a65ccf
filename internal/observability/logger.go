// Package observability owns the process-wide zap logger.
//
// Hook callbacks log from the input thread, and Windows unhooks a low-level hook
// whose callback overruns its timeout, so the optional log file is written
// through a buffer that is flushed in the background and on Sync.
package observability

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/xkilldash9x/tabkeeper/internal/config"
)

const (
	fileBufferSize    = 64 * 1024
	fileFlushInterval = time.Second
	timeLayout        = "2006-01-02T15:04:05.000Z07:00"
)

var (
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
	// fileSink is the buffered log file, stopped by ResetForTest.
	fileSink *zapcore.BufferedWriteSyncer
)

// ANSI color codes for the terminal.
const (
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorWhite   = "\x1b[37m"
	colorReset   = "\x1b[0m"
)

var colorMap = map[string]string{
	"red":     colorRed,
	"green":   colorGreen,
	"yellow":  colorYellow,
	"blue":    colorBlue,
	"magenta": colorMagenta,
	"cyan":    colorCyan,
	"white":   colorWhite,
}

// Initialize sets up the global logger with console output going to
// consoleWriter. Only the first call has any effect.
func Initialize(cfg config.LoggerConfig, consoleWriter zapcore.WriteSyncer) {
	once.Do(func() {
		level := zap.NewAtomicLevel()
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}

		cores := []zapcore.Core{zapcore.NewCore(newEncoder(cfg), consoleWriter, level)}
		if cfg.LogFile != "" {
			fileSink = &zapcore.BufferedWriteSyncer{
				WS: zapcore.AddSync(&lumberjack.Logger{
					Filename:   cfg.LogFile,
					MaxSize:    cfg.MaxSize,
					MaxBackups: cfg.MaxBackups,
					MaxAge:     cfg.MaxAge,
					Compress:   cfg.Compress,
				}),
				Size:          fileBufferSize,
				FlushInterval: fileFlushInterval,
			}
			// The file is always JSON regardless of the console format.
			cores = append(cores, zapcore.NewCore(newEncoder(config.LoggerConfig{Format: "json"}), fileSink, level))
		}

		options := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
		if cfg.AddSource {
			options = append(options, zap.AddCaller())
		}

		name := cfg.ServiceName
		if name == "" {
			name = "tabkeeper"
		}
		logger := zap.New(zapcore.NewTee(cores...), options...).Named(name)
		globalLogger.Store(logger)

		zap.ReplaceGlobals(logger)
		zap.RedirectStdLog(logger)
	})
}

// InitializeLogger initializes the global logger writing to a locked Stderr.
// Stdout is left to command output (replay writes JSON lines there).
func InitializeLogger(cfg config.LoggerConfig) {
	Initialize(cfg, zapcore.Lock(os.Stderr))
}

// ResetForTest clears the global logger and stops the file flusher.
// This function should ONLY be used in tests.
func ResetForTest() {
	if fileSink != nil {
		_ = fileSink.Stop()
		fileSink = nil
	}
	globalLogger.Store(nil)
	once = sync.Once{}
}

// levelEncoder renders capitalized level names, wrapped in the configured ANSI
// color where one is named. Unknown color names leave the level plain.
func levelEncoder(colors config.ColorConfig) zapcore.LevelEncoder {
	names := map[zapcore.Level]string{
		zapcore.DebugLevel:  colors.Debug,
		zapcore.InfoLevel:   colors.Info,
		zapcore.WarnLevel:   colors.Warn,
		zapcore.ErrorLevel:  colors.Error,
		zapcore.DPanicLevel: colors.DPanic,
		zapcore.PanicLevel:  colors.Panic,
		zapcore.FatalLevel:  colors.Fatal,
	}
	rendered := make(map[zapcore.Level]string, len(names))
	for lvl, name := range names {
		label := lvl.CapitalString()
		if code, ok := colorMap[name]; ok {
			label = code + label + colorReset
		}
		rendered[lvl] = label
	}

	return func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if label, ok := rendered[level]; ok {
			enc.AppendString(label)
			return
		}
		enc.AppendString(level.CapitalString())
	}
}

// newEncoder returns a JSON encoder, or a colorized single-line console encoder
// when cfg.Format is "console".
func newEncoder(cfg config.LoggerConfig) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)

	if cfg.Format != "console" {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = levelEncoder(cfg.Colors)
	// "tabkeeper.dispatch." reads better than "tabkeeper.dispatch" in a terminal.
	ec.EncodeName = func(loggerName string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(loggerName + ".")
	}
	return zapcore.NewConsoleEncoder(ec)
}

// GetLogger returns the global logger, or a development logger when
// InitializeLogger has not been called yet.
func GetLogger() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	l.Warn("Global logger requested before initialization; using fallback.")
	return l.Named("fallback")
}

// Component returns the global logger named for one subsystem.
func Component(name string) *zap.Logger {
	return GetLogger().Named(name)
}

// Sync flushes buffered entries, including the log file buffer. Call it before exit.
func Sync() {
	logger := globalLogger.Load()
	if logger == nil {
		return
	}
	if err := logger.Sync(); err != nil && !terminalSyncError(err) {
		fmt.Fprintln(os.Stderr, "Error: failed to sync logger:", err)
	}
}

// terminalSyncError reports errors from fsync on a console or pipe, which many
// platforms refuse.
func terminalSyncError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && (pathErr.Path == "/dev/stderr" || pathErr.Path == "/dev/stdout") {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"invalid argument", "inappropriate ioctl", "operation not supported", "handle is invalid"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
