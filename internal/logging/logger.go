package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the module-tagged structured logger used across folio.
type Logger struct {
	z *zap.Logger
}

// Options configures New.
type Options struct {
	// FilePath enables a rotated JSON log file when non-empty.
	FilePath string
	// Dev selects the console development encoder instead of JSON.
	Dev bool
}

// New builds a Logger writing to stderr and, optionally, a rotated file.
func New(opts Options) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	// stdout is reserved for command output and the MCP stdio transport
	var consoleEncoder zapcore.Encoder
	consoleLevel := zap.InfoLevel
	if opts.Dev {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		consoleLevel = zap.DebugLevel
	} else {
		consoleEncoder = jsonEncoder
	}
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), consoleLevel),
	}

	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // Megabytes
			MaxBackups: 5,
			MaxAge:     30, // Days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), zap.InfoLevel))
	}

	return &Logger{z: zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))}
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// FromZap wraps an existing zap logger (e.g. zaptest/observer in tests).
func FromZap(z *zap.Logger) *Logger {
	return &Logger{z: z}
}

// Debug logs a debug entry tagged with module.
func (l *Logger) Debug(module, message string, details map[string]any) {
	l.z.Debug(message, fields(module, details)...)
}

// Info logs an informational entry tagged with module.
func (l *Logger) Info(module, message string, details map[string]any) {
	l.z.Info(message, fields(module, details)...)
}

// Warn logs a warning tagged with module.
func (l *Logger) Warn(module, message string, details map[string]any) {
	l.z.Warn(message, fields(module, details)...)
}

// Error logs an error tagged with module. An error under details["error"]
// is also attached as the standard zap error field.
func (l *Logger) Error(module, message string, details map[string]any) {
	f := fields(module, details)
	if err, ok := details["error"].(error); ok {
		f = append(f, zap.Error(err))
	}
	l.z.Error(message, f...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func fields(module string, details map[string]any) []zap.Field {
	f := []zap.Field{zap.String("module", module)}
	if len(details) > 0 {
		f = append(f, zap.Any("details", details))
	}
	return f
}
