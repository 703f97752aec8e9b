package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hilthontt/visper-admin/infrastructure/config"
)

// Logger wraps zap so call sites stay terse. The underlying *zap.Logger
// is exported for the few places that need it directly (sync, gorm).
type Logger struct {
	Log *zap.Logger
}

func NewDevelopmentLogger() (*Logger, error) {
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	return &Logger{Log: log}, nil
}

// NewLogger builds the configured logger: console output always, plus a
// size-rotated file when a path is configured.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if cfg.IsDevelopment() && cfg.Logger.FilePath == "" {
		return NewDevelopmentLogger()
	}

	level := parseLevel(cfg.Logger.Level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Logger.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}

	if cfg.Logger.FilePath != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.Logger.FilePath,
			MaxSize:    cfg.Logger.MaxSize,
			MaxBackups: cfg.Logger.MaxBackups,
			MaxAge:     cfg.Logger.MaxAge,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(fileWriter), level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	return &Logger{Log: log}, nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.Log.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.Log.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.Log.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.Log.Error(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.Log.Fatal(msg, fields...)
}
