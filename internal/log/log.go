package log

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"

	EncodingConsole = "console"
	EncodingJSON    = "json"
)

type Options struct {
	Level    string
	Encoding string
	// Output defaults to stderr, stdout carries command results.
	Output io.Writer
}

var (
	zlog  = New(Options{Level: os.Getenv("LOG_LEVEL"), Encoding: os.Getenv("LOG_ENCODING")})
	sugar = zlog.Sugar()

	Debugf = sugar.Debugf
	Infof  = sugar.Infof
	Warnf  = sugar.Warnf
	Errorf = sugar.Errorf
	With   = sugar.With
)

func New(opts Options) *zap.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	encoderConfig := zapcore.EncoderConfig{
		LevelKey:       "level",
		TimeKey:        "timestamp",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(time.RFC3339),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	var encoder zapcore.Encoder
	if strings.ToLower(opts.Encoding) == EncodingJSON {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), ParseLevel(opts.Level))
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

// ParseLevel maps a level name to a zap level, defaulting to warn so that a
// plain CLI run stays quiet.
func ParseLevel(level string) zap.AtomicLevel {
	switch strings.ToUpper(level) {
	case LevelDebug, "TRACE":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case LevelInfo:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case LevelError:
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
}

// SetDefault replaces the package logger used by the aliases.
func SetDefault(logger *zap.Logger) {
	zlog = logger
	sugar = zlog.Sugar()
	Debugf = sugar.Debugf
	Infof = sugar.Infof
	Warnf = sugar.Warnf
	Errorf = sugar.Errorf
	With = sugar.With
}

func Default() *zap.Logger { return zlog }

func Sync() error { return zlog.Sync() }
