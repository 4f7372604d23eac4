package hal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger adapts zap to the line-oriented Logger. A line starting with
// "debug: ", "warn: " or "error: " is logged at that level with the prefix
// removed; anything else is info.
type zapLogger struct {
	z *zap.Logger
}

func newZapLogger(opts Options) (*zapLogger, error) {
	level := zap.NewAtomicLevel()
	if opts.LogLevel != "" {
		if err := level.UnmarshalText([]byte(opts.LogLevel)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.LogLevel, err)
		}
	}

	var cfg zap.Config
	switch opts.LogFormat {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.Development = false
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("log format %q: want console or json", opts.LogFormat)
	}
	cfg.Level = level
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	if opts.LogPath != "" {
		cfg.OutputPaths = []string{opts.LogPath}
		cfg.ErrorOutputPaths = []string{opts.LogPath}
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &zapLogger{z: z.Named("bedclock")}, nil
}

func newZapLoggerWithCore(core zapcore.Core) *zapLogger {
	return &zapLogger{z: zap.New(core)}
}

func (l *zapLogger) WriteLineString(s string) {
	lvl, msg := splitLevel(s)
	if ce := l.z.Check(lvl, msg); ce != nil {
		ce.Write()
	}
}

func (l *zapLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *zapLogger) Sync() error { return l.z.Sync() }

func splitLevel(s string) (zapcore.Level, string) {
	for _, p := range [...]struct {
		prefix string
		lvl    zapcore.Level
	}{
		{"debug: ", zapcore.DebugLevel},
		{"warn: ", zapcore.WarnLevel},
		{"error: ", zapcore.ErrorLevel},
	} {
		if strings.HasPrefix(s, p.prefix) {
			return p.lvl, s[len(p.prefix):]
		}
	}
	return zapcore.InfoLevel, s
}
