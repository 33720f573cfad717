package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls the CLI logger.
type Options struct {
	JSON  bool
	Debug bool
	// Quiet raises the level to warn. Interactive sessions use it so info
	// lines do not break up prompts.
	Quiet bool
}

// Level returns the minimal level enabled by the options.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Debug:
		return zapcore.DebugLevel
	case o.Quiet:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds the CLI logger writing to stderr.
func New(opts Options) (*zap.Logger, error) {
	encoding := "console"
	if opts.JSON {
		encoding = "json"
	}

	encoder := zapcore.EncoderConfig{
		MessageKey: "step",

		LevelKey:    "level",
		EncodeLevel: zapcore.LowercaseLevelEncoder,

		TimeKey:    "time",
		EncodeTime: zapcore.RFC3339TimeEncoder,
	}
	if opts.Debug {
		encoder.CallerKey = "caller"
		encoder.EncodeCaller = zapcore.ShortCallerEncoder
	}

	cfg := zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(opts.Level()),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: !opts.Debug,
		EncoderConfig:     encoder,
	}

	return cfg.Build()
}
