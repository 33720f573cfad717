package voice

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	DefaultLanguage     = "en-US"
	DefaultSampleRate   = 16000
	DefaultAudioCommand = "arecord -q -f S16_LE -r 16000 -c 1 -t raw"
)

type Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Language        string `mapstructure:"language"`
	SampleRate      int    `mapstructure:"sample-rate"`
	AudioCommand    string `mapstructure:"audio-command"`
	CredentialsFile string `mapstructure:"credentials-file"`
}

// New returns a Recognizer backed by Google Speech-to-Text, or Unsupported
// with the reason voice input cannot be offered.
func New(ctx context.Context, cfg Config, log *zap.Logger) Capture {
	if log == nil {
		log = zap.NewNop()
	}

	if !cfg.Enabled {
		return Unsupported{Reason: "voice input is disabled"}
	}

	source := ParseCommand(cfg.AudioCommand)
	if err := source.Available(); err != nil {
		log.Info("voice input unavailable", zap.Error(err))
		return Unsupported{Reason: err.Error()}
	}

	var opts []option.ClientOption
	if path := strings.TrimSpace(cfg.CredentialsFile); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		log.Warn("failed to create speech client", zap.Error(err))
		return Unsupported{Reason: fmt.Sprintf("speech recognition is unavailable: %v", err)}
	}

	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	open := func(ctx context.Context) (Stream, error) {
		return client.StreamingRecognize(ctx)
	}

	r := NewRecognizer(open, source, language, sampleRate, log.Named("voice"))
	r.closer = client

	return r
}
