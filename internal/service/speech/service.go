package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/metrics"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/speech"
)

// Service wraps the synthesis client with per-call timeouts and data URI encoding.
type Service struct {
	cfg    config.SpeechConfig
	client *TTSClient
	log    *zap.Logger
}

// NewService creates the speech service.
func NewService(cfg config.SpeechConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:    cfg,
		client: NewTTSClient(cfg, log),
		log:    log,
	}
}

// Enabled reports whether credentials were configured.
func (s *Service) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// Synthesize converts text to audio and fills AudioURL with a data URI.
func (s *Service) Synthesize(ctx context.Context, req speech.TTSRequest) (*speech.TTSResponse, error) {
	if !s.Enabled() {
		return nil, ErrNotConfigured
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.client.Synthesize(ctx, req)
	metrics.RecordSpeech(err == nil)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	resp.AudioURL = DataURI(resp.Format, resp.AudioData)
	s.log.Debug("speech synthesized",
		zap.String("request_id", resp.RequestID),
		zap.Int("bytes", len(resp.AudioData)),
		zap.Int64("duration_ms", resp.Duration),
	)
	return resp, nil
}

// Speak synthesizes text with the default voice and returns an audio data URI.
func (s *Service) Speak(ctx context.Context, text string) (string, error) {
	resp, err := s.Synthesize(ctx, speech.TTSRequest{Text: text})
	if err != nil {
		return "", err
	}
	return resp.AudioURL, nil
}

// DataURI encodes audio bytes as data:audio/<format>;base64,...
func DataURI(format string, audio []byte) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "mp3"
	}
	mime := "audio/" + format
	if format == "mp3" {
		mime = "audio/mpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(audio)
}
