package transcribe

import (
	"context"
	"log/slog"

	"interview-coach/internal/provider"
)

// Service transcribes remotely and recovers model-unavailable failures locally.
type Service struct {
	remote   Remote
	fallback Fallback
	log      *slog.Logger
}

func NewService(remote Remote, fallback Fallback, log *slog.Logger) *Service {
	return &Service{remote: remote, fallback: fallback, log: log}
}

// Transcribe returns provider errors other than model-unavailable unchanged. A
// model-unavailable failure never surfaces: the local recognizer's text, or an empty
// text with a warning, is returned instead.
func (s *Service) Transcribe(ctx context.Context, audio Audio) (Result, error) {
	text, err := s.remote.Transcribe(ctx, audio)
	if err == nil {
		return Result{Text: text}, nil
	}
	if !provider.IsModelUnavailable(err) {
		return Result{}, err
	}
	if s.fallback == nil {
		s.log.Warn("speech model unavailable and no local recognizer configured", "err", err)
		return Result{Warning: ModelUnavailableWarning, Fallback: true}, nil
	}

	s.log.Warn("speech model unavailable; using local recognizer", "err", err, "mime_type", audio.MIMEType)
	text, ferr := s.fallback.Transcribe(ctx, audio.Data, audio.MIMEType)
	if ferr != nil {
		s.log.Warn("local recognizer failed", "err", ferr)
		return Result{Warning: ModelUnavailableWarning, Fallback: true}, nil
	}
	return Result{Text: text, Warning: FallbackWarning, Fallback: true}, nil
}
