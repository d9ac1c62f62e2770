package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

// Recognizer turns a WAV clip into text. It returns ErrNoSpeech when nothing was heard.
type Recognizer interface {
	Recognize(ctx context.Context, wavData []byte, sampleRate int) (string, error)
}

// LocalFallback validates WAV input and hands it to a Recognizer. The clip is staged
// in a temp file for the duration of one call.
type LocalFallback struct {
	recognizer Recognizer
	tempDir    string
	log        *slog.Logger
}

// NewLocalFallback builds the fallback. An empty tempDir uses os.TempDir().
func NewLocalFallback(recognizer Recognizer, tempDir string, log *slog.Logger) *LocalFallback {
	return &LocalFallback{recognizer: recognizer, tempDir: tempDir, log: log}
}

// IsWAV reports whether mimeType names a WAV container.
func IsWAV(mimeType string) bool {
	mime := strings.ToLower(mimeType)
	for _, token := range []string{"wav", "x-wav", "wave"} {
		if strings.Contains(mime, token) {
			return true
		}
	}
	return false
}

func (f *LocalFallback) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	if !IsWAV(mimeType) {
		return "", ErrUnsupportedFormat
	}
	if f.recognizer == nil {
		return "", &LocalRecognitionError{Detail: "no local recognizer configured"}
	}

	dir := f.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "interview-fallback-"+uuid.NewString()+".wav")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("stage wav: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			f.log.Warn("failed to remove staged wav", "path", path, "err", err)
		}
	}()

	sampleRate, err := validateWAV(path)
	if err != nil {
		return "", err
	}
	staged, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read staged wav: %w", err)
	}

	text, err := f.recognizer.Recognize(ctx, staged, sampleRate)
	if errors.Is(err, ErrNoSpeech) {
		return "", nil
	}
	if err != nil {
		var localErr *LocalRecognitionError
		if errors.As(err, &localErr) {
			return "", err
		}
		return "", &LocalRecognitionError{Detail: err.Error()}
	}
	return strings.TrimSpace(text), nil
}

// validateWAV checks the RIFF/WAVE headers and returns the sample rate.
func validateWAV(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open staged wav: %w", err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return 0, ErrInvalidWAV
	}
	return int(dec.SampleRate), nil
}
