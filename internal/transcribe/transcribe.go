// Package transcribe turns uploaded audio into text through the provider's
// transcription endpoint, dropping to a local WAV recognizer when the provider's
// speech model is unavailable for the configured key.
package transcribe

import (
	"context"
	"errors"
	"fmt"
)

const (
	// FallbackWarning accompanies text produced by the local recognizer.
	FallbackWarning = "Using SpeechRecognition fallback transcription."
	// ModelUnavailableWarning accompanies an empty result when the fallback also failed.
	ModelUnavailableWarning = "Speech transcription model not available for this API key. Use a key from https://build.nvidia.com/openai/whisper-large-v3 and set NVIDIA_STT_API_KEY."
	// AuthWarning accompanies an empty result when the provider rejected the speech key.
	AuthWarning = "Whisper authentication failed. Generate a key at https://build.nvidia.com/openai/whisper-large-v3 and set NVIDIA_STT_API_KEY (or NVIDIA_API_KEY)."
	// MissingSpeechKey is returned when neither a speech nor a chat credential resolves.
	MissingSpeechKey = "NVIDIA_STT_API_KEY is missing. Set it (or NVIDIA_API_KEY) via environment variable or /settings/api-key endpoint."
)

var (
	// ErrUnsupportedFormat means the local recognizer was handed non-WAV audio.
	ErrUnsupportedFormat = errors.New("SpeechRecognition fallback supports WAV input only")
	// ErrInvalidWAV means the payload claimed to be WAV but is not a readable container.
	ErrInvalidWAV = errors.New("malformed WAV audio")
	// ErrNoSpeech is returned by a Recognizer that heard nothing.
	ErrNoSpeech = errors.New("no speech recognized")
)

// LocalRecognitionError is a transport or service failure inside the local recognizer.
type LocalRecognitionError struct {
	Detail string
}

func (e *LocalRecognitionError) Error() string {
	return fmt.Sprintf("SpeechRecognition service error: %s", e.Detail)
}

// Audio is one uploaded clip.
type Audio struct {
	Data     []byte
	Filename string
	MIMEType string
}

// Result is the transcript plus an optional warning for degraded paths.
type Result struct {
	Text     string `json:"text"`
	Warning  string `json:"warning,omitempty"`
	Fallback bool   `json:"-"`
}

// Remote transcribes through the provider.
type Remote interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}

// Fallback transcribes locally.
type Fallback interface {
	Transcribe(ctx context.Context, data []byte, mimeType string) (string, error)
}
