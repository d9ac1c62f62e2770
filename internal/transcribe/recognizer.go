package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"interview-coach/internal/provider"
)

const defaultRecognizeTimeout = 60 * time.Second

// SpeechRecognizer calls a speech:recognize REST endpoint with LINEAR16 audio.
type SpeechRecognizer struct {
	endpoint string
	apiKey   string
	language string
	client   *http.Client
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz,omitempty"`
	LanguageCode    string `json:"languageCode"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

// NewSpeechRecognizer creates a recognizer. apiKey may be empty when the endpoint
// does not require one.
func NewSpeechRecognizer(endpoint, apiKey, language string) *SpeechRecognizer {
	if language == "" {
		language = "en-US"
	}
	return &SpeechRecognizer{
		endpoint: endpoint,
		apiKey:   apiKey,
		language: language,
		client:   &http.Client{Timeout: defaultRecognizeTimeout},
	}
}

func (r *SpeechRecognizer) Recognize(ctx context.Context, wavData []byte, sampleRate int) (string, error) {
	reqJSON, err := json.Marshal(recognizeRequest{
		Config: recognizeConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: sampleRate,
			LanguageCode:    r.language,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(wavData)},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := r.endpoint
	if r.apiKey != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return "", &LocalRecognitionError{Detail: "invalid recognizer url: " + err.Error()}
		}
		q := u.Query()
		q.Set("key", r.apiKey)
		u.RawQuery = q.Encode()
		endpoint = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &LocalRecognitionError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &LocalRecognitionError{Detail: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := provider.FromResponse(resp.StatusCode, body, reasonPhrase(resp))
		return "", &LocalRecognitionError{Detail: fmt.Sprintf("status %d: %s", apiErr.Status, apiErr.Message)}
	}

	// Long clips come back as several results; keep the top alternative of each.
	var parts []string
	for _, res := range gjson.GetBytes(body, "results").Array() {
		if t := strings.TrimSpace(res.Get("alternatives.0.transcript").String()); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoSpeech
	}
	return strings.Join(parts, " "), nil
}
