package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"interview-coach/internal/credentials"
	"interview-coach/internal/provider"
)

const (
	defaultTranscribeTimeout = 120 * time.Second
	defaultMIMEType          = "audio/webm"
	defaultFilename          = "audio.webm"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// WhisperClient calls an OpenAI-compatible /audio/transcriptions endpoint.
type WhisperClient struct {
	url    string
	model  string
	keys   credentials.Resolver
	client *http.Client
}

// NewWhisperClient creates a client posting to baseURL + "/audio/transcriptions".
func NewWhisperClient(baseURL, model string, keys credentials.Resolver, timeout time.Duration) *WhisperClient {
	if timeout <= 0 {
		timeout = defaultTranscribeTimeout
	}
	return &WhisperClient{
		url:    strings.TrimRight(baseURL, "/") + "/audio/transcriptions",
		model:  model,
		keys:   keys,
		client: &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads the clip as multipart/form-data and returns the trimmed text.
func (wc *WhisperClient) Transcribe(ctx context.Context, audio Audio) (string, error) {
	cred, ok := wc.keys.Resolve(credentials.PurposeSpeech)
	if !ok {
		return "", &provider.MissingCredentialError{Instructions: MissingSpeechKey}
	}

	body, contentType, err := wc.encode(audio)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wc.url, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.Key)
	req.Header.Set("Content-Type", contentType)

	resp, err := wc.client.Do(req)
	if err != nil {
		return "", provider.FromTransport(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", provider.FromTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", provider.FromResponse(resp.StatusCode, payload, reasonPhrase(resp))
	}
	return strings.TrimSpace(gjson.GetBytes(payload, "text").String()), nil
}

func (wc *WhisperClient) encode(audio Audio) (*bytes.Buffer, string, error) {
	filename := audio.Filename
	if filename == "" {
		filename = defaultFilename
	}
	mimeType := audio.MIMEType
	if mimeType == "" {
		mimeType = defaultMIMEType
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("model", wc.model); err != nil {
		return nil, "", fmt.Errorf("write model field: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio.Data); err != nil {
		return nil, "", fmt.Errorf("copy audio data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func reasonPhrase(resp *http.Response) string {
	if _, phrase, ok := strings.Cut(resp.Status, " "); ok {
		return phrase
	}
	return http.StatusText(resp.StatusCode)
}
