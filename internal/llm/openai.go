package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"interview-coach/internal/credentials"
	"interview-coach/internal/provider"
)

// MissingChatKey is returned when no chat credential resolves.
const MissingChatKey = "NVIDIA_API_KEY is missing. Set it via environment variable or /settings/api-key endpoint."

const (
	defaultCompletionTimeout = 60 * time.Second
	defaultChatTemperature   = 0.5
)

// OpenAIClient calls an OpenAI-compatible Chat Completions endpoint. The API key is
// resolved per call so a key saved at runtime takes effect on the next request.
type OpenAIClient struct {
	model   openai.ChatModel
	client  *openai.Client
	keys    credentials.Resolver
	timeout time.Duration
}

// Option customizes the client.
type Option func(*OpenAIClient)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *OpenAIClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewOpenAIClient builds a client against baseURL. Retries are disabled: each
// completion is a single attempt.
func NewOpenAIClient(baseURL, model string, keys credentials.Resolver, opts ...Option) (*OpenAIClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("base url required")
	}
	if model == "" {
		return nil, fmt.Errorf("model required")
	}
	if keys == nil {
		return nil, fmt.Errorf("credential resolver required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	cli := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	c := &OpenAIClient{
		model:   openai.ChatModel(model),
		client:  &cli,
		keys:    keys,
		timeout: defaultCompletionTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete returns the first choice's message content, or "" when the response has no choices.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	cred, ok := c.keys.Resolve(credentials.PurposeChat)
	if !ok {
		return "", &provider.MissingCredentialError{Instructions: MissingChatKey}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    buildMessages(prompt),
		Temperature: openai.Float(defaultChatTemperature),
	}, option.WithAPIKey(cred.Key))
	if err != nil {
		return "", classifyError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}

// classifyError maps SDK errors onto the provider taxonomy. Anything that is not an
// API status error (DNS, refused connection, deadline) counts as unreachable.
func classifyError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return provider.FromTransport(err)
	}
	var body []byte
	reason := strings.TrimSpace(apiErr.Message)
	if apiErr.Response != nil {
		if reason == "" {
			reason = reasonPhrase(apiErr.Response)
		}
		if apiErr.Response.Body != nil {
			body, _ = io.ReadAll(apiErr.Response.Body)
		}
	}
	return provider.FromResponse(apiErr.StatusCode, body, reason)
}

func reasonPhrase(resp *http.Response) string {
	if _, phrase, ok := strings.Cut(resp.Status, " "); ok {
		return phrase
	}
	return http.StatusText(resp.StatusCode)
}
