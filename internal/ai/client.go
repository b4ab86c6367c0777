// Package ai talks to an OpenAI-compatible chat-completions endpoint and
// normalizes the model's answer into a summary result.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Defaults for the summarization call. Low temperature and a bounded
// output length favor machine-parseable answers over creative ones.
const (
	DefaultEndpoint    = "https://api.openai.com/v1/chat/completions"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTimeout     = 30 * time.Second
	defaultMaxTokens   = 800
	defaultTemperature = 0.2
)

const systemPrompt = "You are a concise assistant who returns ONLY JSON with keys one_line_summary, tasks (array), final_comment."

// ErrAPIKeyMissing reports that no provider credential is configured. It
// is checked before any network call is made.
var ErrAPIKeyMissing = errors.New("AI provider API key is not configured")

// BackendError reports a failed summarization call. For HTTP failures
// Status and Body hold the upstream response verbatim; for transport
// failures Status is zero and Cause holds the underlying error.
type BackendError struct {
	Status int
	Body   string
	Cause  error
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("AI backend returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("AI backend request failed: %v", e.Cause)
}

func (e *BackendError) Unwrap() error { return e.Cause }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// Client calls a chat-completions endpoint.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithEndpoint overrides the completions endpoint, e.g. for a compatible
// provider or a test server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client. The key may be empty; Summarize reports
// ErrAPIKeyMissing before touching the network.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      DefaultModel,
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summarize sends the composed prompt to the model and returns the parsed
// result. Unparseable model output degrades to the Raw variant; only
// missing configuration, transport failures and non-2xx upstream statuses
// are errors.
func (c *Client) Summarize(ctx context.Context, prompt string) (Result, error) {
	if c.apiKey == "" {
		return Result{}, ErrAPIKeyMissing
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, &BackendError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Result{}, &BackendError{Status: resp.StatusCode, Body: string(body)}
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return Result{}, fmt.Errorf("decoding response: %w", err)
	}

	return ParseAnswer(answerText(chat)), nil
}

// answerText pulls the model text out of the first choice, accepting both
// the chat (message.content) and legacy (text) response shapes.
func answerText(chat chatResponse) string {
	if len(chat.Choices) == 0 {
		return ""
	}
	if content := chat.Choices[0].Message.Content; content != "" {
		return content
	}
	return chat.Choices[0].Text
}
