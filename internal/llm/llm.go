// Package llm is the gateway to the chat-completion API. Each call is
// single-shot: one HTTP request, a bounded timeout, no retries and no
// breaker. When the upstream is unconfigured or failing, the gateway
// degrades to deterministic canned responses instead of surfacing errors.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrServiceUnavailable is returned for upstream failures when fallback mode
// is disabled. The HTTP layer maps it to 503.
var ErrServiceUnavailable = errors.New("AI service unavailable")

// placeholderKey is the unconfigured sample value some .env templates ship
// with; it is treated the same as an empty key.
const placeholderKey = "your_key_here"

const (
	requestTimeout = 60 * time.Second
	temperature    = 0.7
	maxTokens      = 1000
)

// RequestKind tells the gateway which feature a request serves, so degraded
// mode can pick the right canned response without sniffing prompt text.
type RequestKind string

const (
	KindChat      RequestKind = "chat"
	KindQuiz      RequestKind = "quiz"
	KindRecommend RequestKind = "recommend"
)

// Request is one completion call.
type Request struct {
	Kind         RequestKind
	SystemPrompt string
	UserPrompt   string
	// Topic seeds the recommendation fallback; unused for other kinds.
	Topic string
}

// Completer is the gateway contract the handlers depend on.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Configured() bool
}

// Client wraps an OpenAI-compatible chat-completion API (OpenRouter in the
// default configuration).
type Client struct {
	api         *openai.Client
	model       string
	apiKey      string
	useFallback bool
}

// New creates a new gateway client. With useFallback true (the default),
// upstream failures produce canned responses; with false they surface as
// ErrServiceUnavailable.
func New(baseURL, apiKey, modelName string, useFallback bool) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{Timeout: requestTimeout}
	return &Client{
		api:         openai.NewClientWithConfig(config),
		model:       modelName,
		apiKey:      apiKey,
		useFallback: useFallback,
	}
}

// Configured reports whether a usable API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiKey != placeholderKey
}

// Complete performs a single chat-completion call and returns the model's
// text. Failure handling follows the gateway policy: no key, 401, 429, other
// non-2xx statuses, timeouts, and bodies without choices all degrade to the
// kind-specific fallback (or ErrServiceUnavailable when fallback is off).
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if !c.Configured() {
		slog.Warn("LLM API key not configured, using fallback response", "kind", req.Kind)
		return c.degrade(req, errors.New("api key not configured"))
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		slog.Warn("LLM call failed",
			"kind", req.Kind,
			"failure", classifyUpstreamError(err),
			"error", err,
		)
		return c.degrade(req, err)
	}

	if len(resp.Choices) == 0 {
		slog.Warn("LLM response contained no choices", "kind", req.Kind)
		return c.degrade(req, errors.New("response contained no choices"))
	}

	content := resp.Choices[0].Message.Content
	slog.Debug("LLM response received", "kind", req.Kind, "chars", len(content))
	return content, nil
}

func (c *Client) degrade(req Request, cause error) (string, error) {
	if c.useFallback {
		return FallbackResponse(req.Kind, req.Topic), nil
	}
	return "", fmt.Errorf("%w: %w", ErrServiceUnavailable, cause)
}

// classifyUpstreamError names the failure mode for logging. The policy does
// not branch on it: every upstream failure degrades the same way.
func classifyUpstreamError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return "unauthenticated"
		case http.StatusTooManyRequests:
			return "rate_limited"
		default:
			return "upstream_status"
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return "request_failed"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}

	return "unreachable"
}
