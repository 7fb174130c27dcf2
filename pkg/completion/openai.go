package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4-turbo-preview"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultTimeout     = 20 * time.Second
	DefaultMaxRetries  = 2

	minAttemptTimeout = 50 * time.Millisecond
)

// Config controls the OpenAI chat-completions client.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// MaxRetries is the number of extra attempts for transient failures.
	MaxRetries     int
	InitialBackoff time.Duration

	// RequestsPerSecond limits outbound calls; zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Model:          DefaultModel,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		Timeout:        DefaultTimeout,
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: 500 * time.Millisecond,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAI calls the chat-completions endpoint with a single user message.
type OpenAI struct {
	config      Config
	credentials CredentialSource
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
}

func NewOpenAI(config Config, credentials CredentialSource, logger *slog.Logger) *OpenAI {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}

	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	return &OpenAI{
		config:      config,
		credentials: credentials,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With("module", "openai"),
	}
}

// Complete sends prompt and returns the first choice's content.
func (c *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	key, err := c.credentials.APIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve API key: %w", err)
	}

	if strings.TrimSpace(key) == "" {
		return "", ErrMissingCredential
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	if c.config.InitialBackoff > 0 {
		policy.InitialInterval = c.config.InitialBackoff
	}

	retries := uint64(max(c.config.MaxRetries, 0))
	attempt := 0

	operation := func() (string, error) {
		attempt++

		if err := c.limiter.Wait(ctx); err != nil {
			return "", backoff.Permanent(err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout(ctx, retries+2-uint64(attempt)))
		content, err := c.send(attemptCtx, key, body)
		cancel()

		if err == nil {
			return content, nil
		}

		if ctx.Err() != nil {
			return "", backoff.Permanent(ctx.Err())
		}

		if !IsTransient(err) {
			return "", backoff.Permanent(err)
		}

		return "", err
	}

	notify := func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "Completion attempt failed, retrying", "attempt", attempt, "wait", wait, "error", err)
	}

	content, err := backoff.RetryNotifyWithData(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx),
		notify,
	)
	if err != nil {
		return "", err
	}

	c.logger.DebugContext(ctx, "Completion succeeded", "attempts", attempt, "length", len(content))

	return content, nil
}

// attemptTimeout bounds one attempt so that a hung attempt leaves room in the caller's deadline
// for the remaining ones.
func (c *OpenAI) attemptTimeout(ctx context.Context, remaining uint64) time.Duration {
	timeout := c.config.Timeout

	deadline, ok := ctx.Deadline()
	if !ok || remaining == 0 {
		return timeout
	}

	if share := time.Until(deadline) / time.Duration(remaining); share < timeout {
		return max(share, minAttemptTimeout)
	}

	return timeout
}

func (c *OpenAI) send(ctx context.Context, key string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &transportError{err: err}
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("Failed to close response body", "error", err)
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &transportError{err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(payload)}
	}

	var decoded chatResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(decoded.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return decoded.Choices[0].Message.Content, nil
}

// HealthCheck verifies the endpoint accepts the configured credential.
func (c *OpenAI) HealthCheck(ctx context.Context) error {
	key, err := c.credentials.APIKey(ctx)
	if err != nil {
		return err
	}

	if key == "" {
		return ErrMissingCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/models", nil)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode}
	}

	return nil
}

// ErrorKind names the failure class for logs and API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case IsTransient(err):
		return "transient"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "failed"
	}
}
