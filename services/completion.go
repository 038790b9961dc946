package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FailureKind classifies a completion failure. Callers pick user-facing
// behavior from the kind, never from the raw error text.
type FailureKind string

const (
	FailureQuotaExceeded     FailureKind = "quota_exceeded"
	FailureInvalidCredential FailureKind = "invalid_credential"
	FailureRateLimited       FailureKind = "rate_limited"
	FailureTimeout           FailureKind = "timeout"
	FailureOther             FailureKind = "other"
)

// CompletionError is the typed failure surfaced by ResilientClient.
type CompletionError struct {
	Kind    FailureKind
	Message string
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion failed (%s): %s", e.Kind, e.Message)
}

// ClassifyFailure maps a transport error onto a FailureKind by
// case-insensitive substring matching, quota first since provider quota
// messages often also mention limits.
func ClassifyFailure(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "exceeded"):
		return FailureQuotaExceeded
	case strings.Contains(msg, "invalid") &&
		(strings.Contains(msg, "key") || strings.Contains(msg, "token") || strings.Contains(msg, "api")):
		return FailureInvalidCredential
	case strings.Contains(msg, "rate") && strings.Contains(msg, "limit"):
		return FailureRateLimited
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "deadline"):
		return FailureTimeout
	default:
		return FailureOther
	}
}

func retryable(kind FailureKind) bool {
	switch kind {
	case FailureQuotaExceeded, FailureInvalidCredential:
		return false
	}
	return true
}

// CompletionOptions bounds a single resilient completion call.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// ResilientClient wraps a CompletionTransport with a bounded retry loop and
// exponential backoff. Retry attempt n waits backoff * 2^n before the next
// call. Quota and credential failures are surfaced immediately since
// retrying cannot change the outcome.
type ResilientClient struct {
	transport CompletionTransport
	model     string
	attempts  int
	backoff   time.Duration
	sleep     func(time.Duration)
	logger    *zap.Logger
}

func NewResilientClient(transport CompletionTransport, model string, attempts int, backoff time.Duration, logger *zap.Logger) *ResilientClient {
	if attempts <= 0 {
		attempts = 3
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &ResilientClient{
		transport: transport,
		model:     model,
		attempts:  attempts,
		backoff:   backoff,
		sleep:     time.Sleep,
		logger:    logger,
	}
}

// Complete sends the prompt and returns the first completion, trimmed of
// surrounding whitespace.
func (c *ResilientClient) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &CompletionError{Kind: FailureOther, Message: "prompt must not be empty"}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 256
	}

	req := CompletionRequest{
		Model:       c.model,
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	var lastErr *CompletionError
	for attempt := 0; attempt < c.attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		text, err := c.transport.Complete(callCtx, req)
		cancel()
		if err == nil {
			return strings.TrimSpace(text), nil
		}

		kind := ClassifyFailure(err)
		lastErr = &CompletionError{Kind: kind, Message: err.Error()}
		if !retryable(kind) {
			c.logger.Warn("completion failed, not retrying",
				zap.String("provider", c.transport.Name()),
				zap.String("kind", string(kind)),
				zap.Error(err))
			return "", lastErr
		}
		if attempt < c.attempts-1 {
			wait := c.backoff * time.Duration(1<<attempt)
			c.logger.Warn("completion failed, retrying",
				zap.String("provider", c.transport.Name()),
				zap.String("kind", string(kind)),
				zap.Int("attempt", attempt+1),
				zap.Int("maxAttempts", c.attempts),
				zap.Duration("backoff", wait),
				zap.Error(err))
			c.sleep(wait)
		}
	}

	c.logger.Error("completion failed after all attempts",
		zap.String("provider", c.transport.Name()),
		zap.String("kind", string(lastErr.Kind)),
		zap.Int("attempts", c.attempts))
	return "", lastErr
}
