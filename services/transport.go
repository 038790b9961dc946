package services

import "context"

// ChatMessage is a single message in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest carries the per-call model parameters.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float32
	MaxTokens   int
}

// CompletionTransport is the provider seam: one implementation per external
// completion service, selected at startup. The retry and error-classification
// policy lives above this interface, never inside an implementation.
type CompletionTransport interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}
