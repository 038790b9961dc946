package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GroqTransport talks to the Groq OpenAI-compatible chat completions API.
type GroqTransport struct {
	apiKey     string
	baseUrl    string
	httpClient *http.Client
}

func NewGroqTransport(apiKey, baseUrl string) *GroqTransport {
	if baseUrl == "" {
		baseUrl = "https://api.groq.com/openai/v1"
	}
	return &GroqTransport{
		apiKey:     apiKey,
		baseUrl:    strings.TrimSuffix(baseUrl, "/"),
		httpClient: &http.Client{},
	}
}

func (t *GroqTransport) Name() string { return "groq" }

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (t *GroqTransport) Complete(ctx context.Context, creq CompletionRequest) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model:       creq.Model,
		Messages:    creq.Messages,
		Temperature: creq.Temperature,
		MaxTokens:   creq.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseUrl+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The error body text feeds failure classification upstream, so keep
		// the provider's message intact.
		var parsed chatCompletionResponse
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
			return "", fmt.Errorf("groq API error (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("groq API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("unexpected response format: no choices returned")
	}
	return parsed.Choices[0].Message.Content, nil
}
