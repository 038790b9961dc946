package services

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// GeminiTransport adapts the Gemini API to the CompletionTransport seam.
type GeminiTransport struct {
	client *genai.Client
}

func NewGeminiTransport(ctx context.Context, apiKey string) (*GeminiTransport, error) {
	config := &genai.ClientConfig{}
	if apiKey != "" {
		config.APIKey = apiKey
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, err
	}
	return &GeminiTransport{client: client}, nil
}

func (t *GeminiTransport) Name() string { return "gemini" }

func (t *GeminiTransport) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var sb strings.Builder
	for _, msg := range req.Messages {
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}

	config := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := t.client.Models.GenerateContent(ctx, req.Model, genai.Text(strings.TrimSpace(sb.String())), config)
	if err != nil {
		return "", err
	}
	return cleanModelOutput(resp.Text()), nil
}

func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
