package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient is the fallback provider, backed by Google's generative API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a client. Returns (nil, nil) when no API key is set.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Name identifies the provider in logs.
func (c *GeminiClient) Name() string {
	return "gemini:" + c.model
}

// Close releases the underlying gRPC connection.
func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Complete runs one generation. Gemini is the last provider in the chain, so
// every failure is reported as transient.
func (c *GeminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	temp := float32(draftTemperature)
	model.Temperature = &temp
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty Gemini response", ErrUnavailable)
	}

	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}
