package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// GeminiCaller talks to the Gemini API through the official genai SDK.
type GeminiCaller struct {
	client      *genai.Client
	model       string
	temperature float64
}

// NewGeminiCaller creates a Gemini backend.
func NewGeminiCaller(ctx context.Context, apiKey, model string, temperature float64) (*GeminiCaller, error) {
	if apiKey == "" {
		return nil, core.ErrAuth(core.CodeMissingCredentials, "gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiCaller{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

// Name returns the backend identifier.
func (c *GeminiCaller) Name() string { return "gemini" }

// Invoke sends one system/user prompt pair and returns the raw model text.
func (c *GeminiCaller) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	temp := float32(c.temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:       &temp,
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", core.ErrNetwork(core.CodeBackendStatus, "gemini request failed").WithCause(err)
	}

	text := result.Text()
	if text == "" {
		return "", core.ErrNetwork(core.CodeEmptyResponse, "gemini returned no text content")
	}
	return text, nil
}
