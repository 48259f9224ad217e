package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

const anthropicBaseURL = "https://api.anthropic.com/v1"

// AnthropicCaller talks to the Anthropic messages API, which differs from
// the OpenAI shape: the system prompt is a top-level field and responses
// carry a content block list.
type AnthropicCaller struct {
	apiKey      string
	model       string
	temperature float64
	baseURL     string
	httpClient  *http.Client
}

// NewAnthropicCaller creates an Anthropic backend.
func NewAnthropicCaller(apiKey, model string, temperature float64) *AnthropicCaller {
	return &AnthropicCaller{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		baseURL:     anthropicBaseURL,
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// Name returns the backend identifier.
func (c *AnthropicCaller) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Invoke sends one system/user prompt pair and returns the raw model text.
func (c *AnthropicCaller) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := anthropicRequest{
		Model:       c.model,
		MaxTokens:   8192,
		Temperature: c.temperature,
		System:      systemPrompt,
		Messages:    []chatMessage{{Role: "user", Content: userPrompt}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", core.ErrNetwork(core.CodeBackendStatus, "anthropic request failed").WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", core.ErrNetwork(core.CodeBackendStatus,
			fmt.Sprintf("anthropic returned HTTP %d: %s", resp.StatusCode, truncateBody(raw)))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding anthropic response: %w", err)
	}
	if parsed.Error != nil {
		return "", core.ErrNetwork(core.CodeBackendStatus,
			fmt.Sprintf("anthropic error: %s", parsed.Error.Message))
	}

	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", core.ErrNetwork(core.CodeEmptyResponse, "anthropic returned no text content")
}
