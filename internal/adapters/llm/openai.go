// Package llm provides LLMCaller backends for the supported providers.
//
// Selection is a pure mapping from configuration to a backend (see New);
// downstream orchestration only ever sees the core.LLMCaller capability.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

const defaultHTTPTimeout = 5 * time.Minute

// OpenAICaller talks to any OpenAI-compatible chat-completions endpoint.
// Besides OpenAI itself this covers Azure, Grok, the Copilot bridge,
// GitHub Models and Ollama, which all speak the same wire shape.
type OpenAICaller struct {
	name        string
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// OpenAIOptions configures an OpenAI-compatible backend.
type OpenAIOptions struct {
	Name        string // backend identifier reported by Name()
	BaseURL     string // endpoint root, without the /chat/completions suffix
	APIKey      string // empty for local endpoints
	Model       string
	Temperature float64
}

// NewOpenAICaller creates a caller for an OpenAI-compatible endpoint.
func NewOpenAICaller(opts OpenAIOptions) *OpenAICaller {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}
	return &OpenAICaller{
		name:        opts.Name,
		baseURL:     baseURL,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// Name returns the backend identifier.
func (c *OpenAICaller) Name() string { return c.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Invoke sends one system/user prompt pair and returns the raw model text.
func (c *OpenAICaller) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", core.ErrNetwork(core.CodeBackendStatus,
			fmt.Sprintf("%s request failed", c.name)).WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", core.ErrNetwork(core.CodeBackendStatus,
			fmt.Sprintf("%s returned HTTP %d: %s", c.name, resp.StatusCode, truncateBody(raw)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", c.name, err)
	}
	if parsed.Error != nil {
		return "", core.ErrNetwork(core.CodeBackendStatus,
			fmt.Sprintf("%s error: %s", c.name, parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return "", core.ErrNetwork(core.CodeEmptyResponse,
			fmt.Sprintf("%s returned no choices", c.name))
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncateBody(b []byte) string {
	const maxErrBody = 512
	s := string(b)
	if len(s) > maxErrBody {
		return s[:maxErrBody] + "..."
	}
	return s
}
