package llm

import (
	"context"
	"fmt"

	"github.com/sethjchalmers/code-whisperers/internal/config"
	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// New maps the configured provider to a backend. Descriptor-level model and
// temperature overrides are applied here so each agent can get its own
// caller while sharing credentials and endpoints.
//
// Unknown providers are a configuration error and fail fast; config.Validate
// catches them at startup, so hitting this at review time means the config
// was mutated after validation.
func New(ctx context.Context, cfg *config.Config, modelOverride string, tempOverride *float64) (core.LLMCaller, error) {
	model := cfg.LLM.Model
	if modelOverride != "" {
		model = modelOverride
	}
	temperature := cfg.LLM.Temperature
	if tempOverride != nil {
		temperature = *tempOverride
	}

	switch cfg.LLM.Provider {
	case "openai":
		return NewOpenAICaller(OpenAIOptions{
			Name:        "openai",
			BaseURL:     "https://api.openai.com",
			APIKey:      cfg.LLM.OpenAIAPIKey,
			Model:       model,
			Temperature: temperature,
		}), nil

	case "azure":
		return NewOpenAICaller(OpenAIOptions{
			Name:        "azure",
			BaseURL:     cfg.LLM.AzureEndpoint,
			APIKey:      cfg.LLM.AzureAPIKey,
			Model:       model,
			Temperature: temperature,
		}), nil

	case "grok":
		return NewOpenAICaller(OpenAIOptions{
			Name:        "grok",
			BaseURL:     cfg.LLM.XAIEndpoint,
			APIKey:      cfg.LLM.XAIAPIKey,
			Model:       model,
			Temperature: temperature,
		}), nil

	case "github-models":
		return NewOpenAICaller(OpenAIOptions{
			Name:        "github-models",
			BaseURL:     "https://models.inference.ai.azure.com",
			APIKey:      cfg.LLM.GitHubToken,
			Model:       model,
			Temperature: temperature,
		}), nil

	case "copilot":
		// Auth is handled by the local bridge; the key is a placeholder.
		return NewOpenAICaller(OpenAIOptions{
			Name:        "copilot",
			BaseURL:     cfg.LLM.CopilotEndpoint,
			APIKey:      "copilot",
			Model:       model,
			Temperature: temperature,
		}), nil

	case "ollama":
		return NewOpenAICaller(OpenAIOptions{
			Name:        "ollama",
			BaseURL:     cfg.LLM.OllamaEndpoint,
			Model:       model,
			Temperature: temperature,
		}), nil

	case "anthropic":
		return NewAnthropicCaller(cfg.LLM.AnthropicAPIKey, model, temperature), nil

	case "gemini":
		return NewGeminiCaller(ctx, cfg.LLM.GeminiAPIKey, model, temperature)

	default:
		return nil, core.ErrValidation(core.CodeUnknownProvider,
			fmt.Sprintf("unknown LLM provider %q", cfg.LLM.Provider))
	}
}
