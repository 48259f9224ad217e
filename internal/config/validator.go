package config

import (
	"fmt"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// KnownProviders lists every supported backend discriminator.
var KnownProviders = []string{
	"openai", "anthropic", "azure", "grok", "copilot", "ollama", "gemini", "github-models",
}

// Validate fails fast on configuration the pipeline cannot run with:
// an unknown provider name or missing credentials for the selected one.
// This is the only error class allowed to abort a run before any file is
// processed, since no partial result would be meaningful.
func Validate(cfg *Config) error {
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.OpenAIAPIKey == "" {
			return core.ErrAuth(core.CodeMissingCredentials,
				"WHISPER_LLM_OPENAI_API_KEY is required when using the openai provider")
		}
	case "anthropic":
		if cfg.LLM.AnthropicAPIKey == "" {
			return core.ErrAuth(core.CodeMissingCredentials,
				"WHISPER_LLM_ANTHROPIC_API_KEY is required when using the anthropic provider")
		}
	case "azure":
		if cfg.LLM.AzureAPIKey == "" {
			return core.ErrAuth(core.CodeMissingCredentials,
				"WHISPER_LLM_AZURE_API_KEY is required when using the azure provider")
		}
		if cfg.LLM.AzureEndpoint == "" {
			return core.ErrAuth(core.CodeMissingCredentials,
				"WHISPER_LLM_AZURE_ENDPOINT is required when using the azure provider")
		}
	case "grok":
		if cfg.LLM.XAIAPIKey == "" {
			return core.ErrAuth(core.CodeMissingCredentials,
				"WHISPER_LLM_XAI_API_KEY is required when using the grok provider")
		}
	case "gemini":
		if cfg.LLM.GeminiAPIKey == "" {
			return core.ErrAuth(core.CodeMissingCredentials,
				"WHISPER_LLM_GEMINI_API_KEY is required when using the gemini provider")
		}
	case "github-models":
		if cfg.LLM.GitHubToken == "" {
			return core.ErrAuth(core.CodeMissingCredentials,
				"WHISPER_LLM_GITHUB_TOKEN is required when using the github-models provider")
		}
	case "copilot", "ollama":
		// Local endpoints, no credentials required.
	default:
		return core.ErrValidation(core.CodeUnknownProvider,
			fmt.Sprintf("unknown LLM provider %q (supported: %v)", cfg.LLM.Provider, KnownProviders))
	}

	if cfg.Review.MaxFileSizeKB <= 0 {
		return core.ErrValidation("MAX_FILE_SIZE", "review.max_file_size_kb must be positive")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return core.ErrValidation("TEMPERATURE", "llm.temperature must be between 0 and 2")
	}

	return nil
}

// SequentialOnly reports whether the configured backend cannot serve
// concurrent requests, forcing the scheduler into sequential mode.
func SequentialOnly(cfg *Config) bool {
	return cfg.LLM.Provider == "ollama"
}
