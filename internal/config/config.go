package config

// Config holds all application configuration. It is constructed once at
// process start and passed by reference into every component that needs it;
// core logic never does ambient lookups.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Git    GitConfig    `mapstructure:"git"`
	Review ReviewConfig `mapstructure:"review"`
	Report ReportConfig `mapstructure:"report"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig configures the model backend shared by all agents.
// Provider is the backend discriminator: openai, anthropic, azure, grok,
// copilot, ollama, gemini or github-models.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`

	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	GitHubToken     string `mapstructure:"github_token"`

	AzureAPIKey   string `mapstructure:"azure_api_key"`
	AzureEndpoint string `mapstructure:"azure_endpoint"`

	XAIAPIKey   string `mapstructure:"xai_api_key"`
	XAIEndpoint string `mapstructure:"xai_endpoint"`

	CopilotEndpoint string `mapstructure:"copilot_endpoint"`
	OllamaEndpoint  string `mapstructure:"ollama_endpoint"`
}

// GitConfig configures source collection.
type GitConfig struct {
	RepoPath   string `mapstructure:"repo_path"`
	BaseBranch string `mapstructure:"base_branch"`
}

// ReviewConfig configures the review pipeline.
type ReviewConfig struct {
	Parallel      bool `mapstructure:"parallel"`
	MaxFileSizeKB int  `mapstructure:"max_file_size_kb"`
	LitePrompts   bool `mapstructure:"lite_prompts"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	Format      string `mapstructure:"format"`
	SaveReports bool   `mapstructure:"save_reports"`
	Dir         string `mapstructure:"dir"`
	HistoryPath string `mapstructure:"history_path"`
}
