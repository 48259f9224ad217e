package config

import "github.com/spf13/viper"

// DefaultConfigYAML is written by `whisper init` as a starting point.
const DefaultConfigYAML = `# code-whisperers configuration
# Values not specified here use sensible defaults.

log:
  level: info
  format: auto

llm:
  # Providers: openai, anthropic, azure, grok, copilot, ollama, gemini, github-models
  provider: github-models
  model: gpt-4o
  temperature: 0.1

git:
  repo_path: .
  base_branch: main

review:
  parallel: true
  max_file_size_kb: 500
  lite_prompts: false

report:
  format: markdown
  save_reports: true
  dir: .whisper/reports
`

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")

	v.SetDefault("llm.provider", "github-models")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.xai_endpoint", "https://api.x.ai/v1")
	v.SetDefault("llm.copilot_endpoint", "http://localhost:11435")
	v.SetDefault("llm.ollama_endpoint", "http://localhost:11434")

	v.SetDefault("git.repo_path", ".")
	v.SetDefault("git.base_branch", "main")

	v.SetDefault("review.parallel", true)
	v.SetDefault("review.max_file_size_kb", 500)
	v.SetDefault("review.lite_prompts", false)

	v.SetDefault("report.format", "markdown")
	v.SetDefault("report.save_reports", true)
	v.SetDefault("report.dir", ".whisper/reports")
	v.SetDefault("report.history_path", ".whisper/history.db")
}
