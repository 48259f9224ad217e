package core

import "context"

// =============================================================================
// LLM Port
// =============================================================================

// LLMCaller is the single capability every backend must provide: given a
// system prompt and user content, return the raw model text. Calls may block
// arbitrarily long; failures surface as ordinary errors and are absorbed at
// the agent-runner boundary.
type LLMCaller interface {
	// Name returns the backend identifier (e.g. "openai", "ollama").
	Name() string

	// Invoke sends one prompt pair and returns the raw response text.
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// =============================================================================
// Source Port
// =============================================================================

// ReviewContext carries contextual metadata alongside the files under review.
// All fields are optional; agents embed whatever is present into the prompt.
type ReviewContext struct {
	GitDiff          string
	CommitMessage    string
	RepoContextFiles map[string]string
	Extra            map[string]string // hook-injected entries, keyed by section title
}

// Clone returns a deep copy so per-agent hooks can extend the context
// without mutating the shared input.
func (c *ReviewContext) Clone() *ReviewContext {
	if c == nil {
		return &ReviewContext{}
	}
	out := &ReviewContext{
		GitDiff:       c.GitDiff,
		CommitMessage: c.CommitMessage,
	}
	if c.RepoContextFiles != nil {
		out.RepoContextFiles = make(map[string]string, len(c.RepoContextFiles))
		for k, v := range c.RepoContextFiles {
			out.RepoContextFiles[k] = v
		}
	}
	if c.Extra != nil {
		out.Extra = make(map[string]string, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// PriorityRepoContextFiles is the fixed order in which repository context
// files are embedded into prompts. Collectors also use it as the lookup
// list for which files to gather.
func PriorityRepoContextFiles() []string {
	return []string{
		".gitignore",
		"pyproject.toml",
		"requirements.txt",
		"go.mod",
		"package.json",
		".pre-commit-config.yaml",
		".env.example",
		"Makefile",
		"Dockerfile",
		"README.md",
	}
}

// SourceCollector hands the orchestrator the files to review plus context.
// Implementations own all version-control plumbing; the core never reaches
// into git directly.
type SourceCollector interface {
	// Collect returns path -> full content for the files under review.
	Collect(ctx context.Context) (map[string]string, error)

	// Context returns diff, commit message and repo context metadata.
	Context(ctx context.Context) (*ReviewContext, error)
}

// =============================================================================
// Report Port
// =============================================================================

// ReportFormat selects how a report sink renders the result.
type ReportFormat string

const (
	ReportFormatStructured ReportFormat = "json"
	ReportFormatPlainText  ReportFormat = "text"
	ReportFormatMarkdown   ReportFormat = "markdown"
)

// ReportSink accepts the final review result. Pure side effect; nothing
// flows back into the pipeline.
type ReportSink interface {
	Write(result *ReviewResult, format ReportFormat) (string, error)
}
