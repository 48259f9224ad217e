package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
	"github.com/sethjchalmers/code-whisperers/internal/logging"
)

const (
	contextFileLimit     = 2000 // bytes per repo context file in the prompt
	extraContextFileCap  = 5    // non-priority context files shown
	defaultMaxFileBytes  = 500 * 1024
	truncationMarker     = "\n\n... [FILE TRUNCATED] ..."
	contextTruncationTag = "\n... [TRUNCATED]"
)

// AgentRunner executes one expert agent against a file set. It owns the
// full per-agent sequence: filter, prompt, invoke, parse, summarize. No
// error escapes Run; failures surface on the returned AgentResult.
type AgentRunner struct {
	descriptor   core.AgentDescriptor
	caller       core.LLMCaller
	parser       *ResponseParser
	maxFileBytes int
	log          *logging.Logger
}

// RunnerOptions configures an AgentRunner.
type RunnerOptions struct {
	Descriptor    core.AgentDescriptor
	Caller        core.LLMCaller
	Parser        *ResponseParser
	MaxFileSizeKB int
	Logger        *logging.Logger
}

// NewAgentRunner builds a runner for one descriptor.
func NewAgentRunner(opts RunnerOptions) *AgentRunner {
	if opts.Parser == nil {
		opts.Parser = NewResponseParser(opts.Logger)
	}
	if opts.MaxFileSizeKB <= 0 {
		opts.MaxFileSizeKB = defaultMaxFileBytes / 1024
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &AgentRunner{
		descriptor:   opts.Descriptor,
		caller:       opts.Caller,
		parser:       opts.Parser,
		maxFileBytes: opts.MaxFileSizeKB * 1024,
		log:          opts.Logger.WithAgent(opts.Descriptor.Name),
	}
}

// Name returns the agent name.
func (r *AgentRunner) Name() string { return r.descriptor.Name }

// Descriptor returns the agent's configuration.
func (r *AgentRunner) Descriptor() core.AgentDescriptor { return r.descriptor }

// Run reviews the given files. When no file matches the agent's patterns it
// returns immediately without touching the backend.
func (r *AgentRunner) Run(ctx context.Context, files map[string]string, rctx *core.ReviewContext) core.AgentResult {
	relevant := r.descriptor.FilterFiles(files)
	if len(relevant) == 0 {
		return core.AgentResult{
			AgentName:            r.descriptor.Name,
			Timestamp:            time.Now(),
			FilesReviewed:        []string{},
			Findings:             []core.Finding{},
			Summary:              fmt.Sprintf("No files matching patterns %v found.", r.descriptor.FilePatterns),
			ExecutionTimeSeconds: 0,
		}
	}

	start := time.Now()
	reviewed := sortedKeys(relevant)

	if r.descriptor.ExtraContext != nil {
		if extra := r.descriptor.ExtraContext(relevant); len(extra) > 0 {
			rctx = mergeExtra(rctx, extra)
		}
	}

	prompt := r.buildPrompt(relevant, rctx)
	r.log.Debug("invoking backend", "files", len(relevant), "prompt_bytes", len(prompt))

	raw, err := r.caller.Invoke(ctx, r.descriptor.SystemPrompt, prompt)
	if err != nil {
		r.log.Warn("agent execution failed", "error", err)
		return core.AgentResult{
			AgentName:            r.descriptor.Name,
			Timestamp:            time.Now(),
			FilesReviewed:        reviewed,
			Findings:             []core.Finding{},
			ExecutionTimeSeconds: time.Since(start).Seconds(),
			Error:                err.Error(),
		}
	}

	findings, summary := r.parser.Parse(raw)
	if summary == "" {
		summary = GenerateSummary(findings)
	}

	return core.AgentResult{
		AgentName:            r.descriptor.Name,
		Timestamp:            time.Now(),
		FilesReviewed:        reviewed,
		Findings:             findings,
		Summary:              summary,
		RawResponse:          raw,
		ExecutionTimeSeconds: time.Since(start).Seconds(),
	}
}

// mergeExtra copies the review context so hook output never leaks between
// agents sharing the same context value.
func mergeExtra(rctx *core.ReviewContext, extra map[string]string) *core.ReviewContext {
	var merged core.ReviewContext
	if rctx != nil {
		merged = *rctx.Clone()
	}
	if merged.Extra == nil {
		merged.Extra = make(map[string]string, len(extra))
	}
	for k, v := range extra {
		merged.Extra[k] = v
	}
	return &merged
}

func (r *AgentRunner) buildPrompt(files map[string]string, rctx *core.ReviewContext) string {
	var b strings.Builder
	b.WriteString("# Code Review Request\n")

	if rctx != nil && len(rctx.RepoContextFiles) > 0 {
		r.writeRepoContext(&b, rctx.RepoContextFiles)
	}

	if rctx != nil {
		if rctx.GitDiff != "" {
			b.WriteString("## Git Diff (Changes)\n```diff\n")
			b.WriteString(rctx.GitDiff)
			b.WriteString("\n```\n\n")
		}
		if rctx.CommitMessage != "" {
			fmt.Fprintf(&b, "## Commit Message\n%s\n\n", rctx.CommitMessage)
		}
		if len(rctx.Extra) > 0 {
			b.WriteString("## Additional Context\n\n")
			for _, key := range sortedKeys(rctx.Extra) {
				fmt.Fprintf(&b, "### %s\n```\n%s\n```\n\n", key, rctx.Extra[key])
			}
		}
	}

	b.WriteString("## Files to Review\n\n")
	for _, path := range sortedKeys(files) {
		content := files[path]
		if len(content) > r.maxFileBytes {
			content = content[:r.maxFileBytes] + truncationMarker
		}
		fmt.Fprintf(&b, "### %s\n```\n%s\n```\n\n", path, content)
	}

	b.WriteString(reviewInstructions)
	return b.String()
}

// writeRepoContext embeds repository setup files, priority ones first and
// in full, then a small capped remainder truncated per file.
func (r *AgentRunner) writeRepoContext(b *strings.Builder, contextFiles map[string]string) {
	b.WriteString("## Repository Context\n")
	b.WriteString("The following files provide context about the repository setup:\n\n")

	shown := make(map[string]bool)
	for _, priority := range core.PriorityRepoContextFiles() {
		for _, path := range sortedKeys(contextFiles) {
			if path == priority || strings.HasSuffix(path, "/"+priority) {
				fmt.Fprintf(b, "### %s\n```\n%s\n```\n\n", path, contextFiles[path])
				shown[path] = true
			}
		}
	}

	remaining := 0
	for _, path := range sortedKeys(contextFiles) {
		if shown[path] {
			continue
		}
		if remaining >= extraContextFileCap {
			break
		}
		content := contextFiles[path]
		if len(content) > contextFileLimit {
			content = content[:contextFileLimit] + contextTruncationTag
		}
		fmt.Fprintf(b, "### %s\n```\n%s\n```\n\n", path, content)
		remaining++
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const reviewInstructions = `
## Review Instructions
Please review the code above and provide your analysis.
Return your response as valid JSON with the following structure:
{
    "findings": [
        {
            "category": "string (one of: best_practice, security, cost, performance, quality, hallucination, testing, compliance)",
            "severity": "string (one of: critical, high, medium, low, info)",
            "title": "string",
            "description": "string",
            "file_path": "string or null",
            "line_number": "number or null",
            "suggested_fix": "string or null",
            "code_snippet": "string or null"
        }
    ],
    "summary": "string"
}
`
