package core

// ContextHook lets a descriptor inject extra context before the prompt is
// built. It receives the files the agent will review and returns additional
// context entries (e.g. a Python expert listing the imports it spotted).
type ContextHook func(files map[string]string) map[string]string

// FileFilterHook lets a descriptor veto individual files after pattern
// matching (e.g. a clean-code expert skipping binary artifacts). Returning
// false drops the file from the agent's view.
type FileFilterHook func(path string, content string) bool

// AgentDescriptor is the static configuration of one expert agent.
// Descriptors are built once at startup and never mutated afterwards;
// behavioral variation lives in the optional hooks, not in subtypes.
type AgentDescriptor struct {
	Name         string
	Description  string
	SystemPrompt string
	FilePatterns []string
	Priority     int // lower runs first in sequential mode
	Enabled      bool

	// Optional per-agent overrides of the configured defaults.
	ModelOverride       string
	TemperatureOverride *float64

	ExtraContext ContextHook    `json:"-" yaml:"-"`
	FileFilter   FileFilterHook `json:"-" yaml:"-"`
}

// MatchesFile reports whether this agent should review the given path.
func (d *AgentDescriptor) MatchesFile(path string) bool {
	return MatchesAny(path, d.FilePatterns)
}

// FilterFiles returns the subset of files relevant to this agent,
// applying both the pattern set and the optional file filter hook.
func (d *AgentDescriptor) FilterFiles(files map[string]string) map[string]string {
	relevant := make(map[string]string)
	for path, content := range files {
		if !d.MatchesFile(path) {
			continue
		}
		if d.FileFilter != nil && !d.FileFilter(path, content) {
			continue
		}
		relevant[path] = content
	}
	return relevant
}
