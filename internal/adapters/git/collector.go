// Package git implements the SourceCollector port on top of the git CLI.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
	"github.com/sethjchalmers/code-whisperers/internal/logging"
)

const maxContextFileBytes = 4096

// Mode selects which files a Collector gathers.
type Mode int

const (
	// ModeChanged collects files changed against the base branch, plus
	// staged, unstaged and untracked files.
	ModeChanged Mode = iota

	// ModePaths collects an explicit list of paths.
	ModePaths

	// ModeCodebase collects tracked files matching the default review
	// patterns, capped to a file count.
	ModeCodebase
)

// Collector gathers files and review context from a git repository.
type Collector struct {
	repoPath    string
	baseRef     string
	headRef     string
	mode        Mode
	paths       []string
	maxFileSize int
	maxFiles    int
	cmdTimeout  time.Duration
	log         *logging.Logger
}

// Options configures a Collector.
type Options struct {
	RepoPath      string
	BaseRef       string // defaults to "main"
	HeadRef       string // defaults to "HEAD"
	Mode          Mode
	Paths         []string // used with ModePaths
	MaxFileSizeKB int
	MaxFiles      int // used with ModeCodebase, defaults to 100
	Logger        *logging.Logger
}

// NewCollector creates a collector rooted at the given repository.
func NewCollector(opts Options) (*Collector, error) {
	absPath, err := filepath.Abs(opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("resolving repo path: %w", err)
	}
	if opts.BaseRef == "" {
		opts.BaseRef = "main"
	}
	if opts.HeadRef == "" {
		opts.HeadRef = "HEAD"
	}
	if opts.MaxFileSizeKB <= 0 {
		opts.MaxFileSizeKB = 500
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 100
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	c := &Collector{
		repoPath:    absPath,
		baseRef:     opts.BaseRef,
		headRef:     opts.HeadRef,
		mode:        opts.Mode,
		paths:       opts.Paths,
		maxFileSize: opts.MaxFileSizeKB * 1024,
		maxFiles:    opts.MaxFiles,
		cmdTimeout:  30 * time.Second,
		log:         opts.Logger,
	}

	if _, err := c.run(context.Background(), "rev-parse", "--git-dir"); err != nil {
		return nil, core.ErrValidation("NOT_GIT_REPO",
			fmt.Sprintf("%s is not a git repository", absPath))
	}

	return c, nil
}

// run executes a git command in the repository.
func (c *Collector) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cmdTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "),
			strings.TrimSpace(stderr.String()), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Collect returns path -> content for the files under review.
func (c *Collector) Collect(ctx context.Context) (map[string]string, error) {
	switch c.mode {
	case ModePaths:
		return c.collectPaths()
	case ModeCodebase:
		return c.collectCodebase(ctx)
	default:
		return c.collectChanged(ctx)
	}
}

// collectChanged gathers files changed against the base ref, plus staged,
// unstaged and untracked files. Deleted files are skipped.
func (c *Collector) collectChanged(ctx context.Context) (map[string]string, error) {
	seen := make(map[string]bool)
	var ordered []string

	add := func(output string) {
		for _, line := range strings.Split(output, "\n") {
			if line == "" {
				continue
			}
			parts := strings.Split(line, "\t")
			if len(parts) < 2 {
				continue
			}
			status := parts[0]
			path := parts[len(parts)-1]
			if strings.HasPrefix(status, "D") {
				continue
			}
			if !seen[path] {
				seen[path] = true
				ordered = append(ordered, path)
			}
		}
	}

	if out, err := c.run(ctx, "diff", "--name-status", "--diff-filter=ACDMRT",
		c.baseRef+"..."+c.headRef); err == nil {
		add(out)
	}
	if out, err := c.run(ctx, "diff", "--name-status", "--cached"); err == nil {
		add(out)
	}
	if out, err := c.run(ctx, "diff", "--name-status"); err == nil {
		add(out)
	}
	if out, err := c.run(ctx, "ls-files", "--others", "--exclude-standard"); err == nil {
		for _, path := range strings.Split(out, "\n") {
			if path != "" && !seen[path] {
				seen[path] = true
				ordered = append(ordered, path)
			}
		}
	}

	files := make(map[string]string)
	for _, path := range ordered {
		content, ok := c.readFile(path)
		if ok {
			files[path] = content
		}
	}
	return files, nil
}

// collectPaths gathers an explicit list of files. Missing or oversized
// files are skipped with a warning rather than failing the run.
func (c *Collector) collectPaths() (map[string]string, error) {
	files := make(map[string]string)
	for _, path := range c.paths {
		content, ok := c.readFile(path)
		if !ok {
			continue
		}
		files[path] = content
	}
	return files, nil
}

// collectCodebase gathers tracked files matching the default review
// patterns, capped to maxFiles.
func (c *Collector) collectCodebase(ctx context.Context) (map[string]string, error) {
	patterns := []string{"*.py", "*.go", "*.tf", "*.yaml", "*.yml", "*.json", "Jenkinsfile*"}
	excludes := []string{"*test*", "*.lock", "node_modules/*", ".git/*", "vendor/*", ".terraform/*"}

	out, err := c.run(ctx, "ls-files")
	if err != nil {
		return nil, fmt.Errorf("listing tracked files: %w", err)
	}

	files := make(map[string]string)
	for _, path := range strings.Split(out, "\n") {
		if len(files) >= c.maxFiles {
			break
		}
		if path == "" || !core.MatchesAny(path, patterns) || core.MatchesAny(path, excludes) {
			continue
		}
		if content, ok := c.readFile(path); ok {
			files[path] = content
		}
	}
	return files, nil
}

func (c *Collector) readFile(path string) (string, bool) {
	full := filepath.Join(c.repoPath, path)
	data, err := os.ReadFile(full)
	if err != nil {
		c.log.Warn("skipping unreadable file", "path", path, "error", err)
		return "", false
	}
	if len(data) > c.maxFileSize {
		c.log.Warn("skipping oversized file", "path", path, "size", len(data))
		return "", false
	}
	return string(data), true
}

// Context returns the diff, commit message and repo context files.
func (c *Collector) Context(ctx context.Context) (*core.ReviewContext, error) {
	rc := &core.ReviewContext{}

	if diff, err := c.run(ctx, "diff", c.baseRef+"..."+c.headRef); err == nil {
		rc.GitDiff = diff
	} else if diff, err := c.run(ctx, "diff"); err == nil {
		rc.GitDiff = diff
	}

	if msg, err := c.run(ctx, "log", "-1", "--format=%B", c.headRef); err == nil {
		rc.CommitMessage = msg
	}

	contextFiles := make(map[string]string)
	for _, name := range core.PriorityRepoContextFiles() {
		data, err := os.ReadFile(filepath.Join(c.repoPath, name))
		if err != nil {
			continue
		}
		if len(data) > maxContextFileBytes {
			data = data[:maxContextFileBytes]
		}
		contextFiles[name] = string(data)
	}
	if len(contextFiles) > 0 {
		rc.RepoContextFiles = contextFiles
	}

	return rc, nil
}
