package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethjchalmers/code-whisperers/internal/core"
	"github.com/sethjchalmers/code-whisperers/internal/logging"
)

const autofixSystemPrompt = `You are a code fixer. Your job is to fix issues identified in code reviews.

For each issue, you will receive:
1. The file path and content
2. The issue description and suggested fix
3. The line number (if available)

Return ONLY valid JSON with the fix. No markdown, no explanation outside JSON:

{
    "file_path": "path/to/file.py",
    "original_code": "the exact code to replace (copy verbatim from file)",
    "fixed_code": "the corrected code",
    "explanation": "brief explanation of the fix"
}

CRITICAL RULES:
- Copy the original_code EXACTLY as it appears in the file (whitespace matters!)
- Include the entire line or lines that need to be changed
- If the issue is on a specific line, include that COMPLETE line as original_code
- If you cannot fix the issue, return: {"file_path": "...", "skip": true, "reason": "why"}
- Only fix ONE issue at a time
- For security issues like hardcoded credentials, replace with environment variables or config
`

const autofixLitePrompt = `Fix code issues. Return ONLY JSON:
{"file_path": "file.py", "original_code": "exact COMPLETE line(s) to replace", "fixed_code": "fixed code", "explanation": "brief why"}
If can't fix: {"file_path": "file.py", "skip": true, "reason": "why"}

IMPORTANT: Copy the COMPLETE LINE from the file exactly as shown. Include the whole line, not just part of it.`

// FixResult records one attempted fix.
type FixResult struct {
	Finding      core.Finding `json:"finding"`
	Success      bool         `json:"success"`
	FilePath     string       `json:"file_path,omitempty"`
	OriginalCode string       `json:"original_code,omitempty"`
	FixedCode    string       `json:"fixed_code,omitempty"`
	Explanation  string       `json:"explanation,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// Fixer applies model-generated fixes for findings. Fixes run strictly one
// at a time: each fix is generated and applied against the latest content of
// its file so consecutive fixes to the same file never clobber each other.
type Fixer struct {
	caller   core.LLMCaller
	repoPath string // empty means in-memory only, nothing written to disk
	lite     bool
	log      *logging.Logger
}

// NewFixer creates a fixer. With repoPath set, applied fixes are written
// back to disk.
func NewFixer(caller core.LLMCaller, repoPath string, lite bool, log *logging.Logger) *Fixer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Fixer{caller: caller, repoPath: repoPath, lite: lite, log: log}
}

// Fix attempts to fix every finding in order. The files map is not mutated;
// updated contents accumulate in an internal copy between fixes.
func (f *Fixer) Fix(ctx context.Context, findings []core.Finding, files map[string]string) []FixResult {
	current := make(map[string]string, len(files))
	for k, v := range files {
		current[k] = v
	}

	results := make([]FixResult, 0, len(findings))
	for i := range findings {
		finding := findings[i]
		if finding.FilePath == "" {
			results = append(results, FixResult{
				Finding: finding,
				Error:   "no file path specified for finding",
			})
			continue
		}

		content, ok := current[finding.FilePath]
		if !ok && f.repoPath != "" {
			data, err := os.ReadFile(filepath.Join(f.repoPath, finding.FilePath))
			if err == nil {
				content = string(data)
				current[finding.FilePath] = content
				ok = true
			}
		}
		if !ok {
			results = append(results, FixResult{
				Finding:  finding,
				FilePath: finding.FilePath,
				Error:    fmt.Sprintf("could not read file: %s", finding.FilePath),
			})
			continue
		}

		result := f.generateFix(ctx, finding, content)
		if result.Success {
			newContent, applied := applyFix(content, result.OriginalCode, result.FixedCode, finding.LineNumber)
			if !applied {
				result.Success = false
				result.Error = "original code not found in file (may have already been modified)"
			} else {
				current[finding.FilePath] = newContent
				if err := f.writeBack(finding.FilePath, newContent); err != nil {
					result.Success = false
					result.Error = err.Error()
				}
			}
		}
		results = append(results, result)
	}
	return results
}

func (f *Fixer) writeBack(path, content string) error {
	if f.repoPath == "" {
		return nil
	}
	full := filepath.Join(f.repoPath, path)
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing fix to %s: %w", path, err)
	}
	f.log.Info("applied fix", "path", path)
	return nil
}

type fixPayload struct {
	FilePath     string `json:"file_path"`
	OriginalCode string `json:"original_code"`
	FixedCode    string `json:"fixed_code"`
	Explanation  string `json:"explanation"`
	Skip         bool   `json:"skip"`
	Reason       string `json:"reason"`
}

func (f *Fixer) generateFix(ctx context.Context, finding core.Finding, content string) FixResult {
	var b strings.Builder
	fmt.Fprintf(&b, "Fix this issue in the code:\n\n## File: %s\n```\n%s\n```\n\n", finding.FilePath, content)
	fmt.Fprintf(&b, "## Issue to Fix\n- **Title**: %s\n- **Severity**: %s\n- **Description**: %s\n",
		finding.Title, finding.Severity, finding.Description)
	if finding.LineNumber > 0 {
		fmt.Fprintf(&b, "- **Line Number**: %d\n", finding.LineNumber)
	}
	if finding.SuggestedFix != "" {
		fmt.Fprintf(&b, "- **Suggested Fix**: %s\n", finding.SuggestedFix)
	}
	if finding.CodeSnippet != "" {
		fmt.Fprintf(&b, "- **Problematic Code**:\n```\n%s\n```\n", finding.CodeSnippet)
	}
	b.WriteString("\nReturn the fix as JSON.")

	systemPrompt := autofixSystemPrompt
	if f.lite {
		systemPrompt = autofixLitePrompt
	}

	raw, err := f.caller.Invoke(ctx, systemPrompt, b.String())
	if err != nil {
		return FixResult{Finding: finding, FilePath: finding.FilePath, Error: err.Error()}
	}

	var payload fixPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return FixResult{
			Finding:  finding,
			FilePath: finding.FilePath,
			Error:    fmt.Sprintf("unparseable fix response: %v", err),
		}
	}
	if payload.Skip {
		return FixResult{
			Finding:  finding,
			FilePath: finding.FilePath,
			Error:    "skipped: " + payload.Reason,
		}
	}
	if payload.OriginalCode == "" || payload.FixedCode == "" {
		return FixResult{
			Finding:  finding,
			FilePath: finding.FilePath,
			Error:    "fix response missing original or fixed code",
		}
	}

	return FixResult{
		Finding:      finding,
		Success:      true,
		FilePath:     finding.FilePath,
		OriginalCode: payload.OriginalCode,
		FixedCode:    payload.FixedCode,
		Explanation:  payload.Explanation,
	}
}

// applyFix replaces original with fixed in content: exact match first, then
// whitespace-trimmed, then a line-anchored replacement when a line number is
// available. Only the first occurrence is replaced.
func applyFix(content, original, fixed string, lineNumber int) (string, bool) {
	if strings.Contains(content, original) {
		return strings.Replace(content, original, fixed, 1), true
	}

	trimmedOrig := strings.TrimSpace(original)
	if trimmedOrig != "" && strings.Contains(content, trimmedOrig) {
		return strings.Replace(content, trimmedOrig, strings.TrimSpace(fixed), 1), true
	}

	if lineNumber > 0 {
		lines := strings.Split(content, "\n")
		if lineNumber <= len(lines) {
			target := lines[lineNumber-1]
			origLines := strings.Split(trimmedOrig, "\n")
			fixedLines := strings.Split(strings.TrimSpace(fixed), "\n")
			for i, origLine := range origLines {
				ol := strings.TrimSpace(origLine)
				if ol == "" {
					continue
				}
				if strings.Contains(target, ol) || strings.Contains(ol, strings.TrimSpace(target)) {
					if i < len(fixedLines) {
						lines[lineNumber-1] = fixedLines[i]
					} else {
						lines[lineNumber-1] = ""
					}
					return strings.Join(lines, "\n"), true
				}
			}
		}
	}

	return content, false
}
