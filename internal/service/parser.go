// Package service contains the review pipeline: prompt construction, agent
// execution, response parsing, consolidation, escalation and reporting.
package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sethjchalmers/code-whisperers/internal/core"
	"github.com/sethjchalmers/code-whisperers/internal/logging"
)

const rawFallbackLimit = 2000

// ResponseParser turns raw model output into findings. Model output is
// untrusted: it may be fenced in markdown, wrapped in prose, or partially
// malformed. The parser degrades per item and never fails an agent call.
type ResponseParser struct {
	log *logging.Logger
}

// NewResponseParser creates a parser. A nil logger is replaced with a no-op.
func NewResponseParser(log *logging.Logger) *ResponseParser {
	if log == nil {
		log = logging.NewNop()
	}
	return &ResponseParser{log: log}
}

type findingPayload struct {
	Category     string `json:"category"`
	Severity     string `json:"severity"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	FilePath     string `json:"file_path"`
	LineNumber   int    `json:"line_number"`
	SuggestedFix string `json:"suggested_fix"`
	CodeSnippet  string `json:"code_snippet"`
}

type responsePayload struct {
	Findings []json.RawMessage `json:"findings"`
	Summary  string            `json:"summary"`
}

// Parse extracts findings and a summary from raw model text. On any failure
// to locate valid JSON it returns a single fallback finding carrying the raw
// text, so the caller always gets at least one finding-shaped result.
func (p *ResponseParser) Parse(raw string) ([]core.Finding, string) {
	jsonStr := extractJSON(raw)

	var payload responsePayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		p.log.Warn("failed to parse model response as JSON", "error", err)
		return []core.Finding{rawFallbackFinding(raw)}, ""
	}

	findings := make([]core.Finding, 0, len(payload.Findings))
	for _, item := range payload.Findings {
		finding, err := p.parseFinding(item)
		if err != nil {
			p.log.Warn("skipping unparseable finding", "error", err)
			continue
		}
		findings = append(findings, finding)
	}

	return findings, payload.Summary
}

func (p *ResponseParser) parseFinding(item json.RawMessage) (core.Finding, error) {
	var fp findingPayload
	if err := json.Unmarshal(item, &fp); err != nil {
		return core.Finding{}, fmt.Errorf("decoding finding: %w", err)
	}

	category, err := core.ParseCategory(fp.Category)
	if err != nil {
		return core.Finding{}, err
	}
	severity, err := core.ParseSeverity(fp.Severity)
	if err != nil {
		return core.Finding{}, err
	}

	title := fp.Title
	if title == "" {
		title = "Untitled Finding"
	}

	return core.Finding{
		Category:     category,
		Severity:     severity,
		Title:        title,
		Description:  fp.Description,
		FilePath:     fp.FilePath,
		LineNumber:   fp.LineNumber,
		SuggestedFix: fp.SuggestedFix,
		CodeSnippet:  fp.CodeSnippet,
	}, nil
}

// extractJSON locates the JSON object inside raw model text. Fenced blocks
// win over bare braces; the first fence of each kind is used.
func extractJSON(raw string) string {
	if idx := strings.Index(raw, "```json"); idx >= 0 {
		start := idx + len("```json")
		if end := strings.Index(raw[start:], "```"); end >= 0 {
			return strings.TrimSpace(raw[start : start+end])
		}
	} else if idx := strings.Index(raw, "```"); idx >= 0 {
		start := idx + len("```")
		if end := strings.Index(raw[start:], "```"); end >= 0 {
			return strings.TrimSpace(raw[start : start+end])
		}
	}

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		first := strings.Index(raw, "{")
		last := strings.LastIndex(raw, "}")
		if first >= 0 && last > first {
			return raw[first : last+1]
		}
	}
	return trimmed
}

func rawFallbackFinding(raw string) core.Finding {
	description := raw
	if len(description) > rawFallbackLimit {
		description = description[:rawFallbackLimit]
	}
	return core.Finding{
		Category:    core.CategoryQuality,
		Severity:    core.SeverityInfo,
		Title:       "Raw Review Output",
		Description: description,
	}
}

// GenerateSummary produces the mechanical summary used when the model did
// not supply one.
func GenerateSummary(findings []core.Finding) string {
	if len(findings) == 0 {
		return "No issues found."
	}

	counts := core.SeverityCounts(findings)
	parts := []string{fmt.Sprintf("Found %d issue(s):", len(findings))}
	for _, sev := range []core.Severity{
		core.SeverityCritical, core.SeverityHigh, core.SeverityMedium,
		core.SeverityLow, core.SeverityInfo,
	} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	return strings.Join(parts, " | ")
}
