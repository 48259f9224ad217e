package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

var severityOrder = []core.Severity{
	core.SeverityCritical,
	core.SeverityHigh,
	core.SeverityMedium,
	core.SeverityLow,
	core.SeverityInfo,
}

// ReportAssembler renders a review result in the supported output formats.
// Pure presentation: every finding and escalation appears exactly once and
// severity groups keep the critical-first order.
type ReportAssembler struct{}

// NewReportAssembler creates an assembler.
func NewReportAssembler() *ReportAssembler {
	return &ReportAssembler{}
}

// Render writes the result in the requested format.
func (a *ReportAssembler) Render(w io.Writer, result *core.ReviewResult, format core.ReportFormat) error {
	switch format {
	case core.ReportFormatStructured:
		return a.renderJSON(w, result)
	case core.ReportFormatMarkdown:
		return a.renderMarkdown(w, result)
	case core.ReportFormatPlainText:
		return a.renderText(w, result)
	default:
		return core.ErrValidation("BAD_FORMAT", fmt.Sprintf("unknown report format %q", format))
	}
}

// RenderString is Render into a string, for sinks that need the full text.
func (a *ReportAssembler) RenderString(result *core.ReviewResult, format core.ReportFormat) (string, error) {
	var b strings.Builder
	if err := a.Render(&b, result, format); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (a *ReportAssembler) renderJSON(w io.Writer, result *core.ReviewResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (a *ReportAssembler) renderText(w io.Writer, result *core.ReviewResult) error {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "CODE REVIEW REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "  Run ID:      %s\n", result.RunID)
	fmt.Fprintf(w, "  Status:      %s\n", result.Status)
	fmt.Fprintf(w, "  Generated:   %s\n", result.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  Duration:    %.1fs\n", result.TotalExecutionTime)
	fmt.Fprintf(w, "  Findings:    %d\n", len(result.ConsolidatedFindings))
	fmt.Fprintf(w, "  Escalations: %d\n", len(result.Escalations))
	if result.Summary != "" {
		fmt.Fprintf(w, "\n  %s\n", result.Summary)
	}
	fmt.Fprintln(w, "")

	for _, sev := range severityOrder {
		findings := result.FindingsBySeverity(sev)
		if len(findings) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s FINDINGS\n", strings.ToUpper(string(sev)))
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for i := range findings {
			f := &findings[i]
			fmt.Fprintf(w, "  [%s] %s\n", f.Category, f.Title)
			if loc := location(f); loc != "" {
				fmt.Fprintf(w, "    Location: %s\n", loc)
			}
			if f.Description != "" {
				fmt.Fprintf(w, "    %s\n", indentLines(f.Description, "    "))
			}
			fmt.Fprintln(w, "")
		}
	}

	if len(result.Escalations) > 0 {
		fmt.Fprintln(w, "ESCALATIONS")
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for i := range result.Escalations {
			esc := &result.Escalations[i]
			fmt.Fprintf(w, "  %s: %s\n", esc.Type, esc.RecommendedAction)
			fmt.Fprintf(w, "    Finding: %s\n", esc.Finding.Title)
			for _, step := range esc.SuggestedSteps {
				fmt.Fprintf(w, "    - %s\n", step)
			}
			fmt.Fprintln(w, "")
		}
	}

	if err := a.writeAgentTable(w, result.AgentResults); err != nil {
		return err
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	return nil
}

// writeAgentTable writes the per-agent execution metadata table. Errored
// agents are marked so they read differently from "zero findings".
func (a *ReportAssembler) writeAgentTable(w io.Writer, results []core.AgentResult) error {
	if len(results) == 0 {
		return nil
	}

	fmt.Fprintln(w, "AGENT EXECUTION")
	fmt.Fprintln(w, strings.Repeat("-", 40))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  AGENT\tFILES\tFINDINGS\tTIME\tSTATUS")
	for i := range results {
		r := &results[i]
		status := "ok"
		if r.Failed() {
			status = "FAILED: " + truncate(r.Error, 40)
		}
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%.1fs\t%s\n",
			r.AgentName, len(r.FilesReviewed), len(r.Findings),
			r.ExecutionTimeSeconds, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, "")
	return nil
}

func (a *ReportAssembler) renderMarkdown(w io.Writer, result *core.ReviewResult) error {
	fmt.Fprintln(w, "# Code Review Report")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "**Generated:** %s\n\n", result.GeneratedAt.Format(time.RFC3339))

	status := "Review Complete"
	if result.Status == core.ReviewStatusFailed {
		status = "Review FAILED"
	} else if result.HasBlockingIssues() {
		status = "BLOCKING ISSUES FOUND"
	}
	fmt.Fprintf(w, "**Status:** %s\n\n---\n\n", status)

	fmt.Fprintln(w, "## Summary")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "- **Total Findings:** %d\n", len(result.ConsolidatedFindings))
	fmt.Fprintf(w, "- **Agents Executed:** %d\n", len(result.AgentResults))
	fmt.Fprintf(w, "- **Escalations:** %d\n\n", len(result.Escalations))
	if result.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", result.Summary)
	}

	counts := core.SeverityCounts(result.ConsolidatedFindings)
	fmt.Fprintln(w, "### Findings by Severity")
	fmt.Fprintln(w, "")
	for _, sev := range severityOrder {
		fmt.Fprintf(w, "- %s: %d\n", titleCase(string(sev)), counts[sev])
	}
	fmt.Fprintln(w, "\n---")

	for _, sev := range severityOrder {
		findings := result.FindingsBySeverity(sev)
		if len(findings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n## %s Severity\n\n", titleCase(string(sev)))
		for i := range findings {
			f := &findings[i]
			fmt.Fprintf(w, "### %s\n\n", f.Title)
			fmt.Fprintf(w, "**Category:** %s\n\n", f.Category)
			if loc := location(f); loc != "" {
				fmt.Fprintf(w, "**Location:** %s\n\n", loc)
			}
			if f.Description != "" {
				fmt.Fprintf(w, "%s\n", f.Description)
			}
			if f.CodeSnippet != "" {
				fmt.Fprintf(w, "\n```\n%s\n```\n", f.CodeSnippet)
			}
			if f.SuggestedFix != "" {
				fmt.Fprintf(w, "\n**Suggested Fix:**\n```\n%s\n```\n", f.SuggestedFix)
			}
			fmt.Fprintln(w, "")
		}
	}

	if len(result.Escalations) > 0 {
		fmt.Fprintln(w, "\n## Escalations")
		fmt.Fprintln(w, "")
		for i := range result.Escalations {
			esc := &result.Escalations[i]
			fmt.Fprintf(w, "### %s\n\n", esc.Type)
			fmt.Fprintf(w, "**Finding:** %s\n\n", esc.Finding.Title)
			fmt.Fprintf(w, "**Action:** %s\n\n", esc.RecommendedAction)
			for _, step := range esc.SuggestedSteps {
				fmt.Fprintf(w, "- %s\n", step)
			}
			fmt.Fprintln(w, "")
		}
	}

	fmt.Fprint(w, "\n---\n\n")
	fmt.Fprintln(w, "## Agent Execution")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "| Agent | Files | Findings | Time | Status |")
	fmt.Fprintln(w, "|-------|-------|----------|------|--------|")
	for i := range result.AgentResults {
		r := &result.AgentResults[i]
		status := "ok"
		if r.Failed() {
			status = "**failed**: " + truncate(r.Error, 60)
		}
		fmt.Fprintf(w, "| %s | %d | %d | %.1fs | %s |\n",
			r.AgentName, len(r.FilesReviewed), len(r.Findings),
			r.ExecutionTimeSeconds, status)
	}

	return nil
}

func location(f *core.Finding) string {
	if f.FilePath == "" {
		return ""
	}
	if f.LineNumber > 0 {
		return fmt.Sprintf("%s:%d", f.FilePath, f.LineNumber)
	}
	return f.FilePath
}

func indentLines(s, indent string) string {
	return strings.ReplaceAll(s, "\n", "\n"+indent)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
