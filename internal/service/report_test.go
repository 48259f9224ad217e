package service

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

func sampleResult() *core.ReviewResult {
	critical := core.Finding{
		Category: core.CategorySecurity, Severity: core.SeverityCritical,
		Title: "Hardcoded AWS key", FilePath: "main.tf", LineNumber: 12,
		Description: "A secret access key is committed",
	}
	low := core.Finding{
		Category: core.CategoryQuality, Severity: core.SeverityLow,
		Title: "Long function", FilePath: "app.py",
	}
	return &core.ReviewResult{
		RunID:                "run-1",
		Status:               core.ReviewStatusCompleted,
		ConsolidatedFindings: []core.Finding{critical, low},
		Escalations:          Escalate([]core.Finding{critical, low}),
		Summary:              "Found 2 issue(s): 1 critical, 1 low. BLOCKING ISSUES require immediate attention.",
		AgentResults: []core.AgentResult{
			{AgentName: "security_expert", FilesReviewed: []string{"main.tf"},
				Findings: []core.Finding{critical}, ExecutionTimeSeconds: 2.5},
			{AgentName: "python_expert", Error: "timeout", ExecutionTimeSeconds: 30},
		},
		TotalExecutionTime: 32.5,
		GeneratedAt:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRender_JSONRoundTrips(t *testing.T) {
	out, err := NewReportAssembler().RenderString(sampleResult(), core.ReportFormatStructured)
	if err != nil {
		t.Fatal(err)
	}

	var decoded core.ReviewResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("JSON output should decode: %v", err)
	}
	if decoded.RunID != "run-1" || len(decoded.ConsolidatedFindings) != 2 {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestRender_TextGroupsAndMetadata(t *testing.T) {
	out, err := NewReportAssembler().RenderString(sampleResult(), core.ReportFormatPlainText)
	if err != nil {
		t.Fatal(err)
	}

	critIdx := strings.Index(out, "CRITICAL FINDINGS")
	lowIdx := strings.Index(out, "LOW FINDINGS")
	if critIdx < 0 || lowIdx < 0 || critIdx > lowIdx {
		t.Errorf("severity groups missing or misordered")
	}
	if strings.Contains(out, "MEDIUM FINDINGS") {
		t.Errorf("empty severity groups must be omitted")
	}
	if !strings.Contains(out, "main.tf:12") {
		t.Errorf("finding location missing")
	}
	if !strings.Contains(out, "ESCALATIONS") {
		t.Errorf("escalations section missing")
	}
	if !strings.Contains(out, "FAILED: timeout") {
		t.Errorf("errored agent must be visibly distinguished")
	}
	if strings.Count(out, "Hardcoded AWS key") < 1 {
		t.Errorf("finding title missing")
	}
}

func TestRender_MarkdownCompleteness(t *testing.T) {
	result := sampleResult()
	out, err := NewReportAssembler().RenderString(result, core.ReportFormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"# Code Review Report",
		"BLOCKING ISSUES FOUND",
		"## Critical Severity",
		"## Low Severity",
		"### Hardcoded AWS key",
		"## Escalations",
		"| security_expert | 1 | 1 | 2.5s | ok |",
		"**failed**: timeout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Every finding appears exactly once in its severity group.
	if strings.Count(out, "### Long function") != 1 {
		t.Errorf("finding should appear exactly once")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	err := NewReportAssembler().Render(&strings.Builder{}, sampleResult(), core.ReportFormat("xml"))
	if err == nil {
		t.Errorf("unknown format should error")
	}
}
