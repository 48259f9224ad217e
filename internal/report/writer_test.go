package report

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

func testResult() *core.ReviewResult {
	return &core.ReviewResult{
		RunID:  "abcdef1234567890",
		Status: core.ReviewStatusCompleted,
		ConsolidatedFindings: []core.Finding{
			{Category: core.CategoryQuality, Severity: core.SeverityLow, Title: "nit"},
		},
		Summary:     "Found 1 issue(s): 1 low",
		GeneratedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestFileWriter_WritesJSON(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(dir)

	path, err := w.Write(testResult(), core.ReportFormatStructured)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, ".json") || !strings.Contains(path, "review_20250601_093000_abcdef12") {
		t.Errorf("unexpected path %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded core.ReviewResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("written report should be valid JSON: %v", err)
	}
	if decoded.RunID != "abcdef1234567890" {
		t.Errorf("run ID lost: %s", decoded.RunID)
	}
}

func TestFileWriter_WritesMarkdown(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(dir)

	path, err := w.Write(testResult(), core.ReportFormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# Code Review Report") {
		t.Errorf("markdown header missing")
	}
}

func TestFileWriter_UnknownFormat(t *testing.T) {
	w := NewFileWriter(t.TempDir())
	if _, err := w.Write(testResult(), core.ReportFormat("xml")); err == nil {
		t.Errorf("unknown format should error")
	}
}

func TestFileWriter_CreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/reports"
	w := NewFileWriter(dir)
	if _, err := w.Write(testResult(), core.ReportFormatPlainText); err != nil {
		t.Fatalf("writer should create missing directories: %v", err)
	}
}
