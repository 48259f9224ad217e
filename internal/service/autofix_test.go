package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

func TestApplyFix_ExactMatch(t *testing.T) {
	content := "a = 1\npassword = \"hunter2\"\nb = 2\n"
	out, ok := applyFix(content, `password = "hunter2"`, `password = os.environ["PASSWORD"]`, 0)
	if !ok {
		t.Fatalf("exact match should apply")
	}
	if !strings.Contains(out, `os.environ["PASSWORD"]`) || strings.Contains(out, "hunter2") {
		t.Errorf("fix not applied: %q", out)
	}
}

func TestApplyFix_TrimmedMatch(t *testing.T) {
	content := "    x = eval(data)\n"
	out, ok := applyFix(content, "  x = eval(data)  ", "x = json.loads(data)", 0)
	if !ok || !strings.Contains(out, "json.loads") {
		t.Errorf("trimmed match should apply: %q", out)
	}
}

func TestApplyFix_LineAnchored(t *testing.T) {
	content := "line one\nx = eval(payload)\nline three"
	out, ok := applyFix(content, "x = eval(payload)  # extra", "x = parse(payload)", 2)
	if !ok {
		t.Fatalf("line-anchored match should apply")
	}
	if !strings.Contains(out, "x = parse(payload)") {
		t.Errorf("line not replaced: %q", out)
	}
}

func TestApplyFix_NotFound(t *testing.T) {
	if _, ok := applyFix("unrelated content", "missing code", "fix", 0); ok {
		t.Errorf("absent original code must not apply")
	}
}

func TestApplyFix_OnlyFirstOccurrence(t *testing.T) {
	content := "dup()\ndup()\n"
	out, _ := applyFix(content, "dup()", "fixed()", 0)
	if strings.Count(out, "fixed()") != 1 || strings.Count(out, "dup()") != 1 {
		t.Errorf("only the first occurrence should change: %q", out)
	}
}

func TestFixer_SequentialFixesShareLatestContent(t *testing.T) {
	// Two findings in one file: the second fix must see the first fix's edit.
	responses := []string{
		`{"file_path": "app.py", "original_code": "a = eval(x)", "fixed_code": "a = parse(x)", "explanation": "no eval"}`,
		`{"file_path": "app.py", "original_code": "b = eval(y)", "fixed_code": "b = parse(y)", "explanation": "no eval"}`,
	}
	caller := &scriptedCaller{responses: responses}

	dir := t.TempDir()
	original := "a = eval(x)\nb = eval(y)\n"
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	findings := []core.Finding{
		{Title: "eval a", FilePath: "app.py"},
		{Title: "eval b", FilePath: "app.py"},
	}

	fixer := NewFixer(caller, dir, false, nil)
	results := fixer.Fix(context.Background(), findings, map[string]string{"app.py": original})

	for i, r := range results {
		if !r.Success {
			t.Fatalf("fix %d failed: %s", i, r.Error)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "app.py"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if strings.Contains(got, "eval") {
		t.Errorf("both fixes should be on disk: %q", got)
	}
}

func TestFixer_SkipResponse(t *testing.T) {
	caller := &scriptedCaller{responses: []string{
		`{"file_path": "app.py", "skip": true, "reason": "ambiguous"}`,
	}}
	fixer := NewFixer(caller, "", false, nil)

	results := fixer.Fix(context.Background(),
		[]core.Finding{{Title: "x", FilePath: "app.py"}},
		map[string]string{"app.py": "content"})

	if results[0].Success {
		t.Errorf("skip response must not succeed")
	}
	if !strings.Contains(results[0].Error, "ambiguous") {
		t.Errorf("skip reason lost: %q", results[0].Error)
	}
}

func TestFixer_MissingFilePath(t *testing.T) {
	fixer := NewFixer(&scriptedCaller{}, "", false, nil)
	results := fixer.Fix(context.Background(),
		[]core.Finding{{Title: "no path"}}, map[string]string{})
	if results[0].Success || results[0].Error == "" {
		t.Errorf("finding without file path should fail cleanly")
	}
}

type scriptedCaller struct {
	responses []string
	i         int
}

func (s *scriptedCaller) Name() string { return "scripted" }

func (s *scriptedCaller) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.i >= len(s.responses) {
		return `{"skip": true, "reason": "script exhausted"}`, nil
	}
	resp := s.responses[s.i]
	s.i++
	return resp, nil
}
