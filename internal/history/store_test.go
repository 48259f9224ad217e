package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testResult(id string, generatedAt time.Time) *core.ReviewResult {
	return &core.ReviewResult{
		RunID:  id,
		Status: core.ReviewStatusCompleted,
		ConsolidatedFindings: []core.Finding{
			{Category: core.CategorySecurity, Severity: core.SeverityCritical, Title: "bad"},
			{Category: core.CategoryQuality, Severity: core.SeverityLow, Title: "meh"},
		},
		Summary:            "Found 2 issue(s)",
		TotalExecutionTime: 12.5,
		GeneratedAt:        generatedAt,
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	result := testResult("run-1", time.Now())
	if err := store.Record(ctx, result, "openai", "gpt-4o", 3); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.RunID != "run-1" || len(loaded.ConsolidatedFindings) != 2 {
		t.Errorf("stored result corrupted: %+v", loaded)
	}
	if loaded.Summary != "Found 2 issue(s)" {
		t.Errorf("summary = %q", loaded.Summary)
	}
}

func TestStore_GetUnknownRun(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		r := testResult(id, base.Add(time.Duration(i)*time.Minute))
		if err := store.Record(ctx, r, "openai", "gpt-4o", 1); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || runs[0].RunID != "new" || runs[2].RunID != "old" {
		t.Errorf("wrong order: %+v", runs)
	}
	if runs[0].Critical != 1 || runs[0].Findings != 2 {
		t.Errorf("summary counts wrong: %+v", runs[0])
	}
}

func TestStore_ListLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		r := testResult(string(rune('a'+i)), time.Now())
		if err := store.Record(ctx, r, "openai", "gpt-4o", 1); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("limit not applied, got %d", len(runs))
	}
}

func TestStore_ResolvePrefix(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"abc12345", "abd67890"} {
		if err := store.Record(ctx, testResult(id, time.Now()), "openai", "gpt-4o", 1); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.ResolvePrefix(ctx, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if got != "abc12345" {
		t.Errorf("ResolvePrefix = %q, want abc12345", got)
	}

	if _, err := store.ResolvePrefix(ctx, "ab"); err == nil {
		t.Error("ambiguous prefix should error")
	}
	if _, err := store.ResolvePrefix(ctx, "zzz"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStore_Prune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := testResult("old", time.Now().Add(-48*time.Hour))
	fresh := testResult("fresh", time.Now())
	if err := store.Record(ctx, old, "openai", "gpt-4o", 1); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, fresh, "openai", "gpt-4o", 1); err != nil {
		t.Fatal(err)
	}

	n, err := store.Prune(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned run, got %d", n)
	}
	if _, err := store.Get(ctx, "old"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("old run should be gone")
	}
	if _, err := store.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh run should remain: %v", err)
	}
}
