package service

import (
	"strings"
	"testing"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

func result(agent string, findings ...core.Finding) core.AgentResult {
	return core.AgentResult{AgentName: agent, Findings: findings}
}

func TestConsolidate_DeduplicatesAcrossAgents(t *testing.T) {
	a := core.Finding{
		Category:    core.CategorySecurity,
		Severity:    core.SeverityMedium,
		Title:       "Hardcoded credentials in config",
		Description: "found by agent one",
		FilePath:    "config.py",
	}
	b := a
	b.Severity = core.SeverityHigh
	b.Description = "found by agent two"

	merged := Consolidate([]core.AgentResult{result("one", a), result("two", b)})

	if len(merged) != 1 {
		t.Fatalf("expected 1 consolidated finding, got %d", len(merged))
	}
	f := merged[0]
	if f.Severity != core.SeverityHigh {
		t.Errorf("severity should be the max, got %s", f.Severity)
	}
	if !strings.Contains(f.Description, "found by agent one") ||
		!strings.Contains(f.Description, "found by agent two") {
		t.Errorf("description should carry both agents' text: %q", f.Description)
	}
	if !strings.Contains(f.Description, "[Additional context from two]:") {
		t.Errorf("attribution tag missing: %q", f.Description)
	}
}

func TestConsolidate_MaxSeverityCommutative(t *testing.T) {
	mk := func(s core.Severity, desc string) core.Finding {
		return core.Finding{
			Category: core.CategoryQuality, Severity: s,
			Title: "Same issue", FilePath: "a.go", Description: desc,
		}
	}

	forward := Consolidate([]core.AgentResult{
		result("one", mk(core.SeverityMedium, "m")),
		result("two", mk(core.SeverityHigh, "h")),
	})
	backward := Consolidate([]core.AgentResult{
		result("one", mk(core.SeverityHigh, "h")),
		result("two", mk(core.SeverityMedium, "m")),
	})

	if forward[0].Severity != core.SeverityHigh || backward[0].Severity != core.SeverityHigh {
		t.Errorf("merge order changed the severity: %s vs %s",
			forward[0].Severity, backward[0].Severity)
	}
}

func TestConsolidate_KeyIsCaseInsensitivePrefix(t *testing.T) {
	long := strings.Repeat("a", 60)
	a := core.Finding{Category: core.CategoryQuality, Severity: core.SeverityLow,
		Title: "PREFIX " + long, FilePath: "x.go", Description: "first"}
	b := core.Finding{Category: core.CategoryQuality, Severity: core.SeverityLow,
		Title: "prefix " + long + " different tail", FilePath: "x.go", Description: "second"}

	merged := Consolidate([]core.AgentResult{result("one", a), result("two", b)})
	if len(merged) != 1 {
		t.Errorf("titles sharing a 50-char lowercase prefix should merge, got %d", len(merged))
	}
}

func TestConsolidate_DistinctFilesStaySeparate(t *testing.T) {
	a := core.Finding{Category: core.CategoryQuality, Severity: core.SeverityLow,
		Title: "Same title", FilePath: "a.go"}
	b := a
	b.FilePath = "b.go"

	merged := Consolidate([]core.AgentResult{result("one", a, b)})
	if len(merged) != 2 {
		t.Errorf("different files must not merge, got %d", len(merged))
	}
}

func TestConsolidate_PreservesFirstSeenOrder(t *testing.T) {
	mk := func(title string) core.Finding {
		return core.Finding{Category: core.CategoryQuality, Severity: core.SeverityLow, Title: title}
	}

	merged := Consolidate([]core.AgentResult{
		result("one", mk("first"), mk("second")),
		result("two", mk("third"), mk("first")),
	})

	if len(merged) != 3 {
		t.Fatalf("expected 3, got %d", len(merged))
	}
	if merged[0].Title != "first" || merged[1].Title != "second" || merged[2].Title != "third" {
		t.Errorf("insertion order lost: %v",
			[]string{merged[0].Title, merged[1].Title, merged[2].Title})
	}
}

func TestConsolidate_NoDuplicateDescriptionAppend(t *testing.T) {
	a := core.Finding{Category: core.CategoryQuality, Severity: core.SeverityLow,
		Title: "Dup", Description: "shared text"}
	b := a

	merged := Consolidate([]core.AgentResult{result("one", a), result("two", b)})
	if strings.Contains(merged[0].Description, "[Additional context") {
		t.Errorf("identical description must not be re-appended: %q", merged[0].Description)
	}
}
