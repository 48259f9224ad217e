package service

import (
	"testing"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

func TestEscalate_CriticalFinding(t *testing.T) {
	findings := []core.Finding{{
		Category: core.CategoryPerformance,
		Severity: core.SeverityCritical,
		Title:    "Unbounded allocation",
	}}

	escalations := Escalate(findings)
	if len(escalations) != 1 {
		t.Fatalf("expected 1 escalation, got %d", len(escalations))
	}
	esc := escalations[0]
	if esc.Type != core.EscalationCriticalFinding {
		t.Errorf("type = %s", esc.Type)
	}
	if esc.RecommendedAction != "Immediate review required" {
		t.Errorf("action = %q", esc.RecommendedAction)
	}
	if len(esc.SuggestedSteps) != 3 || esc.SuggestedSteps[0] != "Block PR merge" {
		t.Errorf("steps = %v", esc.SuggestedSteps)
	}
}

func TestEscalate_SecretExposure(t *testing.T) {
	findings := []core.Finding{{
		Category:    core.CategorySecurity,
		Severity:    core.SeverityMedium,
		Title:       "Credential in source",
		Description: "The file embeds a SECRET value in plain text",
	}}

	escalations := Escalate(findings)
	if len(escalations) != 1 {
		t.Fatalf("expected 1 escalation, got %d", len(escalations))
	}
	if escalations[0].Type != core.EscalationSecretExposure {
		t.Errorf("type = %s", escalations[0].Type)
	}
	if escalations[0].SuggestedSteps[0] != "Rotate affected credentials" {
		t.Errorf("steps = %v", escalations[0].SuggestedSteps)
	}
}

func TestEscalate_RulesAreIndependent(t *testing.T) {
	findings := []core.Finding{{
		Category:    core.CategorySecurity,
		Severity:    core.SeverityCritical,
		Title:       "Leaked key",
		Description: "a secret is committed",
	}}

	escalations := Escalate(findings)
	if len(escalations) != 2 {
		t.Fatalf("both rules should fire separately, got %d", len(escalations))
	}
	types := map[core.EscalationType]bool{}
	for _, esc := range escalations {
		types[esc.Type] = true
	}
	if !types[core.EscalationCriticalFinding] || !types[core.EscalationSecretExposure] {
		t.Errorf("unexpected escalation types: %v", types)
	}
}

func TestEscalate_NonSecuritySecretMentionIgnored(t *testing.T) {
	findings := []core.Finding{{
		Category:    core.CategoryQuality,
		Severity:    core.SeverityLow,
		Description: "rename the secretSauce variable",
	}}

	if escalations := Escalate(findings); len(escalations) != 0 {
		t.Errorf("quality findings must not trigger the secret rule: %v", escalations)
	}
}
