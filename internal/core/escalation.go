package core

// EscalationType tags the rule that triggered an escalation.
type EscalationType string

const (
	// EscalationCriticalFinding fires for every critical severity finding.
	EscalationCriticalFinding EscalationType = "critical_finding"

	// EscalationSecretExposure fires for security findings whose description
	// mentions a secret. This is a textual heuristic, not a guarantee.
	EscalationSecretExposure EscalationType = "potential_secret_exposure"
)

// Escalation flags a finding that needs out-of-band action.
// One finding can trigger several escalations, one per matching rule.
type Escalation struct {
	Type              EscalationType `json:"type"`
	Finding           Finding        `json:"finding"`
	RecommendedAction string         `json:"recommended_action"`
	SuggestedSteps    []string       `json:"suggested_steps"`
}
