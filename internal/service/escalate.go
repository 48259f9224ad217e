package service

import (
	"strings"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// Escalate applies the escalation rule table to consolidated findings.
// Rules are independent: one finding can produce several escalations.
func Escalate(findings []core.Finding) []core.Escalation {
	var escalations []core.Escalation

	for i := range findings {
		finding := findings[i]

		if finding.Severity == core.SeverityCritical {
			escalations = append(escalations, core.Escalation{
				Type:              core.EscalationCriticalFinding,
				Finding:           finding,
				RecommendedAction: "Immediate review required",
				SuggestedSteps: []string{
					"Block PR merge",
					"Notify security team",
					"Create incident ticket",
				},
			})
		}

		if finding.Category == core.CategorySecurity &&
			strings.Contains(strings.ToLower(finding.Description), "secret") {
			escalations = append(escalations, core.Escalation{
				Type:              core.EscalationSecretExposure,
				Finding:           finding,
				RecommendedAction: "Immediate secret rotation may be required",
				SuggestedSteps: []string{
					"Rotate affected credentials",
					"Audit access logs",
					"Notify security team",
				},
			})
		}
	}

	return escalations
}
