package core

import "time"

// AgentResult is one agent's full response to one review call.
//
// When Error is set the run failed: Findings is empty by convention and
// the result must not be read as "no issues found".
type AgentResult struct {
	AgentName            string    `json:"agent_name"`
	Timestamp            time.Time `json:"timestamp"`
	FilesReviewed        []string  `json:"files_reviewed"`
	Findings             []Finding `json:"findings"`
	Summary              string    `json:"summary"`
	RawResponse          string    `json:"raw_response,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
	Error                string    `json:"error,omitempty"`
}

// Failed reports whether the agent run ended in an error.
func (r *AgentResult) Failed() bool {
	return r.Error != ""
}

// CriticalCount returns the number of critical findings.
func (r *AgentResult) CriticalCount() int {
	return r.countSeverity(SeverityCritical)
}

// HighCount returns the number of high severity findings.
func (r *AgentResult) HighCount() int {
	return r.countSeverity(SeverityHigh)
}

// HasBlockingIssues reports whether the agent found anything that should
// block the change (critical or high severity).
func (r *AgentResult) HasBlockingIssues() bool {
	return r.CriticalCount() > 0 || r.HighCount() > 0
}

func (r *AgentResult) countSeverity(s Severity) int {
	n := 0
	for i := range r.Findings {
		if r.Findings[i].Severity == s {
			n++
		}
	}
	return n
}

// SeverityCounts returns a count per severity over the findings.
func SeverityCounts(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int)
	for i := range findings {
		counts[findings[i].Severity]++
	}
	return counts
}

// ReviewStatus is the terminal state of a full review run.
type ReviewStatus string

const (
	ReviewStatusCompleted ReviewStatus = "completed"
	ReviewStatusFailed    ReviewStatus = "failed"
)

// ReviewResult is the consolidated outcome of one review run.
type ReviewResult struct {
	RunID                string        `json:"run_id"`
	Status               ReviewStatus  `json:"status"`
	AgentResults         []AgentResult `json:"agent_results"`
	ConsolidatedFindings []Finding     `json:"consolidated_findings"`
	Escalations          []Escalation  `json:"escalations"`
	Summary              string        `json:"summary"`
	TotalExecutionTime   float64       `json:"total_execution_time"`
	GeneratedAt          time.Time     `json:"generated_at"`
}

// HasBlockingIssues reports whether any consolidated finding blocks the change.
func (r *ReviewResult) HasBlockingIssues() bool {
	for i := range r.ConsolidatedFindings {
		if r.ConsolidatedFindings[i].Blocking() {
			return true
		}
	}
	return false
}

// FindingsBySeverity returns consolidated findings with the given severity,
// preserving their consolidated order.
func (r *ReviewResult) FindingsBySeverity(s Severity) []Finding {
	var out []Finding
	for i := range r.ConsolidatedFindings {
		if r.ConsolidatedFindings[i].Severity == s {
			out = append(out, r.ConsolidatedFindings[i])
		}
	}
	return out
}
