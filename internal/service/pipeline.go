package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sethjchalmers/code-whisperers/internal/core"
	"github.com/sethjchalmers/code-whisperers/internal/logging"
)

// Pipeline glues collection, scheduling, consolidation and escalation into
// one review run.
type Pipeline struct {
	runners   []*AgentRunner
	scheduler *Scheduler
	log       *logging.Logger
}

// NewPipeline builds a pipeline over the given runners.
func NewPipeline(runners []*AgentRunner, scheduler *Scheduler, log *logging.Logger) *Pipeline {
	if log == nil {
		log = logging.NewNop()
	}
	return &Pipeline{runners: runners, scheduler: scheduler, log: log}
}

// Run executes the full review. A failed run (every agent errored) returns
// the result with status failed alongside core.ErrAllAgentsFailed so the
// caller still has per-agent diagnostics to show.
func (p *Pipeline) Run(ctx context.Context, files map[string]string, rctx *core.ReviewContext) (*core.ReviewResult, error) {
	if len(files) == 0 {
		return nil, core.ErrValidation(core.CodeNoFiles, "no files to review")
	}

	runID := uuid.NewString()
	log := p.log.WithRun(runID)
	log.Info("starting review", "files", len(files), "agents", len(p.runners))

	start := time.Now()
	results, err := p.scheduler.Run(ctx, p.runners, files, rctx)

	result := &core.ReviewResult{
		RunID:              runID,
		Status:             core.ReviewStatusCompleted,
		AgentResults:       results,
		TotalExecutionTime: time.Since(start).Seconds(),
		GeneratedAt:        time.Now(),
	}

	if err != nil {
		result.Status = core.ReviewStatusFailed
		result.Summary = "Review pipeline failed. Please check the logs for details."
		return result, err
	}

	result.ConsolidatedFindings = Consolidate(results)
	result.Escalations = Escalate(result.ConsolidatedFindings)
	result.Summary = executiveSummary(result.ConsolidatedFindings)

	log.Info("review complete",
		"findings", len(result.ConsolidatedFindings),
		"escalations", len(result.Escalations),
		"blocking", result.HasBlockingIssues())

	return result, nil
}

// executiveSummary is the one-line verdict shown at the top of reports.
func executiveSummary(findings []core.Finding) string {
	if len(findings) == 0 {
		return "No issues found. The code looks good!"
	}

	counts := core.SeverityCounts(findings)
	var parts []string
	for _, sev := range []core.Severity{
		core.SeverityCritical, core.SeverityHigh, core.SeverityMedium, core.SeverityLow,
	} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}

	summary := fmt.Sprintf("Found %d issue(s)", len(findings))
	if len(parts) > 0 {
		summary += ": " + strings.Join(parts, ", ")
	}
	if counts[core.SeverityCritical] > 0 || counts[core.SeverityHigh] > 0 {
		summary += ". BLOCKING ISSUES require immediate attention."
	}
	return summary
}
