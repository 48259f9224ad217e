package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sethjchalmers/code-whisperers/internal/core"
	"github.com/sethjchalmers/code-whisperers/internal/logging"
)

// Scheduler executes a set of agent runners against one file set. Results
// come back index-aligned with the input runners, never in completion order.
type Scheduler struct {
	parallel bool
	log      *logging.Logger
}

// NewScheduler creates a scheduler. parallel=false runs agents one at a
// time in list order, which some local backends require.
func NewScheduler(parallel bool, log *logging.Logger) *Scheduler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Scheduler{parallel: parallel, log: log}
}

// Run executes every runner. One agent's failure (including a panic) is
// isolated into its own AgentResult; siblings are unaffected. The returned
// error is core.ErrAllAgentsFailed when not a single agent succeeded, in
// which case the results are still returned for diagnostics.
func (s *Scheduler) Run(ctx context.Context, runners []*AgentRunner, files map[string]string, rctx *core.ReviewContext) ([]core.AgentResult, error) {
	if len(runners) == 0 {
		return nil, core.ErrValidation("NO_AGENTS", "no agents selected for this run")
	}

	results := make([]core.AgentResult, len(runners))

	if s.parallel {
		g := new(errgroup.Group)
		for i, runner := range runners {
			g.Go(func() error {
				results[i] = s.runOne(ctx, runner, files, rctx)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, runner := range runners {
			results[i] = s.runOne(ctx, runner, files, rctx)
		}
	}

	failed := 0
	for i := range results {
		if results[i].Failed() {
			failed++
		}
	}
	s.log.Info("agent execution finished",
		"agents", len(results), "failed", failed, "parallel", s.parallel)

	if failed == len(results) {
		return results, core.ErrAllAgentsFailed
	}
	return results, nil
}

// runOne converts a panicking runner into an errored result so a single
// misbehaving agent cannot take down the run.
func (s *Scheduler) runOne(ctx context.Context, runner *AgentRunner, files map[string]string, rctx *core.ReviewContext) (result core.AgentResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("agent panicked", "agent", runner.Name(), "panic", r)
			result = core.AgentResult{
				AgentName:     runner.Name(),
				Timestamp:     time.Now(),
				FilesReviewed: []string{},
				Findings:      []core.Finding{},
				Error:         fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return runner.Run(ctx, files, rctx)
}
