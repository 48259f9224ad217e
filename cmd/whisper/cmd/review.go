package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sethjchalmers/code-whisperers/internal/adapters/git"
	"github.com/sethjchalmers/code-whisperers/internal/adapters/llm"
	"github.com/sethjchalmers/code-whisperers/internal/agents"
	"github.com/sethjchalmers/code-whisperers/internal/clip"
	"github.com/sethjchalmers/code-whisperers/internal/config"
	"github.com/sethjchalmers/code-whisperers/internal/core"
	"github.com/sethjchalmers/code-whisperers/internal/history"
	"github.com/sethjchalmers/code-whisperers/internal/logging"
	"github.com/sethjchalmers/code-whisperers/internal/report"
	"github.com/sethjchalmers/code-whisperers/internal/service"
)

var (
	reviewFiles      []string
	reviewBase       string
	reviewCodebase   bool
	reviewAgents     []string
	reviewSequential bool
	reviewOutput     string
	reviewCopy       bool
	reviewFix        bool
	reviewNoSave     bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review changed files with the expert agent panel",
	Long: `Review collects files from the repository (changed files by default,
explicit paths with --files, or the tracked codebase with --codebase), runs
every matching expert agent, and prints a consolidated report.

Exits 1 when blocking (critical or high) findings are present, 2 on
configuration errors.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringSliceVar(&reviewFiles, "files", nil,
		"explicit file paths to review instead of changed files")
	reviewCmd.Flags().StringVar(&reviewBase, "base", "",
		"base ref to diff against (default: git.base_branch)")
	reviewCmd.Flags().BoolVar(&reviewCodebase, "codebase", false,
		"review the tracked codebase instead of changes")
	reviewCmd.Flags().StringSliceVar(&reviewAgents, "agents", nil,
		"run only these agents (e.g. terraform,security)")
	reviewCmd.Flags().BoolVar(&reviewSequential, "sequential", false,
		"run agents one at a time")
	reviewCmd.Flags().StringVarP(&reviewOutput, "output", "o", "",
		"output format: markdown, json or text (default: report.format)")
	reviewCmd.Flags().BoolVar(&reviewCopy, "copy", false,
		"copy the rendered report to the clipboard")
	reviewCmd.Flags().BoolVar(&reviewFix, "fix", false,
		"attempt to apply model-generated fixes for the findings")
	reviewCmd.Flags().BoolVar(&reviewNoSave, "no-save", false,
		"do not write the report to the reports directory")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadValidatedConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	ctx := cmd.Context()

	collector, err := newCollector(cfg, log)
	if err != nil {
		return &ExitError{Code: exitConfig, Message: err.Error()}
	}

	files, err := collector.Collect(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No files to review.")
		return nil
	}
	rctx, err := collector.Context(ctx)
	if err != nil {
		log.Warn("collecting review context failed", "error", err)
		rctx = &core.ReviewContext{}
	}

	runners, err := buildRunners(ctx, cfg, log)
	if err != nil {
		return err
	}

	parallel := cfg.Review.Parallel && !reviewSequential && !config.SequentialOnly(cfg)
	pipeline := service.NewPipeline(runners, service.NewScheduler(parallel, log), log)

	result, err := pipeline.Run(ctx, files, rctx)
	if err != nil {
		if core.IsConfigError(err) {
			return &ExitError{Code: exitConfig, Message: err.Error()}
		}
		if errors.Is(err, core.ErrAllAgentsFailed) {
			for i := range result.AgentResults {
				r := &result.AgentResults[i]
				fmt.Fprintf(os.Stderr, "  %s: %s\n", r.AgentName, r.Error)
			}
			return &ExitError{Code: exitBlocking, Message: err.Error()}
		}
		return err
	}

	format := reportFormat(cfg)
	rendered, err := service.NewReportAssembler().RenderString(result, format)
	if err != nil {
		return err
	}

	printReport(rendered, format)

	if cfg.Report.SaveReports && !reviewNoSave {
		writer := report.NewFileWriter(cfg.Report.Dir)
		if path, werr := writer.Write(result, format); werr != nil {
			log.Warn("saving report failed", "error", werr)
		} else {
			log.Info("report saved", "path", path)
		}
	}

	recordHistory(cfg, log, result, len(files))

	if reviewCopy {
		if res, cerr := clip.WriteAll(rendered); cerr != nil {
			log.Warn("clipboard copy failed", "error", cerr)
		} else if res.Method == clip.MethodFile {
			fmt.Fprintf(os.Stderr, "Report written to %s (no clipboard available)\n", res.FilePath)
		}
	}

	if reviewFix && len(result.ConsolidatedFindings) > 0 {
		if ferr := applyFixes(ctx, cfg, log, result.ConsolidatedFindings, files); ferr != nil {
			return ferr
		}
	}

	if result.HasBlockingIssues() {
		return &ExitError{Code: exitBlocking}
	}
	return nil
}

func newCollector(cfg *config.Config, log *logging.Logger) (*git.Collector, error) {
	base := reviewBase
	if base == "" {
		base = cfg.Git.BaseBranch
	}

	mode := git.ModeChanged
	if len(reviewFiles) > 0 {
		mode = git.ModePaths
	} else if reviewCodebase {
		mode = git.ModeCodebase
	}

	return git.NewCollector(git.Options{
		RepoPath:      cfg.Git.RepoPath,
		BaseRef:       base,
		Mode:          mode,
		Paths:         reviewFiles,
		MaxFileSizeKB: cfg.Review.MaxFileSizeKB,
		Logger:        log,
	})
}

// buildRunners resolves the agent set (built-ins, overlay file, --agents
// selection) and gives each descriptor its own backend caller so per-agent
// model and temperature overrides take effect.
func buildRunners(ctx context.Context, cfg *config.Config, log *logging.Logger) ([]*service.AgentRunner, error) {
	lite := cfg.Review.LitePrompts || cfg.LLM.Provider == "ollama"
	descriptors := agents.Builtin(lite)

	overlayPath := filepath.Join(cfg.Git.RepoPath, ".whisper", "agents.yaml")
	overlay, err := agents.LoadOverlay(overlayPath)
	if err != nil {
		return nil, &ExitError{Code: exitConfig, Message: err.Error()}
	}
	if overlay != nil {
		descriptors, err = overlay.Apply(descriptors)
		if err != nil {
			return nil, &ExitError{Code: exitConfig, Message: err.Error()}
		}
	}

	descriptors = agents.Select(agents.Enabled(descriptors), reviewAgents)

	// One bucket across all agents; parallel runs share the provider quota.
	limiter := llm.NewLimiter(5, 1)

	parser := service.NewResponseParser(log)
	runners := make([]*service.AgentRunner, 0, len(descriptors))
	for _, d := range descriptors {
		caller, err := llm.New(ctx, cfg, d.ModelOverride, d.TemperatureOverride)
		if err != nil {
			return nil, &ExitError{Code: exitConfig,
				Message: fmt.Sprintf("agent %s: %v", d.Name, err)}
		}
		caller = llm.WithRetry(llm.WithThrottle(caller, limiter), llm.DefaultBackoff())
		runners = append(runners, service.NewAgentRunner(service.RunnerOptions{
			Descriptor:    d,
			Caller:        caller,
			Parser:        parser,
			MaxFileSizeKB: cfg.Review.MaxFileSizeKB,
			Logger:        log,
		}))
	}
	return runners, nil
}

func reportFormat(cfg *config.Config) core.ReportFormat {
	if reviewOutput != "" {
		return core.ReportFormat(reviewOutput)
	}
	return core.ReportFormat(cfg.Report.Format)
}

// printReport writes the rendered report to stdout, running markdown
// through glamour when stdout is an interactive terminal.
func printReport(rendered string, format core.ReportFormat) {
	if format == core.ReportFormatMarkdown && term.IsTerminal(int(os.Stdout.Fd())) {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if pretty, rerr := renderer.Render(rendered); rerr == nil {
				fmt.Print(pretty)
				return
			}
		}
	}
	fmt.Println(rendered)
}

// recordHistory is best effort; a broken history database never fails a review.
func recordHistory(cfg *config.Config, log *logging.Logger, result *core.ReviewResult, files int) {
	if cfg.Report.HistoryPath == "" {
		return
	}
	store, err := history.Open(cfg.Report.HistoryPath)
	if err != nil {
		log.Warn("opening history store failed", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.Record(context.Background(), result, cfg.LLM.Provider, cfg.LLM.Model, files); err != nil {
		log.Warn("recording run history failed", "error", err)
	}
}

func applyFixes(ctx context.Context, cfg *config.Config, log *logging.Logger, findings []core.Finding, files map[string]string) error {
	caller, err := llm.New(ctx, cfg, "", nil)
	if err != nil {
		return &ExitError{Code: exitConfig, Message: err.Error()}
	}
	caller = llm.WithRetry(caller, llm.DefaultBackoff())

	lite := cfg.Review.LitePrompts || cfg.LLM.Provider == "ollama"
	fixer := service.NewFixer(caller, cfg.Git.RepoPath, lite, log)

	fmt.Fprintf(os.Stderr, "\nApplying fixes for %d finding(s)...\n", len(findings))
	results := fixer.Fix(ctx, findings, files)

	var applied, failed int
	for _, r := range results {
		if r.Success {
			applied++
			fmt.Fprintf(os.Stderr, "  fixed   %s: %s\n", r.Finding.FilePath, r.Finding.Title)
			continue
		}
		failed++
		fmt.Fprintf(os.Stderr, "  skipped %s: %s\n", r.Finding.FilePath, r.Error)
	}
	fmt.Fprintf(os.Stderr, "Fixes: %d applied, %d not applied\n", applied, failed)
	return nil
}
