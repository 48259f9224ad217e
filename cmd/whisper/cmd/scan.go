package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sethjchalmers/code-whisperers/internal/adapters/git"
	"github.com/sethjchalmers/code-whisperers/internal/service"
)

var (
	scanFiles    []string
	scanCodebase bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan files for hardcoded secrets without calling any model",
	Long: `Scan runs the offline secret detector over the collected files. It looks
for credential assignments and known key material shapes (AWS access keys,
GitHub and Slack tokens, API keys). Exits 1 when anything is found.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanFiles, "files", nil,
		"explicit file paths to scan instead of changed files")
	scanCmd.Flags().BoolVar(&scanCodebase, "codebase", false,
		"scan the tracked codebase instead of changes")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	mode := git.ModeChanged
	if len(scanFiles) > 0 {
		mode = git.ModePaths
	} else if scanCodebase {
		mode = git.ModeCodebase
	}

	collector, err := git.NewCollector(git.Options{
		RepoPath:      cfg.Git.RepoPath,
		BaseRef:       cfg.Git.BaseBranch,
		Mode:          mode,
		Paths:         scanFiles,
		MaxFileSizeKB: cfg.Review.MaxFileSizeKB,
		Logger:        log,
	})
	if err != nil {
		return &ExitError{Code: exitConfig, Message: err.Error()}
	}

	files, err := collector.Collect(cmd.Context())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No files to scan.")
		return nil
	}

	findings := service.ScanForSecrets(files)
	if len(findings) == 0 {
		fmt.Printf("Scanned %d file(s), no secrets found.\n", len(files))
		return nil
	}

	for i := range findings {
		f := &findings[i]
		fmt.Printf("%s:%d: %s\n", f.FilePath, f.LineNumber, f.Title)
		if f.CodeSnippet != "" {
			fmt.Printf("    %s\n", f.CodeSnippet)
		}
	}
	return &ExitError{Code: exitBlocking,
		Message: fmt.Sprintf("%d potential secret(s) found", len(findings))}
}
