// Package cmd implements the whisper CLI.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sethjchalmers/code-whisperers/internal/config"
	"github.com/sethjchalmers/code-whisperers/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	quiet     bool

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Exit codes: 1 means blocking findings or run failure, 2 means the
// configuration was unusable before any review started.
const (
	exitBlocking = 1
	exitConfig   = 2
)

var rootCmd = &cobra.Command{
	Use:   "whisper",
	Short: "Multi-agent AI code review orchestrator",
	Long: `whisper runs a panel of domain-expert AI reviewers (Terraform, Python,
security, cost, Kubernetes, Jenkins, AWS, clean code) over your changes,
consolidates their findings, and flags anything that should block a merge.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion injects build-time version info.
func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .whisper/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format (auto, text, json)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-essential output")
}

// loadConfig builds the effective configuration with flag overrides bound
// through viper so precedence is flags > env > file > defaults.
func loadConfig() (*config.Config, error) {
	v := viper.New()
	if logLevel != "" {
		v.Set("log.level", logLevel)
	}
	if logFormat != "" {
		v.Set("log.format", logFormat)
	}

	loader := config.NewLoaderWithViper(v)
	if cfgFile != "" {
		loader = loader.WithConfigFile(cfgFile)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, &ExitError{Code: exitConfig, Message: err.Error()}
	}
	return cfg, nil
}

// loadValidatedConfig also runs credential validation, the fail-fast class.
func loadValidatedConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, &ExitError{Code: exitConfig, Message: err.Error()}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	lc := logging.DefaultConfig()
	lc.Level = cfg.Log.Level
	lc.Format = cfg.Log.Format
	if quiet {
		lc.Level = "error"
	}
	return logging.New(lc)
}

func versionString() string {
	return fmt.Sprintf("whisper %s (commit %s, built %s)", appVersion, appCommit, appDate)
}
