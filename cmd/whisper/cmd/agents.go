package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sethjchalmers/code-whisperers/internal/agents"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the configured expert agents",
	Long: `Agents prints the effective agent panel: the built-in experts with any
overrides from .whisper/agents.yaml applied. Disabled agents are shown so
overlay mistakes are visible.`,
	RunE: runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lite := cfg.Review.LitePrompts || cfg.LLM.Provider == "ollama"
	descriptors := agents.Builtin(lite)

	overlayPath := filepath.Join(cfg.Git.RepoPath, ".whisper", "agents.yaml")
	overlay, err := agents.LoadOverlay(overlayPath)
	if err != nil {
		return &ExitError{Code: exitConfig, Message: err.Error()}
	}
	if overlay != nil {
		descriptors, err = overlay.Apply(descriptors)
		if err != nil {
			return &ExitError{Code: exitConfig, Message: err.Error()}
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRIORITY\tENABLED\tPATTERNS\tDESCRIPTION")
	for _, d := range descriptors {
		patterns := strings.Join(d.FilePatterns, ",")
		if len(patterns) > 40 {
			patterns = patterns[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%d\t%t\t%s\t%s\n",
			d.Name, d.Priority, d.Enabled, patterns, d.Description)
	}
	return w.Flush()
}
