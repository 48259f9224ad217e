package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sethjchalmers/code-whisperers/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration to .whisper/config.yaml",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false,
		"overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = filepath.Join(".whisper", "config.yaml")
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return &ExitError{Code: exitConfig,
			Message: fmt.Sprintf("%s already exists (use --force to overwrite)", path)}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(config.DefaultConfigYAML), 0o644); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Set an API key (e.g. WHISPER_LLM_GITHUB_TOKEN) and run `whisper review`.")
	return nil
}
