package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sethjchalmers/code-whisperers/internal/core"
	"github.com/sethjchalmers/code-whisperers/internal/history"
	"github.com/sethjchalmers/code-whisperers/internal/service"
)

var (
	historyLimit    int
	historyOutput   string
	historyOlderDay int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past review runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Re-render a stored review report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention window",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to list")
	historyShowCmd.Flags().StringVarP(&historyOutput, "output", "o", "markdown",
		"output format: markdown, json or text")
	historyPruneCmd.Flags().IntVar(&historyOlderDay, "older-than", 30,
		"delete runs older than this many days")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.Report.HistoryPath)
	if err != nil {
		return nil, &ExitError{Code: exitConfig, Message: err.Error()}
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No review runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tWHEN\tSTATUS\tMODEL\tFILES\tFINDINGS\tCRIT\tHIGH\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\t%d\t%d\t%d\t%d\t%.1fs\n",
			shortRunID(r.RunID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Status, r.Provider, r.Model,
			r.Files, r.Findings, r.Critical, r.High, r.DurationS)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// The list command shows truncated IDs; accept a unique prefix.
	runID, err := store.ResolvePrefix(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	result, err := store.Get(cmd.Context(), runID)
	if err != nil {
		return err
	}
	return service.NewReportAssembler().Render(os.Stdout, result,
		core.ReportFormat(historyOutput))
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cutoff := time.Now().AddDate(0, 0, -historyOlderDay)
	deleted, err := store.Prune(cmd.Context(), cutoff)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d run(s) older than %s\n", deleted, cutoff.Format("2006-01-02"))
	return nil
}

// shortRunID trims UUIDs for table display; show accepts the prefix.
func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
