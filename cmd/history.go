package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/viewpoint/internal/history"
)

var (
	historyCase  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past runs",
	Long: `Show past runs, newest first. With --case, only runs of that test
case are listed.`,
	RunE: runHistory,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := openHistory()
		if err != nil {
			return err
		}
		defer hist.Close()

		s, err := hist.Summarize()
		if err != nil {
			return err
		}
		fmt.Printf("Runs: %d total\n", s.TotalRuns)
		fmt.Printf("  %s %d\n", passedStyle.Render("passed"), s.Passed)
		fmt.Printf("  %s %d\n", failedStyle.Render("failed"), s.Failed)
		fmt.Printf("  %s  %d\n", errorStyle.Render("error"), s.Errored)
		fmt.Printf("Success rate: %.1f%%\n", s.SuccessRate)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyCase, "case", "", "only show runs of this test case")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
	historyCmd.AddCommand(historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer hist.Close()

	var entries []history.Entry
	if historyCase != "" {
		entries, err = hist.ForCase(historyCase)
	} else {
		entries, err = hist.List(historyLimit)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-30s %s  %d/%d passed  %6.2fs  %s\n",
			e.ExecutionID, truncate(e.TestCaseName, 30), renderStatus(e.Status),
			e.PassedSteps, e.TotalSteps, e.Duration,
			dimStyle.Render(e.StartedAt.Format("2006-01-02 15:04")))
	}
	return nil
}
