package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/viewpoint/internal/logging"
	"github.com/ciciliostudio/viewpoint/internal/model"
	"github.com/ciciliostudio/viewpoint/internal/runner"
)

var runAll bool

var runCmd = &cobra.Command{
	Use:   "run [case-id]",
	Short: "Execute a test case against a live browser",
	Long: `Execute a generated test case against a live browser session. Each
data row drives its element and evaluates its assertion checklist; the run
stops at the first failed or errored step.

Examples:
  viewpoint run 8a93...
  viewpoint run --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runAll, "all", false, "run every saved case")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if !runAll && len(args) == 0 {
		return fmt.Errorf("provide a case id or --all")
	}

	st := openStore()
	r := runner.New(st, newDriver)

	hist, err := openHistory()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer hist.Close()

	var caseIDs []string
	if runAll {
		cases, err := st.Cases.List()
		if err != nil {
			return err
		}
		if len(cases) == 0 {
			fmt.Println("No test cases to run.")
			return nil
		}
		for _, c := range cases {
			caseIDs = append(caseIDs, c.ID)
		}
	} else {
		caseIDs = args
	}

	failed := 0
	for _, id := range caseIDs {
		exec, err := r.RunCase(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := hist.Record(exec); err != nil {
			logging.Warn("failed to record run %s in history: %v", exec.ID, err)
		}
		printVerdict(exec)
		fmt.Println()
		if exec.Status != model.StatusPassed {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d case(s) did not pass", failed, len(caseIDs))
	}
	return nil
}
