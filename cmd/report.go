package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/viewpoint/internal/report"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report <execution-id>",
	Short: "Render a report for a finished run",
	Long: `Render a saved execution into a report file. Formats: html (default),
json, csv.

Examples:
  viewpoint report 2c7e...
  viewpoint report 2c7e... --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "html", "report format (html, json, csv)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	exec, err := openStore().Executions.Load(args[0])
	if err != nil {
		return err
	}

	w := report.NewWriter(vpLoader.Resolve(vpConfig.Data.ReportDir))
	var path string
	switch reportFormat {
	case "html":
		path, err = w.HTML(exec)
	case "json":
		path, err = w.JSON(exec)
	case "csv":
		path, err = w.CSV(exec)
	default:
		return fmt.Errorf("unknown report format %q", reportFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", path)
	return nil
}
