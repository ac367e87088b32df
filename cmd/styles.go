package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	passedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))

	failedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F87"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAF00"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// renderStatus colors a status for terminal output.
func renderStatus(s model.TestStatus) string {
	switch s {
	case model.StatusPassed:
		return passedStyle.Render(string(s))
	case model.StatusFailed:
		return failedStyle.Render(string(s))
	case model.StatusError:
		return errorStyle.Render(string(s))
	default:
		return dimStyle.Render(string(s))
	}
}

// printVerdict prints the one-screen summary of a finished run.
func printVerdict(exec *model.TestExecution) {
	fmt.Println(headerStyle.Render(fmt.Sprintf(" %s ", exec.TestCaseName)))
	fmt.Printf("Execution %s: %s\n", exec.ID, renderStatus(exec.Status))
	fmt.Printf("Steps: %d total, %d passed, %d failed (%.2fs)\n",
		exec.TotalSteps, exec.PassedSteps, exec.FailedSteps, exec.Duration)
	if exec.ErrorMessage != "" {
		fmt.Println(errorStyle.Render("Error: " + exec.ErrorMessage))
	}
	for _, step := range exec.StepResults {
		if step.Status == model.StatusPassed {
			continue
		}
		fmt.Printf("  step %d [%s]: %s", step.StepNumber, step.Action, renderStatus(step.Status))
		if step.ErrorMessage != "" {
			fmt.Printf(" %s", dimStyle.Render(step.ErrorMessage))
		}
		fmt.Println()
	}
}
