// Package report renders finished executions into shareable artifacts: a
// standalone HTML page, a JSON export, and a CSV step listing.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

// Writer renders reports for executions into an output directory.
type Writer struct {
	outputDir string
}

// NewWriter returns a report writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

func (w *Writer) file(exec *model.TestExecution, ext string) (string, *os.File, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(w.outputDir, fmt.Sprintf("report_%s.%s", exec.ID, ext))
	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return path, f, nil
}

// HTML writes the HTML report and returns its path.
func (w *Writer) HTML(exec *model.TestExecution) (string, error) {
	path, f, err := w.file(exec, "html")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := RenderHTML(f, exec); err != nil {
		return "", err
	}
	return path, nil
}

// JSON writes the raw execution record as indented JSON and returns its path.
func (w *Writer) JSON(exec *model.TestExecution) (string, error) {
	path, f, err := w.file(exec, "json")
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exec); err != nil {
		return "", fmt.Errorf("failed to encode execution: %w", err)
	}
	return path, nil
}

// CSV writes one row per step and returns the file path.
func (w *Writer) CSV(exec *model.TestExecution) (string, error) {
	path, f, err := w.file(exec, "csv")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := RenderCSV(f, exec); err != nil {
		return "", err
	}
	return path, nil
}

// RenderCSV writes the step listing of an execution as CSV.
func RenderCSV(out io.Writer, exec *model.TestExecution) error {
	cw := csv.NewWriter(out)
	header := []string{"step", "action", "status", "input", "output", "duration_s", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, s := range exec.StepResults {
		row := []string{
			strconv.Itoa(s.StepNumber),
			s.Action,
			string(s.Status),
			s.InputData,
			s.OutputData,
			strconv.FormatFloat(s.Duration, 'f', 3, 64),
			s.ErrorMessage,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderHTML writes the HTML report for an execution.
func RenderHTML(out io.Writer, exec *model.TestExecution) error {
	if err := reportTemplate.Execute(out, exec); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"statusClass": func(s model.TestStatus) string { return string(s) },
	"seconds":     func(d float64) string { return fmt.Sprintf("%.2fs", d) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Test Report: {{.TestCaseName}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
  h1 { font-size: 1.4rem; }
  .summary { display: flex; gap: 1.5rem; margin: 1rem 0; }
  .summary div { padding: 0.6rem 1rem; border-radius: 6px; background: #f4f4f4; }
  .badge { display: inline-block; padding: 0.15rem 0.6rem; border-radius: 4px; color: #fff; font-size: 0.85rem; }
  .badge.passed { background: #2e8540; }
  .badge.failed { background: #c62828; }
  .badge.error { background: #e65100; }
  .badge.skipped, .badge.pending, .badge.running { background: #757575; }
  table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
  th, td { text-align: left; padding: 0.4rem 0.7rem; border-bottom: 1px solid #ddd; font-size: 0.9rem; }
  details { margin: 0.2rem 0; }
  .assertion-fail { color: #c62828; }
  .assertion-pass { color: #2e8540; }
  .err { color: #c62828; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>{{.TestCaseName}} <span class="badge {{statusClass .Status}}">{{.Status}}</span></h1>
<p>Execution {{.ID}} &middot; started {{.StartTime.Format "2006-01-02 15:04:05 MST"}} &middot; {{seconds .Duration}}</p>
{{if .ErrorMessage}}<p class="err">{{.ErrorMessage}}</p>{{end}}
<div class="summary">
  <div>Total steps: <strong>{{.TotalSteps}}</strong></div>
  <div>Passed: <strong>{{.PassedSteps}}</strong></div>
  <div>Failed: <strong>{{.FailedSteps}}</strong></div>
</div>
<table>
  <tr><th>#</th><th>Action</th><th>Status</th><th>Input</th><th>Output</th><th>Duration</th><th>Assertions</th></tr>
  {{range .StepResults}}
  <tr>
    <td>{{.StepNumber}}</td>
    <td>{{.Action}}</td>
    <td><span class="badge {{statusClass .Status}}">{{.Status}}</span></td>
    <td>{{.InputData}}</td>
    <td>{{.OutputData}}</td>
    <td>{{seconds .Duration}}</td>
    <td>
      {{if .Assertions}}
      <details>
        <summary>{{len .Assertions}} checks</summary>
        <ul>
          {{range .Assertions}}
          <li class="{{if .Passed}}assertion-pass{{else}}assertion-fail{{end}}">{{.AssertionType}}: {{.Message}}</li>
          {{end}}
        </ul>
      </details>
      {{end}}
      {{if .ErrorMessage}}<div class="err">{{.ErrorMessage}}</div>{{end}}
    </td>
  </tr>
  {{end}}
</table>
</body>
</html>
`))
