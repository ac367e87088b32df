package model

import (
	"time"

	"github.com/google/uuid"
)

// TestStatus is the lifecycle state of a step or a whole run.
type TestStatus string

const (
	StatusPending TestStatus = "pending"
	StatusRunning TestStatus = "running"
	StatusPassed  TestStatus = "passed"
	StatusFailed  TestStatus = "failed"
	StatusSkipped TestStatus = "skipped"
	StatusError   TestStatus = "error"
)

// Terminal reports whether the status is a final verdict.
func (s TestStatus) Terminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped, StatusError:
		return true
	}
	return false
}

// AssertionResult records the outcome of one assertion check.
type AssertionResult struct {
	AssertionType string  `json:"assertion_type"`
	ExpectedValue string  `json:"expected_value"`
	ActualValue   string  `json:"actual_value"`
	Passed        bool    `json:"passed"`
	Message       string  `json:"message,omitempty"`
	ExecutionTime float64 `json:"execution_time"`
}

// TestStepResult records one executed data row: the action taken, its
// status, captured input/output, and the assertion outcomes in order.
type TestStepResult struct {
	StepID         string            `json:"step_id"`
	StepNumber     int               `json:"step_number"`
	Action         string            `json:"action"`
	Status         TestStatus        `json:"status"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time,omitempty"`
	Duration       float64           `json:"duration"`
	InputData      string            `json:"input_data,omitempty"`
	OutputData     string            `json:"output_data,omitempty"`
	Assertions     []AssertionResult `json:"assertions,omitempty"`
	ErrorMessage   string            `json:"error_message,omitempty"`
	ScreenshotPath string            `json:"screenshot_path,omitempty"`
}

// Finalize stamps the end time and derives the duration. It is safe to call
// on every exit path; the last call wins.
func (r *TestStepResult) Finalize(end time.Time) {
	r.EndTime = end
	if !r.StartTime.IsZero() && end.After(r.StartTime) {
		r.Duration = end.Sub(r.StartTime).Seconds()
	}
}

// TestExecution is the record of one run of a test case. It starts Running,
// accumulates step results, then is finalized to Passed/Failed/Error and
// never mutated again.
type TestExecution struct {
	ID           string            `json:"id"`
	TestCaseID   string            `json:"test_case_id"`
	TestCaseName string            `json:"test_case_name"`
	Status       TestStatus        `json:"status"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time,omitempty"`
	Duration     float64           `json:"duration"`
	StepResults  []TestStepResult  `json:"step_results"`
	TotalSteps   int               `json:"total_steps"`
	PassedSteps  int               `json:"passed_steps"`
	FailedSteps  int               `json:"failed_steps"`
	ErrorMessage string            `json:"error_message,omitempty"`
	BrowserInfo  map[string]string `json:"browser_info,omitempty"`
	Environment  map[string]string `json:"environment_info,omitempty"`
}

// NewExecution constructs a Running execution for the given case.
func NewExecution(caseID, caseName string) *TestExecution {
	return &TestExecution{
		ID:           uuid.NewString(),
		TestCaseID:   caseID,
		TestCaseName: caseName,
		Status:       StatusRunning,
		StartTime:    Now(),
		BrowserInfo:  map[string]string{},
		Environment:  map[string]string{},
	}
}

// CalculateSummary recomputes the derived step counters and run duration
// from the recorded step results.
func (e *TestExecution) CalculateSummary() {
	e.TotalSteps = len(e.StepResults)
	e.PassedSteps = 0
	e.FailedSteps = 0
	for _, s := range e.StepResults {
		switch s.Status {
		case StatusPassed:
			e.PassedSteps++
		case StatusFailed:
			e.FailedSteps++
		}
	}
	if !e.EndTime.IsZero() && e.EndTime.After(e.StartTime) {
		e.Duration = e.EndTime.Sub(e.StartTime).Seconds()
	}
}

// Aggregate derives the run verdict from the step results: any Failed step
// fails the run, otherwise any Error step errors it, otherwise it passed.
func (e *TestExecution) Aggregate() TestStatus {
	hasError := false
	for _, s := range e.StepResults {
		switch s.Status {
		case StatusFailed:
			return StatusFailed
		case StatusError:
			hasError = true
		}
	}
	if hasError {
		return StatusError
	}
	return StatusPassed
}
