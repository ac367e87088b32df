// Package runner executes generated test cases against a live page through
// a PageDriver and records a TestExecution for every run, including runs
// that die during setup.
package runner

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ciciliostudio/viewpoint/internal/assertion"
	"github.com/ciciliostudio/viewpoint/internal/browser"
	"github.com/ciciliostudio/viewpoint/internal/generator"
	"github.com/ciciliostudio/viewpoint/internal/logging"
	"github.com/ciciliostudio/viewpoint/internal/model"
	"github.com/ciciliostudio/viewpoint/internal/store"
)

// Selectors probed for page-level error messages after each step.
const errorMessageSelector = ".error, .error-message, .alert-danger, [role='alert'], .field-error, .validation-error"

// Runner drives one test case at a time. A fresh driver session is opened
// per run and closed unconditionally when the run ends.
type Runner struct {
	Store     *store.Store
	NewDriver func(ctx context.Context) (browser.PageDriver, error)
}

// New constructs a runner over the given store and driver factory.
func New(st *store.Store, newDriver func(ctx context.Context) (browser.PageDriver, error)) *Runner {
	return &Runner{Store: st, NewDriver: newDriver}
}

// RunCase loads the case, executes its viewpoints in order, and persists the
// resulting execution. The first Failed or Error step stops the run; the
// remaining rows are never driven. Setup failures (driver start, initial
// navigation) produce an Error run with zero steps. The returned error
// covers load and persistence problems only; test verdicts live on the
// execution record.
func (r *Runner) RunCase(ctx context.Context, caseID string) (*model.TestExecution, error) {
	tc, err := r.Store.Cases.Load(caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test case: %w", err)
	}

	exec := model.NewExecution(tc.ID, tc.Name)
	exec.Environment["page_url"] = tc.PageURL
	logging.Info("run %s: starting case %q (%d viewpoints, %d rows)", exec.ID, tc.Name, len(tc.Viewpoints), tc.TestDataCount())

	driver, err := r.NewDriver(ctx)
	if err != nil {
		return r.finishError(exec, fmt.Sprintf("failed to start browser: %v", err))
	}
	defer driver.Close()

	title, err := driver.Navigate(ctx, tc.PageURL)
	if err != nil {
		return r.finishError(exec, fmt.Sprintf("failed to open %s: %v", tc.PageURL, err))
	}
	exec.BrowserInfo["page_title"] = title

	stepNum := 0
loop:
	for i := range tc.Viewpoints {
		vp := &tc.Viewpoints[i]
		for j := range vp.TestDataList {
			stepNum++
			step := r.executeStep(ctx, driver, vp, &vp.TestDataList[j], stepNum)
			exec.StepResults = append(exec.StepResults, step)
			logging.Info("run %s: step %d [%s] %s", exec.ID, stepNum, step.Action, step.Status)
			if step.Status == model.StatusFailed || step.Status == model.StatusError {
				break loop
			}
		}
	}

	exec.EndTime = model.Now()
	exec.Status = exec.Aggregate()
	exec.CalculateSummary()
	if err := r.Store.Executions.Save(exec); err != nil {
		return exec, fmt.Errorf("failed to save execution: %w", err)
	}
	logging.Info("run %s: finished %s (%d/%d passed)", exec.ID, exec.Status, exec.PassedSteps, exec.TotalSteps)
	return exec, nil
}

// finishError closes out a run that never got to its first step.
func (r *Runner) finishError(exec *model.TestExecution, msg string) (*model.TestExecution, error) {
	logging.Error("run %s: %s", exec.ID, msg)
	exec.Status = model.StatusError
	exec.ErrorMessage = msg
	exec.EndTime = model.Now()
	exec.CalculateSummary()
	if err := r.Store.Executions.Save(exec); err != nil {
		return exec, fmt.Errorf("failed to save execution: %w", err)
	}
	return exec, nil
}

// executeStep drives one data row and evaluates its assertion checklist.
// Assertions run in order and stop at the first failure.
func (r *Runner) executeStep(ctx context.Context, driver browser.PageDriver, vp *model.TestViewpoint, td *model.TestData, num int) model.TestStepResult {
	action := generator.ActionForViewpoint(vp.TargetNode.Type, vp.Strategy)
	step := model.TestStepResult{
		StepID:     uuid.NewString(),
		StepNumber: num,
		Action:     action,
		Status:     model.StatusRunning,
		StartTime:  model.Now(),
		InputData:  td.InputValue,
	}

	selector := selectorFor(vp.TargetNode)
	if selector == "" {
		step.Status = model.StatusError
		step.ErrorMessage = fmt.Sprintf("node %s has no usable selector", vp.TargetNode.ID)
		step.Finalize(model.Now())
		return step
	}

	var outcome browser.StepOutcome
	if generator.Driveable(action) {
		var err error
		outcome, err = driver.ExecuteStep(ctx, browser.StepRequest{
			Action:   action,
			Selector: selector,
			Input:    td.InputValue,
		})
		if err != nil {
			step.Status = model.StatusError
			step.ErrorMessage = fmt.Sprintf("step execution failed: %v", err)
			step.Finalize(model.Now())
			return step
		}
		step.OutputData = outcome.OutputData
		step.ScreenshotPath = outcome.ScreenshotPath
		if outcome.Status != browser.OutcomeSuccess {
			step.Status = model.StatusFailed
			step.ErrorMessage = outcome.Message
			step.Finalize(model.Now())
			return step
		}
	}

	for _, spec := range td.Assertions {
		actual := r.actualFor(ctx, driver, selector, spec, action, outcome)
		res := assertion.Evaluate(spec.Name, actual, td.ExpectedValue, "", spec.Params)
		step.Assertions = append(step.Assertions, res)
		if !res.Passed {
			step.Status = model.StatusFailed
			step.ErrorMessage = res.Message
			step.Finalize(model.Now())
			return step
		}
	}

	step.Status = model.StatusPassed
	step.Finalize(model.Now())
	return step
}

// actualFor observes the value an assertion should judge. Observation is
// best effort; a value that cannot be read becomes its zero form and the
// assertion decides.
func (r *Runner) actualFor(ctx context.Context, driver browser.PageDriver, selector string, spec model.AssertionSpec, action string, outcome browser.StepOutcome) string {
	switch spec.Name {
	case "element_visible", "image_loaded":
		visible, err := driver.IsVisible(ctx, selector)
		return strconv.FormatBool(err == nil && visible)
	case "element_enabled", "element_clickable":
		// The step already interacted with the element, so these held.
		return "true"
	case "page_navigated":
		timeout := time.Duration(paramMillis(spec.Params, "timeout", 5000)) * time.Millisecond
		return strconv.FormatBool(driver.WaitFor(ctx, "body", timeout) == nil)
	case "checkbox_checked":
		return strconv.FormatBool(action == generator.ActionCheck)
	case "text_equals", "text_contains":
		text, err := driver.GetText(ctx, selector)
		if err != nil {
			return ""
		}
		return text
	case "no_error_message":
		return r.errorMessageText(ctx, driver)
	default:
		return outcome.OutputData
	}
}

// errorMessageText probes the page for a visible error message. An absent
// element is the normal case and reads as empty.
func (r *Runner) errorMessageText(ctx context.Context, driver browser.PageDriver) string {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	text, err := driver.GetText(probeCtx, errorMessageSelector)
	if err != nil {
		return ""
	}
	return text
}

// selectorFor resolves the locator for a node: id first, then the recorded
// CSS selector, then XPath.
func selectorFor(n *model.PageNode) string {
	if n == nil {
		return ""
	}
	if id := n.Attr("id", ""); id != "" {
		return "#" + id
	}
	if n.CSSSelector != "" {
		return n.CSSSelector
	}
	return n.XPath
}

func paramMillis(params map[string]string, key string, def int) int {
	if v, ok := params[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
