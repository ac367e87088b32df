package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ciciliostudio/viewpoint/internal/browser"
	"github.com/ciciliostudio/viewpoint/internal/generator"
	"github.com/ciciliostudio/viewpoint/internal/model"
	"github.com/ciciliostudio/viewpoint/internal/store"
)

// fakeDriver scripts the page's behavior per step number.
type fakeDriver struct {
	steps       int
	navigateErr error
	// stepHook decides the outcome of the nth ExecuteStep call (1-based).
	stepHook func(n int, req browser.StepRequest) (browser.StepOutcome, error)
	closed   bool
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) (string, error) {
	if f.navigateErr != nil {
		return "", f.navigateErr
	}
	return "Fake Page", nil
}

func (f *fakeDriver) ParseStructure(ctx context.Context, url string) (*model.PageStructure, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDriver) ExecuteStep(ctx context.Context, req browser.StepRequest) (browser.StepOutcome, error) {
	f.steps++
	if f.stepHook != nil {
		return f.stepHook(f.steps, req)
	}
	// Default: the page accepts the input and echoes it back.
	return browser.StepOutcome{Status: browser.OutcomeSuccess, OutputData: req.Input}, nil
}

func (f *fakeDriver) GetText(ctx context.Context, selector string) (string, error) {
	// No error banners on the fake page.
	return "", errors.New("no matching element")
}

func (f *fakeDriver) IsVisible(ctx context.Context, selector string) (bool, error) {
	return true, nil
}

func (f *fakeDriver) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

func (f *fakeDriver) Close() error {
	f.closed = true
	return nil
}

func newTestRunner(t *testing.T, driver *fakeDriver, driverErr error) (*Runner, *store.Store) {
	t.Helper()
	st := store.New(t.TempDir())
	r := New(st, func(ctx context.Context) (browser.PageDriver, error) {
		if driverErr != nil {
			return nil, driverErr
		}
		return driver, nil
	})
	return r, st
}

func saveCase(t *testing.T, st *store.Store, nodeIDs ...string) *model.TestCase {
	t.Helper()
	structure := &model.PageStructure{
		ID:  "s1",
		URL: "https://example.com/form",
		Nodes: []model.PageNode{
			{ID: "element_1", Type: model.NodeInput, TagName: "input", Attributes: map[string]string{"type": "email", "id": "email"}, CSSSelector: "#email", IsInteractive: true},
			{ID: "element_2", Type: model.NodeCheckbox, TagName: "input", Attributes: map[string]string{"type": "checkbox", "id": "terms"}, CSSSelector: "#terms", IsInteractive: true},
		},
	}
	tc, err := generator.Synthesize(structure, nodeIDs, "form case", model.TestFunctional, model.PriorityMedium, "")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if err := st.Cases.Save(tc); err != nil {
		t.Fatalf("save case: %v", err)
	}
	return tc
}

func TestRunCaseAllPass(t *testing.T) {
	driver := &fakeDriver{}
	r, st := newTestRunner(t, driver, nil)
	tc := saveCase(t, st, "element_2") // checkbox: single basic viewpoint, one row

	exec, err := r.RunCase(context.Background(), tc.ID)
	if err != nil {
		t.Fatalf("RunCase: %v", err)
	}
	if exec.Status != model.StatusPassed {
		t.Errorf("status = %s, want passed", exec.Status)
	}
	if exec.TotalSteps != 1 || exec.PassedSteps != 1 {
		t.Errorf("summary: total=%d passed=%d", exec.TotalSteps, exec.PassedSteps)
	}
	if !driver.closed {
		t.Error("driver must be closed after the run")
	}

	// The execution is persisted.
	saved, err := st.Executions.Load(exec.ID)
	if err != nil {
		t.Fatalf("load execution: %v", err)
	}
	if saved.Status != model.StatusPassed {
		t.Errorf("persisted status = %s", saved.Status)
	}
}

func TestRunCaseStopsAtFirstFailure(t *testing.T) {
	driver := &fakeDriver{
		stepHook: func(n int, req browser.StepRequest) (browser.StepOutcome, error) {
			if n == 2 {
				return browser.StepOutcome{Status: browser.OutcomeError, Message: "element rejected input"}, nil
			}
			return browser.StepOutcome{Status: browser.OutcomeSuccess, OutputData: req.Input}, nil
		},
	}
	r, st := newTestRunner(t, driver, nil)
	tc := saveCase(t, st, "element_1") // email input: 25 rows across 4 viewpoints

	exec, err := r.RunCase(context.Background(), tc.ID)
	if err != nil {
		t.Fatalf("RunCase: %v", err)
	}
	if exec.Status != model.StatusFailed {
		t.Errorf("status = %s, want failed", exec.Status)
	}
	if len(exec.StepResults) != 2 {
		t.Fatalf("recorded %d steps, want 2 (run must stop at the failure)", len(exec.StepResults))
	}
	last := exec.StepResults[1]
	if last.Status != model.StatusFailed || last.ErrorMessage != "element rejected input" {
		t.Errorf("failing step wrong: %+v", last)
	}
	if driver.steps != 2 {
		t.Errorf("driver saw %d steps, want 2", driver.steps)
	}
}

func TestRunCaseStopsAtStepError(t *testing.T) {
	driver := &fakeDriver{
		stepHook: func(n int, req browser.StepRequest) (browser.StepOutcome, error) {
			return browser.StepOutcome{}, errors.New("session lost")
		},
	}
	r, st := newTestRunner(t, driver, nil)
	tc := saveCase(t, st, "element_1")

	exec, err := r.RunCase(context.Background(), tc.ID)
	if err != nil {
		t.Fatalf("RunCase: %v", err)
	}
	if exec.Status != model.StatusError {
		t.Errorf("status = %s, want error", exec.Status)
	}
	if len(exec.StepResults) != 1 {
		t.Fatalf("recorded %d steps, want 1", len(exec.StepResults))
	}
	if exec.StepResults[0].Status != model.StatusError {
		t.Errorf("step status = %s", exec.StepResults[0].Status)
	}
}

func TestRunCaseDriverStartFailure(t *testing.T) {
	r, st := newTestRunner(t, nil, fmt.Errorf("chrome not found"))
	tc := saveCase(t, st, "element_1")

	exec, err := r.RunCase(context.Background(), tc.ID)
	if err != nil {
		t.Fatalf("RunCase: %v", err)
	}
	if exec.Status != model.StatusError {
		t.Errorf("status = %s, want error", exec.Status)
	}
	if len(exec.StepResults) != 0 {
		t.Errorf("setup failure must record zero steps, got %d", len(exec.StepResults))
	}
	if exec.ErrorMessage == "" {
		t.Error("expected error message on the run")
	}
}

func TestRunCaseNavigateFailure(t *testing.T) {
	driver := &fakeDriver{navigateErr: errors.New("connection refused")}
	r, st := newTestRunner(t, driver, nil)
	tc := saveCase(t, st, "element_1")

	exec, err := r.RunCase(context.Background(), tc.ID)
	if err != nil {
		t.Fatalf("RunCase: %v", err)
	}
	if exec.Status != model.StatusError || len(exec.StepResults) != 0 {
		t.Errorf("status=%s steps=%d, want error with zero steps", exec.Status, len(exec.StepResults))
	}
	if !driver.closed {
		t.Error("driver must be closed even when navigation fails")
	}
}

func TestRunCaseUnknownCase(t *testing.T) {
	r, _ := newTestRunner(t, &fakeDriver{}, nil)
	if _, err := r.RunCase(context.Background(), "no-such-case"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSelectorFor(t *testing.T) {
	tests := []struct {
		name string
		node *model.PageNode
		want string
	}{
		{"nil node", nil, ""},
		{"id attribute wins", &model.PageNode{Attributes: map[string]string{"id": "email"}, CSSSelector: "form input", XPath: "//input"}, "#email"},
		{"css fallback", &model.PageNode{Attributes: map[string]string{}, CSSSelector: "form input", XPath: "//input"}, "form input"},
		{"xpath last", &model.PageNode{Attributes: map[string]string{}, XPath: "//input"}, "//input"},
		{"nothing", &model.PageNode{Attributes: map[string]string{}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectorFor(tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
