// Package browser implements the page driver capability: live Chrome
// control through chromedp, DOM extraction into typed page nodes, and an
// offline HTML extraction path.
package browser

import (
	"context"
	"time"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

// StepRequest describes one drive-able interaction against the page.
type StepRequest struct {
	Action   string
	Selector string
	Input    string
	Wait     time.Duration
}

// StepOutcome is the driver's report for an executed step. Status "error"
// means the page disagreed with the request (element missing, interaction
// rejected); transport or session failures surface as Go errors instead.
type StepOutcome struct {
	Status         string
	Message        string
	OutputData     string
	ScreenshotPath string
}

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// PageDriver is the capability the execution engine drives. One driver owns
// one browser session; Close releases it unconditionally.
type PageDriver interface {
	// Navigate loads the URL and returns the page title.
	Navigate(ctx context.Context, url string) (string, error)
	// ParseStructure extracts the page's testable nodes into a structure.
	ParseStructure(ctx context.Context, url string) (*model.PageStructure, error)
	// ExecuteStep performs one interaction and captures its outcome.
	ExecuteStep(ctx context.Context, req StepRequest) (StepOutcome, error)
	// GetText reads the text content of the first element matching selector.
	GetText(ctx context.Context, selector string) (string, error)
	// IsVisible reports whether the first matching element is visible.
	IsVisible(ctx context.Context, selector string) (bool, error)
	// WaitFor blocks until the selector matches a visible element or the
	// timeout elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// Close tears down the browser session.
	Close() error
}
