package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/ciciliostudio/viewpoint/internal/logging"
)

// Options configures a Chrome session.
type Options struct {
	Headless      bool
	ChromePath    string
	ScreenshotDir string
	WindowWidth   int
	WindowHeight  int
}

// ChromeDriver drives a single Chrome instance through chromedp. It owns
// the browser lifecycle; Close releases the allocator and all tabs.
type ChromeDriver struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	screenshotDir string
	headless      bool
}

// findChrome attempts to find a Chrome executable in common locations.
func findChrome() (string, error) {
	var paths []string
	switch runtime.GOOS {
	case "darwin":
		paths = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		}
	case "linux":
		paths = []string{
			"google-chrome",
			"google-chrome-stable",
			"chromium",
			"chromium-browser",
		}
	case "windows":
		paths = []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	}

	for _, path := range paths {
		if runtime.GOOS == "darwin" {
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		} else if _, err := exec.LookPath(path); err == nil {
			return path, nil
		}
	}
	if path, err := exec.LookPath("chrome"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("chrome browser not found; install Chrome or Chromium")
}

// NewChromeDriver launches Chrome and returns a driver bound to it.
func NewChromeDriver(opts Options) (*ChromeDriver, error) {
	chromePath := opts.ChromePath
	if chromePath == "" {
		var err error
		chromePath, err = findChrome()
		if err != nil {
			return nil, err
		}
	}
	logging.Info("Using Chrome from: %s", chromePath)

	if opts.WindowWidth == 0 {
		opts.WindowWidth = 1920
	}
	if opts.WindowHeight == 0 {
		opts.WindowHeight = 1080
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = filepath.Join("data", "screenshots")
	}

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(chromePath),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if !opts.Headless {
		execOpts = append(execOpts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		logging.Debug("[chrome] "+format, v...)
	}))

	// Start the browser with the session context itself; a timeout context
	// here would tear down the whole instance when it fired.
	if err := chromedp.Run(ctx); err != nil {
		allocCancel()
		cancel()
		return nil, fmt.Errorf("failed to start Chrome: %w", err)
	}

	return &ChromeDriver{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		ctx:           ctx,
		cancel:        cancel,
		screenshotDir: opts.ScreenshotDir,
		headless:      opts.Headless,
	}, nil
}

// Headless reports whether the session runs without a visible window.
func (d *ChromeDriver) Headless() bool { return d.headless }

// Navigate loads the URL and returns the page title.
func (d *ChromeDriver) Navigate(ctx context.Context, url string) (string, error) {
	runCtx, cancel := d.stepContext(ctx, 30*time.Second)
	defer cancel()

	var title string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Title(&title),
	)
	if err != nil {
		if d.ctx.Err() != nil {
			return "", fmt.Errorf("chrome session closed")
		}
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return title, nil
}

// ExecuteStep performs one interaction. A rejected interaction (element not
// found, not clickable) is reported in the outcome, not as a Go error.
func (d *ChromeDriver) ExecuteStep(ctx context.Context, req StepRequest) (StepOutcome, error) {
	runCtx, cancel := d.stepContext(ctx, 15*time.Second)
	defer cancel()

	outcome := StepOutcome{Status: OutcomeSuccess}

	var action chromedp.Action
	switch req.Action {
	case "click":
		action = chromedp.Click(req.Selector, chromedp.ByQuery)
	case "fill":
		// Clear then rewrite so the field ends up holding exactly the input,
		// and fire the events frameworks listen for.
		action = chromedp.Tasks{
			chromedp.WaitVisible(req.Selector, chromedp.ByQuery),
			chromedp.Focus(req.Selector, chromedp.ByQuery),
			chromedp.Clear(req.Selector, chromedp.ByQuery),
			chromedp.SendKeys(req.Selector, req.Input, chromedp.ByQuery),
			chromedp.Evaluate(fmt.Sprintf(`
				(() => {
					const el = document.querySelector(%q);
					if (el) {
						el.dispatchEvent(new Event('input', { bubbles: true }));
						el.dispatchEvent(new Event('change', { bubbles: true }));
					}
				})()
			`, req.Selector), nil),
		}
	case "type":
		action = chromedp.SendKeys(req.Selector, req.Input, chromedp.ByQuery)
	case "select_option":
		action = chromedp.Tasks{
			chromedp.WaitVisible(req.Selector, chromedp.ByQuery),
			chromedp.SetValue(req.Selector, req.Input, chromedp.ByQuery),
		}
	case "check", "uncheck":
		checked := req.Action == "check"
		action = chromedp.Evaluate(fmt.Sprintf(`
			(() => {
				const el = document.querySelector(%q);
				if (el) {
					el.checked = %t;
					el.dispatchEvent(new Event('change', { bubbles: true }));
				}
			})()
		`, req.Selector, checked), nil)
	case "navigate":
		action = chromedp.Navigate(req.Input)
	case "wait_for_element":
		action = chromedp.WaitVisible(req.Selector, chromedp.ByQuery)
	default:
		return outcome, fmt.Errorf("unsupported action: %s", req.Action)
	}

	if err := chromedp.Run(runCtx, action); err != nil {
		outcome.Status = OutcomeError
		outcome.Message = err.Error()
	} else {
		if req.Wait > 0 {
			if err := chromedp.Run(runCtx, chromedp.Sleep(req.Wait)); err != nil {
				logging.Debug("post-step wait interrupted: %v", err)
			}
		}
		switch req.Action {
		case "fill", "type", "select_option":
			var value string
			if err := chromedp.Run(runCtx, chromedp.Value(req.Selector, &value, chromedp.ByQuery)); err == nil {
				outcome.OutputData = value
			}
		}
	}

	// Screenshot on every step, success or not; a screenshot failure never
	// fails the step.
	if path, err := d.screenshot(runCtx); err == nil {
		outcome.ScreenshotPath = path
	} else {
		logging.Debug("step screenshot failed: %v", err)
	}

	return outcome, nil
}

// GetText reads the text content of the first matching element.
func (d *ChromeDriver) GetText(ctx context.Context, selector string) (string, error) {
	runCtx, cancel := d.stepContext(ctx, 10*time.Second)
	defer cancel()

	var text string
	if err := chromedp.Run(runCtx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", selector, err)
	}
	return text, nil
}

// IsVisible reports whether the first matching element is rendered visible.
func (d *ChromeDriver) IsVisible(ctx context.Context, selector string) (bool, error) {
	runCtx, cancel := d.stepContext(ctx, 10*time.Second)
	defer cancel()

	script := fmt.Sprintf(`
		(() => {
			const el = document.querySelector(%q);
			if (!el) return false;
			const rect = el.getBoundingClientRect();
			const style = window.getComputedStyle(el);
			return rect.width > 0 && rect.height > 0 &&
				style.visibility !== 'hidden' &&
				style.display !== 'none' &&
				style.opacity !== '0';
		})()
	`, selector)

	var visible bool
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &visible)); err != nil {
		return false, fmt.Errorf("failed to check visibility of %s: %w", selector, err)
	}
	return visible, nil
}

// WaitFor blocks until the selector matches a visible element or the
// timeout elapses.
func (d *ChromeDriver) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := d.stepContext(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("timeout waiting for %s: %w", selector, err)
	}
	return nil
}

// Screenshot captures the full page and writes it under the screenshot dir.
func (d *ChromeDriver) Screenshot(ctx context.Context) (string, error) {
	runCtx, cancel := d.stepContext(ctx, 10*time.Second)
	defer cancel()
	return d.screenshot(runCtx)
}

func (d *ChromeDriver) screenshot(runCtx context.Context) (string, error) {
	var buf []byte
	if err := chromedp.Run(runCtx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.screenshotDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(d.screenshotDir, fmt.Sprintf("step_%s.png", uuid.NewString()))
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// stepContext derives a per-call timeout context from both the caller's
// context and the session context, so either side can cancel the call.
func (d *ChromeDriver) stepContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	merged, cancelMerge := mergeContexts(d.ctx, ctx)
	timed, cancelTimeout := context.WithTimeout(merged, timeout)
	return timed, func() {
		cancelTimeout()
		cancelMerge()
	}
}

// mergeContexts returns the session context, cancelled early if the caller
// context ends first. chromedp actions must run on the session context to
// reach the right browser target.
func mergeContexts(session, caller context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(session)
	stop := make(chan struct{})
	go func() {
		select {
		case <-caller.Done():
			cancel()
		case <-stop:
		}
	}()
	return ctx, func() {
		close(stop)
		cancel()
	}
}

// Close releases the browser session and allocator.
func (d *ChromeDriver) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	if d.allocCancel != nil {
		d.allocCancel()
	}
	return nil
}
