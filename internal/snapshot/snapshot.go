package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const noticeScript = `(() => { const n = document.getElementById('notice'); return n ? n.textContent.trim() : ''; })()`

// Options controls the headless browser used for snapshots
type Options struct {
	// Headless runs the browser without a window
	Headless bool
	// Timeout bounds the whole capture including browser start up
	Timeout time.Duration
	// WaitSelector must be visible before the page is captured
	WaitSelector string
	// Quality of the screenshot; 100 captures PNG, lower values JPEG
	Quality int
	// UserAgent to send; empty keeps the browser default
	UserAgent string
	// ViewportWidth sets the browser window width
	ViewportWidth int
	// ViewportHeight sets the browser window height
	ViewportHeight int
	// DebugMode enables browser logging
	DebugMode bool
}

// DefaultOptions waits for the trips table of the web dashboard
func DefaultOptions() Options {
	return Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		WaitSelector:   "#trips",
		Quality:        100,
		ViewportWidth:  1440,
		ViewportHeight: 900,
	}
}

// Result is a captured dashboard page
type Result struct {
	Image []byte
	// Notice is the failure notification shown on the page, if any
	Notice string
}

// Capturer takes screenshots of the web dashboard with a headless browser
type Capturer struct {
	opts   Options
	logger *slog.Logger
}

// NewCapturer creates a capturer. Zero fields in opts take their defaults.
func NewCapturer(opts Options, logger *slog.Logger) *Capturer {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.WaitSelector == "" {
		opts.WaitSelector = defaults.WaitSelector
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = defaults.Quality
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = defaults.ViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = defaults.ViewportHeight
	}
	return &Capturer{opts: opts, logger: logger}
}

// Capture opens pageURL, waits for the trips table and takes a full page
// screenshot
func (c *Capturer) Capture(ctx context.Context, pageURL string) (*Result, error) {
	if err := validateURL(pageURL); err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	timeoutCtx, cancel := context.WithTimeout(browserCtx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	result := &Result{}
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(c.opts.WaitSelector, chromedp.ByQuery),
		chromedp.Evaluate(noticeScript, &result.Notice),
		chromedp.FullScreenshot(&result.Image, c.opts.Quality),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot of %s failed: %w", pageURL, err)
	}

	c.logger.Info("Captured dashboard snapshot",
		"url", pageURL,
		"bytes", len(result.Image),
		"duration", time.Since(start))
	if result.Notice != "" {
		c.logger.Warn("Dashboard page shows a notice", "notice", result.Notice)
	}

	return result, nil
}

// allocatorOptions builds Chrome allocator options from the capture options
func (c *Capturer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.WindowSize(c.opts.ViewportWidth, c.opts.ViewportHeight),
		chromedp.NoSandbox, // Often needed in containers
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	}

	if c.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.opts.UserAgent))
	}

	if c.opts.Headless {
		opts = append(opts, chromedp.Headless)
	}

	if c.opts.DebugMode {
		opts = append(opts, chromedp.Flag("enable-logging", true))
		opts = append(opts, chromedp.Flag("log-level", "0"))
	}

	return opts
}

func validateURL(pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("invalid dashboard URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid dashboard URL %q: scheme must be http or https", pageURL)
	}
	if strings.TrimSpace(u.Host) == "" {
		return fmt.Errorf("invalid dashboard URL %q: missing host", pageURL)
	}
	return nil
}

// ValidateChromeAvailable checks that a Chrome or Chromium binary can be started
func ValidateChromeAvailable(ctx context.Context) error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	testCtx, testCancel := context.WithTimeout(browserCtx, 10*time.Second)
	defer testCancel()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		return fmt.Errorf("Chrome/Chromium not available or not working: %w", err)
	}
	return nil
}
