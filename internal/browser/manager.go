package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/config"
	"github.com/nbenliogludev/webmancer/internal/page"
)

// Navigation wait conditions.
const (
	LoadStateLoad             = "load"
	LoadStateDomcontentloaded = "domcontentloaded"
	LoadStateNetworkidle      = "networkidle"
	LoadStateCommit           = "commit"
)

var (
	ErrNotStarted  = errors.New("browser session is not started")
	ErrNoResponse  = errors.New("navigation did not return a response")
	ErrUnsupported = errors.New("unsupported browser type")
)

// StatusError reports a navigation that completed with a status outside
// [200,400).
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("navigation to %s returned status code %d", e.URL, e.Status)
}

// NavigateOptions controls a single navigation. Zero values fall back to the
// configured defaults.
type NavigateOptions struct {
	Timeout   time.Duration
	WaitUntil string
}

// Manager owns the Playwright driver, the browser and its single page.
type Manager struct {
	cfg    config.BrowserConfig
	logger *zap.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

func NewManager(cfg config.BrowserConfig, logger *zap.Logger) *Manager {
	return &Manager{cfg: cfg, logger: logger.Named("session")}
}

// Started reports whether a page is available.
func (m *Manager) Started() bool {
	return m.page != nil
}

// Start installs the driver if needed and opens a fresh browser, context
// and page. Starting an already started manager is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	if m.Started() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := &playwright.RunOptions{
		Browsers: []string{m.cfg.Type},
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("install pw failed: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("start pw failed: %w", err)
	}

	bt, err := browserType(pw, m.cfg.Type)
	if err != nil {
		_ = pw.Stop()
		return err
	}

	b, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch %s: %w", m.cfg.Type, err)
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: m.cfg.ViewportWidth, Height: m.cfg.ViewportHeight},
	})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create context: %w", err)
	}

	p, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = b.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create page: %w", err)
	}
	if m.cfg.DefaultTimeout > 0 {
		p.SetDefaultTimeout(float64(m.cfg.DefaultTimeout.Milliseconds()))
	}

	m.pw, m.browser, m.context, m.page = pw, b, bctx, p
	m.logger.Info("Browser started",
		zap.String("type", m.cfg.Type),
		zap.Bool("headless", m.cfg.Headless))
	return nil
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
}

// Navigate loads rawURL, adding https:// when no scheme is present, and
// returns the URL actually requested. A status outside [200,400) is a
// *StatusError.
func (m *Manager) Navigate(ctx context.Context, rawURL string, opts NavigateOptions) (string, error) {
	if !m.Started() {
		return "", ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := NormalizeURL(rawURL)
	if target != strings.TrimSpace(rawURL) {
		m.logger.Info("Added https prefix to URL", zap.String("url", target))
	}

	if opts.Timeout <= 0 {
		opts.Timeout = m.cfg.NavigationTimeout
	}
	if opts.WaitUntil == "" {
		opts.WaitUntil = m.cfg.WaitUntil
	}
	waitUntil := playwright.WaitUntilState(opts.WaitUntil)

	m.logger.Info("Navigating", zap.String("url", target), zap.String("wait_until", opts.WaitUntil))
	resp, err := m.page.Goto(target, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(opts.Timeout.Milliseconds())),
		WaitUntil: &waitUntil,
	})
	if err != nil {
		return target, fmt.Errorf("navigation failed: %w", err)
	}
	if resp == nil {
		return target, ErrNoResponse
	}
	if status := resp.Status(); !StatusOK(status) {
		return target, &StatusError{URL: target, Status: status}
	}
	return target, nil
}

// Page returns the resolver view of the active page.
func (m *Manager) Page() (page.Page, error) {
	if !m.Started() {
		return nil, ErrNotStarted
	}
	return page.Wrap(m.page), nil
}

// Stop closes the browser and the driver. Stopping a manager that never
// started succeeds.
func (m *Manager) Stop(ctx context.Context) error {
	var errs []error
	if m.context != nil {
		if err := m.context.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	m.pw, m.browser, m.context, m.page = nil, nil, nil, nil

	if len(errs) > 0 {
		return fmt.Errorf("failed to stop browser: %w", errors.Join(errs...))
	}
	m.logger.Info("Browser session stopped")
	return nil
}
