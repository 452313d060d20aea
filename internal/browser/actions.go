package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/config"
	"github.com/nbenliogludev/webmancer/internal/page"
	"github.com/nbenliogludev/webmancer/internal/resolver"
)

// Driver is the session backend used by Actions. *Manager implements it.
type Driver interface {
	Start(ctx context.Context) error
	Navigate(ctx context.Context, rawURL string, opts NavigateOptions) (string, error)
	Page() (page.Page, error)
	Stop(ctx context.Context) error
}

// Actions is the surface exposed to the orchestration layer. Every
// operation reports success as a bool; the failure detail is kept in
// LastError and in the logs.
type Actions struct {
	driver  Driver
	clicker *resolver.ClickResolver
	filler  *resolver.FillResolver
	log     *ActionLog
	cfg     config.BrowserConfig
	logger  *zap.Logger

	mu        sync.Mutex
	lastError string
}

func NewActions(driver Driver, cfg config.BrowserConfig, logger *zap.Logger) *Actions {
	return &Actions{
		driver:  driver,
		clicker: resolver.NewClickResolver(logger),
		filler:  resolver.NewFillResolver(logger),
		log:     NewActionLog(),
		cfg:     cfg,
		logger:  logger.Named("actions"),
	}
}

// LastError returns the detail of the most recent failure.
func (a *Actions) LastError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastError
}

// History returns the commands that succeeded, in call order.
func (a *Actions) History() []string {
	return a.log.History()
}

func (a *Actions) fail(msg string, err error) bool {
	detail := msg
	if err != nil {
		detail = fmt.Sprintf("%s: %v", msg, err)
	}
	a.mu.Lock()
	a.lastError = detail
	a.mu.Unlock()
	return false
}

func (a *Actions) sessionFailure(msg string, err error) bool {
	a.logger.Error(msg, zap.Error(err))
	return a.fail(msg, err)
}

func (a *Actions) StartSession(ctx context.Context) bool {
	if err := a.driver.Start(ctx); err != nil {
		return a.sessionFailure("failed to start browser session", err)
	}
	return true
}

func (a *Actions) StopSession(ctx context.Context) bool {
	if err := a.driver.Stop(ctx); err != nil {
		return a.sessionFailure("failed to stop browser session", err)
	}
	return true
}

// Navigate opens url. A missing scheme becomes https:// and the recorded
// entry carries the rewritten URL.
func (a *Actions) Navigate(ctx context.Context, url string, opts NavigateOptions) bool {
	target, err := a.driver.Navigate(ctx, url, opts)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			a.logger.Warn("Navigation returned error status",
				zap.String("url", statusErr.URL), zap.Int("status", statusErr.Status))
			return a.fail("navigation failed", err)
		}
		return a.sessionFailure("navigation failed", err)
	}
	a.log.Record(fmt.Sprintf("navigate('%s')", target))
	return true
}

// ClickByDescription clicks the first element the click cascade resolves.
func (a *Actions) ClickByDescription(ctx context.Context, description string) bool {
	p, err := a.driver.Page()
	if err != nil {
		return a.sessionFailure("no page to click on", err)
	}
	res := a.clicker.Resolve(ctx, p, description)
	if !res.Success {
		return a.fail(res.Err, nil)
	}
	a.log.Record(fmt.Sprintf("click('%s')", description))
	return true
}

// FillByDescription fills the field the fill cascade resolves. The filled
// text is not recorded.
func (a *Actions) FillByDescription(ctx context.Context, field, text string) bool {
	p, err := a.driver.Page()
	if err != nil {
		return a.sessionFailure("no page to fill on", err)
	}
	res := a.filler.Resolve(ctx, p, field, text)
	if !res.Success {
		return a.fail(res.Err, nil)
	}
	a.log.Record(fmt.Sprintf("fill('%s')", field))
	return true
}

// TypeText sends text one character at a time with delay between
// keystrokes. A non-positive delay uses the configured typing delay.
func (a *Actions) TypeText(ctx context.Context, text string, delay time.Duration) bool {
	if delay <= 0 {
		delay = a.cfg.TypeDelay
	}
	p, err := a.driver.Page()
	if err != nil {
		return a.sessionFailure("no page to type on", err)
	}
	kb := p.Keyboard()
	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return a.fail("typing interrupted", err)
		}
		if err := kb.Type(string(r), delay); err != nil {
			a.logger.Warn("Typing failed", zap.Error(err))
			return a.fail("typing failed", err)
		}
	}
	a.log.Record(fmt.Sprintf("type_text('%s')", text))
	return true
}

// PressKey sends a single key, for example "Enter", with the configured
// settle delay.
func (a *Actions) PressKey(ctx context.Context, key string) bool {
	if err := ctx.Err(); err != nil {
		return a.fail("key press interrupted", err)
	}
	p, err := a.driver.Page()
	if err != nil {
		return a.sessionFailure("no page for key press", err)
	}
	if err := p.Keyboard().Press(key, a.cfg.KeyPressDelay); err != nil {
		a.logger.Warn("Key press failed", zap.String("key", key), zap.Error(err))
		return a.fail("key press failed", err)
	}
	a.log.Record(fmt.Sprintf("press_key('%s')", key))
	return true
}
