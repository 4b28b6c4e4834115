// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/webdog/internal/config"
)

// Session is a single Chrome tab driven over CDP. It implements Driver.
// The test runner serializes steps within a scenario, so the session is
// implicitly exclusive to the currently executing step.
type Session struct {
	id     string
	cfg    *config.Config
	logger *zap.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	mu       sync.Mutex
	isClosed bool
}

var _ Driver = (*Session)(nil)

// NewSession creates a Session wrapper. Start must be called before use.
func NewSession(cfg *config.Config, logger *zap.Logger) *Session {
	sessionID := uuid.New().String()
	return &Session{
		id:     sessionID,
		cfg:    cfg,
		logger: logger.Named("session").With(zap.String("session_id", sessionID)),
	}
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// Start launches the browser process and connects the CDP target.
func (s *Session) Start(ctx context.Context) error {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", s.cfg.Browser.Headless),
		chromedp.WindowSize(s.cfg.Browser.WindowWidth, s.cfg.Browser.WindowHeight),
	)
	if s.cfg.Browser.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}

	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	s.ctx, s.cancel = chromedp.NewContext(s.allocCtx)

	// An empty Run forces target creation so later failures surface here.
	if err := chromedp.Run(s.ctx); err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}

	s.logger.Debug("Browser session started.", zap.Bool("headless", s.cfg.Browser.Headless))
	return nil
}

// Close terminates the browser session gracefully. Safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	return nil
}

// Navigate loads the specified URL and waits for the document body.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating to URL", zap.String("url", url))

	navTimeout := s.cfg.Browser.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 90 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	if err := s.runActions(navCtx, chromedp.Navigate(url)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %q timed out after %s: %w", url, navTimeout, err)
		}
		return fmt.Errorf("navigation to %q failed: %w", url, err)
	}

	// Stabilize: a page whose body never appears is unusable anyway, but
	// the failure belongs to the first step that touches it, not here.
	if err := s.runActions(navCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		s.logger.Warn("Page did not become ready after navigation.", zap.String("url", url), zap.Error(err))
	}
	return nil
}

// Location returns the current page URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.runActions(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read page URL: %w", err)
	}
	return url, nil
}

// PageSource returns the serialized markup of the current page.
func (s *Session) PageSource(ctx context.Context) (string, error) {
	var source string
	if err := s.runActions(ctx, chromedp.OuterHTML("html", &source, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture page source: %w", err)
	}
	return source, nil
}

// WaitDisplayed blocks until the element is visible or the timeout elapses.
func (s *Session) WaitDisplayed(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.runActions(waitCtx, chromedp.WaitVisible(selector, s.queryFor(selector))); err != nil {
		return fmt.Errorf("element %q was not displayed within %s: %w", selector, timeout, err)
	}
	return nil
}

// WaitClickable blocks until the element is visible and enabled.
func (s *Session) WaitClickable(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.runActions(waitCtx,
		chromedp.WaitVisible(selector, s.queryFor(selector)),
		chromedp.WaitEnabled(selector, s.queryFor(selector)),
	)
	if err != nil {
		return fmt.Errorf("element %q was not clickable within %s: %w", selector, timeout, err)
	}
	return nil
}

// Click clicks the first element matching the selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	s.logger.Debug("Clicking element", zap.String("selector", selector))

	if err := s.runActions(ctx, chromedp.Click(selector, s.queryFor(selector))); err != nil {
		return fmt.Errorf("click failed for selector %q: %w", selector, err)
	}
	return nil
}

// ClearInput focuses the element and erases its value with a select-all
// plus delete key sequence, so frameworks listening for key events see
// the clear happen.
func (s *Session) ClearInput(ctx context.Context, selector string) error {
	s.logger.Debug("Clearing element", zap.String("selector", selector))

	err := s.runActions(ctx,
		chromedp.Click(selector, s.queryFor(selector)),
		chromedp.KeyEvent("a", chromedp.KeyModifiers(input.ModifierCtrl)),
		chromedp.KeyEvent(kb.Delete),
	)
	if err != nil {
		return fmt.Errorf("clear failed for selector %q: %w", selector, err)
	}
	return nil
}

// SendKeys types the literal text into the element.
func (s *Session) SendKeys(ctx context.Context, selector, text string) error {
	s.logger.Debug("Typing into element", zap.String("selector", selector), zap.Int("text_length", len(text)))

	if err := s.runActions(ctx, chromedp.SendKeys(selector, text, s.queryFor(selector))); err != nil {
		return fmt.Errorf("type failed for selector %q: %w", selector, err)
	}
	return nil
}

// PressKey dispatches a single key code to the focused element.
func (s *Session) PressKey(ctx context.Context, code string) error {
	if err := s.runActions(ctx, chromedp.KeyEvent(code)); err != nil {
		return fmt.Errorf("key dispatch failed: %w", err)
	}
	return nil
}

// Text returns the element's visible text.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := s.runActions(ctx, chromedp.Text(selector, &text, s.queryFor(selector))); err != nil {
		return "", fmt.Errorf("failed to read text of %q: %w", selector, err)
	}
	return text, nil
}

// Attribute returns the named attribute value and whether it exists.
func (s *Session) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	var value string
	var ok bool
	if err := s.runActions(ctx, chromedp.AttributeValue(selector, name, &value, &ok, s.queryFor(selector))); err != nil {
		return "", false, fmt.Errorf("failed to read attribute %q of %q: %w", name, selector, err)
	}
	return value, ok, nil
}

// Screenshot captures the current viewport as PNG bytes.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.runActions(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot capture failed: %w", err)
	}
	return buf, nil
}

// queryFor picks the chromedp query option for a selector: XPath
// expressions (as produced by the dom package) use the DOM search API,
// everything else is a CSS query.
func (s *Session) queryFor(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// runActions executes chromedp actions, ensuring they respect both the
// session lifetime (s.ctx) and the incoming step context.
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}
