package browser

import (
	"context"
	"errors"
	"rental-autotest/internal/config"
	"rental-autotest/internal/ports"
	"rental-autotest/pkg/apperr"
	"rental-autotest/pkg/logg"
	"rental-autotest/pkg/tracing"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const sessionName = "BrowserSession"

var errSessionClosed = errors.New("browser session is closed")

// Session is one browser instance driven through its primary page.
type Session struct {
	id             uuid.UUID
	config         *config.Config
	logger         *zap.Logger
	tracer         trace.Tracer
	browser        playwright.Browser
	browserContext playwright.BrowserContext
	page           playwright.Page

	mu     sync.Mutex
	closed bool
}

var _ ports.BrowserSession = (*Session)(nil)

func newSession(
	id uuid.UUID,
	conf *config.Config,
	logger *zap.Logger,
	tracer trace.Tracer,
	browser playwright.Browser,
	browserContext playwright.BrowserContext,
	page playwright.Page,
) *Session {
	return &Session{
		id:             id,
		config:         conf,
		logger:         logger.With(zap.String(logg.Layer, sessionName), zap.String("session_id", id.String())),
		tracer:         tracer,
		browser:        browser,
		browserContext: browserContext,
		page:           page,
	}
}

func (s *Session) ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.closed
}

// interact runs fn against the primary page inside a span, wrapping any
// failure with the selector it concerned.
func (s *Session) interact(ctx context.Context, op, selector, reason string, fn func() error) (err error) {
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("selector", selector))
	defer func() {
		step.End(err)
	}()

	if !s.ready() {
		return apperr.Wrap(op, apperr.CodeBrowserNotReady, errSessionClosed, map[string]any{
			apperr.MetaReason:   "browser_not_ready",
			apperr.MetaSelector: selector,
		})
	}

	if err := fn(); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason:   reason,
			apperr.MetaStage:    apperr.StageInteraction,
			apperr.MetaSelector: selector,
		})
	}

	logger.Debug("Interaction completed")

	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) (err error) {
	const op = "Navigate"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	if !s.ready() {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	step.AddEvent("navigating to URL")

	_, err = s.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(s.config.BrowserConfig.Timeout)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "goto_failed",
			apperr.MetaStage:  apperr.StageNavigation,
			apperr.MetaURL:    url,
		})
	}

	step.AddEvent("navigation completed")

	return nil
}

func (s *Session) Click(ctx context.Context, selector string) error {
	return s.interact(ctx, "Click", selector, "click_failed", func() error {
		return s.page.Locator(selector).Click()
	})
}

func (s *Session) Fill(ctx context.Context, selector, value string) error {
	return s.interact(ctx, "Fill", selector, "fill_failed", func() error {
		return s.page.Locator(selector).Fill(value)
	})
}

func (s *Session) SelectOption(ctx context.Context, selector, value string) error {
	return s.interact(ctx, "SelectOption", selector, "select_failed", func() error {
		_, err := s.page.Locator(selector).SelectOption(playwright.SelectOptionValues{
			Values: playwright.StringSlice(value),
		})

		return err
	})
}

func (s *Session) Check(ctx context.Context, selector string) error {
	return s.interact(ctx, "Check", selector, "check_failed", func() error {
		return s.page.Locator(selector).Check()
	})
}

func (s *Session) ScrollIntoView(ctx context.Context, selector string) error {
	return s.interact(ctx, "ScrollIntoView", selector, "scroll_failed", func() error {
		return s.page.Locator(selector).ScrollIntoViewIfNeeded()
	})
}

func (s *Session) TextContent(ctx context.Context, selector string) (text string, err error) {
	err = s.interact(ctx, "TextContent", selector, "text_content_failed", func() error {
		text, err = s.page.Locator(selector).TextContent()

		return err
	})

	return text, err
}

// InputValue reads the current value of a form control.
func (s *Session) InputValue(ctx context.Context, selector string) (value string, err error) {
	err = s.interact(ctx, "InputValue", selector, "input_value_failed", func() error {
		value, err = s.page.Locator(selector).InputValue()

		return err
	})

	return value, err
}

// IsChecked reports whether a checkbox is ticked.
func (s *Session) IsChecked(ctx context.Context, selector string) (checked bool, err error) {
	err = s.interact(ctx, "IsChecked", selector, "is_checked_failed", func() error {
		checked, err = s.page.Locator(selector).IsChecked()

		return err
	})

	return checked, err
}

func (s *Session) ExpectView(ctx context.Context, trigger func() error) (view ports.View, err error) {
	const op = "ExpectView"
	logger := s.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if !s.ready() {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	page, err := s.browserContext.ExpectPage(trigger)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "spawned_view_missing",
			apperr.MetaStage:  apperr.StageNavigation,
		})
	}

	step.SetAttributes(attribute.String("url", page.URL()))
	logger.Debug("Spawned view opened", zap.String(logg.URL, page.URL()))

	return &tab{page: page, fullPage: s.config.ScreenshotConfig.FullPage}, nil
}

func (s *Session) AcceptDialogs(ctx context.Context) ports.DialogRecorder {
	rec := &dialogRecorder{}
	logger := s.logger.With(zap.String(logg.Operation, "AcceptDialogs"))

	s.page.OnDialog(func(d playwright.Dialog) {
		rec.record(d.Message())

		if err := d.Accept(); err != nil {
			logger.Warn("Failed to accept dialog", zap.Error(err))
		}
	})

	return rec
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	if !s.ready() {
		return nil, errSessionClosed
	}

	return screenshotPage(s.page, s.config.ScreenshotConfig.FullPage)
}

func (s *Session) URL() string {
	return s.page.URL()
}

// Close tears down the browser context and the browser. It is safe to call
// more than once.
func (s *Session) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := s.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.browserContext.Close(); err != nil {
		logger.Warn("Failed to close context", zap.Error(err))
	}

	if err := s.browser.Close(); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "browser_close_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	logger.Debug("Browser session closed")

	return nil
}

type tab struct {
	page     playwright.Page
	fullPage bool
}

func (t *tab) Screenshot(ctx context.Context) ([]byte, error) {
	return screenshotPage(t.page, t.fullPage)
}

func (t *tab) URL() string {
	return t.page.URL()
}

func (t *tab) Close(ctx context.Context) error {
	if t.page.IsClosed() {
		return nil
	}

	return t.page.Close()
}

func screenshotPage(page playwright.Page, fullPage bool) ([]byte, error) {
	return page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(fullPage),
		Type:     playwright.ScreenshotTypePng,
	})
}

type dialogRecorder struct {
	mu      sync.Mutex
	message string
}

func (r *dialogRecorder) record(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.message = message
}

func (r *dialogRecorder) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.message
}
