package browser

import (
	"context"
	"rental-autotest/internal/config"
	"rental-autotest/internal/ports"
	"rental-autotest/pkg/apperr"
	"rental-autotest/pkg/logg"
	"rental-autotest/pkg/tracing"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	browserManagerName = "BrowserManager"
	browserTracer      = "browser.manager"
)

// Manager owns the playwright driver. Every Open launches a fresh browser
// so runs never share state.
type Manager struct {
	config     *config.Config
	logger     *zap.Logger
	tracer     trace.Tracer
	mu         sync.Mutex
	playwright *playwright.Playwright
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewManager(params Params) *Manager {
	return &Manager{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, browserManagerName)),
		tracer: otel.Tracer(browserTracer),
	}
}

var _ ports.BrowserLauncher = (*Manager)(nil)

// Start installs (if configured) and starts the playwright driver.
func (m *Manager) Start(ctx context.Context) (err error) {
	const op = "Start"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.startLocked(logger, step)
}

func (m *Manager) startLocked(logger *zap.Logger, step *tracing.Span) error {
	const op = "Start"

	if m.playwright != nil {
		return nil
	}

	if m.config.BrowserConfig.Install {
		logger.Info("Installing playwright browsers...")
		step.AddEvent("installing playwright")

		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "playwright_install_failed",
				apperr.MetaStage:  apperr.StageBrowser,
			})
		}
	}

	step.AddEvent("starting playwright")

	pw, err := playwright.Run()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_start_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	m.playwright = pw
	logger.Info("Playwright driver started")

	return nil
}

// Open launches a new browser with one page. The caller must Close it.
func (m *Manager) Open(ctx context.Context) (session ports.BrowserSession, err error) {
	const op = "Open"
	logger := m.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op,
		attribute.Bool("headless", m.config.BrowserConfig.Headless))
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	if err := m.startLocked(logger, step); err != nil {
		m.mu.Unlock()

		return nil, err
	}
	pw := m.playwright
	m.mu.Unlock()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.config.BrowserConfig.Headless),
		SlowMo:   playwright.Float(float64(m.config.BrowserConfig.SlowMo)),
	})
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeUnavailable, err, map[string]any{
			apperr.MetaReason: "browser_launch_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		AcceptDownloads:   playwright.Bool(false),
		JavaScriptEnabled: playwright.Bool(true),
	})
	if err != nil {
		_ = browser.Close()

		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "context_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	browserContext.SetDefaultTimeout(float64(m.config.BrowserConfig.Timeout))

	page, err := browserContext.NewPage()
	if err != nil {
		_ = browserContext.Close()
		_ = browser.Close()

		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	id := uuid.New()
	step.SetAttributes(attribute.String("session_id", id.String()))
	logger.Debug("Browser session opened", zap.String("session_id", id.String()))

	return newSession(id, m.config, m.logger, m.tracer, browser, browserContext, page), nil
}

// Stop shuts the playwright driver down. Open sessions must be closed first.
func (m *Manager) Stop(ctx context.Context) (err error) {
	const op = "Stop"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playwright == nil {
		return nil
	}

	if err := m.playwright.Stop(); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_stop_failed",
		})
	}

	m.playwright = nil
	logger.Info("Playwright driver stopped")

	return nil
}
